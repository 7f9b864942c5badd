package notes

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var noonish = time.Date(2024, 1, 15, 14, 0, 0, 0, time.Local)

func TestParseEventTime(t *testing.T) {
	got, ok := ParseEventTime("- [ ] 9:00 AM - Standup", noonish)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 15, 9, 0, 0, 0, time.Local), got)

	got, ok = ParseEventTime("- [ ] 2:30 PM - Review", noonish)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 15, 14, 30, 0, 0, time.Local), got)

	got, ok = ParseEventTime("- [ ] 12:00 AM - Midnight", noonish)
	require.True(t, ok)
	assert.Equal(t, 0, got.Hour())

	got, ok = ParseEventTime("- [ ] 12:15 PM - Lunch", noonish)
	require.True(t, ok)
	assert.Equal(t, 12, got.Hour())

	// 24-hour times without a period are taken literally.
	got, ok = ParseEventTime("- [ ] 14:30 - Review", noonish)
	require.True(t, ok)
	assert.Equal(t, 14, got.Hour())
}

func TestParseEventTimeRejectsOtherLines(t *testing.T) {
	for _, line := range []string{
		"- [x] 9:00 AM - Already done",
		"- [ ] Standup",
		"9:00 AM - No checkbox",
		"- 9:00 AM - Bullet entry",
		"",
	} {
		_, ok := ParseEventTime(line, noonish)
		assert.False(t, ok, "line %q should not parse", line)
	}
}

func TestMarkLineComplete(t *testing.T) {
	assert.Equal(t, "- [x] 9:00 AM - Standup", MarkLineComplete("- [ ] 9:00 AM - Standup"))
	// First occurrence only.
	assert.Equal(t, "- [x] keep - [ ] this", MarkLineComplete("- [ ] keep - [ ] this"))
}

func TestProcessContentMarksPassedEvents(t *testing.T) {
	content := "# Daily\n" +
		"- [ ] 9:00 AM - Standup\n" +
		"- [ ] 2:30 PM - Review\n" +
		"- [x] 8:00 AM - Already done\n" +
		"free text"

	updated, modified := ProcessContent(content, noonish)
	require.True(t, modified)

	assert.Equal(t, "# Daily\n"+
		"- [x] 9:00 AM - Standup\n"+
		"- [ ] 2:30 PM - Review\n"+
		"- [x] 8:00 AM - Already done\n"+
		"free text", updated)
}

func TestProcessContentLeavesFutureEvents(t *testing.T) {
	morning := time.Date(2024, 1, 15, 8, 0, 0, 0, time.Local)
	content := "- [ ] 9:00 AM - Standup"

	updated, modified := ProcessContent(content, morning)
	assert.False(t, modified)
	assert.Equal(t, content, updated)
}

func TestProcessContentExactTimeIsNotPassed(t *testing.T) {
	at9 := time.Date(2024, 1, 15, 9, 0, 0, 0, time.Local)
	_, modified := ProcessContent("- [ ] 9:00 AM - Standup", at9)
	assert.False(t, modified)
}

func TestControllerTickMarksPassedEvents(t *testing.T) {
	path := TodayNotePath("daily", noonish)
	vault := newMemVault(map[string]string{
		path: "- [ ] 9:00 AM - Standup",
	})

	c := NewController(vault, "daily", time.Hour)
	c.now = func() time.Time { return noonish }

	c.tick()

	assert.Equal(t, "- [x] 9:00 AM - Standup", vault.files[path])
}

func TestControllerTickSkipsMissingFile(t *testing.T) {
	vault := newMemVault(nil)

	c := NewController(vault, "daily", time.Hour)
	c.now = func() time.Time { return noonish }

	c.tick()

	assert.Zero(t, vault.reads)
	assert.Zero(t, vault.writes)
}

func TestControllerTickSkipsWriteWhenUnchanged(t *testing.T) {
	path := TodayNotePath("daily", noonish)
	vault := newMemVault(map[string]string{
		path: "- [ ] 11:30 PM - Future",
	})

	c := NewController(vault, "daily", time.Hour)
	c.now = func() time.Time { return noonish }

	c.tick()

	assert.Equal(t, 1, vault.reads)
	assert.Zero(t, vault.writes)
}

func TestControllerStartStop(t *testing.T) {
	path := TodayNotePath("daily", noonish)
	vault := newMemVault(map[string]string{
		path: "- [ ] 9:00 AM - Standup",
	})

	c := NewController(vault, "daily", 5*time.Millisecond)
	c.now = func() time.Time { return noonish }

	c.Start()
	// Start is idempotent.
	c.Start()

	require.Eventually(t, func() bool {
		vault.mu.Lock()
		defer vault.mu.Unlock()
		return vault.files[path] == "- [x] 9:00 AM - Standup"
	}, time.Second, time.Millisecond)

	c.Stop()

	// After Stop returns no further tick may touch the vault.
	vault.mu.Lock()
	writes := vault.writes
	vault.mu.Unlock()

	time.Sleep(30 * time.Millisecond)

	vault.mu.Lock()
	assert.Equal(t, writes, vault.writes)
	vault.mu.Unlock()

	// Stop is idempotent.
	c.Stop()
}
