package notes

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTodayNotePath(t *testing.T) {
	now := time.Date(2024, 1, 15, 23, 59, 0, 0, time.Local)
	assert.Equal(t, filepath.Join("daily", "2024-01-15.md"), TodayNotePath("daily", now))

	// Single-digit months and days are zero-padded.
	now = time.Date(2024, 3, 5, 0, 0, 0, 0, time.Local)
	assert.Equal(t, filepath.Join("notes", "journal", "2024-03-05.md"), TodayNotePath("notes/journal", now))
}

func TestIsDailyNote(t *testing.T) {
	assert.True(t, IsDailyNote(filepath.Join("daily", "2024-01-15.md"), "daily"))
	assert.True(t, IsDailyNote(filepath.Join("daily", "sub", "x.md"), "daily"))
	assert.False(t, IsDailyNote("other/2024-01-15.md", "daily"))
	assert.False(t, IsDailyNote("2024-01-15.md", "daily"))
	assert.False(t, IsDailyNote("daily/2024-01-15.md", ""))
}

func TestDirVault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "2024-01-15.md")
	var v DirVault

	assert.False(t, v.Exists(path))
	_, err := v.Read(path)
	assert.Error(t, err)

	require.NoError(t, v.Write(path, "# Daily"))
	assert.True(t, v.Exists(path))

	content, err := v.Read(path)
	require.NoError(t, err)
	assert.Equal(t, "# Daily", content)

	// Directories are not notes.
	assert.False(t, v.Exists(dir))
}
