package notes

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	appLog "notecal/internal/log"
)

// taskLineRe matches an open task line whose body starts with a clock time,
// e.g. "- [ ] 9:00 AM - Standup".
var taskLineRe = regexp.MustCompile(`(?i)^- \[ \] (\d{1,2}:\d{2}\s*(?:AM|PM)?)`)

// ParseEventTime extracts the leading clock time from an open task line and
// anchors it to now's local calendar date. ok is false for lines that do
// not match the task-with-time shape.
func ParseEventTime(line string, now time.Time) (time.Time, bool) {
	m := taskLineRe.FindStringSubmatch(line)
	if m == nil {
		return time.Time{}, false
	}

	fields := strings.Fields(m[1])
	clock := fields[0]
	period := ""
	if len(fields) > 1 {
		period = strings.ToUpper(fields[1])
	}

	parts := strings.SplitN(clock, ":", 2)
	hour, _ := strconv.Atoi(parts[0])
	minute, _ := strconv.Atoi(parts[1])

	if period == "PM" && hour < 12 {
		hour += 12
	}
	if period == "AM" && hour == 12 {
		hour = 0
	}

	return time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location()), true
}

// MarkLineComplete rewrites the line's first "- [ ]" to "- [x]".
func MarkLineComplete(line string) string {
	return strings.Replace(line, "- [ ]", "- [x]", 1)
}

// ProcessContent marks every timed open task strictly before now as
// complete. modified reports whether any line changed.
func ProcessContent(content string, now time.Time) (updated string, modified bool) {
	lines := strings.Split(content, "\n")

	for i, line := range lines {
		eventTime, ok := ParseEventTime(line, now)
		if !ok || !eventTime.Before(now) {
			continue
		}
		done := MarkLineComplete(line)
		if done != line {
			lines[i] = done
			modified = true
		}
	}

	return strings.Join(lines, "\n"), modified
}

// Controller runs the auto-complete poller: idle, Start moves it to
// scheduled (a recurring tick), Stop back to idle. Cancellation is
// cooperative; the context is checked both before a tick's work and before
// the next tick is armed, and Stop waits for the loop goroutine, so no
// file write begins after Stop returns. Ticks are chained through a single
// timer rather than a fixed-rate clock, so they never overlap.
type Controller struct {
	vault    Vault
	folder   string
	interval time.Duration
	now      func() time.Time

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewController creates a stopped controller polling the given folder.
func NewController(vault Vault, folder string, interval time.Duration) *Controller {
	return &Controller{
		vault:    vault,
		folder:   folder,
		interval: interval,
		now:      time.Now,
	}
}

// Start begins polling. Calling Start on a running controller is a no-op.
func (c *Controller) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.done = make(chan struct{})
	go c.run(ctx, c.done)

	appLog.Info("auto-complete polling started", "folder", c.folder, "interval", c.interval)
}

// Stop cancels polling and waits for any in-flight tick to finish.
// Calling Stop on an idle controller is a no-op.
func (c *Controller) Stop() {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.cancel, c.done = nil, nil
	c.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done

	appLog.Info("auto-complete polling stopped", "folder", c.folder)
}

// run is the tick loop. The first tick fires immediately; each subsequent
// tick is armed only after the previous one's work completes.
func (c *Controller) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		if ctx.Err() != nil {
			return
		}
		c.tick()
		if ctx.Err() != nil {
			return
		}
		timer.Reset(c.interval)
	}
}

// tick processes today's note once. Errors fail only this tick; the next
// one proceeds independently.
func (c *Controller) tick() {
	now := c.now()
	path := TodayNotePath(c.folder, now)

	if !c.vault.Exists(path) {
		return
	}

	content, err := c.vault.Read(path)
	if err != nil {
		appLog.Error("auto-complete read failed", err, "path", path)
		return
	}

	updated, modified := ProcessContent(content, now)
	if !modified {
		return
	}

	if err := c.vault.Write(path, updated); err != nil {
		appLog.Error("auto-complete write failed", err, "path", path)
		return
	}
	appLog.Info("auto-completed passed events", "path", path)
}
