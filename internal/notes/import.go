package notes

import (
	"context"
	"strings"
	"time"

	"notecal/internal/config"
	appLog "notecal/internal/log"
	"notecal/internal/model"
)

// ImportConfig carries the per-import parameters; it is not stored beyond
// the call.
type ImportConfig struct {
	ScheduleHeading string
	EventFormat     string // config.FormatTask or config.FormatBullet
	Timezone        string
	Calendars       []string
}

// EventLister is the calendar-client surface the importer needs.
type EventLister interface {
	FetchTodayEvents(ctx context.Context, timezone string, calendarIDs []string) ([]model.Event, error)
}

// startLayouts are the timestamp forms an event start may arrive in.
var startLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// FormatEventTime renders an event start as 12-hour clock text with a
// zero-suppressed hour and AM/PM suffix ("9:00 AM", "2:30 PM", noon is
// "12:00 PM", midnight "12:00 AM"). Unparsable input passes through.
func FormatEventTime(dateTime string) string {
	for _, layout := range startLayouts {
		if t, err := time.Parse(layout, dateTime); err == nil {
			return t.Format("3:04 PM")
		}
	}
	return dateTime
}

// FormatEventLine converts one fetched event into a note-text line.
func FormatEventLine(ev model.Event, format string) string {
	prefix := "- [ ]"
	if format == config.FormatBullet {
		prefix = "-"
	}
	return prefix + " " + FormatEventTime(ev.Start.DateTime) + " - " + ev.Summary
}

// headingLevel returns the length of a line's leading '#' run, 0 for
// non-heading lines.
func headingLevel(line string) int {
	n := 0
	for n < len(line) && line[n] == '#' {
		n++
	}
	return n
}

// FindHeadingRegion locates the region owned by the target heading: the
// heading line itself (exact trim-match only) through to the first
// subsequent heading of the same or higher level (exclusive), or end of
// file. ok is false when the heading never appears. Deeper headings belong
// to the region and do not end it.
func FindHeadingRegion(content, heading string) (start, end int, ok bool) {
	lines := strings.Split(content, "\n")
	level := headingLevel(heading)

	start = -1
	end = -1

	for i, line := range lines {
		if strings.TrimSpace(line) == strings.TrimSpace(heading) && start == -1 {
			start = i
			continue
		}
		if start != -1 {
			if l := headingLevel(line); l > 0 && l <= level {
				end = i
				break
			}
		}
	}

	if start == -1 {
		return 0, 0, false
	}
	if end == -1 {
		end = len(lines)
	}
	return start, end, true
}

// BuildContent splices the event lines into the heading's region. When the
// region exists the new lines land immediately after the heading, followed
// by one blank line, and the region's previous body is pushed down behind
// them; repeated imports therefore stack blocks rather than merge. When the
// heading is absent, a blank line, the heading, the event lines and a
// trailing blank are appended to the end of the file.
func BuildContent(content string, eventLines []string, heading string) string {
	lines := strings.Split(content, "\n")

	if start, _, ok := FindHeadingRegion(content, heading); ok {
		out := make([]string, 0, len(lines)+len(eventLines)+1)
		out = append(out, lines[:start+1]...)
		out = append(out, eventLines...)
		out = append(out, "")
		out = append(out, lines[start+1:]...)
		return strings.Join(out, "\n")
	}

	out := []string{content, "", heading}
	out = append(out, eventLines...)
	out = append(out, "")
	return strings.Join(out, "\n")
}

// ImportDailyEvents fetches today's events and splices them into the note
// at path. When the fetch returns nothing the file is neither read nor
// written.
func ImportDailyEvents(ctx context.Context, client EventLister, vault Vault, path string, cfg ImportConfig) error {
	events, err := client.FetchTodayEvents(ctx, cfg.Timezone, cfg.Calendars)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		appLog.Debug("no events today, skipping import", "path", path)
		return nil
	}

	content, err := vault.Read(path)
	if err != nil {
		return err
	}

	eventLines := make([]string, 0, len(events))
	for _, ev := range events {
		eventLines = append(eventLines, FormatEventLine(ev, cfg.EventFormat))
	}

	updated := BuildContent(content, eventLines, cfg.ScheduleHeading)
	if err := vault.Write(path, updated); err != nil {
		return err
	}

	appLog.Info("imported events", "path", path, "event_count", len(events))
	return nil
}
