package command

import (
	"strings"
	"time"

	"notecal/internal/model"
)

// DefaultTime is the start time used when an inline command supplies none.
const DefaultTime = "09:00"

// startLayout is the naive local timestamp carried in event payloads; the
// timezone travels as a separate field, never embedded in the timestamp.
const startLayout = "2006-01-02T15:04:05"

// BuildEvent combines a parsed command with defaults into a
// calendar-service-ready event payload.
//
// Missing date defaults to today's local date, missing time to DefaultTime,
// missing duration to defaultDurationMinutes. The end timestamp is start
// plus the duration, with day/month/year boundaries rolled over correctly.
func BuildEvent(parsed *model.ParsedCommand, now time.Time, timezone string, defaultDurationMinutes int) model.Event {
	date := parsed.Date
	if date == "" {
		date = now.Format("2006-01-02")
	}
	clock := parsed.Time
	if clock == "" {
		clock = DefaultTime
	}
	duration := parsed.DurationMinutes
	if duration <= 0 {
		duration = defaultDurationMinutes
	}

	start := date + "T" + clock + ":00"
	end := start
	if t, err := time.Parse(startLayout, start); err == nil {
		end = t.Add(time.Duration(duration) * time.Minute).Format(startLayout)
	}

	ev := model.Event{
		Summary: parsed.Title,
		Start:   model.EventDateTime{DateTime: start, TimeZone: timezone},
		End:     model.EventDateTime{DateTime: end, TimeZone: timezone},
	}

	if parsed.Video != "" {
		ev.Description = "Video: " + string(parsed.Video)
	}

	for _, email := range parsed.Attendees {
		ev.Attendees = append(ev.Attendees, model.Attendee{Email: email})
	}

	return ev
}

// BuildCompletedLine rewrites the source line after a successful event
// creation: the command marker is removed and the remainder becomes a
// checked task.
func BuildCompletedLine(line string) string {
	cleaned := strings.TrimSpace(markerRe.ReplaceAllString(line, ""))
	if cleaned == "" {
		return "- [x]"
	}
	return "- [x] " + cleaned
}
