package command

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"notecal/internal/model"
)

// Marker is the literal token identifying a line as an event-creation
// request.
const Marker = "/cal"

// Parameter patterns. Each is matched independently against the whole
// line; the title is whatever remains after stripping all of them.
var (
	markerRe   = regexp.MustCompile(`(?i)/cal\s*`)
	dateRe     = regexp.MustCompile(`(?i)\bdate:(\S+)`)
	timeRe     = regexp.MustCompile(`(?i)\btime:(\S+)`)
	durationRe = regexp.MustCompile(`(?i)\bduration:(\S+)`)
	withRe     = regexp.MustCompile(`(?i)\bwith:(\S+)`)
	videoRe    = regexp.MustCompile(`(?i)\bvideo:(zoom|meet|teams)\b`)

	// checkboxRe strips a leading Markdown checkbox marker of any state.
	checkboxRe = regexp.MustCompile(`^-\s*\[.\]\s*`)

	clockRe = regexp.MustCompile(`^(\d{1,2})(?::(\d{2}))?(am|pm)?$`)
	durRe   = regexp.MustCompile(`^(\d+)([mh])?$`)
)

// ParseTime canonicalizes a time token to zero-padded 24-hour "HH:MM".
// Accepted forms: "H", "H:MM", optionally suffixed am/pm (case-insensitive);
// "12am" is midnight, "12pm" is noon. Unrecognized input is returned
// unchanged, so callers must tolerate a non-canonical time string.
func ParseTime(tok string) string {
	lower := strings.ToLower(tok)
	m := clockRe.FindStringSubmatch(lower)
	if m == nil {
		return tok
	}

	hours, _ := strconv.Atoi(m[1])
	minutes := m[2]
	if minutes == "" {
		minutes = "00"
	}

	switch m[3] {
	case "pm":
		if hours < 12 {
			hours += 12
		}
	case "am":
		if hours == 12 {
			hours = 0
		}
	}

	return fmt.Sprintf("%02d:%s", hours, minutes)
}

// ParseDate resolves the literal tokens "today" and "tomorrow"
// (case-insensitive) against now into YYYY-MM-DD. Any other token passes
// through unchanged; it is assumed to already be ISO-formatted and is not
// validated.
func ParseDate(tok string, now time.Time) string {
	switch strings.ToLower(tok) {
	case "today":
		return now.Format("2006-01-02")
	case "tomorrow":
		return now.AddDate(0, 0, 1).Format("2006-01-02")
	}
	return tok
}

// ParseDuration parses "N", "Nm" or "Nh" (case-insensitive) into minutes.
// Unparseable input defaults to 60.
func ParseDuration(tok string) int {
	m := durRe.FindStringSubmatch(strings.ToLower(tok))
	if m == nil {
		return 60
	}
	value, _ := strconv.Atoi(m[1])
	if m[2] == "h" {
		return value * 60
	}
	return value
}

// CleanTitle strips the command marker, every recognized parameter token
// and any leading checkbox marker, then trims whitespace. The result is
// the free-text event title.
func CleanTitle(line string) string {
	out := markerRe.ReplaceAllString(line, "")
	out = dateRe.ReplaceAllString(out, "")
	out = timeRe.ReplaceAllString(out, "")
	out = durationRe.ReplaceAllString(out, "")
	out = withRe.ReplaceAllString(out, "")
	out = videoRe.ReplaceAllString(out, "")
	out = checkboxRe.ReplaceAllString(out, "")
	return strings.TrimSpace(out)
}

// Parse turns one line of note text into a structured event-creation
// request. It returns nil when the line does not contain the command
// marker. now is only consulted for the relative date literals.
func Parse(line string, now time.Time) *model.ParsedCommand {
	if !strings.Contains(line, Marker) {
		return nil
	}

	cmd := &model.ParsedCommand{Title: CleanTitle(line)}

	if m := dateRe.FindStringSubmatch(line); m != nil {
		cmd.Date = ParseDate(m[1], now)
	}
	if m := timeRe.FindStringSubmatch(line); m != nil {
		cmd.Time = ParseTime(m[1])
	}
	if m := durationRe.FindStringSubmatch(line); m != nil {
		cmd.DurationMinutes = ParseDuration(m[1])
	}
	if m := withRe.FindStringSubmatch(line); m != nil {
		// Split only; surrounding whitespace is deliberately kept, so
		// callers should not assume trimmed values.
		cmd.Attendees = strings.Split(m[1], ",")
	}
	if m := videoRe.FindStringSubmatch(line); m != nil {
		cmd.Video = model.VideoProvider(strings.ToLower(m[1]))
	}

	return cmd
}
