package command

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notecal/internal/model"
)

var fixedNow = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

func TestParseTime(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"9am", "09:00"},
		{"3pm", "15:00"},
		{"12pm", "12:00"},
		{"12am", "00:00"},
		{"9:30am", "09:30"},
		{"14:30", "14:30"},
		{"9AM", "09:00"},
		{"3PM", "15:00"},
		{"invalid", "invalid"},
		// Out-of-range digits still fit the grammar and are canonicalized
		// without validation.
		{"25:99am", "25:99"},
		// Three-digit hours fall outside the grammar and pass through.
		{"123:99am", "123:99am"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, ParseTime(tc.in), "ParseTime(%q)", tc.in)
	}
}

func TestParseDate(t *testing.T) {
	assert.Equal(t, "2024-01-15", ParseDate("today", fixedNow))
	assert.Equal(t, "2024-01-16", ParseDate("tomorrow", fixedNow))
	assert.Equal(t, "2024-01-15", ParseDate("TODAY", fixedNow))
	assert.Equal(t, "2024-01-16", ParseDate("Tomorrow", fixedNow))

	// Anything else passes through unvalidated.
	assert.Equal(t, "2024-03-20", ParseDate("2024-03-20", fixedNow))
	assert.Equal(t, "not-a-date", ParseDate("not-a-date", fixedNow))
}

func TestParseDateMonthRollover(t *testing.T) {
	eom := time.Date(2024, 1, 31, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-02-01", ParseDate("tomorrow", eom))
}

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 30, ParseDuration("30m"))
	assert.Equal(t, 120, ParseDuration("2h"))
	assert.Equal(t, 45, ParseDuration("45"))
	assert.Equal(t, 30, ParseDuration("30M"))
	assert.Equal(t, 120, ParseDuration("2H"))
	assert.Equal(t, 60, ParseDuration("invalid"))
	assert.Equal(t, 60, ParseDuration(""))

	// Total-order consistency across units.
	assert.Equal(t, ParseDuration("120m"), ParseDuration("2h"))
}

func TestCleanTitle(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"/cal Meeting", "Meeting"},
		{"Meeting date:today", "Meeting"},
		{"Meeting time:3pm", "Meeting"},
		{"Meeting duration:30m", "Meeting"},
		{"Meeting with:john@example.com", "Meeting"},
		{"Meeting video:zoom", "Meeting"},
		{"- [ ] /cal Meeting", "Meeting"},
		{"- [x] /cal Meeting", "Meeting"},
		{
			"/cal Team standup date:tomorrow time:9am duration:15m with:a@x.com,b@x.com video:zoom",
			"Team standup",
		},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, CleanTitle(tc.in), "CleanTitle(%q)", tc.in)
	}
}

func TestParseReturnsNilWithoutMarker(t *testing.T) {
	assert.Nil(t, Parse("just a plain note line", fixedNow))
	assert.Nil(t, Parse("- [ ] 9:00 AM - Standup", fixedNow))
}

func TestParseFullCommand(t *testing.T) {
	parsed := Parse("/cal Team standup date:tomorrow time:9am duration:15m with:a@x.com,b@x.com video:zoom", fixedNow)
	require.NotNil(t, parsed)

	assert.Equal(t, "Team standup", parsed.Title)
	assert.Equal(t, "2024-01-16", parsed.Date)
	assert.Equal(t, "09:00", parsed.Time)
	assert.Equal(t, 15, parsed.DurationMinutes)
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, parsed.Attendees)
	assert.Equal(t, model.VideoZoom, parsed.Video)
}

func TestParseTitleOnly(t *testing.T) {
	parsed := Parse("/cal Dentist appointment", fixedNow)
	require.NotNil(t, parsed)

	assert.Equal(t, "Dentist appointment", parsed.Title)
	assert.Empty(t, parsed.Date)
	assert.Empty(t, parsed.Time)
	assert.Zero(t, parsed.DurationMinutes)
	assert.Nil(t, parsed.Attendees)
	assert.Empty(t, parsed.Video)
}

func TestParseAttendeesNotTrimmed(t *testing.T) {
	// The parser splits on commas only; callers must not assume trimmed
	// values.
	parsed := Parse("/cal Sync with:a@x.com,b@x.com", fixedNow)
	require.NotNil(t, parsed)
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, parsed.Attendees)
}

func TestParseVideoRejectsUnknownProvider(t *testing.T) {
	parsed := Parse("/cal Sync video:skype", fixedNow)
	require.NotNil(t, parsed)
	assert.Empty(t, parsed.Video)
}
