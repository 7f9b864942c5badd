package model

// EventDateTime is one endpoint of an event. DateTime is a naive local
// timestamp (`2006-01-02T15:04:05`) or an RFC3339 instant when it came from
// the remote service; the timezone travels in TimeZone, never embedded in
// the timestamp.
type EventDateTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone,omitempty"`
}

// Attendee is a single invited participant.
type Attendee struct {
	Email string `json:"email"`
}

// Event is an immutable calendar event value, either outgoing (built from a
// parsed command) or incoming (mapped from a remote list item).
type Event struct {
	ID          string        `json:"id,omitempty"`
	Summary     string        `json:"summary"`
	Description string        `json:"description,omitempty"`
	Start       EventDateTime `json:"start"`
	End         EventDateTime `json:"end"`
	Attendees   []Attendee    `json:"attendees,omitempty"`
}

// VideoProvider is the conferencing service requested inline.
type VideoProvider string

const (
	VideoZoom  VideoProvider = "zoom"
	VideoMeet  VideoProvider = "meet"
	VideoTeams VideoProvider = "teams"
)

// ParsedCommand is the structured form of one inline /cal line. Zero values
// mean "not supplied"; the builder fills in defaults.
type ParsedCommand struct {
	Title           string
	Date            string // YYYY-MM-DD, or raw token when not today/tomorrow
	Time            string // HH:MM, or raw token when unrecognized
	DurationMinutes int    // 0 when not supplied
	Attendees       []string
	Video           VideoProvider
}

// CalendarListEntry is one calendar visible to the authenticated user.
type CalendarListEntry struct {
	ID              string `json:"id"`
	Summary         string `json:"summary"`
	Primary         bool   `json:"primary,omitempty"`
	BackgroundColor string `json:"backgroundColor,omitempty"`
}
