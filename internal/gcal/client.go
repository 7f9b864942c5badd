package gcal

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	appLog "notecal/internal/log"
	"notecal/internal/model"
)

const (
	tokenURL = "https://oauth2.googleapis.com/token"
	apiBase  = "https://www.googleapis.com/calendar/v3"

	// PrimaryCalendarID is the service's alias for the user's default
	// calendar.
	PrimaryCalendarID = "primary"

	// tokenTTL pins the cached access token lifetime. The token endpoint
	// reports expires_in, but the cache deliberately assumes a fixed hour
	// instead of trusting it; a stale guess only costs one extra refresh.
	tokenTTL = time.Hour

	// tokenExpiryBuffer forces a refresh slightly before the assumed
	// expiry so a token never goes stale mid-request.
	tokenExpiryBuffer = time.Minute
)

// Config holds the credentials the client needs. Owned by the settings
// layer; the client only reads it.
type Config struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	Timezone     string
}

// Client issues create/list requests to the calendar service, refreshing
// and caching a bearer token as needed. The token cache lives for the
// lifetime of one Client instance and is only reachable through
// AccessToken.
type Client struct {
	cfg  Config
	http *http.Client

	// baseURL / authURL are the service endpoints; tests point them at a
	// local server.
	baseURL string
	authURL string

	now func() time.Time

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

// NewClient creates a calendar client for the given credentials.
func NewClient(cfg Config) *Client {
	return &Client{
		cfg: cfg,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
		baseURL: apiBase,
		authURL: tokenURL,
		now:     time.Now,
	}
}

// tokenResponse is the token endpoint's JSON body.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	Error       string `json:"error"`
	ErrorDesc   string `json:"error_description"`
}

// AccessToken returns a valid bearer token, reusing the cached one while it
// is comfortably inside its assumed lifetime and refreshing otherwise. On a
// rejected refresh it returns an *AuthError carrying the remote error
// description.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if c.token != "" && now.Before(c.expiresAt.Add(-tokenExpiryBuffer)) {
		return c.token, nil
	}

	form := url.Values{}
	form.Set("client_id", c.cfg.ClientID)
	form.Set("client_secret", c.cfg.ClientSecret)
	form.Set("refresh_token", c.cfg.RefreshToken)
	form.Set("grant_type", "refresh_token")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.authURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var tok tokenResponse
	if err := json.Unmarshal(body, &tok); err != nil {
		return "", err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := tok.ErrorDesc
		if msg == "" {
			msg = "failed to refresh token"
		}
		appLog.Error("token refresh rejected", &AuthError{Message: msg}, "status", resp.StatusCode)
		return "", &AuthError{Message: msg}
	}

	c.token = tok.AccessToken
	c.expiresAt = now.Add(tokenTTL)
	appLog.Debug("access token refreshed", "expires_at", c.expiresAt)

	return c.token, nil
}

// errorResponse is the calendar API's error envelope.
type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// CreateEvent posts the event to the target calendar's events collection.
// It returns the created event's identifier, or "" when the response
// carries none (a soft result, not an error). A non-success status yields
// a *RequestError with the remote message.
func (c *Client) CreateEvent(ctx context.Context, event model.Event, calendarID string) (string, error) {
	token, err := c.AccessToken(ctx)
	if err != nil {
		return "", err
	}
	if calendarID == "" {
		calendarID = PrimaryCalendarID
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return "", err
	}

	endpoint := c.baseURL + "/calendars/" + url.PathEscape(calendarID) + "/events"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &RequestError{Status: resp.StatusCode, Message: remoteMessage(body, "failed to create event")}
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &created); err != nil {
		return "", err
	}

	appLog.Info("event created", "calendar", calendarID, "event_id", created.ID, "summary", event.Summary)
	return created.ID, nil
}

// eventItem is a single item from the event-list endpoint. Every field is
// optional on the wire.
type eventItem struct {
	ID          string `json:"id"`
	Summary     string `json:"summary"`
	Description string `json:"description"`
	Start       *struct {
		DateTime string `json:"dateTime"`
		Date     string `json:"date"`
		TimeZone string `json:"timeZone"`
	} `json:"start"`
	End *struct {
		DateTime string `json:"dateTime"`
		Date     string `json:"date"`
		TimeZone string `json:"timeZone"`
	} `json:"end"`
	Attendees []struct {
		Email string `json:"email"`
	} `json:"attendees"`
}

// mapEventItem normalizes a remote list item into an Event. Missing summary
// becomes "Untitled", a missing per-item timezone falls back to the
// requested one, dateTime is preferred over the all-day date, and attendees
// with no email are kept with an empty address rather than dropped.
func mapEventItem(item eventItem, fallbackTimezone string) model.Event {
	ev := model.Event{
		ID:          item.ID,
		Summary:     item.Summary,
		Description: item.Description,
	}
	if ev.Summary == "" {
		ev.Summary = "Untitled"
	}

	if item.Start != nil {
		ev.Start = model.EventDateTime{DateTime: item.Start.DateTime, TimeZone: item.Start.TimeZone}
		if ev.Start.DateTime == "" {
			ev.Start.DateTime = item.Start.Date
		}
	}
	if ev.Start.TimeZone == "" {
		ev.Start.TimeZone = fallbackTimezone
	}

	if item.End != nil {
		ev.End = model.EventDateTime{DateTime: item.End.DateTime, TimeZone: item.End.TimeZone}
		if ev.End.DateTime == "" {
			ev.End.DateTime = item.End.Date
		}
	}
	if ev.End.TimeZone == "" {
		ev.End.TimeZone = fallbackTimezone
	}

	for _, a := range item.Attendees {
		ev.Attendees = append(ev.Attendees, model.Attendee{Email: a.Email})
	}

	return ev
}

// FetchTodayEvents lists today's events across the given calendars. The
// query window is the invoking machine's local calendar day (midnight to
// midnight + 24h). One list request is issued per calendar, concurrently;
// any single failure fails the whole call. Results are concatenated and
// sorted ascending by start instant.
func (c *Client) FetchTodayEvents(ctx context.Context, timezone string, calendarIDs []string) ([]model.Event, error) {
	if len(calendarIDs) == 0 {
		calendarIDs = []string{PrimaryCalendarID}
	}

	now := c.now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	endOfDay := startOfDay.Add(24 * time.Hour)

	token, err := c.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	results := make([][]model.Event, len(calendarIDs))
	g, gctx := errgroup.WithContext(ctx)
	for i, calendarID := range calendarIDs {
		g.Go(func() error {
			events, err := c.listEvents(gctx, token, calendarID, timezone, startOfDay, endOfDay)
			if err != nil {
				return err
			}
			results[i] = events
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []model.Event
	for _, events := range results {
		all = append(all, events...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		return startInstant(all[i]).Before(startInstant(all[j]))
	})

	appLog.Info("fetched today's events", "calendars", len(calendarIDs), "event_count", len(all))
	return all, nil
}

// listEvents issues one event-list request for a single calendar.
func (c *Client) listEvents(ctx context.Context, token, calendarID, timezone string, timeMin, timeMax time.Time) ([]model.Event, error) {
	params := url.Values{}
	params.Set("timeMin", timeMin.UTC().Format(time.RFC3339))
	params.Set("timeMax", timeMax.UTC().Format(time.RFC3339))
	params.Set("singleEvents", "true")
	params.Set("orderBy", "startTime")
	params.Set("timeZone", timezone)

	endpoint := c.baseURL + "/calendars/" + url.PathEscape(calendarID) + "/events?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &RequestError{Status: resp.StatusCode, Message: remoteMessage(body, "failed to fetch events")}
	}

	var list struct {
		Items []eventItem `json:"items"`
	}
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, err
	}

	events := make([]model.Event, 0, len(list.Items))
	for _, item := range list.Items {
		events = append(events, mapEventItem(item, timezone))
	}
	return events, nil
}

// FetchCalendarList returns the calendars visible to the authenticated
// user.
func (c *Client) FetchCalendarList(ctx context.Context) ([]model.CalendarListEntry, error) {
	token, err := c.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/users/me/calendarList", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &RequestError{Status: resp.StatusCode, Message: remoteMessage(body, "failed to fetch calendar list")}
	}

	var list struct {
		Items []model.CalendarListEntry `json:"items"`
	}
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, err
	}
	return list.Items, nil
}

// remoteMessage extracts the error message from a calendar API error
// envelope, falling back to a generic description.
func remoteMessage(body []byte, fallback string) string {
	var er errorResponse
	if err := json.Unmarshal(body, &er); err == nil && er.Error.Message != "" {
		return er.Error.Message
	}
	return fallback
}

// startInstant resolves an event's start to a comparable instant for
// sorting. Both RFC3339 (listed events), naive local and date-only forms
// are accepted; unparsable starts sort first.
func startInstant(ev model.Event) time.Time {
	s := ev.Start.DateTime
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
