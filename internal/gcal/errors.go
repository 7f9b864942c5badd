package gcal

import "fmt"

// AuthError indicates the token refresh (or code exchange) was rejected by
// the OAuth endpoint. Message carries the remote error description.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed: %s", e.Message)
}

// RequestError indicates the calendar service rejected a request with a
// non-success status. Message carries the remote error message.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("calendar request failed (%d): %s", e.Status, e.Message)
}
