package gcal

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	appLog "notecal/internal/log"
)

const (
	authEndpoint  = "https://accounts.google.com/o/oauth2/v2/auth"
	calendarScope = "https://www.googleapis.com/auth/calendar"

	// RedirectAddr hosts the local callback that catches the authorization
	// code after the user grants consent in the browser.
	RedirectAddr = "localhost:42813"
	redirectURI  = "http://" + RedirectAddr + "/callback"
)

// AuthURL builds the consent URL for the given OAuth client. Offline access
// with a forced consent prompt guarantees a refresh token in the exchange.
func AuthURL(clientID string) string {
	params := url.Values{}
	params.Set("client_id", clientID)
	params.Set("redirect_uri", redirectURI)
	params.Set("response_type", "code")
	params.Set("scope", calendarScope)
	params.Set("access_type", "offline")
	params.Set("prompt", "consent")
	return authEndpoint + "?" + params.Encode()
}

// ExchangeCode trades an authorization code for a refresh token. A response
// without a refresh token is an error; it usually means the consent prompt
// was skipped.
func ExchangeCode(ctx context.Context, code, clientID, clientSecret string) (string, error) {
	form := url.Values{}
	form.Set("code", code)
	form.Set("client_id", clientID)
	form.Set("client_secret", clientSecret)
	form.Set("redirect_uri", redirectURI)
	form.Set("grant_type", "authorization_code")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := (&http.Client{Timeout: 15 * time.Second}).Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var tok struct {
		RefreshToken string `json:"refresh_token"`
		Error        string `json:"error"`
		ErrorDesc    string `json:"error_description"`
	}
	if err := json.Unmarshal(body, &tok); err != nil {
		return "", err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := tok.ErrorDesc
		if msg == "" {
			msg = "failed to exchange authorization code"
		}
		return "", &AuthError{Message: msg}
	}
	if tok.RefreshToken == "" {
		return "", errors.New("no refresh token received")
	}

	return tok.RefreshToken, nil
}

// WaitForCode runs a one-shot HTTP listener on RedirectAddr and blocks
// until the OAuth redirect delivers an authorization code, the redirect
// reports an error, or ctx is canceled.
func WaitForCode(ctx context.Context) (string, error) {
	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if e := q.Get("error"); e != "" {
			http.Error(w, "Authorization failed: "+e, http.StatusBadRequest)
			errCh <- &AuthError{Message: e}
			return
		}
		code := q.Get("code")
		if code == "" {
			http.Error(w, "Missing authorization code", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("Authorized. You can close this window and return to the terminal.\n"))
		codeCh <- code
	})

	srv := &http.Server{Addr: RedirectAddr, Handler: mux}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	appLog.Info("waiting for OAuth redirect", "listen", "http://"+RedirectAddr)

	select {
	case code := <-codeCh:
		return code, nil
	case err := <-errCh:
		return "", err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
