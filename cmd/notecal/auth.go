package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"notecal/internal/gcal"
	appLog "notecal/internal/log"
)

func newAuthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Connect notecal to a Google Calendar account",
		Long: `Walks through the OAuth consent flow: prints the consent URL, waits for
the browser redirect on localhost (or a pasted authorization code), then
exchanges the code and stores the refresh token in the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadSettings()
			if err != nil {
				return err
			}
			if s.ClientID == "" || s.ClientSecret == "" {
				return fmt.Errorf("client_id and client_secret must be set in %s first", configPath)
			}

			fmt.Println("Open this URL in your browser and grant access:")
			fmt.Println()
			fmt.Println("  " + gcal.AuthURL(s.ClientID))
			fmt.Println()

			code, err := waitForAuthCode(cmd.Context())
			if err != nil {
				return err
			}

			refreshToken, err := gcal.ExchangeCode(cmd.Context(), code, s.ClientID, s.ClientSecret)
			if err != nil {
				return err
			}

			s.RefreshToken = refreshToken
			if err := s.Save(configPath); err != nil {
				return err
			}

			appLog.Info("connected to Google Calendar", "config", configPath)
			return nil
		},
	}
}

// waitForAuthCode accepts the authorization code from whichever source
// responds first: the localhost OAuth redirect, or a paste on stdin.
func waitForAuthCode(parent context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(parent, 5*time.Minute)
	defer cancel()

	type result struct {
		code string
		err  error
	}
	ch := make(chan result, 2)

	go func() {
		code, err := gcal.WaitForCode(ctx)
		ch <- result{code, err}
	}()
	go func() {
		fmt.Print("Waiting for the browser redirect; or paste the code here: ")
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		if code := strings.TrimSpace(line); code != "" {
			ch <- result{code, nil}
		}
	}()

	select {
	case r := <-ch:
		return r.code, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
