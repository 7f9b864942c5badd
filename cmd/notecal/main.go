package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"notecal/internal/config"
	"notecal/internal/gcal"
	appLog "notecal/internal/log"
)

var (
	configPath string
	debug      bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "notecal",
		Short:         "Sync Google Calendar with a folder of daily Markdown notes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if debug {
				appLog.SetLevel(appLog.LevelDebug)
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "path to config file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(
		newCreateCmd(),
		newImportCmd(),
		newCalendarsCmd(),
		newAuthCmd(),
		newWatchCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadSettings loads the config file named by --config.
func loadSettings() (*config.Settings, error) {
	return config.Load(configPath)
}

// newClient builds a calendar client from settings, or returns nil when
// credentials are missing (callers treat that as a silent no-op).
func newClient(s *config.Settings) *gcal.Client {
	if !s.HasCredentials() {
		return nil
	}
	return gcal.NewClient(gcal.Config{
		ClientID:     s.ClientID,
		ClientSecret: s.ClientSecret,
		RefreshToken: s.RefreshToken,
		Timezone:     s.Timezone,
	})
}
