package main

import (
	"time"

	"github.com/spf13/cobra"

	appLog "notecal/internal/log"
	"notecal/internal/notes"
)

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import [note-path]",
		Short: "Import today's calendar events into a daily note",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings()
			if err != nil {
				return err
			}

			client := newClient(s)
			if client == nil {
				appLog.Info("no credentials configured, skipping import")
				return nil
			}

			path := notes.TodayNotePath(s.NotesFolder, time.Now())
			if len(args) == 1 {
				path = args[0]
			}

			vault := notes.DirVault{}
			if !vault.Exists(path) {
				appLog.Info("note does not exist, skipping import", "path", path)
				return nil
			}

			cfg := notes.ImportConfig{
				ScheduleHeading: s.ScheduleHeading,
				EventFormat:     s.EventFormat,
				Timezone:        s.Timezone,
				Calendars:       s.Calendars,
			}
			return notes.ImportDailyEvents(cmd.Context(), client, vault, path, cfg)
		},
	}
}
