package main

import (
	"fmt"

	"github.com/spf13/cobra"

	appLog "notecal/internal/log"
)

func newCalendarsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "calendars",
		Short: "List the calendars visible to the connected account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadSettings()
			if err != nil {
				return err
			}

			client := newClient(s)
			if client == nil {
				appLog.Info("no credentials configured, run `notecal auth` first")
				return nil
			}

			calendars, err := client.FetchCalendarList(cmd.Context())
			if err != nil {
				return err
			}

			selected := make(map[string]bool, len(s.Calendars))
			for _, id := range s.Calendars {
				selected[id] = true
			}

			for _, cal := range calendars {
				marker := " "
				if selected[cal.ID] {
					marker = "*"
				}
				label := cal.Summary
				if cal.Primary {
					label += " (primary)"
				}
				fmt.Printf("%s %-40s %s\n", marker, cal.ID, label)
			}
			return nil
		},
	}
}
