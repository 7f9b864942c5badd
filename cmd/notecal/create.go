package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"notecal/internal/command"
	appLog "notecal/internal/log"
	"notecal/internal/notes"
)

func newCreateCmd() *cobra.Command {
	var (
		fileFlag string
		lineFlag int
	)

	cmd := &cobra.Command{
		Use:   "create [text]",
		Short: "Create a calendar event from an inline /cal command",
		Long: `Create a calendar event from a line of note text containing the /cal
marker, e.g.:

  notecal create "/cal Team standup date:tomorrow time:9am duration:15m with:a@x.com,b@x.com"

With --file and --line the command reads the given line from a note and,
after a successful creation, rewrites it as a completed task.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings()
			if err != nil {
				return err
			}

			vault := notes.DirVault{}
			fromFile := fileFlag != ""

			var line string
			switch {
			case fromFile:
				if lineFlag < 1 {
					return fmt.Errorf("--line must be 1 or greater")
				}
				content, err := vault.Read(fileFlag)
				if err != nil {
					return err
				}
				lines := strings.Split(content, "\n")
				if lineFlag > len(lines) {
					return fmt.Errorf("%s has only %d lines", fileFlag, len(lines))
				}
				line = lines[lineFlag-1]
			case len(args) == 1:
				line = args[0]
			default:
				return fmt.Errorf("provide the command text or --file and --line")
			}

			now := time.Now()
			parsed := command.Parse(line, now)
			if parsed == nil {
				appLog.Info("line does not contain the /cal marker, nothing to do")
				return nil
			}

			client := newClient(s)
			if client == nil {
				appLog.Info("no credentials configured, skipping event creation")
				return nil
			}

			event := command.BuildEvent(parsed, now, s.Timezone, s.DefaultDurationMinutes)
			id, err := client.CreateEvent(cmd.Context(), event, s.Calendars[0])
			if err != nil {
				return err
			}

			if fromFile {
				content, err := vault.Read(fileFlag)
				if err != nil {
					return err
				}
				lines := strings.Split(content, "\n")
				if lineFlag <= len(lines) {
					lines[lineFlag-1] = command.BuildCompletedLine(line)
					if err := vault.Write(fileFlag, strings.Join(lines, "\n")); err != nil {
						return err
					}
				}
			}

			if id == "" {
				fmt.Println("event created (no id returned)")
				return nil
			}
			fmt.Printf("event created: %s\n", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&fileFlag, "file", "", "note file to read the command line from")
	cmd.Flags().IntVar(&lineFlag, "line", 0, "1-based line number within --file")

	return cmd
}
