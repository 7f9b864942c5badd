package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	appLog "notecal/internal/log"
	"notecal/internal/notes"
	"notecal/internal/watch"
)

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Run the background daemon (auto-import and auto-complete)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadSettings()
			if err != nil {
				return err
			}

			client := newClient(s)
			if client == nil {
				appLog.Info("no credentials configured; only auto-complete will run")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			appLog.Info("notecal watch starting",
				"folder", s.NotesFolder,
				"auto_import_on_open", s.AutoImportOnOpen,
				"auto_complete", s.AutoCompleteEnabled,
				"interval_ms", s.AutoCompleteIntervalMs,
				"reimport_cron", s.ReimportCron,
			)

			opts := watch.Options{
				Settings: s,
				Vault:    notes.DirVault{},
			}
			if client != nil {
				opts.Client = client
			}

			err = watch.Run(ctx, opts)
			appLog.Info("notecal watch exiting")
			return err
		},
	}
}
