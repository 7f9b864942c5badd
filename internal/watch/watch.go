package watch

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"

	"notecal/internal/config"
	appLog "notecal/internal/log"
	"notecal/internal/notes"
)

// Options wires the daemon's collaborators. Client may be nil when no
// credentials are configured; import-related activity is then skipped and
// only the auto-complete poller runs.
type Options struct {
	Settings *config.Settings
	Client   notes.EventLister
	Vault    notes.Vault
}

// Run starts the long-lived background activities and blocks until ctx is
// canceled:
//
//   - an fsnotify watcher on the daily-notes folder; a newly created daily
//     note triggers an immediate import when auto-import is enabled
//   - an optional cron schedule re-importing today's note
//   - the auto-complete poller
func Run(ctx context.Context, opts Options) error {
	s := opts.Settings

	if s.AutoCompleteEnabled {
		ctl := notes.NewController(opts.Vault, s.NotesFolder, time.Duration(s.AutoCompleteIntervalMs)*time.Millisecond)
		ctl.Start()
		defer ctl.Stop()
	}

	if opts.Client != nil && s.ReimportCron != "" {
		sched := cron.New()
		if _, err := sched.AddFunc(s.ReimportCron, func() {
			importToday(ctx, opts)
		}); err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()
		appLog.Info("periodic re-import scheduled", "cron", s.ReimportCron)
	}

	if opts.Client != nil && s.AutoImportOnOpen {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return err
		}
		defer watcher.Close()

		if err := watcher.Add(s.NotesFolder); err != nil {
			return err
		}
		appLog.Info("watching notes folder", "folder", s.NotesFolder)

		go handleEvents(ctx, watcher, opts)
	}

	<-ctx.Done()
	return nil
}

// handleEvents reacts to filesystem activity in the notes folder. Only
// Create events trigger an import: the import itself writes the note, so
// reacting to Write events would feed back into the watcher.
func handleEvents(ctx context.Context, watcher *fsnotify.Watcher, opts Options) {
	s := opts.Settings

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Create) {
				continue
			}
			if filepath.Clean(ev.Name) != filepath.Clean(notes.TodayNotePath(s.NotesFolder, time.Now())) {
				continue
			}
			appLog.Info("daily note created, importing", "path", ev.Name)
			importToday(ctx, opts)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			appLog.Error("notes watcher error", err)
		}
	}
}

// importToday imports today's events into today's note, if it exists.
func importToday(ctx context.Context, opts Options) {
	s := opts.Settings
	path := notes.TodayNotePath(s.NotesFolder, time.Now())
	if !opts.Vault.Exists(path) {
		return
	}

	cfg := notes.ImportConfig{
		ScheduleHeading: s.ScheduleHeading,
		EventFormat:     s.EventFormat,
		Timezone:        s.Timezone,
		Calendars:       s.Calendars,
	}
	if err := notes.ImportDailyEvents(ctx, opts.Client, opts.Vault, path, cfg); err != nil {
		appLog.Error("import failed", err, "path", path)
	}
}
