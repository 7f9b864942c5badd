package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// NOTE: This file provides the settings model and full YAML-based
// load/save behavior, including first-run config creation and 0600
// permissions. OAuth credentials may additionally be supplied through
// the environment (optionally via a .env file); environment values win
// over the file.

// Event line formats for imported events.
const (
	FormatTask   = "task"
	FormatBullet = "bullet"
)

// Environment variable names recognized for credential overrides.
const (
	EnvClientID     = "NOTECAL_CLIENT_ID"
	EnvClientSecret = "NOTECAL_CLIENT_SECRET"
	EnvRefreshToken = "NOTECAL_REFRESH_TOKEN"
)

// Settings is the top-level application configuration.
type Settings struct {
	// ClientID / ClientSecret are the Google OAuth client credentials.
	ClientID     string `yaml:"client_id" json:"client_id"`
	ClientSecret string `yaml:"client_secret" json:"client_secret"`

	// RefreshToken is the long-lived OAuth refresh token obtained via
	// `notecal auth`.
	RefreshToken string `yaml:"refresh_token" json:"refresh_token"`

	// NotesFolder is the daily-notes directory, one file per date
	// (<folder>/<YYYY-MM-DD>.md).
	NotesFolder string `yaml:"notes_folder" json:"notes_folder"`

	// ScheduleHeading is the heading line marking the imported-events
	// region inside a daily note.
	ScheduleHeading string `yaml:"schedule_heading" json:"schedule_heading"`

	// EventFormat controls imported event lines: "task" ("- [ ] ...")
	// or "bullet" ("- ...").
	EventFormat string `yaml:"event_format" json:"event_format"`

	// AutoImportOnOpen imports today's events into a daily note when the
	// watcher sees it created or written.
	AutoImportOnOpen bool `yaml:"auto_import_on_open" json:"auto_import_on_open"`

	// AutoCompleteEnabled toggles the passed-event auto-complete poller
	// in watch mode.
	AutoCompleteEnabled bool `yaml:"auto_complete_enabled" json:"auto_complete_enabled"`

	// AutoCompleteIntervalMs is the poller tick interval in milliseconds.
	AutoCompleteIntervalMs int `yaml:"auto_complete_interval_ms" json:"auto_complete_interval_ms"`

	// ReimportCron is a cron-style schedule string (e.g. "*/15 * * * *")
	// used in watch mode to re-import today's events periodically.
	// Empty disables the periodic re-import.
	ReimportCron string `yaml:"reimport_cron" json:"reimport_cron"`

	// DefaultDurationMinutes is the event duration used when an inline
	// command supplies none.
	DefaultDurationMinutes int `yaml:"default_duration_minutes" json:"default_duration_minutes"`

	// Timezone is the IANA timezone attached to created events
	// (e.g. "America/New_York"). Empty means the system local zone.
	Timezone string `yaml:"timezone" json:"timezone"`

	// Calendars is the list of selected calendar identifiers.
	Calendars []string `yaml:"calendars" json:"calendars"`
}

// DefaultSettings returns an in-memory default configuration.
func DefaultSettings() *Settings {
	return &Settings{
		NotesFolder:            "daily",
		ScheduleHeading:        "## Calendar",
		EventFormat:            FormatTask,
		AutoImportOnOpen:       true,
		AutoCompleteEnabled:    true,
		AutoCompleteIntervalMs: 60000,
		ReimportCron:           "",
		DefaultDurationMinutes: 60,
		Timezone:               localTimezone(),
		Calendars:              []string{"primary"},
	}
}

// localTimezone resolves the system timezone name.
func localTimezone() string {
	name := time.Now().Location().String()
	if name == "" {
		return "Local"
	}
	return name
}

// HasCredentials reports whether all three OAuth credential fields are set.
// Commands that need the calendar client treat missing credentials as a
// silent no-op condition.
func (s *Settings) HasCredentials() bool {
	return s.ClientID != "" && s.ClientSecret != "" && s.RefreshToken != ""
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs still behave correctly.
func (s *Settings) Normalize() {
	if s.NotesFolder == "" {
		s.NotesFolder = "daily"
	}
	if s.ScheduleHeading == "" {
		s.ScheduleHeading = "## Calendar"
	}
	switch s.EventFormat {
	case FormatTask, FormatBullet:
		// ok
	default:
		s.EventFormat = FormatTask
	}
	if s.AutoCompleteIntervalMs <= 0 {
		s.AutoCompleteIntervalMs = 60000
	}
	if s.DefaultDurationMinutes <= 0 {
		s.DefaultDurationMinutes = 60
	}
	if s.Timezone == "" {
		s.Timezone = localTimezone()
	}
	if len(s.Calendars) == 0 {
		s.Calendars = []string{"primary"}
	}
}

// applyEnv overlays credential values from the environment. A .env file in
// the working directory is honored when present; real environment variables
// take precedence over it (godotenv.Load never overwrites set variables).
func (s *Settings) applyEnv() {
	_ = godotenv.Load()

	if v := os.Getenv(EnvClientID); v != "" {
		s.ClientID = v
	}
	if v := os.Getenv(EnvClientSecret); v != "" {
		s.ClientSecret = v
	}
	if v := os.Getenv(EnvRefreshToken); v != "" {
		s.RefreshToken = v
	}
}

// Load loads settings from the given YAML path.
//
// Behavior:
//   - If the file does not exist: create parent directory if needed, write
//     a default config with 0600 perms, and return the defaults.
//   - If the file exists: read YAML, unmarshal, normalize defaults.
//
// In both cases credential environment overrides are applied last.
func Load(path string) (*Settings, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// First run: create default config file.
			s := DefaultSettings()
			if err := Save(path, s); err != nil {
				// Even if save fails, return settings with error so the
				// caller can decide.
				return s, err
			}
			s.applyEnv()
			return s, nil
		}
		return nil, err
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	s.Normalize()
	s.applyEnv()

	return &s, nil
}

// Save writes the given settings to the specified path.
//
// Implementation details:
//   - Ensures parent directory exists (0700).
//   - Marshals to YAML.
//   - Writes atomically via a temp file + rename.
//   - Ensures final file permissions are 0600 (the file holds credentials).
func Save(path string, s *Settings) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if s == nil {
		return errors.New("settings is nil")
	}

	s.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}

	// Atomic write: write to temp file in same directory then rename.
	tmp, err := os.CreateTemp(dir, ".notecal-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}

	return nil
}

// Save is a convenience method that delegates to the package-level Save.
func (s *Settings) Save(path string) error {
	return Save(path, s)
}

// DefaultPath returns the default config file location:
// $XDG_CONFIG_HOME/notecal/config.yaml or ~/.config/notecal/config.yaml.
func DefaultPath() string {
	if base := os.Getenv("XDG_CONFIG_HOME"); base != "" {
		return filepath.Join(base, "notecal", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "notecal.yaml")
	}
	return filepath.Join(home, ".config", "notecal", "config.yaml")
}
