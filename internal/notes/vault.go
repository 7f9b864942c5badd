package notes

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Vault is the document boundary to the note store. The formatter and
// poller only ever read or replace whole files, so the surface stays
// minimal and easy to fake in tests.
type Vault interface {
	Exists(path string) bool
	Read(path string) (string, error)
	Write(path, content string) error
}

// DirVault is a Vault over the local filesystem.
type DirVault struct{}

func (DirVault) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func (DirVault) Read(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (DirVault) Write(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}

// IsDailyNote reports whether path lives under the daily-notes folder.
func IsDailyNote(path, folder string) bool {
	if folder == "" {
		return false
	}
	rel, err := filepath.Rel(folder, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// TodayNotePath resolves the daily note for now's local calendar date.
func TodayNotePath(folder string, now time.Time) string {
	return filepath.Join(folder, now.Format("2006-01-02")+".md")
}
