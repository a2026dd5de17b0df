// Package history persists an advisory log of past runs under the
// state directory. The log never affects command outcomes: every
// failure here is reported as a warning and swallowed.
package history

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// historyFileName is the file inside the state directory that holds
// the run log.
const historyFileName = "history.yml"

// HistoryEntry records a single completed run.
type HistoryEntry struct {
	Timestamp time.Time `yaml:"timestamp"`
	// Command is the subcommand that ran ("prepare", "release", ...).
	Command string `yaml:"command"`
	// Version is the target version the run was invoked with.
	Version string `yaml:"version,omitempty"`
	// Mode is "preview" or "execute".
	Mode string `yaml:"mode,omitempty"`
	// Status is the run outcome ("previewed", "committed", "no changes").
	Status string `yaml:"status,omitempty"`
	// CommitSHA is set when the run created a changelog commit.
	CommitSHA string `yaml:"commit_sha,omitempty"`
	// Branch is the repository branch the run operated on.
	Branch   string `yaml:"branch,omitempty"`
	ExitCode int    `yaml:"exit_code"`
	Duration string `yaml:"duration"`
}

// HistoryFile is the on-disk YAML document holding all entries, oldest
// first.
type HistoryFile struct {
	Entries []HistoryEntry `yaml:"entries"`
}

// HistoryPath returns the path of the history file inside stateDir.
func HistoryPath(stateDir string) string {
	return filepath.Join(stateDir, historyFileName)
}

// LoadHistory reads the history file from stateDir. A missing file is
// not an error and yields an empty history.
func LoadHistory(stateDir string) (*HistoryFile, error) {
	data, err := os.ReadFile(HistoryPath(stateDir))
	if errors.Is(err, fs.ErrNotExist) {
		return &HistoryFile{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading history file: %w", err)
	}

	var history HistoryFile
	if err := yaml.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("parsing history file: %w", err)
	}
	return &history, nil
}

// SaveHistory writes the history file to stateDir, creating the
// directory if needed.
func SaveHistory(stateDir string, history *HistoryFile) error {
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	data, err := yaml.Marshal(history)
	if err != nil {
		return fmt.Errorf("encoding history: %w", err)
	}

	if err := os.WriteFile(HistoryPath(stateDir), data, 0o644); err != nil {
		return fmt.Errorf("writing history file: %w", err)
	}
	return nil
}

// ClearHistory removes the history file. A missing file is not an
// error.
func ClearHistory(stateDir string) error {
	err := os.Remove(HistoryPath(stateDir))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing history file: %w", err)
	}
	return nil
}
