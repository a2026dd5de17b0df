package history

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryWriter_LogEntry(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		setupStore  func(t *testing.T, stateDir string)
		maxEntries  int
		wantEntries int
	}{
		"log entry to empty history": {
			setupStore:  func(t *testing.T, stateDir string) {},
			maxEntries:  50,
			wantEntries: 1,
		},
		"log entry to existing history": {
			setupStore: func(t *testing.T, stateDir string) {
				history := &HistoryFile{
					Entries: []HistoryEntry{
						{Timestamp: time.Now(), Command: "prepare", Version: "1.0.0", ExitCode: 0, Duration: "1s"},
					},
				}
				require.NoError(t, SaveHistory(stateDir, history))
			},
			maxEntries:  50,
			wantEntries: 2,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			stateDir := t.TempDir()
			tc.setupStore(t, stateDir)

			writer := NewWriter(stateDir, tc.maxEntries)
			entry := HistoryEntry{
				Timestamp: time.Now(),
				Command:   "prepare",
				Version:   "1.1.0",
				Mode:      "execute",
				Status:    "committed",
				ExitCode:  0,
				Duration:  "3s",
			}
			writer.LogEntry(entry)

			history, err := LoadHistory(stateDir)
			require.NoError(t, err)
			assert.Len(t, history.Entries, tc.wantEntries)
		})
	}
}

func TestHistoryWriter_Pruning(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		existingEntries int
		maxEntries      int
		wantEntries     int
		wantOldest      string // Version of oldest remaining entry
	}{
		"no pruning needed": {
			existingEntries: 5,
			maxEntries:      10,
			wantEntries:     6, // 5 existing + 1 new
			wantOldest:      "1.0.0",
		},
		"prune oldest when max exceeded": {
			existingEntries: 10,
			maxEntries:      10,
			wantEntries:     10, // oldest removed, new added
			wantOldest:      "1.0.1",
		},
		"prune multiple when well over max": {
			existingEntries: 12,
			maxEntries:      10,
			wantEntries:     10,
			wantOldest:      "1.0.3",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			stateDir := t.TempDir()

			entries := make([]HistoryEntry, tc.existingEntries)
			for i := 0; i < tc.existingEntries; i++ {
				entries[i] = HistoryEntry{
					Timestamp: time.Now().Add(time.Duration(i) * time.Minute),
					Command:   "prepare",
					Version:   fmt.Sprintf("1.0.%d", i),
					ExitCode:  0,
					Duration:  "1s",
				}
			}
			history := &HistoryFile{Entries: entries}
			require.NoError(t, SaveHistory(stateDir, history))

			writer := NewWriter(stateDir, tc.maxEntries)
			writer.LogEntry(HistoryEntry{
				Timestamp: time.Now().Add(time.Hour),
				Command:   "prepare",
				Version:   "2.0.0",
				ExitCode:  0,
				Duration:  "2s",
			})

			loaded, err := LoadHistory(stateDir)
			require.NoError(t, err)
			assert.Len(t, loaded.Entries, tc.wantEntries)

			if len(loaded.Entries) > 0 {
				assert.Equal(t, tc.wantOldest, loaded.Entries[0].Version)
			}

			// Newest entry must survive pruning
			assert.Equal(t, "2.0.0", loaded.Entries[len(loaded.Entries)-1].Version)
		})
	}
}

func TestHistoryWriter_LogRun(t *testing.T) {
	t.Parallel()

	stateDir := t.TempDir()
	writer := NewWriter(stateDir, 50)

	writer.LogRun(HistoryEntry{
		Command:   "prepare",
		Version:   "1.4.0",
		Mode:      "execute",
		Status:    "committed",
		CommitSHA: "abc123def",
		Branch:    "main",
		ExitCode:  0,
	}, 2*time.Minute+30*time.Second)

	history, err := LoadHistory(stateDir)
	require.NoError(t, err)
	require.Len(t, history.Entries, 1)

	entry := history.Entries[0]
	assert.Equal(t, "prepare", entry.Command)
	assert.Equal(t, "1.4.0", entry.Version)
	assert.Equal(t, "execute", entry.Mode)
	assert.Equal(t, "committed", entry.Status)
	assert.Equal(t, "abc123def", entry.CommitSHA)
	assert.Equal(t, "main", entry.Branch)
	assert.Equal(t, 0, entry.ExitCode)
	assert.Equal(t, "2m30s", entry.Duration)
	assert.False(t, entry.Timestamp.IsZero())
}

func TestHistoryWriter_NonFatalErrors(t *testing.T) {
	t.Parallel()

	// Use an invalid path that can't be created
	writer := NewWriter("/dev/null/not-a-directory", 50)

	// Must not panic, just print a warning
	writer.LogEntry(HistoryEntry{
		Timestamp: time.Now(),
		Command:   "prepare",
		ExitCode:  0,
		Duration:  "1s",
	})
}

func TestNewWriter(t *testing.T) {
	t.Parallel()

	writer := NewWriter("/test/path", 100)

	assert.Equal(t, "/test/path", writer.StateDir)
	assert.Equal(t, 100, writer.MaxEntries)
}

func TestHistoryWriter_ZeroMaxEntries(t *testing.T) {
	t.Parallel()

	stateDir := t.TempDir()

	// Zero max entries means unlimited
	writer := NewWriter(stateDir, 0)

	for i := 0; i < 5; i++ {
		writer.LogEntry(HistoryEntry{
			Timestamp: time.Now(),
			Command:   "prepare",
			Version:   fmt.Sprintf("1.0.%d", i),
			ExitCode:  0,
			Duration:  "1s",
		})
	}

	history, err := LoadHistory(stateDir)
	require.NoError(t, err)
	assert.Len(t, history.Entries, 5)
}
