package lifecycle

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relprep/relprep/internal/history"
)

type fakeHandler struct {
	name     string
	success  bool
	duration time.Duration
	calls    int
}

func (f *fakeHandler) OnRunComplete(name string, success bool, duration time.Duration) {
	f.name = name
	f.success = success
	f.duration = duration
	f.calls++
}

func testExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 3
}

func TestRunWithHistorySuccess(t *testing.T) {
	stateDir := t.TempDir()
	writer := history.NewWriter(stateDir, 50)
	handler := &fakeHandler{}

	err := RunWithHistory(handler, writer, "prepare", testExitCode, func() (history.HistoryEntry, error) {
		return history.HistoryEntry{
			Version: "1.2.0",
			Mode:    "execute",
			Status:  "committed",
		}, nil
	})
	require.NoError(t, err)

	file, err := history.LoadHistory(stateDir)
	require.NoError(t, err)
	require.Len(t, file.Entries, 1)

	entry := file.Entries[0]
	assert.Equal(t, "prepare", entry.Command)
	assert.Equal(t, "1.2.0", entry.Version)
	assert.Equal(t, "execute", entry.Mode)
	assert.Equal(t, "committed", entry.Status)
	assert.Equal(t, 0, entry.ExitCode)
	assert.NotEmpty(t, entry.Duration)
	assert.False(t, entry.Timestamp.IsZero())

	assert.Equal(t, 1, handler.calls)
	assert.Equal(t, "prepare", handler.name)
	assert.True(t, handler.success)
}

func TestRunWithHistoryFailure(t *testing.T) {
	stateDir := t.TempDir()
	writer := history.NewWriter(stateDir, 50)
	handler := &fakeHandler{}
	boom := errors.New("commit failed")

	err := RunWithHistory(handler, writer, "prepare", testExitCode, func() (history.HistoryEntry, error) {
		return history.HistoryEntry{Version: "1.2.0", Mode: "execute"}, boom
	})
	assert.ErrorIs(t, err, boom)

	file, err := history.LoadHistory(stateDir)
	require.NoError(t, err)
	require.Len(t, file.Entries, 1)

	entry := file.Entries[0]
	assert.Equal(t, 3, entry.ExitCode)
	assert.Equal(t, "failed", entry.Status)

	assert.Equal(t, 1, handler.calls)
	assert.False(t, handler.success)
}

func TestRunWithHistoryKeepsStatusFromRun(t *testing.T) {
	stateDir := t.TempDir()
	boom := errors.New("tool exited")

	err := RunWithHistory(nil, history.NewWriter(stateDir, 50), "release", testExitCode, func() (history.HistoryEntry, error) {
		return history.HistoryEntry{Status: "previewed"}, boom
	})
	assert.ErrorIs(t, err, boom)

	file, err := history.LoadHistory(stateDir)
	require.NoError(t, err)
	require.Len(t, file.Entries, 1)
	assert.Equal(t, "previewed", file.Entries[0].Status)
}

func TestRunWithHistoryNilCollaborators(t *testing.T) {
	err := RunWithHistory(nil, nil, "prepare", nil, func() (history.HistoryEntry, error) {
		return history.HistoryEntry{}, nil
	})
	assert.NoError(t, err)
}
