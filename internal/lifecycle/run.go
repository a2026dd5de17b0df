package lifecycle

import (
	"time"

	"github.com/relprep/relprep/internal/history"
)

// RunWithHistory executes fn, then records the outcome in the run history
// and dispatches a completion notification.
//
// fn returns the history entry describing what the run did; the wrapper
// stamps the command name, exit code, and duration on top. A nil writer
// skips history recording and a nil handler skips notifications, so both
// features can be disabled independently through configuration.
func RunWithHistory(handler NotificationHandler, writer *history.Writer, command string, exitCode func(error) int, fn func() (history.HistoryEntry, error)) error {
	start := time.Now()
	entry, err := fn()
	duration := time.Since(start)

	entry.Command = command
	if exitCode != nil {
		entry.ExitCode = exitCode(err)
	}
	if err != nil && entry.Status == "" {
		entry.Status = "failed"
	}

	if writer != nil {
		writer.LogRun(entry, duration)
	}
	if handler != nil {
		handler.OnRunComplete(command, err == nil, duration)
	}
	return err
}
