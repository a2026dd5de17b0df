// Package lifecycle provides wrapper functions for CLI command execution.
// It handles timing, history recording, and notification dispatch,
// eliminating boilerplate code across CLI commands.
//
// The lifecycle package is intentionally minimal: no event bus, no goroutines,
// no external dependencies beyond the history store. Each wrapper function
// captures start time, executes the provided function, calculates duration,
// and hands the outcome to the history writer and notification handler.
package lifecycle

import "time"

// NotificationHandler defines the interface for notification dispatch.
// This interface is satisfied by *notify.Handler but defined separately
// to avoid circular imports between lifecycle and notify packages.
//
// Implementations must be safe for nil receivers - the lifecycle wrapper
// functions check for nil before calling any method.
type NotificationHandler interface {
	// OnRunComplete is called when a CLI command finishes execution.
	// Parameters:
	//   - name: the command name (e.g., "prepare", "release")
	//   - success: true if the command completed without error
	//   - duration: how long the command took to execute
	OnRunComplete(name string, success bool, duration time.Duration)
}
