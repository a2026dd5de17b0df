package errors

import "fmt"

// ToolError reports the failure of an external tool invocation. It carries
// the tool's exit status so callers can propagate it unchanged instead of
// remapping it to a generic failure code.
type ToolError struct {
	// Tool is a short name for the failing tool (e.g. "changelog generator").
	Tool string
	// ExitCode is the tool's exit status. Negative when the process never
	// produced one (failed to start, killed before exit).
	ExitCode int
	// Err is the underlying execution error, if any.
	Err error
}

// Error implements the error interface.
func (e *ToolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %v", e.Tool, e.Err)
	}
	return fmt.Sprintf("%s exited with status %d", e.Tool, e.ExitCode)
}

// Unwrap returns the underlying execution error.
func (e *ToolError) Unwrap() error {
	return e.Err
}

// HasExitCode reports whether the tool produced a usable exit status.
func (e *ToolError) HasExitCode() bool {
	return e.ExitCode > 0
}

// NewToolError creates a ToolError for a tool that exited with the given status.
func NewToolError(tool string, exitCode int) *ToolError {
	return &ToolError{Tool: tool, ExitCode: exitCode}
}

// WrapToolError creates a ToolError for a tool that failed without an exit
// status (for example, the binary was not found or could not be started).
func WrapToolError(tool string, err error) *ToolError {
	if err == nil {
		return nil
	}
	return &ToolError{Tool: tool, ExitCode: -1, Err: err}
}
