package cli

import (
	stderrors "errors"
	"fmt"

	"github.com/relprep/relprep/internal/errors"
)

// Exit codes for the relprep CLI
// These codes support programmatic composition and CI/CD integration
const (
	// ExitSuccess indicates successful command execution, including
	// execute-mode runs that found no changelog changes to commit
	ExitSuccess = 0

	// ExitInvalidArguments indicates invalid command arguments
	ExitInvalidArguments = 1

	// ExitToolFailed indicates an external tool could not be started
	// or was killed before producing an exit status
	ExitToolFailed = 2

	// ExitVCSFailed indicates a git operation failed
	ExitVCSFailed = 3

	// ExitConfigInvalid indicates invalid or missing configuration
	ExitConfigInvalid = 4

	// ExitMissingDependencies indicates required dependencies are missing
	ExitMissingDependencies = 5
)

// ExitError carries a bare exit code for commands that have already
// reported their outcome (for example doctor's check report). Execute
// prints nothing for it.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// NewExitError creates an ExitError with the given code.
func NewExitError(code int) *ExitError {
	return &ExitError{Code: code}
}

// ExitCode maps an error to the process exit code. A failing external
// tool's own exit status is propagated unchanged; everything else maps
// to one of the fixed codes above.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var toolErr *errors.ToolError
	if stderrors.As(err, &toolErr) {
		if toolErr.HasExitCode() {
			return toolErr.ExitCode
		}
		return ExitToolFailed
	}

	var exitErr *ExitError
	if stderrors.As(err, &exitErr) {
		return exitErr.Code
	}

	var vcsErr *errors.VCSError
	if stderrors.As(err, &vcsErr) {
		return ExitVCSFailed
	}

	if cliErr := errors.AsCLIError(err); cliErr != nil {
		switch cliErr.Category {
		case errors.Argument:
			return ExitInvalidArguments
		case errors.Configuration:
			return ExitConfigInvalid
		case errors.Prerequisite:
			return ExitMissingDependencies
		}
	}

	return ExitInvalidArguments
}
