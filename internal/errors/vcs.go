package errors

import "fmt"

// VCSError wraps a version-control failure. Repository operations run
// in-process through go-git, so unlike ToolError there is no subprocess
// exit status to propagate; callers map these to a fixed exit code.
type VCSError struct {
	// Op names the failed operation, e.g. "stage", "diff", "commit".
	Op string
	// Err is the underlying go-git error.
	Err error
}

func (e *VCSError) Error() string {
	return fmt.Sprintf("git %s failed: %v", e.Op, e.Err)
}

func (e *VCSError) Unwrap() error {
	return e.Err
}

// NewVCSError wraps err as a VCSError for the named operation.
// Returns nil if err is nil.
func NewVCSError(op string, err error) *VCSError {
	if err == nil {
		return nil
	}
	return &VCSError{Op: op, Err: err}
}
