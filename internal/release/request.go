// Package release implements the release-preparation workflow: parsing
// the operator's arguments, previewing pending changelog entries, and in
// execute mode regenerating, staging, and committing the changelog
// behind an idempotency gate.
package release

import (
	"github.com/relprep/relprep/internal/errors"
)

// Mode selects between inspecting pending changes and mutating the
// repository.
type Mode int

const (
	// ModePreview only inspects and prints pending changelog entries.
	ModePreview Mode = iota
	// ModeExecute regenerates, stages, and commits the changelog.
	ModeExecute
)

func (m Mode) String() string {
	if m == ModeExecute {
		return "execute"
	}
	return "preview"
}

// ExecuteFlag is the exact token that switches a run into execute mode.
// Comparison is literal: any other second argument, including near
// misses like "--exec", leaves the run in preview mode.
const ExecuteFlag = "--execute"

// Usage is the one-line invocation synopsis shown with argument errors.
const Usage = "relprep <version> [--execute]"

// Request is a validated release-preparation request.
type Request struct {
	// Version is the target version string exactly as supplied. It is
	// passed through to the changelog generator and the commit message
	// without normalization.
	Version string

	// Mode selects preview or execute behavior.
	Mode Mode
}

// ParseArgs validates the positional arguments of a run. The first
// argument is the required target version; a second argument equal to
// ExecuteFlag selects execute mode. Arguments beyond the second are
// ignored.
func ParseArgs(args []string) (Request, error) {
	if len(args) == 0 || args[0] == "" {
		return Request{}, errors.NewArgumentErrorWithUsage("Missing new version", Usage)
	}

	req := Request{Version: args[0], Mode: ModePreview}
	if len(args) > 1 && args[1] == ExecuteFlag {
		req.Mode = ModeExecute
	}
	return req, nil
}
