// Package progress provides terminal progress display for long-running
// external invocations. It detects terminal capabilities and degrades to
// plain line output on non-interactive streams.
package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
)

// TerminalCapabilities describes what the attached terminal supports.
type TerminalCapabilities struct {
	IsTTY           bool
	SupportsColor   bool
	SupportsUnicode bool
	Width           int
}

// ProgressSymbols selects the marker glyphs and spinner character set.
type ProgressSymbols struct {
	Checkmark  string
	Failure    string
	SpinnerSet int
}

// spinnerInterval is the frame delay for the terminal spinner.
const spinnerInterval = 100 * time.Millisecond

// Display renders step progress for a single run. On a TTY it animates a
// spinner next to the step label; otherwise it prints plain step lines.
// A nil *Display is valid and renders nothing.
type Display struct {
	out     io.Writer
	caps    TerminalCapabilities
	symbols ProgressSymbols
	spin    *spinner.Spinner
}

// NewDisplay creates a Display writing to out using the detected capabilities.
func NewDisplay(out io.Writer, caps TerminalCapabilities) *Display {
	return &Display{
		out:     out,
		caps:    caps,
		symbols: SelectSymbols(caps),
	}
}

// StartStep begins displaying progress for a named step.
func (d *Display) StartStep(label string) {
	if d == nil {
		return
	}
	if !d.caps.IsTTY {
		fmt.Fprintf(d.out, "%s...\n", label)
		return
	}
	d.spin = spinner.New(spinner.CharSets[d.symbols.SpinnerSet], spinnerInterval, spinner.WithWriter(d.out))
	d.spin.Suffix = " " + label
	d.spin.Start()
}

// CompleteStep stops the spinner and prints the step's success marker.
func (d *Display) CompleteStep(label string) {
	if d == nil {
		return
	}
	d.StopSpinner()
	fmt.Fprintf(d.out, "%s %s\n", d.symbols.Checkmark, label)
}

// FailStep stops the spinner and prints the step's failure marker.
func (d *Display) FailStep(label string) {
	if d == nil {
		return
	}
	d.StopSpinner()
	fmt.Fprintf(d.out, "%s %s\n", d.symbols.Failure, label)
}

// StopSpinner stops the spinner without printing a result marker.
// Used before handing the terminal to an external tool's own output.
func (d *Display) StopSpinner() {
	if d == nil || d.spin == nil {
		return
	}
	d.spin.Stop()
	d.spin = nil
}
