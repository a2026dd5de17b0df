// Package output provides terminal output formatting utilities for the relprep CLI.
// This package is designed to have minimal dependencies to avoid import cycles.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// GetTerminalWidth returns the terminal width, defaulting to 80 if unavailable.
func GetTerminalWidth() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 80
}

// PrintToolOutputEnd prints a colored separator after an external tool's
// output ends. Uses dim magenta styling to create visual distinction between
// the tool's stream and relprep's own messages.
func PrintToolOutputEnd(out io.Writer) {
	termWidth := GetTerminalWidth()
	magenta := color.New(color.FgMagenta, color.Faint).SprintFunc()

	label := " relprep "
	lineLen := (termWidth - len(label)) / 2
	if lineLen < 3 {
		lineLen = 3
	}

	line := strings.Repeat("─", lineLen)
	fmt.Fprintf(out, "\n%s%s%s\n", magenta(line), magenta(label), magenta(line))
}

// PrintStepHeader prints a colored step header (e.g., "[1/4] Generating changelog preview...").
// Uses cyan for the step indicator and white for the step name.
func PrintStepHeader(out io.Writer, stepNum, totalSteps int, stepName string) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	white := color.New(color.FgWhite, color.Bold).SprintFunc()
	fmt.Fprintf(out, "%s %s\n", cyan(fmt.Sprintf("[%d/%d]", stepNum, totalSteps)), white(stepName+"..."))
}

// PrintStepSuccess prints a colored success message for a completed step.
// Uses green checkmark and cyan for the detail text.
func PrintStepSuccess(out io.Writer, message string) {
	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	fmt.Fprintf(out, "%s %s\n", green("✓"), cyan(message))
}

// PrintStepSkipped prints a colored informational message for a step that
// resolved to a no-op (e.g., nothing to commit).
func PrintStepSkipped(out io.Writer, message string) {
	yellow := color.New(color.FgYellow).SprintFunc()
	fmt.Fprintf(out, "%s %s\n", yellow("○"), message)
}

// PrintExecutingCommand prints the command being executed with colored styling.
// Uses magenta arrow and dim text for the command details.
func PrintExecutingCommand(out io.Writer, command string) {
	magenta := color.New(color.FgMagenta).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()
	fmt.Fprintf(out, "\n%s %s\n\n", magenta("→ Executing:"), dim(command))
}
