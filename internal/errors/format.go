package errors

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Palette for rendered errors. fatih/color degrades to plain output on
// non-terminals and when NO_COLOR is set.
var (
	errorLabel  = color.New(color.FgRed, color.Bold).SprintFunc()
	errorMsg    = color.New(color.FgRed).SprintFunc()
	fixLabel    = color.New(color.FgGreen, color.Bold).SprintFunc()
	usageLabel  = color.New(color.FgCyan, color.Bold).SprintFunc()
	usageText   = color.New(color.FgCyan).SprintFunc()
	bullet      = color.New(color.FgGreen).SprintFunc()
	categoryFmt = color.New(color.FgYellow).SprintFunc()
)

// FormatError renders a CLIError for the terminal: the categorized
// message line, the usage synopsis when set, then the remediation steps.
func FormatError(err *CLIError) string {
	if err == nil {
		return ""
	}
	return formatError(err, true)
}

// FormatErrorPlain renders the same layout with colors disabled.
func FormatErrorPlain(err *CLIError) string {
	if err == nil {
		return ""
	}
	return formatError(err, false)
}

func formatError(err *CLIError, useColors bool) string {
	paint := func(fn func(a ...interface{}) string, s string) string {
		if useColors {
			return fn(s)
		}
		return s
	}

	var b strings.Builder

	b.WriteString(paint(errorLabel, "Error"))
	b.WriteString(" [")
	b.WriteString(paint(categoryFmt, err.Category.String()))
	b.WriteString("]: ")
	b.WriteString(paint(errorMsg, err.Message))
	b.WriteString("\n")

	if err.Usage != "" {
		b.WriteString("\n")
		b.WriteString(paint(usageLabel, "Usage: "))
		b.WriteString(paint(usageText, err.Usage))
		b.WriteString("\n")
	}

	if len(err.Remediation) > 0 {
		b.WriteString("\n")
		b.WriteString(paint(fixLabel, "To fix this:"))
		b.WriteString("\n")
		for _, step := range err.Remediation {
			b.WriteString("  ")
			b.WriteString(paint(bullet, "•"))
			b.WriteString(" ")
			b.WriteString(step)
			b.WriteString("\n")
		}
	}

	return b.String()
}

// PrintError prints a formatted CLIError to stderr.
func PrintError(err *CLIError) {
	FprintError(os.Stderr, err)
}

// FprintError prints a formatted CLIError to w.
func FprintError(w io.Writer, err *CLIError) {
	if err == nil {
		return
	}
	fmt.Fprint(w, FormatError(err))
}

// FormatSimpleError wraps a plain error in a category and renders it
// with the same layout as FormatError.
func FormatSimpleError(err error, category ErrorCategory) string {
	if err == nil {
		return ""
	}
	return FormatError(&CLIError{
		Category: category,
		Message:  err.Error(),
	})
}

// PrintSimpleError prints a categorized plain error to stderr.
func PrintSimpleError(err error, category ErrorCategory) {
	fmt.Fprint(os.Stderr, FormatSimpleError(err, category))
}
