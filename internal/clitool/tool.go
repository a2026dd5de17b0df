// Package clitool wraps configurable external tool invocations behind
// command templates. Templates carry {{NAME}} placeholders that are expanded
// with safe quoting and split shell-style, so arbitrary tools can be wired
// in through configuration without a shell.
package clitool

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/google/shlex"
)

// Tool is an external command built from a template string.
type Tool struct {
	name     string
	template string
	runner   Runner
}

// ExecOptions controls a single tool execution.
type ExecOptions struct {
	// WorkDir is the working directory for the command. Empty uses the
	// process's current directory.
	WorkDir string
	// Stdout receives the tool's standard output stream.
	Stdout io.Writer
	// Stderr receives the tool's standard error stream.
	Stderr io.Writer
}

// Result reports a completed tool execution.
type Result struct {
	ExitCode int
	Duration time.Duration
}

// Option configures a Tool.
type Option func(*Tool)

// WithRunner sets a custom command runner (for testing).
func WithRunner(r Runner) Option {
	return func(t *Tool) {
		t.runner = r
	}
}

// New creates a Tool from a command template. The name is used in error
// messages (e.g. "changelog generator"). Returns an error if the template is
// empty or cannot be split into a command.
func New(name, template string, opts ...Option) (*Tool, error) {
	t := &Tool{
		name:     name,
		template: template,
		runner:   NewDefaultRunner(),
	}
	for _, opt := range opts {
		opt(t)
	}

	if strings.TrimSpace(template) == "" {
		return nil, fmt.Errorf("%s: command template is empty", name)
	}
	if _, err := t.BuildArgs(nil); err != nil {
		return nil, err
	}
	return t, nil
}

// Name returns the tool's display name.
func (t *Tool) Name() string {
	return t.name
}

// Template returns the raw command template.
func (t *Tool) Template() string {
	return t.template
}

// BuildArgs expands the template with the given placeholder values and
// splits the result into an argument vector. Values are single-quoted before
// expansion so paths and versions with spaces survive the split intact.
func (t *Tool) BuildArgs(vars map[string]string) ([]string, error) {
	expanded := t.template
	for placeholder, value := range vars {
		expanded = strings.ReplaceAll(expanded, placeholder, quoteForShlex(value))
	}

	args, err := shlex.Split(expanded)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid command template: %w", t.name, err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("%s: command template produces no command", t.name)
	}
	return args, nil
}

// Validate checks that the template expands cleanly and that the command
// exists in PATH. Used by preflight checks, not by the run path.
func (t *Tool) Validate() error {
	args, err := t.BuildArgs(nil)
	if err != nil {
		return err
	}
	if _, err := exec.LookPath(args[0]); err != nil {
		return fmt.Errorf("%s: command %q not found in PATH", t.name, args[0])
	}
	return nil
}

// Execute expands the template and runs the resulting command, streaming
// output per opts. A non-zero exit status is reported in the Result, not as
// an error; the error return covers template and process start failures.
func (t *Tool) Execute(ctx context.Context, opts ExecOptions, vars map[string]string) (*Result, error) {
	args, err := t.BuildArgs(vars)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	exitCode, err := t.runner.Run(ctx, opts.WorkDir, opts.Stdout, opts.Stderr, args[0], args[1:]...)
	if err != nil {
		return nil, err
	}

	return &Result{
		ExitCode: exitCode,
		Duration: time.Since(start),
	}, nil
}

// quoteForShlex wraps a string in single quotes for safe shlex parsing.
// Single quotes preserve literal values, escaping embedded single quotes.
func quoteForShlex(s string) string {
	// If empty, return empty quoted string
	if s == "" {
		return "''"
	}
	// Escape single quotes by ending quote, adding escaped quote, starting new quote
	// 'don't' becomes 'don'\''t'
	escaped := strings.ReplaceAll(s, "'", `'\''`)
	return "'" + escaped + "'"
}
