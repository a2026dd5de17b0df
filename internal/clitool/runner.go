package clitool

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// Runner executes external commands. It is an interface so orchestration
// logic can be tested without spawning real processes.
type Runner interface {
	// Run executes name with args in dir, streaming output to stdout/stderr.
	// Returns the process exit code. A non-zero exit is not an error; the
	// error return is reserved for failures to run the command at all.
	Run(ctx context.Context, dir string, stdout, stderr io.Writer, name string, args ...string) (int, error)
}

// DefaultRunner runs commands with os/exec.
type DefaultRunner struct{}

// NewDefaultRunner creates a Runner backed by os/exec.
func NewDefaultRunner() *DefaultRunner {
	return &DefaultRunner{}
}

// Run implements Runner.
func (r *DefaultRunner) Run(ctx context.Context, dir string, stdout, stderr io.Writer, name string, args ...string) (int, error) {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	cmd.Env = os.Environ()
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		return -1, fmt.Errorf("starting %s: %w", name, err)
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	var err error
	select {
	case <-ctx.Done():
		_ = cmd.Process.Kill()
		<-done
		return -1, fmt.Errorf("running %s: %w", name, ctx.Err())
	case err = <-done:
	}

	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return exitErr.ExitCode(), nil
		}
		return -1, fmt.Errorf("running %s: %w", name, err)
	}
	return 0, nil
}
