package testutil

import (
	"encoding/json"
	"fmt"
	"os"
	"testing"
	"time"
)

// HelperProcessConfig configures the behavior of TestHelperProcess.
type HelperProcessConfig struct {
	// ExitCode is the exit code to return (default 0).
	ExitCode int `json:"exit_code"`
	// Stdout is the content to write to stdout.
	Stdout string `json:"stdout"`
	// Stderr is the content to write to stderr.
	Stderr string `json:"stderr"`
	// SleepMs delays exit, for cancellation tests.
	SleepMs int `json:"sleep_ms"`
}

// Environment variable names used by the helper process protocol.
const (
	// EnvWantHelperProcess signals that the test binary should run as a helper process.
	EnvWantHelperProcess = "GO_WANT_HELPER_PROCESS"
	// EnvHelperProcessConfig contains JSON-encoded HelperProcessConfig.
	EnvHelperProcessConfig = "GO_HELPER_PROCESS_CONFIG"
)

// TestHelperProcess turns the test binary into a mock subprocess. Call it
// from a test function named TestHelperProcess in the package under test:
//
//	func TestHelperProcess(t *testing.T) {
//	    testutil.TestHelperProcess(t)
//	}
//
// When GO_WANT_HELPER_PROCESS is unset it returns immediately, so the
// wrapper is a no-op during normal test runs. When set, it writes the
// configured output and exits the process with the configured code.
func TestHelperProcess(t *testing.T) {
	if os.Getenv(EnvWantHelperProcess) != "1" {
		return
	}

	config := HelperProcessConfig{}
	if configJSON := os.Getenv(EnvHelperProcessConfig); configJSON != "" {
		// Ignore parse errors; use defaults on failure
		_ = json.Unmarshal([]byte(configJSON), &config)
	}

	if config.Stdout != "" {
		fmt.Fprint(os.Stdout, config.Stdout)
	}
	if config.Stderr != "" {
		fmt.Fprint(os.Stderr, config.Stderr)
	}
	if config.SleepMs > 0 {
		time.Sleep(time.Duration(config.SleepMs) * time.Millisecond)
	}

	os.Exit(config.ExitCode)
}

// SetHelperEnv marks the current test's environment so that child
// processes spawned from os.Environ() run as helper processes. Designed
// for code under test that builds its own exec.Cmd from a command name:
//
//	testutil.SetHelperEnv(t, testutil.HelperProcessConfig{ExitCode: 3})
//	name, args := testutil.HelperCommand(t)
//	code, err := runner.Run(ctx, "", nil, nil, name, args...)
//
// Tests using it cannot run in parallel because of t.Setenv.
func SetHelperEnv(t *testing.T, config HelperProcessConfig) {
	t.Helper()

	configJSON, err := json.Marshal(config)
	if err != nil {
		t.Fatalf("marshal helper config: %v", err)
	}

	t.Setenv(EnvWantHelperProcess, "1")
	t.Setenv(EnvHelperProcessConfig, string(configJSON))
}

// HelperCommand returns the command name and arguments that re-invoke the
// test binary as a helper process.
func HelperCommand(t *testing.T) (string, []string) {
	t.Helper()

	testBinary, err := os.Executable()
	if err != nil {
		t.Fatalf("failed to get test binary path: %v", err)
	}
	return testBinary, []string{"-test.run=^TestHelperProcess$"}
}
