package testutil

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"
)

var (
	// relprepBinaryPath caches the built relprep binary path.
	relprepBinaryPath string
	relprepBuildOnce  sync.Once
	relprepBuildErr   error
)

// E2EEnv provides an isolated environment for end-to-end tests.
// It manages PATH isolation, a throwaway HOME, and a mock git-cliff so
// e2e runs never touch a developer's real config or changelog tooling.
type E2EEnv struct {
	t               *testing.T
	tempDir         string
	binDir          string
	repo            *TestRepo
	mockExitCode    int
	mockExitCodeSet bool
}

// CommandResult captures the result of running a relprep command.
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// NewE2EEnv creates an isolated e2e environment. The mock git-cliff is
// the only "git-cliff" reachable on PATH, and HOME points at a temp
// directory so user config and run history stay inside the test.
func NewE2EEnv(t *testing.T) *E2EEnv {
	t.Helper()

	env := &E2EEnv{
		t:       t,
		tempDir: t.TempDir(),
	}
	env.setup()
	return env
}

func (e *E2EEnv) setup() {
	e.t.Helper()

	e.binDir = filepath.Join(e.tempDir, "bin")
	if err := os.MkdirAll(e.binDir, 0o755); err != nil {
		e.t.Fatalf("creating bin directory: %v", err)
	}

	e.installMockGitCliff()
	e.buildRelprep()
}

// installMockGitCliff copies the mock script into the bin directory as
// "git-cliff" so the default generator templates resolve to it.
func (e *E2EEnv) installMockGitCliff() {
	e.t.Helper()

	content, err := os.ReadFile(e.findMockGitCliffPath())
	if err != nil {
		e.t.Fatalf("reading mock-git-cliff.sh: %v", err)
	}

	target := filepath.Join(e.binDir, "git-cliff")
	if err := os.WriteFile(target, content, 0o755); err != nil {
		e.t.Fatalf("writing mock git-cliff binary: %v", err)
	}
}

func (e *E2EEnv) findMockGitCliffPath() string {
	e.t.Helper()

	_, currentFile, _, ok := runtime.Caller(0)
	if !ok {
		e.t.Fatal("failed to determine current file location")
	}

	repoRoot := filepath.Join(filepath.Dir(currentFile), "..", "..")
	mockPath := filepath.Join(repoRoot, "mocks", "scripts", "mock-git-cliff.sh")
	if _, err := os.Stat(mockPath); err != nil {
		e.t.Fatalf("mock-git-cliff.sh not found at %s", mockPath)
	}
	return mockPath
}

func (e *E2EEnv) buildRelprep() {
	e.t.Helper()

	// Build the binary once per test session.
	relprepBuildOnce.Do(func() {
		relprepBinaryPath, relprepBuildErr = buildRelprepBinary()
	})
	if relprepBuildErr != nil {
		e.t.Fatalf("building relprep: %v", relprepBuildErr)
	}

	content, err := os.ReadFile(relprepBinaryPath)
	if err != nil {
		e.t.Fatalf("reading relprep binary: %v", err)
	}
	target := filepath.Join(e.binDir, "relprep")
	if err := os.WriteFile(target, content, 0o755); err != nil {
		e.t.Fatalf("writing relprep binary: %v", err)
	}
}

func buildRelprepBinary() (string, error) {
	_, currentFile, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("determining current file location")
	}
	repoRoot := filepath.Join(filepath.Dir(currentFile), "..", "..")

	tmpDir, err := os.MkdirTemp("", "relprep-build-*")
	if err != nil {
		return "", fmt.Errorf("creating temp dir for build: %w", err)
	}

	binaryPath := filepath.Join(tmpDir, "relprep")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/relprep")
	cmd.Dir = repoRoot
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("building relprep: %w\nOutput: %s", err, output)
	}
	return binaryPath, nil
}

// InitRepo creates a fresh git repository with a commit identity and an
// initial commit, and makes it the working directory for Run.
func (e *E2EEnv) InitRepo() *TestRepo {
	e.t.Helper()

	e.repo = NewRepo(e.t)
	e.repo.CommitFile("README.md", "# e2e fixture\n", "feat: initial commit")
	return e.repo
}

// Repo returns the fixture repository, or nil before InitRepo.
func (e *E2EEnv) Repo() *TestRepo {
	return e.repo
}

// WriteProjectConfig writes .relprep/config.yml in the fixture repo.
func (e *E2EEnv) WriteProjectConfig(content string) {
	e.t.Helper()

	if e.repo == nil {
		e.t.Fatal("WriteProjectConfig requires InitRepo first")
	}
	e.repo.WriteFile(filepath.Join(".relprep", "config.yml"), content)
}

// Run executes a relprep command in the isolated environment. The
// working directory is the fixture repository when one exists, the temp
// root otherwise.
func (e *E2EEnv) Run(args ...string) CommandResult {
	e.t.Helper()

	dir := e.tempDir
	if e.repo != nil {
		dir = e.repo.Dir
	}
	return e.RunIn(dir, args...)
}

// RunWithEnv executes a relprep command with extra environment
// variables appended to the isolated environment.
func (e *E2EEnv) RunWithEnv(extraEnv []string, args ...string) CommandResult {
	e.t.Helper()

	dir := e.tempDir
	if e.repo != nil {
		dir = e.repo.Dir
	}
	return e.run(dir, extraEnv, args...)
}

// RunIn executes a relprep command with a specific working directory.
func (e *E2EEnv) RunIn(dir string, args ...string) CommandResult {
	e.t.Helper()
	return e.run(dir, nil, args...)
}

func (e *E2EEnv) run(dir string, extraEnv []string, args ...string) CommandResult {
	e.t.Helper()

	start := time.Now()

	cmd := exec.Command(filepath.Join(e.binDir, "relprep"), args...)
	cmd.Dir = dir
	cmd.Env = append(e.buildIsolatedEnv(), extraEnv...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result := CommandResult{
		ExitCode: 0,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = 1
		}
	}
	return result
}

// buildIsolatedEnv assembles the subprocess environment. The mock bin
// directory leads PATH so git-cliff resolves to the mock; HOME and
// XDG_CONFIG_HOME point into the temp dir so user config, legacy config,
// and the default state directory stay isolated.
func (e *E2EEnv) buildIsolatedEnv() []string {
	isolatedPath := e.binDir
	if systemPath := os.Getenv("PATH"); systemPath != "" {
		isolatedPath = e.binDir + string(os.PathListSeparator) + systemPath
	}

	env := []string{
		"PATH=" + isolatedPath,
		"HOME=" + e.tempDir,
		"XDG_CONFIG_HOME=" + filepath.Join(e.tempDir, ".config"),
		"MOCK_CALL_LOG=" + e.callLogPath(),
	}
	if e.mockExitCodeSet {
		env = append(env, fmt.Sprintf("MOCK_EXIT_CODE=%d", e.mockExitCode))
	}

	safeVars := []string{"TERM", "LANG", "LC_ALL", "TMPDIR"}
	for _, key := range safeVars {
		if val, ok := os.LookupEnv(key); ok {
			env = append(env, key+"="+val)
		}
	}
	return env
}

func (e *E2EEnv) callLogPath() string {
	return filepath.Join(e.tempDir, "git-cliff-calls.log")
}

// MockCalls returns the mock git-cliff invocations so far, one argument
// line per call, oldest first.
func (e *E2EEnv) MockCalls() []string {
	e.t.Helper()

	data, err := os.ReadFile(e.callLogPath())
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		e.t.Fatalf("reading mock call log: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		return nil
	}
	return lines
}

// SetMockExitCode makes the mock git-cliff fail with the given code on
// its next invocations.
func (e *E2EEnv) SetMockExitCode(code int) {
	e.mockExitCode = code
	e.mockExitCodeSet = true
}

// ClearMockExitCode restores the mock git-cliff to normal behavior.
func (e *E2EEnv) ClearMockExitCode() {
	e.mockExitCode = 0
	e.mockExitCodeSet = false
}

// TempDir returns the root temp directory for this environment.
func (e *E2EEnv) TempDir() string {
	return e.tempDir
}

// BinDir returns the directory holding the mock and relprep binaries.
func (e *E2EEnv) BinDir() string {
	return e.binDir
}

// ChangelogPath returns the fixture repo's changelog path.
func (e *E2EEnv) ChangelogPath() string {
	e.t.Helper()

	if e.repo == nil {
		e.t.Fatal("ChangelogPath requires InitRepo first")
	}
	return filepath.Join(e.repo.Dir, "CHANGELOG.md")
}

// ChangelogExists reports whether the changelog artifact exists.
func (e *E2EEnv) ChangelogExists() bool {
	_, err := os.Stat(e.ChangelogPath())
	return err == nil
}

// ReadChangelog returns the changelog artifact's contents.
func (e *E2EEnv) ReadChangelog() string {
	e.t.Helper()

	data, err := os.ReadFile(e.ChangelogPath())
	if err != nil {
		e.t.Fatalf("reading changelog: %v", err)
	}
	return string(data)
}

// HistoryDir returns the isolated default state directory.
func (e *E2EEnv) HistoryDir() string {
	return filepath.Join(e.tempDir, ".relprep", "state")
}
