package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relprep/relprep/internal/testutil"
)

const doctorTestConfig = `changelog:
  path: CHANGELOG.md
generator:
  preview_cmd: "true"
  generate_cmd: "true --tag {{TAG}} --output {{OUTPUT}}"
commit:
  message_template: "chore(release): prepare for {{VERSION}}"
history:
  enabled: false
`

func TestDoctorCmd_Structure(t *testing.T) {
	t.Parallel()

	assert.Equal(t, GroupUtility, doctorCmd.GroupID)
}

func TestRunDoctor_HealthyEnvironment(t *testing.T) {
	isolateEnv(t)
	useConfig(t, doctorTestConfig)

	repo := testutil.NewRepo(t)
	repo.CommitFile("main.go", "package main\n", "feat: initial")

	cmd, buf := newTestCommand(t)
	err := runDoctor(cmd, repo.Dir)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "✓ Configuration")
	assert.Contains(t, out, "✓ Git repository")
	assert.Contains(t, out, "✓ Commit identity")
	assert.Contains(t, out, "○ Release tool")
	assert.Contains(t, out, "All checks passed.")
}

func TestRunDoctor_FailureExitsMissingDependencies(t *testing.T) {
	isolateEnv(t)
	useConfig(t, doctorTestConfig)

	cmd, buf := newTestCommand(t)
	err := runDoctor(cmd, t.TempDir())
	require.Error(t, err)

	// The report is the output; the error only carries the exit code.
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, ExitMissingDependencies, exitErr.Code)

	out := buf.String()
	assert.Contains(t, out, "✗ Git repository")
	assert.Contains(t, out, "Fix the failed checks above")
}

func TestRunDoctor_BrokenConfigStillReports(t *testing.T) {
	isolateEnv(t)
	useConfig(t, "generator: [broken\n")

	repo := testutil.NewRepo(t)

	cmd, buf := newTestCommand(t)
	err := runDoctor(cmd, repo.Dir)
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, "✗ Configuration")
	assert.Contains(t, out, "✓ Git repository")
}
