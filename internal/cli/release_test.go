package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relprep/relprep/internal/config"
	"github.com/relprep/relprep/internal/errors"
	"github.com/relprep/relprep/internal/release"
	"github.com/relprep/relprep/internal/testutil"
)

const releaseTestConfig = `changelog:
  path: CHANGELOG.md
generator:
  preview_cmd: echo pending entries
  generate_cmd: sh -c "echo regenerated-for-{{TAG}} > {{OUTPUT}}"
commit:
  message_template: "chore(release): prepare for {{VERSION}}"
release:
  command: echo releasing {{VERSION}}
history:
  enabled: false
`

func TestReleaseCmd_Structure(t *testing.T) {
	t.Parallel()

	assert.Equal(t, GroupWorkflows, releaseCmd.GroupID)
	assert.Contains(t, releaseCmd.Use, "--execute")
}

func TestReleaseTool_RequiresConfiguration(t *testing.T) {
	t.Parallel()

	cfg := &config.Configuration{}
	_, err := releaseTool(cfg, release.ModePreview)
	require.Error(t, err)

	cliErr := errors.AsCLIError(err)
	require.NotNil(t, cliErr)
	assert.Equal(t, errors.Configuration, cliErr.Category)
	assert.Equal(t, ExitConfigInvalid, ExitCode(err))
}

func TestReleaseTool_AppendsExecuteToken(t *testing.T) {
	t.Parallel()

	cfg := &config.Configuration{}
	cfg.Release.Command = "cargo release {{VERSION}}"

	preview, err := releaseTool(cfg, release.ModePreview)
	require.NoError(t, err)
	assert.Equal(t, "cargo release {{VERSION}}", preview.Template())

	execute, err := releaseTool(cfg, release.ModeExecute)
	require.NoError(t, err)
	assert.Equal(t, "cargo release {{VERSION}} --execute", execute.Template())
}

func TestRunReleaseIn_PreviewMode(t *testing.T) {
	isolateEnv(t)
	useConfig(t, releaseTestConfig)

	repo := testutil.NewRepo(t)
	repo.CommitFile("main.go", "package main\n", "feat: initial")
	head := repo.Head()

	cmd, buf := newTestCommand(t)
	err := runReleaseIn(cmd, repo.Dir, release.Request{Version: "1.4.0", Mode: release.ModePreview})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "pending entries")
	assert.Contains(t, out, "releasing 1.4.0")
	assert.NotContains(t, out, "releasing 1.4.0 --execute", "preview must not pass the execute token downstream")
	assert.Contains(t, out, "Release tool finished")

	assert.Equal(t, head, repo.Head(), "preview must not create commits")
}

func TestRunReleaseIn_ExecuteMode(t *testing.T) {
	isolateEnv(t)
	useConfig(t, releaseTestConfig)

	repo := testutil.NewRepo(t)
	repo.CommitFile("main.go", "package main\n", "feat: initial")
	head := repo.Head()

	cmd, buf := newTestCommand(t)
	err := runReleaseIn(cmd, repo.Dir, release.Request{Version: "1.4.0", Mode: release.ModeExecute})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Committed")
	assert.Contains(t, out, "releasing 1.4.0 --execute")
	assert.Contains(t, out, "Release tool finished")
	assert.NotEqual(t, head, repo.Head(), "execute mode must commit the changelog before the handoff")
}

func TestRunReleaseIn_ToolFailureKeepsCommit(t *testing.T) {
	isolateEnv(t)
	useConfig(t, `changelog:
  path: CHANGELOG.md
generator:
  preview_cmd: echo pending entries
  generate_cmd: sh -c "echo regenerated-for-{{TAG}} > {{OUTPUT}}"
commit:
  message_template: "chore(release): prepare for {{VERSION}}"
release:
  command: sh -c "exit 9" {{VERSION}}
history:
  enabled: false
`)

	repo := testutil.NewRepo(t)
	repo.CommitFile("main.go", "package main\n", "feat: initial")
	head := repo.Head()

	cmd, _ := newTestCommand(t)
	err := runReleaseIn(cmd, repo.Dir, release.Request{Version: "1.4.0", Mode: release.ModeExecute})
	require.Error(t, err)

	// The tool's exit status propagates; the already-made changelog
	// commit stays for the operator to inspect.
	assert.Equal(t, 9, ExitCode(err))
	assert.NotEqual(t, head, repo.Head())
}

func TestRunReleaseIn_ToolNotInvokedWhenPreparationFails(t *testing.T) {
	isolateEnv(t)
	useConfig(t, `changelog:
  path: CHANGELOG.md
generator:
  preview_cmd: sh -c "exit 3"
  generate_cmd: echo {{TAG}} {{OUTPUT}}
commit:
  message_template: "chore(release): prepare for {{VERSION}}"
release:
  command: echo TOOL-RAN {{VERSION}}
history:
  enabled: false
`)

	repo := testutil.NewRepo(t)
	repo.CommitFile("main.go", "package main\n", "feat: initial")

	cmd, buf := newTestCommand(t)
	err := runReleaseIn(cmd, repo.Dir, release.Request{Version: "1.4.0", Mode: release.ModeExecute})
	require.Error(t, err)

	assert.Equal(t, 3, ExitCode(err))
	assert.NotContains(t, buf.String(), "TOOL-RAN")
}
