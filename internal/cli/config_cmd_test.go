package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relprep/relprep/internal/config"
)

// newConfigTestCommand builds an isolated command with the given bool
// flags declared, for exercising the config run functions directly.
func newConfigTestCommand(t *testing.T, runE func(*cobra.Command, []string) error, boolFlags ...string) (*cobra.Command, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	cmd := &cobra.Command{Use: "test", RunE: runE, SilenceUsage: true, SilenceErrors: true}
	for _, name := range boolFlags {
		cmd.Flags().Bool(name, false, "")
	}
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	return cmd, &buf
}

func TestConfigCmd_Subcommands(t *testing.T) {
	t.Parallel()

	assert.Equal(t, GroupConfiguration, configCmd.GroupID)

	found := make(map[string]bool)
	for _, sub := range configCmd.Commands() {
		found[sub.Name()] = true
	}
	for _, want := range []string{"show", "init", "path", "keys", "set", "migrate"} {
		assert.True(t, found[want], "Should have %s subcommand", want)
	}
}

func TestRunConfigShow(t *testing.T) {
	isolateEnv(t)
	useConfig(t, workflowTestConfig)

	cmd, buf := newConfigTestCommand(t, runConfigShow)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())

	out := buf.String()
	assert.Contains(t, out, "Configuration Sources")
	assert.Contains(t, out, "Resolved configuration:")
	assert.Contains(t, out, "changelog:")
	assert.Contains(t, out, "CHANGELOG.md")
	assert.Contains(t, out, "state_dir:")
}

func TestRunConfigShow_InvalidConfigFails(t *testing.T) {
	isolateEnv(t)
	useConfig(t, "changelog: [unclosed\n")

	cmd, _ := newConfigTestCommand(t, runConfigShow)
	cmd.SetArgs([]string{})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitConfigInvalid, ExitCode(err))
}

func TestRunConfigInit_Project(t *testing.T) {
	isolateEnv(t)
	t.Chdir(t.TempDir())

	cmd, buf := newConfigTestCommand(t, runConfigInit, "user", "force")
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, buf.String(), "Created")

	content, err := os.ReadFile(filepath.Join(".relprep", "config.yml"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "generator:")
	assert.Contains(t, string(content), "{{TAG}}")
}

func TestRunConfigInit_RefusesOverwrite(t *testing.T) {
	isolateEnv(t)
	t.Chdir(t.TempDir())

	cmd, _ := newConfigTestCommand(t, runConfigInit, "user", "force")
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())

	again, _ := newConfigTestCommand(t, runConfigInit, "user", "force")
	again.SetArgs([]string{})
	err := again.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	forced, _ := newConfigTestCommand(t, runConfigInit, "user", "force")
	forced.SetArgs([]string{"--force"})
	assert.NoError(t, forced.Execute())
}

func TestRunConfigInit_UserLevel(t *testing.T) {
	isolateEnv(t)
	t.Chdir(t.TempDir())

	cmd, _ := newConfigTestCommand(t, runConfigInit, "user", "force")
	cmd.SetArgs([]string{"--user"})
	require.NoError(t, cmd.Execute())

	userPath, err := config.UserConfigPath()
	require.NoError(t, err)
	assert.FileExists(t, userPath)
	assert.NoDirExists(t, ".relprep")
}

func TestRunConfigPath(t *testing.T) {
	isolateEnv(t)
	t.Chdir(t.TempDir())

	prev := cfgFile
	cfgFile = ""
	t.Cleanup(func() { cfgFile = prev })

	cmd, buf := newConfigTestCommand(t, runConfigPath)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())

	out := buf.String()
	assert.Contains(t, out, filepath.Join(".relprep", "config.yml"))
	assert.Contains(t, out, "(absent)")

	// Once the project config exists the marker flips.
	require.NoError(t, os.MkdirAll(".relprep", 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(".relprep", "config.yml"), []byte("{}\n"), 0o644))

	cmd2, buf2 := newConfigTestCommand(t, runConfigPath)
	cmd2.SetArgs([]string{})
	require.NoError(t, cmd2.Execute())
	assert.Contains(t, buf2.String(), "(present)")
}

func TestRunConfigKeys(t *testing.T) {
	t.Parallel()

	cmd, buf := newConfigTestCommand(t, runConfigKeys)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())

	out := buf.String()
	assert.Contains(t, out, "changelog.path")
	assert.Contains(t, out, "generator.generate_cmd")
	assert.Contains(t, out, "history.max_entries")
	assert.Contains(t, out, "default:")
}

func TestRunConfigSet(t *testing.T) {
	isolateEnv(t)
	t.Chdir(t.TempDir())

	tests := map[string]struct {
		args           []string
		wantOutput     string
		wantErrContain string
	}{
		"set string value": {
			args:       []string{"changelog.path", "docs/CHANGELOG.md"},
			wantOutput: "Set changelog.path = docs/CHANGELOG.md in project config",
		},
		"set nested boolean": {
			args:       []string{"history.enabled", "false"},
			wantOutput: "Set history.enabled = false in project config",
		},
		"set integer": {
			args:       []string{"history.max_entries", "100"},
			wantOutput: "Set history.max_entries = 100 in project config",
		},
		"unknown key": {
			args:           []string{"no.such.key", "value"},
			wantErrContain: "unknown configuration key",
		},
		"invalid integer": {
			args:           []string{"history.max_entries", "lots"},
			wantErrContain: "invalid integer",
		},
		"invalid boolean": {
			args:           []string{"history.enabled", "maybe"},
			wantErrContain: "invalid boolean",
		},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			cmd, buf := newConfigTestCommand(t, func(cmd *cobra.Command, args []string) error {
				return runConfigSet(cmd, tt.args)
			}, "user")
			cmd.SetArgs([]string{})

			err := cmd.Execute()
			if tt.wantErrContain != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrContain)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, buf.String(), tt.wantOutput)
		})
	}

	// The written values round-trip through the loader.
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "docs/CHANGELOG.md", cfg.Changelog.Path)
	assert.False(t, cfg.History.Enabled)
	assert.Equal(t, 100, cfg.History.MaxEntries)
}

func TestRunConfigSet_PreservesComments(t *testing.T) {
	isolateEnv(t)
	t.Chdir(t.TempDir())

	require.NoError(t, os.MkdirAll(".relprep", 0o755))
	seeded := "changelog:\n  path: CHANGELOG.md # hand-tuned artifact path\n"
	require.NoError(t, os.WriteFile(filepath.Join(".relprep", "config.yml"), []byte(seeded), 0o644))

	cmd, _ := newConfigTestCommand(t, func(cmd *cobra.Command, args []string) error {
		return runConfigSet(cmd, []string{"history.max_entries", "25"})
	}, "user")
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())

	// Setting one key must not strip comments attached to others.
	content, err := os.ReadFile(filepath.Join(".relprep", "config.yml"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "# hand-tuned artifact path")
	assert.Contains(t, string(content), "max_entries: 25")
}

func TestRunConfigMigrate(t *testing.T) {
	isolateEnv(t)
	t.Chdir(t.TempDir())

	legacy := map[string]any{
		"changelog": map[string]any{"path": "LEGACY.md"},
	}
	data, err := json.Marshal(legacy)
	require.NoError(t, err)

	home := os.Getenv("HOME")
	legacyPath := filepath.Join(home, ".relprep", "config.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(legacyPath), 0o755))
	require.NoError(t, os.WriteFile(legacyPath, data, 0o644))

	// Dry run reports the plan without writing.
	dry, dryBuf := newConfigTestCommand(t, runConfigMigrate, "dry-run", "remove")
	dry.SetArgs([]string{"--dry-run"})
	require.NoError(t, dry.Execute())
	assert.Contains(t, dryBuf.String(), "Would migrate")

	userPath, err := config.UserConfigPath()
	require.NoError(t, err)
	assert.NoFileExists(t, userPath)

	// The real migration writes the YAML and keeps the JSON.
	cmd, buf := newConfigTestCommand(t, runConfigMigrate, "dry-run", "remove")
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "Migrated")

	assert.FileExists(t, userPath)
	assert.FileExists(t, legacyPath)

	content, err := os.ReadFile(userPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "LEGACY.md")
}

func TestRunConfigMigrate_NothingToDo(t *testing.T) {
	isolateEnv(t)
	t.Chdir(t.TempDir())

	cmd, buf := newConfigTestCommand(t, runConfigMigrate, "dry-run", "remove")
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "No legacy JSON configs found.")
}

func TestRunConfigMigrate_RemoveMovesJSONAside(t *testing.T) {
	isolateEnv(t)
	t.Chdir(t.TempDir())

	home := os.Getenv("HOME")
	legacyPath := filepath.Join(home, ".relprep", "config.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(legacyPath), 0o755))
	require.NoError(t, os.WriteFile(legacyPath, []byte(`{"state_dir":"/tmp/state"}`), 0o644))

	cmd, buf := newConfigTestCommand(t, runConfigMigrate, "dry-run", "remove")
	cmd.SetArgs([]string{"--remove"})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, buf.String(), ".bak")
	assert.NoFileExists(t, legacyPath)
	assert.FileExists(t, legacyPath+".bak")
}
