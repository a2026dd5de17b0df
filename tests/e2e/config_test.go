//go:build e2e

package e2e

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/relprep/relprep/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestE2E_ConfigInitShowSet(t *testing.T) {
	env := testutil.NewE2EEnv(t)
	repo := env.InitRepo()

	// init scaffolds the project config.
	initRes := env.Run("config", "init")
	require.Equal(t, 0, initRes.ExitCode,
		"config init should succeed\nstdout: %s\nstderr: %s", initRes.Stdout, initRes.Stderr)
	require.FileExists(t, filepath.Join(repo.Dir, ".relprep", "config.yml"))

	// set rewrites a single key in place.
	set := env.Run("config", "set", "changelog.path", "docs/CHANGELOG.md")
	require.Equal(t, 0, set.ExitCode,
		"config set should succeed\nstdout: %s\nstderr: %s", set.Stdout, set.Stderr)

	// show resolves the hierarchy with the new value.
	show := env.Run("config", "show")
	require.Equal(t, 0, show.ExitCode,
		"config show should succeed\nstdout: %s\nstderr: %s", show.Stdout, show.Stderr)
	assert.Contains(t, show.Stdout, "docs/CHANGELOG.md")
	assert.Contains(t, show.Stdout, "Configuration Sources")
}

func TestE2E_EnvOverridesProjectConfig(t *testing.T) {
	env := testutil.NewE2EEnv(t)
	repo := env.InitRepo()
	repo.CommitFile("main.go", "package main\n", "feat: add entry point")
	env.WriteProjectConfig("changelog:\n  path: FROM_PROJECT.md\n")

	result := env.RunWithEnv([]string{"RELPREP_CHANGELOG_PATH=FROM_ENV.md"},
		"5.0.0", "--execute")

	require.Equal(t, 0, result.ExitCode,
		"execute should succeed\nstdout: %s\nstderr: %s", result.Stdout, result.Stderr)

	_, err := os.Stat(filepath.Join(repo.Dir, "FROM_ENV.md"))
	assert.NoError(t, err, "env override should win over the project config")
	assert.NoFileExists(t, filepath.Join(repo.Dir, "FROM_PROJECT.md"))
}
