//go:build e2e

package e2e

import (
	"testing"

	"github.com/relprep/relprep/internal/cli"
	"github.com/relprep/relprep/internal/testutil"
	"github.com/stretchr/testify/require"
)

// TestE2E_ExitCodes verifies the documented exit code contract at the
// process boundary: 0 success, 1 invalid arguments, 3 VCS failures,
// 4 configuration errors, 5 missing dependencies, and pass-through of
// a failing generator's own exit status.
func TestE2E_ExitCodes(t *testing.T) {
	tests := map[string]struct {
		setupFunc     func(t *testing.T, env *testutil.E2EEnv)
		args          []string
		wantExitCode  int
		wantStderrSub string
	}{
		"success": {
			setupFunc: func(t *testing.T, env *testutil.E2EEnv) {
				t.Helper()
				env.InitRepo()
			},
			args:         []string{"1.0.0"},
			wantExitCode: cli.ExitSuccess,
		},
		"missing version argument": {
			setupFunc: func(t *testing.T, env *testutil.E2EEnv) {
				t.Helper()
				env.InitRepo()
			},
			args:          []string{},
			wantExitCode:  cli.ExitInvalidArguments,
			wantStderrSub: "Missing new version",
		},
		"not a git repository": {
			setupFunc:     nil, // run from the bare temp dir
			args:          []string{"1.0.0"},
			wantExitCode:  cli.ExitMissingDependencies,
			wantStderrSub: "not a git repository",
		},
		"broken project config": {
			setupFunc: func(t *testing.T, env *testutil.E2EEnv) {
				t.Helper()
				env.InitRepo()
				env.WriteProjectConfig("generator: [broken\n")
			},
			args:         []string{"1.0.0"},
			wantExitCode: cli.ExitConfigInvalid,
		},
		"generator exit status propagates": {
			setupFunc: func(t *testing.T, env *testutil.E2EEnv) {
				t.Helper()
				env.InitRepo()
				env.SetMockExitCode(7)
			},
			args:          []string{"1.0.0"},
			wantExitCode:  7,
			wantStderrSub: "mock git-cliff: forced failure",
		},
		"doctor fails outside a repository": {
			setupFunc:    nil,
			args:         []string{"doctor"},
			wantExitCode: cli.ExitMissingDependencies,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			env := testutil.NewE2EEnv(t)
			if tt.setupFunc != nil {
				tt.setupFunc(t, env)
			}

			result := env.Run(tt.args...)

			require.Equal(t, tt.wantExitCode, result.ExitCode,
				"unexpected exit code\nstdout: %s\nstderr: %s",
				result.Stdout, result.Stderr)
			if tt.wantStderrSub != "" {
				require.Contains(t, result.Stderr, tt.wantStderrSub)
			}
		})
	}
}

// TestE2E_FailedExecuteLeavesNoCommit verifies that a generator failure
// in execute mode aborts before any repository mutation.
func TestE2E_FailedExecuteLeavesNoCommit(t *testing.T) {
	env := testutil.NewE2EEnv(t)
	repo := env.InitRepo()
	headBefore := repo.Head()

	env.SetMockExitCode(3)
	result := env.Run("1.0.0", "--execute")

	require.Equal(t, 3, result.ExitCode,
		"generator exit status should propagate\nstdout: %s\nstderr: %s",
		result.Stdout, result.Stderr)
	require.Equal(t, headBefore, repo.Head(), "failed run must not commit")
	require.False(t, env.ChangelogExists(), "failed run must not leave the artifact")
}
