package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/relprep/relprep/internal/config"
	"github.com/relprep/relprep/internal/health"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the environment is ready for a release",
	Long: `Check the environment a release preparation depends on.

doctor verifies that the configuration resolves, that a git repository
with a commit identity is reachable, that the changelog generator
commands are on PATH, that the changelog path is writable, and that the
release tool (when configured) can be found. Checks run concurrently and
never mutate anything.`,
	Example: `  relprep doctor`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDoctor(cmd, "")
	},
}

func init() {
	doctorCmd.GroupID = GroupUtility
	rootCmd.AddCommand(doctorCmd)
}

// runDoctor probes the environment for the repository at dir (empty
// means the current directory) and prints the check report. A failing
// report exits with the missing-dependencies code; the report itself is
// the only output.
func runDoctor(cmd *cobra.Command, dir string) error {
	cfg, cfgErr := config.LoadWithOptions(config.LoadOptions{
		ProjectConfigPath: cfgFile,
		WarningWriter:     cmd.ErrOrStderr(),
	})

	report := health.RunChecks(cmd.Context(), health.Options{
		Dir:       dir,
		Config:    cfg,
		ConfigErr: cfgErr,
	})

	out := cmd.OutOrStdout()
	fmt.Fprint(out, health.FormatReport(report))

	if !report.Passed {
		fmt.Fprintln(out, "\nFix the failed checks above, then re-run 'relprep doctor'.")
		return NewExitError(ExitMissingDependencies)
	}
	fmt.Fprintln(out, "\nAll checks passed.")
	return nil
}
