// Package cli implements the relprep command line interface.
package cli

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/relprep/relprep/internal/errors"
	"github.com/relprep/relprep/internal/git"
)

// Command group IDs for organizing help output
const (
	GroupWorkflows     = "workflows"
	GroupConfiguration = "configuration"
	GroupUtility       = "utility"
)

var (
	cfgFile     string
	debugMode   bool
	verboseMode bool
)

var rootCmd = &cobra.Command{
	Use:   "relprep <new-version> [--execute]",
	Short: "Prepare releases by regenerating and committing the changelog",
	Long: `relprep prepares a repository for a release.

Given a target version, it previews the pending changelog entries and, in
execute mode, regenerates the changelog scoped to that version, stages it,
and commits it with the version embedded in the commit message. Running it
again for the same version is a no-op: an identical changelog produces no
second commit.

The version string is passed through verbatim. Only the exact token
--execute as the second argument switches from preview to execute mode;
anything else keeps the run read-only.

Configuration lives in .relprep/config.yml (project) and the user config
directory, with RELPREP_* environment overrides.

Source: https://github.com/relprep/relprep`,
	Example: `  # Preview the pending changelog entries for 1.4.0
  relprep 1.4.0

  # Regenerate, stage, and commit the changelog for 1.4.0
  relprep 1.4.0 --execute

  # Watch the repository and re-preview on new commits
  relprep preview --watch

  # Prepare and then hand off to the configured release tool
  relprep release 1.4.0 --execute

  # Check that the environment is ready
  relprep doctor`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if debugMode {
			git.SetDebugLogger(func(format string, args ...any) {
				fmt.Fprintf(cmd.ErrOrStderr(), "[debug] "+format+"\n", args...)
			})
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPrepare(cmd, args)
	},
}

func init() {
	// The first positional argument ends flag parsing, so a version like
	// "v2" followed by "--exec" reaches ParseArgs untouched instead of
	// being rejected as an unknown flag.
	rootCmd.Flags().SetInterspersed(false)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Path to project config file (default .relprep/config.yml)")
	rootCmd.PersistentFlags().BoolVarP(&debugMode, "debug", "d", false, "Enable debug output")
	rootCmd.PersistentFlags().BoolVarP(&verboseMode, "verbose", "v", false, "Enable verbose output")

	rootCmd.AddGroup(
		&cobra.Group{ID: GroupWorkflows, Title: "Release Workflows:"},
		&cobra.Group{ID: GroupConfiguration, Title: "Configuration:"},
		&cobra.Group{ID: GroupUtility, Title: "Utilities:"},
	)
	rootCmd.SetHelpCommandGroupID(GroupUtility)
	rootCmd.SetCompletionCommandGroupID(GroupUtility)
}

// Execute runs the root command. Structured CLI errors are printed with
// their remediation steps; bare ExitErrors stay silent because their
// command already reported the outcome; everything else gets a plain
// error line. The caller maps the returned error to a process exit code.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		var exitErr *ExitError
		switch {
		case stderrors.As(err, &exitErr):
			// Report already printed by the command.
		case errors.AsCLIError(err) != nil:
			errors.PrintError(errors.AsCLIError(err))
		default:
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}
	return err
}
