package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/relprep/relprep/internal/clitool"
	"github.com/relprep/relprep/internal/config"
	"github.com/relprep/relprep/internal/errors"
	"github.com/relprep/relprep/internal/history"
	"github.com/relprep/relprep/internal/lifecycle"
	"github.com/relprep/relprep/internal/notify"
	"github.com/relprep/relprep/internal/output"
	"github.com/relprep/relprep/internal/release"
)

// releaseToolName labels the downstream version-release tool in error
// messages and tool failure reports.
const releaseToolName = "release tool"

var releaseCmd = &cobra.Command{
	Use:   "release <new-version> [--execute]",
	Short: "Prepare the changelog, then hand off to the release tool",
	Long: `Run the full changelog preparation, then chain the configured
version-release tool.

The preparation is identical to the main command: preview, and in execute
mode regenerate, stage, and commit the changelog. Afterwards the command
configured under release.command runs with {{VERSION}} expanded to the
target version; in execute mode the --execute token is appended so the
downstream tool leaves its own dry-run mode too.

The release tool is never invoked when any preparation step fails.`,
	Example: `  # Dry-run both the preparation and the release tool
  relprep release 1.4.0

  # Prepare the changelog and perform the release
  relprep release 1.4.0 --execute`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := release.ParseArgs(args)
		if err != nil {
			return err
		}
		return runReleaseIn(cmd, "", req)
	},
}

func init() {
	releaseCmd.GroupID = GroupWorkflows
	// Same parsing contract as the root command: the version ends flag
	// parsing so the execute token arrives as a positional argument.
	releaseCmd.Flags().SetInterspersed(false)
	rootCmd.AddCommand(releaseCmd)
}

// runReleaseIn prepares the release for the repository at dir and then
// invokes the configured release tool with the same version and execute
// intent.
func runReleaseIn(cmd *cobra.Command, dir string, req release.Request) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	tool, err := releaseTool(cfg, req.Mode)
	if err != nil {
		return err
	}

	env, err := newPrepareEnv(cmd, cfg, dir, req.Mode)
	if err != nil {
		return err
	}

	return lifecycle.RunWithHistory(
		notify.NewHandler(cfg.Notifications),
		historyWriter(cfg),
		"release",
		ExitCode,
		func() (history.HistoryEntry, error) {
			entry, err := env.run(cmd, req)
			if err != nil {
				return entry, err
			}
			return entry, runReleaseTool(cmd, env, tool, req)
		},
	)
}

// releaseTool builds the downstream tool from configuration. The
// command template is required; in execute mode the execute token is
// appended so the tool performs the release rather than its dry run.
func releaseTool(cfg *config.Configuration, mode release.Mode) (*clitool.Tool, error) {
	template := cfg.Release.Command
	if strings.TrimSpace(template) == "" {
		return nil, errors.NewConfigError(
			"no release command configured",
			"Set release.command in .relprep/config.yml, e.g. \"cargo release {{VERSION}}\"",
			"Or run the preparation alone with: relprep <version> [--execute]",
		)
	}
	if mode == release.ModeExecute {
		template += " " + release.ExecuteFlag
	}
	return clitool.New(releaseToolName, template)
}

// runReleaseTool invokes the release tool from the repository root,
// streaming its output and propagating its exit status unchanged.
func runReleaseTool(cmd *cobra.Command, env *prepareEnv, tool *clitool.Tool, req release.Request) error {
	root, err := env.repo.Root()
	if err != nil {
		return errors.NewVCSError("open", err)
	}

	vars := map[string]string{release.PlaceholderVersion: req.Version}
	args, err := tool.BuildArgs(vars)
	if err != nil {
		return errors.NewConfigError(err.Error(), "Fix release.command in .relprep/config.yml")
	}
	output.PrintExecutingCommand(cmd.OutOrStdout(), strings.Join(args, " "))

	result, err := tool.Execute(cmd.Context(), clitool.ExecOptions{
		WorkDir: root,
		Stdout:  cmd.OutOrStdout(),
		Stderr:  cmd.ErrOrStderr(),
	}, vars)
	if err != nil {
		return errors.WrapToolError(releaseToolName, err)
	}
	if result.ExitCode != 0 {
		return errors.NewToolError(releaseToolName, result.ExitCode)
	}

	output.PrintStepSuccess(cmd.OutOrStdout(), "Release tool finished")
	return nil
}
