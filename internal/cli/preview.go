package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/relprep/relprep/internal/errors"
	"github.com/relprep/relprep/internal/generator"
	"github.com/relprep/relprep/internal/git"
	"github.com/relprep/relprep/internal/history"
	"github.com/relprep/relprep/internal/lifecycle"
	"github.com/relprep/relprep/internal/notify"
	"github.com/relprep/relprep/internal/output"
	"github.com/relprep/relprep/internal/watch"
)

var previewWatch bool

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Preview the pending changelog entries",
	Long: `Preview the changelog entries that would land in the next release.

This is the same preview the main command prints before an execute run,
exposed on its own for drafting release notes. Nothing is written, staged,
or committed.

With --watch, relprep keeps running and re-renders the preview whenever
the repository head moves, so the pending entries update live while you
commit. Interrupt with Ctrl-C to stop.`,
	Example: `  # Print the pending entries once
  relprep preview

  # Re-render the preview after every commit
  relprep preview --watch`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPreview(cmd, "")
	},
}

func init() {
	previewCmd.GroupID = GroupWorkflows
	previewCmd.Flags().BoolVarP(&previewWatch, "watch", "w", false, "Re-render the preview when the repository head moves")
	rootCmd.AddCommand(previewCmd)
}

// runPreview renders the changelog preview for the repository at dir
// (empty means the current directory), then optionally stays resident
// watching for head movement.
func runPreview(cmd *cobra.Command, dir string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	repo, err := git.Open(dir)
	if err != nil {
		return errors.GitNotRepository()
	}
	root, err := repo.Root()
	if err != nil {
		return errors.NewVCSError("open", err)
	}

	gen, err := generator.New(
		cfg.Generator.PreviewCmd,
		cfg.Generator.GenerateCmd,
		generator.WithWorkDir(root),
		generator.WithOutput(cmd.OutOrStdout(), cmd.ErrOrStderr()),
	)
	if err != nil {
		return errors.NewConfigError(
			err.Error(),
			"Fix the generator command templates in .relprep/config.yml",
		)
	}

	err = lifecycle.RunWithHistory(
		notify.NewHandler(cfg.Notifications),
		historyWriter(cfg),
		"preview",
		ExitCode,
		func() (history.HistoryEntry, error) {
			entry := history.HistoryEntry{Mode: "preview"}
			if branch, branchErr := repo.CurrentBranch(); branchErr == nil {
				entry.Branch = branch
			}
			if previewErr := gen.Preview(cmd.Context()); previewErr != nil {
				return entry, previewErr
			}
			entry.Status = "previewed"
			return entry, nil
		},
	)
	if err != nil || !previewWatch {
		return err
	}

	return watchPreview(cmd, repo, gen)
}

// watchPreview blocks re-rendering the preview on every head movement
// until the process is interrupted.
func watchPreview(cmd *cobra.Command, repo *git.Repo, gen *generator.CommandGenerator) error {
	gitDir, err := repo.GitDir()
	if err != nil {
		return errors.NewVCSError("open", err)
	}

	watcher, err := watch.New(gitDir, repo.HeadSHA)
	if err != nil {
		return fmt.Errorf("starting repository watcher: %w", err)
	}
	defer watcher.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintln(cmd.OutOrStdout(), "\nWatching for new commits (Ctrl-C to stop)...")

	return watcher.Watch(ctx, func(ctx context.Context) error {
		output.PrintToolOutputEnd(cmd.OutOrStdout())
		return gen.Preview(ctx)
	})
}
