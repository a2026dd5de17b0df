package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/relprep/relprep/internal/config"
	"github.com/relprep/relprep/internal/errors"
	"github.com/relprep/relprep/internal/generator"
	"github.com/relprep/relprep/internal/git"
	"github.com/relprep/relprep/internal/history"
	"github.com/relprep/relprep/internal/lifecycle"
	"github.com/relprep/relprep/internal/notify"
	"github.com/relprep/relprep/internal/output"
	"github.com/relprep/relprep/internal/progress"
	"github.com/relprep/relprep/internal/release"
)

var showProgress bool

// runPrepare is the root command entry point: it validates the
// positional arguments and runs the release-preparation workflow from
// the current directory.
func runPrepare(cmd *cobra.Command, args []string) error {
	// Argument validation comes first: a missing version must fail
	// before configuration or the repository is even looked at.
	req, err := release.ParseArgs(args)
	if err != nil {
		return err
	}
	return runPrepareIn(cmd, "", req)
}

// runPrepareIn runs the preparation workflow for a repository found at
// dir (empty means the current directory). Split from runPrepare so
// tests can target a fixture repository without changing directories.
func runPrepareIn(cmd *cobra.Command, dir string, req release.Request) error {
	cfg, err := loadConfig()
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
		"prepare",
		ExitCode,
		func() (history.HistoryEntry, error) {
			return env.run(cmd, req)
		},
	)
}

// loadConfig resolves the configuration hierarchy and converts load
// failures into configuration errors so they exit with the right code.
func loadConfig() (*config.Configuration, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, errors.NewConfigError(
			err.Error(),
			"Check .relprep/config.yml for syntax or value errors",
			"Run 'relprep config show' to inspect the resolved configuration",
		)
	}
	return cfg, nil
}

// historyWriter builds the advisory run-log writer, or nil when history
// is disabled.
func historyWriter(cfg *config.Configuration) *history.Writer {
	if !cfg.History.Enabled {
		return nil
	}
	return history.NewWriter(cfg.StateDir, cfg.History.MaxEntries)
}

// prepareEnv holds the wired collaborators for one preparation run.
type prepareEnv struct {
	cfg      *config.Configuration
	repo     *git.Repo
	preparer *release.Preparer
	tracker  *stepTracker
}

// newPrepareEnv opens the repository at dir and wires the generator and
// preparer against it. All workflow side effects stay inside the
// repository root.
func newPrepareEnv(cmd *cobra.Command, cfg *config.Configuration, dir string, mode release.Mode) (*prepareEnv, error) {
	repo, err := git.Open(dir)
	if err != nil {
		return nil, errors.GitNotRepository()
	}
	root, err := repo.Root()
	if err != nil {
		return nil, errors.NewVCSError("open", err)
	}

	gen, err := generator.New(
		cfg.Generator.PreviewCmd,
		cfg.Generator.GenerateCmd,
		generator.WithWorkDir(root),
		generator.WithOutput(cmd.OutOrStdout(), cmd.ErrOrStderr()),
	)
	if err != nil {
		return nil, errors.NewConfigError(
			err.Error(),
			"Fix the generator command templates in .relprep/config.yml",
		)
	}

	tracker := newStepTracker(cmd.OutOrStdout(), mode)
	preparer := release.NewPreparer(
		gen,
		repo,
		cfg.Changelog.Path,
		cfg.Commit.MessageTemplate,
		release.WithProgress(tracker.step),
	)

	return &prepareEnv{cfg: cfg, repo: repo, preparer: preparer, tracker: tracker}, nil
}

// run executes the workflow and reports the outcome, returning the
// history entry that describes it.
func (e *prepareEnv) run(cmd *cobra.Command, req release.Request) (history.HistoryEntry, error) {
	entry := history.HistoryEntry{
		Version: req.Version,
		Mode:    req.Mode.String(),
	}
	if branch, err := e.repo.CurrentBranch(); err == nil {
		entry.Branch = branch
	}

	result, err := e.preparer.Run(cmd.Context(), req)
	e.tracker.finish(err)
	if err != nil {
		return entry, err
	}

	entry.Status = result.Status.String()
	entry.CommitSHA = result.CommitSHA
	e.printResult(cmd.OutOrStdout(), req, result)
	return entry, nil
}

// printResult writes the one-line outcome summary after the workflow
// steps have completed.
func (e *prepareEnv) printResult(out io.Writer, req release.Request, result *release.Result) {
	switch result.Status {
	case release.StatusCommitted:
		output.PrintStepSuccess(out, fmt.Sprintf("Committed %s: %s",
			shortSHA(result.CommitSHA), e.preparer.CommitMessage(req.Version)))
	case release.StatusNoChanges:
		output.PrintStepSkipped(out, "Nothing to commit: the changelog already matches the last commit")
	case release.StatusPreviewed:
		output.PrintToolOutputEnd(out)
		output.PrintStepSuccess(out, fmt.Sprintf("Preview complete. Run 'relprep %s %s' to commit the changelog.",
			req.Version, release.ExecuteFlag))
	}
}

// shortSHA abbreviates a commit hash for display.
func shortSHA(sha string) string {
	if len(sha) > 8 {
		return sha[:8]
	}
	return sha
}

// stepTracker renders workflow step progress. The preview step always
// prints a plain header because the terminal is handed straight to the
// generator's own output; later steps are quiet, so with --progress on
// a TTY they get a spinner instead.
type stepTracker struct {
	out   io.Writer
	disp  *progress.Display
	total int
	n     int
	last  string
}

func newStepTracker(out io.Writer, mode release.Mode) *stepTracker {
	t := &stepTracker{out: out, total: 1}
	if mode == release.ModeExecute {
		t.total = 4
	}
	if showProgress {
		caps := progress.DetectTerminalCapabilities()
		if caps.IsTTY {
			t.disp = progress.NewDisplay(out, caps)
		}
	}
	return t
}

// step is the release.Preparer progress callback.
func (t *stepTracker) step(label string) {
	t.n++
	if t.n == 2 {
		// The preview stream ended when the second step began.
		output.PrintToolOutputEnd(t.out)
	}

	if t.disp != nil && t.n > 1 {
		if t.last != "" {
			t.disp.CompleteStep(t.last)
		}
		t.disp.StartStep(label)
		t.last = label
		return
	}

	output.PrintStepHeader(t.out, t.n, t.total, label)
}

// finish settles the spinner state once the workflow returns.
func (t *stepTracker) finish(err error) {
	if t.disp == nil || t.last == "" {
		return
	}
	if err != nil {
		t.disp.FailStep(t.last)
		return
	}
	t.disp.CompleteStep(t.last)
	t.last = ""
}

func init() {
	// --execute is deliberately NOT declared as a flag: the execute
	// token is matched positionally by release.ParseArgs, and declaring
	// it would let 'relprep --execute 1.2.0' silently consume it.
	rootCmd.PersistentFlags().BoolVar(&showProgress, "progress", false, "Show spinners during workflow steps")
}
