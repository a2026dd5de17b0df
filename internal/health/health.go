// Package health probes the environment a release preparation needs:
// a git repository with a commit identity, the changelog generator on
// PATH, a writable changelog path, and (when configured) the downstream
// release tool. Results feed the 'relprep doctor' check report.
package health

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/relprep/relprep/internal/clitool"
	"github.com/relprep/relprep/internal/config"
	"github.com/relprep/relprep/internal/git"
)

// CheckResult represents the result of a single environment check.
type CheckResult struct {
	Name   string
	Passed bool
	// Optional marks checks for features that pass when unconfigured
	// (currently only the release tool). They render with a distinct
	// marker so operators can tell "disabled" from "broken".
	Optional bool
	Message  string
}

// Report contains all check results. Passed is false if any check
// failed, optional or not: an optional check only passes while its
// feature is unconfigured.
type Report struct {
	Checks []CheckResult
	Passed bool
}

// Options configures a check run.
type Options struct {
	// Dir locates the repository; empty means the current directory.
	Dir string
	// Config is the resolved configuration. Nil (with ConfigErr set)
	// skips every configuration-dependent check.
	Config *config.Configuration
	// ConfigErr is the configuration load failure, if any.
	ConfigErr error
}

// RunChecks probes the environment and returns the assembled report.
// The repository is opened once; the independent probes then run
// concurrently and their results are reported in a fixed order.
func RunChecks(ctx context.Context, opts Options) *Report {
	configCheck := checkConfig(opts.ConfigErr)

	repo, repoCheck := checkRepository(opts.Dir)

	var (
		identity  CheckResult
		changelog CheckResult
		preview   CheckResult
		generate  CheckResult
		tool      CheckResult
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		identity = checkIdentity(ctx, repo)
		return nil
	})
	g.Go(func() error {
		changelog = checkChangelogPath(ctx, repo, opts.Config)
		return nil
	})
	g.Go(func() error {
		preview = checkGeneratorCommand(ctx, "Changelog preview command", previewTemplate(opts.Config))
		return nil
	})
	g.Go(func() error {
		generate = checkGeneratorCommand(ctx, "Changelog generate command", generateTemplate(opts.Config))
		return nil
	})
	g.Go(func() error {
		tool = checkReleaseTool(ctx, opts.Config)
		return nil
	})
	// Probes never return errors; failures land in their results.
	_ = g.Wait()

	report := &Report{
		Checks: []CheckResult{
			configCheck,
			repoCheck,
			identity,
			changelog,
			preview,
			generate,
			tool,
		},
		Passed: true,
	}
	for _, check := range report.Checks {
		if !check.Passed {
			report.Passed = false
		}
	}
	return report
}

func checkConfig(configErr error) CheckResult {
	if configErr != nil {
		return CheckResult{
			Name:    "Configuration",
			Passed:  false,
			Message: configErr.Error(),
		}
	}
	return CheckResult{
		Name:    "Configuration",
		Passed:  true,
		Message: "resolved (env > project > user > defaults)",
	}
}

func checkRepository(dir string) (*git.Repo, CheckResult) {
	repo, err := git.Open(dir)
	if err != nil {
		return nil, CheckResult{
			Name:    "Git repository",
			Passed:  false,
			Message: "not inside a git repository",
		}
	}

	root, err := repo.Root()
	if err != nil {
		return nil, CheckResult{
			Name:    "Git repository",
			Passed:  false,
			Message: fmt.Sprintf("cannot resolve working tree: %v", err),
		}
	}
	return repo, CheckResult{
		Name:    "Git repository",
		Passed:  true,
		Message: root,
	}
}

func checkIdentity(ctx context.Context, repo *git.Repo) CheckResult {
	result := CheckResult{Name: "Commit identity"}
	if err := ctx.Err(); err != nil {
		result.Message = err.Error()
		return result
	}
	if repo == nil {
		result.Message = "skipped: no repository"
		return result
	}

	name, email, err := repo.Identity()
	if err != nil {
		result.Message = "no user.name/user.email in git config"
		return result
	}
	result.Passed = true
	result.Message = fmt.Sprintf("%s <%s>", name, email)
	return result
}

// checkChangelogPath verifies the changelog artifact location can be
// written: the file itself when it exists, its directory otherwise.
func checkChangelogPath(ctx context.Context, repo *git.Repo, cfg *config.Configuration) CheckResult {
	result := CheckResult{Name: "Changelog path"}
	if err := ctx.Err(); err != nil {
		result.Message = err.Error()
		return result
	}
	if cfg == nil {
		result.Message = "skipped: configuration failed to load"
		return result
	}
	if repo == nil {
		result.Message = "skipped: no repository"
		return result
	}

	root, err := repo.Root()
	if err != nil {
		result.Message = fmt.Sprintf("cannot resolve working tree: %v", err)
		return result
	}
	path := filepath.Join(root, cfg.Changelog.Path)

	if info, err := os.Stat(path); err == nil {
		if info.IsDir() {
			result.Message = fmt.Sprintf("%s is a directory", cfg.Changelog.Path)
			return result
		}
		f, err := os.OpenFile(path, os.O_WRONLY, 0)
		if err != nil {
			result.Message = fmt.Sprintf("%s is not writable", cfg.Changelog.Path)
			return result
		}
		f.Close()
		result.Passed = true
		result.Message = fmt.Sprintf("%s (exists, writable)", cfg.Changelog.Path)
		return result
	}

	f, err := os.CreateTemp(filepath.Dir(path), ".relprep-doctor-*")
	if err != nil {
		result.Message = fmt.Sprintf("directory of %s is not writable", cfg.Changelog.Path)
		return result
	}
	f.Close()
	os.Remove(f.Name())

	result.Passed = true
	result.Message = fmt.Sprintf("%s (will be created)", cfg.Changelog.Path)
	return result
}

func checkGeneratorCommand(ctx context.Context, name, template string) CheckResult {
	result := CheckResult{Name: name}
	if err := ctx.Err(); err != nil {
		result.Message = err.Error()
		return result
	}
	if template == "" {
		result.Message = "skipped: configuration failed to load"
		return result
	}

	tool, err := clitool.New(name, template)
	if err != nil {
		result.Message = err.Error()
		return result
	}
	if err := tool.Validate(); err != nil {
		result.Message = err.Error()
		return result
	}
	result.Passed = true
	result.Message = template
	return result
}

func checkReleaseTool(ctx context.Context, cfg *config.Configuration) CheckResult {
	result := CheckResult{Name: "Release tool", Optional: true}
	if err := ctx.Err(); err != nil {
		result.Message = err.Error()
		return result
	}
	if cfg == nil {
		result.Message = "skipped: configuration failed to load"
		return result
	}
	if cfg.Release.Command == "" {
		result.Passed = true
		result.Message = "not configured ('relprep release' disabled)"
		return result
	}

	tool, err := clitool.New("release tool", cfg.Release.Command)
	if err != nil {
		result.Optional = false
		result.Message = err.Error()
		return result
	}
	if err := tool.Validate(); err != nil {
		result.Optional = false
		result.Message = err.Error()
		return result
	}
	result.Passed = true
	result.Optional = false
	result.Message = cfg.Release.Command
	return result
}

func previewTemplate(cfg *config.Configuration) string {
	if cfg == nil {
		return ""
	}
	return cfg.Generator.PreviewCmd
}

func generateTemplate(cfg *config.Configuration) string {
	if cfg == nil {
		return ""
	}
	return cfg.Generator.GenerateCmd
}

// FormatReport formats the check report for console output.
func FormatReport(report *Report) string {
	var output string
	for _, check := range report.Checks {
		marker := "✗"
		switch {
		case check.Passed && check.Optional:
			marker = "○"
		case check.Passed:
			marker = "✓"
		}
		output += fmt.Sprintf("%s %s: %s\n", marker, check.Name, check.Message)
	}
	return output
}
