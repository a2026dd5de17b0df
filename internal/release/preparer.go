package release

import (
	"context"
	"fmt"
	"strings"

	"github.com/relprep/relprep/internal/errors"
)

// PlaceholderVersion is the slot in the commit message template that
// receives the target version string.
const PlaceholderVersion = "{{VERSION}}"

// Generator produces changelog content. Preview streams the pending
// entries for the unreleased range; Generate rewrites the changelog file
// treating tag as the boundary for the newest section.
type Generator interface {
	Preview(ctx context.Context) error
	Generate(ctx context.Context, tag, outputPath string) error
}

// Repository is the narrow slice of version control the preparer needs:
// stage a path, ask whether its staged content differs from the last
// commit, and commit the staged content of exactly that path. Paths are
// relative to the repository root.
type Repository interface {
	Stage(path string) error
	HasStagedChanges(path string) (bool, error)
	Commit(message, path string) (sha string, err error)
}

// Status describes how a successful run concluded.
type Status int

const (
	// StatusPreviewed means a preview-mode run finished after printing
	// pending entries.
	StatusPreviewed Status = iota
	// StatusCommitted means an execute-mode run created the release-prep
	// commit.
	StatusCommitted
	// StatusNoChanges means an execute-mode run regenerated an identical
	// changelog, so no commit was needed. This is a success, not an
	// error: it is what makes repeated runs idempotent.
	StatusNoChanges
)

func (s Status) String() string {
	switch s {
	case StatusCommitted:
		return "committed"
	case StatusNoChanges:
		return "no changes"
	default:
		return "previewed"
	}
}

// Result describes a successful run.
type Result struct {
	Status Status
	// CommitSHA is set only when Status is StatusCommitted.
	CommitSHA string
}

// Preparer orchestrates release preparation against its two
// collaborators. It writes the changelog, mutates the index, and creates
// at most one commit per run; it never tags, never pushes, and never
// invokes the downstream version-release tool.
type Preparer struct {
	generator     Generator
	repo          Repository
	changelogPath string
	template      string
	progress      func(step string)
}

// Option configures a Preparer.
type Option func(*Preparer)

// WithProgress registers a callback invoked with a human-readable
// message as each workflow step starts.
func WithProgress(fn func(step string)) Option {
	return func(p *Preparer) {
		p.progress = fn
	}
}

// NewPreparer wires a Preparer. changelogPath is the changelog artifact
// location relative to the repository root; template is the commit
// message template containing the {{VERSION}} placeholder.
func NewPreparer(gen Generator, repo Repository, changelogPath, template string, opts ...Option) *Preparer {
	p := &Preparer{
		generator:     gen,
		repo:          repo,
		changelogPath: changelogPath,
		template:      template,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes the workflow for req. The preview step always runs first
// and its failure aborts the whole run. A preview-mode run ends there.
// An execute-mode run then regenerates the changelog scoped to the
// target version, stages it, and commits it when the staged content
// differs from the last commit; an identical regeneration concludes as
// StatusNoChanges. The commit covers only the changelog path, so other
// work the operator has staged is left alone. Failures abort immediately with no cleanup, leaving
// the repository state for the operator to inspect.
func (p *Preparer) Run(ctx context.Context, req Request) (*Result, error) {
	if req.Version == "" {
		return nil, errors.NewArgumentErrorWithUsage("Missing new version", Usage)
	}

	p.step("Previewing pending changelog entries")
	if err := p.generator.Preview(ctx); err != nil {
		return nil, err
	}

	if req.Mode != ModeExecute {
		return &Result{Status: StatusPreviewed}, nil
	}

	p.step(fmt.Sprintf("Regenerating %s for %s", p.changelogPath, req.Version))
	if err := p.generator.Generate(ctx, req.Version, p.changelogPath); err != nil {
		return nil, err
	}

	p.step(fmt.Sprintf("Staging %s", p.changelogPath))
	if err := p.repo.Stage(p.changelogPath); err != nil {
		return nil, errors.NewVCSError("stage", err)
	}

	changed, err := p.repo.HasStagedChanges(p.changelogPath)
	if err != nil {
		return nil, errors.NewVCSError("diff", err)
	}
	if !changed {
		p.step("No changelog changes to commit")
		return &Result{Status: StatusNoChanges}, nil
	}

	message := p.CommitMessage(req.Version)
	p.step(fmt.Sprintf("Committing %q", message))
	sha, err := p.repo.Commit(message, p.changelogPath)
	if err != nil {
		return nil, errors.NewVCSError("commit", err)
	}

	return &Result{Status: StatusCommitted, CommitSHA: sha}, nil
}

// CommitMessage renders the commit message for a version. The rendered
// message always embeds the version string literally.
func (p *Preparer) CommitMessage(version string) string {
	return strings.ReplaceAll(p.template, PlaceholderVersion, version)
}

func (p *Preparer) step(name string) {
	if p.progress != nil {
		p.progress(name)
	}
}
