// Package generator runs the external changelog generator behind the
// release workflow. It consumes the generator through two call shapes:
// a no-argument preview that streams pending entries, and a tag-scoped
// run that rewrites the changelog file for a target version. The
// generated document is treated as opaque; staging and diffing happen
// elsewhere.
package generator

import (
	"context"
	"io"

	"github.com/relprep/relprep/internal/clitool"
	"github.com/relprep/relprep/internal/errors"
)

// Placeholders understood by the generate command template.
const (
	PlaceholderTag    = "{{TAG}}"
	PlaceholderOutput = "{{OUTPUT}}"
)

// Tool names used in error messages.
const (
	previewToolName  = "changelog preview"
	generateToolName = "changelog generator"
)

// CommandGenerator shells out to a configured changelog generator such
// as git-cliff.
type CommandGenerator struct {
	preview  *clitool.Tool
	generate *clitool.Tool
	workDir  string
	stdout   io.Writer
	stderr   io.Writer
}

// Option configures a CommandGenerator.
type Option func(*options)

type options struct {
	workDir  string
	stdout   io.Writer
	stderr   io.Writer
	toolOpts []clitool.Option
}

// WithWorkDir sets the working directory for generator invocations,
// normally the repository root.
func WithWorkDir(dir string) Option {
	return func(o *options) {
		o.workDir = dir
	}
}

// WithOutput directs the generator's stdout and stderr streams.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(o *options) {
		o.stdout = stdout
		o.stderr = stderr
	}
}

// WithRunner swaps the subprocess runner, for tests.
func WithRunner(r clitool.Runner) Option {
	return func(o *options) {
		o.toolOpts = append(o.toolOpts, clitool.WithRunner(r))
	}
}

// New builds a CommandGenerator from the two configured command
// templates. The preview template takes no placeholders; the generate
// template must reference {{TAG}} and {{OUTPUT}}.
func New(previewCmd, generateCmd string, opts ...Option) (*CommandGenerator, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	preview, err := clitool.New(previewToolName, previewCmd, o.toolOpts...)
	if err != nil {
		return nil, err
	}
	generate, err := clitool.New(generateToolName, generateCmd, o.toolOpts...)
	if err != nil {
		return nil, err
	}

	return &CommandGenerator{
		preview:  preview,
		generate: generate,
		workDir:  o.workDir,
		stdout:   o.stdout,
		stderr:   o.stderr,
	}, nil
}

// Preview streams the pending changelog entries for the unreleased
// range. Output goes to the configured writers so the operator sees the
// generator's own formatting.
func (g *CommandGenerator) Preview(ctx context.Context) error {
	return g.run(ctx, g.preview, nil)
}

// Generate rewrites the changelog at outputPath, treating tag as the
// boundary for the newest section. The tag is the target version string
// exactly as the operator supplied it.
func (g *CommandGenerator) Generate(ctx context.Context, tag, outputPath string) error {
	vars := map[string]string{
		PlaceholderTag:    tag,
		PlaceholderOutput: outputPath,
	}
	return g.run(ctx, g.generate, vars)
}

// Validate checks that both command templates parse and that their
// binaries are present in PATH.
func (g *CommandGenerator) Validate() error {
	if err := g.preview.Validate(); err != nil {
		return err
	}
	return g.generate.Validate()
}

// PreviewTemplate returns the configured preview command template.
func (g *CommandGenerator) PreviewTemplate() string {
	return g.preview.Template()
}

// GenerateTemplate returns the configured generate command template.
func (g *CommandGenerator) GenerateTemplate() string {
	return g.generate.Template()
}

func (g *CommandGenerator) run(ctx context.Context, tool *clitool.Tool, vars map[string]string) error {
	result, err := tool.Execute(ctx, clitool.ExecOptions{
		WorkDir: g.workDir,
		Stdout:  g.stdout,
		Stderr:  g.stderr,
	}, vars)
	if err != nil {
		return errors.WrapToolError(tool.Name(), err)
	}
	if result.ExitCode != 0 {
		return errors.NewToolError(tool.Name(), result.ExitCode)
	}
	return nil
}
