package errors

import "fmt"

// Common error messages for the relprep CLI.
// These templates ensure consistent, actionable error messages.

// GitNotRepository creates an error when not in a git repository.
func GitNotRepository() *CLIError {
	return NewPrerequisiteError(
		"not a git repository",
		"Run relprep from inside the repository you are releasing",
		"Or initialize one with: git init",
	)
}

// GitNoIdentity creates an error when no commit identity is configured.
func GitNoIdentity() *CLIError {
	return NewPrerequisiteError(
		"no git identity configured",
		"Set one with: git config user.name \"Your Name\"",
		"And: git config user.email you@example.com",
	)
}

// GeneratorNotFound creates an error when the changelog generator binary is missing.
func GeneratorNotFound(tool string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("changelog generator %q not found in PATH", tool),
		"Install it, or point generator.preview_cmd and generator.generate_cmd at another tool",
		"Verify with: relprep doctor",
	)
}

// ReleaseCommandNotConfigured creates an error when 'relprep release' runs
// without a configured downstream tool.
func ReleaseCommandNotConfigured() *CLIError {
	return NewConfigError(
		"no release command configured",
		"Set one with: relprep config set release.command \"cargo release {{VERSION}}\"",
		"Or run 'relprep <version> --execute' and invoke your release tool yourself",
	)
}

// ConfigFileNotFound creates an error for a missing config file.
func ConfigFileNotFound(path string) *CLIError {
	return NewConfigError(
		fmt.Sprintf("config file not found: %s", path),
		"Run 'relprep config init' to create default configuration",
		"Or create the file manually with the keys from 'relprep config keys'",
	)
}

// FileNotWritable creates an error when a file cannot be written.
func FileNotWritable(path string) *CLIError {
	return NewRuntimeError(
		fmt.Sprintf("cannot write to file: %s", path),
		"Check file permissions: ls -la "+path,
		"Ensure parent directory exists and is writable",
	)
}

// InvalidFlagCombination creates an error for incompatible flag combinations.
func InvalidFlagCombination(flags string, reason string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("invalid flag combination: %s", flags),
		reason,
		"Use 'relprep <command> --help' to see valid options",
	)
}
