package config

// GetDefaultConfigTemplate returns a fully commented config template
// that helps users understand all available options
func GetDefaultConfigTemplate() string {
	return `# relprep Configuration
# See 'relprep config -h' for commands, 'relprep config keys' for all options

# Changelog artifact settings
changelog:
  path: CHANGELOG.md                  # Artifact path, relative to the repository root

# Changelog generator settings
# Both commands run from the repository root. The generate command must
# carry the {{TAG}} and {{OUTPUT}} placeholders.
generator:
  preview_cmd: "git-cliff --unreleased"
  generate_cmd: "git-cliff --tag {{TAG}} --output {{OUTPUT}}"

# Commit settings
# The message template must carry the {{VERSION}} placeholder so every
# release-prep commit embeds the target version.
commit:
  message_template: "chore(release): prepare for {{VERSION}}"

# Downstream release tool (used only by 'relprep release')
# Leave empty if you chain the release step yourself. When set, the command
# must carry the {{VERSION}} placeholder; the execute token is appended in
# execute mode.
release:
  command: ""                         # e.g. "cargo release {{VERSION}}"

# Run history settings
history:
  enabled: true                       # Record runs in the state directory
  max_entries: 50                     # Oldest entries are pruned past this limit

# Desktop notifications on run completion (disabled by default)
# Notifications are skipped in CI and non-interactive sessions regardless
# of this setting.
notifications:
  enabled: false
  type: both                          # sound, visual, or both
  sound_file: ""                      # Custom sound file (platform default if empty)
  on_long_running: false              # Only notify when a run exceeds the threshold
  long_running_threshold: 30s

# State directory for run history
state_dir: ~/.relprep/state
`
}

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		// changelog.path: Where the generated changelog artifact lives,
		// relative to the repository root. This is the path that gets
		// staged and committed.
		"changelog": map[string]interface{}{
			"path": "CHANGELOG.md",
		},
		// generator: Command templates for the external changelog generator.
		// preview_cmd runs in both modes and streams pending entries to the
		// operator; generate_cmd runs only in execute mode and overwrites
		// the artifact with the target version as the newest tag boundary.
		"generator": map[string]interface{}{
			"preview_cmd":  "git-cliff --unreleased",
			"generate_cmd": "git-cliff --tag {{TAG}} --output {{OUTPUT}}",
		},
		// commit.message_template: Message for the release-prep commit.
		// {{VERSION}} expands to the target version string.
		"commit": map[string]interface{}{
			"message_template": "chore(release): prepare for {{VERSION}}",
		},
		// release.command: Optional downstream version-release tool invoked
		// by 'relprep release' after a successful preparation. Empty means
		// unset; the command errors until configured.
		"release": map[string]interface{}{
			"command": "",
		},
		// history: Advisory run log. Failures to write it never fail a run.
		"history": map[string]interface{}{
			"enabled":     true,
			"max_entries": 50,
		},
		// notifications: Desktop notifications on run completion. Opt-in,
		// and suppressed in CI and non-interactive sessions either way.
		"notifications": map[string]interface{}{
			"enabled":                false,
			"type":                   "both",
			"sound_file":             "",
			"on_long_running":        false,
			"long_running_threshold": "30s",
		},
		"state_dir": "~/.relprep/state",
	}
}
