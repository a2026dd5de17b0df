// Package config provides hierarchical configuration management for relprep using koanf.
// Configuration is loaded with priority: environment variables > project config (.relprep/config.yml)
// > user config (~/.config/relprep/config.yml) > defaults. It supports both YAML and legacy JSON
// formats, warning when a deprecated JSON file is still in use.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/relprep/relprep/internal/notify"
)

// ConfigSource tracks where a configuration value came from
type ConfigSource string

const (
	SourceDefault ConfigSource = "default"
	SourceUser    ConfigSource = "user"
	SourceProject ConfigSource = "project"
	SourceEnv     ConfigSource = "env"
)

// Configuration represents the relprep CLI tool configuration
type Configuration struct {
	// Changelog configures the changelog artifact handled by the preparer.
	Changelog ChangelogConfig `koanf:"changelog" yaml:"changelog"`

	// Generator configures the external changelog generator command templates.
	Generator GeneratorConfig `koanf:"generator" yaml:"generator"`

	// Commit configures the release-prep commit.
	Commit CommitConfig `koanf:"commit" yaml:"commit"`

	// Release configures the optional downstream version-release tool used
	// by 'relprep release'. The preparer itself never invokes it.
	Release ReleaseConfig `koanf:"release" yaml:"release"`

	// History configures the advisory run log.
	History HistoryConfig `koanf:"history" yaml:"history"`

	// Notifications configures desktop notifications on run completion.
	Notifications notify.NotificationConfig `koanf:"notifications" yaml:"notifications"`

	// StateDir is the directory for run state such as the history log.
	// Can be set via RELPREP_STATE_DIR env var.
	StateDir string `koanf:"state_dir" yaml:"state_dir" validate:"required"`
}

// ChangelogConfig describes the changelog artifact.
type ChangelogConfig struct {
	// Path is the artifact location relative to the repository root.
	Path string `koanf:"path" yaml:"path" validate:"required"`
}

// GeneratorConfig holds the external generator command templates.
type GeneratorConfig struct {
	// PreviewCmd runs in both modes and streams pending entries.
	// Example: "git-cliff --unreleased"
	PreviewCmd string `koanf:"preview_cmd" yaml:"preview_cmd" validate:"required"`
	// GenerateCmd runs in execute mode, with {{TAG}} and {{OUTPUT}}
	// placeholders for the target version and the artifact path.
	GenerateCmd string `koanf:"generate_cmd" yaml:"generate_cmd" validate:"required"`
}

// CommitConfig holds commit settings.
type CommitConfig struct {
	// MessageTemplate is the commit message with a {{VERSION}} placeholder.
	MessageTemplate string `koanf:"message_template" yaml:"message_template" validate:"required"`
}

// ReleaseConfig holds the downstream release tool settings.
type ReleaseConfig struct {
	// Command is the version-release command template with a {{VERSION}}
	// placeholder. Empty means unset.
	Command string `koanf:"command" yaml:"command"`
}

// HistoryConfig holds run-history settings.
type HistoryConfig struct {
	Enabled    bool `koanf:"enabled" yaml:"enabled"`
	MaxEntries int  `koanf:"max_entries" yaml:"max_entries" validate:"min=0,max=10000"`
}

// LoadOptions configures how configuration is loaded
type LoadOptions struct {
	// ProjectConfigPath overrides the project config path (default: .relprep/config.yml)
	ProjectConfigPath string
	// WarningWriter receives deprecation warnings (default: os.Stderr)
	WarningWriter io.Writer
	// SkipWarnings suppresses deprecation warnings
	SkipWarnings bool
}

// Load loads configuration from user, project, and environment sources.
// Priority: Environment variables > Project config > User config > Defaults
//
// YAML config paths:
//   - User config: ~/.config/relprep/config.yml (XDG compliant)
//   - Project config: .relprep/config.yml
//
// Legacy JSON config paths (deprecated, triggers migration warning):
//   - User config: ~/.relprep/config.json
//   - Project config: .relprep/config.json
func Load(projectConfigPath string) (*Configuration, error) {
	return LoadWithOptions(LoadOptions{ProjectConfigPath: projectConfigPath})
}

// LoadWithOptions loads configuration with custom options
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")
	warningWriter := getWarningWriter(opts.WarningWriter)

	loadDefaults(k)

	if err := loadUserConfig(k, warningWriter, opts.SkipWarnings); err != nil {
		return nil, err
	}

	if err := loadProjectConfig(k, opts.ProjectConfigPath, warningWriter, opts.SkipWarnings); err != nil {
		return nil, err
	}

	if err := loadEnvironmentConfig(k); err != nil {
		return nil, err
	}

	return finalizeConfig(k)
}

// getWarningWriter returns the warning writer or defaults to stderr
func getWarningWriter(w io.Writer) io.Writer {
	if w == nil {
		return os.Stderr
	}
	return w
}

// loadDefaults applies default configuration values
func loadDefaults(k *koanf.Koanf) {
	defaults := GetDefaults()
	for key, value := range defaults {
		k.Set(key, value)
	}
}

// loadUserConfig loads user-level config (YAML preferred, legacy JSON supported).
// Priority: YAML (~/.config/relprep/config.yml) > JSON (~/.relprep/config.json).
// Warns if both exist (YAML used, JSON ignored) or if only legacy JSON exists.
func loadUserConfig(k *koanf.Koanf, warningWriter io.Writer, skipWarnings bool) error {
	userYAMLPath, _ := UserConfigPath()
	legacyUserPath, _ := LegacyUserConfigPath()

	userYAMLExists := fileExists(userYAMLPath)
	legacyUserExists := fileExists(legacyUserPath)

	if userYAMLExists {
		if err := loadYAMLConfig(k, userYAMLPath, "user"); err != nil {
			return fmt.Errorf("loading user YAML config: %w", err)
		}
		warnLegacyExists(warningWriter, legacyUserPath, userYAMLPath, legacyUserExists, skipWarnings)
	} else if legacyUserExists {
		if err := loadLegacyJSONConfig(k, legacyUserPath, "user", warningWriter, skipWarnings); err != nil {
			return fmt.Errorf("loading legacy user JSON config: %w", err)
		}
	}
	return nil
}

// loadProjectConfig loads project-level config (YAML preferred, legacy JSON supported).
// Supports custom path override (for testing). Falls back to legacy JSON with warning.
// Same priority/warning logic as loadUserConfig.
func loadProjectConfig(k *koanf.Koanf, customPath string, warningWriter io.Writer, skipWarnings bool) error {
	projectYAMLPath := ProjectConfigPath()
	if customPath != "" {
		projectYAMLPath = customPath
	}
	legacyProjectPath := LegacyProjectConfigPath()

	projectYAMLExists := fileExists(projectYAMLPath)
	legacyProjectExists := fileExists(legacyProjectPath)

	if projectYAMLExists {
		if err := loadYAMLConfig(k, projectYAMLPath, "project"); err != nil {
			return fmt.Errorf("loading project YAML config: %w", err)
		}
		warnLegacyExists(warningWriter, legacyProjectPath, projectYAMLPath, legacyProjectExists, skipWarnings)
	} else if legacyProjectExists {
		if err := loadLegacyJSONConfig(k, legacyProjectPath, "project", warningWriter, skipWarnings); err != nil {
			return fmt.Errorf("loading legacy project JSON config: %w", err)
		}
	}
	return nil
}

// loadYAMLConfig validates and loads a YAML config file
func loadYAMLConfig(k *koanf.Koanf, path, configType string) error {
	if err := ValidateYAMLSyntax(path); err != nil {
		return fmt.Errorf("validating YAML syntax for %s config: %w", configType, err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to load %s config %s: %w", configType, path, err)
	}
	return nil
}

// loadLegacyJSONConfig loads legacy JSON and warns about migration
func loadLegacyJSONConfig(k *koanf.Koanf, path, configType string, warningWriter io.Writer, skipWarnings bool) error {
	if err := k.Load(file.Provider(path), json.Parser()); err != nil {
		return fmt.Errorf("failed to load legacy %s config %s: %w", configType, path, err)
	}
	if !skipWarnings {
		fmt.Fprintf(warningWriter, "Warning: Using deprecated JSON config at %s\n", path)
		fmt.Fprintf(warningWriter, "  Run 'relprep config migrate' to convert it to YAML.\n\n")
	}
	return nil
}

// warnLegacyExists warns if legacy JSON exists alongside new YAML
func warnLegacyExists(warningWriter io.Writer, legacyPath, yamlPath string, legacyExists, skipWarnings bool) {
	if legacyExists && !skipWarnings {
		fmt.Fprintf(warningWriter, "Warning: Legacy JSON config found at %s (ignored, using %s)\n", legacyPath, yamlPath)
		fmt.Fprintf(warningWriter, "  Run 'relprep config migrate' to clean it up.\n\n")
	}
}

// loadEnvironmentConfig loads environment variable overrides
func loadEnvironmentConfig(k *koanf.Koanf) error {
	if err := k.Load(env.Provider("RELPREP_", ".", envTransform), nil); err != nil {
		return fmt.Errorf("failed to load environment config: %w", err)
	}
	return nil
}

// finalizeConfig unmarshals, validates, and applies final transformations
func finalizeConfig(k *koanf.Koanf) (*Configuration, error) {
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := ValidateConfigValues(&cfg, "config"); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg.StateDir = expandHomePath(cfg.StateDir)

	return &cfg, nil
}

// fileExists returns true if the file exists and is readable
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// envKeyMap maps flattened environment key names to nested config paths.
// Needed because config segments themselves contain underscores
// (e.g. RELPREP_GENERATOR_PREVIEW_CMD -> generator.preview_cmd).
var envKeyMap = map[string]string{
	"changelog_path":                       "changelog.path",
	"generator_preview_cmd":                "generator.preview_cmd",
	"generator_generate_cmd":               "generator.generate_cmd",
	"commit_message_template":              "commit.message_template",
	"release_command":                      "release.command",
	"history_enabled":                      "history.enabled",
	"history_max_entries":                  "history.max_entries",
	"notifications_enabled":                "notifications.enabled",
	"notifications_type":                   "notifications.type",
	"notifications_sound_file":             "notifications.sound_file",
	"notifications_on_long_running":        "notifications.on_long_running",
	"notifications_long_running_threshold": "notifications.long_running_threshold",
}

// envTransform converts environment variable names to config keys
// Example: RELPREP_STATE_DIR -> state_dir
func envTransform(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, "RELPREP_"))
	if mapped, ok := envKeyMap[key]; ok {
		return mapped
	}
	return key
}

// expandHomePath expands ~ to the user's home directory
func expandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}
