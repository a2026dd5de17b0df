package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/relprep/relprep/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage relprep configuration",
	Long: `Manage relprep configuration settings.

Configuration is loaded with the following priority (highest to lowest):
  1. Environment variables (RELPREP_*)
  2. Project config (.relprep/config.yml)
  3. User config (~/.config/relprep/config.yml)
  4. Built-in defaults`,
	Example: `  # Show the resolved configuration
  relprep config show

  # Write a commented default config to .relprep/config.yml
  relprep config init

  # Set a value in the project config
  relprep config set changelog.path docs/CHANGELOG.md`,
}

var configShowCmd = &cobra.Command{
	Use:          "show",
	Short:        "Print the resolved configuration",
	Long:         `Print the fully resolved configuration as YAML, after merging defaults, user config, project config, and environment overrides.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented default config file",
	Long: `Write the commented default configuration template.

By default the project config (.relprep/config.yml) is created so settings
live next to the repository they describe. Use --user for a user-level
config that applies across projects. Existing files are left unchanged
unless --force is given.`,
	Example: `  # Project config in the current directory
  relprep config init

  # User-level config
  relprep config init --user

  # Overwrite an existing file with the defaults
  relprep config init --force`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:          "path",
	Short:        "Print the config search paths",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runConfigPath,
}

var configKeysCmd = &cobra.Command{
	Use:          "keys",
	Short:        "List all known configuration keys",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runConfigKeys,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration key in the project config file, creating it if
needed. Comments already present in the file are preserved. The key must
be one of the known keys (see 'relprep config keys') and the value must
parse as the key's type.`,
	Example: `  relprep config set changelog.path docs/CHANGELOG.md
  relprep config set history.max_entries 100
  relprep config set notifications.enabled true --user`,
	Args:         cobra.ExactArgs(2),
	SilenceUsage: true,
	RunE:         runConfigSet,
}

var configMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate legacy JSON configs to YAML",
	Long: `Convert legacy JSON config files (~/.relprep/config.json and
.relprep/config.json) to the YAML locations. Existing YAML files are
never overwritten. The JSON originals are kept; --remove moves them
aside to .bak after a successful migration.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runConfigMigrate,
}

func init() {
	configCmd.GroupID = GroupConfiguration
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configKeysCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configMigrateCmd)

	configInitCmd.Flags().Bool("user", false, "Write the user-level config instead of the project config")
	configInitCmd.Flags().BoolP("force", "f", false, "Overwrite an existing config file")
	configSetCmd.Flags().Bool("user", false, "Write to the user-level config instead of the project config")
	configMigrateCmd.Flags().Bool("dry-run", false, "Report planned migrations without writing")
	configMigrateCmd.Flags().Bool("remove", false, "Move the legacy JSON files to .bak after successful migration")
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	bold := color.New(color.Bold).SprintFunc()

	fmt.Fprintln(out, bold("Configuration Sources (lowest to highest priority):"))
	fmt.Fprintln(out, "  defaults  built-in")
	if userPath, err := config.UserConfigPath(); err == nil {
		fmt.Fprintf(out, "  user      %s %s\n", userPath, existenceMarker(userPath))
	}
	projectPath := cfgFile
	if projectPath == "" {
		projectPath = config.ProjectConfigPath()
	}
	fmt.Fprintf(out, "  project   %s %s\n", projectPath, existenceMarker(projectPath))
	fmt.Fprintln(out, "  env       RELPREP_* variables")
	fmt.Fprintln(out)

	fmt.Fprintln(out, bold("Resolved configuration:"))
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize configuration: %w", err)
	}
	fmt.Fprint(out, string(data))
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	userLevel, _ := cmd.Flags().GetBool("user")
	force, _ := cmd.Flags().GetBool("force")

	target := config.ProjectConfigPath()
	if userLevel {
		userPath, err := config.UserConfigPath()
		if err != nil {
			return fmt.Errorf("failed to resolve user config path: %w", err)
		}
		target = userPath
	}

	if _, err := os.Stat(target); err == nil && !force {
		return fmt.Errorf("config file already exists at %s (use --force to overwrite)", target)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(target, []byte(config.GetDefaultConfigTemplate()), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	green := color.New(color.FgGreen).SprintFunc()
	fmt.Fprintf(cmd.OutOrStdout(), "%s Created %s\n", green("✓"), target)
	fmt.Fprintln(cmd.OutOrStdout(), "Edit it to match your changelog generator, then try 'relprep preview'.")
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Config search paths (highest priority first):")
	projectPath := cfgFile
	if projectPath == "" {
		projectPath = config.ProjectConfigPath()
	}
	fmt.Fprintf(out, "  project  %s %s\n", projectPath, existenceMarker(projectPath))
	if userPath, err := config.UserConfigPath(); err == nil {
		fmt.Fprintf(out, "  user     %s %s\n", userPath, existenceMarker(userPath))
	}

	userJSON, projectJSON, err := config.DetectLegacyConfigs()
	if err == nil && (userJSON != "" || projectJSON != "") {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Legacy JSON configs detected (run 'relprep config migrate'):")
		if userJSON != "" {
			fmt.Fprintf(out, "  user     %s\n", userJSON)
		}
		if projectJSON != "" {
			fmt.Fprintf(out, "  project  %s\n", projectJSON)
		}
	}
	return nil
}

func runConfigKeys(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	cyan := color.New(color.FgCyan).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	keys := make([]string, 0, len(config.KnownKeys))
	width := 0
	for key := range config.KnownKeys {
		keys = append(keys, key)
		if len(key) > width {
			width = len(key)
		}
	}
	sort.Strings(keys)

	for _, key := range keys {
		schema := config.KnownKeys[key]
		fmt.Fprintf(out, "%s%s  %s\n", cyan(key), spaces(width-len(key)), dim(schema.Type.String()))
		fmt.Fprintf(out, "    %s (default: %v)\n", schema.Description, displayDefault(schema.Default))
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	userLevel, _ := cmd.Flags().GetBool("user")
	key, value := args[0], args[1]

	target := config.ProjectConfigPath()
	scope := "project"
	if userLevel {
		userPath, err := config.UserConfigPath()
		if err != nil {
			return fmt.Errorf("failed to resolve user config path: %w", err)
		}
		target = userPath
		scope = "user"
	}

	if err := config.SetConfigValue(target, key, value); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s in %s config (%s)\n", key, value, scope, target)
	return nil
}

func runConfigMigrate(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	remove, _ := cmd.Flags().GetBool("remove")
	out := cmd.OutOrStdout()

	userJSON, projectJSON, err := config.DetectLegacyConfigs()
	if err != nil {
		return fmt.Errorf("failed to detect legacy configs: %w", err)
	}
	if userJSON == "" && projectJSON == "" {
		fmt.Fprintln(out, "No legacy JSON configs found.")
		return nil
	}

	results := make([]*config.MigrationResult, 0, 2)
	if userJSON != "" {
		result, err := config.MigrateUserConfig(dryRun)
		if err != nil {
			return err
		}
		results = append(results, result)
	}
	if projectJSON != "" {
		result, err := config.MigrateProjectConfig(dryRun)
		if err != nil {
			return err
		}
		results = append(results, result)
	}

	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	for _, result := range results {
		marker := green("✓")
		if !result.Success {
			marker = yellow("-")
		}
		fmt.Fprintf(out, "%s %s\n", marker, result.Message)
		if result.Success && !result.DryRun && remove {
			if err := config.RemoveLegacyConfig(result.SourcePath, false); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not move %s aside: %v\n", result.SourcePath, err)
				continue
			}
			fmt.Fprintf(out, "%s Moved %s to %s.bak\n", green("✓"), result.SourcePath, result.SourcePath)
		}
	}
	return nil
}

// existenceMarker annotates a path with whether the file is present.
func existenceMarker(path string) string {
	if _, err := os.Stat(path); err == nil {
		return color.New(color.FgGreen).Sprint("(present)")
	}
	return color.New(color.Faint).Sprint("(absent)")
}

func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n)
}

// displayDefault renders a schema default for help output, quoting the
// empty string so it reads as a value rather than a gap.
func displayDefault(v interface{}) interface{} {
	if s, ok := v.(string); ok && s == "" {
		return `""`
	}
	return v
}
