package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// MigrationResult reports what a migration did (or, in dry-run mode,
// would have done) for one config file.
type MigrationResult struct {
	SourcePath string
	TargetPath string
	Success    bool
	DryRun     bool
	Message    string
}

// MigrateJSONToYAML converts a legacy JSON config file to YAML. A
// missing source and an already-present target are both non-error
// no-ops, so the migrate command can be re-run safely. In dry-run mode
// the planned action is reported without touching the filesystem.
func MigrateJSONToYAML(jsonPath, yamlPath string, dryRun bool) (*MigrationResult, error) {
	result := &MigrationResult{
		SourcePath: jsonPath,
		TargetPath: yamlPath,
		DryRun:     dryRun,
	}

	jsonData, err := os.ReadFile(jsonPath)
	if err != nil {
		if os.IsNotExist(err) {
			result.Message = fmt.Sprintf("No JSON config found at %s", jsonPath)
			return result, nil
		}
		return nil, fmt.Errorf("failed to read JSON config: %w", err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(jsonData, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse JSON config: %w", err)
	}

	// Never overwrite a YAML config the operator may have edited.
	if _, err := os.Stat(yamlPath); err == nil {
		result.Message = fmt.Sprintf("YAML config already exists at %s (skipped)", yamlPath)
		return result, nil
	}

	if dryRun {
		result.Success = true
		result.Message = fmt.Sprintf("Would migrate %s → %s", jsonPath, yamlPath)
		return result, nil
	}

	yamlData, err := yaml.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to convert to YAML: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(yamlPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	header := "# relprep Configuration\n# Migrated from JSON format\n\n"
	if err := os.WriteFile(yamlPath, []byte(header+string(yamlData)), 0644); err != nil {
		return nil, fmt.Errorf("failed to write YAML config: %w", err)
	}

	result.Success = true
	result.Message = fmt.Sprintf("Migrated %s → %s", jsonPath, yamlPath)
	return result, nil
}

// MigrateUserConfig migrates the user-level config from JSON to YAML.
func MigrateUserConfig(dryRun bool) (*MigrationResult, error) {
	jsonPath, err := LegacyUserConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get legacy user config path: %w", err)
	}

	yamlPath, err := UserConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get user config path: %w", err)
	}

	return MigrateJSONToYAML(jsonPath, yamlPath, dryRun)
}

// MigrateProjectConfig migrates the project-level config from JSON to YAML.
func MigrateProjectConfig(dryRun bool) (*MigrationResult, error) {
	return MigrateJSONToYAML(LegacyProjectConfigPath(), ProjectConfigPath(), dryRun)
}

// RemoveLegacyConfig moves a migrated JSON config to a .bak file so the
// old format stops being picked up but nothing is destroyed. Call it
// only after the YAML config has been confirmed working.
func RemoveLegacyConfig(jsonPath string, dryRun bool) error {
	if dryRun {
		return nil
	}

	if _, err := os.Stat(jsonPath); os.IsNotExist(err) {
		return nil
	}

	bakPath := jsonPath + ".bak"
	if err := os.Rename(jsonPath, bakPath); err != nil {
		return fmt.Errorf("failed to backup legacy config: %w", err)
	}

	return nil
}

// DetectLegacyConfigs returns the paths of any legacy JSON configs that
// are present on disk, empty strings otherwise.
func DetectLegacyConfigs() (userJSON, projectJSON string, err error) {
	userPath, err := LegacyUserConfigPath()
	if err != nil {
		return "", "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		userJSON = userPath
	}

	if _, err := os.Stat(LegacyProjectConfigPath()); err == nil {
		projectJSON = LegacyProjectConfigPath()
	}

	return userJSON, projectJSON, nil
}
