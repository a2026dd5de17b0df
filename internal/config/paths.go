package config

import (
	"os"
	"path/filepath"
)

// UserConfigPath returns the path to the user-level config file.
// This follows the XDG Base Directory Specification:
// - Linux: ~/.config/relprep/config.yml
// - macOS: ~/Library/Application Support/relprep/config.yml
// - Windows: %APPDATA%\relprep\config.yml
//
// If XDG_CONFIG_HOME is set, it will be respected on Linux.
func UserConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "relprep", "config.yml"), nil
}

// UserConfigDir returns the path to the user-level config directory.
func UserConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "relprep"), nil
}

// ProjectConfigPath returns the path to the project-level config file.
// This is always .relprep/config.yml relative to the current directory.
func ProjectConfigPath() string {
	return filepath.Join(".relprep", "config.yml")
}

// ProjectConfigDir returns the path to the project-level config directory.
func ProjectConfigDir() string {
	return ".relprep"
}

// LegacyUserConfigPath returns the path to the legacy user-level JSON config file.
// This was the old location: ~/.relprep/config.json
func LegacyUserConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".relprep", "config.json"), nil
}

// LegacyProjectConfigPath returns the path to the legacy project-level JSON config file.
// This was the old location: .relprep/config.json
func LegacyProjectConfigPath() string {
	return filepath.Join(".relprep", "config.json")
}

// DefaultStateDir returns the default directory for run state such as the
// history log: ~/.relprep/state. Falls back to a relative path when the
// home directory cannot be resolved.
func DefaultStateDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".relprep", "state")
	}
	return filepath.Join(homeDir, ".relprep", "state")
}
