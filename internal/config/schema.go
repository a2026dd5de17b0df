package config

// ConfigValueType defines the expected type for a configuration value.
type ConfigValueType int

const (
	TypeBool ConfigValueType = iota
	TypeInt
	TypeString
)

// String returns the string representation of ConfigValueType.
func (t ConfigValueType) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int"
	case TypeString:
		return "string"
	default:
		return "unknown"
	}
}

// ConfigKeySchema defines a known configuration key with its expected type and validation rules.
type ConfigKeySchema struct {
	Path        string          // Dotted key path (e.g., "generator.preview_cmd")
	Type        ConfigValueType // Expected value type for validation
	Description string          // Human-readable description for help text
	Default     interface{}     // Default value
}

// KnownKeys is the registry of all known configuration keys with their schemas.
var KnownKeys = map[string]ConfigKeySchema{
	"changelog.path": {
		Path:        "changelog.path",
		Type:        TypeString,
		Description: "Changelog artifact path relative to the repository root",
		Default:     "CHANGELOG.md",
	},
	"generator.preview_cmd": {
		Path:        "generator.preview_cmd",
		Type:        TypeString,
		Description: "Command template for the changelog preview (no tag scoping)",
		Default:     "git-cliff --unreleased",
	},
	"generator.generate_cmd": {
		Path:        "generator.generate_cmd",
		Type:        TypeString,
		Description: "Command template for tag-scoped generation ({{TAG}}, {{OUTPUT}})",
		Default:     "git-cliff --tag {{TAG}} --output {{OUTPUT}}",
	},
	"commit.message_template": {
		Path:        "commit.message_template",
		Type:        TypeString,
		Description: "Release-prep commit message template ({{VERSION}})",
		Default:     "chore(release): prepare for {{VERSION}}",
	},
	"release.command": {
		Path:        "release.command",
		Type:        TypeString,
		Description: "Downstream version-release command template ({{VERSION}}; empty = unset)",
		Default:     "",
	},
	"history.enabled": {
		Path:        "history.enabled",
		Type:        TypeBool,
		Description: "Record run history in the state directory",
		Default:     true,
	},
	"history.max_entries": {
		Path:        "history.max_entries",
		Type:        TypeInt,
		Description: "Maximum run history entries to retain",
		Default:     50,
	},
	"notifications.enabled": {
		Path:        "notifications.enabled",
		Type:        TypeBool,
		Description: "Send a desktop notification when a run finishes",
		Default:     false,
	},
	"notifications.type": {
		Path:        "notifications.type",
		Type:        TypeString,
		Description: "Notification output: sound, visual, or both",
		Default:     "both",
	},
	"notifications.sound_file": {
		Path:        "notifications.sound_file",
		Type:        TypeString,
		Description: "Custom notification sound file (platform default if empty)",
		Default:     "",
	},
	"notifications.on_long_running": {
		Path:        "notifications.on_long_running",
		Type:        TypeBool,
		Description: "Only notify when a run exceeds the long-running threshold",
		Default:     false,
	},
	"notifications.long_running_threshold": {
		Path:        "notifications.long_running_threshold",
		Type:        TypeString,
		Description: "Run duration that counts as long-running (e.g. 30s, 2m)",
		Default:     "30s",
	},
	"state_dir": {
		Path:        "state_dir",
		Type:        TypeString,
		Description: "Directory for run state such as the history log",
		Default:     "~/.relprep/state",
	},
}
