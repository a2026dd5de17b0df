// Package notify dispatches desktop notifications when a run finishes,
// so long changelog generations can be left unattended. Notifications
// are opt-in and never affect command outcomes.
package notify

import "time"

// NotificationType represents the type of notification event
type NotificationType string

const (
	// TypeSuccess indicates a successful operation
	TypeSuccess NotificationType = "success"
	// TypeFailure indicates a failed operation
	TypeFailure NotificationType = "failure"
	// TypeInfo indicates an informational notification
	TypeInfo NotificationType = "info"
)

// OutputType represents the notification output type
type OutputType string

const (
	// OutputSound sends only an audible notification
	OutputSound OutputType = "sound"
	// OutputVisual sends only a visual notification
	OutputVisual OutputType = "visual"
	// OutputBoth sends both sound and visual notifications
	OutputBoth OutputType = "both"
)

// ValidOutputType checks if the given string is a valid output type
func ValidOutputType(s string) bool {
	switch OutputType(s) {
	case OutputSound, OutputVisual, OutputBoth:
		return true
	default:
		return false
	}
}

// NotificationConfig holds user preferences for notification behavior.
// Configuration is loaded from the config hierarchy (env > project > user > defaults).
type NotificationConfig struct {
	// Enabled is the master switch for all notifications (default: false, opt-in)
	Enabled bool `koanf:"enabled" yaml:"enabled"`

	// Type specifies the notification output type: sound, visual, or both (default: both)
	Type OutputType `koanf:"type" yaml:"type"`

	// SoundFile is an optional custom sound file path
	SoundFile string `koanf:"sound_file" yaml:"sound_file"`

	// OnLongRunning notifies only if the run exceeds the threshold (default: false)
	OnLongRunning bool `koanf:"on_long_running" yaml:"on_long_running"`

	// LongRunningThreshold is the threshold for the on_long_running hook
	// (default: 30s). A value of 0 or negative means "always notify".
	LongRunningThreshold time.Duration `koanf:"long_running_threshold" yaml:"long_running_threshold"`
}

// DefaultConfig returns a NotificationConfig with default values
func DefaultConfig() NotificationConfig {
	return NotificationConfig{
		Enabled:              false,
		Type:                 OutputBoth,
		SoundFile:            "",
		OnLongRunning:        false,
		LongRunningThreshold: 30 * time.Second,
	}
}

// Notification represents a single notification event to dispatch
type Notification struct {
	// Title is the notification title (e.g., "relprep")
	Title string

	// Message is the notification body text
	Message string

	// NotificationType indicates the event type: success, failure, or info
	NotificationType NotificationType
}

// NewNotification creates a new Notification with the given parameters
func NewNotification(title, message string, notificationType NotificationType) Notification {
	return Notification{
		Title:            title,
		Message:          message,
		NotificationType: notificationType,
	}
}
