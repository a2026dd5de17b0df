package notify

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/term"
)

// Handler manages notification dispatch based on configuration. It
// wraps a Sender and exposes the completion hook the run lifecycle
// calls.
type Handler struct {
	config NotificationConfig
	sender Sender
}

// NewHandler creates a new notification handler with the given configuration.
// If notifications are disabled in config, the handler no-ops on all calls.
func NewHandler(config NotificationConfig) *Handler {
	return &Handler{
		config: config,
		sender: NewSender(),
	}
}

// NewHandlerWithSender creates a handler with a custom sender (for testing).
func NewHandlerWithSender(config NotificationConfig, sender Sender) *Handler {
	return &Handler{
		config: config,
		sender: sender,
	}
}

// Config returns the handler's notification configuration
func (h *Handler) Config() NotificationConfig {
	return h.config
}

// isEnabled checks if notifications should be sent. Returns false when
// notifications are disabled, the process runs in CI, or the session is
// non-interactive.
func (h *Handler) isEnabled() bool {
	if !h.config.Enabled {
		return false
	}
	if isCI() {
		return false
	}
	return isInteractive()
}

// isCI checks for common CI environment variables.
func isCI() bool {
	ciVars := []string{
		"CI",
		"GITHUB_ACTIONS",
		"GITLAB_CI",
		"CIRCLECI",
		"TRAVIS",
		"JENKINS_URL",
		"BUILDKITE",
		"DRONE",
		"TEAMCITY_VERSION",
		"TF_BUILD",
		"BITBUCKET_PIPELINES",
		"CODEBUILD_BUILD_ID",
	}
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			return true
		}
	}
	return false
}

// isInteractive checks if the session is interactive (has TTY).
// Checks stdout rather than stdin because CLI tools often have stdin piped
// while stdout remains connected to the terminal.
func isInteractive() bool {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		return true
	}
	if term.IsTerminal(int(os.Stderr.Fd())) {
		return true
	}
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// dispatch sends a notification asynchronously with a timeout. The
// timeout allows audio files to play completely while guaranteeing the
// process is never held up by a stuck notification tool.
func (h *Handler) dispatch(n Notification) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.sendNotification(n)
	}()

	select {
	case <-done:
	case <-ctx.Done():
	}
}

// sendNotification sends the notification based on configured type
func (h *Handler) sendNotification(n Notification) {
	switch h.config.Type {
	case OutputSound:
		_ = h.sender.SendSound(h.config.SoundFile)
	case OutputVisual:
		_ = h.sender.SendVisual(n)
	case OutputBoth:
		_ = h.sender.SendVisual(n)
		_ = h.sender.SendSound(h.config.SoundFile)
	}
}

// OnRunComplete is called when a relprep run finishes. If on_long_running
// is enabled, it only notifies when the duration reaches the threshold.
func (h *Handler) OnRunComplete(name string, success bool, duration time.Duration) {
	if !h.isEnabled() {
		return
	}

	if h.config.OnLongRunning {
		threshold := h.config.LongRunningThreshold
		if threshold > 0 && duration < threshold {
			return
		}
	}

	notifType := TypeSuccess
	status := "completed"
	if !success {
		notifType = TypeFailure
		status = "failed"
	}

	h.dispatch(NewNotification(
		"relprep",
		fmt.Sprintf("'%s' %s (%s)", name, status, formatDuration(duration)),
		notifType,
	))
}

// formatDuration formats a duration for display in notifications
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%.1fm", d.Minutes())
}
