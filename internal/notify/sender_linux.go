package notify

import (
	"fmt"
	"os/exec"
)

// defaultLinuxSound is the freedesktop completion sound shipped by most
// desktop distributions.
const defaultLinuxSound = "/usr/share/sounds/freedesktop/stereo/complete.oga"

// linuxSender sends notifications on Linux using notify-send and the
// PulseAudio or ALSA command line players.
type linuxSender struct{}

func newPlatformSender() Sender {
	return &linuxSender{}
}

func (s *linuxSender) SendVisual(n Notification) error {
	urgency := "normal"
	if n.NotificationType == TypeFailure {
		urgency = "critical"
	}
	return exec.Command("notify-send", "--urgency", urgency, n.Title, n.Message).Run()
}

func (s *linuxSender) SendSound(soundFile string) error {
	if soundFile == "" {
		soundFile = defaultLinuxSound
	}
	if toolAvailable("paplay") {
		return exec.Command("paplay", soundFile).Run()
	}
	if toolAvailable("aplay") {
		return exec.Command("aplay", "-q", soundFile).Run()
	}
	return fmt.Errorf("no audio player found (tried paplay, aplay)")
}

func (s *linuxSender) VisualAvailable() bool {
	return toolAvailable("notify-send")
}

func (s *linuxSender) SoundAvailable() bool {
	return toolAvailable("paplay") || toolAvailable("aplay")
}
