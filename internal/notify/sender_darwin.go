package notify

import (
	"fmt"
	"os/exec"
)

// defaultDarwinSound is the system sound played when no custom sound
// file is configured.
const defaultDarwinSound = "/System/Library/Sounds/Glass.aiff"

// darwinSender sends notifications on macOS using osascript and afplay.
type darwinSender struct{}

func newPlatformSender() Sender {
	return &darwinSender{}
}

func (s *darwinSender) SendVisual(n Notification) error {
	script := fmt.Sprintf("display notification %q with title %q", n.Message, n.Title)
	return exec.Command("osascript", "-e", script).Run()
}

func (s *darwinSender) SendSound(soundFile string) error {
	if soundFile == "" {
		soundFile = defaultDarwinSound
	}
	return exec.Command("afplay", soundFile).Run()
}

func (s *darwinSender) VisualAvailable() bool {
	return toolAvailable("osascript")
}

func (s *darwinSender) SoundAvailable() bool {
	return toolAvailable("afplay")
}
