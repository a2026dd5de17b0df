package notify

import (
	"fmt"
	"os/exec"
	"strings"
)

// windowsSender sends notifications on Windows through PowerShell.
type windowsSender struct{}

func newPlatformSender() Sender {
	return &windowsSender{}
}

func (s *windowsSender) SendVisual(n Notification) error {
	script := fmt.Sprintf(
		"[void][System.Reflection.Assembly]::LoadWithPartialName('System.Windows.Forms');"+
			"[void][System.Reflection.Assembly]::LoadWithPartialName('System.Drawing');"+
			"$icon=New-Object System.Windows.Forms.NotifyIcon;"+
			"$icon.Icon=[System.Drawing.SystemIcons]::Information;"+
			"$icon.Visible=$true;"+
			"$icon.ShowBalloonTip(5000,%s,%s,'Info')",
		psQuote(n.Title), psQuote(n.Message))
	return exec.Command("powershell", "-NoProfile", "-Command", script).Run()
}

func (s *windowsSender) SendSound(soundFile string) error {
	script := "[System.Media.SystemSounds]::Asterisk.Play()"
	if soundFile != "" {
		script = fmt.Sprintf("(New-Object System.Media.SoundPlayer %s).PlaySync()", psQuote(soundFile))
	}
	return exec.Command("powershell", "-NoProfile", "-Command", script).Run()
}

func (s *windowsSender) VisualAvailable() bool {
	return toolAvailable("powershell")
}

func (s *windowsSender) SoundAvailable() bool {
	return toolAvailable("powershell")
}

// psQuote wraps a string in PowerShell single quotes, doubling any
// embedded quotes.
func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
