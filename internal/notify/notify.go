// Package notify sends best-effort desktop notifications.
package notify

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Send raises a desktop notification through the platform's standard
// notifier binary. Callers treat failures as non-fatal: a headless box
// without a notifier simply returns an error to log and move on.
func Send(title, message string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		script := fmt.Sprintf("display notification %q with title %q", message, title)
		cmd = exec.Command("osascript", "-e", script)
	case "linux":
		cmd = exec.Command("notify-send", title, message)
	default:
		return fmt.Errorf("notify: no notifier for %s", runtime.GOOS)
	}
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("notify: %w", err)
	}
	return nil
}
