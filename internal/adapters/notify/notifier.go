// Package notify delivers desktop notifications through beeep, which
// picks the native mechanism per platform (notify-send or D-Bus on
// Linux, osascript on macOS, toast notifications on Windows).
package notify

import (
	"github.com/gen2brain/beeep"

	"grove/internal/logging"
	"grove/internal/ports"
)

// DesktopNotifier implements ports.Notifier with system notifications
type DesktopNotifier struct{}

var _ ports.Notifier = (*DesktopNotifier)(nil)

func NewDesktopNotifier() *DesktopNotifier {
	return &DesktopNotifier{}
}

// Notify posts a desktop notification
func (n *DesktopNotifier) Notify(title, message string) error {
	logging.Logger.Debug("Sending notification", "title", title, "message", message)
	// Empty icon path lets beeep use the platform default
	return beeep.Notify(title, message, "")
}
