// Package notifier provides desktop notifications for lifecycle operations
package notifier

import (
	"fmt"
	"runtime"

	"github.com/gen2brain/beeep"

	"github.com/modkeeper/modkeeper/pkg/logger"
	"github.com/modkeeper/modkeeper/pkg/types"
)

// SendFunc delivers a notification; beeep.Notify by default
type SendFunc func(title, message, icon string) error

// LifecycleNotifier reports finished installs and uninstalls
type LifecycleNotifier struct {
	enabled      bool
	successSound string
	failureSound string
	logger       logger.Logger
	send         SendFunc
	beep         func() error
}

// Config represents notification configuration
type Config struct {
	Enabled      bool
	SuccessSound string
	FailureSound string
}

// New creates a new lifecycle notifier
func New(config Config, log logger.Logger) *LifecycleNotifier {
	if log == nil {
		log = logger.Discard()
	}
	return &LifecycleNotifier{
		enabled:      config.Enabled,
		successSound: config.SuccessSound,
		failureSound: config.FailureSound,
		logger:       log,
		send: func(title, message, icon string) error {
			return beeep.Notify(title, message, icon)
		},
		beep: func() error {
			return beeep.Beep(beeep.DefaultFreq, beeep.DefaultDuration)
		},
	}
}

// SetSender replaces the notification backend
func (n *LifecycleNotifier) SetSender(send SendFunc) {
	n.send = send
	n.beep = func() error { return nil }
}

// NotifyInstalled notifies that a package was installed
func (n *LifecycleNotifier) NotifyInstalled(id types.PackageIdentifier) {
	if !n.enabled {
		return
	}
	n.sendNotification("Mod installed", fmt.Sprintf("%s is ready to be enabled", id), n.successSound)
}

// NotifyUninstalled notifies that a package was removed
func (n *LifecycleNotifier) NotifyUninstalled(id types.PackageIdentifier) {
	if !n.enabled {
		return
	}
	n.sendNotification("Mod uninstalled", fmt.Sprintf("%s was removed", id), n.successSound)
}

// NotifyFailure notifies that an install or uninstall failed
func (n *LifecycleNotifier) NotifyFailure(id types.PackageIdentifier, err error) {
	if !n.enabled {
		return
	}
	n.sendNotification("Mod operation failed", fmt.Sprintf("%s: %v", id, err), n.failureSound)
}

// Private methods

func (n *LifecycleNotifier) sendNotification(title, message, soundName string) {
	switch runtime.GOOS {
	case "darwin", "linux", "windows", "freebsd":
		if err := n.send(title, message, ""); err != nil {
			n.logger.Debug("Failed to send notification", logger.WithError(err))
		}
	default:
		// Fallback to console
		n.logger.Info(fmt.Sprintf("%s: %s", title, message))
	}

	if soundName != "" {
		if err := n.beep(); err != nil {
			n.logger.Debug("Failed to play sound", logger.WithError(err))
		}
	}
}
