package ui

import (
	"github.com/gen2brain/beeep"
	"github.com/rs/zerolog"
)

var beeepNotifyFn = beeep.Notify

// NotificationManager shows desktop notifications when enabled.
type NotificationManager struct {
	enabled  bool
	iconPath string
	log      zerolog.Logger
}

// NewNotificationManager creates a manager. iconPath may be empty.
func NewNotificationManager(enabled bool, iconPath string, log zerolog.Logger) *NotificationManager {
	return &NotificationManager{
		enabled:  enabled,
		iconPath: iconPath,
		log:      log.With().Str("component", "notifications").Logger(),
	}
}

// Notify displays a desktop notification if enabled.
func (n *NotificationManager) Notify(title, message string) {
	if !n.enabled {
		n.log.Debug().Str("title", title).Msg("Notification suppressed")
		return
	}
	if err := beeepNotifyFn(title, message, n.iconPath); err != nil {
		n.log.Warn().Err(err).Str("title", title).Msg("Error showing notification")
		return
	}
	n.log.Debug().Str("title", title).Msg("Notification sent")
}
