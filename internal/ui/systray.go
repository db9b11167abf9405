package ui

import (
	"fmt"

	"github.com/getlantern/systray"
	"github.com/rs/zerolog"

	"github.com/TanaroSch/snapask/internal/app"
	"github.com/TanaroSch/snapask/internal/config"
	"github.com/TanaroSch/snapask/internal/hotkey"
)

// ShortcutControls is the settings surface the tray menu drives.
// app.Settings implements it.
type ShortcutControls interface {
	GetBindings() map[string]string
	UpdateBinding(action, accelerator string) app.BindingResult
	ResetBindings() app.BindingResult
	EnableShortcuts() app.BindingResult
	DisableShortcuts() app.BindingResult
	ShortcutsEnabled() bool
	SuspendShortcuts()
	ResumeShortcuts() app.BindingResult
}

// SystrayManager handles the system tray icon and menu
type SystrayManager struct {
	version     string
	icon        []byte
	controls    ShortcutControls
	settingsDir string
	onQuit      func()
	log         zerolog.Logger

	prompt    func(label, current string) (string, bool, error)
	showError func(title, message string) error
	open      func(path string) error

	miEnabled *systray.MenuItem
	miActions map[hotkey.Action]*systray.MenuItem
}

// NewSystrayManager creates a new system tray manager
func NewSystrayManager(version string, icon []byte, controls ShortcutControls, settingsDir string, onQuit func(), log zerolog.Logger) *SystrayManager {
	return &SystrayManager{
		version:     version,
		icon:        icon,
		controls:    controls,
		settingsDir: settingsDir,
		onQuit:      onQuit,
		log:         log.With().Str("component", "systray").Logger(),
		prompt:      PromptAccelerator,
		showError:   ShowError,
		open:        OpenInDefaultApp,
	}
}

// Register sets up the tray on top of the event loop run by the window
// toolkit.
func (s *SystrayManager) Register() {
	systray.Register(s.onReady, s.onExit)
}

// Quit removes the tray icon.
func (s *SystrayManager) Quit() {
	systray.Quit()
}

// onReady is called by systray once the tray is ready.
func (s *SystrayManager) onReady() {
	title := fmt.Sprintf("%s %s", config.AppName, s.version)
	systray.SetTooltip(title)
	if len(s.icon) > 0 {
		systray.SetTemplateIcon(s.icon, s.icon)
	} else {
		s.log.Warn().Msg("No embedded icon data to set for systray")
	}

	miVersion := systray.AddMenuItem(fmt.Sprintf("Version: %s", s.version), config.AppName+" version")
	miVersion.Disable()
	systray.AddSeparator()

	s.miEnabled = systray.AddMenuItemCheckbox("Shortcuts Enabled", "Turn all capture shortcuts on or off", s.controls.ShortcutsEnabled())

	miShortcuts := systray.AddMenuItem("Change Shortcut", "Rebind a capture shortcut")
	bindings := s.controls.GetBindings()
	s.miActions = make(map[hotkey.Action]*systray.MenuItem, len(hotkey.Actions()))
	for _, action := range hotkey.Actions() {
		item := miShortcuts.AddSubMenuItem(actionTitle(action, bindings[string(action)]), "Record a new shortcut")
		s.miActions[action] = item

		go func(item *systray.MenuItem, action hotkey.Action) {
			for range item.ClickedCh {
				s.log.Info().Str("action", string(action)).Msg("Change shortcut menu item clicked")
				s.rebind(action)
			}
		}(item, action)
	}
	miReset := miShortcuts.AddSubMenuItem("Reset to Defaults", "Restore the default shortcuts")

	systray.AddSeparator()
	miOpenFolder := systray.AddMenuItem("Open Settings Folder", "Show the settings and log files")
	systray.AddSeparator()
	miQuit := systray.AddMenuItem("Quit", "Exit the application")

	go func() {
		for range s.miEnabled.ClickedCh {
			s.log.Info().Msg("Shortcuts Enabled menu item clicked")
			s.toggleEnabled()
		}
	}()
	go func() {
		for range miReset.ClickedCh {
			s.log.Info().Msg("Reset to Defaults menu item clicked")
			s.reset()
		}
	}()
	go func() {
		for range miOpenFolder.ClickedCh {
			s.log.Info().Msg("Open Settings Folder menu item clicked")
			if err := s.open(s.settingsDir); err != nil {
				s.log.Error().Err(err).Str("path", s.settingsDir).Msg("Failed to open settings folder")
			}
		}
	}()
	go func() {
		for range miQuit.ClickedCh {
			s.log.Info().Msg("Quit menu item clicked")
			if s.onQuit != nil {
				s.onQuit()
			}
		}
	}()

	s.log.Info().Msg("Systray ready and menu configured")
}

// onExit is called when the systray is exiting
func (s *SystrayManager) onExit() {
	s.log.Info().Msg("Systray exiting")
}

// rebind records a new accelerator for action. Live shortcuts are
// suspended while the dialog is open so the keys typed into it do not
// trigger captures.
func (s *SystrayManager) rebind(action hotkey.Action) {
	current := s.controls.GetBindings()[string(action)]

	s.controls.SuspendShortcuts()
	accel, ok, err := s.prompt(action.Label(), current)
	var res app.BindingResult
	if err == nil && ok {
		res = s.controls.UpdateBinding(string(action), accel)
	}
	if resumed := s.controls.ResumeShortcuts(); !resumed.OK {
		s.log.Error().Str("code", resumed.Code).Str("error", resumed.Error).Msg("Failed to resume shortcuts")
	}

	switch {
	case err != nil:
		s.log.Error().Err(err).Msg("Shortcut dialog failed")
		return
	case !ok:
		s.log.Debug().Msg("Shortcut change cancelled")
		return
	case !res.OK:
		s.reportError("Change Shortcut", res)
		return
	}
	s.refreshTitles()
}

func (s *SystrayManager) reset() {
	if res := s.controls.ResetBindings(); !res.OK {
		s.reportError("Reset Shortcuts", res)
	}
	s.refreshTitles()
}

func (s *SystrayManager) toggleEnabled() {
	var res app.BindingResult
	if s.controls.ShortcutsEnabled() {
		res = s.controls.DisableShortcuts()
	} else {
		res = s.controls.EnableShortcuts()
	}
	if !res.OK {
		s.reportError("Shortcuts", res)
	}
	s.refreshEnabled()
}

func (s *SystrayManager) reportError(title string, res app.BindingResult) {
	msg := bindingMessage(res)
	s.log.Warn().Str("code", res.Code).Str("error", res.Error).Msg(title + " failed")
	if err := s.showError(title, msg); err != nil {
		s.log.Error().Err(err).Msg("Failed to show error dialog")
	}
}

func (s *SystrayManager) refreshTitles() {
	if len(s.miActions) == 0 {
		return
	}
	bindings := s.controls.GetBindings()
	for action, item := range s.miActions {
		item.SetTitle(actionTitle(action, bindings[string(action)]))
	}
}

func (s *SystrayManager) refreshEnabled() {
	if s.miEnabled == nil {
		return
	}
	if s.controls.ShortcutsEnabled() {
		s.miEnabled.Check()
	} else {
		s.miEnabled.Uncheck()
	}
}

func actionTitle(action hotkey.Action, accel string) string {
	return fmt.Sprintf("%s (%s)", action.Label(), accel)
}

// bindingMessage turns a failed settings call into dialog text.
func bindingMessage(res app.BindingResult) string {
	switch res.Code {
	case "Protected":
		return "That shortcut is reserved by the system. Please choose another one."
	case "Duplicate":
		return "That shortcut is already used by another action."
	case "OSRejected":
		return "The shortcut could not be registered. Another application may already use it.\n\n" + res.Error
	case "PersistFailed":
		return "The shortcut settings could not be saved.\n\n" + res.Error
	case "Invalid":
		return "That is not a valid shortcut.\n\n" + res.Error
	default:
		return res.Error
	}
}
