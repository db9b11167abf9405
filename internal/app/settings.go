package app

import (
	"fmt"

	"github.com/TanaroSch/snapask/internal/hotkey"
)

// BindingResult is returned by the settings calls that can fail. Code is
// one of Protected, Duplicate, OSRejected, PersistFailed, Invalid,
// UnknownAction or Error.
type BindingResult struct {
	OK    bool   `json:"ok"`
	Code  string `json:"code,omitempty"`
	Error string `json:"error,omitempty"`
}

func resultOf(err error) BindingResult {
	if err == nil {
		return BindingResult{OK: true}
	}
	return BindingResult{Code: hotkey.ErrorCode(err), Error: err.Error()}
}

// Settings is the RPC surface offered to the presentation layer and the
// tray menu.
type Settings struct {
	app *Application
}

// Settings returns the RPC surface of a.
func (a *Application) Settings() *Settings {
	return &Settings{app: a}
}

// call runs task on the event loop and waits for it.
func (s *Settings) call(task func()) error {
	return s.app.loop.Call(s.app.ctx, task)
}

// GetBindings returns the current accelerator of every action.
func (s *Settings) GetBindings() map[string]string {
	out := make(map[string]string)
	for action, accel := range s.app.shortcuts.GetBindings() {
		out[string(action)] = accel
	}
	return out
}

// ActionLabels returns a display label for every action.
func (s *Settings) ActionLabels() map[string]string {
	out := make(map[string]string)
	for _, action := range hotkey.Actions() {
		out[string(action)] = action.Label()
	}
	return out
}

// UpdateBinding rebinds one action.
func (s *Settings) UpdateBinding(action, accelerator string) BindingResult {
	err := s.app.shortcuts.UpdateBinding(hotkey.Action(action), accelerator)
	if err != nil {
		s.app.log.Warn().Err(err).Str("action", action).Str("accelerator", accelerator).Msg("Shortcut update rejected")
	}
	return resultOf(err)
}

// ResetBindings restores the default bindings.
func (s *Settings) ResetBindings() BindingResult {
	err := s.app.shortcuts.ResetToDefaults()
	if err != nil {
		s.app.log.Warn().Err(err).Msg("Shortcut reset incomplete")
	}
	return resultOf(err)
}

// EnableShortcuts turns the user's global switch on and persists it.
func (s *Settings) EnableShortcuts() BindingResult {
	return s.setEnabled(true)
}

// DisableShortcuts turns the user's global switch off and persists it.
func (s *Settings) DisableShortcuts() BindingResult {
	return s.setEnabled(false)
}

func (s *Settings) setEnabled(enabled bool) BindingResult {
	var err error
	if callErr := s.call(func() {
		a := s.app
		a.userEnabled = enabled
		if enabled {
			err = a.shortcuts.ResumeAll()
		} else {
			a.shortcuts.SuspendAll()
			a.queue = nil
		}
		if perr := a.prefs.SetShortcutsEnabled(enabled); perr != nil {
			err = fmt.Errorf("%w: %w", hotkey.ErrPersistFailed, perr)
		}
		a.log.Info().Bool("enabled", enabled).Msg("Shortcut switch changed")
	}); callErr != nil {
		return resultOf(callErr)
	}
	return resultOf(err)
}

// ShortcutsEnabled reports the user's global switch.
func (s *Settings) ShortcutsEnabled() bool {
	enabled := true
	if err := s.call(func() { enabled = s.app.userEnabled }); err != nil {
		s.app.log.Debug().Err(err).Msg("Reading shortcut switch failed")
	}
	return enabled
}

// SuspendShortcuts unregisters the action shortcuts while the user records
// a new key combination.
func (s *Settings) SuspendShortcuts() {
	if err := s.call(s.app.shortcuts.SuspendAll); err != nil {
		s.app.log.Warn().Err(err).Msg("Failed to suspend shortcuts")
	}
}

// ResumeShortcuts undoes SuspendShortcuts. Shortcuts the user disabled stay
// disabled.
func (s *Settings) ResumeShortcuts() BindingResult {
	var err error
	if callErr := s.call(func() {
		if s.app.userEnabled {
			err = s.app.shortcuts.ResumeAll()
		}
	}); callErr != nil {
		return resultOf(callErr)
	}
	return resultOf(err)
}

// HideOverlay hides the overlay window.
func (s *Settings) HideOverlay() {
	s.app.post(s.app.overlay.Hide)
}
