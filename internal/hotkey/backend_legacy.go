package hotkey

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"golang.design/x/hotkey"
)

// LegacyBackend wraps golang.design/x/hotkey.
// It supports macOS, Windows and X11 on Linux. It does NOT support Wayland.
type LegacyBackend struct {
	mu             sync.RWMutex
	registeredKeys map[string]*legacyHotkey
	displayServer  DisplayServer
	log            zerolog.Logger
}

// NewLegacyBackend creates a new legacy backend using golang.design/x/hotkey.
func NewLegacyBackend(ds DisplayServer, log zerolog.Logger) *LegacyBackend {
	return &LegacyBackend{
		registeredKeys: make(map[string]*legacyHotkey),
		displayServer:  ds,
		log:            log.With().Str("component", "hotkey-backend").Logger(),
	}
}

// Name returns the name of this backend.
func (b *LegacyBackend) Name() string {
	return "Legacy (golang.design/x/hotkey)"
}

// IsAvailable checks if this backend can be used on the current system.
func (b *LegacyBackend) IsAvailable() bool {
	switch b.displayServer {
	case DisplayServerDarwin, DisplayServerWindows, DisplayServerX11:
		return true
	case DisplayServerWayland:
		b.log.Warn().Msg("Not available on Wayland")
		return false
	default:
		b.log.Warn().Msg("Unknown display server, assuming unavailable")
		return false
	}
}

// Register registers a hotkey using the legacy backend.
func (b *LegacyBackend) Register(accel string) (RegisteredHotkey, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if existing, exists := b.registeredKeys[accel]; exists {
		b.log.Debug().Str("hotkey", accel).Msg("Hotkey already registered, returning existing")
		return existing, nil
	}

	modifiers, key, err := parseHotkey(accel)
	if err != nil {
		return nil, fmt.Errorf("failed to parse hotkey '%s': %w", accel, err)
	}

	hk := hotkey.New(modifiers, key)
	if err := hk.Register(); err != nil {
		return nil, fmt.Errorf("failed to register hotkey '%s': %w", accel, err)
	}

	wrapped := &legacyHotkey{
		hotkey:    hk,
		accel:     accel,
		keydownCh: make(chan struct{}),
		stopCh:    make(chan struct{}),
		log:       b.log,
	}
	wrapped.startEventConverter()

	b.registeredKeys[accel] = wrapped
	b.log.Debug().Str("hotkey", accel).Msg("Registered hotkey")
	return wrapped, nil
}

// Unregister removes a single hotkey. The entry is dropped even when the
// OS refuses the release so that a later Register starts clean.
func (b *LegacyBackend) Unregister(accel string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	hk, exists := b.registeredKeys[accel]
	if !exists {
		return nil
	}
	delete(b.registeredKeys, accel)

	if err := hk.Close(); err != nil {
		b.log.Warn().Err(err).Str("hotkey", accel).Msg("Error unregistering hotkey")
		return err
	}
	b.log.Debug().Str("hotkey", accel).Msg("Unregistered hotkey")
	return nil
}

// UnregisterAll removes all registered hotkeys.
func (b *LegacyBackend) UnregisterAll() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.log.Debug().Int("count", len(b.registeredKeys)).Msg("Unregistering all hotkeys")
	for accel, hk := range b.registeredKeys {
		if err := hk.Close(); err != nil {
			b.log.Warn().Err(err).Str("hotkey", accel).Msg("Error unregistering hotkey")
		}
	}
	b.registeredKeys = make(map[string]*legacyHotkey)
	return nil
}

// legacyHotkey adapts *hotkey.Hotkey to RegisteredHotkey.
type legacyHotkey struct {
	hotkey    *hotkey.Hotkey
	accel     string
	keydownCh chan struct{}
	stopCh    chan struct{}
	closeOnce sync.Once
	log       zerolog.Logger
}

func (lh *legacyHotkey) Keydown() <-chan struct{} {
	return lh.keydownCh
}

// startEventConverter turns hotkey.Event values into plain signals and
// closes keydownCh once the hotkey is released.
func (lh *legacyHotkey) startEventConverter() {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				lh.log.Error().Interface("panic", r).Str("hotkey", lh.accel).Msg("Recovered from panic in hotkey converter")
			}
		}()

		for {
			select {
			case <-lh.stopCh:
				close(lh.keydownCh)
				return
			case <-lh.hotkey.Keydown():
				select {
				case lh.keydownCh <- struct{}{}:
				case <-lh.stopCh:
					close(lh.keydownCh)
					return
				}
			}
		}
	}()
}

// Close unregisters the hotkey and stops the converter. Safe to call twice.
func (lh *legacyHotkey) Close() error {
	var err error
	lh.closeOnce.Do(func() {
		close(lh.stopCh)
		if uerr := lh.hotkey.Unregister(); uerr != nil {
			err = fmt.Errorf("failed to unregister hotkey '%s': %w", lh.accel, uerr)
		}
	})
	return err
}
