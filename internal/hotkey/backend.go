package hotkey

import (
	"errors"
	"fmt"
)

// ErrBackendNotAvailable is returned when a backend cannot be used on the current system.
var ErrBackendNotAvailable = errors.New("backend not available on this system")

// Backend abstracts the system hotkey table. Accelerators are passed in
// their user-facing string form ("mod+shift+c") and parsed by the backend.
type Backend interface {
	// Register claims a single accelerator and returns a handle whose
	// Keydown channel fires on every press.
	Register(accel string) (RegisteredHotkey, error)

	// Unregister releases a previously registered accelerator.
	// Unknown accelerators are ignored.
	Unregister(accel string) error

	// UnregisterAll releases everything this backend registered.
	UnregisterAll() error

	// Name returns a human-readable name for this backend (for logging).
	Name() string

	// IsAvailable returns true if this backend can be used on the current system.
	IsAvailable() bool
}

// RegisteredHotkey represents a registered hotkey and provides a channel
// that receives events when the hotkey is pressed.
type RegisteredHotkey interface {
	// Keydown returns a channel that receives events when the key is pressed.
	// The channel is closed once the hotkey is unregistered.
	Keydown() <-chan struct{}

	// Close cleans up resources associated with this hotkey.
	Close() error
}

// UnavailableBackend is used when no hotkey backend works on this system.
// Every registration fails, which leaves the actions inert.
type UnavailableBackend struct {
	Reason string
}

func (b UnavailableBackend) Register(accel string) (RegisteredHotkey, error) {
	return nil, fmt.Errorf("%w: %s", ErrBackendNotAvailable, b.Reason)
}

func (UnavailableBackend) Unregister(string) error { return nil }
func (UnavailableBackend) UnregisterAll() error    { return nil }
func (UnavailableBackend) Name() string            { return "Unavailable" }
func (UnavailableBackend) IsAvailable() bool       { return false }
