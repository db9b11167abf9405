package hotkey

import (
	"fmt"
	"os"
	"runtime"

	"github.com/rs/zerolog"
)

// DisplayServer represents the type of display server in use
type DisplayServer int

const (
	DisplayServerUnknown DisplayServer = iota
	DisplayServerDarwin
	DisplayServerWindows
	DisplayServerX11
	DisplayServerWayland
)

func (ds DisplayServer) String() string {
	switch ds {
	case DisplayServerDarwin:
		return "macOS"
	case DisplayServerWindows:
		return "Windows"
	case DisplayServerX11:
		return "X11"
	case DisplayServerWayland:
		return "Wayland"
	default:
		return "Unknown"
	}
}

// DetectDisplayServer determines which display server is currently in use.
func DetectDisplayServer() DisplayServer {
	return detectDisplayServer(runtime.GOOS, os.Getenv)
}

func detectDisplayServer(goos string, getenv func(string) string) DisplayServer {
	switch goos {
	case "darwin":
		return DisplayServerDarwin
	case "windows":
		return DisplayServerWindows
	}

	// Wayland first; XWayland sessions set both variables.
	if getenv("WAYLAND_DISPLAY") != "" {
		return DisplayServerWayland
	}
	if getenv("DISPLAY") != "" {
		return DisplayServerX11
	}
	return DisplayServerUnknown
}

// SelectBackend chooses the hotkey backend for the current environment.
// When nothing fits it returns an UnavailableBackend together with
// ErrBackendNotAvailable so callers can still run with inert shortcuts.
func SelectBackend(log zerolog.Logger) (Backend, error) {
	ds := DetectDisplayServer()

	backend := NewLegacyBackend(ds, log)
	if backend.IsAvailable() {
		log.Info().Str("backend", backend.Name()).Stringer("display_server", ds).Msg("Selected hotkey backend")
		return backend, nil
	}

	reason := fmt.Sprintf("global shortcuts are not supported on %s", ds)
	log.Warn().Stringer("display_server", ds).Msg("No hotkey backend available, shortcuts disabled")
	return UnavailableBackend{Reason: reason}, fmt.Errorf("%w: %s", ErrBackendNotAvailable, reason)
}
