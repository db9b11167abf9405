//go:build !windows && !linux && !darwin

package hotkey

import (
	"fmt"

	"golang.design/x/hotkey"
)

// parseHotkey is not implemented on this OS.
func parseHotkey(hotkeyStr string) ([]hotkey.Modifier, hotkey.Key, error) {
	return nil, 0, fmt.Errorf("%w: hotkeys are not supported on this OS", ErrBackendNotAvailable)
}
