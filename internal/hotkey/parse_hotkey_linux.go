//go:build linux

package hotkey

import "golang.design/x/hotkey"

// parseHotkey converts an accelerator string into golang.design/x/hotkey
// modifiers and key.
//
// Linux implementation notes (X11):
// - Alt is typically Mod1
// - Super/Win is typically Mod4
func parseHotkey(hotkeyStr string) ([]hotkey.Modifier, hotkey.Key, error) {
	acc, err := ParseAccelerator(hotkeyStr)
	if err != nil {
		return nil, 0, err
	}

	modifiers := make([]hotkey.Modifier, 0, len(acc.Modifiers))
	for _, m := range acc.Modifiers {
		switch m {
		case "ctrl":
			modifiers = append(modifiers, hotkey.ModCtrl)
		case "alt":
			modifiers = append(modifiers, hotkey.Mod1)
		case "shift":
			modifiers = append(modifiers, hotkey.ModShift)
		case "cmd":
			modifiers = append(modifiers, hotkey.Mod4)
		}
	}

	return modifiers, KeyMap[acc.Key], nil
}
