//go:build darwin

package hotkey

import "golang.design/x/hotkey"

// parseHotkey converts an accelerator string into golang.design/x/hotkey
// modifiers and key.
//
// macOS: alt is Option, cmd is Command.
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
			modifiers = append(modifiers, hotkey.ModOption)
		case "shift":
			modifiers = append(modifiers, hotkey.ModShift)
		case "cmd":
			modifiers = append(modifiers, hotkey.ModCmd)
		}
	}

	return modifiers, KeyMap[acc.Key], nil
}
