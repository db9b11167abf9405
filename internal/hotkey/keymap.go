package hotkey

import (
	"fmt"
	"sort"

	"github.com/agnivade/levenshtein"
	"golang.design/x/hotkey"
)

var (
	letterKeys = [...]hotkey.Key{
		hotkey.KeyA, hotkey.KeyB, hotkey.KeyC, hotkey.KeyD, hotkey.KeyE, hotkey.KeyF, hotkey.KeyG,
		hotkey.KeyH, hotkey.KeyI, hotkey.KeyJ, hotkey.KeyK, hotkey.KeyL, hotkey.KeyM, hotkey.KeyN,
		hotkey.KeyO, hotkey.KeyP, hotkey.KeyQ, hotkey.KeyR, hotkey.KeyS, hotkey.KeyT, hotkey.KeyU,
		hotkey.KeyV, hotkey.KeyW, hotkey.KeyX, hotkey.KeyY, hotkey.KeyZ,
	}
	digitKeys = [...]hotkey.Key{
		hotkey.Key0, hotkey.Key1, hotkey.Key2, hotkey.Key3, hotkey.Key4,
		hotkey.Key5, hotkey.Key6, hotkey.Key7, hotkey.Key8, hotkey.Key9,
	}
	functionKeys = [...]hotkey.Key{
		hotkey.KeyF1, hotkey.KeyF2, hotkey.KeyF3, hotkey.KeyF4, hotkey.KeyF5, hotkey.KeyF6,
		hotkey.KeyF7, hotkey.KeyF8, hotkey.KeyF9, hotkey.KeyF10, hotkey.KeyF11, hotkey.KeyF12,
	}
)

// KeyMap maps the key part of an accelerator ("c", "7", "f5", "space") to
// a hotkey.Key. Names are lower case.
var KeyMap = buildKeyMap()

func buildKeyMap() map[string]hotkey.Key {
	m := map[string]hotkey.Key{
		"space":  hotkey.KeySpace,
		"tab":    hotkey.KeyTab,
		"enter":  hotkey.KeyReturn,
		"escape": hotkey.KeyEscape,
		"delete": hotkey.KeyDelete,
		"left":   hotkey.KeyLeft,
		"right":  hotkey.KeyRight,
		"up":     hotkey.KeyUp,
		"down":   hotkey.KeyDown,
	}
	for i, k := range letterKeys {
		m[string(rune('a'+i))] = k
	}
	for i, k := range digitKeys {
		m[string(rune('0'+i))] = k
	}
	for i, k := range functionKeys {
		m[fmt.Sprintf("f%d", i+1)] = k
	}
	return m
}

// maxSuggestDistance bounds how far a typo may be from a known key name.
const maxSuggestDistance = 2

// SuggestKey returns the known key name closest to name, or "" when
// nothing is close enough to be a plausible typo.
func SuggestKey(name string) string {
	if len(name) < 3 {
		return ""
	}

	names := make([]string, 0, len(KeyMap))
	for k := range KeyMap {
		names = append(names, k)
	}
	sort.Strings(names)

	best, bestDist := "", maxSuggestDistance+1
	for _, k := range names {
		if d := levenshtein.ComputeDistance(name, k); d < bestDist {
			best, bestDist = k, d
		}
	}
	return best
}
