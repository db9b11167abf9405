package hotkey

import (
	"fmt"
	"runtime"
	"strings"
)

// Accelerator is a parsed modifier+key chord such as "mod+shift+C".
// Modifiers are canonical names in modifierOrder, Key is a KeyMap entry.
type Accelerator struct {
	Modifiers []string
	Key       string
}

var modifierOrder = []string{"ctrl", "alt", "shift", "cmd"}

var modifierAliases = map[string]string{
	"ctrl":    "ctrl",
	"control": "ctrl",
	"alt":     "alt",
	"option":  "alt",
	"opt":     "alt",
	"shift":   "shift",
	"cmd":     "cmd",
	"command": "cmd",
	"super":   "cmd",
	"win":     "cmd",
	"meta":    "cmd",
}

var keyAliases = map[string]string{
	"esc":    "escape",
	"return": "enter",
}

// PrimaryModifier is what "mod" expands to on this platform.
func PrimaryModifier() string {
	return primaryModifier(runtime.GOOS)
}

func primaryModifier(goos string) string {
	if goos == "darwin" {
		return "cmd"
	}
	return "ctrl"
}

// ParseAccelerator parses a case-insensitive "+"-separated chord. The last
// part is the key; everything before it is a modifier.
func ParseAccelerator(s string) (Accelerator, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Accelerator{}, fmt.Errorf("%w: empty accelerator", ErrInvalidAccelerator)
	}

	parts := strings.Split(s, "+")
	keyStr := strings.TrimSpace(parts[len(parts)-1])
	if alias, ok := keyAliases[keyStr]; ok {
		keyStr = alias
	}
	if _, ok := KeyMap[keyStr]; !ok {
		if hint := SuggestKey(keyStr); hint != "" {
			return Accelerator{}, fmt.Errorf("%w: unsupported key %q (did you mean %q?)", ErrInvalidAccelerator, keyStr, hint)
		}
		return Accelerator{}, fmt.Errorf("%w: unsupported key %q", ErrInvalidAccelerator, keyStr)
	}

	seen := make(map[string]bool, len(parts)-1)
	for _, part := range parts[:len(parts)-1] {
		part = strings.TrimSpace(part)
		if part == "mod" {
			seen[PrimaryModifier()] = true
			continue
		}
		canon, ok := modifierAliases[part]
		if !ok {
			return Accelerator{}, fmt.Errorf("%w: unsupported modifier %q", ErrInvalidAccelerator, part)
		}
		seen[canon] = true
	}

	acc := Accelerator{Key: keyStr}
	for _, m := range modifierOrder {
		if seen[m] {
			acc.Modifiers = append(acc.Modifiers, m)
		}
	}
	return acc, nil
}

// String renders the canonical form, e.g. "ctrl+shift+c".
func (a Accelerator) String() string {
	parts := make([]string, 0, len(a.Modifiers)+1)
	parts = append(parts, a.Modifiers...)
	parts = append(parts, a.Key)
	return strings.Join(parts, "+")
}

// Normalize returns the canonical form of s.
func Normalize(s string) (string, error) {
	acc, err := ParseAccelerator(s)
	if err != nil {
		return "", err
	}
	return acc.String(), nil
}

// SameAccelerator reports whether a and b name the same chord.
// Strings that do not parse fall back to a case-insensitive comparison.
func SameAccelerator(a, b string) bool {
	na, errA := Normalize(a)
	nb, errB := Normalize(b)
	if errA != nil || errB != nil {
		return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
	}
	return na == nb
}
