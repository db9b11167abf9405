package hotkey

// Action is a logical, user-facing trigger independent of its accelerator.
type Action string

const (
	ActionTextSelection     Action = "textSelection"
	ActionScreenshotChat    Action = "screenshotChat"
	ActionScreenshotExplain Action = "screenshotExplain"
)

// EscapeAccelerator dismisses the overlay. It is managed apart from the actions.
const EscapeAccelerator = "escape"

// Actions returns every action in a stable order.
func Actions() []Action {
	return []Action{ActionTextSelection, ActionScreenshotChat, ActionScreenshotExplain}
}

// Valid reports whether a is one of the known actions.
func (a Action) Valid() bool {
	switch a {
	case ActionTextSelection, ActionScreenshotChat, ActionScreenshotExplain:
		return true
	}
	return false
}

// Label is the menu text for a.
func (a Action) Label() string {
	switch a {
	case ActionTextSelection:
		return "Ask about selected text"
	case ActionScreenshotChat:
		return "Screenshot to chat"
	case ActionScreenshotExplain:
		return "Screenshot and explain"
	default:
		return string(a)
	}
}

// DefaultBindings returns a fresh copy of the first-run bindings.
func DefaultBindings() map[Action]string {
	return map[Action]string{
		ActionTextSelection:     "mod+shift+C",
		ActionScreenshotChat:    "mod+shift+X",
		ActionScreenshotExplain: "mod+shift+E",
	}
}

// protectedAccelerators can never be bound to an action.
var protectedAccelerators = []string{
	"mod+c",
	"mod+v",
	"mod+x",
	"mod+z",
	"mod+shift+z",
	"mod+a",
	"mod+q",
	"mod+w",
	"mod+s",
	"mod+tab",
	"mod+space",
	EscapeAccelerator,
}

// ProtectedAccelerators returns a copy of the reserved accelerator list.
func ProtectedAccelerators() []string {
	out := make([]string, len(protectedAccelerators))
	copy(out, protectedAccelerators)
	return out
}

// IsProtected reports whether accel is reserved.
func IsProtected(accel string) bool {
	for _, p := range protectedAccelerators {
		if SameAccelerator(p, accel) {
			return true
		}
	}
	return false
}
