package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ncruces/zenity"

	"github.com/TanaroSch/snapask/internal/config"
)

var (
	zenityEntryFn = zenity.Entry
	zenityErrorFn = zenity.Error
)

// PromptAccelerator asks the user for a new shortcut for label. ok is
// false when the dialog was cancelled or left empty.
func PromptAccelerator(label, current string) (accel string, ok bool, err error) {
	text := fmt.Sprintf("New shortcut for %q\n(e.g. mod+shift+k, ctrl+alt+space)", label)
	value, err := zenityEntryFn(text,
		zenity.Title(config.AppName+" - Change Shortcut"),
		zenity.EntryText(current),
		zenity.OKLabel("Save"),
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("shortcut dialog failed: %w", err)
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false, nil
	}
	return value, true, nil
}

// ShowError shows a modal error dialog.
func ShowError(title, message string) error {
	return zenityErrorFn(message, zenity.Title(config.AppName+" - "+title), zenity.ErrorIcon)
}
