package resources

import (
	_ "embed"
	"errors"
)

// ErrIconNotFound is returned when the icon was not embedded.
var ErrIconNotFound = errors.New("embedded icon not found")

//go:embed icon.png
var iconData []byte

// GetIcon returns the bytes of the embedded tray icon (PNG).
func GetIcon() ([]byte, error) {
	if len(iconData) == 0 {
		return nil, ErrIconNotFound
	}
	return iconData, nil
}
