package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// AppName names the per-user directories.
const AppName = "SnapAsk"

const settingsFileName = "shortcuts.json"

// AppDataDir returns the per-user application data directory, e.g.
// ~/Library/Application Support/SnapAsk on macOS.
func AppDataDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config directory: %w", err)
	}
	return filepath.Join(base, AppName), nil
}

// DefaultSettingsPath returns the settings file inside AppDataDir.
func DefaultSettingsPath() (string, error) {
	dir, err := AppDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, settingsFileName), nil
}
