package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

// Settings is the user settings document, stored as JSON.
type Settings struct {
	// Shortcuts maps an action name ("textSelection", "screenshotChat",
	// "screenshotExplain") to its accelerator.
	Shortcuts map[string]string `json:"shortcuts"`
	// Enabled is the user's global shortcut switch. Missing means enabled.
	Enabled *bool `json:"enabled,omitempty"`
}

// ShortcutsEnabled reports the user's global switch.
func (s Settings) ShortcutsEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}

// FileStore reads and writes Settings at a fixed path. It implements
// hotkey.Store.
type FileStore struct {
	mu   sync.Mutex
	path string
	log  zerolog.Logger
}

// NewFileStore creates a store for the settings file at path.
func NewFileStore(path string, log zerolog.Logger) *FileStore {
	return &FileStore{
		path: path,
		log:  log.With().Str("component", "settings").Logger(),
	}
}

// Path returns the settings file location.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the settings document. A missing file yields empty settings
// and no error; a malformed file yields empty settings and the parse error.
func (s *FileStore) Load() (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *FileStore) load() (Settings, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Settings{}, nil
		}
		return Settings{}, fmt.Errorf("failed to read settings '%s': %w", s.path, err)
	}

	var st Settings
	if err := json.Unmarshal(data, &st); err != nil {
		return Settings{}, fmt.Errorf("failed to parse settings '%s': %w", s.path, err)
	}
	return st, nil
}

func (s *FileStore) save(st Settings) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write settings '%s': %w", s.path, err)
	}
	s.log.Debug().Str("path", s.path).Msg("Settings saved")
	return nil
}

// LoadBindings returns the persisted shortcuts.
func (s *FileStore) LoadBindings() (map[string]string, error) {
	st, err := s.Load()
	if err != nil {
		return nil, err
	}
	return st.Shortcuts, nil
}

// SaveBindings replaces the persisted shortcuts, keeping other settings.
// An unreadable existing file is overwritten.
func (s *FileStore) SaveBindings(bindings map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load()
	if err != nil {
		s.log.Warn().Err(err).Msg("Overwriting unreadable settings file")
		st = Settings{}
	}
	st.Shortcuts = bindings
	return s.save(st)
}

// ShortcutsEnabled returns the persisted global switch, true if unknown.
func (s *FileStore) ShortcutsEnabled() bool {
	st, err := s.Load()
	if err != nil {
		return true
	}
	return st.ShortcutsEnabled()
}

// SetShortcutsEnabled persists the global switch.
func (s *FileStore) SetShortcutsEnabled(enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load()
	if err != nil {
		s.log.Warn().Err(err).Msg("Overwriting unreadable settings file")
		st = Settings{}
	}
	st.Enabled = &enabled
	return s.save(st)
}
