package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestFileStoreMissingFile(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "shortcuts.json"), zerolog.Nop())

	bindings, err := store.LoadBindings()
	require.NoError(t, err)
	require.Empty(t, bindings)
	require.True(t, store.ShortcutsEnabled())
}

func TestFileStoreMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shortcuts.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))
	store := NewFileStore(path, zerolog.Nop())

	_, err := store.LoadBindings()
	require.Error(t, err)
	require.True(t, store.ShortcutsEnabled())

	// Saving replaces the broken document.
	require.NoError(t, store.SaveBindings(map[string]string{"screenshotChat": "ctrl+alt+x"}))
	bindings, err := store.LoadBindings()
	require.NoError(t, err)
	require.Equal(t, "ctrl+alt+x", bindings["screenshotChat"])
}

func TestFileStoreKeepsEnabledAcrossBindingSaves(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "shortcuts.json")
	store := NewFileStore(path, zerolog.Nop())

	require.NoError(t, store.SetShortcutsEnabled(false))
	require.NoError(t, store.SaveBindings(map[string]string{"textSelection": "mod+shift+c"}))
	require.False(t, store.ShortcutsEnabled())

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0600), info.Mode().Perm())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.JSONEq(t, `{"shortcuts":{"textSelection":"mod+shift+c"},"enabled":false}`, string(data))
}

func TestFileStoreSaveFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0600))

	store := NewFileStore(filepath.Join(blocker, "shortcuts.json"), zerolog.Nop())
	require.Error(t, store.SaveBindings(map[string]string{"textSelection": "ctrl+alt+t"}))
}

// isolateEnv makes sure keys set by LoadRuntime's .env handling are
// removed again after the test.
func isolateEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoadRuntimeDefaults(t *testing.T) {
	isolateEnv(t, "SNAPASK_CONFIG", "SNAPASK_LOG_LEVEL", "SNAPASK_CAPTURE_POLL_ATTEMPTS")
	dir := t.TempDir()

	rt, err := LoadRuntime(dir)
	require.NoError(t, err)

	require.Equal(t, filepath.Join(dir, "shortcuts.json"), rt.SettingsPath)
	require.True(t, rt.Notifications)
	require.Equal(t, "info", rt.Log.Level)
	require.Equal(t, "screencapture", rt.Capture.ScreenshotTool)
	require.Equal(t, "osascript", rt.Capture.AutomationTool)
	require.Equal(t, 50*time.Millisecond, rt.Capture.PollInterval)
	require.Equal(t, 10, rt.Capture.PollAttempts)
	require.Equal(t, 50*time.Millisecond, rt.Overlay.FocusDelay)
	require.Equal(t, 480, rt.Overlay.Width)
}

func TestLoadRuntimeSources(t *testing.T) {
	isolateEnv(t, "SNAPASK_CONFIG", "SNAPASK_LOG_LEVEL", "SNAPASK_CAPTURE_POLL_ATTEMPTS", "SNAPASK_OVERLAY_WIDTH")
	dir := t.TempDir()

	toml := "[overlay]\nwidth = 800\nfocus_delay = \"120ms\"\n\n[capture]\npoll_attempts = 4\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(toml), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SNAPASK_LOG_LEVEL=debug\n"), 0600))
	t.Setenv("SNAPASK_CAPTURE_POLL_ATTEMPTS", "20")

	rt, err := LoadRuntime(dir)
	require.NoError(t, err)

	require.Equal(t, 800, rt.Overlay.Width)
	require.Equal(t, 120*time.Millisecond, rt.Overlay.FocusDelay)
	require.Equal(t, 20, rt.Capture.PollAttempts)
	require.Equal(t, "debug", rt.Log.Level)
}

func TestLoadRuntimeSanitizes(t *testing.T) {
	isolateEnv(t, "SNAPASK_CONFIG", "SNAPASK_CAPTURE_POLL_INTERVAL", "SNAPASK_CAPTURE_POLL_ATTEMPTS")
	t.Setenv("SNAPASK_CAPTURE_POLL_INTERVAL", "0s")
	t.Setenv("SNAPASK_CAPTURE_POLL_ATTEMPTS", "-1")

	rt, err := LoadRuntime(t.TempDir())
	require.NoError(t, err)
	require.Equal(t, 50*time.Millisecond, rt.Capture.PollInterval)
	require.Equal(t, 10, rt.Capture.PollAttempts)
}

func TestLoadRuntimeMalformedDotenv(t *testing.T) {
	isolateEnv(t, "SNAPASK_CONFIG", "SNAPASK_LOG_LEVEL")
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SNAPASK_LOG_LEVEL=\"debug\n"), 0600))

	_, err := LoadRuntime(dir)
	require.Error(t, err)
	require.Contains(t, err.Error(), filepath.Join(dir, ".env"))
	require.Empty(t, os.Getenv("SNAPASK_LOG_LEVEL"))
}
