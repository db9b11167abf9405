package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Runtime holds process tunables. The shortcut bindings live in the
// settings file instead; see FileStore.
type Runtime struct {
	SettingsPath  string        `mapstructure:"settings_path"`
	Notifications bool          `mapstructure:"notifications"`
	Log           LogConfig     `mapstructure:"log"`
	Capture       CaptureConfig `mapstructure:"capture"`
	Overlay       OverlayConfig `mapstructure:"overlay"`
}

// LogConfig controls the zerolog setup.
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// CaptureConfig names the external utilities and the clipboard polling budget.
type CaptureConfig struct {
	ScreenshotTool string        `mapstructure:"screenshot_tool"`
	AutomationTool string        `mapstructure:"automation_tool"`
	PollInterval   time.Duration `mapstructure:"poll_interval"`
	PollAttempts   int           `mapstructure:"poll_attempts"`
	TempDir        string        `mapstructure:"temp_dir"`
}

// OverlayConfig sizes the overlay window.
type OverlayConfig struct {
	Width      int           `mapstructure:"width"`
	Height     int           `mapstructure:"height"`
	FocusDelay time.Duration `mapstructure:"focus_delay"`
}

const envPrefix = "SNAPASK"

const (
	defaultPollInterval = 50 * time.Millisecond
	defaultPollAttempts = 10
	defaultFocusDelay   = 50 * time.Millisecond
	defaultWidth        = 480
	defaultHeight       = 640
)

// LoadRuntime resolves the runtime configuration. Sources, lowest priority
// first: built-in defaults, dir/config.toml (or $SNAPASK_CONFIG), then
// SNAPASK_* environment variables. A .env file in the working directory
// or in dir is loaded into the environment first without overriding
// variables that are already set.
func LoadRuntime(dir string) (Runtime, error) {
	if err := loadDotenv(".env", filepath.Join(dir, ".env")); err != nil {
		return Runtime{}, err
	}

	v := viper.New()
	v.SetDefault("settings_path", filepath.Join(dir, settingsFileName))
	v.SetDefault("notifications", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("capture.screenshot_tool", "screencapture")
	v.SetDefault("capture.automation_tool", "osascript")
	v.SetDefault("capture.poll_interval", defaultPollInterval)
	v.SetDefault("capture.poll_attempts", defaultPollAttempts)
	v.SetDefault("capture.temp_dir", "")
	v.SetDefault("overlay.width", defaultWidth)
	v.SetDefault("overlay.height", defaultHeight)
	v.SetDefault("overlay.focus_delay", defaultFocusDelay)

	v.SetConfigType("toml")
	if p := os.Getenv(envPrefix + "_CONFIG"); p != "" {
		v.SetConfigFile(p)
	} else {
		v.AddConfigPath(dir)
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Runtime{}, fmt.Errorf("read runtime config: %w", err)
		}
	}

	var rt Runtime
	if err := v.Unmarshal(&rt); err != nil {
		return Runtime{}, fmt.Errorf("unmarshal runtime config: %w", err)
	}
	rt.sanitize()
	return rt, nil
}

// sanitize replaces out-of-range values with the defaults.
func (rt *Runtime) sanitize() {
	if rt.Capture.PollInterval <= 0 {
		rt.Capture.PollInterval = defaultPollInterval
	}
	if rt.Capture.PollAttempts <= 0 {
		rt.Capture.PollAttempts = defaultPollAttempts
	}
	if rt.Overlay.FocusDelay < 0 {
		rt.Overlay.FocusDelay = defaultFocusDelay
	}
	if rt.Overlay.Width <= 0 {
		rt.Overlay.Width = defaultWidth
	}
	if rt.Overlay.Height <= 0 {
		rt.Overlay.Height = defaultHeight
	}
}

func loadDotenv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}
