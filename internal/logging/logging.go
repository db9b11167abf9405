package logging

import (
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options selects the level and log file. An empty File uses the
// platform default from DefaultLogPath.
type Options struct {
	Level string
	File  string
}

// New creates a zerolog logger writing to the console and to a log file.
// When the file cannot be opened the logger falls back to console only and
// reports the problem through itself.
func New(opts Options) zerolog.Logger {
	console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}

	logPath := opts.File
	if logPath == "" {
		logPath = DefaultLogPath()
	}

	var out io.Writer = console
	logFile, fileErr := openLogFile(logPath)
	if fileErr == nil {
		out = zerolog.MultiLevelWriter(console, logFile)
	}

	logger := zerolog.New(out).
		Level(ParseLevel(opts.Level)).
		With().Timestamp().Caller().Logger()

	if fileErr != nil {
		logger.Warn().Err(fileErr).Str("path", logPath).Msg("Failed to open log file, logging to console only")
	}
	return logger
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// DefaultLogPath returns the platform-specific log file path.
func DefaultLogPath() string {
	return logPathFor(runtime.GOOS, os.Getenv)
}

func logPathFor(goos string, getenv func(string) string) string {
	var base string

	switch goos {
	case "darwin":
		base = filepath.Join(getenv("HOME"), "Library", "Logs")
		return filepath.Join(base, "SnapAsk", "snapask.log")
	case "windows":
		base = getenv("LOCALAPPDATA")
	default:
		if xdg := getenv("XDG_STATE_HOME"); xdg != "" {
			base = xdg
		} else {
			base = filepath.Join(getenv("HOME"), ".local", "state")
		}
	}

	return filepath.Join(base, "snapask", "snapask.log")
}
