package ui

import (
	"runtime"

	"github.com/TanaroSch/snapask/internal/shell"
)

var startFn = shell.Start

// openerFor returns the program that opens a path in the desktop's default
// handler.
func openerFor(goos string) string {
	switch goos {
	case "darwin":
		return "open"
	case "windows":
		return "explorer"
	default:
		return "xdg-open"
	}
}

// OpenInDefaultApp opens a file or folder with the platform's handler.
func OpenInDefaultApp(path string) error {
	return startFn(openerFor(runtime.GOOS), path)
}
