package capture

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/TanaroSch/snapask/internal/shell"
)

// CopyStrategy is one way of sending the copy chord to the frontmost
// application through the automation tool.
type CopyStrategy struct {
	Name   string
	Script string
}

// DefaultCopyStrategies are tried in order. Some applications only react
// to the raw key code, others only to the logical keystroke.
var DefaultCopyStrategies = []CopyStrategy{
	{Name: "key code", Script: `tell application "System Events" to key code 8 using command down`},
	{Name: "keystroke", Script: `tell application "System Events" to keystroke "c" using command down`},
}

var errNoStrategies = errors.New("no copy strategy configured")

// simulateCopy runs the strategies in order and stops at the first one that
// succeeds. The last error is returned only if all of them fail.
func simulateCopy(ctx context.Context, runner shell.Runner, tool string, strategies []CopyStrategy, log zerolog.Logger) error {
	lastErr := errNoStrategies
	for _, s := range strategies {
		err := runner.Run(ctx, tool, "-e", s.Script)
		if err == nil {
			log.Debug().Str("strategy", s.Name).Msg("Copy simulation succeeded")
			return nil
		}
		log.Debug().Err(err).Str("strategy", s.Name).Msg("Copy simulation failed")
		lastErr = fmt.Errorf("copy via %s: %w", s.Name, err)
	}
	return lastErr
}
