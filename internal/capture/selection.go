package capture

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/TanaroSch/snapask/internal/clipboard"
	"github.com/TanaroSch/snapask/internal/shell"
)

// SelectionCapturer grabs the frontmost application's selected text by
// simulating a copy and watching the clipboard. The clipboard is always
// restored to what it held before.
type SelectionCapturer struct {
	board      clipboard.Board
	runner     shell.Runner
	tool       string
	strategies []CopyStrategy
	interval   time.Duration
	attempts   int
	log        zerolog.Logger

	sleep func(context.Context, time.Duration) error
}

// NewSelectionCapturer creates a capturer polling every interval, at most
// attempts times.
func NewSelectionCapturer(board clipboard.Board, runner shell.Runner, tool string, interval time.Duration, attempts int, log zerolog.Logger) *SelectionCapturer {
	return &SelectionCapturer{
		board:      board,
		runner:     runner,
		tool:       tool,
		strategies: DefaultCopyStrategies,
		interval:   interval,
		attempts:   attempts,
		log:        log,
		sleep:      sleepContext,
	}
}

// Capture returns Text with the newly copied content, or Failed when the
// copy could not be sent or nothing new reached the clipboard.
func (c *SelectionCapturer) Capture(ctx context.Context) Result {
	guard, err := clipboard.Acquire(c.board)
	if err != nil {
		return FailedResult("%v", err)
	}
	defer func() {
		if err := guard.Release(); err != nil {
			c.log.Warn().Err(err).Msg("Clipboard not restored")
		}
	}()

	if err := simulateCopy(ctx, c.runner, c.tool, c.strategies, c.log); err != nil {
		return FailedResult("%v", err)
	}

	for i := 0; i < c.attempts; i++ {
		if err := c.sleep(ctx, c.interval); err != nil {
			return FailedResult("%v", err)
		}
		current, err := c.board.ReadAll()
		if err != nil {
			c.log.Debug().Err(err).Int("attempt", i+1).Msg("Clipboard read failed while polling")
			continue
		}
		if guard.Changed(current) {
			return TextResult(current)
		}
	}
	return FailedResult("no selection")
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
