package capture

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/TanaroSch/snapask/internal/clipboard"
	"github.com/TanaroSch/snapask/internal/shell"
)

// Options configures both capture flows.
type Options struct {
	ScreenshotTool string
	AutomationTool string
	PollInterval   time.Duration
	PollAttempts   int
	TempDir        string
}

// Service exposes region and selection capture. The two share nothing
// except the system clipboard, which only the selection flow touches.
type Service struct {
	region    *RegionCapturer
	selection *SelectionCapturer
	log       zerolog.Logger
}

func NewService(runner shell.Runner, board clipboard.Board, opts Options, log zerolog.Logger) *Service {
	log = log.With().Str("component", "capture").Logger()
	return &Service{
		region:    NewRegionCapturer(runner, opts.ScreenshotTool, opts.TempDir, log),
		selection: NewSelectionCapturer(board, runner, opts.AutomationTool, opts.PollInterval, opts.PollAttempts, log),
		log:       log,
	}
}

// CaptureRegion runs the interactive region capture.
func (s *Service) CaptureRegion(ctx context.Context) Result {
	res := s.region.Capture(ctx)
	s.log.Debug().Stringer("result", res).Msg("Region capture finished")
	return res
}

// CaptureSelection captures the selected text of the frontmost application.
func (s *Service) CaptureSelection(ctx context.Context) Result {
	res := s.selection.Capture(ctx)
	s.log.Debug().Stringer("result", res).Msg("Selection capture finished")
	return res
}
