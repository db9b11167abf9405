package capture

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/TanaroSch/snapask/internal/shell"
)

// RegionCapturer runs the interactive region-selection utility and reads
// the PNG it writes.
type RegionCapturer struct {
	runner  shell.Runner
	tool    string
	tempDir string
	log     zerolog.Logger

	now      func() time.Time
	readFile func(string) ([]byte, error)
	remove   func(string) error
}

// NewRegionCapturer creates a capturer invoking tool. An empty tempDir
// uses os.TempDir.
func NewRegionCapturer(runner shell.Runner, tool, tempDir string, log zerolog.Logger) *RegionCapturer {
	return &RegionCapturer{
		runner:   runner,
		tool:     tool,
		tempDir:  tempDir,
		log:      log,
		now:      time.Now,
		readFile: os.ReadFile,
		remove:   os.Remove,
	}
}

// tempPath returns a fresh file name so that rapid repeated captures
// never share a path.
func (c *RegionCapturer) tempPath() string {
	dir := c.tempDir
	if dir == "" {
		dir = os.TempDir()
	}
	stamp := c.now().Format("20060102-150405.000000")
	return filepath.Join(dir, fmt.Sprintf("snapask-%s-%s.png", stamp, uuid.NewString()[:8]))
}

// Capture runs one interactive selection. A non-zero exit, including the
// user pressing escape, is a cancellation.
func (c *RegionCapturer) Capture(ctx context.Context) Result {
	path := c.tempPath()

	// -i interactive selection, -x no sound
	if err := c.runner.Run(ctx, c.tool, "-i", "-x", path); err != nil {
		c.log.Debug().Err(err).Msg("Region capture cancelled")
		c.cleanup(path)
		return CancelledResult()
	}

	data, err := c.readFile(path)
	c.cleanup(path)
	if err != nil {
		return FailedResult("read capture: %v", err)
	}
	if len(data) == 0 {
		return FailedResult("capture file is empty")
	}
	return ImageResult(data)
}

// cleanup deletes the temp file. Failures are logged only.
func (c *RegionCapturer) cleanup(path string) {
	if err := c.remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		c.log.Warn().Err(err).Str("path", path).Msg("Failed to delete capture file")
	}
}
