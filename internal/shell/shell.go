package shell

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"
)

// Runner runs an external program to completion.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// Exec runs programs with os/exec. A non-zero exit is returned as an
// error carrying the program's trimmed stderr.
type Exec struct {
	Log zerolog.Logger
}

func (e Exec) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	e.Log.Debug().Str("cmd", name).Strs("args", args).Msg("Executing")
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// Start launches a program without waiting for it to finish.
func Start(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start command (%s): %w", cmd.String(), err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
