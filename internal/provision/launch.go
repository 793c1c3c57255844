package provision

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"time"

	"github.com/nhle/clerk/internal/logging"
)

// Launcher runs an external program and waits a bounded time for it.
type Launcher interface {
	// Launch starts exe with args and waits up to wait for it to exit.
	// Running past wait is not an error; the process is left running.
	Launch(ctx context.Context, exe string, args []string, wait time.Duration) error
}

// ExecLauncher launches processes with a hidden window.
type ExecLauncher struct {
	logger *slog.Logger
}

// NewExecLauncher creates a launcher. A nil logger discards output.
func NewExecLauncher(logger *slog.Logger) *ExecLauncher {
	if logger == nil {
		logger = logging.Discard()
	}
	return &ExecLauncher{logger: logger}
}

// Launch implements Launcher. The process is not tied to ctx and outlives
// both the wait and a cancellation.
func (l *ExecLauncher) Launch(ctx context.Context, exe string, args []string, wait time.Duration) error {
	cmd := exec.Command(exe, args...)
	hideWindow(cmd)

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", exe, err)
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("%s exited: %w", exe, err)
		}
		l.logger.Debug("process exited", "executable", exe, "elapsed", time.Since(start))
		return nil
	case <-timer.C:
		l.logger.Warn("process still running, continuing", "executable", exe, "elapsed", time.Since(start))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
