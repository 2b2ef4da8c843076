package host

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"go.uber.org/zap"
)

// ErrNoLaunchCommand is returned when no settings command is configured.
var ErrNoLaunchCommand = errors.New("permission launch command not configured")

// Launcher opens the system settings screen where usage access is granted.
type Launcher struct {
	command []string
	logger  *zap.Logger
}

// NewLauncher creates a Launcher for the given argv.
func NewLauncher(command []string, logger *zap.Logger) *Launcher {
	return &Launcher{command: command, logger: logger}
}

// Launch starts the command without waiting for it.
// The process outlives ctx; it is reaped in the background.
func (l *Launcher) Launch(_ context.Context) error {
	if len(l.command) == 0 || l.command[0] == "" {
		return ErrNoLaunchCommand
	}

	cmd := exec.Command(l.command[0], l.command[1:]...) //nolint:gosec // operator-configured
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", l.command[0], err)
	}

	go func() {
		if err := cmd.Wait(); err != nil {
			l.logger.Debug("permission launcher exited",
				zap.String("command", l.command[0]),
				zap.Error(err),
			)
		}
	}()
	return nil
}
