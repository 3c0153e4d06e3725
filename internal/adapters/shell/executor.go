// Package shell provides the shell executor adapter.
package shell

import (
	"context"
	"os/exec"
	"strings"

	"go.trai.ch/weld/internal/core/domain"
	"go.trai.ch/weld/internal/core/ports"
	"go.trai.ch/zerr"
)

// Executor implements ports.Executor using os/exec.
type Executor struct {
	logger ports.Logger
}

// NewExecutor creates a new Executor.
func NewExecutor(logger ports.Logger) *Executor {
	return &Executor{
		logger: logger,
	}
}

// Execute runs the task's command in the given working directory,
// streaming stdout and stderr to the logger. A task without a command
// is a no-op.
func (e *Executor) Execute(ctx context.Context, dir string, task *domain.Task) error {
	if len(task.Command) == 0 {
		return nil
	}

	name := task.Command[0]
	args := task.Command[1:]

	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec // user provided command
	cmd.Dir = dir
	cmd.Stdout = &logWriter{logger: e.logger, task: task.Path.String(), level: "info"}
	cmd.Stderr = &logWriter{logger: e.logger, task: task.Path.String(), level: "error"}

	if err := cmd.Run(); err != nil {
		exitCode := -1
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		}
		err = zerr.With(zerr.Wrap(err, "command failed"), "exit_code", exitCode)
		return zerr.With(err, "task", task.Path.String())
	}

	return nil
}

type logWriter struct {
	logger ports.Logger
	task   string
	level  string
}

// Write forwards process output line by line to the logger.
func (w *logWriter) Write(p []byte) (n int, err error) {
	lines := strings.Split(strings.TrimSuffix(string(p), "\n"), "\n")
	for _, line := range lines {
		if w.level == "info" {
			w.logger.Info(line, "task", w.task)
		} else {
			w.logger.Error(zerr.With(zerr.New(line), "task", w.task))
		}
	}
	return len(p), nil
}
