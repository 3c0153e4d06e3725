// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/weld/internal/core/domain"
)

// Executor defines the interface for executing task bodies.
//
//go:generate go run go.uber.org/mock/mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs the given task's command in the given working
	// directory. It returns an error if the task execution fails.
	Execute(ctx context.Context, dir string, task *domain.Task) error
}
