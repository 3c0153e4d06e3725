package ports

import (
	"context"

	"go.trai.ch/weld/internal/core/domain"
)

// BuildTaskRunner is one build's task execution engine: it runs the
// given task paths (and their dependencies) to completion.
//
//go:generate go run go.uber.org/mock/mockgen -source=coordinator.go -destination=mocks/mock_coordinator.go -package=mocks
type BuildTaskRunner interface {
	// RunTasks runs the given task paths and their dependencies. The map
	// holds the terminal error of each requested path that did not
	// complete; paths absent from it completed successfully. The error
	// aggregates the whole run's failures.
	RunTasks(ctx context.Context, taskPaths []string) (map[string]error, error)
}

// TaskCoordinator lets a task in one build block until a specific set of
// tasks in another build has completed. It is the sole entry point a
// delegating task invokes.
type TaskCoordinator interface {
	// AwaitCompletion idempotently ensures the target build has been
	// asked to run taskPaths and blocks until every one of them reaches a
	// terminal state. It returns normally or raises a build-execution
	// failure naming the owning build.
	AwaitCompletion(ctx context.Context, from, target domain.BuildIdentifier, taskPaths []string) error
}
