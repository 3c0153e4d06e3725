package scheduler

import (
	"go.trai.ch/weld/internal/core/domain"
	"go.trai.ch/weld/internal/core/ports"
	"golang.org/x/sync/semaphore"
)

// Factory creates per-build schedulers sharing the session-wide
// executor, hasher and telemetry.
type Factory struct {
	executor  ports.Executor
	hasher    ports.Hasher
	telemetry ports.Telemetry
	logger    ports.Logger
}

// NewFactory creates a scheduler factory.
func NewFactory(executor ports.Executor, hasher ports.Hasher, telemetry ports.Telemetry, logger ports.Logger) *Factory {
	return &Factory{
		executor:  executor,
		hasher:    hasher,
		telemetry: telemetry,
		logger:    logger,
	}
}

// New creates the task execution engine for one participant build.
func (f *Factory) New(
	buildID domain.BuildIdentifier,
	dir string,
	graph *domain.Graph,
	store ports.BuildInfoStore,
	capacity *semaphore.Weighted,
	parallelism int,
) (*Scheduler, error) {
	return New(buildID, dir, graph, f.executor, f.hasher, store, f.telemetry, f.logger, capacity, parallelism)
}
