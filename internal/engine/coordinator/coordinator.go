// Package coordinator implements cross-build task coordination: a task
// in one build can block until a specific set of tasks in another build
// has completed, without deadlocking and without running anything twice.
package coordinator

import (
	"context"
	"errors"
	"sync"

	"go.trai.ch/weld/internal/core/domain"
	"go.trai.ch/weld/internal/core/ports"
	"go.trai.ch/zerr"
)

// TaskState is the lifecycle of one (build, task path) pair.
type TaskState int

const (
	// StateNotStarted means no caller has requested the task yet.
	StateNotStarted TaskState = iota
	// StateRequested means the task has been submitted to its build's
	// engine but execution has not been observed to start.
	StateRequested
	// StateExecuting means the owning build's engine is running the task.
	StateExecuting
	// StateSucceeded is terminal success.
	StateSucceeded
	// StateFailed is terminal failure.
	StateFailed
)

type taskKey struct {
	build domain.BuildIdentifier
	path  string
}

type taskEntry struct {
	state TaskState
	done  chan struct{}
	err   error
}

// Coordinator tracks per-(build, task) state for one session. Concurrent
// AwaitCompletion calls for overlapping task sets collapse into a single
// engine request per task path.
//
// The coordinator never occupies execution capacity itself: each batch
// is submitted on a fresh goroutine, runs under the session context (not
// the first caller's), and waiters only block on completion channels.
type Coordinator struct {
	// base is the session-lifetime context: cancelling it asks provider
	// engines to stop and unblocks every in-flight await.
	base   context.Context
	logger ports.Logger

	mu      sync.Mutex
	runners map[domain.BuildIdentifier]ports.BuildTaskRunner
	tasks   map[taskKey]*taskEntry

	// waits counts live waits-for edges between builds, used to fail
	// fast on mutual awaiting instead of deadlocking.
	waits map[domain.BuildIdentifier]map[domain.BuildIdentifier]int
}

// New creates a Coordinator for one session. base must span the session;
// cancelling it cancels all coordinated execution.
func New(base context.Context, logger ports.Logger) *Coordinator {
	return &Coordinator{
		base:    base,
		logger:  logger,
		runners: make(map[domain.BuildIdentifier]ports.BuildTaskRunner),
		tasks:   make(map[taskKey]*taskEntry),
		waits:   make(map[domain.BuildIdentifier]map[domain.BuildIdentifier]int),
	}
}

// RegisterBuild wires a participant build's task execution engine.
func (c *Coordinator) RegisterBuild(id domain.BuildIdentifier, runner ports.BuildTaskRunner) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.runners[id] = runner
}

// State returns the current state of a (build, task path) pair.
func (c *Coordinator) State(build domain.BuildIdentifier, path string) TaskState {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.tasks[taskKey{build: build, path: path}]
	if !ok {
		return StateNotStarted
	}
	return entry.state
}

// AwaitCompletion implements ports.TaskCoordinator. It idempotently
// ensures taskPaths have been submitted to the target build's engine,
// then blocks until every one of them reaches a terminal state. If the
// target build already (directly or transitively) awaits the calling
// build, it fails fast with a cycle error instead of deadlocking.
func (c *Coordinator) AwaitCompletion(ctx context.Context, from, target domain.BuildIdentifier, taskPaths []string) error {
	c.mu.Lock()

	runner, ok := c.runners[target]
	if !ok {
		c.mu.Unlock()
		return zerr.With(domain.ErrUnknownBuild, "build", target.Name())
	}

	if chain := c.findChain(target, from); chain != nil {
		c.mu.Unlock()
		return &domain.CrossBuildCycleError{Chain: append([]domain.BuildIdentifier{from}, chain...)}
	}

	if c.waits[from] == nil {
		c.waits[from] = make(map[domain.BuildIdentifier]int)
	}
	c.waits[from][target]++

	var newPaths []string
	entries := make([]*taskEntry, 0, len(taskPaths))
	for _, path := range taskPaths {
		key := taskKey{build: target, path: path}
		entry, ok := c.tasks[key]
		if !ok {
			entry = &taskEntry{state: StateRequested, done: make(chan struct{})}
			c.tasks[key] = entry
			newPaths = append(newPaths, path)
		}
		entries = append(entries, entry)
	}
	c.mu.Unlock()

	if len(newPaths) > 0 {
		go c.runBatch(target, runner, newPaths)
	}

	err := c.wait(ctx, target, entries)

	c.mu.Lock()
	c.waits[from][target]--
	c.mu.Unlock()

	return err
}

// runBatch submits one deduplicated set of task paths to the owning
// build's engine and publishes the per-task terminal states. A task
// that completed is recorded as succeeded even when another task in the
// same batch failed.
func (c *Coordinator) runBatch(target domain.BuildIdentifier, runner ports.BuildTaskRunner, paths []string) {
	c.mu.Lock()
	for _, path := range paths {
		c.tasks[taskKey{build: target, path: path}].state = StateExecuting
	}
	c.mu.Unlock()

	failed, err := runner.RunTasks(c.base, paths)

	c.mu.Lock()
	for _, path := range paths {
		entry := c.tasks[taskKey{build: target, path: path}]
		taskErr, ok := failed[path]
		if !ok && err != nil && len(failed) == 0 {
			// The runner failed without per-task attribution.
			taskErr, ok = err, true
		}
		if ok {
			entry.err = taskErr
			entry.state = StateFailed
		} else {
			entry.state = StateSucceeded
		}
		close(entry.done)
	}
	c.mu.Unlock()
}

func (c *Coordinator) wait(ctx context.Context, target domain.BuildIdentifier, entries []*taskEntry) error {
	var errs error
	for _, entry := range entries {
		select {
		case <-entry.done:
			if entry.err != nil {
				errs = errors.Join(errs, entry.err)
			}
		case <-ctx.Done():
			return zerr.Wrap(ctx.Err(), "await cancelled")
		}
	}
	if errs != nil {
		return &domain.CrossBuildTaskError{Build: target, Cause: errs}
	}
	return nil
}

// findChain returns a live waits-for path from start to goal, or nil.
// Caller holds c.mu.
func (c *Coordinator) findChain(start, goal domain.BuildIdentifier) []domain.BuildIdentifier {
	if start == goal {
		return []domain.BuildIdentifier{start}
	}
	visited := map[domain.BuildIdentifier]bool{start: true}
	var walk func(from domain.BuildIdentifier) []domain.BuildIdentifier
	walk = func(from domain.BuildIdentifier) []domain.BuildIdentifier {
		for next, count := range c.waits[from] {
			if count <= 0 || visited[next] {
				continue
			}
			if next == goal {
				return []domain.BuildIdentifier{from, next}
			}
			visited[next] = true
			if chain := walk(next); chain != nil {
				return append([]domain.BuildIdentifier{from}, chain...)
			}
		}
		return nil
	}
	return walk(start)
}
