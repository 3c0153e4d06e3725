// Package scheduler implements the per-build task execution engine.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.trai.ch/weld/internal/core/domain"
	"go.trai.ch/weld/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/semaphore"
)

// TaskStatus represents the status of a task.
type TaskStatus string

const (
	// StatusPending indicates the task is waiting to be executed.
	StatusPending TaskStatus = "Pending"
	// StatusRunning indicates the task is currently executing.
	StatusRunning TaskStatus = "Running"
	// StatusCompleted indicates the task has finished successfully.
	StatusCompleted TaskStatus = "Completed"
	// StatusFailed indicates the task execution failed.
	StatusFailed TaskStatus = "Failed"
	// StatusUpToDate indicates the task was skipped because its outputs
	// were unchanged since the last run.
	StatusUpToDate TaskStatus = "UpToDate"
)

// Scheduler executes one build's task graph. It implements
// ports.BuildTaskRunner so the cross-build coordinator can drive it.
//
// Execution capacity is bounded twice: parallelism bounds this build's
// own workers, and the session-wide capacity semaphore is held only
// while a task body actually runs. Delegating tasks never acquire
// capacity, so a call blocked in AwaitCompletion cannot starve the pool.
type Scheduler struct {
	buildID     domain.BuildIdentifier
	dir         string
	graph       *domain.Graph
	executor    ports.Executor
	hasher      ports.Hasher
	store       ports.BuildInfoStore
	telemetry   ports.Telemetry
	logger      ports.Logger
	capacity    *semaphore.Weighted
	parallelism int

	coordinator ports.TaskCoordinator

	// runMu serializes Run: concurrent coordinator batches for this build
	// must not race over shared task statuses.
	runMu sync.Mutex

	mu         sync.RWMutex
	taskStatus map[domain.InternedString]TaskStatus
	taskErrs   map[domain.InternedString]error
}

// New creates a Scheduler for one build. It validates the graph before
// proceeding and returns an error if validation fails.
func New(
	buildID domain.BuildIdentifier,
	dir string,
	graph *domain.Graph,
	executor ports.Executor,
	hasher ports.Hasher,
	store ports.BuildInfoStore,
	telemetry ports.Telemetry,
	logger ports.Logger,
	capacity *semaphore.Weighted,
	parallelism int,
) (*Scheduler, error) {
	if err := graph.Validate(); err != nil {
		return nil, err
	}
	if parallelism < 1 {
		parallelism = 1
	}

	s := &Scheduler{
		buildID:     buildID,
		dir:         dir,
		graph:       graph,
		executor:    executor,
		hasher:      hasher,
		store:       store,
		telemetry:   telemetry,
		logger:      logger,
		capacity:    capacity,
		parallelism: parallelism,
		taskStatus:  make(map[domain.InternedString]TaskStatus),
		taskErrs:    make(map[domain.InternedString]error),
	}
	for task := range graph.Walk() {
		s.taskStatus[task.Path] = StatusPending
	}
	return s, nil
}

// SetCoordinator wires the cross-build coordinator used by delegating
// tasks. Set once during session assembly, before any Run.
func (s *Scheduler) SetCoordinator(c ports.TaskCoordinator) {
	s.coordinator = c
}

// BuildID returns the identifier of the build this engine belongs to.
func (s *Scheduler) BuildID() domain.BuildIdentifier {
	return s.buildID
}

// Status returns the current status of a task.
func (s *Scheduler) Status(path domain.InternedString) TaskStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.taskStatus[path]
}

func (s *Scheduler) updateStatus(path domain.InternedString, status TaskStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.taskStatus[path] = status
}

func (s *Scheduler) recordFailure(path domain.InternedString, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.taskStatus[path] = StatusFailed
	s.taskErrs[path] = err
}

// RunTasks implements ports.BuildTaskRunner. Requested paths that
// failed carry their own error; paths skipped because a dependency
// failed carry the aggregated run error.
func (s *Scheduler) RunTasks(ctx context.Context, taskPaths []string) (map[string]error, error) {
	interned := make([]domain.InternedString, len(taskPaths))
	for i, p := range taskPaths {
		interned[i] = domain.NewInternedString(p)
	}
	err := s.Run(ctx, interned)
	if err == nil {
		return nil, nil
	}

	failed := make(map[string]error, len(taskPaths))
	s.mu.RLock()
	for i, path := range interned {
		switch s.taskStatus[path] {
		case StatusCompleted, StatusUpToDate:
		case StatusFailed:
			failed[taskPaths[i]] = s.taskErrs[path]
		default:
			failed[taskPaths[i]] = err
		}
	}
	s.mu.RUnlock()
	return failed, err
}

// Run executes the requested tasks and their transitive dependencies.
func (s *Scheduler) Run(ctx context.Context, taskPaths []domain.InternedString) error {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	state, err := s.newRunState(ctx, taskPaths)
	if err != nil {
		return err
	}

	for !state.isDone() {
		state.schedule()

		if state.isDone() {
			break
		}

		if state.ctx.Err() != nil && state.active == 0 {
			return errors.Join(state.errs, state.ctx.Err())
		}

		select {
		case res := <-state.resultsCh:
			state.handleResult(res)
		case <-state.ctx.Done():
		}
	}

	if state.ctx.Err() != nil {
		state.errs = errors.Join(state.errs, state.ctx.Err())
	}

	return state.errs
}

type result struct {
	task domain.InternedString
	err  error
}

type runState struct {
	inDegree  map[domain.InternedString]int
	required  map[domain.InternedString]bool
	ready     []domain.InternedString
	active    int
	resultsCh chan result
	errs      error
	ctx       context.Context
	s         *Scheduler
}

func (s *Scheduler) newRunState(ctx context.Context, taskPaths []domain.InternedString) (*runState, error) {
	required, err := s.graph.Required(taskPaths)
	if err != nil {
		return nil, err
	}

	inDegree := make(map[domain.InternedString]int, len(required))
	var ready []domain.InternedString
	for path := range required {
		task, _ := s.graph.Task(path)
		degree := 0
		for _, dep := range task.Dependencies {
			if required[dep] {
				degree++
			}
		}
		inDegree[path] = degree
		if degree == 0 {
			ready = append(ready, path)
		}
	}

	return &runState{
		inDegree:  inDegree,
		required:  required,
		ready:     ready,
		resultsCh: make(chan result, s.parallelism),
		ctx:       ctx,
		s:         s,
	}, nil
}

func (state *runState) isDone() bool {
	return state.active == 0 && len(state.ready) == 0
}

func (state *runState) schedule() {
	for len(state.ready) > 0 && state.active < state.s.parallelism && state.ctx.Err() == nil {
		taskPath := state.ready[0]
		state.ready = state.ready[1:]

		state.active++
		state.s.updateStatus(taskPath, StatusRunning)

		task, _ := state.s.graph.Task(taskPath)
		go func(t domain.Task) {
			state.resultsCh <- result{task: t.Path, err: state.s.executeTask(state.ctx, &t)}
		}(task)
	}
}

func (s *Scheduler) executeTask(ctx context.Context, task *domain.Task) error {
	if task.Delegate != nil {
		// Delegating task: block until the foreign tasks reach a terminal
		// state. Holds no execution capacity while waiting.
		return s.coordinator.AwaitCompletion(ctx, s.buildID, task.Delegate.Build, task.Delegate.TaskPaths)
	}

	if s.capacity != nil {
		if err := s.capacity.Acquire(ctx, 1); err != nil {
			return err
		}
		defer s.capacity.Release(1)
	}

	ctx, vtx := s.telemetry.Record(ctx, s.buildID.String()+task.Path.String())

	upToDate, err := s.checkUpToDate(task)
	if err != nil {
		vtx.Done(err)
		return err
	}
	if upToDate {
		s.updateStatus(task.Path, StatusUpToDate)
		vtx.Done(nil)
		return nil
	}

	if err := s.executor.Execute(ctx, s.dir, task); err != nil {
		vtx.Done(err)
		return err
	}

	err = s.recordOutputs(task)
	vtx.Done(err)
	return err
}

// checkUpToDate reports whether the task's outputs are unchanged since
// the last successful run. Tasks without outputs always run.
func (s *Scheduler) checkUpToDate(task *domain.Task) (bool, error) {
	if len(task.Outputs) == 0 {
		return false, nil
	}
	outputs := make([]string, len(task.Outputs))
	for i, o := range task.Outputs {
		outputs[i] = o.String()
	}
	fingerprint, err := s.hasher.OutputFingerprint(s.dir, outputs)
	if err != nil {
		return false, err
	}
	info, err := s.store.Get(task.Path.String())
	if err != nil {
		return false, err
	}
	if info != nil && info.OutputHash == fingerprint && fingerprint != "" {
		return true, nil
	}
	return false, nil
}

func (s *Scheduler) recordOutputs(task *domain.Task) error {
	if len(task.Outputs) == 0 {
		return nil
	}
	outputs := make([]string, len(task.Outputs))
	for i, o := range task.Outputs {
		outputs[i] = o.String()
	}
	fingerprint, err := s.hasher.OutputFingerprint(s.dir, outputs)
	if err != nil {
		return err
	}
	return s.store.Put(domain.BuildInfo{
		TaskPath:   task.Path.String(),
		OutputHash: fingerprint,
		Timestamp:  time.Now(),
	})
}

func (state *runState) handleResult(res result) {
	state.active--
	if res.err != nil {
		wrapped := zerr.With(zerr.Wrap(res.err, "task execution failed"), "task", res.task.String())
		state.errs = errors.Join(state.errs, wrapped)
		state.s.recordFailure(res.task, wrapped)
		return
	}

	if state.s.Status(res.task) != StatusUpToDate {
		state.s.updateStatus(res.task, StatusCompleted)
	}
	for _, dep := range state.s.graph.Dependents(res.task) {
		if !state.required[dep] {
			continue
		}
		state.inDegree[dep]--
		if state.inDegree[dep] == 0 {
			state.ready = append(state.ready, dep)
		}
	}
}
