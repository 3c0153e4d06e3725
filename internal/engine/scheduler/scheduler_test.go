package scheduler_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"go.trai.ch/weld/internal/adapters/logger"
	"go.trai.ch/weld/internal/adapters/telemetry"
	"go.trai.ch/weld/internal/core/domain"
	"go.trai.ch/weld/internal/core/ports"
	"go.trai.ch/weld/internal/core/ports/mocks"
	"go.trai.ch/weld/internal/engine/scheduler"
	"go.uber.org/mock/gomock"
)

func testLogger() ports.Logger {
	l := logger.New()
	l.(*logger.Logger).SetOutput(io.Discard)
	return l
}

func newScheduler(t *testing.T, graph *domain.Graph, executor ports.Executor, hasher ports.Hasher, store ports.BuildInfoStore, parallelism int) *scheduler.Scheduler {
	t.Helper()
	s, err := scheduler.New(
		domain.NewBuildIdentifier("buildA"),
		t.TempDir(),
		graph,
		executor,
		hasher,
		store,
		telemetry.NewNoop(),
		testLogger(),
		nil,
		parallelism,
	)
	if err != nil {
		t.Fatalf("failed to create scheduler: %v", err)
	}
	return s
}

func path(s string) domain.InternedString { return domain.NewInternedString(s) }

func TestScheduler_Run_Diamond(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// A depends on B and C, both depend on D.
		g := domain.NewGraph()
		_ = g.AddTask(&domain.Task{Path: path("A"), Dependencies: []domain.InternedString{path("B"), path("C")}})
		_ = g.AddTask(&domain.Task{Path: path("B"), Dependencies: []domain.InternedString{path("D")}})
		_ = g.AddTask(&domain.Task{Path: path("C"), Dependencies: []domain.InternedString{path("D")}})
		_ = g.AddTask(&domain.Task{Path: path("D")})

		var mu sync.Mutex
		var order []string
		mockExec := mocks.NewMockExecutor(ctrl)
		mockExec.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, _ string, task *domain.Task) error {
				mu.Lock()
				order = append(order, task.Path.String())
				mu.Unlock()
				return nil
			}).Times(4)

		s := newScheduler(t, g, mockExec, mocks.NewMockHasher(ctrl), mocks.NewMockBuildInfoStore(ctrl), 2)

		if err := s.Run(context.Background(), []domain.InternedString{path("A")}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		pos := make(map[string]int, len(order))
		for i, p := range order {
			pos[p] = i
		}
		if !(pos["D"] < pos["B"] && pos["D"] < pos["C"] && pos["B"] < pos["A"] && pos["C"] < pos["A"]) {
			t.Errorf("dependency order violated: %v", order)
		}
		if s.Status(path("A")) != scheduler.StatusCompleted {
			t.Errorf("expected A completed, got %s", s.Status(path("A")))
		}
	})
}

func TestScheduler_Run_FailureSkipsDependents(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		g := domain.NewGraph()
		_ = g.AddTask(&domain.Task{Path: path("A"), Dependencies: []domain.InternedString{path("B")}})
		_ = g.AddTask(&domain.Task{Path: path("B")})

		failure := errors.New("compiler exploded")
		mockExec := mocks.NewMockExecutor(ctrl)
		mockExec.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, _ string, task *domain.Task) error {
				if task.Path.String() == "A" {
					t.Error("dependent of a failed task must not run")
				}
				return failure
			})

		s := newScheduler(t, g, mockExec, mocks.NewMockHasher(ctrl), mocks.NewMockBuildInfoStore(ctrl), 1)

		err := s.Run(context.Background(), []domain.InternedString{path("A")})
		if !errors.Is(err, failure) {
			t.Errorf("expected the task failure, got %v", err)
		}
		if s.Status(path("B")) != scheduler.StatusFailed {
			t.Errorf("expected B failed, got %s", s.Status(path("B")))
		}
		if s.Status(path("A")) != scheduler.StatusPending {
			t.Errorf("expected A still pending, got %s", s.Status(path("A")))
		}
	})
}

func TestScheduler_RunTasks_ReportsPerTaskOutcome(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// A and B are independent; only B fails.
		g := domain.NewGraph()
		_ = g.AddTask(&domain.Task{Path: path("A")})
		_ = g.AddTask(&domain.Task{Path: path("B")})

		failure := errors.New("compiler exploded")
		mockExec := mocks.NewMockExecutor(ctrl)
		mockExec.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, _ string, task *domain.Task) error {
				if task.Path.String() == "B" {
					return failure
				}
				return nil
			}).Times(2)

		s := newScheduler(t, g, mockExec, mocks.NewMockHasher(ctrl), mocks.NewMockBuildInfoStore(ctrl), 2)

		failed, err := s.RunTasks(context.Background(), []string{"A", "B"})
		if !errors.Is(err, failure) {
			t.Fatalf("expected the task failure, got %v", err)
		}
		if _, ok := failed["A"]; ok {
			t.Errorf("A completed but was reported failed: %v", failed["A"])
		}
		if !errors.Is(failed["B"], failure) {
			t.Errorf("expected B's own failure, got %v", failed["B"])
		}
	})
}

func TestScheduler_Run_UpToDate(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		g := domain.NewGraph()
		_ = g.AddTask(&domain.Task{
			Path:    path("A"),
			Outputs: []domain.InternedString{path("out/a.jar")},
		})

		mockHasher := mocks.NewMockHasher(ctrl)
		mockHasher.EXPECT().OutputFingerprint(gomock.Any(), []string{"out/a.jar"}).Return("fp1", nil)

		mockStore := mocks.NewMockBuildInfoStore(ctrl)
		mockStore.EXPECT().Get("A").Return(&domain.BuildInfo{
			TaskPath:   "A",
			OutputHash: "fp1",
			Timestamp:  time.Now(),
		}, nil)

		// Executor must never be called for an up-to-date task.
		mockExec := mocks.NewMockExecutor(ctrl)

		s := newScheduler(t, g, mockExec, mockHasher, mockStore, 1)

		if err := s.Run(context.Background(), []domain.InternedString{path("A")}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s.Status(path("A")) != scheduler.StatusUpToDate {
			t.Errorf("expected A up to date, got %s", s.Status(path("A")))
		}
	})
}

func TestScheduler_Run_RecordsOutputs(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		g := domain.NewGraph()
		_ = g.AddTask(&domain.Task{
			Path:    path("A"),
			Outputs: []domain.InternedString{path("out/a.jar")},
		})

		mockHasher := mocks.NewMockHasher(ctrl)
		// Stale fingerprint before execution, fresh one after.
		gomock.InOrder(
			mockHasher.EXPECT().OutputFingerprint(gomock.Any(), []string{"out/a.jar"}).Return("stale", nil),
			mockHasher.EXPECT().OutputFingerprint(gomock.Any(), []string{"out/a.jar"}).Return("fresh", nil),
		)

		mockStore := mocks.NewMockBuildInfoStore(ctrl)
		mockStore.EXPECT().Get("A").Return(nil, nil)
		mockStore.EXPECT().Put(gomock.Any()).DoAndReturn(func(info domain.BuildInfo) error {
			if info.TaskPath != "A" || info.OutputHash != "fresh" {
				t.Errorf("unexpected build info: %+v", info)
			}
			return nil
		})

		mockExec := mocks.NewMockExecutor(ctrl)
		mockExec.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		s := newScheduler(t, g, mockExec, mockHasher, mockStore, 1)

		if err := s.Run(context.Background(), []domain.InternedString{path("A")}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestScheduler_Run_DelegateTask(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		buildB := domain.NewBuildIdentifier("buildB")

		g := domain.NewGraph()
		_ = g.AddTask(&domain.Task{
			Path: path(":weld-delegate-buildB"),
			Delegate: &domain.DelegateSpec{
				Build:     buildB,
				TaskPaths: []string{":b1:jar"},
			},
		})

		mockCoord := mocks.NewMockTaskCoordinator(ctrl)
		mockCoord.EXPECT().
			AwaitCompletion(gomock.Any(), domain.NewBuildIdentifier("buildA"), buildB, []string{":b1:jar"}).
			Return(nil)

		// The executor must never see a delegating task.
		mockExec := mocks.NewMockExecutor(ctrl)

		s := newScheduler(t, g, mockExec, mocks.NewMockHasher(ctrl), mocks.NewMockBuildInfoStore(ctrl), 1)
		s.SetCoordinator(mockCoord)

		if err := s.Run(context.Background(), []domain.InternedString{path(":weld-delegate-buildB")}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestScheduler_Run_UnknownTask(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	g := domain.NewGraph()
	_ = g.AddTask(&domain.Task{Path: path("A")})

	s := newScheduler(t, g, mocks.NewMockExecutor(ctrl), mocks.NewMockHasher(ctrl), mocks.NewMockBuildInfoStore(ctrl), 1)

	err := s.Run(context.Background(), []domain.InternedString{path("missing")})
	if !errors.Is(err, domain.ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound, got %v", err)
	}
}
