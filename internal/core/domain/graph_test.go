package domain_test

import (
	"errors"
	"testing"

	"go.trai.ch/weld/internal/core/domain"
	"go.trai.ch/zerr"
)

func TestGraph_AddTask(t *testing.T) {
	g := domain.NewGraph()
	task := domain.Task{Path: domain.NewInternedString(":compileJava")}

	if err := g.AddTask(&task); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := g.AddTask(&task); err == nil {
		t.Error("expected error when adding duplicate task, got nil")
	} else {
		zErr, ok := err.(*zerr.Error)
		if !ok {
			t.Errorf("expected *zerr.Error, got %T", err)
		}
		meta := zErr.Metadata()
		if path, ok := meta["task_path"].(string); !ok || path != ":compileJava" {
			t.Errorf("expected metadata task_path=:compileJava, got %v", meta["task_path"])
		}
	}
}

func TestGraph_Validate_Cycle(t *testing.T) {
	g := domain.NewGraph()
	taskA := domain.Task{
		Path:         domain.NewInternedString("A"),
		Dependencies: []domain.InternedString{domain.NewInternedString("B")},
	}
	taskB := domain.Task{
		Path:         domain.NewInternedString("B"),
		Dependencies: []domain.InternedString{domain.NewInternedString("A")},
	}

	if err := g.AddTask(&taskA); err != nil {
		t.Fatalf("failed to add task A: %v", err)
	}
	if err := g.AddTask(&taskB); err != nil {
		t.Fatalf("failed to add task B: %v", err)
	}

	err := g.Validate()
	if err == nil {
		t.Fatal("expected error for cycle, got nil")
	}
	if !errors.Is(err, domain.ErrCycleDetected) {
		t.Errorf("expected ErrCycleDetected, got %v", err)
	}
}

func TestGraph_Validate_MissingDependency(t *testing.T) {
	g := domain.NewGraph()
	task := domain.Task{
		Path:         domain.NewInternedString("A"),
		Dependencies: []domain.InternedString{domain.NewInternedString("missing")},
	}
	if err := g.AddTask(&task); err != nil {
		t.Fatalf("failed to add task: %v", err)
	}

	if err := g.Validate(); !errors.Is(err, domain.ErrMissingDependency) {
		t.Errorf("expected ErrMissingDependency, got %v", err)
	}
}

func TestGraph_Walk_Order(t *testing.T) {
	g := domain.NewGraph()
	// A -> B -> C
	_ = g.AddTask(&domain.Task{
		Path:         domain.NewInternedString("A"),
		Dependencies: []domain.InternedString{domain.NewInternedString("B")},
	})
	_ = g.AddTask(&domain.Task{
		Path:         domain.NewInternedString("B"),
		Dependencies: []domain.InternedString{domain.NewInternedString("C")},
	})
	_ = g.AddTask(&domain.Task{Path: domain.NewInternedString("C")})

	if err := g.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	seen := make(map[string]int)
	i := 0
	for task := range g.Walk() {
		seen[task.Path.String()] = i
		i++
	}
	if len(seen) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(seen))
	}
	if !(seen["C"] < seen["B"] && seen["B"] < seen["A"]) {
		t.Errorf("expected dependency order C < B < A, got %v", seen)
	}
}

func TestGraph_AddDependencyEdge(t *testing.T) {
	g := domain.NewGraph()
	a := domain.NewInternedString("A")
	b := domain.NewInternedString("B")
	_ = g.AddTask(&domain.Task{Path: a})
	_ = g.AddTask(&domain.Task{Path: b})

	if err := g.AddDependencyEdge(a, b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Adding the same edge twice is a no-op.
	if err := g.AddDependencyEdge(a, b); err != nil {
		t.Fatalf("unexpected error on duplicate edge: %v", err)
	}

	task, ok := g.Task(a)
	if !ok {
		t.Fatal("task A not found")
	}
	if len(task.Dependencies) != 1 || task.Dependencies[0] != b {
		t.Errorf("expected A to depend on B once, got %v", task.Dependencies)
	}

	dependents := g.Dependents(b)
	if len(dependents) != 1 || dependents[0] != a {
		t.Errorf("expected B's dependents to be [A], got %v", dependents)
	}

	missing := domain.NewInternedString("missing")
	if err := g.AddDependencyEdge(a, missing); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound for missing dep, got %v", err)
	}
	if err := g.AddDependencyEdge(missing, a); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound for missing task, got %v", err)
	}
}

func TestGraph_Required(t *testing.T) {
	g := domain.NewGraph()
	// A -> B -> C, D standalone
	_ = g.AddTask(&domain.Task{
		Path:         domain.NewInternedString("A"),
		Dependencies: []domain.InternedString{domain.NewInternedString("B")},
	})
	_ = g.AddTask(&domain.Task{
		Path:         domain.NewInternedString("B"),
		Dependencies: []domain.InternedString{domain.NewInternedString("C")},
	})
	_ = g.AddTask(&domain.Task{Path: domain.NewInternedString("C")})
	_ = g.AddTask(&domain.Task{Path: domain.NewInternedString("D")})

	required, err := g.Required([]domain.InternedString{domain.NewInternedString("A")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(required) != 3 {
		t.Errorf("expected closure of 3 tasks, got %d", len(required))
	}
	if required[domain.NewInternedString("D")] {
		t.Error("D must not be in the closure of A")
	}

	if _, err := g.Required([]domain.InternedString{domain.NewInternedString("nope")}); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound, got %v", err)
	}
}
