package domain

import (
	"iter"

	"go.trai.ch/zerr"
)

// Graph represents one build's task dependency graph.
type Graph struct {
	tasks          map[InternedString]Task
	dependents     map[InternedString][]InternedString
	executionOrder []InternedString
}

// NewGraph creates a new empty Graph.
func NewGraph() *Graph {
	return &Graph{
		tasks:      make(map[InternedString]Task),
		dependents: make(map[InternedString][]InternedString),
	}
}

// AddTask adds a task to the graph.
// It returns an error if a task with the same path already exists.
func (g *Graph) AddTask(t *Task) error {
	if _, exists := g.tasks[t.Path]; exists {
		return zerr.With(ErrTaskAlreadyExists, "task_path", t.Path.String())
	}
	g.tasks[t.Path] = *t
	for _, dep := range t.Dependencies {
		g.dependents[dep] = append(g.dependents[dep], t.Path)
	}
	return nil
}

// AddDependencyEdge makes task depend on dep. Both must already exist.
// Adding an existing edge is a no-op.
func (g *Graph) AddDependencyEdge(task, dep InternedString) error {
	t, ok := g.tasks[task]
	if !ok {
		return zerr.With(ErrTaskNotFound, "task_path", task.String())
	}
	if _, ok := g.tasks[dep]; !ok {
		return zerr.With(ErrTaskNotFound, "task_path", dep.String())
	}
	for _, existing := range t.Dependencies {
		if existing == dep {
			return nil
		}
	}
	t.Dependencies = append(t.Dependencies, dep)
	g.tasks[task] = t
	g.dependents[dep] = append(g.dependents[dep], task)
	return nil
}

// Task looks up a task by path.
func (g *Graph) Task(path InternedString) (Task, bool) {
	t, ok := g.tasks[path]
	return t, ok
}

// TaskCount returns the number of tasks in the graph.
func (g *Graph) TaskCount() int {
	return len(g.tasks)
}

// Dependents returns the tasks that directly depend on the given task.
func (g *Graph) Dependents(path InternedString) []InternedString {
	return g.dependents[path]
}

// Validate checks for cycles using a depth-first topological sort and
// populates the execution order.
func (g *Graph) Validate() error {
	g.executionOrder = make([]InternedString, 0, len(g.tasks))
	visited := make(map[InternedString]int) // 0: unvisited, 1: visiting, 2: visited
	var path []InternedString

	var visit func(u InternedString) error
	visit = func(u InternedString) error {
		visited[u] = 1
		path = append(path, u)

		task, exists := g.tasks[u]
		if !exists {
			return zerr.With(ErrMissingDependency, "dependency", u.String())
		}

		for _, dep := range task.Dependencies {
			if visited[dep] == 1 {
				return g.buildCycleError(path, dep)
			}
			if visited[dep] == 0 {
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		visited[u] = 2
		path = path[:len(path)-1]
		g.executionOrder = append(g.executionOrder, u)
		return nil
	}

	for name := range g.tasks {
		if visited[name] == 0 {
			if err := visit(name); err != nil {
				return err
			}
		}
	}

	return nil
}

// buildCycleError constructs an error with cycle path metadata.
func (g *Graph) buildCycleError(path []InternedString, dep InternedString) error {
	cyclePath := ""
	startIdx := -1
	for i, node := range path {
		if node == dep {
			startIdx = i
			break
		}
	}
	for i := startIdx; i < len(path); i++ {
		cyclePath += path[i].String() + " -> "
	}
	cyclePath += dep.String()
	return zerr.With(ErrCycleDetected, "cycle", cyclePath)
}

// Walk returns an iterator that yields tasks in execution order.
// It assumes Validate() has been called and returned nil.
func (g *Graph) Walk() iter.Seq[Task] {
	return func(yield func(Task) bool) {
		for _, name := range g.executionOrder {
			if !yield(g.tasks[name]) {
				return
			}
		}
	}
}

// Required computes the closure of the requested task paths and their
// transitive dependencies.
func (g *Graph) Required(taskPaths []InternedString) (map[InternedString]bool, error) {
	required := make(map[InternedString]bool)
	var visit func(u InternedString) error
	visit = func(u InternedString) error {
		if required[u] {
			return nil
		}
		task, exists := g.tasks[u]
		if !exists {
			return zerr.With(ErrTaskNotFound, "task_path", u.String())
		}
		required[u] = true
		for _, dep := range task.Dependencies {
			if err := visit(dep); err != nil {
				return err
			}
		}
		return nil
	}
	for _, p := range taskPaths {
		if err := visit(p); err != nil {
			return nil, err
		}
	}
	return required, nil
}
