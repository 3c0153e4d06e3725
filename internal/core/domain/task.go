package domain

// Task is a unit of work in one build's task graph, addressed by its
// task path (e.g. ":jar", ":b1:compile").
type Task struct {
	Path         InternedString
	Command      []string
	Outputs      []InternedString
	Dependencies []InternedString

	// Delegate, when non-nil, marks a delegating task: instead of running
	// a command it awaits completion of tasks in another build.
	Delegate *DelegateSpec
}

// DelegateSpec names the foreign tasks a delegating task awaits.
type DelegateSpec struct {
	Build     BuildIdentifier
	TaskPaths []string
}
