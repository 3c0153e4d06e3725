package domain

import (
	"fmt"
	"strings"

	"go.trai.ch/zerr"
)

var (
	// ErrTaskAlreadyExists is returned when adding a task with a path that
	// already exists in a build's task graph.
	ErrTaskAlreadyExists = zerr.New("task already exists")

	// ErrMissingDependency is returned when a task references a dependency
	// that doesn't exist in the graph.
	ErrMissingDependency = zerr.New("missing dependency")

	// ErrCycleDetected is returned when a cycle is detected in a single
	// build's task dependency graph.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrTaskNotFound is returned when a requested task path is not found
	// in the graph.
	ErrTaskNotFound = zerr.New("task not found")

	// ErrUnknownBuild is returned when a build identifier does not name a
	// participant of the session.
	ErrUnknownBuild = zerr.New("unknown build")

	// ErrConfigurationNotFound is returned when the entry-point
	// configuration requested for resolution does not exist on the root
	// project.
	ErrConfigurationNotFound = zerr.New("configuration not found")

	// ErrBuildExecutionFailed marks a failed build execution so that the
	// CLI can exit non-zero without double-reporting.
	ErrBuildExecutionFailed = zerr.New("build execution failed")

	// ErrNoTasksRequested is returned when a run is started without any
	// task paths.
	ErrNoTasksRequested = zerr.New("no tasks requested")

	// ErrNoRootProject is returned when the root build does not define a
	// root project.
	ErrNoRootProject = zerr.New("root build has no root project")
)

// AmbiguousSubstitutionError is raised when more than one participant
// project publishes the requested (group, module) coordinate. It is a
// property of the catalogue, not of the traversal path, and is never
// downgraded to "treat as external".
type AmbiguousSubstitutionError struct {
	Requested ModuleVersion
	// Candidates is sorted by build name, then project path.
	Candidates []ProjectIdentifier
}

func (e *AmbiguousSubstitutionError) Error() string {
	names := make([]string, len(e.Candidates))
	for i, c := range e.Candidates {
		names[i] = c.String()
	}
	return fmt.Sprintf("Module version '%s' is not unique in composite: can be provided by [%s].",
		e.Requested, strings.Join(names, ", "))
}

// MissingConfigurationError is raised when a substituted project lacks
// the configuration requested by the consuming edge.
type MissingConfigurationError struct {
	From       ProjectIdentifier
	To         ProjectIdentifier
	FromConfig string
	ToConfig   string
}

func (e *MissingConfigurationError) Error() string {
	return fmt.Sprintf("Project %s declares a dependency from configuration '%s' to configuration '%s' which is not declared in the descriptor for project %s.",
		e.From.DisplayPath(), e.FromConfig, e.ToConfig, e.To.DisplayPath())
}

// ConfigurationError is raised when a participant project fails during
// its configuration phase. Fatal for the whole session; the original
// cause is preserved as the innermost cause.
type ConfigurationError struct {
	Project ProjectIdentifier
	Cause   error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("A problem occurred configuring %s: %v", e.Project, e.Cause)
}

func (e *ConfigurationError) Unwrap() error { return e.Cause }

// CrossBuildTaskError is raised when a required task in a provider build
// fails. The originating failure is preserved as the cause chain so it
// appears in the consumer build's failure report.
type CrossBuildTaskError struct {
	Build BuildIdentifier
	Cause error
}

func (e *CrossBuildTaskError) Error() string {
	return fmt.Sprintf("Failed to execute tasks in build %s: %v", e.Build, e.Cause)
}

func (e *CrossBuildTaskError) Unwrap() error { return e.Cause }

// CrossBuildCycleError is raised when the coordinator detects mutual
// awaiting between builds. Failing fast here avoids a deadlock the
// per-build cycle detector cannot see.
type CrossBuildCycleError struct {
	// Chain is the waits-for path that would close the cycle, starting
	// and ending at the same build.
	Chain []BuildIdentifier
}

func (e *CrossBuildCycleError) Error() string {
	names := make([]string, len(e.Chain))
	for i, b := range e.Chain {
		names[i] = b.String()
	}
	return fmt.Sprintf("Included builds form a dependency cycle: %s", strings.Join(names, " -> "))
}
