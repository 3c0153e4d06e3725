package domain

// ComponentKind discriminates resolved graph components.
type ComponentKind int

const (
	// ComponentProject is a component backed by a participant project.
	ComponentProject ComponentKind = iota
	// ComponentModule is an externally published module.
	ComponentModule
)

// Component identifies the owner of a resolved graph node: either a
// participant project or an external module.
type Component struct {
	Kind ComponentKind

	// Project locates the owning project, for ComponentProject.
	Project ProjectIdentifier

	// Version is the coordinate the component resolves as. For a
	// substituted project this is the project's own published coordinate,
	// not the requested one.
	Version ModuleVersion

	// Substituted is true when a module request was replaced by a
	// participant project (a composite substitution).
	Substituted bool
}

// GraphNode is a resolved graph vertex: a component plus the selected
// configuration. Comparable; used as a map key during traversal.
type GraphNode struct {
	Component     Component
	Configuration string
}

// IsProjectLocal reports whether the node's configuration belongs to a
// participant project (as opposed to an external module).
func (n GraphNode) IsProjectLocal() bool {
	return n.Component.Kind == ComponentProject
}

// String returns a short display form for logs and errors.
func (n GraphNode) String() string {
	if n.Component.Kind == ComponentProject {
		return n.Component.Project.String() + " (" + n.Configuration + ")"
	}
	return n.Component.Version.String() + " (" + n.Configuration + ")"
}
