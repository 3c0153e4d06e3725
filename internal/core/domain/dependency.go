package domain

// DependencyKind discriminates the closed set of dependency variants.
type DependencyKind int

const (
	// DependencyModule is a dependency on an externally published module.
	DependencyModule DependencyKind = iota
	// DependencyProject is a dependency on another project in the same build.
	DependencyProject
	// DependencyFiles is a dependency on a plain set of files.
	DependencyFiles
)

// ExcludeRule filters transitive dependencies by (group, module). An
// empty group or module matches anything.
type ExcludeRule struct {
	Group  string
	Module string
}

// Excludes reports whether the rule matches the given module key.
func (r ExcludeRule) Excludes(id ModuleIdentifier) bool {
	if r.Group != "" && r.Group != id.Group.String() {
		return false
	}
	if r.Module != "" && r.Module != id.Module.String() {
		return false
	}
	return true
}

// Dependency is one outgoing edge of a configuration. Exactly one of the
// kind-specific fields is meaningful, selected by Kind.
type Dependency struct {
	Kind DependencyKind

	// Requested is the external coordinate, for DependencyModule.
	Requested ModuleVersion

	// ProjectPath is the target project path within the same build, for
	// DependencyProject.
	ProjectPath InternedString

	// Files lists the file paths, for DependencyFiles.
	Files []string

	// From and To name the source and target configurations of the edge.
	From string
	To   string

	// Excludes are applied to the target's transitive dependencies.
	Excludes []ExcludeRule
}
