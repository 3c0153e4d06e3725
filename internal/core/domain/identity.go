// Package domain contains the core domain model for composite build
// resolution: build and project identity, module coordinates,
// configurations, artifact sets and per-build task graphs.
package domain

// BuildIdentifier uniquely names a participant build within a session.
// Identifiers are assigned when the session is set up, are immutable and
// are never reused.
type BuildIdentifier struct {
	name InternedString
}

// NewBuildIdentifier creates a BuildIdentifier from a build name.
func NewBuildIdentifier(name string) BuildIdentifier {
	return BuildIdentifier{name: NewInternedString(name)}
}

// Name returns the plain build name.
func (b BuildIdentifier) Name() string {
	return b.name.String()
}

// String returns the build name prefixed with ':'.
func (b BuildIdentifier) String() string {
	return ":" + b.name.String()
}

// ProjectIdentifier locates one project within one build. The path uses
// ':' separators relative to the build root; the root project has an
// empty path.
type ProjectIdentifier struct {
	Build BuildIdentifier
	Path  InternedString
}

// NewProjectIdentifier creates a ProjectIdentifier for the given build
// and project path.
func NewProjectIdentifier(build BuildIdentifier, path string) ProjectIdentifier {
	return ProjectIdentifier{Build: build, Path: NewInternedString(path)}
}

// IsRoot reports whether this identifies the root project of its build.
func (p ProjectIdentifier) IsRoot() bool {
	return p.Path.String() == ""
}

// String returns the display form used in error messages, with the
// project path prefixed by the owning build, e.g. "project :buildB:b1".
func (p ProjectIdentifier) String() string {
	return "project " + p.DisplayPath()
}

// DisplayPath returns the bare path form without the "project " prefix,
// e.g. ":buildB:b1".
func (p ProjectIdentifier) DisplayPath() string {
	return ":" + p.Build.Name() + p.Path.String()
}
