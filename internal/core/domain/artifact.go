package domain

// Artifact is one published output file of a configuration.
type Artifact struct {
	// Name is the artifact's display name, e.g. "b1.jar".
	Name string

	// File is the path of the artifact file, relative to the owning
	// build's root directory.
	File string

	// TaskPath names the task within the owning build that produces the
	// file. Empty for external artifacts, which are never built here.
	TaskPath string
}

// TaskToken is an opaque build-dependency token: a task that must run
// before an artifact's files are available.
type TaskToken struct {
	Build    BuildIdentifier
	TaskPath string
}

// ArtifactSet is an ordered sequence of artifacts plus the set of
// build-dependency tokens required to materialize them. Immutable once
// constructed.
type ArtifactSet interface {
	Artifacts() []Artifact
	BuildDependencies() []TaskToken
}

type artifactSet struct {
	artifacts []Artifact
	buildDeps []TaskToken
}

// NewArtifactSet creates an immutable ArtifactSet.
func NewArtifactSet(arts []Artifact, buildDeps []TaskToken) ArtifactSet {
	return &artifactSet{artifacts: arts, buildDeps: buildDeps}
}

func (s *artifactSet) Artifacts() []Artifact          { return s.artifacts }
func (s *artifactSet) BuildDependencies() []TaskToken { return s.buildDeps }

// noBuildDependenciesArtifactSet wraps a set to report no build
// dependencies while still listing its files.
type noBuildDependenciesArtifactSet struct {
	ArtifactSet
}

// WithoutBuildDependencies wraps a set so that its files are still
// listed but nothing is triggered to build them.
func WithoutBuildDependencies(s ArtifactSet) ArtifactSet {
	if _, ok := s.(noBuildDependenciesArtifactSet); ok {
		return s
	}
	return noBuildDependenciesArtifactSet{s}
}

func (noBuildDependenciesArtifactSet) BuildDependencies() []TaskToken { return nil }
