package artifacts

import (
	"fmt"
	"sync"

	"go.trai.ch/weld/internal/core/domain"
)

// SortOrder selects how VisitedResult materializes its artifact sets.
type SortOrder int

const (
	// ConsumerFirst yields sets in discovery order (consumers before the
	// dependencies they reach).
	ConsumerFirst SortOrder = iota
	// DependencyFirst yields dependencies before their consumers, the
	// order wanted for classpath construction.
	DependencyFirst
)

// Builder collects all artifact sets and their build dependencies.
//
// When buildProjectDependencies is false every set is stripped of its
// build-dependency tokens: files are still listed but nothing is
// triggered to build them. When it is true, a set is still stripped if
// the edge target is a project-local configuration and the edge source
// belongs to a project outside the root build. That suppresses
// build-dependency edges which could close a task-graph cycle across
// builds that the single-build cycle detector cannot see. It is a
// conservative approximation: in that one case the artifact's files may
// not be freshly built, and the cross-build cycle detection in the
// coordinator remains the backstop.
type Builder struct {
	buildProjectDependencies bool
	rootBuild                domain.BuildIdentifier
	sortOrder                SortOrder

	// mu guards setsByID: the traversal that owns a resolution is single
	// threaded, but nothing stops a caller from sharing one builder
	// across parallel traversals.
	mu       sync.Mutex
	setsByID []domain.ArtifactSet
}

// NewBuilder creates a collector for one resolution.
func NewBuilder(buildProjectDependencies bool, rootBuild domain.BuildIdentifier, order SortOrder) *Builder {
	return &Builder{
		buildProjectDependencies: buildProjectDependencies,
		rootBuild:                rootBuild,
		sortOrder:                order,
	}
}

// StartArtifacts implements Visitor.
func (b *Builder) StartArtifacts(domain.GraphNode) {}

// VisitNode implements Visitor.
func (b *Builder) VisitNode(domain.GraphNode) {}

// VisitArtifacts implements Visitor.
func (b *Builder) VisitArtifacts(from, to domain.GraphNode, id int, set domain.ArtifactSet) {
	if !b.buildProjectDependencies {
		set = domain.WithoutBuildDependencies(set)
	} else if to.IsProjectLocal() && from.IsProjectLocal() && from.Component.Project.Build != b.rootBuild {
		set = domain.WithoutBuildDependencies(set)
	}
	b.collect(id, set)
}

// VisitFileArtifacts implements Visitor.
func (b *Builder) VisitFileArtifacts(_ domain.GraphNode, id int, set domain.ArtifactSet) {
	b.collect(id, set)
}

// FinishArtifacts implements Visitor.
func (b *Builder) FinishArtifacts() {}

// collect records the set under its id, using the id as the index into
// the flat list. Ids arrive dense and in first-discovery order; a
// repeated id is recorded at most once.
func (b *Builder) collect(id int, set domain.ArtifactSet) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.setsByID) < id {
		panic(fmt.Sprintf("artifacts: set id %d arrived before ids up to %d", id, len(b.setsByID)))
	}
	if len(b.setsByID) == id {
		b.setsByID = append(b.setsByID, set)
	}
}

// Complete produces the immutable result of this visitation pass.
func (b *Builder) Complete() *VisitedResult {
	b.mu.Lock()
	defer b.mu.Unlock()
	sets := make([]domain.ArtifactSet, len(b.setsByID))
	copy(sets, b.setsByID)
	return newVisitedResult(b.sortOrder, sets)
}
