// Package artifacts collects the artifact sets discovered while walking
// a resolved dependency graph, indexed by their artifact-set id, together
// with the build-dependency tokens required to materialize them.
package artifacts

import "go.trai.ch/weld/internal/core/domain"

// Visitor is the streaming interface invoked by the graph traversal.
// Artifact-set ids are assigned by the traversal in first-discovery
// order and are dense. A target shared by several consumers keeps one
// id across its incoming edges, so VisitArtifacts may repeat an id;
// collectors treat the repeat as a no-op.
type Visitor interface {
	// StartArtifacts is called once with the traversal root before any
	// other callback.
	StartArtifacts(root domain.GraphNode)

	// VisitNode is called once for each newly discovered node.
	VisitNode(node domain.GraphNode)

	// VisitArtifacts is called for an edge between two graph nodes.
	VisitArtifacts(from, to domain.GraphNode, artifactSetID int, set domain.ArtifactSet)

	// VisitFileArtifacts is called for an edge to a plain file dependency.
	VisitFileArtifacts(from domain.GraphNode, artifactSetID int, set domain.ArtifactSet)

	// FinishArtifacts is called once after the traversal completes.
	FinishArtifacts()
}

// CompositeVisitor fans callbacks out to several visitors in order.
type CompositeVisitor []Visitor

func (c CompositeVisitor) StartArtifacts(root domain.GraphNode) {
	for _, v := range c {
		v.StartArtifacts(root)
	}
}

func (c CompositeVisitor) VisitNode(node domain.GraphNode) {
	for _, v := range c {
		v.VisitNode(node)
	}
}

func (c CompositeVisitor) VisitArtifacts(from, to domain.GraphNode, id int, set domain.ArtifactSet) {
	for _, v := range c {
		v.VisitArtifacts(from, to, id, set)
	}
}

func (c CompositeVisitor) VisitFileArtifacts(from domain.GraphNode, id int, set domain.ArtifactSet) {
	for _, v := range c {
		v.VisitFileArtifacts(from, id, set)
	}
}

func (c CompositeVisitor) FinishArtifacts() {
	for _, v := range c {
		v.FinishArtifacts()
	}
}
