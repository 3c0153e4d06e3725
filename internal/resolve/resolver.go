// Package resolve implements composite substitution: deciding, for each
// external dependency coordinate, whether a participant project replaces
// it, and walking the resulting dependency graph.
package resolve

import (
	"go.trai.ch/weld/internal/core/domain"
	"go.trai.ch/weld/internal/registry"
)

// Substitution is the resolver's answer for one requested coordinate.
// The zero value means "no match": the dependency stays external.
type Substitution struct {
	Matched bool

	// Project is the providing project, when matched.
	Project domain.ProjectIdentifier

	// Version is the project's own published coordinate. A substituted
	// node reports this version, never the requested one.
	Version domain.ModuleVersion
}

// SubstitutionResolver answers, per external coordinate, whether a
// participant build's project can replace it. The matching key is
// (group, module); the requested version is informational only, because
// the intent of composite substitution is to always build from source
// when a source project is available.
type SubstitutionResolver struct {
	catalogue *registry.Registry
}

// NewSubstitutionResolver creates a resolver over a sealed catalogue.
func NewSubstitutionResolver(catalogue *registry.Registry) *SubstitutionResolver {
	return &SubstitutionResolver{catalogue: catalogue}
}

// Resolve looks up the requested coordinate in the catalogue.
//
// Ambiguity is a property of the catalogue, not of the traversal path:
// two projects publishing the same (group, module) fail the lookup with
// every candidate named, even if only one of them would be reachable.
// There is no fallback to "treat as external".
func (r *SubstitutionResolver) Resolve(requested domain.ModuleVersion) (Substitution, error) {
	candidates := r.catalogue.Providers(requested.ID)
	switch len(candidates) {
	case 0:
		return Substitution{}, nil
	case 1:
		project := candidates[0]
		desc, ok := r.catalogue.Project(project)
		if !ok {
			return Substitution{}, domain.ErrUnknownBuild
		}
		actual, _ := desc.PublishedCoordinate()
		return Substitution{Matched: true, Project: project, Version: actual}, nil
	default:
		return Substitution{}, &domain.AmbiguousSubstitutionError{
			Requested:  requested,
			Candidates: candidates,
		}
	}
}
