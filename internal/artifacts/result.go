package artifacts

import "go.trai.ch/weld/internal/core/domain"

// VisitedResult is the final artifact-set list of one visitation pass,
// indexed by artifact-set id. Read-only.
type VisitedResult struct {
	order    SortOrder
	setsByID []domain.ArtifactSet
}

func newVisitedResult(order SortOrder, sets []domain.ArtifactSet) *VisitedResult {
	return &VisitedResult{order: order, setsByID: sets}
}

// Len returns the number of collected artifact sets.
func (r *VisitedResult) Len() int {
	return len(r.setsByID)
}

// SetByID returns the artifact set with the given id.
func (r *VisitedResult) SetByID(id int) domain.ArtifactSet {
	return r.setsByID[id]
}

// Sets returns all artifact sets in the declared sort order.
func (r *VisitedResult) Sets() []domain.ArtifactSet {
	out := make([]domain.ArtifactSet, len(r.setsByID))
	copy(out, r.setsByID)
	if r.order == DependencyFirst {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}

// Files returns every artifact file in the declared sort order.
func (r *VisitedResult) Files() []string {
	var files []string
	for _, set := range r.Sets() {
		for _, a := range set.Artifacts() {
			if a.File != "" {
				files = append(files, a.File)
			}
		}
	}
	return files
}

// BuildDependencies returns the union of all build-dependency tokens,
// deduplicated, in the declared sort order.
func (r *VisitedResult) BuildDependencies() []domain.TaskToken {
	seen := make(map[domain.TaskToken]bool)
	var tokens []domain.TaskToken
	for _, set := range r.Sets() {
		for _, tok := range set.BuildDependencies() {
			if !seen[tok] {
				seen[tok] = true
				tokens = append(tokens, tok)
			}
		}
	}
	return tokens
}
