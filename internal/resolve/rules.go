package resolve

import "go.trai.ch/weld/internal/core/domain"

// Rules is the resolution-strategy rule engine applied before the
// substitution resolver is consulted. The resolver only ever sees the
// coordinate the rules decided should be requested; it cannot tell a
// direct request from the product of a rule.
type Rules struct {
	substitutions map[domain.ModuleIdentifier]domain.ModuleVersion
	forced        map[domain.ModuleIdentifier]domain.ModuleVersion
}

// NewRules indexes the given resolution rules.
func NewRules(r domain.ResolutionRules) *Rules {
	rules := &Rules{
		substitutions: make(map[domain.ModuleIdentifier]domain.ModuleVersion, len(r.Substitutions)),
		forced:        make(map[domain.ModuleIdentifier]domain.ModuleVersion, len(r.Forced)),
	}
	for _, s := range r.Substitutions {
		rules.substitutions[s.From] = s.To
	}
	for _, f := range r.Forced {
		rules.forced[f.ID] = f
	}
	return rules
}

// Apply rewrites a requested coordinate: substitution rules first, then
// forced versions on the (possibly rewritten) key.
func (r *Rules) Apply(requested domain.ModuleVersion) domain.ModuleVersion {
	if to, ok := r.substitutions[requested.ID]; ok {
		requested = to
	}
	if forced, ok := r.forced[requested.ID]; ok {
		requested = forced
	}
	return requested
}
