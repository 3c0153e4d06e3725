package domain

// Settings are the session-wide flags. None of them change substitution
// semantics, only whether and how eagerly things are built.
type Settings struct {
	// BuildProjectDependencies controls whether artifact sets carry
	// build-dependency tokens. When false, resolution still lists files
	// but nothing is triggered to build them.
	BuildProjectDependencies bool

	// Parallel enables parallel task execution within each build.
	Parallel bool

	// MaxWorkers bounds the session-wide shared execution capacity.
	MaxWorkers int
}

// ModuleSubstitution is a dependency-substitution rule supplied by the
// resolution strategy: requests matching From are rewritten to To before
// the substitution resolver is consulted.
type ModuleSubstitution struct {
	From ModuleIdentifier
	To   ModuleVersion
}

// ResolutionRules carries the forced versions and substitution rules of
// the consuming build's resolution strategy.
type ResolutionRules struct {
	Forced        []ModuleVersion
	Substitutions []ModuleSubstitution
}

// ProjectDefinition is one project of a participant build, together with
// its deferred configuration hook.
type ProjectDefinition struct {
	ID ProjectIdentifier

	// Descriptor is the project's configured state. Its group/version
	// must not be trusted before Configure has run.
	Descriptor ProjectDescriptor

	// Configure is the project's deferred evaluation step. It may adjust
	// the descriptor (including group and version) or fail, in which case
	// the whole session aborts. May be nil.
	Configure func(*ProjectDescriptor) error
}

// BuildDefinition is one participant build of the session.
type BuildDefinition struct {
	ID     BuildIdentifier
	IsRoot bool

	// Dir is the build's root directory, the working directory for its
	// tasks and the location of its build-info store.
	Dir string

	Projects []ProjectDefinition

	// Tasks is the build's own task graph.
	Tasks *Graph
}

// Session is everything the configuration layer hands over for one
// composite resolution: the participant builds, the session flags and
// the root build's resolution rules.
type Session struct {
	Settings Settings
	Rules    ResolutionRules
	Builds   []BuildDefinition
}

// RootBuild returns the session's root build.
func (s *Session) RootBuild() (*BuildDefinition, bool) {
	for i := range s.Builds {
		if s.Builds[i].IsRoot {
			return &s.Builds[i], true
		}
	}
	return nil, false
}

// Build returns the participant build with the given identifier.
func (s *Session) Build(id BuildIdentifier) (*BuildDefinition, bool) {
	for i := range s.Builds {
		if s.Builds[i].ID == id {
			return &s.Builds[i], true
		}
	}
	return nil, false
}
