// Package registry implements the session-scoped candidate catalogue:
// the index of participant builds and the projects they expose, keyed by
// the (group, module) coordinates the projects publish.
//
// The catalogue follows a two-phase protocol. During the registration
// phase builds and projects are added; ConfigureAll then runs every
// project's deferred configuration step and seals the catalogue. Lookups
// are only valid on a sealed catalogue, because a project's published
// group and version may only be final once it has been configured.
package registry

import (
	"sort"
	"sync"

	"go.trai.ch/weld/internal/core/domain"
	"go.trai.ch/zerr"
)

var (
	// ErrBuildAlreadyRegistered is returned when a build name is reused.
	ErrBuildAlreadyRegistered = zerr.New("build already registered")

	// ErrProjectAlreadyRegistered is returned when a project path is
	// registered twice for the same build.
	ErrProjectAlreadyRegistered = zerr.New("project already registered")

	// ErrSealed is returned when registering into a sealed catalogue.
	ErrSealed = zerr.New("catalogue is sealed")
)

type projectRecord struct {
	id         domain.ProjectIdentifier
	descriptor domain.ProjectDescriptor
	configure  func(*domain.ProjectDescriptor) error
}

// Registry is the candidate catalogue for one build session. It is
// created per resolution and passed by handle to every component that
// needs it; nothing here outlives the session.
type Registry struct {
	mu       sync.Mutex
	sealed   bool
	root     domain.BuildIdentifier
	builds   []domain.BuildIdentifier
	projects []*projectRecord

	// providers maps a (group, module) key to the projects whose
	// published coordinate matches. Built once at seal time; read-only
	// afterwards.
	providers map[domain.ModuleIdentifier][]domain.ProjectIdentifier
}

// New creates an empty catalogue.
func New() *Registry {
	return &Registry{}
}

// AddBuild registers a participant build. The first build registered
// with isRoot is the session's root build.
func (r *Registry) AddBuild(id domain.BuildIdentifier, isRoot bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed {
		return zerr.With(ErrSealed, "build", id.Name())
	}
	for _, b := range r.builds {
		if b == id {
			return zerr.With(ErrBuildAlreadyRegistered, "build", id.Name())
		}
	}
	r.builds = append(r.builds, id)
	if isRoot {
		r.root = id
	}
	return nil
}

// AddProject registers a project of an already-registered build.
func (r *Registry) AddProject(def domain.ProjectDefinition) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed {
		return zerr.With(ErrSealed, "project", def.ID.String())
	}
	known := false
	for _, b := range r.builds {
		if b == def.ID.Build {
			known = true
			break
		}
	}
	if !known {
		return zerr.With(domain.ErrUnknownBuild, "build", def.ID.Build.Name())
	}
	for _, p := range r.projects {
		if p.id == def.ID {
			return zerr.With(ErrProjectAlreadyRegistered, "project", def.ID.String())
		}
	}
	r.projects = append(r.projects, &projectRecord{
		id:         def.ID,
		descriptor: def.Descriptor,
		configure:  def.Configure,
	})
	return nil
}

// ConfigureAll runs every project's deferred configuration step, in
// registration order, then seals the catalogue and materializes the
// provider index. This is the barrier every resolution must pass before
// the catalogue is queried.
//
// A failing project aborts the session: the error names the project and
// preserves the original cause innermost. Not retried.
func (r *Registry) ConfigureAll() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed {
		return nil
	}

	for _, p := range r.projects {
		if p.configure == nil {
			continue
		}
		if err := p.configure(&p.descriptor); err != nil {
			return &domain.ConfigurationError{Project: p.id, Cause: err}
		}
	}

	r.providers = make(map[domain.ModuleIdentifier][]domain.ProjectIdentifier)
	for _, p := range r.projects {
		coord, ok := p.descriptor.PublishedCoordinate()
		if !ok {
			continue
		}
		r.providers[coord.ID] = append(r.providers[coord.ID], p.id)
	}
	for _, candidates := range r.providers {
		sort.Slice(candidates, func(i, j int) bool {
			if candidates[i].Build.Name() != candidates[j].Build.Name() {
				return candidates[i].Build.Name() < candidates[j].Build.Name()
			}
			return candidates[i].Path.String() < candidates[j].Path.String()
		})
	}

	r.sealed = true
	return nil
}

// Providers returns the projects publishing the given (group, module)
// key, sorted by build name then project path. Must only be called on a
// sealed catalogue.
func (r *Registry) Providers(id domain.ModuleIdentifier) []domain.ProjectIdentifier {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.assertSealed()
	return r.providers[id]
}

// Project returns the configured descriptor of the given project. Must
// only be called on a sealed catalogue.
func (r *Registry) Project(id domain.ProjectIdentifier) (*domain.ProjectDescriptor, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.assertSealed()
	for _, p := range r.projects {
		if p.id == id {
			return &p.descriptor, true
		}
	}
	return nil, false
}

// RootBuild returns the session's root build identifier.
func (r *Registry) RootBuild() domain.BuildIdentifier {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.root
}

// IsRootBuild reports whether the given build is the session's root.
func (r *Registry) IsRootBuild(id domain.BuildIdentifier) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return id == r.root
}

func (r *Registry) assertSealed() {
	if !r.sealed {
		panic("registry: catalogue queried before ConfigureAll")
	}
}
