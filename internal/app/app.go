// Package app implements the application layer for weld: one Run is one
// composite build session, from configuration to task execution.
package app

import (
	"context"
	"errors"
	"path/filepath"
	"runtime"
	"sort"

	"go.trai.ch/weld/internal/adapters/cas"
	"go.trai.ch/weld/internal/artifacts"
	"go.trai.ch/weld/internal/core/domain"
	"go.trai.ch/weld/internal/core/ports"
	"go.trai.ch/weld/internal/engine/coordinator"
	"go.trai.ch/weld/internal/engine/scheduler"
	"go.trai.ch/weld/internal/registry"
	"go.trai.ch/weld/internal/resolve"
	"go.trai.ch/zerr"
	"golang.org/x/sync/semaphore"
)

// App represents the main application logic.
type App struct {
	loader      ports.ConfigLoader
	factory     *scheduler.Factory
	coordinator *coordinator.Coordinator
	logger      ports.Logger
}

// New creates a new App instance.
func New(loader ports.ConfigLoader, factory *scheduler.Factory, coord *coordinator.Coordinator, logger ports.Logger) *App {
	return &App{
		loader:      loader,
		factory:     factory,
		coordinator: coord,
		logger:      logger,
	}
}

// RunOptions are the per-invocation parameters.
type RunOptions struct {
	ConfigPath string
	TaskPaths  []string

	// NoBuildDependencies forces resolve-without-building regardless of
	// the session setting.
	NoBuildDependencies bool
}

// Run executes the requested tasks of the root build, resolving the
// composite first and triggering whatever participant tasks the
// substituted artifacts require.
func (a *App) Run(ctx context.Context, opts RunOptions) error {
	if len(opts.TaskPaths) == 0 {
		return domain.ErrNoTasksRequested
	}

	session, err := a.loader.Load(opts.ConfigPath)
	if err != nil {
		return zerr.Wrap(err, "failed to load session configuration")
	}
	if opts.NoBuildDependencies {
		session.Settings.BuildProjectDependencies = false
	}

	result, err := a.Resolve(session)
	if err != nil {
		return err
	}

	if err := a.execute(ctx, session, result, opts.TaskPaths); err != nil {
		a.logger.Error(err)
		return errors.Join(domain.ErrBuildExecutionFailed, err)
	}
	return nil
}

// Resolution is the outcome of resolving every configuration of the
// root build's root project.
type Resolution struct {
	// Results holds one visited-artifacts result per root configuration,
	// keyed by configuration name.
	Results map[string]*artifacts.VisitedResult

	// BuildDependencies is the deduplicated union of every result's
	// build-dependency tokens.
	BuildDependencies []domain.TaskToken
}

// Resolve builds the candidate catalogue, passes the configuration
// barrier and resolves the root project's configurations.
func (a *App) Resolve(session *domain.Session) (*Resolution, error) {
	rootBuild, ok := session.RootBuild()
	if !ok {
		return nil, domain.ErrNoRootProject
	}

	reg := registry.New()
	for _, b := range session.Builds {
		if err := reg.AddBuild(b.ID, b.IsRoot); err != nil {
			return nil, err
		}
		for _, p := range b.Projects {
			if err := reg.AddProject(p); err != nil {
				return nil, err
			}
		}
	}

	// The barrier: no lookup happens before every candidate project has
	// been configured.
	if err := reg.ConfigureAll(); err != nil {
		return nil, err
	}

	rootProject := domain.NewProjectIdentifier(rootBuild.ID, "")
	desc, ok := reg.Project(rootProject)
	if !ok {
		return nil, zerr.With(domain.ErrNoRootProject, "build", rootBuild.ID.Name())
	}

	resolver := resolve.NewSubstitutionResolver(reg)
	builder := resolve.NewGraphBuilder(reg, resolver, resolve.NewRules(session.Rules))

	names := make([]string, 0, len(desc.Configurations))
	for name := range desc.Configurations {
		names = append(names, name)
	}
	sort.Strings(names)

	resolution := &Resolution{Results: make(map[string]*artifacts.VisitedResult, len(names))}
	seen := make(map[domain.TaskToken]bool)
	for _, name := range names {
		collector := artifacts.NewBuilder(session.Settings.BuildProjectDependencies, rootBuild.ID, artifacts.DependencyFirst)
		recorder := &substitutionRecorder{}
		if err := builder.Build(rootProject, name, artifacts.CompositeVisitor{collector, recorder}); err != nil {
			return nil, err
		}
		result := collector.Complete()
		resolution.Results[name] = result

		for _, tok := range result.BuildDependencies() {
			if !seen[tok] {
				seen[tok] = true
				resolution.BuildDependencies = append(resolution.BuildDependencies, tok)
			}
		}

		a.logger.Info("configuration resolved",
			"configuration", name,
			"artifact_sets", result.Len(),
			"substitutions", recorder.substituted,
		)
	}

	return resolution, nil
}

// substitutionRecorder counts the substituted project nodes observed
// during one configuration's traversal.
type substitutionRecorder struct {
	substituted int
}

func (r *substitutionRecorder) StartArtifacts(domain.GraphNode) {}

func (r *substitutionRecorder) VisitNode(n domain.GraphNode) {
	if n.Component.Substituted {
		r.substituted++
	}
}

func (r *substitutionRecorder) VisitArtifacts(_, _ domain.GraphNode, _ int, _ domain.ArtifactSet) {}

func (r *substitutionRecorder) VisitFileArtifacts(_ domain.GraphNode, _ int, _ domain.ArtifactSet) {}

func (r *substitutionRecorder) FinishArtifacts() {}

// execute wires delegating tasks for the resolution's foreign build
// dependencies into the root task graph and runs the requested tasks.
func (a *App) execute(ctx context.Context, session *domain.Session, resolution *Resolution, taskPaths []string) error {
	rootBuild, _ := session.RootBuild()

	requested := make([]domain.InternedString, len(taskPaths))
	for i, p := range taskPaths {
		requested[i] = domain.NewInternedString(p)
	}

	if err := a.wireBuildDependencies(rootBuild, resolution.BuildDependencies, requested); err != nil {
		return err
	}

	workers := session.Settings.MaxWorkers
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	parallelism := workers
	if !session.Settings.Parallel {
		parallelism = 1
	}
	capacity := semaphore.NewWeighted(int64(workers))

	var rootSched *scheduler.Scheduler
	for i := range session.Builds {
		b := &session.Builds[i]
		store, err := cas.NewStore(filepath.Join(b.Dir, ".weld", "build-info.json"))
		if err != nil {
			return err
		}
		sched, err := a.factory.New(b.ID, b.Dir, b.Tasks, store, capacity, parallelism)
		if err != nil {
			return err
		}
		sched.SetCoordinator(a.coordinator)
		a.coordinator.RegisterBuild(b.ID, sched)
		if b.IsRoot {
			rootSched = sched
		}
	}

	return rootSched.Run(ctx, requested)
}

// wireBuildDependencies makes every requested task depend on the tasks
// the resolved artifacts need: directly for tokens owned by the root
// build, through one delegating task per foreign build otherwise.
func (a *App) wireBuildDependencies(rootBuild *domain.BuildDefinition, tokens []domain.TaskToken, requested []domain.InternedString) error {
	foreign := make(map[domain.BuildIdentifier][]string)
	var local []domain.InternedString
	for _, tok := range tokens {
		if tok.Build == rootBuild.ID {
			local = append(local, domain.NewInternedString(tok.TaskPath))
			continue
		}
		foreign[tok.Build] = append(foreign[tok.Build], tok.TaskPath)
	}

	builds := make([]domain.BuildIdentifier, 0, len(foreign))
	for b := range foreign {
		builds = append(builds, b)
	}
	sort.Slice(builds, func(i, j int) bool { return builds[i].Name() < builds[j].Name() })

	var delegates []domain.InternedString
	for _, b := range builds {
		paths := foreign[b]
		sort.Strings(paths)

		delegatePath := domain.NewInternedString(":weld-delegate-" + b.Name())
		task := &domain.Task{
			Path:     delegatePath,
			Delegate: &domain.DelegateSpec{Build: b, TaskPaths: paths},
		}
		if err := rootBuild.Tasks.AddTask(task); err != nil {
			return err
		}
		delegates = append(delegates, delegatePath)
	}

	for _, req := range requested {
		for _, d := range delegates {
			if err := rootBuild.Tasks.AddDependencyEdge(req, d); err != nil {
				return err
			}
		}
		for _, l := range local {
			if l == req {
				continue
			}
			if err := rootBuild.Tasks.AddDependencyEdge(req, l); err != nil {
				return err
			}
		}
	}
	return nil
}
