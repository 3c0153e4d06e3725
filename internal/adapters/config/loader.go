// Package config provides the session configuration loader for weld.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/weld/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var (
	// ErrNoRootBuild is returned when no build is marked as root.
	ErrNoRootBuild = zerr.New("no root build declared")

	// ErrMultipleRootBuilds is returned when more than one build is
	// marked as root.
	ErrMultipleRootBuilds = zerr.New("multiple root builds declared")

	// ErrInvalidDependency is returned when a dependency declares none or
	// several of module/project/files.
	ErrInvalidDependency = zerr.New("dependency must declare exactly one of module, project or files")

	// ErrInvalidCoordinate is returned for malformed coordinate strings.
	ErrInvalidCoordinate = zerr.New("invalid coordinate")
)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct{}

// NewLoader creates a new Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads the session configuration from the given path.
func (l *Loader) Load(path string) (*domain.Session, error) {
	return Load(path)
}

// Load reads a composite.yaml file and returns the session definition.
func Load(path string) (*domain.Session, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.Wrap(err, "failed to read session file")
	}

	var file Weldfile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.Wrap(err, "failed to parse session file")
	}

	session := &domain.Session{
		Settings: domain.Settings{
			// Building substituted project dependencies is the default;
			// resolve-without-building must be asked for.
			BuildProjectDependencies: file.Settings.BuildProjectDependencies == nil || *file.Settings.BuildProjectDependencies,
			Parallel:                 file.Settings.Parallel,
			MaxWorkers:               file.Settings.MaxWorkers,
		},
	}

	if session.Rules, err = convertRules(file.Resolution); err != nil {
		return nil, err
	}

	baseDir := filepath.Dir(path)
	roots := 0
	for _, b := range file.Builds {
		build, err := convertBuild(b, baseDir)
		if err != nil {
			return nil, err
		}
		if build.IsRoot {
			roots++
		}
		session.Builds = append(session.Builds, build)
	}

	if roots == 0 {
		return nil, ErrNoRootBuild
	}
	if roots > 1 {
		return nil, ErrMultipleRootBuilds
	}

	return session, nil
}

func convertRules(dto ResolutionDTO) (domain.ResolutionRules, error) {
	var rules domain.ResolutionRules
	for _, f := range dto.Force {
		mv, err := parseModuleVersion(f)
		if err != nil {
			return rules, err
		}
		rules.Forced = append(rules.Forced, mv)
	}
	for from, to := range dto.Substitute {
		id, err := parseModuleIdentifier(from)
		if err != nil {
			return rules, err
		}
		mv, err := parseModuleVersion(to)
		if err != nil {
			return rules, err
		}
		rules.Substitutions = append(rules.Substitutions, domain.ModuleSubstitution{From: id, To: mv})
	}
	return rules, nil
}

func convertBuild(dto BuildDTO, baseDir string) (domain.BuildDefinition, error) {
	id := domain.NewBuildIdentifier(dto.Name)

	dir := dto.Dir
	if dir == "" {
		dir = dto.Name
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(baseDir, dir)
	}

	build := domain.BuildDefinition{
		ID:     id,
		IsRoot: dto.Root,
		Dir:    dir,
		Tasks:  domain.NewGraph(),
	}

	for _, p := range dto.Projects {
		project, err := convertProject(id, p)
		if err != nil {
			return build, err
		}
		build.Projects = append(build.Projects, project)
	}

	for path, t := range dto.Tasks {
		task := &domain.Task{
			Path:         domain.NewInternedString(path),
			Command:      t.Cmd,
			Outputs:      internStrings(t.Outputs),
			Dependencies: internStrings(t.DependsOn),
		}
		if err := build.Tasks.AddTask(task); err != nil {
			return build, err
		}
	}

	return build, nil
}

func convertProject(build domain.BuildIdentifier, dto ProjectDTO) (domain.ProjectDefinition, error) {
	id := domain.NewProjectIdentifier(build, dto.Path)

	name := dto.Name
	if name == "" {
		// Convention: a project publishes under its own name, the build
		// name for root projects.
		if dto.Path == "" {
			name = build.Name()
		} else {
			segments := strings.Split(dto.Path, ":")
			name = segments[len(segments)-1]
		}
	}

	descriptor := domain.ProjectDescriptor{
		Group:          dto.Group,
		Version:        dto.Version,
		Name:           name,
		Configurations: make(map[string]domain.Configuration, len(dto.Configurations)),
	}

	for cfgName, cfg := range dto.Configurations {
		converted, err := convertConfiguration(id, cfgName, cfg)
		if err != nil {
			return domain.ProjectDefinition{}, err
		}
		descriptor.Configurations[cfgName] = converted
	}

	return domain.ProjectDefinition{ID: id, Descriptor: descriptor}, nil
}

func convertConfiguration(project domain.ProjectIdentifier, name string, dto ConfigurationDTO) (domain.Configuration, error) {
	cfg := domain.Configuration{Name: name}

	for _, a := range dto.Artifacts {
		cfg.Artifacts = append(cfg.Artifacts, domain.Artifact{
			Name:     a.Name,
			File:     a.File,
			TaskPath: a.BuiltBy,
		})
	}

	for _, d := range dto.Dependencies {
		dep, err := convertDependency(project, name, d)
		if err != nil {
			return cfg, err
		}
		cfg.Dependencies = append(cfg.Dependencies, dep)
	}

	return cfg, nil
}

func convertDependency(project domain.ProjectIdentifier, fromConfig string, dto DependencyDTO) (domain.Dependency, error) {
	declared := 0
	if dto.Module != "" {
		declared++
	}
	if dto.Project != "" {
		declared++
	}
	if len(dto.Files) > 0 {
		declared++
	}
	if declared != 1 {
		return domain.Dependency{}, zerr.With(ErrInvalidDependency, "project", project.String())
	}

	to := dto.To
	if to == "" {
		to = "default"
	}

	dep := domain.Dependency{
		From: fromConfig,
		To:   to,
	}

	for _, e := range dto.Excludes {
		group, module, _ := strings.Cut(e, ":")
		dep.Excludes = append(dep.Excludes, domain.ExcludeRule{Group: group, Module: module})
	}

	switch {
	case dto.Module != "":
		mv, err := parseModuleVersion(dto.Module)
		if err != nil {
			return dep, err
		}
		dep.Kind = domain.DependencyModule
		dep.Requested = mv
	case dto.Project != "":
		dep.Kind = domain.DependencyProject
		dep.ProjectPath = domain.NewInternedString(dto.Project)
	default:
		dep.Kind = domain.DependencyFiles
		dep.Files = dto.Files
	}

	return dep, nil
}

func parseModuleVersion(s string) (domain.ModuleVersion, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return domain.ModuleVersion{}, zerr.With(ErrInvalidCoordinate, "coordinate", s)
	}
	return domain.NewModuleVersion(parts[0], parts[1], parts[2]), nil
}

func parseModuleIdentifier(s string) (domain.ModuleIdentifier, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return domain.ModuleIdentifier{}, zerr.With(ErrInvalidCoordinate, "coordinate", s)
	}
	return domain.NewModuleIdentifier(parts[0], parts[1]), nil
}

func internStrings(strs []string) []domain.InternedString {
	res := make([]domain.InternedString, len(strs))
	for i, s := range strs {
		res[i] = domain.NewInternedString(s)
	}
	return res
}
