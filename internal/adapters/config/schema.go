package config

// Weldfile represents the structure of the composite.yaml session file.
type Weldfile struct {
	Version    string        `yaml:"version"`
	Settings   SettingsDTO   `yaml:"settings"`
	Resolution ResolutionDTO `yaml:"resolution"`
	Builds     []BuildDTO    `yaml:"builds"`
}

// SettingsDTO holds the session-wide flags.
type SettingsDTO struct {
	BuildProjectDependencies *bool `yaml:"buildProjectDependencies"`
	Parallel                 bool  `yaml:"parallel"`
	MaxWorkers               int   `yaml:"maxWorkers"`
}

// ResolutionDTO holds the root build's resolution-strategy rules.
type ResolutionDTO struct {
	// Force lists forced versions as "group:module:version".
	Force []string `yaml:"force"`
	// Substitute maps "group:module" to "group:module:version".
	Substitute map[string]string `yaml:"substitute"`
}

// BuildDTO represents one participant build.
type BuildDTO struct {
	Name     string             `yaml:"name"`
	Root     bool               `yaml:"root"`
	Dir      string             `yaml:"dir"`
	Projects []ProjectDTO       `yaml:"projects"`
	Tasks    map[string]TaskDTO `yaml:"tasks"`
}

// ProjectDTO represents one project of a build. An empty path denotes
// the build's root project.
type ProjectDTO struct {
	Path           string                      `yaml:"path"`
	Group          string                      `yaml:"group"`
	Version        string                      `yaml:"version"`
	Name           string                      `yaml:"name"`
	Configurations map[string]ConfigurationDTO `yaml:"configurations"`
}

// ConfigurationDTO represents one named configuration.
type ConfigurationDTO struct {
	Artifacts    []ArtifactDTO   `yaml:"artifacts"`
	Dependencies []DependencyDTO `yaml:"dependencies"`
}

// ArtifactDTO represents one published artifact.
type ArtifactDTO struct {
	Name    string `yaml:"name"`
	File    string `yaml:"file"`
	BuiltBy string `yaml:"builtBy"`
}

// DependencyDTO represents one declared dependency. Exactly one of
// Module, Project or Files must be set.
type DependencyDTO struct {
	Module   string   `yaml:"module"`
	Project  string   `yaml:"project"`
	Files    []string `yaml:"files"`
	To       string   `yaml:"to"`
	Excludes []string `yaml:"excludes"`
}

// TaskDTO represents a task definition.
type TaskDTO struct {
	Cmd       []string `yaml:"cmd"`
	Outputs   []string `yaml:"outputs"`
	DependsOn []string `yaml:"dependsOn"`
}
