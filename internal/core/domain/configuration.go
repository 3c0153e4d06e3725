package domain

// Configuration is one named variant of a project's outputs: the
// artifacts it publishes under that name and the dependencies required
// to build them.
type Configuration struct {
	Name         string
	Artifacts    []Artifact
	Dependencies []Dependency
}

// ProjectDescriptor is the configured state of one participant project,
// as exposed by the build-script layer once the project has been fully
// evaluated. Consumed read-only by the candidate catalogue.
type ProjectDescriptor struct {
	// Group and Version form the project's published coordinate together
	// with the project name. They may only be final after the project's
	// configuration phase has run.
	Group   string
	Version string

	// Name is the module name the project publishes as.
	Name string

	// Configurations maps configuration name to metadata.
	Configurations map[string]Configuration
}

// PublishedCoordinate returns the (group, module, version) triple the
// project is known externally as, or false if the project publishes
// nothing (empty group).
func (d *ProjectDescriptor) PublishedCoordinate() (ModuleVersion, bool) {
	if d.Group == "" || d.Name == "" {
		return ModuleVersion{}, false
	}
	return NewModuleVersion(d.Group, d.Name, d.Version), true
}

// Configuration looks up a configuration by name.
func (d *ProjectDescriptor) Configuration(name string) (Configuration, bool) {
	c, ok := d.Configurations[name]
	return c, ok
}
