package domain

// ModuleIdentifier is the version-agnostic (group, module) key used to
// match external dependencies against participant projects.
type ModuleIdentifier struct {
	Group  InternedString
	Module InternedString
}

// NewModuleIdentifier creates a ModuleIdentifier.
func NewModuleIdentifier(group, module string) ModuleIdentifier {
	return ModuleIdentifier{
		Group:  NewInternedString(group),
		Module: NewInternedString(module),
	}
}

// String returns "group:module".
func (m ModuleIdentifier) String() string {
	return m.Group.String() + ":" + m.Module.String()
}

// ModuleVersion is the (group, module, version) triple a component is
// known externally as.
type ModuleVersion struct {
	ID      ModuleIdentifier
	Version InternedString
}

// NewModuleVersion creates a ModuleVersion.
func NewModuleVersion(group, module, version string) ModuleVersion {
	return ModuleVersion{
		ID:      NewModuleIdentifier(group, module),
		Version: NewInternedString(version),
	}
}

// String returns "group:module:version".
func (m ModuleVersion) String() string {
	return m.ID.String() + ":" + m.Version.String()
}
