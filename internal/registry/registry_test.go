package registry_test

import (
	"errors"
	"testing"

	"go.trai.ch/weld/internal/core/domain"
	"go.trai.ch/weld/internal/registry"
)

func project(build domain.BuildIdentifier, path, group, name, version string) domain.ProjectDefinition {
	return domain.ProjectDefinition{
		ID: domain.NewProjectIdentifier(build, path),
		Descriptor: domain.ProjectDescriptor{
			Group:   group,
			Name:    name,
			Version: version,
		},
	}
}

func TestRegistry_TwoPhase(t *testing.T) {
	r := registry.New()
	buildA := domain.NewBuildIdentifier("buildA")
	buildB := domain.NewBuildIdentifier("buildB")

	if err := r.AddBuild(buildA, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.AddBuild(buildB, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.AddProject(project(buildB, ":b1", "org.sample", "b1", "1.0")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := r.ConfigureAll(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	providers := r.Providers(domain.NewModuleIdentifier("org.sample", "b1"))
	if len(providers) != 1 || providers[0].Path.String() != ":b1" {
		t.Errorf("unexpected providers: %v", providers)
	}

	if r.RootBuild() != buildA {
		t.Errorf("expected buildA as root, got %v", r.RootBuild())
	}
	if !r.IsRootBuild(buildA) || r.IsRootBuild(buildB) {
		t.Error("unexpected root build classification")
	}

	// The catalogue is sealed now.
	if err := r.AddBuild(domain.NewBuildIdentifier("late"), false); !errors.Is(err, registry.ErrSealed) {
		t.Errorf("expected ErrSealed, got %v", err)
	}
	if err := r.AddProject(project(buildB, ":b2", "", "b2", "")); !errors.Is(err, registry.ErrSealed) {
		t.Errorf("expected ErrSealed, got %v", err)
	}
}

func TestRegistry_LookupBeforeBarrierPanics(t *testing.T) {
	r := registry.New()
	defer func() {
		if recover() == nil {
			t.Error("expected panic when querying an unsealed catalogue")
		}
	}()
	r.Providers(domain.NewModuleIdentifier("org.sample", "b1"))
}

func TestRegistry_DuplicateRegistration(t *testing.T) {
	r := registry.New()
	buildB := domain.NewBuildIdentifier("buildB")

	if err := r.AddBuild(buildB, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.AddBuild(buildB, false); !errors.Is(err, registry.ErrBuildAlreadyRegistered) {
		t.Errorf("expected ErrBuildAlreadyRegistered, got %v", err)
	}

	p := project(buildB, ":b1", "org.sample", "b1", "1.0")
	if err := r.AddProject(p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.AddProject(p); !errors.Is(err, registry.ErrProjectAlreadyRegistered) {
		t.Errorf("expected ErrProjectAlreadyRegistered, got %v", err)
	}

	orphan := project(domain.NewBuildIdentifier("unknown"), ":x", "", "x", "")
	if err := r.AddProject(orphan); !errors.Is(err, domain.ErrUnknownBuild) {
		t.Errorf("expected ErrUnknownBuild, got %v", err)
	}
}

func TestRegistry_ConfigureHooksRunInOrder(t *testing.T) {
	r := registry.New()
	buildB := domain.NewBuildIdentifier("buildB")
	if err := r.AddBuild(buildB, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var order []string
	for _, path := range []string{":b1", ":b2"} {
		p := project(buildB, path, "", "", "")
		captured := path
		p.Configure = func(d *domain.ProjectDescriptor) error {
			order = append(order, captured)
			// Group and version are only final after configuration.
			d.Group = "org.sample"
			d.Name = captured[1:]
			d.Version = "2.0"
			return nil
		}
		if err := r.AddProject(p); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if err := r.ConfigureAll(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(order) != 2 || order[0] != ":b1" || order[1] != ":b2" {
		t.Errorf("expected registration order, got %v", order)
	}

	// Provider index reflects the configured coordinates.
	providers := r.Providers(domain.NewModuleIdentifier("org.sample", "b2"))
	if len(providers) != 1 || providers[0].Path.String() != ":b2" {
		t.Errorf("unexpected providers: %v", providers)
	}

	desc, ok := r.Project(domain.NewProjectIdentifier(buildB, ":b1"))
	if !ok {
		t.Fatal("project :b1 not found")
	}
	if desc.Version != "2.0" {
		t.Errorf("expected configured version 2.0, got %s", desc.Version)
	}
}

func TestRegistry_ConfigureFailureAbortsSession(t *testing.T) {
	r := registry.New()
	buildB := domain.NewBuildIdentifier("buildB")
	if err := r.AddBuild(buildB, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cause := errors.New("evaluation failed")
	p := project(buildB, ":b1", "", "", "")
	p.Configure = func(*domain.ProjectDescriptor) error { return cause }
	if err := r.AddProject(p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := r.ConfigureAll()
	var cfgErr *domain.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
	if cfgErr.Project.String() != "project :buildB:b1" {
		t.Errorf("error names the wrong project: %s", cfgErr.Project)
	}
	if !errors.Is(err, cause) {
		t.Error("expected the original cause to be preserved")
	}
}

func TestRegistry_ProvidersSorted(t *testing.T) {
	r := registry.New()
	buildC := domain.NewBuildIdentifier("buildC")
	buildB := domain.NewBuildIdentifier("buildB")

	// Registered out of order on purpose.
	if err := r.AddBuild(buildC, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.AddBuild(buildB, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.AddProject(project(buildC, ":b1", "org.sample", "b1", "1.0")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.AddProject(project(buildB, ":b1", "org.sample", "b1", "1.0")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := r.ConfigureAll(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	providers := r.Providers(domain.NewModuleIdentifier("org.sample", "b1"))
	if len(providers) != 2 {
		t.Fatalf("expected 2 providers, got %d", len(providers))
	}
	if providers[0].Build != buildB || providers[1].Build != buildC {
		t.Errorf("expected providers sorted by build name, got %v", providers)
	}
}
