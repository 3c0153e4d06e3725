package artifacts_test

import (
	"slices"
	"testing"

	"go.trai.ch/weld/internal/artifacts"
	"go.trai.ch/weld/internal/core/domain"
)

func projectNode(build domain.BuildIdentifier, path string) domain.GraphNode {
	return domain.GraphNode{
		Component: domain.Component{
			Kind:    domain.ComponentProject,
			Project: domain.NewProjectIdentifier(build, path),
		},
		Configuration: "default",
	}
}

func moduleNode(group, module, version string) domain.GraphNode {
	return domain.GraphNode{
		Component: domain.Component{
			Kind:    domain.ComponentModule,
			Version: domain.NewModuleVersion(group, module, version),
		},
		Configuration: "default",
	}
}

func setWithToken(file string, build domain.BuildIdentifier, taskPath string) domain.ArtifactSet {
	return domain.NewArtifactSet(
		[]domain.Artifact{{Name: file, File: file, TaskPath: taskPath}},
		[]domain.TaskToken{{Build: build, TaskPath: taskPath}},
	)
}

func TestBuilder_KeepsBuildDependencies(t *testing.T) {
	rootBuild := domain.NewBuildIdentifier("buildA")
	buildB := domain.NewBuildIdentifier("buildB")

	b := artifacts.NewBuilder(true, rootBuild, artifacts.ConsumerFirst)
	root := projectNode(rootBuild, "")
	b1 := projectNode(buildB, ":b1")

	b.StartArtifacts(root)
	b.VisitNode(root)
	b.VisitNode(b1)
	b.VisitArtifacts(root, b1, 0, setWithToken("b1.jar", buildB, ":b1:jar"))
	b.FinishArtifacts()

	tokens := b.Complete().BuildDependencies()
	if len(tokens) != 1 || tokens[0].TaskPath != ":b1:jar" {
		t.Errorf("expected the b1 token to survive, got %v", tokens)
	}
}

func TestBuilder_StripsAllWhenDisabled(t *testing.T) {
	rootBuild := domain.NewBuildIdentifier("buildA")
	buildB := domain.NewBuildIdentifier("buildB")

	b := artifacts.NewBuilder(false, rootBuild, artifacts.ConsumerFirst)
	root := projectNode(rootBuild, "")
	b1 := projectNode(buildB, ":b1")

	b.VisitArtifacts(root, b1, 0, setWithToken("b1.jar", buildB, ":b1:jar"))
	result := b.Complete()

	if got := result.BuildDependencies(); len(got) != 0 {
		t.Errorf("expected no build dependencies, got %v", got)
	}
	// Files are still listed even though nothing will build them.
	if files := result.Files(); !slices.Equal(files, []string{"b1.jar"}) {
		t.Errorf("expected files to survive, got %v", files)
	}
}

func TestBuilder_StripsForeignProjectLocalEdges(t *testing.T) {
	rootBuild := domain.NewBuildIdentifier("buildA")
	buildB := domain.NewBuildIdentifier("buildB")

	b := artifacts.NewBuilder(true, rootBuild, artifacts.ConsumerFirst)

	// Edge within a non-root build between two project-local nodes: the
	// token is suppressed to avoid task-graph cycles across builds.
	from := projectNode(buildB, ":b1")
	to := projectNode(buildB, ":b2")
	b.VisitArtifacts(from, to, 0, setWithToken("b2.jar", buildB, ":b2:jar"))

	// Edge from the root build keeps its token.
	root := projectNode(rootBuild, "")
	b.VisitArtifacts(root, from, 1, setWithToken("b1.jar", buildB, ":b1:jar"))

	// Edge from a foreign project to an external module is not
	// project-local on the target side, so it keeps its token too.
	ext := moduleNode("org.external", "lib", "1.0")
	b.VisitArtifacts(from, ext, 2, setWithToken("lib.jar", buildB, ":lib:fetch"))

	tokens := b.Complete().BuildDependencies()
	paths := make([]string, len(tokens))
	for i, tok := range tokens {
		paths[i] = tok.TaskPath
	}
	slices.Sort(paths)
	if !slices.Equal(paths, []string{":b1:jar", ":lib:fetch"}) {
		t.Errorf("expected the foreign project-local token stripped, got %v", paths)
	}
}

func TestBuilder_DenseIDs(t *testing.T) {
	rootBuild := domain.NewBuildIdentifier("buildA")
	b := artifacts.NewBuilder(true, rootBuild, artifacts.ConsumerFirst)
	root := projectNode(rootBuild, "")

	set0 := setWithToken("a.jar", rootBuild, ":a:jar")
	set1 := setWithToken("b.jar", rootBuild, ":b:jar")

	b.VisitArtifacts(root, moduleNode("g", "a", "1"), 0, set0)
	b.VisitArtifacts(root, moduleNode("g", "b", "1"), 1, set1)
	// A repeated id is ignored, first write wins.
	b.VisitArtifacts(root, moduleNode("g", "c", "1"), 1, setWithToken("c.jar", rootBuild, ":c:jar"))

	result := b.Complete()
	if result.Len() != 2 {
		t.Fatalf("expected 2 sets, got %d", result.Len())
	}
	if got := result.SetByID(1).Artifacts()[0].Name; got != "b.jar" {
		t.Errorf("expected first write to win for id 1, got %s", got)
	}
}

func TestBuilder_NonDenseIDPanics(t *testing.T) {
	rootBuild := domain.NewBuildIdentifier("buildA")
	b := artifacts.NewBuilder(true, rootBuild, artifacts.ConsumerFirst)

	defer func() {
		if recover() == nil {
			t.Error("expected panic for an id arriving out of order")
		}
	}()
	b.VisitArtifacts(projectNode(rootBuild, ""), moduleNode("g", "a", "1"), 5, setWithToken("a.jar", rootBuild, ":a"))
}

func TestVisitedResult_Order(t *testing.T) {
	rootBuild := domain.NewBuildIdentifier("buildA")

	build := func(order artifacts.SortOrder) []string {
		b := artifacts.NewBuilder(true, rootBuild, order)
		root := projectNode(rootBuild, "")
		b.VisitArtifacts(root, moduleNode("g", "a", "1"), 0, setWithToken("a.jar", rootBuild, ":a"))
		b.VisitArtifacts(root, moduleNode("g", "b", "1"), 1, setWithToken("b.jar", rootBuild, ":b"))
		return b.Complete().Files()
	}

	if got := build(artifacts.ConsumerFirst); !slices.Equal(got, []string{"a.jar", "b.jar"}) {
		t.Errorf("unexpected consumer-first order: %v", got)
	}
	if got := build(artifacts.DependencyFirst); !slices.Equal(got, []string{"b.jar", "a.jar"}) {
		t.Errorf("unexpected dependency-first order: %v", got)
	}
}

func TestVisitedResult_DeduplicatesTokens(t *testing.T) {
	rootBuild := domain.NewBuildIdentifier("buildA")
	buildB := domain.NewBuildIdentifier("buildB")

	b := artifacts.NewBuilder(true, rootBuild, artifacts.ConsumerFirst)
	root := projectNode(rootBuild, "")
	b1 := projectNode(buildB, ":b1")
	b.VisitArtifacts(root, b1, 0, setWithToken("b1.jar", buildB, ":b1:jar"))
	b.VisitArtifacts(root, moduleNode("g", "x", "1"), 1, setWithToken("b1-src.jar", buildB, ":b1:jar"))

	tokens := b.Complete().BuildDependencies()
	if len(tokens) != 1 {
		t.Errorf("expected deduplicated tokens, got %v", tokens)
	}
}

func TestCompositeVisitor_FansOut(t *testing.T) {
	rootBuild := domain.NewBuildIdentifier("buildA")
	first := artifacts.NewBuilder(true, rootBuild, artifacts.ConsumerFirst)
	second := artifacts.NewBuilder(true, rootBuild, artifacts.ConsumerFirst)

	v := artifacts.CompositeVisitor{first, second}
	root := projectNode(rootBuild, "")
	v.StartArtifacts(root)
	v.VisitNode(root)
	v.VisitArtifacts(root, moduleNode("g", "a", "1"), 0, setWithToken("a.jar", rootBuild, ":a"))
	v.FinishArtifacts()

	if first.Complete().Len() != 1 || second.Complete().Len() != 1 {
		t.Error("expected both visitors to observe the pass")
	}
}
