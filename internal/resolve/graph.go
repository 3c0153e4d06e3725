package resolve

import (
	"go.trai.ch/weld/internal/artifacts"
	"go.trai.ch/weld/internal/core/domain"
	"go.trai.ch/weld/internal/registry"
	"go.trai.ch/zerr"
)

// ErrProjectNotFound is returned when a project dependency names a path
// that does not exist in the owning build.
var ErrProjectNotFound = zerr.New("project not found")

// GraphBuilder walks a root project's configuration, consulting the
// rule engine and the substitution resolver at every module edge, and
// streams the discovered nodes and artifact sets to a visitor.
//
// Substitution is transparent and recursive: a substituted project's own
// dependencies (external, project or file, after its consumer's exclude
// rules) are traversed exactly like first-class graph edges.
type GraphBuilder struct {
	catalogue *registry.Registry
	resolver  *SubstitutionResolver
	rules     *Rules
}

// NewGraphBuilder creates a builder over a sealed catalogue.
func NewGraphBuilder(catalogue *registry.Registry, resolver *SubstitutionResolver, rules *Rules) *GraphBuilder {
	return &GraphBuilder{catalogue: catalogue, resolver: resolver, rules: rules}
}

type workItem struct {
	node     domain.GraphNode
	excludes []domain.ExcludeRule
}

type edgeKey struct {
	from domain.GraphNode
	to   domain.GraphNode
}

// Build resolves the given root configuration and drives the visitor.
// Artifact-set ids are assigned in first-discovery order and are dense;
// a target reached through several consumers keeps the id assigned at
// its first discovery, so its set is collected once.
func (b *GraphBuilder) Build(root domain.ProjectIdentifier, configuration string, visitor artifacts.Visitor) error {
	desc, ok := b.catalogue.Project(root)
	if !ok {
		return zerr.With(ErrProjectNotFound, "project", root.String())
	}
	if _, ok := desc.Configuration(configuration); !ok {
		err := zerr.With(domain.ErrConfigurationNotFound, "configuration", configuration)
		return zerr.With(err, "project", root.String())
	}

	version, _ := desc.PublishedCoordinate()
	rootNode := domain.GraphNode{
		Component:     domain.Component{Kind: domain.ComponentProject, Project: root, Version: version},
		Configuration: configuration,
	}

	visitor.StartArtifacts(rootNode)
	visitor.VisitNode(rootNode)

	nextID := 0
	setIDs := map[domain.GraphNode]int{}
	visitedNodes := map[domain.GraphNode]bool{rootNode: true}
	visitedEdges := map[edgeKey]bool{}
	queue := []workItem{{node: rootNode}}

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		// External modules are leaves here: their metadata comes from the
		// repository layer, which is not part of this resolution.
		if item.node.Component.Kind != domain.ComponentProject {
			continue
		}

		pdesc, ok := b.catalogue.Project(item.node.Component.Project)
		if !ok {
			return zerr.With(ErrProjectNotFound, "project", item.node.Component.Project.String())
		}
		cfg, _ := pdesc.Configuration(item.node.Configuration)

		for _, dep := range cfg.Dependencies {
			to, set, err := b.resolveEdge(item, dep)
			if err != nil {
				return err
			}
			if set == nil {
				// Excluded module dependency.
				continue
			}
			if dep.Kind == domain.DependencyFiles {
				visitor.VisitFileArtifacts(item.node, nextID, set)
				nextID++
				continue
			}

			key := edgeKey{from: item.node, to: to}
			if visitedEdges[key] {
				continue
			}
			visitedEdges[key] = true

			id, seen := setIDs[to]
			if !seen {
				id = nextID
				nextID++
				setIDs[to] = id
			}

			if !visitedNodes[to] {
				visitedNodes[to] = true
				visitor.VisitNode(to)
				queue = append(queue, workItem{
					node:     to,
					excludes: append(item.excludes[:len(item.excludes):len(item.excludes)], dep.Excludes...),
				})
			}

			visitor.VisitArtifacts(item.node, to, id, set)
		}
	}

	visitor.FinishArtifacts()
	return nil
}

// resolveEdge turns one declared dependency into the target node and its
// artifact set. A nil set with nil error means the edge was excluded.
func (b *GraphBuilder) resolveEdge(item workItem, dep domain.Dependency) (domain.GraphNode, domain.ArtifactSet, error) {
	from := item.node

	switch dep.Kind {
	case domain.DependencyFiles:
		arts := make([]domain.Artifact, 0, len(dep.Files))
		for _, f := range dep.Files {
			arts = append(arts, domain.Artifact{Name: f, File: f})
		}
		return domain.GraphNode{}, domain.NewArtifactSet(arts, nil), nil

	case domain.DependencyProject:
		target := domain.ProjectIdentifier{
			Build: from.Component.Project.Build,
			Path:  dep.ProjectPath,
		}
		return b.projectEdge(from, target, dep, false)

	default: // domain.DependencyModule
		requested := b.rules.Apply(dep.Requested)
		for _, rule := range item.excludes {
			if rule.Excludes(requested.ID) {
				return domain.GraphNode{}, nil, nil
			}
		}

		sub, err := b.resolver.Resolve(requested)
		if err != nil {
			return domain.GraphNode{}, nil, err
		}
		if !sub.Matched {
			node := domain.GraphNode{
				Component:     domain.Component{Kind: domain.ComponentModule, Version: requested},
				Configuration: dep.To,
			}
			art := domain.Artifact{
				Name: requested.ID.Module.String() + "-" + requested.Version.String() + ".jar",
			}
			return node, domain.NewArtifactSet([]domain.Artifact{art}, nil), nil
		}
		return b.projectEdge(from, sub.Project, dep, true)
	}
}

// projectEdge builds the node and artifact set for an edge targeting a
// participant project, substituted or not.
func (b *GraphBuilder) projectEdge(from domain.GraphNode, target domain.ProjectIdentifier, dep domain.Dependency, substituted bool) (domain.GraphNode, domain.ArtifactSet, error) {
	desc, ok := b.catalogue.Project(target)
	if !ok {
		return domain.GraphNode{}, nil, zerr.With(ErrProjectNotFound, "project", target.String())
	}

	cfg, ok := desc.Configuration(dep.To)
	if !ok {
		return domain.GraphNode{}, nil, &domain.MissingConfigurationError{
			From:       from.Component.Project,
			To:         target,
			FromConfig: dep.From,
			ToConfig:   dep.To,
		}
	}

	version, _ := desc.PublishedCoordinate()
	node := domain.GraphNode{
		Component: domain.Component{
			Kind:        domain.ComponentProject,
			Project:     target,
			Version:     version,
			Substituted: substituted,
		},
		Configuration: cfg.Name,
	}

	var tokens []domain.TaskToken
	for _, a := range cfg.Artifacts {
		if a.TaskPath != "" {
			tokens = append(tokens, domain.TaskToken{Build: target.Build, TaskPath: a.TaskPath})
		}
	}
	return node, domain.NewArtifactSet(cfg.Artifacts, tokens), nil
}
