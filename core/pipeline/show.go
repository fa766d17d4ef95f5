package pipeline

import (
	"os"

	"github.com/dominikbraun/graph"
	"github.com/dominikbraun/graph/draw"

	"github.com/yursur/FEDOT/pkg/errors"
)

// asGraph mirrors the pipeline structure into a directed graph keyed by node
// labels. Cycle prevention is enforced on edge insertion, so a corrupted
// structure surfaces here as an error.
func (p *Pipeline) asGraph() (graph.Graph[string, string], error) {
	g := graph.New(graph.StringHash, graph.Directed(), graph.PreventCycles())

	for _, n := range p.nodes {
		if err := g.AddVertex(n.Label()); err != nil {
			return nil, errors.Wrap(err, "add vertex")
		}
	}
	for _, n := range p.nodes {
		for _, parentID := range n.parents {
			parent, ok := p.byID[parentID]
			if !ok {
				return nil, errors.NewGraphStructureError("Pipeline.asGraph",
					"parent handle points to a deleted node")
			}
			if err := g.AddEdge(parent.Label(), n.Label()); err != nil {
				return nil, errors.Wrap(err, "add edge")
			}
		}
	}
	return g, nil
}

// Validate checks structural integrity: single root, no cycles, no dangling
// parent handles.
func (p *Pipeline) Validate() error {
	if _, err := p.Root(); err != nil {
		return err
	}
	if _, err := p.asGraph(); err != nil {
		return err
	}
	return nil
}

// Show renders the graph structure to the given path in GraphViz DOT format.
// Rendering DOT into a raster image is left to external tooling.
func (p *Pipeline) Show(path string) error {
	g, err := p.asGraph()
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create graph file")
	}
	defer file.Close()

	if err := draw.DOT(g, file); err != nil {
		return errors.Wrap(err, "render graph")
	}
	return nil
}
