// Package pipeline implements the pipeline graph: an ordered collection of
// operation nodes forming a DAG rooted at one output node. The pipeline owns
// topological fit/predict execution, caching of per-node fitted state and
// structural mutation with dependency relinking.
package pipeline

import (
	"github.com/rs/zerolog"

	"github.com/yursur/FEDOT/core/data"
	"github.com/yursur/FEDOT/core/operation"
	"github.com/yursur/FEDOT/pkg/errors"
	"github.com/yursur/FEDOT/pkg/log"
)

// Pipeline is a DAG of operation nodes. Nodes keep insertion order, which
// makes topological execution and argmax tie-breaking deterministic.
type Pipeline struct {
	nodes  []*Node
	byID   map[NodeID]*Node
	nextID NodeID
	logger zerolog.Logger
}

// New creates an empty pipeline with an injected logger.
func New(logger zerolog.Logger) *Pipeline {
	return &Pipeline{
		byID:   make(map[NodeID]*Node),
		logger: logger,
	}
}

// AddNode appends a node wrapping op with the given ordered parents. Parents
// must already belong to this pipeline, which keeps the graph acyclic by
// construction.
func (p *Pipeline) AddNode(op operation.Operation, parents ...*Node) (*Node, error) {
	parentIDs := make([]NodeID, len(parents))
	for i, parent := range parents {
		if parent == nil || p.byID[parent.id] != parent {
			return nil, errors.NewGraphStructureError("Pipeline.AddNode",
				"parent does not belong to this pipeline")
		}
		parentIDs[i] = parent.id
	}

	node := &Node{
		id:      p.nextID,
		op:      op,
		parents: parentIDs,
	}
	p.nextID++
	p.nodes = append(p.nodes, node)
	p.byID[node.id] = node
	return node, nil
}

// Length returns the node count.
func (p *Pipeline) Length() int { return len(p.nodes) }

// Nodes returns the nodes in insertion order.
func (p *Pipeline) Nodes() []*Node {
	return append([]*Node(nil), p.nodes...)
}

// NodeByID resolves a handle, or nil when the node is gone.
func (p *Pipeline) NodeByID(id NodeID) *Node {
	return p.byID[id]
}

// Root returns the single output node: the only node no other node lists as
// a parent.
func (p *Pipeline) Root() (*Node, error) {
	referenced := make(map[NodeID]bool)
	for _, n := range p.nodes {
		for _, parent := range n.parents {
			referenced[parent] = true
		}
	}

	var root *Node
	for _, n := range p.nodes {
		if referenced[n.id] {
			continue
		}
		if root != nil {
			return nil, errors.NewGraphStructureError("Pipeline.Root", "pipeline has more than one output node")
		}
		root = n
	}
	if root == nil {
		return nil, errors.NewGraphStructureError("Pipeline.Root", "pipeline has no output node")
	}
	return root, nil
}

// children returns the nodes that list id as a parent, in insertion order.
func (p *Pipeline) children(id NodeID) []*Node {
	var out []*Node
	for _, n := range p.nodes {
		for _, parent := range n.parents {
			if parent == id {
				out = append(out, n)
				break
			}
		}
	}
	return out
}

// topoOrder returns the nodes with every parent before its children,
// preferring insertion order among ready nodes.
func (p *Pipeline) topoOrder() ([]*Node, error) {
	if len(p.nodes) == 0 {
		return nil, errors.NewGraphStructureError("Pipeline", "pipeline is empty")
	}
	if _, err := p.Root(); err != nil {
		return nil, err
	}

	placed := make(map[NodeID]bool, len(p.nodes))
	order := make([]*Node, 0, len(p.nodes))
	for len(order) < len(p.nodes) {
		progressed := false
		for _, n := range p.nodes {
			if placed[n.id] {
				continue
			}
			ready := true
			for _, parent := range n.parents {
				if !placed[parent] {
					ready = false
					break
				}
			}
			if ready {
				placed[n.id] = true
				order = append(order, n)
				progressed = true
			}
		}
		if !progressed {
			return nil, errors.NewGraphStructureError("Pipeline", "pipeline graph contains a cycle")
		}
	}
	return order, nil
}

// nodeInput assembles the inbound container for a node: the pipeline's raw
// input for a parentless node, otherwise the feature-wise combination of the
// parents' outputs in parent order.
func (p *Pipeline) nodeInput(n *Node, source *data.InputData, outputs map[NodeID]*data.InputData) (*data.InputData, error) {
	if len(n.parents) == 0 {
		return source, nil
	}
	parts := make([]*data.InputData, len(n.parents))
	for i, parent := range n.parents {
		parts[i] = outputs[parent]
	}
	return data.MergeFeatures(parts...)
}

// Fit executes the nodes in topological order against the train container,
// fitting each node on its assembled inbound data and caching the fitted
// state. With useCache nodes that already hold state reuse it; without, all
// cached state is discarded first (fit from scratch). The root node's output
// is returned.
func (p *Pipeline) Fit(train *data.InputData, useCache bool) (*data.InputData, error) {
	order, err := p.topoOrder()
	if err != nil {
		return nil, err
	}

	if !useCache {
		for _, n := range p.nodes {
			n.ClearState()
		}
	}

	p.logger.Debug().
		Int(log.SamplesKey, train.Len()).
		Int("nodes", len(order)).
		Bool("use_cache", useCache).
		Msg("pipeline fit")

	outputs := make(map[NodeID]*data.InputData, len(order))
	var last *data.InputData
	for _, n := range order {
		in, err := p.nodeInput(n, train, outputs)
		if err != nil {
			return nil, err
		}
		out, err := n.fit(in, useCache)
		if err != nil {
			return nil, err
		}
		outputs[n.id] = out
		last = out
	}
	return last, nil
}

// FitFromScratch discards all cached per-node state and refits.
func (p *Pipeline) FitFromScratch(train *data.InputData) (*data.InputData, error) {
	return p.Fit(train, false)
}

// Predict runs a topological forward pass over d using cached fitted state.
// It fails with a NotFittedError when any node on the path lacks state.
func (p *Pipeline) Predict(d *data.InputData) (*data.InputData, error) {
	order, err := p.topoOrder()
	if err != nil {
		return nil, err
	}

	outputs := make(map[NodeID]*data.InputData, len(order))
	var last *data.InputData
	for _, n := range order {
		in, err := p.nodeInput(n, d, outputs)
		if err != nil {
			return nil, err
		}
		out, err := n.predict(in)
		if err != nil {
			return nil, err
		}
		outputs[n.id] = out
		last = out
	}
	return last, nil
}

// DeleteNode removes the node from the graph. Every child that listed the
// deleted node as a parent is relinked to the deleted node's own parents,
// inserted in their order at the position the deleted node occupied in the
// child's parent list. Deleting the root is only allowed when exactly one
// node would take over as the new root; otherwise the graph is left
// unmodified. Downstream nodes lose their cached state since their inbound
// data changed.
func (p *Pipeline) DeleteNode(id NodeID) error {
	node, ok := p.byID[id]
	if !ok {
		return errors.NewGraphStructureError("Pipeline.DeleteNode", "node does not belong to this pipeline")
	}

	children := p.children(id)
	if len(children) == 0 {
		// Deleting the output node: its unique parent becomes the root.
		if len(node.parents) != 1 {
			return errors.NewGraphStructureError("Pipeline.DeleteNode",
				"deleting the output node would leave zero or ambiguous roots")
		}
	}

	p.invalidateDownstream(id)

	for _, child := range children {
		child.parents = relink(child.parents, id, node.parents)
	}

	for i, n := range p.nodes {
		if n.id == id {
			p.nodes = append(p.nodes[:i], p.nodes[i+1:]...)
			break
		}
	}
	delete(p.byID, id)

	p.logger.Debug().Str(log.NodeKey, node.Label()).Msg("node deleted")
	return nil
}

// relink replaces the single occurrence of deleted in parents with the
// replacement handles, preserving their order at the same position.
func relink(parents []NodeID, deleted NodeID, replacement []NodeID) []NodeID {
	out := make([]NodeID, 0, len(parents)+len(replacement))
	for _, parent := range parents {
		if parent == deleted {
			out = append(out, replacement...)
			continue
		}
		out = append(out, parent)
	}
	// A grandparent may already be a direct parent; keep the first
	// occurrence so the inbound combination stays unambiguous.
	seen := make(map[NodeID]bool, len(out))
	dedup := out[:0]
	for _, parent := range out {
		if seen[parent] {
			continue
		}
		seen[parent] = true
		dedup = append(dedup, parent)
	}
	return dedup
}

// invalidateDownstream clears fitted state of everything reachable from id
// through child links, excluding id itself.
func (p *Pipeline) invalidateDownstream(id NodeID) {
	visited := make(map[NodeID]bool)
	queue := []NodeID{id}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, child := range p.children(current) {
			if visited[child.id] {
				continue
			}
			visited[child.id] = true
			child.ClearState()
			queue = append(queue, child.id)
		}
	}
}

// Copy returns a deep structural copy: fresh node records, parent lists and
// state slots. Fitted-state objects are shared until the copy refits, which
// is safe because states are immutable after Fit. Mutating the copy's
// structure or refitting it never touches the original.
func (p *Pipeline) Copy() *Pipeline {
	cp := &Pipeline{
		nodes:  make([]*Node, len(p.nodes)),
		byID:   make(map[NodeID]*Node, len(p.nodes)),
		nextID: p.nextID,
		logger: p.logger,
	}
	for i, n := range p.nodes {
		clone := &Node{
			id:      n.id,
			op:      n.op,
			parents: append([]NodeID(nil), n.parents...),
			state:   n.state,
		}
		cp.nodes[i] = clone
		cp.byID[clone.id] = clone
	}
	return cp
}
