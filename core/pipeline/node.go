package pipeline

import (
	"fmt"

	"github.com/yursur/FEDOT/core/data"
	"github.com/yursur/FEDOT/core/operation"
	"github.com/yursur/FEDOT/pkg/errors"
)

// NodeID is the stable handle of a node within its pipeline. Relinking on
// deletion rewrites parent lists by handle, never by positional or
// structural identity.
type NodeID int

// Node is one addressable unit in a pipeline: a single operation, its
// ordered upstream dependencies and the owned fitted-state slot.
type Node struct {
	id      NodeID
	op      operation.Operation
	parents []NodeID
	state   operation.FittedState
}

// ID returns the node's stable handle.
func (n *Node) ID() NodeID { return n.id }

// Operation returns the wrapped operation.
func (n *Node) Operation() operation.Operation { return n.op }

// Parents returns a copy of the ordered parent handles.
func (n *Node) Parents() []NodeID {
	return append([]NodeID(nil), n.parents...)
}

// IsFitted reports whether the node holds fitted state.
func (n *Node) IsFitted() bool { return n.state != nil }

// ClearState drops the cached fitted state.
func (n *Node) ClearState() { n.state = nil }

// Label returns a human-readable identifier used in rendered graphs.
func (n *Node) Label() string {
	return fmt.Sprintf("n%d_%s", n.id, n.op.Name())
}

// fit fits the node against the inbound container unless cached state may be
// reused, then predicts through it to produce the outbound container for the
// node's children.
func (n *Node) fit(in *data.InputData, useCache bool) (*data.InputData, error) {
	if n.state == nil || !useCache {
		state, err := n.op.Fit(in)
		if err != nil {
			return nil, errors.Wrapf(err, "fit node %s", n.Label())
		}
		n.state = state
	}
	out, err := n.op.Predict(in, n.state)
	if err != nil {
		return nil, errors.Wrapf(err, "predict node %s", n.Label())
	}
	return out, nil
}

// predict runs the node on the inbound container using cached fitted state.
func (n *Node) predict(in *data.InputData) (*data.InputData, error) {
	if n.state == nil {
		return nil, errors.NewNotFittedError("Node.Predict", n.Label())
	}
	out, err := n.op.Predict(in, n.state)
	if err != nil {
		return nil, errors.Wrapf(err, "predict node %s", n.Label())
	}
	return out, nil
}
