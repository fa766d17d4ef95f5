package pipeline

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/yursur/FEDOT/core/data"
	"github.com/yursur/FEDOT/core/operation"
	"github.com/yursur/FEDOT/pkg/errors"
	"github.com/yursur/FEDOT/pkg/log"
)

// stubOp is a minimal operation for graph tests. It counts Fit calls and
// applies an optional feature transform on Predict.
type stubOp struct {
	name      string
	fits      int
	transform func(*mat.Dense) *mat.Dense
}

type stubState struct{}

func (s *stubOp) Name() string { return s.name }

func (s *stubOp) Fit(d *data.InputData) (operation.FittedState, error) {
	s.fits++
	return stubState{}, nil
}

func (s *stubOp) Predict(d *data.InputData, st operation.FittedState) (*data.InputData, error) {
	if _, ok := st.(stubState); !ok {
		return nil, errors.NewNotFittedError("stubOp.Predict", s.name)
	}
	if s.transform == nil {
		return d, nil
	}
	return d.WithFeatures(s.transform(d.Features)), nil
}

func scale(factor float64) func(*mat.Dense) *mat.Dense {
	return func(m *mat.Dense) *mat.Dense {
		var out mat.Dense
		out.Scale(factor, m)
		return &out
	}
}

func testDataset(t *testing.T, values ...float64) *data.InputData {
	t.Helper()
	features := mat.NewDense(len(values), 1, values)
	target := mat.NewDense(len(values), 1, values)
	d, err := data.New(features, target, data.Task{Type: data.Regression}, data.Table)
	require.NoError(t, err)
	return d
}

func TestFitAndPredictChain(t *testing.T) {
	p := New(log.Nop())
	first, err := p.AddNode(&stubOp{name: "double", transform: scale(2)})
	require.NoError(t, err)
	_, err = p.AddNode(&stubOp{name: "double", transform: scale(2)}, first)
	require.NoError(t, err)

	d := testDataset(t, 1, 2, 3)
	out, err := p.Fit(d, true)
	require.NoError(t, err)
	assert.Equal(t, 4.0, out.Features.At(0, 0))
	assert.Equal(t, 12.0, out.Features.At(2, 0))

	pred, err := p.Predict(d)
	require.NoError(t, err)
	assert.Equal(t, 8.0, pred.Features.At(1, 0))
}

func TestFitCacheReuse(t *testing.T) {
	op := &stubOp{name: "noop"}
	p := New(log.Nop())
	_, err := p.AddNode(op)
	require.NoError(t, err)

	d := testDataset(t, 1, 2)
	_, err = p.Fit(d, true)
	require.NoError(t, err)
	_, err = p.Fit(d, true)
	require.NoError(t, err)
	assert.Equal(t, 1, op.fits, "cached state should be reused")

	_, err = p.FitFromScratch(d)
	require.NoError(t, err)
	assert.Equal(t, 2, op.fits, "fit from scratch should discard the cache")
}

func TestPredictRequiresFit(t *testing.T) {
	p := New(log.Nop())
	_, err := p.AddNode(&stubOp{name: "noop"})
	require.NoError(t, err)

	_, err = p.Predict(testDataset(t, 1))
	require.Error(t, err)
	var notFitted *errors.NotFittedError
	assert.True(t, errors.As(err, &notFitted))
}

func TestRootDetection(t *testing.T) {
	p := New(log.Nop())
	first, err := p.AddNode(&stubOp{name: "a"})
	require.NoError(t, err)
	second, err := p.AddNode(&stubOp{name: "b"}, first)
	require.NoError(t, err)

	root, err := p.Root()
	require.NoError(t, err)
	assert.Equal(t, second.ID(), root.ID())

	// A second parentless leaf makes the output ambiguous.
	_, err = p.AddNode(&stubOp{name: "c"})
	require.NoError(t, err)
	_, err = p.Root()
	require.Error(t, err)
	var structural *errors.GraphStructureError
	assert.True(t, errors.As(err, &structural))
}

func TestFitEmptyPipelineFails(t *testing.T) {
	p := New(log.Nop())
	_, err := p.Fit(testDataset(t, 1), true)
	require.Error(t, err)
}

func TestAddNodeRejectsForeignParent(t *testing.T) {
	other := New(log.Nop())
	foreign, err := other.AddNode(&stubOp{name: "foreign"})
	require.NoError(t, err)

	p := New(log.Nop())
	_, err = p.AddNode(&stubOp{name: "child"}, foreign)
	require.Error(t, err)
	_, err = p.AddNode(&stubOp{name: "child"}, nil)
	require.Error(t, err)
}

func TestMergeParentOutputsInOrder(t *testing.T) {
	p := New(log.Nop())
	left, err := p.AddNode(&stubOp{name: "left", transform: scale(10)})
	require.NoError(t, err)
	right, err := p.AddNode(&stubOp{name: "right", transform: scale(100)})
	require.NoError(t, err)
	_, err = p.AddNode(&stubOp{name: "root"}, left, right)
	require.NoError(t, err)

	out, err := p.Fit(testDataset(t, 1, 2), true)
	require.NoError(t, err)
	// The root's inbound data is the parents' outputs side by side, in
	// parent order.
	assert.Equal(t, 2, out.NumFeatures())
	assert.Equal(t, 10.0, out.Features.At(0, 0))
	assert.Equal(t, 100.0, out.Features.At(0, 1))
}

func TestDeleteMiddleNodeRelinks(t *testing.T) {
	p := New(log.Nop())
	a, err := p.AddNode(&stubOp{name: "a"})
	require.NoError(t, err)
	b, err := p.AddNode(&stubOp{name: "b"}, a)
	require.NoError(t, err)
	c, err := p.AddNode(&stubOp{name: "c"}, b)
	require.NoError(t, err)

	d := testDataset(t, 1, 2)
	_, err = p.Fit(d, true)
	require.NoError(t, err)

	require.NoError(t, p.DeleteNode(b.ID()))

	assert.Equal(t, 2, p.Length())
	assert.Equal(t, []NodeID{a.ID()}, c.Parents())
	assert.Nil(t, p.NodeByID(b.ID()))

	// The deleted node's child lost its cached state, its parent kept it.
	assert.True(t, a.IsFitted())
	assert.False(t, c.IsFitted())

	// The shrunk pipeline still fits and predicts.
	_, err = p.Fit(d, true)
	require.NoError(t, err)
	_, err = p.Predict(d)
	require.NoError(t, err)
}

func TestDeleteNodeKeepsParentPosition(t *testing.T) {
	p := New(log.Nop())
	a, err := p.AddNode(&stubOp{name: "a"})
	require.NoError(t, err)
	x, err := p.AddNode(&stubOp{name: "x"})
	require.NoError(t, err)
	b, err := p.AddNode(&stubOp{name: "b"}, a)
	require.NoError(t, err)
	r, err := p.AddNode(&stubOp{name: "r"}, x, b)
	require.NoError(t, err)

	require.NoError(t, p.DeleteNode(b.ID()))

	// b's parent a takes b's slot, after x.
	assert.Equal(t, []NodeID{x.ID(), a.ID()}, r.Parents())
}

func TestDeleteNodeDeduplicatesParents(t *testing.T) {
	p := New(log.Nop())
	a, err := p.AddNode(&stubOp{name: "a"})
	require.NoError(t, err)
	b, err := p.AddNode(&stubOp{name: "b"}, a)
	require.NoError(t, err)
	r, err := p.AddNode(&stubOp{name: "r"}, a, b)
	require.NoError(t, err)

	require.NoError(t, p.DeleteNode(b.ID()))

	// a was already a direct parent of r; relinking must not list it twice.
	assert.Equal(t, []NodeID{a.ID()}, r.Parents())
}

func TestDeleteRootNode(t *testing.T) {
	p := New(log.Nop())
	a, err := p.AddNode(&stubOp{name: "a"})
	require.NoError(t, err)
	b, err := p.AddNode(&stubOp{name: "b"}, a)
	require.NoError(t, err)

	require.NoError(t, p.DeleteNode(b.ID()))
	root, err := p.Root()
	require.NoError(t, err)
	assert.Equal(t, a.ID(), root.ID())
}

func TestDeleteRootWithTwoParentsFails(t *testing.T) {
	p := New(log.Nop())
	a, err := p.AddNode(&stubOp{name: "a"})
	require.NoError(t, err)
	x, err := p.AddNode(&stubOp{name: "x"})
	require.NoError(t, err)
	r, err := p.AddNode(&stubOp{name: "r"}, a, x)
	require.NoError(t, err)

	err = p.DeleteNode(r.ID())
	require.Error(t, err)
	var structural *errors.GraphStructureError
	assert.True(t, errors.As(err, &structural))

	// The failed deletion left the graph unmodified.
	assert.Equal(t, 3, p.Length())
	assert.NotNil(t, p.NodeByID(r.ID()))
}

func TestDeleteUnknownNode(t *testing.T) {
	p := New(log.Nop())
	_, err := p.AddNode(&stubOp{name: "a"})
	require.NoError(t, err)

	err = p.DeleteNode(NodeID(99))
	require.Error(t, err)
	var structural *errors.GraphStructureError
	assert.True(t, errors.As(err, &structural))
}

func TestCopyIsolation(t *testing.T) {
	p := New(log.Nop())
	a, err := p.AddNode(&stubOp{name: "a"})
	require.NoError(t, err)
	b, err := p.AddNode(&stubOp{name: "b"}, a)
	require.NoError(t, err)
	_, err = p.AddNode(&stubOp{name: "c"}, b)
	require.NoError(t, err)

	d := testDataset(t, 1, 2, 3)
	_, err = p.Fit(d, true)
	require.NoError(t, err)

	cp := p.Copy()
	require.NoError(t, cp.DeleteNode(b.ID()))

	// The original is untouched, structurally and state-wise.
	assert.Equal(t, 3, p.Length())
	assert.Equal(t, []NodeID{b.ID()}, p.Nodes()[2].Parents())
	for _, n := range p.Nodes() {
		assert.True(t, n.IsFitted())
	}
	_, err = p.Predict(d)
	require.NoError(t, err)

	// Refitting the copy does not clear the original's cached state.
	_, err = cp.FitFromScratch(d)
	require.NoError(t, err)
	for _, n := range p.Nodes() {
		assert.True(t, n.IsFitted())
	}
}

func TestShowWritesDOT(t *testing.T) {
	p := New(log.Nop())
	a, err := p.AddNode(&stubOp{name: "first"})
	require.NoError(t, err)
	_, err = p.AddNode(&stubOp{name: "second"}, a)
	require.NoError(t, err)

	path := t.TempDir() + "/pipeline.dot"
	require.NoError(t, p.Show(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(content)
	assert.True(t, strings.Contains(text, "n0_first"))
	assert.True(t, strings.Contains(text, "n1_second"))
}

func TestValidateRejectsAmbiguousOutput(t *testing.T) {
	p := New(log.Nop())
	_, err := p.AddNode(&stubOp{name: "a"})
	require.NoError(t, err)
	_, err = p.AddNode(&stubOp{name: "b"})
	require.NoError(t, err)

	require.Error(t, p.Validate())
}

func TestNodeLabel(t *testing.T) {
	p := New(log.Nop())
	n, err := p.AddNode(&stubOp{name: "scaling"})
	require.NoError(t, err)
	assert.Equal(t, "n0_scaling", n.Label())
}
