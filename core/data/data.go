// Package data provides the typed data container shared by all pipeline
// components, together with the task-aware train/test splitter.
package data

import (
	"gonum.org/v1/gonum/mat"

	"github.com/yursur/FEDOT/pkg/errors"
)

// DataType tags the modality of a data container.
type DataType int

const (
	// Table is plain tabular data.
	Table DataType = iota
	// Ts is a single time series.
	Ts
	// MultiTs is a set of aligned time series.
	MultiTs
	// Image is image data flattened into feature rows.
	Image
	// Text is text data encoded into feature rows.
	Text
)

// String returns the canonical name of the data type.
func (d DataType) String() string {
	switch d {
	case Table:
		return "table"
	case Ts:
		return "ts"
	case MultiTs:
		return "multi_ts"
	case Image:
		return "image"
	case Text:
		return "text"
	default:
		return "unknown"
	}
}

// TaskType identifies the learning task a container is meant for.
type TaskType int

const (
	// Classification predicts discrete class labels.
	Classification TaskType = iota
	// Regression predicts continuous values.
	Regression
	// TsForecasting predicts future values of a time series.
	TsForecasting
)

// String returns the canonical name of the task type.
func (t TaskType) String() string {
	switch t {
	case Classification:
		return "classification"
	case Regression:
		return "regression"
	case TsForecasting:
		return "ts_forecasting"
	default:
		return "unknown"
	}
}

// TaskParams holds task-specific parameters.
type TaskParams struct {
	// ForecastLength is the prediction horizon for forecasting tasks.
	ForecastLength int
}

// Task describes the learning task of a container.
type Task struct {
	Type   TaskType
	Params TaskParams
}

// InputData is the container passed between splitter, nodes and metrics.
// Features and Target are aligned along the sample axis. Containers are
// immutable by convention: transformations return new containers sharing a
// task descriptor, never mutate one in place. The only documented exception
// is SqueezeTarget.
type InputData struct {
	// Idx holds the sample indices of the rows, preserved across slicing
	// so that a split can be traced back to the source rows.
	Idx []int

	// Features is the n x m feature matrix.
	Features *mat.Dense

	// Target is the n x k target matrix; k is usually 1, or the forecast
	// length for forecasting tasks.
	Target *mat.Dense

	Task     Task
	DataType DataType
}

// New creates a container over the given matrices. Features and Target must
// have the same number of rows.
func New(features, target *mat.Dense, task Task, dataType DataType) (*InputData, error) {
	fr, _ := features.Dims()
	tr, _ := target.Dims()
	if fr == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "data.New")
	}
	if fr != tr {
		return nil, errors.NewDimensionError("data.New", fr, tr, 0)
	}

	idx := make([]int, fr)
	for i := range idx {
		idx[i] = i
	}

	return &InputData{
		Idx:      idx,
		Features: features,
		Target:   target,
		Task:     task,
		DataType: dataType,
	}, nil
}

// Len returns the number of samples.
func (d *InputData) Len() int {
	return len(d.Idx)
}

// NumFeatures returns the feature dimensionality.
func (d *InputData) NumFeatures() int {
	_, c := d.Features.Dims()
	return c
}

// Slice returns the half-open sample range [start, end) as a new container.
// The matrices are views over the original storage.
func (d *InputData) Slice(start, end int) (*InputData, error) {
	if start < 0 || end > d.Len() || start >= end {
		return nil, errors.NewValueError("InputData.Slice",
			errors.Newf("invalid range [%d, %d) for %d samples", start, end, d.Len()).Error())
	}

	_, fc := d.Features.Dims()
	_, tc := d.Target.Dims()

	return &InputData{
		Idx:      d.Idx[start:end],
		Features: d.Features.Slice(start, end, 0, fc).(*mat.Dense),
		Target:   d.Target.Slice(start, end, 0, tc).(*mat.Dense),
		Task:     d.Task,
		DataType: d.DataType,
	}, nil
}

// SliceByIndex gathers the given row positions into a new container. Rows
// are copied in the order given, so a shuffled index set yields a shuffled
// container.
func (d *InputData) SliceByIndex(rows []int) (*InputData, error) {
	n := d.Len()
	_, fc := d.Features.Dims()
	_, tc := d.Target.Dims()

	idx := make([]int, len(rows))
	features := mat.NewDense(len(rows), fc, nil)
	target := mat.NewDense(len(rows), tc, nil)

	for i, r := range rows {
		if r < 0 || r >= n {
			return nil, errors.NewValueError("InputData.SliceByIndex",
				errors.Newf("row %d out of range for %d samples", r, n).Error())
		}
		idx[i] = d.Idx[r]
		features.SetRow(i, mat.Row(nil, r, d.Features))
		target.SetRow(i, mat.Row(nil, r, d.Target))
	}

	return &InputData{
		Idx:      idx,
		Features: features,
		Target:   target,
		Task:     d.Task,
		DataType: d.DataType,
	}, nil
}

// SqueezeTarget keeps only the first target column. Used by the time-series
// splitter when the held-out target carries extra trailing dimensions.
func (d *InputData) SqueezeTarget() {
	r, c := d.Target.Dims()
	if c <= 1 {
		return
	}
	d.Target = d.Target.Slice(0, r, 0, 1).(*mat.Dense)
}

// WithFeatures returns a container with the given features and everything
// else shared with d. Node outputs are produced this way: predictions become
// the features of the outbound container while the target travels along.
func (d *InputData) WithFeatures(features *mat.Dense) *InputData {
	return &InputData{
		Idx:      d.Idx,
		Features: features,
		Target:   d.Target,
		Task:     d.Task,
		DataType: d.DataType,
	}
}

// TargetColumn extracts the first target column as a vector.
func (d *InputData) TargetColumn() *mat.VecDense {
	r, _ := d.Target.Dims()
	return mat.NewVecDense(r, mat.Col(nil, 0, d.Target))
}

// FeatureColumn extracts the first feature column as a vector.
func (d *InputData) FeatureColumn() *mat.VecDense {
	r, _ := d.Features.Dims()
	return mat.NewVecDense(r, mat.Col(nil, 0, d.Features))
}

// MergeFeatures combines containers feature-wise: the result holds the
// horizontal concatenation of all feature matrices, sample-aligned, with
// index, target and task taken from the first container. This is how a node
// with several parents assembles its inbound data.
func MergeFeatures(containers ...*InputData) (*InputData, error) {
	if len(containers) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "data.MergeFeatures")
	}
	if len(containers) == 1 {
		return containers[0], nil
	}

	first := containers[0]
	rows := first.Len()
	cols := 0
	for _, c := range containers {
		if c.Len() != rows {
			return nil, errors.NewDimensionError("data.MergeFeatures", rows, c.Len(), 0)
		}
		_, fc := c.Features.Dims()
		cols += fc
	}

	merged := mat.NewDense(rows, cols, nil)
	offset := 0
	for _, c := range containers {
		_, fc := c.Features.Dims()
		for j := 0; j < fc; j++ {
			col := mat.Col(nil, j, c.Features)
			for i := 0; i < rows; i++ {
				merged.Set(i, offset+j, col[i])
			}
		}
		offset += fc
	}

	return first.WithFeatures(merged), nil
}
