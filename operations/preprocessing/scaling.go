// Package preprocessing provides data-transformation operations for
// pipelines.
package preprocessing

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/yursur/FEDOT/core/data"
	"github.com/yursur/FEDOT/core/operation"
	"github.com/yursur/FEDOT/pkg/errors"
)

func init() {
	operation.Register("scaling", func(params operation.Params) (operation.Operation, error) {
		return NewScaling(
			params.Bool("with_mean", true),
			params.Bool("with_std", true),
		), nil
	})
}

// Scaling standardizes features to zero mean and unit variance, column-wise.
type Scaling struct {
	withMean bool
	withStd  bool
}

// NewScaling creates a scaling operation.
func NewScaling(withMean, withStd bool) *Scaling {
	return &Scaling{withMean: withMean, withStd: withStd}
}

// Name returns the operation tag.
func (s *Scaling) Name() string { return "scaling" }

type scalingState struct {
	mean  []float64
	scale []float64
}

// Fit computes the per-column mean and standard deviation.
func (s *Scaling) Fit(d *data.InputData) (operation.FittedState, error) {
	r, c := d.Features.Dims()
	if r == 0 || c == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "Scaling.Fit")
	}

	state := &scalingState{
		mean:  make([]float64, c),
		scale: make([]float64, c),
	}

	for j := 0; j < c; j++ {
		col := mat.Col(nil, j, d.Features)

		var mean float64
		if s.withMean {
			for _, v := range col {
				mean += v
			}
			mean /= float64(r)
		}
		state.mean[j] = mean

		scale := 1.0
		if s.withStd {
			var variance float64
			for _, v := range col {
				dev := v - mean
				variance += dev * dev
			}
			variance /= float64(r)
			scale = math.Sqrt(variance)
			if scale == 0 {
				// Constant column: leave values untouched.
				scale = 1.0
			}
		}
		state.scale[j] = scale
	}

	return state, nil
}

// Predict standardizes the features with the fitted statistics.
func (s *Scaling) Predict(d *data.InputData, st operation.FittedState) (*data.InputData, error) {
	state, ok := st.(*scalingState)
	if !ok {
		return nil, errors.NewNotFittedError("Scaling.Predict", "scaling")
	}

	r, c := d.Features.Dims()
	if c != len(state.mean) {
		return nil, errors.NewDimensionError("Scaling.Predict", len(state.mean), c, 1)
	}

	scaled := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			scaled.Set(i, j, (d.Features.At(i, j)-state.mean[j])/state.scale[j])
		}
	}

	return d.WithFeatures(scaled), nil
}
