// Package linear provides linear model operations: ordinary least squares
// regression and binary logistic regression.
package linear

import (
	"gonum.org/v1/gonum/mat"

	"github.com/yursur/FEDOT/core/data"
	"github.com/yursur/FEDOT/core/operation"
	"github.com/yursur/FEDOT/pkg/errors"
)

func init() {
	operation.Register("linear", func(params operation.Params) (operation.Operation, error) {
		return NewRegression(), nil
	})
}

// Regression is ordinary least squares fitted through the normal equations
// w = (X^T X)^-1 X^T y with an intercept column.
type Regression struct{}

// NewRegression creates a linear regression operation.
func NewRegression() *Regression {
	return &Regression{}
}

// Name returns the operation tag.
func (r *Regression) Name() string { return "linear" }

type regressionState struct {
	// weights holds the intercept in position 0 followed by one
	// coefficient per feature.
	weights *mat.VecDense
}

// Fit solves the normal equations against the first target column.
func (r *Regression) Fit(d *data.InputData) (operation.FittedState, error) {
	rows, cols := d.Features.Dims()
	if rows == 0 || cols == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "Regression.Fit")
	}

	X := withInterceptColumn(d.Features)
	y := d.TargetColumn()

	var xt mat.Dense
	xt.CloneFrom(X.T())

	var xtx mat.Dense
	xtx.Mul(&xt, X)

	var xty mat.VecDense
	xty.MulVec(&xt, y)

	weights := mat.NewVecDense(cols+1, nil)
	if err := weights.SolveVec(&xtx, &xty); err != nil {
		return nil, errors.Wrap(errors.ErrSingularMatrix, "Regression.Fit")
	}

	return &regressionState{weights: weights}, nil
}

// Predict computes X*w + intercept as a single prediction column.
func (r *Regression) Predict(d *data.InputData, st operation.FittedState) (*data.InputData, error) {
	state, ok := st.(*regressionState)
	if !ok {
		return nil, errors.NewNotFittedError("Regression.Predict", "linear")
	}

	rows, cols := d.Features.Dims()
	if cols+1 != state.weights.Len() {
		return nil, errors.NewDimensionError("Regression.Predict", state.weights.Len()-1, cols, 1)
	}

	var pred mat.VecDense
	pred.MulVec(withInterceptColumn(d.Features), state.weights)

	out := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		out.Set(i, 0, pred.AtVec(i))
	}
	return d.WithFeatures(out), nil
}

// withInterceptColumn prepends a column of ones.
func withInterceptColumn(X *mat.Dense) *mat.Dense {
	r, c := X.Dims()
	out := mat.NewDense(r, c+1, nil)
	for i := 0; i < r; i++ {
		out.Set(i, 0, 1.0)
		for j := 0; j < c; j++ {
			out.Set(i, j+1, X.At(i, j))
		}
	}
	return out
}
