// Package metrics implements quality metrics over gonum vectors and the
// task-to-metric resolver used by the sensitivity analysis.
package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/yursur/FEDOT/pkg/errors"
)

// MSE computes the mean squared error.
func MSE(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("MSE", "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError("MSE", n, yPred.Len(), 0)
	}

	var sum float64
	for i := 0; i < n; i++ {
		diff := yTrue.AtVec(i) - yPred.AtVec(i)
		sum += diff * diff
	}
	return sum / float64(n), nil
}

// RMSE computes the root mean squared error.
func RMSE(yTrue, yPred *mat.VecDense) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE computes the mean absolute error.
func MAE(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("MAE", "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError("MAE", n, yPred.Len(), 0)
	}

	var sum float64
	for i := 0; i < n; i++ {
		sum += math.Abs(yTrue.AtVec(i) - yPred.AtVec(i))
	}
	return sum / float64(n), nil
}

// R2 computes the coefficient of determination. A constant true vector
// yields an ill-defined score and is reported as an error.
func R2(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("R2", "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError("R2", n, yPred.Len(), 0)
	}

	var mean float64
	for i := 0; i < n; i++ {
		mean += yTrue.AtVec(i)
	}
	mean /= float64(n)

	var ssRes, ssTot float64
	for i := 0; i < n; i++ {
		diff := yTrue.AtVec(i) - yPred.AtVec(i)
		ssRes += diff * diff
		dev := yTrue.AtVec(i) - mean
		ssTot += dev * dev
	}

	if ssTot == 0 {
		return 0, errors.NewValueError("R2", "true values are constant, R2 is undefined")
	}
	return 1 - ssRes/ssTot, nil
}
