package linear

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/yursur/FEDOT/core/data"
	"github.com/yursur/FEDOT/core/operation"
	"github.com/yursur/FEDOT/pkg/errors"
)

func init() {
	operation.Register("logit", func(params operation.Params) (operation.Operation, error) {
		return NewLogistic(
			WithMaxIter(params.Int("max_iter", 200)),
			WithLearningRate(params.Float("learning_rate", 0.1)),
			WithTol(params.Float("tol", 1e-6)),
		), nil
	})
}

// Logistic is a binary logistic regression classifier trained with full-batch
// gradient descent on the log loss.
type Logistic struct {
	maxIter      int
	learningRate float64
	tol          float64
}

// LogisticOption is a functional option for Logistic.
type LogisticOption func(*Logistic)

// WithMaxIter sets the maximum number of gradient descent iterations.
func WithMaxIter(maxIter int) LogisticOption {
	return func(l *Logistic) { l.maxIter = maxIter }
}

// WithLearningRate sets the gradient descent step size.
func WithLearningRate(lr float64) LogisticOption {
	return func(l *Logistic) { l.learningRate = lr }
}

// WithTol sets the stopping tolerance on the weight update norm.
func WithTol(tol float64) LogisticOption {
	return func(l *Logistic) { l.tol = tol }
}

// NewLogistic creates a logistic regression operation.
func NewLogistic(opts ...LogisticOption) *Logistic {
	l := &Logistic{
		maxIter:      200,
		learningRate: 0.1,
		tol:          1e-6,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Name returns the operation tag.
func (l *Logistic) Name() string { return "logit" }

type logisticState struct {
	// weights holds the intercept in position 0 followed by one
	// coefficient per feature.
	weights []float64
}

// Fit trains on binary labels taken from the first target column. Values are
// thresholded at 0.5, so both {0,1} labels and probabilities are accepted.
func (l *Logistic) Fit(d *data.InputData) (operation.FittedState, error) {
	rows, cols := d.Features.Dims()
	if rows == 0 || cols == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "Logistic.Fit")
	}

	y := make([]float64, rows)
	for i := 0; i < rows; i++ {
		if d.Target.At(i, 0) >= 0.5 {
			y[i] = 1
		}
	}

	weights := make([]float64, cols+1)
	grad := make([]float64, cols+1)

	for iter := 0; iter < l.maxIter; iter++ {
		for j := range grad {
			grad[j] = 0
		}

		for i := 0; i < rows; i++ {
			p := sigmoid(rawScore(d.Features, i, weights))
			diff := p - y[i]
			grad[0] += diff
			for j := 0; j < cols; j++ {
				grad[j+1] += diff * d.Features.At(i, j)
			}
		}

		var updateNorm float64
		for j := range weights {
			step := l.learningRate * grad[j] / float64(rows)
			weights[j] -= step
			updateNorm += step * step
		}
		if math.Sqrt(updateNorm) < l.tol {
			break
		}
	}

	return &logisticState{weights: weights}, nil
}

// Predict returns the positive-class probability as a single column.
func (l *Logistic) Predict(d *data.InputData, st operation.FittedState) (*data.InputData, error) {
	state, ok := st.(*logisticState)
	if !ok {
		return nil, errors.NewNotFittedError("Logistic.Predict", "logit")
	}

	rows, cols := d.Features.Dims()
	if cols+1 != len(state.weights) {
		return nil, errors.NewDimensionError("Logistic.Predict", len(state.weights)-1, cols, 1)
	}

	out := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		out.Set(i, 0, sigmoid(rawScore(d.Features, i, state.weights)))
	}
	return d.WithFeatures(out), nil
}

// PredictProba returns one probability column per class, negative first.
func (l *Logistic) PredictProba(d *data.InputData, st operation.FittedState) (*data.InputData, error) {
	positive, err := l.Predict(d, st)
	if err != nil {
		return nil, err
	}

	rows, _ := positive.Features.Dims()
	out := mat.NewDense(rows, 2, nil)
	for i := 0; i < rows; i++ {
		p := positive.Features.At(i, 0)
		out.Set(i, 0, 1-p)
		out.Set(i, 1, p)
	}
	return d.WithFeatures(out), nil
}

func rawScore(X *mat.Dense, row int, weights []float64) float64 {
	score := weights[0]
	for j := 0; j < len(weights)-1; j++ {
		score += weights[j+1] * X.At(row, j)
	}
	return score
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
