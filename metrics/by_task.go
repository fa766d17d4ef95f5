package metrics

import (
	"gonum.org/v1/gonum/mat"

	"github.com/yursur/FEDOT/core/data"
	"github.com/yursur/FEDOT/pkg/errors"
)

// Metric scores a prediction container against the true data. GreaterIsBetter
// tells callers which direction counts as quality degradation.
type Metric interface {
	Name() string
	GreaterIsBetter() bool
	Value(trueData, predicted *data.InputData) (float64, error)
}

// ByTask resolves the canonical metric for a task type: ROC AUC for
// classification, RMSE for regression and forecasting.
func ByTask(t data.TaskType) (Metric, error) {
	switch t {
	case data.Classification:
		return rocAUCMetric{}, nil
	case data.Regression, data.TsForecasting:
		return rmseMetric{}, nil
	default:
		return nil, errors.NewValueError("metrics.ByTask", "unknown task type "+t.String())
	}
}

type rocAUCMetric struct{}

func (rocAUCMetric) Name() string          { return "roc_auc" }
func (rocAUCMetric) GreaterIsBetter() bool { return true }

func (rocAUCMetric) Value(trueData, predicted *data.InputData) (float64, error) {
	return ROCAUC(trueData.TargetColumn(), predicted.FeatureColumn())
}

type rmseMetric struct{}

func (rmseMetric) Name() string          { return "rmse" }
func (rmseMetric) GreaterIsBetter() bool { return false }

func (rmseMetric) Value(trueData, predicted *data.InputData) (float64, error) {
	yTrue := trueData.TargetColumn()

	rows, _ := predicted.Features.Dims()
	if rows == trueData.Len() {
		return RMSE(yTrue, predicted.FeatureColumn())
	}

	// Out-of-sample forecasting: the prediction container carries one
	// forecast per history window; the last window's forecast is the one
	// aligned with the held-out future.
	last := mat.Row(nil, rows-1, predicted.Features)
	if len(last) < yTrue.Len() {
		return 0, errors.NewDimensionError("rmse", yTrue.Len(), len(last), 1)
	}
	yPred := mat.NewVecDense(yTrue.Len(), last[:yTrue.Len()])
	return RMSE(yTrue, yPred)
}
