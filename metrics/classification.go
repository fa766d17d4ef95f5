package metrics

import (
	"sort"

	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/yursur/FEDOT/pkg/errors"
)

// Accuracy computes the share of correct predictions. Predicted scores are
// thresholded at 0.5 so both hard labels and positive-class probabilities
// are accepted.
func Accuracy(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("Accuracy", "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError("Accuracy", n, yPred.Len(), 0)
	}

	correct := 0
	for i := 0; i < n; i++ {
		if hardLabel(yPred.AtVec(i)) == hardLabel(yTrue.AtVec(i)) {
			correct++
		}
	}
	return float64(correct) / float64(n), nil
}

// F1 computes the binary F1 score for the positive class. Ill-defined cases
// (no positive predictions or no positive labels) score zero.
func F1(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("F1", "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError("F1", n, yPred.Len(), 0)
	}

	var tp, fp, fn float64
	for i := 0; i < n; i++ {
		pred := hardLabel(yPred.AtVec(i))
		truth := hardLabel(yTrue.AtVec(i))
		switch {
		case pred == 1 && truth == 1:
			tp++
		case pred == 1 && truth == 0:
			fp++
		case pred == 0 && truth == 1:
			fn++
		}
	}
	if tp == 0 {
		return 0, nil
	}
	precision := tp / (tp + fp)
	recall := tp / (tp + fn)
	return 2 * precision * recall / (precision + recall), nil
}

// ROCAUC computes the area under the ROC curve for binary labels against
// positive-class scores.
func ROCAUC(yTrue, scores *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("ROCAUC", "empty vector")
	}
	if scores.Len() != n {
		return 0, errors.NewDimensionError("ROCAUC", n, scores.Len(), 0)
	}

	type sample struct {
		score    float64
		positive bool
	}
	samples := make([]sample, n)
	positives := 0
	for i := 0; i < n; i++ {
		samples[i] = sample{score: scores.AtVec(i), positive: hardLabel(yTrue.AtVec(i)) == 1}
		if samples[i].positive {
			positives++
		}
	}
	if positives == 0 || positives == n {
		return 0, errors.NewValueError("ROCAUC", "only one class present, ROC AUC is undefined")
	}

	// stat.ROC requires scores in ascending order.
	sort.Slice(samples, func(i, j int) bool { return samples[i].score < samples[j].score })
	y := make([]float64, n)
	classes := make([]bool, n)
	for i, s := range samples {
		y[i] = s.score
		classes[i] = s.positive
	}

	tpr, fpr, _ := stat.ROC(nil, y, classes, nil)
	return integrate.Trapezoidal(fpr, tpr), nil
}

func hardLabel(v float64) int {
	if v >= 0.5 {
		return 1
	}
	return 0
}
