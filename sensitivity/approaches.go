// Package sensitivity measures each pipeline node's marginal contribution to
// the objective and drives the iterative Multi-Times-Analyze deletion search
// that shrinks pipelines based on measured quality degradation.
package sensitivity

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/yursur/FEDOT/core/data"
	"github.com/yursur/FEDOT/core/pipeline"
	"github.com/yursur/FEDOT/metrics"
	"github.com/yursur/FEDOT/pkg/errors"
	"github.com/yursur/FEDOT/pkg/log"
)

// NodeAnalyzeApproach applies a structural or parametric perturbation to one
// node of a fitted pipeline and reports a sensitivity score. A score of 1.0
// means the perturbation leaves quality unchanged; above 1.0 the
// perturbation degrades quality by that factor.
type NodeAnalyzeApproach interface {
	Name() string
	Analyze(p *pipeline.Pipeline, node pipeline.NodeID) (float64, error)
}

// NodeDeletionApproach is the canonical approach name.
const NodeDeletionApproach = "NodeDeletionAnalyze"

// NodeDeletionAnalyze scores a node by deleting it from a working copy of
// the pipeline, refitting on train data and comparing test quality against
// the intact baseline. The original pipeline is never mutated.
//
// The baseline is evaluated once per pipeline, on the first Analyze call for
// it. Analyzing a pipeline whose structure or fitted state changed since
// that call requires a fresh approach instance.
type NodeDeletionAnalyze struct {
	train  *data.InputData
	test   *data.InputData
	metric metrics.Metric
	logger zerolog.Logger

	baseline    float64
	baselineFor *pipeline.Pipeline
}

// NewNodeDeletionAnalyze creates the deletion approach. The pipeline handed
// to Analyze must already be fitted so the baseline can be evaluated.
func NewNodeDeletionAnalyze(train, test *data.InputData, metric metrics.Metric, logger zerolog.Logger) *NodeDeletionAnalyze {
	return &NodeDeletionAnalyze{
		train:  train,
		test:   test,
		metric: metric,
		logger: logger,
	}
}

// Name returns the approach name.
func (a *NodeDeletionAnalyze) Name() string { return NodeDeletionApproach }

// Analyze performs the what-if deletion on a deep copy of p. A node whose
// deletion is structurally impossible (it would leave zero or ambiguous
// roots) scores 1.0: the perturbation is not applicable. Any other failure
// propagates.
func (a *NodeDeletionAnalyze) Analyze(p *pipeline.Pipeline, node pipeline.NodeID) (float64, error) {
	if a.baselineFor != p {
		pred, err := p.Predict(a.test)
		if err != nil {
			return 0, errors.Wrap(err, "baseline prediction")
		}
		baseline, err := a.metric.Value(a.test, pred)
		if err != nil {
			return 0, err
		}
		a.baseline = baseline
		a.baselineFor = p
	}

	work := p.Copy()
	if err := work.DeleteNode(node); err != nil {
		var structural *errors.GraphStructureError
		if errors.As(err, &structural) {
			return 1.0, nil
		}
		return 0, err
	}

	if _, err := work.FitFromScratch(a.train); err != nil {
		return 0, err
	}
	pred, err := work.Predict(a.test)
	if err != nil {
		return 0, err
	}
	degraded, err := a.metric.Value(a.test, pred)
	if err != nil {
		return 0, err
	}

	score := degradationRatio(a.baseline, degraded, a.metric.GreaterIsBetter())
	a.logger.Debug().
		Str(log.MetricKey, a.metric.Name()).
		Float64("baseline", a.baseline).
		Float64("perturbed", degraded).
		Float64(log.ScoreKey, score).
		Msg("node deletion analyzed")
	return score, nil
}

// degradationRatio normalizes the perturbed metric against the baseline so
// that 1.0 always means "no change" and values above 1.0 mean quality
// degraded, regardless of the metric's direction.
func degradationRatio(baseline, perturbed float64, greaterIsBetter bool) float64 {
	num, den := perturbed, baseline
	if greaterIsBetter {
		num, den = baseline, perturbed
	}
	if den == 0 {
		if num == 0 {
			return 1.0
		}
		return math.Inf(1)
	}
	return num / den
}
