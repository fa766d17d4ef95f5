package sensitivity

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/yursur/FEDOT/core/data"
	"github.com/yursur/FEDOT/core/pipeline"
	"github.com/yursur/FEDOT/metrics"
	"github.com/yursur/FEDOT/pkg/errors"
	"github.com/yursur/FEDOT/pkg/log"
)

// MetaParams limit the deletion search.
type MetaParams struct {
	// Delta is the tolerance above 1.0 a node's deletion score must
	// exceed for the node to be deleted.
	Delta float64

	// WorstNodeScore is the initial worst score; it must start above the
	// threshold so the first iteration runs.
	WorstNodeScore float64
}

// DefaultMetaParams returns the canonical limits: delta 0.01, initial worst
// score 1.1.
func DefaultMetaParams() MetaParams {
	return MetaParams{Delta: 0.01, WorstNodeScore: 1.1}
}

// DefaultDataDir is the base directory for analysis artifacts.
func DefaultDataDir() string {
	return filepath.Join(os.TempDir(), "FEDOT")
}

// MultiTimesAnalyze shrinks a pipeline by repeatedly scoring every node with
// deletion analysis and removing the worst one, until no node exceeds the
// score threshold or the pipeline is down to two nodes.
//
// The search mutates the live pipeline. A failing iteration aborts the
// search and propagates, but deletions applied by earlier iterations are
// kept.
type MultiTimesAnalyze struct {
	pipeline       *pipeline.Pipeline
	originalLength int
	train          *data.InputData
	test           *data.InputData
	valid          *data.InputData
	metric         metrics.Metric
	caseName       string
	pathToSave     string
	logger         zerolog.Logger
}

// NewMultiTimesAnalyze creates the search over a pipeline. The original
// pipeline length is captured here and used as the denominator of the final
// reduction ratio, regardless of later deletions. An empty pathToSave
// selects <data dir>/sensitivity/mta_analysis/<caseName>.
func NewMultiTimesAnalyze(p *pipeline.Pipeline, train, test, valid *data.InputData,
	caseName, pathToSave string, logger zerolog.Logger) (*MultiTimesAnalyze, error) {

	metric, err := metrics.ByTask(train.Task.Type)
	if err != nil {
		return nil, err
	}
	if pathToSave == "" {
		pathToSave = filepath.Join(DefaultDataDir(), "sensitivity", "mta_analysis", caseName)
	}

	return &MultiTimesAnalyze{
		pipeline:       p,
		originalLength: p.Length(),
		train:          train,
		test:           test,
		valid:          valid,
		metric:         metric,
		caseName:       caseName,
		pathToSave:     pathToSave,
		logger:         logger,
	}, nil
}

// Analyze runs the deletion search and returns the ratio of deleted nodes
// to the original pipeline length. With visualize on, each iteration writes
// the pipeline structure and a score bar chart into its iter_<k> directory.
func (m *MultiTimesAnalyze) Analyze(visualize bool, meta MetaParams) (float64, error) {
	totalDeleted := 0
	iteration := 1
	worst := meta.WorstNodeScore

	for worst > 1.0+meta.Delta && m.pipeline.Length() > 2 {
		m.logger.Info().
			Int(log.IterationKey, iteration).
			Int("nodes", m.pipeline.Length()).
			Msg("new iteration of MTA deletion analysis")

		iterPath := filepath.Join(m.pathToSave, fmt.Sprintf("iter_%d", iteration))
		if err := os.MkdirAll(iterPath, 0o755); err != nil {
			return 0, errors.Wrap(err, "create iteration result directory")
		}

		if visualize {
			if err := m.pipeline.Show(filepath.Join(iterPath, m.caseName+".dot")); err != nil {
				return 0, err
			}
		}

		if _, err := m.pipeline.FitFromScratch(m.train); err != nil {
			return 0, err
		}

		approach := NewNodeDeletionAnalyze(m.train, m.test, m.metric, m.logger)
		scores, err := NewNodesAnalysis(m.pipeline, []NodeAnalyzeApproach{approach}, m.logger).Analyze()
		if err != nil {
			return 0, err
		}

		if visualize {
			plotPath := filepath.Join(iterPath, m.caseName+".png")
			if err := SaveScoresPlot(plotPath, scores, NodeDeletionApproach); err != nil {
				return 0, err
			}
		}

		// First occurrence wins on ties.
		worstIdx := 0
		worst = scores[0].Scores[NodeDeletionApproach]
		for i, s := range scores {
			if s.Scores[NodeDeletionApproach] > worst {
				worst = s.Scores[NodeDeletionApproach]
				worstIdx = i
			}
		}

		if worst > 1.0+meta.Delta {
			target := scores[worstIdx]
			if err := m.pipeline.DeleteNode(target.Node); err != nil {
				return 0, err
			}
			totalDeleted++
			m.logger.Info().
				Str(log.NodeKey, target.Label).
				Float64(log.ScoreKey, worst).
				Msg("worst node deleted")
		}

		iteration++
	}

	m.logger.Info().Int("deleted", totalDeleted).Msg("finish MTA")
	return m.lengthReductionRatio(totalDeleted), nil
}

// GetMetric refits the pipeline from scratch on train data and evaluates the
// task metric on the held-out validation data.
func (m *MultiTimesAnalyze) GetMetric() (float64, error) {
	if _, err := m.pipeline.FitFromScratch(m.train); err != nil {
		return 0, err
	}
	pred, err := m.pipeline.Predict(m.valid)
	if err != nil {
		return 0, err
	}
	return m.metric.Value(m.valid, pred)
}

func (m *MultiTimesAnalyze) lengthReductionRatio(deleted int) float64 {
	return float64(deleted) / float64(m.originalLength)
}
