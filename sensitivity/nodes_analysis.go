package sensitivity

import (
	"github.com/rs/zerolog"

	"github.com/yursur/FEDOT/core/pipeline"
	"github.com/yursur/FEDOT/pkg/log"
)

// NodeScore holds one node's scores across all analysis approaches.
type NodeScore struct {
	// Node is the analyzed node's handle.
	Node pipeline.NodeID

	// Index is the node's position in the pipeline's node order at
	// analysis time.
	Index int

	// Label is the node's display label.
	Label string

	// Scores maps approach name to sensitivity score.
	Scores map[string]float64
}

// NodesAnalysis runs a set of analysis approaches over every node of a
// fitted pipeline.
type NodesAnalysis struct {
	pipeline   *pipeline.Pipeline
	approaches []NodeAnalyzeApproach
	logger     zerolog.Logger
}

// NewNodesAnalysis creates an analysis over the given approaches.
func NewNodesAnalysis(p *pipeline.Pipeline, approaches []NodeAnalyzeApproach, logger zerolog.Logger) *NodesAnalysis {
	return &NodesAnalysis{
		pipeline:   p,
		approaches: approaches,
		logger:     logger,
	}
}

// Analyze scores every node with every approach, in pipeline node order.
func (na *NodesAnalysis) Analyze() ([]NodeScore, error) {
	nodes := na.pipeline.Nodes()
	results := make([]NodeScore, len(nodes))

	for i, node := range nodes {
		results[i] = NodeScore{
			Node:   node.ID(),
			Index:  i,
			Label:  node.Label(),
			Scores: make(map[string]float64, len(na.approaches)),
		}
		for _, approach := range na.approaches {
			score, err := approach.Analyze(na.pipeline, node.ID())
			if err != nil {
				return nil, err
			}
			results[i].Scores[approach.Name()] = score
			na.logger.Debug().
				Str(log.NodeKey, node.Label()).
				Str("approach", approach.Name()).
				Float64(log.ScoreKey, score).
				Msg("node analyzed")
		}
	}
	return results, nil
}
