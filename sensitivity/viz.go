package sensitivity

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/yursur/FEDOT/pkg/errors"
)

// SaveScoresPlot renders per-node sensitivity scores for one approach as a
// bar chart image. The artifact is informational only; analysis correctness
// never depends on it.
func SaveScoresPlot(path string, scores []NodeScore, approach string) error {
	if len(scores) == 0 {
		return errors.Wrap(errors.ErrEmptyData, "SaveScoresPlot")
	}

	values := make(plotter.Values, len(scores))
	labels := make([]string, len(scores))
	for i, s := range scores {
		values[i] = s.Scores[approach]
		labels[i] = s.Label
	}

	p := plot.New()
	p.Title.Text = "Node sensitivity (" + approach + ")"
	p.Y.Label.Text = "deletion score"

	bars, err := plotter.NewBarChart(values, vg.Points(25))
	if err != nil {
		return errors.Wrap(err, "build bar chart")
	}
	p.Add(bars)
	p.NominalX(labels...)

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return errors.Wrap(err, "save sensitivity plot")
	}
	return nil
}
