// Package recurrent implements the recurrent forecaster family for
// time-series tasks: Elman and Jordan networks, LSTM and GRU. The recurrent
// cells are randomly initialized reservoirs driven over each input window;
// only the linear readout is trained, by ridge regression, which keeps
// fitting deterministic for a given seed.
package recurrent

import (
	"strings"

	"github.com/yursur/FEDOT/pkg/errors"
)

// Variant selects one member of the closed recurrent-model set.
type Variant int

const (
	// Elman feeds the previous hidden state back into the cell.
	Elman Variant = iota
	// Jordan feeds a projection of the previous output back into the cell.
	Jordan
	// LSTM uses input/forget/output gates over a cell state.
	LSTM
	// GRU uses update and reset gates.
	GRU
)

// String returns the canonical variant tag.
func (v Variant) String() string {
	switch v {
	case Elman:
		return "rnn_elman"
	case Jordan:
		return "rnn_jordan"
	case LSTM:
		return "lstm"
	case GRU:
		return "gru"
	default:
		return "unknown"
	}
}

// Variants returns all canonical variant tags.
func Variants() []string {
	return []string{Elman.String(), Jordan.String(), LSTM.String(), GRU.String()}
}

// ParseVariant resolves a variant tag. Unknown tags are rejected with the
// allowed set enumerated.
func ParseVariant(tag string) (Variant, error) {
	switch tag {
	case "rnn_elman":
		return Elman, nil
	case "rnn_jordan":
		return Jordan, nil
	case "lstm":
		return LSTM, nil
	case "gru":
		return GRU, nil
	default:
		return 0, errors.NewValueError("recurrent.ParseVariant",
			"unknown type of RNN: '"+tag+"'. Allowed types: "+strings.Join(Variants(), ", "))
	}
}
