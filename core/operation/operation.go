// Package operation defines the capability contract every pipeline node
// consumes: fit against inbound data producing an opaque fitted state, and
// predict through that state. Concrete operations register themselves with
// the package registry under their canonical names.
package operation

import (
	"github.com/yursur/FEDOT/core/data"
)

// FittedState is the opaque result of fitting an operation. The pipeline
// node owns exactly one such slot and invalidates it explicitly on
// structural mutation; the state object itself is never mutated after Fit.
type FittedState interface{}

// Operation is a single data-transformation or model-fitting unit.
type Operation interface {
	// Name returns the canonical operation tag, e.g. "scaling" or "logit".
	Name() string

	// Fit learns from the inbound container and returns the fitted state.
	Fit(d *data.InputData) (FittedState, error)

	// Predict runs the operation with a previously fitted state. The
	// returned container carries the predictions as its features.
	Predict(d *data.InputData, state FittedState) (*data.InputData, error)
}

// Classifier is an operation that can additionally report per-class
// probability estimates.
type Classifier interface {
	Operation

	// PredictProba returns one probability column per class.
	PredictProba(d *data.InputData, state FittedState) (*data.InputData, error)
}
