// Package errors provides structured error handling and the warning system
// for the whole project. Every error type carries the offending values so
// that callers can log and diagnose failures without string parsing.
package errors

import (
	"fmt"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	Warning handling
//
// ===========================================================================

var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {}
)

// SetWarningHandler sets the library-wide warning handler. Warnings report
// allowed-but-notable conditions, such as stratification being disabled for
// a dataset that cannot support it under test conditions.
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// Warn emits a warning through the configured handler.
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	if warningHandler != nil {
		warningHandler(w)
	}
}

// StratificationWarning is emitted when a stratified split was requested but
// silently disabled because the dataset cannot support it.
type StratificationWarning struct {
	Reason string
}

func (w *StratificationWarning) Error() string {
	return fmt.Sprintf("stratification disabled: %s", w.Reason)
}

// MarshalZerologObject adds the structured warning fields to a zerolog event.
func (w *StratificationWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("reason", w.Reason).
		Str("type", "StratificationWarning")
}

// ===========================================================================
//
//	Structured error types
//
// ===========================================================================

// NotFittedError is returned when Predict is called on a node or pipeline
// whose fitted state is missing. Call Fit first.
type NotFittedError struct {
	Op     string
	Entity string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("fedot: %s: %s is not fitted yet. Call Fit() before Predict()", e.Op, e.Entity)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("entity", e.Entity).
		Str("type", "NotFittedError")
}

// NewNotFittedError creates a NotFittedError with an attached stack trace.
func NewNotFittedError(op, entity string) error {
	err := &NotFittedError{Op: op, Entity: entity}
	return errors.WithStack(err)
}

// DimensionError is returned when input data dimensions do not match the
// expected shape.
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows/samples, 1 for columns/features
}

func (e *DimensionError) Error() string {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("fedot: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("type", "DimensionError")
}

// NewDimensionError creates a DimensionError with an attached stack trace.
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// ValidationError is returned when a construction-time parameter fails
// validation. It names the parameter and the rejected value.
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("fedot: validation failed for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError creates a ValidationError with an attached stack trace.
func NewValidationError(param, reason string, value interface{}) error {
	err := &ValidationError{ParamName: param, Reason: reason, Value: value}
	return errors.WithStack(err)
}

// ValueError is returned when an argument value is inappropriate for the
// operation, for example an unknown operation tag.
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("fedot: %s: %s", e.Op, e.Message)
}

// NewValueError creates a ValueError with an attached stack trace.
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// UnsupportedDataTypeError is returned when data of an unknown type reaches
// a component that dispatches on the data type, such as the splitter.
type UnsupportedDataTypeError struct {
	Op        string
	Got       string
	Supported []string
}

func (e *UnsupportedDataTypeError) Error() string {
	return fmt.Sprintf("fedot: %s: unknown data type %s. Supported data types: %s",
		e.Op, e.Got, strings.Join(e.Supported, ", "))
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *UnsupportedDataTypeError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("got", e.Got).
		Strs("supported", e.Supported).
		Str("type", "UnsupportedDataTypeError")
}

// NewUnsupportedDataTypeError creates an UnsupportedDataTypeError with an
// attached stack trace.
func NewUnsupportedDataTypeError(op, got string, supported []string) error {
	err := &UnsupportedDataTypeError{Op: op, Got: got, Supported: supported}
	return errors.WithStack(err)
}

// StratificationError is returned when a stratified split is requested but
// some class labels occur only once. It names the offending labels.
type StratificationError struct {
	TaskType string
	Labels   []string
}

func (e *StratificationError) Error() string {
	return fmt.Sprintf("fedot: there is the only value for some classes: %s. Data split can not be done for %s task",
		strings.Join(e.Labels, ", "), e.TaskType)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *StratificationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("task_type", e.TaskType).
		Strs("labels", e.Labels).
		Str("type", "StratificationError")
}

// NewStratificationError creates a StratificationError with an attached
// stack trace.
func NewStratificationError(taskType string, labels []string) error {
	err := &StratificationError{TaskType: taskType, Labels: labels}
	return errors.WithStack(err)
}

// GraphStructureError is returned when a structural mutation would leave the
// pipeline graph in an invalid state (zero or ambiguous roots, unknown
// node). The graph is left unmodified.
type GraphStructureError struct {
	Op     string
	Reason string
}

func (e *GraphStructureError) Error() string {
	return fmt.Sprintf("fedot: %s: %s", e.Op, e.Reason)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *GraphStructureError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("reason", e.Reason).
		Str("type", "GraphStructureError")
}

// NewGraphStructureError creates a GraphStructureError with an attached
// stack trace.
func NewGraphStructureError(op, reason string) error {
	err := &GraphStructureError{Op: op, Reason: reason}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	cockroachdb/errors wrappers
//
// ===========================================================================

// Is reports whether err matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an existing error with a message.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf wraps an existing error with a format string.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New creates a new error.
func New(message string) error {
	return errors.New(message)
}

// Newf creates a new formatted error.
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack attaches a stack trace to an error.
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	Common error variables
//
// ===========================================================================

var (
	// ErrEmptyData is returned when empty data is passed.
	ErrEmptyData = New("empty data")

	// ErrSingularMatrix is returned when a matrix inversion fails.
	ErrSingularMatrix = New("singular matrix")
)
