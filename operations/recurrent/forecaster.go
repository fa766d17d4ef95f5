package recurrent

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/yursur/FEDOT/core/data"
	"github.com/yursur/FEDOT/core/operation"
	"github.com/yursur/FEDOT/pkg/errors"
)

// Forecaster is a recurrent forecasting operation. Each feature row is a
// lagged window of the series; the fitted model maps a window to the next
// ForecastLength values.
type Forecaster struct {
	cfg Config
}

// New creates a forecaster, validating the configuration.
func New(cfg Config) (*Forecaster, error) {
	cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Forecaster{cfg: cfg}, nil
}

// Name returns the variant tag.
func (f *Forecaster) Name() string { return f.cfg.Variant.String() }

// networkState is the fitted network: fixed random conv filters and
// recurrent layers plus the trained linear readout.
type networkState struct {
	conv    []*convLayer
	layers  []*layerWeights
	readout *mat.Dense // (hidden+1) x horizon
	pre     preprocess
	window  int
	horizon int
	hidden  int
}

// Fit builds the reservoir and trains the ridge readout against the target
// horizon.
func (f *Forecaster) Fit(d *data.InputData) (operation.FittedState, error) {
	n, window := d.Features.Dims()
	if n == 0 || window == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "Forecaster.Fit")
	}

	horizon := d.Task.Params.ForecastLength
	if horizon <= 0 {
		return nil, errors.NewValidationError("ForecastLength", "must be positive for forecasting", horizon)
	}
	_, tc := d.Target.Dims()
	if tc != horizon {
		return nil, errors.NewDimensionError("Forecaster.Fit", horizon, tc, 1)
	}

	var seed int64
	if f.cfg.Seed != nil {
		seed = *f.cfg.Seed
	} else {
		seed = rand.Int63()
	}
	rng := rand.New(rand.NewSource(seed))

	hidden := f.cfg.HiddenSize
	if hidden == 0 {
		hidden = int(math.Round(float64(window) * 2 / (1 - f.cfg.Dropout)))
	}

	conv, channels, length, err := f.buildConv(rng, window)
	if err != nil {
		return nil, err
	}
	if length < 1 {
		return nil, errors.NewValidationError("conv_kernel_sizes",
			"convolution consumes the whole window", f.cfg.ConvKernelSizes)
	}

	layers := make([]*layerWeights, f.cfg.NumLayers)
	inDim := channels
	for i := range layers {
		layers[i] = newLayerWeights(f.cfg.Variant, inDim, hidden, rng)
		inDim = hidden
	}

	state := &networkState{
		conv:    conv,
		layers:  layers,
		pre:     fitPreprocess(f.cfg.Preprocessing, d.Features),
		window:  window,
		horizon: horizon,
		hidden:  hidden,
	}

	H := state.design(d.Features)

	Y := mat.NewDense(n, horizon, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < horizon; j++ {
			Y.Set(i, j, state.pre.apply(d.Target.At(i, j)))
		}
	}

	readout, err := ridgeSolve(H, Y, f.cfg.Ridge)
	if err != nil {
		return nil, err
	}
	state.readout = readout

	return state, nil
}

// Predict runs the fitted network over the input windows and returns one
// forecast row per window.
func (f *Forecaster) Predict(d *data.InputData, st operation.FittedState) (*data.InputData, error) {
	state, ok := st.(*networkState)
	if !ok {
		return nil, errors.NewNotFittedError("Forecaster.Predict", f.Name())
	}

	n, window := d.Features.Dims()
	if window != state.window {
		return nil, errors.NewDimensionError("Forecaster.Predict", state.window, window, 1)
	}

	H := state.design(d.Features)

	var raw mat.Dense
	raw.Mul(H, state.readout)

	out := mat.NewDense(n, state.horizon, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < state.horizon; j++ {
			out.Set(i, j, state.pre.invert(raw.At(i, j)))
		}
	}
	return d.WithFeatures(out), nil
}

func (f *Forecaster) buildConv(rng *rand.Rand, window int) (conv []*convLayer, channels, length int, err error) {
	channels, length = 1, window
	for i := 0; i < f.cfg.ConvLayers; i++ {
		kernel := f.cfg.ConvKernelSizes[i]
		if kernel > length {
			return nil, 0, 0, errors.NewValidationError("conv_kernel_sizes",
				"kernel is larger than the remaining sequence", kernel)
		}
		layer := newConvLayer(channels, f.cfg.ConvOutChannels[i], kernel, rng)
		conv = append(conv, layer)
		channels = layer.outChannels
		length = layer.outLen(length)
	}
	return conv, channels, length, nil
}

// design maps every input window through preprocessing, convolution and the
// recurrent stack into one design-matrix row: the final hidden state plus a
// bias term.
func (s *networkState) design(features *mat.Dense) *mat.Dense {
	n, window := features.Dims()
	H := mat.NewDense(n, s.hidden+1, nil)

	for i := 0; i < n; i++ {
		seq := make([]float64, window)
		for j := 0; j < window; j++ {
			seq[j] = s.pre.apply(features.At(i, j))
		}

		channels := [][]float64{seq}
		for _, layer := range s.conv {
			channels = layer.apply(channels)
		}

		steps := toSteps(channels)
		for _, layer := range s.layers {
			steps = layer.run(steps)
		}

		final := steps[len(steps)-1]
		for j, v := range final {
			H.Set(i, j, v)
		}
		H.Set(i, s.hidden, 1.0)
	}
	return H
}

// toSteps transposes channel-major data (channels x T) into per-step input
// vectors (T x channels).
func toSteps(channels [][]float64) [][]float64 {
	t := len(channels[0])
	steps := make([][]float64, t)
	for pos := 0; pos < t; pos++ {
		x := make([]float64, len(channels))
		for c := range channels {
			x[c] = channels[c][pos]
		}
		steps[pos] = x
	}
	return steps
}

// ridgeSolve solves (H^T H + lambda I) W = H^T Y.
func ridgeSolve(H, Y *mat.Dense, lambda float64) (*mat.Dense, error) {
	_, cols := H.Dims()

	var ht mat.Dense
	ht.CloneFrom(H.T())

	var a mat.Dense
	a.Mul(&ht, H)
	for i := 0; i < cols; i++ {
		a.Set(i, i, a.At(i, i)+lambda)
	}

	var b mat.Dense
	b.Mul(&ht, Y)

	var w mat.Dense
	if err := w.Solve(&a, &b); err != nil {
		return nil, errors.Wrap(errors.ErrSingularMatrix, "recurrent readout")
	}
	return &w, nil
}

// preprocess scales series values before fitting and inverts the scaling on
// predictions. Statistics are computed over the whole feature matrix.
type preprocess struct {
	kind string
	mean float64
	std  float64
	min  float64
	max  float64
}

func fitPreprocess(kind string, m *mat.Dense) preprocess {
	r, c := m.Dims()
	total := float64(r * c)

	p := preprocess{kind: kind, min: math.Inf(1), max: math.Inf(-1)}
	var sum float64
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := m.At(i, j)
			sum += v
			p.min = math.Min(p.min, v)
			p.max = math.Max(p.max, v)
		}
	}
	p.mean = sum / total

	var variance float64
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			dev := m.At(i, j) - p.mean
			variance += dev * dev
		}
	}
	p.std = math.Sqrt(variance / total)

	return p
}

func (p preprocess) apply(v float64) float64 {
	switch p.kind {
	case PreprocessMinMax:
		span := p.max - p.min
		if span == 0 {
			span = 1
		}
		return (v - p.min) / span
	default:
		return (v - p.mean) / (p.std + 1e-6)
	}
}

func (p preprocess) invert(v float64) float64 {
	switch p.kind {
	case PreprocessMinMax:
		span := p.max - p.min
		if span == 0 {
			span = 1
		}
		return v*span + p.min
	default:
		return v*(p.std+1e-6) + p.mean
	}
}
