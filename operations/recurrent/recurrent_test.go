package recurrent

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/yursur/FEDOT/core/data"
	"github.com/yursur/FEDOT/core/operation"
)

// windowedSeries builds lagged windows over a sine series: each feature row is
// a window of the series, the target the following horizon values.
func windowedSeries(t *testing.T, n, window, horizon int) *data.InputData {
	t.Helper()

	series := make([]float64, n+window+horizon)
	for i := range series {
		series[i] = math.Sin(float64(i) / 5)
	}

	features := mat.NewDense(n, window, nil)
	target := mat.NewDense(n, horizon, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < window; j++ {
			features.Set(i, j, series[i+j])
		}
		for j := 0; j < horizon; j++ {
			target.Set(i, j, series[i+window+j])
		}
	}

	d, err := data.New(features, target,
		data.Task{Type: data.TsForecasting, Params: data.TaskParams{ForecastLength: horizon}}, data.Ts)
	if err != nil {
		t.Fatalf("data.New: %v", err)
	}
	return d
}

func TestParseVariantRoundTrip(t *testing.T) {
	for _, tag := range Variants() {
		v, err := ParseVariant(tag)
		if err != nil {
			t.Fatalf("ParseVariant(%q): %v", tag, err)
		}
		if v.String() != tag {
			t.Errorf("ParseVariant(%q).String() = %q", tag, v.String())
		}
	}

	if _, err := ParseVariant("transformer"); err == nil {
		t.Error("expected an error for an unknown variant tag")
	}
}

func TestNewValidatesConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"dropout out of range", Config{Variant: LSTM, Dropout: 1}},
		{"negative hidden size", Config{Variant: GRU, HiddenSize: -1}},
		{"unknown preprocessing", Config{Variant: Elman, Preprocessing: "zscore"}},
		{"negative ridge", Config{Variant: Jordan, Ridge: -1}},
		{
			"conv channel count mismatch",
			Config{Variant: LSTM, ConvLayers: 2, ConvOutChannels: []int{4}, ConvKernelSizes: []int{3, 3}},
		},
		{
			"conv kernel count mismatch",
			Config{Variant: LSTM, ConvLayers: 2, ConvOutChannels: []int{4, 4}, ConvKernelSizes: []int{3}},
		},
		{
			"non-positive conv channels",
			Config{Variant: LSTM, ConvLayers: 1, ConvOutChannels: []int{0}, ConvKernelSizes: []int{3}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.cfg); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}

func TestForecasterFitPredictShapes(t *testing.T) {
	seed := int64(1)
	d := windowedSeries(t, 40, 8, 3)

	for _, tag := range Variants() {
		t.Run(tag, func(t *testing.T) {
			variant, err := ParseVariant(tag)
			if err != nil {
				t.Fatalf("ParseVariant: %v", err)
			}
			f, err := New(Config{Variant: variant, Seed: &seed})
			if err != nil {
				t.Fatalf("New: %v", err)
			}

			state, err := f.Fit(d)
			if err != nil {
				t.Fatalf("Fit: %v", err)
			}
			out, err := f.Predict(d, state)
			if err != nil {
				t.Fatalf("Predict: %v", err)
			}

			r, c := out.Features.Dims()
			if r != d.Len() || c != 3 {
				t.Fatalf("prediction shape = %dx%d, want %dx3", r, c, d.Len())
			}
			for i := 0; i < r; i++ {
				for j := 0; j < c; j++ {
					if math.IsNaN(out.Features.At(i, j)) {
						t.Fatalf("prediction(%d,%d) is NaN", i, j)
					}
				}
			}
		})
	}
}

func TestForecasterSeededDeterminism(t *testing.T) {
	seed := int64(99)
	d := windowedSeries(t, 30, 6, 2)
	cfg := Config{Variant: GRU, Seed: &seed}

	f1, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	f2, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	s1, err := f1.Fit(d)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	s2, err := f2.Fit(d)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}

	out1, err := f1.Predict(d, s1)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	out2, err := f2.Predict(d, s2)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}

	for i := 0; i < d.Len(); i++ {
		for j := 0; j < 2; j++ {
			if out1.Features.At(i, j) != out2.Features.At(i, j) {
				t.Fatalf("predictions diverge at (%d,%d) for the same seed", i, j)
			}
		}
	}
}

func TestForecasterWithConvLayers(t *testing.T) {
	seed := int64(5)
	d := windowedSeries(t, 30, 10, 2)

	f, err := New(Config{
		Variant:         LSTM,
		Seed:            &seed,
		ConvLayers:      2,
		ConvOutChannels: []int{4, 8},
		ConvKernelSizes: []int{3, 3},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	state, err := f.Fit(d)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	out, err := f.Predict(d, state)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if r, c := out.Features.Dims(); r != d.Len() || c != 2 {
		t.Fatalf("prediction shape = %dx%d, want %dx2", r, c, d.Len())
	}
}

func TestForecasterRejectsOversizedKernel(t *testing.T) {
	seed := int64(5)
	d := windowedSeries(t, 20, 6, 2)

	f, err := New(Config{
		Variant:         Elman,
		Seed:            &seed,
		ConvLayers:      1,
		ConvOutChannels: []int{2},
		ConvKernelSizes: []int{7},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := f.Fit(d); err == nil {
		t.Error("expected an error for a kernel larger than the window")
	}
}

func TestForecasterFitErrors(t *testing.T) {
	seed := int64(2)
	f, err := New(Config{Variant: Elman, Seed: &seed})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// Target width must match the forecast horizon.
	d := windowedSeries(t, 20, 6, 2)
	d.Task.Params.ForecastLength = 3
	if _, err := f.Fit(d); err == nil {
		t.Error("expected an error for a target narrower than the horizon")
	}

	d.Task.Params.ForecastLength = 0
	if _, err := f.Fit(d); err == nil {
		t.Error("expected an error for a zero forecast horizon")
	}
}

func TestForecasterPredictErrors(t *testing.T) {
	seed := int64(3)
	d := windowedSeries(t, 20, 6, 2)

	f, err := New(Config{Variant: Jordan, Seed: &seed})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := f.Predict(d, nil); err == nil {
		t.Error("expected an error for missing fitted state")
	}

	state, err := f.Fit(d)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	narrow := windowedSeries(t, 20, 4, 2)
	if _, err := f.Predict(narrow, state); err == nil {
		t.Error("expected an error for a window width mismatch")
	}
}

func TestMinMaxPreprocessing(t *testing.T) {
	seed := int64(4)
	d := windowedSeries(t, 30, 6, 2)

	f, err := New(Config{Variant: GRU, Seed: &seed, Preprocessing: PreprocessMinMax})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	state, err := f.Fit(d)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if _, err := f.Predict(d, state); err != nil {
		t.Fatalf("Predict: %v", err)
	}
}

func TestVariantsAreRegistered(t *testing.T) {
	for _, tag := range Variants() {
		op, err := operation.New(tag, operation.Params{"seed": 11, "hidden_size": 8})
		if err != nil {
			t.Fatalf("operation.New(%q): %v", tag, err)
		}
		if op.Name() != tag {
			t.Errorf("Name() = %q, want %q", op.Name(), tag)
		}
	}
}
