package recurrent

import (
	"math"
	"math/rand"
)

// layerWeights holds the fixed random weights of one recurrent layer. The
// weights are immutable after construction; run keeps all transient state in
// locals so a fitted network can be shared safely.
type layerWeights struct {
	variant Variant
	inDim   int
	hidden  int

	// Elman / Jordan
	win  [][]float64 // hidden x inDim
	wrec [][]float64 // hidden x hidden (Elman)
	wfb  []float64   // hidden (Jordan, feedback from output projection)
	wout []float64   // hidden (Jordan, output projection)
	b    []float64

	// GRU gates
	wz, wr, wh [][]float64
	uz, ur, uh [][]float64
	bz, br, bh []float64

	// LSTM gates
	wi, wf, wo, wc [][]float64
	ui, uf, uo, uc [][]float64
	bi, bf, bo, bc []float64
}

func newLayerWeights(variant Variant, inDim, hidden int, rng *rand.Rand) *layerWeights {
	lw := &layerWeights{variant: variant, inDim: inDim, hidden: hidden}

	inScale := 1.0 / math.Sqrt(float64(inDim))
	recScale := 0.9 / math.Sqrt(float64(hidden))

	inputMat := func() [][]float64 { return randomMatrix(hidden, inDim, inScale, rng) }
	recMat := func() [][]float64 { return randomMatrix(hidden, hidden, recScale, rng) }
	bias := func() []float64 { return randomVector(hidden, 0.1, rng) }

	switch variant {
	case Elman:
		lw.win = inputMat()
		lw.wrec = recMat()
		lw.b = bias()
	case Jordan:
		lw.win = inputMat()
		lw.wfb = randomVector(hidden, recScale, rng)
		lw.wout = randomVector(hidden, recScale, rng)
		lw.b = bias()
	case GRU:
		lw.wz, lw.wr, lw.wh = inputMat(), inputMat(), inputMat()
		lw.uz, lw.ur, lw.uh = recMat(), recMat(), recMat()
		lw.bz, lw.br, lw.bh = bias(), bias(), bias()
	case LSTM:
		lw.wi, lw.wf, lw.wo, lw.wc = inputMat(), inputMat(), inputMat(), inputMat()
		lw.ui, lw.uf, lw.uo, lw.uc = recMat(), recMat(), recMat(), recMat()
		lw.bi, lw.bf, lw.bo, lw.bc = bias(), bias(), bias(), bias()
	}

	return lw
}

// run drives the layer over a sequence of input vectors and returns the
// hidden state at every step.
func (lw *layerWeights) run(seq [][]float64) [][]float64 {
	out := make([][]float64, len(seq))
	h := make([]float64, lw.hidden)
	c := make([]float64, lw.hidden) // LSTM cell state
	feedback := 0.0                 // Jordan output projection

	for t, x := range seq {
		switch lw.variant {
		case Elman:
			h = lw.stepElman(x, h)
		case Jordan:
			h = lw.stepJordan(x, feedback)
			feedback = dot(lw.wout, h)
		case GRU:
			h = lw.stepGRU(x, h)
		case LSTM:
			h, c = lw.stepLSTM(x, h, c)
		}
		out[t] = h
	}
	return out
}

func (lw *layerWeights) stepElman(x, h []float64) []float64 {
	next := make([]float64, lw.hidden)
	for i := 0; i < lw.hidden; i++ {
		next[i] = math.Tanh(dot(lw.win[i], x) + dot(lw.wrec[i], h) + lw.b[i])
	}
	return next
}

func (lw *layerWeights) stepJordan(x []float64, feedback float64) []float64 {
	next := make([]float64, lw.hidden)
	for i := 0; i < lw.hidden; i++ {
		next[i] = math.Tanh(dot(lw.win[i], x) + lw.wfb[i]*feedback + lw.b[i])
	}
	return next
}

func (lw *layerWeights) stepGRU(x, h []float64) []float64 {
	next := make([]float64, lw.hidden)
	for i := 0; i < lw.hidden; i++ {
		z := sigmoid(dot(lw.wz[i], x) + dot(lw.uz[i], h) + lw.bz[i])
		r := sigmoid(dot(lw.wr[i], x) + dot(lw.ur[i], h) + lw.br[i])

		var gated float64
		for j := 0; j < lw.hidden; j++ {
			gated += lw.uh[i][j] * r * h[j]
		}
		candidate := math.Tanh(dot(lw.wh[i], x) + gated + lw.bh[i])
		next[i] = (1-z)*h[i] + z*candidate
	}
	return next
}

func (lw *layerWeights) stepLSTM(x, h, c []float64) (nextH, nextC []float64) {
	nextH = make([]float64, lw.hidden)
	nextC = make([]float64, lw.hidden)
	for i := 0; i < lw.hidden; i++ {
		in := sigmoid(dot(lw.wi[i], x) + dot(lw.ui[i], h) + lw.bi[i])
		forget := sigmoid(dot(lw.wf[i], x) + dot(lw.uf[i], h) + lw.bf[i])
		out := sigmoid(dot(lw.wo[i], x) + dot(lw.uo[i], h) + lw.bo[i])
		candidate := math.Tanh(dot(lw.wc[i], x) + dot(lw.uc[i], h) + lw.bc[i])

		nextC[i] = forget*c[i] + in*candidate
		nextH[i] = out * math.Tanh(nextC[i])
	}
	return nextH, nextC
}

func randomMatrix(rows, cols int, scale float64, rng *rand.Rand) [][]float64 {
	m := make([][]float64, rows)
	for i := range m {
		m[i] = randomVector(cols, scale, rng)
	}
	return m
}

func randomVector(n int, scale float64, rng *rand.Rand) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = (2*rng.Float64() - 1) * scale
	}
	return v
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
