package recurrent

import (
	"math/rand"
)

// convLayer is a 1-D convolution with ReLU activation applied to the input
// window before the recurrent layers. Filters are random feature extractors,
// fixed at fit time like the reservoir weights.
type convLayer struct {
	inChannels  int
	outChannels int
	kernel      int
	// filters[out][in][k]
	filters [][][]float64
}

func newConvLayer(inChannels, outChannels, kernel int, rng *rand.Rand) *convLayer {
	scale := 1.0 / float64(inChannels*kernel)
	filters := make([][][]float64, outChannels)
	for o := range filters {
		filters[o] = randomMatrix(inChannels, kernel, scale, rng)
	}
	return &convLayer{
		inChannels:  inChannels,
		outChannels: outChannels,
		kernel:      kernel,
		filters:     filters,
	}
}

// outLen returns the sequence length after convolving a sequence of length n.
func (c *convLayer) outLen(n int) int {
	return n - c.kernel + 1
}

// apply convolves channels (inChannels x T) into (outChannels x T-k+1).
func (c *convLayer) apply(channels [][]float64) [][]float64 {
	t := len(channels[0])
	outT := c.outLen(t)
	out := make([][]float64, c.outChannels)
	for o := 0; o < c.outChannels; o++ {
		row := make([]float64, outT)
		for pos := 0; pos < outT; pos++ {
			var sum float64
			for in := 0; in < c.inChannels; in++ {
				for k := 0; k < c.kernel; k++ {
					sum += c.filters[o][in][k] * channels[in][pos+k]
				}
			}
			if sum < 0 {
				sum = 0 // ReLU
			}
			row[pos] = sum
		}
		out[o] = row
	}
	return out
}
