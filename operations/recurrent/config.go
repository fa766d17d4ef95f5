package recurrent

import (
	"fmt"

	"github.com/yursur/FEDOT/core/operation"
	"github.com/yursur/FEDOT/pkg/errors"
)

// Preprocessing kinds for series values.
const (
	PreprocessNormalization = "normalization"
	PreprocessMinMax        = "minmax"
)

// Config configures a Forecaster. Zero values select defaults.
type Config struct {
	Variant Variant

	// HiddenSize is the reservoir width. Zero derives it from the input
	// window width and the dropout rate.
	HiddenSize int

	// NumLayers is the number of stacked recurrent layers. Zero means 3.
	NumLayers int

	// Dropout only shapes the default hidden size; the reservoir itself
	// is not thinned.
	Dropout float64

	// Preprocessing is the value scaling applied before fitting and
	// inverted after prediction.
	Preprocessing string

	// ConvLayers enables 1-D convolutional pre-layers. When positive,
	// ConvOutChannels and ConvKernelSizes must supply one entry per
	// layer.
	ConvLayers      int
	ConvOutChannels []int
	ConvKernelSizes []int

	// Ridge is the readout regularization strength.
	Ridge float64

	// Seed drives the reservoir initialization. Nil accepts
	// non-determinism.
	Seed *int64
}

func (c *Config) withDefaults() {
	if c.NumLayers == 0 {
		c.NumLayers = 3
	}
	if c.Preprocessing == "" {
		c.Preprocessing = PreprocessNormalization
	}
	if c.Ridge == 0 {
		c.Ridge = 1e-4
	}
}

func (c *Config) validate() error {
	if c.Variant < Elman || c.Variant > GRU {
		return errors.NewValueError("recurrent.New", "unknown RNN variant")
	}
	if c.Dropout < 0 || c.Dropout >= 1 {
		return errors.NewValidationError("dropout", "must be in [0, 1)", c.Dropout)
	}
	if c.HiddenSize < 0 {
		return errors.NewValidationError("hidden_size", "must be non-negative", c.HiddenSize)
	}
	if c.NumLayers < 1 {
		return errors.NewValidationError("num_layers", "must be positive", c.NumLayers)
	}
	switch c.Preprocessing {
	case PreprocessNormalization, PreprocessMinMax:
	default:
		return errors.NewValueError("recurrent.New",
			"unknown type of preprocessing: '"+c.Preprocessing+"'. Allowed types: normalization, minmax")
	}
	if c.ConvLayers > 0 {
		if len(c.ConvOutChannels) != c.ConvLayers {
			return errors.NewValidationError("conv_out_channels",
				fmt.Sprintf("there are %d convolutional layers, but the parameter is specified for %d layers",
					c.ConvLayers, len(c.ConvOutChannels)),
				c.ConvOutChannels)
		}
		if len(c.ConvKernelSizes) != c.ConvLayers {
			return errors.NewValidationError("conv_kernel_sizes",
				fmt.Sprintf("there are %d convolutional layers, but the parameter is specified for %d layers",
					c.ConvLayers, len(c.ConvKernelSizes)),
				c.ConvKernelSizes)
		}
		for i := 0; i < c.ConvLayers; i++ {
			if c.ConvOutChannels[i] < 1 {
				return errors.NewValidationError("conv_out_channels", "channel counts must be positive", c.ConvOutChannels)
			}
			if c.ConvKernelSizes[i] < 1 {
				return errors.NewValidationError("conv_kernel_sizes", "kernel sizes must be positive", c.ConvKernelSizes)
			}
		}
	}
	if c.Ridge < 0 {
		return errors.NewValidationError("ridge", "must be non-negative", c.Ridge)
	}
	return nil
}

func init() {
	for _, tag := range Variants() {
		variant, _ := ParseVariant(tag)
		operation.Register(tag, factoryFor(variant))
	}
}

func factoryFor(variant Variant) operation.Factory {
	return func(params operation.Params) (operation.Operation, error) {
		cfg := Config{
			Variant:         variant,
			HiddenSize:      params.Int("hidden_size", 0),
			NumLayers:       params.Int("num_layers", 0),
			Dropout:         params.Float("dropout", 0),
			Preprocessing:   params.String("preprocessing", ""),
			ConvLayers:      params.Int("conv_layers", 0),
			ConvOutChannels: params.IntSlice("conv_out_channels"),
			ConvKernelSizes: params.IntSlice("conv_kernel_sizes"),
			Ridge:           params.Float("ridge", 0),
			Seed:            params.SeedPtr("seed"),
		}
		return New(cfg)
	}
}
