package metrics

import (
	"math"
	"testing"
)

func TestAccuracy(t *testing.T) {
	tests := []struct {
		name  string
		yTrue []float64
		yPred []float64
		want  float64
	}{
		{"all correct", []float64{0, 1, 1, 0}, []float64{0, 1, 1, 0}, 1},
		{"half correct", []float64{0, 1, 1, 0}, []float64{1, 1, 0, 0}, 0.5},
		{"probabilities thresholded", []float64{0, 1}, []float64{0.2, 0.9}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Accuracy(vec(tt.yTrue...), vec(tt.yPred...))
			if err != nil {
				t.Fatalf("Accuracy: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Accuracy = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestF1(t *testing.T) {
	tests := []struct {
		name  string
		yTrue []float64
		yPred []float64
		want  float64
	}{
		{"perfect", []float64{1, 1, 0, 0}, []float64{1, 1, 0, 0}, 1},
		{"one false positive", []float64{1, 1, 0, 0}, []float64{1, 1, 1, 0}, 0.8},
		{"no true positives", []float64{1, 1, 0}, []float64{0, 0, 0}, 0},
		{"no positive labels", []float64{0, 0, 0}, []float64{1, 0, 0}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := F1(vec(tt.yTrue...), vec(tt.yPred...))
			if err != nil {
				t.Fatalf("F1: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("F1 = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestROCAUC(t *testing.T) {
	tests := []struct {
		name   string
		yTrue  []float64
		scores []float64
		want   float64
	}{
		{"perfect ranking", []float64{0, 0, 1, 1}, []float64{0.1, 0.2, 0.8, 0.9}, 1},
		{"inverted ranking", []float64{0, 0, 1, 1}, []float64{0.9, 0.8, 0.2, 0.1}, 0},
		{"one inversion", []float64{0, 0, 1, 1}, []float64{0.1, 0.4, 0.35, 0.8}, 0.75},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ROCAUC(vec(tt.yTrue...), vec(tt.scores...))
			if err != nil {
				t.Fatalf("ROCAUC: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ROCAUC = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestROCAUCUndefinedForSingleClass(t *testing.T) {
	if _, err := ROCAUC(vec(1, 1, 1), vec(0.1, 0.5, 0.9)); err == nil {
		t.Error("expected an error when only one class is present")
	}
	if _, err := ROCAUC(vec(0, 0), vec(0.1, 0.5)); err == nil {
		t.Error("expected an error when only one class is present")
	}
}

func TestClassificationMetricErrors(t *testing.T) {
	if _, err := Accuracy(vec(), vec()); err == nil {
		t.Error("expected an error for empty vectors")
	}
	if _, err := F1(vec(1), vec(1, 0)); err == nil {
		t.Error("expected an error for mismatched lengths")
	}
	if _, err := ROCAUC(vec(1, 0), vec(0.5)); err == nil {
		t.Error("expected an error for mismatched lengths")
	}
}
