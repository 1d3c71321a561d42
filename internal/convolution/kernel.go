package convolution

import "fmt"

// Kernel is a dense rectangular matrix of weights stored row-major with a
// fixed stride. Build one with NewKernel or NewKernelFromWeights; the zero
// value is an empty kernel and is rejected by Convolve.
type Kernel struct {
	width   int
	height  int
	weights []float64
}

// NewKernel copies rows into a Kernel.
//
// The first row defines the width. It returns ErrEmptyKernel if there are no
// rows or the first row is empty, and ErrRaggedKernel if any row differs in
// length from the first.
func NewKernel(rows [][]float64) (*Kernel, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmptyKernel
	}
	width := len(rows[0])
	weights := make([]float64, 0, width*len(rows))
	for i, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has %d weights, want %d", ErrRaggedKernel, i, len(row), width)
		}
		weights = append(weights, row...)
	}
	return &Kernel{width: width, height: len(rows), weights: weights}, nil
}

// NewKernelFromWeights builds a width x height kernel from row-major weights.
// The slice is copied.
func NewKernelFromWeights(width, height int, weights []float64) (*Kernel, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidKernelSize, width, height)
	}
	if len(weights) != width*height {
		return nil, fmt.Errorf("%w: %d weights for a %dx%d kernel", ErrRaggedKernel, len(weights), width, height)
	}
	w := make([]float64, len(weights))
	copy(w, weights)
	return &Kernel{width: width, height: height, weights: w}, nil
}

// Width returns the number of columns.
func (k *Kernel) Width() int { return k.width }

// Height returns the number of rows.
func (k *Kernel) Height() int { return k.height }

// RadiusX returns (Width-1)/2, the number of taps left of the anchor.
func (k *Kernel) RadiusX() int { return (k.width - 1) / 2 }

// RadiusY returns (Height-1)/2, the number of taps above the anchor.
func (k *Kernel) RadiusY() int { return (k.height - 1) / 2 }

// At returns the weight at (row, col).
func (k *Kernel) At(row, col int) float64 {
	return k.weights[row*k.width+col]
}

// Weights returns a copy of the row-major weights.
func (k *Kernel) Weights() []float64 {
	w := make([]float64, len(k.weights))
	copy(w, k.weights)
	return w
}

// Rows returns the weights as a freshly allocated [][]float64.
func (k *Kernel) Rows() [][]float64 {
	rows := make([][]float64, k.height)
	for i := range rows {
		rows[i] = make([]float64, k.width)
		copy(rows[i], k.weights[i*k.width:(i+1)*k.width])
	}
	return rows
}

// Sum returns the sum of all weights.
func (k *Kernel) Sum() float64 {
	var sum float64
	for _, w := range k.weights {
		sum += w
	}
	return sum
}

// Normalized returns a copy scaled so its weights sum to 1. A kernel whose
// weights sum to exactly zero (an edge detector, say) is returned unscaled.
func (k *Kernel) Normalized() *Kernel {
	w := k.Weights()
	if sum := k.Sum(); sum != 0 {
		for i := range w {
			w[i] /= sum
		}
	}
	return &Kernel{width: k.width, height: k.height, weights: w}
}

func (k *Kernel) empty() bool {
	return k == nil || k.width <= 0 || k.height <= 0 || len(k.weights) != k.width*k.height
}

// window describes how far a kernel reaches around its anchor on each side.
// For odd sizes before == after == radius.
type window struct {
	top, bottom int
	left, right int
}

func (k *Kernel) window() window {
	ry, rx := k.RadiusY(), k.RadiusX()
	return window{
		top:    ry,
		bottom: k.height - 1 - ry,
		left:   rx,
		right:  k.width - 1 - rx,
	}
}
