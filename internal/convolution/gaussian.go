package convolution

import (
	"fmt"
	"math"
)

// SigmaForKernelSize derives a Gaussian standard deviation from an odd
// kernel size using the common image-processing convention
// 0.3*((ksize-1)*0.5-1)+0.8. A 3-tap kernel gets sigma 0.8, a 5-tap 1.1.
func SigmaForKernelSize(ksize int) float64 {
	return 0.3*((float64(ksize)-1)*0.5-1) + 0.8
}

// GaussianKernel builds a height x width Gaussian kernel.
//
// Cell (i, j) is exp(-0.5*((i-height/2)^2+(j-width/2)^2)/sigma^2), using
// integer division for the means, and the kernel is then divided by the sum of
// its weights. If that sum is exactly zero the weights are returned
// unnormalized. Non-square and single-row or single-column kernels are
// supported; the separable blur relies on the latter.
func GaussianKernel(height, width int, sigma float64) (*Kernel, error) {
	if height <= 0 || width <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidKernelSize, width, height)
	}
	if !(sigma > 0) || math.IsInf(sigma, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSigma, sigma)
	}

	meanI, meanJ := height/2, width/2
	variance := sigma * sigma
	weights := make([]float64, height*width)
	var sum float64
	for i := 0; i < height; i++ {
		di := float64(i - meanI)
		for j := 0; j < width; j++ {
			dj := float64(j - meanJ)
			v := math.Exp(-0.5 * (di*di + dj*dj) / variance)
			weights[i*width+j] = v
			sum += v
		}
	}
	if sum != 0 {
		for i := range weights {
			weights[i] /= sum
		}
	}
	return &Kernel{width: width, height: height, weights: weights}, nil
}

// GaussianBlur blurs src into dst with a single ksize x ksize Gaussian
// kernel whose sigma is derived from ksize. ksize must be positive and odd.
func GaussianBlur[T Sample](dst, src *Image[T], ksize int, border Border) error {
	return GaussianBlurSigma(dst, src, ksize, 0, border)
}

// GaussianBlurSigma is GaussianBlur with an explicit sigma. A sigma <= 0
// falls back to SigmaForKernelSize(ksize).
func GaussianBlurSigma[T Sample](dst, src *Image[T], ksize int, sigma float64, border Border) error {
	sigma, err := blurSigma(ksize, sigma)
	if err != nil {
		return err
	}
	k, err := GaussianKernel(ksize, ksize, sigma)
	if err != nil {
		return err
	}
	return Convolve(dst, src, k, border)
}

// GaussianBlurSeparable blurs src into dst in two passes: a 1 x ksize row
// kernel into a scratch image, then a ksize x 1 column kernel into dst, both
// with the same border mode and the sigma derived from ksize.
//
// On the interior this matches GaussianBlur up to floating-point summation
// order (and, for integer samples, the rounding of the intermediate image).
// Border cells of the second pass are computed from already blurred scratch
// values, so corners differ slightly from the joint form.
func GaussianBlurSeparable[T Sample](dst, src *Image[T], ksize int, border Border) error {
	return GaussianBlurSeparableSigma(dst, src, ksize, 0, border)
}

// GaussianBlurSeparableSigma is GaussianBlurSeparable with an explicit
// sigma. A sigma <= 0 falls back to SigmaForKernelSize(ksize).
func GaussianBlurSeparableSigma[T Sample](dst, src *Image[T], ksize int, sigma float64, border Border) error {
	sigma, err := blurSigma(ksize, sigma)
	if err != nil {
		return err
	}
	horizontal, err := GaussianKernel(1, ksize, sigma)
	if err != nil {
		return err
	}
	vertical, err := GaussianKernel(ksize, 1, sigma)
	if err != nil {
		return err
	}

	// Validate both passes up front so a bad dst fails before any work.
	if err := check(dst, src, horizontal, border); err != nil {
		return err
	}

	scratch, err := NewImage[T](src.Width, src.Height, src.Channels)
	if err != nil {
		return err
	}
	if err := Convolve(scratch, src, horizontal, border); err != nil {
		return fmt.Errorf("horizontal pass: %w", err)
	}
	if err := Convolve(dst, scratch, vertical, border); err != nil {
		return fmt.Errorf("vertical pass: %w", err)
	}
	return nil
}

func blurSigma(ksize int, sigma float64) (float64, error) {
	if ksize <= 0 || ksize%2 == 0 {
		return 0, fmt.Errorf("%w: ksize %d must be a positive odd integer", ErrInvalidKernelSize, ksize)
	}
	if math.IsNaN(sigma) || math.IsInf(sigma, 0) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidSigma, sigma)
	}
	if sigma <= 0 {
		sigma = SigmaForKernelSize(ksize)
	}
	return sigma, nil
}
