package imaging

import (
	"fmt"
	"image"

	"github.com/ironsheep/image-convolve-mcp/internal/convolution"
)

// FilterResult contains a filtered image encoded as base64 PNG.
type FilterResult struct {
	// Width of the output image in pixels (same as input).
	Width int `json:"width"`

	// Height of the output image in pixels (same as input).
	Height int `json:"height"`

	// Channels is the number of samples per pixel that were filtered.
	Channels int `json:"channels"`

	// Border is the border mode that was applied.
	Border convolution.Border `json:"border"`

	// KernelWidth and KernelHeight describe the applied kernel. For a
	// separable blur they describe the equivalent 2D kernel.
	KernelWidth  int `json:"kernel_width"`
	KernelHeight int `json:"kernel_height"`

	// Sigma is the Gaussian standard deviation used, zero for plain kernels.
	Sigma float64 `json:"sigma,omitempty"`

	// Separable is true when the blur ran as a row pass plus a column pass.
	Separable bool `json:"separable,omitempty"`

	// ImageBase64 is the output encoded as base64 PNG.
	ImageBase64 string `json:"image_base64"`

	// MimeType is always "image/png".
	MimeType string `json:"mime_type"`

	// OutputPath is set when the result was also written to disk.
	OutputPath string `json:"output_path,omitempty"`
}

// ConvolveOptions configures Convolve.
type ConvolveOptions struct {
	// Kernel rows; every row must have the same length.
	Kernel [][]float64

	// Border selects the border mode.
	Border convolution.Border

	// Region, if set, restricts filtering to that rectangle. The output has
	// the region's size.
	Region *Region

	// Normalize divides the kernel by its sum before use (skipped when the
	// sum is zero).
	Normalize bool

	// OutputPath, if set, also saves the result to disk.
	OutputPath string
}

// Convolve applies a caller-supplied kernel to the color channels of img.
// The alpha channel is copied from the source unchanged, so zero-sum kernels
// such as Sobel or Laplacian do not make the output transparent.
//
// Parameters:
//   - img: Source image; converted to an NRGBA buffer first.
//   - opts: Kernel, border mode, normalization and optional output path.
//
// Returns:
//   - *FilterResult: The filtered image as base64 PNG.
//   - error: Non-nil for an empty or ragged kernel, an unknown border mode,
//     or an encoding/saving failure.
func Convolve(img image.Image, opts ConvolveOptions) (*FilterResult, error) {
	k, err := convolution.NewKernel(opts.Kernel)
	if err != nil {
		return nil, fmt.Errorf("invalid kernel: %w", err)
	}
	if opts.Normalize {
		k = k.Normalized()
	}

	cropped, err := cropRegion(img, opts.Region)
	if err != nil {
		return nil, err
	}
	src, err := ToBuffer(cropped)
	if err != nil {
		return nil, err
	}
	dst, err := convolution.NewImage[uint8](src.Width, src.Height, src.Channels)
	if err != nil {
		return nil, err
	}
	if err := convolution.Convolve(dst, src, k, opts.Border); err != nil {
		return nil, fmt.Errorf("convolution failed: %w", err)
	}
	copyAlpha(dst, src)

	res := &FilterResult{
		Border:       opts.Border,
		KernelWidth:  k.Width(),
		KernelHeight: k.Height(),
	}
	return finish(res, dst, opts.OutputPath)
}

// BlurOptions configures GaussianBlur.
type BlurOptions struct {
	// KernelSize is the positive odd width and height of the kernel.
	KernelSize int

	// Sigma is the standard deviation; <= 0 derives it from KernelSize.
	Sigma float64

	// Border selects the border mode.
	Border convolution.Border

	// Region, if set, restricts filtering to that rectangle.
	Region *Region

	// Separable runs a row pass and a column pass instead of one 2D pass.
	Separable bool

	// OutputPath, if set, also saves the result to disk.
	OutputPath string
}

// GaussianBlur blurs every channel of img with a Gaussian kernel.
//
// The separable form is much cheaper for large kernels (O(2k) instead of
// O(k²) per sample) and matches the joint form on the interior up to
// rounding of the intermediate 8-bit image.
func GaussianBlur(img image.Image, opts BlurOptions) (*FilterResult, error) {
	cropped, err := cropRegion(img, opts.Region)
	if err != nil {
		return nil, err
	}
	src, err := ToBuffer(cropped)
	if err != nil {
		return nil, err
	}
	dst, err := convolution.NewImage[uint8](src.Width, src.Height, src.Channels)
	if err != nil {
		return nil, err
	}

	if opts.Separable {
		err = convolution.GaussianBlurSeparableSigma(dst, src, opts.KernelSize, opts.Sigma, opts.Border)
	} else {
		err = convolution.GaussianBlurSigma(dst, src, opts.KernelSize, opts.Sigma, opts.Border)
	}
	if err != nil {
		return nil, fmt.Errorf("gaussian blur failed: %w", err)
	}

	res := &FilterResult{
		Border:       opts.Border,
		KernelWidth:  opts.KernelSize,
		KernelHeight: opts.KernelSize,
		Sigma:        effectiveSigma(opts.KernelSize, opts.Sigma),
		Separable:    opts.Separable,
	}
	return finish(res, dst, opts.OutputPath)
}

func effectiveSigma(ksize int, sigma float64) float64 {
	if sigma <= 0 {
		return convolution.SigmaForKernelSize(ksize)
	}
	return sigma
}

func finish(res *FilterResult, dst *convolution.Image[uint8], outputPath string) (*FilterResult, error) {
	out, err := FromBuffer(dst)
	if err != nil {
		return nil, err
	}
	encoded, err := encodePNG(out)
	if err != nil {
		return nil, err
	}
	if outputPath != "" {
		if err := saveImage(out, outputPath); err != nil {
			return nil, err
		}
	}

	res.Width = dst.Width
	res.Height = dst.Height
	res.Channels = dst.Channels
	res.ImageBase64 = encoded
	res.MimeType = "image/png"
	res.OutputPath = outputPath
	return res, nil
}

// KernelResult describes a generated Gaussian kernel.
type KernelResult struct {
	Width   int         `json:"width"`
	Height  int         `json:"height"`
	Sigma   float64     `json:"sigma"`
	Sum     float64     `json:"sum"`
	Weights [][]float64 `json:"weights"`
}

// GaussianKernelInfo builds a height x width Gaussian kernel. A sigma <= 0
// is derived from the larger of the two dimensions.
func GaussianKernelInfo(height, width int, sigma float64) (*KernelResult, error) {
	if sigma <= 0 {
		sigma = convolution.SigmaForKernelSize(max(height, width))
	}
	k, err := convolution.GaussianKernel(height, width, sigma)
	if err != nil {
		return nil, fmt.Errorf("invalid gaussian kernel: %w", err)
	}
	return &KernelResult{
		Width:   k.Width(),
		Height:  k.Height(),
		Sigma:   sigma,
		Sum:     k.Sum(),
		Weights: k.Rows(),
	}, nil
}
