package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/ironsheep/image-convolve-mcp/internal/convolution"
)

// EdgeDetectResult contains an edge-detected image encoded as base64 PNG.
//
// The result is a grayscale image where white pixels (255) represent detected
// edges and black pixels (0) represent non-edges.
type EdgeDetectResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

var (
	sobelX = [][]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	sobelY = [][]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}
)

// edgeBlurSize and edgeBlurSigma define the noise-reduction blur that runs
// before the gradient step.
const (
	edgeBlurSize  = 5
	edgeBlurSigma = 1.4
)

// EdgeDetect performs Canny-style edge detection on an image.
//
// Parameters:
//   - img: Source image (color or grayscale).
//   - thresholdLow: Gradient magnitudes below this (0-255) are discarded.
//   - thresholdHigh: Gradient magnitudes above this (0-255) are always kept.
//
// # Algorithm
//
//  1. Luminance: 0.299*R + 0.587*G + 0.114*B into a float64 buffer
//  2. 5x5 Gaussian blur (sigma 1.4) with Extend borders
//  3. Sobel X and Y convolutions with Extend borders;
//     magnitude = sqrt(Gx² + Gy²), direction = atan2(Gy, Gx)
//  4. Non-maximum suppression along the gradient direction
//  5. Hysteresis: weak edges survive only next to a strong edge
//
// Steps 2 and 3 run on the convolution engine.
func EdgeDetect(img image.Image, thresholdLow, thresholdHigh int) (*EdgeDetectResult, error) {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	gray, err := convolution.NewImage[float64](width, height, 1)
	if err != nil {
		return nil, err
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			rf := float64(r>>8) / 255.0
			gf := float64(g>>8) / 255.0
			bf := float64(b>>8) / 255.0
			gray.Set(y, x, 0, 0.299*rf+0.587*gf+0.114*bf)
		}
	}

	blurred, err := convolution.NewImage[float64](width, height, 1)
	if err != nil {
		return nil, err
	}
	if err := convolution.GaussianBlurSigma(blurred, gray, edgeBlurSize, edgeBlurSigma, convolution.Extend); err != nil {
		return nil, fmt.Errorf("failed to blur: %w", err)
	}

	gradX, err := gradient(blurred, sobelX)
	if err != nil {
		return nil, err
	}
	gradY, err := gradient(blurred, sobelY)
	if err != nil {
		return nil, err
	}

	magnitude := make([]float64, width*height)
	direction := make([]float64, width*height)
	for i := range magnitude {
		gx, gy := gradX.Pix[i], gradY.Pix[i]
		magnitude[i] = math.Sqrt(gx*gx + gy*gy)
		direction[i] = math.Atan2(gy, gx)
	}

	suppressed := nonMaxSuppress(magnitude, direction, width, height)

	result := image.NewGray(image.Rect(0, 0, width, height))
	lowThresh := float64(thresholdLow) / 255.0
	highThresh := float64(thresholdHigh) / 255.0

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			val := suppressed[y*width+x]
			if val >= highThresh || (val >= lowThresh && hasStrongNeighbor(suppressed, width, height, x, y, highThresh)) {
				result.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}

	encoded, err := encodePNG(result)
	if err != nil {
		return nil, fmt.Errorf("failed to encode edge image: %w", err)
	}

	return &EdgeDetectResult{
		Width:       width,
		Height:      height,
		ImageBase64: encoded,
		MimeType:    "image/png",
	}, nil
}

func gradient(src *convolution.Image[float64], rows [][]float64) (*convolution.Image[float64], error) {
	k, err := convolution.NewKernel(rows)
	if err != nil {
		return nil, err
	}
	out, err := convolution.NewImage[float64](src.Width, src.Height, 1)
	if err != nil {
		return nil, err
	}
	if err := convolution.Convolve(out, src, k, convolution.Extend); err != nil {
		return nil, fmt.Errorf("failed to compute gradient: %w", err)
	}
	return out, nil
}

// nonMaxSuppress keeps only local maxima along the gradient direction.
// The outermost ring of pixels is always zero.
func nonMaxSuppress(magnitude, direction []float64, width, height int) []float64 {
	suppressed := make([]float64, width*height)
	at := func(x, y int) float64 { return magnitude[y*width+x] }

	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			angle := direction[y*width+x]
			mag := at(x, y)

			var n1, n2 float64
			switch {
			case (angle >= -math.Pi/8 && angle < math.Pi/8) || angle >= 7*math.Pi/8 || angle < -7*math.Pi/8:
				n1, n2 = at(x-1, y), at(x+1, y)
			case (angle >= math.Pi/8 && angle < 3*math.Pi/8) || (angle >= -7*math.Pi/8 && angle < -5*math.Pi/8):
				n1, n2 = at(x+1, y-1), at(x-1, y+1)
			case (angle >= 3*math.Pi/8 && angle < 5*math.Pi/8) || (angle >= -5*math.Pi/8 && angle < -3*math.Pi/8):
				n1, n2 = at(x, y-1), at(x, y+1)
			default:
				n1, n2 = at(x-1, y-1), at(x+1, y+1)
			}

			if mag >= n1 && mag >= n2 {
				suppressed[y*width+x] = mag
			}
		}
	}
	return suppressed
}

func hasStrongNeighbor(suppressed []float64, width, height, x, y int, highThresh float64) bool {
	for ky := -1; ky <= 1; ky++ {
		for kx := -1; kx <= 1; kx++ {
			py := convolution.ClampCoordinate(y+ky, height-1)
			px := convolution.ClampCoordinate(x+kx, width-1)
			if suppressed[py*width+px] >= highThresh {
				return true
			}
		}
	}
	return false
}
