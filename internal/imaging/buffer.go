package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/image-convolve-mcp/internal/convolution"
)

// bufferChannels is the channel count of buffers produced by ToBuffer.
const bufferChannels = 4

// ToBuffer converts img into an NRGBA sample buffer with origin (0,0).
//
// The returned buffer owns freshly allocated memory and never aliases img.
func ToBuffer(img image.Image) (*convolution.Image[uint8], error) {
	nrgba := imaging.Clone(img)
	b := nrgba.Bounds()
	buf, err := convolution.FromPix(nrgba.Pix, b.Dx(), b.Dy(), bufferChannels)
	if err != nil {
		return nil, fmt.Errorf("failed to wrap pixels: %w", err)
	}
	return buf, nil
}

// FromBuffer builds an image that shares buf's samples.
//
// Four channels map to *image.NRGBA, one channel to *image.Gray. Three
// channels are expanded into an opaque *image.NRGBA copy.
func FromBuffer(buf *convolution.Image[uint8]) (image.Image, error) {
	rect := image.Rect(0, 0, buf.Width, buf.Height)
	switch buf.Channels {
	case 4:
		return &image.NRGBA{Pix: buf.Pix[:buf.Len()], Stride: 4 * buf.Width, Rect: rect}, nil
	case 1:
		return &image.Gray{Pix: buf.Pix[:buf.Len()], Stride: buf.Width, Rect: rect}, nil
	case 3:
		out := image.NewNRGBA(rect)
		for y := 0; y < buf.Height; y++ {
			for x := 0; x < buf.Width; x++ {
				out.SetNRGBA(x, y, color.NRGBA{
					R: buf.At(y, x, 0),
					G: buf.At(y, x, 1),
					B: buf.At(y, x, 2),
					A: 255,
				})
			}
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported channel count %d", buf.Channels)
}

// copyAlpha overwrites the alpha samples of dst with those of src. Both
// must be ToBuffer-shaped NRGBA buffers of the same size.
func copyAlpha(dst, src *convolution.Image[uint8]) {
	alpha := bufferChannels - 1
	for i := alpha; i < dst.Len(); i += bufferChannels {
		dst.Pix[i] = src.Pix[i]
	}
}

// encodePNG returns img as base64-encoded PNG.
func encodePNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// saveImage writes img to path; the format follows the file extension.
func saveImage(img image.Image, path string) error {
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	return nil
}
