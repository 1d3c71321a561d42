package convolution

import "fmt"

// Image is a row-major, interleaved multi-channel sample buffer.
//
// Pix holds Height rows of Width pixels, each pixel Channels consecutive
// samples. The sample for (row, col, ch) lives at ((row*Width)+col)*Channels+ch.
// Pix may be longer than Len(); trailing samples are ignored.
type Image[T Sample] struct {
	Pix      []T
	Width    int
	Height   int
	Channels int
}

// NewImage allocates a zeroed image of the given shape.
func NewImage[T Sample](width, height, channels int) (*Image[T], error) {
	if width < 0 || height < 0 || channels <= 0 {
		return nil, fmt.Errorf("%w: %dx%d with %d channels", ErrBufferTooSmall, width, height, channels)
	}
	return &Image[T]{
		Pix:      make([]T, width*height*channels),
		Width:    width,
		Height:   height,
		Channels: channels,
	}, nil
}

// FromPix builds an Image over an existing slice without copying it.
//
// The caller keeps ownership of pix. FromPix fails if the slice is shorter than
// width*height*channels or the shape is negative.
func FromPix[T Sample](pix []T, width, height, channels int) (*Image[T], error) {
	img := &Image[T]{Pix: pix, Width: width, Height: height, Channels: channels}
	if err := img.validate(); err != nil {
		return nil, err
	}
	return img, nil
}

// Len returns the number of samples the shape addresses.
func (m *Image[T]) Len() int {
	return m.Width * m.Height * m.Channels
}

// Index returns the offset of (row, col, ch) in Pix.
func (m *Image[T]) Index(row, col, ch int) int {
	return ((row*m.Width)+col)*m.Channels + ch
}

// At returns the sample at (row, col, ch).
func (m *Image[T]) At(row, col, ch int) T {
	return m.Pix[m.Index(row, col, ch)]
}

// Set stores v at (row, col, ch).
func (m *Image[T]) Set(row, col, ch int, v T) {
	m.Pix[m.Index(row, col, ch)] = v
}

// Fill sets every addressed sample to v.
func (m *Image[T]) Fill(v T) {
	pix := m.Pix[:m.Len()]
	for i := range pix {
		pix[i] = v
	}
}

// Clone returns a deep copy trimmed to Len() samples.
func (m *Image[T]) Clone() *Image[T] {
	pix := make([]T, m.Len())
	copy(pix, m.Pix)
	return &Image[T]{Pix: pix, Width: m.Width, Height: m.Height, Channels: m.Channels}
}

func (m *Image[T]) sameShape(o *Image[T]) bool {
	return m.Width == o.Width && m.Height == o.Height && m.Channels == o.Channels
}

func (m *Image[T]) validate() error {
	if m.Width < 0 || m.Height < 0 || m.Channels <= 0 {
		return fmt.Errorf("%w: %dx%d with %d channels", ErrBufferTooSmall, m.Width, m.Height, m.Channels)
	}
	if len(m.Pix) < m.Len() {
		return fmt.Errorf("%w: have %d samples, need %d", ErrBufferTooSmall, len(m.Pix), m.Len())
	}
	return nil
}
