package convolution

import (
	"fmt"
	"unsafe"
)

// Convolve applies k to src and writes the result into dst.
//
// Parameters:
//   - dst: Output image. Must have the same width, height and channel count
//     as src and must not share its backing array.
//   - src: Input image. Read only.
//   - k: Kernel to apply. Must be non-empty.
//   - border: How samples outside src are resolved. With None only interior
//     pixels are written.
//
// The interior pass always runs first. For Extend, Mirror and Wrap the border
// bands are then computed so every cell of dst is written. Integer outputs
// are rounded to nearest and saturated; floating-point outputs are stored as
// computed.
//
// # Errors
//
//   - ErrEmptyKernel if k is nil or has no weights
//   - ErrUnknownBorder if border is not one of the four modes
//   - ErrBufferTooSmall if either Pix slice is shorter than its shape
//   - ErrGeometryMismatch if src and dst shapes differ
//   - ErrAliasedBuffers if src and dst share memory
//
// A kernel larger than the image is not an error.
func Convolve[T Sample](dst, src *Image[T], k *Kernel, border Border) error {
	if err := check(dst, src, k, border); err != nil {
		return err
	}

	narrow := newNarrower[T]()

	start, end := interiorRows(k, src.Height)
	convolveInterior(dst, src, k, narrow, start, end)

	if border == None {
		return nil
	}
	convolveBands(dst, src, k, border, narrow)
	return nil
}

func check[T Sample](dst, src *Image[T], k *Kernel, border Border) error {
	if k.empty() {
		return ErrEmptyKernel
	}
	if !border.valid() {
		return fmt.Errorf("%w: %d", ErrUnknownBorder, int(border))
	}
	if src == nil || dst == nil {
		return fmt.Errorf("%w: nil image", ErrBufferTooSmall)
	}
	if err := src.validate(); err != nil {
		return fmt.Errorf("source: %w", err)
	}
	if err := dst.validate(); err != nil {
		return fmt.Errorf("destination: %w", err)
	}
	if !src.sameShape(dst) {
		return fmt.Errorf("%w: source %dx%dx%d, destination %dx%dx%d", ErrGeometryMismatch,
			src.Width, src.Height, src.Channels, dst.Width, dst.Height, dst.Channels)
	}
	if overlaps(src.Pix[:src.Len()], dst.Pix[:dst.Len()]) {
		return ErrAliasedBuffers
	}
	return nil
}

// overlaps reports whether a and b share at least one element. Disjoint
// windows of one backing array do not overlap.
func overlaps[T Sample](a, b []T) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	size := unsafe.Sizeof(a[0])
	aStart := uintptr(unsafe.Pointer(unsafe.SliceData(a)))
	bStart := uintptr(unsafe.Pointer(unsafe.SliceData(b)))
	aEnd := aStart + uintptr(len(a))*size
	bEnd := bStart + uintptr(len(b))*size
	return aStart < bEnd && bStart < aEnd
}
