package convolution

import "errors"

var (
	// ErrEmptyKernel is returned for a nil kernel or one with no rows or columns.
	ErrEmptyKernel = errors.New("kernel is empty")

	// ErrRaggedKernel is returned when kernel rows differ in length.
	ErrRaggedKernel = errors.New("kernel rows have different lengths")

	// ErrInvalidKernelSize is returned for non-positive kernel dimensions and,
	// in the Gaussian blur helpers, for even sizes.
	ErrInvalidKernelSize = errors.New("invalid kernel size")

	// ErrInvalidSigma is returned for a non-positive or non-finite standard deviation.
	ErrInvalidSigma = errors.New("invalid sigma")

	// ErrUnknownBorder is returned for a Border value outside the defined set.
	ErrUnknownBorder = errors.New("unknown border mode")

	// ErrGeometryMismatch is returned when src and dst differ in width, height or channels.
	ErrGeometryMismatch = errors.New("source and destination geometry differ")

	// ErrBufferTooSmall is returned when a sample slice is shorter than its declared shape.
	ErrBufferTooSmall = errors.New("buffer too small for image geometry")

	// ErrAliasedBuffers is returned when the samples addressed by src and dst overlap.
	ErrAliasedBuffers = errors.New("source and destination buffers alias")
)
