// Package imaging bridges decoded images and the convolution engine.
//
// It loads images from disk (PNG, JPEG, GIF, BMP, TIFF and WebP), converts
// them to interleaved 8-bit NRGBA sample buffers, runs convolution and
// Gaussian blur filters over them, and encodes the results back to PNG.
//
// # Coordinate System
//
// Pixel coordinates are 0-based with (0,0) at the top-left corner, X
// increasing rightward and Y increasing downward. Buffers handed to the
// convolution engine are addressed as (row, col) = (Y, X).
//
// # Channels
//
// Every loaded image is converted to non-premultiplied RGBA, so buffers have
// four channels and alpha is filtered like any other channel. Color-space
// conversion is out of scope; the luminance used by EdgeDetect is a plain
// BT.601 weighted sum.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Filter functions are
// stateless and allocate their own output buffers.
//
// # Error Handling
//
// Functions return errors for:
//   - File I/O and decoding failures
//   - Invalid filter configuration (empty or ragged kernels, even or
//     non-positive kernel sizes, unknown border modes), wrapping the
//     convolution package's sentinel errors
//   - Encoding or saving failures
package imaging
