// Package convolution implements 2D spatial convolution over multi-channel
// image buffers together with a Gaussian blur built on top of it.
//
// # Buffers
//
// An Image is a row-major view over a flat slice of samples, logically shaped
// [Height][Width][Channels] and addressed as ((row*Width)+col)*Channels+ch.
// The package never copies or retains caller buffers; it reads src and writes
// dst for the duration of a call. src and dst must not overlap.
//
// # Kernels
//
// A Kernel is a dense, fixed-stride matrix of float64 weights. Kernels are
// applied as a correlation: weight (ky, kx) multiplies the sample at
// (row+ky-RadiusY, col+kx-RadiusX). Odd dimensions give a centered window.
//
// # Border Handling
//
// Convolve runs two passes:
//
//  1. Interior: every pixel whose window lies fully inside the image. This
//     loop contains no bounds checks and never consults a Border.
//  2. Bands: the top, bottom, left and right strips the interior pass did not
//     cover. Each tap coordinate is remapped per axis through the Border.
//
// With None the second pass is skipped and border cells of dst keep whatever
// they held before the call.
//
// # Errors
//
// Configuration problems (empty or ragged kernels, invalid kernel sizes or
// sigma, mismatched buffers) are reported before any buffer is touched and can
// be matched with errors.Is against the Err* values. A kernel larger than the
// image is not an error.
package convolution
