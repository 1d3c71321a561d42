package convolution

// tapOffsets returns, for each kernel weight in row-major order, the distance
// in samples from the anchor pixel to the pixel that weight multiplies.
func tapOffsets(k *Kernel, width, channels int) []int {
	win := k.window()
	offsets := make([]int, 0, k.width*k.height)
	for ky := 0; ky < k.height; ky++ {
		for kx := 0; kx < k.width; kx++ {
			offsets = append(offsets, ((ky-win.top)*width+(kx-win.left))*channels)
		}
	}
	return offsets
}

// interiorRows returns the half-open row range whose windows never leave the
// image. The range is empty when the kernel is taller than the image.
func interiorRows(k *Kernel, height int) (start, end int) {
	win := k.window()
	return win.top, height - win.bottom
}

// convolveInterior computes output rows [rowStart, rowEnd) for every column
// whose window lies inside src. The caller guarantees the row range is
// within interiorRows; nothing here checks bounds or consults a Border.
func convolveInterior[T Sample](dst, src *Image[T], k *Kernel, narrow narrower[T], rowStart, rowEnd int) {
	win := k.window()
	width, channels := src.Width, src.Channels
	colEnd := width - win.right
	offsets := tapOffsets(k, width, channels)
	weights := k.weights
	in, out := src.Pix, dst.Pix

	for row := rowStart; row < rowEnd; row++ {
		for col := win.left; col < colEnd; col++ {
			base := (row*width + col) * channels
			for ch := 0; ch < channels; ch++ {
				p := base + ch
				var sum float64
				for t, off := range offsets {
					sum += float64(in[p+off]) * weights[t]
				}
				out[p] = narrow(sum)
			}
		}
	}
}
