package convolution

// bandPass convolves the border strips of an image, resolving every tap
// coordinate through a Border before reading the input.
type bandPass[T Sample] struct {
	src, dst *Image[T]
	kernel   *Kernel
	border   Border
	narrow   narrower[T]
	acc      []float64
}

// convolveBands fills every output cell the interior pass does not reach.
//
// Top and bottom bands span the full width, so the corners belong to them.
// Left and right bands only cover the rows between. Band limits are clamped
// to the image, so a kernel larger than the image still writes each cell
// exactly once.
func convolveBands[T Sample](dst, src *Image[T], k *Kernel, border Border, narrow narrower[T]) {
	win := k.window()
	w, h := src.Width, src.Height

	topEnd := min(win.top, h)
	bottomStart := max(h-win.bottom, topEnd)
	leftEnd := min(win.left, w)
	rightStart := max(w-win.right, leftEnd)

	p := &bandPass[T]{
		src:    src,
		dst:    dst,
		kernel: k,
		border: border,
		narrow: narrow,
		acc:    make([]float64, src.Channels),
	}
	p.span(0, topEnd, 0, w)
	p.span(bottomStart, h, 0, w)
	p.span(topEnd, bottomStart, 0, leftEnd)
	p.span(topEnd, bottomStart, rightStart, w)
}

// span convolves the output rectangle rows [rowStart, rowEnd) x cols [colStart, colEnd).
func (p *bandPass[T]) span(rowStart, rowEnd, colStart, colEnd int) {
	k := p.kernel
	win := k.window()
	width, channels := p.src.Width, p.src.Channels
	extentY, extentX := p.src.Height-1, p.src.Width-1
	in, out := p.src.Pix, p.dst.Pix
	acc := p.acc

	for row := rowStart; row < rowEnd; row++ {
		for col := colStart; col < colEnd; col++ {
			clear(acc)
			t := 0
			for ky := 0; ky < k.height; ky++ {
				sy := p.border.Remap(row+ky-win.top, extentY)
				for kx := 0; kx < k.width; kx++ {
					sx := p.border.Remap(col+kx-win.left, extentX)
					wt := k.weights[t]
					t++
					base := (sy*width + sx) * channels
					for ch := range acc {
						acc[ch] += float64(in[base+ch]) * wt
					}
				}
			}
			base := (row*width + col) * channels
			for ch, v := range acc {
				out[base+ch] = p.narrow(v)
			}
		}
	}
}
