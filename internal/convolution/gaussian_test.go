package convolution

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSigmaForKernelSize(t *testing.T) {
	assert.InDelta(t, 0.5, SigmaForKernelSize(1), 1e-12)
	assert.InDelta(t, 0.8, SigmaForKernelSize(3), 1e-12)
	assert.InDelta(t, 1.1, SigmaForKernelSize(5), 1e-12)
	assert.InDelta(t, 1.4, SigmaForKernelSize(7), 1e-12)
	assert.InDelta(t, 3.5, SigmaForKernelSize(21), 1e-12)
}

func TestGaussianKernel_SumsToOne(t *testing.T) {
	sizes := [][2]int{{1, 1}, {3, 3}, {5, 5}, {1, 7}, {9, 1}, {3, 7}, {15, 15}}
	for _, s := range sizes {
		k, err := GaussianKernel(s[0], s[1], SigmaForKernelSize(max(s[0], s[1])))
		require.NoError(t, err)
		assert.Equal(t, s[0], k.Height())
		assert.Equal(t, s[1], k.Width())
		assert.InDelta(t, 1.0, k.Sum(), 1e-12, "%dx%d", s[0], s[1])
	}
}

func TestGaussianKernel_Shape(t *testing.T) {
	k, err := GaussianKernel(5, 5, 1.1)
	require.NoError(t, err)

	center := k.At(2, 2)
	for i := 0; i < 5; i++ {
		for j := 0; j < 5; j++ {
			assert.LessOrEqual(t, k.At(i, j), center)
			assert.InDelta(t, k.At(i, j), k.At(4-i, j), 1e-15)
			assert.InDelta(t, k.At(i, j), k.At(i, 4-j), 1e-15)
			assert.InDelta(t, k.At(i, j), k.At(j, i), 1e-15)
		}
	}
	// exp(-0.5 * 1 / sigma^2) relative to the center.
	assert.InDelta(t, math.Exp(-0.5/(1.1*1.1)), k.At(2, 3)/center, 1e-12)
}

func TestGaussianKernel_IsOuterProductOfRows(t *testing.T) {
	sigma := SigmaForKernelSize(7)
	full, err := GaussianKernel(7, 7, sigma)
	require.NoError(t, err)
	row, err := GaussianKernel(1, 7, sigma)
	require.NoError(t, err)
	col, err := GaussianKernel(7, 1, sigma)
	require.NoError(t, err)

	for i := 0; i < 7; i++ {
		for j := 0; j < 7; j++ {
			assert.InDelta(t, col.At(i, 0)*row.At(0, j), full.At(i, j), 1e-15)
		}
	}
}

func TestGaussianKernel_Rejects(t *testing.T) {
	_, err := GaussianKernel(0, 3, 1)
	assert.ErrorIs(t, err, ErrInvalidKernelSize)
	_, err = GaussianKernel(3, -1, 1)
	assert.ErrorIs(t, err, ErrInvalidKernelSize)

	for _, sigma := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err = GaussianKernel(3, 3, sigma)
		assert.ErrorIs(t, err, ErrInvalidSigma, "sigma %v", sigma)
	}
}

func TestGaussianKernel_TinySigmaIsImpulse(t *testing.T) {
	k, err := GaussianKernel(3, 3, 1e-3)
	require.NoError(t, err)
	assert.Equal(t, 1.0, k.At(1, 1))
	assert.Equal(t, 0.0, k.At(0, 0))
}

func TestGaussianBlur_SizeOneIsIdentity(t *testing.T) {
	src := mustImage[uint8](t, 6, 4, 3)
	for i := range src.Pix {
		src.Pix[i] = uint8(i * 13)
	}
	for _, b := range allBorders {
		dst := mustImage[uint8](t, 6, 4, 3)
		require.NoError(t, GaussianBlur(dst, src, 1, b))
		assert.Equal(t, src.Pix, dst.Pix, b.String())

		require.NoError(t, GaussianBlurSeparable(dst, src, 1, b))
		assert.Equal(t, src.Pix, dst.Pix, b.String())
	}
}

func TestGaussianBlur_UniformImage(t *testing.T) {
	src := mustImage[uint8](t, 12, 9, 4)
	src.Fill(173)
	for _, b := range []Border{Extend, Mirror, Wrap} {
		dst := mustImage[uint8](t, 12, 9, 4)
		require.NoError(t, GaussianBlur(dst, src, 5, b))
		for _, v := range dst.Pix {
			require.Equal(t, uint8(173), v, b.String())
		}

		require.NoError(t, GaussianBlurSeparable(dst, src, 5, b))
		for _, v := range dst.Pix {
			require.Equal(t, uint8(173), v, b.String())
		}
	}
}

func TestGaussianBlur_SeparableMatchesJointOnInterior(t *testing.T) {
	const w, h, c, ksize = 16, 12, 3, 5
	src := randomImage(t, w, h, c, 99)
	r := (ksize - 1) / 2

	for _, b := range allBorders {
		t.Run(b.String(), func(t *testing.T) {
			joint := mustImage[float64](t, w, h, c)
			sep := mustImage[float64](t, w, h, c)
			require.NoError(t, GaussianBlur(joint, src, ksize, b))
			require.NoError(t, GaussianBlurSeparable(sep, src, ksize, b))

			for row := r; row < h-r; row++ {
				for col := r; col < w-r; col++ {
					for ch := 0; ch < c; ch++ {
						assert.InDelta(t, joint.At(row, col, ch), sep.At(row, col, ch), 1e-9)
					}
				}
			}
		})
	}
}

func TestGaussianBlur_SeparableMatchesJointUint8(t *testing.T) {
	const w, h, ksize = 20, 14, 7
	src := mustImage[uint8](t, w, h, 1)
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			src.Set(row, col, 0, uint8((row*31+col*17)%256))
		}
	}
	joint := mustImage[uint8](t, w, h, 1)
	sep := mustImage[uint8](t, w, h, 1)
	require.NoError(t, GaussianBlur(joint, src, ksize, Extend))
	require.NoError(t, GaussianBlurSeparable(sep, src, ksize, Extend))

	r := (ksize - 1) / 2
	for row := r; row < h-r; row++ {
		for col := r; col < w-r; col++ {
			diff := int(joint.At(row, col, 0)) - int(sep.At(row, col, 0))
			assert.LessOrEqual(t, diff*diff, 1, "(%d,%d)", row, col)
		}
	}
}

func TestGaussianBlur_ExplicitSigma(t *testing.T) {
	src := randomImage(t, 9, 9, 1, 1)
	derived := mustImage[float64](t, 9, 9, 1)
	explicit := mustImage[float64](t, 9, 9, 1)
	wider := mustImage[float64](t, 9, 9, 1)

	require.NoError(t, GaussianBlur(derived, src, 5, Mirror))
	require.NoError(t, GaussianBlurSigma(explicit, src, 5, SigmaForKernelSize(5), Mirror))
	require.NoError(t, GaussianBlurSigma(wider, src, 5, 3, Mirror))

	assert.Equal(t, derived.Pix, explicit.Pix)
	assert.NotEqual(t, derived.Pix, wider.Pix)

	sep := mustImage[float64](t, 9, 9, 1)
	require.NoError(t, GaussianBlurSeparableSigma(sep, src, 5, -1, Mirror))
	assert.InDelta(t, derived.At(4, 4, 0), sep.At(4, 4, 0), 1e-9)
}

func TestGaussianBlur_Rejects(t *testing.T) {
	src := mustImage[uint8](t, 4, 4, 1)
	dst := mustImage[uint8](t, 4, 4, 1)

	for _, ksize := range []int{0, -3, 2, 4} {
		assert.ErrorIs(t, GaussianBlur(dst, src, ksize, Extend), ErrInvalidKernelSize, "ksize %d", ksize)
		assert.ErrorIs(t, GaussianBlurSeparable(dst, src, ksize, Extend), ErrInvalidKernelSize, "ksize %d", ksize)
	}
	assert.ErrorIs(t, GaussianBlurSigma(dst, src, 3, math.NaN(), Extend), ErrInvalidSigma)
	assert.ErrorIs(t, GaussianBlurSeparable(dst, src, 3, Border(7)), ErrUnknownBorder)

	other := mustImage[uint8](t, 4, 3, 1)
	other.Fill(5)
	assert.ErrorIs(t, GaussianBlurSeparable(other, src, 3, Extend), ErrGeometryMismatch)
	for _, v := range other.Pix {
		assert.Equal(t, uint8(5), v)
	}
}
