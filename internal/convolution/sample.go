package convolution

import (
	"math"
	"reflect"

	"golang.org/x/exp/constraints"
)

// Sample is the set of element types an Image can hold.
type Sample interface {
	constraints.Integer | constraints.Float
}

// narrower converts an accumulated float64 sum back to the element type.
type narrower[T Sample] func(float64) T

// newNarrower returns the conversion used when writing output samples.
//
// Floating-point element types convert directly. Integer element types round
// to the nearest value and saturate to the range of the type, so a sum such as
// 9.9999999 stored into a uint8 yields 10 rather than 9, and overshoot from
// kernels with negative lobes does not wrap around.
func newNarrower[T Sample]() narrower[T] {
	var zero T
	typ := reflect.TypeOf(zero)

	var lo, hi float64
	bits := int(typ.Size()) * 8
	switch typ.Kind() {
	case reflect.Float32, reflect.Float64:
		return func(v float64) T { return T(v) }
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		lo = -math.Ldexp(1, bits-1)
		hi = math.Ldexp(1, bits-1) - 1
	default:
		lo = 0
		hi = math.Ldexp(1, bits) - 1
	}
	if bits == 64 {
		// 2^63-1 and 2^64-1 round up to a power of two in float64
		hi = math.Nextafter(hi, 0)
	}

	return func(v float64) T {
		switch {
		case v != v:
			return 0
		case v <= lo:
			return T(lo)
		case v >= hi:
			return T(hi)
		}
		return T(math.Round(v))
	}
}
