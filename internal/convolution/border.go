package convolution

import (
	"fmt"
	"strings"
)

// Border selects how samples outside the image are resolved.
type Border int

const (
	// Extend clamps out-of-range coordinates to the nearest edge.
	Extend Border = iota

	// Mirror reflects coordinates about the edges with period 2*extent,
	// without repeating the edge sample (… 2 1 | 0 1 2 … e | e-1 e-2 …).
	Mirror

	// Wrap tiles the image: coordinates wrap modulo the image size.
	Wrap

	// None computes interior pixels only. Border cells of the output keep the
	// values they held before the call.
	None
)

var borderNames = [...]string{
	Extend: "extend",
	Mirror: "mirror",
	Wrap:   "wrap",
	None:   "none",
}

// String returns the lowercase name of the border mode.
func (b Border) String() string {
	if b.valid() {
		return borderNames[b]
	}
	return fmt.Sprintf("Border(%d)", int(b))
}

func (b Border) valid() bool {
	return b >= Extend && b <= None
}

// ParseBorder converts a border name to a Border. Matching is
// case-insensitive and accepts common aliases:
//   - "extend", "clamp", "replicate" -> Extend
//   - "mirror", "reflect" -> Mirror
//   - "wrap", "tile", "periodic" -> Wrap
//   - "none", "wo", "interior" -> None
func ParseBorder(s string) (Border, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "extend", "clamp", "replicate":
		return Extend, nil
	case "mirror", "reflect":
		return Mirror, nil
	case "wrap", "tile", "periodic":
		return Wrap, nil
	case "none", "wo", "interior":
		return None, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownBorder, s)
}

// MarshalText implements encoding.TextMarshaler.
func (b Border) MarshalText() ([]byte, error) {
	if !b.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownBorder, int(b))
	}
	return []byte(b.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *Border) UnmarshalText(text []byte) error {
	v, err := ParseBorder(string(text))
	if err != nil {
		return err
	}
	*b = v
	return nil
}

// Coordinate is a (row, col) sample position.
type Coordinate struct {
	Row int
	Col int
}

// Remap resolves one axis. pos is the requested coordinate and extent the
// last valid index on that axis (size-1). Positions already inside
// [0, extent] are returned unchanged for every mode.
func (b Border) Remap(pos, extent int) int {
	if pos >= 0 && pos <= extent {
		return pos
	}
	switch b {
	case Extend:
		return ClampCoordinate(pos, extent)
	case Mirror:
		return MirrorCoordinate(pos, extent)
	case Wrap:
		return WrapCoordinate(pos, extent)
	}
	return pos
}

// Resolve remaps a (row, col) pair, each axis checked against its own extent.
func (b Border) Resolve(row, col, extentY, extentX int) Coordinate {
	return Coordinate{Row: b.Remap(row, extentY), Col: b.Remap(col, extentX)}
}

// ClampCoordinate returns pos limited to [0, extent].
func ClampCoordinate(pos, extent int) int {
	switch {
	case pos > extent:
		return extent
	case pos < 0:
		return 0
	}
	return pos
}

// MirrorCoordinate reflects pos back into [0, extent].
//
// The pattern ping-pongs with period 2*extent: with d = |pos|, the result is
// d%extent on even repetitions of d/extent and extent-d%extent on odd ones.
// A single-sample axis (extent 0) always resolves to 0.
func MirrorCoordinate(pos, extent int) int {
	if extent <= 0 {
		return 0
	}
	d := pos
	if d < 0 {
		d = -d
	}
	rep, m := d/extent, d%extent
	if rep%2 == 0 {
		return m
	}
	return extent - m
}

// WrapCoordinate wraps pos onto [0, extent] with period extent+1.
func WrapCoordinate(pos, extent int) int {
	n := extent + 1
	if n <= 0 {
		return 0
	}
	i := (pos + n) % n
	if i < 0 {
		i += n
	}
	return i
}
