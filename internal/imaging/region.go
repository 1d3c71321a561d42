package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Region is a rectangle in image coordinates: X1,Y1 inclusive, X2,Y2 exclusive.
type Region struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Rect converts r to an image.Rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X1, r.Y1, r.X2, r.Y2)
}

// NamedRegion resolves a named part of bounds.
//
// Names: top-left, top-right, bottom-left, bottom-right, top-half,
// bottom-half, left-half, right-half, center (the middle 50%) and full.
func NamedRegion(bounds image.Rectangle, name string) (Region, error) {
	w, h := bounds.Dx(), bounds.Dy()
	midX, midY := w/2, h/2

	var r Region
	switch name {
	case "full", "":
		r = Region{0, 0, w, h}
	case "top-left":
		r = Region{0, 0, midX, midY}
	case "top-right":
		r = Region{midX, 0, w, midY}
	case "bottom-left":
		r = Region{0, midY, midX, h}
	case "bottom-right":
		r = Region{midX, midY, w, h}
	case "top-half":
		r = Region{0, 0, w, midY}
	case "bottom-half":
		r = Region{0, midY, w, h}
	case "left-half":
		r = Region{0, 0, midX, h}
	case "right-half":
		r = Region{midX, 0, w, h}
	case "center":
		qW, qH := w/4, h/4
		r = Region{qW, qH, w - qW, h - qH}
	default:
		return Region{}, fmt.Errorf("unknown region: %s", name)
	}

	r.X1 += bounds.Min.X
	r.X2 += bounds.Min.X
	r.Y1 += bounds.Min.Y
	r.Y2 += bounds.Min.Y
	return r, nil
}

// cropRegion returns the part of img covered by r, or img itself when r is nil.
// The filters then treat the crop edges as image edges.
func cropRegion(img image.Image, r *Region) (image.Image, error) {
	if r == nil {
		return img, nil
	}

	bounds := img.Bounds()
	if r.X1 < bounds.Min.X || r.Y1 < bounds.Min.Y || r.X2 > bounds.Max.X || r.Y2 > bounds.Max.Y {
		return nil, fmt.Errorf("region (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
			r.X1, r.Y1, r.X2, r.Y2, bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
	}
	if r.X1 >= r.X2 || r.Y1 >= r.Y2 {
		return nil, fmt.Errorf("invalid region: x1 must be < x2, y1 must be < y2")
	}
	return imaging.Crop(img, r.Rect()), nil
}
