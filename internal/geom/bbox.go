package geom

import "math"

// BoundingBox is a mutable axis-aligned box in data space.
// A box whose MinimumX is NaN is empty; the zero value is NOT empty, use EmptyBox.
type BoundingBox struct {
	MinimumX float64 `json:"minimumX"`
	MinimumY float64 `json:"minimumY"`
	MaximumX float64 `json:"maximumX"`
	MaximumY float64 `json:"maximumY"`
}

// EmptyBox returns a box that contains nothing.
func EmptyBox() BoundingBox {
	return BoundingBox{MinimumX: math.NaN()}
}

// NewBox returns the box with the given bounds.
func NewBox(minimumX, minimumY, maximumX, maximumY float64) BoundingBox {
	return BoundingBox{MinimumX: minimumX, MinimumY: minimumY, MaximumX: maximumX, MaximumY: maximumY}
}

// IsEmpty reports whether the box contains nothing.
func (b BoundingBox) IsEmpty() bool {
	return math.IsNaN(b.MinimumX)
}

// Union grows the box minimally to include (x, y).
func (b *BoundingBox) Union(x, y float64) {
	if b.IsEmpty() {
		b.MinimumX, b.MaximumX = x, x
		b.MinimumY, b.MaximumY = y, y
		return
	}

	if x < b.MinimumX {
		b.MinimumX = x
	}
	if x > b.MaximumX {
		b.MaximumX = x
	}
	if y < b.MinimumY {
		b.MinimumY = y
	}
	if y > b.MaximumY {
		b.MaximumY = y
	}
}

// UnionPoint grows the box to include p.
func (b *BoundingBox) UnionPoint(p DataPoint) {
	b.Union(p.X, p.Y)
}

// UnionBox grows the box to include o. Empty boxes are ignored.
func (b *BoundingBox) UnionBox(o BoundingBox) {
	if o.IsEmpty() {
		return
	}
	b.Union(o.MinimumX, o.MinimumY)
	b.Union(o.MaximumX, o.MaximumY)
}

// Width returns MaximumX - MinimumX.
func (b BoundingBox) Width() float64 {
	return b.MaximumX - b.MinimumX
}

// Height returns MaximumY - MinimumY.
func (b BoundingBox) Height() float64 {
	return b.MaximumY - b.MinimumY
}

// Center returns the center of the box.
func (b BoundingBox) Center() DataPoint {
	return DataPoint{X: (b.MinimumX + b.MaximumX) * 0.5, Y: (b.MinimumY + b.MaximumY) * 0.5}
}

// Contains reports whether p lies inside the box.
func (b BoundingBox) Contains(p DataPoint) bool {
	if b.IsEmpty() {
		return false
	}
	return p.X >= b.MinimumX && p.X <= b.MaximumX && p.Y >= b.MinimumY && p.Y <= b.MaximumY
}
