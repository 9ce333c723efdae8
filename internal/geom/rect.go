package geom

import "math"

// Rect is an axis-aligned rectangle in device space.
// X, Y is the top-left corner.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NewRect creates a rect from its top-left corner and size.
func NewRect(x, y, width, height float64) Rect {
	return Rect{X: x, Y: y, Width: width, Height: height}
}

// RectFromCorners creates the rect spanned by two opposite corners, in any order.
func RectFromCorners(x0, y0, x1, y1 float64) Rect {
	return Rect{
		X:      math.Min(x0, x1),
		Y:      math.Min(y0, y1),
		Width:  math.Abs(x1 - x0),
		Height: math.Abs(y1 - y0),
	}
}

// RectFromPoints creates the rect spanned by two opposite corner points.
func RectFromPoints(p0, p1 ScreenPoint) Rect {
	return RectFromCorners(p0.X, p0.Y, p1.X, p1.Y)
}

// Left returns the x coordinate of the left edge.
func (r Rect) Left() float64 { return r.X }

// Top returns the y coordinate of the top edge.
func (r Rect) Top() float64 { return r.Y }

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Contains checks if a point is inside the rect.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width && y >= r.Y && y <= r.Y+r.Height
}

// ContainsPoint checks if p is inside the rect.
func (r Rect) ContainsPoint(p ScreenPoint) bool {
	return r.Contains(p.X, p.Y)
}

// IsEmpty checks if the rect has zero or negative area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Union returns the smallest rect containing both rects.
func (r Rect) Union(other Rect) Rect {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}

	minX := min(r.X, other.X)
	minY := min(r.Y, other.Y)
	maxX := max(r.Right(), other.Right())
	maxY := max(r.Bottom(), other.Bottom())

	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Center returns the center point of the rect.
func (r Rect) Center() ScreenPoint {
	return ScreenPoint{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Inflate grows the rect by d on every side.
func (r Rect) Inflate(d float64) Rect {
	return Rect{X: r.X - d, Y: r.Y - d, Width: r.Width + 2*d, Height: r.Height + 2*d}
}
