package geom

import "math"

// DataPoint is a point in data space, the user-defined coordinate system shapes are
// specified in. Y increases upward.
// A DataPoint with NaN coordinates marks a break in a point sequence.
type DataPoint struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Undefined is the path-break sentinel.
var Undefined = DataPoint{X: math.NaN(), Y: math.NaN()}

// Pt returns the data point (x, y).
func Pt(x, y float64) DataPoint {
	return DataPoint{X: x, Y: y}
}

// IsDefined reports whether both coordinates are numbers.
func (p DataPoint) IsDefined() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y)
}

// ScreenPoint is a point in device space (pixels). Y increases downward.
type ScreenPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// SP returns the screen point (x, y).
func SP(x, y float64) ScreenPoint {
	return ScreenPoint{X: x, Y: y}
}

// IsDefined reports whether both coordinates are numbers.
func (p ScreenPoint) IsDefined() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y)
}

// Sub returns the vector from q to p.
func (p ScreenPoint) Sub(q ScreenPoint) ScreenVector {
	return ScreenVector{X: p.X - q.X, Y: p.Y - q.Y}
}

// Add offsets the point by v.
func (p ScreenPoint) Add(v ScreenVector) ScreenPoint {
	return ScreenPoint{X: p.X + v.X, Y: p.Y + v.Y}
}

// Minus offsets the point by -v.
func (p ScreenPoint) Minus(v ScreenVector) ScreenPoint {
	return ScreenPoint{X: p.X - v.X, Y: p.Y - v.Y}
}

// DistanceTo returns the euclidean distance between p and q.
func (p ScreenPoint) DistanceTo(q ScreenPoint) float64 {
	return math.Sqrt(p.DistanceToSquared(q))
}

// DistanceToSquared returns the squared distance between p and q.
func (p ScreenPoint) DistanceToSquared(q ScreenPoint) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return dx*dx + dy*dy
}

// ScreenVector is a displacement in device space.
type ScreenVector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// SV returns the screen vector (x, y).
func SV(x, y float64) ScreenVector {
	return ScreenVector{X: x, Y: y}
}

// Length returns the euclidean length of the vector.
func (v ScreenVector) Length() float64 {
	return math.Sqrt(v.LengthSquared())
}

// LengthSquared returns the squared length of the vector.
func (v ScreenVector) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Normalize returns a unit vector with the direction of v.
// The zero vector is returned unchanged.
func (v ScreenVector) Normalize() ScreenVector {
	l := v.Length()
	if l == 0 {
		return v
	}
	return ScreenVector{X: v.X / l, Y: v.Y / l}
}

// Mul scales the vector by f.
func (v ScreenVector) Mul(f float64) ScreenVector {
	return ScreenVector{X: v.X * f, Y: v.Y * f}
}

// Add returns v + w.
func (v ScreenVector) Add(w ScreenVector) ScreenVector {
	return ScreenVector{X: v.X + w.X, Y: v.Y + w.Y}
}

// Sub returns v - w.
func (v ScreenVector) Sub(w ScreenVector) ScreenVector {
	return ScreenVector{X: v.X - w.X, Y: v.Y - w.Y}
}

// Neg returns -v.
func (v ScreenVector) Neg() ScreenVector {
	return ScreenVector{X: -v.X, Y: -v.Y}
}

// Size is a width/height pair in device units.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}
