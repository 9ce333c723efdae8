package geom

import "math"

// ResamplePoints drops interior points that lie closer than minimumDistance to the
// previously kept point. NaN points split the sequence into runs; every run keeps its
// first and last point, and the NaN separators are preserved.
func ResamplePoints(points []ScreenPoint, minimumDistance float64) []ScreenPoint {
	if minimumDistance <= 0 || len(points) < 3 {
		return points
	}

	result := make([]ScreenPoint, 0, len(points))
	start := 0
	for i := 0; i <= len(points); i++ {
		if i < len(points) && points[i].IsDefined() {
			continue
		}
		result = append(result, resampleRun(points[start:i], minimumDistance)...)
		if i < len(points) {
			result = append(result, points[i])
		}
		start = i + 1
	}
	return result
}

func resampleRun(run []ScreenPoint, minimumDistance float64) []ScreenPoint {
	n := len(run)
	if n < 3 {
		return run
	}

	minSquared := minimumDistance * minimumDistance
	out := make([]ScreenPoint, 0, n)
	out = append(out, run[0])
	last := run[0]
	for i := 1; i < n; i++ {
		if i != n-1 && last.DistanceToSquared(run[i]) < minSquared {
			continue
		}
		out = append(out, run[i])
		last = run[i]
	}
	return out
}

// Arc returns n points on the ellipse arc around c from angle t0 to t1 (degrees).
func Arc(c ScreenPoint, rx, ry, t0, t1 float64, n int) []ScreenPoint {
	if n < 2 {
		n = 2
	}
	points := make([]ScreenPoint, n)
	for i := range n {
		t := t0 + (t1-t0)*float64(i)/float64(n-1)
		th := math.Pi / 180 * t
		points[i] = ScreenPoint{X: c.X + math.Cos(th)*rx, Y: c.Y + math.Sin(th)*ry}
	}
	return points
}

// DataArc is Arc in data space.
func DataArc(c DataPoint, rx, ry, t0, t1 float64, n int) []DataPoint {
	sp := Arc(ScreenPoint{X: c.X, Y: c.Y}, rx, ry, t0, t1, n)
	points := make([]DataPoint, len(sp))
	for i, p := range sp {
		points[i] = DataPoint{X: p.X, Y: p.Y}
	}
	return points
}

// NearestPointOnSegment returns the point of the segment a-b closest to p.
func NearestPointOnSegment(p, a, b ScreenPoint) ScreenPoint {
	ab := b.Sub(a)
	l2 := ab.LengthSquared()
	if l2 == 0 {
		return a
	}
	ap := p.Sub(a)
	t := (ap.X*ab.X + ap.Y*ab.Y) / l2
	t = math.Max(0, math.Min(1, t))
	return a.Add(ab.Mul(t))
}

// DistanceToSegment returns the distance from p to the segment a-b.
func DistanceToSegment(p, a, b ScreenPoint) float64 {
	return p.DistanceTo(NearestPointOnSegment(p, a, b))
}

// PolygonContains reports whether p is inside the closed polygon (even-odd rule).
func PolygonContains(points []ScreenPoint, p ScreenPoint) bool {
	inside := false
	n := len(points)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := points[i], points[j]
		if (a.Y > p.Y) != (b.Y > p.Y) &&
			p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
	}
	return inside
}
