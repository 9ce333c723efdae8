package render

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/oxydraw/oxydraw/internal/drawing"
	"github.com/oxydraw/oxydraw/internal/engine"
	"github.com/oxydraw/oxydraw/internal/geom"
)

// Raster is a RenderContext that draws into an RGBA image with anti-aliasing.
type Raster struct {
	// Screen is returned by RendersToScreen. Exports leave it false so that tile
	// layers load their tiles before drawing.
	Screen bool

	img      *image.RGBA
	z        *vector.Rasterizer
	measurer *Measurer
}

var _ engine.RenderContext = (*Raster)(nil)

// NewRaster creates a width x height image filled with background.
func NewRaster(width, height int, background drawing.Color) *Raster {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	if background.IsVisible() {
		xdraw.Draw(img, img.Bounds(), image.NewUniform(background.NRGBA()), image.Point{}, xdraw.Src)
	}
	return &Raster{
		img:      img,
		z:        vector.NewRasterizer(width, height),
		measurer: NewMeasurer(),
	}
}

// Image returns the target image.
func (r *Raster) Image() *image.RGBA { return r.img }

// EncodePNG writes the image as PNG.
func (r *Raster) EncodePNG(w io.Writer) error {
	return png.Encode(w, r.img)
}

// fillPolygons fills the union of polys.
func (r *Raster) fillPolygons(polys [][]geom.ScreenPoint, c drawing.Color) {
	if c.IsInvisible() || len(polys) == 0 {
		return
	}
	b := r.img.Bounds()
	r.z.Reset(b.Dx(), b.Dy())
	drawn := false
	for _, poly := range polys {
		first := true
		for _, p := range poly {
			if !p.IsDefined() {
				continue
			}
			if first {
				r.z.MoveTo(float32(p.X), float32(p.Y))
				first = false
				continue
			}
			r.z.LineTo(float32(p.X), float32(p.Y))
		}
		if !first {
			r.z.ClosePath()
			drawn = true
		}
	}
	if drawn {
		r.z.Draw(r.img, b, image.NewUniform(c.NRGBA()), image.Point{})
	}
}

// strokePolygons returns the outline of the path through points as polygons with
// a common orientation, so that their union fills without holes.
func strokePolygons(points []geom.ScreenPoint, pen engine.Pen, closed bool) [][]geom.ScreenPoint {
	if !pen.IsVisible() {
		return nil
	}
	var out [][]geom.ScreenPoint
	for _, run := range splitRuns(points) {
		if pen.Aliased {
			run = snap(run, pen.Thickness)
		}
		if closed && len(run) > 2 {
			run = append(run[:len(run):len(run)], run[0])
		}
		for _, dash := range dashes(run, pen) {
			out = append(out, strokeRun(dash, pen.Thickness/2)...)
		}
	}
	return out
}

func splitRuns(points []geom.ScreenPoint) [][]geom.ScreenPoint {
	var runs [][]geom.ScreenPoint
	start := 0
	for i, p := range points {
		if p.IsDefined() {
			continue
		}
		if i-start > 0 {
			runs = append(runs, points[start:i])
		}
		start = i + 1
	}
	if len(points)-start > 0 {
		runs = append(runs, points[start:])
	}
	return runs
}

// snap moves points to pixel centers for odd widths and to pixel edges for even ones.
func snap(points []geom.ScreenPoint, thickness float64) []geom.ScreenPoint {
	offset := 0.0
	if int(math.Round(thickness))%2 == 1 {
		offset = 0.5
	}
	out := make([]geom.ScreenPoint, len(points))
	for i, p := range points {
		out[i] = geom.SP(math.Floor(p.X)+offset, math.Floor(p.Y)+offset)
	}
	return out
}

// dashes splits a run into its visible dashes.
func dashes(run []geom.ScreenPoint, pen engine.Pen) [][]geom.ScreenPoint {
	if len(pen.Dash) == 0 {
		return [][]geom.ScreenPoint{run}
	}
	pattern := make([]float64, len(pen.Dash))
	for i, d := range pen.Dash {
		pattern[i] = math.Max(d*pen.Thickness, 0.5)
	}

	var out [][]geom.ScreenPoint
	index, remaining, on := 0, pattern[0], true
	current := []geom.ScreenPoint{run[0]}
	for i := 1; i < len(run); i++ {
		a, b := run[i-1], run[i]
		length := b.DistanceTo(a)
		pos := 0.0
		for length-pos > remaining {
			pos += remaining
			p := a.Add(b.Sub(a).Mul(pos / length))
			if on {
				out = append(out, append(current, p))
			}
			current = []geom.ScreenPoint{p}
			on = !on
			index = (index + 1) % len(pattern)
			remaining = pattern[index]
		}
		remaining -= length - pos
		current = append(current, b)
	}
	if on && len(current) > 1 {
		out = append(out, current)
	}
	return out
}

// strokeRun returns one quad per segment and a disc at every interior vertex.
func strokeRun(run []geom.ScreenPoint, half float64) [][]geom.ScreenPoint {
	var out [][]geom.ScreenPoint
	for i := 1; i < len(run); i++ {
		a, b := run[i-1], run[i]
		n := b.Sub(a).Normalize()
		n = geom.SV(-n.Y, n.X).Mul(half)
		if n.LengthSquared() == 0 {
			continue
		}
		out = append(out, oriented([]geom.ScreenPoint{a.Add(n), b.Add(n), b.Minus(n), a.Minus(n)}))
		if i < len(run)-1 && half >= 1 {
			out = append(out, oriented(geom.Arc(b, half, half, 0, 360, 12)))
		}
	}
	return out
}

// oriented returns poly with a negative signed area.
func oriented(poly []geom.ScreenPoint) []geom.ScreenPoint {
	area := 0.0
	for i := range poly {
		p, q := poly[i], poly[(i+1)%len(poly)]
		area += p.X*q.Y - q.X*p.Y
	}
	if area > 0 {
		for i, j := 0, len(poly)-1; i < j; i, j = i+1, j-1 {
			poly[i], poly[j] = poly[j], poly[i]
		}
	}
	return poly
}

func rectPoints(rect geom.Rect) []geom.ScreenPoint {
	return []geom.ScreenPoint{
		geom.SP(rect.Left(), rect.Top()), geom.SP(rect.Right(), rect.Top()),
		geom.SP(rect.Right(), rect.Bottom()), geom.SP(rect.Left(), rect.Bottom()),
	}
}

func ellipsePoints(rect geom.Rect) []geom.ScreenPoint {
	perimeter := math.Pi * (rect.Width + rect.Height) / 2
	n := int(math.Min(math.Max(perimeter/2, 16), 256))
	return geom.Arc(rect.Center(), rect.Width/2, rect.Height/2, 0, 360, n)
}

func (r *Raster) DrawLine(points []geom.ScreenPoint, pen engine.Pen) {
	r.fillPolygons(strokePolygons(points, pen, false), pen.Color)
}

func (r *Raster) DrawLineSegments(points []geom.ScreenPoint, pen engine.Pen) {
	var polys [][]geom.ScreenPoint
	for i := 0; i+1 < len(points); i += 2 {
		polys = append(polys, strokePolygons(points[i:i+2], pen, false)...)
	}
	r.fillPolygons(polys, pen.Color)
}

func (r *Raster) DrawPolygon(points []geom.ScreenPoint, fill drawing.Color, pen engine.Pen) {
	r.fillPolygons([][]geom.ScreenPoint{points}, fill)
	r.fillPolygons(strokePolygons(points, pen, true), pen.Color)
}

func (r *Raster) DrawRectangle(rect geom.Rect, fill drawing.Color, pen engine.Pen) {
	r.DrawPolygon(rectPoints(rect), fill, pen)
}

func (r *Raster) DrawEllipse(rect geom.Rect, fill drawing.Color, pen engine.Pen) {
	if rect.Width <= 0 || rect.Height <= 0 {
		return
	}
	r.DrawPolygon(ellipsePoints(rect), fill, pen)
}

func (r *Raster) MeasureText(text string, f engine.Font) geom.Size {
	return r.measurer.MeasureText(text, f)
}

func (r *Raster) DrawText(p geom.ScreenPoint, text string, style engine.TextStyle) {
	if text == "" || style.Color.IsInvisible() {
		return
	}
	face, err := r.measurer.Face(style.Font)
	if err != nil {
		slog.Debug("raster text skipped", "error", err)
		return
	}
	if face == nil {
		return
	}
	size := r.measurer.MeasureText(text, style.Font)
	offset := alignOffset(size, style)
	src := image.NewUniform(style.Color.NRGBA())

	if style.Rotate == 0 {
		drawString(r.img, src, face, p.Add(offset), text)
		return
	}

	// Draw into a scratch image and map it onto the target rotated around p.
	w, h := int(math.Ceil(size.Width)), int(math.Ceil(size.Height))
	if w <= 0 || h <= 0 {
		return
	}
	scratch := image.NewRGBA(image.Rect(0, 0, w, h))
	drawString(scratch, src, face, geom.SP(0, 0), text)
	m := geom.Translate(p.X, p.Y).Multiply(geom.RotateDegrees(style.Rotate)).Multiply(geom.Translate(offset.X, offset.Y))
	xdraw.BiLinear.Transform(r.img, f64.Aff3{m[0], m[2], m[4], m[1], m[3], m[5]}, scratch, scratch.Bounds(), xdraw.Over, nil)
}

// drawString draws text with its top-left corner at topLeft.
func drawString(dst xdraw.Image, src image.Image, face font.Face, topLeft geom.ScreenPoint, text string) {
	d := font.Drawer{
		Dst:  dst,
		Src:  src,
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.Int26_6(topLeft.X * 64),
			Y: fixed.Int26_6(topLeft.Y*64) + face.Metrics().Ascent,
		},
	}
	d.DrawString(text)
}

func (r *Raster) DrawImage(img image.Image, src image.Rectangle, dest geom.Rect, opacity float64, interpolate bool) {
	r.drawImage(r.img.Bounds(), img, src, dest, opacity, interpolate)
}

func (r *Raster) DrawClippedImage(clip geom.Rect, img image.Image, src image.Rectangle, dest geom.Rect, opacity float64, interpolate bool) {
	c := image.Rect(int(math.Floor(clip.Left())), int(math.Floor(clip.Top())), int(math.Ceil(clip.Right())), int(math.Ceil(clip.Bottom())))
	r.drawImage(c.Intersect(r.img.Bounds()), img, src, dest, opacity, interpolate)
}

func (r *Raster) drawImage(clip image.Rectangle, img image.Image, src image.Rectangle, dest geom.Rect, opacity float64, interpolate bool) {
	if img == nil || opacity <= 0 || src.Empty() {
		return
	}
	dr := image.Rect(int(math.Round(dest.Left())), int(math.Round(dest.Top())), int(math.Round(dest.Right())), int(math.Round(dest.Bottom())))
	visible := dr.Intersect(clip)
	if visible.Empty() {
		return
	}

	var scaler xdraw.Scaler = xdraw.NearestNeighbor
	if interpolate {
		scaler = xdraw.BiLinear
	}
	scaled := image.NewRGBA(dr)
	scaler.Scale(scaled, dr, img, src, xdraw.Src, nil)

	alpha := uint8(math.Round(math.Min(opacity, 1) * 255))
	xdraw.DrawMask(r.img, visible, scaled, visible.Min, image.NewUniform(color.Alpha{A: alpha}), image.Point{}, xdraw.Over)
}

func (r *Raster) RendersToScreen() bool { return r.Screen }

// CleanUp releases cached font faces.
func (r *Raster) CleanUp() {
	r.measurer.Close()
}
