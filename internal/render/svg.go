package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"math"
	"strings"

	svg "github.com/ajstarks/svgo"

	"github.com/oxydraw/oxydraw/internal/drawing"
	"github.com/oxydraw/oxydraw/internal/engine"
	"github.com/oxydraw/oxydraw/internal/geom"
)

// SVG is a RenderContext that writes an SVG document. The document is closed by
// CleanUp, so an SVG renders exactly one frame.
type SVG struct {
	canvas   *svg.SVG
	measurer *Measurer
	element  string
	clips    int
	closed   bool
}

var (
	_ engine.RenderContext = (*SVG)(nil)
	_ engine.ElementMarker = (*SVG)(nil)
)

// NewSVG starts a width x height document on w.
func NewSVG(w io.Writer, width, height int, background drawing.Color) *SVG {
	canvas := svg.New(w)
	canvas.Start(width, height)
	if background.IsVisible() {
		canvas.Rect(0, 0, width, height, fmt.Sprintf("fill:%s;stroke:none", background.CSS()))
	}
	return &SVG{canvas: canvas, measurer: NewMeasurer()}
}

// BeginElement tags the following shapes with the element ID.
func (s *SVG) BeginElement(id string) {
	s.element = id
}

func (s *SVG) attrs(style string) []string {
	out := []string{style}
	if s.element != "" {
		out = append(out, fmt.Sprintf(`data-element="%s"`, s.element))
	}
	return out
}

func strokeStyle(pen engine.Pen) string {
	if !pen.IsVisible() {
		return "stroke:none"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "stroke:%s;stroke-width:%s", pen.Color.CSS(), formatFloat(pen.Thickness))
	if op := pen.Color.Opacity(); op < 1 {
		fmt.Fprintf(&b, ";stroke-opacity:%s", formatFloat(op))
	}
	if len(pen.Dash) > 0 {
		parts := make([]string, len(pen.Dash))
		for i, d := range pen.Dash {
			parts[i] = formatFloat(d * pen.Thickness)
		}
		fmt.Fprintf(&b, ";stroke-dasharray:%s", strings.Join(parts, ","))
	}
	if pen.Join != "" {
		fmt.Fprintf(&b, ";stroke-linejoin:%s", pen.Join)
	}
	if pen.Aliased {
		b.WriteString(";shape-rendering:crispEdges")
	}
	return b.String()
}

func fillStyle(fill drawing.Color) string {
	if fill.IsInvisible() {
		return "fill:none"
	}
	if op := fill.Opacity(); op < 1 {
		return fmt.Sprintf("fill:%s;fill-opacity:%s", fill.CSS(), formatFloat(op))
	}
	return "fill:" + fill.CSS()
}

// pathData formats points as SVG path data. Undefined points start a new subpath.
func pathData(points []geom.ScreenPoint, closed bool) string {
	var b strings.Builder
	move := true
	for _, p := range points {
		if !p.IsDefined() {
			move = true
			continue
		}
		if move {
			if b.Len() > 0 && closed {
				b.WriteString("Z ")
			}
			b.WriteString("M")
			move = false
		} else {
			b.WriteString("L")
		}
		fmt.Fprintf(&b, "%s,%s ", formatFloat(p.X), formatFloat(p.Y))
	}
	if b.Len() > 0 && closed {
		b.WriteString("Z")
	}
	return strings.TrimSpace(b.String())
}

func (s *SVG) DrawLine(points []geom.ScreenPoint, pen engine.Pen) {
	if !pen.IsVisible() {
		return
	}
	if d := pathData(points, false); d != "" {
		s.canvas.Path(d, s.attrs("fill:none;"+strokeStyle(pen))...)
	}
}

func (s *SVG) DrawLineSegments(points []geom.ScreenPoint, pen engine.Pen) {
	if !pen.IsVisible() {
		return
	}
	var b strings.Builder
	for i := 0; i+1 < len(points); i += 2 {
		p, q := points[i], points[i+1]
		if !p.IsDefined() || !q.IsDefined() {
			continue
		}
		fmt.Fprintf(&b, "M%s,%s L%s,%s ", formatFloat(p.X), formatFloat(p.Y), formatFloat(q.X), formatFloat(q.Y))
	}
	if b.Len() > 0 {
		s.canvas.Path(strings.TrimSpace(b.String()), s.attrs("fill:none;"+strokeStyle(pen))...)
	}
}

func (s *SVG) DrawPolygon(points []geom.ScreenPoint, fill drawing.Color, pen engine.Pen) {
	if fill.IsInvisible() && !pen.IsVisible() {
		return
	}
	if d := pathData(points, true); d != "" {
		s.canvas.Path(d, s.attrs(fillStyle(fill)+";"+strokeStyle(pen))...)
	}
}

func (s *SVG) DrawRectangle(rect geom.Rect, fill drawing.Color, pen engine.Pen) {
	s.DrawPolygon(rectPoints(rect), fill, pen)
}

func (s *SVG) DrawEllipse(rect geom.Rect, fill drawing.Color, pen engine.Pen) {
	if rect.Width <= 0 || rect.Height <= 0 || (fill.IsInvisible() && !pen.IsVisible()) {
		return
	}
	c := rect.Center()
	s.canvas.Ellipse(round(c.X), round(c.Y), round(rect.Width/2), round(rect.Height/2),
		s.attrs(fillStyle(fill)+";"+strokeStyle(pen))...)
}

func (s *SVG) DrawText(p geom.ScreenPoint, text string, style engine.TextStyle) {
	if text == "" || style.Color.IsInvisible() || !(style.Font.Size > 0) {
		return
	}
	anchor := "start"
	switch style.HAlign {
	case drawing.AlignCenter:
		anchor = "middle"
	case drawing.AlignRight:
		anchor = "end"
	}
	baseline := "hanging"
	switch style.VAlign {
	case drawing.AlignMiddle:
		baseline = "middle"
	case drawing.AlignBottom:
		baseline = "text-after-edge"
	}
	css := fmt.Sprintf("font:%s;fill:%s;text-anchor:%s;dominant-baseline:%s",
		CSSFont(style.Font), style.Color.CSS(), anchor, baseline)
	if op := style.Color.Opacity(); op < 1 {
		css += ";fill-opacity:" + formatFloat(op)
	}

	x, y := round(p.X), round(p.Y)
	if style.Rotate != 0 {
		s.canvas.Gtransform(fmt.Sprintf("rotate(%s %d %d)", formatFloat(style.Rotate), x, y))
		s.canvas.Text(x, y, text, s.attrs(css)...)
		s.canvas.Gend()
		return
	}
	s.canvas.Text(x, y, text, s.attrs(css)...)
}

func (s *SVG) MeasureText(text string, f engine.Font) geom.Size {
	return s.measurer.MeasureText(text, f)
}

func (s *SVG) DrawImage(img image.Image, src image.Rectangle, dest geom.Rect, opacity float64, interpolate bool) {
	s.drawImage("", img, src, dest, opacity, interpolate)
}

func (s *SVG) DrawClippedImage(clip geom.Rect, img image.Image, src image.Rectangle, dest geom.Rect, opacity float64, interpolate bool) {
	s.clips++
	id := fmt.Sprintf("clip%d", s.clips)
	s.canvas.Def()
	s.canvas.ClipPath(fmt.Sprintf(`id="%s"`, id))
	s.canvas.Rect(round(clip.X), round(clip.Y), round(clip.Width), round(clip.Height))
	s.canvas.ClipEnd()
	s.canvas.DefEnd()
	s.drawImage(id, img, src, dest, opacity, interpolate)
}

func (s *SVG) drawImage(clipID string, img image.Image, src image.Rectangle, dest geom.Rect, opacity float64, interpolate bool) {
	if img == nil || opacity <= 0 || src.Empty() || dest.IsEmpty() {
		return
	}
	uri, err := dataURI(img, src)
	if err != nil {
		slog.Warn("svg image skipped", "error", err)
		return
	}
	css := fmt.Sprintf("opacity:%s", formatFloat(math.Min(opacity, 1)))
	if !interpolate {
		css += ";image-rendering:pixelated"
	}
	attrs := append(s.attrs(css), `preserveAspectRatio="none"`)
	if clipID != "" {
		attrs = append(attrs, fmt.Sprintf(`clip-path="url(#%s)"`, clipID))
	}
	s.canvas.Image(round(dest.X), round(dest.Y), round(dest.Width), round(dest.Height), uri, attrs...)
}

// dataURI encodes the src region of img as an inline PNG.
func dataURI(img image.Image, src image.Rectangle) (string, error) {
	if si, ok := img.(interface {
		SubImage(image.Rectangle) image.Image
	}); ok && src != img.Bounds() {
		img = si.SubImage(src)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode image: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func (s *SVG) RendersToScreen() bool { return false }

// CleanUp closes the document.
func (s *SVG) CleanUp() {
	s.element = ""
	if s.closed {
		return
	}
	s.closed = true
	s.canvas.End()
	s.measurer.Close()
}

func round(v float64) int {
	return int(math.Round(v))
}
