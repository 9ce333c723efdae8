package engine

import (
	"image"

	"github.com/oxydraw/oxydraw/internal/drawing"
	"github.com/oxydraw/oxydraw/internal/geom"
)

type call struct {
	op      string
	element string
	points  []geom.ScreenPoint
	rect    geom.Rect
	text    string
	at      geom.ScreenPoint
	style   TextStyle
	pen     Pen
	fill    drawing.Color
}

// fakeContext records draw calls. Text is measured as half the font size per rune.
type fakeContext struct {
	calls    []call
	element  string
	cleanUps int
	screen   bool
	panicOn  string
}

func (f *fakeContext) record(c call) {
	if c.op == f.panicOn {
		panic("boom in " + c.op)
	}
	c.element = f.element
	f.calls = append(f.calls, c)
}

func (f *fakeContext) BeginElement(id string) { f.element = id }

func (f *fakeContext) DrawLine(points []geom.ScreenPoint, pen Pen) {
	f.record(call{op: "line", points: points, pen: pen})
}

func (f *fakeContext) DrawLineSegments(points []geom.ScreenPoint, pen Pen) {
	f.record(call{op: "segments", points: points, pen: pen})
}

func (f *fakeContext) DrawPolygon(points []geom.ScreenPoint, fill drawing.Color, pen Pen) {
	f.record(call{op: "polygon", points: points, fill: fill, pen: pen})
}

func (f *fakeContext) DrawRectangle(rect geom.Rect, fill drawing.Color, pen Pen) {
	f.record(call{op: "rectangle", rect: rect, fill: fill, pen: pen})
}

func (f *fakeContext) DrawEllipse(rect geom.Rect, fill drawing.Color, pen Pen) {
	f.record(call{op: "ellipse", rect: rect, fill: fill, pen: pen})
}

func (f *fakeContext) DrawText(p geom.ScreenPoint, text string, style TextStyle) {
	f.record(call{op: "text", at: p, text: text, style: style})
}

func (f *fakeContext) MeasureText(text string, font Font) geom.Size {
	return geom.Size{Width: float64(len([]rune(text))) * font.Size * 0.5, Height: font.Size}
}

func (f *fakeContext) DrawImage(img image.Image, src image.Rectangle, dest geom.Rect, opacity float64, interpolate bool) {
	f.record(call{op: "image", rect: dest})
}

func (f *fakeContext) DrawClippedImage(clip geom.Rect, img image.Image, src image.Rectangle, dest geom.Rect, opacity float64, interpolate bool) {
	f.record(call{op: "clippedImage", rect: dest})
}

func (f *fakeContext) RendersToScreen() bool { return f.screen }

func (f *fakeContext) CleanUp() { f.cleanUps++ }

func (f *fakeContext) ops(op string) []call {
	var out []call
	for _, c := range f.calls {
		if c.op == op {
			out = append(out, c)
		}
	}
	return out
}
