package engine

import (
	"image"

	"github.com/oxydraw/oxydraw/internal/drawing"
	"github.com/oxydraw/oxydraw/internal/geom"
)

// Pen describes how lines and outlines are stroked. Thickness is in device units.
type Pen struct {
	Color     drawing.Color
	Thickness float64
	// Dash is the dash pattern in multiples of Thickness; nil is solid.
	Dash    []float64
	Join    drawing.LineJoin
	Aliased bool
}

// IsVisible reports whether stroking with p draws anything.
func (p Pen) IsVisible() bool {
	return p.Color.IsVisible() && p.Thickness > 0
}

// Font is a resolved font. Size is in device units.
type Font struct {
	Family string
	Size   float64
	Weight drawing.FontWeight
}

// TextStyle describes how DrawText places and paints a string.
type TextStyle struct {
	Color drawing.Color
	Font  Font
	// Rotate is the clockwise rotation in degrees around the anchor point.
	Rotate float64
	HAlign drawing.HorizontalAlignment
	VAlign drawing.VerticalAlignment
}

// RenderContext is a drawing target. All coordinates are in device units.
type RenderContext interface {
	DrawLine(points []geom.ScreenPoint, pen Pen)
	DrawLineSegments(points []geom.ScreenPoint, pen Pen)
	DrawPolygon(points []geom.ScreenPoint, fill drawing.Color, pen Pen)
	DrawRectangle(rect geom.Rect, fill drawing.Color, pen Pen)
	DrawEllipse(rect geom.Rect, fill drawing.Color, pen Pen)
	DrawText(p geom.ScreenPoint, text string, style TextStyle)
	MeasureText(text string, font Font) geom.Size
	DrawImage(img image.Image, src image.Rectangle, dest geom.Rect, opacity float64, interpolate bool)
	DrawClippedImage(clip geom.Rect, img image.Image, src image.Rectangle, dest geom.Rect, opacity float64, interpolate bool)

	// RendersToScreen is false for export targets. Tile layers load tiles
	// synchronously when it is false.
	RendersToScreen() bool

	// CleanUp releases per-frame resources. It is called once at the end of every
	// Render, also when rendering failed.
	CleanUp()
}

// ElementMarker is implemented by render contexts that tag draw calls with the
// element that issued them.
type ElementMarker interface {
	BeginElement(id string)
}

type CursorType int

const (
	CursorDefault CursorType = iota
	CursorPan
	CursorZoomRectangle
	CursorZoomIn
	CursorZoomOut
)

func (c CursorType) String() string {
	switch c {
	case CursorPan:
		return "pan"
	case CursorZoomRectangle:
		return "zoomRectangle"
	case CursorZoomIn:
		return "zoomIn"
	case CursorZoomOut:
		return "zoomOut"
	default:
		return "default"
	}
}

// View is the window a ViewModel renders into.
//
// Invalidate requests a redraw. It may be called from any goroutine, and calls made
// before the next frame must coalesce into a single Update and Render.
type View interface {
	ClientArea() geom.Rect
	DrawingPadding() float64
	Invalidate()
	SetCursorType(c CursorType)
	ShowZoomRectangle(r geom.Rect)
	HideZoomRectangle()
}
