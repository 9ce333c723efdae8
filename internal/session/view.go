package session

import (
	"github.com/oxydraw/oxydraw/internal/engine"
	"github.com/oxydraw/oxydraw/internal/geom"
)

// clientView is the engine.View of one connected viewer. Except for Invalidate it is
// guarded by the room lock.
type clientView struct {
	area     geom.Rect
	padding  float64
	redraw   *engine.RedrawSignal
	cursor   engine.CursorType
	zoomRect *geom.Rect
}

func newClientView(width, height, padding float64) *clientView {
	return &clientView{
		area:    geom.NewRect(0, 0, width, height),
		padding: padding,
		redraw:  engine.NewRedrawSignal(),
	}
}

func (v *clientView) ClientArea() geom.Rect   { return v.area }
func (v *clientView) DrawingPadding() float64 { return v.padding }
func (v *clientView) Invalidate()             { v.redraw.Invalidate() }

func (v *clientView) SetCursorType(c engine.CursorType) {
	if v.cursor != c {
		v.cursor = c
		v.redraw.Invalidate()
	}
}

func (v *clientView) ShowZoomRectangle(r geom.Rect) {
	v.zoomRect = &r
	v.redraw.Invalidate()
}

func (v *clientView) HideZoomRectangle() {
	if v.zoomRect != nil {
		v.zoomRect = nil
		v.redraw.Invalidate()
	}
}
