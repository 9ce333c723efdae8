package controller

import (
	"math"

	"github.com/oxydraw/oxydraw/internal/engine"
	"github.com/oxydraw/oxydraw/internal/geom"
)

// MouseManipulator handles a mouse gesture from button down to button up.
type MouseManipulator interface {
	Started(e MouseEvent)
	Delta(e MouseEvent)
	Completed(e MouseEvent)
}

// PanManipulator pans the view with the pointer.
type PanManipulator struct {
	vm       *engine.ViewModel
	previous geom.ScreenPoint
}

func NewPanManipulator(vm *engine.ViewModel) *PanManipulator {
	return &PanManipulator{vm: vm}
}

func (m *PanManipulator) Started(e MouseEvent) {
	m.previous = e.Position
	m.vm.View().SetCursorType(engine.CursorPan)
}

func (m *PanManipulator) Delta(e MouseEvent) {
	m.vm.PanAt(e.Position.Sub(m.previous), e.Position)
	m.previous = e.Position
}

func (m *PanManipulator) Completed(MouseEvent) {
	m.vm.View().SetCursorType(engine.CursorDefault)
}

// minZoomRectangle is the smallest side, in pixels, of a zoom rectangle that is applied.
const minZoomRectangle = 10

// ZoomRectangleManipulator zooms to a rectangle dragged out by the pointer.
type ZoomRectangleManipulator struct {
	vm    *engine.ViewModel
	start geom.ScreenPoint
	rect  geom.Rect
}

func NewZoomRectangleManipulator(vm *engine.ViewModel) *ZoomRectangleManipulator {
	return &ZoomRectangleManipulator{vm: vm}
}

func (m *ZoomRectangleManipulator) Started(e MouseEvent) {
	m.start = e.Position
	m.rect = geom.RectFromPoints(e.Position, e.Position)
	view := m.vm.View()
	view.ShowZoomRectangle(m.rect)
	view.SetCursorType(engine.CursorZoomRectangle)
}

func (m *ZoomRectangleManipulator) Delta(e MouseEvent) {
	m.rect = geom.RectFromPoints(m.start, e.Position)
	m.vm.View().ShowZoomRectangle(m.rect)
}

func (m *ZoomRectangleManipulator) Completed(MouseEvent) {
	view := m.vm.View()
	view.HideZoomRectangle()
	view.SetCursorType(engine.CursorDefault)
	if m.rect.Width > minZoomRectangle && m.rect.Height > minZoomRectangle {
		m.vm.Zoom(m.rect)
	}
}

// ZoomStepManipulator zooms by a single step at the pointer when started.
type ZoomStepManipulator struct {
	vm *engine.ViewModel

	// Step is added to 1 to get the zoom factor.
	Step float64
	// FineControl triples Step.
	FineControl bool
}

func NewZoomStepManipulator(vm *engine.ViewModel, step float64, fine bool) *ZoomStepManipulator {
	return &ZoomStepManipulator{vm: vm, Step: step, FineControl: fine}
}

// Factor returns the zoom factor of the step, never below 0.1.
func (m *ZoomStepManipulator) Factor() float64 {
	step := m.Step
	if m.FineControl {
		step *= 3
	}
	return max(1+step, 0.1)
}

func (m *ZoomStepManipulator) Started(e MouseEvent) {
	f := m.Factor()
	m.vm.ZoomAt(geom.SV(f, f), e.Position)
}

func (m *ZoomStepManipulator) Delta(MouseEvent)     {}
func (m *ZoomStepManipulator) Completed(MouseEvent) {}

// TouchManipulator pans and pinch-zooms with a touch gesture.
type TouchManipulator struct {
	vm       *engine.ViewModel
	previous geom.ScreenPoint
}

func NewTouchManipulator(vm *engine.ViewModel) *TouchManipulator {
	return &TouchManipulator{vm: vm}
}

func (m *TouchManipulator) Started(e TouchEvent) {
	m.previous = e.Position
}

// Delta pans by the translation, so the drawing follows the finger, then zooms
// about the new position.
func (m *TouchManipulator) Delta(e TouchEvent) {
	next := m.previous.Add(e.DeltaTranslation)
	m.vm.PanAt(e.DeltaTranslation, next)
	// Zoom is isotropic: only the vertical factor counts.
	if f := e.DeltaScale.Y; f > 0 && !math.IsInf(f, 0) {
		m.vm.ZoomAt(e.DeltaScale, next)
	}
	m.previous = next
}

func (m *TouchManipulator) Completed(TouchEvent) {}
