package engine

import (
	"sync/atomic"

	"github.com/oxydraw/oxydraw/internal/geom"
)

// RedrawSignal coalesces redraw requests. Any number of Invalidate calls made before
// the consumer calls Begin result in a single frame.
//
//	for range sig.C() {
//		if sig.Begin() {
//			vm.Paint(rc)
//		}
//	}
type RedrawSignal struct {
	dirty atomic.Bool
	ch    chan struct{}
}

func NewRedrawSignal() *RedrawSignal {
	return &RedrawSignal{ch: make(chan struct{}, 1)}
}

// Invalidate marks the view dirty. It is safe to call from any goroutine.
func (s *RedrawSignal) Invalidate() {
	if s.dirty.CompareAndSwap(false, true) {
		select {
		case s.ch <- struct{}{}:
		default:
		}
	}
}

// C delivers a value when a frame has been requested.
func (s *RedrawSignal) C() <-chan struct{} { return s.ch }

// Begin clears the dirty flag and reports whether a frame was requested.
func (s *RedrawSignal) Begin() bool { return s.dirty.Swap(false) }

// Pending reports whether a frame has been requested and not yet begun.
func (s *RedrawSignal) Pending() bool { return s.dirty.Load() }

// StaticView is a View with a fixed client area. It is used for exports and tests.
type StaticView struct {
	Area    geom.Rect
	Padding float64
	Redraw  *RedrawSignal

	Cursor        CursorType
	ZoomRectangle *geom.Rect

	invalidations atomic.Int64
}

func NewStaticView(width, height, padding float64) *StaticView {
	return &StaticView{
		Area:    geom.NewRect(0, 0, width, height),
		Padding: padding,
		Redraw:  NewRedrawSignal(),
	}
}

func (v *StaticView) ClientArea() geom.Rect   { return v.Area }
func (v *StaticView) DrawingPadding() float64 { return v.Padding }

func (v *StaticView) Invalidate() {
	v.invalidations.Add(1)
	if v.Redraw != nil {
		v.Redraw.Invalidate()
	}
}

// Invalidations returns the number of Invalidate calls.
func (v *StaticView) Invalidations() int64 { return v.invalidations.Load() }

func (v *StaticView) SetCursorType(c CursorType) { v.Cursor = c }

func (v *StaticView) ShowZoomRectangle(r geom.Rect) { v.ZoomRectangle = &r }

func (v *StaticView) HideZoomRectangle() { v.ZoomRectangle = nil }
