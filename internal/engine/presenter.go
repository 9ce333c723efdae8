package engine

import (
	"fmt"

	"github.com/oxydraw/oxydraw/internal/drawing"
	"github.com/oxydraw/oxydraw/internal/geom"
)

// Presenter holds the screen-space state of one element in one ViewModel.
//
// Update recomputes that state from the element and the current transform. Render
// draws only what Update cached, so a frame can be rendered to several targets.
// Bounds is in data space and is valid before any Update.
type Presenter interface {
	Element() drawing.Element
	Bounds(rc RenderContext) geom.BoundingBox
	Update(rc RenderContext)
	Render(rc RenderContext) error
	HitTest(args HitTestArguments) *HitTestResult
}

// HitTestArguments holds a device-space query point.
type HitTestArguments struct {
	Point     geom.ScreenPoint
	Tolerance float64
}

// HitTestResult identifies an element under a query point.
type HitTestResult struct {
	Element         drawing.Element
	NearestHitPoint geom.ScreenPoint
	// Item is an optional sub-element, e.g. the index of the segment that was hit.
	Item any
}

// newPresenter maps each element kind to its presenter.
func newPresenter(vm *ViewModel, e drawing.Element) Presenter {
	switch e := e.(type) {
	case *drawing.Ellipse:
		return &ellipsePresenter{presenter: base(vm, e)}
	case *drawing.Rectangle:
		return &rectanglePresenter{presenter: base(vm, e)}
	case *drawing.RoundedRectangle:
		return &roundedRectanglePresenter{presenter: base(vm, e)}
	case *drawing.Polygon:
		return &polygonPresenter{presenter: base(vm, e)}
	case *drawing.Polyline:
		return &polylinePresenter{presenter: base(vm, e)}
	case *drawing.Lines:
		return &linesPresenter{presenter: base(vm, e)}
	case *drawing.Text:
		return &textPresenter{presenter: base(vm, e)}
	case *drawing.Image:
		return &imagePresenter{presenter: base(vm, e)}
	case *drawing.TileLayer:
		return &tileLayerPresenter{presenter: base(vm, e)}
	case *drawing.UmlClassBox:
		return &umlClassBoxPresenter{presenter: base(vm, e)}
	case *drawing.Arrow:
		return &arrowPresenter{presenter: base(vm, e)}
	case *drawing.Grid:
		return &gridPresenter{presenter: base(vm, e)}
	default:
		panic(fmt.Sprintf("engine: no presenter for element kind %q", e.Kind()))
	}
}

// presenter carries the element and the owning view model.
type presenter[T drawing.Element] struct {
	vm    *ViewModel
	model T
}

func base[T drawing.Element](vm *ViewModel, e T) presenter[T] {
	return presenter[T]{vm: vm, model: e}
}

func (p *presenter[T]) Element() drawing.Element { return p.model }

// HitTest misses by default.
func (p *presenter[T]) HitTest(HitTestArguments) *HitTestResult { return nil }

func (p *presenter[T]) hit(at geom.ScreenPoint, item any) *HitTestResult {
	return &HitTestResult{Element: p.model, NearestHitPoint: at, Item: item}
}

func (p *presenter[T]) pen(c drawing.Color, thickness float64) Pen {
	return Pen{Color: c, Thickness: p.vm.TransformLength(thickness)}
}

func (p *presenter[T]) font(weight drawing.FontWeight) Font {
	a := p.model.Attributes()
	return Font{Family: a.FontFamily, Size: p.vm.TransformLength(a.FontSize), Weight: weight}
}

func (p *presenter[T]) transformAll(points []geom.DataPoint) []geom.ScreenPoint {
	out := make([]geom.ScreenPoint, len(points))
	for i, q := range points {
		out[i] = p.vm.Transform(q)
	}
	return out
}

func pointsBounds(points []geom.DataPoint) geom.BoundingBox {
	bb := geom.EmptyBox()
	for _, q := range points {
		if q.IsDefined() {
			bb.UnionPoint(q)
		}
	}
	return bb
}

// hitPolyline tests the segments of points, skipping segments that touch a NaN point.
// step is 1 for connected lines and 2 for independent segments.
func hitPolyline(points []geom.ScreenPoint, step int, at geom.ScreenPoint, tolerance float64) (geom.ScreenPoint, int, bool) {
	best := -1
	var nearest geom.ScreenPoint
	bestDistance := tolerance
	for i := 0; i+1 < len(points); i += step {
		a, b := points[i], points[i+1]
		if !a.IsDefined() || !b.IsDefined() {
			continue
		}
		q := geom.NearestPointOnSegment(at, a, b)
		if d := q.DistanceTo(at); d <= bestDistance {
			best, nearest, bestDistance = i, q, d
		}
	}
	return nearest, best, best >= 0
}
