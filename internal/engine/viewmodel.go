package engine

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"math"

	"github.com/oxydraw/oxydraw/internal/drawing"
	"github.com/oxydraw/oxydraw/internal/geom"
	"github.com/oxydraw/oxydraw/internal/typeid"
)

// diagnosticFont is used for the message drawn when a frame is degraded.
var diagnosticFont = Font{Family: "Arial", Size: 12, Weight: drawing.FontWeightNormal}

// ViewModel maps a drawing.Model into a View.
//
// It owns the view transform
//
//	screen = ((x - ox) * scale, (oy - y) * scale)
//
// and one Presenter per element, created on first use and evicted when the element
// leaves the model. A ViewModel is not safe for concurrent use; only Invalidate,
// which forwards to the View, may be called from other goroutines.
type ViewModel struct {
	ID string

	view  View
	model *drawing.Model

	// Transform state
	ox    float64
	oy    float64
	scale float64

	presenters  map[drawing.Element]Presenter
	unsubscribe func()
}

// NewViewModel creates a view model with scale 1 and the origin at the top-left of
// the client area. It observes model until Close is called.
func NewViewModel(view View, model *drawing.Model) *ViewModel {
	vm := &ViewModel{
		ID:         typeid.NewViewID(),
		view:       view,
		model:      model,
		scale:      1,
		presenters: make(map[drawing.Element]Presenter),
	}
	vm.unsubscribe = model.Subscribe(vm.handleModelChanged)
	return vm
}

func (vm *ViewModel) handleModelChanged(e drawing.ChangeEvent) {
	if e.Kind == drawing.ElementsRemoved {
		for _, el := range e.Elements {
			delete(vm.presenters, el)
		}
	}
	vm.Invalidate()
}

// Close stops observing the model and drops all presenters.
func (vm *ViewModel) Close() {
	if vm.unsubscribe != nil {
		vm.unsubscribe()
		vm.unsubscribe = nil
	}
	clear(vm.presenters)
}

func (vm *ViewModel) Model() *drawing.Model { return vm.model }

func (vm *ViewModel) View() View { return vm.view }

// ClientArea returns the view's drawable rectangle in device units.
func (vm *ViewModel) ClientArea() geom.Rect { return vm.view.ClientArea() }

// Invalidate requests a redraw from the view.
func (vm *ViewModel) Invalidate() { vm.view.Invalidate() }

// --- Transform ---

// Offset returns the data-space point mapped to the screen origin.
func (vm *ViewModel) Offset() (x, y float64) { return vm.ox, vm.oy }

// Scale returns the number of device units per data unit.
func (vm *ViewModel) Scale() float64 { return vm.scale }

// SetTransform replaces the transform and invalidates the view.
func (vm *ViewModel) SetTransform(ox, oy, scale float64) {
	vm.ox, vm.oy, vm.scale = ox, oy, scale
	vm.Invalidate()
}

// Matrix returns the transform as an affine matrix.
func (vm *ViewModel) Matrix() geom.Matrix2D {
	s := vm.scale
	return geom.Matrix2D{s, 0, 0, -s, -s * vm.ox, s * vm.oy}
}

func (vm *ViewModel) Transform(p geom.DataPoint) geom.ScreenPoint {
	return vm.TransformXY(p.X, p.Y)
}

func (vm *ViewModel) TransformXY(x, y float64) geom.ScreenPoint {
	return geom.ScreenPoint{X: (x - vm.ox) * vm.scale, Y: (vm.oy - y) * vm.scale}
}

// TransformLength converts a size to device units. Negative sizes are already in
// device units and map to their magnitude.
func (vm *ViewModel) TransformLength(t float64) float64 {
	if t < 0 {
		return -t
	}
	return t * vm.scale
}

func (vm *ViewModel) InverseTransform(p geom.ScreenPoint) geom.DataPoint {
	return vm.InverseTransformXY(p.X, p.Y)
}

func (vm *ViewModel) InverseTransformXY(x, y float64) geom.DataPoint {
	return geom.DataPoint{X: x/vm.scale + vm.ox, Y: vm.oy - y/vm.scale}
}

// InverseTransformLength converts a device length to data units. It returns 0
// when the scale is 0 or NaN.
func (vm *ViewModel) InverseTransformLength(t float64) float64 {
	if vm.scale == 0 || math.IsNaN(vm.scale) {
		return 0
	}
	return t / vm.scale
}

// --- View operations ---

// Pan moves the drawing by delta device units.
func (vm *ViewModel) Pan(delta geom.ScreenVector) {
	vm.ox -= delta.X / vm.scale
	vm.oy += delta.Y / vm.scale
	vm.Invalidate()
}

// PanAt pans by delta as the pointer moves to current. The manipulators report both,
// but a uniform-scale pan depends on delta alone, so current is not used.
func (vm *ViewModel) PanAt(delta geom.ScreenVector, _ geom.ScreenPoint) {
	vm.Pan(delta)
}

// Zoom fits the device-space rectangle r into the client area.
func (vm *ViewModel) Zoom(r geom.Rect) {
	p0 := vm.InverseTransformXY(r.Left(), r.Bottom())
	p1 := vm.InverseTransformXY(r.Right(), r.Top())
	client := vm.view.ClientArea()
	padding := vm.view.DrawingPadding()

	sx := (client.Width - padding*2) / (p1.X - p0.X)
	sy := (client.Height - padding*2) / (p1.Y - p0.Y)
	vm.scale = math.Min(sx, sy)

	c := client.Center()
	vm.ox = (p0.X+p1.X)*0.5 - (c.X+padding)/vm.scale
	vm.oy = (p0.Y+p1.Y)*0.5 + (c.Y+padding)/vm.scale
	vm.Invalidate()
}

// ZoomBy multiplies the scale by factor, keeping the client center fixed.
func (vm *ViewModel) ZoomBy(factor float64) {
	vm.ZoomAt(geom.SV(factor, factor), vm.view.ClientArea().Center())
}

// ZoomAt multiplies the scale by delta.Y keeping the data point under p in place.
// delta.X is ignored; zoom is always uniform.
func (vm *ViewModel) ZoomAt(delta geom.ScreenVector, p geom.ScreenPoint) {
	newScale := vm.scale * delta.Y
	var x, y float64
	if vm.scale > 0 {
		x = p.X/vm.scale + vm.ox
		y = vm.oy - p.Y/vm.scale
	}
	vm.ox = x - (x-vm.ox)*vm.scale/newScale
	vm.oy = y - (y-vm.oy)*vm.scale/newScale
	vm.scale = newScale
	vm.Invalidate()
}

// ZoomExtents fits all elements into the client area minus the padding.
//
// The transform is reset to scale 1 at the origin first. When the client area is
// empty the scale becomes NaN; when the drawing has no bounds nothing else changes.
func (vm *ViewModel) ZoomExtents(rc RenderContext) {
	vm.scale = 1
	vm.ox, vm.oy = 0, 0

	client := vm.view.ClientArea()
	if client.Width <= 0 || client.Height <= 0 {
		vm.scale = math.NaN()
	}

	bb := vm.Bounds(rc)
	if bb.IsEmpty() {
		return
	}

	padding := vm.view.DrawingPadding()
	w := client.Width - padding*2
	h := client.Height - padding*2
	sx, sy := 1.0, 1.0
	if rx := bb.Width(); rx > 0 {
		sx = w / rx
	}
	if ry := bb.Height(); ry > 0 {
		sy = h / ry
	}
	vm.scale = math.Min(sx, sy)

	center := bb.Center()
	c := client.Center()
	vm.ox = center.X - c.X/vm.scale
	vm.oy = center.Y + c.Y/vm.scale
	vm.Invalidate()
}

// Reset zooms to the extents of the drawing.
func (vm *ViewModel) Reset(rc RenderContext) {
	vm.ZoomExtents(rc)
	vm.Invalidate()
}

// --- Presenters ---

// Presenter returns the presenter of e, creating it on first use.
func (vm *ViewModel) Presenter(e drawing.Element) Presenter {
	p, ok := vm.presenters[e]
	if !ok {
		p = newPresenter(vm, e)
		vm.presenters[e] = p
	}
	return p
}

// PresenterCount returns the number of cached presenters.
func (vm *ViewModel) PresenterCount() int {
	return len(vm.presenters)
}

// Bounds returns the union of the data-space bounds of all elements.
func (vm *ViewModel) Bounds(rc RenderContext) geom.BoundingBox {
	bb := geom.EmptyBox()
	for _, e := range vm.model.Elements() {
		bb.UnionBox(vm.Presenter(e).Bounds(rc))
	}
	return bb
}

// Update recomputes the screen geometry of every element.
func (vm *ViewModel) Update(rc RenderContext) {
	for _, e := range vm.model.Elements() {
		if err := vm.updateElement(rc, e); err != nil {
			slog.Warn("update element failed", "view", vm.ID, "element", e.Attributes().ID, "error", err)
		}
	}
}

func (vm *ViewModel) updateElement(rc RenderContext, e drawing.Element) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("update %s: %v", e.Kind(), r)
		}
	}()
	vm.Presenter(e).Update(rc)
	return nil
}

// Render draws the elements back to front.
//
// A failing element does not stop the frame. The first failure is drawn as red
// text at (10, 10) and all failures are returned joined. rc.CleanUp is always called.
func (vm *ViewModel) Render(rc RenderContext) error {
	defer rc.CleanUp()

	var errs []error
	for _, e := range vm.model.Elements() {
		if err := vm.renderElement(rc, e); err != nil {
			slog.Warn("render element failed", "view", vm.ID, "element", e.Attributes().ID, "kind", e.Kind(), "error", err)
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil
	}

	rc.DrawText(geom.SP(10, 10), errs[0].Error(), TextStyle{
		Color:  drawing.Red,
		Font:   diagnosticFont,
		HAlign: drawing.AlignLeft,
		VAlign: drawing.AlignTop,
	})
	return errors.Join(errs...)
}

func (vm *ViewModel) renderElement(rc RenderContext, e drawing.Element) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("render %s: %v", e.Kind(), r)
		}
	}()
	if m, ok := rc.(ElementMarker); ok {
		m.BeginElement(e.Attributes().ID)
	}
	return vm.Presenter(e).Render(rc)
}

// Paint runs one frame: Update followed by Render.
func (vm *ViewModel) Paint(rc RenderContext) error {
	vm.Update(rc)
	return vm.Render(rc)
}

// RenderBounds outlines the data-space bounds of every element in blue.
func (vm *ViewModel) RenderBounds(rc RenderContext) {
	pen := Pen{Color: drawing.Blue, Thickness: 1}
	for _, e := range vm.model.Elements() {
		bb := vm.Presenter(e).Bounds(rc)
		if bb.IsEmpty() {
			continue
		}
		r := geom.RectFromPoints(vm.TransformXY(bb.MinimumX, bb.MinimumY), vm.TransformXY(bb.MaximumX, bb.MaximumY))
		rc.DrawRectangle(r, drawing.Undefined, pen)
	}
}

// --- Hit testing ---

// HitTest yields the elements under args.Point, topmost first. Elements are tested
// lazily, so stopping early skips the remaining ones. Update must have run since
// the last transform change.
func (vm *ViewModel) HitTest(args HitTestArguments) iter.Seq[*HitTestResult] {
	return func(yield func(*HitTestResult) bool) {
		elements := vm.model.Elements()
		for i := len(elements) - 1; i >= 0; i-- {
			r := vm.Presenter(elements[i]).HitTest(args)
			if r == nil {
				continue
			}
			if !yield(r) {
				return
			}
		}
	}
}

// HitTestFirst returns the topmost element under args.Point, or nil.
func (vm *ViewModel) HitTestFirst(args HitTestArguments) *HitTestResult {
	for r := range vm.HitTest(args) {
		return r
	}
	return nil
}
