package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxydraw/oxydraw/internal/drawing"
	"github.com/oxydraw/oxydraw/internal/geom"
)

func newTestViewModel(t *testing.T, width, height, padding float64) (*ViewModel, *drawing.Model, *StaticView) {
	t.Helper()
	view := NewStaticView(width, height, padding)
	model := drawing.NewModel()
	vm := NewViewModel(view, model)
	t.Cleanup(vm.Close)
	return vm, model, view
}

func TestNewViewModelStartsAtUnitScale(t *testing.T) {
	vm, _, _ := newTestViewModel(t, 100, 100, 0)
	assert.Equal(t, 1.0, vm.Scale())
	ox, oy := vm.Offset()
	assert.Zero(t, ox)
	assert.Zero(t, oy)
	assert.NotEmpty(t, vm.ID)
}

func TestTransformRoundTrip(t *testing.T) {
	vm, _, _ := newTestViewModel(t, 100, 100, 0)
	transforms := [][3]float64{{0, 0, 1}, {-12.5, 40, 0.25}, {1e3, -1e3, 37}, {3, 4, 1e-3}}
	points := []geom.DataPoint{geom.Pt(0, 0), geom.Pt(1, -1), geom.Pt(-250.5, 99.25), geom.Pt(1e4, 3e-3)}

	for _, tr := range transforms {
		vm.SetTransform(tr[0], tr[1], tr[2])
		for _, p := range points {
			q := vm.InverseTransform(vm.Transform(p))
			assert.InDelta(t, p.X, q.X, 1e-9*math.Max(1, math.Abs(p.X)))
			assert.InDelta(t, p.Y, q.Y, 1e-9*math.Max(1, math.Abs(p.Y)))
		}
	}
}

func TestTransformFlipsY(t *testing.T) {
	vm, _, _ := newTestViewModel(t, 100, 100, 0)
	vm.SetTransform(10, 20, 2)
	assert.Equal(t, geom.SP(0, 0), vm.TransformXY(10, 20))
	assert.Equal(t, geom.SP(2, -2), vm.TransformXY(11, 21))

	x, y := vm.Matrix().TransformPoint(11, 21)
	assert.Equal(t, geom.SP(x, y), vm.TransformXY(11, 21))
}

func TestTransformLengthSignConvention(t *testing.T) {
	vm, model, _ := newTestViewModel(t, 100, 100, 0)
	for _, scale := range []float64{0.1, 1, 3, 250} {
		vm.SetTransform(0, 0, scale)
		assert.Equal(t, 2.5, vm.TransformLength(-2.5), "device units ignore scale")
		assert.InDelta(t, 2.5*scale, vm.TransformLength(2.5), 1e-12)
	}

	line := drawing.NewPolyline(geom.Pt(0, 0), geom.Pt(1, 1))
	line.Thickness = -3
	model.Add(line)
	vm.SetTransform(0, 0, 40)
	rc := &fakeContext{}
	require.NoError(t, vm.Paint(rc))
	assert.Equal(t, 3.0, rc.ops("line")[0].pen.Thickness)

	line.Thickness = 3
	rc = &fakeContext{}
	require.NoError(t, vm.Paint(rc))
	assert.Equal(t, 120.0, rc.ops("line")[0].pen.Thickness)
}

func TestInverseTransformLengthDegenerateScale(t *testing.T) {
	vm, _, _ := newTestViewModel(t, 100, 100, 0)
	vm.SetTransform(0, 0, 0)
	assert.Zero(t, vm.InverseTransformLength(5))
	vm.SetTransform(0, 0, math.NaN())
	assert.Zero(t, vm.InverseTransformLength(5))
	vm.SetTransform(0, 0, 4)
	assert.Equal(t, 1.25, vm.InverseTransformLength(5))
}

func TestPanMovesScreenPositions(t *testing.T) {
	vm, _, view := newTestViewModel(t, 100, 100, 0)
	vm.SetTransform(3, 7, 2)
	p := geom.Pt(5, 5)
	before := vm.Transform(p)
	n := view.Invalidations()

	vm.Pan(geom.SV(10, 20))

	after := vm.Transform(p)
	assert.InDelta(t, before.X+10, after.X, 1e-12)
	assert.InDelta(t, before.Y+20, after.Y, 1e-12)
	assert.Greater(t, view.Invalidations(), n)
}

func TestPanAtDependsOnlyOnDelta(t *testing.T) {
	vm, _, _ := newTestViewModel(t, 100, 100, 0)
	vm.SetTransform(3, 7, 2)
	vm.Pan(geom.SV(10, -4))
	wantX, wantY := vm.Offset()

	for _, current := range []geom.ScreenPoint{geom.SP(0, 0), geom.SP(80, 15), geom.SP(-40, 300)} {
		vm.SetTransform(3, 7, 2)
		vm.PanAt(geom.SV(10, -4), current)
		ox, oy := vm.Offset()
		assert.Equal(t, wantX, ox)
		assert.Equal(t, wantY, oy)
	}
}

func TestZoomAtKeepsPointFixed(t *testing.T) {
	vm, _, _ := newTestViewModel(t, 400, 300, 10)
	cursors := []geom.ScreenPoint{geom.SP(0, 0), geom.SP(123, 45), geom.SP(400, 300), geom.SP(-20, 512)}
	deltas := []float64{0.5, 1.05, 2, 10}

	for _, c := range cursors {
		for _, d := range deltas {
			vm.SetTransform(-17, 33, 1.7)
			before := vm.InverseTransform(c)
			vm.ZoomAt(geom.SV(d, d), c)
			after := vm.InverseTransform(c)
			assert.InDelta(t, before.X, after.X, 1e-9)
			assert.InDelta(t, before.Y, after.Y, 1e-9)
			assert.InDelta(t, 1.7*d, vm.Scale(), 1e-12)
		}
	}
}

func TestZoomAtUsesOnlyVerticalFactor(t *testing.T) {
	vm, _, _ := newTestViewModel(t, 100, 100, 0)
	vm.ZoomAt(geom.SV(100, 2), geom.SP(50, 50))
	assert.Equal(t, 2.0, vm.Scale())
}

func TestZoomByKeepsClientCenter(t *testing.T) {
	vm, _, _ := newTestViewModel(t, 200, 100, 0)
	vm.SetTransform(1, 2, 3)
	c := vm.ClientArea().Center()
	before := vm.InverseTransform(c)
	vm.ZoomBy(1.5)
	after := vm.InverseTransform(c)
	assert.InDelta(t, 4.5, vm.Scale(), 1e-12)
	assert.InDelta(t, before.X, after.X, 1e-9)
	assert.InDelta(t, before.Y, after.Y, 1e-9)
}

func TestZoomToRectangle(t *testing.T) {
	vm, _, _ := newTestViewModel(t, 200, 200, 0)

	vm.Zoom(geom.NewRect(50, 50, 100, 100))

	assert.InDelta(t, 2, vm.Scale(), 1e-12)
	// The rectangle's center is now the client center.
	center := vm.Transform(geom.Pt(100, -100))
	assert.InDelta(t, 100, center.X, 1e-9)
	assert.InDelta(t, 100, center.Y, 1e-9)
}

func TestZoomToRectangleUsesSmallerRatio(t *testing.T) {
	vm, _, _ := newTestViewModel(t, 200, 200, 0)
	vm.Zoom(geom.NewRect(0, 0, 100, 50))
	assert.InDelta(t, 2, vm.Scale(), 1e-12)
}

func TestZoomExtentsFitsBoundingBox(t *testing.T) {
	vm, model, _ := newTestViewModel(t, 200, 200, 10)
	model.Add(drawing.NewRectangle(0, 0, 100, 50))

	vm.ZoomExtents(&fakeContext{})

	assert.InDelta(t, 1.8, vm.Scale(), 1e-12)
	c := vm.Transform(geom.Pt(50, 25))
	assert.InDelta(t, 100, c.X, 1e-9)
	assert.InDelta(t, 100, c.Y, 1e-9)
}

func TestZoomExtentsDegenerateCases(t *testing.T) {
	t.Run("empty drawing", func(t *testing.T) {
		vm, _, _ := newTestViewModel(t, 200, 200, 10)
		vm.SetTransform(5, 5, 3)
		vm.ZoomExtents(&fakeContext{})
		assert.Equal(t, 1.0, vm.Scale())
		ox, oy := vm.Offset()
		assert.Zero(t, ox)
		assert.Zero(t, oy)
	})

	t.Run("single point", func(t *testing.T) {
		vm, model, _ := newTestViewModel(t, 200, 200, 10)
		model.Add(drawing.NewPolyline(geom.Pt(7, 8)))
		vm.ZoomExtents(&fakeContext{})
		assert.Equal(t, 1.0, vm.Scale())
		c := vm.Transform(geom.Pt(7, 8))
		assert.InDelta(t, 100, c.X, 1e-9)
		assert.InDelta(t, 100, c.Y, 1e-9)
	})

	t.Run("zero height content", func(t *testing.T) {
		vm, model, _ := newTestViewModel(t, 200, 200, 10)
		model.Add(drawing.NewLines(geom.Pt(0, 0), geom.Pt(360, 0)))
		vm.ZoomExtents(&fakeContext{})
		assert.InDelta(t, 0.5, vm.Scale(), 1e-12)
	})

	t.Run("empty client area", func(t *testing.T) {
		vm, _, _ := newTestViewModel(t, 0, 200, 10)
		vm.ZoomExtents(&fakeContext{})
		assert.True(t, math.IsNaN(vm.Scale()))
	})
}

func TestBoundsIgnoresUnboundedElements(t *testing.T) {
	vm, model, _ := newTestViewModel(t, 200, 200, 10)
	model.Add(drawing.NewGrid(), drawing.NewTileLayer(nil), drawing.NewEllipse(geom.Pt(1, 2), 3, 4))

	bb := vm.Bounds(&fakeContext{})
	assert.Equal(t, geom.NewBox(-2, -2, 4, 6), bb)
}

func TestRenderPaintsInModelOrderAndHitTestsInReverse(t *testing.T) {
	vm, model, _ := newTestViewModel(t, 200, 200, 0)
	a := drawing.NewEllipse(geom.Pt(0, 0), 10, 10)
	b := drawing.NewEllipse(geom.Pt(1, 0), 10, 10)
	c := drawing.NewEllipse(geom.Pt(2, 0), 10, 10)
	model.Add(a, b, c)
	vm.SetTransform(-100, 100, 1)

	rc := &fakeContext{}
	require.NoError(t, vm.Paint(rc))

	var painted []string
	for _, call := range rc.ops("ellipse") {
		painted = append(painted, call.element)
	}
	assert.Equal(t, []string{a.ID, b.ID, c.ID}, painted)

	var hits []drawing.Element
	for r := range vm.HitTest(HitTestArguments{Point: geom.SP(101, 100)}) {
		hits = append(hits, r.Element)
	}
	assert.Equal(t, []drawing.Element{c, b, a}, hits)

	first := vm.HitTestFirst(HitTestArguments{Point: geom.SP(101, 100)})
	require.NotNil(t, first)
	assert.Same(t, c, first.Element)
}

func TestHitTestStopsWhenConsumerStops(t *testing.T) {
	vm, model, _ := newTestViewModel(t, 200, 200, 0)
	model.Add(drawing.NewEllipse(geom.Pt(0, 0), 10, 10), drawing.NewEllipse(geom.Pt(0, 0), 10, 10))
	vm.SetTransform(-100, 100, 1)
	vm.Update(&fakeContext{})

	count := 0
	for range vm.HitTest(HitTestArguments{Point: geom.SP(100, 100)}) {
		count++
		break
	}
	assert.Equal(t, 1, count)
}

func TestHitTestMiss(t *testing.T) {
	vm, model, _ := newTestViewModel(t, 200, 200, 0)
	model.Add(drawing.NewEllipse(geom.Pt(0, 0), 10, 10))
	vm.SetTransform(-100, 100, 1)
	vm.Update(&fakeContext{})

	assert.Nil(t, vm.HitTestFirst(HitTestArguments{Point: geom.SP(111, 100)}))
	assert.NotNil(t, vm.HitTestFirst(HitTestArguments{Point: geom.SP(109, 100)}))
}

func TestPresenterCacheIdentity(t *testing.T) {
	vm, model, _ := newTestViewModel(t, 200, 200, 0)
	e := drawing.NewRectangle(0, 0, 1, 1)
	model.Add(e)

	rc := &fakeContext{}
	require.NoError(t, vm.Paint(rc))
	first := vm.Presenter(e)
	require.NoError(t, vm.Paint(rc))
	assert.Same(t, first, vm.Presenter(e))
	assert.Equal(t, 1, vm.PresenterCount())
}

func TestPresenterEvictedOnRemove(t *testing.T) {
	vm, model, _ := newTestViewModel(t, 200, 200, 0)
	a := drawing.NewRectangle(0, 0, 1, 1)
	b := drawing.NewRectangle(0, 0, 2, 2)
	model.Add(a, b)
	vm.Update(&fakeContext{})
	require.Equal(t, 2, vm.PresenterCount())

	model.Remove(a)
	assert.Equal(t, 1, vm.PresenterCount())

	model.Clear()
	assert.Equal(t, 0, vm.PresenterCount())
}

func TestModelChangesInvalidateView(t *testing.T) {
	_, model, view := newTestViewModel(t, 200, 200, 0)
	view.Redraw.Begin()
	n := view.Invalidations()

	model.Add(drawing.NewGrid())
	assert.Equal(t, n+1, view.Invalidations())
	assert.True(t, view.Redraw.Pending())
}

func TestCloseStopsObserving(t *testing.T) {
	view := NewStaticView(10, 10, 0)
	model := drawing.NewModel()
	vm := NewViewModel(view, model)
	vm.Close()
	n := view.Invalidations()
	model.Add(drawing.NewGrid())
	assert.Equal(t, n, view.Invalidations())
}

func TestRenderContainsErrors(t *testing.T) {
	vm, model, _ := newTestViewModel(t, 200, 200, 0)
	before := drawing.NewEllipse(geom.Pt(0, 0), 1, 1)
	broken := drawing.NewImage(nil, 0, 0)
	after := drawing.NewEllipse(geom.Pt(0, 0), 1, 1)
	model.Add(before, broken, after)

	rc := &fakeContext{}
	err := vm.Paint(rc)

	require.ErrorIs(t, err, ErrNoImageSource)
	assert.Len(t, rc.ops("ellipse"), 2, "elements after the failure are still drawn")
	texts := rc.ops("text")
	require.Len(t, texts, 1)
	assert.Equal(t, geom.SP(10, 10), texts[0].at)
	assert.Equal(t, drawing.Red, texts[0].style.Color)
	assert.Equal(t, 1, rc.cleanUps)
}

func TestRenderRecoversFromPanics(t *testing.T) {
	vm, model, _ := newTestViewModel(t, 200, 200, 0)
	model.Add(drawing.NewRectangle(0, 0, 1, 1), drawing.NewEllipse(geom.Pt(0, 0), 1, 1))

	rc := &fakeContext{panicOn: "rectangle"}
	err := vm.Paint(rc)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.Len(t, rc.ops("ellipse"), 1)
	assert.Equal(t, 1, rc.cleanUps)
}

func TestRenderCallsCleanUpOnSuccess(t *testing.T) {
	vm, _, _ := newTestViewModel(t, 200, 200, 0)
	rc := &fakeContext{}
	require.NoError(t, vm.Render(rc))
	assert.Equal(t, 1, rc.cleanUps)
}

func TestRenderBoundsOutlinesElements(t *testing.T) {
	vm, model, _ := newTestViewModel(t, 200, 200, 0)
	model.Add(drawing.NewRectangle(0, -10, 10, 0), drawing.NewGrid())
	rc := &fakeContext{}
	vm.RenderBounds(rc)
	rects := rc.ops("rectangle")
	require.Len(t, rects, 1)
	assert.Equal(t, geom.NewRect(0, 0, 10, 10), rects[0].rect)
}
