package engine

import (
	"image"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxydraw/oxydraw/internal/drawing"
	"github.com/oxydraw/oxydraw/internal/geom"
)

func TestPolylineResamplingKeepsEndpoints(t *testing.T) {
	vm, model, _ := newTestViewModel(t, 200, 200, 0)
	line := drawing.NewPolyline(
		geom.Pt(0, 0), geom.Pt(1, 0), geom.Pt(2, 0), geom.Pt(3, 0), geom.Pt(4, 0),
		geom.Pt(20, 0), geom.Pt(21, 0), geom.Pt(22, 0),
	)
	line.MinimumSegmentLength = 5
	model.Add(line)

	rc := &fakeContext{}
	require.NoError(t, vm.Paint(rc))

	drawn := rc.ops("line")[0].points
	require.NotEmpty(t, drawn)
	assert.Equal(t, geom.SP(0, 0), drawn[0])
	assert.Equal(t, geom.SP(22, 0), drawn[len(drawn)-1])
	assert.Equal(t, []geom.ScreenPoint{geom.SP(0, 0), geom.SP(20, 0), geom.SP(22, 0)}, drawn)
}

func TestPolylineWithoutResamplingKeepsAllPoints(t *testing.T) {
	vm, model, _ := newTestViewModel(t, 200, 200, 0)
	model.Add(drawing.NewPolyline(geom.Pt(0, 0), geom.Pt(1, 0), geom.Pt(2, 0)))
	rc := &fakeContext{}
	require.NoError(t, vm.Paint(rc))
	assert.Len(t, rc.ops("line")[0].points, 3)
}

func TestPolylineHitTestReportsSegment(t *testing.T) {
	vm, model, _ := newTestViewModel(t, 200, 200, 0)
	line := drawing.NewPolyline(geom.Pt(0, 0), geom.Pt(10, 0), geom.Pt(10, -10))
	model.Add(line)
	vm.Update(&fakeContext{})

	r := vm.HitTestFirst(HitTestArguments{Point: geom.SP(11, 5), Tolerance: 2})
	require.NotNil(t, r)
	assert.Equal(t, 1, r.Item)
	assert.Equal(t, geom.SP(10, 5), r.NearestHitPoint)

	assert.Nil(t, vm.HitTestFirst(HitTestArguments{Point: geom.SP(5, 5), Tolerance: 2}))
}

func TestLinesDrawSegments(t *testing.T) {
	vm, model, _ := newTestViewModel(t, 200, 200, 0)
	lines := drawing.NewLines()
	lines.Add(geom.Pt(0, 0), geom.Pt(1, 0))
	lines.Add(geom.Pt(0, -5), geom.Pt(1, -5))
	model.Add(lines)
	vm.Update(&fakeContext{})

	r := vm.HitTestFirst(HitTestArguments{Point: geom.SP(0.5, 5), Tolerance: 1})
	require.NotNil(t, r)
	assert.Equal(t, 1, r.Item)
	assert.Nil(t, vm.HitTestFirst(HitTestArguments{Point: geom.SP(0.5, 2.5), Tolerance: 1}))
}

func TestEllipseDeviceUnitRadius(t *testing.T) {
	vm, model, _ := newTestViewModel(t, 200, 200, 0)
	e := drawing.NewEllipse(geom.Pt(0, 0), -5, 2)
	model.Add(e)
	vm.SetTransform(0, 0, 10)

	rc := &fakeContext{}
	require.NoError(t, vm.Paint(rc))
	r := rc.ops("ellipse")[0].rect
	assert.Equal(t, 10.0, r.Width)
	assert.Equal(t, 40.0, r.Height)

	bb := vm.Presenter(e).Bounds(rc)
	assert.Equal(t, geom.NewBox(0, -2, 0, 2), bb, "device-unit radii do not contribute to bounds")
}

func TestEllipseText(t *testing.T) {
	vm, model, _ := newTestViewModel(t, 200, 200, 0)
	e := drawing.NewEllipse(geom.Pt(10, -10), 5, 5)
	e.Text = "hi"
	model.Add(e)

	rc := &fakeContext{}
	require.NoError(t, vm.Paint(rc))
	texts := rc.ops("text")
	require.Len(t, texts, 1)
	assert.Equal(t, geom.SP(10, 10), texts[0].at)
	assert.Equal(t, drawing.AlignCenter, texts[0].style.HAlign)
}

func TestRoundedRectangleOutline(t *testing.T) {
	vm, model, _ := newTestViewModel(t, 200, 200, 0)
	sharp := drawing.NewRoundedRectangle(0, -10, 10, 0, 0)
	round := drawing.NewRoundedRectangle(0, -10, 10, 0, 2)
	model.Add(sharp, round)

	rc := &fakeContext{}
	require.NoError(t, vm.Paint(rc))
	polygons := rc.ops("polygon")
	require.Len(t, polygons, 2)
	assert.Len(t, polygons[0].points, 4)
	assert.Len(t, polygons[1].points, 1+4*cornerArcPoints)
	assert.Equal(t, geom.SP(2, 0), polygons[1].points[0])
}

func TestTextBoundsFollowAlignment(t *testing.T) {
	vm, model, _ := newTestViewModel(t, 200, 200, 0)
	vm.SetTransform(0, 0, 2)
	text := drawing.NewText(geom.Pt(0, 0), "abcd")
	model.Add(text)
	rc := &fakeContext{}

	// 11 px font: 22 x 11 px, 11 x 5.5 data units at scale 2.
	assert.Equal(t, geom.NewBox(0, -5.5, 11, 0), vm.Presenter(text).Bounds(rc))

	text.HorizontalAlignment = drawing.AlignRight
	text.VerticalAlignment = drawing.AlignBottom
	assert.Equal(t, geom.NewBox(-11, 0, 0, 5.5), vm.Presenter(text).Bounds(rc))

	text.HorizontalAlignment = drawing.AlignCenter
	text.VerticalAlignment = drawing.AlignMiddle
	assert.Equal(t, geom.NewBox(-5.5, -2.75, 5.5, 2.75), vm.Presenter(text).Bounds(rc))
}

func TestTextRenderAndHitTest(t *testing.T) {
	vm, model, _ := newTestViewModel(t, 200, 200, 0)
	text := drawing.NewText(geom.Pt(10, -10), "abcd")
	model.Add(text)

	rc := &fakeContext{}
	require.NoError(t, vm.Paint(rc))
	texts := rc.ops("text")
	require.Len(t, texts, 1)
	assert.Equal(t, geom.SP(10, 10), texts[0].at)
	assert.Equal(t, 11.0, texts[0].style.Font.Size)

	assert.NotNil(t, vm.HitTestFirst(HitTestArguments{Point: geom.SP(20, 15)}))
	assert.Nil(t, vm.HitTestFirst(HitTestArguments{Point: geom.SP(20, 5)}))
}

func TestUmlClassBoxLayout(t *testing.T) {
	vm, model, _ := newTestViewModel(t, 200, 200, 0)
	box := drawing.NewUmlClassBox(geom.Pt(0, 0), "Model")
	box.FontSize = -10
	box.Properties = []string{"Background"}
	box.Methods = []string{"Add", "Remove"}
	model.Add(box)

	rc := &fakeContext{}
	require.NoError(t, vm.Paint(rc))

	texts := rc.ops("text")
	require.Len(t, texts, 4)
	assert.Equal(t, drawing.FontWeightBold, texts[0].style.Font.Weight)
	assert.Equal(t, geom.SP(5, 30), texts[3].at)

	rects := rc.ops("rectangle")
	require.Len(t, rects, 1)
	// Widest line is "Background": 50 px, plus half the font size.
	assert.Equal(t, geom.NewRect(0, 0, 55, 40), rects[0].rect)
	assert.Len(t, rc.ops("segments")[0].points, 4)

	bb := vm.Presenter(box).Bounds(rc)
	assert.Equal(t, geom.NewBox(0, -40, 50, 0), bb)
}

func TestUmlClassBoxFillIsBehindText(t *testing.T) {
	vm, model, _ := newTestViewModel(t, 200, 200, 0)
	box := drawing.NewUmlClassBox(geom.Pt(0, 0), "Model")
	box.FontSize = -10
	box.Properties = []string{"Background"}
	box.Fill = drawing.White
	model.Add(box)

	rc := &fakeContext{}
	require.NoError(t, vm.Paint(rc))

	var order []string
	for _, c := range rc.calls {
		order = append(order, c.op)
	}
	assert.Equal(t, []string{"rectangle", "text", "text", "rectangle", "segments"}, order)

	assert.Equal(t, drawing.White, rc.calls[0].fill)
	assert.False(t, rc.calls[0].pen.IsVisible())
	assert.Equal(t, drawing.Undefined, rc.calls[3].fill)
	assert.True(t, rc.calls[3].pen.IsVisible())
}

func TestArrowPolygon(t *testing.T) {
	vm, model, _ := newTestViewModel(t, 200, 200, 0)
	arrow := drawing.NewArrow(geom.Pt(0, 0), geom.Pt(100, 0))
	model.Add(arrow)

	rc := &fakeContext{}
	require.NoError(t, vm.Paint(rc))
	polygons := rc.ops("polygon")
	require.Len(t, polygons, 1)
	points := polygons[0].points
	require.Len(t, points, 7)
	assert.Equal(t, geom.SP(100, 0), points[0])
	assert.InDelta(t, 94, points[1].X, 1e-9)
	assert.Equal(t, drawing.Black, polygons[0].fill)

	assert.NotNil(t, vm.HitTestFirst(HitTestArguments{Point: geom.SP(50, 0.2)}))
	assert.Equal(t, geom.NewBox(0, 0, 100, 0), vm.Presenter(arrow).Bounds(rc))
}

func TestGridLinesCoverClientArea(t *testing.T) {
	vm, model, _ := newTestViewModel(t, 100, 50, 0)
	model.Add(drawing.NewGrid())
	vm.SetTransform(0, 0, 5)

	rc := &fakeContext{}
	require.NoError(t, vm.Paint(rc))
	segments := rc.ops("segments")
	require.Len(t, segments, 2)

	major, minor := segments[0], segments[1]
	// x in [0, 20] and y in [-10, 0]: lines at multiples of 1.
	assert.Len(t, major.points, 2*(3+2))
	assert.Len(t, minor.points, 2*(21+11-5))
	assert.True(t, major.pen.Aliased)
	assert.Equal(t, 1.0, major.pen.Thickness)
}

func TestGridFallsBackToMajorLinesWhenZoomedOut(t *testing.T) {
	vm, model, _ := newTestViewModel(t, 100, 100, 0)
	model.Add(drawing.NewGrid())
	vm.SetTransform(0, 0, 0.02)

	rc := &fakeContext{}
	require.NoError(t, vm.Paint(rc))
	assert.Empty(t, rc.ops("segments")[1].points)
	assert.NotEmpty(t, rc.ops("segments")[0].points)
}

type fakeTiles struct {
	mu    sync.Mutex
	uris  []string
	async []bool
}

func (f *fakeTiles) Tile(uri string, async bool, ready func()) image.Image {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uris = append(f.uris, uri)
	f.async = append(f.async, async)
	return image.NewRGBA(image.Rect(0, 0, 256, 256))
}

func TestTileLayerRequestsVisibleTiles(t *testing.T) {
	vm, model, _ := newTestViewModel(t, 512, 512, 0)
	tiles := &fakeTiles{}
	layer := drawing.NewTileLayer(tiles)
	layer.Source = "{Z}/{X}/{Y}"
	model.Add(layer)
	// The whole world, zoom-0 tile coordinates [0,1] x [-1,0], in 512 px.
	vm.SetTransform(0, 0, 512)

	rc := &fakeContext{screen: true}
	require.NoError(t, vm.Paint(rc))

	assert.ElementsMatch(t, []string{"1/0/0", "1/0/1", "1/1/0", "1/1/1"}, tiles.uris)
	assert.Equal(t, []bool{true, true, true, true}, tiles.async)
	images := rc.ops("clippedImage")
	require.Len(t, images, 4)
	assert.InDelta(t, 256, images[0].rect.Width, 1e-6)

	texts := rc.ops("text")
	require.Len(t, texts, 1)
	assert.Equal(t, "OpenStreetMap", texts[0].text)
	assert.Equal(t, geom.SP(507, 507), texts[0].at)
}

func TestTileLayerWithoutProviderDrawsNotice(t *testing.T) {
	vm, model, _ := newTestViewModel(t, 512, 512, 0)
	model.Add(drawing.NewTileLayer(nil))
	vm.SetTransform(0, 0, 512)
	rc := &fakeContext{}
	require.NoError(t, vm.Paint(rc))
	assert.Empty(t, rc.ops("clippedImage"))
	assert.Len(t, rc.ops("text"), 1)
}

func TestImagePlacement(t *testing.T) {
	vm, model, _ := newTestViewModel(t, 200, 200, 0)
	img := drawing.NewImage(image.NewRGBA(image.Rect(0, 0, 8, 4)), 10, -10)
	model.Add(img)

	rc := &fakeContext{}
	require.NoError(t, vm.Paint(rc))
	images := rc.ops("clippedImage")
	require.Len(t, images, 1)
	assert.Equal(t, geom.NewRect(10, 10, 8, 4), images[0].rect)
	assert.Equal(t, geom.NewBox(10, -14, 18, -10), vm.Presenter(img).Bounds(rc))
	assert.NotNil(t, vm.HitTestFirst(HitTestArguments{Point: geom.SP(12, 12)}))
}

func TestPolygonHitTest(t *testing.T) {
	vm, model, _ := newTestViewModel(t, 200, 200, 0)
	poly := drawing.NewPolygon(geom.Pt(0, 0), geom.Pt(10, 0), geom.Pt(10, -10), geom.Pt(0, -10))
	model.Add(poly)
	vm.Update(&fakeContext{})

	assert.NotNil(t, vm.HitTestFirst(HitTestArguments{Point: geom.SP(5, 5)}))
	edge := vm.HitTestFirst(HitTestArguments{Point: geom.SP(11, 5), Tolerance: 2})
	require.NotNil(t, edge)
	assert.Equal(t, geom.SP(10, 5), edge.NearestHitPoint)
	assert.Nil(t, vm.HitTestFirst(HitTestArguments{Point: geom.SP(15, 5), Tolerance: 2}))
}

func TestEveryKindHasPresenter(t *testing.T) {
	vm, _, _ := newTestViewModel(t, 10, 10, 0)
	elements := []drawing.Element{
		drawing.NewEllipse(geom.Pt(0, 0), 1, 1),
		drawing.NewRectangle(0, 0, 1, 1),
		drawing.NewRoundedRectangle(0, 0, 1, 1, 0),
		drawing.NewPolygon(),
		drawing.NewPolyline(),
		drawing.NewLines(),
		drawing.NewText(geom.Pt(0, 0), ""),
		drawing.NewImage(nil, 0, 0),
		drawing.NewTileLayer(nil),
		drawing.NewUmlClassBox(geom.Pt(0, 0), ""),
		drawing.NewArrow(geom.Pt(0, 0), geom.Pt(1, 0)),
		drawing.NewGrid(),
	}
	require.Len(t, elements, len(drawing.Kinds))
	for _, e := range elements {
		p := vm.Presenter(e)
		require.NotNil(t, p, e.Kind())
		assert.Same(t, e, p.Element())
	}
}
