package render

import (
	"bytes"
	"image"
	"image/color"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxydraw/oxydraw/internal/drawing"
	"github.com/oxydraw/oxydraw/internal/engine"
	"github.com/oxydraw/oxydraw/internal/geom"
)

func sampleModel() (*drawing.Model, *drawing.Ellipse, *drawing.Rectangle) {
	model := drawing.NewModel()
	e := drawing.NewEllipse(geom.Pt(0, 0), 10, 5)
	e.Fill = drawing.SkyBlue
	r := drawing.NewRectangle(20, 0, 40, 10)
	r.Fill = drawing.Orange
	t := drawing.NewText(geom.Pt(0, 20), "Hello")
	model.Add(e, r, t)
	return model, e, r
}

func paint(t *testing.T, rc engine.RenderContext, width, height float64) {
	t.Helper()
	model, _, _ := sampleModel()
	vm := engine.NewViewModel(engine.NewStaticView(width, height, 10), model)
	defer vm.Close()
	vm.ZoomExtents(rc)
	require.NoError(t, vm.Paint(rc))
}

func TestRecorderTagsCommandsWithElement(t *testing.T) {
	model, e, r := sampleModel()
	vm := engine.NewViewModel(engine.NewStaticView(200, 100, 10), model)
	defer vm.Close()
	rec := NewRecorder()
	vm.ZoomExtents(rec)
	require.NoError(t, vm.Paint(rec))
	assert.Equal(t, 1, rec.Frames())

	cmds := rec.Commands()
	require.Len(t, cmds, 3)
	assert.Equal(t, "ellipse", cmds[0].Op)
	assert.Equal(t, e.ID, cmds[0].ObjectID)
	assert.Equal(t, drawing.SkyBlue.String(), cmds[0].Fill)
	assert.Equal(t, "rect", cmds[1].Op)
	assert.Equal(t, r.ID, cmds[1].ObjectID)
	assert.Equal(t, "text", cmds[2].Op)
	assert.Equal(t, "Hello", cmds[2].Text)

	out, err := rec.JSON()
	require.NoError(t, err)
	assert.Contains(t, out, `"op":"ellipse"`)
	assert.Contains(t, out, `"objectId":"`+e.ID+`"`)

	rec.Reset()
	assert.Empty(t, rec.Commands())
}

func TestDrawCommandsToJSONEmpty(t *testing.T) {
	out, err := DrawCommandsToJSON(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", out)
}

func TestRecorderPathBreaks(t *testing.T) {
	rec := NewRecorder()
	nan := math.NaN()
	rec.DrawLine([]geom.ScreenPoint{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: nan, Y: nan}, {X: 5, Y: 5}, {X: 6, Y: 6}},
		engine.Pen{Color: drawing.Black, Thickness: 1})
	require.Len(t, rec.Commands(), 1)
	ops := make([]string, 0)
	for _, c := range rec.Commands()[0].Path {
		ops = append(ops, c[0].(string))
	}
	assert.Equal(t, []string{"M", "L", "M", "L"}, ops)
}

func TestRecorderSkipsInvisible(t *testing.T) {
	rec := NewRecorder()
	rec.DrawRectangle(geom.NewRect(0, 0, 10, 10), drawing.Undefined, engine.Pen{Color: drawing.Black})
	rec.DrawText(geom.SP(0, 0), "x", engine.TextStyle{Color: drawing.Black})
	assert.Empty(t, rec.Commands())
}

func TestCSSFont(t *testing.T) {
	assert.Equal(t, "bold 12px Arial", CSSFont(engine.Font{Family: "Arial", Size: 12, Weight: drawing.FontWeightBold}))
	assert.Equal(t, "normal 9.5px sans-serif", CSSFont(engine.Font{Size: 9.5, Weight: drawing.FontWeightNormal}))
}

func TestMeasurer(t *testing.T) {
	m := NewMeasurer()
	defer m.Close()
	f := engine.Font{Family: "Arial", Size: 12, Weight: drawing.FontWeightNormal}

	short := m.MeasureText("ab", f)
	long := m.MeasureText("abcdefgh", f)
	assert.Greater(t, short.Width, 0.0)
	assert.Greater(t, long.Width, short.Width)
	assert.InDelta(t, short.Height, long.Height, 1e-9)
	assert.Greater(t, short.Height, 10.0)

	mono := m.MeasureText("iiii", engine.Font{Family: "Consolas", Size: 12})
	wide := m.MeasureText("MMMM", engine.Font{Family: "Consolas", Size: 12})
	assert.InDelta(t, mono.Width, wide.Width, 1e-9, "monospaced families share advances")

	assert.Equal(t, geom.Size{}, m.MeasureText("abc", engine.Font{Size: 0}))
}

func TestAlignOffset(t *testing.T) {
	size := geom.Size{Width: 20, Height: 10}
	assert.Equal(t, geom.SV(0, 0), alignOffset(size, engine.TextStyle{HAlign: drawing.AlignLeft, VAlign: drawing.AlignTop}))
	assert.Equal(t, geom.SV(-10, -5), alignOffset(size, engine.TextStyle{HAlign: drawing.AlignCenter, VAlign: drawing.AlignMiddle}))
	assert.Equal(t, geom.SV(-20, -10), alignOffset(size, engine.TextStyle{HAlign: drawing.AlignRight, VAlign: drawing.AlignBottom}))
}

func rgba(img image.Image, x, y int) color.RGBA {
	return color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
}

func TestRasterFillsRectangle(t *testing.T) {
	r := NewRaster(20, 20, drawing.White)
	r.DrawRectangle(geom.NewRect(5, 5, 10, 10), drawing.Red, engine.Pen{})

	assert.Equal(t, color.RGBA{R: 255, A: 255}, rgba(r.Image(), 10, 10))
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, rgba(r.Image(), 1, 1))
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, rgba(r.Image(), 17, 17))
}

func TestRasterStrokesLine(t *testing.T) {
	r := NewRaster(20, 20, drawing.White)
	r.DrawLine([]geom.ScreenPoint{geom.SP(0, 10), geom.SP(20, 10)}, engine.Pen{Color: drawing.Black, Thickness: 4})

	assert.Equal(t, color.RGBA{A: 255}, rgba(r.Image(), 10, 10))
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, rgba(r.Image(), 10, 2))
}

func TestRasterDrawsScene(t *testing.T) {
	r := NewRaster(200, 100, drawing.White)
	paint(t, r, 200, 100)

	var buf bytes.Buffer
	require.NoError(t, r.EncodePNG(&buf))
	decoded, _, err := image.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 200, 100), decoded.Bounds())

	changed := 0
	b := r.Image().Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if rgba(r.Image(), x, y) != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
				changed++
			}
		}
	}
	assert.Greater(t, changed, 100)
}

func TestRasterDrawsImageWithOpacity(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			src.Set(x, y, color.RGBA{A: 255})
		}
	}
	r := NewRaster(10, 10, drawing.White)
	r.DrawClippedImage(geom.NewRect(0, 0, 5, 10), src, src.Bounds(), geom.NewRect(0, 0, 10, 10), 1, false)

	assert.Equal(t, color.RGBA{A: 255}, rgba(r.Image(), 2, 5))
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, rgba(r.Image(), 7, 5), "outside the clip")
}

func TestDashes(t *testing.T) {
	run := []geom.ScreenPoint{geom.SP(0, 0), geom.SP(100, 0)}
	out := dashes(run, engine.Pen{Thickness: 2, Dash: []float64{4, 1}})
	require.Len(t, out, 10)
	assert.InDelta(t, 8, out[0][len(out[0])-1].X, 1e-9)
	assert.InDelta(t, 10, out[1][0].X, 1e-9)

	solid := dashes(run, engine.Pen{Thickness: 2})
	assert.Equal(t, [][]geom.ScreenPoint{run}, solid)
}

func TestSplitRuns(t *testing.T) {
	nan := math.NaN()
	points := []geom.ScreenPoint{{X: nan, Y: nan}, {X: 0, Y: 0}, {X: 1, Y: 0}, {X: nan, Y: nan}, {X: 2, Y: 2}}
	runs := splitRuns(points)
	require.Len(t, runs, 2)
	assert.Len(t, runs[0], 2)
	assert.Len(t, runs[1], 1)
}

func TestOrientedPolygons(t *testing.T) {
	area := func(poly []geom.ScreenPoint) float64 {
		a := 0.0
		for i := range poly {
			p, q := poly[i], poly[(i+1)%len(poly)]
			a += p.X*q.Y - q.X*p.Y
		}
		return a
	}
	cw := []geom.ScreenPoint{geom.SP(0, 0), geom.SP(1, 0), geom.SP(1, 1), geom.SP(0, 1)}
	ccw := []geom.ScreenPoint{geom.SP(0, 1), geom.SP(1, 1), geom.SP(1, 0), geom.SP(0, 0)}
	assert.Less(t, area(oriented(cw)), 0.0)
	assert.Less(t, area(oriented(ccw)), 0.0)
}

func TestSVGDocument(t *testing.T) {
	var buf bytes.Buffer
	s := NewSVG(&buf, 200, 100, drawing.White)
	paint(t, s, 200, 100)
	s.CleanUp()

	out := buf.String()
	assert.True(t, strings.HasPrefix(strings.TrimSpace(out), "<?xml"))
	assert.Contains(t, out, "<ellipse")
	assert.Contains(t, out, "<path")
	assert.Contains(t, out, ">Hello</text>")
	assert.Contains(t, out, "data-element=")
	assert.Equal(t, 1, strings.Count(out, "</svg>"))
}

func TestSVGRotatedTextAndImage(t *testing.T) {
	var buf bytes.Buffer
	s := NewSVG(&buf, 50, 50, drawing.Undefined)
	s.DrawText(geom.SP(10, 10), "R", engine.TextStyle{Color: drawing.Black, Font: engine.Font{Size: 10}, Rotate: 90})
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	s.DrawClippedImage(geom.NewRect(0, 0, 20, 20), src, src.Bounds(), geom.NewRect(0, 0, 40, 40), 0.5, true)
	s.CleanUp()

	out := buf.String()
	assert.Contains(t, out, "rotate(90 10 10)")
	assert.Contains(t, out, "data:image/png;base64,")
	assert.Contains(t, out, `clip-path="url(#clip1)"`)
}
