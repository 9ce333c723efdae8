package examples

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/oxydraw/oxydraw/internal/document"
	"github.com/oxydraw/oxydraw/internal/drawing"
	"github.com/oxydraw/oxydraw/internal/geom"
)

func uml(Env) *drawing.Model {
	m := drawing.NewModel()
	box := drawing.NewUmlClassBox(geom.Pt(0, 0), "BankAccount")
	box.Properties = []string{"owner : String", "balance : Dollars = 0"}
	box.Methods = []string{"deposit ( amount : Dollars )", "withdrawal ( amount : Dollars )"}
	m.Add(box)
	return m
}

// trackLog returns a closed loop of positions around Oslo, roughly 25 km long.
func trackLog() []drawing.LatLon {
	const n = 200
	center := drawing.LatLon{Latitude: 59.94, Longitude: 10.72}
	track := make([]drawing.LatLon, 0, n+1)
	for i := 0; i <= n; i++ {
		a := 2 * math.Pi * float64(i) / n
		wobble := 1 + 0.15*math.Sin(5*a)
		track = append(track, drawing.LatLon{
			Latitude:  center.Latitude + 0.035*wobble*math.Sin(a),
			Longitude: center.Longitude + 0.07*wobble*math.Cos(a),
		})
	}
	return track
}

// milestones returns the positions at every multiple of distance metres along track.
func milestones(track []drawing.LatLon, distance float64) map[float64]drawing.LatLon {
	out := make(map[float64]drawing.LatLon)
	next, d0 := distance, 0.0
	for i := 1; i < len(track); i++ {
		a, b := track[i-1], track[i]
		d1 := d0 + a.DistanceTo(b)
		for next > d0 && next <= d1 {
			f := (next - d0) / (d1 - d0)
			out[next] = drawing.LatLon{
				Latitude:  a.Latitude + f*(b.Latitude-a.Latitude),
				Longitude: a.Longitude + f*(b.Longitude-a.Longitude),
			}
			next += distance
		}
		d0 = d1
	}
	return out
}

func tileLayer(env Env) *drawing.Model {
	m := drawing.NewModel()
	layer := drawing.NewTileLayer(env.Tiles)
	layer.Opacity = 0.7
	m.Add(layer)

	track := trackLog()
	points := make([]geom.DataPoint, len(track))
	for i, l := range track {
		points[i] = drawing.ToPoint(l)
	}
	line := drawing.NewPolyline(points...)
	line.Color = drawing.Red.WithAlpha(180)
	line.Thickness = -3
	line.MinimumSegmentLength = 1
	m.Add(line)

	for d, l := range milestones(track, 5000) {
		e := drawing.NewEllipse(drawing.ToPoint(l), -10, -10)
		e.Fill = drawing.White.WithAlpha(180)
		e.Thickness = -1.5
		e.Text = fmt.Sprintf("%.0f", d/1000)
		e.FontSize = 9
		m.Add(e)
	}
	return m
}

// gradient renders a w x h test image.
func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(255 * x / max(w-1, 1)),
				G: uint8(255 * y / max(h-1, 1)),
				B: 160,
				A: 255,
			})
		}
	}
	return img
}

func imageExample(Env) *drawing.Model {
	m := drawing.NewModel()
	src := gradient(64, 64)

	full := drawing.NewImage(src, 0, 64)
	m.Add(full)

	scaled := drawing.NewImage(src, 80, 64)
	scaled.Width, scaled.Height = 32, 64
	scaled.Interpolate = false
	m.Add(scaled)

	part := drawing.NewImage(src, 130, 64)
	part.SourceRect = image.Rect(16, 16, 48, 48)
	part.Opacity = 0.5
	m.Add(part)

	m.Add(drawing.NewText(geom.Pt(0, 70), "Images"))
	return m
}

func sampleDocument(Env) *drawing.Model {
	m, err := document.NewSampleDocument().Build(document.Options{})
	if err != nil {
		panic(err)
	}
	return m
}

// mouseEvents shows a point that changes while it is pressed.
func mouseEvents(Env) *Demo {
	m := drawing.NewModel()
	p := addPoint(m, geom.Pt(0, 0), drawing.Red)
	p.FontSize = 120
	p.FontWeight = drawing.FontWeightBold
	fill := p.Fill

	return &Demo{
		Model: m,
		OnPress: func(e drawing.Element) {
			if e != drawing.Element(p) {
				return
			}
			p.Text = "Pressed"
			p.Fill = drawing.Red
			m.Invalidate()
		},
		OnRelease: func() {
			if p.Text == "" {
				return
			}
			p.Text = ""
			p.Fill = fill
			m.Invalidate()
		},
	}
}
