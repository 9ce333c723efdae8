package examples

import (
	"fmt"
	"math"
	"slices"

	"github.com/oxydraw/oxydraw/internal/drawing"
	"github.com/oxydraw/oxydraw/internal/geom"
)

// nacaAirfoil is a NACA 4-digit airfoil. All values are fractions of the chord.
type nacaAirfoil struct {
	maxCamber         float64
	maxCamberPosition float64
	thickness         float64
}

// parseNaca parses a 4-digit designation such as "2412".
func parseNaca(id string) (nacaAirfoil, error) {
	if len(id) != 4 {
		return nacaAirfoil{}, fmt.Errorf("naca designation %q: want 4 digits", id)
	}
	var d [4]int
	for i, r := range id {
		if r < '0' || r > '9' {
			return nacaAirfoil{}, fmt.Errorf("naca designation %q: want 4 digits", id)
		}
		d[i] = int(r - '0')
	}
	return nacaAirfoil{
		maxCamber:         float64(d[0]) * 0.01,
		maxCamberPosition: float64(d[1]) * 0.1,
		thickness:         float64(d[2]*10+d[3]) * 0.01,
	}, nil
}

func (a nacaAirfoil) String() string {
	return fmt.Sprintf("NACA %d%d%02d",
		int(math.Round(a.maxCamber*100)), int(math.Round(a.maxCamberPosition*10)), int(math.Round(a.thickness*100)))
}

// profile samples n points with cosine spacing along a chord of length c.
func (a nacaAirfoil) profile(n int, c float64) (camber, thickness, upper, lower []geom.DataPoint) {
	camber = make([]geom.DataPoint, n)
	for i := range n {
		beta := math.Pi * float64(i) / float64(n-1)
		x := c * (1 - math.Cos(beta)) / 2
		camber[i] = geom.Pt(x, a.yc(c, x))
	}

	thickness = make([]geom.DataPoint, n)
	upper = make([]geom.DataPoint, n)
	lower = make([]geom.DataPoint, n)
	for i := range n {
		i0, i1 := max(i-1, 0), min(i+1, n-1)
		theta := math.Atan2(camber[i1].Y-camber[i0].Y, camber[i1].X-camber[i0].X)
		x := camber[i].X
		yt := a.yt(c, x)
		thickness[i] = geom.Pt(x, yt)
		upper[i] = geom.Pt(x-yt*math.Sin(theta), camber[i].Y+yt*math.Cos(theta))
		lower[i] = geom.Pt(x+yt*math.Sin(theta), camber[i].Y-yt*math.Cos(theta))
	}
	return camber, thickness, upper, lower
}

func (a nacaAirfoil) yt(c, x float64) float64 {
	xc := x / c
	return a.thickness / 0.2 * c * (0.2969*math.Sqrt(xc) - 0.126*xc - 0.3516*xc*xc + 0.2843*xc*xc*xc - 0.1015*xc*xc*xc*xc)
}

func (a nacaAirfoil) yc(c, x float64) float64 {
	m, p := a.maxCamber, a.maxCamberPosition
	if x < p*c {
		return m * x / (p * p) * (2*p - x/c)
	}
	return m * (c - x) / ((1 - p) * (1 - p)) * (1 + x/c - 2*p)
}

func naca(id string) func(Env) *drawing.Model {
	airfoil, err := parseNaca(id)
	if err != nil {
		panic(err)
	}
	return func(Env) *drawing.Model {
		camber, thickness, upper, lower := airfoil.profile(81, 100)
		outline := slices.Clone(upper)
		slices.Reverse(outline)
		outline = append(outline, lower...)

		m := drawing.NewModel()
		m.Background = drawing.RGB(0, 128, 196)

		g := drawing.NewGrid()
		g.MajorColor = drawing.White.WithAlpha(20)
		g.MinorColor = drawing.White.WithAlpha(10)
		m.Add(g)

		body := drawing.NewPolygon(outline...)
		body.Stroke = drawing.Blue
		body.Fill = drawing.White.WithAlpha(30)
		body.Thickness = -2
		m.Add(body)

		purple := drawing.RGB(128, 0, 128)
		for _, l := range []struct {
			points []geom.DataPoint
			color  drawing.Color
		}{{camber, drawing.Red}, {thickness, purple}} {
			line := drawing.NewPolyline(l.points...)
			line.Color = l.color
			line.Thickness = -2
			m.Add(line)
		}

		text := func(p geom.DataPoint, s string, size float64, c drawing.Color, bold bool) {
			t := drawing.NewText(p, s)
			t.FontSize = size
			t.Color = c
			if bold {
				t.FontWeight = drawing.FontWeightBold
			}
			m.Add(t)
		}
		text(geom.Pt(0, 20), "Airfoil example", 4, drawing.Black, true)
		text(geom.Pt(0, -7), airfoil.String(), 3, drawing.Black, true)
		text(geom.Pt(80, -4), "Camber line", 2, drawing.Red, false)
		text(geom.Pt(80, -7), "Thickness", 2, purple, false)

		m.Add(drawing.NewRectangle(-2, -12, 102, 22))
		return m
	}
}
