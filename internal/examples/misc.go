package examples

import (
	"math"

	"github.com/oxydraw/oxydraw/internal/drawing"
	"github.com/oxydraw/oxydraw/internal/geom"
)

// addPoint adds a translucent circle marking p.
func addPoint(m *drawing.Model, p geom.DataPoint, c drawing.Color) *drawing.Ellipse {
	e := drawing.NewEllipse(p, 1, 1)
	e.Stroke = c
	e.Thickness = -2
	e.Fill = c.WithAlpha(63)
	m.Add(e)
	return e
}

// findCircle returns the circle through a, b and c.
func findCircle(a, b, c geom.DataPoint) (center geom.DataPoint, r float64) {
	x1, y1 := (b.X+a.X)/2, (b.Y+a.Y)/2
	dy1, dx1 := b.X-a.X, -(b.Y - a.Y)
	x2, y2 := (c.X+b.X)/2, (c.Y+b.Y)/2
	dy2, dx2 := c.X-b.X, -(c.Y - b.Y)

	cx := (y1*dx1*dx2 + x2*dx1*dy2 - x1*dy1*dx2 - y2*dx1*dx2) / (dx1*dy2 - dy1*dx2)
	cy := (cx-x1)*dy1/dx1 + y1
	center = geom.Pt(cx, cy)
	return center, math.Hypot(cx-a.X, cy-a.Y)
}

func circleFromThreePoints(Env) *drawing.Model {
	m := drawing.NewModel()
	circle := drawing.NewEllipse(geom.Pt(0, 0), 0, 0)
	circle.Fill = drawing.LightGray
	circle.Stroke = drawing.SkyBlue
	circle.Thickness = -2
	m.Add(circle)

	points := []geom.DataPoint{geom.Pt(0, 0), geom.Pt(100, 20), geom.Pt(50, 50)}
	for _, p := range points {
		addPoint(m, p, drawing.SkyBlue)
	}
	c, r := findCircle(points[0], points[1], points[2])
	circle.Center = c
	circle.RadiusX, circle.RadiusY = r, r
	return m
}

const au = 1.496e11

type planet struct {
	name     string
	distance float64 // AU
	radius   float64 // metres
	color    drawing.Color
}

var solarSystem = []planet{
	{"Sun", 0, 696342e3, drawing.Yellow},
	{"Mercury", 0.4, 2439.7e3, drawing.RGB(128, 0, 0)},
	{"Venus", 0.7, 6051.8e3, drawing.RGB(238, 130, 238)},
	{"Earth", 1, 6371e3, drawing.RGB(240, 248, 255)},
	{"Mars", 1.5, 3389.5e3, drawing.RGB(255, 0, 255)},
	{"Jupiter", 5.2, 69911e3, drawing.RGB(205, 133, 63)},
	{"Saturn", 9.5, 58232e3, drawing.RGB(250, 128, 114)},
	{"Uranus", 19.2, 25362e3, drawing.RGB(255, 69, 0)},
	{"Neptune", 30, 24622e3, drawing.Blue},
	{"Pluto", 39, 1184e3, drawing.Black},
}

func planetEllipse(p planet) *drawing.Ellipse {
	e := drawing.NewEllipse(geom.Pt(p.distance, 0), p.radius/au, p.radius/au)
	e.Fill = p.color
	e.Text = p.name
	return e
}

func planets(Env) *drawing.Model {
	m := drawing.NewModel()
	for _, p := range solarSystem {
		m.Add(planetEllipse(p))
	}
	return m
}

// orbit animates the inner planets around the sun, one simulated year per ten seconds.
func orbit(Env) *drawing.Model {
	m := drawing.NewModel()
	m.Background = drawing.Black
	for _, p := range solarSystem[:5] {
		e := planetEllipse(p)
		if p.distance > 0 {
			e.RadiusX, e.RadiusY = -6, -6
			e.TextColor = drawing.White
			track := drawing.NewPolyline(geom.DataArc(geom.Pt(0, 0), p.distance, p.distance, 0, 360, 91)...)
			track.Color = drawing.Gray
			m.Add(track)
		}
		period := math.Pow(p.distance, 1.5) * 10
		radius := p.distance
		e.OnFrame(func(f drawing.FrameEvent) {
			if period == 0 {
				return
			}
			a := 2 * math.Pi * f.Cumulative.Seconds() / period
			e.Center = geom.Pt(radius*math.Cos(a), radius*math.Sin(a))
			m.Invalidate()
		})
		m.Add(e)
	}
	return m
}

func grid(Env) *drawing.Model {
	m := drawing.NewModel()
	m.Add(drawing.NewGrid())
	for i := 50; i >= 10; i -= 5 {
		e := drawing.NewEllipse(geom.Pt(float64(i), 0), float64(i), float64(i))
		e.Fill = drawing.Gray.WithAlpha(40)
		m.Add(e)
	}
	return m
}

func opticalIllusion(Env) *drawing.Model {
	m := drawing.NewModel()
	m.Background = drawing.Black
	const n = 10
	for i := 0; i+1 < n; i++ {
		for j := 0; j < 5; j++ {
			x := 1.5 + math.Sin(float64(i)*math.Pi*2/(n-1)) + float64(j)*3
			r := drawing.NewRectangle(x, float64(i), x+1, float64(i+1))
			r.Fill = drawing.White
			m.Add(r)
		}
	}
	for i := 0; i < n; i++ {
		l := drawing.NewLines(geom.Pt(0, float64(i)), geom.Pt(16, float64(i)))
		l.Color = drawing.Gray
		l.Thickness = -2
		m.Add(l)
	}
	return m
}

func arrows(Env) *drawing.Model {
	m := drawing.NewModel()
	for i, veeness := range []float64{1, 0, -1} {
		y := float64(i) * 10
		a := drawing.NewArrow(geom.Pt(0, y), geom.Pt(40, y+10))
		a.Veeness = veeness
		m.Add(a)
	}
	return m
}

// hsv converts a hue, saturation and value in [0, 1] to a color.
func hsv(h, s, v float64) drawing.Color {
	if s == 0 {
		c := uint8(v * 255)
		return drawing.RGB(c, c, c)
	}
	h = math.Mod(h, 1) * 6
	i := math.Floor(h)
	f := h - i
	p, q, t := v*(1-s), v*(1-s*f), v*(1-s*(1-f))
	var r, g, b float64
	switch int(i) {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default:
		r, g, b = v, p, q
	}
	return drawing.RGB(uint8(r*255), uint8(g*255), uint8(b*255))
}

func lerp(a, b geom.DataPoint, f float64) geom.DataPoint {
	return geom.Pt(a.X*(1-f)+b.X*f, a.Y*(1-f)+b.Y*f)
}

func snurr(Env) *drawing.Model {
	m := drawing.NewModel()
	m.Background = drawing.Black
	p := []geom.DataPoint{geom.Pt(0, 0), geom.Pt(1, 0), geom.Pt(1, 1), geom.Pt(0, 1), geom.Pt(0, 0)}
	for i := 0; i < 255; i++ {
		line := drawing.NewPolyline(append([]geom.DataPoint(nil), p...)...)
		line.Color = hsv(math.Abs(math.Sin(float64(i)*0.03)), 1, 1)
		line.Thickness = -1.8
		m.Add(line)

		p[1] = lerp(p[1], p[2], 0.02)
		p[2] = lerp(p[2], p[3], 0.02)
		p[3] = lerp(p[3], p[0], 0.02)
		p[0] = lerp(p[0], p[1], 0.02)
		p[4] = p[0]
	}
	return m
}

func whiteText(p geom.DataPoint, content string, size float64) *drawing.Text {
	t := drawing.NewText(p, content)
	t.Color = drawing.White
	t.FontSize = size
	return t
}

func blueprint(env Env) *drawing.Model {
	m := drawing.NewModel()
	m.Background = drawing.RGB(0, 128, 196)

	frame := drawing.NewRoundedRectangle(0, 0, 300, 200, 3)
	frame.Stroke = drawing.White
	frame.Fill = drawing.White.WithAlpha(20)
	m.Add(frame)

	faint := drawing.White.WithAlpha(50)
	for i := 1; i < 30; i++ {
		l := drawing.NewLines(geom.Pt(float64(i)*10, 30), geom.Pt(float64(i)*10, 200))
		l.Color, l.Thickness = faint, 0.1
		m.Add(l)
	}
	for i := 4; i < 20; i++ {
		l := drawing.NewLines(geom.Pt(0, float64(i)*10), geom.Pt(300, float64(i)*10))
		l.Color, l.Thickness = faint, 0.1
		m.Add(l)
	}
	for _, seg := range [][4]float64{{0, 30, 300, 30}, {200, 0, 200, 30}, {200, 15, 300, 15}} {
		l := drawing.NewLines(geom.Pt(seg[0], seg[1]), geom.Pt(seg[2], seg[3]))
		l.Color, l.Aliased = drawing.White, true
		m.Add(l)
	}

	m.Add(whiteText(geom.Pt(5, 195), "TOP VIEW", -11))
	title := whiteText(geom.Pt(5, 20), "Vector drawing model", 10)
	title.FontWeight = drawing.FontWeightBold
	m.Add(title)
	m.Add(whiteText(geom.Pt(205, 27), "NAME", 6))
	m.Add(whiteText(geom.Pt(205, 12), env.now().Format("2006-01-02"), 6))
	return m
}

type person struct {
	name           string
	father, mother *person
}

func (p *person) render(m *drawing.Model, generation int, start, end float64) {
	r0 := float64(generation-1) * 100
	r1 := float64(generation) * 100
	m.Add(drawing.NewPolyline(geom.DataArc(geom.Pt(0, 0), r1, r1, start, end, 50)...))

	th0, th1 := start*math.Pi/180, end*math.Pi/180
	lines := drawing.NewLines()
	lines.Add(geom.Pt(math.Cos(th0)*r0, math.Sin(th0)*r0), geom.Pt(math.Cos(th0)*r1, math.Sin(th0)*r1))
	lines.Add(geom.Pt(math.Cos(th1)*r0, math.Sin(th1)*r0), geom.Pt(math.Cos(th1)*r1, math.Sin(th1)*r1))
	m.Add(lines)

	mid := (start + end) / 2
	th2 := mid * math.Pi / 180
	r2 := (r0 + r1) / 2
	t := drawing.NewText(geom.Pt(math.Cos(th2)*r2, math.Sin(th2)*r2), p.name)
	t.FontSize = 20
	t.FontFamily = "Times New Roman"
	t.HorizontalAlignment = drawing.AlignCenter
	t.VerticalAlignment = drawing.AlignMiddle
	t.Rotate = 90 - mid
	m.Add(t)

	if p.father != nil {
		p.father.render(m, generation+1, mid, end)
	}
	if p.mother != nil {
		p.mother.render(m, generation+1, start, mid)
	}
}

func parents(name string, father, mother *person) *person {
	return &person{name: name, father: father, mother: mother}
}

func leaf(name string) *person { return &person{name: name} }

func genealogyTree(Env) *drawing.Model {
	root := parents("Øystein",
		parents("Olav",
			parents("Sigurd",
				parents("Martin", leaf("Olav"), leaf("Marta")),
				parents("Brita", leaf("Trond"), leaf("Helga"))),
			parents("Hjørdis",
				parents("Ola", leaf("Jon"), leaf("Anna")),
				parents("Guro", leaf("Nils"), leaf("Blansa")))),
		parents("Sylvi",
			parents("Jonas",
				parents("Peder", leaf("Kristoffer"), leaf("Karen")),
				parents("Guri", leaf("Aslak"), leaf("Johanne"))),
			parents("Eline Brynhild",
				parents("Johan", leaf("Bernt"), leaf("Eline")),
				parents("Susanne", leaf("Severin"), leaf("Ragnhild")))))
	m := drawing.NewModel()
	root.render(m, 1, -10, 190)
	return m
}

func label(p geom.DataPoint, content string, size float64, c drawing.Color) *drawing.Text {
	t := drawing.NewText(p, content)
	t.Color = c
	t.FontSize = size
	t.FontWeight = drawing.FontWeightBold
	t.HorizontalAlignment = drawing.AlignCenter
	t.VerticalAlignment = drawing.AlignMiddle
	return t
}

func vennDiagram(Env) *drawing.Model {
	m := drawing.NewModel()
	m.Add(
		label(geom.Pt(0, 460), "HOW WOULD YOU LIKE", 60, drawing.Black),
		label(geom.Pt(0, 400), "YOUR GRAPHIC DESIGN?", 60, drawing.Black),
		label(geom.Pt(0, 350), "(YOU MAY PICK TWO)", 20, drawing.Black),
	)
	circles := []struct {
		c geom.DataPoint
		r float64
		f drawing.Color
	}{
		{geom.Pt(-120, 100), 185, drawing.Red},
		{geom.Pt(120, 100), 185, drawing.RGB(255, 215, 0)},
		{geom.Pt(0, 100-230), 185, drawing.SkyBlue},
		{geom.Pt(-205, -105), 90, drawing.Black},
	}
	for _, c := range circles {
		e := drawing.NewEllipse(c.c, c.r, c.r)
		e.Fill = c.f.WithAlpha(180)
		m.Add(e)
	}
	m.Add(
		label(geom.Pt(-180, 132), "FAST", 60, drawing.White),
		label(geom.Pt(180, 132), "CHEAP", 60, drawing.White),
		label(geom.Pt(0, -160), "GREAT", 60, drawing.White),
		label(geom.Pt(-240, -100), "FREE", 40, drawing.White),
	)
	return m
}
