package engine

import (
	"errors"
	"fmt"
	"math"

	"github.com/oxydraw/oxydraw/internal/drawing"
	"github.com/oxydraw/oxydraw/internal/geom"
)

// ErrNoImageSource is returned when an Image element has nothing to draw.
var ErrNoImageSource = errors.New("image has no source")

// --- Image ---

type imagePresenter struct {
	presenter[*drawing.Image]
	dest geom.Rect
	clip geom.Rect
}

func (p *imagePresenter) Bounds(RenderContext) geom.BoundingBox {
	m := p.model
	w, h := m.Size()
	return geom.NewBox(m.X, m.Y-h, m.X+w, m.Y)
}

func (p *imagePresenter) Update(RenderContext) {
	m := p.model
	w, h := m.Size()
	p.dest = geom.RectFromPoints(p.vm.TransformXY(m.X, m.Y), p.vm.TransformXY(m.X+w, m.Y-h))
	p.clip = p.vm.ClientArea()
}

func (p *imagePresenter) Render(rc RenderContext) error {
	m := p.model
	if m.Source == nil {
		return fmt.Errorf("%w: %s", ErrNoImageSource, m.ID)
	}
	rc.DrawClippedImage(p.clip, m.Source, m.SourceBounds(), p.dest, m.Opacity, m.Interpolate)
	return nil
}

func (p *imagePresenter) HitTest(args HitTestArguments) *HitTestResult {
	if p.dest.Inflate(args.Tolerance).ContainsPoint(args.Point) {
		return p.hit(args.Point, nil)
	}
	return nil
}

// --- TileLayer ---

// maxTiles caps the number of tiles requested for one frame.
const maxTiles = 256

type tile struct {
	uri  string
	dest geom.Rect
}

type tileLayerPresenter struct {
	presenter[*drawing.TileLayer]
	client geom.Rect
	tiles  []tile
	font   Font
}

// Bounds is empty: a tile layer covers whatever is visible.
func (p *tileLayerPresenter) Bounds(RenderContext) geom.BoundingBox {
	return geom.EmptyBox()
}

func (p *tileLayerPresenter) Update(RenderContext) {
	m := p.model
	p.client = p.vm.ClientArea()
	p.font = Font{Family: m.FontFamily, Size: p.vm.TransformLength(m.FontSize), Weight: m.FontWeight}
	p.tiles = p.tiles[:0]
	if !(p.vm.Scale() > 0) || p.client.IsEmpty() || m.TileSize <= 0 {
		return
	}

	topLeft := drawing.ToLatLon(p.vm.InverseTransformXY(p.client.Left(), p.client.Top()))
	bottomRight := drawing.ToLatLon(p.vm.InverseTransformXY(p.client.Right(), p.client.Bottom()))
	zoom := m.ZoomLevel(p.client.Width, topLeft.Longitude, bottomRight.Longitude)

	x0, y0 := drawing.LatLonToTile(topLeft.Latitude, topLeft.Longitude, zoom)
	x1, y1 := drawing.LatLonToTile(bottomRight.Latitude, bottomRight.Longitude, zoom)
	n := float64(int(1) << zoom)
	xmin := math.Max(math.Floor(math.Min(x0, x1)), 0)
	ymin := math.Max(math.Floor(math.Min(y0, y1)), 0)
	xmax := math.Min(math.Max(x0, x1), n)
	ymax := math.Min(math.Max(y0, y1), n)
	if math.IsNaN(xmin+ymin+xmax+ymax) || (xmax-xmin)*(ymax-ymin) > maxTiles {
		return
	}

	for x := int(xmin); float64(x) < xmax; x++ {
		for y := int(ymin); float64(y) < ymax; y++ {
			lat0, lon0 := drawing.TileToLatLon(float64(x), float64(y), zoom)
			lat1, lon1 := drawing.TileToLatLon(float64(x+1), float64(y+1), zoom)
			s00 := p.vm.Transform(drawing.ToPoint(drawing.LatLon{Latitude: lat0, Longitude: lon0}))
			s11 := p.vm.Transform(drawing.ToPoint(drawing.LatLon{Latitude: lat1, Longitude: lon1}))
			p.tiles = append(p.tiles, tile{uri: m.TileURI(x, y, zoom), dest: geom.RectFromPoints(s00, s11)})
		}
	}
}

func (p *tileLayerPresenter) Render(rc RenderContext) error {
	m := p.model
	if m.Provider != nil {
		for _, t := range p.tiles {
			img := m.Provider.Tile(t.uri, rc.RendersToScreen(), p.vm.Invalidate)
			if img == nil {
				continue
			}
			rc.DrawClippedImage(p.client, img, img.Bounds(), t.dest, m.Opacity, true)
		}
	}

	if m.CopyrightNotice == "" {
		return nil
	}
	at := geom.SP(p.client.Right()-5, p.client.Bottom()-5)
	size := rc.MeasureText(m.CopyrightNotice, p.font)
	box := geom.NewRect(at.X-size.Width-2, at.Y-size.Height-2, size.Width+4, size.Height+4)
	rc.DrawRectangle(box, drawing.White.WithAlpha(200), Pen{})
	rc.DrawText(at, m.CopyrightNotice, TextStyle{
		Color:  drawing.Black,
		Font:   p.font,
		HAlign: drawing.AlignRight,
		VAlign: drawing.AlignBottom,
	})
	return nil
}

// --- Grid ---

// maxGridLines caps the lines drawn along one axis.
const maxGridLines = 2000

type gridPresenter struct {
	presenter[*drawing.Grid]
	major, minor       []geom.ScreenPoint
	majorPen, minorPen Pen
}

// Bounds is empty: a grid covers whatever is visible.
func (p *gridPresenter) Bounds(RenderContext) geom.BoundingBox {
	return geom.EmptyBox()
}

func (p *gridPresenter) Update(RenderContext) {
	m := p.model
	p.major = p.major[:0]
	p.minor = p.minor[:0]
	p.majorPen = Pen{Color: m.MajorColor, Thickness: p.vm.TransformLength(m.MajorThickness), Aliased: true}
	p.minorPen = Pen{Color: m.MinorColor, Thickness: p.vm.TransformLength(m.MinorThickness), Aliased: true}
	if m.MinorDistance <= 0 || m.MajorDistance <= 0 {
		return
	}

	client := p.vm.ClientArea()
	p0 := p.vm.InverseTransformXY(client.Left(), client.Bottom())
	p1 := p.vm.InverseTransformXY(client.Right(), client.Top())

	step := m.MinorDistance
	if (p1.X-p0.X)/step > maxGridLines || (p1.Y-p0.Y)/step > maxGridLines {
		step = m.MajorDistance
	}
	if !((p1.X-p0.X)/step <= maxGridLines && (p1.Y-p0.Y)/step <= maxGridLines) {
		return
	}

	for x := math.Floor(p0.X/step) * step; x <= p1.X; x += step {
		p.add(m.IsMajor(x), p.vm.TransformXY(x, p0.Y), p.vm.TransformXY(x, p1.Y))
	}
	for y := math.Floor(p0.Y/step) * step; y <= p1.Y; y += step {
		p.add(m.IsMajor(y), p.vm.TransformXY(p0.X, y), p.vm.TransformXY(p1.X, y))
	}
}

func (p *gridPresenter) add(major bool, q0, q1 geom.ScreenPoint) {
	if major {
		p.major = append(p.major, q0, q1)
	} else {
		p.minor = append(p.minor, q0, q1)
	}
}

func (p *gridPresenter) Render(rc RenderContext) error {
	rc.DrawLineSegments(p.major, p.majorPen)
	rc.DrawLineSegments(p.minor, p.minorPen)
	return nil
}
