package document

import (
	"fmt"

	"github.com/oxydraw/oxydraw/internal/drawing"
	"github.com/oxydraw/oxydraw/internal/geom"
)

// Build creates a model holding the document's elements in order.
func (d *Document) Build(opts Options) (*drawing.Model, error) {
	model := drawing.NewModel()
	if d.Background != nil {
		model.Background = *d.Background
	}
	elements := make([]drawing.Element, 0, len(d.Elements))
	for i := range d.Elements {
		e, err := d.Elements[i].Element(opts)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		elements = append(elements, e)
	}
	model.Add(elements...)
	return model, nil
}

// Element creates the element described by n.
func (n *Node) Element(opts Options) (drawing.Element, error) {
	var e drawing.Element
	switch n.Kind {
	case drawing.KindEllipse:
		m := drawing.NewEllipse(point(n.Center), n.RadiusX, n.RadiusY)
		n.applyShape(&m.Shape)
		e = m
	case drawing.KindRectangle:
		lo, hi := point(n.Min), point(n.Max)
		m := drawing.NewRectangle(lo.X, lo.Y, hi.X, hi.Y)
		n.applyShape(&m.Shape)
		e = m
	case drawing.KindRoundedRectangle:
		lo, hi := point(n.Min), point(n.Max)
		m := drawing.NewRoundedRectangle(lo.X, lo.Y, hi.X, hi.Y, n.CornerRadius)
		n.applyShape(&m.Shape)
		e = m
	case drawing.KindPolygon:
		m := drawing.NewPolygon(n.points()...)
		n.applyShape(&m.Shape)
		set(&m.LineJoin, n.LineJoin)
		set(&m.LineStyle, n.LineStyle)
		m.MinimumSegmentLength = n.MinimumSegmentLength
		e = m
	case drawing.KindPolyline:
		m := drawing.NewPolyline(n.points()...)
		n.applyStroked(&m.Stroked)
		e = m
	case drawing.KindLines:
		m := drawing.NewLines(n.points()...)
		n.applyStroked(&m.Stroked)
		e = m
	case drawing.KindText:
		m := drawing.NewText(point(n.Point), n.Content)
		setPtr(&m.Color, n.Color)
		m.Rotate = n.Rotate
		set(&m.HorizontalAlignment, n.HorizontalAlignment)
		set(&m.VerticalAlignment, n.VerticalAlignment)
		e = m
	case drawing.KindUmlClassBox:
		m := drawing.NewUmlClassBox(point(n.Point), n.Title)
		n.applyShape(&m.Shape)
		m.Properties = n.Properties
		m.Methods = n.Methods
		e = m
	case drawing.KindArrow:
		m := drawing.NewArrow(point(n.Start), point(n.End))
		n.applyShape(&m.Shape)
		setPtr(&m.Color, n.Color)
		setPtr(&m.HeadLength, n.HeadLength)
		setPtr(&m.HeadWidth, n.HeadWidth)
		setPtr(&m.Veeness, n.Veeness)
		e = m
	case drawing.KindGrid:
		m := drawing.NewGrid()
		n.applyShape(&m.Shape)
		setPtr(&m.MajorDistance, n.MajorDistance)
		setPtr(&m.MinorDistance, n.MinorDistance)
		setPtr(&m.MajorThickness, n.MajorThickness)
		setPtr(&m.MinorThickness, n.MinorThickness)
		setPtr(&m.MajorColor, n.MajorColor)
		setPtr(&m.MinorColor, n.MinorColor)
		e = m
	case drawing.KindImage:
		m, err := n.image(opts)
		if err != nil {
			return nil, err
		}
		e = m
	case drawing.KindTileLayer:
		m := drawing.NewTileLayer(opts.Tiles)
		set(&m.Source, n.Source)
		set(&m.CopyrightNotice, n.Copyright)
		set(&m.TileSize, n.TileSize)
		setPtr(&m.Opacity, n.Opacity)
		setPtr(&m.MinZoomLevel, n.MinZoom)
		setPtr(&m.MaxZoomLevel, n.MaxZoom)
		e = m
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, n.Kind)
	}
	n.applyBase(e.Attributes())
	return e, nil
}

func (n *Node) image(opts Options) (*drawing.Image, error) {
	if opts.Assets == nil {
		return nil, fmt.Errorf("%w: %q: no asset source", ErrMissingAsset, n.Asset)
	}
	src, err := opts.Assets.Image(n.Asset)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrMissingAsset, n.Asset, err)
	}
	p := point(n.Point)
	m := drawing.NewImage(src, p.X, p.Y)
	m.AssetID = n.Asset
	setPtr(&m.Width, n.Width)
	setPtr(&m.Height, n.Height)
	setPtr(&m.Opacity, n.Opacity)
	setPtr(&m.Interpolate, n.Interpolate)
	return m, nil
}

func (n *Node) applyBase(b *drawing.Base) {
	set(&b.ID, n.ID)
	if n.Font == nil {
		return
	}
	set(&b.FontFamily, n.Font.Family)
	setPtr(&b.FontSize, n.Font.Size)
	set(&b.FontWeight, n.Font.Weight)
}

func (n *Node) applyShape(s *drawing.Shape) {
	setPtr(&s.Stroke, n.Stroke)
	setPtr(&s.Fill, n.Fill)
	setPtr(&s.Thickness, n.Thickness)
	setPtr(&s.TextColor, n.TextColor)
	s.Text = n.Text
}

func (n *Node) applyStroked(s *drawing.Stroked) {
	setPtr(&s.Color, n.Color)
	setPtr(&s.Thickness, n.Thickness)
	set(&s.LineJoin, n.LineJoin)
	set(&s.LineStyle, n.LineStyle)
	s.Aliased = n.Aliased
	s.MinimumSegmentLength = n.MinimumSegmentLength
}

func (n *Node) points() []geom.DataPoint {
	out := make([]geom.DataPoint, 0, len(n.Points)+len(n.Positions))
	for _, p := range n.Points {
		if p == nil {
			out = append(out, geom.Undefined)
			continue
		}
		out = append(out, *p)
	}
	for _, l := range n.Positions {
		out = append(out, drawing.ToPoint(l))
	}
	return out
}

func point(p *geom.DataPoint) geom.DataPoint {
	if p == nil {
		return geom.DataPoint{}
	}
	return *p
}

// set assigns v unless it is the zero value.
func set[T comparable](dst *T, v T) {
	var zero T
	if v != zero {
		*dst = v
	}
}

func setPtr[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
