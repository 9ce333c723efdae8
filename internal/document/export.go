package document

import (
	"fmt"

	"github.com/oxydraw/oxydraw/internal/drawing"
	"github.com/oxydraw/oxydraw/internal/geom"
)

// FromModel serializes the elements of m. Images must carry an AssetID and tile
// layers lose their provider.
func FromModel(name string, m *drawing.Model) (*Document, error) {
	bg := m.Background
	doc := &Document{Name: name, Background: &bg, Elements: make([]Node, 0, m.Len())}
	for _, e := range m.Elements() {
		n, err := nodeOf(e)
		if err != nil {
			return nil, err
		}
		doc.Elements = append(doc.Elements, n)
	}
	return doc, nil
}

func nodeOf(e drawing.Element) (Node, error) {
	b := e.Attributes()
	n := Node{
		ID:   b.ID,
		Kind: e.Kind(),
		Font: &Font{Family: b.FontFamily, Size: ptr(b.FontSize), Weight: b.FontWeight},
	}

	switch m := e.(type) {
	case *drawing.Ellipse:
		n.shape(m.Shape)
		n.Center = ptr(m.Center)
		n.RadiusX, n.RadiusY = m.RadiusX, m.RadiusY
	case *drawing.Rectangle:
		n.rectangle(m)
	case *drawing.RoundedRectangle:
		n.rectangle(&m.Rectangle)
		n.CornerRadius = m.CornerRadius
	case *drawing.Polygon:
		n.shape(m.Shape)
		n.Points = pointPtrs(m.Points)
		n.LineJoin, n.LineStyle = m.LineJoin, m.LineStyle
		n.MinimumSegmentLength = m.MinimumSegmentLength
	case *drawing.Polyline:
		n.stroked(m.Stroked)
		n.Points = pointPtrs(m.Points)
	case *drawing.Lines:
		n.stroked(m.Stroked)
		n.Points = pointPtrs(m.Points)
	case *drawing.Text:
		n.Color = ptr(m.Color)
		n.Point = ptr(m.Point)
		n.Content = m.Content
		n.Rotate = m.Rotate
		n.HorizontalAlignment, n.VerticalAlignment = m.HorizontalAlignment, m.VerticalAlignment
	case *drawing.UmlClassBox:
		n.shape(m.Shape)
		n.Point = ptr(m.Position)
		n.Title, n.Properties, n.Methods = m.Title, m.Properties, m.Methods
	case *drawing.Arrow:
		n.shape(m.Shape)
		n.Start, n.End = ptr(m.StartPoint), ptr(m.EndPoint)
		n.Color = ptr(m.Color)
		n.HeadLength, n.HeadWidth, n.Veeness = ptr(m.HeadLength), ptr(m.HeadWidth), ptr(m.Veeness)
	case *drawing.Grid:
		n.shape(m.Shape)
		n.MajorDistance, n.MinorDistance = ptr(m.MajorDistance), ptr(m.MinorDistance)
		n.MajorThickness, n.MinorThickness = ptr(m.MajorThickness), ptr(m.MinorThickness)
		n.MajorColor, n.MinorColor = ptr(m.MajorColor), ptr(m.MinorColor)
	case *drawing.Image:
		if m.AssetID == "" {
			return Node{}, fmt.Errorf("image %s: %w", b.ID, ErrMissingAsset)
		}
		n.Asset = m.AssetID
		n.Point = ptr(geom.Pt(m.X, m.Y))
		w, h := m.Size()
		n.Width, n.Height = ptr(w), ptr(h)
		n.Opacity, n.Interpolate = ptr(m.Opacity), ptr(m.Interpolate)
	case *drawing.TileLayer:
		n.Source, n.Copyright, n.TileSize = m.Source, m.CopyrightNotice, m.TileSize
		n.Opacity = ptr(m.Opacity)
		n.MinZoom, n.MaxZoom = ptr(m.MinZoomLevel), ptr(m.MaxZoomLevel)
	default:
		return Node{}, fmt.Errorf("%w: %q", ErrUnknownKind, e.Kind())
	}
	return n, nil
}

func (n *Node) shape(s drawing.Shape) {
	n.Stroke, n.Fill, n.TextColor = ptr(s.Stroke), ptr(s.Fill), ptr(s.TextColor)
	n.Thickness = ptr(s.Thickness)
	n.Text = s.Text
}

func (n *Node) rectangle(m *drawing.Rectangle) {
	n.shape(m.Shape)
	n.Min = ptr(geom.Pt(m.MinimumX, m.MinimumY))
	n.Max = ptr(geom.Pt(m.MaximumX, m.MaximumY))
}

func (n *Node) stroked(s drawing.Stroked) {
	n.Color = ptr(s.Color)
	n.Thickness = ptr(s.Thickness)
	n.LineJoin, n.LineStyle = s.LineJoin, s.LineStyle
	n.Aliased = s.Aliased
	n.MinimumSegmentLength = s.MinimumSegmentLength
}

func pointPtrs(points []geom.DataPoint) []*geom.DataPoint {
	out := make([]*geom.DataPoint, len(points))
	for i, p := range points {
		if p.IsDefined() {
			out[i] = ptr(p)
		}
	}
	return out
}

func ptr[T any](v T) *T { return &v }
