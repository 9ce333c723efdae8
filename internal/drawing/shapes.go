package drawing

import (
	"math"

	"github.com/oxydraw/oxydraw/internal/geom"
)

// Ellipse is an axis-aligned ellipse. A negative radius is a fixed radius in device units.
type Ellipse struct {
	Base
	Shape
	Center  geom.DataPoint
	RadiusX float64
	RadiusY float64
}

func NewEllipse(center geom.DataPoint, rx, ry float64) *Ellipse {
	return &Ellipse{Base: newBase("Arial", 12), Shape: defaultShape(), Center: center, RadiusX: rx, RadiusY: ry}
}

func (*Ellipse) Kind() Kind { return KindEllipse }

// Rectangle is an axis-aligned rectangle in data space.
type Rectangle struct {
	Base
	Shape
	MinimumX float64
	MinimumY float64
	MaximumX float64
	MaximumY float64
}

func NewRectangle(minX, minY, maxX, maxY float64) *Rectangle {
	return &Rectangle{
		Base: newBase("Arial", 12), Shape: defaultShape(),
		MinimumX: minX, MinimumY: minY, MaximumX: maxX, MaximumY: maxY,
	}
}

func (*Rectangle) Kind() Kind { return KindRectangle }

// RoundedRectangle is a rectangle with circular corners of CornerRadius.
type RoundedRectangle struct {
	Rectangle
	CornerRadius float64
}

func NewRoundedRectangle(minX, minY, maxX, maxY, cornerRadius float64) *RoundedRectangle {
	return &RoundedRectangle{Rectangle: *NewRectangle(minX, minY, maxX, maxY), CornerRadius: cornerRadius}
}

func (*RoundedRectangle) Kind() Kind { return KindRoundedRectangle }

// Polygon is a closed filled path.
type Polygon struct {
	Base
	Shape
	Points    []geom.DataPoint
	LineJoin  LineJoin
	LineStyle LineStyle

	MinimumSegmentLength float64
}

func NewPolygon(points ...geom.DataPoint) *Polygon {
	return &Polygon{
		Base: newBase("Arial", 12), Shape: defaultShape(),
		Points: points, LineJoin: LineJoinMiter, LineStyle: LineStyleSolid,
	}
}

func (*Polygon) Kind() Kind { return KindPolygon }

// Polyline is an open path through Points. NaN points break the path.
type Polyline struct {
	Base
	Stroked
	Points []geom.DataPoint
}

func NewPolyline(points ...geom.DataPoint) *Polyline {
	return &Polyline{Base: newBase("Arial", 12), Stroked: defaultStroked(), Points: points}
}

func (*Polyline) Kind() Kind { return KindPolyline }

// Lines draws independent segments between consecutive pairs of Points.
type Lines struct {
	Base
	Stroked
	Points []geom.DataPoint
}

func NewLines(points ...geom.DataPoint) *Lines {
	return &Lines{Base: newBase("Arial", 12), Stroked: defaultStroked(), Points: points}
}

func (*Lines) Kind() Kind { return KindLines }

// Add appends the segment p1-p2.
func (l *Lines) Add(p1, p2 geom.DataPoint) {
	l.Points = append(l.Points, p1, p2)
}

// Text is a single line of text anchored at Point.
type Text struct {
	Base
	Color               Color
	Point               geom.DataPoint
	Content             string
	Rotate              float64
	HorizontalAlignment HorizontalAlignment
	VerticalAlignment   VerticalAlignment
}

// NewText creates text with an 11 pixel font.
func NewText(p geom.DataPoint, content string) *Text {
	return &Text{
		Base:                newBase("Segoe UI", -11),
		Color:               Black,
		Point:               p,
		Content:             content,
		HorizontalAlignment: AlignLeft,
		VerticalAlignment:   AlignTop,
	}
}

func (*Text) Kind() Kind { return KindText }

// UmlClassBox is a class diagram box whose top-left corner is at Position.
type UmlClassBox struct {
	Base
	Shape
	Position   geom.DataPoint
	Title      string
	Properties []string
	Methods    []string
}

func NewUmlClassBox(p geom.DataPoint, title string) *UmlClassBox {
	return &UmlClassBox{Base: newBase("Consolas", 6), Shape: defaultShape(), Position: p, Title: title}
}

func (*UmlClassBox) Kind() Kind { return KindUmlClassBox }

// Arrow is a filled arrow from StartPoint to EndPoint. Head sizes are multiples of the
// transformed Thickness.
type Arrow struct {
	Base
	Shape
	StartPoint geom.DataPoint
	EndPoint   geom.DataPoint
	HeadLength float64
	HeadWidth  float64
	Veeness    float64
	Color      Color
}

func NewArrow(start, end geom.DataPoint) *Arrow {
	a := &Arrow{
		Base: newBase("Arial", 12), Shape: defaultShape(),
		StartPoint: start, EndPoint: end,
		HeadLength: 6, HeadWidth: 3, Veeness: 1,
		Color: Black,
	}
	a.Thickness = 1
	return a
}

func (*Arrow) Kind() Kind { return KindArrow }

// Grid draws major and minor lines over the visible data area. It has no bounds.
type Grid struct {
	Base
	Shape
	MajorThickness float64
	MinorThickness float64
	MajorDistance  float64
	MinorDistance  float64
	MajorColor     Color
	MinorColor     Color
}

func NewGrid() *Grid {
	return &Grid{
		Base: newBase("Arial", 12), Shape: defaultShape(),
		MajorThickness: -1, MinorThickness: -1,
		MajorDistance: 10, MinorDistance: 1,
		MajorColor: Blue.WithAlpha(60),
		MinorColor: Blue.WithAlpha(20),
	}
}

func (*Grid) Kind() Kind { return KindGrid }

// IsMajor reports whether the line at v falls on a major division.
func (g *Grid) IsMajor(v float64) bool {
	return math.Abs(math.Round(v/g.MajorDistance)*g.MajorDistance-v) < 1e-6
}
