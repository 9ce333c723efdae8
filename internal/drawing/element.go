package drawing

import (
	"github.com/oxydraw/oxydraw/internal/typeid"
)

// Kind names an element variant. The set of kinds is closed.
type Kind string

const (
	KindEllipse          Kind = "ellipse"
	KindRectangle        Kind = "rectangle"
	KindRoundedRectangle Kind = "roundedRectangle"
	KindPolygon          Kind = "polygon"
	KindPolyline         Kind = "polyline"
	KindLines            Kind = "lines"
	KindText             Kind = "text"
	KindImage            Kind = "image"
	KindTileLayer        Kind = "tileLayer"
	KindUmlClassBox      Kind = "umlClassBox"
	KindArrow            Kind = "arrow"
	KindGrid             Kind = "grid"
)

// Kinds lists every element kind.
var Kinds = []Kind{
	KindEllipse, KindRectangle, KindRoundedRectangle, KindPolygon, KindPolyline, KindLines,
	KindText, KindImage, KindTileLayer, KindUmlClassBox, KindArrow, KindGrid,
}

// Element is a drawable model object. Elements are compared by pointer identity.
//
// Only the types in this package implement Element.
type Element interface {
	Kind() Kind
	Attributes() *Base
	isElement()
}

// Base holds the attributes shared by every element.
//
// FontSize follows the size convention used by all size fields: a non-negative value is
// in data units and scales with zoom, a negative value is a fixed size in device units.
type Base struct {
	ID         string
	FontFamily string
	FontSize   float64
	FontWeight FontWeight

	frameHandlers []func(FrameEvent)
}

func newBase(family string, size float64) Base {
	return Base{
		ID:         typeid.NewElementID(),
		FontFamily: family,
		FontSize:   size,
		FontWeight: FontWeightNormal,
	}
}

// Attributes returns the shared attributes.
func (b *Base) Attributes() *Base { return b }

func (b *Base) isElement() {}

// OnFrame registers a handler called for every frame event the model raises.
func (b *Base) OnFrame(h func(FrameEvent)) {
	b.frameHandlers = append(b.frameHandlers, h)
}

func (b *Base) raiseFrame(e FrameEvent) {
	for _, h := range b.frameHandlers {
		h(e)
	}
}

// Shape holds the attributes of closed shapes.
type Shape struct {
	Stroke    Color
	Fill      Color
	Thickness float64
	Text      string
	TextColor Color
}

func defaultShape() Shape {
	return Shape{
		Stroke:    Black,
		Fill:      Undefined,
		Thickness: -1,
		TextColor: Black,
	}
}

// Stroked holds the attributes of open paths.
type Stroked struct {
	Color     Color
	Thickness float64
	Aliased   bool
	LineJoin  LineJoin
	LineStyle LineStyle

	// MinimumSegmentLength enables resampling of the transformed points when > 0.
	MinimumSegmentLength float64
}

func defaultStroked() Stroked {
	return Stroked{
		Color:     Black,
		Thickness: -1,
		LineJoin:  LineJoinMiter,
		LineStyle: LineStyleSolid,
	}
}
