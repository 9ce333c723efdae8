package document

import (
	"github.com/oxydraw/oxydraw/internal/drawing"
	"github.com/oxydraw/oxydraw/internal/geom"
	"github.com/oxydraw/oxydraw/internal/typeid"
)

// NewSampleDocument returns a small document with one element of the common kinds.
func NewSampleDocument() *Document {
	bg := drawing.White
	red, blue, green := drawing.Red, drawing.SkyBlue, drawing.Green
	black := drawing.Black

	return &Document{
		Name:       "Sample",
		Background: &bg,
		Elements: []Node{
			{
				ID:        typeid.NewElementID(),
				Kind:      drawing.KindRectangle,
				Min:       ptr(geom.Pt(0, 0)),
				Max:       ptr(geom.Pt(40, 30)),
				Fill:      &red,
				Thickness: ptr(-2.0),
				Text:      "Rectangle",
			},
			{
				ID:      typeid.NewElementID(),
				Kind:    drawing.KindEllipse,
				Center:  ptr(geom.Pt(70, 15)),
				RadiusX: 20,
				RadiusY: 15,
				Fill:    &blue,
			},
			{
				ID:   typeid.NewElementID(),
				Kind: drawing.KindPolygon,
				Points: []*geom.DataPoint{
					ptr(geom.Pt(100, 0)), ptr(geom.Pt(140, 0)), ptr(geom.Pt(120, 30)),
				},
				Fill: &green,
			},
			{
				ID:      typeid.NewElementID(),
				Kind:    drawing.KindText,
				Point:   ptr(geom.Pt(0, -5)),
				Content: "Sample drawing",
				Color:   &black,
			},
			{
				ID:    typeid.NewElementID(),
				Kind:  drawing.KindArrow,
				Start: ptr(geom.Pt(40, 40)),
				End:   ptr(geom.Pt(100, 40)),
				Color: &black,
			},
		},
	}
}
