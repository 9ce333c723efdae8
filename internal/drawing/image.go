package drawing

import (
	"image"
	"math"
)

// Image places a raster image with its top-left corner at (X, Y) in data space.
// A NaN Width or Height uses the source size in pixels.
type Image struct {
	Base
	Source image.Image
	// AssetID identifies Source in an asset store, when loaded from a document.
	AssetID string

	X, Y          float64
	Width, Height float64
	// SourceRect selects part of Source; the zero rectangle means all of it.
	SourceRect  image.Rectangle
	Opacity     float64
	Interpolate bool
}

func NewImage(src image.Image, x, y float64) *Image {
	return &Image{
		Base:        newBase("Arial", 12),
		Source:      src,
		X:           x,
		Y:           y,
		Width:       math.NaN(),
		Height:      math.NaN(),
		Opacity:     1,
		Interpolate: true,
	}
}

func (*Image) Kind() Kind { return KindImage }

// SourceBounds returns the part of Source to draw.
func (m *Image) SourceBounds() image.Rectangle {
	if m.Source == nil {
		return image.Rectangle{}
	}
	if m.SourceRect.Empty() {
		return m.Source.Bounds()
	}
	return m.SourceRect.Intersect(m.Source.Bounds())
}

// Size returns the data-space size, falling back to the source pixel size.
func (m *Image) Size() (w, h float64) {
	w, h = m.Width, m.Height
	src := m.SourceBounds()
	if math.IsNaN(w) {
		w = float64(src.Dx())
	}
	if math.IsNaN(h) {
		h = float64(src.Dy())
	}
	return w, h
}
