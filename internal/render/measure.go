package render

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/oxydraw/oxydraw/internal/drawing"
	"github.com/oxydraw/oxydraw/internal/engine"
	"github.com/oxydraw/oxydraw/internal/geom"
)

type faceStyle int

const (
	styleRegular faceStyle = iota
	styleBold
	styleMono
	styleMonoBold
)

// fonts holds the parsed Go fonts, shared by all measurers.
var fonts = sync.OnceValues(func() (map[faceStyle]*opentype.Font, error) {
	sources := map[faceStyle][]byte{
		styleRegular:  goregular.TTF,
		styleBold:     gobold.TTF,
		styleMono:     gomono.TTF,
		styleMonoBold: gomonobold.TTF,
	}
	out := make(map[faceStyle]*opentype.Font, len(sources))
	for style, ttf := range sources {
		f, err := opentype.Parse(ttf)
		if err != nil {
			return nil, fmt.Errorf("parse font: %w", err)
		}
		out[style] = f
	}
	return out, nil
})

func styleOf(f engine.Font) faceStyle {
	family := strings.ToLower(f.Family)
	mono := strings.Contains(family, "mono") || strings.Contains(family, "consolas") || strings.Contains(family, "courier")
	bold := f.Weight.IsBold()
	switch {
	case mono && bold:
		return styleMonoBold
	case mono:
		return styleMono
	case bold:
		return styleBold
	default:
		return styleRegular
	}
}

type faceKey struct {
	style faceStyle
	size  float64
}

// Measurer measures text with the Go fonts. Monospaced families (Consolas, Courier,
// anything containing "mono") map to Go Mono, all others to Go Regular.
// A Measurer caches faces and is not safe for concurrent use.
type Measurer struct {
	faces map[faceKey]font.Face
}

func NewMeasurer() *Measurer {
	return &Measurer{faces: make(map[faceKey]font.Face)}
}

// Face returns the face for f, or nil if f has no size.
func (m *Measurer) Face(f engine.Font) (font.Face, error) {
	if !(f.Size > 0) {
		return nil, nil
	}
	key := faceKey{style: styleOf(f), size: f.Size}
	if face, ok := m.faces[key]; ok {
		return face, nil
	}

	parsed, err := fonts()
	if err != nil {
		return nil, err
	}
	face, err := opentype.NewFace(parsed[key.style], &opentype.FaceOptions{
		Size:    f.Size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("create face: %w", err)
	}
	m.faces[key] = face
	return face, nil
}

// MeasureText returns the advance width and line height of text.
func (m *Measurer) MeasureText(text string, f engine.Font) geom.Size {
	face, err := m.Face(f)
	if err != nil || face == nil || text == "" {
		return geom.Size{}
	}
	return geom.Size{
		Width:  fromFixed(font.MeasureString(face, text)),
		Height: fromFixed(face.Metrics().Height),
	}
}

// Close releases the cached faces.
func (m *Measurer) Close() {
	for k, face := range m.faces {
		face.Close()
		delete(m.faces, k)
	}
}

func fromFixed(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

// alignOffset returns the offset from the anchor point to the top-left corner of
// a text box of the given size.
func alignOffset(size geom.Size, style engine.TextStyle) geom.ScreenVector {
	var v geom.ScreenVector
	switch style.HAlign {
	case drawing.AlignCenter:
		v.X = -size.Width / 2
	case drawing.AlignRight:
		v.X = -size.Width
	}
	switch style.VAlign {
	case drawing.AlignMiddle:
		v.Y = -size.Height / 2
	case drawing.AlignBottom:
		v.Y = -size.Height
	}
	return v
}
