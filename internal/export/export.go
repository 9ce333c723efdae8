// Package export renders drawing models to files.
package export

import (
	"fmt"
	"image"
	"image/color/palette"
	"image/gif"
	"io"
	"math"
	"time"

	xdraw "golang.org/x/image/draw"

	"github.com/oxydraw/oxydraw/internal/drawing"
	"github.com/oxydraw/oxydraw/internal/engine"
	"github.com/oxydraw/oxydraw/internal/render"
)

const (
	maxSize   = 4096
	maxFrames = 300
)

type Options struct {
	Width   int
	Height  int
	Padding float64
	// Frames and FPS apply to animations only.
	Frames int
	FPS    int
}

func (o Options) validate() error {
	if o.Width <= 0 || o.Height <= 0 || o.Width > maxSize || o.Height > maxSize {
		return fmt.Errorf("size %dx%d out of range", o.Width, o.Height)
	}
	if math.IsNaN(o.Padding) || o.Padding < 0 {
		return fmt.Errorf("padding %g must be a non-negative number", o.Padding)
	}
	if o.Padding*2 >= float64(min(o.Width, o.Height)) {
		return fmt.Errorf("padding %g leaves no room in %dx%d", o.Padding, o.Width, o.Height)
	}
	return nil
}

// paint fits m into the view and renders one frame onto rc.
func paint(m *drawing.Model, rc engine.RenderContext, o Options) error {
	vm := engine.NewViewModel(engine.NewStaticView(float64(o.Width), float64(o.Height), o.Padding), m)
	defer vm.Close()
	vm.ZoomExtents(rc)
	return vm.Paint(rc)
}

// SVG writes m as an SVG document.
func SVG(w io.Writer, m *drawing.Model, o Options) error {
	if err := o.validate(); err != nil {
		return err
	}
	return paint(m, render.NewSVG(w, o.Width, o.Height, m.Background), o)
}

// PNG writes m as a PNG image.
func PNG(w io.Writer, m *drawing.Model, o Options) error {
	if err := o.validate(); err != nil {
		return err
	}
	r := render.NewRaster(o.Width, o.Height, m.Background)
	if err := paint(m, r, o); err != nil {
		return err
	}
	return r.EncodePNG(w)
}

// GIF raises o.Frames frame events on m and writes the frames as an animated GIF.
// The view is fitted to the first frame and kept for the rest.
func GIF(w io.Writer, m *drawing.Model, o Options) error {
	if err := o.validate(); err != nil {
		return err
	}
	if o.Frames <= 0 || o.Frames > maxFrames {
		return fmt.Errorf("frame count %d out of range", o.Frames)
	}
	if o.FPS <= 0 || o.FPS > 100 {
		o.FPS = 24
	}

	dt := time.Second / time.Duration(o.FPS)
	vm := engine.NewViewModel(engine.NewStaticView(float64(o.Width), float64(o.Height), o.Padding), m)
	defer vm.Close()

	anim := &gif.GIF{}
	for i := range o.Frames {
		m.Frame(drawing.FrameEvent{Cumulative: time.Duration(i) * dt, Delta: dt})
		r := render.NewRaster(o.Width, o.Height, m.Background)
		if i == 0 {
			vm.ZoomExtents(r)
		}
		if err := vm.Paint(r); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}

		src := r.Image()
		frame := image.NewPaletted(src.Bounds(), palette.Plan9)
		xdraw.FloydSteinberg.Draw(frame, src.Bounds(), src, image.Point{})
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, 100/o.FPS)
	}
	return gif.EncodeAll(w, anim)
}
