package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/oxydraw/oxydraw/internal/controller"
	"github.com/oxydraw/oxydraw/internal/document"
	"github.com/oxydraw/oxydraw/internal/drawing"
	"github.com/oxydraw/oxydraw/internal/engine"
	"github.com/oxydraw/oxydraw/internal/examples"
	"github.com/oxydraw/oxydraw/internal/geom"
	"github.com/oxydraw/oxydraw/internal/render"
)

var errNoDrawing = errors.New("no drawing loaded")

// viewer is the state behind the browser bridge. JavaScript calls it from a single
// goroutine, so it is not locked.
type viewer struct {
	demo *examples.Demo
	view *engine.StaticView
	vm   *engine.ViewModel
	ctl  *controller.Controller
	rec  *render.Recorder
	last time.Duration
}

type frame struct {
	Background    string               `json:"background"`
	Commands      []render.DrawCommand `json:"commands"`
	Cursor        string               `json:"cursor"`
	ZoomRectangle *geom.Rect           `json:"zoomRectangle,omitempty"`
	Scale         float64              `json:"scale"`
	OffsetX       float64              `json:"offsetX"`
	OffsetY       float64              `json:"offsetY"`
}

type hit struct {
	ID   string       `json:"id"`
	Kind drawing.Kind `json:"kind"`
}

func newViewer() *viewer {
	return &viewer{rec: render.NewRecorder()}
}

func (v *viewer) show(demo *examples.Demo, width, height float64) {
	if v.vm != nil {
		v.vm.Close()
	}
	v.demo = demo
	v.view = engine.NewStaticView(width, height, 10)
	v.vm = engine.NewViewModel(v.view, demo.Model)
	v.ctl = controller.New(v.vm, v.rec)
	v.last = 0
	v.vm.ZoomExtents(v.rec)
	v.vm.Invalidate()
}

func (v *viewer) LoadExample(name string, width, height float64) error {
	ex, err := examples.Get(name)
	if err != nil {
		return err
	}
	v.show(ex.Build(examples.Env{}), width, height)
	return nil
}

// LoadDocument shows a JSON or YAML document. Documents with images cannot be shown
// since there is no asset store in the browser.
func (v *viewer) LoadDocument(data string, yaml bool, width, height float64) error {
	load := document.LoadJSON
	if yaml {
		load = document.LoadYAML
	}
	m, err := load(strings.NewReader(data), document.Options{})
	if err != nil {
		return err
	}
	v.show(&examples.Demo{Model: m}, width, height)
	return nil
}

func (v *viewer) Examples() (string, error) {
	data, err := json.Marshal(examples.All())
	return string(data), err
}

func (v *viewer) Resize(width, height float64) error {
	if v.vm == nil {
		return errNoDrawing
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("resize to %gx%g", width, height)
	}
	v.view.Area = geom.NewRect(0, 0, width, height)
	v.vm.Invalidate()
	return nil
}

// NeedsRender reports whether the view was invalidated since the last Render.
func (v *viewer) NeedsRender() bool {
	return v.view != nil && v.view.Redraw.Pending()
}

func (v *viewer) Render() (string, error) {
	if v.vm == nil {
		return "", errNoDrawing
	}
	v.view.Redraw.Begin()
	v.rec.Reset()
	if err := v.vm.Paint(v.rec); err != nil {
		slog.Warn("frame rendered with errors", "error", err)
	}

	ox, oy := v.vm.Offset()
	data, err := json.Marshal(frame{
		Background:    v.demo.Model.Background.String(),
		Commands:      append([]render.DrawCommand{}, v.rec.Commands()...),
		Cursor:        v.view.Cursor.String(),
		ZoomRectangle: v.view.ZoomRectangle,
		Scale:         v.vm.Scale(),
		OffsetX:       ox,
		OffsetY:       oy,
	})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Tick raises a frame event. now is the animation timestamp in milliseconds.
func (v *viewer) Tick(now float64) {
	if v.vm == nil {
		return
	}
	t := time.Duration(now * float64(time.Millisecond))
	delta := t - v.last
	if v.last == 0 {
		delta = 0
	}
	v.last = t
	v.demo.Model.Frame(drawing.FrameEvent{Cumulative: t, Delta: delta})
}

func (v *viewer) Pan(dx, dy float64) {
	if v.vm != nil {
		v.vm.Pan(geom.SV(dx, dy))
	}
}

func (v *viewer) ZoomBy(factor float64) {
	if v.vm != nil && factor > 0 {
		v.vm.ZoomBy(factor)
	}
}

func (v *viewer) ZoomExtents() {
	if v.vm != nil {
		v.vm.ZoomExtents(v.rec)
	}
}

// Input forwards a browser event, encoded as JSON, to the controller. kind is one of
// mousedown, mousemove, mouseup, wheel, keydown, touchstart, touchmove and touchend.
// It reports whether the event was handled.
func (v *viewer) Input(kind, data string) (bool, error) {
	if v.vm == nil {
		return false, errNoDrawing
	}
	switch kind {
	case "mousedown", "mousemove", "mouseup":
		var e controller.MouseEvent
		if err := json.Unmarshal([]byte(data), &e); err != nil {
			return false, err
		}
		switch kind {
		case "mousedown":
			if press := v.demo.OnPress; press != nil {
				if r := v.vm.HitTestFirst(engine.HitTestArguments{Point: e.Position, Tolerance: 4}); r != nil {
					press(r.Element)
				}
			}
			return v.ctl.HandleMouseDown(e), nil
		case "mousemove":
			return v.ctl.HandleMouseMove(e), nil
		default:
			if release := v.demo.OnRelease; release != nil {
				release()
			}
			return v.ctl.HandleMouseUp(e), nil
		}
	case "wheel":
		var e controller.WheelEvent
		if err := json.Unmarshal([]byte(data), &e); err != nil {
			return false, err
		}
		return v.ctl.HandleMouseWheel(e), nil
	case "keydown":
		var e controller.KeyEvent
		if err := json.Unmarshal([]byte(data), &e); err != nil {
			return false, err
		}
		e.Key = controller.ParseKey(string(e.Key))
		return v.ctl.HandleKeyDown(e), nil
	case "touchstart", "touchmove", "touchend":
		var e controller.TouchEvent
		if err := json.Unmarshal([]byte(data), &e); err != nil {
			return false, err
		}
		switch kind {
		case "touchstart":
			return v.ctl.HandleTouchStarted(e), nil
		case "touchmove":
			return v.ctl.HandleTouchDelta(e), nil
		default:
			return v.ctl.HandleTouchCompleted(e), nil
		}
	}
	return false, fmt.Errorf("unknown event %q", kind)
}

func (v *viewer) HitTest(x, y, tolerance float64) (string, error) {
	if v.vm == nil {
		return "", errNoDrawing
	}
	results := slices.Collect(v.vm.HitTest(engine.HitTestArguments{Point: geom.SP(x, y), Tolerance: tolerance}))
	hits := make([]hit, 0, len(results))
	for _, r := range results {
		hits = append(hits, hit{ID: r.Element.Attributes().ID, Kind: r.Element.Kind()})
	}
	data, err := json.Marshal(hits)
	return string(data), err
}
