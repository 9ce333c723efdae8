package render

import (
	"encoding/json"
	"image"
	"strconv"

	"github.com/oxydraw/oxydraw/internal/drawing"
	"github.com/oxydraw/oxydraw/internal/engine"
	"github.com/oxydraw/oxydraw/internal/geom"
)

// PathCommand is a single path segment in Canvas2D form: ["M", x, y], ["L", x, y], ["Z"].
type PathCommand []any

// DrawCommand is a single drawing operation for a browser canvas to execute.
type DrawCommand struct {
	Op          string        `json:"op"`                    // "path", "segments", "ellipse", "rect", "text", "image"
	ObjectID    string        `json:"objectId,omitempty"`    // Element that issued the command
	Path        []PathCommand `json:"path,omitempty"`        // Path data for "path" and "segments"
	Rect        *geom.Rect    `json:"rect,omitempty"`        // Bounds for "ellipse", "rect" and "image"
	Clip        *geom.Rect    `json:"clip,omitempty"`        // Clip rectangle for "image"
	Fill        string        `json:"fill,omitempty"`        // Fill color
	Stroke      string        `json:"stroke,omitempty"`      // Stroke color
	StrokeWidth float64       `json:"strokeWidth,omitempty"` // Stroke width in pixels
	Dash        []float64     `json:"dash,omitempty"`        // Dash pattern in pixels
	LineJoin    string        `json:"lineJoin,omitempty"`
	Aliased     bool          `json:"aliased,omitempty"`
	Opacity     float64       `json:"opacity,omitempty"`     // Global alpha

	// Text
	Text     string            `json:"text,omitempty"`
	At       *geom.ScreenPoint `json:"at,omitempty"`
	Font     string            `json:"font,omitempty"` // CSS font shorthand
	Align    string            `json:"align,omitempty"`
	Baseline string            `json:"baseline,omitempty"`
	Rotate   float64           `json:"rotate,omitempty"`

	// Image
	ImageID     string `json:"imageId,omitempty"` // Asset ID for image lookup
	ImageWidth  int    `json:"imageWidth,omitempty"`
	ImageHeight int    `json:"imageHeight,omitempty"`
}

// Recorder is a RenderContext that records draw commands instead of drawing.
// The commands of a frame are replayed by the browser client.
type Recorder struct {
	// ImageRef names an image for clients, typically an asset ID.
	ImageRef func(img image.Image) string
	// Measure overrides text measurement; the Go fonts are used when nil.
	Measure func(text string, f engine.Font) geom.Size
	// Screen is returned by RendersToScreen.
	Screen bool

	commands []DrawCommand
	element  string
	measurer *Measurer
	frames   int
}

func NewRecorder() *Recorder {
	return &Recorder{Screen: true}
}

var _ engine.RenderContext = (*Recorder)(nil)
var _ engine.ElementMarker = (*Recorder)(nil)

// Commands returns the commands recorded since the last Reset.
func (r *Recorder) Commands() []DrawCommand { return r.commands }

// Frames returns the number of completed frames.
func (r *Recorder) Frames() int { return r.frames }

// Reset discards recorded commands.
func (r *Recorder) Reset() {
	r.commands = r.commands[:0]
	r.element = ""
}

// JSON serializes the recorded commands.
func (r *Recorder) JSON() (string, error) {
	return DrawCommandsToJSON(r.commands)
}

// DrawCommandsToJSON serializes draw commands to JSON.
func DrawCommandsToJSON(commands []DrawCommand) (string, error) {
	if commands == nil {
		commands = []DrawCommand{}
	}
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}

func (r *Recorder) emit(c DrawCommand) {
	c.ObjectID = r.element
	r.commands = append(r.commands, c)
}

func (r *Recorder) BeginElement(id string) { r.element = id }

func path(points []geom.ScreenPoint, closed bool) []PathCommand {
	cmds := make([]PathCommand, 0, len(points)+1)
	move := true
	for _, p := range points {
		if !p.IsDefined() {
			move = true
			continue
		}
		op := "L"
		if move {
			op = "M"
			move = false
		}
		cmds = append(cmds, PathCommand{op, p.X, p.Y})
	}
	if closed && len(cmds) > 0 {
		cmds = append(cmds, PathCommand{"Z"})
	}
	return cmds
}

func stroke(c *DrawCommand, pen engine.Pen) {
	if !pen.IsVisible() {
		return
	}
	c.Stroke = pen.Color.CSS()
	c.StrokeWidth = pen.Thickness
	c.LineJoin = string(pen.Join)
	c.Aliased = pen.Aliased
	for _, d := range pen.Dash {
		c.Dash = append(c.Dash, d*pen.Thickness)
	}
	if pen.Color.A != 255 {
		c.Opacity = pen.Color.Opacity()
	}
}

func fill(c *DrawCommand, col drawing.Color) {
	if col.IsVisible() {
		c.Fill = col.String()
	}
}

func (r *Recorder) DrawLine(points []geom.ScreenPoint, pen engine.Pen) {
	if len(points) < 2 || !pen.IsVisible() {
		return
	}
	c := DrawCommand{Op: "path", Path: path(points, false)}
	stroke(&c, pen)
	r.emit(c)
}

func (r *Recorder) DrawLineSegments(points []geom.ScreenPoint, pen engine.Pen) {
	if len(points) < 2 || !pen.IsVisible() {
		return
	}
	cmds := make([]PathCommand, 0, len(points))
	for i := 0; i+1 < len(points); i += 2 {
		a, b := points[i], points[i+1]
		cmds = append(cmds, PathCommand{"M", a.X, a.Y}, PathCommand{"L", b.X, b.Y})
	}
	c := DrawCommand{Op: "segments", Path: cmds}
	stroke(&c, pen)
	r.emit(c)
}

func (r *Recorder) DrawPolygon(points []geom.ScreenPoint, fillColor drawing.Color, pen engine.Pen) {
	if len(points) < 2 || (fillColor.IsInvisible() && !pen.IsVisible()) {
		return
	}
	c := DrawCommand{Op: "path", Path: path(points, true)}
	fill(&c, fillColor)
	stroke(&c, pen)
	r.emit(c)
}

func (r *Recorder) DrawRectangle(rect geom.Rect, fillColor drawing.Color, pen engine.Pen) {
	if fillColor.IsInvisible() && !pen.IsVisible() {
		return
	}
	c := DrawCommand{Op: "rect", Rect: &rect}
	fill(&c, fillColor)
	stroke(&c, pen)
	r.emit(c)
}

func (r *Recorder) DrawEllipse(rect geom.Rect, fillColor drawing.Color, pen engine.Pen) {
	if fillColor.IsInvisible() && !pen.IsVisible() {
		return
	}
	c := DrawCommand{Op: "ellipse", Rect: &rect}
	fill(&c, fillColor)
	stroke(&c, pen)
	r.emit(c)
}

func (r *Recorder) DrawText(p geom.ScreenPoint, text string, style engine.TextStyle) {
	if text == "" || style.Color.IsInvisible() || !(style.Font.Size > 0) {
		return
	}
	r.emit(DrawCommand{
		Op:       "text",
		Text:     text,
		At:       &p,
		Fill:     style.Color.String(),
		Font:     CSSFont(style.Font),
		Align:    string(style.HAlign),
		Baseline: string(style.VAlign),
		Rotate:   style.Rotate,
	})
}

func (r *Recorder) MeasureText(text string, f engine.Font) geom.Size {
	if r.Measure != nil {
		return r.Measure(text, f)
	}
	if r.measurer == nil {
		r.measurer = NewMeasurer()
	}
	return r.measurer.MeasureText(text, f)
}

func (r *Recorder) DrawImage(img image.Image, src image.Rectangle, dest geom.Rect, opacity float64, interpolate bool) {
	r.drawImage(nil, img, src, dest, opacity)
}

func (r *Recorder) DrawClippedImage(clip geom.Rect, img image.Image, src image.Rectangle, dest geom.Rect, opacity float64, interpolate bool) {
	r.drawImage(&clip, img, src, dest, opacity)
}

func (r *Recorder) drawImage(clip *geom.Rect, img image.Image, src image.Rectangle, dest geom.Rect, opacity float64) {
	if img == nil || opacity <= 0 {
		return
	}
	c := DrawCommand{
		Op:          "image",
		Rect:        &dest,
		Clip:        clip,
		Opacity:     opacity,
		ImageWidth:  src.Dx(),
		ImageHeight: src.Dy(),
	}
	if r.ImageRef != nil {
		c.ImageID = r.ImageRef(img)
	}
	r.emit(c)
}

func (r *Recorder) RendersToScreen() bool { return r.Screen }

// CleanUp ends the frame.
func (r *Recorder) CleanUp() {
	r.frames++
	r.element = ""
}

// CSSFont formats f as a CSS font shorthand.
func CSSFont(f engine.Font) string {
	weight := "normal"
	if f.Weight.IsBold() {
		weight = "bold"
	}
	family := f.Family
	if family == "" {
		family = "sans-serif"
	}
	return weight + " " + formatFloat(f.Size) + "px " + family
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
