package engine

import (
	"github.com/oxydraw/oxydraw/internal/drawing"
	"github.com/oxydraw/oxydraw/internal/geom"
)

// --- Text ---

type textPresenter struct {
	presenter[*drawing.Text]
	position geom.ScreenPoint
	style    TextStyle
	// rect is the unrotated screen extent, used for hit testing.
	rect geom.Rect
}

func (p *textPresenter) Bounds(rc RenderContext) geom.BoundingBox {
	m := p.model
	size := rc.MeasureText(m.Content, p.font(m.FontWeight))
	w := p.vm.InverseTransformLength(size.Width)
	h := p.vm.InverseTransformLength(size.Height)

	var dx, dy float64
	switch m.HorizontalAlignment {
	case drawing.AlignCenter:
		dx = -w / 2
	case drawing.AlignRight:
		dx = -w
	}
	switch m.VerticalAlignment {
	case drawing.AlignMiddle:
		dy = -h / 2
	case drawing.AlignTop:
		dy = -h
	}

	x := m.Point.X + dx
	y := m.Point.Y + dy
	return geom.NewBox(x, y, x+w, y+h)
}

func (p *textPresenter) Update(rc RenderContext) {
	m := p.model
	p.position = p.vm.Transform(m.Point)
	p.style = TextStyle{
		Color:  m.Color,
		Font:   p.font(m.FontWeight),
		Rotate: m.Rotate,
		HAlign: m.HorizontalAlignment,
		VAlign: m.VerticalAlignment,
	}

	size := rc.MeasureText(m.Content, p.style.Font)
	p.rect = geom.NewRect(p.position.X, p.position.Y, size.Width, size.Height)
	switch m.HorizontalAlignment {
	case drawing.AlignCenter:
		p.rect.X -= size.Width / 2
	case drawing.AlignRight:
		p.rect.X -= size.Width
	}
	switch m.VerticalAlignment {
	case drawing.AlignMiddle:
		p.rect.Y -= size.Height / 2
	case drawing.AlignBottom:
		p.rect.Y -= size.Height
	}
}

func (p *textPresenter) Render(rc RenderContext) error {
	rc.DrawText(p.position, p.model.Content, p.style)
	return nil
}

func (p *textPresenter) HitTest(args HitTestArguments) *HitTestResult {
	if p.model.Rotate == 0 && p.rect.Inflate(args.Tolerance).ContainsPoint(args.Point) {
		return p.hit(args.Point, nil)
	}
	return nil
}

// --- UmlClassBox ---

type umlLine struct {
	at   geom.ScreenPoint
	text string
	bold bool
}

type umlClassBoxPresenter struct {
	presenter[*drawing.UmlClassBox]
	font       Font
	pen        Pen
	lines      []umlLine
	rect       geom.Rect
	separators []geom.ScreenPoint
}

// measure returns the widest line and the total height of the box content.
func (p *umlClassBoxPresenter) measure(rc RenderContext, f Font) (width, height float64) {
	m := p.model
	bold := f
	bold.Weight = drawing.FontWeightBold
	title := rc.MeasureText(m.Title, bold)
	width, height = title.Width, title.Height
	for _, group := range [][]string{m.Properties, m.Methods} {
		for _, s := range group {
			size := rc.MeasureText(s, f)
			width = max(width, size.Width)
			height += size.Height
		}
	}
	return width, height
}

func (p *umlClassBoxPresenter) Bounds(rc RenderContext) geom.BoundingBox {
	m := p.model
	w, h := p.measure(rc, p.presenter.font(m.FontWeight))
	w = p.vm.InverseTransformLength(w)
	h = p.vm.InverseTransformLength(h)

	bb := geom.EmptyBox()
	bb.UnionPoint(m.Position)
	bb.Union(m.Position.X+w, m.Position.Y-h)
	return bb
}

func (p *umlClassBoxPresenter) Update(rc RenderContext) {
	m := p.model
	position := p.vm.Transform(m.Position)
	p.font = p.presenter.font(m.FontWeight)
	p.pen = p.presenter.pen(m.Stroke, m.Thickness)
	bold := p.font
	bold.Weight = drawing.FontWeightBold

	x := position.X + 5
	y := position.Y
	p.lines = p.lines[:0]
	p.lines = append(p.lines, umlLine{at: geom.SP(x, y), text: m.Title, bold: true})
	titleSize := rc.MeasureText(m.Title, bold)
	y += titleSize.Height
	width := titleSize.Width

	var dividers []float64
	for _, group := range [][]string{m.Properties, m.Methods} {
		dividers = append(dividers, y)
		for _, s := range group {
			p.lines = append(p.lines, umlLine{at: geom.SP(x, y), text: s})
			size := rc.MeasureText(s, p.font)
			y += size.Height
			width = max(width, size.Width)
		}
	}

	p.rect = geom.NewRect(position.X, position.Y, width+p.font.Size/2, y-position.Y)
	p.separators = p.separators[:0]
	for _, d := range dividers {
		p.separators = append(p.separators, geom.SP(position.X, d), geom.SP(p.rect.Right(), d))
	}
}

func (p *umlClassBoxPresenter) Render(rc RenderContext) error {
	m := p.model
	if m.Fill.IsVisible() {
		rc.DrawRectangle(p.rect, m.Fill, Pen{})
	}
	for _, l := range p.lines {
		f := p.font
		if l.bold {
			f.Weight = drawing.FontWeightBold
		}
		rc.DrawText(l.at, l.text, TextStyle{Color: m.TextColor, Font: f, HAlign: drawing.AlignLeft, VAlign: drawing.AlignTop})
	}
	// Outline and separators go on top of the text.
	rc.DrawRectangle(p.rect, drawing.Undefined, p.pen)
	rc.DrawLineSegments(p.separators, p.pen)
	return nil
}

func (p *umlClassBoxPresenter) HitTest(args HitTestArguments) *HitTestResult {
	if p.rect.Inflate(args.Tolerance).ContainsPoint(args.Point) {
		return p.hit(args.Point, nil)
	}
	return nil
}
