package engine

import (
	"github.com/oxydraw/oxydraw/internal/drawing"
	"github.com/oxydraw/oxydraw/internal/geom"
)

// --- Ellipse ---

type ellipsePresenter struct {
	presenter[*drawing.Ellipse]
	rect geom.Rect
	pen  Pen
	font Font
}

func (p *ellipsePresenter) Bounds(RenderContext) geom.BoundingBox {
	m := p.model
	dx := max(m.RadiusX, 0)
	dy := max(m.RadiusY, 0)
	return geom.NewBox(m.Center.X-dx, m.Center.Y-dy, m.Center.X+dx, m.Center.Y+dy)
}

func (p *ellipsePresenter) Update(RenderContext) {
	m := p.model
	c := p.vm.Transform(m.Center)
	dx := p.radius(m.RadiusX)
	dy := p.radius(m.RadiusY)
	p.rect = geom.NewRect(c.X-dx, c.Y-dy, dx*2, dy*2)
	p.pen = p.presenter.pen(m.Stroke, m.Thickness)
	p.font = p.presenter.font(m.FontWeight)
}

// radius follows the device-unit convention, a zero radius stays zero.
func (p *ellipsePresenter) radius(r float64) float64 {
	if r > 0 {
		return p.vm.TransformLength(r)
	}
	return -r
}

func (p *ellipsePresenter) Render(rc RenderContext) error {
	m := p.model
	rc.DrawEllipse(p.rect, m.Fill, p.pen)
	if m.Text != "" {
		rc.DrawText(p.rect.Center(), m.Text, TextStyle{
			Color:  m.TextColor,
			Font:   p.font,
			HAlign: drawing.AlignCenter,
			VAlign: drawing.AlignMiddle,
		})
	}
	return nil
}

func (p *ellipsePresenter) HitTest(args HitTestArguments) *HitTestResult {
	c := p.rect.Center()
	dx := c.X - args.Point.X
	dy := c.Y - args.Point.Y
	rx := p.rect.Width / 2
	ry := p.rect.Height / 2
	if q := dx*dx/(rx*rx) + dy*dy/(ry*ry); q <= 1 {
		return p.hit(args.Point, nil)
	}
	return nil
}

// --- Rectangle ---

type rectanglePresenter struct {
	presenter[*drawing.Rectangle]
	rect geom.Rect
	pen  Pen
	font Font
}

func rectangleBounds(m *drawing.Rectangle) geom.BoundingBox {
	return geom.NewBox(m.MinimumX, m.MinimumY, m.MaximumX, m.MaximumY)
}

func (p *rectanglePresenter) Bounds(RenderContext) geom.BoundingBox {
	return rectangleBounds(p.model)
}

func (p *rectanglePresenter) Update(RenderContext) {
	m := p.model
	p.rect = geom.RectFromPoints(p.vm.TransformXY(m.MinimumX, m.MaximumY), p.vm.TransformXY(m.MaximumX, m.MinimumY))
	p.pen = p.presenter.pen(m.Stroke, m.Thickness)
	p.font = p.presenter.font(m.FontWeight)
}

func (p *rectanglePresenter) Render(rc RenderContext) error {
	m := p.model
	rc.DrawRectangle(p.rect, m.Fill, p.pen)
	if m.Text != "" {
		rc.DrawText(p.rect.Center(), m.Text, TextStyle{
			Color:  m.TextColor,
			Font:   p.font,
			HAlign: drawing.AlignCenter,
			VAlign: drawing.AlignMiddle,
		})
	}
	return nil
}

func (p *rectanglePresenter) HitTest(args HitTestArguments) *HitTestResult {
	if p.rect.Inflate(args.Tolerance).ContainsPoint(args.Point) {
		return p.hit(args.Point, nil)
	}
	return nil
}

// --- RoundedRectangle ---

const cornerArcPoints = 40

type roundedRectanglePresenter struct {
	presenter[*drawing.RoundedRectangle]
	rect geom.Rect
	// points is the outline when the corner radius is positive.
	points []geom.ScreenPoint
	pen    Pen
}

func (p *roundedRectanglePresenter) Bounds(RenderContext) geom.BoundingBox {
	return rectangleBounds(&p.model.Rectangle)
}

func (p *roundedRectanglePresenter) Update(RenderContext) {
	m := p.model
	p1 := p.vm.TransformXY(m.MinimumX, m.MaximumY)
	p2 := p.vm.TransformXY(m.MaximumX, m.MinimumY)
	cr := p.vm.TransformLength(m.CornerRadius)
	p.rect = geom.RectFromPoints(p1, p2)
	p.pen = p.presenter.pen(m.Stroke, m.Thickness)
	p.points = nil
	if cr <= 0 {
		return
	}

	p.points = append(p.points, geom.SP(p1.X+cr, p1.Y))
	p.points = append(p.points, geom.Arc(geom.SP(p2.X-cr, p1.Y+cr), cr, cr, -90, 0, cornerArcPoints)...)
	p.points = append(p.points, geom.Arc(geom.SP(p2.X-cr, p2.Y-cr), cr, cr, 0, 90, cornerArcPoints)...)
	p.points = append(p.points, geom.Arc(geom.SP(p1.X+cr, p2.Y-cr), cr, cr, 90, 180, cornerArcPoints)...)
	p.points = append(p.points, geom.Arc(geom.SP(p1.X+cr, p1.Y+cr), cr, cr, 180, 270, cornerArcPoints)...)
}

func (p *roundedRectanglePresenter) Render(rc RenderContext) error {
	if p.points != nil {
		rc.DrawPolygon(p.points, p.model.Fill, p.pen)
		return nil
	}
	r := p.rect
	corners := []geom.ScreenPoint{
		geom.SP(r.Left(), r.Top()), geom.SP(r.Right(), r.Top()),
		geom.SP(r.Right(), r.Bottom()), geom.SP(r.Left(), r.Bottom()),
	}
	rc.DrawPolygon(corners, p.model.Fill, p.pen)
	return nil
}

func (p *roundedRectanglePresenter) HitTest(args HitTestArguments) *HitTestResult {
	if p.points != nil {
		if geom.PolygonContains(p.points, args.Point) {
			return p.hit(args.Point, nil)
		}
		return nil
	}
	if p.rect.Inflate(args.Tolerance).ContainsPoint(args.Point) {
		return p.hit(args.Point, nil)
	}
	return nil
}

// --- Polygon ---

type polygonPresenter struct {
	presenter[*drawing.Polygon]
	points []geom.ScreenPoint
	pen    Pen
}

func (p *polygonPresenter) Bounds(RenderContext) geom.BoundingBox {
	return pointsBounds(p.model.Points)
}

func (p *polygonPresenter) Update(RenderContext) {
	m := p.model
	p.points = p.transformAll(m.Points)
	if m.MinimumSegmentLength > 0 {
		p.points = geom.ResamplePoints(p.points, m.MinimumSegmentLength)
	}
	p.pen = p.presenter.pen(m.Stroke, m.Thickness)
	p.pen.Dash = m.LineStyle.DashArray()
	p.pen.Join = m.LineJoin
}

func (p *polygonPresenter) Render(rc RenderContext) error {
	rc.DrawPolygon(p.points, p.model.Fill, p.pen)
	return nil
}

func (p *polygonPresenter) HitTest(args HitTestArguments) *HitTestResult {
	if geom.PolygonContains(p.points, args.Point) {
		return p.hit(args.Point, nil)
	}
	closed := append(p.points[:len(p.points):len(p.points)], p.points[:min(1, len(p.points))]...)
	if q, i, ok := hitPolyline(closed, 1, args.Point, max(args.Tolerance, p.pen.Thickness/2)); ok {
		return p.hit(q, i)
	}
	return nil
}

// --- Polyline and Lines ---

// strokedPoints is the state shared by open paths.
type strokedPoints struct {
	points []geom.ScreenPoint
	pen    Pen
}

func (s *strokedPoints) update(vm *ViewModel, st drawing.Stroked, points []geom.ScreenPoint) {
	s.points = points
	if st.MinimumSegmentLength > 0 {
		s.points = geom.ResamplePoints(s.points, st.MinimumSegmentLength)
	}
	s.pen = Pen{
		Color:     st.Color,
		Thickness: vm.TransformLength(st.Thickness),
		Dash:      st.LineStyle.DashArray(),
		Join:      st.LineJoin,
		Aliased:   st.Aliased,
	}
}

type polylinePresenter struct {
	presenter[*drawing.Polyline]
	strokedPoints
}

func (p *polylinePresenter) Bounds(RenderContext) geom.BoundingBox {
	return pointsBounds(p.model.Points)
}

func (p *polylinePresenter) Update(RenderContext) {
	p.update(p.vm, p.model.Stroked, p.transformAll(p.model.Points))
}

func (p *polylinePresenter) Render(rc RenderContext) error {
	if p.model.LineStyle == drawing.LineStyleNone {
		return nil
	}
	rc.DrawLine(p.points, p.strokedPoints.pen)
	return nil
}

func (p *polylinePresenter) HitTest(args HitTestArguments) *HitTestResult {
	if q, i, ok := hitPolyline(p.points, 1, args.Point, max(args.Tolerance, p.strokedPoints.pen.Thickness/2)); ok {
		return p.hit(q, i)
	}
	return nil
}

type linesPresenter struct {
	presenter[*drawing.Lines]
	strokedPoints
}

func (p *linesPresenter) Bounds(RenderContext) geom.BoundingBox {
	return pointsBounds(p.model.Points)
}

func (p *linesPresenter) Update(RenderContext) {
	p.update(p.vm, p.model.Stroked, p.transformAll(p.model.Points))
}

func (p *linesPresenter) Render(rc RenderContext) error {
	if p.model.LineStyle == drawing.LineStyleNone {
		return nil
	}
	rc.DrawLineSegments(p.points, p.strokedPoints.pen)
	return nil
}

func (p *linesPresenter) HitTest(args HitTestArguments) *HitTestResult {
	if q, i, ok := hitPolyline(p.points, 2, args.Point, max(args.Tolerance, p.strokedPoints.pen.Thickness/2)); ok {
		return p.hit(q, i/2)
	}
	return nil
}

// --- Arrow ---

type arrowPresenter struct {
	presenter[*drawing.Arrow]
	points [7]geom.ScreenPoint
}

func (p *arrowPresenter) Bounds(RenderContext) geom.BoundingBox {
	bb := geom.EmptyBox()
	bb.UnionPoint(p.model.StartPoint)
	bb.UnionPoint(p.model.EndPoint)
	return bb
}

func (p *arrowPresenter) Update(RenderContext) {
	m := p.model
	start := p.vm.Transform(m.StartPoint)
	end := p.vm.Transform(m.EndPoint)
	direction := end.Sub(start).Normalize()
	normal := geom.SV(-direction.Y, direction.X)
	thickness := p.vm.TransformLength(m.Thickness)

	p1 := end.Minus(direction.Mul(m.HeadLength * thickness))
	p2 := p1.Add(direction.Mul(m.Veeness * thickness))
	n1 := normal.Mul(m.HeadWidth * 0.5 * thickness)
	n2 := normal.Mul(0.5 * thickness)

	p.points = [7]geom.ScreenPoint{
		end,
		p1.Add(n1),
		p2.Add(n2),
		start.Add(n2),
		start.Minus(n2),
		p2.Minus(n2),
		p1.Minus(n1),
	}
}

func (p *arrowPresenter) Render(rc RenderContext) error {
	rc.DrawPolygon(p.points[:], p.model.Color, Pen{})
	return nil
}

func (p *arrowPresenter) HitTest(args HitTestArguments) *HitTestResult {
	if geom.PolygonContains(p.points[:], args.Point) {
		return p.hit(args.Point, nil)
	}
	return nil
}
