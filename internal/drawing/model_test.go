package drawing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxydraw/oxydraw/internal/geom"
)

func TestModelKeepsInsertionOrder(t *testing.T) {
	m := NewModel()
	a := NewEllipse(geom.Pt(0, 0), 1, 1)
	b := NewRectangle(0, 0, 1, 1)
	c := NewText(geom.Pt(0, 0), "c")
	m.Add(a, b)
	m.Add(c)

	assert.Equal(t, []Element{a, b, c}, m.Elements())
	assert.Equal(t, 3, m.Len())
	assert.Equal(t, 1, m.IndexOf(b))
	assert.Same(t, c, m.At(2))
}

func TestModelNotifiesObservers(t *testing.T) {
	m := NewModel()
	var events []ChangeEvent
	unsubscribe := m.Subscribe(func(e ChangeEvent) { events = append(events, e) })

	a := NewEllipse(geom.Pt(0, 0), 1, 1)
	b := NewEllipse(geom.Pt(0, 0), 1, 1)
	m.Add(a, b)
	assert.True(t, m.Remove(a))
	assert.False(t, m.Remove(a))
	m.Invalidate()
	m.Clear()

	require.Len(t, events, 4)
	assert.Equal(t, ElementsAdded, events[0].Kind)
	assert.Equal(t, []Element{a, b}, events[0].Elements)
	assert.Equal(t, ElementsRemoved, events[1].Kind)
	assert.Equal(t, []Element{a}, events[1].Elements)
	assert.Equal(t, Invalidated, events[2].Kind)
	assert.Equal(t, ElementsRemoved, events[3].Kind)
	assert.Equal(t, []Element{b}, events[3].Elements)

	unsubscribe()
	m.Add(a)
	assert.Len(t, events, 4)
}

func TestModelElementsIsSnapshot(t *testing.T) {
	m := NewModel()
	a := NewEllipse(geom.Pt(0, 0), 1, 1)
	m.Add(a)
	snapshot := m.Elements()
	m.Clear()
	assert.Len(t, snapshot, 1)
	assert.Equal(t, 0, m.Len())
}

func TestModelFrameReachesElements(t *testing.T) {
	m := NewModel()
	e := NewEllipse(geom.Pt(0, 0), 1, 1)
	var got []FrameEvent
	e.OnFrame(func(ev FrameEvent) { got = append(got, ev) })
	m.Add(e, NewGrid())

	m.Frame(FrameEvent{Cumulative: time.Second, Delta: 40 * time.Millisecond})
	require.Len(t, got, 1)
	assert.Equal(t, time.Second, got[0].Cumulative)
}

func TestElementDefaults(t *testing.T) {
	e := NewEllipse(geom.Pt(0, 0), 1, 1)
	assert.Equal(t, Black, e.Stroke)
	assert.True(t, e.Fill.IsInvisible())
	assert.Equal(t, -1.0, e.Thickness)
	assert.NotEmpty(t, e.ID)

	p := NewPolyline()
	assert.Equal(t, -1.0, p.Thickness)
	assert.Equal(t, LineJoinMiter, p.LineJoin)
	assert.Equal(t, LineStyleSolid, p.LineStyle)

	txt := NewText(geom.Pt(0, 0), "x")
	assert.Equal(t, -11.0, txt.FontSize)
	assert.Equal(t, AlignTop, txt.VerticalAlignment)

	a := NewArrow(geom.Pt(0, 0), geom.Pt(1, 0))
	assert.Equal(t, 1.0, a.Thickness)
	assert.Equal(t, 6.0, a.HeadLength)

	u := NewUmlClassBox(geom.Pt(0, 0), "T")
	assert.Equal(t, "Consolas", u.FontFamily)
	assert.Equal(t, 6.0, u.FontSize)
}

func TestEveryKindIsDistinct(t *testing.T) {
	elements := []Element{
		NewEllipse(geom.Pt(0, 0), 1, 1),
		NewRectangle(0, 0, 1, 1),
		NewRoundedRectangle(0, 0, 1, 1, 0.1),
		NewPolygon(),
		NewPolyline(),
		NewLines(),
		NewText(geom.Pt(0, 0), ""),
		NewImage(nil, 0, 0),
		NewTileLayer(nil),
		NewUmlClassBox(geom.Pt(0, 0), ""),
		NewArrow(geom.Pt(0, 0), geom.Pt(1, 1)),
		NewGrid(),
	}
	var kinds []Kind
	for _, e := range elements {
		kinds = append(kinds, e.Kind())
	}
	assert.Equal(t, Kinds, kinds)
}
