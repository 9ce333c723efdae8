package drawing

import (
	"slices"
	"time"
)

// FrameEvent is raised once per animation frame.
type FrameEvent struct {
	// Cumulative is the time since the first frame.
	Cumulative time.Duration
	// Delta is the time since the previous frame.
	Delta time.Duration
}

type ChangeKind int

const (
	ElementsAdded ChangeKind = iota
	ElementsRemoved
	// Invalidated reports an in-place change to element attributes.
	Invalidated
)

func (k ChangeKind) String() string {
	switch k {
	case ElementsAdded:
		return "added"
	case ElementsRemoved:
		return "removed"
	default:
		return "invalidated"
	}
}

// ChangeEvent describes a change to a Model.
type ChangeEvent struct {
	Kind     ChangeKind
	Elements []Element
}

type observer struct {
	id int
	fn func(ChangeEvent)
}

// Model is an ordered collection of elements. Insertion order is paint order,
// back to front. A Model is not safe for concurrent use.
type Model struct {
	Background Color

	elements  []Element
	observers []observer
	nextID    int
}

func NewModel() *Model {
	return &Model{Background: White}
}

// Subscribe registers fn to be called after every change. The returned function
// removes the registration.
func (m *Model) Subscribe(fn func(ChangeEvent)) (unsubscribe func()) {
	m.nextID++
	id := m.nextID
	m.observers = append(m.observers, observer{id: id, fn: fn})
	return func() {
		m.observers = slices.DeleteFunc(m.observers, func(o observer) bool { return o.id == id })
	}
}

func (m *Model) notify(e ChangeEvent) {
	for _, o := range slices.Clone(m.observers) {
		o.fn(e)
	}
}

// Add appends elements on top of the existing ones.
func (m *Model) Add(elements ...Element) {
	if len(elements) == 0 {
		return
	}
	m.elements = append(m.elements, elements...)
	m.notify(ChangeEvent{Kind: ElementsAdded, Elements: elements})
}

// Remove removes e and reports whether it was present.
func (m *Model) Remove(e Element) bool {
	i := m.IndexOf(e)
	if i < 0 {
		return false
	}
	m.elements = slices.Delete(m.elements, i, i+1)
	m.notify(ChangeEvent{Kind: ElementsRemoved, Elements: []Element{e}})
	return true
}

// Clear removes every element.
func (m *Model) Clear() {
	if len(m.elements) == 0 {
		return
	}
	removed := m.elements
	m.elements = nil
	m.notify(ChangeEvent{Kind: ElementsRemoved, Elements: removed})
}

// Invalidate tells observers that element attributes changed in place.
func (m *Model) Invalidate() {
	m.notify(ChangeEvent{Kind: Invalidated})
}

// Elements returns a snapshot of the elements in paint order.
func (m *Model) Elements() []Element {
	return slices.Clone(m.elements)
}

func (m *Model) Len() int { return len(m.elements) }

func (m *Model) At(i int) Element { return m.elements[i] }

// IndexOf returns the position of e, or -1.
func (m *Model) IndexOf(e Element) int {
	return slices.Index(m.elements, e)
}

// Frame raises e on every element.
func (m *Model) Frame(e FrameEvent) {
	for _, el := range m.elements {
		el.Attributes().raiseFrame(e)
	}
}
