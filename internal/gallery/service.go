// Package gallery serves the example catalogue.
package gallery

import (
	"errors"
	"fmt"
	"slices"

	"github.com/oxydraw/oxydraw/internal/drawing"
	"github.com/oxydraw/oxydraw/internal/engine"
	"github.com/oxydraw/oxydraw/internal/examples"
	"github.com/oxydraw/oxydraw/internal/geom"
	"github.com/oxydraw/oxydraw/internal/render"
)

var ErrNotFound = errors.New("not found")

type Category struct {
	Name     string             `json:"name"`
	Examples []examples.Example `json:"examples"`
}

// Details describes a built example.
type Details struct {
	examples.Example
	Elements    int               `json:"elements"`
	Kinds       []drawing.Kind    `json:"kinds"`
	Bounds      *geom.BoundingBox `json:"bounds,omitempty"`
	Interactive bool              `json:"interactive"`
	Background  drawing.Color     `json:"background"`
}

type Hit struct {
	ID   string       `json:"id"`
	Kind drawing.Kind `json:"kind"`
}

type Service struct {
	env      examples.Env
	fallback string
}

// NewService returns a catalogue whose default example is fallback.
func NewService(env examples.Env, fallback string) (*Service, error) {
	if _, err := examples.Get(fallback); err != nil {
		return nil, fmt.Errorf("default example: %w", err)
	}
	return &Service{env: env, fallback: fallback}, nil
}

func (s *Service) Default() string { return s.fallback }

// Categories groups the examples by category, in gallery order.
func (s *Service) Categories() []Category {
	var out []Category
	for _, ex := range examples.All() {
		i := slices.IndexFunc(out, func(c Category) bool { return c.Name == ex.Category })
		if i < 0 {
			out = append(out, Category{Name: ex.Category})
			i = len(out) - 1
		}
		out[i].Examples = append(out[i].Examples, ex)
	}
	return out
}

func (s *Service) build(name string) (examples.Example, *examples.Demo, error) {
	ex, err := examples.Get(name)
	if err != nil {
		return ex, nil, fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return ex, ex.Build(s.env), nil
}

func (s *Service) Get(name string) (*Details, error) {
	ex, demo, err := s.build(name)
	if err != nil {
		return nil, err
	}
	d := &Details{
		Example:     ex,
		Elements:    demo.Model.Len(),
		Interactive: demo.OnPress != nil,
		Background:  demo.Model.Background,
	}
	for _, e := range demo.Model.Elements() {
		if !slices.Contains(d.Kinds, e.Kind()) {
			d.Kinds = append(d.Kinds, e.Kind())
		}
	}

	vm := engine.NewViewModel(engine.NewStaticView(1, 1, 0), demo.Model)
	defer vm.Close()
	rec := render.NewRecorder()
	rec.Screen = false
	if bb := vm.Bounds(rec); !bb.IsEmpty() {
		d.Bounds = &bb
	}
	return d, nil
}

// HitTest fits the example into a width x height view and returns the elements at p,
// topmost first.
func (s *Service) HitTest(name string, width, height float64, p geom.ScreenPoint, tolerance float64) ([]Hit, error) {
	_, demo, err := s.build(name)
	if err != nil {
		return nil, err
	}
	vm := engine.NewViewModel(engine.NewStaticView(width, height, 10), demo.Model)
	defer vm.Close()
	rec := render.NewRecorder()
	rec.Screen = false
	vm.ZoomExtents(rec)
	vm.Update(rec)

	hits := []Hit{}
	for r := range vm.HitTest(engine.HitTestArguments{Point: p, Tolerance: tolerance}) {
		hits = append(hits, Hit{ID: r.Element.Attributes().ID, Kind: r.Element.Kind()})
	}
	return hits, nil
}
