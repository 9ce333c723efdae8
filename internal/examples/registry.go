// Package examples is the gallery of demo drawings.
package examples

import (
	"errors"
	"fmt"
	"time"

	"github.com/oxydraw/oxydraw/internal/drawing"
)

var ErrNotFound = errors.New("example not found")

// Env supplies what examples need from their host.
type Env struct {
	// Tiles provides the tile layer images; nil draws no tiles.
	Tiles drawing.TileProvider
	// Now is used for dates drawn by examples. Defaults to time.Now.
	Now func() time.Time
}

func (e Env) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

// Demo is a built example. Each call to Example.Build returns a fresh Demo, so
// demos can be mutated by their viewers.
type Demo struct {
	Model *drawing.Model
	// OnPress is called with the topmost element under a pressed pointer, if any.
	OnPress func(e drawing.Element)
	// OnRelease is called when the pointer is released.
	OnRelease func()
}

type Example struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	Category string `json:"category"`

	build func(env Env) *Demo
}

func (e Example) Build(env Env) *Demo {
	return e.build(env)
}

// static wraps a builder of a non-interactive drawing.
func static(f func(env Env) *drawing.Model) func(Env) *Demo {
	return func(env Env) *Demo { return &Demo{Model: f(env)} }
}

var registry = []Example{
	{Name: "circle-from-three-points", Title: "Circle from three points", Category: "Circles", build: static(circleFromThreePoints)},
	{Name: "planets", Title: "Planets", Category: "Misc", build: static(planets)},
	{Name: "orbit", Title: "Orbit", Category: "Misc", build: static(orbit)},
	{Name: "grid", Title: "Grid", Category: "Misc", build: static(grid)},
	{Name: "optical-illusion", Title: "Optical illusion", Category: "Misc", build: static(opticalIllusion)},
	{Name: "arrows", Title: "Arrows", Category: "Misc", build: static(arrows)},
	{Name: "snurr", Title: "Snurr", Category: "Misc", build: static(snurr)},
	{Name: "blueprint", Title: "Blueprint", Category: "Misc", build: static(blueprint)},
	{Name: "genealogy-tree", Title: "Genealogy tree", Category: "Misc", build: static(genealogyTree)},
	{Name: "venn-diagram", Title: "Venn diagram", Category: "Misc", build: static(vennDiagram)},
	{Name: "uml", Title: "UML diagram", Category: "UML", build: static(uml)},
	{Name: "naca-0012", Title: "NACA 0012", Category: "Airfoils", build: static(naca("0012"))},
	{Name: "naca-2412", Title: "NACA 2412", Category: "Airfoils", build: static(naca("2412"))},
	{Name: "naca-6412", Title: "NACA 6412", Category: "Airfoils", build: static(naca("6412"))},
	{Name: "tile-layer", Title: "Tile layer and track log", Category: "Maps", build: static(tileLayer)},
	{Name: "image", Title: "Image", Category: "Images", build: static(imageExample)},
	{Name: "sample-document", Title: "Sample document", Category: "Documents", build: static(sampleDocument)},
	{Name: "mouse-events", Title: "Mouse events", Category: "Interaction", build: mouseEvents},
}

// All returns the examples in gallery order.
func All() []Example {
	out := make([]Example, len(registry))
	copy(out, registry)
	return out
}

func Get(name string) (Example, error) {
	for _, e := range registry {
		if e.Name == name {
			return e, nil
		}
	}
	return Example{}, fmt.Errorf("%w: %s", ErrNotFound, name)
}
