// Package document reads and writes drawings as JSON or YAML documents.
package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/oxydraw/oxydraw/internal/drawing"
	"github.com/oxydraw/oxydraw/internal/geom"
)

var (
	ErrUnknownKind  = errors.New("unknown element kind")
	ErrMissingAsset = errors.New("missing image asset")
)

// Document is the serialized form of a drawing.Model.
type Document struct {
	Name       string         `json:"name,omitempty" yaml:"name,omitempty"`
	Background *drawing.Color `json:"background,omitempty" yaml:"background,omitempty"`
	Elements   []Node         `json:"elements" yaml:"elements"`
}

type Font struct {
	Family string             `json:"family,omitempty" yaml:"family,omitempty"`
	Size   *float64           `json:"size,omitempty" yaml:"size,omitempty"`
	Weight drawing.FontWeight `json:"weight,omitempty" yaml:"weight,omitempty"`
}

// Node is one element. Which fields apply depends on Kind; unset optional fields
// keep the element defaults.
//
// Sizes follow the element convention: negative values are device units.
type Node struct {
	ID   string       `json:"id,omitempty" yaml:"id,omitempty"`
	Kind drawing.Kind `json:"kind" yaml:"kind"`
	Font *Font        `json:"font,omitempty" yaml:"font,omitempty"`

	// Style
	Stroke               *drawing.Color    `json:"stroke,omitempty" yaml:"stroke,omitempty"`
	Fill                 *drawing.Color    `json:"fill,omitempty" yaml:"fill,omitempty"`
	Color                *drawing.Color    `json:"color,omitempty" yaml:"color,omitempty"`
	Thickness            *float64          `json:"thickness,omitempty" yaml:"thickness,omitempty"`
	Text                 string            `json:"text,omitempty" yaml:"text,omitempty"`
	TextColor            *drawing.Color    `json:"textColor,omitempty" yaml:"textColor,omitempty"`
	LineJoin             drawing.LineJoin  `json:"lineJoin,omitempty" yaml:"lineJoin,omitempty"`
	LineStyle            drawing.LineStyle `json:"lineStyle,omitempty" yaml:"lineStyle,omitempty"`
	Aliased              bool              `json:"aliased,omitempty" yaml:"aliased,omitempty"`
	MinimumSegmentLength float64           `json:"minimumSegmentLength,omitempty" yaml:"minimumSegmentLength,omitempty"`

	// Geometry
	Center       *geom.DataPoint `json:"center,omitempty" yaml:"center,omitempty"`
	RadiusX      float64         `json:"radiusX,omitempty" yaml:"radiusX,omitempty"`
	RadiusY      float64         `json:"radiusY,omitempty" yaml:"radiusY,omitempty"`
	Min          *geom.DataPoint `json:"min,omitempty" yaml:"min,omitempty"`
	Max          *geom.DataPoint `json:"max,omitempty" yaml:"max,omitempty"`
	CornerRadius float64         `json:"cornerRadius,omitempty" yaml:"cornerRadius,omitempty"`
	// Points are data points; a null entry breaks the path.
	Points []*geom.DataPoint `json:"points,omitempty" yaml:"points,omitempty"`
	// Positions are projected to tile layer coordinates and appended to Points.
	Positions []drawing.LatLon `json:"positions,omitempty" yaml:"positions,omitempty"`
	Point     *geom.DataPoint  `json:"point,omitempty" yaml:"point,omitempty"`
	Start     *geom.DataPoint  `json:"start,omitempty" yaml:"start,omitempty"`
	End       *geom.DataPoint  `json:"end,omitempty" yaml:"end,omitempty"`

	// Text and UML
	Content             string                      `json:"content,omitempty" yaml:"content,omitempty"`
	Rotate              float64                     `json:"rotate,omitempty" yaml:"rotate,omitempty"`
	HorizontalAlignment drawing.HorizontalAlignment `json:"horizontalAlignment,omitempty" yaml:"horizontalAlignment,omitempty"`
	VerticalAlignment   drawing.VerticalAlignment   `json:"verticalAlignment,omitempty" yaml:"verticalAlignment,omitempty"`
	Title               string                      `json:"title,omitempty" yaml:"title,omitempty"`
	Properties          []string                    `json:"properties,omitempty" yaml:"properties,omitempty"`
	Methods             []string                    `json:"methods,omitempty" yaml:"methods,omitempty"`

	// Arrow
	HeadLength *float64 `json:"headLength,omitempty" yaml:"headLength,omitempty"`
	HeadWidth  *float64 `json:"headWidth,omitempty" yaml:"headWidth,omitempty"`
	Veeness    *float64 `json:"veeness,omitempty" yaml:"veeness,omitempty"`

	// Grid
	MajorDistance  *float64       `json:"majorDistance,omitempty" yaml:"majorDistance,omitempty"`
	MinorDistance  *float64       `json:"minorDistance,omitempty" yaml:"minorDistance,omitempty"`
	MajorThickness *float64       `json:"majorThickness,omitempty" yaml:"majorThickness,omitempty"`
	MinorThickness *float64       `json:"minorThickness,omitempty" yaml:"minorThickness,omitempty"`
	MajorColor     *drawing.Color `json:"majorColor,omitempty" yaml:"majorColor,omitempty"`
	MinorColor     *drawing.Color `json:"minorColor,omitempty" yaml:"minorColor,omitempty"`

	// Image and tile layer
	Asset       string   `json:"asset,omitempty" yaml:"asset,omitempty"`
	Width       *float64 `json:"width,omitempty" yaml:"width,omitempty"`
	Height      *float64 `json:"height,omitempty" yaml:"height,omitempty"`
	Opacity     *float64 `json:"opacity,omitempty" yaml:"opacity,omitempty"`
	Interpolate *bool    `json:"interpolate,omitempty" yaml:"interpolate,omitempty"`
	Source      string   `json:"source,omitempty" yaml:"source,omitempty"`
	Copyright   string   `json:"copyright,omitempty" yaml:"copyright,omitempty"`
	TileSize    int      `json:"tileSize,omitempty" yaml:"tileSize,omitempty"`
	MinZoom     *int     `json:"minZoom,omitempty" yaml:"minZoom,omitempty"`
	MaxZoom     *int     `json:"maxZoom,omitempty" yaml:"maxZoom,omitempty"`
}

// AssetSource resolves the asset IDs of image elements.
type AssetSource interface {
	Image(id string) (image.Image, error)
}

// Options supplies the collaborators elements need at build time.
type Options struct {
	Assets AssetSource
	Tiles  drawing.TileProvider
}

// ParseJSON decodes a JSON document.
func ParseJSON(data []byte) (*Document, error) {
	var doc Document
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode json document: %w", err)
	}
	return &doc, nil
}

// ParseYAML decodes a YAML document.
func ParseYAML(data []byte) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode yaml document: %w", err)
	}
	return &doc, nil
}

// LoadJSON reads a JSON document from r and builds its model.
func LoadJSON(r io.Reader, opts Options) (*drawing.Model, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	doc, err := ParseJSON(data)
	if err != nil {
		return nil, err
	}
	return doc.Build(opts)
}

// LoadYAML reads a YAML document from r and builds its model.
func LoadYAML(r io.Reader, opts Options) (*drawing.Model, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	doc, err := ParseYAML(data)
	if err != nil {
		return nil, err
	}
	return doc.Build(opts)
}

func (d *Document) JSON() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

func (d *Document) YAML() ([]byte, error) {
	return yaml.Marshal(d)
}
