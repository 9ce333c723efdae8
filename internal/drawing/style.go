package drawing

// FontWeight is a CSS-style font weight.
type FontWeight float64

const (
	FontWeightNormal FontWeight = 400
	FontWeightBold   FontWeight = 700
)

// IsBold reports whether the weight should use a bold face.
func (w FontWeight) IsBold() bool {
	return w >= 600
}

// LineJoin is the shape used at the corners of stroked paths.
type LineJoin string

const (
	LineJoinMiter LineJoin = "miter"
	LineJoinRound LineJoin = "round"
	LineJoinBevel LineJoin = "bevel"
)

// LineStyle is a named dash pattern.
type LineStyle string

const (
	LineStyleSolid      LineStyle = "solid"
	LineStyleDash       LineStyle = "dash"
	LineStyleDot        LineStyle = "dot"
	LineStyleDashDot    LineStyle = "dashDot"
	LineStyleDashDotDot LineStyle = "dashDotDot"
	LineStyleNone       LineStyle = "none"
)

// DashArray returns the dash pattern in multiples of the stroke thickness.
// Solid lines return nil.
func (s LineStyle) DashArray() []float64 {
	switch s {
	case LineStyleDash:
		return []float64{4, 1}
	case LineStyleDot:
		return []float64{1, 1}
	case LineStyleDashDot:
		return []float64{4, 1, 1, 1}
	case LineStyleDashDotDot:
		return []float64{4, 1, 1, 1, 1, 1}
	default:
		return nil
	}
}

type HorizontalAlignment string

const (
	AlignLeft   HorizontalAlignment = "left"
	AlignCenter HorizontalAlignment = "center"
	AlignRight  HorizontalAlignment = "right"
)

type VerticalAlignment string

const (
	AlignTop    VerticalAlignment = "top"
	AlignMiddle VerticalAlignment = "middle"
	AlignBottom VerticalAlignment = "bottom"
)
