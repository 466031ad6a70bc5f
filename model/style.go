package model

// FillType identifies the variant of a Fill.
type FillType string

// Fill variants.
const (
	FillNone     FillType = "none"
	FillSolid    FillType = "solid"
	FillGradient FillType = "gradient"
	FillImage    FillType = "image"
	FillPattern  FillType = "pattern"
)

// Fill is a fully resolved paint descriptor.
type Fill struct {
	Type FillType `json:"type"`

	// Solid
	Color string `json:"color,omitempty"`

	// Gradient
	Angle float64        `json:"angle,omitempty"` // degrees
	Stops []GradientStop `json:"stops,omitempty"` // ascending by Pos

	// Image
	ImageRef string `json:"imageRef,omitempty"` // key into Document.Media

	// Pattern
	Pattern    string `json:"pattern,omitempty"` // preset pattern name
	Foreground string `json:"foreground,omitempty"`
	Background string `json:"background,omitempty"`
}

// SolidFill returns a solid fill of the given resolved color.
func SolidFill(color string) Fill {
	return Fill{Type: FillSolid, Color: color}
}

// NoFill returns the empty fill descriptor.
func NoFill() Fill {
	return Fill{Type: FillNone}
}

// GradientStop is one stop of a gradient fill.
type GradientStop struct {
	Pos   float64 `json:"pos"` // 0..100 percent
	Color string  `json:"color"`
}

// DashKind is the closed set of border dash styles.
type DashKind string

// Border dash kinds.
const (
	DashSolid      DashKind = "solid"
	DashDashed     DashKind = "dashed"
	DashDotted     DashKind = "dotted"
	DashDashDot    DashKind = "dashDot"
	DashLongDash   DashKind = "longDash"
	DashLongDotDot DashKind = "longDashDotDot"
	DashSystem     DashKind = "systemDash"
)

// Border is a fully resolved stroke descriptor.
type Border struct {
	Color string   `json:"color"`
	Width float64  `json:"width"` // points
	Dash  DashKind `json:"dash"`
	// Dasharray is a literal pixel pattern for renderers that need one;
	// empty for solid borders.
	Dasharray string `json:"dasharray,omitempty"`
}

// ShadowKind distinguishes outer and inner shadows.
type ShadowKind string

// Shadow kinds.
const (
	ShadowOuter ShadowKind = "outer"
	ShadowInner ShadowKind = "inner"
)

// Shadow is a fully resolved shadow descriptor. Blur and offsets are pixels.
type Shadow struct {
	Kind    ShadowKind `json:"kind"`
	Color   string     `json:"color"`
	Blur    float64    `json:"blur"`
	OffsetX float64    `json:"offsetX"`
	OffsetY float64    `json:"offsetY"`
	Angle   float64    `json:"angle"` // degrees
}
