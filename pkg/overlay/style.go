// pkg/overlay/style.go - Style resolution with feature-over-default precedence
package overlay

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Fixed path overlay styling
const (
	DefaultRoadCenterColor = "#000000"
	DefaultOverlayDash     = "8, 8"
	OverlayWeight          = 2.0
	OverlayOpacity         = 1.0
)

// Style is a set of optional drawing attributes. Nil fields are absent and
// are omitted when serialised.
type Style struct {
	Color       *string  `json:"color,omitempty" yaml:"color,omitempty" mapstructure:"color"`
	Weight      *float64 `json:"weight,omitempty" yaml:"weight,omitempty" mapstructure:"weight"`
	Opacity     *float64 `json:"opacity,omitempty" yaml:"opacity,omitempty" mapstructure:"opacity"`
	FillColor   *string  `json:"fillColor,omitempty" yaml:"fillColor,omitempty" mapstructure:"fillColor"`
	FillOpacity *float64 `json:"fillOpacity,omitempty" yaml:"fillOpacity,omitempty" mapstructure:"fillOpacity"`
	DashArray   *string  `json:"dashArray,omitempty" yaml:"dashArray,omitempty" mapstructure:"dashArray"`
	LineCap     *string  `json:"lineCap,omitempty" yaml:"lineCap,omitempty" mapstructure:"lineCap"`
	LineJoin    *string  `json:"lineJoin,omitempty" yaml:"lineJoin,omitempty" mapstructure:"lineJoin"`
	Radius      *float64 `json:"radius,omitempty" yaml:"radius,omitempty" mapstructure:"radius"`
}

// Ptr returns a pointer to v, for building Style values.
func Ptr[T any](v T) *T {
	return &v
}

// IsEmpty reports whether no attribute is set.
func (s Style) IsEmpty() bool {
	return s == Style{}
}

// ResolveStyle computes the main-layer style of a feature. Each attribute is
// taken from the feature when present and non-empty, otherwise from defaults
// when configured, otherwise left absent. A Point carrying iconImage has no
// style and nil is returned.
func ResolveStyle(f *geojson.Feature, defaults Style) *Style {
	if f == nil {
		return nil
	}
	props, _ := DecodeProperties(f.Properties)
	return resolveStyle(f.Geometry, props, defaults)
}

func resolveStyle(geom orb.Geometry, props Properties, defaults Style) *Style {
	if _, ok := geom.(orb.Point); ok && props.HasIcon() {
		return nil
	}

	feature := props.Style
	return &Style{
		Color:       pickString(feature.Color, defaults.Color),
		Weight:      pickNumber(feature.Weight, defaults.Weight),
		Opacity:     pickNumber(feature.Opacity, defaults.Opacity),
		FillColor:   pickString(feature.FillColor, defaults.FillColor),
		FillOpacity: pickNumber(feature.FillOpacity, defaults.FillOpacity),
		DashArray:   pickString(feature.DashArray, defaults.DashArray),
		LineCap:     pickString(feature.LineCap, defaults.LineCap),
		LineJoin:    pickString(feature.LineJoin, defaults.LineJoin),
		Radius:      pickNumber(feature.Radius, defaults.Radius),
	}
}

// OverlayStyle is the fixed style of the dashed centre line drawn over paths.
// It ignores configured defaults.
func OverlayStyle(props Properties) *Style {
	color := DefaultRoadCenterColor
	if props.RoadCenterColor != "" {
		color = props.RoadCenterColor
	}
	dash := DefaultOverlayDash
	if truthyString(props.DashArray) {
		dash = *props.DashArray
	}

	return &Style{
		Color:     Ptr(color),
		Weight:    Ptr(OverlayWeight),
		Opacity:   Ptr(OverlayOpacity),
		DashArray: Ptr(dash),
	}
}

func pickString(feature, fallback *string) *string {
	if truthyString(feature) {
		return Ptr(*feature)
	}
	if fallback != nil {
		return Ptr(*fallback)
	}
	return nil
}

func pickNumber(feature, fallback *float64) *float64 {
	if truthyNumber(feature) {
		return Ptr(*feature)
	}
	if fallback != nil {
		return Ptr(*fallback)
	}
	return nil
}
