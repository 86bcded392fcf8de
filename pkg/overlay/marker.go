// pkg/overlay/marker.go - Point marker specifications
package overlay

import "github.com/paulmach/orb"

// MarkerKind distinguishes generic point markers from icon markers.
type MarkerKind string

// Marker kinds
const (
	MarkerCircle MarkerKind = "circle"
	MarkerIcon   MarkerKind = "icon"
)

// Icon marker defaults
const (
	DefaultIconSize       = 30.0
	DefaultRotationOrigin = "center"
)

// Marker describes how a point feature is drawn.
type Marker struct {
	Kind     MarkerKind `json:"kind" yaml:"kind"`
	Position orb.Point  `json:"position" yaml:"position"`

	// circle markers
	Radius  *float64 `json:"radius,omitempty" yaml:"radius,omitempty"`
	Opacity *float64 `json:"opacity,omitempty" yaml:"opacity,omitempty"`

	// icon markers
	IconURL        string     `json:"icon_url,omitempty" yaml:"icon_url,omitempty"`
	IconSize       [2]float64 `json:"icon_size,omitempty" yaml:"icon_size,omitempty"`
	IconAnchor     [2]float64 `json:"icon_anchor,omitempty" yaml:"icon_anchor,omitempty"`
	Rotation       float64    `json:"rotation" yaml:"rotation"`
	RotationOrigin string     `json:"rotation_origin,omitempty" yaml:"rotation_origin,omitempty"`
}

// HiddenCircle is the invisible placeholder marker of a main-layer point.
func HiddenCircle(p orb.Point) *Marker {
	return &Marker{
		Kind:     MarkerCircle,
		Position: p,
		Radius:   Ptr(0.0),
		Opacity:  Ptr(0.0),
	}
}

// IconMarker builds the rotatable icon marker of a point carrying iconImage.
func IconMarker(p orb.Point, props Properties) *Marker {
	url := props.IconURL
	if url == "" {
		url = props.IconImage
	}

	size := [2]float64{DefaultIconSize, DefaultIconSize}
	if len(props.IconSize) == 2 {
		size = [2]float64{props.IconSize[0], props.IconSize[1]}
	}

	anchor := [2]float64{size[0] / 2, size[1] / 2}
	if len(props.IconAnchor) == 2 {
		anchor = [2]float64{props.IconAnchor[0], props.IconAnchor[1]}
	}

	rotation := 0.0
	if truthyNumber(props.Rotation) {
		rotation = *props.Rotation
	}

	return &Marker{
		Kind:           MarkerIcon,
		Position:       p,
		IconURL:        url,
		IconSize:       size,
		IconAnchor:     anchor,
		Rotation:       rotation,
		RotationOrigin: DefaultRotationOrigin,
	}
}
