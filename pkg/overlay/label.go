// pkg/overlay/label.go - Label text, anchors and zoom scaling
package overlay

import (
	"math"
	"strconv"

	"github.com/paulmach/orb"
)

// Label presentation defaults
const (
	LabelClassName = "geojson-text-label"
	LabelFontSize  = 14

	labelMinZoom  = 11
	labelMinScale = 0.5
	labelMaxScale = 2.0
)

// LabelKind tells which rule produced a label.
type LabelKind string

// Label kinds
const (
	LabelPoint   LabelKind = "point"
	LabelPolygon LabelKind = "polygon"
)

// Label is a text annotation placed at an anchor coordinate.
type Label struct {
	Text         string    `json:"text" yaml:"text"`
	Anchor       orb.Point `json:"anchor" yaml:"anchor"`
	Kind         LabelKind `json:"kind" yaml:"kind"`
	ClassName    string    `json:"class_name" yaml:"class_name"`
	FontSize     int       `json:"font_size" yaml:"font_size"`
	FeatureIndex int       `json:"feature_index" yaml:"feature_index"`
}

// LabelText formats "<name> <ceil(area)>m2". It returns false when there is
// no name to show. A missing area drops the suffix and yields the name alone.
func LabelText(name string, area *float64) (string, bool) {
	if name == "" {
		return "", false
	}
	if area == nil || math.IsNaN(*area) || math.IsInf(*area, 0) {
		return name, true
	}
	rounded := math.Ceil(*area) + 0 // +0 turns -0 into 0
	return name + " " + strconv.FormatFloat(rounded, 'f', -1, 64) + "m2", true
}

// PointLabel builds the label of a type_name=label point feature.
func PointLabel(geom orb.Geometry, props Properties) (Label, bool) {
	point, ok := geom.(orb.Point)
	if !ok {
		return Label{}, false
	}
	text, ok := LabelText(props.DisplayName(), props.Area)
	if !ok {
		return Label{}, false
	}
	return newLabel(text, point, LabelPoint), true
}

// PolygonLabel builds the label of a named Polygon, anchored at the centre
// of its bounding box.
func PolygonLabel(geom orb.Geometry, props Properties) (Label, bool) {
	polygon, ok := geom.(orb.Polygon)
	if !ok || len(polygon) == 0 || len(polygon[0]) == 0 {
		return Label{}, false
	}
	text, ok := LabelText(props.Name, props.Area)
	if !ok {
		return Label{}, false
	}
	return newLabel(text, polygon.Bound().Center(), LabelPolygon), true
}

func newLabel(text string, anchor orb.Point, kind LabelKind) Label {
	return Label{
		Text:      text,
		Anchor:    anchor,
		Kind:      kind,
		ClassName: LabelClassName,
		FontSize:  LabelFontSize,
	}
}

// LabelScale returns the label scale factor for a zoom level and whether
// labels are shown at all.
func LabelScale(zoom float64) (scale float64, visible bool) {
	scale = (zoom - 10) / 5
	scale = math.Max(labelMinScale, math.Min(labelMaxScale, scale))
	return scale, zoom >= labelMinZoom
}
