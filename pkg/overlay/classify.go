// pkg/overlay/classify.go - Render bucket membership of a feature
package overlay

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Membership lists the buckets a feature belongs to. The flags are
// independent; a feature can be in several buckets at once.
type Membership struct {
	Main         bool `json:"main"`
	PathBase     bool `json:"path_base"`
	PathOverlay  bool `json:"path_overlay"`
	Icon         bool `json:"icon"`
	Label        bool `json:"label"`
	PolygonLabel bool `json:"polygon_label"`
}

// Classify decodes the feature's properties and classifies it.
func Classify(f *geojson.Feature) Membership {
	if f == nil {
		return Membership{}
	}
	props, _ := DecodeProperties(f.Properties)
	return classify(f.Geometry, props)
}

func classify(geom orb.Geometry, props Properties) Membership {
	_, isPoint := geom.(orb.Point)
	_, isPolygon := geom.(orb.Polygon)

	var m Membership
	switch {
	case props.TypeName == TypePath:
		m.PathBase = true
		m.PathOverlay = true
	case props.TypeName == TypeLabel && isPoint:
		m.Label = true
	default:
		m.Main = true
	}

	m.Icon = props.HasIcon()
	m.PolygonLabel = isPolygon && props.Name != ""
	return m
}
