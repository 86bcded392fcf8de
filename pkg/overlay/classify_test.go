package overlay

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
)

func feature(g orb.Geometry, props map[string]interface{}) *geojson.Feature {
	f := geojson.NewFeature(g)
	for k, v := range props {
		f.Properties[k] = v
	}
	return f
}

var (
	testPoint   = orb.Point{8.6, 50.1}
	testLine    = orb.LineString{{8.6, 50.1}, {8.7, 50.2}}
	testPolygon = orb.Polygon{{{0, 0}, {4, 0}, {4, 2}, {0, 2}, {0, 0}}}
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		geom  orb.Geometry
		props map[string]interface{}
		want  Membership
	}{
		{
			name: "plain polygon",
			geom: testPolygon,
			want: Membership{Main: true},
		},
		{
			name:  "path line",
			geom:  testLine,
			props: map[string]interface{}{"type_name": "path"},
			want:  Membership{PathBase: true, PathOverlay: true},
		},
		{
			name:  "label point",
			geom:  testPoint,
			props: map[string]interface{}{"type_name": "label", "Name": "Gate"},
			want:  Membership{Label: true},
		},
		{
			name:  "label type on a line stays in main",
			geom:  testLine,
			props: map[string]interface{}{"type_name": "label"},
			want:  Membership{Main: true},
		},
		{
			name:  "icon point",
			geom:  testPoint,
			props: map[string]interface{}{"iconImage": "tree.png"},
			want:  Membership{Main: true, Icon: true},
		},
		{
			name:  "icon path",
			geom:  testLine,
			props: map[string]interface{}{"type_name": "path", "iconImage": "road.png"},
			want:  Membership{PathBase: true, PathOverlay: true, Icon: true},
		},
		{
			name:  "empty icon image",
			geom:  testPoint,
			props: map[string]interface{}{"iconImage": ""},
			want:  Membership{Main: true},
		},
		{
			name:  "false icon image",
			geom:  testPoint,
			props: map[string]interface{}{"iconImage": false},
			want:  Membership{Main: true},
		},
		{
			name:  "zero icon image",
			geom:  testPoint,
			props: map[string]interface{}{"iconImage": 0.0},
			want:  Membership{Main: true},
		},
		{
			name:  "false name on polygon",
			geom:  testPolygon,
			props: map[string]interface{}{"Name": false},
			want:  Membership{Main: true},
		},
		{
			name:  "named polygon",
			geom:  testPolygon,
			props: map[string]interface{}{"Name": "Yard"},
			want:  Membership{Main: true, PolygonLabel: true},
		},
		{
			name:  "named multipolygon has no label",
			geom:  orb.MultiPolygon{testPolygon},
			props: map[string]interface{}{"Name": "Yard"},
			want:  Membership{Main: true},
		},
		{
			name:  "nil geometry",
			geom:  nil,
			props: map[string]interface{}{"type_name": "label"},
			want:  Membership{Main: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(feature(tt.geom, tt.props)))
		})
	}
}

func TestClassify_Nil(t *testing.T) {
	assert.Equal(t, Membership{}, Classify(nil))
}
