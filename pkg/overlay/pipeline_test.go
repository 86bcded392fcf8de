package overlay

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valpere/geojson_overlay/pkg/geo"
)

func sampleCollection() *geo.Document {
	fc := geojson.NewFeatureCollection()
	fc.Append(feature(testPolygon, map[string]interface{}{"Name": "Yard", "area": 23.7, "color": "red"}))
	fc.Append(feature(testLine, map[string]interface{}{"type_name": "path", "road_center_color": "#ffffff"}))
	fc.Append(feature(testPoint, map[string]interface{}{"type_name": "label", "title": "Gate", "area": 1.2}))
	fc.Append(feature(testPoint, map[string]interface{}{"iconImage": "tree.png", "rotation": 30.0}))
	fc.Append(feature(orb.Point{1, 1}, nil))
	return geo.NewCollectionDocument(fc)
}

func TestRender_Buckets(t *testing.T) {
	result := Render(sampleCollection(), Options{Style: Style{Color: Ptr("blue")}})

	indexes := func(entries []Entry) []int {
		out := make([]int, 0, len(entries))
		for _, e := range entries {
			out = append(out, e.Index)
		}
		return out
	}

	assert.Equal(t, []int{0, 3, 4}, indexes(result.Main))
	assert.Equal(t, []int{1}, indexes(result.PathBase))
	assert.Equal(t, []int{1}, indexes(result.PathOverlay))
	assert.Equal(t, []int{3}, indexes(result.Icon))
	assert.Equal(t, []int{2}, indexes(result.Label))

	require.Len(t, result.Labels, 2)
	assert.Equal(t, "Yard 24m2", result.Labels[0].Text)
	assert.Equal(t, "Gate 2m2", result.Labels[1].Text)

	assert.Equal(t, Stats{Features: 5, Main: 3, PathBase: 1, PathOverlay: 1, Icon: 1, Labels: 2}, result.Stats)
	assert.Empty(t, result.Warnings)
}

func TestRender_Styles(t *testing.T) {
	result := Render(sampleCollection(), Options{Style: Style{Color: Ptr("blue")}})

	assert.Equal(t, "red", *result.Main[0].Style.Color)
	assert.Nil(t, result.Main[1].Style, "icon point has no main style")
	assert.Equal(t, "blue", *result.Main[2].Style.Color)

	assert.Equal(t, "blue", *result.PathBase[0].Style.Color)
	assert.Equal(t, "#ffffff", *result.PathOverlay[0].Style.Color)
	assert.Equal(t, "8, 8", *result.PathOverlay[0].Style.DashArray)
}

func TestRender_Markers(t *testing.T) {
	result := Render(sampleCollection(), Options{})

	assert.Nil(t, result.Main[0].Marker, "polygons have no marker")
	require.NotNil(t, result.Main[1].Marker)
	assert.Equal(t, MarkerCircle, result.Main[1].Marker.Kind)

	require.NotNil(t, result.Icon[0].Marker)
	assert.Equal(t, MarkerIcon, result.Icon[0].Marker.Kind)
	assert.Equal(t, 30.0, result.Icon[0].Marker.Rotation)
}

func TestRender_PathNeverInMain(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	for i := 0; i < 4; i++ {
		fc.Append(feature(testLine, map[string]interface{}{"type_name": "path"}))
	}
	result := Render(geo.NewCollectionDocument(fc), Options{})

	assert.Empty(t, result.Main)
	assert.Len(t, result.PathBase, 4)
	assert.Len(t, result.PathOverlay, 4)
}

func TestRender_AppliesTransforms(t *testing.T) {
	doc := geo.NewFeatureDocument(feature(orb.Point{10, 50}, nil))
	result := Render(doc, Options{OffsetLat: 111320})

	require.Len(t, result.Main, 1)
	assert.Equal(t, orb.Point{10, 51}, result.Main[0].Feature.Geometry)
	assert.Equal(t, orb.Point{10, 50}, doc.Feature.Geometry, "input is unchanged")
}

func TestRender_Warnings(t *testing.T) {
	doc, err := geo.Decode([]byte(`{"type":"FeatureCollection","features":[
		{"type":"Feature","geometry":{"type":"Circle","coordinates":[0,0]},"properties":{"area":"big","Name":"X"}}
	]}`))
	require.NoError(t, err)

	result := Render(doc, Options{})
	assert.Equal(t, 1, result.Stats.Malformed)
	assert.Equal(t, 1, result.Stats.PropertyErrors)
	assert.Len(t, result.Warnings, 2)
	assert.Len(t, result.Main, 1)
}

func TestRender_Nil(t *testing.T) {
	result := Render(nil, Options{})
	require.NotNil(t, result)
	assert.Empty(t, result.Main)
	assert.Nil(t, Transform(nil, Options{}))
}

func TestTransform_Order(t *testing.T) {
	doc := geo.NewFeatureDocument(feature(orb.Point{0, 0}, nil))
	opts := Options{OffsetLon: 111320, RotationDeg: 90}

	got := Transform(doc, opts).Feature.Geometry.(orb.Point)

	// offset first moves the point east, rotation then swings it north
	assert.InDelta(t, 0, got[0], 1e-9)
	assert.InDelta(t, 1, got[1], 1e-3)
}

func TestResult_Bucket(t *testing.T) {
	result := Render(sampleCollection(), Options{})
	for _, b := range Buckets {
		assert.Len(t, result.Bucket(b), len(resultField(result, b)))
	}
	assert.Nil(t, result.Bucket("unknown"))
}

func resultField(r *Result, b Bucket) []Entry {
	return map[Bucket][]Entry{
		BucketMain:        r.Main,
		BucketPathBase:    r.PathBase,
		BucketPathOverlay: r.PathOverlay,
		BucketIcon:        r.Icon,
		BucketLabel:       r.Label,
	}[b]
}
