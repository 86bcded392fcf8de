package output

import (
	"context"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valpere/geojson_overlay/internal/render"
	"github.com/valpere/geojson_overlay/pkg/geo"
	"github.com/valpere/geojson_overlay/pkg/overlay"
)

type staticSource struct {
	doc *geo.Document
}

func (s staticSource) Origin() string { return "static.geojson" }

func (s staticSource) Load(ctx context.Context) (*geo.Document, error) { return s.doc, nil }

func sampleDocument() *geo.Document {
	fc := geojson.NewFeatureCollection()

	yard := geojson.NewFeature(orb.Polygon{{{0, 0}, {2, 0}, {2, 2}, {0, 2}, {0, 0}}})
	yard.Properties["Name"] = "Yard"
	yard.Properties["area"] = 23.7
	yard.Properties["fillColor"] = "#00ff00"
	fc.Append(yard)

	road := geojson.NewFeature(orb.LineString{{0, 0}, {2, 2}})
	road.Properties["type_name"] = "path"
	fc.Append(road)

	tree := geojson.NewFeature(orb.Point{1, 1})
	tree.Properties["iconImage"] = "tree.png"
	tree.Properties["rotation"] = 45.0
	fc.Append(tree)

	return geo.NewCollectionDocument(fc)
}

// renderSnapshot mounts the sample document on a collector
func renderSnapshot(t *testing.T, zoom float64) *Snapshot {
	t.Helper()
	collector := NewCollector("static.geojson")
	o := render.New(staticSource{doc: sampleDocument()}, collector, overlay.Options{}, render.WithZoom(zoom))
	require.NoError(t, o.Render(context.Background()))

	snapshot := collector.Snapshot()
	snapshot.Stats = &o.Result().Stats
	return snapshot
}

func TestCollector_RecordsMount(t *testing.T) {
	snapshot := renderSnapshot(t, 15)

	buckets := make([]overlay.Bucket, 0, len(snapshot.Layers))
	for _, layer := range snapshot.Layers {
		buckets = append(buckets, layer.Bucket)
	}
	assert.Equal(t, []overlay.Bucket{overlay.BucketMain, overlay.BucketPathBase, overlay.BucketPathOverlay}, buckets)

	require.Len(t, snapshot.Icons, 1)
	assert.Equal(t, 45.0, snapshot.Icons[0].Rotation)
	assert.Equal(t, "center", snapshot.Icons[0].RotationOrigin)
	assert.Equal(t, "tree.png", snapshot.Icons[0].Marker.IconURL)

	require.Len(t, snapshot.Labels, 1)
	assert.Equal(t, "Yard 24m2", snapshot.Labels[0].Text)
	assert.Equal(t, 1.0, snapshot.Labels[0].Scale)
	assert.True(t, snapshot.Labels[0].Visible)

	assert.Equal(t, 2+1+1+1+1, snapshot.FeatureCount())
}

func TestCollector_SnapshotIsACopy(t *testing.T) {
	collector := NewCollector("x")
	marker, err := collector.PlaceLabel(context.Background(), overlay.Label{Text: "A"})
	require.NoError(t, err)

	before := collector.Snapshot()
	marker.SetScale(2, false)
	after := collector.Snapshot()

	assert.Equal(t, 1.0, before.Labels[0].Scale)
	assert.Equal(t, 2.0, after.Labels[0].Scale)
	assert.False(t, after.Labels[0].Visible)
}

func TestCollector_Clear(t *testing.T) {
	collector := NewCollector("x")
	require.NoError(t, collector.DrawLayer(context.Background(), overlay.BucketMain, []overlay.Entry{{Index: 0}}))
	_, err := collector.PlaceIcon(context.Background(), overlay.Entry{Index: 1})
	require.NoError(t, err)

	require.NoError(t, collector.Clear())
	snapshot := collector.Snapshot()
	assert.Empty(t, snapshot.Layers)
	assert.Empty(t, snapshot.Icons)
	assert.Zero(t, snapshot.FeatureCount())
}
