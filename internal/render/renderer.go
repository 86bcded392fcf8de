// internal/render/renderer.go - Capabilities the overlay needs from a map renderer
package render

import (
	"context"

	"github.com/valpere/geojson_overlay/pkg/overlay"
)

// Renderer draws overlay buckets. Implementations own the actual map view.
type Renderer interface {
	// DrawLayer draws the features of one bucket with their resolved styles
	DrawLayer(ctx context.Context, bucket overlay.Bucket, entries []overlay.Entry) error
	// PlaceIcon places the icon marker of a point entry
	PlaceIcon(ctx context.Context, entry overlay.Entry) (RotatableMarker, error)
	// PlaceLabel places a text label
	PlaceLabel(ctx context.Context, label overlay.Label) (LabelMarker, error)
	// Clear removes everything previously drawn
	Clear() error
}

// RotatableMarker is an icon marker that can be rotated about an origin
type RotatableMarker interface {
	SetRotation(deg float64)
	SetRotationOrigin(origin string)
}

// LabelMarker is a placed label whose size and visibility follow the zoom
type LabelMarker interface {
	SetScale(scale float64, visible bool)
}

// shapeBuckets are drawn through DrawLayer, in this order
var shapeBuckets = []overlay.Bucket{
	overlay.BucketMain,
	overlay.BucketPathBase,
	overlay.BucketPathOverlay,
	overlay.BucketIcon,
}
