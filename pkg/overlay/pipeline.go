// pkg/overlay/pipeline.go - Transform, classify and style a document into render buckets
package overlay

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/valpere/geojson_overlay/pkg/geo"
)

// Bucket names a group of features that share a render treatment.
type Bucket string

// Render buckets
const (
	BucketMain        Bucket = "main"
	BucketPathBase    Bucket = "path_base"
	BucketPathOverlay Bucket = "path_overlay"
	BucketIcon        Bucket = "icon"
	BucketLabel       Bucket = "label"
)

// Buckets lists every bucket in mount order.
var Buckets = []Bucket{BucketMain, BucketPathBase, BucketPathOverlay, BucketIcon, BucketLabel}

// Options configures a render pass.
type Options struct {
	OffsetLat         float64 `json:"offset_lat" mapstructure:"offset_lat"`
	OffsetLon         float64 `json:"offset_lon" mapstructure:"offset_lon"`
	RotationDeg       float64 `json:"rotation_deg" mapstructure:"rotation_deg"`
	RotationOriginLat float64 `json:"rotation_origin_lat" mapstructure:"rotation_origin_lat"`
	RotationOriginLon float64 `json:"rotation_origin_lon" mapstructure:"rotation_origin_lon"`

	// Style holds the configured default style attributes.
	Style Style `json:"style" mapstructure:",squash"`
}

// Entry is one feature placed in a bucket.
type Entry struct {
	Index   int              `json:"index" yaml:"index"`
	Feature *geojson.Feature `json:"feature" yaml:"-"`
	Style   *Style           `json:"style" yaml:"style"`
	Marker  *Marker          `json:"marker,omitempty" yaml:"marker,omitempty"`
}

// Stats counts what a render pass produced.
type Stats struct {
	Features       int `json:"features" yaml:"features"`
	Main           int `json:"main" yaml:"main"`
	PathBase       int `json:"path_base" yaml:"path_base"`
	PathOverlay    int `json:"path_overlay" yaml:"path_overlay"`
	Icon           int `json:"icon" yaml:"icon"`
	Labels         int `json:"labels" yaml:"labels"`
	Malformed      int `json:"malformed" yaml:"malformed"`
	PropertyErrors int `json:"property_errors" yaml:"property_errors"`
}

// Result is the output of a render pass.
type Result struct {
	Document    *geo.Document `json:"-" yaml:"-"`
	Main        []Entry       `json:"main" yaml:"main"`
	PathBase    []Entry       `json:"path_base" yaml:"path_base"`
	PathOverlay []Entry       `json:"path_overlay" yaml:"path_overlay"`
	Icon        []Entry       `json:"icon" yaml:"icon"`
	Label       []Entry       `json:"label" yaml:"label"`
	Labels      []Label       `json:"labels" yaml:"labels"`
	Stats       Stats         `json:"stats" yaml:"stats"`

	// Warnings carries non-fatal problems: malformed geometries and
	// property values that could not be decoded.
	Warnings []error `json:"-" yaml:"-"`
}

// Bucket returns the entries of the named bucket.
func (r *Result) Bucket(b Bucket) []Entry {
	switch b {
	case BucketMain:
		return r.Main
	case BucketPathBase:
		return r.PathBase
	case BucketPathOverlay:
		return r.PathOverlay
	case BucketIcon:
		return r.Icon
	case BucketLabel:
		return r.Label
	default:
		return nil
	}
}

// Transform applies the offset and then the rotation. Each step is skipped
// when its parameters are zero. The input document is never modified.
func Transform(doc *geo.Document, opts Options) *geo.Document {
	if doc == nil {
		return nil
	}
	out := doc
	if opts.OffsetLat != 0 || opts.OffsetLon != 0 {
		out = geo.Offset(out, opts.OffsetLat, opts.OffsetLon)
	}
	if opts.RotationDeg != 0 {
		out = geo.Rotate(out, opts.RotationDeg, opts.RotationOriginLat, opts.RotationOriginLon)
	}
	if out == doc {
		out = doc.Clone()
	}
	return out
}

// Render transforms the document and sorts every feature, in document order,
// into its buckets with resolved styles, markers and labels.
func Render(doc *geo.Document, opts Options) *Result {
	result := &Result{}
	if doc == nil {
		return result
	}

	transformed := Transform(doc, opts)
	result.Document = transformed
	for _, malformed := range transformed.Malformed {
		result.Warnings = append(result.Warnings, malformed)
	}
	result.Stats.Malformed = len(transformed.Malformed)

	for i, f := range transformed.Features() {
		if f == nil {
			continue
		}
		result.Stats.Features++

		props, err := DecodeProperties(f.Properties)
		if err != nil {
			result.Stats.PropertyErrors++
			result.Warnings = append(result.Warnings, err)
		}
		result.add(i, f, props, opts.Style)
	}

	result.Stats.Main = len(result.Main)
	result.Stats.PathBase = len(result.PathBase)
	result.Stats.PathOverlay = len(result.PathOverlay)
	result.Stats.Icon = len(result.Icon)
	result.Stats.Labels = len(result.Labels)
	return result
}

func (r *Result) add(index int, f *geojson.Feature, props Properties, defaults Style) {
	m := classify(f.Geometry, props)
	point, isPoint := f.Geometry.(orb.Point)

	if m.Main {
		entry := Entry{Index: index, Feature: f, Style: resolveStyle(f.Geometry, props, defaults)}
		if isPoint {
			entry.Marker = HiddenCircle(point)
		}
		r.Main = append(r.Main, entry)
	}

	if m.PathBase {
		r.PathBase = append(r.PathBase, Entry{Index: index, Feature: f, Style: resolveStyle(f.Geometry, props, defaults)})
	}
	if m.PathOverlay {
		r.PathOverlay = append(r.PathOverlay, Entry{Index: index, Feature: f, Style: OverlayStyle(props)})
	}

	if m.Icon {
		entry := Entry{Index: index, Feature: f}
		if isPoint {
			entry.Marker = IconMarker(point, props)
		} else {
			entry.Style = resolveStyle(f.Geometry, props, defaults)
		}
		r.Icon = append(r.Icon, entry)
	}

	if m.Label {
		r.Label = append(r.Label, Entry{Index: index, Feature: f})
		if label, ok := PointLabel(f.Geometry, props); ok {
			label.FeatureIndex = index
			r.Labels = append(r.Labels, label)
		}
	}
	if m.PolygonLabel {
		if label, ok := PolygonLabel(f.Geometry, props); ok {
			label.FeatureIndex = index
			r.Labels = append(r.Labels, label)
		}
	}
}
