// internal/server/handlers.go - HTTP API handlers
package server

import (
	"context"
	"encoding/json"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog/log"

	"github.com/valpere/geojson_overlay/internal/output"
	"github.com/valpere/geojson_overlay/internal/render"
	"github.com/valpere/geojson_overlay/internal/source"
	"github.com/valpere/geojson_overlay/pkg/geo"
	"github.com/valpere/geojson_overlay/pkg/overlay"
)

// requestOrigin names documents posted to the render endpoint
const requestOrigin = "request"

// HealthOutput is the response of the health check
type HealthOutput struct {
	Body struct {
		Status  string `json:"status" doc:"Always ok while the server is up"`
		Version string `json:"version" doc:"Server version"`
	}
}

// Health reports that the server is up
func (s *Server) Health(ctx context.Context, input *struct{}) (*HealthOutput, error) {
	resp := &HealthOutput{}
	resp.Body.Status = "ok"
	resp.Body.Version = s.version
	return resp, nil
}

// RenderOptions overrides the configured transform. Omitted fields keep
// their configured values.
type RenderOptions struct {
	OffsetLat         *float64 `json:"offset_lat,omitempty" doc:"Northward offset in metres"`
	OffsetLon         *float64 `json:"offset_lon,omitempty" doc:"Eastward offset in metres"`
	RotationDeg       *float64 `json:"rotation_deg,omitempty" doc:"Counter-clockwise rotation in degrees"`
	RotationOriginLat *float64 `json:"rotation_origin_lat,omitempty" doc:"Latitude of the rotation origin"`
	RotationOriginLon *float64 `json:"rotation_origin_lon,omitempty" doc:"Longitude of the rotation origin"`
}

// apply copies the set fields onto opts
func (o *RenderOptions) apply(opts *overlay.Options) {
	if o == nil {
		return
	}
	if o.OffsetLat != nil {
		opts.OffsetLat = *o.OffsetLat
	}
	if o.OffsetLon != nil {
		opts.OffsetLon = *o.OffsetLon
	}
	if o.RotationDeg != nil {
		opts.RotationDeg = *o.RotationDeg
	}
	if o.RotationOriginLat != nil {
		opts.RotationOriginLat = *o.RotationOriginLat
	}
	if o.RotationOriginLon != nil {
		opts.RotationOriginLon = *o.RotationOriginLon
	}
}

// RenderInput is the body of a render request
type RenderInput struct {
	Body struct {
		Document map[string]any `json:"document" required:"true" doc:"GeoJSON FeatureCollection, Feature or geometry"`
		Options  *RenderOptions `json:"options,omitempty" doc:"Transform overrides"`
		Zoom     *float64       `json:"zoom,omitempty" minimum:"0" doc:"Zoom level used to scale labels"`
	}
}

// RenderBody is a rendered overlay
type RenderBody struct {
	Snapshot *output.Snapshot `json:"snapshot" doc:"Everything the overlay drew"`
	Stats    overlay.Stats    `json:"stats" doc:"Bucket counts"`
	Warnings []string         `json:"warnings,omitempty" doc:"Malformed geometries and undecodable properties"`
}

// RenderOutput is the response of the render endpoints
type RenderOutput struct {
	Body RenderBody
}

// Render renders a posted document
func (s *Server) Render(ctx context.Context, input *RenderInput) (*RenderOutput, error) {
	data, err := json.Marshal(input.Body.Document)
	if err != nil {
		return nil, huma.Error422UnprocessableEntity("Document is not valid JSON", err)
	}
	doc, err := geo.Decode(data)
	if err != nil {
		return nil, huma.Error422UnprocessableEntity("Document is not valid GeoJSON", err)
	}

	opts := s.config.Options()
	input.Body.Options.apply(&opts)

	return s.render(ctx, source.NewDocumentSource(requestOrigin, doc), opts, input.Body.Zoom)
}

// OverlayInput selects the zoom applied to the configured overlay
type OverlayInput struct {
	Zoom float64 `query:"zoom" minimum:"0" doc:"Zoom level used to scale labels; 0 leaves them unscaled"`
}

// Overlay renders the configured data source
func (s *Server) Overlay(ctx context.Context, input *OverlayInput) (*RenderOutput, error) {
	src, err := s.sources.CreateSource()
	if err != nil {
		return nil, huma.Error502BadGateway("No overlay data available", err)
	}

	var zoom *float64
	if input.Zoom > 0 {
		zoom = &input.Zoom
	}
	return s.render(ctx, src, s.config.Options(), zoom)
}

// render mounts src on a collector and returns what was drawn
func (s *Server) render(ctx context.Context, src source.DataSource, opts overlay.Options, zoom *float64) (*RenderOutput, error) {
	collector := output.NewCollector(src.Origin())

	var options []render.Option
	if zoom != nil {
		options = append(options, render.WithZoom(*zoom))
	}
	o := render.New(src, collector, opts, options...)
	defer func() {
		if err := o.Destroy(); err != nil {
			log.Debug().Err(err).Msg("Failed to destroy request overlay")
		}
	}()

	if err := o.Render(ctx); err != nil {
		if source.IsLoadError(err) {
			return nil, huma.Error502BadGateway("Failed to load overlay data", err)
		}
		return nil, huma.Error500InternalServerError("Failed to render overlay", err)
	}

	result := o.Result()
	snapshot := collector.Snapshot()
	snapshot.Stats = &result.Stats

	resp := &RenderOutput{}
	resp.Body.Snapshot = snapshot
	resp.Body.Stats = result.Stats
	for _, warning := range result.Warnings {
		resp.Body.Warnings = append(resp.Body.Warnings, warning.Error())
	}
	return resp, nil
}

// LabelScaleInput is the zoom to compute a label scale for
type LabelScaleInput struct {
	Zoom float64 `query:"zoom" required:"true" doc:"Map zoom level"`
}

// LabelScaleOutput is the label scale at a zoom level
type LabelScaleOutput struct {
	Body struct {
		Zoom    float64 `json:"zoom" doc:"Requested zoom level"`
		Scale   float64 `json:"scale" doc:"Label scale factor, clamped to [0.5, 2]"`
		Visible bool    `json:"visible" doc:"Whether labels are shown at this zoom"`
	}
}

// LabelScale returns the label scale and visibility for a zoom level
func (s *Server) LabelScale(ctx context.Context, input *LabelScaleInput) (*LabelScaleOutput, error) {
	resp := &LabelScaleOutput{}
	resp.Body.Zoom = input.Zoom
	resp.Body.Scale, resp.Body.Visible = overlay.LabelScale(input.Zoom)
	return resp, nil
}
