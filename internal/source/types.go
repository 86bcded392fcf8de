// internal/source/types.go - GeoJSON data source types
package source

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"

	"github.com/valpere/geojson_overlay/internal"
	"github.com/valpere/geojson_overlay/pkg/geo"
)

// ErrNoData is returned when no url, file or inline document is configured
var ErrNoData = errors.New("no GeoJSON data provided")

// DataSource produces a GeoJSON document or fails with a LOAD_ERROR
type DataSource interface {
	Load(ctx context.Context) (*geo.Document, error)
	// Origin describes where the data comes from, for logs
	Origin() string
}

// Response is the raw payload read by a source before decoding
type Response struct {
	Origin     string        `json:"origin"`
	Data       []byte        `json:"-"`
	Headers    http.Header   `json:"headers,omitempty"`
	StatusCode int           `json:"status_code,omitempty"`
	Size       int           `json:"size"`
	Compressed bool          `json:"compressed"`
	FetchTime  time.Duration `json:"fetch_time"`
}

// decodeResponse parses the payload, logging the load and any malformed geometries
func decodeResponse(resp *Response) (*geo.Document, error) {
	doc, err := geo.Decode(resp.Data)
	if err != nil {
		return nil, loadError(resp.Origin, internal.NewError(internal.ErrorCodeValidation, "invalid GeoJSON", err))
	}

	for _, malformed := range doc.Malformed {
		log.Warn().
			Str("source", resp.Origin).
			Int("feature", malformed.Index).
			Str("geometry_type", malformed.Type).
			Msg("Unsupported geometry passed through without coordinates")
	}

	log.Info().
		Str("source", resp.Origin).
		Str("size", humanize.Bytes(uint64(resp.Size))).
		Bool("compressed", resp.Compressed).
		Int("features", doc.FeatureCount()).
		Dur("fetch_time", resp.FetchTime).
		Msg("GeoJSON loaded")

	return doc, nil
}

// loadError wraps a failure as a LOAD_ERROR for the given origin
func loadError(origin string, cause error) error {
	return internal.NewError(internal.ErrorCodeLoad, "failed to load GeoJSON from "+origin, cause)
}

// IsLoadError reports whether err is a data source failure
func IsLoadError(err error) bool {
	return internal.HasCode(err, internal.ErrorCodeLoad)
}
