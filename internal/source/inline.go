// internal/source/inline.go - Configured in-memory GeoJSON
package source

import (
	"context"

	"github.com/valpere/geojson_overlay/pkg/geo"
)

const inlineOrigin = "inline"

// InlineSource serves a GeoJSON document held in configuration
type InlineSource struct {
	data []byte
}

// NewInlineSource creates a source over raw GeoJSON text
func NewInlineSource(data []byte) *InlineSource {
	return &InlineSource{data: data}
}

// Origin returns "inline"
func (s *InlineSource) Origin() string {
	return inlineOrigin
}

// Load decodes the configured document
func (s *InlineSource) Load(ctx context.Context) (*geo.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, loadError(inlineOrigin, err)
	}
	if len(s.data) == 0 {
		return nil, loadError(inlineOrigin, ErrNoData)
	}
	return decodeResponse(&Response{Origin: inlineOrigin, Data: s.data, Size: len(s.data)})
}

// DocumentSource serves an already decoded document, such as a request body
type DocumentSource struct {
	origin string
	doc    *geo.Document
}

// NewDocumentSource wraps doc as a data source named origin
func NewDocumentSource(origin string, doc *geo.Document) *DocumentSource {
	return &DocumentSource{origin: origin, doc: doc}
}

// Origin returns the name given at construction
func (s *DocumentSource) Origin() string {
	return s.origin
}

// Load returns the wrapped document
func (s *DocumentSource) Load(ctx context.Context) (*geo.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, loadError(s.origin, err)
	}
	if s.doc == nil {
		return nil, loadError(s.origin, ErrNoData)
	}
	return s.doc, nil
}
