// internal/render/overlay.go - Overlay lifecycle: load, render, mount, destroy
package render

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/valpere/geojson_overlay/internal"
	"github.com/valpere/geojson_overlay/internal/source"
	"github.com/valpere/geojson_overlay/pkg/geo"
	"github.com/valpere/geojson_overlay/pkg/overlay"
)

// State is the lifecycle state of an Overlay
type State int

const (
	StateCreated State = iota
	StateRendering
	StateMounted
	StateDestroyed
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateRendering:
		return "rendering"
	case StateMounted:
		return "mounted"
	case StateDestroyed:
		return "destroyed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Lifecycle errors
var (
	ErrInvalidState = internal.NewError(internal.ErrorCodeState, "invalid overlay state", nil)
	ErrDestroyed    = internal.NewError(internal.ErrorCodeState, "overlay destroyed", nil)
)

// Overlay loads a document from a data source, runs the pipeline and mounts
// the result on a renderer. All methods are safe for concurrent use.
type Overlay struct {
	mu       sync.Mutex
	state    State
	source   source.DataSource
	renderer Renderer
	opts     overlay.Options

	zoom    float64
	hasZoom bool
	labels  []LabelMarker
	result  *overlay.Result
}

// Option configures an Overlay
type Option func(*Overlay)

// WithZoom sets the zoom level applied to labels when they are mounted
func WithZoom(zoom float64) Option {
	return func(o *Overlay) {
		o.zoom = zoom
		o.hasZoom = true
	}
}

// New creates an overlay in the Created state
func New(src source.DataSource, renderer Renderer, opts overlay.Options, options ...Option) *Overlay {
	o := &Overlay{
		state:    StateCreated,
		source:   src,
		renderer: renderer,
		opts:     opts,
	}
	for _, option := range options {
		option(o)
	}
	return o
}

// State returns the current lifecycle state
func (o *Overlay) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Result returns the pipeline output of the last successful render pass
func (o *Overlay) Result() *overlay.Result {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.result
}

// Render performs the first render pass. It is only valid in the Created state.
func (o *Overlay) Render(ctx context.Context) error {
	if err := o.begin(StateCreated); err != nil {
		return err
	}
	return o.renderPass(ctx)
}

// Update clears the mounted overlay and renders it again from the source
func (o *Overlay) Update(ctx context.Context) error {
	if err := o.begin(StateMounted); err != nil {
		return err
	}
	return o.renderPass(ctx)
}

// SetZoom rescales mounted labels. The zoom is remembered for later passes.
func (o *Overlay) SetZoom(zoom float64) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state == StateDestroyed {
		return ErrDestroyed
	}
	o.zoom = zoom
	o.hasZoom = true

	if o.state == StateMounted {
		o.applyZoom()
	}
	return nil
}

// Destroy clears the renderer and moves to the Destroyed state. A render
// pass in flight abandons its result. Calling Destroy twice is a no-op.
func (o *Overlay) Destroy() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state == StateDestroyed {
		return nil
	}
	previous := o.state
	o.state = StateDestroyed
	o.labels = nil
	o.result = nil

	log.Debug().Str("source", o.source.Origin()).Stringer("from", previous).Msg("Overlay destroyed")

	if err := o.renderer.Clear(); err != nil {
		return internal.NewError(internal.ErrorCodeRender, "failed to clear renderer", err)
	}
	return nil
}

// begin moves from the expected state to Rendering
func (o *Overlay) begin(expected State) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch o.state {
	case StateDestroyed:
		return ErrDestroyed
	case expected:
		o.state = StateRendering
		return nil
	default:
		return fmt.Errorf("%w: cannot start a render pass while %s", ErrInvalidState, o.state)
	}
}

// renderPass loads, transforms and mounts. On failure nothing stays mounted
// and the overlay returns to Created.
func (o *Overlay) renderPass(ctx context.Context) error {
	origin := o.source.Origin()

	doc, err := o.source.Load(ctx)
	if err != nil {
		log.Error().Err(err).Str("source", origin).Msg("Failed to load overlay data")
		return o.fail(err)
	}

	result, err := runPipeline(doc, o.opts)
	if err != nil {
		log.Error().Err(err).Str("source", origin).Msg("Overlay pipeline failed")
		return o.fail(err)
	}
	for _, warning := range result.Warnings {
		log.Warn().Err(warning).Str("source", origin).Msg("Overlay data issue")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state != StateRendering {
		log.Debug().Str("source", origin).Stringer("state", o.state).Msg("Render pass abandoned")
		return ErrDestroyed
	}

	labels, err := o.mount(ctx, result)
	if err != nil {
		log.Error().Err(err).Str("source", origin).Msg("Failed to mount overlay")
		if clearErr := o.renderer.Clear(); clearErr != nil {
			log.Error().Err(clearErr).Msg("Failed to clear renderer")
		}
		o.state = StateCreated
		o.labels = nil
		o.result = nil
		return err
	}

	o.state = StateMounted
	o.labels = labels
	o.result = result
	if o.hasZoom {
		o.applyZoom()
	}

	log.Info().
		Str("source", origin).
		Int("features", result.Stats.Features).
		Int("main", result.Stats.Main).
		Int("paths", result.Stats.PathBase).
		Int("icons", result.Stats.Icon).
		Int("labels", result.Stats.Labels).
		Msg("Overlay mounted")
	return nil
}

// fail clears whatever is on the renderer and returns to Created unless
// the overlay was destroyed meanwhile
func (o *Overlay) fail(err error) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state != StateRendering {
		return err
	}
	if clearErr := o.renderer.Clear(); clearErr != nil {
		log.Error().Err(clearErr).Msg("Failed to clear renderer")
	}
	o.state = StateCreated
	o.labels = nil
	o.result = nil
	return err
}

// mount clears the renderer then draws every bucket, icon and label.
// Must be called with the lock held.
func (o *Overlay) mount(ctx context.Context, result *overlay.Result) (labels []LabelMarker, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = internal.NewError(internal.ErrorCodeRender, fmt.Sprintf("renderer panicked: %v", r), nil)
		}
	}()

	if err := o.renderer.Clear(); err != nil {
		return nil, internal.NewError(internal.ErrorCodeRender, "failed to clear renderer", err)
	}

	for _, bucket := range shapeBuckets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		entries := shapeEntries(bucket, result.Bucket(bucket))
		if len(entries) == 0 {
			continue
		}
		if err := o.renderer.DrawLayer(ctx, bucket, entries); err != nil {
			return nil, internal.NewError(internal.ErrorCodeRender, fmt.Sprintf("failed to draw %s layer", bucket), err)
		}
	}

	for _, entry := range result.Icon {
		if entry.Marker == nil {
			continue
		}
		marker, err := o.renderer.PlaceIcon(ctx, entry)
		if err != nil {
			return nil, internal.NewError(internal.ErrorCodeRender, fmt.Sprintf("failed to place icon for feature %d", entry.Index), err)
		}
		marker.SetRotationOrigin(entry.Marker.RotationOrigin)
		marker.SetRotation(entry.Marker.Rotation)
	}

	labels = make([]LabelMarker, 0, len(result.Labels))
	for _, label := range result.Labels {
		marker, err := o.renderer.PlaceLabel(ctx, label)
		if err != nil {
			return nil, internal.NewError(internal.ErrorCodeRender, fmt.Sprintf("failed to place label %q", label.Text), err)
		}
		labels = append(labels, marker)
	}

	return labels, nil
}

// applyZoom rescales cached label markers. Must be called with the lock held.
func (o *Overlay) applyZoom() {
	scale, visible := overlay.LabelScale(o.zoom)
	for _, label := range o.labels {
		label.SetScale(scale, visible)
	}
}

// shapeEntries drops icon entries that are drawn as markers instead of shapes
func shapeEntries(bucket overlay.Bucket, entries []overlay.Entry) []overlay.Entry {
	if bucket != overlay.BucketIcon {
		return entries
	}
	shapes := make([]overlay.Entry, 0, len(entries))
	for _, entry := range entries {
		if entry.Marker == nil {
			shapes = append(shapes, entry)
		}
	}
	return shapes
}

// runPipeline turns a pipeline panic into an error
func runPipeline(doc *geo.Document, opts overlay.Options) (result *overlay.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = internal.NewError(internal.ErrorCodeRender, fmt.Sprintf("render pipeline panicked: %v", r), nil)
		}
	}()
	return overlay.Render(doc, opts), nil
}
