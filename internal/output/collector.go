// internal/output/collector.go - In-memory renderer that records what it is asked to draw
package output

import (
	"context"
	"sync"

	"github.com/paulmach/orb/geojson"

	"github.com/valpere/geojson_overlay/internal/render"
	"github.com/valpere/geojson_overlay/pkg/overlay"
)

// LayerSnapshot is one drawn bucket
type LayerSnapshot struct {
	Bucket  overlay.Bucket  `json:"bucket"`
	Entries []overlay.Entry `json:"entries"`
}

// IconSnapshot is a placed icon marker with the rotation applied to it
type IconSnapshot struct {
	Index          int              `json:"index"`
	Feature        *geojson.Feature `json:"feature"`
	Marker         overlay.Marker   `json:"marker"`
	Rotation       float64          `json:"rotation"`
	RotationOrigin string           `json:"rotation_origin"`
}

// LabelSnapshot is a placed label with its current zoom scaling
type LabelSnapshot struct {
	overlay.Label
	Scale   float64 `json:"scale"`
	Visible bool    `json:"visible"`
}

// Snapshot is a serialisable record of a mounted overlay
type Snapshot struct {
	Name   string          `json:"name,omitempty"`
	Source string          `json:"source"`
	Layers []LayerSnapshot `json:"layers"`
	Icons  []IconSnapshot  `json:"icons"`
	Labels []LabelSnapshot `json:"labels"`

	Stats *overlay.Stats `json:"-"`
}

// FeatureCount returns the number of drawn shapes, icons and labels
func (s *Snapshot) FeatureCount() int {
	count := len(s.Icons) + len(s.Labels)
	for _, layer := range s.Layers {
		count += len(layer.Entries)
	}
	return count
}

// Collector implements render.Renderer by recording every call
type Collector struct {
	mu     sync.Mutex
	source string
	layers []LayerSnapshot
	icons  []*IconSnapshot
	labels []*LabelSnapshot
}

var _ render.Renderer = (*Collector)(nil)

// NewCollector creates an empty collector for the named source
func NewCollector(source string) *Collector {
	return &Collector{source: source}
}

// DrawLayer records a bucket and its entries
func (c *Collector) DrawLayer(ctx context.Context, bucket overlay.Bucket, entries []overlay.Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	copied := make([]overlay.Entry, len(entries))
	copy(copied, entries)
	c.layers = append(c.layers, LayerSnapshot{Bucket: bucket, Entries: copied})
	return nil
}

// PlaceIcon records an icon marker
func (c *Collector) PlaceIcon(ctx context.Context, entry overlay.Entry) (render.RotatableMarker, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	icon := &IconSnapshot{Index: entry.Index, Feature: entry.Feature}
	if entry.Marker != nil {
		icon.Marker = *entry.Marker
	}
	c.icons = append(c.icons, icon)
	return &collectedIcon{mu: &c.mu, icon: icon}, nil
}

// PlaceLabel records a label, initially unscaled and visible
func (c *Collector) PlaceLabel(ctx context.Context, label overlay.Label) (render.LabelMarker, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	snapshot := &LabelSnapshot{Label: label, Scale: 1, Visible: true}
	c.labels = append(c.labels, snapshot)
	return &collectedLabel{mu: &c.mu, label: snapshot}, nil
}

// Clear forgets everything recorded so far
func (c *Collector) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.layers = nil
	c.icons = nil
	c.labels = nil
	return nil
}

// Snapshot returns a copy of what is currently drawn
func (c *Collector) Snapshot() *Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snapshot := &Snapshot{
		Source: c.source,
		Layers: make([]LayerSnapshot, len(c.layers)),
		Icons:  make([]IconSnapshot, 0, len(c.icons)),
		Labels: make([]LabelSnapshot, 0, len(c.labels)),
	}
	copy(snapshot.Layers, c.layers)
	for _, icon := range c.icons {
		snapshot.Icons = append(snapshot.Icons, *icon)
	}
	for _, label := range c.labels {
		snapshot.Labels = append(snapshot.Labels, *label)
	}
	return snapshot
}

type collectedIcon struct {
	mu   *sync.Mutex
	icon *IconSnapshot
}

func (m *collectedIcon) SetRotation(deg float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.icon.Rotation = deg
}

func (m *collectedIcon) SetRotationOrigin(origin string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.icon.RotationOrigin = origin
}

type collectedLabel struct {
	mu    *sync.Mutex
	label *LabelSnapshot
}

func (m *collectedLabel) SetScale(scale float64, visible bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.label.Scale = scale
	m.label.Visible = visible
}
