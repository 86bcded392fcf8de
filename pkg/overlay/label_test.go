package overlay

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
)

func TestLabelText(t *testing.T) {
	tests := []struct {
		name   string
		label  string
		area   *float64
		want   string
		wantOK bool
	}{
		{"rounds up", "Yard", Ptr(23.7), "Yard 24m2", true},
		{"whole number", "Shed", Ptr(12.0), "Shed 12m2", true},
		{"negative zero", "Pit", Ptr(-0.4), "Pit 0m2", true},
		{"large area", "Field", Ptr(1234567.2), "Field 1234568m2", true},
		{"missing area", "Gate", nil, "Gate", true},
		{"nan area", "Gate", Ptr(math.NaN()), "Gate", true},
		{"missing name suppresses label", "", Ptr(5.0), "", false},
		{"nothing at all suppresses label", "", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := LabelText(tt.label, tt.area)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPolygonLabel(t *testing.T) {
	label, ok := PolygonLabel(testPolygon, Properties{Name: "Yard", Area: Ptr(23.7)})
	assert.True(t, ok)
	assert.Equal(t, "Yard 24m2", label.Text)
	assert.Equal(t, orb.Point{2, 1}, label.Anchor)
	assert.Equal(t, LabelPolygon, label.Kind)
	assert.Equal(t, LabelClassName, label.ClassName)
	assert.Equal(t, LabelFontSize, label.FontSize)

	_, ok = PolygonLabel(testPolygon, Properties{Title: "only a title"})
	assert.False(t, ok)

	_, ok = PolygonLabel(orb.Polygon{}, Properties{Name: "Empty"})
	assert.False(t, ok)
}

func TestPointLabel(t *testing.T) {
	label, ok := PointLabel(testPoint, Properties{Title: "Gate", Area: Ptr(2.1)})
	assert.True(t, ok)
	assert.Equal(t, "Gate 3m2", label.Text)
	assert.Equal(t, testPoint, label.Anchor)
	assert.Equal(t, LabelPoint, label.Kind)

	_, ok = PointLabel(testLine, Properties{Name: "Gate"})
	assert.False(t, ok)
}

func TestLabelScale(t *testing.T) {
	tests := []struct {
		zoom        float64
		wantScale   float64
		wantVisible bool
	}{
		{5, 0.5, false},
		{10, 0.5, false},
		{11, 0.5, true},
		{12.5, 0.5, true},
		{15, 1, true},
		{18, 1.6, true},
		{20, 2, true},
		{24, 2, true},
	}

	for _, tt := range tests {
		scale, visible := LabelScale(tt.zoom)
		assert.InDelta(t, tt.wantScale, scale, 1e-9, "zoom %v", tt.zoom)
		assert.Equal(t, tt.wantVisible, visible, "zoom %v", tt.zoom)
	}
}
