package overlay

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeProperties(t *testing.T) {
	props, err := DecodeProperties(map[string]interface{}{
		"type_name":  "label",
		"Name":       "Yard",
		"title":      "Backyard",
		"area":       "23.7",
		"iconSize":   []interface{}{24.0, 48.0},
		"rotation":   45.0,
		"color":      "red",
		"weight":     3.0,
		"dashArray":  "4, 2",
		"unrelated":  map[string]interface{}{"x": 1},
	})
	require.NoError(t, err)

	assert.Equal(t, "label", props.TypeName)
	assert.Equal(t, "Yard", props.Name)
	assert.Equal(t, "Backyard", props.Title)
	require.NotNil(t, props.Area)
	assert.InDelta(t, 23.7, *props.Area, 1e-9)
	assert.Equal(t, []float64{24, 48}, props.IconSize)
	require.NotNil(t, props.Rotation)
	assert.Equal(t, 45.0, *props.Rotation)
	require.NotNil(t, props.Color)
	assert.Equal(t, "red", *props.Color)
	require.NotNil(t, props.Weight)
	assert.Equal(t, 3.0, *props.Weight)
	assert.Nil(t, props.FillColor)
}

func TestDecodeProperties_ExactKeys(t *testing.T) {
	props, err := DecodeProperties(map[string]interface{}{
		"name":      "lowercase",
		"ICONIMAGE": "x.png",
	})
	require.NoError(t, err)

	assert.Empty(t, props.Name)
	assert.False(t, props.HasIcon())
}

func TestDecodeProperties_BadValueKeepsOthers(t *testing.T) {
	props, err := DecodeProperties(map[string]interface{}{
		"area":  "lots",
		"Name":  "Shed",
		"color": "green",
	})
	assert.Error(t, err)

	assert.Nil(t, props.Area)
	assert.Equal(t, "Shed", props.Name)
	require.NotNil(t, props.Color)
	assert.Equal(t, "green", *props.Color)
}

func TestDecodeProperties_Empty(t *testing.T) {
	props, err := DecodeProperties(nil)
	require.NoError(t, err)
	assert.Equal(t, Properties{}, props)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "A", Properties{Name: "A", Title: "B"}.DisplayName())
	assert.Equal(t, "B", Properties{Title: "B"}.DisplayName())
	assert.Equal(t, "", Properties{}.DisplayName())
}

func TestDecodeProperties_FalsyValues(t *testing.T) {
	props, err := DecodeProperties(map[string]interface{}{
		"iconImage": false,
		"Name":      0.0,
		"color":     false,
		"area":      math.NaN(),
		"title":     "Gate",
	})
	require.NoError(t, err)

	assert.False(t, props.HasIcon())
	assert.Empty(t, props.Name)
	assert.Nil(t, props.Color)
	assert.Nil(t, props.Area)
	assert.Equal(t, "Gate", props.DisplayName())
}
