package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valpere/geojson_overlay/internal/output"
)

func TestCollectInputs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.geojson", "b.json", "c.GeoJSON.gz", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.geojson"), 0755))

	single := filepath.Join(t.TempDir(), "single.txt")
	require.NoError(t, os.WriteFile(single, []byte("{}"), 0644))

	files, err := collectInputs([]string{dir, single})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.geojson"),
		filepath.Join(dir, "b.json"),
		filepath.Join(dir, "c.GeoJSON.gz"),
		single,
	}, files)

	_, err = collectInputs([]string{filepath.Join(dir, "missing.geojson")})
	assert.Error(t, err)
}

func TestIsGeoJSONFile(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"site.geojson", true},
		{"site.json", true},
		{"site.geojson.gz", true},
		{"SITE.JSON", true},
		{"site.gz", false},
		{"site.yaml", false},
	}

	for _, tt := range tests {
		if got := isGeoJSONFile(tt.name); got != tt.want {
			t.Errorf("isGeoJSONFile(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestNewBatchWriter(t *testing.T) {
	config := &output.WriterConfig{Format: output.FormatGeoJSON}
	dir := t.TempDir()

	writer, destination, err := newBatchWriter(config, dir, "")
	require.NoError(t, err)
	assert.IsType(t, &output.MultiFileWriter{}, writer)
	assert.Equal(t, dir, destination)

	merged := filepath.Join(dir, "site.geojson")
	writer, destination, err = newBatchWriter(config, dir, merged)
	require.NoError(t, err)
	assert.IsType(t, &output.MergeWriter{}, writer)
	assert.Equal(t, merged, destination)
	require.NoError(t, writer.Close())
}
