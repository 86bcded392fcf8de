package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valpere/geojson_overlay/internal/config"
)

const yardGeoJSON = `{
	"type": "FeatureCollection",
	"features": [
		{"type": "Feature", "properties": {"Name": "Yard", "area": 23.7, "color": "red"},
		 "geometry": {"type": "Polygon", "coordinates": [[[10,50],[10.002,50],[10.002,50.002],[10,50.002],[10,50]]]}},
		{"type": "Feature", "properties": {"type_name": "path"},
		 "geometry": {"type": "LineString", "coordinates": [[10,50],[10.001,50.001]]}}
	]
}`

func newTestServer(t *testing.T, settings map[string]interface{}) *Server {
	t.Helper()
	v := viper.New()
	for key, value := range settings {
		v.Set(key, value)
	}
	cfg, err := config.LoadFrom(v)
	require.NoError(t, err)
	return New(cfg, "test")
}

func do(t *testing.T, s *Server, method, target, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	var decoded map[string]interface{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded), rec.Body.String())
	}
	return rec, decoded
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)

	rec, body := do(t, s, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "test", body["version"])
}

func TestOpenAPI_RotationDirection(t *testing.T) {
	s := newTestServer(t, nil)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Counter-clockwise rotation in degrees")
}

func TestRender(t *testing.T) {
	s := newTestServer(t, nil)

	rec, body := do(t, s, http.MethodPost, "/api/v1/render",
		`{"document": `+yardGeoJSON+`, "options": {"offset_lat": 111.32}, "zoom": 12}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	stats := body["stats"].(map[string]interface{})
	assert.Equal(t, 2.0, stats["features"])
	assert.Equal(t, 1.0, stats["main"])
	assert.Equal(t, 1.0, stats["path_base"])
	assert.Equal(t, 1.0, stats["labels"])

	snapshot := body["snapshot"].(map[string]interface{})
	assert.Equal(t, "request", snapshot["source"])

	labels := snapshot["labels"].([]interface{})
	require.Len(t, labels, 1)
	label := labels[0].(map[string]interface{})
	assert.Equal(t, "Yard 24m2", label["text"])
	assert.Equal(t, 0.5, label["scale"])
	assert.Equal(t, true, label["visible"])

	anchor := label["anchor"].([]interface{})
	assert.InDelta(t, 50.002, anchor[1].(float64), 1e-9)
}

func TestRender_UsesConfiguredOptions(t *testing.T) {
	s := newTestServer(t, map[string]interface{}{"overlay.offset_lat": 111320.0})

	rec, body := do(t, s, http.MethodPost, "/api/v1/render", `{"document": `+yardGeoJSON+`}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	snapshot := body["snapshot"].(map[string]interface{})
	label := snapshot["labels"].([]interface{})[0].(map[string]interface{})
	anchor := label["anchor"].([]interface{})
	assert.InDelta(t, 51.001, anchor[1].(float64), 1e-9)
}

func TestRender_InvalidDocument(t *testing.T) {
	s := newTestServer(t, nil)

	rec, _ := do(t, s, http.MethodPost, "/api/v1/render", `{"document": {"features": []}}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec, _ = do(t, s, http.MethodPost, "/api/v1/render", `{}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestRender_MalformedGeometryWarns(t *testing.T) {
	s := newTestServer(t, nil)

	rec, body := do(t, s, http.MethodPost, "/api/v1/render", `{"document": {
		"type": "FeatureCollection",
		"features": [{"type": "Feature", "properties": {}, "geometry": {"type": "Circle", "coordinates": [0, 0], "radius": 5}}]
	}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Len(t, body["warnings"], 1)
}

func TestOverlay(t *testing.T) {
	s := newTestServer(t, map[string]interface{}{"overlay.data": yardGeoJSON})

	rec, body := do(t, s, http.MethodGet, "/api/v1/overlay?zoom=15", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	snapshot := body["snapshot"].(map[string]interface{})
	assert.Equal(t, "inline", snapshot["source"])
	assert.Len(t, snapshot["layers"], 3)

	label := snapshot["labels"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, 1.0, label["scale"])
}

func TestOverlay_LoadError(t *testing.T) {
	s := newTestServer(t, nil)
	rec, _ := do(t, s, http.MethodGet, "/api/v1/overlay", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	s = newTestServer(t, map[string]interface{}{"overlay.file": "/nonexistent/overlay.geojson"})
	rec, _ = do(t, s, http.MethodGet, "/api/v1/overlay", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestLabelScale(t *testing.T) {
	s := newTestServer(t, nil)

	tests := []struct {
		zoom    string
		scale   float64
		visible bool
	}{
		{"5", 0.5, false},
		{"11", 0.5, true},
		{"15", 1, true},
		{"20", 2, true},
		{"25", 2, true},
	}

	for _, tt := range tests {
		t.Run(tt.zoom, func(t *testing.T) {
			rec, body := do(t, s, http.MethodGet, "/api/v1/labels/scale?zoom="+tt.zoom, "")
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.scale, body["scale"])
			assert.Equal(t, tt.visible, body["visible"])
		})
	}

	rec, _ := do(t, s, http.MethodGet, "/api/v1/labels/scale", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestRequestLogger_CapturesStatus(t *testing.T) {
	handler := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
