// internal/server/server.go - HTTP API server
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/rs/zerolog/log"

	"github.com/valpere/geojson_overlay/internal/config"
	"github.com/valpere/geojson_overlay/internal/source"
)

const shutdownTimeout = 10 * time.Second

// Server exposes the overlay pipeline over HTTP
type Server struct {
	config  *config.Config
	version string
	mux     *http.ServeMux
	api     huma.API
	sources *source.Factory
}

// New creates a server and registers its routes
func New(cfg *config.Config, version string) *Server {
	mux := http.NewServeMux()

	humaConfig := huma.DefaultConfig("GeoJSON Overlay API", version)
	humaConfig.Info.Description = "Renders GeoJSON overlays: offset, rotation, bucket classification, styles and labels."
	humaConfig.Servers = []*huma.Server{
		{URL: "http://" + cfg.ListenAddress(), Description: "Local server"},
	}
	// Disable $schema property in responses
	humaConfig.CreateHooks = []func(huma.Config) huma.Config{}

	s := &Server{
		config:  cfg,
		version: version,
		mux:     mux,
		api:     humago.New(mux, humaConfig),
		sources: source.NewFactory(cfg),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	huma.Get(s.api, "/health", s.Health, huma.OperationTags("system"))
	huma.Post(s.api, "/api/v1/render", s.Render, huma.OperationTags("overlay"))
	huma.Get(s.api, "/api/v1/overlay", s.Overlay, huma.OperationTags("overlay"))
	huma.Get(s.api, "/api/v1/labels/scale", s.LabelScale, huma.OperationTags("overlay"))
}

// Handler returns the routes wrapped in request logging
func (s *Server) Handler() http.Handler {
	return RequestLogger(s.mux)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Handler().ServeHTTP(w, r)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.ListenAddress(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("address", srv.Addr).Msg("HTTP API listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down HTTP API")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
