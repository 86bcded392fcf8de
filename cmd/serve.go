// cmd/serve.go - HTTP API command
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/valpere/geojson_overlay/internal/server"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the overlay HTTP API",
	Long: `Serve the overlay HTTP API. The OpenAPI document is available at
/openapi.json and interactive documentation at /docs.

Endpoints:
  GET  /health                 liveness and version
  POST /api/v1/render          render a posted GeoJSON document
  GET  /api/v1/overlay         render the configured data source
  GET  /api/v1/labels/scale    label scale for a zoom level

Examples:
  # Serve on the default address
  geojson-overlay serve

  # Serve the configured file on all interfaces
  geojson-overlay serve --file site.geojson --host 0.0.0.0 --port 9000`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("host", "127.0.0.1", "address to listen on")
	serveCmd.Flags().Int("port", 8080, "port to listen on")

	bindFlags(serveCmd.Flags(), map[string]string{
		"listen.host": "host",
		"listen.port": "port",
	})
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(cfg, version).ListenAndServe(ctx)
}
