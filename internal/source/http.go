// internal/source/http.go - HTTP GeoJSON loading with retries
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/rs/zerolog/log"

	"github.com/valpere/geojson_overlay/internal"
	"github.com/valpere/geojson_overlay/internal/config"
	"github.com/valpere/geojson_overlay/pkg/geo"
)

// HTTPSource loads a GeoJSON document from a URL
type HTTPSource struct {
	client    *http.Client
	url       string
	fetch     config.FetchConfig
	userAgent string
}

// NewHTTPSource creates an HTTP source for the configured overlay URL
func NewHTTPSource(cfg *config.Config) *HTTPSource {
	return NewHTTPSourceForURL(cfg, cfg.Overlay.URL)
}

// NewHTTPSourceForURL creates an HTTP source for an explicit URL
func NewHTTPSourceForURL(cfg *config.Config, rawURL string) *HTTPSource {
	transport := &http.Transport{
		MaxIdleConns:        cfg.Network.MaxIdleConns,
		IdleConnTimeout:     cfg.Network.IdleConnTimeout,
		DisableKeepAlives:   cfg.Network.DisableKeepAlive,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	if cfg.Network.ProxyURL != "" {
		if proxyURL, err := url.Parse(cfg.Network.ProxyURL); err == nil {
			transport.Proxy = http.ProxyURL(proxyURL)
		}
	}

	return &HTTPSource{
		client: &http.Client{
			Timeout:   cfg.Fetch.Timeout,
			Transport: transport,
		},
		url:       rawURL,
		fetch:     cfg.Fetch,
		userAgent: cfg.Network.UserAgent,
	}
}

// Origin returns the source URL
func (s *HTTPSource) Origin() string {
	return s.url
}

// Load fetches and decodes the document
func (s *HTTPSource) Load(ctx context.Context) (*geo.Document, error) {
	resp, err := s.FetchWithRetry(ctx)
	if err != nil {
		return nil, loadError(s.url, err)
	}
	return decodeResponse(resp)
}

// Fetch performs a single GET request
func (s *HTTPSource) Fetch(ctx context.Context) (*Response, error) {
	start := time.Now()

	req, err := s.buildHTTPRequest(ctx)
	if err != nil {
		return nil, internal.NewError(internal.ErrorCodeValidation, "failed to build HTTP request", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, internal.NewError(internal.ErrorCodeNetwork, "HTTP request failed", err)
	}
	defer resp.Body.Close()

	response := &Response{
		Origin:     s.url,
		Headers:    resp.Header,
		StatusCode: resp.StatusCode,
	}

	if resp.StatusCode != http.StatusOK {
		response.FetchTime = time.Since(start)
		code := internal.ErrorCodeNetwork
		if resp.StatusCode == http.StatusNotFound {
			code = internal.ErrorCodeNotFound
		}
		return response, internal.NewError(code, fmt.Sprintf("HTTP %d: %s", resp.StatusCode, resp.Status), nil)
	}

	// Handle compressed responses
	var reader io.Reader = resp.Body
	if strings.Contains(resp.Header.Get("Content-Encoding"), "gzip") {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			response.FetchTime = time.Since(start)
			return response, internal.NewError(internal.ErrorCodeNetwork, "failed to create gzip reader", err)
		}
		defer gzipReader.Close()
		reader = gzipReader
		response.Compressed = true
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		response.FetchTime = time.Since(start)
		return response, internal.NewError(internal.ErrorCodeNetwork, "failed to read response body", err)
	}

	response.Data = data
	response.Size = len(data)
	response.FetchTime = time.Since(start)
	return response, nil
}

// FetchWithRetry retries network failures and 5xx responses with quadratic backoff
func (s *HTTPSource) FetchWithRetry(ctx context.Context) (*Response, error) {
	var lastErr error

	for attempt := 0; attempt <= s.fetch.MaxRetries; attempt++ {
		if attempt > 0 {
			backoffDelay := time.Duration(attempt*attempt) * s.fetch.RetryDelay
			log.Debug().
				Str("url", s.url).
				Int("attempt", attempt+1).
				Dur("backoff", backoffDelay).
				Err(lastErr).
				Msg("Retrying GeoJSON fetch")

			select {
			case <-ctx.Done():
				return nil, internal.NewError(internal.ErrorCodeNetwork, "fetch cancelled", ctx.Err())
			case <-time.After(backoffDelay):
			}
		}

		response, err := s.Fetch(ctx)
		if err == nil {
			return response, nil
		}
		lastErr = err

		if ctx.Err() != nil || !s.shouldRetry(response) {
			break
		}
	}

	return nil, fmt.Errorf("failed after %d attempts: %w", s.fetch.MaxRetries+1, lastErr)
}

// buildHTTPRequest constructs the GET request with configured headers
func (s *HTTPSource) buildHTTPRequest(ctx context.Context) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/geo+json, application/json")
	req.Header.Set("Accept-Encoding", "gzip")
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	if s.fetch.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.fetch.APIKey)
	}

	for key, value := range s.fetch.Headers {
		req.Header.Set(key, value)
	}

	return req, nil
}

// shouldRetry determines whether a failed request should be retried
func (s *HTTPSource) shouldRetry(response *Response) bool {
	// Always retry on network errors
	if response == nil {
		return true
	}

	// Don't retry on client errors (4xx)
	if response.StatusCode >= 400 && response.StatusCode < 500 {
		return false
	}

	return response.StatusCode >= 500 || response.StatusCode == 0
}
