package diagnostics

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Fetcher retrieves the diagnostics document published at url.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Document, error)
}

// FetchFunc adapts a plain function to Fetcher.
type FetchFunc func(ctx context.Context, url string) (*Document, error)

func (f FetchFunc) Fetch(ctx context.Context, url string) (*Document, error) {
	return f(ctx, url)
}

// Client fetches diagnostics over HTTP. It issues exactly one GET per call and
// keeps nothing between calls.
type Client struct {
	httpClient *http.Client
	logger     *zap.Logger
}

type ClientOption func(*Client)

// WithHTTPClient replaces the default client, which has no timeout.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch decodes the response body whatever the status code. Only transport
// failures and bodies that are not JSON produce an error.
func (c *Client) Fetch(ctx context.Context, url string) (*Document, error) {
	started := time.Now()
	c.logger.Debug("fetching diagnostics", zap.String("url", url))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build diagnostics request for %s: %w", url, err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("diagnostics request failed", zap.String("url", url), zap.Error(err))
		return nil, fmt.Errorf("fetch diagnostics from %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Warn("diagnostics body read failed", zap.String("url", url), zap.Error(err))
		return nil, fmt.Errorf("read diagnostics from %s: %w", url, err)
	}
	doc, err := DecodeDocument(body)
	if err != nil {
		c.logger.Warn("diagnostics body is not JSON",
			zap.String("url", url),
			zap.Int("status", resp.StatusCode),
			zap.Error(err))
		return nil, fmt.Errorf("decode diagnostics from %s: %w", url, err)
	}

	loaded, failed := doc.Counts()
	c.logger.Info("diagnostics fetched",
		zap.String("url", url),
		zap.Int("status", resp.StatusCode),
		zap.Bool("empty", doc == nil),
		zap.Int("extensions_loaded", loaded),
		zap.Int("extensions_failed", failed),
		zap.Duration("elapsed", time.Since(started)))
	return doc, nil
}
