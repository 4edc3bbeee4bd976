// Package nhl implements provider.Provider against the public NHL web API
// (api-web.nhle.com/v1) and the stats REST API (api.nhle.com/stats/rest).
//
// Neither API needs auth. Requests are paced by a token bucket limiter and
// identical in-flight GETs are collapsed.
package nhl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/kaitlynwarhurst/NHL-Data-Fun/internal/provider"
)

const maxBodyBytes = 8 << 20

// Client is the shared HTTP client for all NHL endpoints.
type Client struct {
	httpClient *http.Client
	baseURL    string
	statsURL   string
	limiter    *rate.Limiter
	flight     singleflight.Group
	logger     *slog.Logger
}

var _ provider.Provider = (*Client)(nil)

// NewClient creates an NHL HTTP client with rate limiting.
func NewClient(baseURL, statsURL string, requestsPerMinute int, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	rps := float64(requestsPerMinute) / 60.0
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		statsURL:   statsURL,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		logger:     logger,
	}
}

// getJSON performs a rate-limited GET against base+path and decodes the
// body into target.
func (c *Client) getJSON(ctx context.Context, base, path string, target any) error {
	u := base + path
	out, err, _ := c.flight.Do(u, func() (any, error) {
		return c.fetch(ctx, path, u)
	})
	if err != nil {
		return err
	}

	body, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}
	if err := sonic.Unmarshal(body, target); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, path, u string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: http request %s: %v", provider.ErrTransient, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read response body: %v", provider.ErrTransient, err)
	}

	c.logger.Debug("nhl request", "path", path, "status", resp.StatusCode, "duration_ms", time.Since(start).Milliseconds())

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("NHL %s returned %d: %s", path, resp.StatusCode, truncate(body, 200))
		if isRetryableStatus(resp.StatusCode) {
			return nil, fmt.Errorf("%w: %v", provider.ErrTransient, err)
		}
		return nil, err
	}
	return body, nil
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

// truncate returns a truncated string representation for error messages.
func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}
