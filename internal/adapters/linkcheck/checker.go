// Package linkcheck probes forum URLs over HTTP.
package linkcheck

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/example/praetor/internal/ports/secondary"
)

// DefaultTimeout bounds a single probe.
const DefaultTimeout = 8 * time.Second

// HTTPChecker implements secondary.LinkChecker with a GET request.
type HTTPChecker struct {
	client *http.Client
}

// NewHTTPChecker creates a checker whose probes time out after timeout
// (DefaultTimeout when zero).
func NewHTTPChecker(timeout time.Duration) *HTTPChecker {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPChecker{client: &http.Client{Timeout: timeout}}
}

// Check returns the status code the URL answered with. Redirects are followed.
func (c *HTTPChecker) Check(ctx context.Context, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", "praetor-linkcheck/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	return resp.StatusCode, nil
}

// Ensure HTTPChecker implements the interface
var _ secondary.LinkChecker = (*HTTPChecker)(nil)
