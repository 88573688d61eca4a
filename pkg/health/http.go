package health

import (
	"context"
	"net/http"

	"ecommerce-mesh/pkg/correlation"
)

// HTTPChecker probes an upstream service's liveness endpoint.
type HTTPChecker struct {
	name   string
	url    string
	client *http.Client
}

// NewHTTPChecker creates a checker that expects a 2xx from url.
func NewHTTPChecker(name, url string, client *http.Client) *HTTPChecker {
	if client == nil {
		client = correlation.NewClient(DefaultTimeout)
	}
	return &HTTPChecker{name: name, url: url, client: client}
}

// Name returns the upstream name.
func (c *HTTPChecker) Name() string {
	return c.name
}

// Check issues GET url.
func (c *HTTPChecker) Check(ctx context.Context) Result {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return downOnError(err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return downOnError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode/100 != 2 {
		return down("status %d", resp.StatusCode)
	}
	return up()
}
