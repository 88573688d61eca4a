// Package featureclient asks features-service whether a toggle is on.
package featureclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ecommerce-mesh/pkg/correlation"

	"github.com/google/go-querystring/query"
)

// ErrUnavailable is returned for transport errors and non-2xx answers.
var ErrUnavailable = errors.New("features service unavailable")

type checkQuery struct {
	Environment string `url:"environment,omitempty"`
}

type checkResponse struct {
	Enabled bool `json:"enabled"`
}

// HTTPClient implements featuregate.Checker over features-service's check endpoint.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: correlation.NewClient(timeout),
	}
}

func (c *HTTPClient) IsEnabled(ctx context.Context, name, environment string) (bool, error) {
	values, err := query.Values(checkQuery{Environment: environment})
	if err != nil {
		return false, fmt.Errorf("encode query: %w", err)
	}
	target := c.baseURL + "/api/features/check/" + url.PathEscape(name)
	if len(values) > 0 {
		target += "?" + values.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode/100 != 2 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return false, fmt.Errorf("%w: status %d, body: %s", ErrUnavailable, resp.StatusCode, string(body))
	}

	var out checkResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return false, fmt.Errorf("decode response: %w", err)
	}
	return out.Enabled, nil
}
