// Package userclient is order-service's HTTP client for user-service.
package userclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"ecommerce-mesh/internal/shared/dto"
	"ecommerce-mesh/pkg/correlation"

	"github.com/google/go-querystring/query"
)

// Client defines the interface for user-service client.
type Client interface {
	GetUser(ctx context.Context, id int64) (dto.UserDTO, error)
	ListUsers(ctx context.Context, q ListQuery) ([]dto.UserDTO, error)
	Close() error
}

// ListQuery filters GET /api/users.
type ListQuery struct {
	IDs   []int64 `url:"id,omitempty"`
	Limit int     `url:"limit,omitempty"`
}

// HTTPClient implements Client using HTTP. Outbound requests carry the
// correlation ID bound to the caller's context.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	retry      RetryPolicy
}

// HTTPClientConfig holds configuration for HTTPClient.
type HTTPClientConfig struct {
	BaseURL        string
	Timeout        time.Duration
	RetryAttempts  int
	RetryBaseDelay time.Duration
	RetryMaxDelay  time.Duration
}

// NewHTTPClient creates a new HTTP client for user-service.
func NewHTTPClient(cfg HTTPClientConfig) *HTTPClient {
	retry := DefaultRetryPolicy()
	if cfg.RetryAttempts > 0 {
		retry.MaxAttempts = cfg.RetryAttempts
		retry.BaseDelay = cfg.RetryBaseDelay
		retry.MaxDelay = cfg.RetryMaxDelay
	}

	return &HTTPClient{
		baseURL:    cfg.BaseURL,
		httpClient: correlation.NewClient(cfg.Timeout),
		retry:      retry,
	}
}

// GetUser fetches a single user.
func (c *HTTPClient) GetUser(ctx context.Context, id int64) (dto.UserDTO, error) {
	var user dto.UserDTO
	err := c.retry.Do(ctx, "get user", func() error {
		return c.get(ctx, "/api/users/"+strconv.FormatInt(id, 10), nil, &user)
	})
	return user, err
}

// ListUsers fetches users matching q.
func (c *HTTPClient) ListUsers(ctx context.Context, q ListQuery) ([]dto.UserDTO, error) {
	values, err := query.Values(q)
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	var users []dto.UserDTO
	err = c.retry.Do(ctx, "list users", func() error {
		return c.get(ctx, "/api/users", values, &users)
	})
	return users, err
}

// Close releases any resources held by the client.
func (c *HTTPClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) get(ctx context.Context, path string, values url.Values, out any) error {
	target := c.baseURL + path
	if len(values) > 0 {
		target += "?" + values.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	return c.handleResponse(resp, out)
}

func (c *HTTPClient) handleResponse(resp *http.Response, out any) error {
	body, _ := io.ReadAll(resp.Body)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	case resp.StatusCode == http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrBadRequest, string(body))
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: status %d, body: %s", ErrServiceUnavailable, resp.StatusCode, string(body))
	default:
		return fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body))
	}
}
