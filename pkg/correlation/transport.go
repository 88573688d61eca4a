package correlation

import (
	"context"
	"net/http"
	"time"
)

// Inject copies the correlation ID bound to ctx onto h.
// It reports false and leaves h untouched when ctx carries no ID.
func Inject(ctx context.Context, h http.Header) bool {
	id := FromContext(ctx)
	if id == "" {
		return false
	}
	h.Set(HeaderName, id)
	return true
}

// Transport is an http.RoundTripper that forwards the correlation ID found in the
// request context to the outbound request.
type Transport struct {
	// Base is used to perform the request. http.DefaultTransport when nil.
	Base http.RoundTripper
}

// NewTransport wraps base with correlation propagation.
func NewTransport(base http.RoundTripper) *Transport {
	return &Transport{Base: base}
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	if FromContext(req.Context()) == "" {
		return base.RoundTrip(req)
	}

	// RoundTrippers must not modify the caller's request.
	out := req.Clone(req.Context())
	Inject(req.Context(), out.Header)
	return base.RoundTrip(out)
}

// NewClient returns an http.Client whose requests carry the correlation ID of their context.
func NewClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: NewTransport(http.DefaultTransport),
	}
}
