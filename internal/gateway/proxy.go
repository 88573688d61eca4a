package gateway

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"ecommerce-mesh/pkg/correlation"
	"ecommerce-mesh/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// ErrUnknownRoute is returned when no upstream is registered for a service name.
var ErrUnknownRoute = errors.New("unknown route")

// Route maps the first path segment of a gateway request to an upstream base URL.
type Route struct {
	Name     string
	Upstream *url.URL
	proxy    *httputil.ReverseProxy
}

// Proxy forwards /{service}/{rest} to {upstream}/{rest}.
type Proxy struct {
	routes map[string]*Route
}

// NewProxy builds a reverse proxy per configured route.
func NewProxy(routes map[string]string, upstreamTimeout time.Duration) (*Proxy, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = upstreamTimeout

	p := &Proxy{routes: make(map[string]*Route, len(routes))}
	for name, raw := range routes {
		target, err := url.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("route %s: parse upstream %q: %w", name, raw, err)
		}
		if target.Scheme == "" || target.Host == "" {
			return nil, fmt.Errorf("route %s: upstream %q must be absolute", name, raw)
		}

		route := &Route{Name: name, Upstream: target}
		route.proxy = &httputil.ReverseProxy{
			Rewrite: func(pr *httputil.ProxyRequest) {
				pr.SetURL(target)
				pr.SetXForwarded()
			},
			Transport:      correlation.NewTransport(transport),
			ModifyResponse: modifyResponse(name),
			ErrorHandler:   errorHandler(name),
		}
		p.routes[name] = route
	}
	return p, nil
}

// Routes returns the configured routes sorted by name.
func (p *Proxy) Routes() []*Route {
	out := make([]*Route, 0, len(p.routes))
	for _, r := range p.routes {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Match splits path into the route and the upstream path.
func (p *Proxy) Match(path string) (*Route, string, error) {
	name, rest := splitRoute(path)
	route, ok := p.routes[name]
	if !ok {
		return nil, "", fmt.Errorf("%w: %q", ErrUnknownRoute, name)
	}
	return route, rest, nil
}

func splitRoute(path string) (name, rest string) {
	name, rest, _ = strings.Cut(strings.TrimPrefix(path, "/"), "/")
	return name, "/" + rest
}

// Handle proxies the request to its upstream.
func (p *Proxy) Handle(c *gin.Context) {
	route, upstreamPath, err := p.Match(c.Request.URL.Path)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
		return
	}
	c.Set(metrics.HandlerKey, "/"+route.Name+"/*")

	// ReverseProxy reads the inbound path; strip the route prefix on a copy.
	// RawPath is stripped too so escaped segments such as %2F reach the upstream as sent.
	req := c.Request.Clone(c.Request.Context())
	req.URL.Path = upstreamPath
	_, req.URL.RawPath = splitRoute(c.Request.URL.EscapedPath())

	route.proxy.ServeHTTP(c.Writer, req)
}

// modifyResponse keeps only the first X-Correlation-ID value returned by the upstream.
func modifyResponse(route string) func(*http.Response) error {
	return func(resp *http.Response) error {
		if values := resp.Header.Values(correlation.HeaderName); len(values) > 1 {
			resp.Header.Set(correlation.HeaderName, values[0])
		}
		metrics.GatewayProxyRequests.WithLabelValues(route, strconv.Itoa(resp.StatusCode)).Inc()
		return nil
	}
}

func errorHandler(route string) func(http.ResponseWriter, *http.Request, error) {
	return func(w http.ResponseWriter, r *http.Request, err error) {
		slog.ErrorContext(r.Context(), "Upstream request failed",
			"route", route,
			"path", r.URL.Path,
			slog.Any("error", err))
		metrics.GatewayProxyRequests.WithLabelValues(route, strconv.Itoa(http.StatusBadGateway)).Inc()

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"message":"upstream unavailable"}`))
	}
}
