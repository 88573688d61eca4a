package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	CorrelationIDs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shop",
			Subsystem: "correlation",
			Name:      "ids_total",
			Help:      "Correlation IDs resolved per component, by origin (forwarded, generated, failed)",
		},
		[]string{"component", "origin"},
	)

	GatewayProxyRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shop",
			Subsystem: "gateway",
			Name:      "proxy_requests_total",
			Help:      "Requests proxied by the gateway per route",
		},
		[]string{"route", "status_code"},
	)

	BulkheadCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shop",
			Subsystem: "bulkhead",
			Name:      "calls_total",
			Help:      "Bulkhead admission decisions",
		},
		[]string{"bulkhead", "outcome"},
	)

	OrdersChanged = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shop",
			Subsystem: "orders",
			Name:      "changes_total",
			Help:      "Orders created, updated and deleted",
		},
		[]string{"operation"},
	)

	FeatureChecks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shop",
			Subsystem: "features",
			Name:      "gate_checks_total",
			Help:      "Feature gate decisions per feature (enabled, disabled, error)",
		},
		[]string{"feature", "result"},
	)

	OrderValue = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "shop",
			Subsystem: "orders",
			Name:      "value_amount",
			Help:      "Distribution of order fees (USD)",
			Buckets:   []float64{50, 100, 250, 500, 1000},
		},
	)
)

func init() {
	Registry.MustRegister(CorrelationIDs, GatewayProxyRequests, BulkheadCalls, OrdersChanged, FeatureChecks, OrderValue)
}

// CorrelationOrigin labels how a correlation ID was obtained from the inbound value.
func CorrelationOrigin(incoming string, err error) string {
	switch {
	case err != nil:
		return "failed"
	case strings.TrimSpace(incoming) == "":
		return "generated"
	default:
		return "forwarded"
	}
}
