package health

import (
	"context"
)

// Pinger is satisfied by *pgxpool.Pool and the OpenSearch shipment store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingChecker reports a dependency as up when it answers Ping.
type PingChecker struct {
	name   string
	pinger Pinger
}

// NewPingChecker creates a checker for any Pinger.
func NewPingChecker(name string, p Pinger) *PingChecker {
	return &PingChecker{name: name, pinger: p}
}

// NewPostgresChecker creates a new PostgreSQL health checker.
func NewPostgresChecker(pool Pinger) *PingChecker {
	return NewPingChecker("postgres", pool)
}

func (c *PingChecker) Name() string {
	return c.name
}

func (c *PingChecker) Check(ctx context.Context) Result {
	return downOnError(c.pinger.Ping(ctx))
}
