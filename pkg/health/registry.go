package health

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Registry holds multiple health checkers.
type Registry struct {
	checkers []Checker
}

// NewRegistry creates a new health check registry.
func NewRegistry(checkers ...Checker) *Registry {
	return &Registry{checkers: checkers}
}

// Add registers more checkers. Not safe for use once probes are being served.
func (r *Registry) Add(checkers ...Checker) {
	r.checkers = append(r.checkers, checkers...)
}

// CheckResult is the result of a single named check.
type CheckResult struct {
	Name    string `json:"name"`
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
}

// ReadinessResponse is the aggregated readiness check response.
type ReadinessResponse struct {
	Status Status        `json:"status"`
	Checks []CheckResult `json:"checks,omitempty"`
}

// CheckAll runs all registered checkers in parallel.
func (r *Registry) CheckAll(ctx context.Context) ReadinessResponse {
	if r == nil || len(r.checkers) == 0 {
		return ReadinessResponse{Status: StatusUp}
	}

	results := make([]CheckResult, len(r.checkers))
	var g errgroup.Group

	for i, checker := range r.checkers {
		g.Go(func() error {
			res := checker.Check(ctx)
			results[i] = CheckResult{
				Name:    checker.Name(),
				Status:  res.Status,
				Message: res.Message,
			}
			return nil
		})
	}

	_ = g.Wait()

	overall := StatusUp
	for _, res := range results {
		if res.Status == StatusDown {
			overall = StatusDown
			break
		}
	}

	return ReadinessResponse{Status: overall, Checks: results}
}
