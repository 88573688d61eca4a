package health

import (
	"context"
	"fmt"
	"time"
)

// DefaultTimeout bounds a readiness round and the dial/HTTP timeouts of the
// built-in checkers.
const DefaultTimeout = 5 * time.Second

type Status string

const (
	StatusUp   Status = "up"
	StatusDown Status = "down"
)

// Result is what a checker reports for its dependency.
type Result struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
}

func up() Result { return Result{Status: StatusUp} }

func down(format string, args ...any) Result {
	return Result{Status: StatusDown, Message: fmt.Sprintf(format, args...)}
}

func downOnError(err error) Result {
	if err != nil {
		return down("%v", err)
	}
	return up()
}

// Checker probes one dependency of a service, such as its database.
type Checker interface {
	Name() string
	Check(ctx context.Context) Result
}
