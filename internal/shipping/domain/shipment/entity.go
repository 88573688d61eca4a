package shipment

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("shipment not found")

type Status string

const (
	StatusPending   Status = "pending"
	StatusCancelled Status = "cancelled"
)

// Shipment is the shipping record of one order. CorrelationID is the id of the
// request that caused the latest change, so the record can be traced back to it.
type Shipment struct {
	OrderID       int64
	UserID        int64
	Description   string
	Fee           float64
	Status        Status
	EventID       string
	CorrelationID string
	OrderedAt     time.Time
	UpdatedAt     time.Time
}
