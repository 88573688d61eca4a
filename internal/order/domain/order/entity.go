package order

import (
	"errors"
	"time"

	"ecommerce-mesh/internal/shared/dto"
)

var (
	ErrNotFound = errors.New("order not found")
	ErrInvalid  = errors.New("invalid order")
)

type Order struct {
	ID          int64
	UserID      int64
	Description string
	Fee         float64
	OrderedAt   time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (o Order) Validate() error {
	if o.UserID <= 0 {
		return errors.Join(ErrInvalid, errors.New("user_id must be positive"))
	}
	if o.Fee < 0 {
		return errors.Join(ErrInvalid, errors.New("fee must not be negative"))
	}
	return nil
}

// View is an order together with its user, when user-service could provide it.
type View struct {
	Order
	User *dto.UserDTO
}

// Query filters FindAll. Empty fields match everything.
type Query struct {
	UserIDs []int64
	Limit   int
}
