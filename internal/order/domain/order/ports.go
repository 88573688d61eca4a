package order

import (
	"context"

	"ecommerce-mesh/internal/external/userclient"
	"ecommerce-mesh/internal/shared/dto"
)

//go:generate mockgen -source=ports.go -destination=mock_ports.go -package=order

type Repo interface {
	FindAll(ctx context.Context, q Query) ([]Order, error)
	FindByID(ctx context.Context, id int64) (Order, error)
	Create(ctx context.Context, o Order) (Order, error)
	Update(ctx context.Context, o Order) (Order, error)
	Delete(ctx context.Context, id int64) error
}

// UserDirectory is the part of user-service the order domain depends on.
type UserDirectory interface {
	GetUser(ctx context.Context, id int64) (dto.UserDTO, error)
	ListUsers(ctx context.Context, q userclient.ListQuery) ([]dto.UserDTO, error)
}
