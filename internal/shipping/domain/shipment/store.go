package shipment

import "context"

//go:generate mockgen -source=store.go -destination=mock_store.go -package=shipment

type Store interface {
	Save(ctx context.Context, s Shipment) error
	Get(ctx context.Context, orderID int64) (Shipment, error)
}
