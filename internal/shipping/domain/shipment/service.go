package shipment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"ecommerce-mesh/internal/shared/dto"
	"ecommerce-mesh/pkg/correlation"
)

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Schedule records a pending shipment for a newly created order.
func (s *Service) Schedule(ctx context.Context, eventID string, ev dto.OrderEvent) error {
	sh := Shipment{
		OrderID:       ev.OrderID,
		UserID:        ev.UserID,
		Description:   ev.Description,
		Fee:           ev.Fee,
		Status:        StatusPending,
		EventID:       eventID,
		CorrelationID: correlation.FromContext(ctx),
		OrderedAt:     ev.OrderedAt,
		UpdatedAt:     time.Now().UTC(),
	}
	if err := s.store.Save(ctx, sh); err != nil {
		return fmt.Errorf("save shipment: %w", err)
	}
	slog.InfoContext(ctx, "Shipment scheduled", "order_id", ev.OrderID, "event_id", eventID)
	return nil
}

// Cancel marks the shipment of a deleted order as cancelled. A missing shipment
// is stored as cancelled from the event payload.
func (s *Service) Cancel(ctx context.Context, eventID string, ev dto.OrderEvent) error {
	sh, err := s.store.Get(ctx, ev.OrderID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return fmt.Errorf("load shipment: %w", err)
		}
		sh = Shipment{
			OrderID:     ev.OrderID,
			UserID:      ev.UserID,
			Description: ev.Description,
			Fee:         ev.Fee,
			OrderedAt:   ev.OrderedAt,
		}
	}

	sh.Status = StatusCancelled
	sh.EventID = eventID
	sh.CorrelationID = correlation.FromContext(ctx)
	sh.UpdatedAt = time.Now().UTC()

	if err := s.store.Save(ctx, sh); err != nil {
		return fmt.Errorf("save shipment: %w", err)
	}
	slog.InfoContext(ctx, "Shipment cancelled", "order_id", ev.OrderID, "event_id", eventID)
	return nil
}

func (s *Service) Get(ctx context.Context, orderID int64) (Shipment, error) {
	return s.store.Get(ctx, orderID)
}
