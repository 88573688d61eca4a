package consumers

import (
	"context"
	"encoding/json"
	"fmt"

	"ecommerce-mesh/internal/shared/dto"
	"ecommerce-mesh/internal/shared/messaging"
	"ecommerce-mesh/internal/shipping/domain/shipment"
	"ecommerce-mesh/pkg/logger"
)

// OrderEventController turns order events into shipment changes.
type OrderEventController struct {
	logger  *logger.Logger
	service *shipment.Service
}

func NewOrderEventController(l *logger.Logger, s *shipment.Service) *OrderEventController {
	return &OrderEventController{
		logger:  l,
		service: s,
	}
}

// HandleMessage processes one message of the order events topic. Undecodable
// messages are reported as poison so they skip retries.
func (c *OrderEventController) HandleMessage(ctx context.Context, key, value []byte) error {
	var env messaging.Envelope
	if err := json.Unmarshal(value, &env); err != nil {
		c.logger.ErrorCtx(ctx, "Failed to unmarshal envelope: key=%s error=%v", string(key), err)
		return fmt.Errorf("%w: unmarshal envelope: %v", messaging.ErrPoisonMessage, err)
	}

	c.logger.DebugCtx(ctx, "Processing order event: event_id=%s key=%s type=%s",
		env.EventID, env.Key, env.Type)

	var apply func(context.Context, string, dto.OrderEvent) error
	switch env.Type {
	case messaging.TypeOrderCreated:
		apply = c.service.Schedule
	case messaging.TypeOrderDeleted:
		apply = c.service.Cancel
	default:
		c.logger.DebugCtx(ctx, "Ignoring order event: event_id=%s type=%s", env.EventID, env.Type)
		return nil
	}

	var ev dto.OrderEvent
	if err := json.Unmarshal(env.Payload, &ev); err != nil {
		c.logger.ErrorCtx(ctx, "Failed to unmarshal order event: event_id=%s error=%v", env.EventID, err)
		return fmt.Errorf("%w: unmarshal order event: %v", messaging.ErrPoisonMessage, err)
	}
	return apply(ctx, env.EventID, ev)
}
