package shipment

import (
	"context"
	"errors"
	"testing"

	"ecommerce-mesh/internal/shared/dto"
	"ecommerce-mesh/pkg/correlation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestService_Schedule(t *testing.T) {
	ctx := correlation.WithID(context.Background(), "ship-id")
	store := NewMockStore(gomock.NewController(t))

	store.EXPECT().Save(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, s Shipment) error {
		assert.Equal(t, int64(42), s.OrderID)
		assert.Equal(t, StatusPending, s.Status)
		assert.Equal(t, "ship-id", s.CorrelationID)
		assert.Equal(t, "evt-1", s.EventID)
		return nil
	})

	err := NewService(store).Schedule(ctx, "evt-1", dto.OrderEvent{OrderID: 42, UserID: 7, Fee: 10})

	require.NoError(t, err)
}

func TestService_Cancel(t *testing.T) {
	ctx := correlation.WithID(context.Background(), "cancel-id")

	t.Run("existing shipment", func(t *testing.T) {
		store := NewMockStore(gomock.NewController(t))
		store.EXPECT().Get(ctx, int64(42)).Return(Shipment{OrderID: 42, Status: StatusPending, CorrelationID: "old"}, nil)
		store.EXPECT().Save(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, s Shipment) error {
			assert.Equal(t, StatusCancelled, s.Status)
			assert.Equal(t, "cancel-id", s.CorrelationID)
			return nil
		})

		require.NoError(t, NewService(store).Cancel(ctx, "evt-2", dto.OrderEvent{OrderID: 42}))
	})

	t.Run("unknown shipment is recorded as cancelled", func(t *testing.T) {
		store := NewMockStore(gomock.NewController(t))
		store.EXPECT().Get(ctx, int64(43)).Return(Shipment{}, ErrNotFound)
		store.EXPECT().Save(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, s Shipment) error {
			assert.Equal(t, int64(43), s.OrderID)
			assert.Equal(t, StatusCancelled, s.Status)
			return nil
		})

		require.NoError(t, NewService(store).Cancel(ctx, "evt-3", dto.OrderEvent{OrderID: 43}))
	})

	t.Run("store failure", func(t *testing.T) {
		store := NewMockStore(gomock.NewController(t))
		storeErr := errors.New("cluster red")
		store.EXPECT().Get(ctx, int64(44)).Return(Shipment{}, storeErr)

		assert.ErrorIs(t, NewService(store).Cancel(ctx, "evt-4", dto.OrderEvent{OrderID: 44}), storeErr)
	})
}
