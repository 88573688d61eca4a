package order

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"ecommerce-mesh/internal/external/userclient"
	"ecommerce-mesh/internal/shared/dto"
	"ecommerce-mesh/internal/shared/messaging"
	"ecommerce-mesh/pkg/metrics"
)

const maxListLimit = 500

type Service struct {
	repo      Repo
	users     UserDirectory
	publisher messaging.Publisher
}

func NewService(repo Repo, users UserDirectory, publisher messaging.Publisher) *Service {
	if publisher == nil {
		publisher = messaging.NopPublisher{}
	}
	return &Service{repo: repo, users: users, publisher: publisher}
}

// FindAll returns orders enriched with their users. Users are fetched in one batch;
// when user-service fails the orders are returned without users.
func (s *Service) FindAll(ctx context.Context, q Query) ([]View, error) {
	if q.Limit <= 0 || q.Limit > maxListLimit {
		q.Limit = maxListLimit
	}

	orders, err := s.repo.FindAll(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("find orders: %w", err)
	}

	views := make([]View, len(orders))
	for i, o := range orders {
		views[i] = View{Order: o}
	}
	if len(orders) == 0 {
		return views, nil
	}

	users, err := s.users.ListUsers(ctx, userclient.ListQuery{IDs: distinctUserIDs(orders)})
	if err != nil {
		slog.WarnContext(ctx, "Failed to enrich orders with users", slog.Any("error", err))
		return views, nil
	}

	byID := make(map[int64]dto.UserDTO, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	for i := range views {
		if u, ok := byID[views[i].UserID]; ok {
			views[i].User = &u
		}
	}
	return views, nil
}

// FindByID returns the order with its user. A user-service failure is logged, not returned.
func (s *Service) FindByID(ctx context.Context, id int64) (View, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return View{}, err
	}
	return s.enrich(ctx, o), nil
}

func (s *Service) Create(ctx context.Context, o Order) (View, error) {
	if err := o.Validate(); err != nil {
		return View{}, err
	}
	if o.OrderedAt.IsZero() {
		o.OrderedAt = time.Now().UTC()
	}

	created, err := s.repo.Create(ctx, o)
	if err != nil {
		return View{}, fmt.Errorf("create order: %w", err)
	}
	metrics.OrdersChanged.WithLabelValues("created").Inc()
	metrics.OrderValue.Observe(created.Fee)
	slog.InfoContext(ctx, "Order created", "order_id", created.ID, "user_id", created.UserID)

	s.publish(ctx, messaging.TypeOrderCreated, created)
	return s.enrich(ctx, created), nil
}

func (s *Service) Update(ctx context.Context, id int64, o Order) (View, error) {
	if err := o.Validate(); err != nil {
		return View{}, err
	}
	o.ID = id
	if o.OrderedAt.IsZero() {
		o.OrderedAt = time.Now().UTC()
	}

	updated, err := s.repo.Update(ctx, o)
	if err != nil {
		return View{}, fmt.Errorf("update order: %w", err)
	}
	metrics.OrdersChanged.WithLabelValues("updated").Inc()
	slog.InfoContext(ctx, "Order updated", "order_id", id)

	return s.enrich(ctx, updated), nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	metrics.OrdersChanged.WithLabelValues("deleted").Inc()
	slog.InfoContext(ctx, "Order deleted", "order_id", id)

	s.publish(ctx, messaging.TypeOrderDeleted, o)
	return nil
}

func (s *Service) enrich(ctx context.Context, o Order) View {
	view := View{Order: o}
	u, err := s.users.GetUser(ctx, o.UserID)
	if err != nil {
		slog.WarnContext(ctx, "Failed to enrich order with user",
			"order_id", o.ID,
			"user_id", o.UserID,
			slog.Any("error", err))
		return view
	}
	view.User = &u
	return view
}

// publish never fails the caller: the order is already stored.
func (s *Service) publish(ctx context.Context, eventType string, o Order) {
	env, err := messaging.NewEnvelope(strconv.FormatInt(o.ID, 10), eventType, dto.OrderEvent{
		OrderID:     o.ID,
		UserID:      o.UserID,
		Description: o.Description,
		Fee:         o.Fee,
		OrderedAt:   o.OrderedAt,
	})
	if err != nil {
		slog.ErrorContext(ctx, "Failed to build order event", "order_id", o.ID, slog.Any("error", err))
		return
	}

	if err := s.publisher.Publish(ctx, env); err != nil {
		slog.ErrorContext(ctx, "Failed to publish order event",
			"order_id", o.ID,
			"type", eventType,
			slog.Any("error", err))
	}
}

func distinctUserIDs(orders []Order) []int64 {
	seen := make(map[int64]struct{}, len(orders))
	ids := make([]int64, 0, len(orders))
	for _, o := range orders {
		if _, ok := seen[o.UserID]; ok {
			continue
		}
		seen[o.UserID] = struct{}{}
		ids = append(ids, o.UserID)
	}
	return ids
}
