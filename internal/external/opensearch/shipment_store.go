// Package opensearch stores shipment documents in OpenSearch.
package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"ecommerce-mesh/internal/shipping/domain/shipment"
	"ecommerce-mesh/pkg/correlation"

	"github.com/opensearch-project/opensearch-go"
)

var _ shipment.Store = (*ShipmentStore)(nil)

type ShipmentStore struct {
	client *opensearch.Client
	index  string
}

// NewShipmentStore connects to OpenSearch and creates index when it does not exist.
// Requests to the cluster carry the caller's correlation ID.
func NewShipmentStore(ctx context.Context, urls []string, index string) (*ShipmentStore, error) {
	if len(urls) == 0 {
		return nil, errors.New("no OpenSearch addresses configured")
	}

	client, err := opensearch.NewClient(opensearch.Config{
		Addresses: urls,
		Transport: correlation.NewTransport(&http.Transport{
			MaxIdleConnsPerHost: 10,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("opensearch client: %w", err)
	}

	store := &ShipmentStore{client: client, index: index}
	if err := store.ensureIndex(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

// Ping reports whether the cluster answers.
func (s *ShipmentStore) Ping(ctx context.Context) error {
	res, err := s.client.Ping(s.client.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("ping: %s", res.Status())
	}
	return nil
}

func (s *ShipmentStore) ensureIndex(ctx context.Context) error {
	res, err := s.client.Indices.Exists([]string{s.index}, s.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("indices.exists: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}

	body := map[string]any{
		"mappings": map[string]any{
			"properties": map[string]any{
				"order_id":       map[string]any{"type": "long"},
				"user_id":        map[string]any{"type": "long"},
				"description":    map[string]any{"type": "text"},
				"fee":            map[string]any{"type": "double"},
				"status":         map[string]any{"type": "keyword"},
				"event_id":       map[string]any{"type": "keyword"},
				"correlation_id": map[string]any{"type": "keyword"},
				"ordered_at":     map[string]any{"type": "date"},
				"updated_at":     map[string]any{"type": "date"},
			},
		},
		"settings": map[string]any{
			"number_of_replicas": 0,
		},
	}
	buf, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal index body: %w", err)
	}

	cr, err := s.client.Indices.Create(
		s.index,
		s.client.Indices.Create.WithBody(bytes.NewReader(buf)),
		s.client.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("indices.create: %w", err)
	}
	defer cr.Body.Close()
	// another replica may have created it first
	if cr.IsError() && cr.StatusCode != http.StatusBadRequest {
		return fmt.Errorf("indices.create error: %s", cr.String())
	}
	return nil
}

type shipmentDoc struct {
	OrderID       int64           `json:"order_id"`
	UserID        int64           `json:"user_id"`
	Description   string          `json:"description,omitempty"`
	Fee           float64         `json:"fee"`
	Status        shipment.Status `json:"status"`
	EventID       string          `json:"event_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	OrderedAt     time.Time       `json:"ordered_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Save indexes s under its order ID, replacing any previous version.
func (s *ShipmentStore) Save(ctx context.Context, sh shipment.Shipment) error {
	payload, err := json.Marshal(shipmentDoc{
		OrderID:       sh.OrderID,
		UserID:        sh.UserID,
		Description:   sh.Description,
		Fee:           sh.Fee,
		Status:        sh.Status,
		EventID:       sh.EventID,
		CorrelationID: sh.CorrelationID,
		OrderedAt:     sh.OrderedAt.UTC(),
		UpdatedAt:     sh.UpdatedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal shipment: %w", err)
	}

	res, err := s.client.Index(
		s.index,
		bytes.NewReader(payload),
		s.client.Index.WithDocumentID(strconv.FormatInt(sh.OrderID, 10)),
		s.client.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index error: %s", res.String())
	}
	return nil
}

func (s *ShipmentStore) Get(ctx context.Context, orderID int64) (shipment.Shipment, error) {
	res, err := s.client.Get(
		s.index,
		strconv.FormatInt(orderID, 10),
		s.client.Get.WithContext(ctx),
	)
	if err != nil {
		return shipment.Shipment{}, fmt.Errorf("get: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return shipment.Shipment{}, shipment.ErrNotFound
	}
	if res.IsError() {
		return shipment.Shipment{}, fmt.Errorf("get error: %s", res.String())
	}

	var hit struct {
		Found  bool        `json:"found"`
		Source shipmentDoc `json:"_source"`
	}
	if err := json.NewDecoder(res.Body).Decode(&hit); err != nil {
		return shipment.Shipment{}, fmt.Errorf("decode get: %w", err)
	}
	if !hit.Found {
		return shipment.Shipment{}, shipment.ErrNotFound
	}

	doc := hit.Source
	return shipment.Shipment{
		OrderID:       doc.OrderID,
		UserID:        doc.UserID,
		Description:   doc.Description,
		Fee:           doc.Fee,
		Status:        doc.Status,
		EventID:       doc.EventID,
		CorrelationID: doc.CorrelationID,
		OrderedAt:     doc.OrderedAt,
		UpdatedAt:     doc.UpdatedAt,
	}, nil
}
