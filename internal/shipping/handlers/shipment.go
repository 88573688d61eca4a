package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"ecommerce-mesh/internal/shipping/domain/shipment"

	"github.com/gin-gonic/gin"
)

type ShipmentHandler struct {
	service *shipment.Service
}

func NewShipmentHandler(s *shipment.Service) *ShipmentHandler {
	return &ShipmentHandler{service: s}
}

type shipmentResponse struct {
	OrderID       int64           `json:"order_id"`
	UserID        int64           `json:"user_id"`
	Description   string          `json:"description,omitempty"`
	Fee           float64         `json:"fee"`
	Status        shipment.Status `json:"status"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	OrderedAt     time.Time       `json:"ordered_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (h *ShipmentHandler) Get(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("order_id"), 10, 64)
	if err != nil || orderID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid order id"})
		return
	}

	sh, err := h.service.Get(c.Request.Context(), orderID)
	if err != nil {
		if errors.Is(err, shipment.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, shipmentResponse{
		OrderID:       sh.OrderID,
		UserID:        sh.UserID,
		Description:   sh.Description,
		Fee:           sh.Fee,
		Status:        sh.Status,
		CorrelationID: sh.CorrelationID,
		OrderedAt:     sh.OrderedAt,
		UpdatedAt:     sh.UpdatedAt,
	})
}
