package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"ecommerce-mesh/internal/order/domain/order"
	"ecommerce-mesh/internal/shared/dto"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	service *order.Service
}

func NewOrderHandler(s *order.Service) *OrderHandler {
	return &OrderHandler{service: s}
}

type orderRequest struct {
	UserID      int64     `json:"user_id" binding:"required"`
	Description string    `json:"description"`
	Fee         float64   `json:"fee"`
	OrderedAt   time.Time `json:"ordered_at"`
}

func (r orderRequest) toEntity() order.Order {
	return order.Order{
		UserID:      r.UserID,
		Description: r.Description,
		Fee:         r.Fee,
		OrderedAt:   r.OrderedAt,
	}
}

type listQuery struct {
	UserIDs []int64 `form:"user_id"`
	Limit   int     `form:"limit" binding:"omitempty,min=1"`
}

type orderResponse struct {
	ID          int64        `json:"id"`
	UserID      int64        `json:"user_id"`
	Description string       `json:"description"`
	Fee         float64      `json:"fee"`
	OrderedAt   time.Time    `json:"ordered_at"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	User        *dto.UserDTO `json:"user,omitempty"`
}

func toResponse(v order.View) orderResponse {
	return orderResponse{
		ID:          v.ID,
		UserID:      v.UserID,
		Description: v.Description,
		Fee:         v.Fee,
		OrderedAt:   v.OrderedAt,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
		User:        v.User,
	}
}

func (h *OrderHandler) List(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	views, err := h.service.FindAll(c.Request.Context(), order.Query{UserIDs: q.UserIDs, Limit: q.Limit})
	if err != nil {
		writeError(c, err)
		return
	}

	res := make([]orderResponse, 0, len(views))
	for _, v := range views {
		res = append(res, toResponse(v))
	}
	c.JSON(http.StatusOK, res)
}

func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	view, err := h.service.FindByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(view))
}

func (h *OrderHandler) Create(c *gin.Context) {
	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	view, err := h.service.Create(c.Request.Context(), req.toEntity())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toResponse(view))
}

func (h *OrderHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	view, err := h.service.Update(c.Request.Context(), id, req.toEntity())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(view))
}

func (h *OrderHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid order id"})
		return 0, false
	}
	return id, true
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, order.ErrInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, order.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
	}
}
