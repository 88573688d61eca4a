package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"ecommerce-mesh/internal/features/domain/feature"

	"github.com/gin-gonic/gin"
)

type FeatureHandler struct {
	service *feature.Service
}

func NewFeatureHandler(s *feature.Service) *FeatureHandler {
	return &FeatureHandler{service: s}
}

type createRequest struct {
	Name        string `json:"name" binding:"required"`
	Enabled     bool   `json:"enabled"`
	Description string `json:"description" binding:"max=500"`
	Environment string `json:"environment"`
}

type updateRequest struct {
	Name        *string `json:"name"`
	Enabled     *bool   `json:"enabled"`
	Description *string `json:"description"`
	Environment *string `json:"environment"`
}

type listQuery struct {
	Environment string `form:"environment"`
	Enabled     *bool  `form:"enabled"`
}

type featureResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Enabled     bool      `json:"enabled"`
	Description string    `json:"description"`
	Environment string    `json:"environment"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toResponse(f feature.Feature) featureResponse {
	return featureResponse{
		ID:          f.ID,
		Name:        f.Name,
		Enabled:     f.Enabled,
		Description: f.Description,
		Environment: f.Environment,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

// List serves GET /api/features and GET /api/features/environment/:environment.
func (h *FeatureHandler) List(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if env := c.Param("environment"); env != "" {
		q.Environment = env
	}

	features, err := h.service.FindAll(c.Request.Context(), feature.Query{Environment: q.Environment, Enabled: q.Enabled})
	if err != nil {
		writeError(c, err)
		return
	}

	res := make([]featureResponse, 0, len(features))
	for _, f := range features {
		res = append(res, toResponse(f))
	}
	c.JSON(http.StatusOK, res)
}

func (h *FeatureHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	f, err := h.service.FindByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(f))
}

// Check serves GET /api/features/check/:name?environment=stage.
func (h *FeatureHandler) Check(c *gin.Context) {
	enabled, err := h.service.IsEnabled(c.Request.Context(), c.Param("name"), c.Query("environment"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"enabled": enabled})
}

func (h *FeatureHandler) Create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	f, err := h.service.Create(c.Request.Context(), feature.Feature{
		Name:        req.Name,
		Enabled:     req.Enabled,
		Description: req.Description,
		Environment: req.Environment,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toResponse(f))
}

func (h *FeatureHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	f, err := h.service.Update(c.Request.Context(), id, feature.Patch{
		Name:        req.Name,
		Enabled:     req.Enabled,
		Description: req.Description,
		Environment: req.Environment,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(f))
}

// Enable serves PUT /api/features/:feature/enable where :feature is the toggle name.
func (h *FeatureHandler) Enable(c *gin.Context) {
	h.setEnabled(c, true)
}

// Disable serves PUT /api/features/:feature/disable where :feature is the toggle name.
func (h *FeatureHandler) Disable(c *gin.Context) {
	h.setEnabled(c, false)
}

func (h *FeatureHandler) setEnabled(c *gin.Context, enabled bool) {
	f, err := h.service.SetEnabled(c.Request.Context(), c.Param("feature"), c.Query("environment"), enabled)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(f))
}

func (h *FeatureHandler) Delete(c *gin.Context) {
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

// The id and name routes share one wildcard, so the segment is named :feature.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("feature"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid feature id"})
		return 0, false
	}
	return id, true
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, feature.ErrInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, feature.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
	case errors.Is(err, feature.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"message": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
	}
}
