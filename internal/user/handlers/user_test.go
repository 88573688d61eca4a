package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ecommerce-mesh/internal/user/domain/user"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(t *testing.T) (*gin.Engine, *user.MockRepo) {
	t.Helper()
	repo := user.NewMockRepo(gomock.NewController(t))
	h := NewUserHandler(user.NewService(repo))

	engine := gin.New()
	engine.GET("/api/users", h.List)
	engine.GET("/api/users/:id", h.Get)
	engine.POST("/api/users", h.Create)
	engine.PUT("/api/users/:id", h.Update)
	engine.DELETE("/api/users/:id", h.Delete)
	return engine, repo
}

func TestUserHandler_Get(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		engine, repo := newEngine(t)
		repo.EXPECT().FindByID(gomock.Any(), int64(7)).Return(user.User{ID: 7, FirstName: "Ada", Email: "ada@example.com"}, nil)

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/users/7", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, float64(7), body["id"])
		assert.Equal(t, "Ada", body["first_name"])
	})

	t.Run("not found", func(t *testing.T) {
		engine, repo := newEngine(t)
		repo.EXPECT().FindByID(gomock.Any(), int64(7)).Return(user.User{}, user.ErrNotFound)

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/users/7", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("bad id", func(t *testing.T) {
		engine, _ := newEngine(t)

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/users/abc", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestUserHandler_List(t *testing.T) {
	engine, repo := newEngine(t)
	repo.EXPECT().FindAll(gomock.Any(), user.Query{IDs: []int64{1, 2}, Limit: 2}).
		Return([]user.User{{ID: 1}, {ID: 2}}, nil)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/users?id=1&id=2&limit=2", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body, 2)
}

func TestUserHandler_Create(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		engine, repo := newEngine(t)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).
			Return(user.User{ID: 3, FirstName: "Ada", Email: "ada@example.com"}, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/users",
			strings.NewReader(`{"first_name":"Ada","email":"ada@example.com"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		engine, _ := newEngine(t)

		req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(`{"last_name":"X"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid email from domain", func(t *testing.T) {
		engine, _ := newEngine(t)

		req := httptest.NewRequest(http.MethodPost, "/api/users",
			strings.NewReader(`{"first_name":"Ada","email":"nope"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("duplicate email", func(t *testing.T) {
		engine, repo := newEngine(t)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(user.User{}, user.ErrConflict)

		req := httptest.NewRequest(http.MethodPost, "/api/users",
			strings.NewReader(`{"first_name":"Ada","email":"ada@example.com"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestUserHandler_Delete(t *testing.T) {
	engine, repo := newEngine(t)
	repo.EXPECT().Delete(gomock.Any(), int64(4)).Return(nil)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/users/4", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
}
