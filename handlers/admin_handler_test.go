package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/edustack/admin-api/models"
	"github.com/edustack/admin-api/repositories"
	"github.com/edustack/admin-api/services"
	"github.com/edustack/admin-api/token"
)

func newAdminHandler(repo repositories.UserRepository) *AdminHandler {
	codec := token.NewCodec([]byte("test-secret"), time.Hour)
	accounts := services.NewAccountService(repo, codec, zap.NewNop())
	return NewAdminHandler(accounts, zap.NewNop())
}

// withURLParam injects a chi URL parameter into the request context
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestHandleCreateSubAdmin(t *testing.T) {
	t.Run("creates sub-admin and returns 201", func(t *testing.T) {
		repo := new(MockUserRepository)
		handler := newAdminHandler(repo)

		repo.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil)

		body, _ := json.Marshal(CreateSubAdminRequest{
			Name:        "Sub One",
			Email:       "sub1@example.com",
			Password:    "Sub@123",
			Permissions: models.Permissions{Dashboard: true, ViewData: true},
		})
		req := httptest.NewRequest(http.MethodPost, "/admin/sub-admin", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		handler.HandleCreateSubAdmin(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)

		var resp struct {
			Data models.User `json:"data"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, models.RoleSubAdmin, resp.Data.Role)
		assert.True(t, resp.Data.Permissions.Dashboard)
		assert.False(t, resp.Data.Permissions.ContentEditing)
	})

	t.Run("duplicate email returns 400", func(t *testing.T) {
		repo := new(MockUserRepository)
		handler := newAdminHandler(repo)

		repo.On("Create", mock.Anything, mock.Anything).
			Return(repositories.ErrDuplicateEmail)

		body, _ := json.Marshal(CreateSubAdminRequest{
			Name:     "Sub",
			Email:    "taken@example.com",
			Password: "Sub@123",
		})
		req := httptest.NewRequest(http.MethodPost, "/admin/sub-admin", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		handler.HandleCreateSubAdmin(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("absent permissions default to all false", func(t *testing.T) {
		repo := new(MockUserRepository)
		handler := newAdminHandler(repo)

		repo.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil)

		req := httptest.NewRequest(http.MethodPost, "/admin/sub-admin",
			bytes.NewReader([]byte(`{"name":"Sub","email":"sub@example.com","password":"Sub@123"}`)))
		rec := httptest.NewRecorder()

		handler.HandleCreateSubAdmin(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)

		var resp struct {
			Data models.User `json:"data"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, models.Permissions{}, resp.Data.Permissions)
	})
}

func TestHandleListSubAdmins(t *testing.T) {
	repo := new(MockUserRepository)
	handler := newAdminHandler(repo)

	subs := []*models.User{
		models.NewSubAdmin("Sub One", "sub1@example.com", "hash", models.Permissions{Dashboard: true}),
		models.NewSubAdmin("Sub Two", "sub2@example.com", "hash", models.Permissions{}),
	}
	repo.On("ListSubAdmins", mock.Anything).Return(subs, nil)

	req := httptest.NewRequest(http.MethodGet, "/admin/sub-admins", nil)
	rec := httptest.NewRecorder()

	handler.HandleListSubAdmins(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []models.User `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp.Data, 2)
	assert.Equal(t, "sub1@example.com", resp.Data[0].Email)
}

func TestHandleGetSubAdmin(t *testing.T) {
	t.Run("returns sub-admin by id", func(t *testing.T) {
		repo := new(MockUserRepository)
		handler := newAdminHandler(repo)

		sub := models.NewSubAdmin("Sub", "sub@example.com", "hash", models.Permissions{ViewData: true})
		repo.On("GetSubAdminByID", mock.Anything, sub.ID).Return(sub, nil)

		req := httptest.NewRequest(http.MethodGet, "/admin/sub-admin/"+sub.ID.String(), nil)
		req = withURLParam(req, "id", sub.ID.String())
		rec := httptest.NewRecorder()

		handler.HandleGetSubAdmin(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Data models.User `json:"data"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, sub.ID, resp.Data.ID)
		assert.True(t, resp.Data.Permissions.ViewData)
	})

	t.Run("unknown id returns 404", func(t *testing.T) {
		repo := new(MockUserRepository)
		handler := newAdminHandler(repo)

		id := uuid.New()
		repo.On("GetSubAdminByID", mock.Anything, id).
			Return(nil, repositories.ErrNotFound)

		req := httptest.NewRequest(http.MethodGet, "/admin/sub-admin/"+id.String(), nil)
		req = withURLParam(req, "id", id.String())
		rec := httptest.NewRecorder()

		handler.HandleGetSubAdmin(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed id returns 400", func(t *testing.T) {
		repo := new(MockUserRepository)
		handler := newAdminHandler(repo)

		req := httptest.NewRequest(http.MethodGet, "/admin/sub-admin/not-a-uuid", nil)
		req = withURLParam(req, "id", "not-a-uuid")
		rec := httptest.NewRecorder()

		handler.HandleGetSubAdmin(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		repo.AssertNotCalled(t, "GetSubAdminByID")
	})
}

func TestHandleUpdateSubAdmin(t *testing.T) {
	t.Run("applies only supplied fields", func(t *testing.T) {
		repo := new(MockUserRepository)
		handler := newAdminHandler(repo)

		existing := models.NewSubAdmin("Old Name", "old@example.com", "hash", models.Permissions{Dashboard: true})
		repo.On("GetSubAdminByID", mock.Anything, existing.ID).Return(existing, nil)
		repo.On("UpdateSubAdmin", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil)

		body := []byte(`{"name":"New Name"}`)
		req := httptest.NewRequest(http.MethodPut, "/admin/sub-admin/"+existing.ID.String(), bytes.NewReader(body))
		req = withURLParam(req, "id", existing.ID.String())
		rec := httptest.NewRecorder()

		handler.HandleUpdateSubAdmin(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Data models.User `json:"data"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "New Name", resp.Data.Name)
		assert.Equal(t, "old@example.com", resp.Data.Email)
		assert.True(t, resp.Data.Permissions.Dashboard)
	})

	t.Run("unknown id returns 404", func(t *testing.T) {
		repo := new(MockUserRepository)
		handler := newAdminHandler(repo)

		id := uuid.New()
		repo.On("GetSubAdminByID", mock.Anything, id).
			Return(nil, repositories.ErrNotFound)

		req := httptest.NewRequest(http.MethodPut, "/admin/sub-admin/"+id.String(), bytes.NewReader([]byte(`{}`)))
		req = withURLParam(req, "id", id.String())
		rec := httptest.NewRecorder()

		handler.HandleUpdateSubAdmin(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHandleDeleteSubAdmin(t *testing.T) {
	t.Run("deletes sub-admin and returns 200", func(t *testing.T) {
		repo := new(MockUserRepository)
		handler := newAdminHandler(repo)

		id := uuid.New()
		repo.On("DeleteSubAdmin", mock.Anything, id).Return(nil)

		req := httptest.NewRequest(http.MethodDelete, "/admin/sub-admin/"+id.String(), nil)
		req = withURLParam(req, "id", id.String())
		rec := httptest.NewRecorder()

		handler.HandleDeleteSubAdmin(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unknown id returns 404", func(t *testing.T) {
		repo := new(MockUserRepository)
		handler := newAdminHandler(repo)

		id := uuid.New()
		repo.On("DeleteSubAdmin", mock.Anything, id).
			Return(repositories.ErrNotFound)

		req := httptest.NewRequest(http.MethodDelete, "/admin/sub-admin/"+id.String(), nil)
		req = withURLParam(req, "id", id.String())
		rec := httptest.NewRecorder()

		handler.HandleDeleteSubAdmin(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
