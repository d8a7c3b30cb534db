package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/edustack/admin-api/models"
	"github.com/edustack/admin-api/services"
	"github.com/edustack/admin-api/utils"
)

// CreateSubAdminRequest represents a request to create a sub-admin.
// Permission flags absent from the body default to false.
type CreateSubAdminRequest struct {
	Name        string             `json:"name" validate:"required"`
	Email       string             `json:"email" validate:"required,email"`
	Password    string             `json:"password" validate:"required,min=6"`
	Permissions models.Permissions `json:"permissions"`
}

// UpdateSubAdminRequest represents a request to update a sub-admin.
// Nil fields are left untouched; role can never be changed.
type UpdateSubAdminRequest struct {
	Name        *string             `json:"name,omitempty"`
	Email       *string             `json:"email,omitempty" validate:"omitempty,email"`
	Permissions *models.Permissions `json:"permissions,omitempty"`
}

// AdminHandler handles sub-admin management HTTP requests.
// Every route using it is wired behind RequireAuth + RequireRole(admin).
type AdminHandler struct {
	accounts *services.AccountService
	logger   *zap.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(accounts *services.AccountService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		accounts: accounts,
		logger:   logger,
	}
}

// HandleCreateSubAdmin handles POST /admin/sub-admin
func (h *AdminHandler) HandleCreateSubAdmin(w http.ResponseWriter, r *http.Request) {
	var req CreateSubAdminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	sub, err := h.accounts.CreateSubAdmin(r.Context(), req.Name, req.Email, req.Password, req.Permissions)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteCreated(w, sub)
}

// HandleListSubAdmins handles GET /admin/sub-admins
func (h *AdminHandler) HandleListSubAdmins(w http.ResponseWriter, r *http.Request) {
	subs, err := h.accounts.ListSubAdmins(r.Context())
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, subs)
}

// HandleGetSubAdmin handles GET /admin/sub-admin/{id}
func (h *AdminHandler) HandleGetSubAdmin(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	sub, err := h.accounts.GetSubAdmin(r.Context(), id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, sub)
}

// HandleUpdateSubAdmin handles PUT /admin/sub-admin/{id}
func (h *AdminHandler) HandleUpdateSubAdmin(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	var req UpdateSubAdminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	sub, err := h.accounts.UpdateSubAdmin(r.Context(), id, services.UpdateSubAdminInput{
		Name:        req.Name,
		Email:       req.Email,
		Permissions: req.Permissions,
	})
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, sub)
}

// HandleDeleteSubAdmin handles DELETE /admin/sub-admin/{id}
func (h *AdminHandler) HandleDeleteSubAdmin(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	if err := h.accounts.DeleteSubAdmin(r.Context(), id); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteMessage(w, "Sub-admin deleted")
}

// parseID extracts and parses the {id} URL parameter. A malformed id is
// a client error, reported as 400 before any store access.
func (h *AdminHandler) parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		_ = utils.WriteBadRequest(w, "Invalid id format", nil)
		return uuid.Nil, false
	}
	return id, true
}
