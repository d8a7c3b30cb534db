package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/edustack/admin-api/middleware"
	"github.com/edustack/admin-api/utils"
)

// FeatureResponse is the payload of the permission-gated feature routes
type FeatureResponse struct {
	Feature string `json:"feature"`
	Email   string `json:"email"`
	Role    string `json:"role"`
}

// ContentRequest represents a content editing request
type ContentRequest struct {
	Title string `json:"title" validate:"required"`
	Body  string `json:"body" validate:"required"`
}

// FeatureHandler serves the permission-gated feature routes. The routes
// themselves carry no business logic; reaching the handler at all is the
// point, since the permission gate runs before it.
type FeatureHandler struct {
	logger *zap.Logger
}

// NewFeatureHandler creates a new FeatureHandler
func NewFeatureHandler(logger *zap.Logger) *FeatureHandler {
	return &FeatureHandler{logger: logger}
}

// HandleDashboard handles GET /features/dashboard
func (h *FeatureHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	h.respondFeature(w, r, "dashboard")
}

// HandleColleges handles GET /features/colleges
func (h *FeatureHandler) HandleColleges(w http.ResponseWriter, r *http.Request) {
	h.respondFeature(w, r, "collegeManagement")
}

// HandleContent handles POST /features/content
func (h *FeatureHandler) HandleContent(w http.ResponseWriter, r *http.Request) {
	var req ContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	h.logger.Info("content edited", zap.String("title", req.Title))
	h.respondFeature(w, r, "contentEditing")
}

// HandleData handles GET /features/data
func (h *FeatureHandler) HandleData(w http.ResponseWriter, r *http.Request) {
	h.respondFeature(w, r, "viewData")
}

func (h *FeatureHandler) respondFeature(w http.ResponseWriter, r *http.Request, feature string) {
	identity := middleware.GetIdentityFromContext(r.Context())
	if identity == nil {
		_ = utils.WriteUnauthorized(w, "")
		return
	}

	_ = utils.WriteOK(w, FeatureResponse{
		Feature: feature,
		Email:   identity.Email,
		Role:    string(identity.Role),
	})
}
