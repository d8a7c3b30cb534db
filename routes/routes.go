package routes

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/edustack/admin-api/app"
	"github.com/edustack/admin-api/handlers"
	"github.com/edustack/admin-api/models"
)

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// CORS middleware, restricted to the configured client origin.
	// AllowCredentials is required for the auth cookie.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{deps.Config.CORS.ClientOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	var rawDB *sql.DB
	if deps.DB != nil {
		rawDB = deps.DB.DB
	}
	healthHandler := handlers.NewHealthHandler(rawDB, deps.Logger)
	authHandler := handlers.NewAuthHandler(deps.Accounts, deps.Codec.TTL(), deps.Config.IsProduction(), deps.Logger)
	adminHandler := handlers.NewAdminHandler(deps.Accounts, deps.Logger)
	featureHandler := handlers.NewFeatureHandler(deps.Logger)

	// Health check endpoints
	r.Get("/healthz", healthHandler.HandleHealth)
	r.Get("/readyz", healthHandler.HandleReadiness)

	// Auth endpoints (public)
	r.Route("/auth", func(r chi.Router) {
		r.Post("/admin/signup", authHandler.HandleSignupAdmin)
		r.Post("/login", authHandler.HandleLogin)
		r.Post("/logout", authHandler.HandleLogout)
	})

	// Permission-gated feature endpoints
	r.Route("/features", func(r chi.Router) {
		r.Use(deps.AuthMiddleware.RequireAuth)
		r.With(deps.AuthMiddleware.RequirePermission(models.PermissionDashboard)).
			Get("/dashboard", featureHandler.HandleDashboard)
		r.With(deps.AuthMiddleware.RequirePermission(models.PermissionCollegeManagement)).
			Get("/colleges", featureHandler.HandleColleges)
		r.With(deps.AuthMiddleware.RequirePermission(models.PermissionContentEditing)).
			Post("/content", featureHandler.HandleContent)
		r.With(deps.AuthMiddleware.RequirePermission(models.PermissionViewData)).
			Get("/data", featureHandler.HandleData)
	})

	// Sub-admin management (require admin role)
	r.Route("/admin", func(r chi.Router) {
		r.Use(deps.AuthMiddleware.RequireAuth)
		r.Use(deps.AuthMiddleware.RequireRole(models.RoleAdmin))
		r.Post("/sub-admin", adminHandler.HandleCreateSubAdmin)
		r.Get("/sub-admins", adminHandler.HandleListSubAdmins)
		r.Get("/sub-admin/{id}", adminHandler.HandleGetSubAdmin)
		r.Put("/sub-admin/{id}", adminHandler.HandleUpdateSubAdmin)
		r.Delete("/sub-admin/{id}", adminHandler.HandleDeleteSubAdmin)
	})

	// 404 handler
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"endpoint not found"}`))
	})

	return r
}
