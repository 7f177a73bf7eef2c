package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fitmi/fitmi-backend/internal/handlers"
)

// SetupRoutes wires the HTTP boundary. requireAuth guards every route that
// needs a verified bearer token.
func SetupRoutes(r *chi.Mux, auth *handlers.AuthHandler, records *handlers.RecordHandler, requireAuth func(http.Handler) http.Handler) {
	// Public auth routes
	r.Post("/api/register", auth.Register)
	r.Post("/api/login", auth.Login)

	// Protected routes
	r.Group(func(pr chi.Router) {
		pr.Use(requireAuth)

		pr.Get("/api/me", auth.GetMe)
		pr.Post("/api/logout", auth.Logout)
		pr.Put("/api/users/{id}", auth.UpdateUser)
		pr.Post("/api/users/{id}/photo", auth.UploadPhoto)

		pr.Route("/api/health-records", func(hr chi.Router) {
			hr.Get("/{userId}", records.List)
			hr.Post("/{userId}", records.Create)
			hr.Get("/{userId}/{id}", records.Get)
			hr.Put("/{userId}/{id}", records.Update)
			hr.Delete("/{userId}/{id}", records.Delete)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"success":false,"message":"Route not found"}`))
	})
}
