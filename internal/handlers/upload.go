package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fitmi/fitmi-backend/internal/config"
	"github.com/fitmi/fitmi-backend/internal/middleware"
	"github.com/fitmi/fitmi-backend/internal/services"
)

var cloudinaryService *services.CloudinaryService

func InitCloudinaryService(cfg *config.Config) error {
	service, err := services.NewCloudinaryService(
		cfg.CloudinaryName,
		cfg.CloudinaryAPIKey,
		cfg.CloudinaryAPISecret,
	)
	if err != nil {
		return err
	}
	cloudinaryService = service
	return nil
}

// UploadPhoto handles POST /api/users/{id}/photo: uploads a profile photo to
// Cloudinary and stores its URL on the profile.
func (h *AuthHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	if chi.URLParam(r, "id") != claims.UserID {
		writeError(w, http.StatusForbidden, "You can only update your own profile")
		return
	}

	if cloudinaryService == nil {
		writeError(w, http.StatusServiceUnavailable, "Photo uploads are not available")
		return
	}

	// Parse multipart form (max 5MB)
	if err := r.ParseMultipartForm(5 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	_, fileHeader, err := r.FormFile("photo")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No photo provided")
		return
	}

	url, err := cloudinaryService.UploadFileFromHeader(r.Context(), fileHeader, "fitmi/profiles")
	if err != nil {
		writeInternalError(w, err)
		return
	}

	user, err := h.auth.SetPhotoURL(r.Context(), claims.UserID, url)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		writeInternalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{
		Success: true,
		Message: "Photo uploaded successfully",
		User:    user.PublicProfile(),
	})
}
