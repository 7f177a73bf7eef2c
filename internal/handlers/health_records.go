package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fitmi/fitmi-backend/internal/middleware"
	"github.com/fitmi/fitmi-backend/internal/services"
)

// RecordRequest is the create/update payload for a health reading. All
// metric fields are required; pointers distinguish absent from zero.
type RecordRequest struct {
	Date            string   `json:"date"`
	BodyTemperature *float64 `json:"bodyTemperature"`
	BloodPressure   *struct {
		Systolic  *float64 `json:"systolic"`
		Diastolic *float64 `json:"diastolic"`
	} `json:"bloodPressure"`
	HeartRate *float64 `json:"heartRate"`
	BMI       *float64 `json:"bmi"`
}

type RecordHandler struct {
	records *services.RecordService
}

func NewRecordHandler(records *services.RecordService) *RecordHandler {
	return &RecordHandler{records: records}
}

// ownerID returns the authenticated owner id when it matches the userId path
// parameter. The owner identity always comes from the verified token; the
// path value is only ever compared against it.
func ownerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return "", false
	}
	if chi.URLParam(r, "userId") != claims.UserID {
		writeError(w, http.StatusForbidden, "You can only access your own health records")
		return "", false
	}
	return claims.UserID, true
}

func parseRecordDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// readingInput validates a RecordRequest and converts it into the service
// input. Returns a client-facing message when validation fails.
func readingInput(req *RecordRequest) (services.ReadingInput, string) {
	if req.Date == "" || req.BodyTemperature == nil || req.BloodPressure == nil ||
		req.BloodPressure.Systolic == nil || req.BloodPressure.Diastolic == nil ||
		req.HeartRate == nil || req.BMI == nil {
		return services.ReadingInput{}, "All fields are required"
	}

	date, err := parseRecordDate(req.Date)
	if err != nil {
		return services.ReadingInput{}, "Date must be a valid calendar date"
	}

	return services.ReadingInput{
		Date:            date,
		BodyTemperature: *req.BodyTemperature,
		Systolic:        *req.BloodPressure.Systolic,
		Diastolic:       *req.BloodPressure.Diastolic,
		HeartRate:       *req.HeartRate,
		BMI:             *req.BMI,
	}, ""
}

// List handles GET /api/health-records/{userId}. Supports optional search,
// sort and order query parameters.
func (h *RecordHandler) List(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	opts := services.ListOptions{
		Search: r.URL.Query().Get("search"),
		Sort:   r.URL.Query().Get("sort"),
		Order:  r.URL.Query().Get("order"),
	}

	records, err := h.records.List(r.Context(), owner, opts)
	if err != nil {
		writeInternalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, records)
}

// Create handles POST /api/health-records/{userId}.
func (h *RecordHandler) Create(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	var req RecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	in, msg := readingInput(&req)
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	rec, err := h.records.Create(r.Context(), owner, in)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			writeError(w, http.StatusBadRequest, validationMessage(err, "All fields are required"))
			return
		}
		writeInternalError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, rec)
}

// Get handles GET /api/health-records/{userId}/{id}.
func (h *RecordHandler) Get(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	rec, err := h.records.Get(r.Context(), owner, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Record not found")
			return
		}
		writeInternalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

// Update handles PUT /api/health-records/{userId}/{id}. The metric fields
// are replaced wholesale.
func (h *RecordHandler) Update(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	var req RecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	in, msg := readingInput(&req)
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	rec, err := h.records.Update(r.Context(), owner, chi.URLParam(r, "id"), in)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			writeError(w, http.StatusNotFound, "Record not found")
		case errors.Is(err, services.ErrValidation):
			writeError(w, http.StatusBadRequest, validationMessage(err, "All fields are required"))
		default:
			writeInternalError(w, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

// Delete handles DELETE /api/health-records/{userId}/{id}.
func (h *RecordHandler) Delete(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	if err := h.records.Delete(r.Context(), owner, chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Record not found")
			return
		}
		writeInternalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Record deleted successfully",
	})
}
