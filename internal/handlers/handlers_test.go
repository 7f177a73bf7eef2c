package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fitmi/fitmi-backend/internal/handlers"
	"github.com/fitmi/fitmi-backend/internal/middleware"
	"github.com/fitmi/fitmi-backend/internal/models"
	"github.com/fitmi/fitmi-backend/internal/routes"
	"github.com/fitmi/fitmi-backend/internal/services"
)

// In-memory stores so the full HTTP stack runs without Postgres, Mongo or
// Redis.

type memUserStore struct {
	mu    sync.Mutex
	users map[string]models.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[string]models.User)}
}

func (s *memUserStore) Insert(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return services.ErrDuplicateEmail
		}
	}
	s.users[user.ID] = *user
	return nil
}

func (s *memUserStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, services.ErrNotFound
	}
	return &u, nil
}

func (s *memUserStore) GetByEmailOrName(ctx context.Context, identity string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, identity) || u.Name == identity {
			u := u
			return &u, nil
		}
	}
	return nil, services.ErrNotFound
}

func (s *memUserStore) EmailInUse(ctx context.Context, email, excludeID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID != excludeID && strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (s *memUserStore) Update(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return services.ErrNotFound
	}
	s.users[user.ID] = *user
	return nil
}

type memRecordStore struct {
	mu      sync.Mutex
	records []models.HealthRecord
}

func (s *memRecordStore) Insert(ctx context.Context, rec *models.HealthRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.ID.IsZero() {
		rec.ID = primitive.NewObjectID()
	}
	s.records = append(s.records, *rec)
	return nil
}

func (s *memRecordStore) ListByUser(ctx context.Context, userID string) ([]models.HealthRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.HealthRecord{}
	for _, r := range s.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *memRecordStore) Get(ctx context.Context, userID, id string) (*models.HealthRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records {
		if r.UserID == userID && r.ID.Hex() == id {
			r := r
			return &r, nil
		}
	}
	return nil, services.ErrNotFound
}

func (s *memRecordStore) Replace(ctx context.Context, rec *models.HealthRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.records {
		if r.UserID == rec.UserID && r.ID == rec.ID {
			s.records[i] = *rec
			return nil
		}
	}
	return services.ErrNotFound
}

func (s *memRecordStore) Delete(ctx context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.records {
		if r.UserID == userID && r.ID.Hex() == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return nil
		}
	}
	return services.ErrNotFound
}

type memDenylist struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func (d *memDenylist) Add(ctx context.Context, jti string, ttl time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.revoked == nil {
		d.revoked = make(map[string]bool)
	}
	d.revoked[jti] = true
	return nil
}

func (d *memDenylist) Contains(ctx context.Context, jti string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.revoked[jti], nil
}

// newTestServer wires the full router over in-memory stores.
func newTestServer() *chi.Mux {
	tokens := services.NewTokenService("test-secret", time.Hour, &memDenylist{})
	auth := services.NewAuthService(newMemUserStore(), tokens)
	records := services.NewRecordService(&memRecordStore{}, nil)

	r := chi.NewRouter()
	routes.SetupRoutes(r,
		handlers.NewAuthHandler(auth, tokens),
		handlers.NewRecordHandler(records),
		middleware.RequireAuth(tokens),
	)
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), dest))
}

func annPayload() map[string]interface{} {
	return map[string]interface{}{
		"name":     "Ann",
		"email":    "a@x.com",
		"password": "p",
		"gender":   "female",
		"height":   160,
		"weight":   55,
	}
}

// registerAndLogin creates Ann and returns her id and bearer token.
func registerAndLogin(t *testing.T, r http.Handler) (string, string) {
	t.Helper()
	return registerAndLoginAs(t, r, annPayload())
}

func registerAndLoginAs(t *testing.T, r http.Handler, payload map[string]interface{}) (string, string) {
	t.Helper()

	rr := doJSON(t, r, http.MethodPost, "/api/register", "", payload)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var reg struct {
		User struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	decodeBody(t, rr, &reg)

	rr = doJSON(t, r, http.MethodPost, "/api/login", "", map[string]interface{}{
		"username": payload["email"],
		"password": payload["password"],
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var login struct {
		Token string `json:"token"`
	}
	decodeBody(t, rr, &login)
	require.NotEmpty(t, login.Token)

	return reg.User.ID, login.Token
}

func sampleRecordPayload(date string) map[string]interface{} {
	return map[string]interface{}{
		"date":            date,
		"bodyTemperature": 98.6,
		"bloodPressure":   map[string]interface{}{"systolic": 120, "diastolic": 80},
		"heartRate":       72,
		"bmi":             22.5,
	}
}
