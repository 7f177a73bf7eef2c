package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitmi/fitmi-backend/internal/models"
	"github.com/fitmi/fitmi-backend/pkg/utils"
)

// memUserStore is an in-memory UserStore for tests.
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
			return ErrDuplicateEmail
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
		return nil, ErrNotFound
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
	return nil, ErrNotFound
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
		return ErrNotFound
	}
	s.users[user.ID] = *user
	return nil
}

func newTestAuthService() (*AuthService, *memUserStore, *TokenService) {
	store := newMemUserStore()
	tokens := NewTokenService("test-secret", time.Hour, nil)
	return NewAuthService(store, tokens), store, tokens
}

func annInput() RegisterInput {
	return RegisterInput{
		Name:     "Ann",
		Email:    "a@x.com",
		Password: "p",
		Gender:   models.GenderFemale,
		Height:   160,
		Weight:   55,
	}
}

func TestRegister(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestAuthService()

	user, err := svc.Register(context.Background(), annInput())
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "a@x.com", user.Email)
	assert.Equal(t, "Ann", user.Name)
	assert.NotEqual(t, "p", user.PasswordHash)

	ok, err := utils.VerifyPassword("p", user.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok, "stored hash verifies against the original password")

	// The public profile never carries the hash
	_, exposed := user.PublicProfile()["password"]
	assert.False(t, exposed)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	t.Parallel()

	svc, store, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, annInput())
	require.NoError(t, err)

	in := annInput()
	in.Name = "Other Ann"
	_, err = svc.Register(ctx, in)
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	// No second account was created
	assert.Len(t, store.users, 1)
}

func TestRegister_Validation(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	cases := map[string]func(*RegisterInput){
		"missing name":     func(in *RegisterInput) { in.Name = "" },
		"missing email":    func(in *RegisterInput) { in.Email = "" },
		"missing password": func(in *RegisterInput) { in.Password = "" },
		"missing gender":   func(in *RegisterInput) { in.Gender = "" },
		"bad gender":       func(in *RegisterInput) { in.Gender = "robot" },
		"negative height":  func(in *RegisterInput) { in.Height = -1 },
		"negative weight":  func(in *RegisterInput) { in.Weight = -1 },
	}
	for name, mutate := range cases {
		in := annInput()
		mutate(&in)
		_, err := svc.Register(ctx, in)
		assert.ErrorIs(t, err, ErrValidation, name)
	}
}

func TestLogin_ByEmailAndByName(t *testing.T) {
	t.Parallel()

	svc, _, tokens := newTestAuthService()
	ctx := context.Background()

	registered, err := svc.Register(ctx, annInput())
	require.NoError(t, err)

	for _, identity := range []string{"a@x.com", "Ann"} {
		token, user, err := svc.Login(ctx, identity, "p")
		require.NoError(t, err, identity)
		assert.Equal(t, registered.ID, user.ID)

		claims, err := tokens.Verify(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, registered.ID, claims.UserID)
		assert.Equal(t, "a@x.com", claims.Email)
		assert.Equal(t, "Ann", claims.Name)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, annInput())
	require.NoError(t, err)

	// Wrong password and unknown identity return the same error
	_, _, errWrongPass := svc.Login(ctx, "a@x.com", "nope")
	_, _, errUnknown := svc.Login(ctx, "nobody@x.com", "p")

	assert.ErrorIs(t, errWrongPass, ErrInvalidCredentials)
	assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	assert.Equal(t, errWrongPass, errUnknown)
}

func TestUpdateProfile(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	user, err := svc.Register(ctx, annInput())
	require.NoError(t, err)

	newName := "Ann Lee"
	newWeight := 57.5
	updated, err := svc.UpdateProfile(ctx, user.ID, ProfileUpdate{Name: &newName, Weight: &newWeight})
	require.NoError(t, err)

	assert.Equal(t, user.ID, updated.ID, "identifier is immutable")
	assert.Equal(t, "Ann Lee", updated.Name)
	assert.Equal(t, 57.5, updated.Weight)
	assert.Equal(t, "a@x.com", updated.Email, "unsupplied fields stay unchanged")
	assert.Equal(t, float64(160), updated.Height)
}

func TestUpdateProfile_Errors(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	user, err := svc.Register(ctx, annInput())
	require.NoError(t, err)

	other := annInput()
	other.Name = "Bob"
	other.Email = "b@x.com"
	_, err = svc.Register(ctx, other)
	require.NoError(t, err)

	// No fields supplied
	_, err = svc.UpdateProfile(ctx, user.ID, ProfileUpdate{})
	assert.ErrorIs(t, err, ErrValidation)

	// Unknown user
	name := "X"
	_, err = svc.UpdateProfile(ctx, "no-such-id", ProfileUpdate{Name: &name})
	assert.ErrorIs(t, err, ErrNotFound)

	// Email collision with another account
	takenEmail := "b@x.com"
	_, err = svc.UpdateProfile(ctx, user.ID, ProfileUpdate{Email: &takenEmail})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestUpdateProfile_ValidationMessages(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	user, err := svc.Register(ctx, annInput())
	require.NoError(t, err)

	height := -1.0
	gender := "robot"
	empty := ""
	for _, tc := range []struct {
		update  ProfileUpdate
		message string
	}{
		{ProfileUpdate{Height: &height}, "Height cannot be negative"},
		{ProfileUpdate{Gender: &gender}, "Gender must be male, female or other"},
		{ProfileUpdate{Name: &empty}, "Name cannot be empty"},
		{ProfileUpdate{Email: &empty}, "Email cannot be empty"},
	} {
		_, err = svc.UpdateProfile(ctx, user.ID, tc.update)
		require.ErrorIs(t, err, ErrValidation)

		var v *ValidationError
		require.ErrorAs(t, err, &v)
		assert.Equal(t, tc.message, v.Message)
	}
}
