package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fitmi/fitmi-backend/internal/models"
	"github.com/fitmi/fitmi-backend/pkg/utils"
)

// RegisterInput carries all fields required to create an account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Gender   string
	Height   float64
	Weight   float64
}

// ProfileUpdate carries the mutable profile fields. Nil fields are left
// unchanged; the password is deliberately not updatable through this path.
type ProfileUpdate struct {
	Name   *string
	Email  *string
	Gender *string
	Height *float64
	Weight *float64
}

// AuthService owns account identity: registration, credential verification,
// token issuance and profile updates.
type AuthService struct {
	users  UserStore
	tokens *TokenService
}

func NewAuthService(users UserStore, tokens *TokenService) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Register creates a new account. The registration id is generated here and
// never changes afterwards; the password is stored only as an Argon2id hash.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if in.Name == "" || in.Email == "" || in.Password == "" || in.Gender == "" {
		return nil, invalid("All fields are required")
	}
	if !models.ValidGender(in.Gender) {
		return nil, invalid("Gender must be male, female or other")
	}
	if in.Height < 0 || in.Weight < 0 {
		return nil, invalid("Height and weight cannot be negative")
	}

	taken, err := s.users.EmailInUse(ctx, in.Email, "")
	if err != nil {
		return nil, fmt.Errorf("checking email: %w", err)
	}
	if taken {
		return nil, ErrDuplicateEmail
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now()
	user := &models.User{
		ID:           uuid.NewString(),
		CreatedAt:    now,
		UpdatedAt:    now,
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Gender:       in.Gender,
		Height:       in.Height,
		Weight:       in.Weight,
	}

	// The unique index still backstops the EmailInUse check under
	// concurrent registrations.
	if err := s.users.Insert(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials against the stored hash and issues a token.
// Unknown identity and wrong password return the same error.
func (s *AuthService) Login(ctx context.Context, usernameOrEmail, password string) (string, *models.User, error) {
	if usernameOrEmail == "" || password == "" {
		return "", nil, ErrValidation
	}

	user, err := s.users.GetByEmailOrName(ctx, usernameOrEmail)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	valid, err := utils.VerifyPassword(password, user.PasswordHash)
	if err != nil || !valid {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", nil, fmt.Errorf("issuing token: %w", err)
	}
	return token, user, nil
}

// UpdateProfile merges the supplied fields into the stored profile. At least
// one field must be present.
func (s *AuthService) UpdateProfile(ctx context.Context, id string, fields ProfileUpdate) (*models.User, error) {
	if fields.Name == nil && fields.Email == nil && fields.Gender == nil &&
		fields.Height == nil && fields.Weight == nil {
		return nil, invalid("At least one field is required for update")
	}
	if fields.Gender != nil && !models.ValidGender(*fields.Gender) {
		return nil, invalid("Gender must be male, female or other")
	}
	if fields.Name != nil && *fields.Name == "" {
		return nil, invalid("Name cannot be empty")
	}
	if fields.Email != nil && *fields.Email == "" {
		return nil, invalid("Email cannot be empty")
	}
	if fields.Height != nil && *fields.Height < 0 {
		return nil, invalid("Height cannot be negative")
	}
	if fields.Weight != nil && *fields.Weight < 0 {
		return nil, invalid("Weight cannot be negative")
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if fields.Email != nil && *fields.Email != user.Email {
		taken, err := s.users.EmailInUse(ctx, *fields.Email, id)
		if err != nil {
			return nil, fmt.Errorf("checking email: %w", err)
		}
		if taken {
			return nil, ErrDuplicateEmail
		}
		user.Email = *fields.Email
	}
	if fields.Name != nil {
		user.Name = *fields.Name
	}
	if fields.Gender != nil {
		user.Gender = *fields.Gender
	}
	if fields.Height != nil {
		user.Height = *fields.Height
	}
	if fields.Weight != nil {
		user.Weight = *fields.Weight
	}
	user.UpdatedAt = time.Now()

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetByID returns the stored profile for id.
func (s *AuthService) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

// SetPhotoURL stores the uploaded profile photo location.
func (s *AuthService) SetPhotoURL(ctx context.Context, id, url string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.PhotoURL = url
	user.UpdatedAt = time.Now()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
