package services

import (
	"context"
	"database/sql"
	"strings"

	"github.com/lib/pq"

	"github.com/fitmi/fitmi-backend/internal/database"
	"github.com/fitmi/fitmi-backend/internal/models"
)

// UserStore persists account data.
type UserStore interface {
	Insert(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByEmailOrName looks a user up by email (case-insensitive) or by
	// exact name, the two identities accepted at login.
	GetByEmailOrName(ctx context.Context, identity string) (*models.User, error)
	// EmailInUse reports whether email belongs to an account other than
	// excludeID. Pass "" to check against all accounts.
	EmailInUse(ctx context.Context, email, excludeID string) (bool, error)
	Update(ctx context.Context, user *models.User) error
}

// uniqueViolation is the PostgreSQL error code for unique constraint failures.
const uniqueViolation = "23505"

// PostgresUserStore is the production UserStore backed by the shared
// PostgreSQL pool.
type PostgresUserStore struct{}

const userColumns = `id, created_at, updated_at, name, email, password_hash, gender, height, weight, COALESCE(photo_url, '')`

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt, &u.Name, &u.Email, &u.PasswordHash,
		&u.Gender, &u.Height, &u.Weight, &u.PhotoURL)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *PostgresUserStore) Insert(ctx context.Context, user *models.User) error {
	_, err := database.PostgresDB.ExecContext(ctx, `
		INSERT INTO users (id, created_at, updated_at, name, email, password_hash, gender, height, weight)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, user.ID, user.CreatedAt, user.UpdatedAt, user.Name, user.Email, user.PasswordHash,
		user.Gender, user.Height, user.Weight)
	if pqErr, ok := err.(*pq.Error); ok && string(pqErr.Code) == uniqueViolation {
		return ErrDuplicateEmail
	}
	return err
}

func (s *PostgresUserStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	row := database.PostgresDB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (s *PostgresUserStore) GetByEmailOrName(ctx context.Context, identity string) (*models.User, error) {
	row := database.PostgresDB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE LOWER(email) = $1 OR name = $2 LIMIT 1`,
		strings.ToLower(strings.TrimSpace(identity)), identity)
	return scanUser(row)
}

// emailInUseQuery builds the lookup for EmailInUse. users.id is a UUID
// column, so an empty excludeID must not reach the server as a parameter:
// binding "" against uuid fails with 22P02 before any row is matched. The
// exclusion clause only exists when there is an id to exclude.
func emailInUseQuery(email, excludeID string) (string, []interface{}) {
	query := `SELECT id FROM users WHERE LOWER(email) = $1`
	args := []interface{}{strings.ToLower(strings.TrimSpace(email))}
	if excludeID != "" {
		query += ` AND id <> $2`
		args = append(args, excludeID)
	}
	return query, args
}

func (s *PostgresUserStore) EmailInUse(ctx context.Context, email, excludeID string) (bool, error) {
	query, args := emailInUseQuery(email, excludeID)
	var existing string
	err := database.PostgresDB.QueryRowContext(ctx, query, args...).Scan(&existing)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *PostgresUserStore) Update(ctx context.Context, user *models.User) error {
	res, err := database.PostgresDB.ExecContext(ctx, `
		UPDATE users
		SET updated_at = $2, name = $3, email = $4, gender = $5, height = $6, weight = $7, photo_url = NULLIF($8, '')
		WHERE id = $1
	`, user.ID, user.UpdatedAt, user.Name, user.Email, user.Gender, user.Height, user.Weight, user.PhotoURL)
	if pqErr, ok := err.(*pq.Error); ok && string(pqErr.Code) == uniqueViolation {
		return ErrDuplicateEmail
	}
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
