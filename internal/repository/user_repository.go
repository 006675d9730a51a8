package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/tutoria-api/internal/models"
)

const userColumns = `id, username, password_hash, role, created_at`

// UserRepository provides database access for accounts.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByUsername returns a user by exact username.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE username = $1 LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find user by username: %w", err)
	}
	return &user, nil
}

// Create inserts a new user and fills in the generated id. A username collision
// is reported as ErrUniqueViolation.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO users (username, password_hash, role, created_at) VALUES ($1, $2, $3, $4) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query, user.Username, user.PasswordHash, user.Role, user.CreatedAt).Scan(&user.ID); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create user: %w", ErrUniqueViolation)
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// CreateIfAbsent inserts the user unless the username is taken. Existing rows are
// left untouched. It reports whether a row was inserted.
func (r *UserRepository) CreateIfAbsent(ctx context.Context, user *models.User) (bool, error) {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO users (username, password_hash, role, created_at) VALUES ($1, $2, $3, $4) ON CONFLICT (username) DO NOTHING`
	res, err := r.db.ExecContext(ctx, query, user.Username, user.PasswordHash, user.Role, user.CreatedAt)
	if err != nil {
		return false, fmt.Errorf("seed user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("seed user rows affected: %w", err)
	}
	return n > 0, nil
}

// ListSummaries returns every account ordered by username.
func (r *UserRepository) ListSummaries(ctx context.Context) ([]models.ProfessorSummary, error) {
	const query = `SELECT id, username, role FROM users ORDER BY username ASC`
	users := []models.ProfessorSummary{}
	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}
