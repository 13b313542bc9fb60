package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/crucial707/strumspace-admin/internal/models"
)

// UserRepo stores admin accounts. Usernames are unique at the table level.
type UserRepo struct {
	DB *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db}
}

const userColumns = `id, username, password_hash`

// Create inserts a user whose password is already hashed.
// A taken username returns ErrDuplicate and leaves the existing row alone.
func (r *UserRepo) Create(ctx context.Context, username, passwordHash string) (*models.User, error) {
	var u models.User
	err := r.DB.QueryRowContext(ctx,
		`INSERT INTO users (username, password_hash) VALUES ($1, $2) RETURNING `+userColumns,
		username, passwordHash,
	).Scan(&u.ID, &u.Username, &u.PasswordHash)
	switch {
	case isUniqueViolation(err):
		return nil, ErrDuplicate
	case err != nil:
		return nil, fmt.Errorf("create user %q: %w", username, err)
	}
	return &u, nil
}

// GetByUsername returns ErrNotFound when no account has that username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := r.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`,
		username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash)
	if notFound(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	return &u, nil
}
