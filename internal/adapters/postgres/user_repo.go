package postgres

import (
	"context"
	"strings"

	"github.com/samirrijal/routekit/internal/core/domain"
)

// UserRepo implements ports.UserRepository.
type UserRepo struct {
	db *DB
}

func NewUserRepo(db *DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}

	u := &domain.User{}
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, email, COALESCE(name, ''), password_hash, created_at
		FROM users WHERE id = $1
	`, id).Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

// GetByEmail matches e-mails case-insensitively.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u := &domain.User{}
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, email, COALESCE(name, ''), password_hash, created_at
		FROM users WHERE lower(email) = $1
	`, strings.ToLower(email)).Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

// Create inserts user and fills in its generated ID and creation time.
func (r *UserRepo) Create(ctx context.Context, user *domain.User) error {
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO users (email, name, password_hash)
		VALUES ($1, NULLIF($2, ''), $3)
		RETURNING id, created_at
	`, user.Email, user.Name, user.PasswordHash).Scan(&user.ID, &user.CreatedAt)
}
