package usecases

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/samirrijal/routekit/internal/core/domain"
	"github.com/samirrijal/routekit/internal/core/ports"
)

// AuthService signs users in and resolves bearer tokens.
type AuthService struct {
	users  ports.UserRepository
	tokens ports.TokenManager
}

// NewAuthService creates a new AuthService.
func NewAuthService(users ports.UserRepository, tokens ports.TokenManager) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// SignIn checks the password and issues an access token.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, user, nil
}

// Authenticate resolves a bearer token to its user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	email, err := s.tokens.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}
	return user, nil
}

// HashPassword returns the bcrypt hash stored in users.password_hash.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
