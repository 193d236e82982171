package application

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/minimarket/go-gin-shop-server/internal/domains/users/domain"
	"github.com/minimarket/go-gin-shop-server/internal/domains/users/ports"
)

const minPasswordLength = 6

// ErrWeakPassword rejects registrations with a too-short password.
var ErrWeakPassword = errors.New("password must be at least 6 characters")

// Service exposes user bounded context use cases.
type Service struct {
	repo   ports.Repository
	tokens ports.TokenIssuer
}

func NewService(repo ports.Repository, tokens ports.TokenIssuer) *Service {
	return &Service{repo: repo, tokens: tokens}
}

// Register hashes the password and stores a new account. An empty role
// defaults to customer.
func (s *Service) Register(ctx context.Context, email, password string, role domain.Role) (*domain.User, error) {
	password = strings.TrimSpace(password)
	if len(password) < minPasswordLength {
		return nil, mapError(ErrWeakPassword)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user, err := domain.NewUser(email, string(hash), role)
	if err != nil {
		return nil, mapError(err)
	}
	return s.repo.Create(ctx, user)
}

// Login verifies the credentials and issues a signed token.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || strings.TrimSpace(password) == "" {
		return "", mapError(ports.ErrInvalidCredentials)
	}
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return "", mapError(ports.ErrInvalidCredentials)
		}
		return "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", mapError(ports.ErrInvalidCredentials)
	}
	return s.tokens.Issue(user.ID, user.Email, user.Role)
}

// GetProfile loads the account behind a resolved identity.
func (s *Service) GetProfile(ctx context.Context, id int64) (*domain.User, error) {
	return s.repo.GetByID(ctx, id)
}

var _ ports.Service = (*Service)(nil)
