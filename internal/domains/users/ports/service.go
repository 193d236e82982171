package ports

import (
	"context"

	"github.com/minimarket/go-gin-shop-server/internal/domains/users/domain"
)

// TokenIssuer signs a credential for an authenticated user.
type TokenIssuer interface {
	Issue(userID int64, email string, role domain.Role) (string, error)
}

// Service exposes user bounded context use cases to adapters.
type Service interface {
	Register(ctx context.Context, email, password string, role domain.Role) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	GetProfile(ctx context.Context, id int64) (*domain.User, error)
}
