package ports

import (
	"context"

	"github.com/minimarket/go-gin-shop-server/internal/domains/orders/domain"
)

// LineRequest is one requested order position as submitted by the buyer.
// Any client-submitted price is ignored; pricing is server-authoritative.
type LineRequest struct {
	ProductID int64
	Quantity  int32
}

// Service exposes order use cases to adapters.
type Service interface {
	PlaceOrder(ctx context.Context, buyerID int64, lines []LineRequest) (*domain.Order, error)
	GetOrderByID(ctx context.Context, id int64) (*domain.Order, error)
	CustomerOrders(ctx context.Context, userID int64) ([]*domain.Order, error)
	AllOrders(ctx context.Context) ([]*domain.Order, error)
	RefundOrder(ctx context.Context, id int64) (*domain.Order, error)
}
