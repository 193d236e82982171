package ports

import (
	"context"
	"errors"
	"fmt"

	"github.com/minimarket/go-gin-shop-server/internal/domains/orders/domain"
)

var ErrNotFound = errors.New("order not found")

// ProductNotFoundError reports the first requested line whose product does
// not exist. The whole placement aborts; nothing is persisted.
type ProductNotFoundError struct {
	ProductID int64
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %d not found", e.ProductID)
}

// InsufficientStockError reports the first requested line whose quantity
// exceeds the available stock. The whole placement aborts; every tentative
// stock decrement is discarded.
type InsufficientStockError struct {
	ProductID   int64
	ProductName string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough stock for product %q (id %d)", e.ProductName, e.ProductID)
}

// Repository persists orders. AddOrder commits the order header, its lines,
// and the stock decrements of every referenced product in one atomic unit:
// either all of them become visible together or none do.
type Repository interface {
	AddOrder(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	GetCustomerOrders(ctx context.Context, userID int64) ([]*domain.Order, error)
	ListAll(ctx context.Context) ([]*domain.Order, error)
	SetStatus(ctx context.Context, id int64, status domain.Status) error
}
