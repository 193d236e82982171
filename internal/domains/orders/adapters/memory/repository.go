package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	catalogdomain "github.com/minimarket/go-gin-shop-server/internal/domains/catalog/domain"
	catalogports "github.com/minimarket/go-gin-shop-server/internal/domains/catalog/ports"
	"github.com/minimarket/go-gin-shop-server/internal/domains/orders/domain"
	"github.com/minimarket/go-gin-shop-server/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Stock is the slice of the catalog the in-memory order store mutates. The
// catalog memory repository satisfies it; AdjustStock must reject deltas
// that would push stock below zero without applying them.
type Stock interface {
	GetByID(ctx context.Context, id int64) (*catalogdomain.Product, error)
	AdjustStock(ctx context.Context, id int64, delta int32) error
}

// Repository is an in-memory order persistence adapter for DSN-less runs
// and tests. Stock decrements and the order write happen under one lock, so
// concurrent placements against the same product serialize, and a failing
// line restores every decrement already applied in the same call.
type Repository struct {
	mu     sync.Mutex
	stock  Stock
	orders map[int64]*domain.Order
	nextID int64
	nextLn int64
}

func NewRepository(stock Stock) *Repository {
	return &Repository{stock: stock, orders: map[int64]*domain.Order{}}
}

func (r *Repository) AddOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	clone := *order
	if err := clone.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	applied := make([]domain.Line, 0, len(clone.Lines))
	for _, line := range clone.Lines {
		if err := r.stock.AdjustStock(ctx, line.ProductID, -line.Quantity); err != nil {
			for _, done := range applied {
				_ = r.stock.AdjustStock(ctx, done.ProductID, done.Quantity)
			}
			return nil, r.mapStockError(ctx, line.ProductID, err)
		}
		applied = append(applied, line)
	}

	r.nextID++
	clone.ID = r.nextID
	lines := make([]domain.Line, len(clone.Lines))
	for i, line := range clone.Lines {
		r.nextLn++
		line.ID = r.nextLn
		line.OrderID = clone.ID
		lines[i] = line
	}
	clone.Lines = lines
	stored := clone
	r.orders[clone.ID] = &stored
	result := clone
	return &result, nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return cloneOrder(order), nil
}

func (r *Repository) GetCustomerOrders(_ context.Context, userID int64) ([]*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []*domain.Order
	for _, order := range r.orders {
		if order.UserID == userID {
			list = append(list, cloneOrder(order))
		}
	}
	sortByID(list)
	return list, nil
}

func (r *Repository) ListAll(_ context.Context) ([]*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := make([]*domain.Order, 0, len(r.orders))
	for _, order := range r.orders {
		list = append(list, cloneOrder(order))
	}
	sortByID(list)
	return list, nil
}

func (r *Repository) SetStatus(_ context.Context, id int64, status domain.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return ports.ErrNotFound
	}
	return order.UpdateStatus(status)
}

func (r *Repository) mapStockError(ctx context.Context, productID int64, err error) error {
	if errors.Is(err, catalogports.ErrNotFound) {
		return &ports.ProductNotFoundError{ProductID: productID}
	}
	if errors.Is(err, catalogdomain.ErrNegativeStock) {
		name := ""
		if product, lookupErr := r.stock.GetByID(ctx, productID); lookupErr == nil {
			name = product.Name
		}
		return &ports.InsufficientStockError{ProductID: productID, ProductName: name}
	}
	return err
}

func cloneOrder(order *domain.Order) *domain.Order {
	clone := *order
	clone.Lines = append([]domain.Line(nil), order.Lines...)
	return &clone
}

func sortByID(list []*domain.Order) {
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
}
