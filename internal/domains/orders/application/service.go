package application

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/minimarket/go-gin-shop-server/internal/domains/orders/domain"
	"github.com/minimarket/go-gin-shop-server/internal/domains/orders/ports"
)

// Service assembles and manages orders. Placement validates each requested
// line against current catalog state, prices lines server-side, and hands
// the finished aggregate to the repository, which commits stock decrements
// and order rows as one atomic unit.
type Service struct {
	repo    ports.Repository
	catalog ports.CatalogReader
	now     func() time.Time
}

func NewService(repo ports.Repository, catalog ports.CatalogReader) *Service {
	return &Service{repo: repo, catalog: catalog, now: time.Now}
}

// PlaceOrder builds an order for buyerID from the requested lines.
// Lines are processed in submitted order: the first offending line
// determines the returned error, and a failing line aborts the whole call
// with no partial persistence.
func (s *Service) PlaceOrder(ctx context.Context, buyerID int64, requested []ports.LineRequest) (*domain.Order, error) {
	if buyerID <= 0 {
		return nil, mapError(domain.ErrInvalidUserID)
	}
	if len(requested) == 0 {
		return nil, ErrEmptyOrder
	}

	lines := make([]domain.Line, 0, len(requested))
	for _, req := range requested {
		if req.ProductID <= 0 {
			return nil, mapError(domain.ErrInvalidProductID)
		}
		if req.Quantity < 1 {
			return nil, mapError(domain.ErrInvalidQuantity)
		}
		product, err := s.catalog.ProductByID(ctx, req.ProductID)
		if err != nil {
			return nil, err
		}
		if req.Quantity > product.Stock {
			return nil, &ports.InsufficientStockError{ProductID: product.ID, ProductName: product.Name}
		}
		lines = append(lines, domain.Line{
			ProductID: req.ProductID,
			Quantity:  req.Quantity,
			UnitPrice: product.Price,
		})
	}

	order, err := domain.NewOrder(buyerID, uuid.NewString(), s.now().UTC(), lines)
	if err != nil {
		return nil, mapError(err)
	}
	return s.repo.AddOrder(ctx, order)
}

func (s *Service) GetOrderByID(ctx context.Context, id int64) (*domain.Order, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) CustomerOrders(ctx context.Context, userID int64) ([]*domain.Order, error) {
	if userID <= 0 {
		return nil, mapError(domain.ErrInvalidUserID)
	}
	return s.repo.GetCustomerOrders(ctx, userID)
}

func (s *Service) AllOrders(ctx context.Context) ([]*domain.Order, error) {
	return s.repo.ListAll(ctx)
}

// RefundOrder transitions an order to the refunded status.
func (s *Service) RefundOrder(ctx context.Context, id int64) (*domain.Order, error) {
	if err := s.repo.SetStatus(ctx, id, domain.StatusRefunded); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

var _ ports.Service = (*Service)(nil)
