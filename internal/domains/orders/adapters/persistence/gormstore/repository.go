package gormstore

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/minimarket/go-gin-shop-server/internal/domains/orders/domain"
	"github.com/minimarket/go-gin-shop-server/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders in PostgreSQL through GORM's generic mapping.
// It is one of two interchangeable order store backends; see the sqlstore
// package for the hand-written SQL counterpart.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// orderRecord maps the order header to a relational table.
type orderRecord struct {
	ID        int64             `gorm:"primaryKey;column:id"`
	Number    string            `gorm:"column:number;type:varchar(36);uniqueIndex"`
	UserID    int64             `gorm:"column:user_id;index"`
	PlacedAt  time.Time         `gorm:"column:placed_at"`
	Total     decimal.Decimal   `gorm:"column:total;type:numeric(12,2)"`
	Status    string            `gorm:"column:status;type:varchar(32);index"`
	Lines     []orderItemRecord `gorm:"foreignKey:OrderID"`
	CreatedAt time.Time         `gorm:"column:created_at"`
	UpdatedAt time.Time         `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

type orderItemRecord struct {
	ID        int64           `gorm:"primaryKey;column:id"`
	OrderID   int64           `gorm:"column:order_id;index"`
	ProductID int64           `gorm:"column:product_id;index"`
	Quantity  int32           `gorm:"column:quantity"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2)"`
}

func (orderItemRecord) TableName() string { return "order_items" }

// productStockRow addresses the products table for the conditional decrement.
type productStockRow struct {
	ID    int64  `gorm:"primaryKey;column:id"`
	Name  string `gorm:"column:name"`
	Stock int32  `gorm:"column:stock"`
}

func (productStockRow) TableName() string { return "products" }

// AddOrder decrements stock for every line and inserts header plus lines in
// a single transaction. The decrement only applies when enough stock
// remains; a zero-row update distinguishes missing products from exhausted
// stock, and either aborts the transaction.
func (r *Repository) AddOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	record := toRecord(order)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, line := range order.Lines {
			result := tx.Model(&productStockRow{}).
				Where("id = ? AND stock >= ?", line.ProductID, line.Quantity).
				UpdateColumn("stock", gorm.Expr("stock - ?", line.Quantity))
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				var product productStockRow
				if err := tx.First(&product, "id = ?", line.ProductID).Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return &ports.ProductNotFoundError{ProductID: line.ProductID}
					}
					return err
				}
				return &ports.InsufficientStockError{ProductID: product.ID, ProductName: product.Name}
			}
		}
		return tx.Create(&record).Error
	})
	if err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

// GetByID fetches an order with its lines.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.id") }).
		First(&record, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// GetCustomerOrders returns every order owned by userID, lines populated.
func (r *Repository) GetCustomerOrders(ctx context.Context, userID int64) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	return r.find(ctx, "user_id = ?", userID)
}

// ListAll returns every order with lines populated.
func (r *Repository) ListAll(ctx context.Context) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	return r.find(ctx)
}

func (r *Repository) find(ctx context.Context, conds ...any) ([]*domain.Order, error) {
	var records []orderRecord
	query := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.id") }).
		Order("orders.id")
	if err := query.Find(&records, conds...).Error; err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain())
	}
	return orders, nil
}

// SetStatus transitions an order's status.
func (r *Repository) SetStatus(ctx context.Context, id int64, status domain.Status) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	probe := domain.Order{}
	if err := probe.UpdateStatus(status); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Model(&orderRecord{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": string(status), "updated_at": gorm.Expr("NOW()")})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("gorm order repository not configured")
	}
	return nil
}

func toRecord(order *domain.Order) orderRecord {
	lines := make([]orderItemRecord, 0, len(order.Lines))
	for _, line := range order.Lines {
		lines = append(lines, orderItemRecord{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}
	return orderRecord{
		ID:       order.ID,
		Number:   order.Number,
		UserID:   order.UserID,
		PlacedAt: order.PlacedAt,
		Total:    order.Total,
		Status:   string(order.Status),
		Lines:    lines,
	}
}

func (r orderRecord) toDomain() *domain.Order {
	lines := make([]domain.Line, 0, len(r.Lines))
	for _, line := range r.Lines {
		lines = append(lines, domain.Line{
			ID:        line.ID,
			OrderID:   line.OrderID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}
	return &domain.Order{
		ID:       r.ID,
		Number:   r.Number,
		UserID:   r.UserID,
		PlacedAt: r.PlacedAt,
		Total:    r.Total,
		Status:   domain.Status(r.Status),
		Lines:    lines,
	}
}
