package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/minimarket/go-gin-shop-server/internal/domains/orders/domain"
	"github.com/minimarket/go-gin-shop-server/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders with hand-written parameterized SQL over sqlx.
// It is the direct-statement counterpart of the gormstore backend; both
// satisfy the same contract and must stay externally indistinguishable.
type Repository struct {
	db *sqlx.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

const (
	decrementStockSQL = `UPDATE products SET stock = stock - $1, updated_at = NOW() WHERE id = $2 AND stock >= $1`
	productNameSQL    = `SELECT name FROM products WHERE id = $1`
	insertOrderSQL    = `INSERT INTO orders (number, user_id, placed_at, total, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW()) RETURNING id`
	insertItemSQL = `INSERT INTO order_items (order_id, product_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4) RETURNING id`
	setStatusSQL = `UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2`

	selectJoinedSQL = `SELECT o.id AS order_id, o.number, o.user_id, o.placed_at, o.total, o.status,
		oi.id AS line_id, oi.product_id, oi.quantity, oi.unit_price
		FROM orders o
		INNER JOIN order_items oi ON oi.order_id = o.id`
	orderByJoinedSQL = ` ORDER BY o.id, oi.id`
)

// AddOrder runs the whole placement inside one transaction: per-line
// conditional stock decrements, the header insert returning the generated
// id, and the line inserts tagged with it. Any failure rolls back all of it.
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

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	for _, line := range order.Lines {
		result, err := tx.ExecContext(ctx, decrementStockSQL, line.Quantity, line.ProductID)
		if err != nil {
			return nil, err
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return nil, err
		}
		if affected == 0 {
			var name string
			err := tx.GetContext(ctx, &name, productNameSQL, line.ProductID)
			if errors.Is(err, sql.ErrNoRows) {
				return nil, &ports.ProductNotFoundError{ProductID: line.ProductID}
			}
			if err != nil {
				return nil, err
			}
			return nil, &ports.InsufficientStockError{ProductID: line.ProductID, ProductName: name}
		}
	}

	saved := *order
	if err := tx.QueryRowxContext(ctx, insertOrderSQL,
		order.Number, order.UserID, order.PlacedAt, order.Total, string(order.Status),
	).Scan(&saved.ID); err != nil {
		return nil, err
	}
	saved.Lines = make([]domain.Line, len(order.Lines))
	for i, line := range order.Lines {
		line.OrderID = saved.ID
		if err := tx.QueryRowxContext(ctx, insertItemSQL,
			saved.ID, line.ProductID, line.Quantity, line.UnitPrice,
		).Scan(&line.ID); err != nil {
			return nil, err
		}
		saved.Lines[i] = line
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &saved, nil
}

// GetByID fetches an order with its lines from the joined row stream.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var rows []orderLineRow
	if err := r.db.SelectContext(ctx, &rows, selectJoinedSQL+` WHERE o.id = $1`+orderByJoinedSQL, id); err != nil {
		return nil, err
	}
	orders := foldRows(rows)
	if len(orders) == 0 {
		return nil, ports.ErrNotFound
	}
	return orders[0], nil
}

// GetCustomerOrders returns every order owned by userID with full lines.
func (r *Repository) GetCustomerOrders(ctx context.Context, userID int64) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var rows []orderLineRow
	if err := r.db.SelectContext(ctx, &rows, selectJoinedSQL+` WHERE o.user_id = $1`+orderByJoinedSQL, userID); err != nil {
		return nil, err
	}
	return foldRows(rows), nil
}

// ListAll returns every order with full lines.
func (r *Repository) ListAll(ctx context.Context) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var rows []orderLineRow
	if err := r.db.SelectContext(ctx, &rows, selectJoinedSQL+orderByJoinedSQL); err != nil {
		return nil, err
	}
	return foldRows(rows), nil
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
	result, err := r.db.ExecContext(ctx, setStatusSQL, string(status), id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("sql order repository not configured")
	}
	return nil
}

// orderLineRow is one flattened (order x line) row of the join.
type orderLineRow struct {
	OrderID   int64           `db:"order_id"`
	Number    string          `db:"number"`
	UserID    int64           `db:"user_id"`
	PlacedAt  time.Time       `db:"placed_at"`
	Total     decimal.Decimal `db:"total"`
	Status    string          `db:"status"`
	LineID    int64           `db:"line_id"`
	ProductID int64           `db:"product_id"`
	Quantity  int32           `db:"quantity"`
	UnitPrice decimal.Decimal `db:"unit_price"`
}

// foldRows groups a flattened row stream into orders in a single pass using
// an ordered map keyed by order id: rows sharing an order id accumulate
// their lines onto one entry, line arrival order is preserved, and the
// result holds exactly one entry per distinct order id in first-seen order.
func foldRows(rows []orderLineRow) []*domain.Order {
	index := make(map[int64]*domain.Order, len(rows))
	orders := make([]*domain.Order, 0, len(rows))
	for _, row := range rows {
		order, seen := index[row.OrderID]
		if !seen {
			order = &domain.Order{
				ID:       row.OrderID,
				Number:   row.Number,
				UserID:   row.UserID,
				PlacedAt: row.PlacedAt,
				Total:    row.Total,
				Status:   domain.Status(row.Status),
			}
			index[row.OrderID] = order
			orders = append(orders, order)
		}
		order.Lines = append(order.Lines, domain.Line{
			ID:        row.LineID,
			OrderID:   row.OrderID,
			ProductID: row.ProductID,
			Quantity:  row.Quantity,
			UnitPrice: row.UnitPrice,
		})
	}
	return orders
}
