package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Status enumerates order progression.
type Status string

const (
	StatusPlaced   Status = "placed"
	StatusRefunded Status = "refunded"
)

var (
	ErrNoLines          = errors.New("order must contain at least one line")
	ErrInvalidUserID    = errors.New("order user id must be greater than zero")
	ErrInvalidProductID = errors.New("line product id must be greater than zero")
	ErrInvalidQuantity  = errors.New("line quantity must be at least one")
	ErrInvalidUnitPrice = errors.New("line unit price must be greater than zero")
	ErrTotalMismatch    = errors.New("order total must equal the sum of line subtotals")
	ErrInvalidStatus    = errors.New("order status is invalid")
)

// Line is one order position. The unit price is captured from the catalog at
// placement time and never changes afterwards, independent of later product
// price updates.
type Line struct {
	ID        int64
	OrderID   int64
	ProductID int64
	Quantity  int32
	UnitPrice decimal.Decimal
}

// Subtotal returns unit price times quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt32(l.Quantity))
}

// Validate enforces line invariants.
func (l Line) Validate() error {
	if l.ProductID <= 0 {
		return ErrInvalidProductID
	}
	if l.Quantity < 1 {
		return ErrInvalidQuantity
	}
	if !l.UnitPrice.IsPositive() {
		return ErrInvalidUnitPrice
	}
	return nil
}

// Order models the purchase aggregate: header plus its owned lines.
type Order struct {
	ID       int64
	Number   string
	UserID   int64
	PlacedAt time.Time
	Total    decimal.Decimal
	Status   Status
	Lines    []Line
}

// NewOrder validates and constructs an Order, deriving the total from the
// supplied lines.
func NewOrder(userID int64, number string, placedAt time.Time, lines []Line) (*Order, error) {
	order := &Order{
		Number:   number,
		UserID:   userID,
		PlacedAt: placedAt,
		Total:    TotalOf(lines),
		Status:   StatusPlaced,
		Lines:    lines,
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	return order, nil
}

// TotalOf sums line subtotals with exact decimal arithmetic.
func TotalOf(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Subtotal())
	}
	return total
}

// Validate enforces invariants on the aggregate.
func (o *Order) Validate() error {
	if o.UserID <= 0 {
		return ErrInvalidUserID
	}
	if len(o.Lines) == 0 {
		return ErrNoLines
	}
	for _, line := range o.Lines {
		if err := line.Validate(); err != nil {
			return err
		}
	}
	if !o.Total.Equal(TotalOf(o.Lines)) {
		return ErrTotalMismatch
	}
	if !isValidStatus(o.Status) {
		return ErrInvalidStatus
	}
	return nil
}

// UpdateStatus ensures only known states are accepted and defaults to placed.
func (o *Order) UpdateStatus(status Status) error {
	if status == "" {
		status = StatusPlaced
	}
	if !isValidStatus(status) {
		return ErrInvalidStatus
	}
	o.Status = status
	return nil
}

func isValidStatus(status Status) bool {
	switch status {
	case StatusPlaced, StatusRefunded:
		return true
	default:
		return false
	}
}
