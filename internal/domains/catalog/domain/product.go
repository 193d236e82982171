package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

const maxNameLength = 100

var (
	ErrEmptyName     = errors.New("product name is required")
	ErrNameTooLong   = errors.New("product name must be at most 100 characters")
	ErrInvalidPrice  = errors.New("product price must be greater than zero")
	ErrNegativeStock = errors.New("product stock must not be negative")
)

// Product models a catalog item. Price is the server-authoritative unit
// price captured onto order lines at placement time.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int32
	CreatedBy   int64
}

// NewProduct validates and constructs a Product aggregate.
func NewProduct(id int64, name, description string, price decimal.Decimal, stock int32, createdBy int64) (*Product, error) {
	product := &Product{
		ID:          id,
		Description: strings.TrimSpace(description),
		Price:       price,
		Stock:       stock,
		CreatedBy:   createdBy,
	}
	if err := product.SetName(name); err != nil {
		return nil, err
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}
	return product, nil
}

// SetName trims and validates the product name.
func (p *Product) SetName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	if len(name) > maxNameLength {
		return ErrNameTooLong
	}
	p.Name = name
	return nil
}

// Validate enforces invariants on the aggregate.
func (p *Product) Validate() error {
	if err := p.SetName(p.Name); err != nil {
		return err
	}
	if !p.Price.IsPositive() {
		return ErrInvalidPrice
	}
	if p.Stock < 0 {
		return ErrNegativeStock
	}
	return nil
}
