package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// ProductView is the slice of catalog state order assembly depends on.
type ProductView struct {
	ID    int64
	Name  string
	Price decimal.Decimal
	Stock int32
}

// CatalogReader resolves products during order assembly. Implementations
// must not write; the read path runs inside the placement operation.
type CatalogReader interface {
	ProductByID(ctx context.Context, id int64) (ProductView, error)
}
