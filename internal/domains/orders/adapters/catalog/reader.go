package catalog

import (
	"context"
	"errors"

	catalogports "github.com/minimarket/go-gin-shop-server/internal/domains/catalog/ports"
	"github.com/minimarket/go-gin-shop-server/internal/domains/orders/ports"
)

var _ ports.CatalogReader = (*Reader)(nil)

// Reader adapts the catalog service to the order assembly read port.
type Reader struct {
	catalog catalogports.Service
}

func NewReader(catalog catalogports.Service) *Reader {
	return &Reader{catalog: catalog}
}

// ProductByID resolves a product view, translating the catalog's not-found
// sentinel into the order placement error that names the offending line.
func (r *Reader) ProductByID(ctx context.Context, id int64) (ports.ProductView, error) {
	product, err := r.catalog.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, catalogports.ErrNotFound) {
			return ports.ProductView{}, &ports.ProductNotFoundError{ProductID: id}
		}
		return ports.ProductView{}, err
	}
	return ports.ProductView{
		ID:    product.ID,
		Name:  product.Name,
		Price: product.Price,
		Stock: product.Stock,
	}, nil
}
