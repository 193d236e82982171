package application

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minimarket/go-gin-shop-server/internal/domains/catalog/adapters/memory"
	"github.com/minimarket/go-gin-shop-server/internal/domains/catalog/domain"
	"github.com/minimarket/go-gin-shop-server/internal/domains/catalog/ports"
)

func newProduct(t *testing.T, name, priceStr string, stock int32) *domain.Product {
	t.Helper()
	product, err := domain.NewProduct(0, name, "", decimal.RequireFromString(priceStr), stock, 1)
	require.NoError(t, err)
	return product
}

func TestService_AddAndGetProduct(t *testing.T) {
	svc := NewService(memory.NewRepository())
	ctx := context.Background()

	saved, err := svc.AddProduct(ctx, newProduct(t, "keyboard", "49.90", 12))
	require.NoError(t, err)
	assert.NotZero(t, saved.ID)

	fetched, err := svc.GetProductByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "keyboard", fetched.Name)
	assert.True(t, fetched.Price.Equal(decimal.RequireFromString("49.90")))

	_, err = svc.GetProductByID(ctx, 404)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestService_AddProduct_Validation(t *testing.T) {
	svc := NewService(memory.NewRepository())
	ctx := context.Background()

	invalid := &domain.Product{Name: "", Price: decimal.RequireFromString("1.00")}
	_, err := svc.AddProduct(ctx, invalid)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.ErrorIs(t, err, domain.ErrEmptyName)

	_, err = svc.AddProduct(ctx, &domain.Product{Name: "widget", Price: decimal.Zero})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_UpdateProduct(t *testing.T) {
	svc := NewService(memory.NewRepository())
	ctx := context.Background()

	saved, err := svc.AddProduct(ctx, newProduct(t, "keyboard", "49.90", 12))
	require.NoError(t, err)

	saved.Name = "keyboard pro"
	saved.Price = decimal.RequireFromString("59.90")
	saved.Stock = 8
	updated, err := svc.UpdateProduct(ctx, saved)
	require.NoError(t, err)
	assert.Equal(t, "keyboard pro", updated.Name)
	assert.Equal(t, int32(8), updated.Stock)

	missing := newProduct(t, "ghost", "1.00", 1)
	missing.ID = 404
	_, err = svc.UpdateProduct(ctx, missing)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestService_ListProducts(t *testing.T) {
	svc := NewService(memory.NewRepository())
	ctx := context.Background()

	_, err := svc.AddProduct(ctx, newProduct(t, "keyboard", "49.90", 12))
	require.NoError(t, err)
	_, err = svc.AddProduct(ctx, newProduct(t, "mouse", "15.00", 4))
	require.NoError(t, err)

	list, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
