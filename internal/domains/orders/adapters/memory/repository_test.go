package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogmemory "github.com/minimarket/go-gin-shop-server/internal/domains/catalog/adapters/memory"
	catalogdomain "github.com/minimarket/go-gin-shop-server/internal/domains/catalog/domain"
	"github.com/minimarket/go-gin-shop-server/internal/domains/orders/domain"
	"github.com/minimarket/go-gin-shop-server/internal/domains/orders/ports"
)

func seedCatalog(t *testing.T, stock int32) *catalogmemory.Repository {
	t.Helper()
	catalog := catalogmemory.NewRepository()
	product, err := catalogdomain.NewProduct(0, "widget", "a widget", decimal.RequireFromString("10.00"), stock, 1)
	require.NoError(t, err)
	_, err = catalog.Create(context.Background(), product)
	require.NoError(t, err)
	return catalog
}

func buildOrder(t *testing.T, userID int64, productID int64, qty int32) *domain.Order {
	t.Helper()
	order, err := domain.NewOrder(userID, "n-1", time.Now().UTC(), []domain.Line{
		{ProductID: productID, Quantity: qty, UnitPrice: decimal.RequireFromString("10.00")},
	})
	require.NoError(t, err)
	return order
}

func TestRepository_AddOrder_DecrementsStock(t *testing.T) {
	catalog := seedCatalog(t, 5)
	repo := NewRepository(catalog)
	ctx := context.Background()

	saved, err := repo.AddOrder(ctx, buildOrder(t, 7, 1, 2))
	require.NoError(t, err)
	assert.NotZero(t, saved.ID)
	require.Len(t, saved.Lines, 1)
	assert.Equal(t, saved.ID, saved.Lines[0].OrderID)
	assert.NotZero(t, saved.Lines[0].ID)

	product, err := catalog.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int32(3), product.Stock)
}

func TestRepository_AddOrder_InsufficientStock(t *testing.T) {
	catalog := seedCatalog(t, 1)
	repo := NewRepository(catalog)
	ctx := context.Background()

	_, err := repo.AddOrder(ctx, buildOrder(t, 7, 1, 3))
	var stockErr *ports.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, int64(1), stockErr.ProductID)
	assert.Equal(t, "widget", stockErr.ProductName)

	product, err := catalog.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int32(1), product.Stock)
}

func TestRepository_AddOrder_RestoresStockOnFailedLine(t *testing.T) {
	catalog := seedCatalog(t, 5)
	repo := NewRepository(catalog)
	ctx := context.Background()

	order, err := domain.NewOrder(7, "n-2", time.Now().UTC(), []domain.Line{
		{ProductID: 1, Quantity: 2, UnitPrice: decimal.RequireFromString("10.00")},
		{ProductID: 99, Quantity: 1, UnitPrice: decimal.RequireFromString("5.00")},
	})
	require.NoError(t, err)

	_, err = repo.AddOrder(ctx, order)
	var notFound *ports.ProductNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, int64(99), notFound.ProductID)

	product, err := catalog.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int32(5), product.Stock)
}

func TestRepository_AddOrder_ConcurrentPlacements(t *testing.T) {
	catalog := seedCatalog(t, 10)
	repo := NewRepository(catalog)
	ctx := context.Background()

	const workers = 20
	var wg sync.WaitGroup
	var mu sync.Mutex
	placed := 0
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.AddOrder(ctx, buildOrder(t, 7, 1, 1))
			if err == nil {
				mu.Lock()
				placed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, placed)
	product, err := catalog.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int32(0), product.Stock)
}

func TestRepository_Queries(t *testing.T) {
	catalog := seedCatalog(t, 10)
	repo := NewRepository(catalog)
	ctx := context.Background()

	first, err := repo.AddOrder(ctx, buildOrder(t, 7, 1, 1))
	require.NoError(t, err)
	_, err = repo.AddOrder(ctx, buildOrder(t, 8, 1, 1))
	require.NoError(t, err)
	_, err = repo.AddOrder(ctx, buildOrder(t, 7, 1, 2))
	require.NoError(t, err)

	byID, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Number, byID.Number)

	_, err = repo.GetByID(ctx, 404)
	assert.ErrorIs(t, err, ports.ErrNotFound)

	mine, err := repo.GetCustomerOrders(ctx, 7)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Less(t, mine[0].ID, mine[1].ID)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestRepository_SetStatus(t *testing.T) {
	catalog := seedCatalog(t, 10)
	repo := NewRepository(catalog)
	ctx := context.Background()

	placed, err := repo.AddOrder(ctx, buildOrder(t, 7, 1, 1))
	require.NoError(t, err)

	require.NoError(t, repo.SetStatus(ctx, placed.ID, domain.StatusRefunded))
	refunded, err := repo.GetByID(ctx, placed.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRefunded, refunded.Status)

	assert.ErrorIs(t, repo.SetStatus(ctx, 404, domain.StatusRefunded), ports.ErrNotFound)
	assert.ErrorIs(t, repo.SetStatus(ctx, placed.ID, "shipped"), domain.ErrInvalidStatus)
}
