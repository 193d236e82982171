//go:build integration

package sqlstore

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/minimarket/go-gin-shop-server/internal/domains/orders/domain"
	"github.com/minimarket/go-gin-shop-server/internal/domains/orders/ports"
	"github.com/minimarket/go-gin-shop-server/internal/platform/migrations"
)

func setupSQLStoreContainer(t *testing.T) (*sqlx.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("minimarket_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, migrations.Run(gormDB))
	if sqlDB, err := gormDB.DB(); err == nil {
		sqlDB.Close()
	}

	db, err := sqlx.Open("postgres", dsn)
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func seedProduct(t *testing.T, db *sqlx.DB, name, priceStr string, stock int32) int64 {
	t.Helper()
	var id int64
	err := db.QueryRowx(
		`INSERT INTO products (name, description, price, stock, created_by, created_at, updated_at)
		 VALUES ($1, '', $2, $3, 1, NOW(), NOW()) RETURNING id`,
		name, priceStr, stock,
	).Scan(&id)
	require.NoError(t, err)
	return id
}

func productStock(t *testing.T, db *sqlx.DB, id int64) int32 {
	t.Helper()
	var stock int32
	require.NoError(t, db.Get(&stock, `SELECT stock FROM products WHERE id = $1`, id))
	return stock
}

func placedOrder(t *testing.T, userID int64, lines []domain.Line) *domain.Order {
	t.Helper()
	order, err := domain.NewOrder(userID, uuid.NewString(), time.Now().UTC(), lines)
	require.NoError(t, err)
	return order
}

func TestRepository_AddOrder_RoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupSQLStoreContainer(t)
	defer cleanup()

	keyboardID := seedProduct(t, db, "keyboard", "20.00", 5)
	mouseID := seedProduct(t, db, "mouse", "15.00", 3)

	repo := NewRepository(db)
	ctx := context.Background()

	saved, err := repo.AddOrder(ctx, placedOrder(t, 7, []domain.Line{
		{ProductID: keyboardID, Quantity: 2, UnitPrice: decimal.RequireFromString("20.00")},
		{ProductID: mouseID, Quantity: 1, UnitPrice: decimal.RequireFromString("15.00")},
	}))
	require.NoError(t, err)
	assert.NotZero(t, saved.ID)
	require.Len(t, saved.Lines, 2)
	assert.NotZero(t, saved.Lines[0].ID)
	assert.Equal(t, saved.ID, saved.Lines[0].OrderID)

	assert.Equal(t, int32(3), productStock(t, db, keyboardID))
	assert.Equal(t, int32(2), productStock(t, db, mouseID))

	fetched, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.True(t, fetched.Total.Equal(decimal.RequireFromString("55.00")))
	require.Len(t, fetched.Lines, 2)
	assert.Equal(t, keyboardID, fetched.Lines[0].ProductID)
	assert.NoError(t, fetched.Validate())
}

func TestRepository_AddOrder_RollsBackOnInsufficientStock(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupSQLStoreContainer(t)
	defer cleanup()

	keyboardID := seedProduct(t, db, "keyboard", "20.00", 5)
	mouseID := seedProduct(t, db, "mouse", "15.00", 1)

	repo := NewRepository(db)
	ctx := context.Background()

	_, err := repo.AddOrder(ctx, placedOrder(t, 7, []domain.Line{
		{ProductID: keyboardID, Quantity: 2, UnitPrice: decimal.RequireFromString("20.00")},
		{ProductID: mouseID, Quantity: 3, UnitPrice: decimal.RequireFromString("15.00")},
	}))
	var stockErr *ports.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, mouseID, stockErr.ProductID)
	assert.Equal(t, "mouse", stockErr.ProductName)

	assert.Equal(t, int32(5), productStock(t, db, keyboardID))
	assert.Equal(t, int32(1), productStock(t, db, mouseID))

	orders, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestRepository_AddOrder_UnknownProduct(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupSQLStoreContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	_, err := repo.AddOrder(context.Background(), placedOrder(t, 7, []domain.Line{
		{ProductID: 404, Quantity: 1, UnitPrice: decimal.RequireFromString("1.00")},
	}))
	var notFound *ports.ProductNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, int64(404), notFound.ProductID)
}

func TestRepository_AddOrder_ConcurrentPlacements(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupSQLStoreContainer(t)
	defer cleanup()

	productID := seedProduct(t, db, "widget", "10.00", 10)
	repo := NewRepository(db)
	ctx := context.Background()

	const workers = 20
	var wg sync.WaitGroup
	var mu sync.Mutex
	placed := 0
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.AddOrder(ctx, placedOrder(t, 7, []domain.Line{
				{ProductID: productID, Quantity: 1, UnitPrice: decimal.RequireFromString("10.00")},
			}))
			if err == nil {
				mu.Lock()
				placed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, placed)
	assert.Equal(t, int32(0), productStock(t, db, productID))
}

func TestRepository_QueriesAndStatus(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupSQLStoreContainer(t)
	defer cleanup()

	productID := seedProduct(t, db, "keyboard", "20.00", 10)
	repo := NewRepository(db)
	ctx := context.Background()

	line := domain.Line{ProductID: productID, Quantity: 1, UnitPrice: decimal.RequireFromString("20.00")}
	first, err := repo.AddOrder(ctx, placedOrder(t, 7, []domain.Line{line}))
	require.NoError(t, err)
	_, err = repo.AddOrder(ctx, placedOrder(t, 8, []domain.Line{line}))
	require.NoError(t, err)

	mine, err := repo.GetCustomerOrders(ctx, 7)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, first.ID, mine[0].ID)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, repo.SetStatus(ctx, first.ID, domain.StatusRefunded))
	refunded, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRefunded, refunded.Status)

	assert.ErrorIs(t, repo.SetStatus(ctx, 404, domain.StatusRefunded), ports.ErrNotFound)
	assert.ErrorIs(t, repo.SetStatus(ctx, first.ID, "shipped"), domain.ErrInvalidStatus)

	_, err = repo.GetByID(ctx, 404)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}
