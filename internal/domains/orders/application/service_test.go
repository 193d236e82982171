package application

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minimarket/go-gin-shop-server/internal/domains/orders/domain"
	"github.com/minimarket/go-gin-shop-server/internal/domains/orders/ports"
)

type fakeCatalog struct {
	products map[int64]ports.ProductView
}

func (f *fakeCatalog) ProductByID(_ context.Context, id int64) (ports.ProductView, error) {
	if p, ok := f.products[id]; ok {
		return p, nil
	}
	return ports.ProductView{}, &ports.ProductNotFoundError{ProductID: id}
}

type fakeOrderRepo struct {
	orders map[int64]*domain.Order
	nextID int64
	addErr error
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[int64]*domain.Order{}, nextID: 1}
}

func (f *fakeOrderRepo) AddOrder(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if f.addErr != nil {
		return nil, f.addErr
	}
	clone := *order
	clone.ID = f.nextID
	f.nextID++
	for i := range clone.Lines {
		clone.Lines[i].OrderID = clone.ID
	}
	f.orders[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (f *fakeOrderRepo) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	if o, ok := f.orders[id]; ok {
		clone := *o
		return &clone, nil
	}
	return nil, ports.ErrNotFound
}

func (f *fakeOrderRepo) GetCustomerOrders(_ context.Context, userID int64) ([]*domain.Order, error) {
	var out []*domain.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			clone := *o
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) ListAll(_ context.Context) ([]*domain.Order, error) {
	var out []*domain.Order
	for _, o := range f.orders {
		clone := *o
		out = append(out, &clone)
	}
	return out, nil
}

func (f *fakeOrderRepo) SetStatus(_ context.Context, id int64, status domain.Status) error {
	o, ok := f.orders[id]
	if !ok {
		return ports.ErrNotFound
	}
	return o.UpdateStatus(status)
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func twoProductCatalog() *fakeCatalog {
	return &fakeCatalog{products: map[int64]ports.ProductView{
		10: {ID: 10, Name: "keyboard", Price: price("20.00"), Stock: 5},
		11: {ID: 11, Name: "mouse", Price: price("15.00"), Stock: 1},
	}}
}

func TestService_PlaceOrder(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := NewService(repo, twoProductCatalog())

	order, err := svc.PlaceOrder(context.Background(), 7, []ports.LineRequest{
		{ProductID: 10, Quantity: 2},
		{ProductID: 11, Quantity: 1},
	})
	require.NoError(t, err)
	assert.NotZero(t, order.ID)
	assert.NotEmpty(t, order.Number)
	assert.Equal(t, int64(7), order.UserID)
	assert.Equal(t, domain.StatusPlaced, order.Status)
	assert.True(t, order.Total.Equal(price("55.00")), "total was %s", order.Total)

	require.Len(t, order.Lines, 2)
	assert.True(t, order.Lines[0].UnitPrice.Equal(price("20.00")))
	assert.True(t, order.Lines[1].UnitPrice.Equal(price("15.00")))
}

func TestService_PlaceOrder_PricesComeFromCatalog(t *testing.T) {
	catalog := &fakeCatalog{products: map[int64]ports.ProductView{
		10: {ID: 10, Name: "keyboard", Price: price("20.00"), Stock: 5},
	}}
	repo := newFakeOrderRepo()
	svc := NewService(repo, catalog)

	order, err := svc.PlaceOrder(context.Background(), 1, []ports.LineRequest{{ProductID: 10, Quantity: 1}})
	require.NoError(t, err)
	assert.True(t, order.Lines[0].UnitPrice.Equal(price("20.00")))

	// A later catalog price change must not affect the persisted line.
	catalog.products[10] = ports.ProductView{ID: 10, Name: "keyboard", Price: price("99.00"), Stock: 5}
	stored, err := svc.GetOrderByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.True(t, stored.Lines[0].UnitPrice.Equal(price("20.00")))
}

func TestService_PlaceOrder_InsufficientStock(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := NewService(repo, twoProductCatalog())

	_, err := svc.PlaceOrder(context.Background(), 7, []ports.LineRequest{{ProductID: 11, Quantity: 3}})
	var stockErr *ports.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, int64(11), stockErr.ProductID)
	assert.Equal(t, "mouse", stockErr.ProductName)
	assert.Empty(t, repo.orders)
}

func TestService_PlaceOrder_UnknownProduct(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := NewService(repo, twoProductCatalog())

	_, err := svc.PlaceOrder(context.Background(), 7, []ports.LineRequest{{ProductID: 99, Quantity: 1}})
	var notFound *ports.ProductNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, int64(99), notFound.ProductID)
	assert.Empty(t, repo.orders)
}

func TestService_PlaceOrder_Validation(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := NewService(repo, twoProductCatalog())
	ctx := context.Background()

	_, err := svc.PlaceOrder(ctx, 0, []ports.LineRequest{{ProductID: 10, Quantity: 1}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.PlaceOrder(ctx, 7, nil)
	assert.ErrorIs(t, err, ErrEmptyOrder)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.PlaceOrder(ctx, 7, []ports.LineRequest{{ProductID: 10, Quantity: 0}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.PlaceOrder(ctx, 7, []ports.LineRequest{{ProductID: -1, Quantity: 1}})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_CustomerOrders(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := NewService(repo, twoProductCatalog())
	ctx := context.Background()

	_, err := svc.PlaceOrder(ctx, 7, []ports.LineRequest{{ProductID: 10, Quantity: 1}})
	require.NoError(t, err)
	_, err = svc.PlaceOrder(ctx, 8, []ports.LineRequest{{ProductID: 10, Quantity: 1}})
	require.NoError(t, err)

	mine, err := svc.CustomerOrders(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	all, err := svc.AllOrders(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = svc.CustomerOrders(ctx, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_RefundOrder(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := NewService(repo, twoProductCatalog())
	ctx := context.Background()

	placed, err := svc.PlaceOrder(ctx, 7, []ports.LineRequest{{ProductID: 10, Quantity: 1}})
	require.NoError(t, err)

	refunded, err := svc.RefundOrder(ctx, placed.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRefunded, refunded.Status)

	_, err = svc.RefundOrder(ctx, 404)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}
