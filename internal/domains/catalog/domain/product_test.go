package domain

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	product, err := NewProduct(0, "  Keyboard  ", "  mechanical  ", decimal.RequireFromString("49.90"), 12, 3)
	require.NoError(t, err)
	assert.Equal(t, "Keyboard", product.Name)
	assert.Equal(t, "mechanical", product.Description)
	assert.Equal(t, int32(12), product.Stock)
	assert.Equal(t, int64(3), product.CreatedBy)
}

func TestNewProduct_Validation(t *testing.T) {
	okPrice := decimal.RequireFromString("9.99")

	tests := []struct {
		name    string
		product string
		price   decimal.Decimal
		stock   int32
		wantErr error
	}{
		{"empty name", "", okPrice, 1, ErrEmptyName},
		{"blank name", "   ", okPrice, 1, ErrEmptyName},
		{"name too long", strings.Repeat("x", 101), okPrice, 1, ErrNameTooLong},
		{"zero price", "widget", decimal.Zero, 1, ErrInvalidPrice},
		{"negative price", "widget", decimal.RequireFromString("-0.01"), 1, ErrInvalidPrice},
		{"negative stock", "widget", okPrice, -1, ErrNegativeStock},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProduct(0, tt.product, "", tt.price, tt.stock, 1)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestProduct_SetName(t *testing.T) {
	product := &Product{Name: "old", Price: decimal.RequireFromString("1.00")}
	require.NoError(t, product.SetName("new name"))
	assert.Equal(t, "new name", product.Name)

	assert.ErrorIs(t, product.SetName(""), ErrEmptyName)
	assert.Equal(t, "new name", product.Name)

	name := strings.Repeat("y", 100)
	require.NoError(t, product.SetName(name))
	assert.Equal(t, name, product.Name)
}
