package pricing

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/davidromeroc/tienda-backend/pkg/db/models"
	pkgerrors "github.com/davidromeroc/tienda-backend/pkg/errors"
)

func setupPricingTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:pricing_%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Product{}))
	return conn
}

func seedProduct(t *testing.T, conn *gorm.DB, sku, price string, active bool) *models.Product {
	t.Helper()

	product := &models.Product{
		SKU:           sku,
		Name:          "Producto " + sku,
		Category:      "general",
		Price:         decimal.RequireFromString(price),
		StockQuantity: 10,
		MinStock:      5,
		IsActive:      active,
	}
	require.NoError(t, conn.Create(product).Error)
	return product
}

func TestPriceCart_ComputesLineSubtotalsAndTotal(t *testing.T) {
	conn := setupPricingTestDB(t)
	engine, err := NewEngine(conn)
	require.NoError(t, err)

	cheap := seedProduct(t, conn, "A-1", "25.99", true)
	dear := seedProduct(t, conn, "A-2", "100.00", true)

	priced, err := engine.PriceCart(context.Background(), []CartLine{
		{ProductID: cheap.ID, Quantity: 3},
		{ProductID: dear.ID, Quantity: 1},
	})
	require.NoError(t, err)

	require.Len(t, priced.Lines, 2)
	assert.True(t, priced.Lines[0].Subtotal.Equal(decimal.RequireFromString("77.97")),
		"got %s", priced.Lines[0].Subtotal)
	assert.True(t, priced.Total.Equal(decimal.RequireFromString("177.97")),
		"got %s", priced.Total)
}

func TestPriceCart_EmptyCartRejected(t *testing.T) {
	conn := setupPricingTestDB(t)
	engine, err := NewEngine(conn)
	require.NoError(t, err)

	_, err = engine.PriceCart(context.Background(), nil)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestPriceCart_NonPositiveQuantityRejected(t *testing.T) {
	conn := setupPricingTestDB(t)
	engine, err := NewEngine(conn)
	require.NoError(t, err)

	product := seedProduct(t, conn, "B-1", "5.00", true)

	for _, qty := range []int{0, -2} {
		_, err := engine.PriceCart(context.Background(), []CartLine{{ProductID: product.ID, Quantity: qty}})
		typed := pkgerrors.As(err)
		require.NotNil(t, typed, "quantity %d", qty)
		assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	}
}

func TestPriceCart_UnknownProductFailsFast(t *testing.T) {
	conn := setupPricingTestDB(t)
	engine, err := NewEngine(conn)
	require.NoError(t, err)

	product := seedProduct(t, conn, "C-1", "5.00", true)

	_, err = engine.PriceCart(context.Background(), []CartLine{
		{ProductID: product.ID, Quantity: 1},
		{ProductID: 424242, Quantity: 1},
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestPriceCart_InactiveProductReadsAsMissing(t *testing.T) {
	conn := setupPricingTestDB(t)
	engine, err := NewEngine(conn)
	require.NoError(t, err)

	product := seedProduct(t, conn, "D-1", "5.00", false)

	_, err = engine.PriceCart(context.Background(), []CartLine{{ProductID: product.ID, Quantity: 1}})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
	assert.Equal(t, "product not found", typed.Message())
}

func TestPriceCart_DoesNotWrite(t *testing.T) {
	conn := setupPricingTestDB(t)
	engine, err := NewEngine(conn)
	require.NoError(t, err)

	product := seedProduct(t, conn, "E-1", "9.99", true)

	_, err = engine.PriceCart(context.Background(), []CartLine{{ProductID: product.ID, Quantity: 2}})
	require.NoError(t, err)

	var reloaded models.Product
	require.NoError(t, conn.First(&reloaded, product.ID).Error)
	assert.Equal(t, 10, reloaded.StockQuantity)
}
