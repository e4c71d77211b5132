package orders

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/davidromeroc/tienda-backend/internal/pricing"
	"github.com/davidromeroc/tienda-backend/pkg/db"
	"github.com/davidromeroc/tienda-backend/pkg/db/models"
	pkgerrors "github.com/davidromeroc/tienda-backend/pkg/errors"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:orders_%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Order{},
		&models.OrderLine{},
		&models.StockMovement{},
	))
	return conn
}

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()

	conn := setupOrdersTestDB(t)
	engine, err := pricing.NewEngine(conn)
	require.NoError(t, err)
	svc, err := NewService(NewRepository(conn), engine, db.NewWithConn(conn))
	require.NoError(t, err)
	return svc, conn
}

func seedUser(t *testing.T, conn *gorm.DB) *models.User {
	t.Helper()

	user := &models.User{
		Email:        fmt.Sprintf("cliente_%s@example.com", uuid.NewString()),
		PasswordHash: "hash",
		FullName:     "Cliente Prueba",
		IsActive:     true,
	}
	require.NoError(t, conn.Create(user).Error)
	return user
}

func seedProduct(t *testing.T, conn *gorm.DB, sku, price string, stock int) *models.Product {
	t.Helper()

	product := &models.Product{
		SKU:           sku,
		Name:          "Producto " + sku,
		Category:      "general",
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
		MinStock:      5,
		IsActive:      true,
	}
	require.NoError(t, conn.Create(product).Error)
	return product
}

func TestCommit_WritesReceiptLinesAndMovements(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	user := seedUser(t, conn)
	product := seedProduct(t, conn, "ORD-1", "25.99", 10)

	order, err := svc.Commit(ctx, user.ID, []pricing.CartLine{{ProductID: product.ID, Quantity: 3}})
	require.NoError(t, err)

	assert.Equal(t, "completed", order.Status)
	assert.True(t, order.Total.Equal(decimal.RequireFromString("77.97")), "got %s", order.Total)
	require.Len(t, order.Lines, 1)
	assert.True(t, order.Lines[0].UnitPrice.Equal(decimal.RequireFromString("25.99")))
	assert.True(t, order.Lines[0].Subtotal.Equal(decimal.RequireFromString("77.97")))

	var reloaded models.Product
	require.NoError(t, conn.First(&reloaded, product.ID).Error)
	assert.Equal(t, 7, reloaded.StockQuantity)

	var movements []models.StockMovement
	require.NoError(t, conn.Where("product_id = ?", product.ID).Find(&movements).Error)
	require.Len(t, movements, 1)
	assert.Equal(t, -3, movements[0].Quantity)
	assert.Equal(t, "OUT", string(movements[0].MovementType))
	require.NotNil(t, movements[0].Reason)
	assert.Contains(t, *movements[0].Reason, fmt.Sprintf("#%d", order.ID))
}

func TestCommit_PricesFromCatalogNotPayload(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	user := seedUser(t, conn)
	product := seedProduct(t, conn, "ORD-2", "10.00", 10)

	order, err := svc.Commit(ctx, user.ID, []pricing.CartLine{{ProductID: product.ID, Quantity: 2}})
	require.NoError(t, err)

	// Later catalog edits must not rewrite the frozen receipt.
	require.NoError(t, conn.Model(&models.Product{}).
		Where("id = ?", product.ID).
		Update("price", decimal.RequireFromString("999.99")).Error)

	reloaded, err := svc.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.Lines[0].UnitPrice.Equal(decimal.RequireFromString("10.00")))
	assert.True(t, reloaded.Total.Equal(decimal.RequireFromString("20.00")))
}

func TestCommit_UnknownProductRollsBackEverything(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	user := seedUser(t, conn)
	product := seedProduct(t, conn, "ORD-3", "10.00", 10)

	_, err := svc.Commit(ctx, user.ID, []pricing.CartLine{
		{ProductID: product.ID, Quantity: 2},
		{ProductID: 777777, Quantity: 1},
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())

	var orderCount, lineCount, movementCount int64
	require.NoError(t, conn.Model(&models.Order{}).Count(&orderCount).Error)
	require.NoError(t, conn.Model(&models.OrderLine{}).Count(&lineCount).Error)
	require.NoError(t, conn.Model(&models.StockMovement{}).Count(&movementCount).Error)
	assert.Zero(t, orderCount)
	assert.Zero(t, lineCount)
	assert.Zero(t, movementCount)

	var reloaded models.Product
	require.NoError(t, conn.First(&reloaded, product.ID).Error)
	assert.Equal(t, 10, reloaded.StockQuantity)
}

func TestCommit_InvalidCartRejected(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	user := seedUser(t, conn)
	product := seedProduct(t, conn, "ORD-4", "10.00", 10)

	_, err := svc.Commit(ctx, user.ID, nil)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	_, err = svc.Commit(ctx, user.ID, []pricing.CartLine{{ProductID: product.ID, Quantity: 0}})
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestListByUser_NewestFirst(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	user := seedUser(t, conn)
	other := seedUser(t, conn)
	product := seedProduct(t, conn, "ORD-5", "5.00", 100)

	var lastID uint
	for i := 0; i < 3; i++ {
		order, err := svc.Commit(ctx, user.ID, []pricing.CartLine{{ProductID: product.ID, Quantity: 1}})
		require.NoError(t, err)
		lastID = order.ID
		time.Sleep(5 * time.Millisecond)
	}
	_, err := svc.Commit(ctx, other.ID, []pricing.CartLine{{ProductID: product.ID, Quantity: 1}})
	require.NoError(t, err)

	result, err := svc.ListByUser(ctx, user.ID, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 3, result.Total)
	require.Len(t, result.Orders, 3)
	assert.Equal(t, lastID, result.Orders[0].ID)
	for _, order := range result.Orders {
		assert.Equal(t, user.ID, order.UserID)
	}
}
