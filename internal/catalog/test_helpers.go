package catalog

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/davidromeroc/tienda-backend/pkg/db"
	"github.com/davidromeroc/tienda-backend/pkg/db/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:catalog_%s?mode=memory&cache=shared", uuid.NewString())
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

	conn := setupTestDB(t)
	svc, err := NewService(NewRepository(conn), db.NewWithConn(conn))
	require.NoError(t, err)
	return svc, conn
}

func mustCreateProduct(t *testing.T, conn *gorm.DB, sku, name, category string, price string, stock int) *models.Product {
	t.Helper()

	product := &models.Product{
		SKU:           sku,
		Name:          name,
		Category:      category,
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
		MinStock:      5,
		IsActive:      true,
	}
	require.NoError(t, conn.Create(product).Error)
	return product
}
