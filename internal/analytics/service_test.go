package analytics

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
)

func setupAnalyticsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:analytics_%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Order{},
		&models.OrderLine{},
	))
	return conn
}

func seedUser(t *testing.T, conn *gorm.DB, admin bool) *models.User {
	t.Helper()

	user := &models.User{
		Email:        fmt.Sprintf("user_%s@example.com", uuid.NewString()),
		PasswordHash: "hash",
		FullName:     "Usuario",
		IsAdmin:      admin,
		IsActive:     true,
	}
	require.NoError(t, conn.Create(user).Error)
	return user
}

func seedProduct(t *testing.T, conn *gorm.DB, sku, category, price string) *models.Product {
	t.Helper()

	product := &models.Product{
		SKU:      sku,
		Name:     "Producto " + sku,
		Category: category,
		Price:    decimal.RequireFromString(price),
		MinStock: 5,
		IsActive: true,
	}
	require.NoError(t, conn.Create(product).Error)
	return product
}

func seedOrderWithLine(t *testing.T, conn *gorm.DB, userID uint, product *models.Product, qty int) *models.Order {
	t.Helper()

	subtotal := product.Price.Mul(decimal.NewFromInt(int64(qty)))
	order := &models.Order{
		UserID: userID,
		Status: "completed",
		Total:  subtotal,
		Lines: []models.OrderLine{{
			ProductID: product.ID,
			Name:      product.Name,
			Quantity:  qty,
			UnitPrice: product.Price,
			Subtotal:  subtotal,
		}},
	}
	require.NoError(t, conn.Create(order).Error)
	return order
}

func TestDashboard_TotalsAvgTicketAndConversion(t *testing.T) {
	conn := setupAnalyticsTestDB(t)
	svc, err := NewService(NewRepository(conn))
	require.NoError(t, err)

	buyer := seedUser(t, conn, false)
	seedUser(t, conn, false) // registered, never bought
	seedUser(t, conn, true)  // admin, excluded from conversion

	food := seedProduct(t, conn, "AN-1", "alimentos", "10.00")
	tech := seedProduct(t, conn, "AN-2", "electronica", "40.00")

	seedOrderWithLine(t, conn, buyer.ID, food, 2)  // 20.00
	seedOrderWithLine(t, conn, buyer.ID, tech, 1)  // 40.00

	dashboard, err := svc.Dashboard(context.Background(), 30)
	require.NoError(t, err)

	assert.True(t, dashboard.TotalRevenue.Equal(decimal.RequireFromString("60.00")), "got %s", dashboard.TotalRevenue)
	assert.EqualValues(t, 2, dashboard.TotalOrders)
	assert.True(t, dashboard.AvgTicket.Equal(decimal.RequireFromString("30.00")), "got %s", dashboard.AvgTicket)
	// one buyer out of two registered customers
	assert.True(t, dashboard.ConversionRate.Equal(decimal.RequireFromString("50.00")), "got %s", dashboard.ConversionRate)

	require.NotEmpty(t, dashboard.SalesTrend)
	assert.EqualValues(t, 2, dashboard.SalesTrend[0].Orders)

	require.Len(t, dashboard.Categories, 2)
	assert.Equal(t, "electronica", dashboard.Categories[0].Category, "biggest revenue first")
	assert.True(t, dashboard.Categories[0].Revenue.Equal(decimal.RequireFromString("40.00")))
}

func TestDashboard_EmptyStore(t *testing.T) {
	conn := setupAnalyticsTestDB(t)
	svc, err := NewService(NewRepository(conn))
	require.NoError(t, err)

	dashboard, err := svc.Dashboard(context.Background(), 0)
	require.NoError(t, err)

	assert.True(t, dashboard.TotalRevenue.IsZero())
	assert.Zero(t, dashboard.TotalOrders)
	assert.True(t, dashboard.AvgTicket.IsZero())
	assert.True(t, dashboard.ConversionRate.IsZero())
	assert.Equal(t, 30, dashboard.WindowDays)
	assert.Empty(t, dashboard.SalesTrend)
}
