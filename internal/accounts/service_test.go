package accounts

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

	"github.com/davidromeroc/tienda-backend/pkg/config"
	"github.com/davidromeroc/tienda-backend/pkg/db/models"
	pkgerrors "github.com/davidromeroc/tienda-backend/pkg/errors"
)

func setupAccountsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:accounts_%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.User{}, &models.Order{}, &models.OrderLine{}))
	return conn
}

func newTestService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()

	svc, err := NewService(NewRepository(conn), config.AccountsConfig{
		VIPSpendThreshold:    "1000",
		FrequentOrdersCutoff: 5,
	})
	require.NoError(t, err)
	return svc
}

func seedCustomer(t *testing.T, conn *gorm.DB, name string, admin bool) *models.User {
	t.Helper()

	user := &models.User{
		Email:        fmt.Sprintf("%s_%s@example.com", name, uuid.NewString()),
		PasswordHash: "hash",
		FullName:     name,
		IsAdmin:      admin,
		IsActive:     true,
	}
	require.NoError(t, conn.Create(user).Error)
	return user
}

func seedOrders(t *testing.T, conn *gorm.DB, userID uint, count int, total string) {
	t.Helper()

	for i := 0; i < count; i++ {
		order := &models.Order{
			UserID: userID,
			Status: "completed",
			Total:  decimal.RequireFromString(total),
		}
		require.NoError(t, conn.Create(order).Error)
	}
}

func findCustomer(t *testing.T, customers []CustomerDTO, userID uint) *CustomerDTO {
	t.Helper()

	for i := range customers {
		if customers[i].UserID == userID {
			return &customers[i]
		}
	}
	t.Fatalf("customer %d not in result", userID)
	return nil
}

func TestListCustomers_TagsAndTotals(t *testing.T) {
	conn := setupAccountsTestDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()

	vip := seedCustomer(t, conn, "vip", false)
	seedOrders(t, conn, vip.ID, 2, "600.00") // 1200 total

	frequent := seedCustomer(t, conn, "frecuente", false)
	seedOrders(t, conn, frequent.ID, 6, "10.00") // 6 orders, 60 total

	fresh := seedCustomer(t, conn, "nuevo", false)

	admin := seedCustomer(t, conn, "admin", true)
	seedOrders(t, conn, admin.ID, 1, "50.00")

	customers, err := svc.ListCustomers(ctx)
	require.NoError(t, err)
	require.Len(t, customers, 3, "admins are not customers")

	got := findCustomer(t, customers, vip.ID)
	assert.Contains(t, got.Tags, "VIP")
	assert.True(t, got.TotalSpent.Equal(decimal.RequireFromString("1200.00")), "got %s", got.TotalSpent)
	assert.True(t, got.LTVScore.Equal(got.TotalSpent))
	assert.EqualValues(t, 2, got.OrdersCount)
	require.NotNil(t, got.LastOrderAt)

	got = findCustomer(t, customers, frequent.ID)
	assert.Contains(t, got.Tags, "Frecuente")
	assert.NotContains(t, got.Tags, "VIP")

	got = findCustomer(t, customers, fresh.ID)
	assert.Equal(t, []string{"Nuevo"}, got.Tags)
	assert.True(t, got.TotalSpent.IsZero())
	assert.Nil(t, got.LastOrderAt)
}

func TestListCustomers_VIPAndFrequentCombine(t *testing.T) {
	conn := setupAccountsTestDB(t)
	svc := newTestService(t, conn)

	whale := seedCustomer(t, conn, "ballena", false)
	seedOrders(t, conn, whale.ID, 7, "200.00")

	customers, err := svc.ListCustomers(context.Background())
	require.NoError(t, err)

	got := findCustomer(t, customers, whale.ID)
	assert.Contains(t, got.Tags, "VIP")
	assert.Contains(t, got.Tags, "Frecuente")
}

func TestListCustomers_ThresholdIsExclusive(t *testing.T) {
	conn := setupAccountsTestDB(t)
	svc := newTestService(t, conn)

	edge := seedCustomer(t, conn, "limite", false)
	seedOrders(t, conn, edge.ID, 1, "1000.00")

	customers, err := svc.ListCustomers(context.Background())
	require.NoError(t, err)

	got := findCustomer(t, customers, edge.ID)
	assert.NotContains(t, got.Tags, "VIP", "spend must exceed the threshold")
}

func TestGetCustomer(t *testing.T) {
	conn := setupAccountsTestDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()

	user := seedCustomer(t, conn, "uno", false)
	seedOrders(t, conn, user.ID, 1, "15.50")
	lastLogin := time.Date(2026, 8, 20, 9, 30, 0, 0, time.UTC)
	require.NoError(t, conn.Model(user).Update("last_login_at", lastLogin).Error)

	got, err := svc.GetCustomer(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, got.TotalSpent.Equal(decimal.RequireFromString("15.50")))
	require.NotNil(t, got.LastLoginAt)
	assert.WithinDuration(t, lastLogin, *got.LastLoginAt, time.Second)

	_, err = svc.GetCustomer(ctx, 987654)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
