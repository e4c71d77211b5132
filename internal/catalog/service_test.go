package catalog

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidromeroc/tienda-backend/pkg/db/models"
	"github.com/davidromeroc/tienda-backend/pkg/enums"
	pkgerrors "github.com/davidromeroc/tienda-backend/pkg/errors"
)

func TestListProducts_FiltersAndPaging(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	mustCreateProduct(t, conn, "CAF-001", "Cafe molido", "alimentos", "8.50", 20)
	mustCreateProduct(t, conn, "CAF-002", "Cafe en grano", "alimentos", "11.00", 15)
	mustCreateProduct(t, conn, "TEC-001", "Teclado mecanico", "electronica", "59.99", 8)
	inactive := mustCreateProduct(t, conn, "CAF-099", "Cafe descontinuado", "alimentos", "5.00", 0)
	require.NoError(t, conn.Model(inactive).Update("is_active", false).Error)

	result, err := svc.ListProducts(ctx, ListInput{Query: "cafe"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, result.Total)

	result, err = svc.ListProducts(ctx, ListInput{Category: "electronica"})
	require.NoError(t, err)
	require.Len(t, result.Products, 1)
	assert.Equal(t, "TEC-001", result.Products[0].SKU)

	result, err = svc.ListProducts(ctx, ListInput{Skip: 1, Limit: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 3, result.Total)
	require.Len(t, result.Products, 1)

	result, err = svc.ListProducts(ctx, ListInput{IncludeInactive: true})
	require.NoError(t, err)
	assert.EqualValues(t, 4, result.Total)
}

func TestGetProduct_NotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.GetProduct(context.Background(), 9999)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestCreateProduct_Validation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, CreateProductInput{Name: "sin sku", Category: "x", Price: decimal.NewFromInt(1)})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	_, err = svc.CreateProduct(ctx, CreateProductInput{
		SKU: "NEG-001", Name: "precio negativo", Category: "x",
		Price: decimal.NewFromInt(-5),
	})
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestCreateProduct_DuplicateSKU(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	mustCreateProduct(t, conn, "DUP-001", "Original", "hogar", "10.00", 5)

	_, err := svc.CreateProduct(ctx, CreateProductInput{
		SKU: "DUP-001", Name: "Copia", Category: "hogar",
		Price: decimal.NewFromInt(12), IsActive: true,
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestUpdateProduct_PartialMutation(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	product := mustCreateProduct(t, conn, "UPD-001", "Lampara", "hogar", "25.00", 10)

	newPrice := decimal.RequireFromString("29.90")
	updated, err := svc.UpdateProduct(ctx, product.ID, UpdateProductInput{Price: &newPrice})
	require.NoError(t, err)

	assert.True(t, updated.Price.Equal(newPrice))
	assert.Equal(t, "Lampara", updated.Name)
	assert.Equal(t, 10, updated.StockQuantity, "stock must not change through catalog updates")
}

func TestDeleteProduct_GuardedBySalesHistory(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	sold := mustCreateProduct(t, conn, "DEL-001", "Vendido", "hogar", "10.00", 3)
	fresh := mustCreateProduct(t, conn, "DEL-002", "Sin ventas", "hogar", "10.00", 3)

	user := &models.User{Email: "cliente@example.com", PasswordHash: "h", FullName: "Cliente"}
	require.NoError(t, conn.Create(user).Error)
	order := &models.Order{UserID: user.ID, Status: "completed", Total: decimal.NewFromInt(10)}
	require.NoError(t, conn.Create(order).Error)
	line := &models.OrderLine{
		OrderID: order.ID, ProductID: sold.ID, Name: sold.Name,
		Quantity: 1, UnitPrice: sold.Price, Subtotal: sold.Price,
	}
	require.NoError(t, conn.Create(line).Error)

	err := svc.DeleteProduct(ctx, sold.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())

	require.NoError(t, svc.DeleteProduct(ctx, fresh.ID))
	_, err = svc.GetProduct(ctx, fresh.ID)
	require.Error(t, err)
}

func TestDeleteProduct_GuardedByMovementLedger(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	restocked := mustCreateProduct(t, conn, "DEL-003", "Reabastecido", "hogar", "10.00", 8)
	movement := &models.StockMovement{
		ProductID: restocked.ID, Quantity: 8, MovementType: enums.MovementTypeIn,
	}
	require.NoError(t, conn.Create(movement).Error)

	err := svc.DeleteProduct(ctx, restocked.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())

	var count int64
	require.NoError(t, conn.Model(&models.StockMovement{}).Where("product_id = ?", restocked.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count, "ledger rows survive the refused delete")
}
