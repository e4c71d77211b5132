package inventory

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/davidromeroc/tienda-backend/pkg/db/models"
)

// Repository wires together stock persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// AdjustStock applies a signed delta to the product counter with a
// single relative UPDATE, so concurrent movements never lose updates.
// Returns the number of rows touched; zero means the product is gone.
func (r *Repository) AdjustStock(ctx context.Context, productID uint, delta int) (int64, error) {
	result := r.db.WithContext(ctx).Exec(
		`UPDATE products SET stock_quantity = stock_quantity + ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		delta, productID,
	)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// InsertMovement appends the audit row.
func (r *Repository) InsertMovement(ctx context.Context, movement *models.StockMovement) (*models.StockMovement, error) {
	if err := r.db.WithContext(ctx).Create(movement).Error; err != nil {
		return nil, err
	}
	return movement, nil
}

// ListMovements returns a newest-first page of movements, optionally
// scoped to one product.
func (r *Repository) ListMovements(ctx context.Context, productID uint, skip, limit int) ([]models.StockMovement, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.StockMovement{})
	if productID != 0 {
		query = query.Where("product_id = ?", productID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var movements []models.StockMovement
	if err := query.
		Order("created_at DESC, id DESC").
		Offset(skip).
		Limit(limit).
		Find(&movements).Error; err != nil {
		return nil, 0, err
	}
	return movements, total, nil
}

// StockSummary aggregates the inventory dashboard counters.
type StockSummary struct {
	TotalValuation decimal.Decimal
	TotalSKUs      int64
	LowStockCount  int64
	OutOfStock     int64
}

// Summarize computes the dashboard aggregates over every product,
// retired ones included. Valuation is stock at acquisition cost, so
// oversold (negative) stock subtracts from the total rather than being
// clamped away.
func (r *Repository) Summarize(ctx context.Context) (*StockSummary, error) {
	var row struct {
		TotalValuation decimal.Decimal
		TotalSKUs      int64
		LowStockCount  int64
		OutOfStock     int64
	}

	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Select(`
COALESCE(SUM(stock_quantity * COALESCE(cost_price, 0)), 0) AS total_valuation,
COUNT(*) AS total_skus,
COALESCE(SUM(CASE WHEN stock_quantity > 0 AND stock_quantity <= min_stock THEN 1 ELSE 0 END), 0) AS low_stock_count,
COALESCE(SUM(CASE WHEN stock_quantity = 0 THEN 1 ELSE 0 END), 0) AS out_of_stock`).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}

	return &StockSummary{
		TotalValuation: row.TotalValuation,
		TotalSKUs:      row.TotalSKUs,
		LowStockCount:  row.LowStockCount,
		OutOfStock:     row.OutOfStock,
	}, nil
}

// LowStockProducts lists products sitting in the low-stock band, the
// same band the dashboard counter uses.
func (r *Repository) LowStockProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).
		Where("stock_quantity > 0 AND stock_quantity <= min_stock").
		Order("stock_quantity ASC").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}
