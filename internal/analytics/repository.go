package analytics

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SalesTotals holds the headline revenue aggregates.
type SalesTotals struct {
	TotalRevenue decimal.Decimal
	TotalOrders  int64
	Customers    int64
}

// TrendPoint is one day of revenue.
type TrendPoint struct {
	Day     string          `json:"day"`
	Revenue decimal.Decimal `json:"revenue"`
	Orders  int64           `json:"orders"`
}

// CategorySlice is one category's share of revenue.
type CategorySlice struct {
	Category string          `json:"category"`
	Revenue  decimal.Decimal `json:"revenue"`
	Units    int64           `json:"units"`
}

// Repository wires together the analytics read queries.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Totals aggregates completed orders since the cutoff.
func (r *Repository) Totals(ctx context.Context, since time.Time) (*SalesTotals, error) {
	var row struct {
		TotalRevenue decimal.Decimal
		TotalOrders  int64
		Customers    int64
	}
	err := r.db.WithContext(ctx).Raw(`
SELECT COALESCE(SUM(total), 0) AS total_revenue,
       COUNT(*) AS total_orders,
       COUNT(DISTINCT user_id) AS customers
FROM orders
WHERE status = 'completed' AND created_at >= ?`, since).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &SalesTotals{
		TotalRevenue: row.TotalRevenue,
		TotalOrders:  row.TotalOrders,
		Customers:    row.Customers,
	}, nil
}

// RegisteredCustomers counts non-admin accounts.
func (r *Repository) RegisteredCustomers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(
		`SELECT COUNT(*) FROM users WHERE is_admin = ?`, false).
		Scan(&count).Error
	return count, err
}

// dayExpr returns the day bucketing expression for the active dialect.
// Tests run on sqlite, production on postgres.
func (r *Repository) dayExpr() string {
	if r.db.Dialector.Name() == "sqlite" {
		return "strftime('%Y-%m-%d', created_at)"
	}
	return "to_char(created_at, 'YYYY-MM-DD')"
}

// SalesTrend buckets completed-order revenue by calendar day.
func (r *Repository) SalesTrend(ctx context.Context, since time.Time) ([]TrendPoint, error) {
	var points []TrendPoint
	err := r.db.WithContext(ctx).Raw(`
SELECT `+r.dayExpr()+` AS day,
       COALESCE(SUM(total), 0) AS revenue,
       COUNT(*) AS orders
FROM orders
WHERE status = 'completed' AND created_at >= ?
GROUP BY day
ORDER BY day ASC`, since).
		Scan(&points).Error
	if err != nil {
		return nil, err
	}
	return points, nil
}

// CategoryDistribution sums line revenue per product category.
func (r *Repository) CategoryDistribution(ctx context.Context, since time.Time) ([]CategorySlice, error) {
	var slices []CategorySlice
	err := r.db.WithContext(ctx).Raw(`
SELECT p.category AS category,
       COALESCE(SUM(ol.subtotal), 0) AS revenue,
       COALESCE(SUM(ol.quantity), 0) AS units
FROM order_lines ol
JOIN orders o ON o.id = ol.order_id
JOIN products p ON p.id = ol.product_id
WHERE o.status = 'completed' AND o.created_at >= ?
GROUP BY p.category
ORDER BY revenue DESC`, since).
		Scan(&slices).Error
	if err != nil {
		return nil, err
	}
	return slices, nil
}
