package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a catalog listing with its live stock counter.
type Product struct {
	ID            uint             `gorm:"column:id;primaryKey;autoIncrement"`
	SKU           string           `gorm:"column:sku;not null;uniqueIndex"`
	Name          string           `gorm:"column:name;not null"`
	Description   *string          `gorm:"column:description"`
	Category      string           `gorm:"column:category;not null;index"`
	Price         decimal.Decimal  `gorm:"column:price;type:numeric(12,2);not null"`
	CostPrice     *decimal.Decimal `gorm:"column:cost_price;type:numeric(12,2)"`
	StockQuantity int              `gorm:"column:stock_quantity;not null;default:0"`
	MinStock      int              `gorm:"column:min_stock;not null;default:5"`
	Supplier      *string          `gorm:"column:supplier"`
	ImageURL      *string          `gorm:"column:image_url"`
	IsActive      bool             `gorm:"column:is_active;not null;default:true"`
	CreatedAt     time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
