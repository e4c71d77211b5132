package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLine snapshots one cart item at the price it sold for.
// UnitPrice and Subtotal are frozen at commit time so later catalog
// edits never rewrite history.
type OrderLine struct {
	ID        uint            `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID   uint            `gorm:"column:order_id;not null;index"`
	ProductID uint            `gorm:"column:product_id;not null;index"`
	Name      string          `gorm:"column:name;not null"`
	Quantity  int             `gorm:"column:quantity;not null"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	Subtotal  decimal.Decimal `gorm:"column:subtotal;type:numeric(12,2);not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}
