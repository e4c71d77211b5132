package models

import (
	"time"

	"github.com/davidromeroc/tienda-backend/pkg/enums"
)

// StockMovement is an append-only audit row for every stock change.
// Quantity stores the effective signed delta already applied to the
// product counter, so replaying the table reconstructs current stock.
type StockMovement struct {
	ID           uint               `gorm:"column:id;primaryKey;autoIncrement"`
	ProductID    uint               `gorm:"column:product_id;not null;index"`
	Quantity     int                `gorm:"column:quantity;not null"`
	MovementType enums.MovementType `gorm:"column:movement_type;type:varchar(20);not null"`
	Reason       *string            `gorm:"column:reason;type:varchar(255)"`
	CreatedAt    time.Time          `gorm:"column:created_at;autoCreateTime"`
}
