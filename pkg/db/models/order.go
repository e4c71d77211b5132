package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/davidromeroc/tienda-backend/pkg/enums"
)

// Order is the committed receipt for a priced cart.
type Order struct {
	ID        uint              `gorm:"column:id;primaryKey;autoIncrement"`
	UserID    uint              `gorm:"column:user_id;not null;index"`
	Status    enums.OrderStatus `gorm:"column:status;type:varchar(20);not null;default:'completed'"`
	Total     decimal.Decimal   `gorm:"column:total;type:numeric(12,2);not null"`
	Lines     []OrderLine       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
