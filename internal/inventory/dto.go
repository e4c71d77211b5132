package inventory

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/davidromeroc/tienda-backend/pkg/db/models"
)

// MovementDTO is one stock movement as returned to clients. Quantity is
// the signed delta that was applied to the counter.
type MovementDTO struct {
	ID           uint      `json:"id"`
	ProductID    uint      `json:"product_id"`
	Quantity     int       `json:"quantity"`
	MovementType string    `json:"movement_type"`
	Reason       *string   `json:"reason,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewMovementDTO builds a DTO from the persisted model.
func NewMovementDTO(movement *models.StockMovement) *MovementDTO {
	return &MovementDTO{
		ID:           movement.ID,
		ProductID:    movement.ProductID,
		Quantity:     movement.Quantity,
		MovementType: string(movement.MovementType),
		Reason:       movement.Reason,
		CreatedAt:    movement.CreatedAt,
	}
}

// MovementListResult carries one page of movements and paging metadata.
type MovementListResult struct {
	Movements []MovementDTO `json:"movements"`
	Total     int64         `json:"total"`
	Skip      int           `json:"skip"`
	Limit     int           `json:"limit"`
}

// LowStockProductDTO identifies a product at or below its minimum.
type LowStockProductDTO struct {
	ProductID     uint   `json:"product_id"`
	SKU           string `json:"sku"`
	Name          string `json:"name"`
	StockQuantity int    `json:"stock_quantity"`
	MinStock      int    `json:"min_stock"`
}

// DashboardDTO aggregates the inventory health counters.
type DashboardDTO struct {
	TotalValuation decimal.Decimal      `json:"total_valuation"`
	TotalSKUs      int64                `json:"total_skus"`
	LowStockCount  int64                `json:"low_stock_count"`
	OutOfStock     int64                `json:"out_of_stock_count"`
	LowStock       []LowStockProductDTO `json:"low_stock"`
}
