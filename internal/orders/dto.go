package orders

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/davidromeroc/tienda-backend/pkg/db/models"
)

// OrderLineDTO is one receipt line with its frozen price.
type OrderLineDTO struct {
	ProductID uint            `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// OrderDTO is the committed order as returned to clients.
type OrderDTO struct {
	ID        uint            `json:"id"`
	UserID    uint            `json:"user_id"`
	Status    string          `json:"status"`
	Total     decimal.Decimal `json:"total"`
	Lines     []OrderLineDTO  `json:"lines"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewOrderDTO builds a DTO from the persisted model.
func NewOrderDTO(order *models.Order) *OrderDTO {
	dto := &OrderDTO{
		ID:        order.ID,
		UserID:    order.UserID,
		Status:    string(order.Status),
		Total:     order.Total,
		Lines:     make([]OrderLineDTO, len(order.Lines)),
		CreatedAt: order.CreatedAt,
	}
	for i, line := range order.Lines {
		dto.Lines[i] = OrderLineDTO{
			ProductID: line.ProductID,
			Name:      line.Name,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Subtotal:  line.Subtotal,
		}
	}
	return dto
}

// OrderListResult carries one page of orders and paging metadata.
type OrderListResult struct {
	Orders []OrderDTO `json:"orders"`
	Total  int64      `json:"total"`
	Skip   int        `json:"skip"`
	Limit  int        `json:"limit"`
}
