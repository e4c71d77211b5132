package catalog

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/davidromeroc/tienda-backend/pkg/db/models"
)

// ProductDTO represents the catalog product payload returned to clients.
type ProductDTO struct {
	ID            uint             `json:"id"`
	SKU           string           `json:"sku"`
	Name          string           `json:"name"`
	Description   *string          `json:"description,omitempty"`
	Category      string           `json:"category"`
	Price         decimal.Decimal  `json:"price"`
	CostPrice     *decimal.Decimal `json:"cost_price,omitempty"`
	StockQuantity int              `json:"stock_quantity"`
	MinStock      int              `json:"min_stock"`
	Supplier      *string          `json:"supplier,omitempty"`
	ImageURL      *string          `json:"image_url,omitempty"`
	IsActive      bool             `json:"is_active"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// NewProductDTO builds a DTO from the persisted model.
func NewProductDTO(product *models.Product) *ProductDTO {
	return &ProductDTO{
		ID:            product.ID,
		SKU:           product.SKU,
		Name:          product.Name,
		Description:   product.Description,
		Category:      product.Category,
		Price:         product.Price,
		CostPrice:     product.CostPrice,
		StockQuantity: product.StockQuantity,
		MinStock:      product.MinStock,
		Supplier:      product.Supplier,
		ImageURL:      product.ImageURL,
		IsActive:      product.IsActive,
		CreatedAt:     product.CreatedAt,
		UpdatedAt:     product.UpdatedAt,
	}
}

// ProductListResult carries one page of products and paging metadata.
type ProductListResult struct {
	Products []ProductDTO `json:"products"`
	Total    int64        `json:"total"`
	Skip     int          `json:"skip"`
	Limit    int          `json:"limit"`
}
