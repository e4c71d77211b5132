package pricing

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/davidromeroc/tienda-backend/pkg/db/models"
	pkgerrors "github.com/davidromeroc/tienda-backend/pkg/errors"
)

// CartLine is one requested item, quantity pair.
type CartLine struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// PricedLine snapshots the catalog price for one cart line.
type PricedLine struct {
	ProductID uint
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}

// PricedCart is the result of pricing a full cart.
type PricedCart struct {
	Lines []PricedLine
	Total decimal.Decimal
}

// Engine validates carts and prices them from the catalog. It never
// writes; prices always come from the current product rows, not the
// client payload.
type Engine struct {
	db *gorm.DB
}

// NewEngine constructs a pricing engine bound to the provided DB handle.
func NewEngine(db *gorm.DB) (*Engine, error) {
	if db == nil {
		return nil, fmt.Errorf("db handle required")
	}
	return &Engine{db: db}, nil
}

// WithTx returns an engine bound to the provided transaction, so order
// commit prices against the same snapshot it writes to.
func (e *Engine) WithTx(tx *gorm.DB) *Engine {
	return &Engine{db: tx}
}

// PriceCart validates every line and computes subtotals and the cart
// total. It fails fast on the first invalid line.
func (e *Engine) PriceCart(ctx context.Context, lines []CartLine) (*PricedCart, error) {
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart cannot be empty")
	}

	priced := &PricedCart{
		Lines: make([]PricedLine, 0, len(lines)),
		Total: decimal.Zero,
	}

	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive").
				WithDetails(map[string]any{"product_id": line.ProductID, "quantity": line.Quantity})
		}

		var product models.Product
		if err := e.db.WithContext(ctx).First(&product, "id = ?", line.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
					WithDetails(map[string]any{"product_id": line.ProductID})
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
		}
		// Retired products are indistinguishable from absent ones.
		if !product.IsActive {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
				WithDetails(map[string]any{"product_id": line.ProductID})
		}

		subtotal := product.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		priced.Lines = append(priced.Lines, PricedLine{
			ProductID: product.ID,
			Name:      product.Name,
			Quantity:  line.Quantity,
			UnitPrice: product.Price,
			Subtotal:  subtotal,
		})
		priced.Total = priced.Total.Add(subtotal)
	}

	return priced, nil
}
