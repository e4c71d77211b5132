package orders

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/davidromeroc/tienda-backend/internal/inventory"
	"github.com/davidromeroc/tienda-backend/internal/pricing"
	"github.com/davidromeroc/tienda-backend/pkg/db"
	"github.com/davidromeroc/tienda-backend/pkg/db/models"
	"github.com/davidromeroc/tienda-backend/pkg/enums"
	pkgerrors "github.com/davidromeroc/tienda-backend/pkg/errors"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// Service exposes the order ledger operations.
type Service interface {
	Commit(ctx context.Context, userID uint, lines []pricing.CartLine) (*OrderDTO, error)
	FindByID(ctx context.Context, id uint) (*OrderDTO, error)
	ListByUser(ctx context.Context, userID uint, skip, limit int) (*OrderListResult, error)
}

type service struct {
	repo     *Repository
	engine   *pricing.Engine
	dbClient *db.Client
}

// NewService constructs an order service instance.
func NewService(repo *Repository, engine *pricing.Engine, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if engine == nil {
		return nil, fmt.Errorf("pricing engine required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, engine: engine, dbClient: dbClient}, nil
}

// Commit prices the cart and writes the receipt, its lines and one OUT
// stock movement per line inside a single transaction. Any failure
// rolls everything back; there are no partial orders.
func (s *service) Commit(ctx context.Context, userID uint, lines []pricing.CartLine) (*OrderDTO, error) {
	if userID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user is required")
	}

	var orderID uint
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		priced, err := s.engine.WithTx(tx).PriceCart(ctx, lines)
		if err != nil {
			return err
		}

		order := &models.Order{
			UserID: userID,
			Status: enums.OrderStatusCompleted,
			Total:  priced.Total,
			Lines:  make([]models.OrderLine, len(priced.Lines)),
		}
		for i, line := range priced.Lines {
			order.Lines[i] = models.OrderLine{
				ProductID: line.ProductID,
				Name:      line.Name,
				Quantity:  line.Quantity,
				UnitPrice: line.UnitPrice,
				Subtotal:  line.Subtotal,
			}
		}

		if _, err := s.repo.WithTx(tx).Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert order")
		}
		orderID = order.ID

		reason := fmt.Sprintf("venta orden #%d", order.ID)
		for _, line := range priced.Lines {
			if _, err := inventory.ApplyTx(ctx, tx, line.ProductID, -line.Quantity, enums.MovementTypeOut, &reason); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "commit order")
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: reload order")
	}
	return NewOrderDTO(order), nil
}

// FindByID loads one order with its lines.
func (s *service) FindByID(ctx context.Context, id uint) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load order")
	}
	return NewOrderDTO(order), nil
}

// ListByUser pages the user's order history, newest first.
func (s *service) ListByUser(ctx context.Context, userID uint, skip, limit int) (*OrderListResult, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	orders, total, err := s.repo.ListByUser(ctx, userID, skip, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list orders")
	}

	result := &OrderListResult{
		Orders: make([]OrderDTO, len(orders)),
		Total:  total,
		Skip:   skip,
		Limit:  limit,
	}
	for i := range orders {
		result.Orders[i] = *NewOrderDTO(&orders[i])
	}
	return result, nil
}
