package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/davidromeroc/tienda-backend/pkg/db"
	"github.com/davidromeroc/tienda-backend/pkg/db/models"
	"github.com/davidromeroc/tienda-backend/pkg/enums"
	pkgerrors "github.com/davidromeroc/tienda-backend/pkg/errors"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 200
)

// MovementInput captures a requested stock mutation.
type MovementInput struct {
	ProductID uint
	Quantity  int
	Type      enums.MovementType
	Reason    *string
}

// Service exposes stock reconciliation operations.
type Service interface {
	ApplyMovement(ctx context.Context, input MovementInput) (*MovementDTO, error)
	ListMovements(ctx context.Context, productID uint, skip, limit int) (*MovementListResult, error)
	Dashboard(ctx context.Context) (*DashboardDTO, error)
}

type service struct {
	repo     *Repository
	dbClient *db.Client
}

// NewService constructs an inventory service instance.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient}, nil
}

// EffectiveDelta converts a movement request into the signed delta
// applied to the stock counter: IN adds, OUT subtracts, ADJUSTMENT
// carries its own sign. Quantities are applied as given; positive IN
// and OUT quantities are a caller convention, not a rule.
func EffectiveDelta(movementType enums.MovementType, quantity int) (int, error) {
	switch movementType {
	case enums.MovementTypeIn:
		return quantity, nil
	case enums.MovementTypeOut:
		return -quantity, nil
	case enums.MovementTypeAdjustment:
		return quantity, nil
	default:
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid movement type").
			WithDetails(map[string]any{"movement_type": string(movementType)})
	}
}

// ApplyMovement mutates the stock counter and appends the audit row in
// one transaction. Negative resulting stock is allowed; the dashboard
// surfaces it instead of blocking the ledger.
func (s *service) ApplyMovement(ctx context.Context, input MovementInput) (*MovementDTO, error) {
	delta, err := EffectiveDelta(input.Type, input.Quantity)
	if err != nil {
		return nil, err
	}

	var movement *models.StockMovement
	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		created, txErr := ApplyTx(ctx, tx, input.ProductID, delta, input.Type, input.Reason)
		if txErr != nil {
			return txErr
		}
		movement = created
		return nil
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "apply stock movement")
	}

	return NewMovementDTO(movement), nil
}

// ApplyTx performs the counter update plus audit insert inside the
// caller's transaction. Order commit reuses this for its OUT movements
// so the receipt and the stock change land atomically.
func ApplyTx(ctx context.Context, tx *gorm.DB, productID uint, delta int, movementType enums.MovementType, reason *string) (*models.StockMovement, error) {
	repo := NewRepository(tx)

	affected, err := repo.AdjustStock(ctx, productID, delta)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: adjust stock")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
			WithDetails(map[string]any{"product_id": productID})
	}

	movement := &models.StockMovement{
		ProductID:    productID,
		Quantity:     delta,
		MovementType: movementType,
		Reason:       reason,
	}
	if _, err := repo.InsertMovement(ctx, movement); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert stock movement")
	}
	return movement, nil
}

// ListMovements pages the movement log, newest first.
func (s *service) ListMovements(ctx context.Context, productID uint, skip, limit int) (*MovementListResult, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	movements, total, err := s.repo.ListMovements(ctx, productID, skip, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list stock movements")
	}

	result := &MovementListResult{
		Movements: make([]MovementDTO, len(movements)),
		Total:     total,
		Skip:      skip,
		Limit:     limit,
	}
	for i := range movements {
		result.Movements[i] = *NewMovementDTO(&movements[i])
	}
	return result, nil
}

// Dashboard aggregates cost-based valuation and stock health counters
// over the whole catalog and lists the products needing replenishment.
func (s *service) Dashboard(ctx context.Context) (*DashboardDTO, error) {
	summary, err := s.repo.Summarize(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &DashboardDTO{}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: summarize stock")
	}

	lowStock, err := s.repo.LowStockProducts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list low stock products")
	}

	dto := &DashboardDTO{
		TotalValuation: summary.TotalValuation,
		TotalSKUs:      summary.TotalSKUs,
		LowStockCount:  summary.LowStockCount,
		OutOfStock:     summary.OutOfStock,
		LowStock:       make([]LowStockProductDTO, len(lowStock)),
	}
	for i := range lowStock {
		dto.LowStock[i] = LowStockProductDTO{
			ProductID:     lowStock[i].ID,
			SKU:           lowStock[i].SKU,
			Name:          strings.TrimSpace(lowStock[i].Name),
			StockQuantity: lowStock[i].StockQuantity,
			MinStock:      lowStock[i].MinStock,
		}
	}
	return dto, nil
}
