package accounts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/davidromeroc/tienda-backend/pkg/config"
	"github.com/davidromeroc/tienda-backend/pkg/enums"
	pkgerrors "github.com/davidromeroc/tienda-backend/pkg/errors"
)

// CustomerDTO is the admin-facing customer profile with LTV data.
type CustomerDTO struct {
	UserID      uint            `json:"user_id"`
	Email       string          `json:"email"`
	FullName    string          `json:"full_name"`
	IsActive    bool            `json:"is_active"`
	OrdersCount int64           `json:"orders_count"`
	TotalSpent  decimal.Decimal `json:"total_spent"`
	LTVScore    decimal.Decimal `json:"ltv_score"`
	Tags        []string        `json:"tags"`
	LastOrderAt *time.Time      `json:"last_order_at,omitempty"`
	LastLoginAt *time.Time      `json:"last_login_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Service exposes customer account analytics.
type Service interface {
	ListCustomers(ctx context.Context) ([]CustomerDTO, error)
	GetCustomer(ctx context.Context, userID uint) (*CustomerDTO, error)
}

type service struct {
	repo           *Repository
	vipSpend       decimal.Decimal
	frequentCutoff int
}

// NewService constructs an accounts service instance.
func NewService(repo *Repository, cfg config.AccountsConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("accounts repository required")
	}
	vipSpend, err := cfg.VIPSpend()
	if err != nil {
		return nil, err
	}
	cutoff := cfg.FrequentOrdersCutoff
	if cutoff <= 0 {
		cutoff = 5
	}
	return &service{
		repo:           repo,
		vipSpend:       vipSpend,
		frequentCutoff: cutoff,
	}, nil
}

// ListCustomers returns every customer with totals and segment tags.
func (s *service) ListCustomers(ctx context.Context) ([]CustomerDTO, error) {
	aggregates, err := s.repo.AggregateCustomers(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: aggregate customers")
	}

	customers := make([]CustomerDTO, len(aggregates))
	for i := range aggregates {
		customers[i] = s.toDTO(&aggregates[i])
	}
	return customers, nil
}

// GetCustomer returns one customer profile with totals and tags.
func (s *service) GetCustomer(ctx context.Context, userID uint) (*CustomerDTO, error) {
	aggregate, err := s.repo.AggregateCustomer(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: aggregate customer")
	}
	dto := s.toDTO(aggregate)
	return &dto, nil
}

func (s *service) toDTO(aggregate *CustomerAggregate) CustomerDTO {
	return CustomerDTO{
		UserID:      aggregate.UserID,
		Email:       aggregate.Email,
		FullName:    aggregate.FullName,
		IsActive:    aggregate.IsActive,
		OrdersCount: aggregate.OrdersCount,
		TotalSpent:  aggregate.TotalSpent,
		LTVScore:    aggregate.TotalSpent,
		Tags:        s.tagsFor(aggregate),
		LastOrderAt: aggregate.LastOrderAt,
		LastLoginAt: aggregate.LastLoginAt,
		CreatedAt:   aggregate.CreatedAt,
	}
}

// tagsFor classifies a customer. Tags are not exclusive: a VIP with
// many orders carries both labels.
func (s *service) tagsFor(aggregate *CustomerAggregate) []string {
	tags := []string{}
	if aggregate.OrdersCount == 0 {
		return append(tags, enums.CustomerTagNew.String())
	}
	if aggregate.TotalSpent.GreaterThan(s.vipSpend) {
		tags = append(tags, enums.CustomerTagVIP.String())
	}
	if aggregate.OrdersCount > int64(s.frequentCutoff) {
		tags = append(tags, enums.CustomerTagFrequent.String())
	}
	return tags
}
