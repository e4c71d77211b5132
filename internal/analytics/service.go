package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/davidromeroc/tienda-backend/pkg/errors"
)

const defaultWindowDays = 30

// DashboardDTO is the admin sales dashboard payload.
type DashboardDTO struct {
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
	TotalOrders    int64           `json:"total_orders"`
	AvgTicket      decimal.Decimal `json:"avg_ticket"`
	ConversionRate decimal.Decimal `json:"conversion_rate"`
	SalesTrend     []TrendPoint    `json:"sales_trend"`
	Categories     []CategorySlice `json:"category_distribution"`
	WindowDays     int             `json:"window_days"`
}

// Service exposes the sales analytics read side.
type Service interface {
	Dashboard(ctx context.Context, windowDays int) (*DashboardDTO, error)
}

type service struct {
	repo *Repository
	now  func() time.Time
}

// NewService constructs an analytics service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("analytics repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

// Dashboard aggregates revenue, trend and category share for the
// requested trailing window.
func (s *service) Dashboard(ctx context.Context, windowDays int) (*DashboardDTO, error) {
	if windowDays <= 0 {
		windowDays = defaultWindowDays
	}
	since := s.now().AddDate(0, 0, -windowDays)

	totals, err := s.repo.Totals(ctx, since)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: sales totals")
	}

	registered, err := s.repo.RegisteredCustomers(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count customers")
	}

	trend, err := s.repo.SalesTrend(ctx, since)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: sales trend")
	}

	categories, err := s.repo.CategoryDistribution(ctx, since)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: category distribution")
	}

	dto := &DashboardDTO{
		TotalRevenue:   totals.TotalRevenue,
		TotalOrders:    totals.TotalOrders,
		AvgTicket:      decimal.Zero,
		ConversionRate: decimal.Zero,
		SalesTrend:     trend,
		Categories:     categories,
		WindowDays:     windowDays,
	}
	if totals.TotalOrders > 0 {
		dto.AvgTicket = totals.TotalRevenue.
			Div(decimal.NewFromInt(totals.TotalOrders)).
			Round(2)
	}
	// Share of registered customers who bought in the window.
	if registered > 0 {
		dto.ConversionRate = decimal.NewFromInt(totals.Customers).
			Div(decimal.NewFromInt(registered)).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	}
	return dto, nil
}
