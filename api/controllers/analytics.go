package controllers

import (
	"net/http"

	"github.com/davidromeroc/tienda-backend/api/responses"
	"github.com/davidromeroc/tienda-backend/api/validators"
	"github.com/davidromeroc/tienda-backend/internal/analytics"
	pkgerrors "github.com/davidromeroc/tienda-backend/pkg/errors"
	"github.com/davidromeroc/tienda-backend/pkg/logger"
)

// SalesDashboard serves the aggregated sales metrics for a trailing
// window of days. Admin only.
func SalesDashboard(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "analytics service unavailable"))
			return
		}

		windowDays, err := validators.ParseQueryInt(r, "days", 30, 1, 365)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dashboard, err := svc.Dashboard(r.Context(), windowDays)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dashboard)
	}
}
