package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/davidromeroc/tienda-backend/api/responses"
	"github.com/davidromeroc/tienda-backend/api/validators"
	"github.com/davidromeroc/tienda-backend/internal/accounts"
	pkgerrors "github.com/davidromeroc/tienda-backend/pkg/errors"
	"github.com/davidromeroc/tienda-backend/pkg/logger"
)

// ListCustomers serves the aggregated customer roster with lifetime value
// and segmentation tags. Admin only.
func ListCustomers(svc accounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "accounts service unavailable"))
			return
		}

		customers, err := svc.ListCustomers(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"customers": customers})
	}
}

// GetCustomer serves one aggregated customer record. Admin only.
func GetCustomer(svc accounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "accounts service unavailable"))
			return
		}

		id, err := validators.ParseURLUint(chi.URLParam(r, "userID"), "userID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customer, err := svc.GetCustomer(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, customer)
	}
}
