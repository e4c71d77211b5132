package controllers

import (
	"net/http"
	"strings"

	"github.com/davidromeroc/tienda-backend/api/responses"
	"github.com/davidromeroc/tienda-backend/api/validators"
	"github.com/davidromeroc/tienda-backend/internal/inventory"
	"github.com/davidromeroc/tienda-backend/pkg/enums"
	pkgerrors "github.com/davidromeroc/tienda-backend/pkg/errors"
	"github.com/davidromeroc/tienda-backend/pkg/logger"
)

type createMovementRequest struct {
	ProductID uint    `json:"product_id" validate:"required,min=1"`
	Quantity  int     `json:"quantity"`
	Type      string  `json:"type" validate:"required"`
	Reason    *string `json:"reason,omitempty" validate:"omitempty,max=255"`
}

// CreateMovement applies a manual stock movement. Admin only.
func CreateMovement(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		var payload createMovementRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		movementType, err := enums.ParseMovementType(strings.ToUpper(strings.TrimSpace(payload.Type)))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid movement type"))
			return
		}

		movement, err := svc.ApplyMovement(r.Context(), inventory.MovementInput{
			ProductID: payload.ProductID,
			Quantity:  payload.Quantity,
			Type:      movementType,
			Reason:    payload.Reason,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, movement)
	}
}

// ListMovements serves the movement audit trail, newest first. Admin only.
func ListMovements(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		productID, err := validators.ParseQueryInt(r, "product_id", 0, 0, 1<<31-1)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		skip, err := validators.ParseQueryInt(r, "skip", 0, 0, 1<<20)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", 20, 1, maxListLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListMovements(r.Context(), uint(productID), skip, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// InventoryDashboard serves stock valuation and low-stock alerts. Admin only.
func InventoryDashboard(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		dashboard, err := svc.Dashboard(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dashboard)
	}
}
