package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/davidromeroc/tienda-backend/api/responses"
	"github.com/davidromeroc/tienda-backend/api/validators"
	"github.com/davidromeroc/tienda-backend/internal/catalog"
	pkgerrors "github.com/davidromeroc/tienda-backend/pkg/errors"
	"github.com/davidromeroc/tienda-backend/pkg/logger"
)

const maxListLimit = 100

// ListProducts serves the public catalog with search, category filter and paging.
func ListProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
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

		result, err := svc.ListProducts(r.Context(), catalog.ListInput{
			Query:           validators.SanitizeString(r.URL.Query().Get("search"), 120),
			Category:        validators.SanitizeString(r.URL.Query().Get("category"), 80),
			Skip:            skip,
			Limit:           limit,
			IncludeInactive: r.URL.Query().Get("include_inactive") == "true",
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// GetProduct serves one catalog entry by id.
func GetProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := validators.ParseURLUint(chi.URLParam(r, "productID"), "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// ListCategories serves the distinct category names in the catalog.
func ListCategories(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		categories, err := svc.ListCategories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"categories": categories})
	}
}

type createProductRequest struct {
	SKU           string  `json:"sku" validate:"required,min=2,max=64"`
	Name          string  `json:"name" validate:"required,min=2,max=200"`
	Description   *string `json:"description,omitempty"`
	Category      string  `json:"category" validate:"required,min=2,max=80"`
	Price         string  `json:"price" validate:"required"`
	CostPrice     *string `json:"cost_price,omitempty"`
	StockQuantity int     `json:"stock_quantity" validate:"omitempty,min=0"`
	MinStock      *int    `json:"min_stock,omitempty" validate:"omitempty,min=0"`
	Supplier      *string `json:"supplier,omitempty"`
	ImageURL      *string `json:"image_url,omitempty"`
	IsActive      *bool   `json:"is_active,omitempty"`
}

func (req createProductRequest) toCreateInput() (catalog.CreateProductInput, error) {
	price, err := parseMoney(req.Price, "price")
	if err != nil {
		return catalog.CreateProductInput{}, err
	}
	costPrice, err := parseOptionalMoney(req.CostPrice, "cost_price")
	if err != nil {
		return catalog.CreateProductInput{}, err
	}

	minStock := 5
	if req.MinStock != nil {
		minStock = *req.MinStock
	}
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	return catalog.CreateProductInput{
		SKU:           strings.TrimSpace(req.SKU),
		Name:          strings.TrimSpace(req.Name),
		Description:   req.Description,
		Category:      strings.TrimSpace(req.Category),
		Price:         price,
		CostPrice:     costPrice,
		StockQuantity: req.StockQuantity,
		MinStock:      minStock,
		Supplier:      req.Supplier,
		ImageURL:      req.ImageURL,
		IsActive:      isActive,
	}, nil
}

// CreateProduct registers a new catalog entry. Admin only.
func CreateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toCreateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

type updateProductRequest struct {
	SKU         *string `json:"sku,omitempty" validate:"omitempty,min=2,max=64"`
	Name        *string `json:"name,omitempty" validate:"omitempty,min=2,max=200"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty" validate:"omitempty,min=2,max=80"`
	Price       *string `json:"price,omitempty"`
	CostPrice   *string `json:"cost_price,omitempty"`
	MinStock    *int    `json:"min_stock,omitempty" validate:"omitempty,min=0"`
	Supplier    *string `json:"supplier,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

func (req updateProductRequest) toUpdateInput() (catalog.UpdateProductInput, error) {
	price, err := parseOptionalMoney(req.Price, "price")
	if err != nil {
		return catalog.UpdateProductInput{}, err
	}
	costPrice, err := parseOptionalMoney(req.CostPrice, "cost_price")
	if err != nil {
		return catalog.UpdateProductInput{}, err
	}

	return catalog.UpdateProductInput{
		SKU:         req.SKU,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       price,
		CostPrice:   costPrice,
		MinStock:    req.MinStock,
		Supplier:    req.Supplier,
		ImageURL:    req.ImageURL,
		IsActive:    req.IsActive,
	}, nil
}

// UpdateProduct applies a partial mutation to a catalog entry. Admin only.
// Stock is deliberately absent from the payload; it only moves through
// inventory movements.
func UpdateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := validators.ParseURLUint(chi.URLParam(r, "productID"), "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toUpdateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.UpdateProduct(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// DeleteProduct removes a catalog entry with no sales history. Admin only.
func DeleteProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := validators.ParseURLUint(chi.URLParam(r, "productID"), "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"deleted": true, "id": id})
	}
}

func parseMoney(raw, field string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid decimal value").WithDetails(map[string]any{"field": field})
	}
	return value, nil
}

func parseOptionalMoney(raw *string, field string) (*decimal.Decimal, error) {
	if raw == nil {
		return nil, nil
	}
	value, err := parseMoney(*raw, field)
	if err != nil {
		return nil, err
	}
	return &value, nil
}
