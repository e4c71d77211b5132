package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/davidromeroc/tienda-backend/pkg/db"
	"github.com/davidromeroc/tienda-backend/pkg/db/models"
	pkgerrors "github.com/davidromeroc/tienda-backend/pkg/errors"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// Service exposes catalog management operations.
type Service interface {
	ListProducts(ctx context.Context, input ListInput) (*ProductListResult, error)
	GetProduct(ctx context.Context, id uint) (*ProductDTO, error)
	ListCategories(ctx context.Context) ([]string, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, id uint, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, id uint) error
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	SKU           string
	Name          string
	Description   *string
	Category      string
	Price         decimal.Decimal
	CostPrice     *decimal.Decimal
	StockQuantity int
	MinStock      int
	Supplier      *string
	ImageURL      *string
	IsActive      bool
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	SKU           *string
	Name          *string
	Description   *string
	Category      *string
	Price         *decimal.Decimal
	CostPrice     *decimal.Decimal
	MinStock      *int
	Supplier      *string
	ImageURL      *string
	IsActive      *bool
}

type service struct {
	repo     *Repository
	dbClient *db.Client
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient}, nil
}

// ListProducts returns a filtered page of the catalog.
func (s *service) ListProducts(ctx context.Context, input ListInput) (*ProductListResult, error) {
	if input.Skip < 0 {
		input.Skip = 0
	}
	if input.Limit <= 0 {
		input.Limit = defaultPageLimit
	}
	if input.Limit > maxPageLimit {
		input.Limit = maxPageLimit
	}

	products, total, err := s.repo.List(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}

	result := &ProductListResult{
		Products: make([]ProductDTO, len(products)),
		Total:    total,
		Skip:     input.Skip,
		Limit:    input.Limit,
	}
	for i := range products {
		result.Products[i] = *NewProductDTO(&products[i])
	}
	return result, nil
}

// GetProduct loads a single product by ID.
func (s *service) GetProduct(ctx context.Context, id uint) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	return NewProductDTO(product), nil
}

// ListCategories returns the distinct categories of active products.
func (s *service) ListCategories(ctx context.Context) ([]string, error) {
	categories, err := s.repo.Categories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list categories")
	}
	return categories, nil
}

// CreateProduct inserts a new catalog listing.
func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	if err := validateProductInput(input.SKU, input.Name, input.Category, input.Price); err != nil {
		return nil, err
	}
	if input.StockQuantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock_quantity cannot be negative")
	}

	if existing, err := s.repo.FindBySKU(ctx, input.SKU); err == nil && existing != nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "sku already in use").
			WithDetails(map[string]any{"sku": input.SKU})
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check sku")
	}

	product := &models.Product{
		SKU:           strings.TrimSpace(input.SKU),
		Name:          strings.TrimSpace(input.Name),
		Description:   input.Description,
		Category:      strings.TrimSpace(input.Category),
		Price:         input.Price,
		CostPrice:     input.CostPrice,
		StockQuantity: input.StockQuantity,
		MinStock:      input.MinStock,
		Supplier:      input.Supplier,
		ImageURL:      input.ImageURL,
		IsActive:      input.IsActive,
	}
	if product.MinStock <= 0 {
		product.MinStock = 5
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
	}
	return NewProductDTO(created), nil
}

// UpdateProduct mutates catalog fields. Stock is deliberately absent from
// UpdateProductInput: it only changes through stock movements.
func (s *service) UpdateProduct(ctx context.Context, id uint, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}

	applyUpdate(product, input)
	if err := validateProductInput(product.SKU, product.Name, product.Category, product.Price); err != nil {
		return nil, err
	}

	if input.SKU != nil {
		if existing, err := s.repo.FindBySKU(ctx, product.SKU); err == nil && existing.ID != product.ID {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "sku already in use").
				WithDetails(map[string]any{"sku": product.SKU})
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check sku")
		}
	}

	updated, err := s.repo.Update(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
	}
	return NewProductDTO(updated), nil
}

// DeleteProduct removes a product with no recorded history. Products
// referenced by order lines or stock movements are deactivated instead
// of deleted so receipts and the movement ledger keep resolving.
func (s *service) DeleteProduct(ctx context.Context, id uint) error {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}

	refs, err := s.repo.CountOrderLineRefs(ctx, product.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count order line refs")
	}
	if refs > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "product has sales history; deactivate it instead").
			WithDetails(map[string]any{"order_lines": refs})
	}

	movements, err := s.repo.CountMovementRefs(ctx, product.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count stock movement refs")
	}
	if movements > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "product has stock movement history; deactivate it instead").
			WithDetails(map[string]any{"stock_movements": movements})
	}

	if err := s.repo.Delete(ctx, product.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete product")
	}
	return nil
}

func validateProductInput(sku, name, category string, price decimal.Decimal) error {
	if strings.TrimSpace(sku) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "sku is required")
	}
	if strings.TrimSpace(name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if strings.TrimSpace(category) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "category is required")
	}
	if price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	return nil
}

func applyUpdate(product *models.Product, input UpdateProductInput) {
	if input.SKU != nil {
		product.SKU = strings.TrimSpace(*input.SKU)
	}
	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.Category != nil {
		product.Category = strings.TrimSpace(*input.Category)
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.CostPrice != nil {
		product.CostPrice = input.CostPrice
	}
	if input.MinStock != nil {
		product.MinStock = *input.MinStock
	}
	if input.Supplier != nil {
		product.Supplier = input.Supplier
	}
	if input.ImageURL != nil {
		product.ImageURL = input.ImageURL
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
}
