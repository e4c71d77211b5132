package catalog

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/davidromeroc/tienda-backend/pkg/db/models"
)

// ListInput captures the catalog listing filters.
type ListInput struct {
	Query           string
	Category        string
	Skip            int
	Limit           int
	IncludeInactive bool
}

// Repository wires together catalog persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads a product by primary key.
func (r *Repository) FindByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindBySKU loads a product by its unique SKU.
func (r *Repository) FindBySKU(ctx context.Context, sku string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "sku = ?", sku).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// List returns a filtered page of products plus the total match count.
func (r *Repository) List(ctx context.Context, input ListInput) ([]models.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{})

	if !input.IncludeInactive {
		query = query.Where("is_active = ?", true)
	}
	if term := strings.TrimSpace(input.Query); term != "" {
		pattern := "%" + strings.ToLower(term) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(sku) LIKE ?", pattern, pattern)
	}
	if input.Category != "" {
		query = query.Where("category = ?", input.Category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []models.Product
	if err := query.
		Order("id ASC").
		Offset(input.Skip).
		Limit(input.Limit).
		Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// Categories returns the distinct category names of active products.
func (r *Repository) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("is_active = ?", true).
		Distinct().
		Order("category ASC").
		Pluck("category", &categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// Create inserts the product row.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Update persists all fields of the product row.
func (r *Repository) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes the product row.
func (r *Repository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error
}

// CountOrderLineRefs reports how many order lines reference the product.
// Products with sales history must not be hard-deleted.
func (r *Repository) CountOrderLineRefs(ctx context.Context, productID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.OrderLine{}).
		Where("product_id = ?", productID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountMovementRefs reports how many stock movements reference the
// product. The movement ledger is append-only, so a product with
// movements keeps its row.
func (r *Repository) CountMovementRefs(ctx context.Context, productID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.StockMovement{}).
		Where("product_id = ?", productID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
