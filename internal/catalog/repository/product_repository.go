package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/warungos/datastore/internal/catalog/domain"
	"github.com/warungos/datastore/pkg/gormrepo"
	"github.com/warungos/datastore/pkg/query"
)

// GormProductRepository implements domain.ProductRepository.
type GormProductRepository struct {
	*gormrepo.Repository[domain.Product]
}

var _ domain.ProductRepository = (*GormProductRepository)(nil)

// NewGormProductRepository creates a new product repository.
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{
		Repository: gormrepo.New[domain.Product](db, "product", domain.ProductColumns),
	}
}

// FindByID retrieves a product by primary key.
func (r *GormProductRepository) FindByID(ctx context.Context, id uint) (*domain.Product, error) {
	return r.FindUnique(ctx, "id", id)
}

// FindBySKU retrieves a product by its unique SKU.
func (r *GormProductRepository) FindBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	return r.FindUnique(ctx, "sku", sku)
}

// FindByBarcode retrieves a product by its unique barcode.
func (r *GormProductRepository) FindByBarcode(ctx context.Context, barcode string) (*domain.Product, error) {
	return r.FindUnique(ctx, "barcode", barcode)
}

// FindByCategory retrieves active products in a category, name-ordered.
func (r *GormProductRepository) FindByCategory(ctx context.Context, categoryID uint, take, skip int) ([]domain.Product, error) {
	return r.FindMany(ctx, query.Options{
		Filter:  query.Where("category_id = ? AND is_active = ?", categoryID, true),
		OrderBy: []query.Order{{Column: "name"}},
		Take:    take,
		Skip:    skip,
	})
}

// SearchByName retrieves active products whose name contains the term.
func (r *GormProductRepository) SearchByName(ctx context.Context, name string, take int) ([]domain.Product, error) {
	return r.FindMany(ctx, query.Options{
		Filter:  query.Where("name ILIKE ? AND is_active = ?", "%"+name+"%", true),
		OrderBy: []query.Order{{Column: "name"}},
		Take:    take,
	})
}
