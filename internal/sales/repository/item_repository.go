package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/warungos/datastore/internal/sales/domain"
	"github.com/warungos/datastore/pkg/gormrepo"
	"github.com/warungos/datastore/pkg/query"
)

// GormItemRepository implements domain.ItemRepository.
type GormItemRepository struct {
	*gormrepo.Repository[domain.SaleItem]
}

var _ domain.ItemRepository = (*GormItemRepository)(nil)

// NewGormItemRepository creates a new sale item repository.
func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{
		Repository: gormrepo.New[domain.SaleItem](db, "sale_item", domain.ItemColumns),
	}
}

// FindBySale retrieves the lines of a sale in insertion order.
func (r *GormItemRepository) FindBySale(ctx context.Context, saleID uint) ([]domain.SaleItem, error) {
	return r.FindMany(ctx, query.Options{
		Filter:  query.Where("sale_id = ?", saleID),
		OrderBy: []query.Order{{Column: "id"}},
	})
}

// FindByProduct retrieves the lines that sold a product, newest first.
func (r *GormItemRepository) FindByProduct(ctx context.Context, productID uint, take, skip int) ([]domain.SaleItem, error) {
	return r.FindMany(ctx, query.Options{
		Filter:  query.Where("product_id = ?", productID),
		OrderBy: []query.Order{{Column: "id", Desc: true}},
		Take:    take,
		Skip:    skip,
	})
}
