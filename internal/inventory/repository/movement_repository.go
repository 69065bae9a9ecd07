package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/warungos/datastore/internal/inventory/domain"
	"github.com/warungos/datastore/pkg/gormrepo"
	"github.com/warungos/datastore/pkg/query"
)

// GormMovementRepository implements domain.MovementRepository. The embedded
// generic base also carries Update methods, but the domain interface does
// not expose them; ledger rows are written once.
type GormMovementRepository struct {
	*gormrepo.Repository[domain.StockMovement]
}

var _ domain.MovementRepository = (*GormMovementRepository)(nil)

// NewGormMovementRepository creates a new stock movement repository.
func NewGormMovementRepository(db *gorm.DB) *GormMovementRepository {
	return &GormMovementRepository{
		Repository: gormrepo.New[domain.StockMovement](db, "stock_movement", domain.MovementColumns),
	}
}

// FindByProduct retrieves a product's ledger entries, newest first.
func (r *GormMovementRepository) FindByProduct(ctx context.Context, productID uint, take, skip int) ([]domain.StockMovement, error) {
	return r.FindMany(ctx, query.Options{
		Filter:  query.Where("product_id = ?", productID),
		OrderBy: []query.Order{{Column: "created_at", Desc: true}, {Column: "id", Desc: true}},
		Take:    take,
		Skip:    skip,
	})
}

// FindBySale retrieves the ledger entries referencing a sale.
func (r *GormMovementRepository) FindBySale(ctx context.Context, saleID uint) ([]domain.StockMovement, error) {
	return r.FindMany(ctx, query.Options{
		Filter:  query.Where("ref_sale_id = ?", saleID),
		OrderBy: []query.Order{{Column: "id"}},
	})
}
