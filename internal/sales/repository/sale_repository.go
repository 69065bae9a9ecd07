package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/warungos/datastore/internal/sales/domain"
	"github.com/warungos/datastore/pkg/gormrepo"
	"github.com/warungos/datastore/pkg/query"
)

// GormSaleRepository implements domain.SaleRepository.
type GormSaleRepository struct {
	*gormrepo.Repository[domain.Sale]
}

var _ domain.SaleRepository = (*GormSaleRepository)(nil)

// NewGormSaleRepository creates a new sale repository.
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{
		Repository: gormrepo.New[domain.Sale](db, "sale", domain.SaleColumns),
	}
}

// Create inserts a sale, assigning a receipt number when none is set.
func (r *GormSaleRepository) Create(ctx context.Context, sale *domain.Sale) error {
	if sale.Number == "" {
		sale.Number = uuid.NewString()
	}
	if sale.Status == "" {
		sale.Status = domain.SalePending
	}
	return r.Repository.Create(ctx, sale)
}

// FindByID retrieves a sale by primary key.
func (r *GormSaleRepository) FindByID(ctx context.Context, id uint) (*domain.Sale, error) {
	return r.FindUnique(ctx, "id", id)
}

// FindByNumber retrieves a sale by its unique receipt number.
func (r *GormSaleRepository) FindByNumber(ctx context.Context, number string) (*domain.Sale, error) {
	return r.FindUnique(ctx, "number", number)
}

// FindByCashier retrieves a cashier's sales, newest first.
func (r *GormSaleRepository) FindByCashier(ctx context.Context, cashierID uint, take, skip int) ([]domain.Sale, error) {
	return r.FindMany(ctx, query.Options{
		Filter:  query.Where("cashier_id = ?", cashierID),
		OrderBy: []query.Order{{Column: "created_at", Desc: true}},
		Take:    take,
		Skip:    skip,
	})
}

// FindByStatus retrieves sales in the given status, newest first.
func (r *GormSaleRepository) FindByStatus(ctx context.Context, status domain.SaleStatus, take, skip int) ([]domain.Sale, error) {
	return r.FindMany(ctx, query.Options{
		Filter:  query.Where("status = ?", status),
		OrderBy: []query.Order{{Column: "created_at", Desc: true}},
		Take:    take,
		Skip:    skip,
	})
}
