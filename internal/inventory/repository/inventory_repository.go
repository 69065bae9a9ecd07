package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/warungos/datastore/internal/inventory/domain"
	"github.com/warungos/datastore/pkg/database"
	"github.com/warungos/datastore/pkg/gormrepo"
)

// GormInventoryRepository implements domain.InventoryRepository.
type GormInventoryRepository struct {
	*gormrepo.Repository[domain.Inventory]
}

var _ domain.InventoryRepository = (*GormInventoryRepository)(nil)

// NewGormInventoryRepository creates a new inventory repository.
func NewGormInventoryRepository(db *gorm.DB) *GormInventoryRepository {
	return &GormInventoryRepository{
		Repository: gormrepo.New[domain.Inventory](db, "inventory", domain.InventoryColumns),
	}
}

// FindByProductID retrieves the stock row for a product.
func (r *GormInventoryRepository) FindByProductID(ctx context.Context, productID uint) (*domain.Inventory, error) {
	return r.FindUnique(ctx, "product_id", productID)
}

// ApplyDelta adjusts a product's on-hand quantity by delta in one statement.
// Increments upsert the row so restocking a product without a stock row
// creates it; decrements require an existing row and, unless allowNegative
// is set, are refused with ErrInsufficientStock when they would drive the
// quantity below zero.
func (r *GormInventoryRepository) ApplyDelta(ctx context.Context, productID uint, delta int64, allowNegative bool) error {
	conn := r.Conn(ctx)

	if delta >= 0 {
		row := domain.Inventory{ProductID: productID, QtyOnHand: delta}
		err := conn.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"qty_on_hand": gorm.Expr("inventories.qty_on_hand + ?", delta),
				"updated_at":  gorm.Expr("now()"),
			}),
		}).Create(&row).Error
		if err != nil {
			return fmt.Errorf("apply stock delta: %w", database.Classify(err))
		}
		return nil
	}

	tx := conn.Model(&domain.Inventory{}).Where("product_id = ?", productID)
	if !allowNegative {
		tx = tx.Where("qty_on_hand + ? >= 0", delta)
	}
	res := tx.Updates(map[string]any{
		"qty_on_hand": gorm.Expr("qty_on_hand + ?", delta),
	})
	if res.Error != nil {
		return fmt.Errorf("apply stock delta: %w", database.Classify(res.Error))
	}
	if res.RowsAffected == 0 {
		var n int64
		if err := conn.Model(&domain.Inventory{}).Where("product_id = ?", productID).Count(&n).Error; err != nil {
			return fmt.Errorf("apply stock delta: %w", database.Classify(err))
		}
		if n == 0 {
			return fmt.Errorf("apply stock delta: %w", database.ErrNotFound)
		}
		return fmt.Errorf("product %d: %w", productID, domain.ErrInsufficientStock)
	}
	return nil
}
