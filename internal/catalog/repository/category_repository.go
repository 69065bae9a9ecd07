package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/warungos/datastore/internal/catalog/domain"
	"github.com/warungos/datastore/pkg/gormrepo"
)

// GormCategoryRepository implements domain.CategoryRepository.
type GormCategoryRepository struct {
	*gormrepo.Repository[domain.Category]
}

var _ domain.CategoryRepository = (*GormCategoryRepository)(nil)

// NewGormCategoryRepository creates a new category repository.
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{
		Repository: gormrepo.New[domain.Category](db, "category", domain.CategoryColumns),
	}
}

// FindByID retrieves a category by primary key.
func (r *GormCategoryRepository) FindByID(ctx context.Context, id uint) (*domain.Category, error) {
	return r.FindUnique(ctx, "id", id)
}

// FindByName retrieves a category by its unique name.
func (r *GormCategoryRepository) FindByName(ctx context.Context, name string) (*domain.Category, error) {
	return r.FindUnique(ctx, "name", name)
}
