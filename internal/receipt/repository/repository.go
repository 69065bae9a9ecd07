package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/warungos/datastore/internal/receipt/domain"
	"github.com/warungos/datastore/pkg/gormrepo"
	"github.com/warungos/datastore/pkg/query"
)

// GormTemplateRepository implements domain.TemplateRepository.
type GormTemplateRepository struct {
	*gormrepo.Repository[domain.Template]
}

var _ domain.TemplateRepository = (*GormTemplateRepository)(nil)

// NewGormTemplateRepository creates a new receipt template repository.
func NewGormTemplateRepository(db *gorm.DB) *GormTemplateRepository {
	return &GormTemplateRepository{
		Repository: gormrepo.New[domain.Template](db, "receipt_template", domain.Columns),
	}
}

// FindByID retrieves a template by primary key.
func (r *GormTemplateRepository) FindByID(ctx context.Context, id uint) (*domain.Template, error) {
	return r.FindUnique(ctx, "id", id)
}

// Active retrieves the template currently in effect: the most recently
// updated row.
func (r *GormTemplateRepository) Active(ctx context.Context) (*domain.Template, error) {
	return r.FindFirst(ctx, query.Options{
		OrderBy: []query.Order{{Column: "updated_at", Desc: true}},
	})
}
