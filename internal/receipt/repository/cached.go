package repository

import (
	"context"
	"time"

	"github.com/warungos/datastore/internal/receipt/cache"
	"github.com/warungos/datastore/internal/receipt/domain"
	"github.com/warungos/datastore/pkg/logger"
	"github.com/warungos/datastore/pkg/query"
)

const activeTemplateKey = "receipt:template:active"

// CachedTemplateRepository wraps a template repository with a read-through
// cache for the active template. Cache failures degrade to the database;
// they never fail the read.
type CachedTemplateRepository struct {
	domain.TemplateRepository
	cache cache.TemplateCache
	ttl   time.Duration
}

var _ domain.TemplateRepository = (*CachedTemplateRepository)(nil)

// NewCachedTemplateRepository decorates inner with the given cache.
func NewCachedTemplateRepository(inner domain.TemplateRepository, c cache.TemplateCache, ttl time.Duration) *CachedTemplateRepository {
	return &CachedTemplateRepository{TemplateRepository: inner, cache: c, ttl: ttl}
}

// Active serves the active template from cache when possible.
func (r *CachedTemplateRepository) Active(ctx context.Context) (*domain.Template, error) {
	if tpl, hit, err := r.cache.Get(ctx, activeTemplateKey); err != nil {
		logger.Warn(ctx).Err(err).Msg("template cache read failed")
	} else if hit {
		return tpl, nil
	}

	tpl, err := r.TemplateRepository.Active(ctx)
	if err != nil {
		return nil, err
	}
	if err := r.cache.Set(ctx, activeTemplateKey, tpl, r.ttl); err != nil {
		logger.Warn(ctx).Err(err).Msg("template cache write failed")
	}
	return tpl, nil
}

// Create invalidates the cached active template after writing.
func (r *CachedTemplateRepository) Create(ctx context.Context, tpl *domain.Template) error {
	if err := r.TemplateRepository.Create(ctx, tpl); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

// CreateMany invalidates the cached active template after writing.
func (r *CachedTemplateRepository) CreateMany(ctx context.Context, tpls []domain.Template, skipDuplicates bool) (int64, error) {
	count, err := r.TemplateRepository.CreateMany(ctx, tpls, skipDuplicates)
	if err != nil {
		return 0, err
	}
	r.invalidate(ctx)
	return count, nil
}

// Update invalidates the cached active template after writing.
func (r *CachedTemplateRepository) Update(ctx context.Context, column string, value any, changes map[string]any) (*domain.Template, error) {
	tpl, err := r.TemplateRepository.Update(ctx, column, value, changes)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx)
	return tpl, nil
}

// UpdateMany invalidates the cached active template after writing.
func (r *CachedTemplateRepository) UpdateMany(ctx context.Context, filter query.Filter, changes map[string]any) (int64, error) {
	count, err := r.TemplateRepository.UpdateMany(ctx, filter, changes)
	if err != nil {
		return 0, err
	}
	r.invalidate(ctx)
	return count, nil
}

// Upsert invalidates the cached active template after writing.
func (r *CachedTemplateRepository) Upsert(ctx context.Context, conflictColumns []string, tpl *domain.Template, updateColumns []string) error {
	if err := r.TemplateRepository.Upsert(ctx, conflictColumns, tpl, updateColumns); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

// Delete invalidates the cached active template after removal.
func (r *CachedTemplateRepository) Delete(ctx context.Context, column string, value any) (*domain.Template, error) {
	tpl, err := r.TemplateRepository.Delete(ctx, column, value)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx)
	return tpl, nil
}

// DeleteMany invalidates the cached active template after removal.
func (r *CachedTemplateRepository) DeleteMany(ctx context.Context, filter query.Filter) (int64, error) {
	count, err := r.TemplateRepository.DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}
	r.invalidate(ctx)
	return count, nil
}

func (r *CachedTemplateRepository) invalidate(ctx context.Context) {
	if err := r.cache.Invalidate(ctx, activeTemplateKey); err != nil {
		logger.Warn(ctx).Err(err).Msg("template cache invalidation failed")
	}
}
