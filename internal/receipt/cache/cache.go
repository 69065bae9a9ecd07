package cache

import (
	"context"
	"time"

	"github.com/warungos/datastore/internal/receipt/domain"
)

// TemplateCache caches the active receipt template between reads. Receipt
// headers are read on every printed receipt and change rarely.
type TemplateCache interface {
	Get(ctx context.Context, key string) (*domain.Template, bool, error)
	Set(ctx context.Context, key string, value *domain.Template, ttl time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// NoopTemplateCache satisfies TemplateCache without caching anything. Used
// when no redis address is configured.
type NoopTemplateCache struct{}

func (NoopTemplateCache) Get(_ context.Context, _ string) (*domain.Template, bool, error) {
	return nil, false, nil
}

func (NoopTemplateCache) Set(_ context.Context, _ string, _ *domain.Template, _ time.Duration) error {
	return nil
}

func (NoopTemplateCache) Invalidate(_ context.Context, _ string) error {
	return nil
}
