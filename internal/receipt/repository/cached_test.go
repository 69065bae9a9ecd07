package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/warungos/datastore/internal/receipt/domain"
	"github.com/warungos/datastore/pkg/query"
)

type mapCache struct {
	entries map[string]*domain.Template
	getErr  error
	gets    int
	sets    int
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string]*domain.Template)}
}

func (c *mapCache) Get(ctx context.Context, key string) (*domain.Template, bool, error) {
	c.gets++
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	tpl, ok := c.entries[key]
	return tpl, ok, nil
}

func (c *mapCache) Set(ctx context.Context, key string, value *domain.Template, ttl time.Duration) error {
	c.sets++
	c.entries[key] = value
	return nil
}

func (c *mapCache) Invalidate(ctx context.Context, key string) error {
	delete(c.entries, key)
	return nil
}

type fakeTemplateRepo struct {
	domain.TemplateRepository
	active    *domain.Template
	activeHit int
}

func (f *fakeTemplateRepo) Active(ctx context.Context) (*domain.Template, error) {
	f.activeHit++
	return f.active, nil
}

func (f *fakeTemplateRepo) Create(ctx context.Context, tpl *domain.Template) error {
	f.active = tpl
	return nil
}

func (f *fakeTemplateRepo) Update(ctx context.Context, column string, value any, changes map[string]any) (*domain.Template, error) {
	return f.active, nil
}

func (f *fakeTemplateRepo) CreateMany(ctx context.Context, tpls []domain.Template, skipDuplicates bool) (int64, error) {
	return int64(len(tpls)), nil
}

func (f *fakeTemplateRepo) UpdateMany(ctx context.Context, filter query.Filter, changes map[string]any) (int64, error) {
	return 1, nil
}

func TestActiveReadThrough(t *testing.T) {
	storeName := "Warung Sebelah"
	inner := &fakeTemplateRepo{active: &domain.Template{ID: 1, StoreName: &storeName}}
	c := newMapCache()
	repo := NewCachedTemplateRepository(inner, c, time.Minute)

	ctx := context.Background()

	first, err := repo.Active(ctx)
	require.NoError(t, err)
	require.Equal(t, uint(1), first.ID)
	require.Equal(t, 1, inner.activeHit, "miss goes to the database")
	require.Equal(t, 1, c.sets, "result is cached")

	second, err := repo.Active(ctx)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, 1, inner.activeHit, "hit never reaches the database")
}

func TestActiveSurvivesCacheFailure(t *testing.T) {
	storeName := "Warung Sebelah"
	inner := &fakeTemplateRepo{active: &domain.Template{ID: 1, StoreName: &storeName}}
	c := newMapCache()
	c.getErr = errors.New("redis down")
	repo := NewCachedTemplateRepository(inner, c, time.Minute)

	tpl, err := repo.Active(context.Background())
	require.NoError(t, err, "a dead cache degrades to the database")
	require.Equal(t, uint(1), tpl.ID)
	require.Equal(t, 1, inner.activeHit)
}

func TestWritesInvalidateCache(t *testing.T) {
	storeName := "Warung Sebelah"
	inner := &fakeTemplateRepo{active: &domain.Template{ID: 1, StoreName: &storeName}}
	c := newMapCache()
	repo := NewCachedTemplateRepository(inner, c, time.Minute)

	ctx := context.Background()
	_, err := repo.Active(ctx)
	require.NoError(t, err)
	require.Len(t, c.entries, 1)

	newName := "Warung Baru"
	require.NoError(t, repo.Create(ctx, &domain.Template{ID: 2, StoreName: &newName}))
	require.Empty(t, c.entries, "create drops the cached template")

	_, err = repo.Active(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, inner.activeHit, "next read refills from the database")

	_, err = repo.Update(ctx, "id", 2, map[string]any{"store_name": "Warung Baru"})
	require.NoError(t, err)
	require.Empty(t, c.entries, "update drops the cached template")

	_, err = repo.Active(ctx)
	require.NoError(t, err)
	require.Len(t, c.entries, 1)
	_, err = repo.UpdateMany(ctx, query.Where("id > ?", 0), map[string]any{"footer_text": "Terima kasih"})
	require.NoError(t, err)
	require.Empty(t, c.entries, "bulk update drops the cached template")

	_, err = repo.Active(ctx)
	require.NoError(t, err)
	require.Len(t, c.entries, 1)
	_, err = repo.CreateMany(ctx, []domain.Template{{ID: 3}}, false)
	require.NoError(t, err)
	require.Empty(t, c.entries, "bulk create drops the cached template")
}
