package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/warungos/datastore/internal/user/domain"
	"github.com/warungos/datastore/pkg/gormrepo"
	"github.com/warungos/datastore/pkg/query"
)

// GormUserRepository implements domain.UserRepository on the generic base.
type GormUserRepository struct {
	*gormrepo.Repository[domain.User]
}

var _ domain.UserRepository = (*GormUserRepository)(nil)

// NewGormUserRepository creates a new user repository.
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{
		Repository: gormrepo.New[domain.User](db, "user", domain.Columns),
	}
}

// FindByID retrieves a user by primary key.
func (r *GormUserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	return r.FindUnique(ctx, "id", id)
}

// FindByEmail retrieves a user by unique email.
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.FindUnique(ctx, "email", email)
}

// FindByRole retrieves users holding the given role, newest first.
func (r *GormUserRepository) FindByRole(ctx context.Context, role domain.Role, take, skip int) ([]domain.User, error) {
	return r.FindMany(ctx, query.Options{
		Filter:  query.Where("role = ?", role),
		OrderBy: []query.Order{{Column: "created_at", Desc: true}},
		Take:    take,
		Skip:    skip,
	})
}
