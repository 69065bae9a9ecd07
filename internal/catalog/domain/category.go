package domain

import (
	"context"
	"time"

	"github.com/warungos/datastore/pkg/gormrepo"
	"github.com/warungos/datastore/pkg/query"
)

// Category groups products for browsing and reporting.
type Category struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name.
func (Category) TableName() string {
	return "categories"
}

// CategoryColumns is the category column metadata.
var CategoryColumns = query.NewColumns(
	[]string{"id", "name", "created_at", "updated_at"},
	nil,
	[]string{"id", "name"},
)

// CategoryRepository defines the contract for category data access.
type CategoryRepository interface {
	gormrepo.Ops[Category]
	FindByID(ctx context.Context, id uint) (*Category, error)
	FindByName(ctx context.Context, name string) (*Category, error)
}
