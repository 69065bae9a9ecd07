package domain

import (
	"context"
	"time"

	"github.com/warungos/datastore/pkg/gormrepo"
	"github.com/warungos/datastore/pkg/query"
)

// Template holds the store header and footer printed on receipts. Stores
// keep one row in practice; the most recently updated row wins.
type Template struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	StoreName    *string   `json:"store_name"`
	StoreAddress *string   `json:"store_address"`
	StorePhone   *string   `json:"store_phone"`
	FooterText   *string   `json:"footer_text"`
	LogoURL      *string   `json:"logo_url"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name.
func (Template) TableName() string {
	return "receipt_templates"
}

// Columns is the receipt template column metadata.
var Columns = query.NewColumns(
	[]string{"id", "store_name", "store_address", "store_phone", "footer_text", "logo_url", "created_at", "updated_at"},
	nil,
	[]string{"id"},
)

// TemplateRepository defines the contract for receipt template access.
type TemplateRepository interface {
	gormrepo.Ops[Template]
	FindByID(ctx context.Context, id uint) (*Template, error)
	Active(ctx context.Context) (*Template, error)
}
