package domain

import (
	"context"
	"time"

	"github.com/warungos/datastore/pkg/gormrepo"
	"github.com/warungos/datastore/pkg/query"
)

// Product is a sellable item. Prices and costs are integer minor units
// (rupiah); SKU and barcode are unique when present but both optional.
type Product struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	CategoryID *uint     `json:"category_id" gorm:"index"`
	Category   *Category `json:"category,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	SKU        *string   `json:"sku" gorm:"uniqueIndex"`
	Barcode    *string   `json:"barcode" gorm:"uniqueIndex"`
	Name       string    `json:"name" gorm:"not null;index"`
	Price      int64     `json:"price" gorm:"not null"`
	Cost       *int64    `json:"cost"`
	ImageURL   *string   `json:"image_url"`
	IsActive   bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName specifies the table name.
func (Product) TableName() string {
	return "products"
}

// ProductColumns is the product column metadata.
var ProductColumns = query.NewColumns(
	[]string{"id", "category_id", "sku", "barcode", "name", "price", "cost", "image_url", "is_active", "created_at", "updated_at"},
	[]string{"price", "cost"},
	[]string{"id", "sku", "barcode"},
)

// ProductRepository defines the contract for product data access.
type ProductRepository interface {
	gormrepo.Ops[Product]
	FindByID(ctx context.Context, id uint) (*Product, error)
	FindBySKU(ctx context.Context, sku string) (*Product, error)
	FindByBarcode(ctx context.Context, barcode string) (*Product, error)
	FindByCategory(ctx context.Context, categoryID uint, take, skip int) ([]Product, error)
	SearchByName(ctx context.Context, name string, take int) ([]Product, error)
}
