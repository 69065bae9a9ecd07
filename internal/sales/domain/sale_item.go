package domain

import (
	"context"

	catalog "github.com/warungos/datastore/internal/catalog/domain"
	"github.com/warungos/datastore/pkg/gormrepo"
	"github.com/warungos/datastore/pkg/query"
)

// SaleItem is one line of a sale. Price is the product price snapshotted at
// sale time; Subtotal must equal Qty times Price.
type SaleItem struct {
	ID        uint             `json:"id" gorm:"primaryKey"`
	SaleID    uint             `json:"sale_id" gorm:"not null;index"`
	Sale      *Sale            `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	ProductID uint             `json:"product_id" gorm:"not null;index"`
	Product   *catalog.Product `json:"product,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Qty       int64            `json:"qty" gorm:"not null"`
	Price     int64            `json:"price" gorm:"not null"`
	Subtotal  int64            `json:"subtotal" gorm:"not null"`
}

// TableName specifies the table name.
func (SaleItem) TableName() string {
	return "sale_items"
}

// ConsistentSubtotal reports whether the line's subtotal matches qty times
// the snapshotted price.
func (i SaleItem) ConsistentSubtotal() bool {
	return i.Subtotal == i.Qty*i.Price
}

// ItemColumns is the sale item column metadata.
var ItemColumns = query.NewColumns(
	[]string{"id", "sale_id", "product_id", "qty", "price", "subtotal"},
	[]string{"qty", "price", "subtotal"},
	[]string{"id"},
)

// ItemRepository defines the contract for sale line data access.
type ItemRepository interface {
	gormrepo.Ops[SaleItem]
	FindBySale(ctx context.Context, saleID uint) ([]SaleItem, error)
	FindByProduct(ctx context.Context, productID uint, take, skip int) ([]SaleItem, error)
}

// SumSubtotals adds up the line subtotals of a sale.
func SumSubtotals(items []SaleItem) int64 {
	var total int64
	for _, item := range items {
		total += item.Subtotal
	}
	return total
}
