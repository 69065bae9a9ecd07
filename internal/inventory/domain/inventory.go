package domain

import (
	"context"
	"errors"
	"time"

	catalog "github.com/warungos/datastore/internal/catalog/domain"
	"github.com/warungos/datastore/pkg/gormrepo"
	"github.com/warungos/datastore/pkg/query"
)

// ErrInsufficientStock is returned when a decrement would take on-hand
// quantity below zero and negative stock is not allowed.
var ErrInsufficientStock = errors.New("insufficient stock")

// Inventory is the running stock level for one product. The product id is
// the primary key; the row lives and dies with its product.
type Inventory struct {
	ProductID uint             `json:"product_id" gorm:"primaryKey;autoIncrement:false"`
	Product   *catalog.Product `json:"product,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	QtyOnHand int64            `json:"qty_on_hand" gorm:"not null;default:0"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// TableName specifies the table name.
func (Inventory) TableName() string {
	return "inventories"
}

// InventoryColumns is the inventory column metadata.
var InventoryColumns = query.NewColumns(
	[]string{"product_id", "qty_on_hand", "updated_at"},
	[]string{"qty_on_hand"},
	[]string{"product_id"},
)

// InventoryRepository defines the contract for stock-level data access.
// ApplyDelta is the single atomic mutation path: it upserts the row and
// adjusts qty_on_hand in one statement so concurrent cashiers cannot lose
// updates.
type InventoryRepository interface {
	gormrepo.Ops[Inventory]
	FindByProductID(ctx context.Context, productID uint) (*Inventory, error)
	ApplyDelta(ctx context.Context, productID uint, delta int64, allowNegative bool) error
}
