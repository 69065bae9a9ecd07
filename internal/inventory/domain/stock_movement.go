package domain

import (
	"context"
	"time"

	catalog "github.com/warungos/datastore/internal/catalog/domain"
	sales "github.com/warungos/datastore/internal/sales/domain"
	"github.com/warungos/datastore/pkg/query"
)

// MovementType classifies a stock ledger entry.
type MovementType string

const (
	MovementSale       MovementType = "SALE"
	MovementAdjustment MovementType = "ADJUSTMENT"
	MovementRestock    MovementType = "RESTOCK"
	MovementRefund     MovementType = "REFUND"
)

// Valid reports whether the movement type is one of the declared values.
func (t MovementType) Valid() bool {
	switch t {
	case MovementSale, MovementAdjustment, MovementRestock, MovementRefund:
		return true
	}
	return false
}

// StockMovement is one append-only ledger entry. The sign of QtyDelta
// encodes direction: negative for stock leaving, positive for stock
// arriving.
type StockMovement struct {
	ID        uint             `json:"id" gorm:"primaryKey"`
	ProductID uint             `json:"product_id" gorm:"not null;index"`
	Product   *catalog.Product `json:"product,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Type      MovementType     `json:"type" gorm:"type:varchar(16);not null"`
	QtyDelta  int64            `json:"qty_delta" gorm:"not null"`
	RefSaleID *uint            `json:"ref_sale_id" gorm:"index"`
	RefSale   *sales.Sale      `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Note      *string          `json:"note"`
	CreatedAt time.Time        `json:"created_at"`
}

// TableName specifies the table name.
func (StockMovement) TableName() string {
	return "stock_movements"
}

// MovementColumns is the stock movement column metadata.
var MovementColumns = query.NewColumns(
	[]string{"id", "product_id", "type", "qty_delta", "ref_sale_id", "note", "created_at"},
	[]string{"qty_delta"},
	[]string{"id"},
)

// MovementRepository defines the contract for the stock ledger. The ledger
// is append-only: there is no update path, and deletes exist only for
// administrative cleanup through DeleteMany.
type MovementRepository interface {
	Create(ctx context.Context, movement *StockMovement) error
	CreateMany(ctx context.Context, movements []StockMovement, skipDuplicates bool) (int64, error)
	FindUnique(ctx context.Context, column string, value any) (*StockMovement, error)
	FindFirst(ctx context.Context, opts query.Options) (*StockMovement, error)
	FindMany(ctx context.Context, opts query.Options) ([]StockMovement, error)
	FindByProduct(ctx context.Context, productID uint, take, skip int) ([]StockMovement, error)
	FindBySale(ctx context.Context, saleID uint) ([]StockMovement, error)
	DeleteMany(ctx context.Context, filter query.Filter) (int64, error)
	Aggregate(ctx context.Context, opts query.Options, agg query.Aggregation) (query.AggregateResult, error)
	GroupBy(ctx context.Context, spec query.GroupBySpec) ([]query.GroupRow, error)
	Count(ctx context.Context, filter query.Filter) (int64, error)
}
