package domain

import (
	"context"
	"time"

	user "github.com/warungos/datastore/internal/user/domain"
	"github.com/warungos/datastore/pkg/gormrepo"
	"github.com/warungos/datastore/pkg/query"
)

// SaleStatus is the lifecycle state of a sale.
type SaleStatus string

const (
	SalePending   SaleStatus = "PENDING"
	SalePaid      SaleStatus = "PAID"
	SaleCancelled SaleStatus = "CANCELLED"
)

// Valid reports whether the status is one of the declared values.
func (s SaleStatus) Valid() bool {
	switch s {
	case SalePending, SalePaid, SaleCancelled:
		return true
	}
	return false
}

// CanTransition reports whether moving to the target status is legal:
// PENDING may become PAID or CANCELLED; PAID and CANCELLED are terminal.
// The repository layer does not enforce this; business commands do.
func (s SaleStatus) CanTransition(to SaleStatus) bool {
	return s == SalePending && (to == SalePaid || to == SaleCancelled)
}

// Sale is one checkout. Total must equal the sum of item subtotals; keeping
// that true is the obligation of whoever writes the rows, which is why
// FinalizeSale recomputes it inside the closing transaction.
type Sale struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	Number       string     `json:"number" gorm:"uniqueIndex;not null"`
	CashierID    uint       `json:"cashier_id" gorm:"not null;index"`
	Cashier      *user.User `json:"cashier,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	CustomerName *string    `json:"customer_name"`
	Status       SaleStatus `json:"status" gorm:"type:varchar(16);not null;default:'PENDING'"`
	Total        int64      `json:"total" gorm:"not null;default:0"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// TableName specifies the table name.
func (Sale) TableName() string {
	return "sales"
}

// SaleColumns is the sale column metadata.
var SaleColumns = query.NewColumns(
	[]string{"id", "number", "cashier_id", "customer_name", "status", "total", "created_at", "updated_at"},
	[]string{"total"},
	[]string{"id", "number"},
)

// SaleRepository defines the contract for sale data access.
type SaleRepository interface {
	gormrepo.Ops[Sale]
	FindByID(ctx context.Context, id uint) (*Sale, error)
	FindByNumber(ctx context.Context, number string) (*Sale, error)
	FindByCashier(ctx context.Context, cashierID uint, take, skip int) ([]Sale, error)
	FindByStatus(ctx context.Context, status SaleStatus, take, skip int) ([]Sale, error)
}
