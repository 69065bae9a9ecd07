package domain

import (
	"context"
	"time"

	"github.com/tidwall/gjson"

	sales "github.com/warungos/datastore/internal/sales/domain"
	"github.com/warungos/datastore/pkg/gormrepo"
	"github.com/warungos/datastore/pkg/query"
)

// PaymentMethod is how the customer paid.
type PaymentMethod string

const (
	MethodCash PaymentMethod = "CASH"
	MethodQRIS PaymentMethod = "QRIS"
)

// PaymentProvider is the upstream processor for non-cash payments.
type PaymentProvider string

const (
	ProviderNone     PaymentProvider = "NONE"
	ProviderMidtrans PaymentProvider = "MIDTRANS"
)

// PaymentStatus is the settlement state of a payment.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentPaid    PaymentStatus = "PAID"
	PaymentExpired PaymentStatus = "EXPIRED"
	PaymentFailed  PaymentStatus = "FAILED"
)

// CanTransition reports whether moving to the target status is legal:
// PENDING may settle, expire or fail; everything else is terminal.
func (s PaymentStatus) CanTransition(to PaymentStatus) bool {
	return s == PaymentPending && (to == PaymentPaid || to == PaymentExpired || to == PaymentFailed)
}

// Payment is one settlement attempt against a sale. RawNotification holds
// the provider callback verbatim; it is stored as an opaque blob and only
// checked for being well-formed JSON.
type Payment struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	SaleID          uint            `json:"sale_id" gorm:"not null;index"`
	Sale            *sales.Sale     `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Method          PaymentMethod   `json:"method" gorm:"type:varchar(16);not null"`
	Provider        PaymentProvider `json:"provider" gorm:"type:varchar(16);not null;default:'NONE'"`
	ProviderRef     *string         `json:"provider_ref" gorm:"index"`
	QRISURL         *string         `json:"qris_url"`
	Amount          int64           `json:"amount" gorm:"not null"`
	Status          PaymentStatus   `json:"status" gorm:"type:varchar(16);not null;default:'PENDING'"`
	RawNotification *string         `json:"raw_notification" gorm:"type:jsonb"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// TableName specifies the table name.
func (Payment) TableName() string {
	return "payments"
}

// ValidNotification reports whether the raw notification is absent or
// well-formed JSON.
func (p Payment) ValidNotification() bool {
	if p.RawNotification == nil {
		return true
	}
	return gjson.Valid(*p.RawNotification)
}

// PaymentColumns is the payment column metadata.
var PaymentColumns = query.NewColumns(
	[]string{"id", "sale_id", "method", "provider", "provider_ref", "qris_url", "amount", "status", "raw_notification", "created_at", "updated_at"},
	[]string{"amount"},
	[]string{"id"},
)

// PaymentRepository defines the contract for payment data access.
type PaymentRepository interface {
	gormrepo.Ops[Payment]
	FindByID(ctx context.Context, id uint) (*Payment, error)
	FindByProviderRef(ctx context.Context, ref string) (*Payment, error)
	FindBySale(ctx context.Context, saleID uint) ([]Payment, error)
}
