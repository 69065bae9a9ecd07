package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/warungos/datastore/internal/payment/domain"
	"github.com/warungos/datastore/pkg/database"
	"github.com/warungos/datastore/pkg/gormrepo"
	"github.com/warungos/datastore/pkg/query"
)

// GormPaymentRepository implements domain.PaymentRepository.
type GormPaymentRepository struct {
	*gormrepo.Repository[domain.Payment]
}

var _ domain.PaymentRepository = (*GormPaymentRepository)(nil)

// NewGormPaymentRepository creates a new payment repository.
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{
		Repository: gormrepo.New[domain.Payment](db, "payment", domain.PaymentColumns),
	}
}

// Create inserts a payment after checking the provider notification blob is
// well-formed JSON.
func (r *GormPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	if !payment.ValidNotification() {
		return database.Validationf("raw_notification is not valid JSON")
	}
	if payment.Provider == "" {
		payment.Provider = domain.ProviderNone
	}
	if payment.Status == "" {
		payment.Status = domain.PaymentPending
	}
	return r.Repository.Create(ctx, payment)
}

// Update applies changes to a payment, validating any notification blob.
func (r *GormPaymentRepository) Update(ctx context.Context, column string, value any, changes map[string]any) (*domain.Payment, error) {
	if raw, ok := changes["raw_notification"].(string); ok {
		candidate := domain.Payment{RawNotification: &raw}
		if !candidate.ValidNotification() {
			return nil, fmt.Errorf("update payment: %w", database.Validationf("raw_notification is not valid JSON"))
		}
	}
	return r.Repository.Update(ctx, column, value, changes)
}

// FindByID retrieves a payment by primary key.
func (r *GormPaymentRepository) FindByID(ctx context.Context, id uint) (*domain.Payment, error) {
	return r.FindUnique(ctx, "id", id)
}

// FindByProviderRef retrieves the payment carrying the given provider
// reference.
func (r *GormPaymentRepository) FindByProviderRef(ctx context.Context, ref string) (*domain.Payment, error) {
	return r.FindFirst(ctx, query.Options{
		Filter: query.Where("provider_ref = ?", ref),
	})
}

// FindBySale retrieves a sale's payments in insertion order.
func (r *GormPaymentRepository) FindBySale(ctx context.Context, saleID uint) ([]domain.Payment, error) {
	return r.FindMany(ctx, query.Options{
		Filter:  query.Where("sale_id = ?", saleID),
		OrderBy: []query.Order{{Column: "id"}},
	})
}
