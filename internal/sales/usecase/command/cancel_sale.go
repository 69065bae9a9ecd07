package command

import (
	"context"
	"fmt"

	"github.com/warungos/datastore/internal/sales/domain"
	"github.com/warungos/datastore/pkg/database"
)

// CancelSaleCommand represents the command to void a pending sale.
type CancelSaleCommand struct {
	SaleID uint
	Reason *string
}

// CancelSaleHandler handles sale cancellation. Only pending sales can be
// cancelled; settled sales need a refund, which is a separate flow.
type CancelSaleHandler struct {
	tx    database.TxManager
	sales domain.SaleRepository
}

// NewCancelSaleHandler creates a new cancel sale handler.
func NewCancelSaleHandler(tx database.TxManager, sales domain.SaleRepository) *CancelSaleHandler {
	return &CancelSaleHandler{tx: tx, sales: sales}
}

// Handle executes the cancel sale command.
func (h *CancelSaleHandler) Handle(ctx context.Context, cmd CancelSaleCommand) (*domain.Sale, error) {
	var sale *domain.Sale
	err := h.tx.Transaction(ctx, func(ctx context.Context) error {
		current, err := h.sales.FindByID(ctx, cmd.SaleID)
		if err != nil {
			return fmt.Errorf("failed to load sale: %w", err)
		}
		if !current.Status.CanTransition(domain.SaleCancelled) {
			return database.Validationf("sale %s is %s and cannot be cancelled", current.Number, current.Status)
		}
		sale, err = h.sales.Update(ctx, "id", current.ID, map[string]any{
			"status": string(domain.SaleCancelled),
		})
		if err != nil {
			return fmt.Errorf("failed to cancel sale: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}
