package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/warungos/datastore/events"
	inventory "github.com/warungos/datastore/internal/inventory/domain"
	payment "github.com/warungos/datastore/internal/payment/domain"
	"github.com/warungos/datastore/internal/sales/domain"
	"github.com/warungos/datastore/pkg/database"
	"github.com/warungos/datastore/pkg/logger"
)

// FinalizeSaleCommand represents the command to settle a pending sale.
type FinalizeSaleCommand struct {
	SaleID          uint
	Method          payment.PaymentMethod
	Provider        payment.PaymentProvider
	ProviderRef     *string
	RawNotification *string
}

// FinalizeSaleHandler handles sale settlement. Everything except the event
// publish happens inside one transaction: the sale flips to PAID, the
// payment row is written, stock is decremented and the ledger entries are
// appended, or none of it happens.
type FinalizeSaleHandler struct {
	tx        database.TxManager
	sales     domain.SaleRepository
	items     domain.ItemRepository
	payments  payment.PaymentRepository
	stock     inventory.InventoryRepository
	movements inventory.MovementRepository
	sink      events.Sink

	// allowNegativeStock lets a sale finalize even when it oversells a
	// product. Off unless the operator opts in.
	allowNegativeStock bool
}

// AllowNegativeStock opts the handler into finalizing oversold sales.
func (h *FinalizeSaleHandler) AllowNegativeStock(allow bool) {
	h.allowNegativeStock = allow
}

// NewFinalizeSaleHandler creates a new finalize sale handler.
func NewFinalizeSaleHandler(
	tx database.TxManager,
	sales domain.SaleRepository,
	items domain.ItemRepository,
	payments payment.PaymentRepository,
	stock inventory.InventoryRepository,
	movements inventory.MovementRepository,
	sink events.Sink,
) *FinalizeSaleHandler {
	return &FinalizeSaleHandler{
		tx:        tx,
		sales:     sales,
		items:     items,
		payments:  payments,
		stock:     stock,
		movements: movements,
		sink:      sink,
	}
}

// Handle executes the finalize sale command.
func (h *FinalizeSaleHandler) Handle(ctx context.Context, cmd FinalizeSaleCommand) (*domain.Sale, error) {
	if cmd.Method != payment.MethodCash && cmd.Method != payment.MethodQRIS {
		return nil, database.Validationf("invalid payment method %q", cmd.Method)
	}
	provider := cmd.Provider
	if provider == "" {
		provider = payment.ProviderNone
	}

	var (
		sale      *domain.Sale
		itemCount int
	)
	err := h.tx.Transaction(ctx, func(ctx context.Context) error {
		current, err := h.sales.FindByID(ctx, cmd.SaleID)
		if err != nil {
			return fmt.Errorf("failed to load sale: %w", err)
		}
		if !current.Status.CanTransition(domain.SalePaid) {
			return database.Validationf("sale %s is %s and cannot be finalized", current.Number, current.Status)
		}

		items, err := h.items.FindBySale(ctx, current.ID)
		if err != nil {
			return fmt.Errorf("failed to load sale items: %w", err)
		}
		if len(items) == 0 {
			return database.Validationf("sale %s has no items", current.Number)
		}
		for _, item := range items {
			if !item.ConsistentSubtotal() {
				return database.Validationf("sale item %d subtotal does not match qty*price", item.ID)
			}
		}
		total := domain.SumSubtotals(items)

		for _, item := range items {
			if err := h.stock.ApplyDelta(ctx, item.ProductID, -item.Qty, h.allowNegativeStock); err != nil {
				if errors.Is(err, inventory.ErrInsufficientStock) {
					return fmt.Errorf("product %d: %w", item.ProductID, err)
				}
				return fmt.Errorf("failed to decrement stock: %w", err)
			}
			saleID := current.ID
			movement := &inventory.StockMovement{
				ProductID: item.ProductID,
				Type:      inventory.MovementSale,
				QtyDelta:  -item.Qty,
				RefSaleID: &saleID,
			}
			if err := h.movements.Create(ctx, movement); err != nil {
				return fmt.Errorf("failed to append stock movement: %w", err)
			}
		}

		pay := &payment.Payment{
			SaleID:          current.ID,
			Method:          cmd.Method,
			Provider:        provider,
			ProviderRef:     cmd.ProviderRef,
			Amount:          total,
			Status:          payment.PaymentPaid,
			RawNotification: cmd.RawNotification,
		}
		if err := h.payments.Create(ctx, pay); err != nil {
			return fmt.Errorf("failed to record payment: %w", err)
		}

		sale, err = h.sales.Update(ctx, "id", current.ID, map[string]any{
			"status": string(domain.SalePaid),
			"total":  total,
		})
		if err != nil {
			return fmt.Errorf("failed to mark sale paid: %w", err)
		}
		itemCount = len(items)
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Best effort after commit; a broker outage must not undo the sale.
	if err := h.sink.PublishSaleFinalized(ctx, events.SaleFinalizedEvent{
		SaleID:     sale.ID,
		SaleNumber: sale.Number,
		CashierID:  sale.CashierID,
		Total:      sale.Total,
		Method:     string(cmd.Method),
		ItemCount:  itemCount,
	}); err != nil {
		logger.Warn(ctx).Err(err).Uint("sale_id", sale.ID).Msg("Failed to publish sale finalized event")
	}

	return sale, nil
}
