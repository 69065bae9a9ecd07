package command

import (
	"context"
	"fmt"

	"github.com/warungos/datastore/events"
	"github.com/warungos/datastore/internal/inventory/domain"
	"github.com/warungos/datastore/pkg/database"
	"github.com/warungos/datastore/pkg/logger"
)

// AdjustStockCommand represents a manual stock correction, for example
// after a physical count. The delta may be negative and is allowed to take
// the on-hand quantity below zero.
type AdjustStockCommand struct {
	ProductID uint
	QtyDelta  int64
	Note      *string
}

// AdjustStockHandler handles manual stock adjustments.
type AdjustStockHandler struct {
	tx        database.TxManager
	stock     domain.InventoryRepository
	movements domain.MovementRepository
	sink      events.Sink
}

// NewAdjustStockHandler creates a new adjust stock handler.
func NewAdjustStockHandler(
	tx database.TxManager,
	stock domain.InventoryRepository,
	movements domain.MovementRepository,
	sink events.Sink,
) *AdjustStockHandler {
	return &AdjustStockHandler{tx: tx, stock: stock, movements: movements, sink: sink}
}

// Handle executes the adjust stock command.
func (h *AdjustStockHandler) Handle(ctx context.Context, cmd AdjustStockCommand) error {
	if cmd.QtyDelta == 0 {
		return database.Validationf("qty delta must be non-zero")
	}
	err := h.tx.Transaction(ctx, func(ctx context.Context) error {
		if err := h.stock.ApplyDelta(ctx, cmd.ProductID, cmd.QtyDelta, true); err != nil {
			return fmt.Errorf("failed to adjust stock: %w", err)
		}
		movement := &domain.StockMovement{
			ProductID: cmd.ProductID,
			Type:      domain.MovementAdjustment,
			QtyDelta:  cmd.QtyDelta,
			Note:      cmd.Note,
		}
		if err := h.movements.Create(ctx, movement); err != nil {
			return fmt.Errorf("failed to append stock movement: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	publishStockMoved(ctx, h.sink, cmd.ProductID, domain.MovementAdjustment, cmd.QtyDelta, nil)
	return nil
}

// publishStockMoved sends the stock.moved event after commit. Failures are
// logged and swallowed; the ledger row is already durable.
func publishStockMoved(ctx context.Context, sink events.Sink, productID uint, typ domain.MovementType, delta int64, refSaleID *uint) {
	if err := sink.PublishStockMoved(ctx, events.StockMovedEvent{
		ProductID: productID,
		Type:      string(typ),
		QtyDelta:  delta,
		RefSaleID: refSaleID,
	}); err != nil {
		logger.Warn(ctx).Err(err).Uint("product_id", productID).Msg("Failed to publish stock moved event")
	}
}
