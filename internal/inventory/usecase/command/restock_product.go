package command

import (
	"context"
	"fmt"

	"github.com/warungos/datastore/events"
	"github.com/warungos/datastore/internal/inventory/domain"
	"github.com/warungos/datastore/pkg/database"
)

// RestockProductCommand represents an incoming delivery for one product.
type RestockProductCommand struct {
	ProductID uint
	Qty       int64
	Note      *string
}

// RestockProductHandler handles stock intake.
type RestockProductHandler struct {
	tx        database.TxManager
	stock     domain.InventoryRepository
	movements domain.MovementRepository
	sink      events.Sink
}

// NewRestockProductHandler creates a new restock handler.
func NewRestockProductHandler(
	tx database.TxManager,
	stock domain.InventoryRepository,
	movements domain.MovementRepository,
	sink events.Sink,
) *RestockProductHandler {
	return &RestockProductHandler{tx: tx, stock: stock, movements: movements, sink: sink}
}

// Handle executes the restock command.
func (h *RestockProductHandler) Handle(ctx context.Context, cmd RestockProductCommand) error {
	if cmd.Qty <= 0 {
		return database.Validationf("restock qty must be positive")
	}
	err := h.tx.Transaction(ctx, func(ctx context.Context) error {
		if err := h.stock.ApplyDelta(ctx, cmd.ProductID, cmd.Qty, false); err != nil {
			return fmt.Errorf("failed to increment stock: %w", err)
		}
		movement := &domain.StockMovement{
			ProductID: cmd.ProductID,
			Type:      domain.MovementRestock,
			QtyDelta:  cmd.Qty,
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

	publishStockMoved(ctx, h.sink, cmd.ProductID, domain.MovementRestock, cmd.Qty, nil)
	return nil
}
