package command

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/warungos/datastore/events"
	"github.com/warungos/datastore/internal/inventory/domain"
	"github.com/warungos/datastore/pkg/database"
)

type passthroughTx struct{}

func (passthroughTx) Transaction(ctx context.Context, fn func(ctx context.Context) error, opts ...database.TxOption) error {
	return fn(ctx)
}

type fakeInventoryRepo struct {
	domain.InventoryRepository
	deltas        map[uint]int64
	allowNegative []bool
}

func (f *fakeInventoryRepo) ApplyDelta(ctx context.Context, productID uint, delta int64, allowNegative bool) error {
	if f.deltas == nil {
		f.deltas = make(map[uint]int64)
	}
	f.deltas[productID] += delta
	f.allowNegative = append(f.allowNegative, allowNegative)
	return nil
}

type fakeMovementRepo struct {
	domain.MovementRepository
	movements []domain.StockMovement
}

func (f *fakeMovementRepo) Create(ctx context.Context, m *domain.StockMovement) error {
	f.movements = append(f.movements, *m)
	return nil
}

type recordingSink struct {
	moved []events.StockMovedEvent
}

func (s *recordingSink) PublishSaleFinalized(ctx context.Context, ev events.SaleFinalizedEvent) error {
	return nil
}

func (s *recordingSink) PublishStockMoved(ctx context.Context, ev events.StockMovedEvent) error {
	s.moved = append(s.moved, ev)
	return nil
}

func TestRestockProduct(t *testing.T) {
	invRepo := &fakeInventoryRepo{}
	movRepo := &fakeMovementRepo{}
	sink := &recordingSink{}
	h := NewRestockProductHandler(passthroughTx{}, invRepo, movRepo, sink)

	note := "supplier delivery"
	err := h.Handle(context.Background(), RestockProductCommand{ProductID: 10, Qty: 24, Note: &note})
	require.NoError(t, err)

	require.Equal(t, int64(24), invRepo.deltas[10])
	require.Len(t, movRepo.movements, 1)
	require.Equal(t, domain.MovementRestock, movRepo.movements[0].Type)
	require.Equal(t, int64(24), movRepo.movements[0].QtyDelta)

	require.Len(t, sink.moved, 1)
	require.Equal(t, string(domain.MovementRestock), sink.moved[0].Type)
	require.Equal(t, int64(24), sink.moved[0].QtyDelta)
}

func TestRestockProductRejectsNonPositiveQty(t *testing.T) {
	invRepo := &fakeInventoryRepo{}
	h := NewRestockProductHandler(passthroughTx{}, invRepo, &fakeMovementRepo{}, &recordingSink{})

	for _, qty := range []int64{0, -5} {
		err := h.Handle(context.Background(), RestockProductCommand{ProductID: 10, Qty: qty})
		require.True(t, errors.Is(err, database.ErrValidation), "qty %d must be rejected", qty)
	}
	require.Empty(t, invRepo.deltas)
}

func TestAdjustStockAllowsNegativeResult(t *testing.T) {
	invRepo := &fakeInventoryRepo{}
	movRepo := &fakeMovementRepo{}
	sink := &recordingSink{}
	h := NewAdjustStockHandler(passthroughTx{}, invRepo, movRepo, sink)

	err := h.Handle(context.Background(), AdjustStockCommand{ProductID: 10, QtyDelta: -7})
	require.NoError(t, err)

	require.Equal(t, int64(-7), invRepo.deltas[10])
	require.Equal(t, []bool{true}, invRepo.allowNegative, "corrections may drive stock negative")
	require.Len(t, movRepo.movements, 1)
	require.Equal(t, domain.MovementAdjustment, movRepo.movements[0].Type)
	require.Len(t, sink.moved, 1)
}

func TestAdjustStockRejectsZeroDelta(t *testing.T) {
	invRepo := &fakeInventoryRepo{}
	h := NewAdjustStockHandler(passthroughTx{}, invRepo, &fakeMovementRepo{}, &recordingSink{})

	err := h.Handle(context.Background(), AdjustStockCommand{ProductID: 10, QtyDelta: 0})
	require.True(t, errors.Is(err, database.ErrValidation))
	require.Empty(t, invRepo.deltas)
}
