package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSaleFinalizedEventPayload(t *testing.T) {
	ev := SaleFinalizedEvent{
		EventID:    "evt_1",
		EventType:  EventTypeSaleFinalized,
		SaleID:     42,
		SaleNumber: "WRG-0042",
		CashierID:  7,
		Total:      125000,
		Method:     "CASH",
		ItemCount:  3,
		Timestamp:  time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC),
	}

	raw, err := json.Marshal(ev)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Equal(t, "sale.finalized", decoded["event_type"])
	require.Equal(t, "WRG-0042", decoded["sale_number"])
	require.EqualValues(t, 125000, decoded["total"])
}

func TestStockMovedEventOmitsEmptySaleRef(t *testing.T) {
	raw, err := json.Marshal(StockMovedEvent{EventID: "evt_2", EventType: EventTypeStockMoved, ProductID: 10, Type: "RESTOCK", QtyDelta: 24})
	require.NoError(t, err)
	require.NotContains(t, string(raw), "ref_sale_id")

	saleID := uint(42)
	raw, err = json.Marshal(StockMovedEvent{ProductID: 10, Type: "SALE", QtyDelta: -2, RefSaleID: &saleID})
	require.NoError(t, err)
	require.Contains(t, string(raw), `"ref_sale_id":42`)
}
