package events

import (
	"context"
	"time"
)

// SaleFinalizedEvent is published after a sale settles.
type SaleFinalizedEvent struct {
	EventID    string    `json:"event_id"`
	EventType  string    `json:"event_type"`
	SaleID     uint      `json:"sale_id"`
	SaleNumber string    `json:"sale_number"`
	CashierID  uint      `json:"cashier_id"`
	Total      int64     `json:"total"`
	Method     string    `json:"method"`
	ItemCount  int       `json:"item_count"`
	Timestamp  time.Time `json:"timestamp"`
}

// StockMovedEvent is published after a stock ledger entry is written.
type StockMovedEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	ProductID uint      `json:"product_id"`
	Type      string    `json:"type"`
	QtyDelta  int64     `json:"qty_delta"`
	RefSaleID *uint     `json:"ref_sale_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Event types
const (
	EventTypeSaleFinalized = "sale.finalized"
	EventTypeStockMoved    = "stock.moved"
)

// Kafka topics
const (
	TopicSaleFinalized = "sale-finalized"
	TopicStockMoved    = "stock-moved"
)

// Sink receives domain change events. Business commands publish through it;
// Publisher is the kafka implementation and NoopSink drops everything.
type Sink interface {
	PublishSaleFinalized(ctx context.Context, event SaleFinalizedEvent) error
	PublishStockMoved(ctx context.Context, event StockMovedEvent) error
}
