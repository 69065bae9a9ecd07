package events

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/IBM/sarama/mocks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func eventIDChecker(check func(id string) error) func([]byte) error {
	return func(val []byte) error {
		var payload map[string]any
		if err := json.Unmarshal(val, &payload); err != nil {
			return err
		}
		id, _ := payload["event_id"].(string)
		return check(id)
	}
}

func TestPublishAssignsUUIDEventID(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(eventIDChecker(func(id string) error {
		if _, err := uuid.Parse(id); err != nil {
			return fmt.Errorf("event_id %q is not a uuid: %w", id, err)
		}
		return nil
	}))

	p := &Publisher{producer: producer}
	err := p.PublishSaleFinalized(context.Background(), SaleFinalizedEvent{SaleID: 1, Total: 19000})
	require.NoError(t, err)
	require.NoError(t, producer.Close())
}

func TestPublishKeepsCallerEventID(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(eventIDChecker(func(id string) error {
		if id != "evt_caller" {
			return fmt.Errorf("caller event id replaced, got %q", id)
		}
		return nil
	}))

	p := &Publisher{producer: producer}
	err := p.PublishStockMoved(context.Background(), StockMovedEvent{EventID: "evt_caller", ProductID: 10, Type: "RESTOCK", QtyDelta: 24})
	require.NoError(t, err)
	require.NoError(t, producer.Close())
}
