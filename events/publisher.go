package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/warungos/datastore/pkg/logger"
)

// Publisher wraps Kafka producer
type Publisher struct {
	producer sarama.SyncProducer
	brokers  []string
}

// NewPublisher creates a new Kafka publisher
func NewPublisher(brokers []string) (*Publisher, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.Retry.Max = 3
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.MaxMessageBytes = 1000000

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	logger.Logger.Info().
		Strs("brokers", brokers).
		Msg("Kafka publisher initialized")

	return &Publisher{
		producer: producer,
		brokers:  brokers,
	}, nil
}

// PublishSaleFinalized publishes a sale finalized event with tracing
func (p *Publisher) PublishSaleFinalized(ctx context.Context, event SaleFinalizedEvent) error {
	tracer := otel.Tracer("kafka-publisher")
	ctx, span := tracer.Start(ctx, "kafka.publish.sale_finalized",
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination", TopicSaleFinalized),
			attribute.String("messaging.destination_kind", "topic"),
			attribute.String("event.type", EventTypeSaleFinalized),
			attribute.Int64("sale.id", int64(event.SaleID)),
			attribute.Int64("sale.total", event.Total),
			attribute.Int("sale.item_count", event.ItemCount),
		),
	)
	defer span.End()

	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	event.EventType = EventTypeSaleFinalized
	event.Timestamp = time.Now()

	span.SetAttributes(attribute.String("event.id", event.EventID))

	key := fmt.Sprintf("sale_%d", event.SaleID)
	partition, offset, err := p.send(ctx, span, TopicSaleFinalized, key, event.EventID, EventTypeSaleFinalized, event)
	if err != nil {
		logger.Logger.Error().
			Err(err).
			Str("topic", TopicSaleFinalized).
			Uint("sale_id", event.SaleID).
			Str("trace_id", span.SpanContext().TraceID().String()).
			Msg("Failed to publish event")
		return err
	}

	logger.Logger.Info().
		Str("event_id", event.EventID).
		Str("event_type", event.EventType).
		Str("topic", TopicSaleFinalized).
		Int32("partition", partition).
		Int64("offset", offset).
		Uint("sale_id", event.SaleID).
		Int64("total", event.Total).
		Str("trace_id", span.SpanContext().TraceID().String()).
		Msg("Sale finalized event published")

	return nil
}

// PublishStockMoved publishes a stock movement event with tracing
func (p *Publisher) PublishStockMoved(ctx context.Context, event StockMovedEvent) error {
	tracer := otel.Tracer("kafka-publisher")
	ctx, span := tracer.Start(ctx, "kafka.publish.stock_moved",
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination", TopicStockMoved),
			attribute.String("messaging.destination_kind", "topic"),
			attribute.String("event.type", EventTypeStockMoved),
			attribute.Int64("product.id", int64(event.ProductID)),
			attribute.Int64("stock.qty_delta", event.QtyDelta),
			attribute.String("stock.movement_type", event.Type),
		),
	)
	defer span.End()

	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	event.EventType = EventTypeStockMoved
	event.Timestamp = time.Now()

	span.SetAttributes(attribute.String("event.id", event.EventID))

	key := fmt.Sprintf("product_%d", event.ProductID)
	partition, offset, err := p.send(ctx, span, TopicStockMoved, key, event.EventID, EventTypeStockMoved, event)
	if err != nil {
		logger.Logger.Error().
			Err(err).
			Str("topic", TopicStockMoved).
			Uint("product_id", event.ProductID).
			Str("trace_id", span.SpanContext().TraceID().String()).
			Msg("Failed to publish event")
		return err
	}

	logger.Logger.Info().
		Str("event_id", event.EventID).
		Str("event_type", event.EventType).
		Str("topic", TopicStockMoved).
		Int32("partition", partition).
		Int64("offset", offset).
		Uint("product_id", event.ProductID).
		Int64("qty_delta", event.QtyDelta).
		Str("trace_id", span.SpanContext().TraceID().String()).
		Msg("Stock moved event published")

	return nil
}

func (p *Publisher) send(ctx context.Context, span trace.Span, topic, key, eventID, eventType string, event any) (int32, int64, error) {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to marshal event")
		return 0, 0, fmt.Errorf("failed to marshal event: %w", err)
	}

	// Inject trace context into Kafka headers
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)

	headers := []sarama.RecordHeader{
		{
			Key:   []byte("event_type"),
			Value: []byte(eventType),
		},
		{
			Key:   []byte("event_id"),
			Value: []byte(eventID),
		},
	}

	for k, v := range carrier {
		headers = append(headers, sarama.RecordHeader{
			Key:   []byte(k),
			Value: []byte(v),
		})
	}

	msg := &sarama.ProducerMessage{
		Topic:   topic,
		Key:     sarama.StringEncoder(key),
		Value:   sarama.ByteEncoder(eventBytes),
		Headers: headers,
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to send message")
		return 0, 0, fmt.Errorf("failed to send message to Kafka: %w", err)
	}

	span.SetAttributes(
		attribute.Int("messaging.kafka.partition", int(partition)),
		attribute.Int64("messaging.kafka.offset", offset),
	)
	span.SetStatus(codes.Ok, "Event published successfully")

	return partition, offset, nil
}

// Close closes the Kafka producer
func (p *Publisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// NoopSink drops all events. Used when no broker is configured.
type NoopSink struct{}

func (NoopSink) PublishSaleFinalized(ctx context.Context, event SaleFinalizedEvent) error {
	return nil
}

func (NoopSink) PublishStockMoved(ctx context.Context, event StockMovedEvent) error {
	return nil
}

var _ Sink = (*Publisher)(nil)
var _ Sink = NoopSink{}
