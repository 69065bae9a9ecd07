// Package gormrepo implements the uniform repository operation set shared by
// every entity in the domain. Entity packages embed Repository[T] and add
// their own finders on top; the generic layer owns filtering, pagination,
// aggregation, error classification, tracing and metrics.
package gormrepo

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/warungos/datastore/pkg/database"
	"github.com/warungos/datastore/pkg/metrics"
	"github.com/warungos/datastore/pkg/query"
)

var tracer = otel.Tracer("datastore-repository")

// Ops is the operation contract every entity repository satisfies.
type Ops[T any] interface {
	FindUnique(ctx context.Context, column string, value any) (*T, error)
	FindFirst(ctx context.Context, opts query.Options) (*T, error)
	FindMany(ctx context.Context, opts query.Options) ([]T, error)
	Create(ctx context.Context, record *T) error
	CreateMany(ctx context.Context, records []T, skipDuplicates bool) (int64, error)
	Update(ctx context.Context, column string, value any, changes map[string]any) (*T, error)
	UpdateMany(ctx context.Context, filter query.Filter, changes map[string]any) (int64, error)
	Upsert(ctx context.Context, conflictColumns []string, record *T, updateColumns []string) error
	Delete(ctx context.Context, column string, value any) (*T, error)
	DeleteMany(ctx context.Context, filter query.Filter) (int64, error)
	Aggregate(ctx context.Context, opts query.Options, agg query.Aggregation) (query.AggregateResult, error)
	GroupBy(ctx context.Context, spec query.GroupBySpec) ([]query.GroupRow, error)
	Count(ctx context.Context, filter query.Filter) (int64, error)
}

// Repository is the gorm-backed implementation of Ops for one entity type.
type Repository[T any] struct {
	db     *gorm.DB
	entity string
	cols   query.Columns
}

var _ Ops[struct{}] = (*Repository[struct{}])(nil)

// New builds a repository for entity T. The entity name labels spans and
// metrics; cols is the column metadata validated against on every call.
func New[T any](db *gorm.DB, entity string, cols query.Columns) *Repository[T] {
	return &Repository[T]{db: db, entity: entity, cols: cols}
}

// Columns exposes the entity metadata for callers composing validations.
func (r *Repository[T]) Columns() query.Columns {
	return r.cols
}

// Conn resolves the gorm handle for ctx, exposed for entity repositories
// that issue statements the generic operation set cannot express.
func (r *Repository[T]) Conn(ctx context.Context) *gorm.DB {
	return r.conn(ctx)
}

// conn resolves the gorm handle for ctx: the enclosing grouped transaction
// when there is one, the shared pool otherwise.
func (r *Repository[T]) conn(ctx context.Context) *gorm.DB {
	if tx := database.TxFrom(ctx); tx != nil {
		return tx.WithContext(ctx)
	}
	return r.db.WithContext(ctx)
}

// instrument opens the operation span and returns a finisher that records
// the outcome on both the span and the metrics collectors.
func (r *Repository[T]) instrument(ctx context.Context, op string) (context.Context, func(err error)) {
	start := time.Now()
	ctx, span := tracer.Start(ctx, "repository."+op,
		trace.WithAttributes(attribute.String("db.entity", r.entity)),
	)

	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		metrics.ObserveOperation(r.entity, op, time.Since(start), err)
	}
}

// fail classifies and wraps an error with the operation shape. Parameter
// values are never part of the message.
func (r *Repository[T]) fail(op string, err error) error {
	return fmt.Errorf("%s %s: %w", op, r.entity, database.Classify(err))
}
