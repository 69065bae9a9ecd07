package gormrepo

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm/clause"

	"github.com/warungos/datastore/pkg/database"
	"github.com/warungos/datastore/pkg/query"
)

// Aggregate computes the requested aggregates over the filtered row set.
// Numeric results are cast to float8 in SQL so scanning is uniform across
// integer and numeric columns.
func (r *Repository[T]) Aggregate(ctx context.Context, opts query.Options, agg query.Aggregation) (result query.AggregateResult, err error) {
	ctx, done := r.instrument(ctx, "Aggregate")
	defer func() { done(err) }()

	if err = agg.Validate(r.cols); err != nil {
		return result, err
	}

	selects := aggregateSelects(agg)
	if len(selects) == 0 {
		err = database.Validationf("aggregate on %s requires at least one function", r.entity)
		return result, err
	}

	tx, err := r.scope(ctx, opts)
	if err != nil {
		return result, err
	}

	row := map[string]any{}
	if dbErr := tx.Select(strings.Join(selects, ", ")).Take(&row).Error; dbErr != nil {
		err = r.fail("aggregate", dbErr)
		return result, err
	}

	result = query.AggregateResult{
		Avg: map[string]float64{},
		Sum: map[string]float64{},
		Min: map[string]float64{},
		Max: map[string]float64{},
	}
	if agg.Count {
		result.Count = toInt64(row["agg_count"])
	}
	for _, col := range agg.Avg {
		result.Avg[col] = toFloat64(row["avg_"+col])
	}
	for _, col := range agg.Sum {
		result.Sum[col] = toFloat64(row["sum_"+col])
	}
	for _, col := range agg.Min {
		result.Min[col] = toFloat64(row["min_"+col])
	}
	for _, col := range agg.Max {
		result.Max[col] = toFloat64(row["max_"+col])
	}
	return result, nil
}

// GroupBy computes grouped aggregates. The spec is validated in full before
// any statement is issued.
func (r *Repository[T]) GroupBy(ctx context.Context, spec query.GroupBySpec) (rows []query.GroupRow, err error) {
	ctx, done := r.instrument(ctx, "GroupBy")
	defer func() { done(err) }()

	if err = spec.Validate(r.cols); err != nil {
		return nil, err
	}

	selects := append([]string{}, spec.By...)
	selects = append(selects, aggregateSelects(spec.Agg)...)

	tx := r.conn(ctx).Model(new(T)).Select(strings.Join(selects, ", "))
	if !spec.Filter.IsZero() {
		tx = tx.Where(spec.Filter.Expr, spec.Filter.Args...)
	}
	tx = tx.Group(strings.Join(spec.By, ", "))
	for _, term := range spec.Having {
		tx = tx.Having(term.Expr(), term.Value)
	}
	for _, ord := range spec.OrderBy {
		tx = tx.Order(clause.OrderByColumn{
			Column: clause.Column{Name: ord.Column},
			Desc:   ord.Desc,
		})
	}
	if spec.Take > 0 {
		tx = tx.Limit(spec.Take)
	}
	if spec.Skip > 0 {
		tx = tx.Offset(spec.Skip)
	}

	raw := make([]map[string]any, 0)
	if dbErr := tx.Find(&raw).Error; dbErr != nil {
		err = r.fail("group by", dbErr)
		return nil, err
	}

	rows = make([]query.GroupRow, 0, len(raw))
	for _, m := range raw {
		rows = append(rows, query.GroupRow(m))
	}
	return rows, nil
}

func aggregateSelects(agg query.Aggregation) []string {
	selects := make([]string, 0, 8)
	if agg.Count {
		selects = append(selects, "COUNT(*) AS agg_count")
	}
	for _, col := range agg.Avg {
		selects = append(selects, fmt.Sprintf("AVG(%s)::float8 AS avg_%s", col, col))
	}
	for _, col := range agg.Sum {
		selects = append(selects, fmt.Sprintf("SUM(%s)::float8 AS sum_%s", col, col))
	}
	for _, col := range agg.Min {
		selects = append(selects, fmt.Sprintf("MIN(%s)::float8 AS min_%s", col, col))
	}
	for _, col := range agg.Max {
		selects = append(selects, fmt.Sprintf("MAX(%s)::float8 AS max_%s", col, col))
	}
	return selects
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int32:
		return int64(n)
	case int:
		return int64(n)
	case float64:
		return int64(n)
	case []byte:
		parsed, _ := strconv.ParseInt(string(n), 10, 64)
		return parsed
	case string:
		parsed, _ := strconv.ParseInt(n, 10, 64)
		return parsed
	default:
		return 0
	}
}

func toFloat64(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int64:
		return float64(n)
	case []byte:
		parsed, _ := strconv.ParseFloat(string(n), 64)
		return parsed
	case string:
		parsed, _ := strconv.ParseFloat(n, 64)
		return parsed
	default:
		return 0
	}
}
