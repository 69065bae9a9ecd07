// Package query defines the filter, ordering, pagination and aggregation
// shapes shared by every entity repository, together with the caller-side
// validation that rejects malformed requests before a statement is issued.
package query

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/warungos/datastore/pkg/database"
)

// Filter is a SQL predicate fragment with bound arguments. The expression
// references columns directly ("price >= ? AND is_active = ?"); values are
// always passed through Args.
type Filter struct {
	Expr string
	Args []any
}

// Where builds a Filter.
func Where(expr string, args ...any) Filter {
	return Filter{Expr: expr, Args: args}
}

// IsZero reports whether the filter matches everything.
func (f Filter) IsZero() bool {
	return f.Expr == ""
}

// Order is a single ordering term.
type Order struct {
	Column string
	Desc   bool
}

// Cursor positions a paginated read at the row holding Value in Column. The
// cursor row itself is included; combine with Skip to exclude it.
type Cursor struct {
	Column string
	Value  any
}

// Options parameterizes findFirst / findMany style reads.
type Options struct {
	Filter   Filter
	OrderBy  []Order
	Cursor   *Cursor
	Take     int
	Skip     int
	Distinct []string
}

// Aggregation selects the aggregate functions to compute. Count is over all
// matched rows; the column lists must name numeric columns.
type Aggregation struct {
	Count bool
	Avg   []string
	Sum   []string
	Min   []string
	Max   []string
}

// IsZero reports whether no aggregate was requested.
func (a Aggregation) IsZero() bool {
	return !a.Count && len(a.Avg) == 0 && len(a.Sum) == 0 && len(a.Min) == 0 && len(a.Max) == 0
}

// AggregateResult carries computed aggregates keyed by column.
type AggregateResult struct {
	Count int64
	Avg   map[string]float64
	Sum   map[string]float64
	Min   map[string]float64
	Max   map[string]float64
}

// GroupBySpec parameterizes a grouped aggregation. By must be non-empty and
// every plain column referenced by OrderBy or Having must also appear in By.
type GroupBySpec struct {
	By      []string
	Filter  Filter
	Having  []HavingTerm
	OrderBy []Order
	Agg     Aggregation
	Take    int
	Skip    int
}

// HavingTerm is one predicate applied after grouping. An empty Aggregate
// references the plain grouping column; otherwise Aggregate names the
// function ("count", "sum", "avg", "min", "max") applied to Column. Count
// ignores Column. Terms combine with AND.
type HavingTerm struct {
	Column    string
	Aggregate string
	Op        string
	Value     any
}

// Expr renders the validated term as a SQL fragment with one bound
// parameter for Value.
func (t HavingTerm) Expr() string {
	switch t.Aggregate {
	case "":
		return fmt.Sprintf("%s %s ?", t.Column, t.Op)
	case "count":
		return fmt.Sprintf("COUNT(*) %s ?", t.Op)
	default:
		return fmt.Sprintf("%s(%s) %s ?", strings.ToUpper(t.Aggregate), t.Column, t.Op)
	}
}

// GroupRow is one grouped result: the By columns plus aggregate aliases
// ("agg_count", "avg_<col>", "sum_<col>", "min_<col>", "max_<col>").
type GroupRow map[string]any

// Columns is the per-entity column metadata the validators check against.
type Columns struct {
	all     []string
	numeric []string
	unique  []string
}

// NewColumns declares an entity's column metadata: all selectable columns,
// the numeric subset usable in aggregates, and the unique subset usable in
// unique filters.
func NewColumns(all, numeric, unique []string) Columns {
	return Columns{all: all, numeric: numeric, unique: unique}
}

// Has reports whether the column exists on the entity.
func (c Columns) Has(column string) bool {
	return lo.Contains(c.all, column)
}

// IsNumeric reports whether the column accepts numeric aggregation.
func (c Columns) IsNumeric(column string) bool {
	return lo.Contains(c.numeric, column)
}

// IsUnique reports whether the column carries a unique constraint.
func (c Columns) IsUnique(column string) bool {
	return lo.Contains(c.unique, column)
}

// Validate checks read options against the entity metadata.
func (o Options) Validate(cols Columns) error {
	for _, ord := range o.OrderBy {
		if !cols.Has(ord.Column) {
			return database.Validationf("orderBy references unknown column %q", ord.Column)
		}
	}
	if o.Cursor != nil && !cols.Has(o.Cursor.Column) {
		return database.Validationf("cursor references unknown column %q", o.Cursor.Column)
	}
	for _, col := range o.Distinct {
		if !cols.Has(col) {
			return database.Validationf("distinct references unknown column %q", col)
		}
	}
	if o.Take < 0 || o.Skip < 0 {
		return database.Validationf("take and skip must not be negative")
	}
	return nil
}

// Validate checks the aggregate selection against the entity metadata.
func (a Aggregation) Validate(cols Columns) error {
	for _, group := range [][]string{a.Avg, a.Sum, a.Min, a.Max} {
		for _, col := range group {
			if !cols.Has(col) {
				return database.Validationf("aggregate references unknown column %q", col)
			}
			if !cols.IsNumeric(col) {
				return database.Validationf("aggregate column %q is not numeric", col)
			}
		}
	}
	return nil
}

// Validate checks a grouped aggregation before it reaches storage.
func (g GroupBySpec) Validate(cols Columns) error {
	if len(g.By) == 0 {
		return database.Validationf("groupBy requires at least one column")
	}
	for _, col := range g.By {
		if !cols.Has(col) {
			return database.Validationf("groupBy references unknown column %q", col)
		}
	}
	if !lo.EveryBy(g.OrderBy, func(ord Order) bool { return lo.Contains(g.By, ord.Column) }) {
		return database.Validationf("orderBy columns must appear in groupBy")
	}
	for _, term := range g.Having {
		if err := term.validate(g.By, cols); err != nil {
			return err
		}
	}
	if err := g.Agg.Validate(cols); err != nil {
		return err
	}
	if g.Take < 0 || g.Skip < 0 {
		return database.Validationf("take and skip must not be negative")
	}
	return nil
}

var havingOps = []string{"=", "<>", "<", "<=", ">", ">="}

func (t HavingTerm) validate(by []string, cols Columns) error {
	if !lo.Contains(havingOps, t.Op) {
		return database.Validationf("having uses unknown operator %q", t.Op)
	}
	switch t.Aggregate {
	case "count":
		return nil
	case "sum", "avg", "min", "max":
		if !cols.Has(t.Column) {
			return database.Validationf("having references unknown column %q", t.Column)
		}
		if !cols.IsNumeric(t.Column) {
			return database.Validationf("having aggregate column %q is not numeric", t.Column)
		}
		return nil
	case "":
		if !lo.Contains(by, t.Column) {
			return database.Validationf("having column %q must appear in groupBy", t.Column)
		}
		return nil
	default:
		return database.Validationf("having uses unknown aggregate %q", t.Aggregate)
	}
}
