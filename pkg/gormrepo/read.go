package gormrepo

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/warungos/datastore/pkg/database"
	"github.com/warungos/datastore/pkg/query"
)

// FindUnique reads the single row where column equals value. The column must
// carry a unique constraint; anything else is rejected before the query.
func (r *Repository[T]) FindUnique(ctx context.Context, column string, value any) (out *T, err error) {
	ctx, done := r.instrument(ctx, "FindUnique")
	defer func() { done(err) }()

	if !r.cols.IsUnique(column) {
		err = database.Validationf("column %q is not unique on %s", column, r.entity)
		return nil, err
	}

	var record T
	if dbErr := r.conn(ctx).Where(fmt.Sprintf("%s = ?", column), value).First(&record).Error; dbErr != nil {
		err = r.fail("find", dbErr)
		return nil, err
	}
	return &record, nil
}

// FindFirst returns the first row matching the options.
func (r *Repository[T]) FindFirst(ctx context.Context, opts query.Options) (out *T, err error) {
	ctx, done := r.instrument(ctx, "FindFirst")
	defer func() { done(err) }()

	tx, err := r.scope(ctx, opts)
	if err != nil {
		return nil, err
	}

	var record T
	if dbErr := tx.First(&record).Error; dbErr != nil {
		err = r.fail("find first", dbErr)
		return nil, err
	}
	return &record, nil
}

// FindMany returns all rows matching the options. An empty result is a valid
// empty slice, never an error.
func (r *Repository[T]) FindMany(ctx context.Context, opts query.Options) (out []T, err error) {
	ctx, done := r.instrument(ctx, "FindMany")
	defer func() { done(err) }()

	tx, err := r.scope(ctx, opts)
	if err != nil {
		return nil, err
	}

	records := make([]T, 0)
	if dbErr := tx.Find(&records).Error; dbErr != nil {
		err = r.fail("find many", dbErr)
		return nil, err
	}
	return records, nil
}

// Count returns the number of rows matching the filter.
func (r *Repository[T]) Count(ctx context.Context, filter query.Filter) (n int64, err error) {
	ctx, done := r.instrument(ctx, "Count")
	defer func() { done(err) }()

	tx := r.conn(ctx).Model(new(T))
	if !filter.IsZero() {
		tx = tx.Where(filter.Expr, filter.Args...)
	}
	if dbErr := tx.Count(&n).Error; dbErr != nil {
		err = r.fail("count", dbErr)
		return 0, err
	}
	return n, nil
}

// scope translates read options into a prepared gorm query. Column names
// were validated against the entity metadata, so interpolating them into
// ordering and cursor fragments is safe.
func (r *Repository[T]) scope(ctx context.Context, opts query.Options) (*gorm.DB, error) {
	if err := opts.Validate(r.cols); err != nil {
		return nil, err
	}

	tx := r.conn(ctx).Model(new(T))
	if !opts.Filter.IsZero() {
		tx = tx.Where(opts.Filter.Expr, opts.Filter.Args...)
	}

	if opts.Cursor != nil {
		// Keyset positioning: the cursor row is included; direction follows
		// the ordering declared for the cursor column (ascending when none).
		cmp := ">="
		for _, ord := range opts.OrderBy {
			if ord.Column == opts.Cursor.Column && ord.Desc {
				cmp = "<="
			}
		}
		tx = tx.Where(fmt.Sprintf("%s %s ?", opts.Cursor.Column, cmp), opts.Cursor.Value)
	}

	for _, ord := range opts.OrderBy {
		tx = tx.Order(clause.OrderByColumn{
			Column: clause.Column{Name: ord.Column},
			Desc:   ord.Desc,
		})
	}

	if len(opts.Distinct) > 0 {
		cols := make([]any, 0, len(opts.Distinct))
		for _, c := range opts.Distinct {
			cols = append(cols, c)
		}
		tx = tx.Distinct(cols...)
	}

	if opts.Take > 0 {
		tx = tx.Limit(opts.Take)
	}
	if opts.Skip > 0 {
		tx = tx.Offset(opts.Skip)
	}
	return tx, nil
}
