package gormrepo

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/warungos/datastore/pkg/database"
	"github.com/warungos/datastore/pkg/query"
)

// Create inserts a single row. Unique and foreign-key collisions surface as
// their classified error kinds.
func (r *Repository[T]) Create(ctx context.Context, record *T) (err error) {
	ctx, done := r.instrument(ctx, "Create")
	defer func() { done(err) }()

	if dbErr := r.conn(ctx).Create(record).Error; dbErr != nil {
		err = r.fail("create", dbErr)
		return err
	}
	return nil
}

// CreateMany inserts a batch and returns the number of rows written. With
// skipDuplicates, unique collisions are silently dropped instead of aborting
// the whole batch.
func (r *Repository[T]) CreateMany(ctx context.Context, records []T, skipDuplicates bool) (count int64, err error) {
	ctx, done := r.instrument(ctx, "CreateMany")
	defer func() { done(err) }()

	if len(records) == 0 {
		return 0, nil
	}

	tx := r.conn(ctx)
	if skipDuplicates {
		tx = tx.Clauses(clause.OnConflict{DoNothing: true})
	}
	res := tx.Create(&records)
	if res.Error != nil {
		err = r.fail("create many", res.Error)
		return 0, err
	}
	return res.RowsAffected, nil
}

// Update applies changes to the single row where column equals value and
// returns the updated row. A miss is ErrNotFound.
func (r *Repository[T]) Update(ctx context.Context, column string, value any, changes map[string]any) (out *T, err error) {
	ctx, done := r.instrument(ctx, "Update")
	defer func() { done(err) }()

	if !r.cols.IsUnique(column) {
		err = database.Validationf("column %q is not unique on %s", column, r.entity)
		return nil, err
	}
	if err = r.validateChanges(changes); err != nil {
		return nil, err
	}

	var record T
	res := r.conn(ctx).
		Model(&record).
		Clauses(clause.Returning{}).
		Where(fmt.Sprintf("%s = ?", column), value).
		Updates(changes)
	if res.Error != nil {
		err = r.fail("update", res.Error)
		return nil, err
	}
	if res.RowsAffected == 0 {
		err = fmt.Errorf("update %s: %w", r.entity, database.ErrNotFound)
		return nil, err
	}
	return &record, nil
}

// UpdateMany applies changes to every row matching the filter and returns
// the affected count. Zero matches is not an error.
func (r *Repository[T]) UpdateMany(ctx context.Context, filter query.Filter, changes map[string]any) (count int64, err error) {
	ctx, done := r.instrument(ctx, "UpdateMany")
	defer func() { done(err) }()

	if err = r.validateChanges(changes); err != nil {
		return 0, err
	}

	tx := r.conn(ctx).Model(new(T))
	if filter.IsZero() {
		tx = tx.Session(&gorm.Session{AllowGlobalUpdate: true})
	} else {
		tx = tx.Where(filter.Expr, filter.Args...)
	}
	res := tx.Updates(changes)
	if res.Error != nil {
		err = r.fail("update many", res.Error)
		return 0, err
	}
	return res.RowsAffected, nil
}

// Upsert writes the record as a single INSERT ... ON CONFLICT DO UPDATE
// statement keyed on conflictColumns, so concurrent upserts on the same key
// cannot race a separate read and write. An empty updateColumns list updates
// every non-key column.
func (r *Repository[T]) Upsert(ctx context.Context, conflictColumns []string, record *T, updateColumns []string) (err error) {
	ctx, done := r.instrument(ctx, "Upsert")
	defer func() { done(err) }()

	if len(conflictColumns) == 0 {
		err = database.Validationf("upsert requires conflict columns")
		return err
	}
	for _, col := range conflictColumns {
		if !r.cols.Has(col) {
			err = database.Validationf("conflict column %q unknown on %s", col, r.entity)
			return err
		}
	}
	for _, col := range updateColumns {
		if !r.cols.Has(col) {
			err = database.Validationf("update column %q unknown on %s", col, r.entity)
			return err
		}
	}

	onConflict := clause.OnConflict{
		Columns: columnClauses(conflictColumns),
	}
	if len(updateColumns) == 0 {
		onConflict.UpdateAll = true
	} else {
		onConflict.DoUpdates = clause.AssignmentColumns(updateColumns)
	}

	if dbErr := r.conn(ctx).Clauses(onConflict).Create(record).Error; dbErr != nil {
		err = r.fail("upsert", dbErr)
		return err
	}
	return nil
}

// Delete removes the single row where column equals value and returns it.
// Dependent rows block the delete with ErrForeignKeyViolation.
func (r *Repository[T]) Delete(ctx context.Context, column string, value any) (out *T, err error) {
	ctx, done := r.instrument(ctx, "Delete")
	defer func() { done(err) }()

	if !r.cols.IsUnique(column) {
		err = database.Validationf("column %q is not unique on %s", column, r.entity)
		return nil, err
	}

	var record T
	res := r.conn(ctx).
		Clauses(clause.Returning{}).
		Where(fmt.Sprintf("%s = ?", column), value).
		Delete(&record)
	if res.Error != nil {
		err = r.fail("delete", res.Error)
		return nil, err
	}
	if res.RowsAffected == 0 {
		err = fmt.Errorf("delete %s: %w", r.entity, database.ErrNotFound)
		return nil, err
	}
	return &record, nil
}

// DeleteMany removes every row matching the filter and returns the count.
func (r *Repository[T]) DeleteMany(ctx context.Context, filter query.Filter) (count int64, err error) {
	ctx, done := r.instrument(ctx, "DeleteMany")
	defer func() { done(err) }()

	tx := r.conn(ctx)
	if filter.IsZero() {
		tx = tx.Session(&gorm.Session{AllowGlobalUpdate: true})
	} else {
		tx = tx.Where(filter.Expr, filter.Args...)
	}
	res := tx.Delete(new(T))
	if res.Error != nil {
		err = r.fail("delete many", res.Error)
		return 0, err
	}
	return res.RowsAffected, nil
}

func (r *Repository[T]) validateChanges(changes map[string]any) error {
	if len(changes) == 0 {
		return database.Validationf("update requires at least one change")
	}
	for col := range changes {
		if !r.cols.Has(col) {
			return database.Validationf("change references unknown column %q on %s", col, r.entity)
		}
	}
	return nil
}

func columnClauses(names []string) []clause.Column {
	cols := make([]clause.Column, 0, len(names))
	for _, name := range names {
		cols = append(cols, clause.Column{Name: name})
	}
	return cols
}
