package database

import (
	"context"
	"fmt"
)

// RawQuery executes a parameterized SELECT and returns the rows as generic
// maps. Arguments are always bound, never interpolated, so callers cannot
// build injectable statements through this path. Inside a grouped
// transaction the statement joins it.
func (c *Client) RawQuery(ctx context.Context, query string, args ...any) ([]map[string]any, error) {
	conn := c.db
	if tx := TxFrom(ctx); tx != nil {
		conn = tx
	}

	var rows []map[string]any
	if err := conn.WithContext(ctx).Raw(query, args...).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("raw query: %w", Classify(err))
	}
	return rows, nil
}

// RawExec executes a parameterized statement and returns the affected row
// count.
func (c *Client) RawExec(ctx context.Context, query string, args ...any) (int64, error) {
	conn := c.db
	if tx := TxFrom(ctx); tx != nil {
		conn = tx
	}

	res := conn.WithContext(ctx).Exec(query, args...)
	if res.Error != nil {
		return 0, fmt.Errorf("raw exec: %w", Classify(res.Error))
	}
	return res.RowsAffected, nil
}
