package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/warungos/datastore/pkg/logger"
)

// zerologAdapter bridges gorm's logger interface onto the service logger and
// the client event hooks. It implements gormlogger.ParamsFilter so traced
// statements keep their placeholders; bound parameter values are dropped
// before the SQL reaches logs or handlers.
type zerologAdapter struct {
	hooks         *Hooks
	slowThreshold time.Duration
	level         gormlogger.LogLevel
}

func newZerologAdapter(hooks *Hooks, slowThreshold time.Duration) *zerologAdapter {
	return &zerologAdapter{
		hooks:         hooks,
		slowThreshold: slowThreshold,
		level:         gormlogger.Warn,
	}
}

func (l *zerologAdapter) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *zerologAdapter) Info(ctx context.Context, msg string, args ...interface{}) {
	if l.level < gormlogger.Info {
		return
	}
	text := fmt.Sprintf(msg, args...)
	logger.Info(ctx).Msg(text)
	l.hooks.emit(Event{Kind: KindInfo, Message: text})
}

func (l *zerologAdapter) Warn(ctx context.Context, msg string, args ...interface{}) {
	if l.level < gormlogger.Warn {
		return
	}
	text := fmt.Sprintf(msg, args...)
	logger.Warn(ctx).Msg(text)
	l.hooks.emit(Event{Kind: KindWarn, Message: text})
}

func (l *zerologAdapter) Error(ctx context.Context, msg string, args ...interface{}) {
	if l.level < gormlogger.Error {
		return
	}
	text := fmt.Sprintf(msg, args...)
	logger.Error(ctx).Msg(text)
	l.hooks.emit(Event{Kind: KindError, Message: text})
}

func (l *zerologAdapter) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	sql, rows := fc()

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		logger.Error(ctx).
			Err(err).
			Str("sql", sql).
			Int64("rows", rows).
			Dur("elapsed", elapsed).
			Msg("query failed")
		l.hooks.emit(Event{Kind: KindError, Message: "query failed", SQL: sql, Rows: rows, Duration: elapsed, Err: err})
	case l.slowThreshold > 0 && elapsed > l.slowThreshold:
		logger.Warn(ctx).
			Str("sql", sql).
			Int64("rows", rows).
			Dur("elapsed", elapsed).
			Msg("slow query")
		l.hooks.emit(Event{Kind: KindWarn, Message: "slow query", SQL: sql, Rows: rows, Duration: elapsed})
	default:
		logger.Debug(ctx).
			Str("sql", sql).
			Int64("rows", rows).
			Dur("elapsed", elapsed).
			Msg("query")
	}

	l.hooks.emit(Event{Kind: KindQuery, SQL: sql, Rows: rows, Duration: elapsed, Err: err})
}

// ParamsFilter strips bound parameter values so Trace receives the statement
// with placeholders only.
func (l *zerologAdapter) ParamsFilter(ctx context.Context, sql string, params ...interface{}) (string, []interface{}) {
	return sql, nil
}
