package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHooksFanOut(t *testing.T) {
	hooks := NewHooks()

	var queries []Event
	hooks.On(KindQuery, func(ev Event) { queries = append(queries, ev) })
	hooks.On(KindQuery, func(ev Event) { queries = append(queries, ev) })

	var errs []Event
	hooks.On(KindError, func(ev Event) { errs = append(errs, ev) })

	hooks.emit(Event{Kind: KindQuery, SQL: "SELECT * FROM products WHERE id = $1", Rows: 1})

	require.Len(t, queries, 2, "every registered handler receives the event")
	require.Empty(t, errs, "handlers only see their own kind")
	require.Equal(t, "SELECT * FROM products WHERE id = $1", queries[0].SQL)
	require.False(t, queries[0].At.IsZero(), "emit stamps the event time")
}

func TestHooksNilHandlerIgnored(t *testing.T) {
	hooks := NewHooks()
	hooks.On(KindInfo, nil)
	hooks.emit(Event{Kind: KindInfo, Message: "connected"})
}

func TestHooksPreservesEventTime(t *testing.T) {
	hooks := NewHooks()
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	var got Event
	hooks.On(KindWarn, func(ev Event) { got = ev })
	hooks.emit(Event{Kind: KindWarn, Message: "slow query", At: at})

	require.Equal(t, at, got.At)
}
