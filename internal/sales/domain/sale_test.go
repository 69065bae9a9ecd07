package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSaleStatusTransitions(t *testing.T) {
	require.True(t, SalePending.CanTransition(SalePaid))
	require.True(t, SalePending.CanTransition(SaleCancelled))

	require.False(t, SalePaid.CanTransition(SalePending))
	require.False(t, SalePaid.CanTransition(SaleCancelled))
	require.False(t, SaleCancelled.CanTransition(SalePaid))
	require.False(t, SalePending.CanTransition(SalePending))
}

func TestSaleStatusValid(t *testing.T) {
	require.True(t, SalePending.Valid())
	require.True(t, SalePaid.Valid())
	require.True(t, SaleCancelled.Valid())
	require.False(t, SaleStatus("REFUNDED").Valid())
	require.False(t, SaleStatus("").Valid())
}

func TestConsistentSubtotal(t *testing.T) {
	require.True(t, SaleItem{Qty: 3, Price: 5000, Subtotal: 15000}.ConsistentSubtotal())
	require.False(t, SaleItem{Qty: 3, Price: 5000, Subtotal: 14000}.ConsistentSubtotal())
	require.True(t, SaleItem{}.ConsistentSubtotal())
}

func TestSumSubtotals(t *testing.T) {
	items := []SaleItem{
		{Subtotal: 15000},
		{Subtotal: 8000},
		{Subtotal: 2500},
	}
	require.Equal(t, int64(25500), SumSubtotals(items))
	require.Equal(t, int64(0), SumSubtotals(nil))
}
