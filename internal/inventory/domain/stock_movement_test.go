package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMovementTypeValid(t *testing.T) {
	require.True(t, MovementSale.Valid())
	require.True(t, MovementAdjustment.Valid())
	require.True(t, MovementRestock.Valid())
	require.True(t, MovementRefund.Valid())
	require.False(t, MovementType("THEFT").Valid())
	require.False(t, MovementType("").Valid())
}
