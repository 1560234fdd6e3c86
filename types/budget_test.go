package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseBudgetLevel(t *testing.T) {
	level, err := ParseBudgetLevel("low")
	require.NoError(t, err)
	require.Equal(t, BudgetLow, level)

	level, err = ParseBudgetLevel("")
	require.NoError(t, err)
	require.Equal(t, BudgetMedium, level)

	_, err = ParseBudgetLevel("unlimited")
	require.Error(t, err)
	require.True(t, IsInvalidConfig(err))
}

func TestCallCounts(t *testing.T) {
	require.Equal(t, 3, BudgetLow.CallCount())
	require.Equal(t, 10, BudgetMedium.CallCount())
	require.Equal(t, 25, BudgetHigh.CallCount())
}

func TestInvalidConfigError(t *testing.T) {
	err := &InvalidConfigError{Field: "capacity", Reason: "must be a positive integer"}
	require.Contains(t, err.Error(), "capacity")
	require.True(t, IsInvalidConfig(err))
	require.False(t, IsInvalidConfig(errors.New("plain")))
	require.False(t, IsInvalidConfig(nil))
}

func TestOccupancyRatioClamping(t *testing.T) {
	require.Equal(t, 0.0, RoomState{Capacity: 0, CurrentOccupancy: 5}.OccupancyRatio())
	require.Equal(t, 0.5, RoomState{Capacity: 30, CurrentOccupancy: 15}.OccupancyRatio())
	require.Equal(t, 1.0, RoomState{Capacity: 30, CurrentOccupancy: 45}.OccupancyRatio())
	require.Equal(t, 0.0, RoomState{Capacity: 30, CurrentOccupancy: -2}.OccupancyRatio())
}
