package daterange

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDaysSingleDay(t *testing.T) {
	days, err := Days("2025-06-10", "2025-06-10")
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-06-10"}, days)
}

func TestDaysAscendingInclusive(t *testing.T) {
	days, err := Days("2025-06-10", "2025-06-12")
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-06-10", "2025-06-11", "2025-06-12"}, days)
}

func TestDaysCrossesMonthBoundary(t *testing.T) {
	days, err := Days("2025-06-29", "2025-07-02")
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-06-29", "2025-06-30", "2025-07-01", "2025-07-02"}, days)
}

func TestDaysInvertedRangeIsEmpty(t *testing.T) {
	days, err := Days("2025-06-12", "2025-06-10")
	require.NoError(t, err)
	assert.Empty(t, days)
}

func TestDaysRejectsMalformedDates(t *testing.T) {
	_, err := Days("2025-6-1", "2025-06-10")
	assert.Error(t, err)

	_, err = Days("2025-06-10", "June 12")
	assert.Error(t, err)
}
