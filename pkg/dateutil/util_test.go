package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_DayString_TimezoneBoundary(t *testing.T) {
	saoPaulo, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	// 01:30 UTC is still the previous day in Sao Paulo (UTC-3).
	instant := time.Date(2023, 5, 10, 1, 30, 0, 0, time.UTC)
	require.Equal(t, "2023-05-10", DayString(instant, time.UTC))
	require.Equal(t, "2023-05-09", DayString(instant, saoPaulo))

	// 12:00 UTC is the same day everywhere relevant.
	noon := time.Date(2023, 5, 10, 12, 0, 0, 0, time.UTC)
	require.Equal(t, DayString(noon, time.UTC), DayString(noon, saoPaulo))
}
