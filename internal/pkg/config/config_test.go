package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCutoffClock(t *testing.T) {
	cases := []struct {
		value  string
		hour   int
		minute int
	}{
		{"09:30", 9, 30},
		{"00:00", 0, 0},
		{"23:59", 23, 59},
	}

	for _, tc := range cases {
		r := Runtime{CutoffTime: tc.value}
		hour, minute, err := r.CutoffClock()
		require.NoError(t, err, tc.value)
		require.Equal(t, tc.hour, hour)
		require.Equal(t, tc.minute, minute)
	}
}

func TestCutoffClockInvalid(t *testing.T) {
	for _, value := range []string{"noon", "25:00", "09-30", ""} {
		r := Runtime{CutoffTime: value}
		_, _, err := r.CutoffClock()
		require.Error(t, err, value)
	}
}

func TestLocation(t *testing.T) {
	loc, err := Runtime{Timezone: "Local"}.Location()
	require.NoError(t, err)
	require.Equal(t, time.Local, loc)

	loc, err = Runtime{Timezone: "Asia/Tashkent"}.Location()
	require.NoError(t, err)
	require.Equal(t, "Asia/Tashkent", loc.String())

	_, err = Runtime{Timezone: "Not/AZone"}.Location()
	require.Error(t, err)
}
