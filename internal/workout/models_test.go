package workout

import (
	"math"
	"testing"
	"time"

	"backend-mapty/internal/shared/geo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testLoc = geo.Location{Lat: 10.0, Lng: 20.0}
	// Tuesday, 14 October 2025.
	testTime = time.Date(2025, time.October, 14, 9, 30, 0, 0, time.UTC)
)

func TestNewRunningPace(t *testing.T) {
	cases := []struct{ distance, duration float64 }{
		{5, 30},
		{10, 47.5},
		{0.4, 2},
		{42.195, 180},
	}
	for _, tc := range cases {
		rec, err := NewRunning(testLoc, tc.distance, tc.duration, 170, testTime)
		require.NoError(t, err)
		require.NotNil(t, rec.Running)
		assert.Nil(t, rec.Cycling)
		assert.InDelta(t, tc.duration/tc.distance, rec.Running.PaceMinPerKm, 1e-12)
		assert.InDelta(t, rec.Running.PaceMinPerKm, rec.Metric(), 1e-12)
		assert.Equal(t, KindRunning, rec.Kind)
	}
}

func TestNewCyclingSpeed(t *testing.T) {
	cases := []struct{ distance, duration float64 }{
		{20, 60},
		{35, 75},
		{1, 1},
	}
	for _, tc := range cases {
		rec, err := NewCycling(testLoc, tc.distance, tc.duration, 150, testTime)
		require.NoError(t, err)
		require.NotNil(t, rec.Cycling)
		assert.Nil(t, rec.Running)
		assert.InDelta(t, tc.distance/(tc.duration/60), rec.Cycling.SpeedKmPerH, 1e-9)
		assert.InDelta(t, rec.Cycling.SpeedKmPerH, rec.Metric(), 1e-12)
	}
}

func TestConstructorsRejectInvalidMetrics(t *testing.T) {
	_, err := NewRunning(testLoc, 0, 30, 180, testTime)
	assert.ErrorIs(t, err, ErrInvalidMetric)

	_, err = NewRunning(testLoc, 5, -1, 180, testTime)
	assert.ErrorIs(t, err, ErrInvalidMetric)

	_, err = NewRunning(testLoc, 5, 30, 0, testTime)
	assert.ErrorIs(t, err, ErrInvalidMetric)

	_, err = NewCycling(testLoc, math.Inf(1), 30, 10, testTime)
	assert.ErrorIs(t, err, ErrInvalidMetric)

	_, err = NewCycling(testLoc, 5, 30, math.NaN(), testTime)
	assert.ErrorIs(t, err, ErrInvalidMetric)
}

func TestConstructorsRejectOverflowingMetrics(t *testing.T) {
	_, err := NewRunning(testLoc, 1e-320, 1e300, 180, testTime)
	assert.ErrorIs(t, err, ErrInvalidMetric)

	_, err = NewRunning(testLoc, 1e300, 1e-300, 180, testTime)
	assert.ErrorIs(t, err, ErrInvalidMetric)

	_, err = NewCycling(testLoc, 1e300, 1e-300, 0, testTime)
	assert.ErrorIs(t, err, ErrInvalidMetric)

	_, err = NewCycling(testLoc, 1e-300, 1e300, 0, testTime)
	assert.ErrorIs(t, err, ErrInvalidMetric)
}

func TestNewCyclingAllowsNegativeElevation(t *testing.T) {
	rec, err := NewCycling(testLoc, 20, 60, -35, testTime)
	require.NoError(t, err)
	assert.Equal(t, -35.0, rec.Cycling.ElevationGainM)
}

func TestDescription(t *testing.T) {
	running, err := NewRunning(testLoc, 5, 30, 180, testTime)
	require.NoError(t, err)
	assert.Equal(t, "Running October 2", running.Description)

	sunday := time.Date(2025, time.March, 2, 12, 0, 0, 0, time.UTC)
	cycling, err := NewCycling(testLoc, 20, 60, 150, sunday)
	require.NoError(t, err)
	assert.Equal(t, "Cycling March 0", cycling.Description)
}

func TestKindGlyph(t *testing.T) {
	assert.Equal(t, "🏃‍♂️", KindRunning.Glyph())
	assert.Equal(t, "🚴", KindCycling.Glyph())
	assert.True(t, KindRunning.Valid())
	assert.False(t, Kind("swimming").Valid())
}
