package signal

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSmooth(t *testing.T) {
	assert.Equal(t, 0.0, Smooth(nil))
	assert.Equal(t, -60.0, Smooth([]int{-60}))
	assert.InDelta(t, -61.5, Smooth([]int{-60, -63}), 0.001)
	assert.InDelta(t, -70.0, Smooth([]int{-65, -70, -75}), 0.001)
}

func TestNextTrendHysteresis(t *testing.T) {
	// Moves past the 1.5 dB band flip the trend.
	assert.Equal(t, TrendIncreasing, NextTrend(TrendStable, -70, -68.4))
	assert.Equal(t, TrendDecreasing, NextTrend(TrendStable, -70, -71.6))

	// Moves inside the band keep the previous trend, not stable.
	assert.Equal(t, TrendIncreasing, NextTrend(TrendIncreasing, -70, -68.6))
	assert.Equal(t, TrendDecreasing, NextTrend(TrendDecreasing, -70, -69.0))
	assert.Equal(t, TrendStable, NextTrend(TrendStable, -70, -70.5))

	// Exactly 1.5 dB is still inside the band.
	assert.Equal(t, TrendStable, NextTrend(TrendStable, -70, -68.5))
}

func TestTrendStrings(t *testing.T) {
	assert.Equal(t, "increasing", TrendIncreasing.String())
	assert.Equal(t, "^", TrendIncreasing.Glyph())
	assert.Equal(t, "decreasing", TrendDecreasing.String())
	assert.Equal(t, "v", TrendDecreasing.Glyph())
	assert.Equal(t, "stable", TrendStable.String())
	assert.Equal(t, "=", TrendStable.Glyph())
}

func TestEstimateDistanceZeroRSSI(t *testing.T) {
	assert.Equal(t, float64(UndeterminedDistance), EstimateDistance(0, -59, 2.0, "", nil))
}

func TestEstimateDistanceReferencePriority(t *testing.T) {
	// A real advertised TX power beats everything.
	adv := -64
	got := EstimateDistance(-74, -59, 2.0, "AirTag", &adv)
	assert.InDelta(t, math.Pow(10, 0.5), got, 0.001)

	// Sentinel values 0 and 127 are not measurements: the per-type table
	// applies instead (AirTag -62).
	zero, max := 0, 127
	withTable := EstimateDistance(-72, -59, 2.0, "AirTag", &zero)
	assert.InDelta(t, math.Pow(10, 0.5), withTable, 0.001)
	assert.InDelta(t, withTable, EstimateDistance(-72, -59, 2.0, "AirTag", &max), 0.001)

	// An operator override suppresses the per-type table.
	overridden := EstimateDistance(-62, -50, 2.0, "AirTag", nil)
	assert.InDelta(t, math.Pow(10, 0.6), overridden, 0.001)

	// Unknown type with default config uses the configured default.
	plain := EstimateDistance(-69, -59, 2.0, "Laptop", nil)
	assert.InDelta(t, math.Pow(10, 0.5), plain, 0.001)
}

func TestEstimateDistanceObstructedExponent(t *testing.T) {
	// Below -75 dBm the exponent floors at 2.8.
	weak := EstimateDistance(-80, -59, 2.0, "", nil)
	expected := math.Pow(10, (-59.0+80.0)/28.0)
	assert.InDelta(t, expected, weak, 0.001)

	// A configured exponent above the floor is kept.
	steep := EstimateDistance(-80, -59, 3.5, "", nil)
	assert.InDelta(t, math.Pow(10, (-59.0+80.0)/35.0), steep, 0.001)

	// At exactly -75 the floor does not apply.
	edge := EstimateDistance(-75, -59, 2.0, "", nil)
	assert.InDelta(t, math.Pow(10, (-59.0+75.0)/20.0), edge, 0.001)
}

func TestEstimateDistanceClamp(t *testing.T) {
	// Very strong signal clamps at ratio 0.04.
	near := EstimateDistance(-1, -59, 2.0, "", nil)
	assert.InDelta(t, math.Pow(10, 0.04), near, 0.001)

	// A tiny exponent pushes the ratio past 4.0 and gets clamped.
	far := EstimateDistance(-74, -59, 0.3, "", nil)
	assert.InDelta(t, math.Pow(10, 4.0), far, 0.001)
}

func TestTypeTXPower(t *testing.T) {
	v, ok := TypeTXPower("AirTag")
	require.True(t, ok)
	assert.Equal(t, -62, v)

	v, ok = TypeTXPower("iPhone")
	require.True(t, ok)
	assert.Equal(t, -55, v)

	_, ok = TypeTXPower("Toaster")
	assert.False(t, ok)
}

func TestStability(t *testing.T) {
	assert.Equal(t, 0.0, Stability(nil))
	assert.Equal(t, 0.0, Stability([]int{-60}))
	assert.Equal(t, 0.0, Stability([]int{-60, -60, -60}))
	assert.InDelta(t, 1.0, Stability([]int{-60, -62}), 0.001)
}
