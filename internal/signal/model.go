// Package signal holds the pure RSSI model: smoothing, trend
// classification, and log-distance path loss estimation. All functions
// are stateless; callers own the sample history.
package signal

import "math"

// HistorySize bounds the raw RSSI sample window used for smoothing.
const HistorySize = 5

// Trend classifies the direction of the smoothed signal.
type Trend int

const (
	TrendStable Trend = iota
	TrendIncreasing
	TrendDecreasing
)

func (t Trend) String() string {
	switch t {
	case TrendIncreasing:
		return "increasing"
	case TrendDecreasing:
		return "decreasing"
	default:
		return "stable"
	}
}

// Glyph returns the single-character arrow used in the device table.
func (t Trend) Glyph() string {
	switch t {
	case TrendIncreasing:
		return "^"
	case TrendDecreasing:
		return "v"
	default:
		return "="
	}
}

const (
	// trendHysteresis is the smoothed-RSSI delta (dB) required before the
	// trend flips. Smaller moves keep the previous classification.
	trendHysteresis = 1.5

	// Below obstructedRSSI the path loss exponent is raised to at least
	// obstructedPathLossN to model indoor obstruction.
	obstructedRSSI      = -75.0
	obstructedPathLossN = 2.8

	// Exponent clamp keeps noisy input from producing absurd distances.
	minRatio = 0.04
	maxRatio = 4.0

	// Advertised TX power sentinels meaning "not actually measured".
	txSentinelZero = 0
	txSentinelMax  = 127

	// UndeterminedDistance is returned when the raw RSSI is exactly 0.
	UndeterminedDistance = -1
)

// txPowerByType maps a classified device type to its typical reference
// power at 1 meter. Used only when the operator has not overridden the
// configured TX power.
var txPowerByType = map[string]int{
	"AirTag":         -62,
	"Find My Device": -62,
	"AirPods":        -65,
	"Apple Watch":    -60,
	"iPhone":         -55,
	"Tracker":        -62,
}

// Smooth returns the arithmetic mean of the sample window.
func Smooth(history []int) float64 {
	if len(history) == 0 {
		return 0
	}
	sum := 0
	for _, v := range history {
		sum += v
	}
	return float64(sum) / float64(len(history))
}

// NextTrend classifies the smoothed-RSSI movement. Moves inside the
// hysteresis band keep the previous trend rather than resetting to
// stable.
func NextTrend(prev Trend, oldAvg, newAvg float64) Trend {
	switch {
	case newAvg > oldAvg+trendHysteresis:
		return TrendIncreasing
	case newAvg < oldAvg-trendHysteresis:
		return TrendDecreasing
	default:
		return prev
	}
}

// EstimateDistance converts an RSSI reading into meters using the
// log-distance path loss model. The rule order matters:
//
//  1. rssi == 0 means the reading is unusable: UndeterminedDistance.
//  2. Reference power: the device's advertised TX power wins when it is
//     a real measurement (not 0 or 127); otherwise the per-type table
//     applies, but only if the operator left the configured power at its
//     default; otherwise the configured power.
//  3. Weak signals (< -75 dBm) raise the path loss exponent to 2.8.
//  4. The exponent ratio is clamped to [0.04, 4.0] before 10^ratio.
func EstimateDistance(rssi float64, txPower int, pathLossN float64, deviceType string, advertisedTX *int) float64 {
	if rssi == 0 {
		return UndeterminedDistance
	}

	effective := txPower
	if advertisedTX != nil && *advertisedTX != txSentinelZero && *advertisedTX != txSentinelMax {
		effective = *advertisedTX
	} else if txPower == defaultTXPower {
		if v, ok := txPowerByType[deviceType]; ok {
			effective = v
		}
	}

	n := pathLossN
	if rssi < obstructedRSSI && n < obstructedPathLossN {
		n = obstructedPathLossN
	}

	ratio := (float64(effective) - rssi) / (10 * n)
	if ratio < minRatio {
		ratio = minRatio
	}
	if ratio > maxRatio {
		ratio = maxRatio
	}
	return math.Pow(10, ratio)
}

// defaultTXPower mirrors config.DefaultTXPower; kept local so the model
// stays dependency-free.
const defaultTXPower = -59

// TypeTXPower exposes the per-type reference power, used by the detail
// panel to show which baseline applied.
func TypeTXPower(deviceType string) (int, bool) {
	v, ok := txPowerByType[deviceType]
	return v, ok
}

// Stability is the standard deviation of the sample window; low values
// mean a steady signal.
func Stability(history []int) float64 {
	if len(history) < 2 {
		return 0
	}
	mean := Smooth(history)
	var variance float64
	for _, v := range history {
		d := float64(v) - mean
		variance += d * d
	}
	variance /= float64(len(history))
	return math.Sqrt(variance)
}
