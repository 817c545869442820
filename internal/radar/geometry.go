package radar

import (
	"crypto/sha256"
	"encoding/binary"
	"math"
)

const (
	// MaxRange is the outermost ring's distance in meters.
	MaxRange = 30.0
	// aspectRatio corrects for terminal cells being ~2:1 tall.
	aspectRatio = 0.5
	ringCount   = 4
)

// CellDistance computes the distance from a cell to the display center,
// accounting for terminal aspect ratio.
func CellDistance(col, row, centerX, centerY int) float64 {
	dx := float64(col - centerX)
	dy := float64(row-centerY) / aspectRatio
	return math.Sqrt(dx*dx + dy*dy)
}

// CellAngle computes the angle from center to a cell.
// Returns radians in [0, 2π), where 0=north, increasing clockwise.
func CellAngle(col, row, centerX, centerY int) float64 {
	dx := float64(col - centerX)
	dy := float64(row-centerY) / aspectRatio
	angle := math.Atan2(dx, -dy)
	if angle < 0 {
		angle += 2 * math.Pi
	}
	return angle
}

// AddressBearing derives a stable pseudo-bearing from an address hash.
// BLE gives no real direction; the bearing only keeps each device at a
// consistent spot on the display while its ring tracks the estimated
// distance.
func AddressBearing(address string) float64 {
	h := sha256.Sum256([]byte(address))
	val := binary.BigEndian.Uint32(h[:4])
	return float64(val) / float64(math.MaxUint32) * 2 * math.Pi
}

// NormalizeAngle wraps an angle to [0, 2π).
func NormalizeAngle(a float64) float64 {
	for a < 0 {
		a += 2 * math.Pi
	}
	for a >= 2*math.Pi {
		a -= 2 * math.Pi
	}
	return a
}

// RingChar returns the ring character for the given angle sector.
func RingChar(angle float64) rune {
	sector := int(math.Round(NormalizeAngle(angle)/(math.Pi/4))) % 8
	switch sector {
	case 1, 5:
		return '/'
	case 2, 6:
		return '|'
	case 3, 7:
		return '\\'
	default:
		return '-'
	}
}

// MetersToRadius converts an estimated distance to display cells,
// clamping beyond-range devices to the outer ring.
func MetersToRadius(meters, radius float64) float64 {
	if meters < 0 || meters > MaxRange {
		return radius
	}
	return (meters / MaxRange) * radius
}
