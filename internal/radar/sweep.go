package radar

import (
	"math"
	"time"
)

const (
	sweepSpeedRPM = 30   // one rotation per 2 seconds
	sweepTrailDeg = 60.0 // trailing glow angle
)

// Sweep manages the rotating sweep line state.
type Sweep struct {
	Angle     float64 // current angle in radians [0, 2π)
	StartTime time.Time
}

// NewSweep creates a sweep starting at 0 degrees (north).
func NewSweep() *Sweep {
	return &Sweep{StartTime: time.Now()}
}

// Update advances the sweep angle based on elapsed time.
func (s *Sweep) Update() {
	elapsed := time.Since(s.StartTime).Seconds()
	rps := float64(sweepSpeedRPM) / 60.0
	s.Angle = math.Mod(elapsed*rps*2*math.Pi, 2*math.Pi)
}

// Degrees returns the current sweep angle in degrees.
func (s *Sweep) Degrees() float64 {
	return s.Angle * 180 / math.Pi
}

// Intensity returns the glow intensity [0, 1] for a given cell angle;
// 0 outside the trailing glow.
func (s *Sweep) Intensity(cellAngle float64) float64 {
	diff := NormalizeAngle(s.Angle - cellAngle)
	if diff < 0 {
		diff += 2 * math.Pi
	}

	trailRad := sweepTrailDeg * math.Pi / 180.0
	if diff > trailRad {
		return 0
	}
	return 1.0 - diff/trailRad
}
