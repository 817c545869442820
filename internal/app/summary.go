package app

import (
	"time"

	"tagfinder.klederson.com/internal/ui"
)

// buildSummary combines the current session with the durable history,
// deduplicated by address with the most recent sighting winning.
func (m *Model) buildSummary() ui.Summary {
	known := m.shared.history.Snapshots()

	var s ui.Summary
	s.TotalDevices = len(known)

	first := time.Time{}
	strongest := -999
	for addr, snap := range known {
		if snap.IsAirTag {
			s.AirTags++
		}
		if snap.LastRSSI != 0 && snap.LastRSSI > strongest {
			strongest = snap.LastRSSI
			s.ClosestAddr = addr
			s.ClosestName = snap.MeaningfulName
			if snap.FriendlyName != "" {
				s.ClosestName = snap.FriendlyName
			}
			s.ClosestRSSI = snap.LastRSSI
		}
		if first.IsZero() || snap.FirstSeen.Before(first) {
			first = snap.FirstSeen
		}
	}
	if !first.IsZero() {
		s.Span = time.Since(first)
	}

	// Distance statistics come from the live session; history stores no
	// distances.
	s.ClosestDist = -1
	var distances []float64
	for _, d := range m.devices {
		if d.Distance >= 0 {
			distances = append(distances, d.Distance)
		}
		if d.Address == s.ClosestAddr && d.Distance >= 0 {
			s.ClosestDist = d.Distance
		}
	}
	if len(distances) > 0 {
		s.MinDistance = distances[0]
		s.MaxDistance = distances[0]
		sum := 0.0
		for _, v := range distances {
			if v < s.MinDistance {
				s.MinDistance = v
			}
			if v > s.MaxDistance {
				s.MaxDistance = v
			}
			sum += v
		}
		s.AvgDistance = sum / float64(len(distances))
	}

	return s
}
