package ui

import (
	"fmt"
	"strings"
	"time"
)

// Summary aggregates the session and history for the summary overlay.
type Summary struct {
	TotalDevices int
	AirTags      int
	ClosestName  string
	ClosestAddr  string
	ClosestRSSI  int
	ClosestDist  float64
	MinDistance  float64
	AvgDistance  float64
	MaxDistance  float64
	Span         time.Duration
}

// RenderSummary renders the findings overlay combining the current scan
// with the durable history.
func RenderSummary(s Summary, width, height int) string {
	innerW := width - 4
	if innerW < 30 {
		innerW = 30
	}

	lines := []string{
		StylePanelTitle.Render("SCAN SUMMARY"),
		StyleSeparator.Render(strings.Repeat("-", innerW)),
		"",
	}

	if s.TotalDevices == 0 {
		lines = append(lines, StyleHelp.Render("  No devices in history or current scan"))
	} else {
		closestDist := "undetermined"
		if s.ClosestDist >= 0 {
			closestDist = fmt.Sprintf("~%.2f m", s.ClosestDist)
		}
		fields := []struct{ label, value string }{
			{"Unique devices", fmt.Sprintf("%d", s.TotalDevices)},
			{"AirTags/Find My", fmt.Sprintf("%d", s.AirTags)},
			{"Closest device", fmt.Sprintf("%s (%s)", s.ClosestName, s.ClosestAddr)},
			{"Closest signal", fmt.Sprintf("%d dBm", s.ClosestRSSI)},
			{"Closest distance", closestDist},
			{"", ""},
			{"Min distance", fmt.Sprintf("%.2f m", s.MinDistance)},
			{"Avg distance", fmt.Sprintf("%.2f m", s.AvgDistance)},
			{"Max distance", fmt.Sprintf("%.2f m", s.MaxDistance)},
			{"", ""},
			{"Observation span", fmt.Sprintf("%.1fs", s.Span.Seconds())},
		}
		for _, f := range fields {
			if f.label == "" {
				lines = append(lines, "")
				continue
			}
			lines = append(lines, StyleLabel.Render(fmt.Sprintf("  %-17s", f.label))+StyleValue.Render(f.value))
		}
	}

	for len(lines) < height-2 {
		lines = append(lines, "")
	}
	if len(lines) > height-2 {
		lines = lines[:height-2]
	}
	return clampHeight(StylePanelActive.Width(width-2).Height(height-2).Render(strings.Join(lines, "\n")), height)
}
