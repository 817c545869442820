// Package radar renders the proximity display: concentric distance
// rings with devices plotted at their estimated range and a rotating
// sweep. Bearings are hash-derived (BLE has no direction finding); only
// the ring position is meaningful.
package radar

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"tagfinder.klederson.com/internal/tracker"
)

var (
	colorBright = lipgloss.Color("#00D7FF")
	colorMid    = lipgloss.Color("#0087AF")
	colorDim    = lipgloss.Color("#005F87")
	colorAirTag = lipgloss.Color("#FF5FD7")
	colorTarget = lipgloss.Color("#FFD700")
	colorDevice = lipgloss.Color("#5FFFAF")

	styleCenter = lipgloss.NewStyle().Foreground(colorBright).Bold(true)
	styleRing   = lipgloss.NewStyle().Foreground(colorMid)
	styleDot    = lipgloss.NewStyle().Foreground(colorDim)
	styleAirTag = lipgloss.NewStyle().Foreground(colorAirTag).Bold(true)
	styleTarget = lipgloss.NewStyle().Foreground(colorTarget).Bold(true)
	styleDevice = lipgloss.NewStyle().Foreground(colorDevice).Bold(true)
	styleLabel  = lipgloss.NewStyle().Foreground(colorMid)
)

const maxLabelLen = 10

type plotted struct {
	col, row int
	dev      *tracker.Device
	target   bool
}

// Render produces the proximity display as a styled string. Devices with
// an undetermined distance are omitted.
func Render(width, height int, devices []*tracker.Device, sweep *Sweep, targetMAC string) string {
	if width < 10 || height < 5 {
		return ""
	}

	centerX := width / 2
	centerY := height / 2
	radius := float64(minInt(centerX-1, int(float64(centerY-1)/aspectRatio)))
	if radius < 3 {
		radius = 3
	}

	ringRadii := make([]float64, ringCount)
	for i := range ringRadii {
		ringRadii[i] = radius * float64(i+1) / float64(ringCount)
	}

	plots := plotDevices(devices, centerX, centerY, radius, targetMAC)

	var sb strings.Builder
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			sb.WriteString(renderCell(col, row, centerX, centerY, ringRadii, sweep, plots))
		}
		if row < height-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func plotDevices(devices []*tracker.Device, centerX, centerY int, radius float64, targetMAC string) []plotted {
	plots := make([]plotted, 0, len(devices))
	for _, d := range devices {
		if d.Distance < 0 {
			continue
		}
		bearing := AddressBearing(d.Address)
		r := MetersToRadius(d.Distance, radius)
		plots = append(plots, plotted{
			col:    centerX + int(math.Round(r*math.Sin(bearing))),
			row:    centerY - int(math.Round(r*math.Cos(bearing)*aspectRatio)),
			dev:    d,
			target: targetMAC != "" && strings.EqualFold(d.Address, targetMAC),
		})
	}
	return plots
}

func renderCell(col, row, centerX, centerY int, ringRadii []float64, sweep *Sweep, plots []plotted) string {
	// Device symbols take priority over everything.
	for _, p := range plots {
		if p.col == col && p.row == row {
			switch {
			case p.target:
				return styleTarget.Render("@")
			case p.dev.IsAirTag:
				return styleAirTag.Render("A")
			default:
				return styleDevice.Render("*")
			}
		}
	}

	if col == centerX && row == centerY {
		return styleCenter.Render("+")
	}

	dist := CellDistance(col, row, centerX, centerY)
	angle := CellAngle(col, row, centerX, centerY)

	// Ring outlines.
	for _, rr := range ringRadii {
		if math.Abs(dist-rr) < 0.5 {
			return styleRing.Render(string(RingChar(angle)))
		}
	}

	// Sweep glow inside the outer ring.
	outer := ringRadii[len(ringRadii)-1]
	if dist < outer {
		if in := sweep.Intensity(angle); in > 0 {
			switch {
			case in > 0.66:
				return styleCenter.Render(".")
			case in > 0.33:
				return styleRing.Render(".")
			default:
				return styleDot.Render(".")
			}
		}
	}

	return " "
}

// RenderLegend renders ring distances and symbol meanings under the display.
func RenderLegend(width int) string {
	rings := make([]string, ringCount)
	for i := range rings {
		rings[i] = fmt.Sprintf("%.0fm", MaxRange*float64(i+1)/float64(ringCount))
	}
	legend := " rings: " + strings.Join(rings, " / ") +
		"   " + styleTarget.Render("@") + styleLabel.Render("=target ") +
		styleAirTag.Render("A") + styleLabel.Render("=airtag ") +
		styleDevice.Render("*") + styleLabel.Render("=device")
	if lipgloss.Width(legend) > width {
		legend = legend[:width]
	}
	return styleLabel.Render(legend)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
