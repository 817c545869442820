package ui

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"tagfinder.klederson.com/internal/signal"
	"tagfinder.klederson.com/internal/tracker"
)

// RenderDetailPanel renders the detail overlay for the selected device.
func RenderDetailPanel(d *tracker.Device, width, height int, showMfrData bool) string {
	innerW := width - 4
	if innerW < 24 {
		innerW = 24
	}

	title := StylePanelTitle.Render("DEVICE DETAIL")
	escHint := StyleHelp.Render("[ESC]")
	titleLine := title + spaces(maxInt(0, innerW-lipgloss.Width(title)-lipgloss.Width(escHint))) + escHint
	sep := StyleSeparator.Render(strings.Repeat("-", innerW))

	lines := []string{titleLine, sep, ""}

	airtag := "No"
	if d.IsAirTag {
		airtag = "Yes"
	}
	dist := "undetermined"
	if d.Distance >= 0 {
		dist = fmt.Sprintf("~%.2f m", d.Distance)
	}
	txSource := "configured"
	if d.AdvertisedTXPower != nil {
		txSource = fmt.Sprintf("advertised %d dBm", *d.AdvertisedTXPower)
	} else if v, ok := signal.TypeTXPower(d.DeviceType); ok {
		txSource = fmt.Sprintf("type table %d dBm", v)
	}

	fields := []struct{ label, value string }{
		{"Name", d.DisplayName()},
		{"Advertised", d.Name},
		{"Address", d.Address},
		{"Type", orDash(d.DeviceType)},
		{"Company", orDash(d.Company)},
		{"RSSI", fmt.Sprintf("%.1f dBm (raw %d)", d.RSSI, d.LastRSSI())},
		{"Trend", d.Trend.String()},
		{"Distance", dist},
		{"Stability", fmt.Sprintf("%.1f", d.Stability())},
		{"TX ref", txSource},
		{"AirTag", airtag},
		{"First seen", d.FirstSeen.Format("15:04:05")},
		{"Last seen", formatAgo(d.LastSeen)},
		{"Duration", fmt.Sprintf("%.1fs", d.SeenDuration().Seconds())},
	}

	for _, f := range fields {
		lines = append(lines, StyleLabel.Render(fmt.Sprintf("  %-11s", f.label))+StyleValue.Render(f.value))
	}
	lines = append(lines, "")

	barWidth := innerW - 24
	if barWidth < 10 {
		barWidth = 10
	}
	lines = append(lines, StyleLabel.Render("  Signal  ")+renderSignalBar(d.RSSI, barWidth)+
		StyleValue.Render(fmt.Sprintf(" %ddBm", int(d.RSSI))))

	if vals := d.History.Values(); len(vals) > 0 {
		lines = append(lines, "")
		lines = append(lines, StyleLabel.Render("  Samples: ")+
			lipgloss.NewStyle().Foreground(ColorCyan).Render(renderSparkline(vals, innerW-12)))
	}

	if showMfrData && len(d.ManufacturerData) > 0 {
		lines = append(lines, "", StyleLabel.Render("  Manufacturer data:"))
		ids := make([]uint16, 0, len(d.ManufacturerData))
		for id := range d.ManufacturerData {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		for _, id := range ids {
			line := fmt.Sprintf("    0x%04X: %X", id, d.ManufacturerData[id])
			lines = append(lines, StyleAddress.Render(trunc(line, innerW)))
		}
	}
	if showMfrData && len(d.ServiceUUIDs) > 0 {
		lines = append(lines, "", StyleLabel.Render("  Services:"))
		for _, u := range d.ServiceUUIDs {
			lines = append(lines, StyleAddress.Render(trunc("    "+u, innerW)))
		}
	}

	for len(lines) < height-2 {
		lines = append(lines, "")
	}
	if len(lines) > height-2 {
		lines = lines[:height-2]
	}

	content := strings.Join(lines, "\n")
	return clampHeight(StylePanelActive.Width(width-2).Height(height-2).Render(content), height)
}

func renderSignalBar(rssi float64, width int) string {
	// Map RSSI -100..-30 to 0..width filled bars.
	ratio := (rssi + 100.0) / 70.0
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	filled := int(math.Round(ratio * float64(width)))

	bar := strings.Repeat("|", filled) + strings.Repeat("-", width-filled)
	filledPart := StyleRSSI(rssi).Render(bar[:filled])
	emptyPart := StyleHelp.Render(bar[filled:])
	return StyleHelp.Render("[") + filledPart + emptyPart + StyleHelp.Render("]")
}

func renderSparkline(values []int, width int) string {
	if len(values) == 0 || width < 1 {
		return ""
	}

	chars := []byte{'_', '.', '-', '~', '^'}

	minV, maxV := values[0], values[0]
	for _, v := range values {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	rng := maxV - minV
	if rng < 1 {
		rng = 1
	}

	start := 0
	if len(values) > width {
		start = len(values) - width
	}

	var sb strings.Builder
	for i := start; i < len(values); i++ {
		idx := (values[i] - minV) * (len(chars) - 1) / rng
		if idx < 0 {
			idx = 0
		}
		if idx >= len(chars) {
			idx = len(chars) - 1
		}
		sb.WriteByte(chars[idx])
	}
	return sb.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func formatAgo(t time.Time) string {
	d := time.Since(t)
	if d < time.Second {
		return "now"
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	}
	return fmt.Sprintf("%dm ago", int(d.Minutes()))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
