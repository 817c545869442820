package ui

import (
	"fmt"
	"strings"

	"tagfinder.klederson.com/internal/tracker"
)

// TableOptions control per-row decoration in the device table.
type TableOptions struct {
	HighlightNew bool
	TargetMAC    string
}

// RenderDeviceTable renders the scrollable device table. The header is
// fixed; entries scroll so the cursor stays visible.
func RenderDeviceTable(devices []*tracker.Device, width, height, cursor int, opts TableOptions) string {
	innerW := width - 4
	if innerW < 30 {
		innerW = 30
	}

	title := StylePanelTitle.Render(fmt.Sprintf("DEVICES [%d]", len(devices)))
	header := StyleLabel.Render(formatRow(innerW, "NAME", "ADDRESS", "RSSI", "TR", "DIST", "TYPE", "SEEN"))
	separator := StyleSeparator.Render(strings.Repeat("-", innerW))
	headerLines := []string{title, header, separator}

	innerH := height - 2
	if innerH < len(headerLines)+1 {
		innerH = len(headerLines) + 1
	}
	rowSpace := innerH - len(headerLines)

	var rows []string
	if len(devices) == 0 {
		rows = append(rows, "", StyleHelp.Render(" No devices yet..."), StyleHelp.Render(" Press [s] to scan"))
	} else {
		viewStart := 0
		if cursor >= rowSpace {
			viewStart = cursor - rowSpace + 1
		}
		for i := viewStart; i < len(devices) && len(rows) < rowSpace; i++ {
			rows = append(rows, renderRow(devices[i], innerW, i == cursor, opts))
		}
	}

	for len(rows) < rowSpace {
		rows = append(rows, "")
	}
	if len(rows) > rowSpace {
		rows = rows[:rowSpace]
	}

	all := append(headerLines, rows...)
	content := strings.Join(all, "\n")
	rendered := StylePanelBorder.Width(width - 2).Height(innerH).Render(content)
	return clampHeight(rendered, height)
}

func renderRow(d *tracker.Device, width int, isCursor bool, opts TableOptions) string {
	name := d.DisplayName()
	marker := " "
	if opts.HighlightNew && d.NewDevice {
		marker = "+"
	}
	isTarget := opts.TargetMAC != "" && strings.EqualFold(d.Address, opts.TargetMAC)
	if isTarget {
		marker = "@"
	}

	dist := "?"
	if d.Distance >= 0 {
		dist = fmt.Sprintf("%.1fm", d.Distance)
	}

	dtype := d.DeviceType
	if dtype == "" {
		dtype = "-"
	}

	raw := formatRow(width,
		marker+name,
		d.Address,
		fmt.Sprintf("%d", int(d.RSSI)),
		d.Trend.Glyph(),
		dist,
		dtype,
		fmt.Sprintf("%ds", int(d.SeenDuration().Seconds())),
	)

	switch {
	case isCursor:
		return StyleCursorRow.Render(raw)
	case isTarget:
		return StyleTargetRow.Render(raw)
	case d.IsAirTag:
		return StyleAirTagName.Render(raw)
	case opts.HighlightNew && d.NewDevice:
		return StyleNewMarker.Render(raw)
	default:
		// Color only the RSSI column band; the rest stays plain so the
		// strongest signals stand out.
		return StyleRSSI(d.RSSI).Render(raw)
	}
}

// formatRow lays out the fixed columns, truncating the name to fit.
func formatRow(width int, name, addr, rssi, trend, dist, dtype, seen string) string {
	// Fixed column widths; the name takes whatever remains.
	const fixed = 17 + 1 + 5 + 1 + 2 + 1 + 7 + 1 + 14 + 1 + 5 + 2
	nameW := width - fixed
	if nameW < 6 {
		nameW = 6
	}
	row := fmt.Sprintf(" %-*s %-17s %5s %2s %7s %-14s %5s",
		nameW, trunc(name, nameW), trunc(addr, 17), trunc(rssi, 5),
		trunc(trend, 2), trunc(dist, 7), trunc(dtype, 14), trunc(seen, 5))
	return trunc(row, width)
}

// trunc cuts on rune boundaries so multibyte advertised names never
// render as broken UTF-8.
func trunc(s string, w int) string {
	if len(s) <= w {
		return s
	}
	runes := []rune(s)
	if len(runes) <= w {
		return s
	}
	return string(runes[:w])
}

// clampHeight pads or truncates rendered output to exactly h lines;
// lipgloss Height only sets a minimum.
func clampHeight(rendered string, h int) string {
	lines := strings.Split(rendered, "\n")
	if len(lines) > h {
		lines = lines[:h]
	}
	for len(lines) < h {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
