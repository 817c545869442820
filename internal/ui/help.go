package ui

import "strings"

var helpEntries = []struct{ key, desc string }{
	{"s", "start scan / stop scan"},
	{"a", "toggle AirTags-only filter"},
	{"m", "toggle single / continuous scan mode"},
	{"d", "set single-scan duration (seconds)"},
	{"t", "set TX power reference (dBm at 1m)"},
	{"n", "set path loss exponent"},
	{"f", "set friendly name for selected device"},
	{"g", "set target MAC address"},
	{"e", "set target AirTag serial (display only)"},
	{"l", "list / select Bluetooth adapter"},
	{"c", "clear session devices"},
	{"v", "toggle history auto-save"},
	{"i", "toggle new-device highlight"},
	{"x", "toggle manufacturer data in detail"},
	{"r", "toggle radar panel"},
	{"z", "scan summary"},
	{"up/down", "move cursor"},
	{"enter", "device detail"},
	{"esc", "close overlay"},
	{"q", "cancel scan / quit"},
}

// RenderHelp renders the keyboard help overlay.
func RenderHelp(width, height int) string {
	innerW := width - 4
	if innerW < 30 {
		innerW = 30
	}

	lines := []string{
		StylePanelTitle.Render("CONTROLS"),
		StyleSeparator.Render(strings.Repeat("-", innerW)),
		"",
	}
	for _, e := range helpEntries {
		lines = append(lines, StyleMenuKey.Render("  ["+e.key+"]")+spaces(maxInt(1, 10-len(e.key)))+StyleMenuLabel.Render(e.desc))
	}

	for len(lines) < height-2 {
		lines = append(lines, "")
	}
	if len(lines) > height-2 {
		lines = lines[:height-2]
	}
	return clampHeight(StylePanelActive.Width(width-2).Height(height-2).Render(strings.Join(lines, "\n")), height)
}
