package ui

import (
	"fmt"
	"strings"

	"tagfinder.klederson.com/internal/scan"
)

// RenderAdapterList renders the adapter selection overlay.
func RenderAdapterList(adapters []scan.AdapterInfo, cursor int, current string, width, height int) string {
	innerW := width - 4
	if innerW < 30 {
		innerW = 30
	}

	lines := []string{
		StylePanelTitle.Render("BLUETOOTH ADAPTERS"),
		StyleSeparator.Render(strings.Repeat("-", innerW)),
		StyleHelp.Render("  enter=select  esc=keep current"),
		"",
	}

	if len(adapters) == 0 {
		lines = append(lines, StyleHelp.Render("  No adapters found (is BlueZ installed?)"))
	}

	for i, a := range adapters {
		state := "DOWN"
		if a.Up {
			state = "UP"
		}
		mark := "  "
		if a.ID == current {
			mark = "=>"
		}
		row := fmt.Sprintf(" %s %-6s %-17s %-4s %s", mark, a.ID, a.Address, state, a.Bus)
		if i == cursor {
			lines = append(lines, StyleCursorRow.Render(trunc(row, innerW)))
		} else {
			lines = append(lines, StyleMenuLabel.Render(trunc(row, innerW)))
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
