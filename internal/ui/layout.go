package ui

import "github.com/charmbracelet/lipgloss"

// ComposeLayout joins the body panels horizontally, with the menu bar on
// top and the status bar on the bottom.
func ComposeLayout(menuBar string, panels []string, statusBar string) string {
	middle := lipgloss.JoinHorizontal(lipgloss.Top, panels...)
	return lipgloss.JoinVertical(lipgloss.Left, menuBar, middle, statusBar)
}

// RenderRadarPanel wraps radar content with a styled border; the radar
// itself is drawn by the radar package to avoid an import cycle.
func RenderRadarPanel(width, height int, radarContent, legend string) string {
	content := radarContent + "\n" + legend
	return clampHeight(StylePanelBorder.Width(width-2).Height(height-2).Render(content), height)
}

// RenderPromptBar renders the inline input line shown while the operator
// is entering a value.
func RenderPromptBar(width int, label, inputView, errMsg string) string {
	line := StylePrompt.Render(" "+label+" ") + inputView
	if errMsg != "" {
		line += "  " + StyleError.Render(errMsg)
	}
	gap := width - lipgloss.Width(line)
	if gap < 0 {
		gap = 0
	}
	return StyleStatusBar.Width(width).Render(line + spaces(gap))
}
