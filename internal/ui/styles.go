package ui

import "github.com/charmbracelet/lipgloss"

// Sonar color palette
var (
	ColorBright  = lipgloss.Color("#00D7FF")
	ColorCyan    = lipgloss.Color("#00AFD7")
	ColorMidCyan = lipgloss.Color("#0087AF")
	ColorDimCyan = lipgloss.Color("#005F87")
	ColorAirTag  = lipgloss.Color("#FF5FD7")
	ColorTarget  = lipgloss.Color("#FFD700")
	ColorNew     = lipgloss.Color("#5FFFAF")
	ColorGood    = lipgloss.Color("#5FFF5F")
	ColorWarn    = lipgloss.Color("#FFAF00")
	ColorBad     = lipgloss.Color("#FF5F5F")
)

// Pre-built styles
var (
	StyleMenuBar = lipgloss.NewStyle().
			Background(lipgloss.Color("#00262E")).
			Foreground(ColorBright).
			Bold(true).
			Padding(0, 1)

	StyleMenuKey = lipgloss.NewStyle().
			Foreground(ColorBright).
			Bold(true)

	StyleMenuLabel = lipgloss.NewStyle().
			Foreground(ColorCyan)

	StyleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("#00262E")).
			Foreground(ColorCyan).
			Padding(0, 1)

	StyleStatusScanning = lipgloss.NewStyle().
				Foreground(ColorGood).
				Bold(true)

	StyleStatusIdle = lipgloss.NewStyle().
			Foreground(ColorWarn).
			Bold(true)

	StylePanelBorder = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorMidCyan)

	StylePanelActive = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorBright)

	StylePanelTitle = lipgloss.NewStyle().
			Foreground(ColorBright).
			Bold(true).
			Padding(0, 1)

	StyleDeviceName = lipgloss.NewStyle().
			Foreground(ColorBright).
			Bold(true)

	StyleAirTagName = lipgloss.NewStyle().
			Foreground(ColorAirTag).
			Bold(true)

	StyleTargetRow = lipgloss.NewStyle().
			Foreground(ColorTarget).
			Bold(true)

	StyleNewMarker = lipgloss.NewStyle().
			Foreground(ColorNew).
			Bold(true)

	StyleAddress = lipgloss.NewStyle().
			Foreground(ColorMidCyan)

	StyleRSSIGood = lipgloss.NewStyle().
			Foreground(ColorGood)

	StyleRSSIWarn = lipgloss.NewStyle().
			Foreground(ColorWarn)

	StyleRSSIBad = lipgloss.NewStyle().
			Foreground(ColorBad)

	StyleSeparator = lipgloss.NewStyle().
			Foreground(ColorMidCyan)

	StyleHelp = lipgloss.NewStyle().
			Foreground(ColorDimCyan)

	StyleCursorRow = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#000000")).
			Background(ColorBright).
			Bold(true)

	StyleLabel = lipgloss.NewStyle().
			Foreground(ColorMidCyan)

	StyleValue = lipgloss.NewStyle().
			Foreground(ColorBright).
			Bold(true)

	StyleError = lipgloss.NewStyle().
			Foreground(ColorBad).
			Bold(true)

	StylePrompt = lipgloss.NewStyle().
			Foreground(ColorTarget).
			Bold(true)
)

// StyleRSSI picks the color band for a smoothed RSSI value.
func StyleRSSI(rssi float64) lipgloss.Style {
	switch {
	case rssi > -60:
		return StyleRSSIGood
	case rssi > -80:
		return StyleRSSIWarn
	default:
		return StyleRSSIBad
	}
}
