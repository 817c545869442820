package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Status carries everything the bottom bar displays.
type Status struct {
	Scanning     bool
	Continuous   bool
	Elapsed      time.Duration
	Duration     int // seconds, single mode
	Devices      int
	AirTags      int
	HistoryCount int
	AirTagsOnly  bool
	AutoSave     bool
	TargetMAC    string
	TargetSerial string
	Message      string
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, st Status) string {
	var state string
	if st.Scanning {
		if st.Continuous {
			state = StyleStatusScanning.Render(fmt.Sprintf("[SCANNING %ds]", int(st.Elapsed.Seconds())))
		} else {
			remain := st.Duration - int(st.Elapsed.Seconds())
			if remain < 0 {
				remain = 0
			}
			state = StyleStatusScanning.Render(fmt.Sprintf("[SCANNING %ds left]", remain))
		}
	} else {
		state = StyleStatusIdle.Render("[IDLE]")
	}

	info := fmt.Sprintf(" Devices: %d  AirTags: %d  Known: %d", st.Devices, st.AirTags, st.HistoryCount)
	if st.AirTagsOnly {
		info += "  FILTER:airtags"
	}
	if st.AutoSave {
		info += "  autosave"
	}
	if st.TargetMAC != "" {
		info += "  target:" + st.TargetMAC
	}
	if st.TargetSerial != "" {
		info += "  serial:" + st.TargetSerial
	}

	content := state + StyleStatusBar.Render(info)
	if st.Message != "" {
		content += "  " + StylePrompt.Render(st.Message)
	}

	gap := width - lipgloss.Width(content)
	if gap < 0 {
		gap = 0
	}
	return StyleStatusBar.Width(width).Render(content + spaces(gap))
}
