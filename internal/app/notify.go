package app

import (
	"strings"
	"time"

	"github.com/gen2brain/beeep"

	"tagfinder.klederson.com/internal/signal"
	"tagfinder.klederson.com/internal/tracker"
)

const trendBeepInterval = 2 * time.Second

// checkTargetAlert emits audible cues for the configured target device:
// a two-tone cue when it first appears in the session, then a short
// blip whenever the trend is increasing. Runs on the tick, never on the
// ingestion path.
func (m *Model) checkTargetAlert(devices []*tracker.Device) {
	target := m.shared.settings.TargetMAC
	if target == "" {
		return
	}

	var found *tracker.Device
	for _, d := range devices {
		if strings.EqualFold(d.Address, target) {
			found = d
			break
		}
	}
	if found == nil {
		return
	}

	if !m.alertedTarget {
		m.alertedTarget = true
		m.statusMsg = "target sighted: " + found.DisplayName()
		go func() {
			_ = beeep.Beep(600, 150)
			_ = beeep.Beep(800, 150)
		}()
		return
	}

	if found.Trend == signal.TrendIncreasing && time.Since(m.lastTrendBeep) > trendBeepInterval {
		m.lastTrendBeep = time.Now()
		go func() {
			_ = beeep.Beep(800, 80)
		}()
	}
}
