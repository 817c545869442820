package app

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"

	"tagfinder.klederson.com/internal/scan"
)

type promptKind int

const (
	promptDuration promptKind = iota
	promptTXPower
	promptPathLoss
	promptTargetMAC
	promptTargetSerial
	promptFriendlyName
)

// prompt is the inline input state for one settings mutation. Invalid
// input sets errMsg and leaves all state untouched.
type prompt struct {
	kind    promptKind
	label   string
	address string // friendly-name target
	input   textinput.Model
	errMsg  string
}

func newPrompt(kind promptKind, label, placeholder, initial string) *prompt {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 32
	ti.Width = 24
	ti.SetValue(initial)
	ti.Focus()
	return &prompt{kind: kind, label: label, input: ti}
}

// apply validates the entered value and mutates settings/registry.
// Returns a status message, or ok=false with errMsg set for re-prompt.
func (p *prompt) apply(m *Model) (msg string, ok bool) {
	value := strings.TrimSpace(p.input.Value())
	s := m.shared.settings

	switch p.kind {
	case promptDuration:
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			p.errMsg = "duration must be a positive integer"
			return "", false
		}
		s.ScanDuration = n
		msg = fmt.Sprintf("scan duration: %ds", n)

	case promptTXPower:
		n, err := strconv.Atoi(value)
		if err != nil || n >= 0 || n < -120 {
			p.errMsg = "TX power must be negative dBm (e.g. -59)"
			return "", false
		}
		s.TXPower = n
		msg = fmt.Sprintf("TX power: %d dBm", n)

	case promptPathLoss:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 1.0 || f > 6.0 {
			p.errMsg = "path loss exponent must be in [1.0, 6.0]"
			return "", false
		}
		s.PathLossN = f
		msg = fmt.Sprintf("path loss exponent: %.2f", f)

	case promptTargetMAC:
		if value != "" && !scan.ValidMAC(value) {
			p.errMsg = "malformed MAC (want AA:BB:CC:DD:EE:FF)"
			return "", false
		}
		s.TargetMAC = strings.ToUpper(value)
		if value == "" {
			msg = "target cleared"
		} else {
			msg = "target: " + s.TargetMAC
			m.alertedTarget = false
		}

	case promptTargetSerial:
		s.TargetSerial = strings.ToUpper(value)
		msg = "target serial recorded (display only)"

	case promptFriendlyName:
		if value == "" {
			p.errMsg = "name must not be empty"
			return "", false
		}
		m.shared.registry.SetFriendlyName(p.address, value)
		msg = fmt.Sprintf("renamed %s to %q", p.address, value)

	default:
		return "", true
	}

	if err := s.Save(); err != nil {
		m.shared.log.Warn().Err(err).Msg("settings save failed")
		msg += " (save failed)"
	}
	return msg, true
}
