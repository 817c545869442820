package app

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tagfinder.klederson.com/internal/config"
	"tagfinder.klederson.com/internal/history"
	"tagfinder.klederson.com/internal/scan"
	"tagfinder.klederson.com/internal/tracker"
)

type fakeScanner struct {
	startErr error
	started  int
	stopped  int
}

func (f *fakeScanner) Start() error { f.started++; return f.startErr }
func (f *fakeScanner) Stop() error  { f.stopped++; return nil }

type testHarness struct {
	model    Model
	settings *config.Settings
	scanner  *fakeScanner
	handler  scan.Handler
	built    int
}

func newHarness(t *testing.T) *testHarness {
	t.Helper()
	dir := t.TempDir()
	settings := config.Defaults(filepath.Join(dir, config.SettingsFile))
	hist := history.NewStore(dir, zerolog.Nop())
	registry := tracker.NewRegistry(settings, hist, zerolog.Nop())

	h := &testHarness{settings: settings, scanner: &fakeScanner{}}
	factory := func(adapterID string, handler scan.Handler) scan.Scanner {
		h.built++
		h.handler = handler
		return h.scanner
	}
	h.model = New(settings, registry, hist, factory, zerolog.Nop())
	return h
}

func (h *testHarness) press(t *testing.T, key string) {
	t.Helper()
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := h.model.Update(msg)
	h.model = next.(Model)
}

func (h *testHarness) tick(t *testing.T) {
	t.Helper()
	next, _ := h.model.Update(TickMsg(time.Now()))
	h.model = next.(Model)
}

func TestScanStartStop(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, StateIdle, h.model.State())

	h.press(t, "s")
	assert.Equal(t, StateScanning, h.model.State())
	assert.Equal(t, 1, h.scanner.started)
	assert.True(t, h.model.continuous) // ScanOnce defaults off

	h.press(t, "s")
	assert.Equal(t, StateIdle, h.model.State())
	assert.Equal(t, 1, h.scanner.stopped)
}

func TestScanStartFailureStaysIdle(t *testing.T) {
	h := newHarness(t)
	h.scanner.startErr = errors.New("adapter busy")

	h.press(t, "s")
	assert.Equal(t, StateIdle, h.model.State())
	assert.Contains(t, h.model.statusMsg, "adapter busy")
}

func TestScannerErrorFailsClosed(t *testing.T) {
	h := newHarness(t)
	h.press(t, "s")
	require.Equal(t, StateScanning, h.model.State())

	next, _ := h.model.Update(ScanErrorMsg{Err: errors.New("hci read")})
	h.model = next.(Model)
	assert.Equal(t, StateIdle, h.model.State())
	assert.Equal(t, 1, h.scanner.stopped)
	assert.Contains(t, h.model.statusMsg, "hci read")
}

func TestSingleScanExpiresOnTick(t *testing.T) {
	h := newHarness(t)
	h.settings.ScanOnce = true

	h.press(t, "s")
	require.Equal(t, StateScanning, h.model.State())
	assert.False(t, h.model.continuous)

	// Mid-scan ticks keep going.
	h.tick(t)
	assert.Equal(t, StateScanning, h.model.State())

	// Past the configured duration the scan ends on its own.
	h.model.scanStart = time.Now().Add(-time.Duration(h.settings.ScanDuration+1) * time.Second)
	h.tick(t)
	assert.Equal(t, StateIdle, h.model.State())
	assert.Equal(t, 1, h.scanner.stopped)
}

func TestContinuousScanIgnoresDuration(t *testing.T) {
	h := newHarness(t)
	h.press(t, "s")

	h.model.scanStart = time.Now().Add(-time.Hour)
	h.tick(t)
	assert.Equal(t, StateScanning, h.model.State())
}

func TestIngestedDevicesAppearOnTick(t *testing.T) {
	h := newHarness(t)
	h.press(t, "s")
	require.NotNil(t, h.handler)

	h.handler(scan.Advertisement{
		Address:   "AA:BB:CC:DD:EE:FF",
		LocalName: "Tile Mate",
		RSSI:      -61,
	})
	h.tick(t)

	require.Len(t, h.model.devices, 1)
	assert.Equal(t, "Tile Mate", h.model.devices[0].Name)
}

func TestToggleKeys(t *testing.T) {
	h := newHarness(t)

	h.press(t, "a")
	assert.True(t, h.settings.AirTagsOnly)
	h.press(t, "a")
	assert.False(t, h.settings.AirTagsOnly)

	h.press(t, "m")
	assert.True(t, h.settings.ScanOnce)

	h.press(t, "r")
	assert.False(t, h.settings.ShowRadar) // defaults on

	h.press(t, "i")
	assert.False(t, h.settings.HighlightNew)
}

func TestDurationPrompt(t *testing.T) {
	h := newHarness(t)

	h.press(t, "d")
	require.NotNil(t, h.model.prompt)

	h.press(t, "4")
	h.press(t, "5")
	h.press(t, "enter")

	assert.Nil(t, h.model.prompt)
	assert.Equal(t, 45, h.settings.ScanDuration)
}

func TestDurationPromptRejectsGarbage(t *testing.T) {
	h := newHarness(t)

	h.press(t, "d")
	h.press(t, "x")
	h.press(t, "enter")
	require.NotNil(t, h.model.prompt)
	assert.NotEmpty(t, h.model.prompt.errMsg)
	assert.Equal(t, config.DefaultScanDuration, h.settings.ScanDuration)

	h.press(t, "esc")
	assert.Nil(t, h.model.prompt)
}

func TestTargetMACPrompt(t *testing.T) {
	h := newHarness(t)

	h.press(t, "g")
	require.NotNil(t, h.model.prompt)
	h.model.prompt.input.SetValue("aa:bb:cc:dd:ee:ff")
	h.press(t, "enter")

	assert.Nil(t, h.model.prompt)
	assert.Equal(t, "AA:BB:CC:DD:EE:FF", h.settings.TargetMAC)
}

func TestQuitWhileScanningCancelsFirst(t *testing.T) {
	h := newHarness(t)
	h.press(t, "s")
	require.Equal(t, StateScanning, h.model.State())

	// First q only cancels the scan.
	h.press(t, "q")
	assert.Equal(t, StateIdle, h.model.State())
	assert.Equal(t, 1, h.scanner.stopped)

	// Second q quits.
	next, cmd := h.model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	h.model = next.(Model)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestAdapterSwitchResumesScan(t *testing.T) {
	h := newHarness(t)
	h.press(t, "s")
	require.Equal(t, 1, h.built)

	h.press(t, "l")
	assert.Equal(t, StateAdapterSwitching, h.model.State())
	assert.Equal(t, 1, h.scanner.stopped)

	// Leaving the picker restarts the interrupted scan.
	h.press(t, "esc")
	assert.Equal(t, StateScanning, h.model.State())
	assert.Equal(t, 2, h.built)
}

func TestAdapterSwitchIdleStaysIdle(t *testing.T) {
	h := newHarness(t)

	h.press(t, "l")
	assert.Equal(t, StateAdapterSwitching, h.model.State())
	h.press(t, "esc")
	assert.Equal(t, StateIdle, h.model.State())
	assert.Equal(t, 0, h.built)
}

func TestDetailOverlayClosesWhenDeviceVanishes(t *testing.T) {
	h := newHarness(t)
	h.press(t, "s")
	h.handler(scan.Advertisement{Address: "AA:BB:CC:DD:EE:FF", RSSI: -60, LocalName: "Tile"})
	h.tick(t)
	require.Len(t, h.model.devices, 1)

	h.press(t, "enter")
	require.Equal(t, overlayDetail, h.model.overlay)

	// Clearing the session removes the detailed device; the next tick
	// drops back to the table instead of rendering a stale overlay.
	h.model.shared.registry.Clear()
	h.tick(t)
	assert.Equal(t, overlayNone, h.model.overlay)
}

func TestClearResetsSessionTable(t *testing.T) {
	h := newHarness(t)
	h.press(t, "s")
	h.handler(scan.Advertisement{Address: "AA:BB:CC:DD:EE:FF", RSSI: -60, LocalName: "Tile"})
	h.tick(t)
	require.Len(t, h.model.devices, 1)

	h.press(t, "c")
	h.tick(t)
	assert.Empty(t, h.model.devices)
}
