// Package app hosts the Bubble Tea model and the scan controller state
// machine: Idle, Scanning (single or continuous), and AdapterSwitching.
package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"tagfinder.klederson.com/internal/config"
	"tagfinder.klederson.com/internal/history"
	"tagfinder.klederson.com/internal/radar"
	"tagfinder.klederson.com/internal/scan"
	"tagfinder.klederson.com/internal/tracker"
	"tagfinder.klederson.com/internal/ui"
)

// State is the scan controller state.
type State int

const (
	StateIdle State = iota
	StateScanning
	StateAdapterSwitching
)

type overlayKind int

const (
	overlayNone overlayKind = iota
	overlayDetail
	overlayHelp
	overlaySummary
	overlayAdapters
)

// ScannerFactory builds a scanner bound to an adapter, delivering events
// into handler. Injected so tests and demo mode swap the transport.
type ScannerFactory func(adapterID string, handler scan.Handler) scan.Scanner

// shared holds state shared between Bubble Tea model copies. Bubble Tea
// uses value receivers; pointer fields keep all copies on the same data.
type shared struct {
	settings   *config.Settings
	registry   *tracker.Registry
	history    *history.Store
	resolver   *scan.NameResolver
	scanner    scan.Scanner
	newScanner ScannerFactory
	sweep      *radar.Sweep
	sched      *cron.Cron
	log        zerolog.Logger
}

// Model is the root Bubble Tea model.
type Model struct {
	width  int
	height int

	state      State
	continuous bool // latched at scan start
	scanStart  time.Time
	sessionID  string

	devices []*tracker.Device
	cursor  int

	overlay       overlayKind
	detailAddr    string
	adapterList   []scan.AdapterInfo
	adapterCursor int
	resumeAdapter bool // restart scan after adapter switch

	prompt    *prompt
	statusMsg string

	alertedTarget bool
	lastTrendBeep time.Time

	shared *shared
}

// New assembles the model. The registry's ingestion handler is wired
// here: scan callbacks mutate the registry directly (under its lock)
// while the tick loop reads snapshots.
func New(settings *config.Settings, registry *tracker.Registry, hist *history.Store,
	factory ScannerFactory, log zerolog.Logger) Model {
	sh := &shared{
		settings:   settings,
		registry:   registry,
		history:    hist,
		newScanner: factory,
		sweep:      radar.NewSweep(),
		sched:      cron.New(),
		log:        log.With().Str("component", "controller").Logger(),
	}
	sh.resolver = scan.NewNameResolver(sh.ingest, log)

	// History flushes on a schedule so a crash loses at most one window.
	_, err := sh.sched.AddFunc(config.AutoSaveSpec, func() {
		if !sh.settings.AutoSave {
			return
		}
		if err := sh.history.Persist(); err != nil {
			sh.log.Warn().Err(err).Msg("auto-save failed")
		}
	})
	if err != nil {
		sh.log.Warn().Err(err).Msg("auto-save schedule rejected")
	}

	return Model{shared: sh}
}

// ingest is the scan handler: it runs on the BLE stack's goroutine and
// must touch only lock-guarded state.
func (sh *shared) ingest(adv scan.Advertisement) {
	d := sh.registry.Ingest(adv)
	if d != nil && !d.HasRealName() {
		sh.resolver.RequestResolve(d.Address)
	}
}

func (m Model) Init() tea.Cmd {
	m.shared.sched.Start()
	return tickCmd()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case TickMsg:
		return m.handleTick()

	case ScanErrorMsg:
		// Fail closed: any transport failure lands back in Idle.
		m.shared.log.Error().Err(msg.Err).Msg("scanner failure")
		m.statusMsg = "scanner error: " + msg.Err.Error()
		m.stopScanner()
		m.state = StateIdle
		return m, nil
	}

	return m, nil
}

func (m Model) handleTick() (tea.Model, tea.Cmd) {
	m.shared.sweep.Update()

	if m.state == StateScanning {
		elapsed := time.Since(m.scanStart)
		if !m.continuous && elapsed >= time.Duration(m.shared.settings.ScanDuration)*time.Second {
			m.endScan("scan complete")
		}
	}

	m.devices = m.shared.registry.Snapshot()
	if m.cursor >= len(m.devices) && m.cursor > 0 {
		m.cursor = len(m.devices) - 1
	}
	if m.overlay == overlayDetail {
		if _, ok := m.shared.registry.Lookup(m.detailAddr); !ok {
			// The detailed device vanished (session cleared); fall back
			// to the table.
			m.overlay = overlayNone
		}
	}
	if m.state == StateScanning {
		m.checkTargetAlert(m.devices)
	}

	return m, tickCmd()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Prompt mode captures every key until enter or esc.
	if m.prompt != nil {
		return m.handlePromptKey(msg)
	}

	if m.state == StateAdapterSwitching {
		return m.handleAdapterKey(msg)
	}

	if m.overlay != overlayNone {
		switch msg.String() {
		case "esc", "enter", "q":
			m.overlay = overlayNone
			return m, nil
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c":
		return m.quit()

	case "q", "Q":
		if m.state == StateScanning {
			// The only user-initiated abort path.
			m.endScan("scan cancelled")
			return m, nil
		}
		return m.quit()

	case "s", "S":
		if m.state == StateIdle {
			m.startScan()
		} else if m.state == StateScanning {
			m.endScan("scan stopped")
		}

	case "a", "A":
		m.toggle(&m.shared.settings.AirTagsOnly, "AirTags-only filter")

	case "m", "M":
		m.toggle(&m.shared.settings.ScanOnce, "single-scan mode")

	case "v", "V":
		m.toggle(&m.shared.settings.AutoSave, "auto-save")

	case "i", "I":
		m.toggle(&m.shared.settings.HighlightNew, "new-device highlight")

	case "x", "X":
		m.toggle(&m.shared.settings.ShowMfrData, "manufacturer data")

	case "r", "R":
		m.toggle(&m.shared.settings.ShowRadar, "radar panel")

	case "d", "D":
		m.prompt = newPrompt(promptDuration, "Scan duration (s):", "30", "")

	case "t", "T":
		m.prompt = newPrompt(promptTXPower, "TX power (dBm at 1m):", "-59", "")

	case "n", "N":
		m.prompt = newPrompt(promptPathLoss, "Path loss exponent:", "2.0", "")

	case "g", "G":
		m.prompt = newPrompt(promptTargetMAC, "Target MAC:", "AA:BB:CC:DD:EE:FF", m.shared.settings.TargetMAC)

	case "e", "E":
		m.prompt = newPrompt(promptTargetSerial, "Target AirTag serial:", "", m.shared.settings.TargetSerial)

	case "f", "F":
		if d := m.cursorDevice(); d != nil {
			p := newPrompt(promptFriendlyName, "Friendly name for "+d.Address+":", d.DisplayName(), "")
			p.address = d.Address
			m.prompt = p
		} else {
			m.statusMsg = "no device selected"
		}

	case "c", "C":
		m.shared.registry.Clear()
		m.devices = nil
		m.cursor = 0
		m.statusMsg = "session devices cleared"

	case "l", "L":
		m.beginAdapterSwitch()

	case "z", "Z":
		m.overlay = overlaySummary

	case "?", "h", "H":
		m.overlay = overlayHelp

	case "enter":
		if d := m.cursorDevice(); d != nil {
			m.detailAddr = d.Address
			m.overlay = overlayDetail
		}

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.devices)-1 {
			m.cursor++
		}

	case "home":
		m.cursor = 0

	case "end":
		if len(m.devices) > 0 {
			m.cursor = len(m.devices) - 1
		}
	}

	return m, nil
}

func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.prompt = nil
		m.statusMsg = "cancelled"
		return m, nil
	case "enter":
		if status, ok := m.prompt.apply(&m); ok {
			m.prompt = nil
			m.statusMsg = status
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.prompt.input, cmd = m.prompt.input.Update(msg)
	m.prompt.errMsg = ""
	return m, cmd
}

func (m Model) handleAdapterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		// No selection: resume with the prior adapter.
		m.finishAdapterSwitch(false)
	case "enter":
		if m.adapterCursor < len(m.adapterList) {
			m.shared.settings.Adapter = m.adapterList[m.adapterCursor].ID
			if err := m.shared.settings.Save(); err != nil {
				m.shared.log.Warn().Err(err).Msg("settings save failed")
			}
		}
		m.finishAdapterSwitch(true)
	case "up", "k":
		if m.adapterCursor > 0 {
			m.adapterCursor--
		}
	case "down", "j":
		if m.adapterCursor < len(m.adapterList)-1 {
			m.adapterCursor++
		}
	}
	return m, nil
}

// startScan transitions Idle -> Scanning: the session table is cleared
// (history persists), a scanner is bound to the configured adapter, and
// the mode is latched from settings.
func (m *Model) startScan() {
	m.shared.registry.Clear()
	m.devices = nil
	m.cursor = 0
	m.alertedTarget = false
	m.continuous = !m.shared.settings.ScanOnce
	m.sessionID = uuid.NewString()

	log := m.shared.log.With().Str("session", m.sessionID).Logger()
	m.shared.scanner = m.shared.newScanner(m.shared.settings.Adapter, m.shared.ingest)
	if err := m.shared.scanner.Start(); err != nil {
		log.Error().Err(err).Msg("scan start failed")
		m.statusMsg = "scan failed: " + err.Error()
		m.shared.scanner = nil
		m.state = StateIdle
		return
	}

	m.scanStart = time.Now()
	m.state = StateScanning
	log.Info().Str("adapter", m.shared.settings.Adapter).
		Bool("continuous", m.continuous).Msg("scan started")
}

// endScan transitions Scanning -> Idle and flushes history.
func (m *Model) endScan(msg string) {
	m.stopScanner()
	m.state = StateIdle
	m.statusMsg = msg
	if err := m.shared.history.Persist(); err != nil {
		m.shared.log.Warn().Err(err).Msg("history persist failed")
	}
	m.shared.log.Info().Str("session", m.sessionID).Msg("scan ended")
}

func (m *Model) stopScanner() {
	if m.shared.scanner == nil {
		return
	}
	if err := m.shared.scanner.Stop(); err != nil {
		m.shared.log.Warn().Err(err).Msg("scanner stop failed")
		m.statusMsg = "scanner stop failed: " + err.Error()
	}
	m.shared.scanner = nil
}

// beginAdapterSwitch transitions into AdapterSwitching, stopping any
// running scan first.
func (m *Model) beginAdapterSwitch() {
	m.resumeAdapter = m.state == StateScanning
	if m.resumeAdapter {
		m.stopScanner()
	}
	m.adapterList = scan.ListAdapters()
	m.adapterCursor = 0
	m.state = StateAdapterSwitching
}

// finishAdapterSwitch leaves AdapterSwitching, restarting the scan when
// one was interrupted.
func (m *Model) finishAdapterSwitch(selected bool) {
	m.state = StateIdle
	if selected {
		m.statusMsg = "adapter: " + m.shared.settings.Adapter
	}
	if m.resumeAdapter {
		m.resumeAdapter = false
		m.startScan()
	}
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.stopScanner()
	m.shared.resolver.Stop()
	m.shared.sched.Stop()
	if err := m.shared.settings.Save(); err != nil {
		m.shared.log.Warn().Err(err).Msg("settings save failed on exit")
	}
	if err := m.shared.history.Persist(); err != nil {
		m.shared.log.Warn().Err(err).Msg("history persist failed on exit")
	}
	m.shared.log.Info().Msg("exiting")
	return m, tea.Quit
}

func (m *Model) toggle(flag *bool, name string) {
	*flag = !*flag
	if *flag {
		m.statusMsg = name + ": on"
	} else {
		m.statusMsg = name + ": off"
	}
	if err := m.shared.settings.Save(); err != nil {
		m.shared.log.Warn().Err(err).Msg("settings save failed")
	}
}

func (m Model) cursorDevice() *tracker.Device {
	if m.cursor < 0 || m.cursor >= len(m.devices) {
		return nil
	}
	return m.devices[m.cursor]
}

// State exposes the controller state for tests.
func (m Model) State() State { return m.state }

func tickCmd() tea.Cmd {
	return tea.Tick(config.TickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing TagFinder..."
	}

	bodyH := m.height - 2
	if bodyH < 5 {
		bodyH = 5
	}

	menuBar := ui.RenderMenuBar(m.width, m.shared.settings.Adapter, m.state == StateScanning)

	var panels []string
	switch m.overlay {
	case overlayHelp:
		panels = []string{ui.RenderHelp(m.width, bodyH)}
	case overlaySummary:
		panels = []string{ui.RenderSummary(m.buildSummary(), m.width, bodyH)}
	case overlayDetail:
		if d, ok := m.shared.registry.Lookup(m.detailAddr); ok {
			panels = []string{ui.RenderDetailPanel(d, m.width, bodyH, m.shared.settings.ShowMfrData)}
		}
	}
	if m.state == StateAdapterSwitching {
		panels = []string{ui.RenderAdapterList(m.adapterList, m.adapterCursor,
			m.shared.settings.Adapter, m.width, bodyH)}
	}

	if panels == nil {
		tableW := m.width
		if m.shared.settings.ShowRadar && m.width > 70 {
			radarW := m.width * 2 / 5
			tableW = m.width - radarW
			radarContent := radar.Render(radarW-4, bodyH-5, m.devices, m.shared.sweep,
				m.shared.settings.TargetMAC)
			legend := radar.RenderLegend(radarW - 4)
			panels = append(panels, ui.RenderRadarPanel(radarW, bodyH, radarContent, legend))
		}
		table := ui.RenderDeviceTable(m.devices, tableW, bodyH, m.cursor, ui.TableOptions{
			HighlightNew: m.shared.settings.HighlightNew,
			TargetMAC:    m.shared.settings.TargetMAC,
		})
		panels = append([]string{table}, panels...)
	}

	var bottom string
	if m.prompt != nil {
		bottom = ui.RenderPromptBar(m.width, m.prompt.label, m.prompt.input.View(), m.prompt.errMsg)
	} else {
		bottom = ui.RenderStatusBar(m.width, ui.Status{
			Scanning:     m.state == StateScanning,
			Continuous:   m.continuous,
			Elapsed:      time.Since(m.scanStart),
			Duration:     m.shared.settings.ScanDuration,
			Devices:      len(m.devices),
			AirTags:      m.shared.registry.AirTagCount(),
			HistoryCount: m.shared.history.Count(),
			AirTagsOnly:  m.shared.settings.AirTagsOnly,
			AutoSave:     m.shared.settings.AutoSave,
			TargetMAC:    m.shared.settings.TargetMAC,
			TargetSerial: m.shared.settings.TargetSerial,
			Message:      m.statusMsg,
		})
	}

	return ui.ComposeLayout(menuBar, panels, bottom)
}
