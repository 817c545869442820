package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

const (
	// RSSI to distance estimation
	DefaultTXPower   = -59 // reference RSSI at 1 meter (dBm)
	DefaultPathLossN = 2.0 // free-space-ish path loss exponent

	// Scan control
	DefaultScanDuration = 30                     // seconds, single-scan mode
	TickInterval        = 100 * time.Millisecond // controller poll/render cadence
	AutoSaveSpec        = "@every 30s"           // history flush schedule

	// Persisted files, relative to the working directory
	SettingsFile      = "settings.json"
	HistoryFile       = "devices_history.json"
	FriendlyNamesFile = "friendly_names.json"
	DefaultLogFile    = "tagfinder.log"

	// App
	AppName    = "TAGFINDER"
	AppVersion = "1.0"
)

// Settings is the persisted process-wide configuration. It is loaded once
// at startup and mutated only by the interactive control loop; the
// ingestion path reads it without locking.
type Settings struct {
	ScanDuration int     `json:"scan_duration"`
	AirTagsOnly  bool    `json:"airtags_only"`
	TXPower      int     `json:"tx_power"`
	PathLossN    float64 `json:"path_loss_n"`
	ScanOnce     bool    `json:"scan_once"`
	HighlightNew bool    `json:"highlight_new"`
	ShowMfrData  bool    `json:"show_mfr_data"`
	ShowRadar    bool    `json:"show_radar"`
	AutoSave     bool    `json:"auto_save"`
	Adapter      string  `json:"adapter"`
	TargetMAC    string  `json:"target_mac"`
	// TargetSerial is stored and displayed but not used for matching.
	TargetSerial string `json:"target_serial"`

	path string
}

// Defaults returns a Settings record with default values, bound to path.
func Defaults(path string) *Settings {
	return &Settings{
		ScanDuration: DefaultScanDuration,
		TXPower:      DefaultTXPower,
		PathLossN:    DefaultPathLossN,
		HighlightNew: true,
		ShowRadar:    true,
		AutoSave:     true,
		path:         path,
	}
}

// Load reads settings from path. Any read or decode failure falls back to
// defaults with a logged warning; a missing file is not an error.
func Load(path string, log zerolog.Logger) *Settings {
	s := Defaults(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("file", path).Msg("settings unreadable, using defaults")
		}
		return s
	}
	if err := json.Unmarshal(data, s); err != nil {
		log.Warn().Err(err).Str("file", path).Msg("settings corrupt, using defaults")
		return Defaults(path)
	}
	if s.ScanDuration <= 0 {
		s.ScanDuration = DefaultScanDuration
	}
	if s.PathLossN <= 0 {
		s.PathLossN = DefaultPathLossN
	}
	if s.TXPower >= 0 {
		s.TXPower = DefaultTXPower
	}
	return s
}

// Save persists the settings. The file is written next to its final
// location and renamed into place so a crash mid-write leaves the
// previous state intact.
func (s *Settings) Save() error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	return WriteAtomic(s.path, data)
}

// WriteAtomic writes data to path via a temp file in the same directory
// followed by a rename.
func WriteAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
