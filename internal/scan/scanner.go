// Package scan owns the BLE transport boundary: the advertisement event
// type, the scanner implementations that deliver events, and the
// platform adapter/name-resolution collaborators.
package scan

import (
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog"
	"tinygo.org/x/bluetooth"
)

// Advertisement is one BLE broadcast observation, already parsed into
// structured fields by the transport.
type Advertisement struct {
	Address          string
	LocalName        string
	RSSI             int16
	ManufacturerData map[uint16][]byte
	ServiceUUIDs     []string
	ServiceData      map[string][]byte
	// TXPower is the advertised reference power, when the frame carried
	// one. Nil otherwise.
	TXPower *int
}

// Handler receives each discovered advertisement. It is invoked from the
// BLE stack's goroutine, concurrently with the UI loop; implementations
// must do their own locking.
type Handler func(Advertisement)

// Scanner is the start/stop surface the controller drives.
type Scanner interface {
	Start() error
	Stop() error
}

// BLEScanner scans for BLE advertisements on a specific adapter.
type BLEScanner struct {
	adapter *bluetooth.Adapter
	handler Handler
	onError func(error)
	log     zerolog.Logger
	running atomic.Bool
}

// NewBLEScanner creates a scanner bound to the given adapter id (e.g.
// "hci0"); an empty id uses the system default. onError is invoked from
// the scan goroutine when the loop dies while scanning is supposed to
// be running; it may be nil.
func NewBLEScanner(adapterID string, handler Handler, onError func(error), log zerolog.Logger) *BLEScanner {
	adapter := bluetooth.DefaultAdapter
	if adapterID != "" {
		adapter = bluetooth.NewAdapter(adapterID)
	}
	return &BLEScanner{
		adapter: adapter,
		handler: handler,
		onError: onError,
		log:     log.With().Str("component", "ble_scanner").Logger(),
	}
}

// Start enables the adapter and begins scanning in a goroutine.
// Advertisement events are delivered to the handler until Stop.
func (s *BLEScanner) Start() error {
	if err := s.adapter.Enable(); err != nil {
		return fmt.Errorf("enable BLE adapter: %w (check permissions: sudo or setcap cap_net_admin+ep)", err)
	}

	s.running.Store(true)
	go func() {
		err := s.adapter.Scan(func(adapter *bluetooth.Adapter, result bluetooth.ScanResult) {
			if !s.running.Load() {
				return
			}
			s.handler(convertResult(result))
		})
		if err != nil {
			s.log.Error().Err(err).Msg("scan loop ended")
			// Only an unexpected death is an error; StopScan ends the
			// loop too.
			if s.running.Load() && s.onError != nil {
				s.onError(err)
			}
		}
	}()

	s.log.Info().Msg("scanning started")
	return nil
}

// Stop halts scanning. Events already in flight may still be delivered.
func (s *BLEScanner) Stop() error {
	if !s.running.Swap(false) {
		return nil
	}
	if err := s.adapter.StopScan(); err != nil {
		return fmt.Errorf("stop BLE scan: %w", err)
	}
	s.log.Info().Msg("scanning stopped")
	return nil
}

func convertResult(result bluetooth.ScanResult) Advertisement {
	adv := Advertisement{
		Address:   result.Address.String(),
		LocalName: result.LocalName(),
		RSSI:      result.RSSI,
	}

	if mfrs := result.ManufacturerData(); len(mfrs) > 0 {
		adv.ManufacturerData = make(map[uint16][]byte, len(mfrs))
		for _, e := range mfrs {
			adv.ManufacturerData[e.CompanyID] = e.Data
		}
	}

	// The payload interface exposes service UUIDs only through service
	// data elements, so the UUID list is derived from those.
	if sds := result.ServiceData(); len(sds) > 0 {
		adv.ServiceData = make(map[string][]byte, len(sds))
		for _, e := range sds {
			uuid := e.UUID.String()
			adv.ServiceData[uuid] = e.Data
			adv.ServiceUUIDs = append(adv.ServiceUUIDs, uuid)
		}
	}

	return adv
}
