package scan

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"
)

// mockTemplate describes one fake device for demo mode.
type mockTemplate struct {
	name         string
	mfr          map[uint16][]byte
	serviceUUIDs []string
	serviceData  map[string][]byte
	txPower      *int
}

func intPtr(v int) *int { return &v }

// findMyFrame builds an Apple Find My payload with the given status byte.
func findMyFrame(status byte) []byte {
	return []byte{0x12, 0x19, status, 0x8E, 0x21, 0x44, 0x1C, 0x57}
}

var mockTemplates = []mockTemplate{
	{name: "", mfr: map[uint16][]byte{0x004C: findMyFrame(0x05)}, txPower: intPtr(-62)}, // AirTag, never named
	{name: "", mfr: map[uint16][]byte{0x004C: findMyFrame(0x05)}},
	{name: "AirPods Pro", mfr: map[uint16][]byte{0x004C: findMyFrame(0x07)}},
	{name: "Apple Watch", mfr: map[uint16][]byte{0x004C: findMyFrame(0x09)}},
	{name: "iPhone 15 Pro", mfr: map[uint16][]byte{0x004C: {0x10, 0x05, 0x0B, 0x10}}},
	{name: "Galaxy S24 Ultra", mfr: map[uint16][]byte{0x0075: {0x42, 0x04, 0x01}}},
	{name: "Tile Tracker", mfr: map[uint16][]byte{0x02FF: {0x02, 0x00}}},
	{name: "Pixel Buds", mfr: map[uint16][]byte{0x00E0: {0x01}}},
	{
		name:         "Polar H10",
		serviceUUIDs: []string{"0000180d-0000-1000-8000-00805f9b34fb"},
		serviceData:  map[string][]byte{"0000180d-0000-1000-8000-00805f9b34fb": {0x06, 0x48}},
	},
	{
		name:         "",
		serviceUUIDs: []string{"0000180f-0000-1000-8000-00805f9b34fb"},
		serviceData:  map[string][]byte{"0000180f-0000-1000-8000-00805f9b34fb": {0x5F}},
	},
	{name: "JBL Flip 6", mfr: map[uint16][]byte{0x0131: {0x01, 0x03}}},
	{name: "Ruuvi C2B4", mfr: map[uint16][]byte{0x0499: {0x05, 0x12, 0xFC}}},
	{name: "MacBook Air", mfr: map[uint16][]byte{0x004C: {0x10, 0x07, 0x3B}}},
	{name: "Fitbit Charge 6", mfr: map[uint16][]byte{0x03DA: {0x0A}}},
}

type mockDevice struct {
	tmpl      mockTemplate
	address   string
	baseRSSI  float64
	phase     float64
	amplitude float64
	active    bool
}

// MockScanner generates fake advertisements for demo mode, no hardware
// required. One AirTag template always approaches so the locate workflow
// can be exercised.
type MockScanner struct {
	handler Handler
	devices []mockDevice
	cancel  context.CancelFunc
}

// NewMockScanner creates a mock scanner with a randomized device set.
func NewMockScanner(handler Handler) *MockScanner {
	perm := rand.Perm(len(mockTemplates))
	count := 9 + rand.Intn(4)
	if count > len(perm) {
		count = len(perm)
	}

	devices := make([]mockDevice, 0, count)
	for _, ti := range perm[:count] {
		devices = append(devices, mockDevice{
			tmpl:      mockTemplates[ti],
			address:   randomMAC(),
			baseRSSI:  -40 - rand.Float64()*50, // -40 to -90 dBm
			phase:     rand.Float64() * 2 * math.Pi,
			amplitude: 3 + rand.Float64()*8,
			active:    true,
		})
	}
	// Always include one nearby AirTag drifting closer.
	devices = append(devices, mockDevice{
		tmpl:      mockTemplates[0],
		address:   randomMAC(),
		baseRSSI:  -72,
		amplitude: 2,
		active:    true,
	})

	return &MockScanner{handler: handler, devices: devices}
}

// Start begins emitting fake advertisements.
func (s *MockScanner) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go s.loop(ctx)
	return nil
}

func (s *MockScanner) loop(ctx context.Context) {
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	t := 0.0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t += 0.2
			s.emit(t)
		}
	}
}

func (s *MockScanner) emit(t float64) {
	for i := range s.devices {
		d := &s.devices[i]

		if rand.Float64() < 0.005 {
			d.active = !d.active
		}
		if !d.active {
			continue
		}

		// Sinusoidal fluctuation plus noise; the last device (the demo
		// AirTag) also drifts steadily stronger.
		rssi := d.baseRSSI + d.amplitude*math.Sin(t*0.5+d.phase) + (rand.Float64()-0.5)*4
		if i == len(s.devices)-1 {
			d.baseRSSI += 0.03
			if d.baseRSSI > -45 {
				d.baseRSSI = -45
			}
		}

		name := d.tmpl.name
		if name != "" && rand.Float64() < 0.05 {
			name = "" // frames occasionally omit the local name
		}

		s.handler(Advertisement{
			Address:          d.address,
			LocalName:        name,
			RSSI:             int16(rssi),
			ManufacturerData: d.tmpl.mfr,
			ServiceUUIDs:     d.tmpl.serviceUUIDs,
			ServiceData:      d.tmpl.serviceData,
			TXPower:          d.tmpl.txPower,
		})
	}
}

// Stop halts the mock scanner.
func (s *MockScanner) Stop() error {
	if s.cancel != nil {
		s.cancel()
	}
	return nil
}

func randomMAC() string {
	b := make([]byte, 6)
	for i := range b {
		b[i] = byte(rand.Intn(256))
	}
	return fmt.Sprintf("%02X:%02X:%02X:%02X:%02X:%02X", b[0], b[1], b[2], b[3], b[4], b[5])
}
