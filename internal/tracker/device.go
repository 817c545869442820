package tracker

import (
	"time"

	"tagfinder.klederson.com/internal/classify"
	"tagfinder.klederson.com/internal/signal"
)

// Device is the session entity for one advertiser, keyed by address.
// The address may be a platform-anonymized identifier rather than a
// stable hardware MAC.
type Device struct {
	Address string
	// Name is the advertised local name, "N/A" when never seen.
	Name           string
	MeaningfulName string
	// FriendlyName is operator-assigned and survives across sessions.
	FriendlyName string
	DeviceType   string
	Company      string

	// RSSI is the smoothed value (mean of the history window), not the
	// last raw sample.
	RSSI    float64
	History *RSSIRing
	Trend   signal.Trend
	// Distance in meters; signal.UndeterminedDistance when the raw RSSI
	// was exactly 0.
	Distance float64

	// IsAirTag is sticky: once a Find My signature was observed it stays
	// set even if later frames omit it.
	IsAirTag bool

	// AdvertisedTXPower is the first-observed advertised reference
	// power; later frames do not replace it.
	AdvertisedTXPower *int

	ManufacturerData map[uint16][]byte
	ServiceUUIDs     []string
	ServiceData      map[string][]byte

	FirstSeen time.Time
	LastSeen  time.Time

	// NewDevice is set only when the address was absent from the durable
	// history at first ingestion this session.
	NewDevice bool
}

// DisplayName is the name shown in the device table: the operator's
// friendly name when set, otherwise the derived meaningful name.
func (d *Device) DisplayName() string {
	if d.FriendlyName != "" {
		return d.FriendlyName
	}
	return d.MeaningfulName
}

// HasRealName reports whether an actual advertised name was ever seen.
func (d *Device) HasRealName() bool {
	return classify.IsRealName(d.Name)
}

// SeenDuration is how long this device has been observed this session.
func (d *Device) SeenDuration() time.Duration {
	return d.LastSeen.Sub(d.FirstSeen)
}

// Stability is the standard deviation of the RSSI window.
func (d *Device) Stability() float64 {
	return signal.Stability(d.History.Values())
}

// LastRSSI is the most recent raw sample.
func (d *Device) LastRSSI() int {
	return d.History.Last()
}

// clone returns a render-safe copy with an independent sample ring.
func (d *Device) clone() *Device {
	cp := *d
	cp.History = d.History.Clone()
	return &cp
}
