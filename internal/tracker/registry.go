// Package tracker owns the live device table for the current scan: the
// per-advertisement ingestion pipeline and the sorted render snapshot.
package tracker

import (
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"tagfinder.klederson.com/internal/classify"
	"tagfinder.klederson.com/internal/config"
	"tagfinder.klederson.com/internal/history"
	"tagfinder.klederson.com/internal/scan"
	"tagfinder.klederson.com/internal/signal"
)

// Registry is the session device table. Ingest runs on the BLE stack's
// goroutine while Snapshot runs on the render tick, so all access goes
// through the RWMutex: single writer, many readers, and the table is
// never iterated mid-ingestion.
type Registry struct {
	mu       sync.RWMutex
	devices  map[string]*Device
	settings *config.Settings
	history  *history.Store
	log      zerolog.Logger
}

// NewRegistry creates an empty registry. Settings are read on the
// ingestion path but mutated only by the control loop, so they need no
// lock here.
func NewRegistry(settings *config.Settings, hist *history.Store, log zerolog.Logger) *Registry {
	return &Registry{
		devices:  make(map[string]*Device),
		settings: settings,
		history:  hist,
		log:      log.With().Str("component", "registry").Logger(),
	}
}

// Ingest applies one advertisement to the session table and merges the
// result into the durable history. Returns nil when the event was
// dropped (missing address, or filtered).
func (r *Registry) Ingest(ev scan.Advertisement) *Device {
	if ev.Address == "" {
		r.log.Debug().Msg("dropping advertisement without address")
		return nil
	}

	// The AirTags-only filter drops signature-less events before any
	// mutation, so a device tracked before the filter was enabled stops
	// updating while it is on.
	if r.settings.AirTagsOnly && !classify.HasFindMySignature(ev.ManufacturerData) {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.devices[ev.Address]
	if !ok {
		d = r.create(ev)
	} else {
		r.update(d, ev)
	}
	r.history.Merge(d.Address, sightingOf(d))
	return d
}

func (r *Registry) create(ev scan.Advertisement) *Device {
	now := time.Now()
	res := classify.Classify(ev.LocalName, ev.ManufacturerData, ev.Address, ev.ServiceUUIDs)

	name := ev.LocalName
	if name == "" {
		name = "N/A"
	}

	// A real advertised name takes priority over any previously stored
	// friendly name.
	friendly := r.history.FriendlyName(ev.Address)
	if classify.IsRealName(ev.LocalName) {
		friendly = ev.LocalName
	}

	d := &Device{
		Address:           ev.Address,
		Name:              name,
		MeaningfulName:    res.MeaningfulName,
		FriendlyName:      friendly,
		DeviceType:        res.DeviceType,
		Company:           res.Company,
		RSSI:              float64(ev.RSSI),
		History:           NewRSSIRing(signal.HistorySize),
		Trend:             signal.TrendStable,
		IsAirTag:          classify.HasFindMySignature(ev.ManufacturerData),
		AdvertisedTXPower: ev.TXPower,
		ManufacturerData:  ev.ManufacturerData,
		ServiceUUIDs:      ev.ServiceUUIDs,
		ServiceData:       ev.ServiceData,
		FirstSeen:         now,
		LastSeen:          now,
		NewDevice:         !r.history.Known(ev.Address),
	}
	d.History.Push(int(ev.RSSI))
	d.Distance = signal.EstimateDistance(float64(ev.RSSI), r.settings.TXPower,
		r.settings.PathLossN, d.DeviceType, d.AdvertisedTXPower)

	r.devices[ev.Address] = d
	r.log.Debug().Str("address", d.Address).Str("name", d.MeaningfulName).
		Bool("new", d.NewDevice).Msg("device discovered")
	return d
}

func (r *Registry) update(d *Device, ev scan.Advertisement) {
	// A zero RSSI carries no usable signal; the entry stays as-is.
	if ev.RSSI == 0 {
		return
	}

	d.History.Push(int(ev.RSSI))
	oldAvg := d.RSSI
	d.RSSI = signal.Smooth(d.History.Values())
	d.Trend = signal.NextTrend(d.Trend, oldAvg, d.RSSI)
	// Distance uses the smoothed RSSI and the first-observed advertised
	// TX power, not the current frame's.
	d.Distance = signal.EstimateDistance(d.RSSI, r.settings.TXPower,
		r.settings.PathLossN, d.DeviceType, d.AdvertisedTXPower)
	d.LastSeen = time.Now()

	if classify.IsRealName(ev.LocalName) && !d.HasRealName() {
		// A real name newly appeared: backfill the derived names and
		// re-run classification with it.
		d.Name = ev.LocalName
		res := classify.Classify(ev.LocalName, ev.ManufacturerData, ev.Address, ev.ServiceUUIDs)
		d.MeaningfulName = res.MeaningfulName
		if d.DeviceType == "" {
			d.DeviceType = res.DeviceType
		}
		if d.Company == "" {
			d.Company = res.Company
		}
		if d.FriendlyName == "" || d.FriendlyName == r.history.FriendlyName(d.Address) {
			d.FriendlyName = ev.LocalName
		}
	}

	if classify.HasFindMySignature(ev.ManufacturerData) {
		d.IsAirTag = true
	}
	if len(ev.ManufacturerData) > 0 {
		d.ManufacturerData = ev.ManufacturerData
	}
	if len(ev.ServiceUUIDs) > 0 {
		d.ServiceUUIDs = ev.ServiceUUIDs
	}
	if len(ev.ServiceData) > 0 {
		d.ServiceData = ev.ServiceData
	}
}

// Snapshot returns copies of all devices, sorted by smoothed RSSI
// descending (stronger/closer first), stable for equal values.
func (r *Registry) Snapshot() []*Device {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Device, 0, len(r.devices))
	for _, d := range r.devices {
		out = append(out, d.clone())
	}
	// Secondary address order keeps ties deterministic across snapshots.
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].RSSI != out[j].RSSI {
			return out[i].RSSI > out[j].RSSI
		}
		return out[i].Address < out[j].Address
	})
	return out
}

// Lookup returns a copy of one device by address.
func (r *Registry) Lookup(address string) (*Device, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.devices[address]
	if !ok {
		return nil, false
	}
	return d.clone(), true
}

// SetFriendlyName renames a tracked device and records the name durably.
func (r *Registry) SetFriendlyName(address, name string) {
	r.mu.Lock()
	if d, ok := r.devices[address]; ok {
		d.FriendlyName = name
	}
	r.mu.Unlock()
	r.history.SetFriendlyName(address, name)
}

// Clear empties the session table; durable history is untouched.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.devices = make(map[string]*Device)
}

// Count returns the number of tracked devices.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.devices)
}

// AirTagCount returns how many tracked devices carry the Find My flag.
func (r *Registry) AirTagCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, d := range r.devices {
		if d.IsAirTag {
			n++
		}
	}
	return n
}

func sightingOf(d *Device) history.Snapshot {
	return history.Snapshot{
		Name:           d.Name,
		FriendlyName:   d.FriendlyName,
		MeaningfulName: d.MeaningfulName,
		DeviceType:     d.DeviceType,
		Company:        d.Company,
		IsAirTag:       d.IsAirTag,
		LastSeen:       d.LastSeen,
		LastRSSI:       d.LastRSSI(),
		FirstSeen:      d.FirstSeen,
	}
}
