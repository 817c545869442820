// Package history keeps the durable cross-session record of every
// address ever sighted, plus the operator-assigned friendly names.
// Entries are created or updated on every sighting and never deleted;
// the file grows unbounded across long-lived use.
package history

import (
	"fmt"
	"os"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"tagfinder.klederson.com/internal/config"
)

// Snapshot is the persisted record for one address.
type Snapshot struct {
	Name           string    `json:"name"`
	FriendlyName   string    `json:"friendly_name,omitempty"`
	MeaningfulName string    `json:"meaningful_name,omitempty"`
	DeviceType     string    `json:"device_type,omitempty"`
	Company        string    `json:"company,omitempty"`
	IsAirTag       bool      `json:"is_airtag"`
	LastSeen       time.Time `json:"last_seen"`
	LastRSSI       int       `json:"last_rssi"`
	FirstSeen      time.Time `json:"first_seen"`
}

// historyFile is the on-disk envelope of devices_history.json.
type historyFile struct {
	Devices     map[string]*Snapshot `json:"devices"`
	FirstSeen   map[string]time.Time `json:"first_seen"`
	LastUpdated time.Time            `json:"last_updated"`
}

// Store owns devices_history.json and friendly_names.json. Merge runs on
// the scan callback goroutine while Persist runs from tick, scheduler,
// and shutdown paths, so every access takes the mutex.
type Store struct {
	mu        sync.Mutex
	path      string
	namesPath string
	devices   map[string]*Snapshot
	firstSeen map[string]time.Time
	names     map[string]string
	dirty     bool
	log       zerolog.Logger
}

// NewStore creates an empty store bound to the standard file names
// under dir.
func NewStore(dir string, log zerolog.Logger) *Store {
	return &Store{
		path:      dir + string(os.PathSeparator) + config.HistoryFile,
		namesPath: dir + string(os.PathSeparator) + config.FriendlyNamesFile,
		devices:   make(map[string]*Snapshot),
		firstSeen: make(map[string]time.Time),
		names:     make(map[string]string),
		log:       log.With().Str("component", "history").Logger(),
	}
}

// Load reads both files. Missing or corrupt files reset to empty with a
// warning; loading never fails the session.
func (s *Store) Load() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if data, err := os.ReadFile(s.path); err == nil {
		var f historyFile
		if err := json.Unmarshal(data, &f); err != nil {
			s.log.Warn().Err(err).Str("file", s.path).Msg("history corrupt, starting empty")
		} else {
			if f.Devices != nil {
				s.devices = f.Devices
			}
			if f.FirstSeen != nil {
				s.firstSeen = f.FirstSeen
			}
		}
	} else if !os.IsNotExist(err) {
		s.log.Warn().Err(err).Str("file", s.path).Msg("history unreadable, starting empty")
	}

	if data, err := os.ReadFile(s.namesPath); err == nil {
		var names map[string]string
		if err := json.Unmarshal(data, &names); err != nil {
			s.log.Warn().Err(err).Str("file", s.namesPath).Msg("friendly names corrupt, starting empty")
		} else if names != nil {
			s.names = names
		}
	} else if !os.IsNotExist(err) {
		s.log.Warn().Err(err).Str("file", s.namesPath).Msg("friendly names unreadable, starting empty")
	}
}

// Merge records a sighting. Returns true when the address had never been
// seen before (in any session). Existing entries are updated in place;
// their FirstSeen is preserved.
func (s *Store) Merge(address string, sighting Snapshot) (isNew bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.devices[address]
	if !ok {
		if sighting.FirstSeen.IsZero() {
			sighting.FirstSeen = time.Now()
		}
		snap := sighting
		s.devices[address] = &snap
		s.firstSeen[address] = snap.FirstSeen
		s.dirty = true
		return true
	}

	sighting.FirstSeen = existing.FirstSeen
	if sighting.FriendlyName == "" {
		sighting.FriendlyName = existing.FriendlyName
	}
	// A sticky flag historically: once an address looked like an AirTag,
	// keep that.
	sighting.IsAirTag = sighting.IsAirTag || existing.IsAirTag
	*existing = sighting
	s.dirty = true
	return false
}

// Known reports whether the address exists in the durable record.
func (s *Store) Known(address string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.devices[address]
	return ok
}

// Lookup returns a copy of the stored snapshot for an address.
func (s *Store) Lookup(address string) (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.devices[address]
	if !ok {
		return Snapshot{}, false
	}
	return *snap, true
}

// FriendlyName returns the operator-assigned name for an address, or "".
func (s *Store) FriendlyName(address string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.names[address]
}

// SetFriendlyName records an operator-assigned name.
func (s *Store) SetFriendlyName(address, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.names[address] = name
	if snap, ok := s.devices[address]; ok {
		snap.FriendlyName = name
	}
	s.dirty = true
}

// Count returns the number of historically known addresses.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.devices)
}

// Snapshots returns a copy of all stored records, for the summary view.
func (s *Store) Snapshots() map[string]Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]Snapshot, len(s.devices))
	for addr, snap := range s.devices {
		out[addr] = *snap
	}
	return out
}

// Persist writes both files atomically. A failure is returned for
// logging but must never abort the session; writes are skipped entirely
// when nothing changed since the last flush.
func (s *Store) Persist() error {
	s.mu.Lock()
	if !s.dirty {
		s.mu.Unlock()
		return nil
	}
	f := historyFile{
		Devices:     s.devices,
		FirstSeen:   s.firstSeen,
		LastUpdated: time.Now(),
	}
	histData, err := json.MarshalIndent(&f, "", "  ")
	if err == nil {
		var namesData []byte
		namesData, err = json.MarshalIndent(s.names, "", "  ")
		if err == nil {
			s.dirty = false
			histPath, namesPath := s.path, s.namesPath
			s.mu.Unlock()
			if werr := config.WriteAtomic(histPath, histData); werr != nil {
				return fmt.Errorf("persist history: %w", werr)
			}
			if werr := config.WriteAtomic(namesPath, namesData); werr != nil {
				return fmt.Errorf("persist friendly names: %w", werr)
			}
			return nil
		}
	}
	s.mu.Unlock()
	return fmt.Errorf("encode history: %w", err)
}
