package scan

import (
	"context"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// NameResolver resolves names for unnamed devices in the background via
// hcitool name, which sends a name request to the device. Resolved names
// re-enter the pipeline as synthetic advertisements.
type NameResolver struct {
	handler Handler
	log     zerolog.Logger

	mu       sync.Mutex
	tried    map[string]int // address -> attempt count
	resolved map[string]bool
	stop     chan struct{}
	stopOnce sync.Once
}

const (
	maxResolveAttempts = 2
	resolveTimeout     = 4 * time.Second
	resolvePause       = 3 * time.Second
	// Placeholder RSSI for synthetic name events; it joins the smoothing
	// window like any other sample.
	resolvedRSSI = -100
)

// NewNameResolver creates a resolver delivering into handler.
func NewNameResolver(handler Handler, log zerolog.Logger) *NameResolver {
	return &NameResolver{
		handler:  handler,
		log:      log.With().Str("component", "name_resolver").Logger(),
		tried:    make(map[string]int),
		resolved: make(map[string]bool),
		stop:     make(chan struct{}),
	}
}

// RequestResolve queues an address for background name resolution.
// Safe to call from any goroutine; attempts are capped per address.
func (r *NameResolver) RequestResolve(address string) {
	if !ValidMAC(address) {
		return
	}
	r.mu.Lock()
	if r.resolved[address] || r.tried[address] >= maxResolveAttempts {
		r.mu.Unlock()
		return
	}
	r.tried[address]++
	r.mu.Unlock()

	go r.resolve(address)
}

func (r *NameResolver) resolve(address string) {
	// Rate limit so name requests don't flood the adapter.
	select {
	case <-r.stop:
		return
	case <-time.After(resolvePause):
	}

	name := tryHcitoolName(address)
	if name == "" {
		return
	}

	r.mu.Lock()
	r.resolved[address] = true
	r.mu.Unlock()

	r.log.Debug().Str("address", address).Str("name", name).Msg("resolved device name")
	r.handler(Advertisement{
		Address:   address,
		LocalName: name,
		RSSI:      resolvedRSSI,
	})
}

func tryHcitoolName(address string) string {
	ctx, cancel := context.WithTimeout(context.Background(), resolveTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, "hcitool", "name", address).Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

// Stop terminates pending resolutions.
func (r *NameResolver) Stop() {
	r.stopOnce.Do(func() { close(r.stop) })
}
