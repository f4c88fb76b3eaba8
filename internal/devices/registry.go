package devices

import (
	"sync"

	"github.com/evdc-project/enocean-vdc/internal/esp3"
)

// Registry holds every device this core has learned, keyed by address and
// subdevice index, and is the single source of truth the dispatcher and the
// outgoing aggregator both read from. A plain mutex-guarded map is enough
// here: registry mutation only ever happens on the engine's single main
// loop goroutine (teach-in, expiry), while reads can come from the HTTP
// status surface on another goroutine, so only the read/write race needs
// guarding, not any higher-level coordination.
type Registry struct {
	mu      sync.RWMutex
	byKey   map[Key]*Device
	byAddrs map[esp3.Address][]*Device
}

// NewRegistry returns an empty device registry.
func NewRegistry() *Registry {
	return &Registry{
		byKey:   make(map[Key]*Device),
		byAddrs: make(map[esp3.Address][]*Device),
	}
}

// Put registers or replaces a device.
func (r *Registry) Put(d *Device) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := d.KeyOf()
	if _, exists := r.byKey[key]; !exists {
		r.byAddrs[d.Address] = append(r.byAddrs[d.Address], d)
	} else {
		for i, existing := range r.byAddrs[d.Address] {
			if existing.SubDevice == d.SubDevice {
				r.byAddrs[d.Address][i] = d
				break
			}
		}
	}
	r.byKey[key] = d
}

// Get looks up a device by its exact key.
func (r *Registry) Get(key Key) (*Device, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byKey[key]
	return d, ok
}

// ByAddress returns every logical device (subdevices) sharing a physical
// transmitter address, in the order they were first registered.
func (r *Registry) ByAddress(addr esp3.Address) []*Device {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Device, len(r.byAddrs[addr]))
	copy(out, r.byAddrs[addr])
	return out
}

// Remove deletes a device from the registry.
func (r *Registry) Remove(key Key) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.byKey[key]
	if !ok {
		return
	}
	delete(r.byKey, key)
	subs := r.byAddrs[d.Address]
	for i, existing := range subs {
		if existing.SubDevice == d.SubDevice {
			r.byAddrs[d.Address] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	if len(r.byAddrs[d.Address]) == 0 {
		delete(r.byAddrs, d.Address)
	}
}

// All returns every registered device, in no particular order.
func (r *Registry) All() []*Device {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Device, 0, len(r.byKey))
	for _, d := range r.byKey {
		out = append(out, d)
	}
	return out
}

// Len returns the number of registered devices.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byKey)
}
