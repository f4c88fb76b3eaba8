// Package devicecache holds ephemeral per-device runtime state: the data
// the engine needs while running (last RSSI, last packet time, pending
// command state) but that is deliberately never persisted to
// internal/db - restarting the core simply means every device starts back
// at "unknown" runtime state until its next telegram, exactly mirroring the
// teacher's split between a GORM-persisted model and its `gorm:"-"`
// in-memory-only fields.
package devicecache

import (
	"context"
	"fmt"
	"time"

	"github.com/evdc-project/enocean-vdc/internal/config"
	"github.com/evdc-project/enocean-vdc/internal/devices"
	"github.com/puzpuzpuz/xsync/v4"
)

// RuntimeState is the ephemeral, per-device runtime snapshot cached outside
// the device registry itself: things worth sharing across the HTTP status
// surface or a clustered deployment (hence the msgpack wire form) but never
// worth writing to the knownDevices table.
//
//go:generate msgp
type RuntimeState struct {
	LastRSSIDBm     int   `msg:"last_rssi_dbm"`
	LastSeenUnixSec int64 `msg:"last_seen_unix_sec"`
	HardwareError   bool  `msg:"hardware_error"`
	PacketCount     int64 `msg:"packet_count"`
}

// Store holds one RuntimeState per device, backed by either an in-process
// xsync.Map or Redis depending on config.Redis.Enabled, matching the
// teacher's internal/kv dispatch between its in-memory and Redis KV
// backends.
type Store interface {
	Get(ctx context.Context, key devices.Key) (RuntimeState, bool, error)
	Put(ctx context.Context, key devices.Key, state RuntimeState) error
	Delete(ctx context.Context, key devices.Key) error
	Close() error
}

// New builds a Store appropriate for cfg: Redis-backed if cfg.Redis.Enabled,
// otherwise an in-process map.
func New(cfg *config.Config) (Store, error) {
	if cfg != nil && cfg.Redis.Enabled {
		return newRedisStore(cfg)
	}
	return newMemoryStore(), nil
}

func cacheKey(k devices.Key) string {
	return fmt.Sprintf("devicecache:%08X:%d", uint32(k.Address), k.SubDevice)
}

type memoryStore struct {
	m *xsync.Map[devices.Key, RuntimeState]
}

func newMemoryStore() *memoryStore {
	return &memoryStore{m: xsync.NewMap[devices.Key, RuntimeState]()}
}

func (s *memoryStore) Get(_ context.Context, key devices.Key) (RuntimeState, bool, error) {
	v, ok := s.m.Load(key)
	return v, ok, nil
}

func (s *memoryStore) Put(_ context.Context, key devices.Key, state RuntimeState) error {
	s.m.Store(key, state)
	return nil
}

func (s *memoryStore) Delete(_ context.Context, key devices.Key) error {
	s.m.Delete(key)
	return nil
}

func (s *memoryStore) Close() error { return nil }

// Touch is a small convenience wrapper used by the engine's dispatch path:
// it updates LastRSSIDBm/LastSeenUnixSec/PacketCount for a device in one
// read-modify-write, creating the entry if absent.
func Touch(ctx context.Context, store Store, key devices.Key, rssiDBm int, now time.Time) error {
	state, _, err := store.Get(ctx, key)
	if err != nil {
		return err
	}
	state.LastRSSIDBm = rssiDBm
	state.LastSeenUnixSec = now.Unix()
	state.PacketCount++
	return store.Put(ctx, key, state)
}
