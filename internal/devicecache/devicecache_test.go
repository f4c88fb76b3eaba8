package devicecache_test

import (
	"context"
	"testing"
	"time"

	"github.com/evdc-project/enocean-vdc/internal/config"
	"github.com/evdc-project/enocean-vdc/internal/devicecache"
	"github.com/evdc-project/enocean-vdc/internal/devices"
)

func TestNewReturnsMemoryStoreWhenRedisDisabled(t *testing.T) {
	t.Parallel()
	store, err := devicecache.New(&config.Config{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer store.Close()

	key := devices.Key{Address: 0x01020304, SubDevice: 0}
	if _, ok, err := store.Get(context.Background(), key); err != nil || ok {
		t.Fatalf("expected no entry yet, got ok=%v err=%v", ok, err)
	}

	if err := store.Put(context.Background(), key, devicecache.RuntimeState{LastRSSIDBm: -42}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	state, ok, err := store.Get(context.Background(), key)
	if err != nil || !ok {
		t.Fatalf("expected entry present, got ok=%v err=%v", ok, err)
	}
	if state.LastRSSIDBm != -42 {
		t.Errorf("LastRSSIDBm = %d, want -42", state.LastRSSIDBm)
	}

	if err := store.Delete(context.Background(), key); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok, _ := store.Get(context.Background(), key); ok {
		t.Fatalf("expected entry gone after Delete")
	}
}

func TestTouchCreatesAndUpdatesEntry(t *testing.T) {
	t.Parallel()
	store, err := devicecache.New(&config.Config{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer store.Close()

	key := devices.Key{Address: 0x0A0B0C0D, SubDevice: 1}
	now := time.Now()
	if err := devicecache.Touch(context.Background(), store, key, -55, now); err != nil {
		t.Fatalf("Touch() error = %v", err)
	}
	if err := devicecache.Touch(context.Background(), store, key, -50, now); err != nil {
		t.Fatalf("Touch() error = %v", err)
	}
	state, ok, err := store.Get(context.Background(), key)
	if err != nil || !ok {
		t.Fatalf("expected entry present, got ok=%v err=%v", ok, err)
	}
	if state.LastRSSIDBm != -50 {
		t.Errorf("LastRSSIDBm = %d, want -50", state.LastRSSIDBm)
	}
	if state.PacketCount != 2 {
		t.Errorf("PacketCount = %d, want 2", state.PacketCount)
	}
}
