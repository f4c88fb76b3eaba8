package events_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/evdc-project/enocean-vdc/internal/config"
	"github.com/evdc-project/enocean-vdc/internal/devices"
	"github.com/evdc-project/enocean-vdc/internal/dsuid"
	"github.com/evdc-project/enocean-vdc/internal/esp3"
	"github.com/evdc-project/enocean-vdc/internal/events"
	"github.com/evdc-project/enocean-vdc/internal/pubsub"
)

func newTestBus(t *testing.T) *events.Bus {
	t.Helper()
	ps, err := pubsub.MakePubSub(context.Background(), &config.Config{})
	if err != nil {
		t.Fatalf("MakePubSub() error = %v", err)
	}
	t.Cleanup(func() { _ = ps.Close() })
	return events.NewBus(ps)
}

func TestPublishLearnedRoundTrips(t *testing.T) {
	t.Parallel()
	bus := newTestBus(t)
	sub := bus.Subscribe()
	defer sub.Close()

	d := &devices.Device{
		Address: esp3.Address(0x01020304),
		DSUID:   dsuid.ForEnoceanDevice(0x01020304, 0),
		Profile: esp3.NewProfile(0, byte(esp3.RORGRPS), 0x02, 0x01),
	}
	at := time.Unix(1700000000, 0).UTC()
	if err := bus.PublishLearned(d, at); err != nil {
		t.Fatalf("PublishLearned() error = %v", err)
	}

	select {
	case raw := <-sub.Channel():
		ev, err := events.Decode(raw)
		if err != nil {
			t.Fatalf("Decode() error = %v", err)
		}
		if ev.Kind != events.KindDeviceLearned {
			t.Errorf("Kind = %q, want %q", ev.Kind, events.KindDeviceLearned)
		}
		if ev.Address != uint32(d.Address) {
			t.Errorf("Address = %#x, want %#x", ev.Address, uint32(d.Address))
		}
		if !ev.At.Equal(at) {
			t.Errorf("At = %v, want %v", ev.At, at)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestPublishLearnedOutRoundTrips(t *testing.T) {
	t.Parallel()
	bus := newTestBus(t)
	sub := bus.Subscribe()
	defer sub.Close()

	key := devices.Key{Address: esp3.Address(0x0A0B0C0D), SubDevice: 2}
	if err := bus.PublishLearnedOut(key, time.Unix(1700000100, 0)); err != nil {
		t.Fatalf("PublishLearnedOut() error = %v", err)
	}

	select {
	case raw := <-sub.Channel():
		ev, err := events.Decode(raw)
		if err != nil {
			t.Fatalf("Decode() error = %v", err)
		}
		if ev.Kind != events.KindDeviceLearnedOut {
			t.Errorf("Kind = %q, want %q", ev.Kind, events.KindDeviceLearnedOut)
		}
		if ev.SubDevice != 2 {
			t.Errorf("SubDevice = %d, want 2", ev.SubDevice)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

type recordingSink struct {
	pushed chan events.Event
}

func (s recordingSink) Push(_ context.Context, ev events.Event) error {
	s.pushed <- ev
	return nil
}

func TestPumpDeliversDecodedEvents(t *testing.T) {
	t.Parallel()
	bus := newTestBus(t)
	sub := bus.Subscribe()

	sink := recordingSink{pushed: make(chan events.Event, 1)}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	go events.Pump(ctx, sub, sink, log)

	key := devices.Key{Address: esp3.Address(0x11223344), SubDevice: 0}
	if err := bus.PublishLearnedOut(key, time.Unix(1700000200, 0)); err != nil {
		t.Fatalf("PublishLearnedOut() error = %v", err)
	}

	select {
	case ev := <-sink.pushed:
		if ev.Kind != events.KindDeviceLearnedOut {
			t.Errorf("Kind = %q, want %q", ev.Kind, events.KindDeviceLearnedOut)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for sink push")
	}
}

func TestLogSinkNeverFails(t *testing.T) {
	t.Parallel()
	sink := events.LogSink{Log: slog.New(slog.NewTextHandler(io.Discard, nil))}
	if err := sink.Push(context.Background(), events.Event{Kind: events.KindHardwareError}); err != nil {
		t.Errorf("Push() error = %v, want nil", err)
	}
}
