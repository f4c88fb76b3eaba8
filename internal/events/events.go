// Package events fans out device lifecycle and property-change
// notifications within the process, and hands them to a best-effort sink
// for delivery to an upstream controller. The core never talks the
// upstream protocol itself; it only guarantees each event is offered to
// the sink at least once.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/evdc-project/enocean-vdc/internal/devices"
	"github.com/evdc-project/enocean-vdc/internal/pubsub"
)

// Kind identifies the shape of an Event's Payload.
type Kind string

const (
	KindDeviceLearned    Kind = "device_learned"
	KindDeviceLearnedOut Kind = "device_learned_out"
	KindPropertyChanged  Kind = "property_changed"
	KindHardwareError    Kind = "hardware_error"
)

// Topic is the single pubsub topic events are published on. Subscribers
// filter by Kind; a single topic keeps ordering within one process simple
// and matches the teacher's one-topic-per-concern pubsub usage.
const Topic = "enocean.device.events"

// Event is the envelope published for every device-lifecycle or
// property-change notification.
type Event struct {
	Kind      Kind            `json:"kind"`
	Address   uint32          `json:"address"`
	SubDevice uint8           `json:"subDevice"`
	At        time.Time       `json:"at"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// DeviceLearnedPayload is the Payload of a KindDeviceLearned event.
type DeviceLearnedPayload struct {
	DSUID        string `json:"dsuid"`
	Profile      uint32 `json:"profile"`
	Manufacturer uint16 `json:"manufacturer"`
}

// PropertyChangedPayload is the Payload of a KindPropertyChanged event.
type PropertyChangedPayload struct {
	ChannelIndex int    `json:"channelIndex"`
	Description  string `json:"description"`
}

// HardwareErrorPayload is the Payload of a KindHardwareError event.
type HardwareErrorPayload struct {
	LowBattery bool `json:"lowBattery"`
	Obstructed bool `json:"obstructed"`
}

// Bus fans events out to in-process subscribers over a pubsub transport,
// so a clustered deployment sharing Redis sees the same device events
// regardless of which instance's radio received the telegram.
type Bus struct {
	ps pubsub.PubSub
}

// NewBus wraps an existing pubsub transport for typed device events.
func NewBus(ps pubsub.PubSub) *Bus {
	return &Bus{ps: ps}
}

// Publish encodes and publishes an event. Publish errors are non-fatal to
// the caller's telegram-handling path; the event is simply dropped.
func (b *Bus) Publish(ev Event) error {
	raw, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("events: marshal event: %w", err)
	}
	if err := b.ps.Publish(Topic, raw); err != nil {
		return fmt.Errorf("events: publish: %w", err)
	}
	return nil
}

// PublishLearned publishes a KindDeviceLearned event for d.
func (b *Bus) PublishLearned(d *devices.Device, at time.Time) error {
	payload, err := json.Marshal(DeviceLearnedPayload{
		DSUID:        d.DSUID.String(),
		Profile:      uint32(d.Profile),
		Manufacturer: uint16(d.Manufacturer),
	})
	if err != nil {
		return fmt.Errorf("events: marshal learned payload: %w", err)
	}
	return b.Publish(Event{
		Kind: KindDeviceLearned, Address: uint32(d.Address), SubDevice: d.SubDevice,
		At: at, Payload: payload,
	})
}

// PublishLearnedOut publishes a KindDeviceLearnedOut event for key.
func (b *Bus) PublishLearnedOut(key devices.Key, at time.Time) error {
	return b.Publish(Event{
		Kind: KindDeviceLearnedOut, Address: uint32(key.Address), SubDevice: key.SubDevice,
		At: at,
	})
}

// Subscription is a live subscription to device events.
type Subscription struct {
	sub pubsub.Subscription
}

// Subscribe returns a Subscription carrying raw envelopes decoded with
// Decode. Callers filter on Kind and decode Payload accordingly.
func (b *Bus) Subscribe() Subscription {
	return Subscription{sub: b.ps.Subscribe(Topic)}
}

// Channel returns the channel of raw-encoded events.
func (s Subscription) Channel() <-chan []byte {
	return s.sub.Channel()
}

// Close ends the subscription.
func (s Subscription) Close() error {
	return s.sub.Close()
}

// Decode parses a raw envelope received from Channel().
func Decode(raw []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		return Event{}, fmt.Errorf("events: decode event: %w", err)
	}
	return ev, nil
}
