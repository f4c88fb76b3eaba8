// Package devices holds the device registry and dispatcher: the runtime
// model of every EnOcean device this core has learned, and the code that
// routes an incoming radio telegram to the right device's channel handlers.
package devices

import (
	"time"

	"github.com/evdc-project/enocean-vdc/internal/dsuid"
	"github.com/evdc-project/enocean-vdc/internal/eep/remotecontrol"
	"github.com/evdc-project/enocean-vdc/internal/esp3"
)

// ChannelHandler decodes radio telegrams addressed to one logical channel
// of a device (a sensor value, a binary input, or an actuator), and builds
// outgoing telegrams for actuator channels. Every internal/eep/* decoder is
// wrapped in one of these so the dispatcher can treat all EEP families
// uniformly.
type ChannelHandler interface {
	// HandleRadioTelegram updates the handler's internal state from an
	// incoming telegram and reports whether anything observable changed.
	HandleRadioTelegram(t esp3.RadioTelegram) (changed bool)
	// ShortDesc is a short human-readable description for logs and status
	// output (e.g. "Pushbutton", "Single Contact", "Temperature").
	ShortDesc() string
}

// OutgoingChannelHandler is implemented by actuator channel handlers that
// can build an outgoing radio telegram payload (4BS data bytes or RPS
// data+status) on demand, as opposed to sensor/input channels which are
// read-only.
type OutgoingChannelHandler interface {
	ChannelHandler
	BuildOutgoing() (data []byte, status byte)
}

// Releaser is implemented by remote-control actuator channels that send a
// press telegram and then need an automatic release telegram after a fixed
// hold time (simulating a real button being let go).
type Releaser interface {
	ReleaseTelegram() (data []byte, status byte)
}

// Channel is one addressable behaviour of a device: a sensor, binary input,
// or output, bound to its decoder.
type Channel struct {
	Index   int
	Handler ChannelHandler
}

// Device is one logical EnOcean device: a physical transmitter address plus
// subdevice index (some profiles, like dual rocker switches, split one
// physical transmitter into several logical devices), its learned EEP
// profile, and its channels.
type Device struct {
	Address      esp3.Address
	SubDevice    uint8
	Profile      esp3.Profile
	Manufacturer esp3.Manufacturer
	DSUID        dsuid.DSUID
	FunctionDesc string
	Channels     []Channel

	LastSeen time.Time
	LastDBm  int
}

// Key identifies a device uniquely within the registry: address plus
// subdevice index (not dSUID, since the dSUID is derived from these and a
// device must be locatable before its dSUID is known to be valid).
type Key struct {
	Address   esp3.Address
	SubDevice uint8
}

// KeyOf returns d's registry key.
func (d *Device) KeyOf() Key {
	return Key{Address: d.Address, SubDevice: d.SubDevice}
}

// Touch records that a telegram was just received from this device.
func (d *Device) Touch(dBm int) {
	d.LastSeen = time.Now()
	d.LastDBm = dBm
}

// HandleRadioTelegram dispatches an incoming telegram to every channel on
// this device, reporting whether any channel's state changed.
func (d *Device) HandleRadioTelegram(t esp3.RadioTelegram) (changed bool) {
	d.Touch(t.DBm())
	for _, ch := range d.Channels {
		if ch.Handler.HandleRadioTelegram(t) {
			changed = true
		}
	}
	return changed
}

// outgoingHandler returns this device's single actuator channel, if it has
// one. A device's channels are built by exactly one factory branch, never a
// mix of sensor and actuator handlers, so there is at most one match.
func (d *Device) outgoingHandler() OutgoingChannelHandler {
	for _, ch := range d.Channels {
		if out, ok := ch.Handler.(OutgoingChannelHandler); ok {
			return out
		}
	}
	return nil
}

// HasOutgoing reports whether this device has an actuator channel capable
// of building outgoing telegrams.
func (d *Device) HasOutgoing() bool {
	return d.outgoingHandler() != nil
}

// NeedsRelease reports whether this device's actuator channel requires an
// automatic release telegram after a press (relay/blind button simulation),
// as opposed to a stateful 4BS setpoint that needs no follow-up.
func (d *Device) NeedsRelease() bool {
	out := d.outgoingHandler()
	if out == nil {
		return false
	}
	_, ok := out.(Releaser)
	return ok
}

// WantsAggregateAfterReceive reports whether this device must be
// re-aggregated after every successful receive, regardless of whether the
// receive itself changed anything - the A5-20-01 heating valve needs its
// outgoing set-point telegram resent on every status report to keep the
// valve's own service-cycle timer fed.
func (d *Device) WantsAggregateAfterReceive() bool {
	return d.Profile.RORG() == esp3.RORG4BS && d.Profile.Func() == fourBSFuncValve && d.Profile.Type() == fourBSTypeValve
}

// Aggregate builds the next outgoing radio frame for this device's actuator
// channel, addressed from senderBase (the modem's own ID base address) to
// this device. ok is false for devices with no actuator channel.
func (d *Device) Aggregate(senderBase esp3.Address) (frame esp3.Frame, ok bool) {
	out := d.outgoingHandler()
	if out == nil {
		return esp3.Frame{}, false
	}
	data, status := out.BuildOutgoing()
	rorg := d.Profile.RORG()
	switch rorg {
	case remotecontrol.PseudoRORGRemoteControl:
		// Pseudo-profiles classify locally only; on the wire a simulated
		// button press is an ordinary RPS telegram.
		rorg = esp3.RORGRPS
	case esp3.RORG4BS:
		if len(data) == 4 {
			data[3] |= esp3.LrnBitMask
		}
	}
	return esp3.NewDirectedRadioFrame(rorg, data, senderBase, d.Address, status), true
}

// Release returns the release telegram for this device's actuator channel,
// if it implements Releaser, after a press has been sent by Aggregate.
func (d *Device) Release(senderBase esp3.Address) (frame esp3.Frame, ok bool) {
	out := d.outgoingHandler()
	if out == nil {
		return esp3.Frame{}, false
	}
	rel, ok := out.(Releaser)
	if !ok {
		return esp3.Frame{}, false
	}
	data, status := rel.ReleaseTelegram()
	return esp3.NewDirectedRadioFrame(esp3.RORGRPS, data, senderBase, d.Address, status), true
}
