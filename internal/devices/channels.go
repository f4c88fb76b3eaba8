package devices

import (
	"fmt"

	"github.com/evdc-project/enocean-vdc/internal/eep/fourbs"
	"github.com/evdc-project/enocean-vdc/internal/eep/onebs"
	"github.com/evdc-project/enocean-vdc/internal/eep/remotecontrol"
	"github.com/evdc-project/enocean-vdc/internal/eep/rps"
	"github.com/evdc-project/enocean-vdc/internal/eep/sensortable"
	"github.com/evdc-project/enocean-vdc/internal/esp3"
)

// sensorChannel adapts one sensortable.Descriptor (a generic 4BS sensor or
// binary-input channel) into a ChannelHandler. It reports changed whenever
// the decoded value differs from the previous telegram's, matching the
// "emit only on change" throttling every handler in this package follows.
type sensorChannel struct {
	desc    sensortable.Descriptor
	hasLast bool
	last    float64
}

func newSensorChannel(d sensortable.Descriptor) *sensorChannel {
	return &sensorChannel{desc: d}
}

func (c *sensorChannel) HandleRadioTelegram(t esp3.RadioTelegram) bool {
	if t.RORG() != esp3.RORG4BS {
		return false
	}
	data := t.Data4BS()
	var value float64
	if c.desc.Handler != nil {
		value = c.desc.Handler(c.desc, data[:])
	} else {
		// Power meter entries carry no Handler: the data-type bit picks
		// which of the power/energy siblings takes the value.
		v, isPower := sensortable.PowerMeterHandler(c.desc, data[:])
		if isPower != (c.desc.SensorType == sensortable.SensorTypePower) {
			return false
		}
		value = v
	}
	changed := !c.hasLast || value != c.last
	c.hasLast = true
	c.last = value
	return changed
}

func (c *sensorChannel) ShortDesc() string {
	return fmt.Sprintf("%s (%s)", c.desc.TypeText, c.desc.UnitText)
}

// Value returns the last value the descriptor's handler produced. It is
// not scaled to the descriptor's Min..Max: for the plain bit-field handlers
// it is the raw field value.
func (c *sensorChannel) Value() float64 { return c.last }

// rockerChannel adapts one half of an RPS rocker (rps.ButtonHandler) into a
// ChannelHandler.
type rockerChannel struct {
	h rps.ButtonHandler
}

func (c *rockerChannel) HandleRadioTelegram(t esp3.RadioTelegram) bool {
	if t.RORG() != esp3.RORGRPS {
		return false
	}
	before := c.h.Pressed()
	c.h.HandleRadioPacket(t.DataByte0(), t.Status())
	return c.h.Pressed() != before
}

func (c *rockerChannel) ShortDesc() string {
	side := "down"
	if c.h.IsRockerUp {
		side = "up"
	}
	return fmt.Sprintf("rocker %d (%s)", c.h.SwitchIndex, side)
}

// Pressed reports the button's last-known state.
func (c *rockerChannel) Pressed() bool { return c.h.Pressed() }

// windowHandleChannel adapts rps.DecodeWindowHandle into a ChannelHandler.
type windowHandleChannel struct {
	isERP2 bool
	last   rps.WindowHandleStatus
}

func (c *windowHandleChannel) HandleRadioTelegram(t esp3.RadioTelegram) bool {
	if t.RORG() != esp3.RORGRPS {
		return false
	}
	status := rps.DecodeWindowHandle(t.DataByte0(), t.Status(), c.isERP2)
	if !status.Valid {
		return false
	}
	changed := status != c.last
	c.last = status
	return changed
}

func (c *windowHandleChannel) ShortDesc() string { return "window handle" }

// Status returns the last-decoded window handle reading.
func (c *windowHandleChannel) Status() rps.WindowHandleStatus { return c.last }

// keyCardChannel adapts rps.DecodeKeyCard into a ChannelHandler.
type keyCardChannel struct {
	profile rps.KeyCardProfile
	last    rps.KeyCardStatus
}

func (c *keyCardChannel) HandleRadioTelegram(t esp3.RadioTelegram) bool {
	if t.RORG() != esp3.RORGRPS {
		return false
	}
	status := rps.DecodeKeyCard(t.DataByte0(), t.Status(), c.profile)
	changed := status != c.last
	c.last = status
	return changed
}

func (c *keyCardChannel) ShortDesc() string { return "key card switch" }

// smokeDetectorChannel adapts rps.DecodeSmokeDetector into a ChannelHandler.
type smokeDetectorChannel struct {
	last rps.SmokeDetectorStatus
}

func (c *smokeDetectorChannel) HandleRadioTelegram(t esp3.RadioTelegram) bool {
	if t.RORG() != esp3.RORGRPS {
		return false
	}
	status := rps.DecodeSmokeDetector(t.DataByte0())
	changed := status != c.last
	c.last = status
	return changed
}

func (c *smokeDetectorChannel) ShortDesc() string { return "smoke detector" }

// leakageDetectorChannel adapts rps.DecodeLeakageDetector into a
// ChannelHandler.
type leakageDetectorChannel struct {
	last bool
}

func (c *leakageDetectorChannel) HandleRadioTelegram(t esp3.RadioTelegram) bool {
	if t.RORG() != esp3.RORGRPS {
		return false
	}
	leaking := rps.DecodeLeakageDetector(t.DataByte0())
	changed := leaking != c.last
	c.last = leaking
	return changed
}

func (c *leakageDetectorChannel) ShortDesc() string { return "leakage detector" }

// singleContactChannel adapts onebs.SingleContactHandler into a
// ChannelHandler.
type singleContactChannel struct {
	h       onebs.SingleContactHandler
	hasLast bool
	last    bool
}

func (c *singleContactChannel) HandleRadioTelegram(t esp3.RadioTelegram) bool {
	if t.RORG() != esp3.RORG1BS {
		return false
	}
	state := c.h.Decode(t.DataByte0())
	changed := !c.hasLast || state != c.last
	c.hasLast, c.last = true, state
	return changed
}

func (c *singleContactChannel) ShortDesc() string { return "single contact" }

// State returns the last-decoded contact state.
func (c *singleContactChannel) State() bool { return c.last }

// valveChannel adapts the A5-20-01 heating valve profile: it decodes
// incoming status telegrams and, as an OutgoingChannelHandler, assembles
// the next outgoing set-point telegram from whatever target was last set
// via SetTarget.
type valveChannel struct {
	ctrl          fourbs.ValveController
	binaryVariant bool
	status        fourbs.ValveStatus
	targetPercent int
	idle          bool
	runService    bool
}

func (c *valveChannel) HandleRadioTelegram(t esp3.RadioTelegram) bool {
	if t.RORG() != esp3.RORG4BS {
		return false
	}
	status := fourbs.DecodeValveStatus(t.Data4BS())
	changed := status != c.status
	c.status = status
	return changed
}

func (c *valveChannel) ShortDesc() string { return "heating valve" }

// SetTarget updates the valve's requested opening percentage, used by the
// next BuildOutgoing call.
func (c *valveChannel) SetTarget(percent int, idle bool) {
	c.targetPercent, c.idle = percent, idle
}

// RequestServiceCycle arms a one-shot open/close prophylaxis sweep on the
// next BuildOutgoing call.
func (c *valveChannel) RequestServiceCycle() { c.runService = true }

func (c *valveChannel) BuildOutgoing() (data []byte, status byte) {
	out := c.ctrl.BuildOutgoing(c.targetPercent, c.binaryVariant, c.idle, c.runService)
	c.runService = false
	return out[:], 0
}

// Status returns the last-decoded valve status block.
func (c *valveChannel) Status() fourbs.ValveStatus { return c.status }

// weatherStationChannel adapts the A5-13-0X multi-telegram weather station:
// a single device receiving two distinct telegram sub-types (basic and
// sun), each updating its own bank of sensor values.
type weatherStationChannel struct {
	values map[string]float64
}

func newWeatherStationChannel() *weatherStationChannel {
	return &weatherStationChannel{values: make(map[string]float64)}
}

func (c *weatherStationChannel) HandleRadioTelegram(t esp3.RadioTelegram) bool {
	if t.RORG() != esp3.RORG4BS {
		return false
	}
	data := t.Data4BS()
	descs := fourbs.WeatherStationChannels(data)
	changed := false
	for _, d := range descs {
		v := d.Handler(d, data[:])
		if prev, ok := c.values[d.TypeText]; !ok || prev != v {
			changed = true
		}
		c.values[d.TypeText] = v
	}
	return changed
}

func (c *weatherStationChannel) ShortDesc() string { return "weather station" }

// Value returns the last-decoded value for the named sub-channel (e.g.
// "Sun west", "Temperature"), as published by fourbs.WeatherStationChannels.
func (c *weatherStationChannel) Value(name string) (float64, bool) {
	v, ok := c.values[name]
	return v, ok
}

// relayChannel drives an on/off (or switched-light) actuator by simulating
// RPS rocker presses from the modem's own base address. The engine is
// responsible for scheduling the release telegram roughly 200ms after the
// press, per the original button-hold timing.
type relayChannel struct {
	target remotecontrol.RelayDirection
}

func (c *relayChannel) HandleRadioTelegram(esp3.RadioTelegram) bool { return false }
func (c *relayChannel) ShortDesc() string                           { return "relay actuator" }

// SetTarget updates the relay's commanded state for the next press/release
// cycle.
func (c *relayChannel) SetTarget(direction remotecontrol.RelayDirection) { c.target = direction }

func (c *relayChannel) BuildOutgoing() (data []byte, status byte) {
	press, _ := remotecontrol.BuildRelayAction(c.target)
	return []byte{press.Data}, press.Status
}

// ReleaseTelegram returns the release telegram the engine should send after
// its button-hold timer expires.
func (c *relayChannel) ReleaseTelegram() (data []byte, status byte) {
	_, release := remotecontrol.BuildRelayAction(c.target)
	return []byte{release.Data}, release.Status
}

// blindChannel drives a time-controlled blind/shutter actuator the same way
// relayChannel drives a relay, but supports a stop (no movement) state with
// no corresponding press telegram.
type blindChannel struct {
	movement remotecontrol.BlindMovement
}

func (c *blindChannel) HandleRadioTelegram(esp3.RadioTelegram) bool { return false }
func (c *blindChannel) ShortDesc() string                           { return "blind actuator" }

// SetMovement updates the blind's commanded movement direction.
func (c *blindChannel) SetMovement(m remotecontrol.BlindMovement) { c.movement = m }

func (c *blindChannel) BuildOutgoing() (data []byte, status byte) {
	press, ok := remotecontrol.BuildBlindMovement(c.movement)
	if !ok {
		release := remotecontrol.BuildButtonAction(false, false, false)
		return []byte{release.Data}, release.Status
	}
	return []byte{press.Data}, press.Status
}
