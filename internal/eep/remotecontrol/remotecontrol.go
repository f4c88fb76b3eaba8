// Package remotecontrol builds outgoing RPS telegrams for "remote control"
// devices: actuators driven by simulating rocker switch button presses from
// our own base address rather than decoding an incoming telegram. Relay and
// blind actuators are modeled as F6-02-01 switch-control sequences of
// press-then-release telegrams; the devices package sends them addressed to
// the target actuator rather than to the broadcast address.
package remotecontrol

// Pseudo-profile identifiers used to classify remote-control devices that
// this connector creates rather than learns in from the field (they have
// no real EEP signature of their own; the RORG/FUNC/TYPE values below never
// appear on the air, they only label local device configuration).
const (
	PseudoRORGRemoteControl = 0xFF
	PseudoFuncSwitchControl = 0xF6
	PseudoTypeSimpleBlind   = 0xFF
	PseudoTypeBlind         = 0xFE
	PseudoTypeOnOff         = 0xFD
	PseudoTypeSwitchedLight = 0xFC
)

// TeachInVariant identifies which simulated button the learn-in signal
// should press: left/right button, up/down side.
type TeachInVariant int8

const (
	TeachInLeftUp TeachInVariant = iota
	TeachInLeftDown
	TeachInRightUp
	TeachInRightDown
)

// TeachInVariantCount is the number of distinct simulated button presses a
// switch-control remote-control device can send for teach-in.
const TeachInVariantCount = 4

// Decode splits a TeachInVariant into its right/up button flags.
func (v TeachInVariant) Decode() (right, up bool) {
	return v&0x2 != 0, v&0x1 == 0
}

// ButtonTelegram is the data+status byte pair for a simulated RPS rocker
// press or release, ready to be sent in an outgoing radio telegram.
type ButtonTelegram struct {
	Data   byte
	Status byte
}

// BuildButtonAction constructs the data/status bytes for a simulated rocker
// button action: right selects the B (right) rocker half, up selects the up
// side, press distinguishes a press (N-message, data carries the action
// code) from a release (U-message, data 0x00).
func BuildButtonAction(right, up, press bool) ButtonTelegram {
	if !press {
		return ButtonTelegram{Data: 0x00, Status: StatusT21}
	}
	d := byte(0x10) // energy bow: pressed
	if up {
		d |= 0x20
	}
	if right {
		d |= 0x40
	}
	return ButtonTelegram{Data: d, Status: StatusNU | StatusT21}
}

// RPS radio status bits, duplicated from the rps package to keep this
// package's outgoing-only telegrams self-contained (it never decodes
// incoming RPS telegrams, so it has no dependency on the rps package).
const (
	StatusT21 = 0x20
	StatusNU  = 0x10
)

// RelayDirection is the simulated half-press used to drive a simple on/off
// or switched-light relay actuator: up switches on, down switches off.
type RelayDirection bool

const (
	RelayOn  RelayDirection = true
	RelayOff RelayDirection = false
)

// BuildRelayAction returns the press-then-release telegram pair for driving
// a relay actuator to the given direction. The caller is responsible for
// timing the release telegram roughly 200ms after the press, matching a
// real button's hold time.
func BuildRelayAction(direction RelayDirection) (press, release ButtonTelegram) {
	up := bool(direction)
	return BuildButtonAction(false, up, true), BuildButtonAction(false, up, false)
}

// BlindMovement is the current simulated movement direction of a time
// controlled blind actuator.
type BlindMovement int

const (
	BlindStopped    BlindMovement = 0
	BlindMovingDown BlindMovement = -1
	BlindMovingUp   BlindMovement = 1
)

// BuildBlindMovement returns the press telegram that starts a blind moving
// in the given direction; BlindStopped has no press telegram of its own —
// use BuildButtonAction's release form to stop.
func BuildBlindMovement(direction BlindMovement) (press ButtonTelegram, ok bool) {
	switch direction {
	case BlindMovingUp:
		return BuildButtonAction(false, true, true), true
	case BlindMovingDown:
		return BuildButtonAction(false, false, true), true
	default:
		return ButtonTelegram{}, false
	}
}

// MarkUsedBaseOffset reports the base-ID offset (0..127) this device's
// learned address occupies, for building a used-offsets bitmap when
// allocating new local addresses out of the modem's base ID block.
func MarkUsedBaseOffset(address uint32) int {
	return int(address & 0x7F)
}
