package devices

import (
	"github.com/evdc-project/enocean-vdc/internal/eep/fourbs"
	"github.com/evdc-project/enocean-vdc/internal/eep/onebs"
	"github.com/evdc-project/enocean-vdc/internal/eep/remotecontrol"
	"github.com/evdc-project/enocean-vdc/internal/eep/rps"
	"github.com/evdc-project/enocean-vdc/internal/eep/sensortable"
	"github.com/evdc-project/enocean-vdc/internal/esp3"
)

// RPS FUNC bytes this factory recognizes.
const (
	rpsFuncRocker       = 0x02
	rpsFuncRockerQuad   = 0x03
	rpsFuncWindowHandle = 0x10
	rpsFuncKeyCard      = 0x04
	rpsFuncDetector     = 0x05
)

// 4BS FUNC bytes with a dedicated handler instead of the generic descriptor
// codec.
const (
	fourBSFuncValve          = 0x20
	fourBSTypeValve          = 0x01
	fourBSFuncWeatherStation = 0x13
)

// BuildChannels is the Factory every engine wires into a devices.Dispatcher:
// given a learned (or configured) EEP profile, it returns the channel
// handlers for one subdevice slot, and the total number of subdevice slots
// the profile occupies. The caller (Dispatcher.DispatchRPS) loops subDevice
// from 0 until this returns a nil channel slice.
func BuildChannels(profile esp3.Profile, manufacturer esp3.Manufacturer, subDevice uint8) (channels []Channel, subDeviceCount int) {
	switch profile.RORG() {
	case esp3.RORGRPS:
		return buildRPSChannels(profile, subDevice)
	case esp3.RORG1BS:
		return buildOneBSChannels(profile, subDevice)
	case esp3.RORG4BS:
		return buildFourBSChannels(profile, subDevice)
	case remotecontrol.PseudoRORGRemoteControl:
		return buildRemoteControlChannels(profile, subDevice)
	default:
		return nil, 0
	}
}

// buildRPSChannels dispatches F6-xx profiles. Rocker profiles (F6-02,
// F6-03) occupy 2 subdevice slots, one rocker pair per slot; every other
// RPS profile occupies exactly one slot.
func buildRPSChannels(profile esp3.Profile, subDevice uint8) ([]Channel, int) {
	fn := profile.Func()
	switch fn {
	case rpsFuncRocker, rpsFuncRockerQuad:
		const rockerSlots = 2
		if subDevice >= rockerSlots {
			return nil, 0
		}
		up := &rockerChannel{h: rps.ButtonHandler{SwitchIndex: int(subDevice), IsRockerUp: true}}
		down := &rockerChannel{h: rps.ButtonHandler{SwitchIndex: int(subDevice), IsRockerUp: false}}
		return []Channel{{Index: 0, Handler: up}, {Index: 1, Handler: down}}, rockerSlots

	case rpsFuncWindowHandle:
		if subDevice >= 1 {
			return nil, 0
		}
		isERP2 := profile.Variant() == 1
		return []Channel{{Index: 0, Handler: &windowHandleChannel{isERP2: isERP2}}}, 1

	case rpsFuncKeyCard:
		if subDevice >= 1 {
			return nil, 0
		}
		kcProfile := rps.KeyCardERP1
		switch profile.Type() {
		case 0x02:
			kcProfile = rps.KeyCardERP2
		case 0xC0:
			kcProfile = rps.KeyCardFKCFKF
		}
		return []Channel{{Index: 0, Handler: &keyCardChannel{profile: kcProfile}}}, 1

	case rpsFuncDetector:
		if subDevice >= 1 {
			return nil, 0
		}
		if profile.Type() == 0x01 {
			return []Channel{{Index: 0, Handler: &leakageDetectorChannel{}}}, 1
		}
		return []Channel{{Index: 0, Handler: &smokeDetectorChannel{}}}, 1

	default:
		return nil, 0
	}
}

// buildOneBSChannels dispatches D5-00-01, the sole EEP-defined 1BS profile.
// profile.Variant()==1 selects the inverted (active-low) interpretation.
func buildOneBSChannels(profile esp3.Profile, subDevice uint8) ([]Channel, int) {
	if subDevice >= 1 || profile.Func() != 0x00 || profile.Type() != 0x01 {
		return nil, 0
	}
	activeState := profile.Variant() != 1
	return []Channel{{Index: 0, Handler: &singleContactChannel{h: onebs.SingleContactHandler{ActiveState: activeState}}}}, 1
}

// buildFourBSChannels dispatches A5-xx profiles: the heating valve and
// weather station get dedicated handlers, everything else goes through the
// generic descriptor table.
func buildFourBSChannels(profile esp3.Profile, subDevice uint8) ([]Channel, int) {
	fn, typ := profile.Func(), profile.Type()

	if fn == fourBSFuncValve && typ == fourBSTypeValve {
		if subDevice >= 1 {
			return nil, 0
		}
		binaryVariant := profile.Variant() == 2
		return []Channel{{Index: 0, Handler: &valveChannel{binaryVariant: binaryVariant}}}, 1
	}

	if fn == fourBSFuncWeatherStation {
		if subDevice >= 1 {
			return nil, 0
		}
		return []Channel{{Index: 0, Handler: newWeatherStationChannel()}}, 1
	}

	count := sensortable.SubDeviceCount(fourbs.Descriptors, profile.Variant(), fn, typ)
	if count == 0 {
		count = 1
	}
	if int(subDevice) >= count {
		return nil, 0
	}
	descs := sensortable.Lookup(fourbs.Descriptors, profile.Variant(), fn, typ, subDevice)
	if len(descs) == 0 {
		return nil, 0
	}
	channels := make([]Channel, 0, len(descs))
	for i, d := range descs {
		channels = append(channels, Channel{Index: i, Handler: newSensorChannel(d)})
	}
	return channels, count
}

// buildRemoteControlChannels builds the outgoing-only pseudo-RORG devices
// this core creates to drive relay and blind actuators.
func buildRemoteControlChannels(profile esp3.Profile, subDevice uint8) ([]Channel, int) {
	if subDevice >= 1 {
		return nil, 0
	}
	switch profile.Type() {
	case remotecontrol.PseudoTypeOnOff, remotecontrol.PseudoTypeSwitchedLight:
		return []Channel{{Index: 0, Handler: &relayChannel{}}}, 1
	case remotecontrol.PseudoTypeBlind, remotecontrol.PseudoTypeSimpleBlind:
		return []Channel{{Index: 0, Handler: &blindChannel{}}}, 1
	default:
		return nil, 0
	}
}
