package devices

import (
	"github.com/evdc-project/enocean-vdc/internal/esp3"
)

// Factory builds the channel set for a newly learned device, given its EEP
// profile and manufacturer. It returns nil if the profile is not supported
// (the caller should then refuse to learn the device). subDeviceCount
// reports how many logical subdevice slots this profile occupies (1 for
// almost everything; 2 for F6-02/F6-03 rocker switches, each slot one
// rocker with its up and down buttons), matching the original's aSubDeviceIndex increment-by-reference
// convention.
type Factory func(profile esp3.Profile, manufacturer esp3.Manufacturer, subDevice uint8) (channels []Channel, subDeviceCount int)

// Dispatcher routes incoming radio telegrams: known devices get their
// telegram forwarded to HandleRadioTelegram, while telegrams from unknown
// addresses are only considered for learn-in when learn mode is open.
type Dispatcher struct {
	Registry *Registry
	Learn    *LearnController
	Factory  Factory

	// OnLearned, if set, is called whenever a new device is registered via
	// teach-in (wired to internal/events in the engine).
	OnLearned func(*Device)

	// OnChanged, if set, is called whenever an existing device's channel
	// state actually changed while handling an incoming telegram (wired to
	// internal/events in the engine).
	OnChanged func(*Device)
}

// Dispatch processes one incoming radio telegram: if it addresses a known
// device, the telegram is forwarded to that device's channels; otherwise,
// if learn mode is open and the telegram is a usable teach-in, a new
// device is created via Factory and registered.
//
// It returns the device the telegram was routed to (existing or newly
// learned), or nil if the telegram was neither routable nor a usable
// teach-in.
func (disp *Dispatcher) Dispatch(t esp3.RadioTelegram) *Device {
	existing := disp.Registry.ByAddress(t.Sender())
	if len(existing) > 0 {
		for _, d := range existing {
			if d.HandleRadioTelegram(t) && disp.OnChanged != nil {
				disp.OnChanged(d)
			}
		}
		return existing[0]
	}

	ti, ok := disp.Learn.Consider(t)
	if !ok || !ti.ProfileKnown || disp.Factory == nil {
		return nil
	}

	channels, _ := disp.Factory(ti.Profile, ti.Manufacturer, 0)
	if channels == nil {
		return nil
	}
	d := &Device{
		Address:      t.Sender(),
		SubDevice:    0,
		Profile:      ti.Profile,
		Manufacturer: ti.Manufacturer,
		Channels:     channels,
	}
	d.Touch(t.DBm())
	disp.Registry.Put(d)
	if disp.OnLearned != nil {
		disp.OnLearned(d)
	}
	return d
}

// DispatchRPS handles the RPS special case: RPS telegrams never state
// their own EEP, so learning one in requires the profile to already be
// known out of band (e.g. chosen by the operator during a pairing flow).
// expectedProfile is that pre-selected profile; subDeviceCount lets
// multi-subdevice profiles (dual/quad rocker switches) register more than
// one logical Device for the one physical address.
func (disp *Dispatcher) DispatchRPS(t esp3.RadioTelegram, expectedProfile esp3.Profile, manufacturer esp3.Manufacturer) []*Device {
	existing := disp.Registry.ByAddress(t.Sender())
	if len(existing) > 0 {
		for _, d := range existing {
			if d.HandleRadioTelegram(t) && disp.OnChanged != nil {
				disp.OnChanged(d)
			}
		}
		return existing
	}

	ti, ok := disp.Learn.Consider(t)
	if !ok || !ti.IsTeachIn || disp.Factory == nil {
		return nil
	}

	var created []*Device
	var sub uint8
	for {
		channels, count := disp.Factory(expectedProfile, manufacturer, sub)
		if channels == nil {
			break
		}
		d := &Device{
			Address:      t.Sender(),
			SubDevice:    sub,
			Profile:      expectedProfile,
			Manufacturer: manufacturer,
			Channels:     channels,
		}
		d.Touch(t.DBm())
		disp.Registry.Put(d)
		created = append(created, d)
		if disp.OnLearned != nil {
			disp.OnLearned(d)
		}
		sub++
		if int(sub) >= count {
			break
		}
	}
	return created
}
