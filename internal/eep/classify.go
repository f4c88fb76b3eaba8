// Package eep classifies incoming radio telegrams into EnOcean Equipment
// Profiles (EEP) and detects teach-in ("learn") telegrams, the two things
// every profile family needs before a device-specific decoder can run.
package eep

import "github.com/evdc-project/enocean-vdc/internal/esp3"

// TeachIn describes what a telegram revealed about learning in a device.
type TeachIn struct {
	// IsTeachIn is true if the telegram is a teach-in (as opposed to a
	// normal data telegram).
	IsTeachIn bool
	// ProfileKnown is true if the telegram itself carried enough
	// information to determine FUNC/TYPE (never for RPS or 1BS, for 4BS
	// only when the EEP-info-valid bit is set).
	ProfileKnown bool
	Profile      esp3.Profile
	Manufacturer esp3.Manufacturer
}

// Classify inspects a radio telegram and reports whether it is a teach-in,
// and what EEP information (if any) it carries. minLearnDBm, if nonzero,
// requires RPS-style implicit teach-in telegrams to have at least that
// much signal strength (closer to 0 is stronger) to be trusted.
func Classify(t esp3.RadioTelegram, minLearnDBm int) TeachIn {
	switch t.RORG() {
	case esp3.RORGRPS:
		return classifyRPS(t, minLearnDBm)
	case esp3.RORG1BS:
		return classify1BS(t)
	case esp3.RORG4BS:
		return classify4BS(t)
	case esp3.RORGVLD:
		return TeachIn{}
	default:
		return TeachIn{}
	}
}

// classifyRPS: RPS telegrams have no explicit LRN bit. Every RPS telegram
// is considered teach-in information as long as, if minLearnDBm is set, it
// is strong enough to trust; its data content is not examined.
func classifyRPS(t esp3.RadioTelegram, minLearnDBm int) TeachIn {
	if minLearnDBm != 0 && t.DBm() < minLearnDBm {
		return TeachIn{}
	}
	// RPS always carries usable teach-in info (the profile itself must be
	// configured/known out of band - RPS telegrams never state their own
	// FUNC/TYPE), so ProfileKnown stays false.
	return TeachIn{IsTeachIn: true}
}

// classify1BS: a 1BS telegram is a teach-in exactly when the LRN bit
// (bit 3 of DB_0) is cleared. 1BS never carries its own EEP signature.
func classify1BS(t esp3.RadioTelegram) TeachIn {
	db0 := t.DataByte0()
	if db0&esp3.LrnBitMask != 0 {
		return TeachIn{}
	}
	return TeachIn{IsTeachIn: true}
}

// classify4BS: a 4BS telegram is a teach-in when the LRN bit (bit 3 of
// DB_0) is cleared. If the EEP-info-valid bit (bit 7 of DB_0) is also set,
// the telegram's DB_3/DB_2/DB_1 carry an explicit FUNC/TYPE/manufacturer
// signature ("4BS teach-in variant 2").
func classify4BS(t esp3.RadioTelegram) TeachIn {
	db0 := t.DataByte0()
	if db0&esp3.LrnBitMask != 0 {
		return TeachIn{}
	}
	ti := TeachIn{IsTeachIn: true}
	if db0&esp3.LrnEEPInfoValidMask == 0 {
		return ti
	}
	d := t.Data4BS()
	fn := d[0] >> 2
	typ := (d[0]&0x03)<<5 | d[1]>>3
	mfr := uint16(d[1]&0x07)<<8 | uint16(d[2])
	ti.ProfileKnown = true
	ti.Profile = esp3.NewProfile(0, byte(esp3.RORG4BS), fn, typ)
	ti.Manufacturer = esp3.Manufacturer(mfr)
	return ti
}
