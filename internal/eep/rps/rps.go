// Package rps decodes RORG 0xF6 (Repeated Switch Communication) telegrams:
// rocker switches, window handles, key-card switches, smoke detectors, and
// leakage detectors. Unlike 4BS, RPS profiles carry their state in a single
// data byte plus the ESP3 radio status byte (the N/U and T21 bits), so each
// device class gets its own small decoder rather than a shared bit-table.
package rps

// Radio status bits (ESP3 RPS telegrams only).
const (
	StatusT21 = 0x20 // RPS T21 bit
	StatusNU  = 0x10 // RPS N/U bit: set if N-message, clear if U-message
)

// ButtonAction is one decoded rocker action (dS convention: two actions per
// N-message, DB7..5 and DB3..1).
type ButtonAction struct {
	SwitchIndex int
	RockerUp    bool
	Pressed     bool
}

// ButtonHandler tracks one half of a rocker switch (a single switchIndex +
// side) and turns RPS button telegrams into pressed/released transitions.
type ButtonHandler struct {
	SwitchIndex int
	IsRockerUp  bool
	pressed     bool
}

// HandleRadioPacket decodes an F6-02-01/02 rocker telegram and reports
// whether this handler's own button state changed, returning (newState,
// changed). Mirrors the N-message/U-message split: N-messages carry up to
// two simultaneous rocker actions; U-messages only report whether all
// buttons were released.
func (h *ButtonHandler) HandleRadioPacket(data, status byte) (pressed bool, changed bool) {
	before := h.pressed
	if status&StatusNU != 0 {
		// N-message: up to two actions, first in DB7..5, second in DB3..1 (if DB0==1)
		for ai := 1; ai >= 0; ai-- {
			if ai == 0 && data&0x01 == 0 {
				break // no second action
			}
			a := (data >> uint(4*ai+1)) & 0x07
			if (a>>1)&0x03 == byte(h.SwitchIndex) {
				if (a&0x01 != 0) == h.IsRockerUp {
					h.setButtonState(data&0x10 != 0)
				}
			}
		}
	} else {
		// U-message: DB7..5 = number of buttons still pressed, DB4 = action (energy bow)
		pressedNow := data&0x10 != 0
		stillPressed := (data >> 5) & 0x07
		if !pressedNow && stillPressed == 0 {
			h.setButtonState(false)
		}
	}
	return h.pressed, h.pressed != before
}

func (h *ButtonHandler) setButtonState(p bool) {
	if p != h.pressed {
		h.pressed = p
	}
}

// Pressed reports the handler's last-known button state.
func (h *ButtonHandler) Pressed() bool { return h.pressed }

// WindowHandleStatus is the decoded state of an F6-10-00 window handle.
type WindowHandleStatus struct {
	Tilted bool
	Closed bool
	Valid  bool
}

// DecodeWindowHandle decodes an F6-10-00 telegram. isERP2 selects the ERP2
// encoding (data bits 0..3, no N/U or T21 fields); otherwise only a valid
// ERP1 status-change message (N/U clear, T21 set) is decoded, using data
// bits 4..7 — any other status byte leaves Valid false and the binary
// inputs untouched, matching the original's "unknown data" early return.
func DecodeWindowHandle(data, status byte, isERP2 bool) WindowHandleStatus {
	if isERP2 {
		return WindowHandleStatus{
			Tilted: data&0x0F == 0x0D,
			Closed: data&0x0F == 0x0F,
			Valid:  true,
		}
	}
	if status&StatusNU == 0 && status&StatusT21 != 0 {
		return WindowHandleStatus{
			Tilted: data&0xF0 == 0xD0,
			Closed: data&0xF0 == 0xF0,
			Valid:  true,
		}
	}
	return WindowHandleStatus{}
}

// KeyCardProfile selects which key-card switch variant a telegram's EEP
// signature maps to; each uses a different data/status bit convention.
type KeyCardProfile int

const (
	KeyCardERP1 KeyCardProfile = iota // F6-04-01, no official bit convention beyond data==0x70
	KeyCardERP2                       // F6-04-02, state of card in DB0 bit2
	KeyCardFKCFKF                     // Eltako FKC/FKF, no official EEP
)

// KeyCardStatus is the decoded state of a key-card switch telegram.
type KeyCardStatus struct {
	Inserted    bool
	ServiceCard bool // FKC/FKF only: true if N-message (service card) vs U-message (guest card)
}

// DecodeKeyCard decodes an F6-04-xx key-card switch telegram per profile.
func DecodeKeyCard(data, status byte, profile KeyCardProfile) KeyCardStatus {
	switch profile {
	case KeyCardERP2:
		return KeyCardStatus{Inserted: data&0x04 != 0}
	case KeyCardFKCFKF:
		inserted := data&0x10 != 0
		service := inserted && status&StatusNU != 0
		return KeyCardStatus{Inserted: inserted, ServiceCard: service}
	default:
		return KeyCardStatus{Inserted: status&StatusNU != 0 && data == 0x70}
	}
}

// SmokeDetectorStatus is the decoded state of an F6-05-xx smoke detector
// telegram (AlphaEOS GUARD / Eltako FRW convention).
type SmokeDetectorStatus struct {
	SmokeAlarm bool
	LowBattery bool
}

// DecodeSmokeDetector decodes an F6-05-xx smoke/battery telegram. Both
// states share the same data bits (0x30 mask): 0x10=alarm, 0x30=battery low.
func DecodeSmokeDetector(data byte) SmokeDetectorStatus {
	return SmokeDetectorStatus{
		SmokeAlarm: data&0x30 == 0x10,
		LowBattery: data&0x30 == 0x30,
	}
}

// DecodeLeakageDetector decodes an F6-05-01 liquid leakage telegram: water
// detected is reported only by the exact data byte 0x11 (N + T21 both set).
func DecodeLeakageDetector(data byte) (leakage bool) {
	return data == 0x11
}

// DeviceVariant describes one entry of the RPS profile-variant table: how
// many subdevice indices a profile occupies and its human-readable name.
type DeviceVariant struct {
	Variant        int
	EEProfile      uint32
	SubDeviceCount int
	Description    string
}

// DeviceVariants is the RPS profile-variant table: dual/quad rocker
// switches (as 2-way rockers, or as separate up/down buttons), key-card
// switches, and the leakage/smoke detectors.
var DeviceVariants = []DeviceVariant{
	{1, 0x00F602FF, 2, "dual rocker switch (as 2-way rockers)"},
	{1, 0x01F602FF, 2, "dual rocker switch (up and down as separate buttons)"},
	{1, 0x00F60401, 0, "key card activated switch ERP1"},
	{1, 0x00F60402, 0, "key card activated switch ERP2"},
	{1, 0x00F604C0, 0, "key card activated switch FKC/FKF"},
	{1, 0x00F60501, 0, "Liquid Leakage detector"},
	{1, 0x00F605C0, 0, "Smoke detector FRW/GUARD"},
	{2, 0x00F603FF, 2, "quad rocker switch (as 2-way rockers)"},
	{2, 0x01F603FF, 2, "quad rocker switch (up and down as separate buttons)"},
}
