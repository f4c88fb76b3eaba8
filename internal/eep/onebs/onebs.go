// Package onebs decodes RORG 0xD5 single-contact telegrams (D5-00-01): the
// only 1BS profile EEP defines. The profile has two variants — straight and
// inverted contact interpretation, the latter used for window contacts
// where "open" should read as the active binary input state.
package onebs

// SingleContactHandler decodes D5-00-01 telegrams for one device. ActiveState
// selects which raw bit value (0x01 set or clear) reports as the active
// binary input state: true for variant 0 (straight), false for variant 1
// (inverted, e.g. window contacts where the open circuit is the active one).
type SingleContactHandler struct {
	ActiveState bool
}

// Decode reads bit 0 of a 1BS data byte and reports the contact state,
// straight or inverted per ActiveState. Per the profile, teach-in telegrams
// carry no contact data and must be filtered out by the caller before this
// is reached.
func (h SingleContactHandler) Decode(data byte) (active bool) {
	return (data&0x01 != 0) == h.ActiveState
}

// DeviceVariant describes one entry of the 1BS profile-variant table.
type DeviceVariant struct {
	Variant     int
	EEProfile   uint32
	Description string
}

// DeviceVariants is the single-contact profile-variant table: straight vs.
// inverted interpretation of the contact bit.
var DeviceVariants = []DeviceVariant{
	{1, 0x00D50001, "single contact"},
	{1, 0x01D50001, "single contact (inverted, e.g. for window contact)"},
}
