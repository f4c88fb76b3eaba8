// Package esp3 implements the EnOcean Serial Protocol v3 (ESP3) wire
// framing: the sync byte, 6-byte header, CRC8 checksums, and the packet
// type / RORG / common-command constants needed to parse and build
// telegrams exchanged with a TCM310-class radio modem.
package esp3

import "fmt"

// SyncByte starts every ESP3 frame on the wire.
const SyncByte byte = 0x55

// HeaderSize is the length in bytes of the ESP3 header that follows the
// sync byte: 2 bytes data length, 1 byte optional data length, 1 byte
// packet type, 1 byte header CRC8.
const HeaderSize = 5

// PacketType is the ESP3 "packet type" header field.
type PacketType byte

// Packet types defined by the ESP3 specification.
const (
	PacketTypeRadio             PacketType = 0x01
	PacketTypeResponse          PacketType = 0x02
	PacketTypeRadioSubTel       PacketType = 0x03
	PacketTypeEvent             PacketType = 0x04
	PacketTypeCommonCommand     PacketType = 0x05
	PacketTypeSmartAckCommand   PacketType = 0x06
	PacketTypeRemoteManCommand  PacketType = 0x07
	PacketTypeManufacturerFirst PacketType = 0x80
	PacketTypeManufacturerLast  PacketType = 0xFF
)

// String implements fmt.Stringer.
func (p PacketType) String() string {
	switch p {
	case PacketTypeRadio:
		return "RADIO"
	case PacketTypeResponse:
		return "RESPONSE"
	case PacketTypeRadioSubTel:
		return "RADIO_SUB_TEL"
	case PacketTypeEvent:
		return "EVENT"
	case PacketTypeCommonCommand:
		return "COMMON_COMMAND"
	case PacketTypeSmartAckCommand:
		return "SMART_ACK_COMMAND"
	case PacketTypeRemoteManCommand:
		return "REMOTE_MAN_COMMAND"
	default:
		return "UNKNOWN"
	}
}

// RORG is the EnOcean "radio organisation" byte: the top-level telegram
// class (RPS/1BS/4BS/VLD/...) found in the first radio user data byte.
type RORG byte

// Radio organisation values.
const (
	RORGInvalid    RORG = 0x00
	RORGRPS        RORG = 0xF6
	RORG1BS        RORG = 0xD5
	RORG4BS        RORG = 0xA5
	RORGVLD        RORG = 0xD2
	RORGMSC        RORG = 0xD1
	RORGADT        RORG = 0xA6
	RORGSmartAckLearnRequest RORG = 0xC6
	RORGSmartAckLearnAnswer  RORG = 0xC7
	RORGSmartAckReclaim      RORG = 0xA7
	RORGRemoteManagement     RORG = 0xC5
	RORGSecure               RORG = 0x30
	RORGSecureEncapsulated   RORG = 0x31
)

// String implements fmt.Stringer.
func (r RORG) String() string {
	switch r {
	case RORGRPS:
		return "RPS"
	case RORG1BS:
		return "1BS"
	case RORG4BS:
		return "4BS"
	case RORGVLD:
		return "VLD"
	case RORGMSC:
		return "MSC"
	case RORGADT:
		return "ADT"
	case RORGSmartAckLearnRequest:
		return "SM_LRN_REQ"
	case RORGSmartAckLearnAnswer:
		return "SM_LRN_ANS"
	case RORGSmartAckReclaim:
		return "SM_REC"
	case RORGRemoteManagement:
		return "SYS_EX"
	case RORGSecure:
		return "SEC"
	case RORGSecureEncapsulated:
		return "SEC_ENCAPS"
	default:
		return "INVALID"
	}
}

// Status bits of a radio telegram's trailing status byte.
const (
	StatusRPSMask           byte = 0x30
	StatusRPST21            byte = 0x20
	StatusRPSNU             byte = 0x10
	StatusRepeaterCountMask byte = 0x0F
)

// LrnBitMask is bit 3 of a 1BS/4BS data byte 0: set means "data telegram",
// cleared means "teach-in telegram".
const LrnBitMask byte = 0x08

// LrnEEPInfoValidMask is bit 7 of a 4BS data byte 0, set on teach-in
// telegrams that carry an explicit EEP signature (4BS "variant 2" teach-in).
const LrnEEPInfoValidMask byte = 0x80

// CommonCommand is a ESP3 "common command" (packet type 0x05) code.
type CommonCommand byte

// Common command codes.
const (
	CoWrSleep         CommonCommand = 0x01
	CoWrReset         CommonCommand = 0x02
	CoRdVersion       CommonCommand = 0x03
	CoRdSysLog        CommonCommand = 0x04
	CoWrSysLog        CommonCommand = 0x05
	CoWrBist          CommonCommand = 0x06
	CoWrIDBase        CommonCommand = 0x07
	CoRdIDBase        CommonCommand = 0x08
	CoWrRepeater      CommonCommand = 0x09
	CoRdRepeater      CommonCommand = 0x0A
	CoWrFilterAdd     CommonCommand = 0x0B
	CoWrFilterDel     CommonCommand = 0x0C
	CoWrFilterDelAll  CommonCommand = 0x0D
	CoWrFilterEnable  CommonCommand = 0x0E
	CoRdFilter        CommonCommand = 0x0F
	CoWrWaitMaturity  CommonCommand = 0x10
	CoWrSubtel        CommonCommand = 0x11
	CoWrMem           CommonCommand = 0x12
	CoRdMem           CommonCommand = 0x13
	CoRdMemAddress    CommonCommand = 0x14
	CoRdSecurity      CommonCommand = 0x15
	CoWrSecurity      CommonCommand = 0x16
)

// ReturnCode is the first response data byte of a common command response.
type ReturnCode byte

// Common response codes.
const (
	RetOK              ReturnCode = 0x00
	RetError           ReturnCode = 0x01
	RetNotSupported    ReturnCode = 0x02
	RetWrongParam      ReturnCode = 0x03
	RetOperationDenied ReturnCode = 0x04
)

// String implements fmt.Stringer.
func (r ReturnCode) String() string {
	switch r {
	case RetOK:
		return "OK"
	case RetError:
		return "ERROR"
	case RetNotSupported:
		return "NOT_SUPPORTED"
	case RetWrongParam:
		return "WRONG_PARAM"
	case RetOperationDenied:
		return "OPERATION_DENIED"
	default:
		return "UNKNOWN"
	}
}

// EventCode is the first response data byte of an EVENT packet.
type EventCode byte

// Event codes (controller-role events only).
const (
	EventSAReclaimNotSuccessful EventCode = 0x01
	EventSAConfirmLearn         EventCode = 0x02
	EventCoReady                EventCode = 0x04
	EventCoSecureDevices        EventCode = 0x05
)

// Address is an EnOcean 32-bit device/module address.
type Address uint32

// AddressBroadcast is the EnOcean broadcast address.
const AddressBroadcast Address = 0xFFFFFFFF

// Manufacturer is the 11-bit EEP manufacturer code.
type Manufacturer uint16

// ManufacturerUnknown marks an absent/unresolved manufacturer code.
const ManufacturerUnknown Manufacturer = 0xFFFF

// Profile is a packed EEP signature: (variant<<24)|(RORG<<16)|(FUNC<<8)|TYPE.
// The variant byte is a local convention (not on the wire) used to
// disambiguate profile variants that otherwise share RORG/FUNC/TYPE.
type Profile uint32

// FuncUnknown and TypeUnknown mark EEP FUNC/TYPE bytes that could not be
// extracted from a telegram (e.g. a 4BS teach-in without EEP info).
const (
	FuncUnknown byte = 0xFF
	TypeUnknown byte = 0xFF
)

// ProfileUnknown is the profile value for "no usable EEP information".
const ProfileUnknown Profile = Profile(RORGInvalid)<<16 | Profile(FuncUnknown)<<8 | Profile(TypeUnknown)

// NewProfile packs a RORG/FUNC/TYPE/variant tuple into a Profile.
func NewProfile(variant, rorg, fn, typ byte) Profile {
	return Profile(variant)<<24 | Profile(rorg)<<16 | Profile(fn)<<8 | Profile(typ)
}

// RORG extracts the RORG byte of a profile.
func (p Profile) RORG() RORG { return RORG((p >> 16) & 0xFF) }

// Func extracts the FUNC byte of a profile.
func (p Profile) Func() byte { return byte((p >> 8) & 0xFF) }

// Type extracts the TYPE byte of a profile.
func (p Profile) Type() byte { return byte(p & 0xFF) }

// Variant extracts the local variant byte of a profile.
func (p Profile) Variant() byte { return byte((p >> 24) & 0xFF) }

// Untyped masks off FUNC/TYPE, leaving VARIANT/RORG only.
func (p Profile) Untyped() Profile { return p & 0xFFFFFF00 }

// Pure masks off the local variant byte, leaving the wire EEP signature.
func (p Profile) Pure() Profile { return p & 0xFFFFFF }

// String renders a profile in the usual EEP RORG-FUNC-TYPE notation (e.g.
// "A5-20-01"), omitting the local variant byte since it has no wire
// representation.
func (p Profile) String() string {
	return fmt.Sprintf("%02X-%02X-%02X", byte(p.RORG()), p.Func(), p.Type())
}
