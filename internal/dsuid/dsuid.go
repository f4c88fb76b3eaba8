// Package dsuid computes digitalSTROM unique device identifiers (dSUIDs):
// 17-byte identifiers derived either from a UUIDv5 name-in-namespace
// hash, or from an SGTIN96 (EPC96) encoding.
package dsuid

import (
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

// Size is the total length in bytes of a dSUID: 16 ID bytes plus the
// trailing subdevice index byte.
const Size = 17

// EnoceanNamespace is the UUID namespace used for all EnOcean device
// dSUIDs, matching the original implementation's fixed namespace constant.
var EnoceanNamespace = uuid.MustParse("0ba94a7b-7c92-4dab-b8e3-5fe09e83d0f3")

// VdcNamespace is the UUID namespace used to derive a vDC's own dSUID from
// the host's MAC address.
var VdcNamespace = uuid.MustParse("9888dd3d-b345-4109-b088-2673306d0c65")

// DSUID is a 17-byte digitalSTROM unique device identifier: 16 bytes of ID
// (a UUID, or an SGTIN96/EPC96 value mapped into 16 bytes) plus a trailing
// subdevice index.
type DSUID [Size]byte

// DSUIDIndexStep is the subdevice index multiplier historically used for
// EnOcean devices: subdevices are spaced two apart so a vdSM could in
// principle split a device (e.g. a rocker switch) further without
// colliding with an already-assigned dSUID.
const DSUIDIndexStep = 2

// ForEnoceanDevice derives the dSUID for an EnOcean device from its 32-bit
// address and subdevice index, matching the original implementation's
// "xxxxxxxx" (8 hex digit, uppercase) name-in-namespace convention.
func ForEnoceanDevice(address uint32, subDevice uint8) DSUID {
	name := fmt.Sprintf("%08X", address)
	return FromNameInSpace(name, EnoceanNamespace, subDevice*DSUIDIndexStep)
}

// FromNameInSpace builds a UUIDv5 dSUID: SHA-1 over namespace+name, with
// the RFC 4122 version/variant bits fixed up by the uuid package, and
// subdeviceIndex as the trailing byte.
func FromNameInSpace(name string, namespace uuid.UUID, subdeviceIndex uint8) DSUID {
	id := uuid.NewSHA1(namespace, []byte(name))
	var d DSUID
	copy(d[:16], id[:])
	d[16] = subdeviceIndex
	return d
}

// SGTIN96 builds an SGTIN96-family dSUID from a GS1 company prefix, item
// reference, partition value, and serial number. This family is not
// emitted by EnOcean devices in this core (see FromNameInSpace) but is
// kept for other device classes layered on the same dSUID scheme.
func SGTIN96(companyPrefix, itemRef uint64, partition uint8, serial uint64, subdeviceIndex uint8) DSUID {
	const sgtin96Header = 0x30
	var d DSUID
	d[0] = sgtin96Header
	d[1] = partition<<5 | byte(companyPrefix>>39)
	d[2] = byte(companyPrefix >> 31)
	d[3] = byte(companyPrefix >> 23)
	d[4] = byte(companyPrefix >> 15)
	d[5] = byte(companyPrefix >> 7)
	d[6] = byte(companyPrefix<<1) | byte(itemRef>>37)
	d[7] = byte(itemRef >> 29)
	d[8] = byte(itemRef >> 21)
	d[9] = byte(itemRef >> 13)
	d[10] = byte(itemRef >> 5)
	d[11] = byte(itemRef<<3) | byte(serial>>35)
	d[12] = byte(serial >> 27)
	d[13] = byte(serial >> 19)
	d[14] = byte(serial >> 11)
	d[15] = byte(serial >> 3)
	d[16] = subdeviceIndex
	return d
}

// WithSubdeviceIndex returns a copy of d with its trailing subdevice index
// byte replaced.
func (d DSUID) WithSubdeviceIndex(subdeviceIndex uint8) DSUID {
	out := d
	out[16] = subdeviceIndex
	return out
}

// SubdeviceIndex returns the trailing subdevice index byte.
func (d DSUID) SubdeviceIndex() uint8 {
	return d[16]
}

// String returns the 34-hex-digit representation used on the wire/in logs.
func (d DSUID) String() string {
	return hex.EncodeToString(d[:])
}

// Parse parses a 34-hex-digit dSUID string.
func Parse(s string) (DSUID, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return DSUID{}, fmt.Errorf("dsuid: %w", err)
	}
	if len(b) != Size {
		return DSUID{}, fmt.Errorf("dsuid: expected %d bytes, got %d", Size, len(b))
	}
	var d DSUID
	copy(d[:], b)
	return d, nil
}
