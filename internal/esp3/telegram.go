package esp3

import "errors"

// ErrNotRadioTelegram is returned when a method that requires a RADIO
// (or RADIO_SUB_TEL) frame is called on a frame of a different type.
var ErrNotRadioTelegram = errors.New("esp3: not a radio telegram frame")

// ErrShortRadioOptData is returned when a radio frame's optional data does
// not carry the expected subtelegram/destination/dBm/security fields.
var ErrShortRadioOptData = errors.New("esp3: short radio telegram optional data")

// radioOptDataLen is the standard ESP3 optional-data layout for radio
// telegrams: 1 byte subtelegram count, 4 bytes destination address, 1 byte
// dBm, 1 byte security level.
const radioOptDataLen = 7

// RadioTelegram wraps a decoded Frame of type RADIO or RADIO_SUB_TEL and
// exposes the EnOcean radio telegram fields layered on top of it.
type RadioTelegram struct {
	Frame
}

// AsRadioTelegram views f as a radio telegram, validating its type and
// optional-data length.
func AsRadioTelegram(f Frame) (RadioTelegram, error) {
	if f.Type != PacketTypeRadio && f.Type != PacketTypeRadioSubTel {
		return RadioTelegram{}, ErrNotRadioTelegram
	}
	if len(f.OptData) < radioOptDataLen {
		return RadioTelegram{}, ErrShortRadioOptData
	}
	return RadioTelegram{Frame: f}, nil
}

// RORG returns the telegram's radio organisation byte: the first byte of
// the radio user data, or RORGInvalid if the telegram carries none.
func (t RadioTelegram) RORG() RORG {
	if len(t.Data) == 0 {
		return RORGInvalid
	}
	return RORG(t.Data[0])
}

// UserData returns the radio user data bytes, i.e. everything in Data
// after the leading RORG byte and before the trailing sender
// address/status bytes.
func (t RadioTelegram) UserData() []byte {
	const senderAndStatusLen = 5 // 4 address bytes + 1 status byte
	if len(t.Data) < 1+senderAndStatusLen {
		return nil
	}
	return t.Data[1 : len(t.Data)-senderAndStatusLen]
}

// Sender returns the sending device's 32-bit EnOcean address.
func (t RadioTelegram) Sender() Address {
	n := len(t.Data)
	const senderAndStatusLen = 5
	if n < senderAndStatusLen {
		return 0
	}
	b := t.Data[n-senderAndStatusLen : n-1]
	return Address(uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]))
}

// Status returns the trailing radio status byte.
func (t RadioTelegram) Status() byte {
	n := len(t.Data)
	if n == 0 {
		return 0
	}
	return t.Data[n-1]
}

// SubtelegramCount returns the subtelegram count from the optional data.
func (t RadioTelegram) SubtelegramCount() uint8 {
	return t.OptData[0]
}

// Destination returns the destination address from the optional data.
func (t RadioTelegram) Destination() Address {
	b := t.OptData[1:5]
	return Address(uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]))
}

// DBm returns the received signal strength in dBm (negative; closer to
// zero is stronger).
func (t RadioTelegram) DBm() int {
	return -int(t.OptData[5])
}

// SecurityLevel returns the security level byte from the optional data.
func (t RadioTelegram) SecurityLevel() byte {
	return t.OptData[6]
}

// RepeaterCount extracts the repeater count from an RPS/1BS status byte.
func (t RadioTelegram) RepeaterCount() byte {
	return t.Status() & StatusRepeaterCountMask
}

// Data4BS returns the four 4BS data bytes (DB_3..DB_0, MSB first) from the
// radio user data. It does not check RORG(): for any other telegram it
// returns the first four user data bytes, zero-padded if there are fewer.
func (t RadioTelegram) Data4BS() [4]byte {
	ud := t.UserData()
	var out [4]byte
	copy(out[:], ud)
	return out
}

// DataByte0 returns the first 4BS/1BS data byte (DB_0), the byte that
// carries the LRN bit for learn-in detection.
func (t RadioTelegram) DataByte0() byte {
	ud := t.UserData()
	if len(ud) == 0 {
		return 0
	}
	return ud[len(ud)-1]
}

// NewRadioFrame builds an outgoing RADIO frame for rorg with the given
// user data (not including the RORG byte), sender address, and status
// byte. Destination defaults to broadcast.
func NewRadioFrame(rorg RORG, userData []byte, sender Address, status byte) Frame {
	data := make([]byte, 0, 1+len(userData)+5)
	data = append(data, byte(rorg))
	data = append(data, userData...)
	data = append(data,
		byte(sender>>24), byte(sender>>16), byte(sender>>8), byte(sender),
		status,
	)

	optData := []byte{
		1, // subtelegram count
		byte(AddressBroadcast >> 24 & 0xFF), byte(AddressBroadcast >> 16 & 0xFF), byte(AddressBroadcast >> 8 & 0xFF), byte(AddressBroadcast & 0xFF),
		0xFF, // dBm: send telegrams don't carry a measured RSSI
		0,    // security level
	}

	return Frame{Type: PacketTypeRadio, Data: data, OptData: optData}
}

// NewDirectedRadioFrame builds an outgoing RADIO frame exactly like
// NewRadioFrame, but addressed to destination instead of broadcast. Used for
// actuator commands that must reach one specific device rather than every
// receiver in range.
func NewDirectedRadioFrame(rorg RORG, userData []byte, sender, destination Address, status byte) Frame {
	f := NewRadioFrame(rorg, userData, sender, status)
	f.OptData[1] = byte(destination >> 24)
	f.OptData[2] = byte(destination >> 16)
	f.OptData[3] = byte(destination >> 8)
	f.OptData[4] = byte(destination)
	return f
}
