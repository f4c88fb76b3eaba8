package esp3_test

import (
	"testing"

	"github.com/evdc-project/enocean-vdc/internal/esp3"
)

func TestRadioTelegram4BSRoundTrip(t *testing.T) {
	t.Parallel()
	userData := []byte{0x12, 0x34, 0x56, 0x08} // DB_3..DB_0, LRN bit set in DB_0
	f := esp3.NewRadioFrame(esp3.RORG4BS, userData, esp3.Address(0x0580A1B2), 0x00)

	rt, err := esp3.AsRadioTelegram(f)
	if err != nil {
		t.Fatalf("AsRadioTelegram() error = %v", err)
	}
	if rt.RORG() != esp3.RORG4BS {
		t.Errorf("RORG() = %v, want 4BS", rt.RORG())
	}
	if rt.Sender() != esp3.Address(0x0580A1B2) {
		t.Errorf("Sender() = %#x, want 0x0580a1b2", rt.Sender())
	}
	if got := rt.Data4BS(); got != [4]byte{0x12, 0x34, 0x56, 0x08} {
		t.Errorf("Data4BS() = %x, want 12 34 56 08", got)
	}
	if rt.DataByte0()&esp3.LrnBitMask == 0 {
		t.Errorf("expected LRN bit set in DB_0")
	}
	if rt.Destination() != esp3.AddressBroadcast {
		t.Errorf("Destination() = %#x, want broadcast", rt.Destination())
	}
}

func TestAsRadioTelegramRejectsWrongType(t *testing.T) {
	t.Parallel()
	f := esp3.Frame{Type: esp3.PacketTypeCommonCommand, Data: []byte{0x03}}
	_, err := esp3.AsRadioTelegram(f)
	if err != esp3.ErrNotRadioTelegram {
		t.Errorf("AsRadioTelegram() error = %v, want ErrNotRadioTelegram", err)
	}
}

func TestAsRadioTelegramRejectsShortOptData(t *testing.T) {
	t.Parallel()
	f := esp3.Frame{Type: esp3.PacketTypeRadio, Data: []byte{byte(esp3.RORGRPS)}, OptData: []byte{1, 2}}
	_, err := esp3.AsRadioTelegram(f)
	if err != esp3.ErrShortRadioOptData {
		t.Errorf("AsRadioTelegram() error = %v, want ErrShortRadioOptData", err)
	}
}

func TestDBmIsNegative(t *testing.T) {
	t.Parallel()
	f := esp3.Frame{
		Type:    esp3.PacketTypeRadio,
		Data:    []byte{byte(esp3.RORGRPS), 0x00, 0x00, 0x00, 0x00, 0x01, 0x30},
		OptData: []byte{1, 0xFF, 0xFF, 0xFF, 0xFF, 0x40, 0x00},
	}
	rt, err := esp3.AsRadioTelegram(f)
	if err != nil {
		t.Fatalf("AsRadioTelegram() error = %v", err)
	}
	if rt.DBm() != -64 {
		t.Errorf("DBm() = %d, want -64", rt.DBm())
	}
}
