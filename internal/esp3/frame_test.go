package esp3_test

import (
	"testing"

	"github.com/evdc-project/enocean-vdc/internal/esp3"
)

func TestCRC8KnownVectors(t *testing.T) {
	t.Parallel()
	// Header for a one-byte common-command read (CO_RD_VERSION):
	// data length 0x0001, opt data length 0x00, packet type 0x05 (common cmd).
	header := []byte{0x00, 0x01, 0x00, 0x05}
	got := esp3.CRC8(header, 0)
	// Recompute independently via the reference polynomial to cross-check.
	want := referenceCRC8(header, 0)
	if got != want {
		t.Errorf("CRC8(%x) = %#x, want %#x", header, got, want)
	}
}

func referenceCRC8(data []byte, seed byte) byte {
	const poly = 0x07
	crc := seed
	for _, b := range data {
		crc ^= b
		for i := 0; i < 8; i++ {
			if crc&0x80 != 0 {
				crc = crc<<1 ^ poly
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		f    esp3.Frame
	}{
		{"no opt data", esp3.Frame{Type: esp3.PacketTypeCommonCommand, Data: []byte{byte(esp3.CoRdVersion)}}},
		{"with opt data", esp3.Frame{
			Type:    esp3.PacketTypeRadio,
			Data:    []byte{byte(esp3.RORG4BS), 0x01, 0x02, 0x03, 0x04, 0x00, 0x12, 0x34, 0x56, 0x78, 0x00},
			OptData: []byte{1, 0xFF, 0xFF, 0xFF, 0xFF, 0x30, 0x00},
		}},
		{"empty everything", esp3.Frame{Type: esp3.PacketTypeCommonCommand}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			wire := tt.f.Encode()
			if wire[0] != esp3.SyncByte {
				t.Fatalf("encoded frame does not start with sync byte: %x", wire)
			}
			got, n, err := esp3.Decode(wire)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if n != len(wire) {
				t.Errorf("Decode() consumed %d bytes, want %d", n, len(wire))
			}
			if got.Type != tt.f.Type {
				t.Errorf("Type = %v, want %v", got.Type, tt.f.Type)
			}
			if string(got.Data) != string(tt.f.Data) {
				t.Errorf("Data = %x, want %x", got.Data, tt.f.Data)
			}
			if string(got.OptData) != string(tt.f.OptData) {
				t.Errorf("OptData = %x, want %x", got.OptData, tt.f.OptData)
			}
		})
	}
}

func TestDecodeShortFrame(t *testing.T) {
	t.Parallel()
	wire := esp3.Frame{Type: esp3.PacketTypeCommonCommand, Data: []byte{0x03}}.Encode()
	_, _, err := esp3.Decode(wire[:len(wire)-2])
	if err != esp3.ErrShortFrame {
		t.Errorf("Decode() error = %v, want ErrShortFrame", err)
	}
}

func TestDecodeBadHeaderCRC(t *testing.T) {
	t.Parallel()
	wire := esp3.Frame{Type: esp3.PacketTypeCommonCommand, Data: []byte{0x03}}.Encode()
	wire[5] ^= 0xFF // corrupt the header CRC byte
	_, consumed, err := esp3.Decode(wire)
	if err != esp3.ErrCRC8Header {
		t.Errorf("Decode() error = %v, want ErrCRC8Header", err)
	}
	if consumed != 1 {
		t.Errorf("Decode() consumed = %d, want 1 (resync past sync byte)", consumed)
	}
}

func TestDecodeBadDataCRC(t *testing.T) {
	t.Parallel()
	wire := esp3.Frame{Type: esp3.PacketTypeCommonCommand, Data: []byte{0x03, 0x01}}.Encode()
	wire[len(wire)-1] ^= 0xFF
	_, _, err := esp3.Decode(wire)
	if err != esp3.ErrCRC8Data {
		t.Errorf("Decode() error = %v, want ErrCRC8Data", err)
	}
}

func TestDecodeSkipsGarbageBeforeSync(t *testing.T) {
	t.Parallel()
	wire := append([]byte{0x00, 0x11, 0x22}, esp3.Frame{Type: esp3.PacketTypeCommonCommand, Data: []byte{0x03}}.Encode()...)
	_, n, err := esp3.Decode(wire)
	if err != esp3.ErrShortFrame {
		t.Fatalf("Decode() error = %v, want ErrShortFrame (resync)", err)
	}
	if n != 3 {
		t.Errorf("Decode() consumed = %d, want 3 (garbage prefix length)", n)
	}
}

func TestProfilePacking(t *testing.T) {
	t.Parallel()
	p := esp3.NewProfile(0x01, byte(esp3.RORG4BS), 0x20, 0x01)
	if p.RORG() != esp3.RORG4BS {
		t.Errorf("RORG() = %v, want %v", p.RORG(), esp3.RORG4BS)
	}
	if p.Func() != 0x20 {
		t.Errorf("Func() = %#x, want 0x20", p.Func())
	}
	if p.Type() != 0x01 {
		t.Errorf("Type() = %#x, want 0x01", p.Type())
	}
	if p.Variant() != 0x01 {
		t.Errorf("Variant() = %#x, want 0x01", p.Variant())
	}
	if p.Pure() != esp3.NewProfile(0, byte(esp3.RORG4BS), 0x20, 0x01) {
		t.Errorf("Pure() dropped variant incorrectly")
	}
}
