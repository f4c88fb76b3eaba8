package sensortable_test

import (
	"testing"

	"github.com/evdc-project/enocean-vdc/internal/eep/sensortable"
)

func TestBitsExtractorSingleByte(t *testing.T) {
	t.Parallel()
	d := sensortable.Descriptor{MSBit: sensortable.DB(1, 7), LSBit: sensortable.DB(1, 0)}
	data := []byte{0x00, 0x00, 0xAB, 0x00} // DB_3 DB_2 DB_1 DB_0
	if v := sensortable.BitsExtractor(d, data); v != 0xAB {
		t.Errorf("BitsExtractor() = %#x, want 0xab", v)
	}
}

func TestBitsExtractorSpanningBytes(t *testing.T) {
	t.Parallel()
	d := sensortable.Descriptor{MSBit: sensortable.DB(2, 1), LSBit: sensortable.DB(1, 0)}
	// DB_2 = 0b0000_0011 (bit1,bit0 set), DB_1 = 0xFF -> value should be
	// (DB_2 & 0x03) << 8 | DB_1 = 0x3FF
	data := []byte{0x00, 0x03, 0xFF, 0x00}
	if v := sensortable.BitsExtractor(d, data); v != 0x3FF {
		t.Errorf("BitsExtractor() = %#x, want 0x3ff", v)
	}
}

func TestInvSensorHandlerInverts(t *testing.T) {
	t.Parallel()
	d := sensortable.Descriptor{MSBit: sensortable.DB(1, 7), LSBit: sensortable.DB(1, 0)}
	data := []byte{0x00, 0x00, 0x00, 0x00}
	if v := sensortable.InvSensorHandler(d, data); v != 0xFF {
		t.Errorf("InvSensorHandler() = %v, want 255", v)
	}
}

func TestStdInputHandlerReportsMaxWhenSet(t *testing.T) {
	t.Parallel()
	d := sensortable.Descriptor{LSBit: sensortable.DB(0, 7), Min: 0, Max: 1}
	data := []byte{0x00, 0x00, 0x00, 0x80}
	if v := sensortable.StdInputHandler(d, data); v != 1 {
		t.Errorf("StdInputHandler() = %v, want 1", v)
	}
}

func TestStdInputHandlerReportsMinWhenClear(t *testing.T) {
	t.Parallel()
	d := sensortable.Descriptor{LSBit: sensortable.DB(0, 7), Min: 0, Max: 1}
	data := []byte{0x00, 0x00, 0x00, 0x00}
	if v := sensortable.StdInputHandler(d, data); v != 0 {
		t.Errorf("StdInputHandler() = %v, want 0", v)
	}
}

func TestIllumHandlerLowRangeHighRes(t *testing.T) {
	t.Parallel()
	data := []byte{0x00, 0x42, 0x00, 0x01} // DB_0 bit0 set -> DB_2 value as-is
	if v := sensortable.IllumHandler(sensortable.Descriptor{}, data); v != 0x42 {
		t.Errorf("IllumHandler() = %v, want 0x42", v)
	}
}

func TestIllumHandlerHighRangeLowRes(t *testing.T) {
	t.Parallel()
	data := []byte{0x00, 0x00, 0x10, 0x00} // DB_0 bit0 clear -> DB_1 * 2
	if v := sensortable.IllumHandler(sensortable.Descriptor{}, data); v != 0x20 {
		t.Errorf("IllumHandler() = %v, want 0x20", v)
	}
}

func TestFanSpeedHandlerStages(t *testing.T) {
	t.Parallel()
	d := sensortable.Descriptor{MSBit: sensortable.DB(3, 7), LSBit: sensortable.DB(3, 0)}
	cases := []struct {
		raw  byte
		want float64
	}{
		{255, -1},
		{200, 0},
		{170, 1.0 / 3},
		{150, 2.0 / 3},
		{50, 1},
	}
	for _, c := range cases {
		data := []byte{c.raw, 0, 0, 0}
		if v := sensortable.FanSpeedHandler(d, data); v != c.want {
			t.Errorf("FanSpeedHandler(%d) = %v, want %v", c.raw, v, c.want)
		}
	}
}

func TestPowerMeterHandlerScaling(t *testing.T) {
	t.Parallel()
	data := []byte{0x00, 0x00, 0x64, 0x05} // value=100, scale=10, power bit set
	v, isPower := sensortable.PowerMeterHandler(sensortable.Descriptor{}, data)
	if !isPower {
		t.Error("expected isPower=true")
	}
	if v != 10 {
		t.Errorf("PowerMeterHandler value = %v, want 10", v)
	}
}

func TestLookupAndSubDeviceCount(t *testing.T) {
	t.Parallel()
	table := []sensortable.Descriptor{
		{Func: 0x02, Type: 0x05, SubDevice: 0},
		{Func: 0x10, Type: 0x06, SubDevice: 0},
		{Func: 0x10, Type: 0x06, SubDevice: 1},
	}
	if got := sensortable.Lookup(table, 0, 0x10, 0x06, 0); len(got) != 1 {
		t.Fatalf("Lookup() returned %d descriptors, want 1", len(got))
	}
	if got := sensortable.SubDeviceCount(table, 0, 0x10, 0x06); got != 2 {
		t.Errorf("SubDeviceCount() = %d, want 2", got)
	}
}
