package fourbs_test

import (
	"testing"

	"github.com/evdc-project/enocean-vdc/internal/eep/fourbs"
)

func TestDecodeValveStatus(t *testing.T) {
	t.Parallel()
	// DB_3=42 (actual %), DB_2 = serviceOn|energyInput|energyStorage|batteryOK
	data := [4]byte{42, 0xF0, 0x00, 0x00}
	s := fourbs.DecodeValveStatus(data)
	if s.ActualPositionPercent != 42 {
		t.Errorf("ActualPositionPercent = %d, want 42", s.ActualPositionPercent)
	}
	if !s.ServiceOn || !s.EnergyInputEnabled || !s.EnergyStorageCharged || !s.BatteryOK {
		t.Errorf("expected all status bits from 0xF0 set, got %+v", s)
	}
	if s.Obstructed || s.WindowOpenDetected || s.SensorFailure || s.CoverOpen {
		t.Errorf("expected low bits clear, got %+v", s)
	}
}

func TestValveControllerNormalOperation(t *testing.T) {
	t.Parallel()
	var c fourbs.ValveController
	data := c.BuildOutgoing(75, false, false, false)
	if data[0] != 75 {
		t.Errorf("DB_3 = %d, want 75", data[0])
	}
	if data[2]&(1<<0) != 0 {
		t.Error("expected service-on bit clear during normal operation")
	}
}

func TestValveControllerIdleSetsSummerBit(t *testing.T) {
	t.Parallel()
	var c fourbs.ValveController
	data := c.BuildOutgoing(20, false, true, false)
	if data[2]&(1<<3) == 0 {
		t.Error("expected idle/summer bit set")
	}
}

func TestValveControllerProphylaxisCycle(t *testing.T) {
	t.Parallel()
	var c fourbs.ValveController
	open := c.BuildOutgoing(50, false, false, true)
	if open[2]&(1<<5) == 0 || open[2]&(1<<0) == 0 {
		t.Fatalf("expected force-open + service-on bits, got %08b", open[2])
	}
	if c.State != fourbs.ValveServiceCloseValve {
		t.Fatalf("expected state CloseValve after open step, got %v", c.State)
	}
	closeStep := c.BuildOutgoing(50, false, false, false)
	if closeStep[2]&(1<<4) == 0 {
		t.Fatalf("expected force-close bit, got %08b", closeStep[2])
	}
	if c.State != fourbs.ValveServiceIdle {
		t.Fatalf("expected state Idle after close step, got %v", c.State)
	}
}

func TestValveControllerBinaryVariantHysteresis(t *testing.T) {
	t.Parallel()
	c := fourbs.ValveController{LastRequestedPercent: 30, LastAppliedPercent: 49}
	data := c.BuildOutgoing(45, true, false, false)
	if data[0] != 51 {
		t.Errorf("increasing request at or below 50%% should clamp to 51, got %d", data[0])
	}
	data = c.BuildOutgoing(45, true, false, false)
	if data[0] != 51 {
		t.Errorf("unchanged request should repeat last applied value (51), got %d", data[0])
	}
}

func TestWeatherStationIdentifierDispatch(t *testing.T) {
	t.Parallel()
	basic := [4]byte{0, 0, 0, 0x10} // identifier 1 in DB_0 bits 7..4
	if got := fourbs.WeatherStationIdentifier(basic); got != fourbs.WeatherStationTelegramBasic {
		t.Fatalf("WeatherStationIdentifier() = %d, want 1", got)
	}
	channels := fourbs.WeatherStationChannels(basic)
	if len(channels) != 5 {
		t.Fatalf("expected 5 channels for basic telegram, got %d", len(channels))
	}

	sun := [4]byte{0, 0, 0, 0x20}
	channels = fourbs.WeatherStationChannels(sun)
	if len(channels) != 3 {
		t.Fatalf("expected 3 channels for sun telegram, got %d", len(channels))
	}

	unsupported := [4]byte{0, 0, 0, 0x30}
	if channels := fourbs.WeatherStationChannels(unsupported); channels != nil {
		t.Errorf("expected nil channels for unsupported identifier, got %v", channels)
	}
}
