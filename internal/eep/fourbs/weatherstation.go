package fourbs

import "github.com/evdc-project/enocean-vdc/internal/eep/sensortable"

// A5-13-0X is a multi-telegram profile: the environmental multisensor
// alternates between a "basic" (identifier 1) and a "sun" (identifier 2)
// telegram, distinguished by DB_0 bits 7..4, each carrying a different set
// of channels over the same four data bytes.
const (
	WeatherStationTelegramBasic = 1
	WeatherStationTelegramSun   = 2
)

// These are the channel descriptors for both A5-13-01
// (dawn/outdoor temperature/wind speed/day+rain indicators) and A5-13-02
// (west/south/east sun sensors) telegrams. Unlike the generic descriptor
// table, these aren't selected by FUNC/TYPE/SubDevice alone - the caller
// picks basic vs. sun by WeatherStationIdentifier first.
var (
	WeatherStationDawn = sensortable.Descriptor{
		Func: 0x13, Type: 0x01, PrimaryGroup: sensortable.GroupBlackJoker, ChannelGroup: sensortable.GroupBlackJoker,
		BehaviourType: sensortable.BehaviourSensor, SensorType: sensortable.SensorTypeIllumination, Usage: sensortable.UsageOutdoors,
		Min: 0, Max: 999, MSBit: sensortable.DB(3, 7), LSBit: sensortable.DB(3, 0),
		UpdateInterval: 100, AliveSignInterval: 40 * 60, Handler: sensortable.StdSensorHandler,
		TypeText: "Illumination", UnitText: "lx",
	}
	WeatherStationOutdoorTemp = sensortable.Descriptor{
		Func: 0x13, Type: 0x01, PrimaryGroup: sensortable.GroupBlackJoker, ChannelGroup: sensortable.GroupBlackJoker,
		BehaviourType: sensortable.BehaviourSensor, SensorType: sensortable.SensorTypeTemperature, Usage: sensortable.UsageOutdoors,
		Min: -40, Max: 80, MSBit: sensortable.DB(2, 7), LSBit: sensortable.DB(2, 0),
		UpdateInterval: 100, AliveSignInterval: 40 * 60, Handler: sensortable.StdSensorHandler,
		TypeText: "Temperature", UnitText: "°C",
	}
	WeatherStationWindSpeed = sensortable.Descriptor{
		Func: 0x13, Type: 0x01, PrimaryGroup: sensortable.GroupBlackJoker, ChannelGroup: sensortable.GroupBlackJoker,
		BehaviourType: sensortable.BehaviourSensor, SensorType: sensortable.SensorTypeWindSpeed, Usage: sensortable.UsageOutdoors,
		Min: 0, Max: 70, MSBit: sensortable.DB(1, 7), LSBit: sensortable.DB(1, 0),
		UpdateInterval: 100, AliveSignInterval: 40 * 60, Handler: sensortable.StdSensorHandler,
		TypeText: "wind speed", UnitText: "m/s",
	}
	WeatherStationDayIndicator = sensortable.Descriptor{
		Func: 0x13, Type: 0x01, PrimaryGroup: sensortable.GroupBlackJoker, ChannelGroup: sensortable.GroupBlackJoker,
		BehaviourType: sensortable.BehaviourBinaryInput, BinaryInputType: sensortable.BinaryInputNone, Usage: sensortable.UsageOutdoors,
		Min: 1, Max: 0, MSBit: sensortable.DB(0, 2), LSBit: sensortable.DB(0, 2),
		UpdateInterval: 100, AliveSignInterval: 40 * 60, Handler: sensortable.StdInputHandler,
		TypeText: "Day indicator", UnitText: "",
	}
	WeatherStationRainIndicator = sensortable.Descriptor{
		Func: 0x13, Type: 0x01, PrimaryGroup: sensortable.GroupBlackJoker, ChannelGroup: sensortable.GroupBlackJoker,
		BehaviourType: sensortable.BehaviourBinaryInput, BinaryInputType: sensortable.BinaryInputNone, Usage: sensortable.UsageOutdoors,
		Min: 0, Max: 1, MSBit: sensortable.DB(0, 1), LSBit: sensortable.DB(0, 1),
		UpdateInterval: 100, AliveSignInterval: 40 * 60, Handler: sensortable.StdInputHandler,
		TypeText: "Rain indicator", UnitText: "",
	}
	WeatherStationSunWest = sensortable.Descriptor{
		Func: 0x13, Type: 0x02, PrimaryGroup: sensortable.GroupBlackJoker, ChannelGroup: sensortable.GroupBlackJoker,
		BehaviourType: sensortable.BehaviourSensor, SensorType: sensortable.SensorTypeIllumination, Usage: sensortable.UsageOutdoors,
		Min: 0, Max: 150000, MSBit: sensortable.DB(3, 7), LSBit: sensortable.DB(3, 0),
		UpdateInterval: 100, AliveSignInterval: 40 * 60, Handler: sensortable.StdSensorHandler,
		TypeText: "Sun west", UnitText: "lx",
	}
	WeatherStationSunSouth = sensortable.Descriptor{
		Func: 0x13, Type: 0x02, PrimaryGroup: sensortable.GroupBlackJoker, ChannelGroup: sensortable.GroupBlackJoker,
		BehaviourType: sensortable.BehaviourSensor, SensorType: sensortable.SensorTypeIllumination, Usage: sensortable.UsageOutdoors,
		Min: 0, Max: 150000, MSBit: sensortable.DB(2, 7), LSBit: sensortable.DB(2, 0),
		UpdateInterval: 100, AliveSignInterval: 40 * 60, Handler: sensortable.StdSensorHandler,
		TypeText: "Sun south", UnitText: "lx",
	}
	WeatherStationSunEast = sensortable.Descriptor{
		Func: 0x13, Type: 0x02, PrimaryGroup: sensortable.GroupBlackJoker, ChannelGroup: sensortable.GroupBlackJoker,
		BehaviourType: sensortable.BehaviourSensor, SensorType: sensortable.SensorTypeIllumination, Usage: sensortable.UsageOutdoors,
		Min: 0, Max: 150000, MSBit: sensortable.DB(1, 7), LSBit: sensortable.DB(1, 0),
		UpdateInterval: 100, AliveSignInterval: 40 * 60, Handler: sensortable.StdSensorHandler,
		TypeText: "Sun east", UnitText: "lx",
	}
)

// WeatherStationIdentifier extracts the sub-telegram identifier (DB_0 bits
// 7..4) that distinguishes an A5-13-01 "basic" telegram from an A5-13-02
// "sun" telegram.
func WeatherStationIdentifier(data [4]byte) int {
	return int(data[3]>>4) & 0x0F
}

// WeatherStationChannels returns the descriptors carried by this telegram,
// selected by its identifier; A5-13-03..06 are not decoded (nil).
func WeatherStationChannels(data [4]byte) []sensortable.Descriptor {
	switch WeatherStationIdentifier(data) {
	case WeatherStationTelegramBasic:
		return []sensortable.Descriptor{
			WeatherStationDawn, WeatherStationOutdoorTemp, WeatherStationWindSpeed,
			WeatherStationDayIndicator, WeatherStationRainIndicator,
		}
	case WeatherStationTelegramSun:
		return []sensortable.Descriptor{WeatherStationSunWest, WeatherStationSunSouth, WeatherStationSunEast}
	default:
		return nil
	}
}
