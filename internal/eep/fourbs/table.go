// Package fourbs holds the 4BS (RORG 0xA5) descriptor table and the
// special per-profile handlers (heating valve, weather station) that the
// generic descriptor codec cannot express as a single bit field.
package fourbs

import "github.com/evdc-project/enocean-vdc/internal/eep/sensortable"

// Descriptors is the 4BS channel table: each EEP variant/func/type may
// contribute one or more channels, optionally split across subdevices.
// A terminator entry (zero Handler) is not needed in Go - callers use
// sensortable.Lookup/SubDeviceCount over the full slice instead of walking
// a NULL-terminated C array.
var Descriptors = []sensortable.Descriptor{
	// A5-02-*: temperature sensors, inverted linear scale: 8-bit in DB_1,
	// 10-bit across DB_2/DB_1 for A5-02-20.
	{Func: 0x02, Type: 0x01, PrimaryGroup: sensortable.GroupBlueHeating, ChannelGroup: sensortable.GroupRoomTemperatureControl,
		BehaviourType: sensortable.BehaviourSensor, SensorType: sensortable.SensorTypeTemperature, Usage: sensortable.UsageUndefined,
		Min: -40, Max: 0, MSBit: sensortable.DB(1, 7), LSBit: sensortable.DB(1, 0),
		UpdateInterval: 100, AliveSignInterval: 40 * 60, Handler: sensortable.InvSensorHandler,
		TypeText: "Temperature", UnitText: "°C"},
	{Func: 0x02, Type: 0x05, PrimaryGroup: sensortable.GroupBlueHeating, ChannelGroup: sensortable.GroupRoomTemperatureControl,
		BehaviourType: sensortable.BehaviourSensor, SensorType: sensortable.SensorTypeTemperature, Usage: sensortable.UsageRoom,
		Min: 0, Max: 40, MSBit: sensortable.DB(1, 7), LSBit: sensortable.DB(1, 0),
		UpdateInterval: 100, AliveSignInterval: 40 * 60, Handler: sensortable.InvSensorHandler,
		TypeText: "Temperature", UnitText: "°C"},
	{Func: 0x02, Type: 0x20, PrimaryGroup: sensortable.GroupBlueHeating, ChannelGroup: sensortable.GroupRoomTemperatureControl,
		BehaviourType: sensortable.BehaviourSensor, SensorType: sensortable.SensorTypeTemperature, Usage: sensortable.UsageRoom,
		Min: -10, Max: 41.2, MSBit: sensortable.DB(2, 1), LSBit: sensortable.DB(1, 0),
		UpdateInterval: 100, AliveSignInterval: 40 * 60, Handler: sensortable.InvSensorHandler,
		TypeText: "Temperature", UnitText: "°C"},

	// A5-04-01: room temperature + humidity combo sensor.
	{Func: 0x04, Type: 0x01, PrimaryGroup: sensortable.GroupBlueHeating, ChannelGroup: sensortable.GroupRoomTemperatureControl,
		BehaviourType: sensortable.BehaviourSensor, SensorType: sensortable.SensorTypeTemperature, Usage: sensortable.UsageRoom,
		Min: 0, Max: 40.8, MSBit: sensortable.DB(1, 7), LSBit: sensortable.DB(1, 0),
		UpdateInterval: 100, AliveSignInterval: 40 * 60, Handler: sensortable.StdSensorHandler,
		TypeText: "Temperature", UnitText: "°C"},
	{Func: 0x04, Type: 0x01, PrimaryGroup: sensortable.GroupBlueHeating, ChannelGroup: sensortable.GroupRoomTemperatureControl,
		BehaviourType: sensortable.BehaviourSensor, SensorType: sensortable.SensorTypeHumidity, Usage: sensortable.UsageRoom,
		Min: 0, Max: 102, MSBit: sensortable.DB(2, 7), LSBit: sensortable.DB(2, 0),
		UpdateInterval: 100, AliveSignInterval: 40 * 60, Handler: sensortable.StdSensorHandler,
		TypeText: "Humidity", UnitText: "%"},
	{Func: 0x04, Type: 0x02, PrimaryGroup: sensortable.GroupBlueHeating, ChannelGroup: sensortable.GroupRoomTemperatureControl,
		BehaviourType: sensortable.BehaviourSensor, SensorType: sensortable.SensorTypeTemperature, Usage: sensortable.UsageOutdoors,
		Min: -20, Max: 61.6, MSBit: sensortable.DB(1, 7), LSBit: sensortable.DB(1, 0),
		UpdateInterval: 100, AliveSignInterval: 40 * 60, Handler: sensortable.StdSensorHandler,
		TypeText: "Temperature", UnitText: "°C"},

	// A5-06-01/02: dual-range illumination (A5-06-03 uses a plain bit field
	// instead, see below).
	{Func: 0x06, Type: 0x01, PrimaryGroup: sensortable.GroupBlackJoker, ChannelGroup: sensortable.GroupYellowLight,
		BehaviourType: sensortable.BehaviourSensor, SensorType: sensortable.SensorTypeIllumination, Usage: sensortable.UsageOutdoors,
		Min: 600, Max: 60000, MSBit: sensortable.DB(2, 0), LSBit: sensortable.DB(1, 0),
		UpdateInterval: 100, AliveSignInterval: 40 * 60, Handler: sensortable.IllumHandler,
		TypeText: "Illumination", UnitText: "lx"},
	{Func: 0x06, Type: 0x02, PrimaryGroup: sensortable.GroupBlackJoker, ChannelGroup: sensortable.GroupYellowLight,
		BehaviourType: sensortable.BehaviourSensor, SensorType: sensortable.SensorTypeIllumination, Usage: sensortable.UsageRoom,
		Min: 0, Max: 1024, MSBit: sensortable.DB(2, 0), LSBit: sensortable.DB(1, 0),
		UpdateInterval: 100, AliveSignInterval: 40 * 60, Handler: sensortable.IllumHandler,
		TypeText: "Illumination", UnitText: "lx"},
	{Func: 0x06, Type: 0x03, PrimaryGroup: sensortable.GroupBlackJoker, ChannelGroup: sensortable.GroupYellowLight,
		BehaviourType: sensortable.BehaviourSensor, SensorType: sensortable.SensorTypeIllumination, Usage: sensortable.UsageRoom,
		Min: 0, Max: 1024, MSBit: sensortable.DB(2, 7), LSBit: sensortable.DB(1, 6),
		UpdateInterval: 100, AliveSignInterval: 40 * 60, Handler: sensortable.StdSensorHandler,
		TypeText: "Illumination", UnitText: "lx"},

	// A5-07-01/03: occupancy/motion PIR sensors (A5-07-03 adds illumination).
	{Func: 0x07, Type: 0x01, PrimaryGroup: sensortable.GroupBlackJoker, ChannelGroup: sensortable.GroupBlackJoker,
		BehaviourType: sensortable.BehaviourBinaryInput, BinaryInputType: sensortable.BinaryInputMotion, Usage: sensortable.UsageRoom,
		Min: 0, Max: 1, MSBit: sensortable.DB(1, 7), LSBit: sensortable.DB(1, 7),
		UpdateInterval: 100, AliveSignInterval: 40 * 60, Handler: sensortable.StdInputHandler,
		TypeText: "Motion", UnitText: ""},
	{Func: 0x07, Type: 0x03, PrimaryGroup: sensortable.GroupBlackJoker, ChannelGroup: sensortable.GroupBlackJoker,
		BehaviourType: sensortable.BehaviourBinaryInput, BinaryInputType: sensortable.BinaryInputMotion, Usage: sensortable.UsageRoom,
		Min: 0, Max: 1, MSBit: sensortable.DB(0, 7), LSBit: sensortable.DB(0, 7),
		UpdateInterval: 100, AliveSignInterval: 40 * 60, Handler: sensortable.StdInputHandler,
		TypeText: "Motion", UnitText: ""},
	{Func: 0x07, Type: 0x03, PrimaryGroup: sensortable.GroupBlackJoker, ChannelGroup: sensortable.GroupYellowLight,
		BehaviourType: sensortable.BehaviourSensor, SensorType: sensortable.SensorTypeIllumination, Usage: sensortable.UsageRoom,
		Min: 0, Max: 1024, MSBit: sensortable.DB(2, 7), LSBit: sensortable.DB(1, 6),
		UpdateInterval: 100, AliveSignInterval: 40 * 60, Handler: sensortable.StdSensorHandler,
		TypeText: "Illumination", UnitText: "lx"},

	// A5-08-01: combined illumination/temperature/motion/occupancy sensor.
	{Func: 0x08, Type: 0x01, PrimaryGroup: sensortable.GroupBlackJoker, ChannelGroup: sensortable.GroupYellowLight,
		BehaviourType: sensortable.BehaviourSensor, SensorType: sensortable.SensorTypeIllumination, Usage: sensortable.UsageRoom,
		Min: 0, Max: 510, MSBit: sensortable.DB(2, 7), LSBit: sensortable.DB(2, 0),
		UpdateInterval: 100, AliveSignInterval: 40 * 60, Handler: sensortable.StdSensorHandler,
		TypeText: "Illumination", UnitText: "lx"},
	{Func: 0x08, Type: 0x01, PrimaryGroup: sensortable.GroupBlackJoker, ChannelGroup: sensortable.GroupRoomTemperatureControl,
		BehaviourType: sensortable.BehaviourSensor, SensorType: sensortable.SensorTypeTemperature, Usage: sensortable.UsageRoom,
		Min: 0, Max: 51, MSBit: sensortable.DB(1, 7), LSBit: sensortable.DB(1, 0),
		UpdateInterval: 100, AliveSignInterval: 40 * 60, Handler: sensortable.StdSensorHandler,
		TypeText: "Temperature", UnitText: "°C"},
	{Func: 0x08, Type: 0x01, PrimaryGroup: sensortable.GroupBlackJoker, ChannelGroup: sensortable.GroupBlackJoker,
		BehaviourType: sensortable.BehaviourBinaryInput, BinaryInputType: sensortable.BinaryInputMotion, Usage: sensortable.UsageRoom,
		Min: 1, Max: 0, MSBit: sensortable.DB(0, 1), LSBit: sensortable.DB(0, 1),
		UpdateInterval: 100, AliveSignInterval: 40 * 60, Handler: sensortable.StdInputHandler,
		TypeText: "Motion", UnitText: ""},
	{Func: 0x08, Type: 0x01, PrimaryGroup: sensortable.GroupBlackJoker, ChannelGroup: sensortable.GroupBlackJoker,
		BehaviourType: sensortable.BehaviourBinaryInput, BinaryInputType: sensortable.BinaryInputPresence, Usage: sensortable.UsageUser,
		Min: 1, Max: 0, MSBit: sensortable.DB(0, 0), LSBit: sensortable.DB(0, 0),
		UpdateInterval: 100, AliveSignInterval: 40 * 60, Handler: sensortable.StdInputHandler,
		TypeText: "Occupancy", UnitText: ""},

	// A5-10-06: room control panel with temperature, set point, and
	// day/night switch (subdevice 0). Only variant 0 is listed; there are
	// no variant-1 entries.
	{Func: 0x10, Type: 0x06, PrimaryGroup: sensortable.GroupBlueHeating, ChannelGroup: sensortable.GroupRoomTemperatureControl,
		BehaviourType: sensortable.BehaviourSensor, SensorType: sensortable.SensorTypeTemperature, Usage: sensortable.UsageRoom,
		Min: 0, Max: 40, MSBit: sensortable.DB(1, 7), LSBit: sensortable.DB(1, 0),
		UpdateInterval: 100, AliveSignInterval: 40 * 60, Handler: sensortable.InvSensorHandler,
		TypeText: "Temperature", UnitText: "°C"},
	{Func: 0x10, Type: 0x06, PrimaryGroup: sensortable.GroupBlueHeating, ChannelGroup: sensortable.GroupRoomTemperatureControl,
		BehaviourType: sensortable.BehaviourSensor, SensorType: sensortable.SensorTypeSetPoint, Usage: sensortable.UsageUser,
		Min: 0, Max: 1, MSBit: sensortable.DB(2, 7), LSBit: sensortable.DB(2, 0),
		UpdateInterval: 100, AliveSignInterval: 40 * 60, Handler: sensortable.StdSensorHandler,
		TypeText: "Set Point", UnitText: "units"},
	{Func: 0x10, Type: 0x06, PrimaryGroup: sensortable.GroupBlueHeating, ChannelGroup: sensortable.GroupRoomTemperatureControl,
		BehaviourType: sensortable.BehaviourBinaryInput, BinaryInputType: sensortable.BinaryInputDayNight, Usage: sensortable.UsageUser,
		Min: 0, Max: 1, MSBit: sensortable.DB(0, 0), LSBit: sensortable.DB(0, 0),
		UpdateInterval: 100, AliveSignInterval: 40 * 60, Handler: sensortable.StdInputHandler,
		TypeText: "Day/Night", UnitText: ""},

	// A5-10-01 room panel fan speed channel. The other fan-speed panel types
	// (A5-10-02/04/07/08/09) have no entry.
	{Func: 0x10, Type: 0x01, PrimaryGroup: sensortable.GroupBlueHeating, ChannelGroup: sensortable.GroupRoomTemperatureControl,
		BehaviourType: sensortable.BehaviourSensor, SensorType: sensortable.SensorTypeFanSpeed, Usage: sensortable.UsageRoom,
		Min: -1, Max: 1, MSBit: sensortable.DB(3, 7), LSBit: sensortable.DB(3, 0),
		UpdateInterval: 100, AliveSignInterval: 40 * 60, Handler: sensortable.FanSpeedHandler,
		TypeText: "Fan Speed", UnitText: "units"},

	// A5-12-01: cumulative/current power meter (24-bit value). These two
	// entries have no Handler: devices.sensorChannel decodes them with
	// PowerMeterHandler, and each one only takes the value when the
	// telegram's data-type bit matches its sensor type.
	{Func: 0x12, Type: 0x01, PrimaryGroup: sensortable.GroupBlackJoker, ChannelGroup: sensortable.GroupBlackJoker,
		BehaviourType: sensortable.BehaviourSensor, SensorType: sensortable.SensorTypeEnergy, Usage: sensortable.UsageUndefined,
		Min: 0, Max: 16777215, MSBit: sensortable.DB(3, 7), LSBit: sensortable.DB(1, 0),
		UpdateInterval: 100, AliveSignInterval: 40 * 60, TypeText: "Energy", UnitText: "Wh"},
	{Func: 0x12, Type: 0x01, PrimaryGroup: sensortable.GroupBlackJoker, ChannelGroup: sensortable.GroupBlackJoker,
		BehaviourType: sensortable.BehaviourSensor, SensorType: sensortable.SensorTypePower, Usage: sensortable.UsageUndefined,
		Min: 0, Max: 16777215, MSBit: sensortable.DB(3, 7), LSBit: sensortable.DB(1, 0),
		UpdateInterval: 100, AliveSignInterval: 40 * 60, TypeText: "Power", UnitText: "W"},
}
