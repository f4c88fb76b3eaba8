package eep

import "github.com/evdc-project/enocean-vdc/internal/esp3"

// manufacturerNames maps EEP manufacturer codes to vendor names, used only
// for friendlier log/status output - it has no effect on decoding.
var manufacturerNames = map[esp3.Manufacturer]string{
	0x001: "Peha",
	0x002: "Thermokon",
	0x003: "Servodan",
	0x004: "Eco-Sensors",
	0x005: "Awag",
	0x006: "Permundo",
	0x007: "Eltako",
	0x008: "Valeo",
	0x00A: "Relvision",
	0x00B: "Thomas Technik",
	0x00C: "Afriso Euro-Index",
	0x010: "NEC AccessTechnica",
	0x011: "Itho Daalderop",
	0x017: "Zent-Frenger",
	0x018: "Unitronic",
	0x019: "Dmoba",
	0x01A: "Holter",
	0x01B: "Somfy",
	0x01C: "Siemens",
	0x01D: "Honeywell",
	0x01E: "Spartan Peripheral Devices",
	0x01F: "Siegenia-Aubi",
	0x020: "Eltako (LEDs)",
	0x021: "Leviton",
	0x022: "Fischer",
	0x023: "Stanley Black&Decker",
	0x024: "Tridonic",
	0x025: "Alphaeos",
	0x026: "Silvair",
	0x027: "Feller",
	0x028: "Forst",
	0x029: "Southco",
	0x02A: "ASPropertyGuys",
	0x02B: "Masco",
	0x02C: "Intesis",
	0x02D: "Viessmann",
	0x02E: "Lutuo Technology",
	0x02F: "Can2Go",
	0x7FF: "Multi User Manufacturer",
}

// ManufacturerName returns the friendly vendor name for an EEP manufacturer
// code, or "" if unknown.
func ManufacturerName(m esp3.Manufacturer) string {
	return manufacturerNames[m]
}
