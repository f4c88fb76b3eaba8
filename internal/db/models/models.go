// Package models holds the persisted schema: the known-device table and
// the schema-version/settings-blob table gormigrate tracks migrations
// against.
package models

// KnownDevice is one persisted row of spec.md's knownDevices table: enough
// addressing info to rehydrate a learned device's registry entry (and,
// through the factory, its channel set) without needing another teach-in.
// The composite primary key mirrors knownDevices(enoceanAddress, subdevice).
type KnownDevice struct {
	EnoceanAddress uint32 `gorm:"primaryKey;column:enocean_address"`
	SubDevice      uint8  `gorm:"primaryKey;column:subdevice"`
	EEProfile      uint32 `gorm:"column:ee_profile"`
	EEManufacturer uint16 `gorm:"column:ee_manufacturer"`
}

func (KnownDevice) TableName() string { return "known_devices" }

// Glob is the schema-version/settings-blob table (spec.md §6's "globs"
// table): a single row tracking the current migration version plus an
// optional opaque settings blob with a CRC32 checksum column, matching the
// original implementation's defensive pattern for detecting a corrupted
// persisted blob even though nothing in this core writes to it yet.
type Glob struct {
	ID            uint   `gorm:"primaryKey"`
	SchemaVersion int    `gorm:"column:schema_version"`
	SettingsBlob  []byte `gorm:"column:settings_blob"`
	SettingsCRC32 uint32 `gorm:"column:settings_crc32"`
}

func (Glob) TableName() string { return "globs" }
