package models

import "hash/crc32"

// ChecksumSettingsBlob computes the CRC32 checksum stored alongside a Glob's
// SettingsBlob, so a corrupted blob can be detected before use. Unused by
// the current core (no device settings blob is persisted yet) but kept as
// the original implementation always guards a persisted binary blob this
// way.
func ChecksumSettingsBlob(blob []byte) uint32 {
	return crc32.ChecksumIEEE(blob)
}
