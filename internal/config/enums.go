// SPDX-License-Identifier: AGPL-3.0-or-later
package config

// LogLevel represents the logging level for the application.
type LogLevel string

const (
	// LogLevelDebug is the debug logging level, providing detailed information.
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo is the informational logging level, providing general information.
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn is the warning logging level, indicating potential issues.
	LogLevelWarn LogLevel = "warn"
	// LogLevelError is the error logging level, indicating serious issues.
	LogLevelError LogLevel = "error"
)

// PersistenceDriver represents the storage backend for learned devices.
type PersistenceDriver string

const (
	// PersistenceDriverSQLite is the only supported driver: this core's
	// persistence surface is always a small local file.
	PersistenceDriverSQLite PersistenceDriver = "sqlite"
)
