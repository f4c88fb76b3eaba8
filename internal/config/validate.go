// SPDX-License-Identifier: AGPL-3.0-or-later
package config

import "errors"

var (
	// ErrInvalidLogLevel indicates that the provided log level is not valid.
	ErrInvalidLogLevel = errors.New("invalid log level provided")
	// ErrInvalidModemDevice indicates that no modem device was configured.
	ErrInvalidModemDevice = errors.New("invalid modem device provided")
	// ErrInvalidModemBaud indicates that the provided modem baud rate is not valid.
	ErrInvalidModemBaud = errors.New("invalid modem baud rate provided")
	// ErrInvalidPersistenceDriver indicates that the provided persistence driver is not valid.
	ErrInvalidPersistenceDriver = errors.New("invalid persistence driver provided")
	// ErrInvalidPersistencePath indicates that no persistence path was configured.
	ErrInvalidPersistencePath = errors.New("invalid persistence path provided")
	// ErrInvalidLearnModeTimeout indicates that the learn-mode timeout is not valid.
	ErrInvalidLearnModeTimeout = errors.New("invalid learn mode timeout provided")
	// ErrInvalidAdvertiseVdcPort indicates that the provided vDC mDNS port is not valid.
	ErrInvalidAdvertiseVdcPort = errors.New("invalid advertise vdc port provided")
	// ErrInvalidAdvertiseHTTPPort indicates that the provided HTTP mDNS port is not valid.
	ErrInvalidAdvertiseHTTPPort = errors.New("invalid advertise http port provided")
	// ErrInvalidMetricsBindAddress indicates that the provided metrics server bind address is not valid.
	ErrInvalidMetricsBindAddress = errors.New("invalid metrics server bind address provided")
	// ErrInvalidMetricsPort indicates that the provided metrics server port is not valid.
	ErrInvalidMetricsPort = errors.New("invalid metrics server port provided")
	// ErrInvalidPProfBindAddress indicates that the provided PProf server bind address is not valid.
	ErrInvalidPProfBindAddress = errors.New("invalid pprof server bind address provided")
	// ErrInvalidPProfPort indicates that the provided PProf server port is not valid.
	ErrInvalidPProfPort = errors.New("invalid pprof server port provided")
	// ErrInvalidRedisHost indicates that no Redis host was configured while enabled.
	ErrInvalidRedisHost = errors.New("invalid redis host provided")
	// ErrInvalidRedisPort indicates that the provided Redis port is not valid.
	ErrInvalidRedisPort = errors.New("invalid redis port provided")
)

// Validate validates the Modem configuration.
func (m Modem) Validate() error {
	if m.Device == "" {
		return ErrInvalidModemDevice
	}
	if m.Baud <= 0 {
		return ErrInvalidModemBaud
	}
	return nil
}

// Validate validates the Persistence configuration.
func (p Persistence) Validate() error {
	if p.Driver != PersistenceDriverSQLite {
		return ErrInvalidPersistenceDriver
	}
	if p.Path == "" {
		return ErrInvalidPersistencePath
	}
	return nil
}

// Validate validates the LearnMode configuration.
func (l LearnMode) Validate() error {
	if l.DefaultTimeoutSeconds <= 0 {
		return ErrInvalidLearnModeTimeout
	}
	return nil
}

// Validate validates the Advertise configuration.
func (a Advertise) Validate() error {
	if !a.Enabled {
		return nil
	}
	if a.VdcPort <= 0 || a.VdcPort > 65535 {
		return ErrInvalidAdvertiseVdcPort
	}
	if a.HTTPPort <= 0 || a.HTTPPort > 65535 {
		return ErrInvalidAdvertiseHTTPPort
	}
	return nil
}

// Validate validates the Metrics configuration.
func (m Metrics) Validate() error {
	if !m.Enabled {
		return nil
	}
	if m.Bind == "" {
		return ErrInvalidMetricsBindAddress
	}
	if m.Port <= 0 || m.Port > 65535 {
		return ErrInvalidMetricsPort
	}
	return nil
}

// Validate validates the PProf configuration.
func (p PProf) Validate() error {
	if !p.Enabled {
		return nil
	}
	if p.Bind == "" {
		return ErrInvalidPProfBindAddress
	}
	if p.Port <= 0 || p.Port > 65535 {
		return ErrInvalidPProfPort
	}
	return nil
}

// Validate validates the Redis configuration.
func (r Redis) Validate() error {
	if !r.Enabled {
		return nil
	}
	if r.Host == "" {
		return ErrInvalidRedisHost
	}
	if r.Port <= 0 || r.Port > 65535 {
		return ErrInvalidRedisPort
	}
	return nil
}

// Validate validates the complete configuration.
func (c Config) Validate() error {
	if c.LogLevel != LogLevelDebug &&
		c.LogLevel != LogLevelInfo &&
		c.LogLevel != LogLevelWarn &&
		c.LogLevel != LogLevelError {
		return ErrInvalidLogLevel
	}

	if err := c.Modem.Validate(); err != nil {
		return err
	}

	if err := c.Persistence.Validate(); err != nil {
		return err
	}

	if err := c.LearnMode.Validate(); err != nil {
		return err
	}

	if err := c.Advertise.Validate(); err != nil {
		return err
	}

	if err := c.Metrics.Validate(); err != nil {
		return err
	}

	if err := c.PProf.Validate(); err != nil {
		return err
	}

	if err := c.Redis.Validate(); err != nil {
		return err
	}

	return nil
}
