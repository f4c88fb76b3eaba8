// SPDX-License-Identifier: AGPL-3.0-or-later
package config

// Config stores the application configuration.
type Config struct {
	LogLevel LogLevel `default:"info"`
	Debug    bool

	Modem       Modem
	Persistence Persistence
	LearnMode   LearnMode
	Advertise   Advertise
	Metrics     Metrics
	PProf       PProf
	Tracing     Tracing
	Redis       Redis
}

// Redis configures an optional shared cache for ephemeral per-device
// runtime state. When disabled (the default), runtime state lives only in
// this process's memory, which is fine for a single-instance deployment.
type Redis struct {
	Enabled  bool `default:"false"`
	Host     string
	Port     int `default:"6379"`
	Password string
}

// Modem configures the transport and identity of the attached EnOcean radio modem.
type Modem struct {
	// Device is a serial path (e.g. /dev/ttyUSB0) or a host:port TCP endpoint.
	Device string `default:"/dev/ttyUSB0"`
	Baud   int    `default:"57600"`
	// ResetPin names a GPIO line used to hardware-reset the modem. Empty means
	// no hardware reset is available and recovery is handshake-only.
	ResetPin string
	// IDBaseOverride forces the modem's base address instead of querying it
	// with CO_RD_IDBASE. Zero means "ask the modem".
	IDBaseOverride uint32
}

// Persistence configures the local storage of learned devices.
type Persistence struct {
	Driver PersistenceDriver `default:"sqlite"`
	Path   string            `default:"enocean-vdc.db"`
}

// LearnMode configures the teach-in window behavior.
type LearnMode struct {
	DefaultTimeoutSeconds int `default:"60"`
	MinLearnDBm           int `default:"-80"`
}

// Advertise configures mDNS/DNS-SD announcement of this core on the LAN.
type Advertise struct {
	Enabled  bool `default:"true"`
	Hostname string
	VdcPort  int `default:"8340"`
	VdsmPort int `default:"8340"`
	HTTPPort int `default:"8080"`
	SSHPort  int `default:"22"`
	DSUID    string
	// NoAuto adds a noauto=1 flag to the advertised vdc service's TXT record.
	NoAuto bool
}

// Metrics configures the Prometheus metrics server.
type Metrics struct {
	Enabled      bool `default:"false"`
	Bind         string
	Port         int
	OTLPEndpoint string
}

// PProf configures the diagnostic pprof server.
type PProf struct {
	Enabled bool `default:"false"`
	Bind    string
	Port    int
}

// Tracing configures OpenTelemetry trace export.
type Tracing struct {
	OTLPEndpoint string
}
