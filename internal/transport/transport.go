// Package transport provides the byte-stream connection to a TCM310-class
// EnOcean radio modem, behind a small interface so the ESP3/modem layers
// never depend on whether the modem is reached over a serial port or a
// TCP socket (e.g. ser2net).
package transport

import (
	"context"
	"io"
)

// Conn is a byte-stream connection to the modem. Implementations must be
// safe for one concurrent reader and one concurrent writer (never both
// read and written from multiple goroutines at once).
type Conn interface {
	io.Reader
	io.Writer
	io.Closer
}

// Dialer opens a Conn to a modem, given a connection spec (a serial device
// path like "/dev/ttyUSB0", or a "host:port" TCP address).
type Dialer interface {
	Dial(ctx context.Context, spec string) (Conn, error)
}
