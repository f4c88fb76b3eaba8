package transport

import (
	"context"
	"fmt"

	"github.com/tarm/serial"
)

// SerialDialer dials a local serial device at a fixed baud rate.
type SerialDialer struct {
	Baud int
}

// Dial implements Dialer by opening spec as a serial device path.
func (d SerialDialer) Dial(_ context.Context, spec string) (Conn, error) {
	cfg := &serial.Config{
		Name:        spec,
		Baud:        d.Baud,
		ReadTimeout: 0,
	}
	port, err := serial.OpenPort(cfg)
	if err != nil {
		return nil, fmt.Errorf("transport: open serial port %s: %w", spec, err)
	}
	return port, nil
}
