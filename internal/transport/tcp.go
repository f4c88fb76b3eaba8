package transport

import (
	"context"
	"fmt"
	"net"
)

// TCPDialer dials a modem exposed over TCP (e.g. ser2net bridging a serial
// port, or an Ethernet-attached gateway). There is no third-party dialing
// library in the example pack that improves on net.Dialer for a plain TCP
// connect; stdlib is used directly here (see DESIGN.md).
type TCPDialer struct{}

// Dial implements Dialer by connecting to spec as a "host:port" address.
func (TCPDialer) Dial(ctx context.Context, spec string) (Conn, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", spec)
	if err != nil {
		return nil, fmt.Errorf("transport: dial tcp %s: %w", spec, err)
	}
	return conn, nil
}
