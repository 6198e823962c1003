package wire

import (
	"context"
	"net"
)

// TCPDialer is the shipped Dialer: a plain net.Dialer over TCP, wrapped
// in a FrameConn on connect.
type TCPDialer struct {
	Dialer net.Dialer
}

// Dial connects to address and returns it wrapped as a FrameSender.
func (d *TCPDialer) Dial(ctx context.Context, address string) (FrameSender, error) {
	conn, err := d.Dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, err
	}
	return NewFrameConn(conn), nil
}
