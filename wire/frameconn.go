package wire

import (
	"encoding/binary"
	"fmt"
	"net"
)

// FrameConn wraps a net.Conn with a trivial length-prefixed framing:
// one kind byte followed by a 4-byte big-endian length and the msgpack
// payload. It is the default FrameSender a Dialer hands back.
type FrameConn struct {
	conn net.Conn
}

// NewFrameConn wraps an already-dialed connection.
func NewFrameConn(conn net.Conn) *FrameConn {
	return &FrameConn{conn: conn}
}

// SendFrame writes one length-prefixed frame to the underlying conn.
func (f *FrameConn) SendFrame(kind MsgKind, payload []byte) error {
	header := make([]byte, 5)
	header[0] = byte(kind)
	binary.BigEndian.PutUint32(header[1:], uint32(len(payload)))

	if _, err := f.conn.Write(header); err != nil {
		return fmt.Errorf("wire: write frame header: %w", err)
	}
	if _, err := f.conn.Write(payload); err != nil {
		return fmt.Errorf("wire: write frame payload: %w", err)
	}
	return nil
}

// ReadFrame blocks until one complete frame has been read off the conn.
func (f *FrameConn) ReadFrame() (MsgKind, []byte, error) {
	header := make([]byte, 5)
	if _, err := readFull(f.conn, header); err != nil {
		return 0, nil, fmt.Errorf("wire: read frame header: %w", err)
	}

	kind := MsgKind(header[0])
	length := binary.BigEndian.Uint32(header[1:])
	payload := make([]byte, length)
	if _, err := readFull(f.conn, payload); err != nil {
		return 0, nil, fmt.Errorf("wire: read frame payload: %w", err)
	}
	return kind, payload, nil
}

// Close closes the underlying connection.
func (f *FrameConn) Close() error {
	return f.conn.Close()
}

func readFull(conn net.Conn, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := conn.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
