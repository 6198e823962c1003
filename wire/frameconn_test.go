package wire_test

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dapperlabs/paxosmon/wire"
)

func TestFrameConnRoundTrip(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	clientConn := wire.NewFrameConn(client)
	serverConn := wire.NewFrameConn(server)

	payload := []byte("hello")
	done := make(chan error, 1)
	go func() {
		done <- clientConn.SendFrame(wire.KindAck, payload)
	}()

	kind, got, err := serverConn.ReadFrame()
	require.NoError(t, err)
	require.NoError(t, <-done)

	assert.Equal(t, wire.KindAck, kind)
	assert.Equal(t, payload, got)
}
