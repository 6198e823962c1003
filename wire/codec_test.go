package wire_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dapperlabs/paxosmon/wire"
)

func TestCodecRoundTripsPropose(t *testing.T) {
	codec := wire.NewCodec()
	kind, payload, err := codec.Encode(wire.Propose{SenderRank: 2, Epoch: 5})
	require.NoError(t, err)
	assert.Equal(t, wire.KindPropose, kind)

	p, err := codec.DecodePropose(payload)
	require.NoError(t, err)
	assert.Equal(t, wire.Propose{SenderRank: 2, Epoch: 5}, p)
}

func TestCodecRoundTripsAck(t *testing.T) {
	codec := wire.NewCodec()
	kind, payload, err := codec.Encode(wire.Ack{SenderRank: 1, Epoch: 3})
	require.NoError(t, err)
	assert.Equal(t, wire.KindAck, kind)

	a, err := codec.DecodeAck(payload)
	require.NoError(t, err)
	assert.Equal(t, wire.Ack{SenderRank: 1, Epoch: 3}, a)
}

func TestCodecRoundTripsVictory(t *testing.T) {
	codec := wire.NewCodec()
	kind, payload, err := codec.Encode(wire.Victory{SenderRank: 0, Epoch: 2, Quorum: []int{0, 1, 2}})
	require.NoError(t, err)
	assert.Equal(t, wire.KindVictory, kind)

	v, err := codec.DecodeVictory(payload)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{0, 1, 2}, v.Quorum)
}

func TestCodecRejectsUnknownType(t *testing.T) {
	codec := wire.NewCodec()
	_, _, err := codec.Encode(struct{ X int }{X: 1})
	assert.Error(t, err)
}
