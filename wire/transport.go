package wire

import (
	"context"

	"github.com/dapperlabs/paxosmon/election"
)

// Transport is what the Monitor uses to satisfy the Owner's
// ProposeToPeers, DeferTo, and MessageVictory obligations.
type Transport interface {
	SendPropose(ctx context.Context, to election.Rank, p Propose) error
	SendAck(ctx context.Context, to election.Rank, a Ack) error
	Broadcast(ctx context.Context, to []election.Rank, v Victory) error
}

// Dialer opens a point-to-point connection to a peer's dial address.
// PeerBroadcaster uses it lazily, on first send to a given rank.
type Dialer interface {
	Dial(ctx context.Context, address string) (FrameSender, error)
}

// FrameSender is the minimal send side a Dialer hands back; FrameConn is
// the shipped implementation over net.Conn.
type FrameSender interface {
	SendFrame(kind MsgKind, payload []byte) error
	Close() error
}
