package wire

import "errors"

var errUnknownMessage = errors.New("wire: unknown message type")

// ErrPeerUnreachable wraps a single peer's send failure inside a
// PeerBroadcaster.Broadcast aggregate error.
var ErrPeerUnreachable = errors.New("wire: peer unreachable")
