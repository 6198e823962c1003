package wire

import "github.com/vmihailenco/msgpack/v4"

// MsgKind tags an encoded frame so the receiving monitor.Server knows
// which struct to decode it into before handing it to the Monitor.
type MsgKind byte

const (
	KindPropose MsgKind = iota + 1
	KindAck
	KindVictory
)

// Codec marshals and unmarshals the three message kinds to and from
// msgpack. It is stateless and safe for concurrent use.
type Codec struct{}

// NewCodec returns a ready-to-use Codec.
func NewCodec() Codec { return Codec{} }

// Encode marshals msg (one of Propose, Ack, Victory) and returns the kind
// tag alongside the encoded payload.
func (Codec) Encode(msg interface{}) (MsgKind, []byte, error) {
	var kind MsgKind
	switch msg.(type) {
	case Propose:
		kind = KindPropose
	case Ack:
		kind = KindAck
	case Victory:
		kind = KindVictory
	default:
		return 0, nil, errUnknownMessage
	}

	payload, err := msgpack.Marshal(msg)
	if err != nil {
		return 0, nil, err
	}
	return kind, payload, nil
}

// DecodePropose, DecodeAck and DecodeVictory unmarshal a payload known
// (via its MsgKind) to hold the matching struct.
func (Codec) DecodePropose(payload []byte) (Propose, error) {
	var p Propose
	err := msgpack.Unmarshal(payload, &p)
	return p, err
}

func (Codec) DecodeAck(payload []byte) (Ack, error) {
	var a Ack
	err := msgpack.Unmarshal(payload, &a)
	return a, err
}

func (Codec) DecodeVictory(payload []byte) (Victory, error) {
	var v Victory
	err := msgpack.Unmarshal(payload, &v)
	return v, err
}
