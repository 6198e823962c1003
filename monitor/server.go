package monitor

import (
	"errors"
	"net"

	"github.com/rs/zerolog"

	"github.com/dapperlabs/paxosmon/wire"
)

// Server accepts inbound connections from peers and decodes frames into
// the matching Monitor.Handle* call. One Server per listening Monitor;
// outbound sends go through wire.PeerBroadcaster independently.
type Server struct {
	listener net.Listener
	monitor  *Monitor
	codec    wire.Codec
	log      zerolog.Logger
}

// NewServer wraps an already-bound listener. The caller is responsible
// for choosing and binding the address (e.g. from the committee's own
// entry).
func NewServer(listener net.Listener, mon *Monitor, log zerolog.Logger) *Server {
	return &Server{
		listener: listener,
		monitor:  mon,
		codec:    wire.NewCodec(),
		log:      log.With().Str("component", "monitor_server").Logger(),
	}
}

// Serve accepts connections until the listener is closed, handling each
// on its own goroutine. It always returns a non-nil error; a clean
// shutdown (listener closed) returns the net.ErrClosed-wrapping error
// from Accept, which callers should treat as expected.
func (s *Server) Serve() error {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return err
		}
		go s.handleConn(conn)
	}
}

func (s *Server) handleConn(conn net.Conn) {
	fc := wire.NewFrameConn(conn)
	defer fc.Close()

	for {
		kind, payload, err := fc.ReadFrame()
		if err != nil {
			if !errors.Is(err, net.ErrClosed) {
				s.log.Debug().Err(err).Msg("connection closed")
			}
			return
		}
		s.dispatch(kind, payload)
	}
}

func (s *Server) dispatch(kind wire.MsgKind, payload []byte) {
	switch kind {
	case wire.KindPropose:
		p, err := s.codec.DecodePropose(payload)
		if err != nil {
			s.log.Warn().Err(err).Msg("dropping malformed propose frame")
			return
		}
		s.monitor.HandlePropose(p.Rank(), p.EpochValue())
	case wire.KindAck:
		a, err := s.codec.DecodeAck(payload)
		if err != nil {
			s.log.Warn().Err(err).Msg("dropping malformed ack frame")
			return
		}
		s.monitor.HandleAck(a.Rank(), a.EpochValue())
	case wire.KindVictory:
		v, err := s.codec.DecodeVictory(payload)
		if err != nil {
			s.log.Warn().Err(err).Msg("dropping malformed victory frame")
			return
		}
		s.monitor.HandleVictory(v.Rank(), v.EpochValue())
	default:
		s.log.Warn().Int("kind", int(kind)).Msg("dropping frame of unknown kind")
	}
}

// Close closes the underlying listener, causing Serve to return.
func (s *Server) Close() error {
	return s.listener.Close()
}
