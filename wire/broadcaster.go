package wire

import (
	"context"
	"fmt"
	"sync"

	"github.com/gammazero/workerpool"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"github.com/dapperlabs/paxosmon/election"
)

// AddressBook resolves a rank to its dial address. committee.Committee
// satisfies this.
type AddressBook interface {
	Address(r election.Rank) (string, bool)
}

// LivenessSink receives send outcomes. peertracker.Tracker satisfies
// this; PeerBroadcaster works without one (nil is accepted).
type LivenessSink interface {
	ReportAlive(rank election.Rank)
	ReportUnreachable(rank election.Rank)
}

// PeerBroadcaster is the shipped wire.Transport: point-to-point sends dial
// (or reuse a cached connection) and write on the caller's goroutine,
// and Broadcast fans out over a
// bounded worker pool, tolerating individual peer failures and
// aggregating them into one error rather than aborting the round.
type PeerBroadcaster struct {
	dialer    Dialer
	addresses AddressBook
	liveness  LivenessSink
	codec     Codec

	mu    sync.Mutex
	conns map[election.Rank]FrameSender

	pool *workerpool.WorkerPool
}

// NewPeerBroadcaster builds a PeerBroadcaster with a worker pool sized to
// concurrency (at least 1). liveness may be nil.
func NewPeerBroadcaster(dialer Dialer, addresses AddressBook, liveness LivenessSink, concurrency int) *PeerBroadcaster {
	if concurrency < 1 {
		concurrency = 1
	}
	return &PeerBroadcaster{
		dialer:    dialer,
		addresses: addresses,
		liveness:  liveness,
		codec:     NewCodec(),
		conns:     make(map[election.Rank]FrameSender),
		pool:      workerpool.New(concurrency),
	}
}

// Close stops accepting new work and closes every cached connection.
func (b *PeerBroadcaster) Close() error {
	b.pool.StopWait()

	b.mu.Lock()
	defer b.mu.Unlock()
	var result *multierror.Error
	for rank, conn := range b.conns {
		if err := conn.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("close conn to rank %d: %w", rank, err))
		}
	}
	b.conns = make(map[election.Rank]FrameSender)
	return result.ErrorOrNil()
}

func (b *PeerBroadcaster) connFor(ctx context.Context, to election.Rank) (FrameSender, error) {
	b.mu.Lock()
	if conn, ok := b.conns[to]; ok {
		b.mu.Unlock()
		return conn, nil
	}
	b.mu.Unlock()

	addr, ok := b.addresses.Address(to)
	if !ok {
		return nil, fmt.Errorf("wire: no known address for rank %d", to)
	}
	conn, err := b.dialer.Dial(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("wire: dial rank %d at %s: %w", to, addr, err)
	}

	b.mu.Lock()
	b.conns[to] = conn
	b.mu.Unlock()
	return conn, nil
}

func (b *PeerBroadcaster) send(ctx context.Context, to election.Rank, kind MsgKind, payload []byte) error {
	conn, err := b.connFor(ctx, to)
	if err != nil {
		b.reportUnreachable(to)
		return fmt.Errorf("%w: %w", ErrPeerUnreachable, err)
	}
	if err := conn.SendFrame(kind, payload); err != nil {
		b.invalidate(to)
		b.reportUnreachable(to)
		return fmt.Errorf("%w: send to rank %d: %w", ErrPeerUnreachable, to, err)
	}
	b.reportAlive(to)
	return nil
}

func (b *PeerBroadcaster) invalidate(rank election.Rank) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.conns, rank)
}

func (b *PeerBroadcaster) reportAlive(rank election.Rank) {
	if b.liveness != nil {
		b.liveness.ReportAlive(rank)
	}
}

func (b *PeerBroadcaster) reportUnreachable(rank election.Rank) {
	if b.liveness != nil {
		b.liveness.ReportUnreachable(rank)
	}
}

// SendPropose encodes and sends a PROPOSE to a single peer.
func (b *PeerBroadcaster) SendPropose(ctx context.Context, to election.Rank, p Propose) error {
	kind, payload, err := b.codec.Encode(p)
	if err != nil {
		return err
	}
	return b.send(ctx, to, kind, payload)
}

// SendAck encodes and sends an ACK to a single peer.
func (b *PeerBroadcaster) SendAck(ctx context.Context, to election.Rank, a Ack) error {
	kind, payload, err := b.codec.Encode(a)
	if err != nil {
		return err
	}
	return b.send(ctx, to, kind, payload)
}

// Broadcast fans a VICTORY out to every rank in `to` over the worker
// pool. Each peer's send runs under errgroup bookkeeping so Broadcast can
// return the full set of per-peer failures via a single aggregated
// error; one peer's failure never prevents delivery to the rest.
func (b *PeerBroadcaster) Broadcast(ctx context.Context, to []election.Rank, v Victory) error {
	kind, payload, err := b.codec.Encode(v)
	if err != nil {
		return err
	}

	var (
		mu     sync.Mutex
		result *multierror.Error
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, rank := range to {
		rank := rank
		g.Go(func() error {
			done := make(chan struct{})
			b.pool.Submit(func() {
				defer close(done)
				if err := b.send(gctx, rank, kind, payload); err != nil {
					mu.Lock()
					result = multierror.Append(result, err)
					mu.Unlock()
				}
			})
			select {
			case <-done:
				return nil
			case <-gctx.Done():
				return gctx.Err()
			}
		})
	}
	if err := g.Wait(); err != nil && result == nil {
		return err
	}
	return result.ErrorOrNil()
}
