// Package monitor implements election.Owner, wiring the Engine to a
// durable epoch store, a wire transport, peer liveness tracking, and the
// observability stack (metrics, tracing, structured logs) a deployed
// participant needs around the bare state machine.
package monitor

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/opentracing/opentracing-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/dapperlabs/paxosmon/committee"
	"github.com/dapperlabs/paxosmon/election"
	"github.com/dapperlabs/paxosmon/store"
	"github.com/dapperlabs/paxosmon/wire"
)

// sendTimeout bounds every individual outbound send the Monitor launches
// on the Engine's behalf. PROPOSE/ACK/VICTORY are all fire-and-forget and
// tolerant of loss, so a send that blows this deadline is simply dropped
// and logged rather than retried inline.
const sendTimeout = 5 * time.Second

// defaultElectionTimeout is used when Config.ElectionTimeout is zero.
const defaultElectionTimeout = 2 * time.Second

// Members is the membership-facing slice of committee.Committee the
// Monitor needs: rank identity, cluster size, membership checks, and
// enough of the peer list to address a PROPOSE/VICTORY broadcast.
type Members interface {
	GetMyRank() election.Rank
	PaxosSize() int
	IsCurrentMember(r election.Rank) bool
	Peers() []committee.Peer
}

// Config holds the Monitor's non-wiring configuration and the
// observability hooks it publishes through.
type Config struct {
	Strategy          election.Strategy
	DisallowedLeaders election.RankSet
	ElectionTimeout   time.Duration
	Log               zerolog.Logger
	Registerer        prometheus.Registerer
	Tracer            opentracing.Tracer
	// OnFatal is invoked with a fatal error (ErrStoreCorrupt, or any
	// asserted precondition failure surfaced from election). The
	// Monitor never calls os.Exit itself; cmd/monitor's OnFatal does
	// the zerolog Fatal-level log and the actual process exit.
	OnFatal func(error)
}

// Monitor implements election.Owner in full. It owns its Engine
// exclusively: nothing outside this package ever holds a reference to
// it.
type Monitor struct {
	unit *Unit
	log  zerolog.Logger

	engine  *election.Engine
	members Members
	store   store.EpochStore
	disallow *disallowSet

	transport wire.Transport
	timeout   time.Duration
	timer     *time.Timer

	metrics *metrics
	tracer  opentracing.Tracer
	onFatal func(error)

	everParticipated bool
	roundID          uuid.UUID
}

// New builds a Monitor and the Engine it drives. tracker is consulted by
// the Engine for IncreaseEpoch only; the Monitor does not otherwise read
// peer liveness itself.
func New(members Members, epochStore store.EpochStore, tracker election.PeerTracker, transport wire.Transport, cfg Config) (*Monitor, error) {
	if cfg.ElectionTimeout <= 0 {
		cfg.ElectionTimeout = defaultElectionTimeout
	}
	if cfg.Registerer == nil {
		cfg.Registerer = prometheus.DefaultRegisterer
	}
	if cfg.Tracer == nil {
		cfg.Tracer = opentracing.GlobalTracer()
	}

	log := cfg.Log.With().Int("rank", int(members.GetMyRank())).Logger()

	m, err := newMetrics(cfg.Registerer, int(members.GetMyRank()))
	if err != nil {
		return nil, fmt.Errorf("monitor: register metrics: %w", err)
	}

	mon := &Monitor{
		unit:     NewUnit(),
		log:      log,
		members:  members,
		store:    epochStore,
		disallow: newDisallowSet(cfg.DisallowedLeaders),
		transport: transport,
		timeout:   cfg.ElectionTimeout,
		metrics:   m,
		tracer:    cfg.Tracer,
		onFatal:   cfg.OnFatal,
	}
	mon.engine = election.New(mon, tracker, cfg.Strategy, log)
	return mon, nil
}

// Start begins (or resumes) campaigning. It is the normal N>1 entry
// point; for the standalone N=1 case use StartStandalone.
func (m *Monitor) Start() {
	m.unit.Do(func() {
		m.dispatch("start", func() {
			m.engine.Start()
		})
	})
	m.unit.MarkReady()
}

// StartStandalone declares victory outright, as only a single-member
// cluster is permitted to do.
func (m *Monitor) StartStandalone() {
	m.unit.Do(func() {
		m.dispatch("declare_standalone_victory", func() {
			m.engine.DeclareStandaloneVictory()
		})
	})
	m.unit.MarkReady()
}

// Stop disarms any pending timer and tears down the Monitor's lifecycle
// unit. It does not close the transport; the caller owns that.
func (m *Monitor) Stop() {
	m.unit.Do(func() {
		m.disarmTimer()
	})
	m.unit.Stop()
}

// Epoch returns the current epoch, synchronized against the Engine's
// single-threaded dispatch.
func (m *Monitor) Epoch() election.Epoch {
	var e election.Epoch
	m.unit.Do(func() { e = m.engine.Epoch() })
	return e
}

// SetDisallowedLeaders replaces the disallow-set used under the Disallow
// strategy. Safe to call at any time; the Engine reads it fresh on every
// arbitration.
func (m *Monitor) SetDisallowedLeaders(ranks election.RankSet) {
	m.disallow.Set(ranks)
}

// HandlePropose, HandleAck and HandleVictory are the decode-side entry
// points a listener calls after unmarshalling a PROPOSE/ACK/VICTORY
// frame. Each drops, with a log line, a message whose epoch parity is
// wrong for its kind. HandleAck and HandleVictory also drop stale epochs
// and anything else that would trip a precondition the Engine asserts
// and panics on, rather than forwarding it -- a malformed or adversarial
// peer must never be able to crash this participant.

func (m *Monitor) HandlePropose(from election.Rank, epoch election.Epoch) {
	if epoch.Stable() {
		m.log.Warn().Int("from", int(from)).Uint64("epoch", uint64(epoch)).
			Msg("dropping propose carrying a non-election epoch")
		return
	}
	m.unit.Do(func() {
		m.dispatch("receive_propose", func() {
			m.engine.ReceivePropose(from, epoch)
		})
	})
}

func (m *Monitor) HandleAck(from election.Rank, epoch election.Epoch) {
	if epoch.Stable() {
		m.log.Warn().Int("from", int(from)).Uint64("epoch", uint64(epoch)).
			Msg("dropping ack carrying a non-election epoch")
		return
	}
	m.unit.Do(func() {
		cur := m.engine.Epoch()
		if epoch < cur || (epoch == cur && !m.engine.ElectingMe && m.engine.AckedLeader() == election.NoRank) {
			m.log.Warn().Int("from", int(from)).Uint64("epoch", uint64(epoch)).
				Msg("dropping stale or unsolicited ack")
			return
		}
		m.dispatch("receive_ack", func() {
			m.engine.ReceiveAck(from, epoch)
		})
	})
}

func (m *Monitor) HandleVictory(from election.Rank, epoch election.Epoch) {
	if epoch.Electing() {
		m.log.Warn().Int("from", int(from)).Uint64("epoch", uint64(epoch)).
			Msg("dropping victory claim carrying an election epoch")
		return
	}
	myRank := m.members.GetMyRank()
	if !(from < myRank || m.disallow.Get().Contains(myRank)) {
		m.log.Warn().Int("from", int(from)).Int("my_rank", int(myRank)).
			Msg("dropping victory claim from a rank that does not outrank us")
		return
	}
	m.unit.Do(func() {
		if epoch < m.engine.Epoch() {
			m.log.Warn().Int("from", int(from)).Uint64("epoch", uint64(epoch)).
				Msg("dropping victory claim from a stale epoch")
			return
		}
		m.dispatch("receive_victory_claim", func() {
			m.engine.ReceiveVictoryClaim(from, epoch)
		})
	})
}

// dispatch runs f under a tracing span, recovering any panic raised by
// an asserted Engine precondition and routing it to the fatal-error
// callback rather than letting it escape as a bare panic.
func (m *Monitor) dispatch(op string, f func()) {
	span := m.tracer.StartSpan(op)
	defer span.Finish()
	defer func() {
		if r := recover(); r != nil {
			span.SetTag("error", true)
			if ie, ok := r.(election.InvariantError); ok {
				m.fail(fmt.Errorf("monitor: %s: %w", op, ie))
				return
			}
			m.fail(fmt.Errorf("monitor: %s: panic: %v", op, r))
		}
	}()
	f()
}

func (m *Monitor) fail(err error) {
	m.log.Error().Err(err).Msg("fatal condition")
	if m.onFatal != nil {
		m.onFatal(err)
	}
}

func (m *Monitor) armTimer() {
	m.disarmTimer()
	d := jitter(m.timeout)
	m.timer = time.AfterFunc(d, func() {
		m.unit.Do(func() {
			m.dispatch("election_timeout", func() {
				m.engine.EndElectionPeriod()
			})
		})
	})
}

func (m *Monitor) disarmTimer() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

// jitter scales base by a uniformly random factor in [0.8, 1.2], per
// spec.md's choice to avoid synchronized repeated standoffs across a
// cluster whose clocks are reasonably close together.
func jitter(base time.Duration) time.Duration {
	if base <= 0 {
		return base
	}
	delta := float64(base) * 0.2
	offset := (rand.Float64()*2 - 1) * delta
	return time.Duration(float64(base) + offset)
}

func (m *Monitor) sendAsync(to election.Rank, send func(ctx context.Context) error) {
	go func() {
		ctx, cancel := context.WithTimeout(m.unit.Ctx(), sendTimeout)
		defer cancel()
		if err := send(ctx); err != nil {
			m.log.Debug().Err(err).Int("to", int(to)).Msg("send failed")
		}
	}()
}

// --- election.Owner ---

func (m *Monitor) PersistEpoch(e election.Epoch) {
	if err := m.store.PersistEpoch(uint64(e)); err != nil {
		m.fail(fmt.Errorf("monitor: persist epoch %d: %w", e, err))
	}
}

func (m *Monitor) ReadPersistedEpoch() election.Epoch {
	e, err := m.store.ReadPersistedEpoch()
	if err != nil {
		m.fail(fmt.Errorf("monitor: read persisted epoch: %w", err))
		return 0
	}
	return election.Epoch(e)
}

func (m *Monitor) ValidateStore() error {
	if err := m.store.ValidateStore(); err != nil {
		return fmt.Errorf("%w: %w", election.ErrStoreCorrupt, err)
	}
	return nil
}

func (m *Monitor) NotifyBumpEpoch() {
	epoch := m.engine.Epoch()
	m.metrics.currentEpoch.Set(float64(epoch))
	if epoch.Stable() {
		m.everParticipated = true
		m.disarmTimer()
		m.metrics.roundEnded()
	}
	m.log.Debug().Uint64("epoch", uint64(epoch)).Msg("epoch bumped")
}

func (m *Monitor) TriggerNewElection() {
	m.engine.Start()
}

func (m *Monitor) GetMyRank() election.Rank { return m.members.GetMyRank() }

func (m *Monitor) PaxosSize() int { return m.members.PaxosSize() }

func (m *Monitor) ProposeToPeers(e election.Epoch) {
	me := m.members.GetMyRank()
	msg := wire.ProposeFromEngine(me, e)
	for _, p := range m.members.Peers() {
		if p.Rank == me {
			continue
		}
		to := p.Rank
		m.sendAsync(to, func(ctx context.Context) error {
			return m.transport.SendPropose(ctx, to, msg)
		})
	}
}

func (m *Monitor) StartRound() {
	m.roundID = uuid.New()
	m.metrics.roundStarted()
	m.log.Info().Str("round_id", m.roundID.String()).Msg("starting election round")
	m.armTimer()
}

func (m *Monitor) DeferTo(who election.Rank) {
	m.metrics.deferralsTotal.Inc()
	m.disarmTimer()
	m.metrics.roundEnded()
	msg := wire.AckFromEngine(m.members.GetMyRank(), m.engine.Epoch())
	m.sendAsync(who, func(ctx context.Context) error {
		return m.transport.SendAck(ctx, who, msg)
	})
}

func (m *Monitor) MessageVictory(quorum election.RankSet) {
	m.metrics.victoriesTotal.Inc()
	m.disarmTimer()
	m.metrics.roundEnded()

	me := m.members.GetMyRank()
	msg := wire.VictoryFromEngine(me, m.engine.Epoch(), quorum)

	var targets []election.Rank
	for _, p := range m.members.Peers() {
		if p.Rank != me {
			targets = append(targets, p.Rank)
		}
	}

	go func() {
		ctx, cancel := context.WithTimeout(m.unit.Ctx(), sendTimeout)
		defer cancel()
		if err := m.transport.Broadcast(ctx, targets, msg); err != nil {
			m.log.Warn().Err(err).Msg("victory broadcast had partial failures")
		}
	}()
}

func (m *Monitor) ResetElection() {
	m.everParticipated = false
	m.disarmTimer()
	m.log.Debug().Msg("resetting election state, never participated and lost this round")
}

func (m *Monitor) IsCurrentMember(r election.Rank) bool { return m.members.IsCurrentMember(r) }

// EverParticipated reports whether this Monitor has reached a stable
// epoch since it was built. The flag is held in memory only: a restarted
// process reports false until its first stable epoch.
func (m *Monitor) EverParticipated() bool { return m.everParticipated }

func (m *Monitor) GetDisallowedLeaders() election.RankSet { return m.disallow.Get() }

var _ election.Owner = (*Monitor)(nil)
