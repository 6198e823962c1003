package election_test

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/dapperlabs/paxosmon/election"
)

// clusterSim wires N in-memory participants together with a small
// discrete-event queue: an Owner's outbound callbacks (ProposeToPeers,
// DeferTo, MessageVictory) enqueue wire events instead of dispatching
// immediately, and run() drains the queue in FIFO order. This lets tests
// trigger several participants "simultaneously" (enqueue all their
// opening moves, then drain) exactly as spec scenario 3 requires, while
// still giving a fully deterministic, single-threaded trace to assert on.
type clusterSim struct {
	t          *testing.T
	strategy   election.Strategy
	disallowed election.RankSet
	owners     map[election.Rank]*simOwner
	members    map[election.Rank]bool
	dropAck    map[election.Rank]bool // ranks whose outbound acks are dropped

	queue []simEvent
}

type simEventKind int

const (
	evPropose simEventKind = iota
	evAck
	evVictory
)

type simEvent struct {
	kind   simEventKind
	from   election.Rank
	to     election.Rank
	epoch  election.Epoch
	quorum election.RankSet
}

func newClusterSim(t *testing.T, n int, strategy election.Strategy, disallowed election.RankSet) *clusterSim {
	if disallowed == nil {
		disallowed = election.NewRankSet()
	}
	sim := &clusterSim{
		t:          t,
		strategy:   strategy,
		disallowed: disallowed,
		owners:     make(map[election.Rank]*simOwner, n),
		members:    make(map[election.Rank]bool, n),
		dropAck:    make(map[election.Rank]bool),
	}
	for i := 0; i < n; i++ {
		r := election.Rank(i)
		sim.members[r] = true
		o := &simOwner{rank: r, n: n, sim: sim}
		sim.owners[r] = o
		o.engine = election.New(o, o, strategy, zerolog.Nop())
	}
	return sim
}

func (s *clusterSim) engine(r election.Rank) *election.Engine { return s.owners[r].engine }

// crash simulates a process restart: a fresh Engine is built against the
// same simOwner (and therefore the same persisted epoch), exactly as a
// real restart would reattach to the same durable store.
func (s *clusterSim) crash(r election.Rank) {
	o := s.owners[r]
	o.engine = election.New(o, o, s.strategy, zerolog.Nop())
}

// run drains the event queue until empty, dispatching each event into the
// target Engine's matching inbound method. Dispatch may itself enqueue
// further events, which run continues to drain.
func (s *clusterSim) run() {
	for len(s.queue) > 0 {
		ev := s.queue[0]
		s.queue = s.queue[1:]

		target, ok := s.owners[ev.to]
		if !ok {
			continue
		}
		switch ev.kind {
		case evPropose:
			target.engine.ReceivePropose(ev.from, ev.epoch)
		case evAck:
			target.engine.ReceiveAck(ev.from, ev.epoch)
		case evVictory:
			target.everParticipated = true
			target.engine.ReceiveVictoryClaim(ev.from, ev.epoch)
		}
	}
}

type simOwner struct {
	rank election.Rank
	n    int
	sim  *clusterSim

	engine *election.Engine

	persisted election.Epoch

	everParticipated      bool
	triggerNewElectionCnt int
	resetElectionCnt      int
	startRoundCnt         int
	lastQuorum            election.RankSet
	victoryCount          int
}

func (o *simOwner) PersistEpoch(e election.Epoch)          { o.persisted = e }
func (o *simOwner) ReadPersistedEpoch() election.Epoch     { return o.persisted }
func (o *simOwner) ValidateStore() error                   { return nil }
func (o *simOwner) NotifyBumpEpoch()                       {}
func (o *simOwner) GetMyRank() election.Rank               { return o.rank }
func (o *simOwner) PaxosSize() int                         { return o.n }
func (o *simOwner) StartRound()                            { o.startRoundCnt++ }
func (o *simOwner) EverParticipated() bool                 { return o.everParticipated }
func (o *simOwner) GetDisallowedLeaders() election.RankSet { return o.sim.disallowed }
func (o *simOwner) IsCurrentMember(r election.Rank) bool   { return o.sim.members[r] }
func (o *simOwner) IncreaseEpoch(election.Epoch)           {}

func (o *simOwner) TriggerNewElection() {
	o.triggerNewElectionCnt++
	o.engine.Start()
}

func (o *simOwner) ResetElection() {
	o.resetElectionCnt++
	o.everParticipated = false
}

func (o *simOwner) ProposeToPeers(e election.Epoch) {
	for r := range o.sim.owners {
		if r == o.rank {
			continue
		}
		o.sim.queue = append(o.sim.queue, simEvent{kind: evPropose, from: o.rank, to: r, epoch: e})
	}
}

func (o *simOwner) DeferTo(who election.Rank) {
	if o.sim.dropAck[o.rank] {
		return
	}
	o.sim.queue = append(o.sim.queue, simEvent{kind: evAck, from: o.rank, to: who, epoch: o.engine.Epoch()})
}

func (o *simOwner) MessageVictory(quorum election.RankSet) {
	o.lastQuorum = quorum
	o.victoryCount++
	o.everParticipated = true
	// Victory is broadcast to every peer, not just the ones that acked --
	// a peer whose own ack was lost in flight still needs to learn who won.
	for r := range o.sim.owners {
		if r == o.rank {
			continue
		}
		o.sim.queue = append(o.sim.queue, simEvent{kind: evVictory, from: o.rank, to: r, epoch: o.engine.Epoch()})
	}
}
