package election

import "github.com/rs/zerolog"

// Engine holds the in-memory state for one participant's view of the
// cluster election. It receives inbound events and calls back out to its
// Owner to persist the epoch and message other participants. No component
// below Engine calls upward, and the Engine itself owns no timers: every
// timeout is delivered to it as EndElectionPeriod by the Owner.
//
// An Engine is not safe for concurrent use. The Owner is responsible for
// serializing all calls into a single Engine (§5 of the design).
type Engine struct {
	owner   Owner
	tracker PeerTracker
	log     zerolog.Logger

	strategy Strategy

	epoch       Epoch
	leaderAcked Rank

	// Participating indicates whether we take part in the quorum at all.
	// It defaults to true. If set false, Start is a no-op until it is set
	// true again; ReceivePropose, ReceiveAck, ReceiveVictoryClaim and
	// EndElectionPeriod do not consult it.
	Participating bool
	// ElectingMe is true while this participant is campaigning in the
	// current odd epoch.
	ElectingMe bool
	// AckedMe is the set of ranks that have acknowledged this
	// participant's campaign in the current odd epoch.
	AckedMe RankSet
}

// New constructs an Engine in its initial stable, non-electing state. The
// persisted epoch is not read until the first Start or
// DeclareStandaloneVictory call.
func New(owner Owner, tracker PeerTracker, strategy Strategy, log zerolog.Logger) *Engine {
	return &Engine{
		owner:         owner,
		tracker:       tracker,
		log:           log,
		strategy:      strategy,
		leaderAcked:   NoRank,
		Participating: true,
		AckedMe:       make(RankSet),
	}
}

// Epoch returns the current epoch.
func (e *Engine) Epoch() Epoch { return e.epoch }

// AckedLeader returns the rank this participant has deferred to in the
// current odd epoch, or NoRank if it has not deferred to anyone.
func (e *Engine) AckedLeader() Rank { return e.leaderAcked }

func (e *Engine) logCtx() zerolog.Logger {
	return e.log.With().Uint64("epoch", uint64(e.epoch)).Logger()
}

// init reads the persisted epoch and establishes the first-boot / mid-
// election-crash conventions described in the design's initialisation
// section.
func (e *Engine) init() {
	e.epoch = e.owner.ReadPersistedEpoch()
	if e.epoch == 0 {
		e.logCtx().Info().Msg("init: first boot, initializing epoch at 1")
		e.epoch = 1
		return
	}
	if e.epoch.Electing() {
		e.logCtx().Info().Msg("init: last seen epoch mid-election, bumping")
		e.epoch++
		e.owner.PersistEpoch(e.epoch)
		return
	}
	e.logCtx().Debug().Msg("init: resuming at last seen epoch")
}

// bumpEpoch advances the epoch to e, persists it, and clears the
// campaigning state. It does not clear leaderAcked; callers that need
// that cleared do it themselves (victory claim, standalone victory,
// campaign start).
func (e *Engine) bumpEpoch(newEpoch Epoch) {
	if e.epoch > newEpoch {
		invariantViolation("bump_epoch: epoch %d > target %d", e.epoch, newEpoch)
	}
	e.logCtx().Debug().Uint64("to", uint64(newEpoch)).Msg("bumping epoch")
	e.epoch = newEpoch
	e.tracker.IncreaseEpoch(e.epoch)
	e.owner.PersistEpoch(e.epoch)
	e.ElectingMe = false
	e.AckedMe = make(RankSet)
	e.owner.NotifyBumpEpoch()
}

// DeclareStandaloneVictory is only legal when N=1 and our rank is 0. It
// runs init and then bumps directly to an even epoch; no messages are
// sent because there is no one to send them to.
func (e *Engine) DeclareStandaloneVictory() {
	if e.owner.PaxosSize() != 1 || e.owner.GetMyRank() != 0 {
		invariantViolation("declare_standalone_victory: requires paxos_size=1 and rank=0")
	}
	e.init()
	e.bumpEpoch(e.epoch.Next())
}

// Start begins a new campaign by proposing ourselves as leader. It is a
// no-op (besides a log line) when Participating is false.
func (e *Engine) Start() {
	if !e.Participating {
		e.logCtx().Info().Msg("not starting new election -- not participating")
		return
	}
	e.logCtx().Debug().Msg("start -- can i be leader?")

	e.AckedMe = make(RankSet)
	e.init()

	if e.epoch.Stable() {
		e.bumpEpoch(e.epoch.Next()) // odd == election cycle
	} else if err := e.owner.ValidateStore(); err != nil {
		invariantViolation("start: persistent store failed validation: %v", err)
	}

	e.ElectingMe = true
	e.AckedMe.Add(e.owner.GetMyRank())
	e.leaderAcked = NoRank

	e.owner.ProposeToPeers(e.epoch)
	e.owner.StartRound()
}

// concedeTo drops out of the current campaign (if any) and acks who as the
// leader for this round.
func (e *Engine) concedeTo(who Rank) {
	switch e.strategy {
	case Classic:
		if who >= e.owner.GetMyRank() {
			invariantViolation("defer: %d does not outrank us (%d) under classic strategy", who, e.owner.GetMyRank())
		}
	case Disallow:
		if e.owner.GetDisallowedLeaders().Contains(who) {
			invariantViolation("defer: %d is disallowed", who)
		}
	}
	e.logCtx().Debug().Int("who", int(who)).Msg("defer")

	if e.ElectingMe {
		e.AckedMe = make(RankSet)
		e.ElectingMe = false
	}

	e.leaderAcked = who
	e.owner.DeferTo(who)
}

// EndElectionPeriod is invoked by the Owner's timer when a round has run
// too long without a victory or a new election being started.
func (e *Engine) EndElectionPeriod() {
	e.logCtx().Debug().Msg("election period ended")

	if e.ElectingMe && e.AckedMe.Len() > e.owner.PaxosSize()/2 {
		e.declareVictory()
		return
	}
	if e.owner.EverParticipated() {
		e.Start()
		return
	}
	e.owner.ResetElection()
}

// declareVictory bumps the epoch past the election and announces the new
// quorum (the set of ranks that acked us) to the cluster.
func (e *Engine) declareVictory() {
	e.logCtx().Info().Interface("acked_me", e.AckedMe.Slice()).Msg("declaring victory")

	e.leaderAcked = NoRank
	e.ElectingMe = false

	quorum := e.AckedMe
	e.AckedMe = make(RankSet)

	if e.epoch.Stable() {
		invariantViolation("declare_victory: epoch %d is not an election epoch", e.epoch)
	}
	e.bumpEpoch(e.epoch.Next())

	e.owner.MessageVictory(quorum)
}

// ReceivePropose handles a PROPOSE from another participant.
func (e *Engine) ReceivePropose(from Rank, mepoch Epoch) {
	if mepoch > e.epoch {
		e.bumpEpoch(mepoch)
	} else if mepoch < e.epoch {
		if e.epoch.Stable() && !e.owner.IsCurrentMember(from) {
			e.logCtx().Debug().Int("from", int(from)).Msg("got propose from old epoch, peer must have just started")
			e.owner.TriggerNewElection()
		} else {
			e.logCtx().Debug().Msg("ignoring old propose")
		}
		return
	}

	disallowed := e.owner.GetDisallowedLeaders()
	myRank := e.owner.GetMyRank()
	meDisallowed := disallowed.Contains(myRank)
	fromDisallowed := disallowed.Contains(from)

	myWin := !meDisallowed && (myRank < from || fromDisallowed)
	theirWin := !fromDisallowed &&
		(myRank > from || meDisallowed) &&
		(e.leaderAcked == NoRank || e.leaderAcked >= from)

	switch {
	case myWin:
		if e.leaderAcked != NoRank {
			if !(e.leaderAcked < from || fromDisallowed) {
				invariantViolation("receive_propose: already acked %d but %d should still win over it", e.leaderAcked, from)
			}
			e.logCtx().Debug().Int("already_acked", int(e.leaderAcked)).Msg("no, we already acked someone")
			return
		}
		if !e.ElectingMe {
			e.owner.TriggerNewElection()
		}
	case theirWin:
		e.concedeTo(from)
	default:
		e.logCtx().Debug().Int("already_acked", int(e.leaderAcked)).Msg("ignoring propose, standoff")
	}
}

// ReceiveAck handles an ACK from another participant acknowledging our
// campaign.
func (e *Engine) ReceiveAck(from Rank, fromEpoch Epoch) {
	if fromEpoch.Stable() {
		invariantViolation("receive_ack: sender epoch %d is not an election epoch", fromEpoch)
	}
	if fromEpoch > e.epoch {
		e.logCtx().Debug().Msg("ack from a newer epoch, bumping and restarting")
		e.bumpEpoch(fromEpoch)
		e.Start()
		return
	}
	if !e.ElectingMe {
		if e.leaderAcked == NoRank {
			invariantViolation("receive_ack: not electing and not deferring, inconsistent state")
		}
		return
	}
	e.AckedMe.Add(from)
	if e.AckedMe.Len() == e.owner.PaxosSize() {
		e.declareVictory()
	}
}

// ReceiveVictoryClaim handles a VICTORY announcement from the winner of a
// round. It returns true if the claim is accepted (we are now a peon).
func (e *Engine) ReceiveVictoryClaim(from Rank, fromEpoch Epoch) bool {
	if !(from < e.owner.GetMyRank() || e.owner.GetDisallowedLeaders().Contains(e.owner.GetMyRank())) {
		invariantViolation("receive_victory_claim: %d does not outrank us (%d)", from, e.owner.GetMyRank())
	}
	if fromEpoch.Electing() {
		invariantViolation("receive_victory_claim: epoch %d is not even", fromEpoch)
	}

	e.leaderAcked = NoRank

	if fromEpoch != e.epoch.Next() {
		e.logCtx().Debug().Uint64("claimed_epoch", uint64(fromEpoch)).Msg("desynced victory claim, bumping and restarting")
		e.bumpEpoch(fromEpoch)
		e.Start()
		return false
	}

	e.bumpEpoch(fromEpoch)
	return true
}
