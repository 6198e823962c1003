// Package peertracker scores peer connectivity for a single election
// participant. It satisfies election.PeerTracker's narrow IncreaseEpoch
// contract and additionally gives the Owner a read side (Score) and a
// transport-facing write side (ReportAlive/ReportUnreachable) that the
// Engine itself never touches.
package peertracker

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/dapperlabs/paxosmon/election"
)

// decayWindow is how long after a peer's last successful send its
// recency factor takes to fall from 1 to 0.
const decayWindow = 30 * time.Second

type peerState struct {
	lastAlive       time.Time
	consecutiveMiss int
}

// Tracker is safe for concurrent use: ReportAlive/ReportUnreachable are
// called from the transport's send goroutines, while IncreaseEpoch and
// Score are called from the Owner's serialized event loop.
type Tracker struct {
	mu    sync.Mutex
	log   zerolog.Logger
	peers map[election.Rank]*peerState
}

// New returns a Tracker with no peers yet scored; unseen ranks default to
// a neutral score of 1.0 until their first report.
func New(log zerolog.Logger) *Tracker {
	return &Tracker{
		log:   log.With().Str("component", "peer_tracker").Logger(),
		peers: make(map[election.Rank]*peerState),
	}
}

// IncreaseEpoch resets the miss counter for every peer: moving on to a
// new epoch means any suspicion accumulated about stale peers in the old
// epoch no longer applies to the new round.
func (t *Tracker) IncreaseEpoch(e election.Epoch) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for rank, st := range t.peers {
		if st.consecutiveMiss > 0 {
			t.log.Debug().Int("rank", int(rank)).Uint64("epoch", uint64(e)).Msg("clearing miss streak on epoch bump")
		}
		st.consecutiveMiss = 0
	}
}

// ReportAlive records a successful send to rank.
func (t *Tracker) ReportAlive(rank election.Rank) {
	t.mu.Lock()
	defer t.mu.Unlock()

	st := t.stateFor(rank)
	st.lastAlive = time.Now()
	st.consecutiveMiss = 0
}

// ReportUnreachable records a failed send to rank.
func (t *Tracker) ReportUnreachable(rank election.Rank) {
	t.mu.Lock()
	defer t.mu.Unlock()

	st := t.stateFor(rank)
	st.consecutiveMiss++
}

func (t *Tracker) stateFor(rank election.Rank) *peerState {
	st, ok := t.peers[rank]
	if !ok {
		st = &peerState{lastAlive: time.Now()}
		t.peers[rank] = st
	}
	return st
}

// Score returns a connectivity score in [0,1] for rank: 1.0 means
// recently reported alive with no misses. Time since the last successful
// send lowers it to 0.5 at most over decayWindow; each consecutive miss
// divides it further (by misses+1). An unseen rank scores 1.0 (no
// evidence of trouble yet).
func (t *Tracker) Score(rank election.Rank) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	st, ok := t.peers[rank]
	if !ok {
		return 1.0
	}

	missPenalty := 1.0
	if st.consecutiveMiss > 0 {
		missPenalty = 1.0 / float64(st.consecutiveMiss+1)
	}

	elapsed := time.Since(st.lastAlive)
	recency := 1.0
	if elapsed > 0 {
		recency = 1.0 - float64(elapsed)/float64(decayWindow)
		if recency < 0 {
			recency = 0
		}
	}

	score := missPenalty * (0.5 + 0.5*recency)
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
