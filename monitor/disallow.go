package monitor

import (
	"sync"

	"github.com/dapperlabs/paxosmon/election"
)

// disallowSet holds the administratively-configured disallowed-leader
// set under the Disallow strategy. The Engine reads it fresh on every
// arbitration (spec §4.6), so updates here take effect on the very next
// PROPOSE or defer decision with no coordination required.
type disallowSet struct {
	mu  sync.RWMutex
	set election.RankSet
}

func newDisallowSet(initial election.RankSet) *disallowSet {
	if initial == nil {
		initial = election.NewRankSet()
	}
	return &disallowSet{set: initial.Clone()}
}

// Get returns the current disallow-set. The Engine is handed this via
// GetDisallowedLeaders.
func (d *disallowSet) Get() election.RankSet {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.set.Clone()
}

// Set replaces the disallow-set wholesale, e.g. from an operator command
// or a config reload.
func (d *disallowSet) Set(ranks election.RankSet) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if ranks == nil {
		ranks = election.NewRankSet()
	}
	d.set = ranks.Clone()
}
