// Package committee parses and holds the static cluster member list a
// Monitor campaigns against. It is adapted from the legacy node-identity
// table in the reference corpus and keeps that file's error-wrapping
// idiom (github.com/pkg/errors) rather than the fmt.Errorf/%w style used
// elsewhere in this module.
package committee

import (
	"fmt"
	"regexp"
	"sync"

	"github.com/pkg/errors"

	"github.com/dapperlabs/paxosmon/election"
)

var entryPattern = regexp.MustCompile(`^(\d+)@([\w\.\-]+:\d{1,5})$`)

// Peer is one cluster member's rank and dial address.
type Peer struct {
	Rank    election.Rank
	Address string
}

// Committee is the static, configured set of election participants:
// every peer's rank and address, plus which rank is "us". It satisfies
// the membership-facing slice of election.Owner by delegation from
// monitor.Monitor.
type Committee struct {
	mu   sync.RWMutex
	me   election.Rank
	size int
	peers map[election.Rank]Peer
}

// New parses entries of the form "rank@host:port" into a Committee. own
// must name one of the parsed ranks; it identifies which entry is this
// process.
func New(entries []string, own election.Rank) (*Committee, error) {
	c := &Committee{
		peers: make(map[election.Rank]Peer, len(entries)),
	}

	for _, entry := range entries {
		fields := entryPattern.FindStringSubmatch(entry)
		if fields == nil {
			return nil, errors.Errorf("invalid committee entry (%s)", entry)
		}

		var rank int
		if _, err := fmt.Sscanf(fields[1], "%d", &rank); err != nil {
			return nil, errors.Wrapf(err, "invalid rank in committee entry (%s)", entry)
		}

		r := election.Rank(rank)
		if _, ok := c.peers[r]; ok {
			return nil, errors.Errorf("duplicate rank in committee (%d)", r)
		}
		c.peers[r] = Peer{Rank: r, Address: fields[2]}
	}

	if _, ok := c.peers[own]; !ok {
		return nil, errors.Errorf("own rank missing from committee entries (%d)", own)
	}
	c.me = own
	c.size = len(c.peers)

	return c, nil
}

// GetMyRank returns the configured local rank.
func (c *Committee) GetMyRank() election.Rank {
	return c.me
}

// PaxosSize returns N, the number of configured peers.
func (c *Committee) PaxosSize() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.size
}

// IsCurrentMember reports whether r is a configured peer.
func (c *Committee) IsCurrentMember(r election.Rank) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.peers[r]
	return ok
}

// Address returns the dial address for r, or false if r is unknown.
func (c *Committee) Address(r election.Rank) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.peers[r]
	return p.Address, ok
}

// Peers returns a snapshot of every configured peer.
func (c *Committee) Peers() []Peer {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Peer, 0, len(c.peers))
	for _, p := range c.peers {
		out = append(out, p)
	}
	return out
}

// Add registers a peer under rank r at address, growing PaxosSize by one
// for a new rank. Nothing else in this module calls it: the wire messages
// carry no address, and neither the Monitor nor the Engine adds members
// on its own.
func (c *Committee) Add(r election.Rank, address string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.peers[r]; ok {
		if existing.Address != address {
			return errors.Errorf("rank %d already registered with a different address (%s)", r, existing.Address)
		}
		return nil
	}
	c.peers[r] = Peer{Rank: r, Address: address}
	c.size = len(c.peers)
	return nil
}
