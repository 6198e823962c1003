// Package wire defines the PROPOSE/ACK/VICTORY wire messages and the
// transport abstraction the Monitor uses to send and receive them.
package wire

import "github.com/dapperlabs/paxosmon/election"

// Propose is sent by a participant campaigning for leadership in the
// epoch it carries.
type Propose struct {
	SenderRank int    `msgpack:"sender_rank"`
	Epoch      uint64 `msgpack:"epoch"`
}

// Ack is sent in reply to a Propose, conceding the round to its sender.
type Ack struct {
	SenderRank int    `msgpack:"sender_rank"`
	Epoch      uint64 `msgpack:"epoch"`
}

// Victory announces the winner of a round and the ranks that acked it.
type Victory struct {
	SenderRank int    `msgpack:"sender_rank"`
	Epoch      uint64 `msgpack:"epoch"`
	Quorum     []int  `msgpack:"quorum"`
}

// ProposeFromEngine, AckFromEngine and VictoryFromEngine translate the
// election package's typed Epoch/Rank into the plain integers that
// travel on the wire, keeping the election package itself free of any
// encoding concern. The Monitor calls these immediately before handing
// the result to a Transport.

func ProposeFromEngine(from election.Rank, e election.Epoch) Propose {
	return Propose{SenderRank: int(from), Epoch: uint64(e)}
}

func AckFromEngine(from election.Rank, e election.Epoch) Ack {
	return Ack{SenderRank: int(from), Epoch: uint64(e)}
}

func VictoryFromEngine(from election.Rank, e election.Epoch, quorum election.RankSet) Victory {
	q := make([]int, 0, len(quorum))
	for r := range quorum {
		q = append(q, int(r))
	}
	return Victory{SenderRank: int(from), Epoch: uint64(e), Quorum: q}
}

// Rank and EpochValue convert a received message back to the election
// package's typed values; monitor.Server calls these on the decode side,
// before the Monitor validates and forwards to the Engine.

func (p Propose) Rank() election.Rank   { return election.Rank(p.SenderRank) }
func (p Propose) EpochValue() election.Epoch { return election.Epoch(p.Epoch) }

func (a Ack) Rank() election.Rank   { return election.Rank(a.SenderRank) }
func (a Ack) EpochValue() election.Epoch { return election.Epoch(a.Epoch) }

func (v Victory) Rank() election.Rank   { return election.Rank(v.SenderRank) }
func (v Victory) EpochValue() election.Epoch { return election.Epoch(v.Epoch) }

func (v Victory) QuorumSet() election.RankSet {
	rs := election.NewRankSet()
	for _, r := range v.Quorum {
		rs.Add(election.Rank(r))
	}
	return rs
}
