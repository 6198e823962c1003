package election

// Owner is the set of capabilities the Engine requires from its embedder.
// The Engine holds a non-owning reference to its Owner; the Owner, in
// turn, owns the Engine. No shared ownership is required on either side.
//
// Every method here corresponds to one row of the Owner-interface table
// in the design: persistence, peer messaging, and the handful of
// notifications the Engine uses to ask the Owner to do something it
// cannot do itself (arm a timer, retry a round, reset wholesale).
type Owner interface {
	// PersistEpoch durably records e such that the next ReadPersistedEpoch
	// after any crash returns a value >= e. Synchronous w.r.t. the caller.
	PersistEpoch(e Epoch)
	// ReadPersistedEpoch returns the highest previously-persisted epoch,
	// or 0 if PersistEpoch has never been called.
	ReadPersistedEpoch() Epoch
	// ValidateStore confirms the durable medium is writable. Called
	// before starting a campaign when the stored epoch is already odd.
	// A non-nil error is fatal: Start turns it into an InvariantError
	// panic.
	ValidateStore() error

	// NotifyBumpEpoch is purely informational: the Owner should reset any
	// in-flight election bookkeeping of its own.
	NotifyBumpEpoch()
	// TriggerNewElection asks that Start be re-entered after the current
	// event returns. May be satisfied synchronously.
	TriggerNewElection()

	// GetMyRank returns this participant's rank. Stable within an epoch.
	GetMyRank() Rank
	// PaxosSize returns N, the configured cluster size.
	PaxosSize() int

	// ProposeToPeers broadcasts a PROPOSE message tagged with epoch e to
	// every peer.
	ProposeToPeers(e Epoch)
	// StartRound notifies the Owner an odd epoch has begun, so it can arm
	// its election-timeout timer.
	StartRound()
	// DeferTo sends an ACK to who, tagged with the current odd epoch.
	DeferTo(who Rank)
	// MessageVictory announces victory with the given acking ranks to all
	// peers.
	MessageVictory(quorum RankSet)

	// ResetElection restarts the participant's election subsystem from
	// scratch. Used when we have never participated and have lost the
	// current round.
	ResetElection()
	// IsCurrentMember returns whether r is in the presently-believed
	// stable quorum.
	IsCurrentMember(r Rank) bool
	// EverParticipated returns true if this participant has ever been
	// part of a formed quorum.
	EverParticipated() bool
	// GetDisallowedLeaders returns the current disallow-set. Read
	// dynamically on every arbitration; under Classic it is always empty.
	GetDisallowedLeaders() RankSet
}

// PeerTracker is the narrow slice of the Peer Tracker component the
// Engine is allowed to call. It is mutated only through IncreaseEpoch;
// everything else about peer liveness belongs to the Owner.
type PeerTracker interface {
	IncreaseEpoch(e Epoch)
}
