package monitor_test

import (
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/dapperlabs/paxosmon/committee"
	"github.com/dapperlabs/paxosmon/election"
	"github.com/dapperlabs/paxosmon/monitor"
	"github.com/dapperlabs/paxosmon/peertracker"
	"github.com/dapperlabs/paxosmon/store"
	"github.com/dapperlabs/paxosmon/wire"
)

// node bundles everything a real, TCP-connected participant needs for
// this end-to-end test: its own listener, transport, and Monitor.
type node struct {
	listener net.Listener
	server   *monitor.Server
	mon      *monitor.Monitor
	broad    *wire.PeerBroadcaster
}

func (n *node) close() {
	_ = n.server.Close()
	_ = n.broad.Close()
}

// buildCluster wires n real participants together over loopback TCP:
// every byte a PROPOSE, ACK or VICTORY takes crosses an actual socket
// and a real msgpack round trip, exercising the full stack above the
// Engine rather than the in-memory cluster simulation used by
// election/cluster_sim_test.go.
func buildCluster(t *testing.T, n int) []*node {
	t.Helper()

	listeners := make([]net.Listener, n)
	entries := make([]string, n)
	for i := 0; i < n; i++ {
		l, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		listeners[i] = l
		entries[i] = fmt.Sprintf("%d@%s", i, l.Addr().String())
	}

	nodes := make([]*node, n)
	for i := 0; i < n; i++ {
		rank := election.Rank(i)
		comm, err := committee.New(entries, rank)
		require.NoError(t, err)

		log := zerolog.Nop()
		tracker := peertracker.New(log)
		broad := wire.NewPeerBroadcaster(&wire.TCPDialer{}, comm, tracker, 4)

		mon, err := monitor.New(comm, store.NewMemoryStore(), tracker, broad, monitor.Config{
			Strategy:        election.Classic,
			ElectionTimeout: 300 * time.Millisecond,
			Log:             log,
			Registerer:      prometheus.NewRegistry(),
			OnFatal: func(err error) {
				t.Errorf("unexpected fatal error from rank %d: %v", rank, err)
			},
		})
		require.NoError(t, err)

		server := monitor.NewServer(listeners[i], mon, log)
		go func() { _ = server.Serve() }()

		nodes[i] = &node{listener: listeners[i], server: server, mon: mon, broad: broad}
	}
	return nodes
}

func TestClusterConvergesToLowestRankOverRealTransport(t *testing.T) {
	nodes := buildCluster(t, 3)
	defer func() {
		for _, n := range nodes {
			n.close()
		}
	}()

	for _, n := range nodes {
		n.mon.Start()
	}

	require.Eventually(t, func() bool {
		for _, n := range nodes {
			if n.mon.Epoch() != election.Epoch(2) {
				return false
			}
		}
		return true
	}, 5*time.Second, 10*time.Millisecond, "cluster never converged to a stable epoch")
}

func TestStandaloneClusterNeedsNoTransport(t *testing.T) {
	nodes := buildCluster(t, 1)
	defer nodes[0].close()

	nodes[0].mon.StartStandalone()
	require.Equal(t, election.Epoch(2), nodes[0].mon.Epoch())
}
