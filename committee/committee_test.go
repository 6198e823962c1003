package committee_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dapperlabs/paxosmon/committee"
	"github.com/dapperlabs/paxosmon/election"
)

func validEntries() []string {
	return []string{
		"0@mon0.example.com:3300",
		"1@mon1.example.com:3300",
		"2@mon2.example.com:3300",
	}
}

func TestNewParsesEntries(t *testing.T) {
	c, err := committee.New(validEntries(), election.Rank(1))
	require.NoError(t, err)

	assert.Equal(t, election.Rank(1), c.GetMyRank())
	assert.Equal(t, 3, c.PaxosSize())
	assert.True(t, c.IsCurrentMember(election.Rank(0)))
	assert.False(t, c.IsCurrentMember(election.Rank(9)))

	addr, ok := c.Address(election.Rank(2))
	require.True(t, ok)
	assert.Equal(t, "mon2.example.com:3300", addr)
}

func TestNewRejectsMalformedEntry(t *testing.T) {
	_, err := committee.New([]string{"not-an-entry"}, election.Rank(0))
	assert.Error(t, err)
}

func TestNewRejectsDuplicateRank(t *testing.T) {
	_, err := committee.New([]string{
		"0@a.example.com:1",
		"0@b.example.com:2",
	}, election.Rank(0))
	assert.Error(t, err)
}

func TestNewRejectsMissingOwnRank(t *testing.T) {
	_, err := committee.New(validEntries(), election.Rank(7))
	assert.Error(t, err)
}

func TestAddRegistersNewPeer(t *testing.T) {
	c, err := committee.New(validEntries(), election.Rank(0))
	require.NoError(t, err)

	require.NoError(t, c.Add(election.Rank(3), "mon3.example.com:3300"))
	assert.Equal(t, 4, c.PaxosSize())
	assert.True(t, c.IsCurrentMember(election.Rank(3)))
}

func TestAddIsIdempotentForSameAddress(t *testing.T) {
	c, err := committee.New(validEntries(), election.Rank(0))
	require.NoError(t, err)

	addr, _ := c.Address(election.Rank(1))
	assert.NoError(t, c.Add(election.Rank(1), addr))
}

func TestAddRejectsConflictingAddress(t *testing.T) {
	c, err := committee.New(validEntries(), election.Rank(0))
	require.NoError(t, err)

	assert.Error(t, c.Add(election.Rank(1), "different-host:9999"))
}
