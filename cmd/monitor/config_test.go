package main

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dapperlabs/paxosmon/election"
)

func validViper() *viper.Viper {
	v := viper.New()
	v.Set("committee", []string{"0@localhost:9001", "1@localhost:9002"})
	v.Set("rank", 0)
	v.Set("strategy", "classic")
	v.Set("data-dir", "/tmp/paxosmon")
	v.Set("listen", "localhost:9001")
	return v
}

func TestLoadConfigAcceptsValidInput(t *testing.T) {
	cfg, err := loadConfig(validViper())
	require.NoError(t, err)
	assert.Equal(t, election.Classic, cfg.electionStrategy())
}

func TestLoadConfigRejectsEmptyCommittee(t *testing.T) {
	v := validViper()
	v.Set("committee", []string{})
	_, err := loadConfig(v)
	assert.Error(t, err)
}

func TestLoadConfigRejectsUnknownStrategy(t *testing.T) {
	v := validViper()
	v.Set("strategy", "raft")
	_, err := loadConfig(v)
	assert.Error(t, err)
}

func TestLoadConfigBuildsDisallowSet(t *testing.T) {
	v := validViper()
	v.Set("strategy", "disallow")
	v.Set("disallow", []int{2, 3})
	cfg, err := loadConfig(v)
	require.NoError(t, err)

	assert.Equal(t, election.Disallow, cfg.electionStrategy())
	ds := cfg.disallowedLeaders()
	assert.True(t, ds.Contains(election.Rank(2)))
	assert.True(t, ds.Contains(election.Rank(3)))
	assert.False(t, ds.Contains(election.Rank(0)))
}
