package main

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/dapperlabs/paxosmon/election"
)

// runConfig is the fully-resolved configuration for one monitor process,
// after flags, a config file, and PAXOSMON_*-prefixed environment
// variables have all been merged by Viper.
type runConfig struct {
	Committee       []string
	OwnRank         int
	Strategy        string
	DisallowedRanks []int
	DataDir         string
	ListenAddress   string
	ElectionTimeout time.Duration
	BroadcastConcurrency int
}

func loadConfig(v *viper.Viper) (runConfig, error) {
	cfg := runConfig{
		Committee:            v.GetStringSlice("committee"),
		OwnRank:              v.GetInt("rank"),
		Strategy:             v.GetString("strategy"),
		DisallowedRanks:      v.GetIntSlice("disallow"),
		DataDir:              v.GetString("data-dir"),
		ListenAddress:        v.GetString("listen"),
		ElectionTimeout:      v.GetDuration("election-timeout"),
		BroadcastConcurrency: v.GetInt("broadcast-concurrency"),
	}

	if len(cfg.Committee) == 0 {
		return cfg, fmt.Errorf("cmd/monitor: committee must list at least one peer")
	}
	if cfg.DataDir == "" {
		return cfg, fmt.Errorf("cmd/monitor: data-dir is required")
	}
	if cfg.ListenAddress == "" {
		return cfg, fmt.Errorf("cmd/monitor: listen address is required")
	}
	switch cfg.Strategy {
	case "classic", "disallow":
	default:
		return cfg, fmt.Errorf("cmd/monitor: unknown strategy %q, want classic or disallow", cfg.Strategy)
	}

	return cfg, nil
}

func (c runConfig) electionStrategy() election.Strategy {
	if c.Strategy == "disallow" {
		return election.Disallow
	}
	return election.Classic
}

func (c runConfig) disallowedLeaders() election.RankSet {
	if c.Strategy != "disallow" {
		return election.NewRankSet()
	}
	ranks := make([]election.Rank, len(c.DisallowedRanks))
	for i, r := range c.DisallowedRanks {
		ranks[i] = election.Rank(r)
	}
	return election.NewRankSet(ranks...)
}
