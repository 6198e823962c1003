// Command monitor runs one participant of a monitor cluster leader
// election: it loads the committee and strategy from config, opens the
// durable epoch store, and serves PROPOSE/ACK/VICTORY traffic until
// signalled to stop.
package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dapperlabs/paxosmon/committee"
	"github.com/dapperlabs/paxosmon/election"
	"github.com/dapperlabs/paxosmon/monitor"
	"github.com/dapperlabs/paxosmon/peertracker"
	"github.com/dapperlabs/paxosmon/store"
	"github.com/dapperlabs/paxosmon/wire"
)

func newRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("paxosmon")
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Run one participant of a monitor cluster leader election",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := v.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringSlice("committee", nil, `cluster members as "rank@host:port", repeatable`)
	flags.Int("rank", 0, "this process's own rank")
	flags.String("strategy", "classic", "arbitration strategy: classic or disallow")
	flags.IntSlice("disallow", nil, "ranks that may never win leadership (strategy=disallow only)")
	flags.String("data-dir", "", "directory for the embedded epoch store")
	flags.String("listen", "", "address to accept peer connections on")
	flags.Duration("election-timeout", 2*time.Second, "base election-round timeout before jitter")
	flags.Int("broadcast-concurrency", 4, "max concurrent sends during a victory broadcast")
	flags.String("config", "", "path to a YAML config file")

	cobra.OnInitialize(func() {
		if path, _ := flags.GetString("config"); path != "" {
			v.SetConfigFile(path)
			_ = v.ReadInConfig()
		}
	})

	return cmd
}

func run(ctx context.Context, cfg runConfig) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	comm, err := committee.New(cfg.Committee, election.Rank(cfg.OwnRank))
	if err != nil {
		return fmt.Errorf("cmd/monitor: build committee: %w", err)
	}

	epochStore, err := store.OpenBadgerStore(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("cmd/monitor: open store: %w", err)
	}
	defer epochStore.Close()

	tracker := peertracker.New(log)
	transport := wire.NewPeerBroadcaster(&wire.TCPDialer{}, comm, tracker, cfg.BroadcastConcurrency)
	defer transport.Close()

	mon, err := monitor.New(comm, epochStore, tracker, transport, monitor.Config{
		Strategy:          cfg.electionStrategy(),
		DisallowedLeaders: cfg.disallowedLeaders(),
		ElectionTimeout:   cfg.ElectionTimeout,
		Log:               log,
		OnFatal: func(err error) {
			// zerolog's Fatal level exits the process after writing,
			// so this never returns.
			log.Fatal().Err(err).Msg("unrecoverable election error, exiting")
		},
	})
	if err != nil {
		return fmt.Errorf("cmd/monitor: build monitor: %w", err)
	}

	listener, err := net.Listen("tcp", cfg.ListenAddress)
	if err != nil {
		return fmt.Errorf("cmd/monitor: listen on %s: %w", cfg.ListenAddress, err)
	}
	server := monitor.NewServer(listener, mon, log)
	go func() {
		if err := server.Serve(); err != nil {
			log.Debug().Err(err).Msg("server stopped accepting connections")
		}
	}()

	if comm.PaxosSize() == 1 {
		mon.StartStandalone()
	} else {
		mon.Start()
	}

	<-ctx.Done()

	log.Info().Msg("shutting down")
	_ = server.Close()
	mon.Stop()
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
