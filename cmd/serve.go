package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hako/durafmt"
	"github.com/spf13/cobra"

	"github.com/0xERR0R/nsecguard/config"
	"github.com/0xERR0R/nsecguard/detector"
	"github.com/0xERR0R/nsecguard/evt"
	"github.com/0xERR0R/nsecguard/log"
	"github.com/0xERR0R/nsecguard/metrics"
	"github.com/0xERR0R/nsecguard/responder"
	"github.com/0xERR0R/nsecguard/server"
	"github.com/0xERR0R/nsecguard/signature"
	"github.com/0xERR0R/nsecguard/zone"
)

const shutdownTimeout = 10 * time.Second

//nolint:gochecknoglobals
var signals = make(chan os.Signal, 1)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Args:  cobra.NoArgs,
		Short: "start the nsecguard server (default command)",
		RunE:  startServer,
	}
}

func startServer(_ *cobra.Command, _ []string) error {
	printBanner()

	cfg, err := initConfig()
	if err != nil {
		return err
	}

	cfg.LogConfig(log.PrefixedLog("config"))

	signer, err := signature.NewServiceFromConfig(cfg.Keys, true)
	if err != nil {
		return withExitCode(exitLoad, fmt.Errorf("unable to load keys: %w", err))
	}

	store, err := loadStore(cfg, signer)
	if err != nil {
		return withExitCode(exitLoad, err)
	}

	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var metricsSrv *metrics.Service

	if cfg.Metrics.IsEnabled() {
		metrics.StartCollection()

		metricsSrv = metrics.NewService(cfg.Metrics)
		if err := metricsSrv.Start(ctx); err != nil {
			return withExitCode(exitBind, err)
		}
	}

	srv := server.NewServer(cfg.Server,
		responder.NewResponder(cfg, store, detector.NewDetector(cfg.LowProfiling)))

	if err := srv.Start(ctx); err != nil {
		stopMetrics(metricsSrv)

		return withExitCode(exitBind, fmt.Errorf("can't start server: %w", err))
	}

	started := time.Now()

	evt.Bus().Publish(evt.ApplicationStarted, version, buildTime)

	<-signals
	log.Log().Infof("Terminating after %s...", durafmt.Parse(time.Since(started)).LimitFirstN(2))

	stopCtx, stopCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stopCancel()

	stopMetrics(metricsSrv)

	return srv.Stop(stopCtx)
}

func stopMetrics(srv *metrics.Service) {
	if srv == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Stop(ctx); err != nil {
		log.Log().Warn("can't stop metrics service: ", err)
	}
}

// loadStore reads the records and signs the chain
func loadStore(cfg *config.Config, signer signature.Signer) (*zone.Store, error) {
	records, err := zone.LoadRecords(cfg.Records.File)
	if err != nil {
		return nil, fmt.Errorf("unable to load records: %w", err)
	}

	store, err := zone.NewStore(records, signer)
	if err != nil {
		return nil, fmt.Errorf("unable to build record store: %w", err)
	}

	return store, nil
}

// loadVerifier reads the public key only
func loadVerifier(cfg *config.Config) (signature.Verifier, error) {
	verifier, err := signature.NewServiceFromConfig(cfg.Keys, false)
	if err != nil {
		return nil, withExitCode(exitLoad, fmt.Errorf("unable to load public key: %w", err))
	}

	return verifier, nil
}

func printBanner() {
	log.Log().Info("_/_/_/_/_/_/_/_/_/_/_/_/_/_/_/_/_/_/_/_/_/_/_/_/_/_/_/_/_/_/_/_/_/")
	log.Log().Info("_/                                                              _/")
	log.Log().Info("_/     _/_/_/      _/_/_/    _/_/      _/_/_/                   _/")
	log.Log().Info("_/    _/    _/  _/_/      _/_/_/_/  _/                          _/")
	log.Log().Info("_/   _/    _/      _/_/  _/        _/         guard             _/")
	log.Log().Info("_/  _/    _/  _/_/_/      _/_/_/    _/_/_/                      _/")
	log.Log().Info("_/                                                              _/")
	log.Log().Infof("_/  Version: %-18s Build time: %-18s  _/", version, buildTime)
	log.Log().Info("_/                                                              _/")
	log.Log().Info("_/_/_/_/_/_/_/_/_/_/_/_/_/_/_/_/_/_/_/_/_/_/_/_/_/_/_/_/_/_/_/_/_/")
}
