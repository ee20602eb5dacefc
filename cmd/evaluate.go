package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/0xERR0R/nsecguard/client"
	"github.com/0xERR0R/nsecguard/config"
	"github.com/0xERR0R/nsecguard/detector"
	"github.com/0xERR0R/nsecguard/log"
	"github.com/0xERR0R/nsecguard/responder"
	"github.com/0xERR0R/nsecguard/server"
	"github.com/0xERR0R/nsecguard/signature"
	"github.com/0xERR0R/nsecguard/zone"
)

// NewEvaluateCommand creates new command instance
func NewEvaluateCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "evaluate",
		Args:  cobra.NoArgs,
		Short: "runs concurrent attackers with random noise against fresh servers",
		RunE:  evaluate,
	}

	c.Flags().Uint("attackers", 0, "attackers per iteration (default evaluation.attackers)")
	c.Flags().Uint("iterations", 0, "number of iterations (default evaluation.iterations)")
	c.Flags().StringP("out", "o", "", "CSV output file (default evaluation.output)")
	c.Flags().Int64("random-seed", time.Now().UnixNano(), "seed of the noise generator")

	return c
}

func evaluate(cmd *cobra.Command, _ []string) error {
	cfg, err := initConfig()
	if err != nil {
		return err
	}

	if err := applyEvaluationFlags(cmd, &cfg.Evaluation); err != nil {
		return withExitCode(exitConfig, err)
	}

	cfg.Evaluation.LogConfig(log.PrefixedLog("evaluation"))

	keys, err := signature.NewServiceFromConfig(cfg.Keys, true)
	if err != nil {
		return withExitCode(exitLoad, fmt.Errorf("unable to load keys: %w", err))
	}

	store, err := loadStore(cfg, keys)
	if err != nil {
		return withExitCode(exitLoad, err)
	}

	out, err := os.Create(cfg.Evaluation.Output)
	if err != nil {
		return fmt.Errorf("can't create output file: %w", err)
	}
	defer out.Close()

	randomSeed, _ := cmd.Flags().GetInt64("random-seed")

	evaluator := client.NewEvaluator(cfg.Evaluation, cfg.Client, keys, store.Len(),
		newTargetFactory(cfg, store), randomSeed)

	return evaluator.Run(commandContext(cmd), out)
}

func applyEvaluationFlags(cmd *cobra.Command, cfg *config.Evaluation) error {
	flags := cmd.Flags()

	if flags.Changed("attackers") {
		cfg.Attackers, _ = flags.GetUint("attackers")
	}

	if flags.Changed("iterations") {
		cfg.Iterations, _ = flags.GetUint("iterations")
	}

	if flags.Changed("out") {
		cfg.Output, _ = flags.GetString("out")
	}

	if !cfg.IsEnabled() {
		return fmt.Errorf("nothing to evaluate with %d attackers and %d iterations", cfg.Attackers, cfg.Iterations)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid evaluation flags: %w", err)
	}

	return nil
}

// newTargetFactory starts servers on a random port sharing the signed store. Every server gets
// a fresh detector.
func newTargetFactory(cfg *config.Config, store *zone.Store) client.TargetFactory {
	serverCfg := cfg.Server
	serverCfg.Port = 0

	return func(ctx context.Context) (*client.Target, error) {
		srv := server.NewServer(serverCfg,
			responder.NewResponder(cfg, store, detector.NewDetector(cfg.LowProfiling)))

		if err := srv.Start(ctx); err != nil {
			return nil, err
		}

		return &client.Target{Addr: srv.Addr().String(), Stop: srv.Stop}, nil
	}
}
