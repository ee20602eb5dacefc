package cmd

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/hako/durafmt"
	"github.com/spf13/cobra"

	"github.com/0xERR0R/nsecguard/client"
)

// NewWalkCommand creates new command instance
func NewWalkCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "walk [seed]",
		Args:  cobra.MaximumNArgs(1),
		Short: "enumerates the zone by following the NSEC chain",
		RunE:  walk,
	}

	c.Flags().Float64("noise", 0, "probability of a decoy query per step")
	c.Flags().Int64("random-seed", time.Now().UnixNano(), "seed of the decoy generator")
	c.Flags().String("id", "", "client id sent to the server (default client.id)")
	c.Flags().StringP("out", "o", "", "write the fetched records as CSV to this file")

	return c
}

func walk(cmd *cobra.Command, args []string) error {
	cfg, err := initConfig()
	if err != nil {
		return err
	}

	verifier, err := loadVerifier(cfg)
	if err != nil {
		return err
	}

	seed := client.DefaultSeed
	if len(args) == 1 {
		seed = args[0]
	}

	noise, _ := cmd.Flags().GetFloat64("noise")
	randomSeed, _ := cmd.Flags().GetInt64("random-seed")
	outPath, _ := cmd.Flags().GetString("out")

	clientID, _ := cmd.Flags().GetString("id")
	if clientID == "" {
		clientID = cfg.Client.ID
	}

	attacker, err := client.NewAttacker(noise, randomSeed)
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)

	session, err := client.Dial(ctx, cfg.Client, clientID, verifier)
	if err != nil {
		return err
	}
	defer session.Close()

	result := attacker.Walk(ctx, session, seed)

	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "fetched: %d\n", result.Fetched)
	fmt.Fprintf(out, "runtime: %s\n", durafmt.Parse(result.Runtime))
	fmt.Fprintf(out, "speed: %.4f domain/ms\n", result.Speed())
	fmt.Fprintf(out, "stopped: %v\n", result.StopReason)

	if outPath == "" {
		return nil
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("can't create output file: %w", err)
	}
	defer f.Close()

	return writeRecords(f, result.Records)
}

// writeRecords writes fetched records in the record file format
func writeRecords(out io.Writer, records []*client.Result) error {
	w := csv.NewWriter(out)

	for _, r := range records {
		if err := w.Write([]string{r.Domain, r.IP}); err != nil {
			return fmt.Errorf("can't write record: %w", err)
		}
	}

	w.Flush()

	return w.Error()
}
