package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/0xERR0R/nsecguard/signature"
)

// NewKeygenCommand creates new command instance
func NewKeygenCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "keygen",
		Args:  cobra.NoArgs,
		Short: "generates the zone key pair into the configured key files",
		RunE:  keygen,
	}

	c.Flags().BoolP("force", "f", false, "overwrite existing key files")

	return c
}

func keygen(cmd *cobra.Command, _ []string) error {
	cfg, err := initConfig()
	if err != nil {
		return err
	}

	force, _ := cmd.Flags().GetBool("force")

	if !force {
		for _, path := range []string{cfg.Keys.PublicKey, cfg.Keys.PrivateKey} {
			if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("key file '%s' already exists, use --force to overwrite", path)
			}
		}
	}

	alg, err := cfg.Keys.AlgorithmNumber()
	if err != nil {
		return withExitCode(exitConfig, err)
	}

	key, privateKey, err := signature.GenerateKeyPair(cfg.Keys.Zone, alg)
	if err != nil {
		return err
	}

	if err := signature.WriteKeyPair(key, privateKey, cfg.Keys.PublicKey, cfg.Keys.PrivateKey); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "generated %s key for zone %s with key tag %d\n",
		cfg.Keys.Algorithm, key.Hdr.Name, key.KeyTag())

	return nil
}
