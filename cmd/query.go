package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/0xERR0R/nsecguard/client"
	"github.com/0xERR0R/nsecguard/model"
	"github.com/0xERR0R/nsecguard/protocol"
)

// NewQueryCommand creates new command instance
func NewQueryCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "query <domain>...",
		Args:  cobra.MinimumNArgs(1),
		Short: "queries the server and verifies the answers",
		RunE:  query,
	}

	c.Flags().String("id", "", "client id sent to the server (default client.id)")

	return c
}

func query(cmd *cobra.Command, args []string) error {
	cfg, err := initConfig()
	if err != nil {
		return err
	}

	verifier, err := loadVerifier(cfg)
	if err != nil {
		return err
	}

	clientID, _ := cmd.Flags().GetString("id")
	if clientID == "" {
		clientID = cfg.Client.ID
	}

	session, err := client.Dial(commandContext(cmd), cfg.Client, clientID, verifier)
	if err != nil {
		return err
	}
	defer session.Close()

	out := cmd.OutOrStdout()

	for _, domain := range args {
		res, err := session.Query(domain)
		if errors.Is(err, protocol.ErrServerMessage) {
			fmt.Fprintf(out, "%s\t%v\n", domain, err)

			continue
		}

		if err != nil {
			return fmt.Errorf("query '%s' failed: %w", domain, err)
		}

		switch res.Type {
		case model.ResponseTypeRECORD:
			fmt.Fprintf(out, "%s\tRECORD\t%s\tverified: %t\n", domain, res.IP, res.Verified)
		case model.ResponseTypeNSEC:
			fmt.Fprintf(out, "%s\tNSEC\t%s %s\tverified: %t\n", domain, res.Start, res.End, res.Verified)
		default:
			fmt.Fprintf(out, "%s\t%s\n", domain, res.Type)
		}
	}

	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}

	return context.Background()
}
