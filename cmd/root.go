package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/0xERR0R/nsecguard/config"
	"github.com/0xERR0R/nsecguard/log"
	"github.com/0xERR0R/nsecguard/util"
)

// Exit codes of fatal startup failures
const (
	exitConfig = 1
	exitLoad   = 2
	exitBind   = 3
)

const (
	defaultConfigPath = "./config.yml"
	configFileEnvVar  = "NSECGUARD_CONFIG_FILE"
)

//nolint:gochecknoglobals
var (
	version    = "undefined"
	buildTime  = "undefined"
	configPath string
)

// exitError carries the process exit code of a failed command
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func withExitCode(code int, err error) error {
	if err == nil {
		return nil
	}

	return &exitError{code: code, err: err}
}

// NewRootCommand creates the root command with all subcommands
func NewRootCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "nsecguard",
		Short: "nsecguard simulates NSEC zone walking against a low profiling detector",
		Long: `An authoritative line protocol server answering with signed records
or signed NSEC ranges, a detector blocking low profiling zone walkers
and the matching attacker simulation.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return startServer(cmd, args)
		},
	}

	c.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to config file")

	c.AddCommand(
		newServeCommand(),
		NewWalkCommand(),
		NewQueryCommand(),
		NewEvaluateCommand(),
		NewKeygenCommand(),
		NewVersionCommand(),
	)

	return c
}

// initConfig loads the configuration and configures the logger. The config file is mandatory
// if it was set explicitly.
func initConfig() (*config.Config, error) {
	mandatory := configPath != defaultConfigPath

	if path, ok := os.LookupEnv(configFileEnvVar); ok {
		configPath = path
		mandatory = true
	}

	cfg, err := config.LoadConfig(configPath, mandatory)
	if err != nil {
		return nil, withExitCode(exitConfig, fmt.Errorf("unable to load configuration: %w", err))
	}

	log.ConfigureLogger(cfg.Log)

	return cfg, nil
}

// Execute runs the root command and exits with the code of the failure
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		code := exitConfig

		var exitErr *exitError
		if errors.As(err, &exitErr) {
			code = exitErr.code
		}

		util.ExitOnError(code, "nsecguard failed: ", err)
	}
}
