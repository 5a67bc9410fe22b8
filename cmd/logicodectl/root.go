package main

import (
	"logicode/internal/app"
	"logicode/internal/platform/config"
	"logicode/internal/platform/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// cli holds what PersistentPreRunE builds for the subcommands.
type cli struct {
	configFile string
	verbose    bool
	jsonOutput bool

	app *app.App
	log *zap.Logger
}

func newRootCmd() (*cobra.Command, *cli) {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:   "logicodectl",
		Short: "Administer a LogiCode data store",
		Long: `logicodectl operates directly on the store selected by the usual
environment (STORE_BACKEND, STORE_NAMESPACE, DB_*, SQLITE_PATH, REDIS_*).

It does not need the HTTP server to be running.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.open(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&c.configFile, "config", "c", "", "Config file (overrides CONFIG_FILE)")
	rootCmd.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&c.jsonOutput, "json", false, "Print results as JSON")

	rootCmd.AddCommand(
		newSeedCmd(c),
		newResetCmd(c),
		newStatsCmd(c),
		newUsersCmd(c),
	)
	return rootCmd, c
}

func (c *cli) open(cmd *cobra.Command) error {
	if c.configFile == "" {
		if err := config.Load(); err != nil {
			return err
		}
	} else {
		cfg, err := config.New(c.configFile)
		if err != nil {
			return err
		}
		config.AppConfig = cfg
	}
	cfg := config.AppConfig

	c.log = zap.NewNop()
	if c.verbose {
		l, err := logger.New(logger.Options{Level: "debug", File: cfg.LogFile})
		if err != nil {
			return err
		}
		c.log = l
	}

	a, err := app.New(cmd.Context(), cfg, c.log)
	if err != nil {
		return err
	}
	c.app = a
	return nil
}

func (c *cli) close() error {
	if c.app == nil {
		return nil
	}
	err := c.app.Close()
	c.app = nil
	_ = c.log.Sync()
	return err
}
