package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/example/hiring-portal/internal/config"
)

const appName = "hiring"

type rootOptions struct {
	configFile string
	envFiles   []string
	debug      bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          appName,
		Short:        "hiring serves candidate screening and interview scheduling",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "a YAML config file (keys as in HIRING_* without the prefix)")
	cmd.PersistentFlags().StringSliceVar(&opts.envFiles, "env-file", nil, "dotenv files to load (default .env)")
	cmd.PersistentFlags().BoolVarP(&opts.debug, "debug", "d", false, "verbose/debug output")

	cmd.AddCommand(
		newServeCommand(opts),
		newMigrateCommand(opts),
		newSeedCommand(opts),
		newSlotsCommand(opts),
	)
	return cmd
}

// load reads the configuration and builds the JSON logger every subcommand uses.
func (o *rootOptions) load(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	cfg, err := config.LoadWithOptions(config.Options{ConfigFile: o.configFile, EnvFiles: o.envFiles})
	if err != nil {
		return config.Config{}, nil, err
	}

	level := slog.LevelInfo
	if o.debug || cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	return cfg, logger, nil
}
