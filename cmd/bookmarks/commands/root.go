package commands

import (
	"github.com/spf13/cobra"

	auth "github.com/goliatone/go-auth-bookmarks"
	"github.com/goliatone/go-auth-bookmarks/config"
	"github.com/goliatone/go-auth-bookmarks/logging"
)

type rootOptions struct {
	configPath string
	envFile    string
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "bookmarks",
		Short:         "Bookmarks API with email and password authentication",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (yaml, json or toml)")
	rootCmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded before the environment")

	rootCmd.AddCommand(
		newServeCommand(opts),
		newMigrateCommand(opts),
	)

	return rootCmd
}

func (o *rootOptions) load() (*config.Config, auth.Logger, error) {
	cfg, err := config.Load(o.configPath, o.envFile)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logging.New(cfg.Logger), nil
}
