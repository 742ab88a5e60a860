package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-auth-bookmarks/migrations"
	"github.com/goliatone/go-auth-bookmarks/persistence"
)

func newMigrateCommand(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "migrate",
		Args:    cobra.NoArgs,
		Aliases: []string{"m"},
		Short:   "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := root.load()
			if err != nil {
				return err
			}

			ctx := cmd.Context()

			db, err := persistence.Open(ctx, cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			n, err := persistence.Migrate(ctx, db, cfg.Database.Driver)
			if err != nil {
				logger.Error("migration failed: %v", err)
				return err
			}

			version, err := migrations.Version(ctx, db.DB, cfg.Database.Driver)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "applied %d migrations, schema version %d\n", n, version)
			return nil
		},
	}

	return cmd
}
