package commands

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-auth-bookmarks/app"
)

func newServeCommand(root *rootOptions) *cobra.Command {
	var skipMigrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Args:  cobra.NoArgs,
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := root.load()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := app.Open(ctx, cfg, logger)
			if err != nil {
				logger.Error("failed to open app: %v", err)
				return err
			}
			defer a.Close()

			if !skipMigrate {
				if err := a.Migrate(ctx); err != nil {
					logger.Error("failed to migrate: %v", err)
					return err
				}
			}

			errc := make(chan error, 1)
			go func() {
				errc <- a.Server.Listen(cfg.Server.Address())
			}()

			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
			}

			timeout := cfg.Server.ShutdownTimeout
			if timeout <= 0 {
				timeout = 10 * time.Second
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			if err := a.Server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("shutdown failed: %v", err)
				return err
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "do not apply migrations on start")

	return cmd
}
