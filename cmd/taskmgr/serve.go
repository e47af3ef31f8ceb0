package main

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/gosuda/taskmgr/internal/api/ws"
	"github.com/gosuda/taskmgr/internal/config"
	"github.com/gosuda/taskmgr/internal/server"
)

func newServeCmd(loadConfig func() *config.Config) *cobra.Command {
	var shutdownTimeout time.Duration

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := loadConfig()

			a, err := buildApp(ctx, cfg, true)
			if err != nil {
				return err
			}
			defer a.Close()

			var hub *ws.Hub
			if a.pubsub != nil {
				hub = ws.NewHub(a.pubsub)
			}

			srv := server.New(ctx, cfg, a.tasks, hub)

			// Start server in background goroutine.
			errCh := make(chan error, 1)
			go func() {
				log.Info().
					Str("addr", cfg.Server.Addr).
					Str("store", cfg.Store).
					Strs("sinks", a.dispatcher.Names()).
					Bool("blocked_guard", cfg.Tasks.BlockedGuard).
					Msg("starting server")
				errCh <- srv.Start(ctx)
			}()

			// Block until shutdown signal or listener failure.
			select {
			case <-ctx.Done():
			case startErr := <-errCh:
				if startErr != nil {
					return startErr
				}
			}
			log.Info().Msg("shutting down")

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer shutdownCancel()

			if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
				return shutdownErr
			}

			log.Info().Msg("stopped")
			return nil
		},
	}

	cmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 10*time.Second, "grace period for in-flight requests")

	return cmd
}
