package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dorianjanezic/major-news/internal/events"
	"github.com/dorianjanezic/major-news/internal/server"
)

// newServeCmd creates the serve command, which runs the HTTP surface and
// the pipeline scheduler until interrupted.
func newServeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the events API server and pipeline scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Store == nil {
				return fmt.Errorf("store is not available")
			}
			if app.Generator == nil {
				return fmt.Errorf("provider is not configured (set MAJOR_NEWS_API_KEY or provider.api_key)")
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			scheduler := events.NewScheduler(app.Generator, app.Store, app.Config.Schedule, app.Logger)
			if err := scheduler.Start(ctx); err != nil {
				return err
			}
			defer scheduler.Stop()

			srv := server.New(app.Config.Server, app.Store, app.Generator, app.Logger)

			errCh := make(chan error, 1)
			go func() {
				app.Logger.Info().Str("addr", app.Config.Server.Addr).Msg("HTTP server listening")
				errCh <- srv.Run()
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				app.Logger.Info().Msg("Shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			}
		},
	}
}
