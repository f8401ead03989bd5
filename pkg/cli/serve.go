package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	httpctrl "github.com/secmon-lab/ccirating/pkg/controller/http"
	"github.com/secmon-lab/ccirating/pkg/service/worker"
	"github.com/secmon-lab/ccirating/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

const shutdownTimeout = 10 * time.Second

func cmdServe() *cli.Command {
	var addr string
	var maxBodySize int64
	var recalcInterval time.Duration
	var env environment

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("CCIRATING_ADDR"),
			Destination: &addr,
		},
		&cli.Int64Flag{
			Name:        "max-body-size",
			Usage:       "Maximum request body size in bytes",
			Value:       1 << 20,
			Sources:     cli.EnvVars("CCIRATING_MAX_BODY_SIZE"),
			Destination: &maxBodySize,
		},
		&cli.DurationFlag{
			Name:        "recalc-interval",
			Usage:       "Re-rate stored operations periodically (disabled when 0)",
			Sources:     cli.EnvVars("CCIRATING_RECALC_INTERVAL"),
			Destination: &recalcInterval,
		},
	}
	flags = append(flags, env.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP API server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, closer, err := env.UseCases(ctx)
			if err != nil {
				return err
			}
			defer closer()

			if recalcInterval > 0 {
				recalcWorker := worker.NewRecalcWorker(uc.Rating, recalcInterval)
				if err := recalcWorker.Start(ctx); err != nil {
					return goerr.Wrap(err, "failed to start recalculation worker")
				}
				defer recalcWorker.Stop()
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc, httpctrl.WithMaxBodySize(maxBodySize)),
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigCh)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- goerr.Wrap(err, "failed to start server", goerr.V("addr", addr))
				}
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				logging.Default().Info("Context canceled, shutting down")
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logging.Default().Info("Server shutdown completed")
			return nil
		},
	}
}
