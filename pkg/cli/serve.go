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
	"github.com/secmon-lab/aegis/pkg/cli/config"
	httpctrl "github.com/secmon-lab/aegis/pkg/controller/http"
	"github.com/secmon-lab/aegis/pkg/service/worker"
	"github.com/secmon-lab/aegis/pkg/usecase"
	"github.com/secmon-lab/aegis/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdServe(version string) *cli.Command {
	var addr string
	var concurrency int
	var appCfg config.AppConfig
	var repoCfg config.Repository
	var storageCfg config.Storage
	var slackCfg config.Slack
	var sentryCfg config.Sentry

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("AEGIS_ADDR"),
			Destination: &addr,
		},
		&cli.IntFlag{
			Name:        "concurrency",
			Usage:       "Maximum parallel repository writes in bulk operations",
			Value:       usecase.DefaultConcurrency,
			Sources:     cli.EnvVars("AEGIS_CONCURRENCY"),
			Destination: &concurrency,
		},
	}

	// Add shared config flags
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, storageCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			flushSentry, err := sentryCfg.Configure(version)
			if err != nil {
				return err
			}
			defer flushSentry()

			// Load organizations and control catalog
			_, registry, catalog, err := appCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load configuration")
			}

			// Initialize repository based on backend type
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			ucOpts := []usecase.Option{
				usecase.WithConcurrency(concurrency),
				usecase.WithMaxEvidenceSize(storageCfg.MaxSize()),
			}

			blob, closeBlob, err := storageCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize evidence storage")
			}
			defer closeBlob()
			if blob != nil {
				ucOpts = append(ucOpts, usecase.WithBlobStorage(blob))
			}

			notifier, err := slackCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure slack")
			}
			if notifier != nil {
				ucOpts = append(ucOpts, usecase.WithNotifier(notifier))
				logging.Default().Info("Slack attention alerts enabled", "slack", slackCfg)
			} else {
				logging.Default().Info("Slack Bot Token not configured, attention alerts are disabled")
			}

			uc := usecase.New(repo, registry, catalog, ucOpts...)

			// Start attention digest worker if alerts are enabled
			var digestWorker *worker.AttentionDigestWorker
			if notifier != nil {
				digestWorker = worker.NewAttentionDigestWorker(uc.Attention, slackCfg.DigestInterval())
				if err := digestWorker.Start(ctx); err != nil {
					return goerr.Wrap(err, "failed to start attention digest worker")
				}
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc),
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			// Start server in goroutine
			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server",
					"addr", addr,
					"organizations", len(registry.List()),
					"controls", len(catalog.Controls()))
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			// Wait for shutdown signal or server error
			select {
			case err := <-errCh:
				if digestWorker != nil {
					digestWorker.Stop()
				}
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				// Stop the digest worker first
				if digestWorker != nil {
					digestWorker.Stop()
				}

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
