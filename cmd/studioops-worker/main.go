package main

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"studioops/internal/amqp"
	"studioops/internal/cli"
	"studioops/internal/log"
	"studioops/internal/sheets/google"
	"studioops/internal/worker"
)

func main() {
	logger := cli.SetupLogger(log.ComponentWorker)
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig(logger)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	report, err := google.NewFromEnv(context.Background())
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", "error", err)
		return
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to connect to AMQP", "error", err)
		return
	}
	defer amqpClient.Close()

	reportWorker := worker.NewReportWorker(repo, report)

	ctx, done := cli.GracefulShutdown(logger, 10*time.Second, nil)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return amqpClient.ConsumeProjectSync(gctx, func(msg *amqp.ProjectSyncMessage) error {
			return reportWorker.HandleMessage(gctx, msg)
		})
	})

	// Periodic full refresh converges the sheet after missed or
	// failed sync messages.
	g.Go(func() error {
		ticker := time.NewTicker(cfg.ReportRefreshInterval)
		defer ticker.Stop()

		if err := reportWorker.RefreshAll(gctx); err != nil {
			logger.Error("Initial report refresh failed", "error", err)
		}
		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case <-ticker.C:
				if err := reportWorker.RefreshAll(gctx); err != nil {
					logger.Error("Report refresh failed", "error", err)
				}
			}
		}
	})

	logger.Info("Report worker started",
		"queue", cfg.AMQPQueue,
		"refresh_interval", cfg.ReportRefreshInterval.String())

	if err := g.Wait(); err != nil && err != context.Canceled {
		logger.Error("Worker stopped", "error", err)
	}
	cli.WaitForShutdown(ctx, done)
}
