package main

import (
	"context"
	"net/http"
	"time"

	"studioops/internal/amqp"
	"studioops/internal/cli"
	"studioops/internal/core"
	apphttp "studioops/internal/http"
	"studioops/internal/log"
	"studioops/internal/services"
)

func main() {
	logger := cli.SetupLogger(log.ComponentApp)
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig(logger)

	rate, err := cfg.HourlyRateMoney()
	if err != nil {
		logger.Error("Invalid hourly rate", "error", err)
		return
	}
	model, err := core.NewCostModel(rate)
	if err != nil {
		logger.Error("Invalid cost model", "error", err)
		return
	}

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	// The API keeps working without AMQP; the worker's periodic
	// refresh covers missed sync messages either way.
	var publisher services.SyncPublisher
	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Warn("AMQP unavailable, sync messages disabled", "error", err)
	} else {
		publisher = amqpClient
		defer amqpClient.Close()
	}

	projects := services.NewProjectService(repo, publisher, model)
	importer := services.NewPaymentImporter(repo, publisher)

	server := apphttp.NewServer(":"+cfg.Port, repo, projects, importer)

	ctx, done := cli.GracefulShutdown(logger, 10*time.Second, func(shutdownCtx context.Context) {
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown failed", "error", err)
		}
	})

	logger.Info("Starting HTTP server", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("HTTP server failed", "error", err)
		return
	}

	cli.WaitForShutdown(ctx, done)
}
