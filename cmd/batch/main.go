// Command batch runs scheduled ingestion jobs with retries, transactional
// attempts and webhook alerting on exhaustion. Meant to be invoked from
// cron or a container scheduler.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/eplhub/crawler/internal/app"
	"github.com/eplhub/crawler/internal/config"
	"github.com/eplhub/crawler/internal/platform/logging"
	"github.com/eplhub/crawler/internal/usecase"
)

func main() {
	os.Exit(run())
}

func run() int {
	if len(os.Args) < 2 {
		printUsage()
		return usecase.ExitBadArgs
	}
	jobName := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return usecase.ExitBadArgs
	}

	logger := logging.NewJSON(cfg.LogLevel).With("service", cfg.ServiceName, "env", cfg.AppEnv)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	source, err := app.BuildDataSource(cfg, logger)
	if err != nil {
		logger.Error("build data source failed", "error", err)
		return usecase.ExitBadArgs
	}

	var job usecase.JobFunc
	switch jobName {
	case "daily-update":
		job = app.IngestAllJob(source, logger)
	case "weekly-sync":
		job = app.SyncCoreJob(source, logger)
	default:
		printUsage()
		return usecase.ExitBadArgs
	}

	service := app.BuildBatchService(cfg, logger)
	return service.Run(ctx, jobName, job)
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `usage: batch <job>

jobs:
  daily-update  ingest every dataset from the configured source
  weekly-sync   refresh teams, matches and standings`)
}
