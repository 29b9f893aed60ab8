// Package app wires configuration into concrete sources, stores and
// services so the entry points stay thin.
package app

import (
	"context"
	"fmt"

	"github.com/eplhub/crawler/external/apifootball"
	"github.com/eplhub/crawler/external/plsite"
	"github.com/eplhub/crawler/external/staticdata"
	"github.com/eplhub/crawler/internal/config"
	"github.com/eplhub/crawler/internal/domain/ingest"
	"github.com/eplhub/crawler/internal/infrastructure/alert"
	"github.com/eplhub/crawler/internal/infrastructure/repository/postgres"
	"github.com/eplhub/crawler/internal/platform/logging"
	"github.com/eplhub/crawler/internal/usecase"
)

// BuildDataSource selects the ingestion source configured by
// CRAWLER_DATA_SOURCE.
func BuildDataSource(cfg config.Config, logger *logging.Logger) (ingest.DataSource, error) {
	switch cfg.DataSource {
	case config.SourceStatic:
		return staticdata.NewSource(), nil
	case config.SourcePLSite:
		return plsite.NewSource(plsite.Config{
			TeamsURL:            cfg.TeamsURL,
			PlayersURL:          cfg.PlayersURL,
			MatchesURL:          cfg.MatchesURL,
			MatchStatsURL:       cfg.MatchStatsURL,
			StandingsURL:        cfg.StandingsURL,
			Timeout:             cfg.HTTPTimeout,
			RetryCount:          cfg.RetryCount,
			RetryBackoff:        cfg.RetryBackoff,
			ParseStrict:         cfg.ParseStrict,
			TeamsSeedFallback:   cfg.TeamsSeedFallback,
			MatchesSeedFallback: cfg.MatchesSeedFallback,
			Policies:            cfg.DatasetPolicy,
		}, logger), nil
	case config.SourceAPIFootball:
		client := apifootball.NewClient(apifootball.ClientConfig{
			BaseURL:      cfg.APIFootballBaseURL,
			Key:          cfg.APIFootballKey,
			Host:         cfg.APIFootballHost,
			Timeout:      cfg.HTTPTimeout,
			MaxRetries:   cfg.RetryCount - 1,
			RetryBackoff: cfg.RetryBackoff,
			Logger:       logger,
		})
		return apifootball.NewSource(client, apifootball.SourceConfig{
			LeagueID: cfg.APIFootballLeagueID,
			Season:   cfg.APIFootballSeason,
			Policies: cfg.DatasetPolicy,
		}, logger), nil
	default:
		return nil, fmt.Errorf("unsupported data source %q", cfg.DataSource)
	}
}

// BuildStoreOpener returns the per-attempt postgres store factory used by
// batch runs and the CLI.
func BuildStoreOpener(cfg config.Config) usecase.StoreOpener {
	return func(ctx context.Context) (usecase.Store, error) {
		return postgres.Open(ctx, cfg.DBURL)
	}
}

// BuildBatchService assembles the retrying batch runner with its webhook
// notifier.
func BuildBatchService(cfg config.Config, logger *logging.Logger) *usecase.BatchService {
	notifier := alert.NewWebhookNotifier(cfg.AlertWebhookURL, cfg.AlertTimeout, logger)
	return usecase.NewBatchService(BuildStoreOpener(cfg), notifier, usecase.BatchConfig{
		RetryCount:   cfg.BatchRetryCount,
		RetryBackoff: cfg.BatchRetryBackoff,
	}, logger)
}

// IngestAllJob refreshes every dataset from the source.
func IngestAllJob(source ingest.DataSource, logger *logging.Logger) usecase.JobFunc {
	return func(ctx context.Context, repos usecase.Repositories) error {
		return usecase.NewIngestionService(source, repos, logger).IngestAll(ctx)
	}
}

// SyncCoreJob refreshes teams, matches and standings only.
func SyncCoreJob(source ingest.DataSource, logger *logging.Logger) usecase.JobFunc {
	return func(ctx context.Context, repos usecase.Repositories) error {
		return usecase.NewIngestionService(source, repos, logger).SyncCore(ctx)
	}
}
