package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/ahoin001/Soma-sub005/internal/cliconfig"
	"github.com/ahoin001/Soma-sub005/internal/domain"
	"github.com/ahoin001/Soma-sub005/pkg/log"
	"github.com/ahoin001/Soma-sub005/pkg/offline"
)

// buildClient assembles the offline client with HTTP handlers for every
// mutation kind.
func buildClient(cfg *cliconfig.Config, logger zerolog.Logger) (*offline.Client, error) {
	adapter := log.NewZerologAdapterWithLogger(logger)

	client, err := offline.New(offline.Config{
		DBPath:              cfg.DBPath,
		MaxRetries:          cfg.MaxRetries,
		OfflinePollInterval: cfg.OfflinePollInterval,
		ProbeURL:            cfg.ServiceURL + "/v1/ping",
		ProbeInterval:       cfg.ProbeInterval,
		HTTPTimeout:         cfg.HTTPTimeout,
	},
		offline.WithLogger(adapter),
		offline.WithObserver(&consoleObserver{logger: logger}),
	)
	if err != nil {
		return nil, err
	}

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	for _, kind := range domain.Kinds() {
		client.RegisterHandler(kind, syncHandler(httpClient, cfg.ServiceURL, cfg.AuthKey, kind))
	}
	return client, nil
}

// runAgent runs the sync agent until the context is canceled, or drains
// the queue once when --once is set.
func runAgent(ctx context.Context, cfg *cliconfig.Config, cfgPath string, logger zerolog.Logger) error {
	// Log configuration (masking the API key)
	logCfg := *cfg
	if len(logCfg.AuthKey) > 0 {
		logCfg.AuthKey = "*****"
	}
	logger.Info().Interface("config", logCfg).Msg("configuration")

	client, err := buildClient(cfg, logger)
	if err != nil {
		return err
	}

	if cfg.Once {
		result, err := client.Process(ctx)
		if err != nil {
			return fmt.Errorf("drain queue: %w", err)
		}
		logger.Info().Str("summary", result.Summary()).Msg("queue drained")
		return nil
	}

	if err := client.Start(ctx); err != nil {
		return err
	}

	// Pick up retry-ceiling changes without a restart.
	watchPath := cfgPath
	if watchPath == "" {
		watchPath = cliconfig.DefaultConfigPath()
	}
	if watchPath != "" && cliconfig.FileExists(watchPath) {
		adapter := log.NewZerologAdapterWithLogger(logger)
		watcher := cliconfig.NewWatcher(watchPath, func(fc cliconfig.FileConfig) {
			if fc.MaxRetries > 0 {
				client.SetMaxRetries(fc.MaxRetries)
				logger.Info().Int("max_retries", fc.MaxRetries).Msg("retry ceiling updated")
			}
		}, adapter)
		if err := watcher.Start(ctx); err != nil {
			logger.Warn().Err(err).Msg("config watcher unavailable")
		} else {
			defer watcher.Stop()
		}
	}

	<-ctx.Done()

	if err := client.Stop(); err != nil && !errors.Is(err, domain.ErrNotRunning) {
		return err
	}
	return nil
}

// consoleObserver logs sync progress in user-facing terms.
type consoleObserver struct {
	logger zerolog.Logger
}

func (o *consoleObserver) OnProgress(completed, total int) {
	o.logger.Debug().Int("completed", completed).Int("total", total).Msg("syncing")
}

func (o *consoleObserver) OnRunComplete(result offline.RunResult) {
	o.logger.Info().Str("summary", result.Summary()).Msg("sync complete")
}

func (o *consoleObserver) OnPendingCount(count int) {
	o.logger.Debug().Int("pending", count).Msg("queued mutations")
}
