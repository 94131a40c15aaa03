package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"aifsfetch/internal/api"
	"aifsfetch/internal/cleanup"
	"aifsfetch/internal/config"
	"aifsfetch/internal/fetcher"
	"aifsfetch/internal/logging"
	"aifsfetch/internal/metrics"
	"aifsfetch/internal/models"
	"aifsfetch/internal/notify"
	"aifsfetch/internal/selector"
)

const notifyTimeout = 30 * time.Second

// app carries what every command needs once the config is loaded
type app struct {
	loadConfig func(path string) (*config.Config, error)
	now        func() time.Time
	sleep      fetcher.Sleeper

	cfg      *config.Config
	logger   *slog.Logger
	notifier notify.Notifier
}

func newApp() *app {
	return &app{
		loadConfig: config.Load,
		now:        time.Now,
		sleep:      fetcher.SleepContext,
	}
}

// setup loads the config and builds the logger and notifiers
func (a *app) setup(configPath string) error {
	cfg, err := a.loadConfig(configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if a.logger == nil {
		logger, err := logging.New(cfg.Logging, version)
		if err != nil {
			return err
		}
		a.logger = logger
		slog.SetDefault(logger)
	}

	if a.notifier == nil {
		a.notifier = notify.FromConfig(cfg.Notify, a.logger)
	}
	return nil
}

func (a *app) close() {
	if a.notifier == nil {
		return
	}
	if err := a.notifier.Close(); err != nil && a.logger != nil {
		a.logger.Warn("failed to close notifier", "error", err)
	}
	a.notifier = nil
}

// batchOptions are per-invocation overrides of the loaded config
type batchOptions struct {
	horizon    int
	horizonSet bool // --horizon was passed, even if negative
	dest       string
	runKey     string
	clear      bool
}

func (a *app) horizon(opts batchOptions) int {
	if opts.horizonSet {
		return opts.horizon
	}
	return a.cfg.Fetch.Horizon
}

func (a *app) destination(opts batchOptions) string {
	if opts.dest != "" {
		return opts.dest
	}
	return a.cfg.Fetch.Destination
}

// resolveRun picks the explicit run when given, the current one otherwise
func (a *app) resolveRun(runKey string) (models.Run, error) {
	if runKey != "" {
		return selector.Parse(runKey)
	}
	return selector.Select(a.now()), nil
}

func (a *app) newFetcher(dest string) *fetcher.Fetcher {
	client := api.NewECMWFClient(a.cfg.Source.BaseURL, a.cfg.Source.Timeout)
	return fetcher.New(client, dest,
		fetcher.WithRetryPolicy(fetcher.RetryPolicy{
			MaxRetries: a.cfg.Fetch.Retry.MaxRetries,
			Delay:      a.cfg.Fetch.Retry.Delay,
		}),
		fetcher.WithSleeper(a.sleep),
		fetcher.WithLogger(a.logger),
	)
}

// runBatch selects a run, downloads it and publishes the outcome
func (a *app) runBatch(ctx context.Context, opts batchOptions) (*models.BatchReport, error) {
	run, err := a.resolveRun(opts.runKey)
	if err != nil {
		return nil, err
	}

	// reject a bad horizon before --clear touches the destination
	final := a.horizon(opts)
	if _, err := fetcher.ForecastHours(final); err != nil {
		return nil, err
	}

	dest := a.destination(opts)
	a.logger.Info("selected run", "run", run.String(), "init_time", run.InitTime())

	if opts.clear {
		res := cleanup.ClearDirectory(a.logger, dest, displayPath(dest))
		if len(res.Errors) > 0 {
			a.logger.Warn("directory only partly cleared", "path", dest, "errors", len(res.Errors))
		}
	}

	report, err := a.newFetcher(dest).Fetch(ctx, run, final)
	if report != nil {
		a.publish(ctx, report)
	}
	if err != nil {
		return report, fmt.Errorf("fetch %s: %w", run, err)
	}
	return report, nil
}

// publish records metrics and notifies downstream consumers. Failures here
// are logged and never fail the batch.
func (a *app) publish(ctx context.Context, report *models.BatchReport) {
	metrics.RecordBatch(report.Succeeded(), report.Failed(), report.Run.InitTime(), report.FinishedAt)

	if path := a.cfg.Metrics.Textfile; path != "" {
		if err := metrics.WriteTextfile(path); err != nil {
			a.logger.Warn("failed to write metrics textfile", "path", path, "error", err)
		}
	}

	if a.notifier == nil {
		return
	}
	// still deliver the partial report after a cancel
	nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()
	if err := a.notifier.Notify(nctx, report); err != nil {
		a.logger.Warn("failed to publish report", "run_id", report.RunID, "error", err)
	}
}

// displayPath shortens paths under the home directory to ~/...
func displayPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	rel, err := filepath.Rel(home, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	if rel == "." {
		return "~"
	}
	return filepath.Join("~", rel)
}
