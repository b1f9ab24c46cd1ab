package app

import (
	"context"
	"fmt"
	"io"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/hoopstats/external/sportspress"
	"github.com/riskibarqy/hoopstats/internal/config"
	"github.com/riskibarqy/hoopstats/internal/domain/records"
	"github.com/riskibarqy/hoopstats/internal/domain/state"
	"github.com/riskibarqy/hoopstats/internal/infrastructure/notify"
	"github.com/riskibarqy/hoopstats/internal/infrastructure/repository/filestate"
	"github.com/riskibarqy/hoopstats/internal/infrastructure/repository/memory"
	idgen "github.com/riskibarqy/hoopstats/internal/platform/id"
	"github.com/riskibarqy/hoopstats/internal/platform/logging"
	"github.com/riskibarqy/hoopstats/internal/usecase"
)

// Options tweaks how the engine is assembled for a single invocation.
type Options struct {
	// Out receives announcement text from the log notifier. nil keeps it in
	// the logs only.
	Out io.Writer
	// DryRun keeps state in memory, seeded from the state file.
	DryRun bool
	// Provider replaces the SportsPress client, mainly in tests.
	Provider interface {
		usecase.StatsProvider
		usecase.ProfileProvider
	}
}

// App holds the wired engine services.
type App struct {
	Config     config.Config
	Logger     *logging.Logger
	State      state.Repository
	Names      *usecase.NameCache
	Leaders    *usecase.LeadersService
	Records    *usecase.RecordsService
	Milestones *usecase.MilestoneService
	Poll       *usecase.PollService

	closers []func() error
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger, opts Options) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	provider := opts.Provider
	if provider == nil {
		provider = sportspress.NewClient(sportspress.ClientConfig{
			BaseURL:        cfg.SportsPressBaseURL,
			Timeout:        cfg.SportsPressTimeout,
			MaxAttempts:    cfg.SportsPressMaxAttempts,
			RetryMinWait:   cfg.SportsPressRetryMin,
			RetryMaxWait:   cfg.SportsPressRetryMax,
			Concurrency:    cfg.SportsPressConcurrency,
			PageSize:       cfg.SportsPressPageSize,
			PageDelay:      cfg.SportsPressPageDelay,
			UserAgent:      cfg.ServiceName + "/" + cfg.ServiceVersion,
			Logger:         logger,
			CircuitBreaker: cfg.SportsPressCircuit,
		})
	}

	var repo state.Repository = filestate.NewRepository(cfg.StatePath, logger)
	if opts.DryRun {
		current, err := repo.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("load state for dry run: %w", err)
		}
		repo = memory.NewStateRepository(current)
	}

	seed, err := filestate.LoadSeed(cfg.RecordsSeedPath)
	if err != nil {
		logger.WarnContext(ctx, "records seed unreadable, continuing without it", "path", cfg.RecordsSeedPath, "error", err)
	}

	names := usecase.NewNameCache(provider, cfg.SiteBaseURL, logger)
	leaders := usecase.NewLeadersService(provider, usecase.LeadersConfig{
		LeadersEndpoint: cfg.LeadersEndpoint,
		SeasonEndpoints: cfg.SeasonEndpoints,
		AllTimeListID:   cfg.AllTimeListID,
		TopN:            cfg.LeadersTopN,
		Workers:         cfg.SportsPressConcurrency,
	}, logger)
	recordsSvc := usecase.NewRecordsService(provider, names, usecase.RecordsConfig{
		MaxPages: cfg.EventsMaxPages,
		Gates:    records.Gates{MinFGA: float64(cfg.MinFGA), Min3PA: float64(cfg.Min3PA)},
		Seed:     seed,
	}, logger)
	milestones := usecase.NewMilestoneService(leaders, repo, usecase.MilestoneConfig{
		Season:             cfg.CurrentSeason,
		Thresholds:         cfg.MilestoneThresholds,
		BaselineOnFirstRun: cfg.MilestoneBaselineOnFirstRun,
	}, logger)

	a := &App{
		Config:     cfg,
		Logger:     logger,
		State:      repo,
		Names:      names,
		Leaders:    leaders,
		Records:    recordsSvc,
		Milestones: milestones,
	}

	notifiers := notify.Fanout{notify.NewLogNotifier(opts.Out, logger)}
	if cfg.NotifyRedisEnabled && !opts.DryRun {
		client := notify.NewRedisClient(cfg.NotifyRedisAddr, cfg.NotifyRedisPassword, cfg.NotifyRedisDB)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, crerr.Wrapf(err, "ping redis %s", cfg.NotifyRedisAddr)
		}
		a.closers = append(a.closers, client.Close)
		notifiers = append(notifiers, notify.NewStreamNotifier(client, notify.StreamNotifierConfig{
			Stream:         cfg.NotifyRedisStream,
			MaxLen:         cfg.NotifyRedisMaxLen,
			CircuitBreaker: cfg.SportsPressCircuit,
		}, logger))
		logger.InfoContext(ctx, "redis announcement stream enabled", "addr", cfg.NotifyRedisAddr, "stream", cfg.NotifyRedisStream)
	}

	a.Poll = usecase.NewPollService(leaders, recordsSvc, milestones, repo, notifiers, idgen.NewUUIDGenerator(), usecase.PollConfig{
		Interval:        cfg.PollInterval,
		RecordsInterval: cfg.RecordsPollInterval,
		TopN:            cfg.LeadersTopN,
	}, logger)

	return a, nil
}

// Close releases connections opened by New.
func (a *App) Close() error {
	var combined error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			combined = crerr.CombineErrors(combined, err)
		}
	}
	a.closers = nil
	return combined
}
