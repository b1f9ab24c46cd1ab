package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/hoopstats/internal/domain/stats"
	"github.com/riskibarqy/hoopstats/internal/platform/logging"
)

type LeadersConfig struct {
	// LeadersEndpoint is the current-season players endpoint.
	LeadersEndpoint string
	// SeasonEndpoints lists every season, oldest first, for career totals.
	SeasonEndpoints []string
	AllTimeListID   int64
	TopN            int
	Workers         int
}

type LeadersService struct {
	provider StatsProvider
	cfg      LeadersConfig
	logger   *logging.Logger
}

func NewLeadersService(provider StatsProvider, cfg LeadersConfig, logger *logging.Logger) *LeadersService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.TopN <= 0 {
		cfg.TopN = 10
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	return &LeadersService{provider: provider, cfg: cfg, logger: logger.Named("leaders")}
}

func (s *LeadersService) TopN() int {
	return s.cfg.TopN
}

// Leaders dispatches to the scope-specific calculation.
func (s *LeadersService) Leaders(ctx context.Context, scope stats.Scope, n int) Result[stats.Leaders] {
	switch scope {
	case stats.ScopeCareer:
		return s.CareerLeaders(ctx, n)
	case stats.ScopeAllTime:
		return s.AllTimeLeaders(ctx, n)
	default:
		return s.SeasonLeaders(ctx, n)
	}
}

// CurrentTotals fetches the current-season totals every leaders and
// milestone pass starts from.
func (s *LeadersService) CurrentTotals(ctx context.Context) ([]stats.PlayerTotals, error) {
	if s.cfg.LeadersEndpoint == "" {
		return nil, fmt.Errorf("%w: leaders endpoint is not configured", ErrInvalidInput)
	}
	return s.provider.FetchSeasonPlayers(ctx, s.cfg.LeadersEndpoint)
}

func (s *LeadersService) SeasonLeaders(ctx context.Context, n int) Result[stats.Leaders] {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeadersService.SeasonLeaders")
	n = s.limit(n)

	totals, err := s.CurrentTotals(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "season leaders failed", "endpoint", s.cfg.LeadersEndpoint, "error", err)
		result := failedResult(emptyLeaders(), err)
		endStageSpan(span, result.Status, err)
		return result
	}

	result := rankResult(totals, n, "no players with season totals")
	s.logger.InfoContext(ctx, "season leaders computed", "status", result.Status, "players", len(totals))
	endStageSpan(span, result.Status, nil)
	return result
}

// CareerLeaders sums every configured season. Seasons that fail are skipped;
// the stage only fails when no season could be read.
func (s *LeadersService) CareerLeaders(ctx context.Context, n int) Result[stats.Leaders] {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeadersService.CareerLeaders",
		attribute.Int("seasons", len(s.cfg.SeasonEndpoints)))
	n = s.limit(n)

	if len(s.cfg.SeasonEndpoints) == 0 {
		result := emptyResult(emptyLeaders(), "no season endpoints configured")
		endStageSpan(span, result.Status, nil)
		return result
	}

	seasons, failed, err := s.fetchSeasons(ctx)
	if err != nil {
		result := failedResult(emptyLeaders(), err)
		endStageSpan(span, result.Status, err)
		return result
	}
	if failed == len(s.cfg.SeasonEndpoints) {
		err := fmt.Errorf("%w: all %d seasons failed", ErrDependencyUnavailable, failed)
		s.logger.WarnContext(ctx, "career leaders failed", "error", err)
		result := failedResult(emptyLeaders(), err)
		endStageSpan(span, result.Status, err)
		return result
	}

	totals := stats.AggregateTotals(seasons)
	result := rankResult(totals, n, "no players across seasons")
	if failed > 0 {
		result.Reason = fmt.Sprintf("%d of %d seasons failed", failed, len(s.cfg.SeasonEndpoints))
	}
	s.logger.InfoContext(ctx, "career leaders computed",
		"status", result.Status,
		"seasons", len(s.cfg.SeasonEndpoints),
		"failed_seasons", failed,
		"players", len(totals),
	)
	endStageSpan(span, result.Status, nil)
	return result
}

func (s *LeadersService) AllTimeLeaders(ctx context.Context, n int) Result[stats.Leaders] {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeadersService.AllTimeLeaders",
		attribute.Int64("list_id", s.cfg.AllTimeListID))
	n = s.limit(n)

	totals, err := s.provider.FetchAllTimeList(ctx, s.cfg.AllTimeListID)
	if err != nil {
		s.logger.WarnContext(ctx, "all-time leaders failed", "list_id", s.cfg.AllTimeListID, "error", err)
		result := failedResult(emptyLeaders(), err)
		endStageSpan(span, result.Status, err)
		return result
	}

	result := rankResult(totals, n, "all-time list is empty")
	s.logger.InfoContext(ctx, "all-time leaders computed", "status", result.Status, "players", len(totals))
	endStageSpan(span, result.Status, nil)
	return result
}

type seasonFetch struct {
	index  int
	totals []stats.PlayerTotals
	err    error
}

func (s *LeadersService) fetchSeasons(ctx context.Context) ([][]stats.PlayerTotals, int, error) {
	endpoints := s.cfg.SeasonEndpoints
	workerCount := min(s.cfg.Workers, len(endpoints))

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return nil, 0, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	results := make(chan seasonFetch, len(endpoints))
	var workers sync.WaitGroup
	for i, endpoint := range endpoints {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			totals, err := s.provider.FetchSeasonPlayers(ctx, endpoint)
			results <- seasonFetch{index: i, totals: totals, err: err}
		}); err != nil {
			workers.Done()
			workers.Wait()
			return nil, 0, fmt.Errorf("submit season fetch to worker pool: %w", err)
		}
	}
	workers.Wait()
	close(results)

	// Keep season order so the latest season's display name wins.
	seasons := make([][]stats.PlayerTotals, len(endpoints))
	failed := 0
	for res := range results {
		if res.err != nil {
			failed++
			s.logger.WarnContext(ctx, "season fetch failed, skipping", "endpoint", endpoints[res.index], "error", res.err)
			continue
		}
		seasons[res.index] = res.totals
	}
	return seasons, failed, nil
}

func (s *LeadersService) limit(n int) int {
	if n <= 0 {
		return s.cfg.TopN
	}
	return n
}

func rankResult(totals []stats.PlayerTotals, n int, emptyReason string) Result[stats.Leaders] {
	leaders := stats.RankAll(totals, n)
	for _, entries := range leaders {
		if len(entries) > 0 {
			return okResult(leaders)
		}
	}
	return emptyResult(leaders, emptyReason)
}

func emptyLeaders() stats.Leaders {
	out := make(stats.Leaders, len(stats.CountStats))
	for _, stat := range stats.CountStats {
		out[stat] = []stats.LeaderEntry{}
	}
	return out
}
