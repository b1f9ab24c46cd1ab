package usecase

import (
	"context"
	"time"

	"github.com/riskibarqy/hoopstats/internal/domain/milestone"
	"github.com/riskibarqy/hoopstats/internal/domain/state"
	"github.com/riskibarqy/hoopstats/internal/domain/stats"
	"github.com/riskibarqy/hoopstats/internal/platform/logging"
)

// TotalsSource yields the current-season cumulative totals.
type TotalsSource interface {
	CurrentTotals(ctx context.Context) ([]stats.PlayerTotals, error)
}

type MilestoneConfig struct {
	// Season scopes the announced set; a new value starts a fresh baseline.
	Season     string
	Thresholds milestone.Thresholds
	// BaselineOnFirstRun records totals silently when no baseline exists,
	// instead of announcing every threshold already passed.
	BaselineOnFirstRun bool
}

// MilestonePlan is the outcome of one detection: what to announce and the
// state it leaves behind.
type MilestonePlan struct {
	Notifications []milestone.Notification `json:"notifications"`
	Totals        milestone.Totals         `json:"-"`
	Announced     milestone.Announced      `json:"-"`
	Season        string                   `json:"season,omitempty"`
	Baseline      bool                     `json:"baseline"`
	SeasonReset   bool                     `json:"season_reset"`
}

// Apply writes the plan into st.
func (p MilestonePlan) Apply(st state.State) state.State {
	st = st.Normalize()
	if p.Totals != nil {
		st.LastTotals = p.Totals
	}
	if p.Announced != nil {
		st.MilestonesSent = p.Announced
	}
	st.MilestoneSeason = p.Season
	return st
}

type MilestoneService struct {
	totals TotalsSource
	repo   state.Repository
	cfg    MilestoneConfig
	logger *logging.Logger
	now    func() time.Time
}

func NewMilestoneService(totals TotalsSource, repo state.Repository, cfg MilestoneConfig, logger *logging.Logger) *MilestoneService {
	if logger == nil {
		logger = logging.Default()
	}
	if len(cfg.Thresholds) == 0 {
		cfg.Thresholds = milestone.DefaultThresholds()
	}
	cfg.Thresholds = cfg.Thresholds.Normalize()
	return &MilestoneService{
		totals: totals,
		repo:   repo,
		cfg:    cfg,
		logger: logger.Named("milestones"),
		now:    time.Now,
	}
}

// DetectMilestones loads state, detects newly crossed thresholds and, unless
// dryRun, persists the new baseline.
func (s *MilestoneService) DetectMilestones(ctx context.Context, dryRun bool) Result[[]milestone.Notification] {
	st, err := s.repo.Load(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "load state failed", "error", err)
		return failedResult([]milestone.Notification{}, err)
	}

	plan := s.Plan(ctx, st)
	if plan.Status == StatusFailed || dryRun {
		return Result[[]milestone.Notification]{
			Value:  plan.Value.Notifications,
			Status: plan.Status,
			Reason: plan.Reason,
			Err:    plan.Err,
		}
	}

	if plan.Status == StatusOK {
		next := plan.Value.Apply(st).Touch(s.now())
		if err := s.repo.Save(ctx, next); err != nil {
			s.logger.ErrorContext(ctx, "save state failed", "error", err)
			return failedResult(plan.Value.Notifications, err)
		}
	}
	return Result[[]milestone.Notification]{
		Value:  plan.Value.Notifications,
		Status: plan.Status,
		Reason: plan.Reason,
	}
}

// Plan runs detection against st without touching storage.
func (s *MilestoneService) Plan(ctx context.Context, st state.State) Result[MilestonePlan] {
	ctx, span := startUsecaseSpan(ctx, "usecase.MilestoneService.Plan")
	st = st.Normalize()

	empty := MilestonePlan{Notifications: []milestone.Notification{}, Season: st.MilestoneSeason}
	current, err := s.totals.CurrentTotals(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "milestone totals fetch failed", "error", err)
		result := failedResult(empty, err)
		endStageSpan(span, result.Status, err)
		return result
	}
	if len(current) == 0 {
		result := emptyResult(empty, "no current-season totals")
		endStageSpan(span, result.Status, nil)
		return result
	}

	previous, announced := st.LastTotals, st.MilestonesSent
	plan := MilestonePlan{Season: st.MilestoneSeason}
	switch {
	case s.cfg.Season == "" || st.MilestoneSeason == s.cfg.Season:
	case st.MilestoneSeason == "":
		// State written before season scoping keeps its baseline.
		s.logger.InfoContext(ctx, "milestone season adopted", "season", s.cfg.Season)
		plan.Season = s.cfg.Season
	default:
		s.logger.InfoContext(ctx, "milestone season changed, resetting baseline",
			"from", st.MilestoneSeason, "to", s.cfg.Season)
		previous, announced = milestone.Totals{}, milestone.Announced{}
		plan.Season = s.cfg.Season
		plan.SeasonReset = true
	}

	if s.cfg.BaselineOnFirstRun && len(previous) == 0 {
		plan.Notifications = []milestone.Notification{}
		plan.Totals = milestone.Baseline(current, previous)
		plan.Announced = announced
		plan.Baseline = true
		s.logger.InfoContext(ctx, "milestone baseline recorded", "players", len(current))
	} else {
		plan.Notifications, plan.Totals, plan.Announced = milestone.Detect(current, previous, announced, s.cfg.Thresholds)
		s.logger.InfoContext(ctx, "milestones detected", "players", len(current), "notifications", len(plan.Notifications))
	}

	result := okResult(plan)
	endStageSpan(span, result.Status, nil)
	return result
}
