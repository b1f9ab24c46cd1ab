package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sourcegraph/conc"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/hoopstats/internal/domain/records"
	"github.com/riskibarqy/hoopstats/internal/domain/state"
	"github.com/riskibarqy/hoopstats/internal/domain/stats"
	"github.com/riskibarqy/hoopstats/internal/platform/id"
	"github.com/riskibarqy/hoopstats/internal/platform/logging"
)

type PollConfig struct {
	Interval        time.Duration
	RecordsInterval time.Duration
	CycleTimeout    time.Duration
	TopN            int
}

// CycleReport summarises one poll cycle.
type CycleReport struct {
	CycleID       string        `json:"cycle_id"`
	Leaders       Status        `json:"leaders"`
	Records       Status        `json:"records,omitempty"`
	Milestones    Status        `json:"milestones"`
	Announcements int           `json:"announcements"`
	Saved         bool          `json:"saved"`
	Duration      time.Duration `json:"duration"`
}

// PollService runs the leaders, records and milestone passes on a schedule
// and owns the only write path to state.
type PollService struct {
	leaders    *LeadersService
	records    *RecordsService
	milestones *MilestoneService
	repo       state.Repository
	notifier   Notifier
	ids        id.Generator
	cfg        PollConfig
	logger     *logging.Logger
	now        func() time.Time

	mu             sync.Mutex
	lastRecordsRun time.Time
}

func NewPollService(
	leaders *LeadersService,
	recordsSvc *RecordsService,
	milestones *MilestoneService,
	repo state.Repository,
	notifier Notifier,
	ids id.Generator,
	cfg PollConfig,
	logger *logging.Logger,
) *PollService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 180 * time.Second
	}
	if cfg.RecordsInterval <= 0 {
		cfg.RecordsInterval = time.Hour
	}
	if cfg.CycleTimeout <= 0 {
		cfg.CycleTimeout = cfg.Interval
	}
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	return &PollService{
		leaders:    leaders,
		records:    recordsSvc,
		milestones: milestones,
		repo:       repo,
		notifier:   notifier,
		ids:        ids,
		cfg:        cfg,
		logger:     logger.Named("poll"),
		now:        time.Now,
	}
}

// Run executes a cycle immediately and then every Interval until ctx is done.
// A cycle already in flight when ctx is cancelled runs to completion.
func (s *PollService) Run(ctx context.Context) error {
	s.logger.InfoContext(ctx, "poll loop started", "interval", s.cfg.Interval, "records_interval", s.cfg.RecordsInterval)
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		s.runDetached(ctx)

		select {
		case <-ctx.Done():
			s.logger.InfoContext(ctx, "poll loop stopped")
			return nil
		case <-ticker.C:
		}
	}
}

func (s *PollService) runDetached(ctx context.Context) {
	cycleCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.CycleTimeout)
	defer cancel()

	if _, err := s.RunCycle(cycleCtx); err != nil {
		s.logger.ErrorContext(ctx, "poll cycle failed", "error", err)
	}
}

// RunCycle runs one cycle: the three passes concurrently, then a single merge,
// save and notify. A cycle whose ctx is cancelled before the merge persists
// nothing.
func (s *PollService) RunCycle(ctx context.Context) (CycleReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	started := s.now()
	cycleID, err := s.ids.NewID()
	if err != nil {
		return CycleReport{}, fmt.Errorf("generate cycle id: %w", err)
	}
	report := CycleReport{CycleID: cycleID}
	logger := s.logger.With("cycle_id", cycleID)

	ctx, span := startUsecaseSpan(ctx, "usecase.PollService.RunCycle", attribute.String("cycle_id", cycleID))
	defer span.End()

	current, err := s.repo.Load(ctx)
	if err != nil {
		return report, fmt.Errorf("load state: %w", err)
	}
	current = current.Normalize()

	runRecords := s.records != nil && (s.lastRecordsRun.IsZero() || started.Sub(s.lastRecordsRun) >= s.cfg.RecordsInterval)

	var (
		leadersRes   Result[stats.Leaders]
		recordsRes   Result[records.Data]
		milestoneRes Result[MilestonePlan]
	)
	var wg conc.WaitGroup
	wg.Go(func() { leadersRes = s.leaders.SeasonLeaders(ctx, s.cfg.TopN) })
	wg.Go(func() { milestoneRes = s.milestones.Plan(ctx, current) })
	if runRecords {
		wg.Go(func() { recordsRes = s.records.ComputeRecords(ctx) })
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		logger.WarnContext(ctx, "cycle cancelled before merge, nothing persisted", "error", err)
		return report, err
	}

	next := current
	var announcements []Announcement

	report.Leaders = leadersRes.Status
	if leadersRes.OK() && stats.LeadersChanged(current.LastLeaders, leadersRes.Value) {
		if len(current.LastLeaders) > 0 {
			announcements = append(announcements, Announcement{
				Kind: AnnouncementLeaders, CycleID: cycleID, Text: RenderLeaders(leadersRes.Value), Payload: leadersRes.Value,
			})
		}
		next.LastLeaders = leadersRes.Value
	}

	if runRecords {
		report.Records = recordsRes.Status
		if recordsRes.OK() && recordsRes.Value.Complete {
			s.lastRecordsRun = started
			fresh := recordsRes.Value.Records
			if len(current.LastRecords) > 0 {
				for _, stat := range records.Changed(current.LastRecords, fresh) {
					announcements = append(announcements, Announcement{
						Kind: AnnouncementRecord, CycleID: cycleID, Text: RenderRecord(fresh[stat]), Payload: fresh[stat],
					})
				}
			}
			next.LastRecords = fresh
		}
	}

	report.Milestones = milestoneRes.Status
	if milestoneRes.OK() {
		next = milestoneRes.Value.Apply(next)
		announcements = append(announcements, milestoneAnnouncements(cycleID, milestoneRes.Value.Notifications)...)
	}

	if err := s.repo.Save(ctx, next.Touch(s.now())); err != nil {
		logger.ErrorContext(ctx, "save state failed, cycle results kept in memory only", "error", err)
	} else {
		report.Saved = true
	}

	report.Announcements = len(announcements)
	if len(announcements) > 0 && s.notifier != nil {
		if err := s.notifier.Notify(ctx, announcements); err != nil {
			logger.ErrorContext(ctx, "notify failed", "announcements", len(announcements), "error", err)
		}
	}

	report.Duration = s.now().Sub(started)
	logger.InfoContext(ctx, "poll cycle finished",
		"leaders", report.Leaders,
		"records", report.Records,
		"milestones", report.Milestones,
		"announcements", report.Announcements,
		"saved", report.Saved,
		"duration", report.Duration,
	)
	return report, nil
}
