package usecase

import (
	"context"
	"fmt"
	"maps"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/hoopstats/internal/domain/records"
	"github.com/riskibarqy/hoopstats/internal/domain/stats"
	"github.com/riskibarqy/hoopstats/internal/platform/logging"
)

type RecordsConfig struct {
	MaxPages int
	Gates    records.Gates
	// Seed holds hand-curated records predating the event history.
	Seed map[stats.Stat]records.Record
}

type RecordsService struct {
	provider StatsProvider
	names    *NameCache
	cfg      RecordsConfig
	logger   *logging.Logger
}

func NewRecordsService(provider StatsProvider, names *NameCache, cfg RecordsConfig, logger *logging.Logger) *RecordsService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Gates == (records.Gates{}) {
		cfg.Gates = records.DefaultGates()
	}
	return &RecordsService{
		provider: provider,
		names:    names,
		cfg:      cfg,
		logger:   logger.Named("records"),
	}
}

// ComputeRecords scans the event history once. A failure on the first page
// fails the stage with every record unset; a failure later keeps what was
// seen and marks the data incomplete.
func (s *RecordsService) ComputeRecords(ctx context.Context) Result[records.Data] {
	ctx, span := startUsecaseSpan(ctx, "usecase.RecordsService.ComputeRecords",
		attribute.Int("max_pages", s.cfg.MaxPages))

	tracker := records.NewTracker(s.cfg.Gates, maps.Clone(s.cfg.Seed))
	stream := s.provider.StreamEvents(s.cfg.MaxPages)

	pages := 0
	for stream.Next(ctx) {
		pages++
		for _, event := range stream.Events() {
			if event.Err != nil {
				tracker.SkipEvent()
				s.logger.WarnContext(ctx, "skipping malformed event", "page", stream.PageNumber(), "error", event.Err)
				continue
			}
			tracker.ObserveEvent(event.Rows)
		}
	}

	data := tracker.Data()
	reason := ""
	if err := stream.Err(); err != nil {
		if pages == 0 {
			s.logger.WarnContext(ctx, "records scan failed on first page", "error", err)
			result := failedResult(records.EmptyData(), err)
			endStageSpan(span, result.Status, err)
			return result
		}
		reason = fmt.Errorf("%w after page %d: %v", ErrIncompleteScan, pages, err).Error()
		s.logger.WarnContext(ctx, "records scan incomplete", "pages", pages, "error", err)
	} else {
		data.Complete = true
	}

	s.resolveHolders(ctx, data.Records)

	s.logger.InfoContext(ctx, "records computed",
		"pages", pages,
		"events_scanned", data.EventsScanned,
		"events_skipped", data.EventsSkipped,
		"rows", data.RowsScanned,
		"records", len(data.Records),
		"doubles", len(data.Doubles),
		"triples", len(data.Triples),
		"complete", data.Complete,
	)

	var result Result[records.Data]
	switch {
	case len(data.Records) == 0:
		result = emptyResult(data, firstNonBlank(reason, "no qualifying game rows"))
	default:
		result = okResult(data)
		result.Reason = reason
	}
	endStageSpan(span, result.Status, nil)
	return result
}

// resolveHolders swaps placeholder labels for display names on the winning
// rows only.
func (s *RecordsService) resolveHolders(ctx context.Context, byStat map[stats.Stat]records.Record) {
	if s.names == nil {
		return
	}
	for stat, record := range byStat {
		if record.PlayerID > 0 {
			record.Holder, record.PlayerURL = s.names.Resolve(ctx, KindPlayer, record.PlayerID)
		}
		if record.TeamID > 0 {
			record.Team = s.names.ResolveName(ctx, KindTeam, record.TeamID)
		}
		if record.OppTeamID > 0 {
			record.Opponent = s.names.ResolveName(ctx, KindTeam, record.OppTeamID)
		}
		if record.TeamID > 0 && record.OppTeamID > 0 {
			record.Game = record.Team + " vs " + record.Opponent
		}
		byStat[stat] = record
	}
}
