package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/hoopstats/internal/domain/milestone"
	"github.com/riskibarqy/hoopstats/internal/domain/state"
	"github.com/riskibarqy/hoopstats/internal/domain/stats"
	"github.com/riskibarqy/hoopstats/internal/infrastructure/repository/memory"
	statemock "github.com/riskibarqy/hoopstats/internal/mocks/domain/state"
	"github.com/riskibarqy/hoopstats/internal/platform/logging"
	"github.com/stretchr/testify/mock"
)

func pointsTotals(id int64, name string, points float64) []stats.PlayerTotals {
	return []stats.PlayerTotals{{PlayerID: id, Name: name, Values: map[stats.Stat]float64{stats.StatPoints: points}}}
}

func stateWithPoints(season string, key string, points float64, announced ...int) state.State {
	st := state.Default()
	st.MilestoneSeason = season
	st.LastTotals[key] = map[stats.Stat]float64{stats.StatPoints: points}
	if len(announced) > 0 {
		st.MilestonesSent[key] = map[stats.Stat][]int{stats.StatPoints: announced}
	}
	return st
}

func TestMilestoneService_DetectMilestones_PersistsAndIsIdempotent(t *testing.T) {
	t.Parallel()

	source := NewMockTotalsSource(t)
	source.On("CurrentTotals", mock.Anything).Return(pointsTotals(7, "Jane Hooper", 125), nil).Twice()

	repo := memory.NewStateRepository(stateWithPoints("2025", "7", 95))
	svc := NewMilestoneService(source, repo, MilestoneConfig{
		Season:     "2025",
		Thresholds: milestone.Thresholds{stats.StatPoints: {100, 250, 500}},
	}, logging.NewNop())

	first := svc.DetectMilestones(context.Background(), false)
	if first.Status != StatusOK || len(first.Value) != 1 || first.Value[0].Threshold != 100 {
		t.Fatalf("expected one 100-point milestone, got=%+v", first)
	}

	second := svc.DetectMilestones(context.Background(), false)
	if len(second.Value) != 0 {
		t.Fatalf("expected no repeat notification, got=%+v", second.Value)
	}

	saved, _ := repo.Load(context.Background())
	if !saved.MilestonesSent.Has("7", stats.StatPoints, 100) {
		t.Fatalf("expected 100 recorded as announced")
	}
	if saved.LastTotals["7"][stats.StatPoints] != 125 {
		t.Fatalf("expected baseline updated to 125, got=%v", saved.LastTotals["7"])
	}
	if repo.Saves() != 2 {
		t.Fatalf("expected 2 saves, got=%d", repo.Saves())
	}
}

func TestMilestoneService_DetectMilestones_DryRunDoesNotSave(t *testing.T) {
	t.Parallel()

	source := NewMockTotalsSource(t)
	source.On("CurrentTotals", mock.Anything).Return(pointsTotals(7, "Jane Hooper", 260), nil).Once()

	repo := memory.NewStateRepository(stateWithPoints("", "7", 95))
	svc := NewMilestoneService(source, repo, MilestoneConfig{}, logging.NewNop())

	result := svc.DetectMilestones(context.Background(), true)
	if len(result.Value) != 2 {
		t.Fatalf("expected 100 and 250 milestones, got=%+v", result.Value)
	}
	if repo.Saves() != 0 {
		t.Fatalf("expected dry run not to save, got=%d saves", repo.Saves())
	}
}

func TestMilestoneService_Plan_SeasonChangeResetsAnnounced(t *testing.T) {
	t.Parallel()

	source := NewMockTotalsSource(t)
	source.On("CurrentTotals", mock.Anything).Return(pointsTotals(7, "Jane Hooper", 110), nil).Once()

	svc := NewMilestoneService(source, memory.NewStateRepository(state.Default()), MilestoneConfig{
		Season:     "2026",
		Thresholds: milestone.Thresholds{stats.StatPoints: {100}},
	}, logging.NewNop())

	previous := stateWithPoints("2025", "7", 1500, 100)
	plan := svc.Plan(context.Background(), previous)
	if plan.Status != StatusOK || !plan.Value.SeasonReset {
		t.Fatalf("expected season reset plan, got=%+v", plan)
	}
	if len(plan.Value.Notifications) != 1 {
		t.Fatalf("expected 100 announced again in the new season, got=%+v", plan.Value.Notifications)
	}

	next := plan.Value.Apply(previous)
	if next.MilestoneSeason != "2026" {
		t.Fatalf("expected season key to move, got=%q", next.MilestoneSeason)
	}
}

func TestMilestoneService_Plan_UnscopedStateAdoptsSeason(t *testing.T) {
	t.Parallel()

	source := NewMockTotalsSource(t)
	source.On("CurrentTotals", mock.Anything).Return(pointsTotals(7, "Jane Hooper", 125), nil).Once()

	svc := NewMilestoneService(source, memory.NewStateRepository(state.Default()), MilestoneConfig{
		Season:     "nba2k26s1",
		Thresholds: milestone.Thresholds{stats.StatPoints: {100, 250}},
	}, logging.NewNop())

	previous := stateWithPoints("", "7", 125, 100)
	plan := svc.Plan(context.Background(), previous)
	if plan.Status != StatusOK || plan.Value.SeasonReset {
		t.Fatalf("expected no reset for state without a season key, got=%+v", plan)
	}
	if len(plan.Value.Notifications) != 0 {
		t.Fatalf("expected 100 not announced again, got=%+v", plan.Value.Notifications)
	}

	next := plan.Value.Apply(previous)
	if next.MilestoneSeason != "nba2k26s1" {
		t.Fatalf("expected season key adopted, got=%q", next.MilestoneSeason)
	}
	if !next.MilestonesSent.Has("7", stats.StatPoints, 100) || next.LastTotals["7"][stats.StatPoints] != 125 {
		t.Fatalf("expected baseline kept, got totals=%v sent=%v", next.LastTotals, next.MilestonesSent)
	}
}

func TestMilestoneService_Plan_BaselineOnFirstRun(t *testing.T) {
	t.Parallel()

	source := NewMockTotalsSource(t)
	source.On("CurrentTotals", mock.Anything).Return(pointsTotals(7, "Jane Hooper", 900), nil).Once()

	svc := NewMilestoneService(source, memory.NewStateRepository(state.Default()), MilestoneConfig{BaselineOnFirstRun: true}, logging.NewNop())
	plan := svc.Plan(context.Background(), state.Default())
	if !plan.Value.Baseline || len(plan.Value.Notifications) != 0 {
		t.Fatalf("expected silent baseline, got=%+v", plan.Value)
	}
	if plan.Value.Totals["7"][stats.StatPoints] != 900 {
		t.Fatalf("expected baseline totals, got=%v", plan.Value.Totals)
	}
}

func TestMilestoneService_DetectMilestones_SaveFailure(t *testing.T) {
	t.Parallel()

	source := NewMockTotalsSource(t)
	source.On("CurrentTotals", mock.Anything).Return(pointsTotals(7, "Jane Hooper", 125), nil).Once()

	repo := statemock.NewRepository(t)
	repo.On("Load", mock.Anything).Return(stateWithPoints("", "7", 95), nil).Once()
	repo.On("Save", mock.Anything, mock.AnythingOfType("state.State")).Return(errors.New("disk full")).Once()

	svc := NewMilestoneService(source, repo, MilestoneConfig{}, logging.NewNop())
	result := svc.DetectMilestones(context.Background(), false)
	if result.Status != StatusFailed {
		t.Fatalf("expected failed on save error, got=%s", result.Status)
	}
	if len(result.Value) != 1 {
		t.Fatalf("expected detected notifications to be returned, got=%+v", result.Value)
	}
}

func TestMilestoneService_Plan_TotalsFailure(t *testing.T) {
	t.Parallel()

	source := NewMockTotalsSource(t)
	source.On("CurrentTotals", mock.Anything).Return(nil, errors.New("timeout")).Once()

	svc := NewMilestoneService(source, memory.NewStateRepository(state.Default()), MilestoneConfig{}, logging.NewNop())
	plan := svc.Plan(context.Background(), state.Default())
	if plan.Status != StatusFailed || plan.Value.Notifications == nil {
		t.Fatalf("expected failed plan with empty notifications, got=%+v", plan)
	}
}
