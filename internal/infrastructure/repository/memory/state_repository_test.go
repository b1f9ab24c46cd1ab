package memory

import (
	"context"
	"testing"

	"github.com/riskibarqy/hoopstats/internal/domain/state"
	"github.com/riskibarqy/hoopstats/internal/domain/stats"
)

func TestStateRepository_SaveIsolatesCallerMutations(t *testing.T) {
	t.Parallel()

	repo := NewStateRepository(state.Default())
	in := state.Default()
	in.LastTotals["1"] = map[stats.Stat]float64{stats.StatPoints: 10}

	if err := repo.Save(context.Background(), in); err != nil {
		t.Fatalf("save: %v", err)
	}
	in.LastTotals["1"][stats.StatPoints] = 999

	got, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.LastTotals["1"][stats.StatPoints] != 10 {
		t.Fatalf("expected stored copy to be isolated, got=%v", got.LastTotals["1"][stats.StatPoints])
	}
	if repo.Saves() != 1 {
		t.Fatalf("expected 1 save, got=%d", repo.Saves())
	}
}

func TestStateRepository_SaveRespectsCancelledContext(t *testing.T) {
	t.Parallel()

	repo := NewStateRepository(state.Default())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := repo.Save(ctx, state.Default()); err == nil {
		t.Fatalf("expected error for cancelled context")
	}
	if repo.Saves() != 0 {
		t.Fatalf("expected no saves, got=%d", repo.Saves())
	}
}
