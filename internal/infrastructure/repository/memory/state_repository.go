package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/riskibarqy/hoopstats/internal/domain/state"
	"github.com/riskibarqy/hoopstats/internal/domain/stats"
)

// StateRepository keeps the engine state in process memory. Used for dry
// runs and tests; Save stores a deep copy so callers cannot mutate it later.
type StateRepository struct {
	mu    sync.RWMutex
	item  state.State
	saves int
}

func NewStateRepository(initial state.State) *StateRepository {
	return &StateRepository{item: clone(initial.Normalize())}
}

func (r *StateRepository) Load(_ context.Context) (state.State, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return clone(r.item), nil
}

func (r *StateRepository) Save(ctx context.Context, s state.State) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.item = clone(s.Normalize())
	r.saves++
	return nil
}

// Saves reports how many snapshots were written.
func (r *StateRepository) Saves() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.saves
}

func clone(in state.State) state.State {
	out := state.Default()
	out.MilestoneSeason = in.MilestoneSeason
	out.Metadata = in.Metadata

	for stat, entries := range in.LastLeaders {
		out.LastLeaders[stat] = slices.Clone(entries)
	}
	for key, values := range in.LastTotals {
		out.LastTotals[key] = maps.Clone(values)
	}
	for key, byStat := range in.MilestonesSent {
		inner := make(map[stats.Stat][]int, len(byStat))
		for stat, thresholds := range byStat {
			inner[stat] = slices.Clone(thresholds)
		}
		out.MilestonesSent[key] = inner
	}
	maps.Copy(out.LastRecords, in.LastRecords)
	return out
}
