package filestate

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/hoopstats/internal/domain/state"
	"github.com/riskibarqy/hoopstats/internal/domain/stats"
	"github.com/riskibarqy/hoopstats/internal/platform/logging"
)

func TestRepository_LoadMissingFileReturnsDefault(t *testing.T) {
	t.Parallel()

	repo := NewRepository(filepath.Join(t.TempDir(), "missing.json"), logging.NewNop())
	got, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Metadata.Version != state.SchemaVersion {
		t.Fatalf("expected default version, got=%q", got.Metadata.Version)
	}
	if got.LastTotals == nil || got.MilestonesSent == nil || got.LastLeaders == nil {
		t.Fatalf("expected initialized collections, got=%+v", got)
	}
}

func TestRepository_LoadCorruptFileReturnsDefault(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	got, err := NewRepository(path, logging.NewNop()).Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got.LastTotals) != 0 {
		t.Fatalf("expected empty totals, got=%v", got.LastTotals)
	}
}

func TestRepository_SaveThenLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "state.json")
	repo := NewRepository(path, logging.NewNop())
	repo.now = func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) }

	in := state.Default()
	in.LastLeaders[stats.StatPoints] = []stats.LeaderEntry{{Name: "A", Value: 30}}
	in.LastTotals["42"] = map[stats.Stat]float64{stats.StatPoints: 125}
	in.MilestonesSent["42"] = map[stats.Stat][]int{stats.StatPoints: {100}}
	in.MilestoneSeason = "nba2k26s1"

	if err := repo.Save(context.Background(), in); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(path + tempSuffix); !os.IsNotExist(err) {
		t.Fatalf("expected temp file to be gone, stat err=%v", err)
	}

	got, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.LastTotals["42"][stats.StatPoints] != 125 {
		t.Fatalf("unexpected totals: %v", got.LastTotals)
	}
	if !got.MilestonesSent.Has("42", stats.StatPoints, 100) {
		t.Fatalf("expected announced threshold to survive, got=%v", got.MilestonesSent)
	}
	if got.LastLeaders[stats.StatPoints][0].Name != "A" {
		t.Fatalf("unexpected leaders: %v", got.LastLeaders)
	}
	if got.Metadata.LastUpdated != "2026-03-01T10:00:00Z" {
		t.Fatalf("unexpected last_updated: %q", got.Metadata.LastUpdated)
	}
	if got.MilestoneSeason != "nba2k26s1" {
		t.Fatalf("unexpected season: %q", got.MilestoneSeason)
	}
}

func TestRepository_WritesDocumentedKeys(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state.json")
	repo := NewRepository(path, logging.NewNop())
	if err := repo.Save(context.Background(), state.Default()); err != nil {
		t.Fatalf("save: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	for _, key := range []string{`"last_leaders"`, `"last_totals"`, `"milestones_sent"`, `"_metadata"`, `"version": "1.0"`} {
		if !strings.Contains(string(raw), key) {
			t.Fatalf("expected %s in document, got=%s", key, raw)
		}
	}
}

func TestRepository_ToleratesUnknownFields(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state.json")
	doc := `{
  "last_leaders": {"points": [{"name": "A", "value": 10}]},
  "last_totals": {"7": {"points": 12}},
  "milestones_sent": {},
  "future_field": {"anything": true},
  "_metadata": {"last_updated": "2025-01-01T00:00:00Z", "version": "1.0"}
}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	got, err := NewRepository(path, logging.NewNop()).Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.LastTotals["7"][stats.StatPoints] != 12 {
		t.Fatalf("expected known fields to decode, got=%v", got.LastTotals)
	}
	if got.MilestonesSent == nil {
		t.Fatalf("expected normalized announced map")
	}
}

func TestLoadSeed(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "seed.json")
	doc := `{
  "points": {"value": 63, "holder": "Scorer", "game": "A vs B", "date": "2025-02-01"},
  "unknown_stat": {"value": 1, "holder": "X", "game": "", "date": ""},
  "blocks": {"value": 0, "holder": "Nobody", "game": "", "date": ""}
}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	got, err := LoadSeed(path)
	if err != nil {
		t.Fatalf("load seed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 seeded record, got=%d", len(got))
	}
	if got[stats.StatPoints].Holder != "Scorer" || got[stats.StatPoints].Value != 63 {
		t.Fatalf("unexpected seed record: %+v", got[stats.StatPoints])
	}

	missing, err := LoadSeed(filepath.Join(dir, "absent.json"))
	if err != nil || len(missing) != 0 {
		t.Fatalf("expected empty seed for missing file, got=%v err=%v", missing, err)
	}
}
