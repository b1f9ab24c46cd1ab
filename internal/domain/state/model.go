package state

import (
	"time"

	"github.com/riskibarqy/hoopstats/internal/domain/milestone"
	"github.com/riskibarqy/hoopstats/internal/domain/records"
	"github.com/riskibarqy/hoopstats/internal/domain/stats"
)

// SchemaVersion is written into every persisted snapshot.
const SchemaVersion = "1.0"

// State is the only long-lived entity: last leaders, milestone baseline and
// announcements, plus the last announced records.
type State struct {
	LastLeaders     stats.Leaders                 `json:"last_leaders"`
	LastTotals      milestone.Totals              `json:"last_totals"`
	MilestonesSent  milestone.Announced           `json:"milestones_sent"`
	LastRecords     map[stats.Stat]records.Record `json:"last_records,omitempty"`
	MilestoneSeason string                        `json:"milestone_season,omitempty"`
	Metadata        Metadata                      `json:"_metadata"`
}

type Metadata struct {
	LastUpdated string `json:"last_updated,omitempty"`
	Version     string `json:"version"`
}

func Default() State {
	return State{
		LastLeaders:    make(stats.Leaders),
		LastTotals:     make(milestone.Totals),
		MilestonesSent: make(milestone.Announced),
		LastRecords:    make(map[stats.Stat]records.Record),
		Metadata:       Metadata{Version: SchemaVersion},
	}
}

// Normalize fills nil collections so callers never write into a nil map.
func (s State) Normalize() State {
	if s.LastLeaders == nil {
		s.LastLeaders = make(stats.Leaders)
	}
	if s.LastTotals == nil {
		s.LastTotals = make(milestone.Totals)
	}
	if s.MilestonesSent == nil {
		s.MilestonesSent = make(milestone.Announced)
	}
	if s.LastRecords == nil {
		s.LastRecords = make(map[stats.Stat]records.Record)
	}
	if s.Metadata.Version == "" {
		s.Metadata.Version = SchemaVersion
	}
	return s
}

// Touch stamps the metadata before a write.
func (s State) Touch(now time.Time) State {
	s.Metadata.LastUpdated = now.UTC().Format(time.RFC3339)
	s.Metadata.Version = SchemaVersion
	return s
}
