package milestone

import (
	"slices"
	"strconv"

	"github.com/riskibarqy/hoopstats/internal/domain/stats"
)

// Thresholds maps a statistic to its ascending cumulative milestones.
type Thresholds map[stats.Stat][]int

func DefaultThresholds() Thresholds {
	return Thresholds{
		stats.StatPoints:     {100, 250, 500, 750, 1000, 1500, 2000},
		stats.StatAssists:    {50, 100, 250, 500, 750, 1000},
		stats.StatRebounds:   {50, 100, 250, 500, 750, 1000},
		stats.StatSteals:     {25, 50, 100, 200, 300},
		stats.StatBlocks:     {25, 50, 100, 200, 300},
		stats.StatThreesMade: {25, 50, 100, 200, 300},
	}
}

// Normalize sorts every list ascending and drops non-positive and duplicate values.
func (t Thresholds) Normalize() Thresholds {
	out := make(Thresholds, len(t))
	for stat, values := range t {
		cleaned := make([]int, 0, len(values))
		for _, v := range values {
			if v > 0 {
				cleaned = append(cleaned, v)
			}
		}
		slices.Sort(cleaned)
		out[stat] = slices.Compact(cleaned)
	}
	return out
}

// Totals is the persisted baseline keyed by stringified player id.
type Totals map[string]map[stats.Stat]float64

// Announced is the set of thresholds already notified, keyed by stringified player id.
type Announced map[string]map[stats.Stat][]int

func (a Announced) Has(playerKey string, stat stats.Stat, threshold int) bool {
	return slices.Contains(a[playerKey][stat], threshold)
}

func (a Announced) add(playerKey string, stat stats.Stat, threshold int) {
	byStat, ok := a[playerKey]
	if !ok {
		byStat = make(map[stats.Stat][]int)
		a[playerKey] = byStat
	}
	if slices.Contains(byStat[stat], threshold) {
		return
	}
	byStat[stat] = append(byStat[stat], threshold)
	slices.Sort(byStat[stat])
}

// Notification is one newly crossed milestone.
type Notification struct {
	PlayerID  int64      `json:"player_id"`
	Player    string     `json:"player"`
	Stat      stats.Stat `json:"stat"`
	Threshold int        `json:"threshold"`
	Total     float64    `json:"total"`
}

func PlayerKey(playerID int64) string {
	return strconv.FormatInt(playerID, 10)
}
