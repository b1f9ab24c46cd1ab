package stats

import "strings"

// Stat is a canonical statistic name shared by leaders, records, milestones and state.
type Stat string

const (
	StatPoints       Stat = "points"
	StatRebounds     Stat = "rebounds"
	StatAssists      Stat = "assists"
	StatSteals       Stat = "steals"
	StatBlocks       Stat = "blocks"
	StatThreesMade   Stat = "threes_made"
	StatFGPercent    Stat = "fg_percent"
	StatThreePercent Stat = "threep_percent"
)

// CountStats are the cumulative statistics ranked for leaders and tracked for milestones.
var CountStats = []Stat{
	StatPoints,
	StatRebounds,
	StatAssists,
	StatSteals,
	StatBlocks,
	StatThreesMade,
}

// AchievementStats are the categories counted toward double and triple achievements.
var AchievementStats = []Stat{
	StatPoints,
	StatRebounds,
	StatAssists,
	StatSteals,
	StatBlocks,
}

// PercentStats are single-game records gated by a minimum attempt count.
var PercentStats = []Stat{
	StatFGPercent,
	StatThreePercent,
}

func (s Stat) DisplayName() string {
	switch s {
	case StatFGPercent:
		return "FG%"
	case StatThreePercent:
		return "3P%"
	}
	words := strings.Split(string(s), "_")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

func (s Stat) Valid() bool {
	switch s {
	case StatPoints, StatRebounds, StatAssists, StatSteals, StatBlocks, StatThreesMade, StatFGPercent, StatThreePercent:
		return true
	default:
		return false
	}
}

// Valued is anything that can be ranked by a statistic.
type Valued interface {
	DisplayName() string
	Value(stat Stat) float64
}

// PlayerGameRow is one player's line in one game.
type PlayerGameRow struct {
	EventID         int64
	PlayerID        int64
	Name            string
	TeamID          int64
	OppTeamID       int64
	Team            string
	Opponent        string
	Game            string
	Date            string
	GameURL         string
	Points          float64
	Rebounds        float64
	Assists         float64
	Steals          float64
	Blocks          float64
	Turnovers       float64
	FGM             float64
	FGA             float64
	ThreesMade      float64
	ThreesAttempted float64
	FGPercent       float64
	ThreePercent    float64
}

func (r PlayerGameRow) DisplayName() string {
	return r.Name
}

func (r PlayerGameRow) Value(stat Stat) float64 {
	switch stat {
	case StatPoints:
		return r.Points
	case StatRebounds:
		return r.Rebounds
	case StatAssists:
		return r.Assists
	case StatSteals:
		return r.Steals
	case StatBlocks:
		return r.Blocks
	case StatThreesMade:
		return r.ThreesMade
	case StatFGPercent:
		return percentOf(r.FGPercent, r.FGM, r.FGA)
	case StatThreePercent:
		return percentOf(r.ThreePercent, r.ThreesMade, r.ThreesAttempted)
	default:
		return 0
	}
}

// Attempts returns the attempt count gating a percentage statistic.
func (r PlayerGameRow) Attempts(stat Stat) float64 {
	switch stat {
	case StatFGPercent:
		return r.FGA
	case StatThreePercent:
		return r.ThreesAttempted
	default:
		return 0
	}
}

// percentOf prefers the reported percentage and derives it from makes/attempts when absent.
func percentOf(reported, made, attempted float64) float64 {
	if reported > 0 {
		return reported
	}
	if attempted <= 0 {
		return 0
	}
	return made / attempted * 100
}

// PlayerTotals is one player's cumulative values for the current evaluation pass.
type PlayerTotals struct {
	PlayerID int64
	Name     string
	Values   map[Stat]float64
}

func (p PlayerTotals) DisplayName() string {
	return p.Name
}

func (p PlayerTotals) Value(stat Stat) float64 {
	if p.Values == nil {
		return 0
	}
	return p.Values[stat]
}

// LeaderEntry is one ranked entrant; order in the slice defines rank.
type LeaderEntry struct {
	Name     string  `json:"name"`
	Value    float64 `json:"value"`
	PlayerID int64   `json:"player_id,omitempty"`
}

// Leaders holds ranked entries per statistic.
type Leaders map[Stat][]LeaderEntry

// Scope names the population a leaders computation ranks over.
type Scope string

const (
	ScopeSeason  Scope = "season"
	ScopeCareer  Scope = "career"
	ScopeAllTime Scope = "all-time"
)

func ParseScope(raw string) (Scope, bool) {
	switch Scope(strings.ToLower(strings.TrimSpace(raw))) {
	case ScopeSeason, "":
		return ScopeSeason, true
	case ScopeCareer:
		return ScopeCareer, true
	case ScopeAllTime, "alltime", "all_time":
		return ScopeAllTime, true
	default:
		return "", false
	}
}
