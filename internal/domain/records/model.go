package records

import "github.com/riskibarqy/hoopstats/internal/domain/stats"

// DoubleDigit is the per-category value a player must reach for an achievement.
const DoubleDigit = 10

type AchievementKind string

const (
	AchievementDouble AchievementKind = "double"
	AchievementTriple AchievementKind = "triple"
)

// Record is the best single-game value seen for one statistic.
type Record struct {
	Stat      stats.Stat `json:"stat"`
	Value     float64    `json:"value"`
	Holder    string     `json:"holder"`
	PlayerID  int64      `json:"player_id,omitempty"`
	TeamID    int64      `json:"team_id,omitempty"`
	OppTeamID int64      `json:"opp_team_id,omitempty"`
	Team      string     `json:"team,omitempty"`
	Opponent  string     `json:"opponent,omitempty"`
	Game      string     `json:"game"`
	Date      string     `json:"date"`
	Attempts  float64    `json:"attempts,omitempty"`
	GameURL   string     `json:"game_url,omitempty"`
	PlayerURL string     `json:"player_url,omitempty"`
}

// Achievement is one game where a player reached double digits in several categories.
type Achievement struct {
	Kind       AchievementKind        `json:"kind"`
	PlayerID   int64                  `json:"player_id,omitempty"`
	Player     string                 `json:"player"`
	TeamID     int64                  `json:"team_id,omitempty"`
	OppTeamID  int64                  `json:"opp_team_id,omitempty"`
	Game       string                 `json:"game"`
	Date       string                 `json:"date"`
	Categories []stats.Stat           `json:"categories"`
	Values     map[stats.Stat]float64 `json:"values"`
	GameURL    string                 `json:"game_url,omitempty"`
	PlayerURL  string                 `json:"player_url,omitempty"`
}

// Data is the outcome of one records scan. A statistic without an entry in
// Records is unset. Complete is false when the event stream stopped early.
type Data struct {
	Records       map[stats.Stat]Record `json:"records"`
	Doubles       []Achievement         `json:"doubles"`
	Triples       []Achievement         `json:"triples"`
	EventsScanned int                   `json:"events_scanned"`
	EventsSkipped int                   `json:"events_skipped"`
	RowsScanned   int                   `json:"rows_scanned"`
	Complete      bool                  `json:"complete"`
}

func EmptyData() Data {
	return Data{
		Records: make(map[stats.Stat]Record),
		Doubles: []Achievement{},
		Triples: []Achievement{},
	}
}

// Gates holds the minimum attempts before a percentage is eligible.
type Gates struct {
	MinFGA float64
	Min3PA float64
}

func DefaultGates() Gates {
	return Gates{MinFGA: 10, Min3PA: 6}
}

func (g Gates) minimum(stat stats.Stat) float64 {
	switch stat {
	case stats.StatFGPercent:
		return g.MinFGA
	case stats.StatThreePercent:
		return g.Min3PA
	default:
		return 0
	}
}
