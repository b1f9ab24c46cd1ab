package records

import (
	"maps"
	"slices"

	"github.com/riskibarqy/hoopstats/internal/domain/stats"
)

// Tracker folds game rows into running single-game maxima and achievements.
// It is not safe for concurrent use.
type Tracker struct {
	gates Gates
	data  Data
}

func NewTracker(gates Gates, seed map[stats.Stat]Record) *Tracker {
	data := EmptyData()
	for stat, record := range seed {
		if !stat.Valid() || record.Value <= 0 {
			continue
		}
		record.Stat = stat
		data.Records[stat] = record
	}
	return &Tracker{gates: gates, data: data}
}

// ObserveEvent folds every row of one successfully extracted event.
func (t *Tracker) ObserveEvent(rows []stats.PlayerGameRow) {
	t.data.EventsScanned++
	for _, row := range rows {
		t.Observe(row)
	}
}

// SkipEvent counts an event that could not be extracted.
func (t *Tracker) SkipEvent() {
	t.data.EventsSkipped++
}

func (t *Tracker) Observe(row stats.PlayerGameRow) {
	t.data.RowsScanned++

	for _, stat := range stats.CountStats {
		t.tryImprove(stat, row, row.Value(stat))
	}
	for _, stat := range stats.PercentStats {
		if row.Attempts(stat) < t.gates.minimum(stat) {
			continue
		}
		t.tryImprove(stat, row, row.Value(stat))
	}

	kind, categories := Classify(row)
	if kind == "" {
		return
	}
	values := make(map[stats.Stat]float64, len(categories))
	for _, stat := range categories {
		values[stat] = row.Value(stat)
	}
	achievement := Achievement{
		Kind:       kind,
		PlayerID:   row.PlayerID,
		Player:     row.Name,
		TeamID:     row.TeamID,
		OppTeamID:  row.OppTeamID,
		Game:       row.Game,
		Date:       row.Date,
		Categories: categories,
		Values:     values,
		GameURL:    row.GameURL,
	}
	if kind == AchievementTriple {
		t.data.Triples = append(t.data.Triples, achievement)
	} else {
		t.data.Doubles = append(t.data.Doubles, achievement)
	}
}

// tryImprove replaces the holder only on a strictly greater value.
func (t *Tracker) tryImprove(stat stats.Stat, row stats.PlayerGameRow, value float64) {
	if value <= 0 {
		return
	}
	if current, ok := t.data.Records[stat]; ok && value <= current.Value {
		return
	}
	t.data.Records[stat] = Record{
		Stat:      stat,
		Value:     value,
		Holder:    row.Name,
		PlayerID:  row.PlayerID,
		TeamID:    row.TeamID,
		OppTeamID: row.OppTeamID,
		Team:      row.Team,
		Opponent:  row.Opponent,
		Game:      row.Game,
		Date:      row.Date,
		Attempts:  row.Attempts(stat),
		GameURL:   row.GameURL,
	}
}

// Data returns a copy of the accumulated result. Complete is left false.
func (t *Tracker) Data() Data {
	out := Data{
		Records:       maps.Clone(t.data.Records),
		Doubles:       slices.Clone(t.data.Doubles),
		Triples:       slices.Clone(t.data.Triples),
		EventsScanned: t.data.EventsScanned,
		EventsSkipped: t.data.EventsSkipped,
		RowsScanned:   t.data.RowsScanned,
	}
	if out.Records == nil {
		out.Records = make(map[stats.Stat]Record)
	}
	if out.Doubles == nil {
		out.Doubles = []Achievement{}
	}
	if out.Triples == nil {
		out.Triples = []Achievement{}
	}
	return out
}

// Classify returns the achievement a row earns: triple for three or more
// double-digit categories, double for exactly two, none otherwise.
func Classify(row stats.PlayerGameRow) (AchievementKind, []stats.Stat) {
	categories := make([]stats.Stat, 0, len(stats.AchievementStats))
	for _, stat := range stats.AchievementStats {
		if row.Value(stat) >= DoubleDigit {
			categories = append(categories, stat)
		}
	}
	switch {
	case len(categories) >= 3:
		return AchievementTriple, categories
	case len(categories) == 2:
		return AchievementDouble, categories
	default:
		return "", nil
	}
}

// Changed lists the statistics whose current record is new or strictly better.
func Changed(previous, current map[stats.Stat]Record) []stats.Stat {
	out := make([]stats.Stat, 0)
	for _, stat := range append(slices.Clone(stats.CountStats), stats.PercentStats...) {
		cur, ok := current[stat]
		if !ok {
			continue
		}
		prev, had := previous[stat]
		if !had || cur.Value > prev.Value {
			out = append(out, stat)
		}
	}
	return out
}
