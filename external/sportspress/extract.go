package sportspress

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/riskibarqy/hoopstats/internal/domain/stats"
)

// headerKey marks the column-label row SportsPress puts in front of every
// performance table.
const headerKey = "0"

var performanceKeys = []string{"pts", "rebtwo", "ast", "stl", "blk", "fgm", "fga", "threepm", "threepa"}

// EventContext is what every row of one event shares.
type EventContext struct {
	EventID int64
	Date    string
	URL     string
	TeamIDs []int64
	TeamA   string
	TeamB   string
}

// ExtractStrategy understands one encoding of per-player box score data.
// It returns nil when the event does not use that encoding.
type ExtractStrategy interface {
	Name() string
	Extract(event map[string]any, ec EventContext) []stats.PlayerGameRow
}

type Extractor struct {
	Strategies []ExtractStrategy
}

func DefaultExtractor() *Extractor {
	return &Extractor{Strategies: []ExtractStrategy{performanceStrategy{}, boxscoreStrategy{}}}
}

// Extract returns the rows of the first strategy that produced any. It never
// fails; an event with no usable data yields an empty slice.
func (e *Extractor) Extract(event map[string]any) []stats.PlayerGameRow {
	rows, _ := e.ExtractWithSource(event)
	return rows
}

// ExtractWithSource also names the strategy that produced the rows.
func (e *Extractor) ExtractWithSource(event map[string]any) ([]stats.PlayerGameRow, string) {
	if event == nil {
		return nil, ""
	}
	ec := NewEventContext(event)
	for _, strategy := range e.Strategies {
		if rows := strategy.Extract(event, ec); len(rows) > 0 {
			return rows, strategy.Name()
		}
	}
	return []stats.PlayerGameRow{}, ""
}

func NewEventContext(event map[string]any) EventContext {
	ec := EventContext{
		EventID: getInt64(event, "id"),
		URL:     getString(event, "link"),
	}
	for _, key := range []string{"date", "date_gmt"} {
		if date := getString(event, key); date != "" {
			if len(date) > 10 {
				date = date[:10]
			}
			ec.Date = date
			break
		}
	}

	if teams, ok := event["teams"].([]any); ok && len(teams) >= 2 {
		for _, team := range teams {
			ec.TeamIDs = append(ec.TeamIDs, asInt64(team))
		}
		ec.TeamA = fmt.Sprintf("Team %d", ec.TeamIDs[0])
		ec.TeamB = fmt.Sprintf("Team %d", ec.TeamIDs[1])
	} else {
		ec.TeamA = firstNonEmpty(getString(event, "team_a"), "Team A")
		ec.TeamB = firstNonEmpty(getString(event, "team_b"), "Team B")
	}
	return ec
}

// side resolves the (own, opponent) ids and labels for the home or away side.
func (ec EventContext) side(home bool) (int64, int64, string, string) {
	var homeID, awayID int64
	if len(ec.TeamIDs) > 0 {
		homeID = ec.TeamIDs[0]
	}
	if len(ec.TeamIDs) > 1 {
		awayID = ec.TeamIDs[1]
	}
	if home {
		return homeID, awayID, ec.TeamA, ec.TeamB
	}
	return awayID, homeID, ec.TeamB, ec.TeamA
}

func (ec EventContext) row(line map[string]any, playerID int64, name string, home bool) stats.PlayerGameRow {
	teamID, oppID, team, opponent := ec.side(home)
	return stats.PlayerGameRow{
		EventID:         ec.EventID,
		PlayerID:        playerID,
		Name:            name,
		TeamID:          teamID,
		OppTeamID:       oppID,
		Team:            team,
		Opponent:        opponent,
		Game:            team + " vs " + opponent,
		Date:            ec.Date,
		GameURL:         ec.URL,
		Points:          number(line, "pts"),
		Rebounds:        number(line, "rebtwo"),
		Assists:         number(line, "ast"),
		Steals:          number(line, "stl"),
		Blocks:          number(line, "blk"),
		Turnovers:       number(line, "to"),
		FGM:             number(line, "fgm"),
		FGA:             number(line, "fga"),
		ThreesMade:      number(line, "threepm"),
		ThreesAttempted: number(line, "threepa"),
		FGPercent:       firstNumber(line, "fgpercent", "fg_percent"),
		ThreePercent:    firstNumber(line, "threeppercent", "threep_percent"),
	}
}

type performanceStrategy struct{}

func (performanceStrategy) Name() string { return "performance" }

func (performanceStrategy) Extract(event map[string]any, ec EventContext) []stats.PlayerGameRow {
	performance := asMap(event["performance"])
	if len(performance) == 0 {
		return nil
	}

	var homeKey string
	if len(ec.TeamIDs) > 0 {
		homeKey = strconv.FormatInt(ec.TeamIDs[0], 10)
	}

	var rows []stats.PlayerGameRow
	for _, teamKey := range sortedKeys(performance) {
		if teamKey == headerKey {
			continue
		}
		players := asMap(performance[teamKey])
		for _, playerKey := range sortedKeys(players) {
			if playerKey == headerKey {
				continue
			}
			line := asMap(players[playerKey])
			if !hasAnyStat(line) {
				continue
			}
			playerID, err := strconv.ParseInt(strings.TrimSpace(playerKey), 10, 64)
			if err != nil || playerID <= 0 {
				continue
			}
			name := firstNonEmpty(getString(line, "name"), placeholderName(playerID))
			row := ec.row(line, playerID, name, teamKey == homeKey)
			if len(ec.TeamIDs) == 0 {
				row.TeamID = asInt64(teamKey)
			}
			rows = append(rows, row)
		}
	}
	return rows
}

type boxscoreStrategy struct{}

func (boxscoreStrategy) Name() string { return "boxscore" }

func (boxscoreStrategy) Extract(event map[string]any, ec EventContext) []stats.PlayerGameRow {
	candidates := []any{
		asMap(event["meta"])["boxscore"],
		event["boxscore"],
		asMap(event["results"])["boxscore"],
	}

	for _, candidate := range candidates {
		switch typed := candidate.(type) {
		case map[string]any:
			if len(typed) == 0 {
				continue
			}
			var rows []stats.PlayerGameRow
			for _, side := range sideOrder(typed) {
				list, _ := typed[side].([]any)
				home := isHomeSide(side)
				for _, item := range list {
					if row, ok := boxscoreRow(asMap(item), ec, home); ok {
						rows = append(rows, row)
					}
				}
			}
			return rows
		case []any:
			if len(typed) == 0 {
				continue
			}
			var rows []stats.PlayerGameRow
			for _, item := range typed {
				line := asMap(item)
				if line == nil {
					continue
				}
				if row, ok := boxscoreRow(line, ec, isHomeTeam(line["team"], ec)); ok {
					rows = append(rows, row)
				}
			}
			return rows
		}
	}
	return nil
}

func boxscoreRow(line map[string]any, ec EventContext, home bool) (stats.PlayerGameRow, bool) {
	if line == nil {
		return stats.PlayerGameRow{}, false
	}

	var playerID int64
	for _, key := range []string{"id", "player_id", "player"} {
		raw, ok := line[key]
		if !ok || raw == nil {
			continue
		}
		if text, isText := raw.(string); isText && strings.TrimSpace(text) == headerKey {
			return stats.PlayerGameRow{}, false
		}
		if id := asInt64(raw); id != 0 {
			playerID = id
			break
		}
		if numeric, isNumber := raw.(float64); isNumber && numeric == 0 {
			return stats.PlayerGameRow{}, false
		}
	}

	name := firstNonEmpty(getString(line, "name"), getString(line, "title"))
	if name == "" {
		if player := getString(line, "player"); player != "" && asInt64(player) == 0 {
			name = player
		}
	}
	if name == "" {
		if playerID > 0 {
			name = placeholderName(playerID)
		} else {
			name = "Unknown"
		}
	}
	return ec.row(line, playerID, name, home), true
}

func hasAnyStat(line map[string]any) bool {
	for _, key := range performanceKeys {
		if number(line, key) != 0 {
			return true
		}
	}
	return false
}

func firstNumber(line map[string]any, keys ...string) float64 {
	for _, key := range keys {
		if v := number(line, key); v != 0 {
			return v
		}
	}
	return 0
}

func isHomeSide(side string) bool {
	switch strings.ToLower(strings.TrimSpace(side)) {
	case "home", "a", "team_a":
		return true
	default:
		return false
	}
}

func isHomeTeam(team any, ec EventContext) bool {
	switch typed := team.(type) {
	case string:
		text := strings.TrimSpace(typed)
		if text == ec.TeamA {
			return true
		}
		return len(ec.TeamIDs) > 0 && text == strconv.FormatInt(ec.TeamIDs[0], 10)
	case float64:
		return len(ec.TeamIDs) > 0 && int64(typed) == ec.TeamIDs[0]
	default:
		return false
	}
}

// sideOrder lists home-like sides first so ties favour the home box score.
func sideOrder(boxscore map[string]any) []string {
	keys := sortedKeys(boxscore)
	sort.SliceStable(keys, func(i, j int) bool {
		return isHomeSide(keys[i]) && !isHomeSide(keys[j])
	})
	return keys
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		left, leftErr := strconv.ParseInt(keys[i], 10, 64)
		right, rightErr := strconv.ParseInt(keys[j], 10, 64)
		if leftErr == nil && rightErr == nil {
			return left < right
		}
		return keys[i] < keys[j]
	})
	return keys
}

func placeholderName(playerID int64) string {
	return fmt.Sprintf("Player %d", playerID)
}
