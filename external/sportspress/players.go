package sportspress

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/riskibarqy/hoopstats/internal/domain/stats"
	"github.com/riskibarqy/hoopstats/internal/usecase"
)

// Keys of a per-game statistics row, as used by player statistics and
// league lists.
var statisticKeys = map[stats.Stat]string{
	stats.StatPoints:     "pts",
	stats.StatAssists:    "ast",
	stats.StatRebounds:   "rebtwo",
	stats.StatSteals:     "stl",
	stats.StatBlocks:     "blk",
	stats.StatThreesMade: "threepm",
}

// Keys of the flattened season totals some installs publish under meta.
var metaKeys = map[stats.Stat]string{
	stats.StatPoints:     "points",
	stats.StatAssists:    "assists",
	stats.StatRebounds:   "rebounds",
	stats.StatSteals:     "steals",
	stats.StatBlocks:     "blocks",
	stats.StatThreesMade: "threes_made",
}

// careerKey is the synthetic career row some installs append next to the
// per-season rows.
const careerKey = "-1"

// FetchSeasonPlayers reads every page of a players endpoint such as
// "/players?league=37".
func (c *Client) FetchSeasonPlayers(ctx context.Context, endpoint string) ([]stats.PlayerTotals, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("%w: season endpoint is empty", usecase.ErrInvalidInput)
	}

	items, err := Collect(ctx, c.Pages(endpoint, nil, 0))
	if err != nil {
		return nil, fmt.Errorf("fetch season players endpoint=%s: %w", endpoint, err)
	}

	league := leagueParam(endpoint)
	leagueKey, keyResolved := "", false

	out := make([]stats.PlayerTotals, 0, len(items))
	skipped := 0
	for _, item := range items {
		playerID := getInt64(item, "id")
		if playerID <= 0 {
			skipped++
			continue
		}

		values, ok := metaTotals(asMap(item["meta"]))
		if !ok {
			if !keyResolved {
				if leagueKey, err = c.statisticsKey(ctx, league); err != nil {
					return nil, fmt.Errorf("fetch season players endpoint=%s: %w", endpoint, err)
				}
				keyResolved = true
			}
			values = statisticTotals(asMap(item["statistics"]), leagueKey)
		}
		out = append(out, stats.PlayerTotals{
			PlayerID: playerID,
			Name:     playerName(item, playerID),
			Values:   values,
		})
	}
	if skipped > 0 {
		c.logger.WarnContext(ctx, "skipped player objects without id", "endpoint", endpoint, "skipped", skipped)
	}
	c.logger.DebugContext(ctx, "fetched season players", "endpoint", endpoint, "players", len(out))
	return out, nil
}

// FetchAllTimeList reads a SportsPress league list, the site's own all-time
// table.
func (c *Client) FetchAllTimeList(ctx context.Context, listID int64) ([]stats.PlayerTotals, error) {
	if listID <= 0 {
		return nil, fmt.Errorf("%w: list id must be greater than zero", usecase.ErrInvalidInput)
	}

	var payload any
	path := fmt.Sprintf("/lists/%d", listID)
	if _, err := c.GetJSON(ctx, path, url.Values{}, &payload); err != nil {
		return nil, fmt.Errorf("fetch all-time list list_id=%d: %w", listID, err)
	}

	out := parseListRows(payload)
	c.logger.DebugContext(ctx, "fetched all-time list", "list_id", listID, "players", len(out))
	return out, nil
}

// leagueParam returns the league query value of a players endpoint.
func leagueParam(endpoint string) string {
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(parsed.Query().Get("league"))
}

// statisticsKey maps a league query value to the key SportsPress uses under
// a player's statistics, which is always the numeric league term id.
func (c *Client) statisticsKey(ctx context.Context, league string) (string, error) {
	if league == "" {
		return "", nil
	}
	if _, err := strconv.ParseInt(league, 10, 64); err == nil {
		return league, nil
	}
	return c.leagueIDs.GetOrLoad(ctx, league, func(ctx context.Context) (string, error) {
		var terms []map[string]any
		if _, err := c.GetJSON(ctx, "/leagues", url.Values{"slug": {league}}, &terms); err != nil {
			return "", fmt.Errorf("resolve league slug=%s: %w", league, err)
		}
		for _, term := range terms {
			if id := getInt64(term, "id"); id > 0 {
				return strconv.FormatInt(id, 10), nil
			}
		}
		return "", fmt.Errorf("%w: league slug=%s", usecase.ErrNotFound, league)
	})
}

func playerName(item map[string]any, playerID int64) string {
	return firstNonEmpty(
		getString(item, "title"),
		getString(item, "name"),
		getString(item, "post_title"),
		getString(item, "player_name"),
		placeholderName(playerID),
	)
}

// statisticTotals sums the per-season rows under statistics[leagueKey], or
// under every league when leagueKey is empty. Rows are the maps that carry
// at least one stat key; anything else is walked into.
func statisticTotals(statistics map[string]any, leagueKey string) map[stats.Stat]float64 {
	values := emptyValues()
	if leagueKey != "" {
		statistics = asMap(statistics[leagueKey])
	}

	var walk func(node map[string]any, depth int)
	walk = func(node map[string]any, depth int) {
		if depth > 3 {
			return
		}
		for key, raw := range node {
			if key == headerKey || key == careerKey {
				continue
			}
			row := asMap(raw)
			if row == nil {
				continue
			}
			if isStatisticRow(row) {
				for stat, field := range statisticKeys {
					values[stat] += number(row, field)
				}
				continue
			}
			walk(row, depth+1)
		}
	}
	if statistics != nil {
		walk(statistics, 0)
	}
	return values
}

func isStatisticRow(row map[string]any) bool {
	for _, field := range statisticKeys {
		if _, ok := row[field]; ok {
			return true
		}
	}
	return false
}

// metaTotals reads the flattened season totals. ok is false when meta
// carries none of them.
func metaTotals(meta map[string]any) (map[stats.Stat]float64, bool) {
	values := emptyValues()
	ok := false
	for stat, field := range metaKeys {
		if _, present := meta[field]; present {
			ok = true
		}
		values[stat] = number(meta, field)
	}
	return values, ok
}

func emptyValues() map[stats.Stat]float64 {
	values := make(map[stats.Stat]float64, len(stats.CountStats))
	for _, stat := range stats.CountStats {
		values[stat] = 0
	}
	return values
}

// parseListRows accepts a list body whose data is either a list of rows or a
// map keyed by player id.
func parseListRows(payload any) []stats.PlayerTotals {
	var data any
	switch typed := payload.(type) {
	case map[string]any:
		data = typed["data"]
	case []any:
		data = typed
	}

	var out []stats.PlayerTotals
	appendRow := func(row map[string]any, fallbackID int64) {
		if row == nil {
			return
		}
		playerID := firstID(getInt64(row, "id"), getInt64(row, "player_id"), fallbackID)
		values := emptyValues()
		nonZero := false
		for stat, field := range statisticKeys {
			values[stat] = number(row, field)
			if values[stat] != 0 {
				nonZero = true
			}
		}
		if !nonZero {
			return
		}
		name := getString(row, "name")
		if name == "" {
			name = placeholderName(playerID)
		}
		out = append(out, stats.PlayerTotals{PlayerID: playerID, Name: name, Values: values})
	}

	switch typed := data.(type) {
	case []any:
		for _, item := range typed {
			appendRow(asMap(item), 0)
		}
	case map[string]any:
		keys := make([]string, 0, len(typed))
		for key := range typed {
			if key != headerKey {
				keys = append(keys, key)
			}
		}
		sort.Strings(keys)
		for _, key := range keys {
			id, _ := strconv.ParseInt(key, 10, 64)
			appendRow(asMap(typed[key]), id)
		}
	}
	return out
}

func firstID(values ...int64) int64 {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}
