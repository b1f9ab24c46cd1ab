package stats

import (
	"sort"
	"strings"
)

// LeadersCompareDepth is how many top entries decide whether leaders changed.
const LeadersCompareDepth = 3

// TopN ranks items by stat: non-positive values dropped, sorted by value
// descending then case-insensitive name ascending, truncated to n.
func TopN[T Valued](items []T, stat Stat, n int) []LeaderEntry {
	if n <= 0 {
		return []LeaderEntry{}
	}

	out := make([]LeaderEntry, 0, len(items))
	for _, item := range items {
		value := item.Value(stat)
		if value <= 0 {
			continue
		}
		entry := LeaderEntry{Name: item.DisplayName(), Value: value}
		if withID, ok := any(item).(interface{ playerID() int64 }); ok {
			entry.PlayerID = withID.playerID()
		}
		out = append(out, entry)
	}

	SortLeaders(out)
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// SortLeaders orders entries in place by (-value, lowercase name).
func SortLeaders(entries []LeaderEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Value != entries[j].Value {
			return entries[i].Value > entries[j].Value
		}
		return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
	})
}

// RankAll computes TopN for every count statistic.
func RankAll[T Valued](items []T, n int) Leaders {
	out := make(Leaders, len(CountStats))
	for _, stat := range CountStats {
		out[stat] = TopN(items, stat, n)
	}
	return out
}

func (p PlayerTotals) playerID() int64 {
	return p.PlayerID
}

func (r PlayerGameRow) playerID() int64 {
	return r.PlayerID
}

// AggregateTotals sums every statistic per player id across seasons.
// The most recently seen display name wins. Output is ordered by player id.
func AggregateTotals(seasons [][]PlayerTotals) []PlayerTotals {
	byID := make(map[int64]*PlayerTotals)
	for _, season := range seasons {
		for _, item := range season {
			existing, ok := byID[item.PlayerID]
			if !ok {
				existing = &PlayerTotals{
					PlayerID: item.PlayerID,
					Values:   make(map[Stat]float64, len(item.Values)),
				}
				byID[item.PlayerID] = existing
			}
			if name := strings.TrimSpace(item.Name); name != "" {
				existing.Name = name
			}
			for stat, value := range item.Values {
				existing.Values[stat] += value
			}
		}
	}

	out := make([]PlayerTotals, 0, len(byID))
	for _, item := range byID {
		out = append(out, *item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })
	return out
}

// LeadersChanged reports whether the top entries of any count statistic differ
// by name or value between two snapshots.
func LeadersChanged(previous, current Leaders) bool {
	for _, stat := range CountStats {
		prev := head(previous[stat], LeadersCompareDepth)
		cur := head(current[stat], LeadersCompareDepth)
		if len(prev) != len(cur) {
			return true
		}
		for i := range prev {
			if prev[i].Name != cur[i].Name || prev[i].Value != cur[i].Value {
				return true
			}
		}
	}
	return false
}

func head(entries []LeaderEntry, n int) []LeaderEntry {
	if len(entries) > n {
		return entries[:n]
	}
	return entries
}
