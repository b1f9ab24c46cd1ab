package milestone

import (
	"maps"
	"slices"
	"sort"

	"github.com/riskibarqy/hoopstats/internal/domain/stats"
)

// Crossed returns the thresholds t with previous < t <= current, ascending.
func Crossed(previous, current float64, thresholds []int) []int {
	out := make([]int, 0)
	for _, t := range thresholds {
		value := float64(t)
		if previous < value && value <= current {
			out = append(out, t)
		}
	}
	return out
}

// Detect diffs current totals against the persisted baseline. Every crossed
// threshold not yet announced yields one notification. The returned totals
// overwrite the baseline for every current player and the returned announced
// set is the input plus every threshold that fired. Inputs are not mutated.
func Detect(current []stats.PlayerTotals, previous Totals, announced Announced, thresholds Thresholds) ([]Notification, Totals, Announced) {
	nextTotals := cloneTotals(previous)
	nextAnnounced := cloneAnnounced(announced)
	notifications := make([]Notification, 0)

	players := slices.Clone(current)
	sort.SliceStable(players, func(i, j int) bool { return players[i].PlayerID < players[j].PlayerID })

	for _, player := range players {
		key := PlayerKey(player.PlayerID)
		baseline := previous[key]

		for _, stat := range stats.CountStats {
			list, ok := thresholds[stat]
			if !ok {
				continue
			}
			cur := player.Value(stat)
			for _, t := range Crossed(baseline[stat], cur, list) {
				if nextAnnounced.Has(key, stat, t) {
					continue
				}
				notifications = append(notifications, Notification{
					PlayerID:  player.PlayerID,
					Player:    player.Name,
					Stat:      stat,
					Threshold: t,
					Total:     cur,
				})
				nextAnnounced.add(key, stat, t)
			}
		}

		values := make(map[stats.Stat]float64, len(stats.CountStats))
		for _, stat := range stats.CountStats {
			values[stat] = player.Value(stat)
		}
		nextTotals[key] = values
	}

	return notifications, nextTotals, nextAnnounced
}

// Baseline records current totals without announcing anything.
func Baseline(current []stats.PlayerTotals, previous Totals) Totals {
	out := cloneTotals(previous)
	for _, player := range current {
		values := make(map[stats.Stat]float64, len(stats.CountStats))
		for _, stat := range stats.CountStats {
			values[stat] = player.Value(stat)
		}
		out[PlayerKey(player.PlayerID)] = values
	}
	return out
}

func cloneTotals(in Totals) Totals {
	out := make(Totals, len(in))
	for key, values := range in {
		out[key] = maps.Clone(values)
	}
	return out
}

func cloneAnnounced(in Announced) Announced {
	out := make(Announced, len(in))
	for key, byStat := range in {
		copied := make(map[stats.Stat][]int, len(byStat))
		for stat, values := range byStat {
			copied[stat] = slices.Clone(values)
		}
		out[key] = copied
	}
	return out
}
