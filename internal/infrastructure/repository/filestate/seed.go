package filestate

import (
	"os"
	"strings"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/hoopstats/internal/domain/records"
	"github.com/riskibarqy/hoopstats/internal/domain/stats"
)

type seedEntry struct {
	Value  float64 `json:"value"`
	Holder string  `json:"holder"`
	Game   string  `json:"game"`
	Date   string  `json:"date"`
}

// LoadSeed reads the optional records seed: statistic name to
// {value, holder, game, date}. A missing file yields an empty map; unknown
// statistics are ignored.
func LoadSeed(path string) (map[stats.Stat]records.Record, error) {
	out := make(map[stats.Stat]records.Record)
	if strings.TrimSpace(path) == "" {
		return out, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return out, nil
		}
		return out, crerr.Wrapf(err, "read records seed %s", path)
	}

	var entries map[string]seedEntry
	if err := sonic.Unmarshal(raw, &entries); err != nil {
		return out, crerr.Wrapf(err, "decode records seed %s", path)
	}

	for key, entry := range entries {
		stat := stats.Stat(strings.TrimSpace(key))
		if !stat.Valid() || entry.Value <= 0 {
			continue
		}
		out[stat] = records.Record{
			Stat:   stat,
			Value:  entry.Value,
			Holder: strings.TrimSpace(entry.Holder),
			Game:   strings.TrimSpace(entry.Game),
			Date:   strings.TrimSpace(entry.Date),
		}
	}
	return out, nil
}
