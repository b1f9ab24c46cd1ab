package config

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/riskibarqy/hoopstats/internal/domain/milestone"
	"github.com/riskibarqy/hoopstats/internal/domain/stats"
)

// FileConfig is the optional TOML overlay named by CONFIG_FILE.
type FileConfig struct {
	Seasons    SeasonsConfig    `toml:"seasons"`
	Milestones MilestonesConfig `toml:"milestones"`
}

type SeasonsConfig struct {
	Endpoints []string `toml:"endpoints"`
	Leaders   *string  `toml:"leaders"`
	Current   *string  `toml:"current"`
}

type MilestonesConfig struct {
	BaselineOnFirstRun *bool            `toml:"baseline_on_first_run"`
	Thresholds         map[string][]int `toml:"thresholds"`
}

// LoadFile reads a TOML overlay from path. A missing file is not an error.
func LoadFile(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("stat config file: %w", err)
	}

	var out FileConfig
	meta, err := toml.DecodeFile(path, &out)
	if err != nil {
		return FileConfig{}, fmt.Errorf("decode config file %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown keys in config file %s: %v", path, undecoded)
	}
	return out, nil
}

// Apply overlays the file onto cfg. Only keys present in the file win.
func (f FileConfig) Apply(cfg *Config) error {
	if len(f.Seasons.Endpoints) > 0 {
		endpoints := make([]string, 0, len(f.Seasons.Endpoints))
		for _, endpoint := range f.Seasons.Endpoints {
			if endpoint = strings.TrimSpace(endpoint); endpoint != "" {
				endpoints = append(endpoints, endpoint)
			}
		}
		cfg.SeasonEndpoints = endpoints
	}
	if f.Seasons.Leaders != nil {
		cfg.LeadersEndpoint = strings.TrimSpace(*f.Seasons.Leaders)
	}
	if f.Seasons.Current != nil {
		cfg.CurrentSeason = strings.TrimSpace(*f.Seasons.Current)
	}

	if f.Milestones.BaselineOnFirstRun != nil {
		cfg.MilestoneBaselineOnFirstRun = *f.Milestones.BaselineOnFirstRun
	}
	if len(f.Milestones.Thresholds) > 0 {
		thresholds := make(milestone.Thresholds, len(f.Milestones.Thresholds))
		for key, values := range f.Milestones.Thresholds {
			stat := stats.Stat(strings.ToLower(strings.TrimSpace(key)))
			if !slices.Contains(stats.CountStats, stat) {
				return fmt.Errorf("milestone thresholds need a count statistic, got %q", key)
			}
			thresholds[stat] = values
		}
		cfg.MilestoneThresholds = thresholds.Normalize()
	}
	return nil
}
