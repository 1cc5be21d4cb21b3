package analytics

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Thresholds carries the clinical constants used by the trend calculator and
// the alert rule evaluator. The defaults mirror standard wound-care practice
// guidance; deployments can override them from a YAML file.
type Thresholds struct {
	StalledDays         int     `yaml:"stalled_days" json:"stalled_days"`
	StalledPARThreshold float64 `yaml:"stalled_par_threshold" json:"stalled_par_threshold"`
	TrendWindow         int     `yaml:"trend_window" json:"trend_window"`
	TrendDeadbandPct    float64 `yaml:"trend_deadband_pct" json:"trend_deadband_pct"`
	SeveritySpikeDelta  float64 `yaml:"severity_spike_delta" json:"severity_spike_delta"`
	SpikeLookbackHours  int     `yaml:"spike_lookback_hours" json:"spike_lookback_hours"`
	SevereStageScore    float64 `yaml:"severe_stage_score" json:"severe_stage_score"`
	ProjectionDays      int     `yaml:"projection_days" json:"projection_days"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		StalledDays:         28,
		StalledPARThreshold: 20.0,
		TrendWindow:         3,
		TrendDeadbandPct:    5.0,
		SeveritySpikeDelta:  0.5,
		SpikeLookbackHours:  24,
		SevereStageScore:    3.5,
		ProjectionDays:      14,
	}
}

// LoadThresholds reads threshold overrides from a YAML file, falling back to
// the defaults when no path is configured.
func LoadThresholds(path string) (Thresholds, error) {
	if path == "" {
		return DefaultThresholds(), nil
	}
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return DefaultThresholds(), err
	}

	cfg := DefaultThresholds()
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return Thresholds{}, err
	}

	if cfg.StalledDays <= 0 || cfg.TrendWindow < 2 {
		return Thresholds{}, errors.New("invalid clinical thresholds")
	}

	return cfg, nil
}
