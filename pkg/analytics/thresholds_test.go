package analytics

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadThresholdsDefaults(t *testing.T) {
	th, err := LoadThresholds("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if th.StalledDays != 28 || th.StalledPARThreshold != 20.0 {
		t.Fatalf("unexpected stall defaults: %+v", th)
	}
	if th.SeveritySpikeDelta != 0.5 || th.SevereStageScore != 3.5 {
		t.Fatalf("unexpected alert defaults: %+v", th)
	}
}

func TestLoadThresholdsOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thresholds.yaml")
	content := "stalled_days: 21\nseverity_spike_delta: 1.0\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	th, err := LoadThresholds(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if th.StalledDays != 21 {
		t.Fatalf("expected overridden stalled_days 21, got %d", th.StalledDays)
	}
	if th.SeveritySpikeDelta != 1.0 {
		t.Fatalf("expected overridden spike delta 1.0, got %f", th.SeveritySpikeDelta)
	}
	// Untouched keys keep their defaults.
	if th.TrendDeadbandPct != 5.0 {
		t.Fatalf("expected default deadband 5.0, got %f", th.TrendDeadbandPct)
	}
}

func TestLoadThresholdsRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thresholds.yaml")
	if err := os.WriteFile(path, []byte("stalled_days: -1\n"), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	if _, err := LoadThresholds(path); err == nil {
		t.Fatal("expected error for negative stall window")
	}
}
