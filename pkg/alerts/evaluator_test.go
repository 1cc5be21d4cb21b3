package alerts

import (
	"os"
	"testing"
	"time"

	"github.com/SanchoLoco/NoPressure/pkg/analytics"
	"github.com/SanchoLoco/NoPressure/pkg/common/logger"
	"github.com/SanchoLoco/NoPressure/pkg/common/models"
)

var t0 = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func newEvaluator() *Evaluator {
	return NewEvaluator(analytics.DefaultThresholds())
}

func scoredRec(area, severity float64, at time.Time) models.MeasurementRecord {
	return models.MeasurementRecord{AreaCm2: area, SeverityScore: &severity, Timestamp: at}
}

func unscoredRec(area float64, at time.Time) models.MeasurementRecord {
	return models.MeasurementRecord{AreaCm2: area, Timestamp: at}
}

func days(n int) time.Duration {
	return time.Duration(n) * 24 * time.Hour
}

func alertTypes(alerts []models.Alert) []string {
	types := make([]string, 0, len(alerts))
	for _, a := range alerts {
		types = append(types, a.AlertType)
	}
	return types
}

func hasAlert(alerts []models.Alert, alertType string) bool {
	for _, a := range alerts {
		if a.AlertType == alertType {
			return true
		}
	}
	return false
}

func TestEvaluateEmptyHistory(t *testing.T) {
	alerts := newEvaluator().Evaluate("w1", "p1", nil)
	if len(alerts) != 0 {
		t.Fatalf("expected no alerts for empty history, got %v", alertTypes(alerts))
	}
}

func TestSeveritySpikeFires(t *testing.T) {
	history := []models.MeasurementRecord{
		scoredRec(10, 2.0, t0),
		scoredRec(10, 2.7, t0.Add(6*time.Hour)),
	}
	alerts := newEvaluator().Evaluate("w1", "p1", history)
	if !hasAlert(alerts, models.AlertSeveritySpike) {
		t.Fatalf("expected severity spike alert, got %v", alertTypes(alerts))
	}
	for _, a := range alerts {
		if a.AlertType == models.AlertSeveritySpike {
			if a.Severity != models.SeverityHigh {
				t.Fatalf("expected high severity, got %s", a.Severity)
			}
			if a.WoundID != "w1" || a.PatientID != "p1" {
				t.Fatalf("alert not bound to wound/patient: %+v", a)
			}
		}
	}
}

func TestSeveritySpikeExactThresholdDoesNotFire(t *testing.T) {
	history := []models.MeasurementRecord{
		scoredRec(10, 2.0, t0),
		scoredRec(10, 2.5, t0.Add(6*time.Hour)),
	}
	alerts := newEvaluator().Evaluate("w1", "p1", history)
	if hasAlert(alerts, models.AlertSeveritySpike) {
		t.Fatal("delta of exactly 0.5 must not fire")
	}
}

func TestSeveritySpikeIgnoresPriorOutsideWindow(t *testing.T) {
	history := []models.MeasurementRecord{
		scoredRec(10, 2.0, t0),
		scoredRec(10, 3.0, t0.Add(days(3))),
	}
	alerts := newEvaluator().Evaluate("w1", "p1", history)
	if hasAlert(alerts, models.AlertSeveritySpike) {
		t.Fatal("no spike alert when the prior score is outside the 24h window")
	}
}

func TestSeveritySpikeSkipsUnscoredScans(t *testing.T) {
	history := []models.MeasurementRecord{
		scoredRec(10, 2.0, t0),
		unscoredRec(10, t0.Add(2*time.Hour)),
		scoredRec(10, 2.8, t0.Add(4*time.Hour)),
	}
	alerts := newEvaluator().Evaluate("w1", "p1", history)
	if !hasAlert(alerts, models.AlertSeveritySpike) {
		t.Fatalf("unscored scans should be skipped, got %v", alertTypes(alerts))
	}
}

func TestSeveritySpikeSingleScoredScan(t *testing.T) {
	history := []models.MeasurementRecord{
		unscoredRec(10, t0),
		scoredRec(10, 3.0, t0.Add(2*time.Hour)),
	}
	alerts := newEvaluator().Evaluate("w1", "p1", history)
	if hasAlert(alerts, models.AlertSeveritySpike) {
		t.Fatal("fewer than two scored scans must not fire")
	}
}

func TestStalledWoundFires(t *testing.T) {
	history := []models.MeasurementRecord{
		unscoredRec(10, t0),
		unscoredRec(9.2, t0.Add(days(30))),
	}
	alerts := newEvaluator().Evaluate("w1", "p1", history)
	if !hasAlert(alerts, models.AlertStalledWound) {
		t.Fatalf("expected stalled wound alert, got %v", alertTypes(alerts))
	}
	for _, a := range alerts {
		if a.AlertType == models.AlertStalledWound && a.Severity != models.SeverityMedium {
			t.Fatalf("expected medium severity, got %s", a.Severity)
		}
	}
}

func TestStalledWoundNotFiredEarly(t *testing.T) {
	history := []models.MeasurementRecord{
		unscoredRec(10, t0),
		unscoredRec(9.2, t0.Add(days(10))),
	}
	alerts := newEvaluator().Evaluate("w1", "p1", history)
	if hasAlert(alerts, models.AlertStalledWound) {
		t.Fatal("stalled rule must not fire before the observation window")
	}
}

func TestStalledWoundZeroBaselineSkipped(t *testing.T) {
	history := []models.MeasurementRecord{
		unscoredRec(0, t0),
		unscoredRec(5, t0.Add(days(30))),
	}
	alerts := newEvaluator().Evaluate("w1", "p1", history)
	if hasAlert(alerts, models.AlertStalledWound) {
		t.Fatal("zero baseline area must not fire the stalled rule")
	}
}

func TestPredictedSevereStageFires(t *testing.T) {
	// Severity climbing 0.5/day from 2.0: projected 14 days past the last
	// scan is far above the 3.5 threshold.
	history := []models.MeasurementRecord{
		scoredRec(10, 2.0, t0),
		scoredRec(10, 2.5, t0.Add(days(1))),
		scoredRec(10, 3.0, t0.Add(days(2))),
	}
	alerts := newEvaluator().Evaluate("w1", "p1", history)
	if !hasAlert(alerts, models.AlertPredictedSevereStage) {
		t.Fatalf("expected severe stage prediction alert, got %v", alertTypes(alerts))
	}
	for _, a := range alerts {
		if a.AlertType == models.AlertPredictedSevereStage && a.Severity != models.SeverityCritical {
			t.Fatalf("expected critical severity, got %s", a.Severity)
		}
	}
}

func TestPredictedSevereStageStableScoresDoNotFire(t *testing.T) {
	history := []models.MeasurementRecord{
		scoredRec(10, 2.0, t0),
		scoredRec(10, 2.0, t0.Add(days(7))),
		scoredRec(10, 2.0, t0.Add(days(14))),
	}
	alerts := newEvaluator().Evaluate("w1", "p1", history)
	if hasAlert(alerts, models.AlertPredictedSevereStage) {
		t.Fatal("flat severity must not project past the severe threshold")
	}
}

func TestPredictedSevereStageRegressionFailureSwallowed(t *testing.T) {
	// Two scored scans at the identical instant: degenerate fit, no alert,
	// no panic.
	history := []models.MeasurementRecord{
		scoredRec(10, 2.0, t0),
		scoredRec(10, 4.0, t0),
	}
	alerts := newEvaluator().Evaluate("w1", "p1", history)
	if hasAlert(alerts, models.AlertPredictedSevereStage) {
		t.Fatal("degenerate regression must be swallowed")
	}
}

func TestMultipleRulesFireTogether(t *testing.T) {
	// Stalled area plus a fresh severity spike plus climbing scores: all
	// three rules fire in evaluation order.
	history := []models.MeasurementRecord{
		scoredRec(10, 2.0, t0),
		scoredRec(9.8, 2.4, t0.Add(days(15))),
		scoredRec(9.6, 2.8, t0.Add(days(29))),
		scoredRec(9.5, 3.6, t0.Add(days(29)).Add(6*time.Hour)),
	}
	alerts := newEvaluator().Evaluate("w1", "p1", history)
	types := alertTypes(alerts)
	if len(alerts) != 3 {
		t.Fatalf("expected all three rules to fire, got %v", types)
	}
	expected := []string{models.AlertSeveritySpike, models.AlertStalledWound, models.AlertPredictedSevereStage}
	for i, want := range expected {
		if types[i] != want {
			t.Fatalf("expected rule order %v, got %v", expected, types)
		}
	}
}
