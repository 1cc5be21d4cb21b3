package alerts

import (
	"fmt"
	"time"

	"github.com/SanchoLoco/NoPressure/pkg/analytics"
	"github.com/SanchoLoco/NoPressure/pkg/common/logger"
	"github.com/SanchoLoco/NoPressure/pkg/common/models"
	"github.com/SanchoLoco/NoPressure/pkg/ml/linear"
	"github.com/google/uuid"
)

// Evaluator runs the early-warning rules against a wound's full scan
// history. It reads a history snapshot and emits new alert records for the
// caller to persist; it never mutates wound or scan state and never fails.
// A rule whose preconditions are unmet simply does not fire. Repeated
// evaluations re-fire rules whose conditions still hold; deduplication is
// the caller's responsibility.
type Evaluator struct {
	thresholds analytics.Thresholds
}

func NewEvaluator(thresholds analytics.Thresholds) *Evaluator {
	return &Evaluator{thresholds: thresholds}
}

// Evaluate applies all rules in order and returns the alerts that fired.
// An empty history produces no alerts.
func (e *Evaluator) Evaluate(woundID, patientID string, history []models.MeasurementRecord) []models.Alert {
	alerts := []models.Alert{}
	if len(history) == 0 {
		return alerts
	}

	if alert := e.severitySpike(woundID, patientID, history); alert != nil {
		alerts = append(alerts, *alert)
	}
	if alert := e.stalledWound(woundID, patientID, history); alert != nil {
		alerts = append(alerts, *alert)
	}
	if alert := e.predictedSevereStage(woundID, patientID, history); alert != nil {
		alerts = append(alerts, *alert)
	}

	return alerts
}

// severitySpike fires when the latest severity score exceeds the most recent
// prior score within the look-back window by strictly more than the spike
// delta. Scans without a severity score are skipped.
func (e *Evaluator) severitySpike(woundID, patientID string, history []models.MeasurementRecord) *models.Alert {
	scored := scoredScans(history)
	if len(scored) < 2 {
		return nil
	}

	last := scored[len(scored)-1]
	lookback := time.Duration(e.thresholds.SpikeLookbackHours) * time.Hour

	var prior *models.MeasurementRecord
	for i := len(scored) - 2; i >= 0; i-- {
		if last.Timestamp.Sub(scored[i].Timestamp) <= lookback {
			prior = &scored[i]
			break
		}
	}
	if prior == nil {
		return nil
	}

	delta := *last.SeverityScore - *prior.SeverityScore
	if delta <= e.thresholds.SeveritySpikeDelta {
		return nil
	}

	logger.Log.WithField("wound_id", woundID).Info("Severity spike alert created")
	return e.newAlert(woundID, patientID, models.AlertSeveritySpike, models.SeverityHigh,
		fmt.Sprintf("Severity score increased by %.2f in the last %d hours (from %.1f to %.1f).",
			delta, e.thresholds.SpikeLookbackHours, *prior.SeverityScore, *last.SeverityScore))
}

// stalledWound fires when the wound shows less than the threshold area
// reduction after the minimum observation window.
func (e *Evaluator) stalledWound(woundID, patientID string, history []models.MeasurementRecord) *models.Alert {
	baseline := history[0]
	current := history[len(history)-1]
	if baseline.AreaCm2 <= 0 {
		return nil
	}

	daysElapsed := int(current.Timestamp.Sub(baseline.Timestamp).Hours() / 24)
	par := analytics.CalculatePAR(baseline.AreaCm2, current.AreaCm2)
	if daysElapsed < e.thresholds.StalledDays || par >= e.thresholds.StalledPARThreshold {
		return nil
	}

	logger.Log.WithField("wound_id", woundID).Info("Stalled wound alert created")
	return e.newAlert(woundID, patientID, models.AlertStalledWound, models.SeverityMedium,
		fmt.Sprintf("Wound has not improved by %.0f%% in %d days (current PAR: %.1f%%). Consider treatment plan review.",
			e.thresholds.StalledPARThreshold, daysElapsed, par))
}

// predictedSevereStage fits a severity-vs-time regression over all scored
// scans and extrapolates the projection horizon past the last scan. A fit
// failure (fewer than two scored scans, degenerate data) is swallowed.
func (e *Evaluator) predictedSevereStage(woundID, patientID string, history []models.MeasurementRecord) *models.Alert {
	scored := scoredScans(history)
	if len(scored) < 2 {
		return nil
	}

	x := make([]float64, len(scored))
	y := make([]float64, len(scored))
	for i, rec := range scored {
		x[i] = float64(rec.Timestamp.Unix())
		y[i] = *rec.SeverityScore
	}

	model, err := linear.Fit(x, y)
	if err != nil {
		return nil
	}

	horizon := float64(e.thresholds.ProjectionDays) * 86400
	projected := model.At(x[len(x)-1] + horizon)
	if projected < e.thresholds.SevereStageScore {
		return nil
	}

	logger.Log.WithField("wound_id", woundID).Warn("Severe stage prediction alert created")
	return e.newAlert(woundID, patientID, models.AlertPredictedSevereStage, models.SeverityCritical,
		fmt.Sprintf("Projected severity score in %d days: %.1f. Severe-stage progression risk detected. Immediate clinical review recommended.",
			e.thresholds.ProjectionDays, projected))
}

func (e *Evaluator) newAlert(woundID, patientID, alertType, severity, message string) *models.Alert {
	return &models.Alert{
		ID:        uuid.New().String(),
		WoundID:   woundID,
		PatientID: patientID,
		AlertType: alertType,
		Severity:  severity,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
}

func scoredScans(history []models.MeasurementRecord) []models.MeasurementRecord {
	scored := make([]models.MeasurementRecord, 0, len(history))
	for _, rec := range history {
		if rec.SeverityScore != nil {
			scored = append(scored, rec)
		}
	}
	return scored
}
