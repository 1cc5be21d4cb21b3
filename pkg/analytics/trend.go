package analytics

import (
	"errors"

	"github.com/SanchoLoco/NoPressure/pkg/common/models"
)

var (
	ErrEmptyHistory        = errors.New("no scan history available")
	ErrInsufficientHistory = errors.New("at least 5 dated scans spanning 5 days are required for prediction")
)

// TrendCalculator derives healing summaries from a wound's chronologically
// ordered measurement history. It holds only configuration and is safe for
// concurrent use.
type TrendCalculator struct {
	thresholds Thresholds
}

func NewTrendCalculator(thresholds Thresholds) *TrendCalculator {
	return &TrendCalculator{thresholds: thresholds}
}

// ComputeTrend calculates PAR, stall state, trend direction and a projected
// healing date from the full measurement history. The history must be
// non-empty and ordered oldest first.
func (c *TrendCalculator) ComputeTrend(woundID string, history []models.MeasurementRecord) (models.HealingTrend, error) {
	if len(history) == 0 {
		return models.HealingTrend{}, ErrEmptyHistory
	}

	baseline := history[0]
	current := history[len(history)-1]

	daysElapsed := wholeDaysBetween(baseline.Timestamp, current.Timestamp)
	par := CalculatePAR(baseline.AreaCm2, current.AreaCm2)
	stalled := daysElapsed >= c.thresholds.StalledDays && par < c.thresholds.StalledPARThreshold

	return models.HealingTrend{
		WoundID:              woundID,
		BaselineAreaCm2:      baseline.AreaCm2,
		CurrentAreaCm2:       current.AreaCm2,
		PARPercentage:        par,
		DaysElapsed:          daysElapsed,
		IsStalled:            stalled,
		TrendDirection:       c.trendDirection(history),
		ProjectedHealingDays: projectHealingDays(history, current.AreaCm2),
	}, nil
}

// CalculatePAR returns the Percentage Area Reduction from baseline, rounded
// to one decimal. A non-positive baseline clamps the result to 0 rather than
// dividing by zero.
func CalculatePAR(baselineArea, currentArea float64) float64 {
	if baselineArea <= 0 {
		return 0.0
	}
	return round1(((baselineArea - currentArea) / baselineArea) * 100)
}

// trendDirection inspects the most recent readings (up to the configured
// window) and compares oldest vs newest area with a deadband to avoid
// flapping on measurement noise.
func (c *TrendCalculator) trendDirection(history []models.MeasurementRecord) string {
	window := c.thresholds.TrendWindow
	if len(history) > window {
		history = history[len(history)-window:]
	}
	if len(history) < 2 {
		return models.TrendStable
	}

	oldest := history[0].AreaCm2
	newest := history[len(history)-1].AreaCm2
	deadband := c.thresholds.TrendDeadbandPct / 100.0

	switch {
	case newest < oldest*(1-deadband):
		return models.TrendImproving
	case newest > oldest*(1+deadband):
		return models.TrendDeteriorating
	default:
		return models.TrendStable
	}
}

// projectHealingDays extrapolates the daily shrink rate from the last two
// measurements. Returns nil when no projection is possible: a single scan,
// an already closed wound, same-day scans, or a wound that is not shrinking.
func projectHealingDays(history []models.MeasurementRecord, currentArea float64) *int {
	if len(history) < 2 || currentArea <= 0 {
		return nil
	}

	prev := history[len(history)-2]
	last := history[len(history)-1]

	days := wholeDaysBetween(prev.Timestamp, last.Timestamp)
	if days <= 0 {
		return nil
	}

	shrinkPerDay := (prev.AreaCm2 - last.AreaCm2) / float64(days)
	if shrinkPerDay <= 0 {
		return nil
	}

	projected := int(currentArea / shrinkPerDay)
	return &projected
}
