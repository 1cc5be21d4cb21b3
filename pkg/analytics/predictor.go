package analytics

import (
	"fmt"
	"math"
	"sort"

	"github.com/SanchoLoco/NoPressure/pkg/common/models"
)

const (
	predictionWindow       = 5
	predictionMinSpanDays  = 4
	predictionHorizonHours = 72
	baselineRisk           = 0.1
)

// DeteriorationPredictor estimates the probability of deterioration within
// the next 72 hours from the most recent five scans.
type DeteriorationPredictor struct {
	trend *TrendCalculator
}

func NewDeteriorationPredictor(trend *TrendCalculator) *DeteriorationPredictor {
	return &DeteriorationPredictor{trend: trend}
}

// Predict accumulates a deterioration score over the five most recent scans:
// a deteriorating direction, net area growth since baseline, and a positive
// area slope each contribute. The result is clamped to [0, 1] on top of a
// fixed baseline risk.
func (p *DeteriorationPredictor) Predict(woundID string, history []models.MeasurementRecord) (models.DeteriorationPrediction, error) {
	if len(history) < predictionWindow {
		return models.DeteriorationPrediction{}, ErrInsufficientHistory
	}
	for _, rec := range history {
		if rec.Timestamp.IsZero() {
			return models.DeteriorationPrediction{}, ErrInsufficientHistory
		}
	}

	sorted := make([]models.MeasurementRecord, len(history))
	copy(sorted, history)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	span := wholeDaysBetween(sorted[0].Timestamp, sorted[len(sorted)-1].Timestamp)
	if span < predictionMinSpanDays {
		return models.DeteriorationPrediction{}, ErrInsufficientHistory
	}

	recent := sorted[len(sorted)-predictionWindow:]
	trend, err := p.trend.ComputeTrend(woundID, recent)
	if err != nil {
		return models.DeteriorationPrediction{}, fmt.Errorf("computing window trend: %w", err)
	}

	daysSpan := wholeDaysBetween(recent[0].Timestamp, recent[len(recent)-1].Timestamp)
	if daysSpan < 1 {
		daysSpan = 1
	}
	slope := (recent[len(recent)-1].AreaCm2 - recent[0].AreaCm2) / float64(daysSpan)

	score := 0.0
	if trend.TrendDirection == models.TrendDeteriorating {
		score += 0.25
	}
	if trend.PARPercentage < 0 {
		score += 0.20
	}
	if slope > 0 {
		score += math.Min(0.30, slope/10)
	}

	risk := math.Max(0.0, math.Min(1.0, baselineRisk+score))
	confidence := math.Max(5.0, 30.0-2.0*float64(len(recent)))

	return models.DeteriorationPrediction{
		WoundID:               woundID,
		RiskProbability:       round2(risk),
		ConfidenceIntervalPct: round1(confidence),
		PredictionHorizonHrs:  predictionHorizonHours,
		Rationale:             "Trend-based risk estimate over 5-day window",
	}, nil
}
