package models

import (
	"time"
)

// Wound etiologies recognised by the treatment engine. Unlisted values are
// accepted and simply add no etiology-specific interventions.
const (
	EtiologyDiabeticFootUlcer = "diabetic_foot_ulcer"
	EtiologyVenousLegUlcer    = "venous_leg_ulcer"
	EtiologyPressureUlcer     = "pressure_ulcer"
	EtiologySurgicalSite      = "surgical_site_infection"
	EtiologyArterialUlcer     = "arterial_ulcer"
	EtiologyTraumatic         = "traumatic"
	EtiologyBurn              = "burn"
	EtiologyOther             = "other"
)

// Exudate levels reported by the imaging pipeline.
const (
	ExudateNone     = "none"
	ExudateLow      = "low"
	ExudateModerate = "moderate"
	ExudateHigh     = "high"
)

// Wound lifecycle states tracked in the registry.
const (
	WoundStatusActive        = "active"
	WoundStatusHealing       = "healing"
	WoundStatusStalled       = "stalled"
	WoundStatusHealed        = "healed"
	WoundStatusDeteriorating = "deteriorating"
)

// TissueComposition holds the classifier's tissue breakdown for a scan.
// Percentages are expected to sum to 100 within a one-point tolerance.
type TissueComposition struct {
	GranulationPct      float64 `json:"granulation_pct"`
	SloughPct           float64 `json:"slough_pct"`
	EscharPct           float64 `json:"eschar_pct"`
	EpithelialPct       float64 `json:"epithelial_pct"`
	HypergranulationPct float64 `json:"hypergranulation_pct,omitempty"`
}

// Total returns the summed tissue percentages.
func (t TissueComposition) Total() float64 {
	return t.GranulationPct + t.SloughPct + t.EscharPct + t.EpithelialPct + t.HypergranulationPct
}

// MeasurementRecord is an immutable snapshot of a single scan, supplied by
// the external imaging/classification collaborator. SeverityScore and Stage
// are absent (nil) when the classifier was unavailable; analytics code must
// skip such records rather than treat absence as zero.
type MeasurementRecord struct {
	ScanID        string            `json:"scan_id"`
	AreaCm2       float64           `json:"area_cm2"`
	SeverityScore *float64          `json:"severity_score,omitempty"`
	Stage         *int              `json:"stage,omitempty"`
	Timestamp     time.Time         `json:"timestamp"`
	Tissue        TissueComposition `json:"tissue_composition"`
	ExudateLevel  string            `json:"exudate_level"`
}

// Trend directions emitted by the trend calculator.
const (
	TrendImproving     = "improving"
	TrendStable        = "stable"
	TrendDeteriorating = "deteriorating"
)

// HealingTrend is the derived healing summary for a wound. It is recomputed
// on demand from the measurement history and never stored as entity state.
type HealingTrend struct {
	WoundID              string  `json:"wound_id"`
	BaselineAreaCm2      float64 `json:"baseline_area_cm2"`
	CurrentAreaCm2       float64 `json:"current_area_cm2"`
	PARPercentage        float64 `json:"par_percentage"`
	DaysElapsed          int     `json:"days_elapsed"`
	IsStalled            bool    `json:"is_stalled"`
	TrendDirection       string  `json:"trend_direction"`
	ProjectedHealingDays *int    `json:"projected_healing_days,omitempty"`
}

// DeteriorationPrediction is the bounded risk estimate over the most recent
// five-scan observation window.
type DeteriorationPrediction struct {
	WoundID               string  `json:"wound_id"`
	RiskProbability       float64 `json:"risk_probability"`
	ConfidenceIntervalPct float64 `json:"confidence_interval_pct"`
	PredictionHorizonHrs  int     `json:"prediction_horizon_hours"`
	Rationale             string  `json:"rationale"`
}

// Alert types raised by the rule evaluator.
const (
	AlertSeveritySpike        = "severity_spike"
	AlertStalledWound         = "stalled_wound"
	AlertPredictedSevereStage = "predicted_severe_stage"
)

// Alert severities.
const (
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// Alert is a rule-triggered early warning. The evaluator emits a fresh alert
// each time a rule's condition holds for the current history snapshot; any
// deduplication across evaluations is the caller's responsibility.
type Alert struct {
	ID        string    `json:"id"`
	WoundID   string    `json:"wound_id"`
	PatientID string    `json:"patient_id"`
	AlertType string    `json:"alert_type"`
	Severity  string    `json:"severity"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Urgency levels for treatment recommendations.
const (
	UrgencyRoutine   = "routine"
	UrgencyUrgent    = "urgent"
	UrgencyEmergency = "emergency"
)

// TreatmentRecommendation is the stateless output of the treatment engine.
type TreatmentRecommendation struct {
	PrimaryDressing   string   `json:"primary_dressing"`
	SecondaryDressing *string  `json:"secondary_dressing,omitempty"`
	Interventions     []string `json:"interventions"`
	Rationale         string   `json:"rationale"`
	Urgency           string   `json:"urgency"`
	ReferralNeeded    bool     `json:"referral_needed"`
	ReferralReason    *string  `json:"referral_reason,omitempty"`
}

// ClassifierResult is the structured output of the external wound
// classifier. Callers receive nil when the classifier is unavailable.
type ClassifierResult struct {
	SeverityScore float64 `json:"severity_score"`
	Stage         string  `json:"stage"`
	Confidence    float64 `json:"confidence"`
	ModelVersion  string  `json:"model_version"`
}

// ScanIngestRequest is the payload accepted by the scan service.
type ScanIngestRequest struct {
	WoundID          string            `json:"wound_id"`
	PatientID        string            `json:"patient_id"`
	FacilityID       string            `json:"facility_id,omitempty"`
	ScannedBy        string            `json:"scanned_by"`
	AreaCm2          float64           `json:"area_cm2"`
	LengthCm         float64           `json:"length_cm,omitempty"`
	WidthCm          float64           `json:"width_cm,omitempty"`
	DepthCm          float64           `json:"depth_cm,omitempty"`
	Tissue           TissueComposition `json:"tissue_composition"`
	ExudateLevel     string            `json:"exudate_level"`
	ExudateType      string            `json:"exudate_type,omitempty"`
	SubEpidermalRisk string            `json:"sub_epidermal_risk,omitempty"`
	Etiology         string            `json:"etiology,omitempty"`
	Timestamp        time.Time         `json:"timestamp,omitempty"`
	Image            []byte            `json:"image,omitempty"`
}

// ScanIngestResponse acknowledges an accepted scan.
type ScanIngestResponse struct {
	ScanID    string    `json:"scan_id"`
	WoundID   string    `json:"wound_id"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// Event is the envelope published on the event bus.
type Event struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"`
	Source    string                 `json:"source"`
	Data      map[string]interface{} `json:"data"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]string      `json:"metadata,omitempty"`
}

// Event types on the bus.
const (
	EventScanCompleted = "scan.completed"
	EventAlertCreated  = "alert.created"
)

// FacilityWoundBurden is the facility-level aggregation served by the
// analytics service.
type FacilityWoundBurden struct {
	FacilityID       string         `json:"facility_id"`
	TotalWounds      int            `json:"total_wounds"`
	ActiveWounds     int            `json:"active_wounds"`
	StalledWounds    int            `json:"stalled_wounds"`
	WoundsByEtiology map[string]int `json:"wounds_by_etiology"`
}
