package treatment

import (
	"fmt"
	"strings"

	"github.com/SanchoLoco/NoPressure/pkg/common/models"
)

// Input is the pre-validated wound state consumed by the engine. Etiology
// and exudate values are plain strings; unknown values select the fallback
// branches rather than failing.
type Input struct {
	GranulationPct   float64
	SloughPct        float64
	EscharPct        float64
	ExudateLevel     string
	Etiology         string
	IsStalled        bool
	SubEpidermalRisk string // none, low, moderate, high
}

// Engine is the stateless dressing/intervention decision table. Recommend is
// a pure function: identical inputs always yield identical output.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// Recommend maps tissue composition, exudate, etiology and escalation flags
// to a dressing choice, intervention list, urgency and referral decision.
// Dressing rules are evaluated in fixed precedence order, first match wins;
// etiology and escalation overlays are additive.
func (e *Engine) Recommend(in Input) models.TreatmentRecommendation {
	interventions := []string{}
	urgency := models.UrgencyRoutine
	referralNeeded := false
	var referralReason *string
	var primaryDressing string

	switch {
	case in.EscharPct > 30:
		primaryDressing = "Hydrocolloid or Enzymatic Debridement Agent"
		interventions = append(interventions,
			"Mechanical or autolytic debridement required",
			"Vascular assessment recommended before sharp debridement")
		urgency = models.UrgencyUrgent
	case in.SloughPct > 50:
		if in.ExudateLevel == models.ExudateHigh || in.ExudateLevel == models.ExudateModerate {
			primaryDressing = "Alginate Dressing"
			interventions = append(interventions, "Debridement of fibrinous tissue required")
		} else {
			primaryDressing = "Hydrogel Dressing"
			interventions = append(interventions, "Autolytic debridement - maintain moist wound environment")
		}
	case in.GranulationPct > 70 && in.ExudateLevel == models.ExudateLow:
		primaryDressing = "Non-adherent Silicone Foam Dressing"
		interventions = append(interventions, "Protect granulation tissue - avoid trauma on removal")
	case in.GranulationPct > 70 && (in.ExudateLevel == models.ExudateModerate || in.ExudateLevel == models.ExudateHigh):
		primaryDressing = "Foam Dressing with Superabsorbent Layer"
		interventions = append(interventions, "High exudate detected; recommend Alginate dressing")
	default:
		primaryDressing = "Foam Dressing"
	}

	switch in.Etiology {
	case models.EtiologyDiabeticFootUlcer:
		interventions = append(interventions,
			"Offloading: Total Contact Cast or therapeutic footwear",
			"Blood glucose optimisation: target HbA1c <7%")
		referralNeeded = true
		reason := "Diabetic foot multidisciplinary team referral"
		referralReason = &reason
	case models.EtiologyVenousLegUlcer:
		interventions = append(interventions,
			"Compression therapy: 40mmHg four-layer bandaging",
			"Leg elevation when resting")
	case models.EtiologyPressureUlcer:
		interventions = append(interventions,
			"Reposition every 2 hours",
			"Pressure-redistributing mattress",
			"Nutritional assessment (protein, vitamin C, zinc)")
	}

	if in.IsStalled {
		interventions = append(interventions,
			"Wound not progressing - consider biopsy to rule out malignancy",
			"Review treatment plan and consider advanced therapy (NPWT or biologics)")
		urgency = escalate(urgency, models.UrgencyUrgent)
	}

	if in.SubEpidermalRisk == "moderate" || in.SubEpidermalRisk == "high" {
		interventions = append(interventions,
			"Stage 1 pressure injury detected - initiate prevention protocol immediately")
		urgency = escalate(urgency, models.UrgencyUrgent)
	}

	return models.TreatmentRecommendation{
		PrimaryDressing: primaryDressing,
		Interventions:   interventions,
		Rationale:       buildRationale(in),
		Urgency:         urgency,
		ReferralNeeded:  referralNeeded,
		ReferralReason:  referralReason,
	}
}

// escalate raises urgency to at least target without ever downgrading an
// emergency.
func escalate(current, target string) string {
	if current == models.UrgencyEmergency {
		return current
	}
	return target
}

func buildRationale(in Input) string {
	parts := []string{}
	if in.EscharPct > 0 {
		parts = append(parts, fmt.Sprintf("%.0f%% necrotic tissue present", in.EscharPct))
	}
	if in.SloughPct > 0 {
		parts = append(parts, fmt.Sprintf("%.0f%% slough requiring debridement", in.SloughPct))
	}
	if in.GranulationPct > 0 {
		parts = append(parts, fmt.Sprintf("%.0f%% healthy granulation tissue", in.GranulationPct))
	}
	parts = append(parts, fmt.Sprintf("%s exudate level", in.ExudateLevel))
	return strings.Join(parts, "; ") + "."
}
