package treatment

import (
	"reflect"
	"strings"
	"testing"

	"github.com/SanchoLoco/NoPressure/pkg/common/models"
)

func hasInterventionContaining(interventions []string, substr string) bool {
	for _, item := range interventions {
		if strings.Contains(strings.ToLower(item), strings.ToLower(substr)) {
			return true
		}
	}
	return false
}

func TestEscharDominatedWound(t *testing.T) {
	rec := NewEngine().Recommend(Input{
		GranulationPct: 20,
		SloughPct:      10,
		EscharPct:      70,
		ExudateLevel:   models.ExudateLow,
		Etiology:       models.EtiologyOther,
	})

	if !strings.Contains(rec.PrimaryDressing, "Debridement") {
		t.Fatalf("expected debridement-class dressing, got %q", rec.PrimaryDressing)
	}
	if !hasInterventionContaining(rec.Interventions, "debridement") {
		t.Fatalf("expected a debridement intervention, got %v", rec.Interventions)
	}
	if rec.Urgency != models.UrgencyUrgent {
		t.Fatalf("expected urgent urgency for heavy eschar, got %s", rec.Urgency)
	}
}

func TestSloughWithExudateSelectsAlginate(t *testing.T) {
	engine := NewEngine()

	rec := engine.Recommend(Input{
		SloughPct:      60,
		GranulationPct: 30,
		ExudateLevel:   models.ExudateHigh,
	})
	if rec.PrimaryDressing != "Alginate Dressing" {
		t.Fatalf("expected alginate for sloughy high-exudate wound, got %q", rec.PrimaryDressing)
	}

	rec = engine.Recommend(Input{
		SloughPct:      60,
		GranulationPct: 30,
		ExudateLevel:   models.ExudateLow,
	})
	if rec.PrimaryDressing != "Hydrogel Dressing" {
		t.Fatalf("expected hydrogel for sloughy dry wound, got %q", rec.PrimaryDressing)
	}
}

func TestGranulatingWoundDressings(t *testing.T) {
	engine := NewEngine()

	rec := engine.Recommend(Input{GranulationPct: 80, ExudateLevel: models.ExudateLow})
	if rec.PrimaryDressing != "Non-adherent Silicone Foam Dressing" {
		t.Fatalf("expected protective dressing, got %q", rec.PrimaryDressing)
	}

	rec = engine.Recommend(Input{GranulationPct: 80, ExudateLevel: models.ExudateHigh})
	if rec.PrimaryDressing != "Foam Dressing with Superabsorbent Layer" {
		t.Fatalf("expected absorbent foam, got %q", rec.PrimaryDressing)
	}
}

func TestFallbackDressing(t *testing.T) {
	rec := NewEngine().Recommend(Input{
		GranulationPct: 40,
		SloughPct:      30,
		EscharPct:      10,
		ExudateLevel:   models.ExudateModerate,
	})
	if rec.PrimaryDressing != "Foam Dressing" {
		t.Fatalf("expected generic foam fallback, got %q", rec.PrimaryDressing)
	}
}

func TestDiabeticFootUlcerOverlay(t *testing.T) {
	rec := NewEngine().Recommend(Input{
		GranulationPct: 80,
		ExudateLevel:   models.ExudateLow,
		Etiology:       models.EtiologyDiabeticFootUlcer,
	})
	if !hasInterventionContaining(rec.Interventions, "offloading") {
		t.Fatalf("expected offloading intervention, got %v", rec.Interventions)
	}
	if !rec.ReferralNeeded {
		t.Fatal("diabetic foot ulcer must force a referral")
	}
	if rec.ReferralReason == nil || !strings.Contains(strings.ToLower(*rec.ReferralReason), "multidisciplinary") {
		t.Fatalf("expected multidisciplinary team referral reason, got %v", rec.ReferralReason)
	}
}

func TestVenousAndPressureOverlays(t *testing.T) {
	engine := NewEngine()

	rec := engine.Recommend(Input{GranulationPct: 80, ExudateLevel: models.ExudateLow, Etiology: models.EtiologyVenousLegUlcer})
	if !hasInterventionContaining(rec.Interventions, "compression") {
		t.Fatalf("expected compression therapy, got %v", rec.Interventions)
	}

	rec = engine.Recommend(Input{GranulationPct: 80, ExudateLevel: models.ExudateLow, Etiology: models.EtiologyPressureUlcer})
	if !hasInterventionContaining(rec.Interventions, "reposition") {
		t.Fatalf("expected repositioning, got %v", rec.Interventions)
	}
	if !hasInterventionContaining(rec.Interventions, "mattress") {
		t.Fatalf("expected pressure-redistributing mattress, got %v", rec.Interventions)
	}
}

func TestUnknownEtiologyAddsNothing(t *testing.T) {
	engine := NewEngine()
	base := engine.Recommend(Input{GranulationPct: 80, ExudateLevel: models.ExudateLow})
	withEtiology := engine.Recommend(Input{GranulationPct: 80, ExudateLevel: models.ExudateLow, Etiology: models.EtiologyBurn})
	if len(withEtiology.Interventions) != len(base.Interventions) {
		t.Fatalf("unlisted etiology must add no interventions: %v vs %v", base.Interventions, withEtiology.Interventions)
	}
}

func TestStalledForcesUrgent(t *testing.T) {
	rec := NewEngine().Recommend(Input{
		GranulationPct: 80,
		ExudateLevel:   models.ExudateLow,
		IsStalled:      true,
	})
	if rec.Urgency != models.UrgencyUrgent {
		t.Fatalf("stalled wound must be urgent regardless of tissue state, got %s", rec.Urgency)
	}
	if !hasInterventionContaining(rec.Interventions, "biopsy") {
		t.Fatalf("expected biopsy consideration, got %v", rec.Interventions)
	}
}

func TestSubEpidermalRiskForcesUrgent(t *testing.T) {
	rec := NewEngine().Recommend(Input{
		GranulationPct:   80,
		ExudateLevel:     models.ExudateLow,
		SubEpidermalRisk: "moderate",
	})
	if rec.Urgency != models.UrgencyUrgent {
		t.Fatalf("sub-epidermal risk must escalate urgency, got %s", rec.Urgency)
	}
	if !hasInterventionContaining(rec.Interventions, "prevention protocol") {
		t.Fatalf("expected prevention protocol intervention, got %v", rec.Interventions)
	}
}

func TestRationaleOrderingAndFormat(t *testing.T) {
	rec := NewEngine().Recommend(Input{
		GranulationPct: 40,
		SloughPct:      35,
		EscharPct:      25,
		ExudateLevel:   models.ExudateModerate,
	})
	want := "25% necrotic tissue present; 35% slough requiring debridement; 40% healthy granulation tissue; moderate exudate level."
	if rec.Rationale != want {
		t.Fatalf("rationale mismatch:\nwant %q\ngot  %q", want, rec.Rationale)
	}
}

func TestRecommendIsPure(t *testing.T) {
	engine := NewEngine()
	in := Input{
		GranulationPct: 40,
		SloughPct:      35,
		EscharPct:      25,
		ExudateLevel:   models.ExudateModerate,
		Etiology:       models.EtiologyPressureUlcer,
		IsStalled:      true,
	}
	first := engine.Recommend(in)
	second := engine.Recommend(in)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("identical input must yield identical recommendations")
	}
}
