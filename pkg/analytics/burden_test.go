package analytics

import (
	"testing"

	"github.com/SanchoLoco/NoPressure/pkg/common/models"
)

func TestComputeFacilityBurden(t *testing.T) {
	wounds := []WoundState{
		{Etiology: models.EtiologyPressureUlcer, Status: models.WoundStatusActive},
		{Etiology: models.EtiologyPressureUlcer, Status: models.WoundStatusStalled},
		{Etiology: models.EtiologyDiabeticFootUlcer, Status: models.WoundStatusHealing},
		{Etiology: models.EtiologyVenousLegUlcer, Status: models.WoundStatusHealed},
		{Etiology: "", Status: models.WoundStatusDeteriorating},
	}

	burden := ComputeFacilityBurden("facility-1", wounds)
	if burden.TotalWounds != 5 {
		t.Fatalf("expected 5 total wounds, got %d", burden.TotalWounds)
	}
	if burden.ActiveWounds != 4 {
		t.Fatalf("expected 4 active wounds, got %d", burden.ActiveWounds)
	}
	if burden.StalledWounds != 1 {
		t.Fatalf("expected 1 stalled wound, got %d", burden.StalledWounds)
	}
	if burden.WoundsByEtiology[models.EtiologyPressureUlcer] != 2 {
		t.Fatalf("expected 2 pressure ulcers, got %d", burden.WoundsByEtiology[models.EtiologyPressureUlcer])
	}
	if burden.WoundsByEtiology[models.EtiologyOther] != 1 {
		t.Fatalf("expected blank etiology to count as other, got %d", burden.WoundsByEtiology[models.EtiologyOther])
	}
}
