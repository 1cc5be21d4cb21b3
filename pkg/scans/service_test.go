package scans

import (
	"testing"

	"github.com/SanchoLoco/NoPressure/pkg/common/models"
)

func TestWoundFromRequestCarriesFacility(t *testing.T) {
	req := validRequest()
	req.FacilityID = "facility-1"
	req.Etiology = models.EtiologyPressureUlcer

	wound := woundFromRequest(req)
	if wound.FacilityID != "facility-1" {
		t.Fatalf("expected facility to be carried onto the registry row, got %q", wound.FacilityID)
	}
	if wound.ID != req.WoundID || wound.PatientID != req.PatientID {
		t.Fatalf("unexpected wound identity: %+v", wound)
	}
	if wound.Etiology != models.EtiologyPressureUlcer {
		t.Fatalf("expected etiology %q, got %q", models.EtiologyPressureUlcer, wound.Etiology)
	}
	if wound.Status != models.WoundStatusActive {
		t.Fatalf("new wounds must start active, got %q", wound.Status)
	}
}

func TestWoundFromRequestDefaultsEtiology(t *testing.T) {
	wound := woundFromRequest(validRequest())
	if wound.Etiology != models.EtiologyOther {
		t.Fatalf("blank etiology must default to %q, got %q", models.EtiologyOther, wound.Etiology)
	}
	if wound.FacilityID != "" {
		t.Fatalf("expected empty facility when none supplied, got %q", wound.FacilityID)
	}
}
