package analytics

import (
	"github.com/SanchoLoco/NoPressure/pkg/common/models"
)

// WoundState is the slim wound-registry projection consumed by the burden
// report. The persistence layer supplies one entry per wound.
type WoundState struct {
	Etiology string
	Status   string
}

// ComputeFacilityBurden aggregates wound counts for a facility dashboard.
func ComputeFacilityBurden(facilityID string, wounds []WoundState) models.FacilityWoundBurden {
	burden := models.FacilityWoundBurden{
		FacilityID:       facilityID,
		TotalWounds:      len(wounds),
		WoundsByEtiology: make(map[string]int),
	}

	for _, w := range wounds {
		switch w.Status {
		case models.WoundStatusActive, models.WoundStatusHealing, models.WoundStatusDeteriorating:
			burden.ActiveWounds++
		case models.WoundStatusStalled:
			burden.ActiveWounds++
			burden.StalledWounds++
		}
		etiology := w.Etiology
		if etiology == "" {
			etiology = models.EtiologyOther
		}
		burden.WoundsByEtiology[etiology]++
	}

	return burden
}
