package scans

import (
	"strconv"
	"strings"
)

// DerivedScanView carries the non-persisted fields computed from a scan
// row's classifier output. It is produced fresh by DeriveScanView and never
// written back to the scan.
type DerivedScanView struct {
	NPIAPStage    *int     `json:"npiap_stage,omitempty"`
	SeverityColor string   `json:"severity_color,omitempty"`
	SeverityScore *float64 `json:"severity_score,omitempty"`
}

// DeriveScanView parses the classifier stage label into an ordinal NPIAP
// stage and maps the severity score onto the traffic-light banding used by
// the clinical UI.
func DeriveScanView(scan ScanRecord) DerivedScanView {
	return DerivedScanView{
		NPIAPStage:    parseNPIAPStage(scan.StageClassification),
		SeverityColor: severityColor(scan.SeverityScore),
		SeverityScore: scan.SeverityScore,
	}
}

// parseNPIAPStage extracts the ordinal from labels like "Stage 2". Returns
// nil for unlabelled or malformed values.
func parseNPIAPStage(label string) *int {
	if !strings.HasPrefix(strings.ToLower(label), "stage") {
		return nil
	}
	fields := strings.Fields(label)
	if len(fields) < 2 {
		return nil
	}
	stage, err := strconv.Atoi(fields[len(fields)-1])
	if err != nil {
		return nil
	}
	return &stage
}

func severityColor(score *float64) string {
	if score == nil {
		return ""
	}
	switch {
	case *score >= 3.0:
		return "red"
	case *score >= 2.0:
		return "orange"
	case *score >= 1.0:
		return "green"
	default:
		return ""
	}
}
