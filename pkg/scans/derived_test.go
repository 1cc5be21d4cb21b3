package scans

import "testing"

func floatPtr(v float64) *float64 {
	return &v
}

func TestDeriveScanViewParsesStage(t *testing.T) {
	view := DeriveScanView(ScanRecord{StageClassification: "Stage 3", SeverityScore: floatPtr(3.2)})
	if view.NPIAPStage == nil || *view.NPIAPStage != 3 {
		t.Fatalf("expected stage 3, got %v", view.NPIAPStage)
	}
	if view.SeverityColor != "red" {
		t.Fatalf("expected red banding, got %q", view.SeverityColor)
	}
}

func TestDeriveScanViewHandlesMissingClassifierData(t *testing.T) {
	view := DeriveScanView(ScanRecord{})
	if view.NPIAPStage != nil {
		t.Fatalf("expected nil stage without classifier data, got %v", view.NPIAPStage)
	}
	if view.SeverityColor != "" {
		t.Fatalf("expected no banding, got %q", view.SeverityColor)
	}
}

func TestDeriveScanViewMalformedStageLabel(t *testing.T) {
	for _, label := range []string{"stage", "Stage x", "unstageable"} {
		view := DeriveScanView(ScanRecord{StageClassification: label})
		if view.NPIAPStage != nil {
			t.Fatalf("label %q should not parse, got %v", label, view.NPIAPStage)
		}
	}
}

func TestSeverityColorBands(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{1.5, "green"},
		{2.5, "orange"},
		{3.5, "red"},
		{0.5, ""},
	}
	for _, tc := range cases {
		view := DeriveScanView(ScanRecord{SeverityScore: floatPtr(tc.score)})
		if view.SeverityColor != tc.want {
			t.Fatalf("score %.1f: expected %q, got %q", tc.score, tc.want, view.SeverityColor)
		}
	}
}
