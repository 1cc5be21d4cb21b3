package metrics

import (
	"fmt"
	"net/http"
	"sync/atomic"
)

var (
	scansProcessed      atomic.Int64
	scansRejected       atomic.Int64
	trendsComputed      atomic.Int64
	predictionsServed   atomic.Int64
	alertsSeveritySpike atomic.Int64
	alertsStalledWound  atomic.Int64
	alertsSevereStage   atomic.Int64
)

func IncScansProcessed() { scansProcessed.Add(1) }
func IncScansRejected()  { scansRejected.Add(1) }
func IncTrendsComputed() { trendsComputed.Add(1) }
func IncPredictions()    { predictionsServed.Add(1) }

func IncAlert(alertType string) {
	switch alertType {
	case "severity_spike":
		alertsSeveritySpike.Add(1)
	case "stalled_wound":
		alertsStalledWound.Add(1)
	case "predicted_severe_stage":
		alertsSevereStage.Add(1)
	}
}

func WritePrometheus(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	fmt.Fprintf(w, "# HELP nopressure_scans_processed_total Number of scans accepted by the ingestion pipeline.\n")
	fmt.Fprintf(w, "# TYPE nopressure_scans_processed_total counter\n")
	fmt.Fprintf(w, "nopressure_scans_processed_total %d\n", scansProcessed.Load())

	fmt.Fprintf(w, "# HELP nopressure_scans_rejected_total Number of scans rejected by validation.\n")
	fmt.Fprintf(w, "# TYPE nopressure_scans_rejected_total counter\n")
	fmt.Fprintf(w, "nopressure_scans_rejected_total %d\n", scansRejected.Load())

	fmt.Fprintf(w, "# HELP nopressure_trends_computed_total Number of healing trend computations served.\n")
	fmt.Fprintf(w, "# TYPE nopressure_trends_computed_total counter\n")
	fmt.Fprintf(w, "nopressure_trends_computed_total %d\n", trendsComputed.Load())

	fmt.Fprintf(w, "# HELP nopressure_predictions_served_total Number of deterioration predictions served.\n")
	fmt.Fprintf(w, "# TYPE nopressure_predictions_served_total counter\n")
	fmt.Fprintf(w, "nopressure_predictions_served_total %d\n", predictionsServed.Load())

	fmt.Fprintf(w, "# HELP nopressure_alerts_severity_spike_total Number of severity spike alerts raised.\n")
	fmt.Fprintf(w, "# TYPE nopressure_alerts_severity_spike_total counter\n")
	fmt.Fprintf(w, "nopressure_alerts_severity_spike_total %d\n", alertsSeveritySpike.Load())

	fmt.Fprintf(w, "# HELP nopressure_alerts_stalled_wound_total Number of stalled wound alerts raised.\n")
	fmt.Fprintf(w, "# TYPE nopressure_alerts_stalled_wound_total counter\n")
	fmt.Fprintf(w, "nopressure_alerts_stalled_wound_total %d\n", alertsStalledWound.Load())

	fmt.Fprintf(w, "# HELP nopressure_alerts_severe_stage_total Number of predicted severe stage alerts raised.\n")
	fmt.Fprintf(w, "# TYPE nopressure_alerts_severe_stage_total counter\n")
	fmt.Fprintf(w, "nopressure_alerts_severe_stage_total %d\n", alertsSevereStage.Load())
}
