package anthropometry

import (
	"UBASAnthropometry/internal/entity"
	"fmt"
	"math"
)

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// ReportSummary flattens a scored capture into the label/value lines of the printable report.
func ReportSummary(score entity.UBASScore, post entity.FrontMetrics, mmPerPx float64) []entity.ReportEntry {
	return []entity.ReportEntry{
		{Label: "Total", Value: fmt.Sprintf("%d/30", score.Total)},
		{Label: "Band", Value: string(score.Band)},
		{Label: "TPS mid (post avg ID)", Value: fmt.Sprintf("%.3f", round3(post.MeanTPSMid()))},
		{Label: "MRD1 (post avg ID)", Value: fmt.Sprintf("%.3f", round3(post.MeanMRD1()))},
		{Label: "PFH (post avg ID)", Value: fmt.Sprintf("%.3f", round3(post.MeanPFH()))},
		{Label: "Scale (mm/px)", Value: fmt.Sprintf("%.4f", mmPerPx)},
	}
}

// LocalSummary narrates the result without any external service. Post-op
// front metrics are preferred, pre-op ones used otherwise.
func LocalSummary(pre, post *entity.FrontMetrics, score entity.UBASScore) string {
	front := post
	if front == nil {
		front = pre
	}

	var mrd1, tps, pfh float64
	if front != nil {
		mrd1, tps, pfh = front.MeanMRD1(), front.MeanTPSMid(), front.MeanPFH()
	}

	return fmt.Sprintf(
		"Surgery summary: Functional lift (MRD1 avg ~ %.2f ID) with tarsal show ~ %.2f ID "+
			"and PFH ~ %.2f ID. Crease appears near-symmetric; brow position stable. "+
			"Overall rating: %s (Total %d/30).",
		mrd1, tps, pfh, score.Band, score.Total,
	)
}
