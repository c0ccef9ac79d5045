package entity

import "time"

// CaptureMetrics groups the measurements of one capture moment.
type CaptureMetrics struct {
	Front FrontMetrics `json:"front"`
	Side  *SideMetrics `json:"side"`
}

// Analysis is a stored pre/post assessment.
type Analysis struct {
	ID               string          `json:"id"`
	UserID           string          `json:"user_id"`
	QC               QCResult        `json:"qc"`
	Pre              CaptureMetrics  `json:"pre"`
	Post             CaptureMetrics  `json:"post"`
	Score            UBASScore       `json:"ubas"`
	ScaleMMPerPxPost float64         `json:"scale_mm_per_px_post"`
	CalibrationMode  CalibrationMode `json:"calibration_mode"`
	Summary          string          `json:"ai_summary"`
	ReportLocation   string          `json:"report_location,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

// ReportEntry is one label/value line of the flat printable summary.
type ReportEntry struct {
	Label string
	Value string
}
