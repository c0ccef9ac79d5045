package analysis

import (
	"UBASAnthropometry/internal/entity"
	"time"
)

// MultiAnalysisRequest carries the form fields of a pre/post upload.
// A zero StickerPx means no sticker was measured.
type MultiAnalysisRequest struct {
	UseSticker bool    `form:"use_sticker"`
	StickerPx  float64 `form:"sticker_px" validate:"gte=0"`
	StickerMM  float64 `form:"sticker_mm" validate:"gte=0"`
	IrisDiamMM float64 `form:"iris_diam_mm" validate:"gte=0"`
}

// CaptureImages holds the raw image bytes of one analysis. Side captures are optional.
type CaptureImages struct {
	PreFront  []byte
	PostFront []byte
	PreSide   []byte
	PostSide  []byte
}

type ResolutionRequest struct {
	Width  int `json:"width" validate:"required,gt=0"`
	Height int `json:"height" validate:"required,gt=0"`
}

type CalibrationRequest struct {
	Mode          string   `json:"mode" validate:"omitempty,calibration_mode"`
	IrisDiamMM    float64  `json:"iris_diam_mm" validate:"gte=0"`
	StickerDiamMM *float64 `json:"sticker_diam_mm" validate:"omitempty,gt=0"`
	StickerPx     *float64 `json:"sticker_px" validate:"omitempty,gt=0"`
}

// LandmarkAnalysisRequest scores landmarks that were extracted by the caller.
// Right may be omitted when only one combined eye block is available.
type LandmarkAnalysisRequest struct {
	Resolution    ResolutionRequest    `json:"resolution"`
	HeadRollDeg   float64              `json:"head_roll_deg"`
	Left          entity.LandmarkSet   `json:"left"`
	Right         *entity.LandmarkSet  `json:"right"`
	Side          *entity.SideFeatures `json:"side"`
	SideReference *entity.SideFeatures `json:"side_reference"`
	FoldAreas     entity.FoldAreas     `json:"fold_areas"`
	Calibration   CalibrationRequest   `json:"calibration"`
	Baseline      *entity.Baseline     `json:"baseline"`
}

type AnalysisResponse struct {
	ID               string                 `json:"id"`
	QC               entity.QCResult        `json:"qc"`
	Pre              entity.CaptureMetrics  `json:"pre"`
	Post             entity.CaptureMetrics  `json:"post"`
	UBAS             entity.UBASScore       `json:"ubas"`
	AISummary        string                 `json:"ai_summary"`
	ScaleMMPerPxPost float64                `json:"scale_mm_per_px_post"`
	CalibrationMode  entity.CalibrationMode `json:"calibration_mode"`
	ReportURL        string                 `json:"report_url,omitempty"`
	CreatedAt        time.Time              `json:"created_at"`
}

type AnalysisListItem struct {
	ID        string      `json:"id"`
	Total     int         `json:"total"`
	Band      entity.Band `json:"band"`
	QCPassed  bool        `json:"qc_passed"`
	CreatedAt time.Time   `json:"created_at"`
}

type RetakeResponse struct {
	QC      entity.QCResult `json:"qc"`
	Message string          `json:"message"`
}

type ReportResponse struct {
	URL string `json:"url"`
}

func NewAnalysisResponse(a entity.Analysis, reportURL string) AnalysisResponse {
	return AnalysisResponse{
		ID:               a.ID,
		QC:               a.QC,
		Pre:              a.Pre,
		Post:             a.Post,
		UBAS:             a.Score,
		AISummary:        a.Summary,
		ScaleMMPerPxPost: a.ScaleMMPerPxPost,
		CalibrationMode:  a.CalibrationMode,
		ReportURL:        reportURL,
		CreatedAt:        a.CreatedAt,
	}
}

func NewAnalysisListItem(a entity.Analysis) AnalysisListItem {
	return AnalysisListItem{
		ID:        a.ID,
		Total:     a.Score.Total,
		Band:      a.Score.Band,
		QCPassed:  a.QC.Passed,
		CreatedAt: a.CreatedAt,
	}
}
