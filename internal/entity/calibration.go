package entity

type CalibrationMode string

const (
	CalibrationIris    CalibrationMode = "iris"
	CalibrationSticker CalibrationMode = "sticker"
)

func IsValidCalibrationMode(mode string) bool {
	switch CalibrationMode(mode) {
	case CalibrationIris, CalibrationSticker:
		return true
	default:
		return false
	}
}

// Calibration selects how pixels map to millimetres. StickerPx and
// StickerDiamMM are only honoured together.
type Calibration struct {
	Mode          CalibrationMode `json:"mode"`
	IrisDiamMM    float64         `json:"iris_diam_mm"`
	StickerDiamMM *float64        `json:"sticker_diam_mm,omitempty"`
	StickerPx     *float64        `json:"sticker_px,omitempty"`
}
