package anthropometry

import (
	"UBASAnthropometry/internal/entity"
)

// ResolveScale returns millimetres per pixel. Sticker mode is used only when
// both sticker fields are present and non-zero; any other configuration falls
// back to the anatomical iris reference. The scale is informational and is
// never applied to the iris-normalised eyelid metrics.
func (e *Engine) ResolveScale(cal entity.Calibration, meanIrisRadiusPx float64) (float64, entity.CalibrationMode, error) {
	if cal.Mode == entity.CalibrationSticker &&
		cal.StickerPx != nil && *cal.StickerPx != 0 &&
		cal.StickerDiamMM != nil && *cal.StickerDiamMM > 0 {
		return *cal.StickerDiamMM / *cal.StickerPx, entity.CalibrationSticker, nil
	}

	if !validRadius(meanIrisRadiusPx) {
		return 0, entity.CalibrationIris, ErrCalibration
	}

	irisDiam := cal.IrisDiamMM
	if irisDiam <= 0 {
		irisDiam = e.cfg.Calibration.IrisDiamMM
	}

	return irisDiam / (2 * meanIrisRadiusPx), entity.CalibrationIris, nil
}

// NewCalibration builds a Calibration from caller input, filling defaults.
// Sticker mode is only selected when useSticker is set and stickerPx is positive.
func (e *Engine) NewCalibration(useSticker bool, stickerPx *float64, stickerMM, irisMM float64) entity.Calibration {
	if irisMM <= 0 {
		irisMM = e.cfg.Calibration.IrisDiamMM
	}
	if stickerMM <= 0 {
		stickerMM = e.cfg.Calibration.StickerDiamMM
	}

	cal := entity.Calibration{
		Mode:          entity.CalibrationIris,
		IrisDiamMM:    irisMM,
		StickerDiamMM: &stickerMM,
		StickerPx:     stickerPx,
	}
	if useSticker && stickerPx != nil && *stickerPx > 0 {
		cal.Mode = entity.CalibrationSticker
	}
	return cal
}
