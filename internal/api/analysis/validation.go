package analysis

import (
	"UBASAnthropometry/internal/entity"
	"github.com/go-playground/validator/v10"
)

// ValidateCalibrationMode backs the calibration_mode validator tag.
func ValidateCalibrationMode(fl validator.FieldLevel) bool {
	return entity.IsValidCalibrationMode(fl.Field().String())
}
