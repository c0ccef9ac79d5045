package config

import (
	"UBASAnthropometry/internal/api/analysis"
	"github.com/go-playground/validator/v10"
)

func NewValidator() *validator.Validate {
	validate := validator.New()

	if err := validate.RegisterValidation("calibration_mode", analysis.ValidateCalibrationMode); err != nil {
		panic(err)
	}

	return validate
}
