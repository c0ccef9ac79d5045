package anthropometry

import (
	"UBASAnthropometry/pkg/response"
	"net/http"
)

var (
	ErrInvalidIrisRadius = response.NewError(http.StatusUnprocessableEntity, "iris radius must be a positive number of pixels")
	ErrEmptyPolyline     = response.NewError(http.StatusUnprocessableEntity, "landmark polyline has no points")
	ErrCalibration       = response.NewError(http.StatusUnprocessableEntity, "cannot resolve calibration scale from a zero iris radius")
)
