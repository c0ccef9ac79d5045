package analysis

import (
	"UBASAnthropometry/pkg/response"
	"net/http"
)

var (
	ErrInternalServerError   = response.NewError(http.StatusInternalServerError, "internal server error")
	ErrAnalysisNotFound      = response.NewError(http.StatusNotFound, "analysis not found")
	ErrAnalysisNotOwned      = response.NewError(http.StatusForbidden, "analysis does not belong to user")
	ErrReportNotFound        = response.NewError(http.StatusNotFound, "report not available for this analysis")
	ErrRetakeRequired        = response.NewError(http.StatusUnprocessableEntity, "Retake required")
	ErrLandmarkUnavailable   = response.NewError(http.StatusServiceUnavailable, "landmark extraction service unavailable")
	ErrInvalidImage          = response.NewError(http.StatusBadRequest, "invalid image upload")
	ErrMissingRequiredImages = response.NewError(http.StatusBadRequest, "pre_front and post_front images are required")
)
