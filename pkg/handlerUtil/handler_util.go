package handlerUtil

import (
	"UBASAnthropometry/internal/anthropometry"
	"UBASAnthropometry/internal/api/analysis"
	"UBASAnthropometry/pkg/log"
	"UBASAnthropometry/pkg/response"
	"UBASAnthropometry/pkg/utils"
	"errors"
	"github.com/gofiber/fiber/v2"
	fiberUtils "github.com/gofiber/fiber/v2/utils"
	"github.com/sirupsen/logrus"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

type ErrorHandler struct {
	logger *logrus.Logger
}

func New(logger *logrus.Logger) *ErrorHandler {
	return &ErrorHandler{
		logger: logger,
	}
}

func (h *ErrorHandler) Handle(c *fiber.Ctx, requestID string, err error, path string, operation string) error {
	fields := log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       path,
		"operation":  operation,
	}

	// Analysis domain errors
	if errors.Is(err, analysis.ErrAnalysisNotFound) {
		h.logger.WithFields(fields).Warn("Analysis not found")
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error: "Analysis not found",
			Code:  "ANALYSIS_NOT_FOUND",
		})
	}

	if errors.Is(err, analysis.ErrAnalysisNotOwned) {
		h.logger.WithFields(fields).Warn("Analysis does not belong to user")
		return c.Status(fiber.StatusForbidden).JSON(ErrorResponse{
			Error: "Analysis does not belong to user",
			Code:  "ANALYSIS_NOT_OWNED",
		})
	}

	if errors.Is(err, analysis.ErrReportNotFound) {
		h.logger.WithFields(fields).Warn("Report not available")
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error: "Report not available for this analysis",
			Code:  "REPORT_NOT_FOUND",
		})
	}

	if errors.Is(err, analysis.ErrLandmarkUnavailable) {
		h.logger.WithFields(fields).Error("Landmark extraction unavailable")
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{
			Error: "Landmark extraction service unavailable, try again later",
			Code:  "LANDMARK_UNAVAILABLE",
		})
	}

	if errors.Is(err, analysis.ErrMissingRequiredImages) {
		h.logger.WithFields(fields).Warn("Missing required images")
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "pre_front and post_front images are required",
			Code:  "MISSING_IMAGES",
		})
	}

	if errors.Is(err, analysis.ErrInvalidImage) || errors.Is(err, utils.ErrNotAnImage) {
		h.logger.WithFields(fields).Warn("Invalid image upload")
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "Invalid file type. Only images are allowed.",
			Code:  "INVALID_IMAGE",
		})
	}

	if errors.Is(err, utils.ErrFileTooLarge) {
		h.logger.WithFields(fields).Warn("File too large")
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "File too large. Maximum size is 15MB.",
			Code:  "FILE_TOO_LARGE",
		})
	}

	// Engine errors
	if errors.Is(err, anthropometry.ErrInvalidIrisRadius) ||
		errors.Is(err, anthropometry.ErrEmptyPolyline) ||
		errors.Is(err, anthropometry.ErrCalibration) {
		h.logger.WithFields(fields).Warn("Invalid landmark geometry")
		return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{
			Error:   "Invalid landmark geometry",
			Code:    "INVALID_GEOMETRY",
			Details: err.Error(),
		})
	}

	var respErr *response.Error
	if errors.As(err, &respErr) {
		status := response.StatusOf(err)
		h.logger.WithFields(fields).WithField("code", status).Warn("Operation failed with error response")
		return c.Status(status).JSON(ErrorResponse{Error: respErr.Err.Error()})
	}

	traceID := log.TraceID(fields)
	h.logger.WithFields(fields).Error("Unexpected error")

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":    "An unexpected error occurred",
		"trace_id": traceID,
	})
}

func (h *ErrorHandler) HandleValidationError(c *fiber.Ctx, requestID string, err error, path string) error {
	h.logger.WithFields(log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       path,
	}).Warn("Validation failed")

	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "Validation failed: " + err.Error(),
		"code":  "VALIDATION_ERROR",
	})
}

func (h *ErrorHandler) HandleRequestTimeout(c *fiber.Ctx) error {
	return c.Status(fiber.StatusRequestTimeout).JSON(fiberUtils.StatusMessage(fiber.StatusRequestTimeout))
}

func (h *ErrorHandler) HandleUnauthorized(c *fiber.Ctx, requestID string, message string) error {
	h.logger.WithFields(log.Fields{
		"request_id": requestID,
		"path":       c.Path(),
		"message":    message,
	}).Warn("Unauthorized access")

	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": message,
		"code":  "UNAUTHORIZED",
	})
}

func (h *ErrorHandler) HandleSuccess(c *fiber.Ctx, statusCode int, data interface{}) error {
	if data == nil {
		return c.SendStatus(statusCode)
	}
	return c.Status(statusCode).JSON(data)
}
