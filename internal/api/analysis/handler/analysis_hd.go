package analysisHandler

import (
	"UBASAnthropometry/internal/api/analysis"
	contextPkg "UBASAnthropometry/pkg/context"
	"UBASAnthropometry/pkg/handlerUtil"
	jwtPkg "UBASAnthropometry/pkg/jwt"
	"UBASAnthropometry/pkg/log"
	"errors"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
	"time"
)

// Multi analysis waits on landmark extraction for up to four captures.
const multiAnalysisTimeout = 60 * time.Second

func (h *AnalysisHandler) AnalyzeMulti(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), multiAnalysisTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing multi analysis request")

	userData, err := jwtPkg.GetUserLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	var req analysis.MultiAnalysisRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	var images analysis.CaptureImages
	if images.PreFront, err = h.readImage(ctx, "pre_front", true); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "analyze_multi")
	}
	if images.PostFront, err = h.readImage(ctx, "post_front", true); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "analyze_multi")
	}
	if images.PreSide, err = h.readImage(ctx, "pre_side", false); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "analyze_multi")
	}
	if images.PostSide, err = h.readImage(ctx, "post_side", false); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "analyze_multi")
	}

	res, err := h.analysisService.AnalyzeMulti(c, userData.ID, req, images)
	if err != nil {
		if errors.Is(err, analysis.ErrRetakeRequired) {
			return h.retake(ctx, res)
		}
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "analyze_multi")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
	}
}

func (h *AnalysisHandler) AnalyzeLandmarks(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing landmark analysis request")

	userData, err := jwtPkg.GetUserLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	var req analysis.LandmarkAnalysisRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	res, err := h.analysisService.AnalyzeLandmarks(c, userData.ID, req)
	if err != nil {
		if errors.Is(err, analysis.ErrRetakeRequired) {
			return h.retake(ctx, res)
		}
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "analyze_landmarks")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
	}
}

func (h *AnalysisHandler) GetAnalyses(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	userData, err := jwtPkg.GetUserLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	items, err := h.analysisService.GetAnalysesByUserID(c, userData.ID)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_analyses")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, items)
	}
}

func (h *AnalysisHandler) GetAnalysisByID(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	userData, err := jwtPkg.GetUserLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	id := ctx.Params("id")
	if id == "" {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("analysis ID is required"), ctx.Path())
	}

	res, err := h.analysisService.GetAnalysisByID(c, userData.ID, id)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_analysis")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
	}
}

func (h *AnalysisHandler) GetReport(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	userData, err := jwtPkg.GetUserLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	url, err := h.analysisService.GetReportURL(c, userData.ID, ctx.Params("id"))
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_report")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, analysis.ReportResponse{URL: url})
	}
}

func (h *AnalysisHandler) retake(ctx *fiber.Ctx, res analysis.AnalysisResponse) error {
	return ctx.Status(fiber.StatusUnprocessableEntity).JSON(analysis.RetakeResponse{
		QC:      res.QC,
		Message: analysis.ErrRetakeRequired.Error(),
	})
}

// readImage returns nil bytes for an absent optional upload.
func (h *AnalysisHandler) readImage(ctx *fiber.Ctx, field string, required bool) ([]byte, error) {
	file, err := ctx.FormFile(field)
	if err != nil || file == nil {
		if required {
			return nil, analysis.ErrMissingRequiredImages
		}
		return nil, nil
	}

	if err := h.utils.ValidateImageFile(file); err != nil {
		return nil, err
	}

	return h.utils.ReadFile(file)
}
