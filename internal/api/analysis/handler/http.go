package analysisHandler

import (
	analysisService "UBASAnthropometry/internal/api/analysis/service"
	"UBASAnthropometry/internal/middleware"
	"UBASAnthropometry/pkg/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

type AnalysisHandler struct {
	log             *logrus.Logger
	validator       *validator.Validate
	middleware      middleware.Middleware
	analysisService analysisService.IAnalysisService
	utils           utils.IUtils
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	as analysisService.IAnalysisService,
	utils utils.IUtils,
) *AnalysisHandler {
	return &AnalysisHandler{
		log:             log,
		validator:       validate,
		middleware:      middleware,
		analysisService: as,
		utils:           utils,
	}
}

func (h *AnalysisHandler) Start(srv fiber.Router) {
	wsMiddleware := func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}

	analysis := srv.Group("/analysis")

	// Live capture QC
	analysis.Get("/qc/ws",
		h.middleware.NewRateLimiter,
		h.middleware.NewTokenMiddleware,
		wsMiddleware,
		websocket.New(h.handleQCWebSocket),
	)

	analysis.Post("/multi", h.middleware.NewRateLimiter, h.middleware.NewTokenMiddleware, h.AnalyzeMulti)
	analysis.Post("/landmarks", h.middleware.NewRateLimiter, h.middleware.NewTokenMiddleware, h.AnalyzeLandmarks)

	analysis.Get("", h.middleware.NewRateLimiter, h.middleware.NewTokenMiddleware, h.GetAnalyses)
	analysis.Get("/:id", h.middleware.NewRateLimiter, h.middleware.NewTokenMiddleware, h.GetAnalysisByID)
	analysis.Get("/:id/report", h.middleware.NewRateLimiter, h.middleware.NewTokenMiddleware, h.GetReport)
}
