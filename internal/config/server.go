package config

import (
	"UBASAnthropometry/database/postgres"
	"UBASAnthropometry/internal/anthropometry"
	analysisHandler "UBASAnthropometry/internal/api/analysis/handler"
	analysisRepository "UBASAnthropometry/internal/api/analysis/repository"
	analysisService "UBASAnthropometry/internal/api/analysis/service"
	"UBASAnthropometry/internal/middleware"
	"UBASAnthropometry/pkg/gemini"
	"UBASAnthropometry/pkg/landmark"
	"UBASAnthropometry/pkg/redis"
	"UBASAnthropometry/pkg/report"
	"UBASAnthropometry/pkg/s3"
	"UBASAnthropometry/pkg/utils"
	"fmt"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"os"
	"strconv"
	"time"
)

type ServerOption func(*Server) error

type Server struct {
	engine         *fiber.App
	db             *sqlx.DB
	log            *logrus.Logger
	middleware     middleware.Middleware
	validator      *validator.Validate
	utils          utils.IUtils
	handlers       []handler
	redisServer    redis.IRedis
	landmarkClient landmark.ILandmark
	geminiClient   gemini.IGemini
	s3Client       s3.ItfS3
	reportRenderer report.IReport
	scoringEngine  *anthropometry.Engine
	analysisOpts   analysisService.Options
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if server.scoringEngine == nil {
		server.scoringEngine = anthropometry.New(anthropometry.DefaultConfig())
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithDatabase() ServerOption {
	return func(s *Server) error {
		db, err := postgres.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to connect to database: %v", err)
			}
			return fmt.Errorf("failed to create database connection: %w", err)
		}
		s.db = db
		return nil
	}
}

func WithRedisServer(redisServer redis.IRedis) ServerOption {
	return func(s *Server) error {
		s.redisServer = redisServer
		return nil
	}
}

func WithLandmarkClient(client landmark.ILandmark) ServerOption {
	return func(s *Server) error {
		s.landmarkClient = client
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		cfg, err := middleware.ConfigFromEnv()
		if err != nil {
			return err
		}
		if len(cfg.TokenSecret) == 0 {
			s.log.Warnf("%s is not set, authenticated routes will reject every request", middleware.AccessTokenSecret)
		}
		s.middleware = middleware.New(s.log, cfg)
		return nil
	}
}

func WithS3Client() ServerOption {
	return func(s *Server) error {
		client, err := s3.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to initialize S3 client: %v", err)
			}
			return fmt.Errorf("failed to create S3 client: %w", err)
		}
		s.s3Client = client
		return nil
	}
}

// WithGeminiClient is optional; without it summaries use the local template.
func WithGeminiClient() ServerOption {
	return func(s *Server) error {
		client, err := gemini.NewGeminiClient()
		if err != nil {
			if s.log != nil {
				s.log.Warnf("Gemini client unavailable, using local summaries: %v", err)
			}
			return nil
		}
		s.geminiClient = client
		return nil
	}
}

func WithReportRenderer() ServerOption {
	return func(s *Server) error {
		s.reportRenderer = report.New()
		return nil
	}
}

// WithScoringEngine reads calibration defaults from UBAS_IRIS_DIAM_MM and
// UBAS_STICKER_DIAM_MM on top of the built-in configuration.
func WithScoringEngine() ServerOption {
	return func(s *Server) error {
		cfg := anthropometry.DefaultConfig()

		iris, err := floatEnv("UBAS_IRIS_DIAM_MM", cfg.Calibration.IrisDiamMM)
		if err != nil {
			return err
		}
		sticker, err := floatEnv("UBAS_STICKER_DIAM_MM", cfg.Calibration.StickerDiamMM)
		if err != nil {
			return err
		}
		cfg.Calibration.IrisDiamMM = iris
		cfg.Calibration.StickerDiamMM = sticker

		s.scoringEngine = anthropometry.New(cfg)
		return nil
	}
}

func WithAnalysisOptions() ServerOption {
	return func(s *Server) error {
		opts := analysisService.Options{}

		if v := os.Getenv("UBAS_USE_PREOP_BASELINE"); v != "" {
			enabled, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid UBAS_USE_PREOP_BASELINE: %w", err)
			}
			opts.UsePreopBaseline = enabled
		}

		if v := os.Getenv("ANALYSIS_CACHE_TTL"); v != "" {
			ttl, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("invalid ANALYSIS_CACHE_TTL: %w", err)
			}
			opts.CacheTTL = ttl
		}

		s.analysisOpts = opts
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func floatEnv(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}

	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return f, nil
}

func (s *Server) RegisterHandler() {
	// Analysis Domain
	analysisRepo := analysisRepository.New(s.db, s.log)
	deps := analysisService.Dependencies{
		Repository: analysisRepo,
		Engine:     s.scoringEngine,
		Landmark:   s.landmarkClient,
		Utils:      s.utils,
	}
	// Optional collaborators stay nil interfaces when absent.
	if s.geminiClient != nil {
		deps.Gemini = s.geminiClient
	}
	if s.s3Client != nil {
		deps.S3 = s.s3Client
	}
	if s.redisServer != nil {
		deps.Redis = s.redisServer
	}
	if s.reportRenderer != nil {
		deps.Report = s.reportRenderer
	}
	analysisServices := analysisService.NewAnalysisService(s.log, deps, s.analysisOpts)
	analysisHandlers := analysisHandler.New(s.log, s.validator, s.middleware, analysisServices, s.utils)

	s.setupHealthCheck()
	s.handlers = append(s.handlers, analysisHandlers)
}

func (s *Server) Run() error {
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(middleware.LoggerConfig(s.log))
	router := s.engine.Group("/api/v1")

	for _, h := range s.handlers {
		h.Start(router)
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3000"
	}

	return s.engine.Listen(fmt.Sprintf(":%s", port))
}

// Shutdown drains in-flight requests for at most timeout, then releases the
// outbound connections held by the server.
func (s *Server) Shutdown(timeout time.Duration) {
	if err := s.engine.ShutdownWithTimeout(timeout); err != nil {
		s.log.Errorf("Error shutting down fiber: %v", err)
	}
	if s.landmarkClient != nil {
		s.landmarkClient.Close()
	}
	if s.geminiClient != nil {
		s.geminiClient.Close()
	}
	if s.redisServer != nil {
		if err := s.redisServer.Close(); err != nil {
			s.log.Errorf("Error closing redis: %v", err)
		}
	}
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.log.Errorf("Error closing database: %v", err)
		}
	}
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message": "Server is Healthy!",
		})
	})
}
