package middleware

import (
	"fmt"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"os"
	"strconv"
	"time"
)

type Middleware interface {
	NewRateLimiter(ctx *fiber.Ctx) error
	NewTokenMiddleware(ctx *fiber.Ctx) error
	NewRequestIDMiddleware() fiber.Handler
	GetRequestID(ctx *fiber.Ctx) string
}

// Config tunes the per-IP limiter and token verification.
type Config struct {
	RequestsPerSecond rate.Limit
	Burst             int
	// IdleTTL is how long an idle client keeps its limiter.
	IdleTTL     time.Duration
	TokenSecret []byte
}

func DefaultConfig() Config {
	return Config{
		RequestsPerSecond: 50,
		Burst:             100,
		IdleTTL:           10 * time.Minute,
		TokenSecret:       secretFromEnv(),
	}
}

// ConfigFromEnv overrides the defaults with RATE_LIMIT_RPS and RATE_LIMIT_BURST.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil || rps <= 0 {
			return Config{}, fmt.Errorf("invalid RATE_LIMIT_RPS: %q", v)
		}
		cfg.RequestsPerSecond = rate.Limit(rps)
	}

	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		burst, err := strconv.Atoi(v)
		if err != nil || burst <= 0 {
			return Config{}, fmt.Errorf("invalid RATE_LIMIT_BURST: %q", v)
		}
		cfg.Burst = burst
	}

	return cfg, nil
}

type middleware struct {
	token               *tokenMiddleware
	rateLimitter        *rateLimiter
	requestIDMiddleware fiber.Handler
	log                 *logrus.Logger
}

func New(logger *logrus.Logger, cfg Config) Middleware {
	return &middleware{
		token:               newTokenMiddleware(cfg.TokenSecret),
		rateLimitter:        newRateLimiter(cfg.RequestsPerSecond, cfg.Burst, cfg.IdleTTL),
		requestIDMiddleware: NewRequestIDMiddleware(),
		log:                 logger,
	}
}

func (m *middleware) GetRequestID(ctx *fiber.Ctx) string {
	requestID, ok := ctx.Locals(RequestIDKey).(string)
	if !ok || requestID == "" {
		return "unknown"
	}
	return requestID
}

func (m *middleware) NewRequestIDMiddleware() fiber.Handler {
	return m.requestIDMiddleware
}
