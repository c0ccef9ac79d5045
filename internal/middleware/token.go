package middleware

import (
	jwtPkg "UBASAnthropometry/pkg/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"os"
)

const (
	AccessTokenSecret = "JWT_ACCESS_TOKEN_SECRET"
)

type tokenMiddleware struct {
	secret []byte
}

func newTokenMiddleware(secret []byte) *tokenMiddleware {
	return &tokenMiddleware{secret: secret}
}

func unauthorized(ctx *fiber.Ctx) error {
	return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "Unauthorized, access token invalid or expired",
		"code":  "UNAUTHORIZED",
	})
}

// NewTokenMiddleware verifies the bearer token and stores the clinician in
// the request locals under jwtPkg.UserKey.
func (m *middleware) NewTokenMiddleware(ctx *fiber.Ctx) error {
	fields := logrus.Fields{
		"request_id": m.GetRequestID(ctx),
		"path":       ctx.Path(),
		"client_ip":  ctx.IP(),
	}

	token, err := jwtPkg.BearerToken(ctx.Get(fiber.HeaderAuthorization))
	if err != nil {
		m.log.WithFields(fields).Warn("Authorization header missing or malformed")
		return unauthorized(ctx)
	}

	claims, err := jwtPkg.Verify(token, m.token.secret)
	if err != nil {
		m.log.WithFields(fields).WithField("error", err.Error()).Warn("Token verification failed")
		return unauthorized(ctx)
	}

	user := claims.User()
	ctx.Locals(jwtPkg.UserKey, user)

	m.log.WithFields(fields).WithField("user_id", user.ID).Debug("Authentication successful")
	return ctx.Next()
}

func secretFromEnv() []byte {
	return []byte(os.Getenv(AccessTokenSecret))
}
