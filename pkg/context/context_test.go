package context

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestRequestID(t *testing.T) {
	if got := GetRequestID(context.Background()); got != "unknown" {
		t.Errorf("GetRequestID() = %q, want unknown", got)
	}

	ctx := WithRequestID(context.Background(), "req-1")
	if got := GetRequestID(ctx); got != "req-1" {
		t.Errorf("GetRequestID() = %q, want req-1", got)
	}

	// a plain string key must not collide with the typed key
	ctx = context.WithValue(context.Background(), "request_id", "spoofed")
	if got := GetRequestID(ctx); got != "unknown" {
		t.Errorf("GetRequestID() = %q, want unknown", got)
	}
}

func TestFromFiberCtx(t *testing.T) {
	app := fiber.New()
	app.Get("/locals", func(c *fiber.Ctx) error {
		c.Locals(RequestIDHeader, "from-locals")
		return c.SendString(GetRequestID(FromFiberCtx(c)))
	})
	app.Get("/header", func(c *fiber.Ctx) error {
		return c.SendString(GetRequestID(FromFiberCtx(c)))
	})
	app.Get("/user", func(c *fiber.Ctx) error {
		c.SetUserContext(WithRequestID(context.Background(), "from-user"))
		return c.SendString(GetRequestID(FromFiberCtx(c)))
	})

	tests := []struct {
		path   string
		header string
		want   string
	}{
		{path: "/locals", want: "from-locals"},
		{path: "/header", header: "from-header", want: "from-header"},
		{path: "/header", want: "unknown"},
		{path: "/user", header: "ignored", want: "from-user"},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, tt.path, nil)
		if tt.header != "" {
			req.Header.Set(RequestIDHeader, tt.header)
		}
		resp, err := app.Test(req, -1)
		if err != nil {
			t.Fatal(err)
		}
		body, _ := io.ReadAll(resp.Body)
		if got := string(body); got != tt.want {
			t.Errorf("%s: request id = %q, want %q", tt.path, got, tt.want)
		}
	}
}
