// Package webapi provides HTTP handlers and API endpoints for the
// transaction sync service. It is organized into sub-packages:
// - account: Connected account endpoints
// - plaid:   External provider link flow endpoints
// - sync:    Manual sync trigger
package webapi

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/ledgerlens/ledgerlens/pkg/app"
	accountweb "github.com/ledgerlens/ledgerlens/webapi/account"
	"github.com/ledgerlens/ledgerlens/webapi/common"
	plaidweb "github.com/ledgerlens/ledgerlens/webapi/plaid"
	syncweb "github.com/ledgerlens/ledgerlens/webapi/sync"
)

// SetupApp Initialize Fiber with custom configuration
func SetupApp(a *app.App) *fiber.App {
	fiberApp := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return common.ProblemDetailsJSON(c, "Internal Server Error", err)
		},
	})

	// Configure rate limiting middleware
	// Uses X-Forwarded-For header when behind a proxy
	// Falls back to X-Real-IP or direct IP if needed
	fiberApp.Use(limiter.New(limiter.Config{
		Max:        a.Config.RateLimit.MaxRequests,
		Expiration: a.Config.RateLimit.Window,
		KeyGenerator: func(c *fiber.Ctx) string {
			if forwardedFor := c.Get("X-Forwarded-For"); forwardedFor != "" {
				if commaIndex := strings.Index(forwardedFor, ","); commaIndex != -1 {
					return strings.TrimSpace(forwardedFor[:commaIndex])
				}
				return strings.TrimSpace(forwardedFor)
			}
			if realIP := c.Get("X-Real-IP"); realIP != "" {
				return realIP
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return common.ProblemDetailsJSON(
				c,
				"Too Many Requests",
				errors.New("rate limit exceeded"),
				fiber.StatusTooManyRequests,
			)
		},
	}))
	fiberApp.Use(recover.New())
	fiberApp.Use(logger.New())

	// Health check endpoint
	fiberApp.Get(
		"/",
		func(c *fiber.Ctx) error {
			return c.SendString("LedgerLens API is running")
		},
	)

	syncweb.Routes(fiberApp, a.Syncer, a.Config)
	accountweb.Routes(fiberApp, a.AccountService, a.Config)
	plaidweb.Routes(fiberApp, a.LinkService, a.Config)
	return fiberApp
}
