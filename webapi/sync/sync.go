// Package sync exposes the manual sync trigger endpoint.
package sync

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/ledgerlens/ledgerlens/pkg/config"
	"github.com/ledgerlens/ledgerlens/pkg/middleware"
	syncsvc "github.com/ledgerlens/ledgerlens/pkg/service/sync"
	"github.com/ledgerlens/ledgerlens/webapi/common"
)

// Routes registers the sync endpoint.
//
// Routes:
//   - POST /sync : Run one sync cycle for the authenticated user.
func Routes(app *fiber.App, syncer syncsvc.Syncer, cfg *config.App) {
	app.Post("/sync", middleware.JwtProtected(cfg.Auth.Jwt), SyncNow(syncer))
}

// SyncNow returns a handler that runs one sync cycle for the current
// user and reports the created, updated and removed counts.
func SyncNow(syncer syncsvc.Syncer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.UserID(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", nil, fiber.StatusUnauthorized, err.Error())
		}
		result, err := syncer.SyncNow(c.Context(), userID)
		if err != nil {
			log.Errorf("Sync failed for user %s: %v", userID, err)
			return common.ProblemDetailsJSON(c, "Sync failed", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Sync complete", result)
	}
}
