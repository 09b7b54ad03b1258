// Package plaid exposes the external provider link flow endpoints.
package plaid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/ledgerlens/ledgerlens/pkg/config"
	"github.com/ledgerlens/ledgerlens/pkg/domain"
	"github.com/ledgerlens/ledgerlens/pkg/middleware"
	"github.com/ledgerlens/ledgerlens/pkg/service/link"
	"github.com/ledgerlens/ledgerlens/webapi/common"
)

// Routes registers the link flow endpoints. linkSvc is nil when the
// provider credentials are absent; the endpoints then report the
// provider as not configured instead of failing at first use.
//
// Routes:
//   - POST /plaid/link-token            : Start a link session.
//   - POST /plaid/exchange-public-token : Trade a public token for a stored connection.
//   - POST /plaid/sync                  : Drain the incremental feeds for the user.
func Routes(app *fiber.App, linkSvc *link.Service, cfg *config.App) {
	app.Post("/plaid/link-token", middleware.JwtProtected(cfg.Auth.Jwt), CreateLinkToken(linkSvc))
	app.Post(
		"/plaid/exchange-public-token",
		middleware.JwtProtected(cfg.Auth.Jwt),
		ExchangePublicToken(linkSvc),
	)
	app.Post("/plaid/sync", middleware.JwtProtected(cfg.Auth.Jwt), SyncNow(linkSvc))
}

// CreateLinkToken returns a handler that starts a provider link session
// for the current user.
func CreateLinkToken(linkSvc *link.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if linkSvc == nil {
			return common.ProblemDetailsJSON(c, "Provider not configured", domain.ErrProviderNotConfigured)
		}
		userID, err := middleware.UserID(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", nil, fiber.StatusUnauthorized, err.Error())
		}
		token, err := linkSvc.CreateLinkSession(c.Context(), userID)
		if err != nil {
			log.Errorf("Failed to create link session for user %s: %v", userID, err)
			return common.ProblemDetailsJSON(c, "Failed to create link session", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Link session created", fiber.Map{
			"linkToken": token,
		})
	}
}

// ExchangePublicToken returns a handler that trades a client public
// token for a stored connection and returns the linked accounts.
func ExchangePublicToken(linkSvc *link.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if linkSvc == nil {
			return common.ProblemDetailsJSON(c, "Provider not configured", domain.ErrProviderNotConfigured)
		}
		userID, err := middleware.UserID(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", nil, fiber.StatusUnauthorized, err.Error())
		}
		input, err := common.BindAndValidate[ExchangeTokenRequest](c)
		if input == nil {
			return err // error response already written
		}
		accounts, err := linkSvc.ExchangePublicToken(c.Context(), userID, input.PublicToken)
		if err != nil {
			log.Errorf("Token exchange failed for user %s: %v", userID, err)
			return common.ProblemDetailsJSON(c, "Token exchange failed", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Connection linked", accounts)
	}
}

// SyncNow returns a handler that drains every connection's incremental
// feed for the current user.
func SyncNow(linkSvc *link.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if linkSvc == nil {
			return common.ProblemDetailsJSON(c, "Provider not configured", domain.ErrProviderNotConfigured)
		}
		userID, err := middleware.UserID(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", nil, fiber.StatusUnauthorized, err.Error())
		}
		result, err := linkSvc.SyncNow(c.Context(), userID)
		if err != nil {
			log.Errorf("Incremental sync failed for user %s: %v", userID, err)
			return common.ProblemDetailsJSON(c, "Sync failed", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Sync complete", result)
	}
}
