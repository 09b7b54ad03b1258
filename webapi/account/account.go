// Package account exposes connected-account endpoints.
package account

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/ledgerlens/ledgerlens/pkg/config"
	"github.com/ledgerlens/ledgerlens/pkg/domain"
	"github.com/ledgerlens/ledgerlens/pkg/middleware"
	accountsvc "github.com/ledgerlens/ledgerlens/pkg/service/accounts"
	"github.com/ledgerlens/ledgerlens/webapi/common"
)

// Routes registers the connected-account endpoints.
//
// Routes:
//   - GET  /accounts      : List the authenticated user's connected accounts.
//   - POST /accounts/link : Manually link a new account.
func Routes(app *fiber.App, accountSvc *accountsvc.Service, cfg *config.App) {
	app.Get("/accounts", middleware.JwtProtected(cfg.Auth.Jwt), ListAccounts(accountSvc))
	app.Post("/accounts/link", middleware.JwtProtected(cfg.Auth.Jwt), LinkAccount(accountSvc))
}

// ListAccounts returns a handler that lists the current user's accounts.
func ListAccounts(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.UserID(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", nil, fiber.StatusUnauthorized, err.Error())
		}
		accounts, err := accountSvc.List(c.Context(), userID)
		if err != nil {
			log.Errorf("Failed to list accounts for user %s: %v", userID, err)
			return common.ProblemDetailsJSON(c, "Failed to list accounts", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Accounts", accounts)
	}
}

// LinkAccount returns a handler that manually links an account for the
// current user.
func LinkAccount(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.UserID(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", nil, fiber.StatusUnauthorized, err.Error())
		}
		input, err := common.BindAndValidate[LinkAccountRequest](c)
		if input == nil {
			return err // error response already written
		}
		linked, err := accountSvc.Link(
			c.Context(),
			userID,
			domain.Provider(input.Provider),
			input.Name,
			domain.AccountType(input.Type),
		)
		if err != nil {
			log.Errorf("Failed to link account for user %s: %v", userID, err)
			return common.ProblemDetailsJSON(c, "Failed to link account", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Account linked", linked)
	}
}
