package middleware

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/kurumaworks/tenkendb/internal/config"
	"github.com/kurumaworks/tenkendb/internal/services"
	"github.com/kurumaworks/tenkendb/internal/types"
)

// AuthStaff validates that the request has staff role authorization. When no
// Authorizer is configured the workshop runs single-tenant on a trusted LAN
// and the check passes through.
func AuthStaff(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cfg.AuthzURL == "" {
			return c.Next()
		}
		return authorize(c, cfg, []string{"staff"}, "records.authorization.staff")
	}
}

// authorize performs the authorization check
func authorize(c *fiber.Ctx, cfg *config.Config, roles []string, errorType string) error {
	if !services.IsAuthorizerInitialized() {
		if err := services.InitAuthorizer(cfg, c.Protocol(), c.Hostname()); err != nil {
			return &types.CustomError{
				Code:    fiber.StatusServiceUnavailable,
				Message: fmt.Sprintf("Authorizer unavailable: %v", err),
				Type:    errorType,
			}
		}
	}

	session := c.Cookies("cookie_session")
	if session == "" {
		return &types.CustomError{
			Code:    fiber.StatusForbidden,
			Message: "Authorizer cookie \"cookie_session\" not found",
			Type:    errorType,
		}
	}

	data, err := services.ValidateSession(session, roles)
	if err != nil {
		return &types.CustomError{
			Code:    fiber.StatusForbidden,
			Message: fmt.Sprintf("Invalid session: %v", err),
			Type:    errorType,
		}
	}

	if user, ok := data["user"]; ok {
		c.Locals("user", user)
	}

	return c.Next()
}
