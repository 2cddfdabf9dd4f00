package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/stagelink/booking-platform/internal/infrastructure/httpserver/helpers"
)

// IdentityMiddleware propagates the identity headers set by the upstream
// auth gateway onto the request context. Authentication itself is not this
// service's job; it only consumes the result for rate-limit keys and metrics.
type IdentityMiddleware struct{}

func NewIdentityMiddleware() *IdentityMiddleware { return &IdentityMiddleware{} }

func (m *IdentityMiddleware) ResolveIdentity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if id := c.Request().Header.Get("X-User-ID"); id != "" {
				helpers.SetUserID(c, id)
			}
			if role := c.Request().Header.Get("X-User-Role"); role != "" {
				helpers.SetUserRole(c, role)
			}
			return next(c)
		}
	}
}
