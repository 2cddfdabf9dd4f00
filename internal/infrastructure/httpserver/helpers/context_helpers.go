package helpers

import (
	"github.com/labstack/echo/v4"
)

// ClientKey derives the rate-limit identity for a request: the authenticated
// user when present, the source address otherwise.
func ClientKey(c echo.Context) string {
	if id, ok := GetUserIDRaw(c); ok && id != "" {
		return "user:" + id
	}
	return "ip:" + c.RealIP()
}
