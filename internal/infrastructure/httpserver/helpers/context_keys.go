package helpers

import (
	"github.com/labstack/echo/v4"
)

type ctxKey string

const (
	keyUserID   ctxKey = "user_id"
	keyUserRole ctxKey = "user_role"
)

// SetUserID stores the authenticated user's ID on the request context.
// Authentication itself lives outside this service; upstream gateways set the
// identity headers these values come from.
func SetUserID(c echo.Context, id string) { c.Set(string(keyUserID), id) }
func GetUserIDRaw(c echo.Context) (string, bool) {
	v := c.Get(string(keyUserID))
	s, ok := v.(string)
	return s, ok
}

func SetUserRole(c echo.Context, role string) { c.Set(string(keyUserRole), role) }
func GetUserRoleRaw(c echo.Context) (string, bool) {
	v := c.Get(string(keyUserRole))
	s, ok := v.(string)
	return s, ok
}
