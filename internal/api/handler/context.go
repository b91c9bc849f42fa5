package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxRole extracts the claims injected by the gatekeeper middleware and
// fast-fails before any service call: a non-empty user_type proves the
// gatekeeper verified the credential for this request.
func ctxRole(c echo.Context) (role string, accountID int64, err error) {
	role, _ = c.Get("user_type").(string)
	if role == "" {
		return "", 0, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	accountID, _ = c.Get("account_id").(int64)
	return role, accountID, nil
}
