package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// PageHandler serves the navigational endpoints the gatekeeper routes
// between. The real portal renders pages here; this service exposes the
// route skeleton as JSON.
type PageHandler struct{}

func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

// Landing handles GET / — the generic landing page, public.
func (h *PageHandler) Landing(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"page": "landing",
	})
}

// LoginPage handles GET /login. The redirect query parameter, when present,
// is the path the caller was denied and should return to after logging in.
func (h *PageHandler) LoginPage(c echo.Context) error {
	resp := map[string]string{"page": "login"}
	if dest := c.QueryParam("redirect"); dest != "" {
		resp["redirect"] = dest
	}
	return c.JSON(http.StatusOK, resp)
}

// Forbidden handles GET /forbidden — shown when a logged-in user reaches a
// path its role is not allowed into.
func (h *PageHandler) Forbidden(c echo.Context) error {
	return c.JSON(http.StatusForbidden, map[string]string{
		"page":  "forbidden",
		"error": "your role does not grant access to the requested page",
	})
}

// Dashboard serves the role dashboards mounted behind the gatekeeper. The
// claims are always present here: the gatekeeper only lets matching roles
// through.
func (h *PageHandler) Dashboard(c echo.Context) error {
	role, accountID, err := ctxRole(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"page":       "dashboard",
		"role":       role,
		"account_id": accountID,
	})
}
