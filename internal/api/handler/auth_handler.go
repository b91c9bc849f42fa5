package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/confhub/conference-portal/internal/core/domain"
	"github.com/confhub/conference-portal/internal/core/ports"
)

// SessionFactory builds a session service bound to one request's cookie jar.
type SessionFactory func(echo.Context) ports.SessionService

// AuthHandler serves the authentication endpoints: session login/logout for
// the browser flow and profile fetch for credential holders.
type AuthHandler struct {
	identity   ports.IdentityService
	sessions   SessionFactory
	cookieName string
}

func NewAuthHandler(identity ports.IdentityService, sessions SessionFactory, cookieName string) *AuthHandler {
	return &AuthHandler{identity: identity, sessions: sessions, cookieName: cookieName}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Redirect  string            `json:"redirect"`
	Principal *domain.Principal `json:"principal,omitempty"`
}

type sessionResponse struct {
	Principal *domain.Principal `json:"principal"`
	Loading   bool              `json:"loading"`
}

type logoutResponse struct {
	Redirect string `json:"redirect"`
}

// Login authenticates a user, sets the session cookie, and returns the
// role-appropriate landing route.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := domain.WithRemoteIP(c.Request().Context(), c.RealIP())
	session := h.sessions(c)
	landing, err := session.Login(ctx, req.Email, req.Password)
	if err != nil {
		return err
	}

	principal, _ := session.Current()
	return c.JSON(http.StatusOK, loginResponse{Redirect: landing, Principal: principal})
}

// Logout revokes the session credential and clears the cookie. Local logout
// always succeeds, remote revocation failures included.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  logoutResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	ctx := domain.WithRemoteIP(c.Request().Context(), c.RealIP())
	redirect := h.sessions(c).Logout(ctx)
	return c.JSON(http.StatusOK, logoutResponse{Redirect: redirect})
}

// Profile returns the profile record for the presented credential. This is
// the profile-fetch collaborator endpoint the session store consumes; it
// answers 401 rather than redirecting.
//
// @Summary      Fetch the authenticated profile
// @Tags         auth
// @Produce      json
// @Success      200  {object}  domain.ProfileRecord
// @Failure      401  {object}  map[string]string
// @Router       /auth/profile [get]
func (h *AuthHandler) Profile(c echo.Context) error {
	raw, ok := h.credential(c)
	if !ok {
		return domain.ErrNoSession
	}

	ctx := domain.WithRemoteIP(c.Request().Context(), c.RealIP())
	rec, err := h.identity.Profile(ctx, raw)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rec)
}

// Session reconciles and reports the current session record for the caller's
// cookie jar: the tagged principal, or empty after self-healing a stale or
// revoked credential.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	ctx := domain.WithRemoteIP(c.Request().Context(), c.RealIP())
	session := h.sessions(c)
	session.Init(ctx)

	principal, loading := session.Current()
	return c.JSON(http.StatusOK, sessionResponse{Principal: principal, Loading: loading})
}

// credential pulls the token from the session cookie, falling back to a
// bearer Authorization header for non-browser clients.
func (h *AuthHandler) credential(c echo.Context) (string, bool) {
	if ck, err := c.Cookie(h.cookieName); err == nil && ck.Value != "" {
		return ck.Value, true
	}

	parts := strings.SplitN(c.Request().Header.Get("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") && parts[1] != "" {
		return parts[1], true
	}
	return "", false
}
