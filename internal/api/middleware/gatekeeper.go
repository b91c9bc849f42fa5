package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/confhub/conference-portal/internal/api/metrics"
	"github.com/confhub/conference-portal/internal/core/domain"
	"github.com/confhub/conference-portal/internal/core/token"
)

// DecisionKind enumerates the three possible gatekeeper outcomes.
type DecisionKind int

const (
	// Allow lets the request through to the handler.
	Allow DecisionKind = iota
	// Redirect sends the caller elsewhere, leaving its credential alone.
	Redirect
	// StripAndRedirect deletes the credential cookie before redirecting, so
	// a broken token cannot trigger the same failure on the next request.
	StripAndRedirect
)

func (k DecisionKind) String() string {
	switch k {
	case Allow:
		return "allow"
	case Redirect:
		return "redirect"
	case StripAndRedirect:
		return "strip_and_redirect"
	default:
		return "unknown"
	}
}

// Decision is the outcome of authorizing one request. Location and Query are
// set for the redirect kinds; Claims carries the verified credential claims
// when an Allow followed a successful verification.
type Decision struct {
	Kind     DecisionKind
	Location string
	Query    url.Values
	Claims   *token.Claims
}

// Gatekeeper authorizes every navigational request before any content is
// produced. It is stateless across requests: each call re-verifies the
// credential from scratch, so a token revoked elsewhere never benefits from
// a cached verdict.
type Gatekeeper struct {
	codec      *token.Codec
	policy     Policy
	cookieName string
}

func NewGatekeeper(codec *token.Codec, policy Policy, cookieName string) *Gatekeeper {
	return &Gatekeeper{codec: codec, policy: policy, cookieName: cookieName}
}

// Authorize runs the access checks strictly in order:
//
//  1. exact public-allowlist match — Allow without touching the credential;
//  2. credential cookie absent — redirect to /login carrying the original
//     path so the caller returns to its destination after logging in;
//  3. signature/expiry verification failure — strip the cookie and redirect;
//  4. verified token without a user_type claim — redirect to /login but keep
//     the cookie (it may still be valid for profile fetch elsewhere);
//  5. no policy entry matches the path — Allow (only enumerated path groups
//     are gated);
//  6. role claim vs required role — mismatch redirects to /forbidden.
func (g *Gatekeeper) Authorize(path string, cookies []*http.Cookie) Decision {
	if g.policy.IsPublic(path) {
		return Decision{Kind: Allow}
	}

	raw, ok := cookieValue(cookies, g.cookieName)
	if !ok {
		return Decision{
			Kind:     Redirect,
			Location: "/login",
			Query:    url.Values{"redirect": {path}},
		}
	}

	claims, err := g.codec.Verify(raw)
	if err != nil {
		return Decision{Kind: StripAndRedirect, Location: "/login"}
	}

	if claims.UserType == "" {
		return Decision{Kind: Redirect, Location: "/login"}
	}
	role := domain.Role(strings.ToLower(claims.UserType))

	required, gated := g.policy.RequiredRole(path)
	if !gated {
		return Decision{Kind: Allow, Claims: &claims}
	}
	if role != required {
		return Decision{Kind: Redirect, Location: "/forbidden"}
	}
	return Decision{Kind: Allow, Claims: &claims}
}

// Middleware adapts Authorize to Echo, applying the decision and injecting
// the verified claims into the request context for downstream handlers.
func (g *Gatekeeper) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			d := g.Authorize(path, c.Request().Cookies())
			metrics.AuthzDecisionsTotal.WithLabelValues(d.Kind.String()).Inc()

			switch d.Kind {
			case Allow:
				if d.Claims != nil {
					c.Set("account_id", d.Claims.Subject)
					c.Set("user_type", strings.ToLower(d.Claims.UserType))
					c.Set("token_id", d.Claims.ID)
				}
				return next(c)

			case StripAndRedirect:
				metrics.CredentialFailuresTotal.WithLabelValues("verification").Inc()
				c.SetCookie(&http.Cookie{
					Name:     g.cookieName,
					Value:    "",
					Path:     "/",
					MaxAge:   -1,
					HttpOnly: true,
				})
				return c.Redirect(http.StatusFound, d.Location)

			default:
				loc := d.Location
				if len(d.Query) > 0 {
					loc += "?" + d.Query.Encode()
				}
				return c.Redirect(http.StatusFound, loc)
			}
		}
	}
}

func cookieValue(cookies []*http.Cookie, name string) (string, bool) {
	for _, ck := range cookies {
		if ck.Name == name && ck.Value != "" {
			return ck.Value, true
		}
	}
	return "", false
}
