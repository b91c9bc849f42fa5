package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/confhub/conference-portal/internal/core/domain"
	"github.com/confhub/conference-portal/internal/core/token"
)

const (
	testSecret = "gatekeeper-secret"
	testCookie = "portal_session"
)

func testGatekeeper() *Gatekeeper {
	return NewGatekeeper(token.NewCodec(testSecret, token.DefaultTTL), DefaultPolicy(), testCookie)
}

func sessionCookie(value string) []*http.Cookie {
	return []*http.Cookie{{Name: testCookie, Value: value}}
}

func mintFor(t *testing.T, role domain.Role) string {
	t.Helper()
	raw, err := token.NewCodec(testSecret, token.DefaultTTL).Mint(1, role)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	return raw
}

func signClaims(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return raw
}

func TestAuthorize_PublicPathSkipsCredentialChecks(t *testing.T) {
	g := testGatekeeper()

	for _, path := range []string{"/", "/login", "/forbidden", "/health"} {
		// Garbage credential must not matter on allowlisted paths.
		d := g.Authorize(path, sessionCookie("not-a-token"))
		if d.Kind != Allow {
			t.Fatalf("Authorize(%q) = %v, want Allow", path, d.Kind)
		}
	}

	if d := g.Authorize("/login", nil); d.Kind != Allow {
		t.Fatalf("public path without credential: got %v, want Allow", d.Kind)
	}
}

func TestAuthorize_AllowlistIsExactMatch(t *testing.T) {
	g := testGatekeeper()

	d := g.Authorize("/login/reset", nil)
	if d.Kind != Redirect {
		t.Fatalf("allowlist must not match by prefix: got %v", d.Kind)
	}
}

func TestAuthorize_MissingCredentialPreservesDestination(t *testing.T) {
	g := testGatekeeper()

	d := g.Authorize("/organizer/events", nil)
	if d.Kind != Redirect || d.Location != "/login" {
		t.Fatalf("expected Redirect to /login, got %v %q", d.Kind, d.Location)
	}
	if got := d.Query.Get("redirect"); got != "/organizer/events" {
		t.Fatalf("redirect query = %q, want the original path", got)
	}
}

func TestAuthorize_BadSignatureStripsCredential(t *testing.T) {
	g := testGatekeeper()

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_type": "organizador",
		"exp":       time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("some-other-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	d := g.Authorize("/organizer", sessionCookie(forged))
	if d.Kind != StripAndRedirect || d.Location != "/login" {
		t.Fatalf("expected StripAndRedirect to /login, got %v %q", d.Kind, d.Location)
	}

	// After the strip the cookie is gone; the next attempt is the plain
	// missing-credential redirect, not a second strip.
	d = g.Authorize("/organizer", nil)
	if d.Kind != Redirect {
		t.Fatalf("follow-up request should redirect, got %v", d.Kind)
	}
}

func TestAuthorize_ExpiredCredentialStrips(t *testing.T) {
	g := testGatekeeper()

	// Issued 8 days ago with the standard 7-day lifetime.
	stale := signClaims(t, jwt.MapClaims{
		"user_type": "autor",
		"exp":       time.Now().Add(-24 * time.Hour).Unix(),
	})

	d := g.Authorize("/author/submissions", sessionCookie(stale))
	if d.Kind != StripAndRedirect || d.Location != "/login" {
		t.Fatalf("expected StripAndRedirect to /login, got %v %q", d.Kind, d.Location)
	}
}

func TestAuthorize_MissingRoleClaimRedirectsWithoutStrip(t *testing.T) {
	g := testGatekeeper()

	anonymous := signClaims(t, jwt.MapClaims{
		"sub": "3",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	d := g.Authorize("/reviewer", sessionCookie(anonymous))
	if d.Kind != Redirect || d.Location != "/login" {
		t.Fatalf("expected Redirect to /login, got %v %q", d.Kind, d.Location)
	}
}

func TestAuthorize_RoleMismatchIsForbidden(t *testing.T) {
	g := testGatekeeper()
	raw := mintFor(t, domain.RoleAuthor)

	d := g.Authorize("/organizer/events", sessionCookie(raw))
	if d.Kind != Redirect || d.Location != "/forbidden" {
		t.Fatalf("expected Redirect to /forbidden, got %v %q", d.Kind, d.Location)
	}
}

func TestAuthorize_MatchingRoleAllows(t *testing.T) {
	g := testGatekeeper()
	raw := mintFor(t, domain.RoleReviewer)

	d := g.Authorize("/reviewer/assignments", sessionCookie(raw))
	if d.Kind != Allow {
		t.Fatalf("expected Allow, got %v %q", d.Kind, d.Location)
	}
	if d.Claims == nil || d.Claims.UserType != "avaliador" {
		t.Fatalf("expected verified claims on Allow, got %+v", d.Claims)
	}
}

func TestAuthorize_ClaimComparisonIsCaseInsensitive(t *testing.T) {
	g := testGatekeeper()

	// The issuer capitalized the claim; the gatekeeper lowers it before
	// comparing against the policy table.
	raw := signClaims(t, jwt.MapClaims{
		"sub":       "5",
		"user_type": "Organizador",
		"exp":       time.Now().Add(time.Hour).Unix(),
	})

	if d := g.Authorize("/organizer", sessionCookie(raw)); d.Kind != Allow {
		t.Fatalf("expected Allow for Organizador on /organizer, got %v %q", d.Kind, d.Location)
	}
	if d := g.Authorize("/reviewer", sessionCookie(raw)); d.Kind != Redirect || d.Location != "/forbidden" {
		t.Fatalf("expected /forbidden for Organizador on /reviewer, got %v %q", d.Kind, d.Location)
	}
}

func TestAuthorize_UngatedPathDefaultsToAllow(t *testing.T) {
	g := testGatekeeper()
	raw := mintFor(t, domain.RoleAuthor)

	if d := g.Authorize("/events/123", sessionCookie(raw)); d.Kind != Allow {
		t.Fatalf("expected Allow on ungated path, got %v", d.Kind)
	}
}

func TestMiddleware_AllowInjectsClaims(t *testing.T) {
	e := echo.New()
	g := testGatekeeper()
	raw := mintFor(t, domain.RoleOrganizer)

	req := httptest.NewRequest(http.MethodGet, "/organizer", nil)
	req.AddCookie(&http.Cookie{Name: testCookie, Value: raw})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := g.Middleware()(func(c echo.Context) error {
		called = true
		if c.Get("user_type") != "organizador" {
			t.Fatalf("user_type not set: %v", c.Get("user_type"))
		}
		if c.Get("account_id") != int64(1) {
			t.Fatalf("account_id not set: %v", c.Get("account_id"))
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
}

func TestMiddleware_StripExpiresCookie(t *testing.T) {
	e := echo.New()
	g := testGatekeeper()

	req := httptest.NewRequest(http.MethodGet, "/author", nil)
	req.AddCookie(&http.Cookie{Name: testCookie, Value: "tampered"})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := g.Middleware()(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Fatalf("Location = %q, want /login", loc)
	}

	stripped := false
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == testCookie && ck.MaxAge < 0 {
			stripped = true
		}
	}
	if !stripped {
		t.Fatalf("expected an expiring Set-Cookie for %s, got %v", testCookie, rec.Header().Values("Set-Cookie"))
	}
}

func TestMiddleware_RedirectEncodesReturnPath(t *testing.T) {
	e := echo.New()
	g := testGatekeeper()

	req := httptest.NewRequest(http.MethodGet, "/reviewer/assignments", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := g.Middleware()(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	loc := rec.Header().Get("Location")
	if !strings.HasPrefix(loc, "/login?") || !strings.Contains(loc, "redirect=%2Freviewer%2Fassignments") {
		t.Fatalf("unexpected Location: %q", loc)
	}
}

func TestPolicy_FirstPrefixMatchWins(t *testing.T) {
	p := NewPolicy(nil, []PolicyEntry{
		{Prefix: "/organizer/reports", Role: domain.RoleOrganizer},
		{Prefix: "/organizer", Role: domain.RoleReviewer}, // deliberately different
	})

	role, gated := p.RequiredRole("/organizer/reports/2026")
	if !gated || role != domain.RoleOrganizer {
		t.Fatalf("expected first entry to win, got %q gated=%v", role, gated)
	}

	role, gated = p.RequiredRole("/organizer/events")
	if !gated || role != domain.RoleReviewer {
		t.Fatalf("expected fallthrough to second entry, got %q gated=%v", role, gated)
	}

	if _, gated := p.RequiredRole("/elsewhere"); gated {
		t.Fatalf("unmatched path must not be gated")
	}
}
