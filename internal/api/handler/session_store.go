package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/confhub/conference-portal/internal/core/domain"
	"github.com/confhub/conference-portal/internal/core/ports"
)

// cookieCredentialStore adapts a request's cookie jar to ports.CredentialStore.
// Store and Clear write Set-Cookie headers on the in-flight response, so the
// session service's self-healing (purging a broken credential) reaches the
// browser on the same round trip.
type cookieCredentialStore struct {
	c      echo.Context
	name   string
	secure bool
}

// NewCookieCredentialStore binds a credential store to one request/response
// pair. The cookie is origin-wide, HttpOnly, and SameSite=Lax; secure
// restricts it to HTTPS transport.
func NewCookieCredentialStore(c echo.Context, name string, secure bool) ports.CredentialStore {
	return &cookieCredentialStore{c: c, name: name, secure: secure}
}

func (s *cookieCredentialStore) Token() (string, bool) {
	ck, err := s.c.Cookie(s.name)
	if err != nil || ck.Value == "" {
		return "", false
	}
	return ck.Value, true
}

func (s *cookieCredentialStore) Store(token string, expiresAt time.Time) {
	s.c.SetCookie(&http.Cookie{
		Name:     s.name,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *cookieCredentialStore) Clear() {
	s.c.SetCookie(&http.Cookie{
		Name:     s.name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// identityCollaborator exposes the local identity service through the two
// narrow contracts the session service consumes: profile fetch and
// authenticate/revoke.
type identityCollaborator struct {
	svc ports.IdentityService
}

func NewIdentityCollaborator(svc ports.IdentityService) identityCollaborator {
	return identityCollaborator{svc: svc}
}

func (a identityCollaborator) FetchProfile(ctx context.Context, token string) (domain.ProfileRecord, error) {
	return a.svc.Profile(ctx, token)
}

func (a identityCollaborator) Authenticate(ctx context.Context, email, password string) (string, error) {
	token, _, err := a.svc.Login(ctx, email, password)
	return token, err
}

func (a identityCollaborator) Revoke(ctx context.Context, token string) error {
	return a.svc.Revoke(ctx, token)
}
